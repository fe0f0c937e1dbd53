package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/fanfund/internal/api/dto"
	"github.com/spec-kit/fanfund/internal/api/validate"
	"github.com/spec-kit/fanfund/internal/domain"
	"github.com/spec-kit/fanfund/internal/service"
)

// AdminHandler exposes the review queues to administrators.
type AdminHandler struct {
	review    *service.ReviewService
	validator *validate.Validator
}

// NewAdminHandler constructs handler.
func NewAdminHandler(review *service.ReviewService, v *validate.Validator) *AdminHandler {
	return &AdminHandler{review: review, validator: v}
}

// ListProjects handles GET /admin/projects?status=.
func (h *AdminHandler) ListProjects(c *fiber.Ctx) error {
	projects, err := h.review.ListProjects(c.UserContext(), c.Query("status"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromProjects(projects)})
}

// ReviewProject handles POST /admin/projects/:id/review.
func (h *AdminHandler) ReviewProject(c *fiber.Ctx) error {
	admin, err := currentUser(c)
	if err != nil {
		return err
	}
	var req dto.ReviewRequest
	if err := bind(c, h.validator, &req); err != nil {
		return err
	}
	project, err := h.review.ReviewProject(c.UserContext(), admin, c.Params("id"), domain.ReviewDecision(req.Decision), req.Note)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromProject(*project)})
}

// ListUnlockRequests handles GET /admin/unlock-requests?status=.
func (h *AdminHandler) ListUnlockRequests(c *fiber.Ctx) error {
	reqs, err := h.review.ListUnlockRequests(c.UserContext(), c.Query("status"))
	if err != nil {
		return err
	}
	out := make([]dto.UnlockRequestResponse, 0, len(reqs))
	for _, r := range reqs {
		out = append(out, dto.FromUnlockRequest(r))
	}
	return c.JSON(fiber.Map{"data": out})
}

// ReviewUnlock handles POST /admin/unlock-requests/:id/review.
func (h *AdminHandler) ReviewUnlock(c *fiber.Ctx) error {
	admin, err := currentUser(c)
	if err != nil {
		return err
	}
	var req dto.ReviewRequest
	if err := bind(c, h.validator, &req); err != nil {
		return err
	}
	unlock, err := h.review.ReviewUnlock(c.UserContext(), admin, c.Params("id"), domain.ReviewDecision(req.Decision), req.Note)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromUnlockRequest(*unlock)})
}
