package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/fanfund/internal/api/dto"
	"github.com/spec-kit/fanfund/internal/api/validate"
	"github.com/spec-kit/fanfund/internal/service"
)

// FundingHandler exposes projects, investments and unlock requests.
type FundingHandler struct {
	funding   *service.FundingService
	validator *validate.Validator
}

// NewFundingHandler constructs handler.
func NewFundingHandler(funding *service.FundingService, v *validate.Validator) *FundingHandler {
	return &FundingHandler{funding: funding, validator: v}
}

// CreateProject handles POST /projects.
func (h *FundingHandler) CreateProject(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	var req dto.CreateProjectRequest
	if err := bind(c, h.validator, &req); err != nil {
		return err
	}
	project, err := h.funding.CreateProject(c.UserContext(), user, req.Title, req.Description, req.GoalCents)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.FromProject(*project)})
}

// Invest handles POST /projects/:id/investments.
func (h *FundingHandler) Invest(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	var req dto.InvestRequest
	if err := bind(c, h.validator, &req); err != nil {
		return err
	}
	inv, err := h.funding.Invest(c.UserContext(), user, c.Params("id"), req.AmountCents)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.InvestmentResponse{
		ID:          inv.ID,
		ProjectID:   inv.ProjectID,
		AmountCents: inv.AmountCents,
		CreatedAt:   inv.CreatedAt,
	}})
}

// Portfolio handles GET /portfolio.
func (h *FundingHandler) Portfolio(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	holdings, err := h.funding.Portfolio(c.UserContext(), user)
	if err != nil {
		return err
	}
	out := make([]dto.PortfolioItemResponse, 0, len(holdings))
	for _, hld := range holdings {
		out = append(out, dto.PortfolioItemResponse{Project: dto.FromProject(hld.Project), InvestedCents: hld.InvestedCents})
	}
	return c.JSON(fiber.Map{"data": out})
}

// RequestUnlock handles POST /projects/:id/unlock-requests.
func (h *FundingHandler) RequestUnlock(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	var req dto.UnlockRequestCreate
	if err := bind(c, h.validator, &req); err != nil {
		return err
	}
	unlock, err := h.funding.RequestUnlock(c.UserContext(), user, c.Params("id"), req.AmountCents, req.Reason)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.FromUnlockRequest(*unlock)})
}
