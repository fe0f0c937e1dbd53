package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/fanfund/internal/api/dto"
	"github.com/spec-kit/fanfund/internal/api/validate"
	"github.com/spec-kit/fanfund/internal/service"
)

// CatalogHandler serves artists and their tiers.
type CatalogHandler struct {
	catalog   *service.CatalogService
	validator *validate.Validator
}

// NewCatalogHandler constructs handler.
func NewCatalogHandler(catalog *service.CatalogService, v *validate.Validator) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, validator: v}
}

// ListArtists handles GET /artists.
func (h *CatalogHandler) ListArtists(c *fiber.Ctx) error {
	artists, err := h.catalog.ListArtists(c.UserContext())
	if err != nil {
		return err
	}
	out := make([]dto.ArtistResponse, 0, len(artists))
	for _, a := range artists {
		out = append(out, dto.FromArtist(a))
	}
	return c.JSON(fiber.Map{"data": out})
}

// GetArtist handles GET /artists/:id.
func (h *CatalogHandler) GetArtist(c *fiber.Ctx) error {
	detail, err := h.catalog.GetArtist(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.ArtistDetailResponse{
		Artist:   dto.FromArtist(detail.Artist),
		Projects: dto.FromProjects(detail.Projects),
	}})
}

// ListTiers handles GET /artists/:id/tiers.
func (h *CatalogHandler) ListTiers(c *fiber.Ctx) error {
	tiers, err := h.catalog.ListTiers(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	out := make([]dto.TierResponse, 0, len(tiers))
	for _, t := range tiers {
		out = append(out, dto.FromTier(t))
	}
	return c.JSON(fiber.Map{"data": out})
}

// CreateTier handles POST /tiers.
func (h *CatalogHandler) CreateTier(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	var req dto.CreateTierRequest
	if err := bind(c, h.validator, &req); err != nil {
		return err
	}
	tier, err := h.catalog.CreateTier(c.UserContext(), user, req.Name, req.PriceCents)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.FromTier(*tier)})
}
