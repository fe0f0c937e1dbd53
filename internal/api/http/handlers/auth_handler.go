package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/fanfund/internal/api/dto"
	"github.com/spec-kit/fanfund/internal/api/validate"
	"github.com/spec-kit/fanfund/internal/auth"
	"github.com/spec-kit/fanfund/internal/domain"
	"github.com/spec-kit/fanfund/internal/service"
	apperrors "github.com/spec-kit/fanfund/pkg/util/errorutil"
)

// AuthHandler exposes login, who-am-I and logout for one actor space.
type AuthHandler struct {
	auth      *service.AuthService
	validator *validate.Validator
	audience  domain.Audience
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService, v *validate.Validator, audience domain.Audience) *AuthHandler {
	return &AuthHandler{auth: authService, validator: v, audience: audience}
}

// Register handles POST /register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := bind(c, h.validator, &req); err != nil {
		return err
	}

	user, token, err := h.auth.Register(c.UserContext(), service.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Role:     domain.AccountRole(req.Role),
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.AuthResponse{Token: token, User: dto.FromUser(user)})
}

// Login handles POST /login and POST /admin/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := bind(c, h.validator, &req); err != nil {
		return err
	}

	user, token, err := h.auth.Login(c.UserContext(), h.audience, req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(dto.AuthResponse{Token: token, User: dto.FromUser(user)})
}

// Me handles GET /me and GET /admin/me.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	return c.JSON(dto.MeResponse{User: dto.FromUser(user)})
}

// Logout handles POST /logout and POST /admin/logout.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	if err := h.auth.Logout(c.UserContext(), principal.Claims); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
