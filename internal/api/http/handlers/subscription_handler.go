package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/fanfund/internal/api/dto"
	"github.com/spec-kit/fanfund/internal/api/validate"
	"github.com/spec-kit/fanfund/internal/service"
)

// SubscriptionHandler runs tier checkout.
type SubscriptionHandler struct {
	checkout  *service.CheckoutService
	validator *validate.Validator
}

// NewSubscriptionHandler constructs handler.
func NewSubscriptionHandler(checkout *service.CheckoutService, v *validate.Validator) *SubscriptionHandler {
	return &SubscriptionHandler{checkout: checkout, validator: v}
}

// Checkout handles POST /subscriptions/checkout.
func (h *SubscriptionHandler) Checkout(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	var req dto.CheckoutRequest
	if err := bind(c, h.validator, &req); err != nil {
		return err
	}
	session, err := h.checkout.Checkout(c.UserContext(), user, req.TierID)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.CheckoutResponse{
		SessionID:      session.ID,
		ClientSecret:   session.ClientSecret,
		PublishableKey: session.PublishableKey,
		Provider:       session.Provider,
	}})
}

// Confirm handles POST /subscriptions/confirm.
func (h *SubscriptionHandler) Confirm(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	var req dto.ConfirmCheckoutRequest
	if err := bind(c, h.validator, &req); err != nil {
		return err
	}
	sub, err := h.checkout.Confirm(c.UserContext(), user, req.SessionID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.SubscriptionResponse{ID: sub.ID, TierID: sub.TierID, Status: string(sub.Status)}})
}
