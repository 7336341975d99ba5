package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/example/julex/internal/middleware"
	"github.com/example/julex/internal/services"
)

// PaymentHandler manages payment endpoints.
type PaymentHandler struct {
	payments *services.PaymentService
}

// NewPaymentHandler constructs PaymentHandler.
func NewPaymentHandler(payments *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

type createPaymentOrderRequest struct {
	OrderID string `json:"order_id"`
}

// CreatePaymentOrder obtains a processor order reference for one of the
// authenticated user's orders.
func (h *PaymentHandler) CreatePaymentOrder(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req createPaymentOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	orderID, err := uuid.Parse(req.OrderID)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid order id")
	}

	order, err := h.payments.CreatePaymentOrder(c.Context(), userID, orderID)
	if err != nil {
		if errors.Is(err, services.ErrOrderNotFound) {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		log.Printf("[Payment] create payment order failed: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "failed to create payment order")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"order_id":         order.ID,
			"order_number":     order.OrderNumber,
			"payment_order_id": order.PaymentOrderID,
			"amount":           order.Total,
		},
	})
}

type verifyPaymentRequest struct {
	OrderRef   string `json:"order_ref"`
	PaymentRef string `json:"payment_ref"`
	Signature  string `json:"signature"`
}

// VerifyPayment validates the processor signature and finalizes the order.
func (h *PaymentHandler) VerifyPayment(c *fiber.Ctx) error {
	var req verifyPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.OrderRef == "" || req.PaymentRef == "" || req.Signature == "" {
		return fiber.NewError(fiber.StatusBadRequest, "order_ref, payment_ref and signature are required")
	}

	err := h.payments.VerifyPayment(c.Context(), req.OrderRef, req.PaymentRef, req.Signature)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidSignature):
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		case errors.Is(err, services.ErrOrderNotFound):
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		log.Printf("[Payment] verification failed: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "payment verification failed")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "payment verified successfully",
	})
}
