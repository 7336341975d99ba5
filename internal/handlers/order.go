package handlers

import (
	"encoding/json"
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/example/julex/internal/middleware"
	"github.com/example/julex/internal/services"
	"github.com/example/julex/internal/utils"
)

// OrderHandler manages order endpoints.
type OrderHandler struct {
	orders *services.OrderService
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(orders *services.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

type orderItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type createOrderRequest struct {
	Items           []orderItemRequest `json:"items"`
	ShippingAddress json.RawMessage    `json:"shipping_address"`
	BillingAddress  json.RawMessage    `json:"billing_address"`
	Notes           string             `json:"notes"`
}

// CreateOrder places an order for the authenticated user. Prices are
// resolved server-side from the buyer's tier; the client only submits
// product IDs and quantities.
func (h *OrderHandler) CreateOrder(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req createOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	input := services.PlaceOrderInput{
		ShippingAddress: string(req.ShippingAddress),
		BillingAddress:  string(req.BillingAddress),
		Notes:           req.Notes,
	}
	for _, item := range req.Items {
		productID, err := uuid.Parse(item.ProductID)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid product id")
		}
		input.Items = append(input.Items, services.PlaceOrderItem{
			ProductID: productID,
			Quantity:  item.Quantity,
		})
	}

	order, err := h.orders.PlaceOrder(c.Context(), userID, input)
	if err != nil {
		var notFound *services.ProductNotFoundError
		var noStock *services.InsufficientStockError
		switch {
		case errors.As(err, &notFound):
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		case errors.As(err, &noStock),
			errors.Is(err, services.ErrEmptyOrder),
			errors.Is(err, services.ErrInvalidQuantity):
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		case errors.Is(err, services.ErrUserNotFound):
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		log.Printf("[Order] place order failed for user %s: %v", userID, err)
		return fiber.NewError(fiber.StatusInternalServerError, "failed to create order")
	}

	return c.JSON(fiber.Map{"success": true, "data": order})
}

// ListOrders returns orders for the authenticated user.
func (h *OrderHandler) ListOrders(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	pg := utils.ParsePagination(c)
	orders, total, err := h.orders.ListOrders(c.Context(), userID, c.Query("status"), pg.Limit, pg.Offset)
	if err != nil {
		log.Printf("[Order] list orders failed for user %s: %v", userID, err)
		return fiber.NewError(fiber.StatusInternalServerError, "failed to list orders")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    orders,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

// GetOrder returns a single order for the authenticated user.
func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	order, err := h.orders.GetOrder(c.Context(), userID, id)
	if err != nil {
		if errors.Is(err, services.ErrOrderNotFound) {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": order})
}
