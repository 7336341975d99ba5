package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/julex/internal/models"
)

const (
	taxRate           = 0.18
	flatShippingFee   = 50
	freeShippingAbove = 1000
)

// OrderService validates, prices and persists orders, reserving stock as
// part of the same transactional unit.
type OrderService struct {
	db *gorm.DB
}

// NewOrderService constructs an OrderService.
func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{db: db}
}

// PlaceOrderItem is one requested line of an order.
type PlaceOrderItem struct {
	ProductID uuid.UUID
	Quantity  int
}

// PlaceOrderInput carries everything PlaceOrder needs beyond the caller's
// identity. Addresses arrive as serialized JSON from the client.
type PlaceOrderInput struct {
	Items           []PlaceOrderItem
	ShippingAddress string
	BillingAddress  string
	Notes           string
}

// PlaceOrder executes the whole order pipeline in one database
// transaction: resolve the buyer's price tier, validate and price every
// item, compute totals, persist the order with its items, and decrement
// stock. The decrement is a conditional update keyed on remaining
// quantity, so two concurrent orders can never both drain the same stock;
// losing the race rolls the entire order back.
func (s *OrderService) PlaceOrder(ctx context.Context, userID uuid.UUID, input PlaceOrderInput) (*models.Order, error) {
	if len(input.Items) == 0 {
		return nil, ErrEmptyOrder
	}
	for _, item := range input.Items {
		if item.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
	}

	var order models.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Preload("Reseller").First(&user, "id = ?", userID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrUserNotFound
			}
			return err
		}

		orderType := models.OrderTypeB2C
		resellerVerified := user.Reseller != nil && user.Reseller.IsVerified
		if user.Role == models.RoleReseller && resellerVerified {
			orderType = models.OrderTypeB2B
		}

		var subtotal float64
		items := make([]models.OrderItem, 0, len(input.Items))
		for _, requested := range input.Items {
			var product models.Product
			if err := tx.First(&product, "id = ?", requested.ProductID).Error; err != nil {
				if err == gorm.ErrRecordNotFound {
					return &ProductNotFoundError{ProductID: requested.ProductID}
				}
				return err
			}

			if product.StockQuantity < requested.Quantity {
				return &InsufficientStockError{ProductName: product.Name}
			}

			unitPrice := ResolveUnitPrice(user.Role, resellerVerified, &product)
			totalPrice := unitPrice * float64(requested.Quantity)
			subtotal += totalPrice

			items = append(items, models.OrderItem{
				ProductID:  product.ID,
				Quantity:   requested.Quantity,
				UnitPrice:  unitPrice,
				TotalPrice: totalPrice,
			})
		}

		shipping := float64(flatShippingFee)
		if subtotal > freeShippingAbove {
			shipping = 0
		}
		tax := round2(subtotal * taxRate)

		order = models.Order{
			OrderNumber:     generateOrderNumber(),
			UserID:          user.ID,
			OrderType:       orderType,
			Status:          models.OrderStatusPending,
			Subtotal:        subtotal,
			Tax:             tax,
			Shipping:        shipping,
			Total:           round2(subtotal + tax + shipping),
			ShippingAddress: input.ShippingAddress,
			BillingAddress:  input.BillingAddress,
			Notes:           input.Notes,
			PlacedAt:        time.Now(),
			Items:           items,
		}

		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		// Reserve stock inside the same transaction. The quantity guard
		// re-checks availability at write time, closing the race between
		// the read above and this decrement.
		for _, requested := range input.Items {
			res := tx.Model(&models.Product{}).
				Where("id = ? AND stock_quantity >= ?", requested.ProductID, requested.Quantity).
				UpdateColumn("stock_quantity", gorm.Expr("stock_quantity - ?", requested.Quantity))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				var product models.Product
				name := requested.ProductID.String()
				if err := tx.First(&product, "id = ?", requested.ProductID).Error; err == nil {
					name = product.Name
				}
				return &InsufficientStockError{ProductName: name}
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &order, nil
}

// ListOrders returns the user's orders, newest first.
func (s *OrderService) ListOrders(ctx context.Context, userID uuid.UUID, status string, limit, offset int) ([]models.Order, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Order{}).Where("user_id = ?", userID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []models.Order
	if err := query.Preload("Items").Preload("Items.Product").
		Order("placed_at desc").
		Limit(limit).Offset(offset).
		Find(&orders).Error; err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

// GetOrder returns one of the user's orders by ID.
func (s *OrderService) GetOrder(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := s.db.WithContext(ctx).Preload("Items").Preload("Items.Product").
		First(&order, "id = ? AND user_id = ?", orderID, userID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	return &order, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func generateOrderNumber() string {
	return fmt.Sprintf("ORD%s%06d", time.Now().Format("20060102"), time.Now().UnixNano()%1000000)
}
