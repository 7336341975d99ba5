package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/julex/internal/models"
)

// PaymentService connects orders to the external payment processor: it
// obtains processor-side order references and finalizes orders once the
// processor's signature checks out.
type PaymentService struct {
	db      *gorm.DB
	gateway PaymentGateway
	secret  string
}

// NewPaymentService constructs a PaymentService. The secret is the key
// shared with the processor for signing (orderRef, paymentRef) pairs.
func NewPaymentService(db *gorm.DB, gateway PaymentGateway, secret string) *PaymentService {
	return &PaymentService{db: db, gateway: gateway, secret: secret}
}

// CreatePaymentOrder asks the processor for an order reference covering
// the order's total and stores it on the order so VerifyPayment can find
// the order later.
func (s *PaymentService) CreatePaymentOrder(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := s.db.WithContext(ctx).First(&order, "id = ? AND user_id = ?", orderID, userID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	if order.PaymentOrderID != "" {
		return &order, nil
	}

	ref, err := s.gateway.CreateOrder(ctx, order.Total, "INR", order.OrderNumber)
	if err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ?", order.ID).
		UpdateColumn("payment_order_id", ref).Error; err != nil {
		return nil, err
	}

	order.PaymentOrderID = ref
	return &order, nil
}

// VerifyPayment checks the processor's signature over orderRef and
// paymentRef and, when valid, transitions the order from pending to paid.
// A mismatched signature leaves the order untouched. Re-verifying an
// already-paid order is a no-op success so the processor may safely retry.
func (s *PaymentService) VerifyPayment(ctx context.Context, orderRef, paymentRef, signature string) error {
	expected := SignPayment(s.secret, orderRef, paymentRef)
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return ErrInvalidSignature
	}

	db := s.db.WithContext(ctx)

	res := db.Model(&models.Order{}).
		Where("payment_order_id = ? AND status = ?", orderRef, models.OrderStatusPending).
		Updates(map[string]interface{}{
			"status":     models.OrderStatusPaid,
			"payment_id": paymentRef,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}

	// No pending order matched: either the order does not exist or it was
	// already finalized by an earlier verification.
	var order models.Order
	err := db.First(&order, "payment_order_id = ?", orderRef).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return ErrOrderNotFound
		}
		return err
	}

	if order.Status == models.OrderStatusPaid {
		return nil
	}

	return ErrOrderNotFound
}

// SignPayment computes the processor's signature for an (orderRef,
// paymentRef) pair: hex-encoded HMAC-SHA256 over "orderRef|paymentRef".
func SignPayment(secret, orderRef, paymentRef string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderRef + "|" + paymentRef))
	return hex.EncodeToString(mac.Sum(nil))
}
