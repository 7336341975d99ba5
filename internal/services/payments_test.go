package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/example/julex/internal/models"
)

type fakeGateway struct {
	calls int
	ref   string
}

func (g *fakeGateway) CreateOrder(ctx context.Context, amount float64, currency, receipt string) (string, error) {
	g.calls++
	return g.ref, nil
}

func seedPendingOrder(t *testing.T, db *gorm.DB, paymentOrderID string) (*models.User, *models.Order) {
	t.Helper()
	user := createUser(t, db, models.RoleCustomer, false)
	order := models.Order{
		OrderNumber:    "ORD" + t.Name(),
		UserID:         user.ID,
		OrderType:      models.OrderTypeB2C,
		Status:         models.OrderStatusPending,
		Subtotal:       100,
		Tax:            18,
		Shipping:       50,
		Total:          168,
		PaymentOrderID: paymentOrderID,
	}
	require.NoError(t, db.Create(&order).Error)
	return user, &order
}

func TestCreatePaymentOrderAttachesReference(t *testing.T) {
	db := openTestDB(t)
	gateway := &fakeGateway{ref: "order_rzp_123"}
	svc := NewPaymentService(db, gateway, "secret")
	user, order := seedPendingOrder(t, db, "")

	got, err := svc.CreatePaymentOrder(context.Background(), user.ID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "order_rzp_123", got.PaymentOrderID)
	assert.Equal(t, 1, gateway.calls)

	// A second call reuses the stored reference instead of creating a new
	// processor order.
	got, err = svc.CreatePaymentOrder(context.Background(), user.ID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "order_rzp_123", got.PaymentOrderID)
	assert.Equal(t, 1, gateway.calls)
}

func TestCreatePaymentOrderUnknownOrder(t *testing.T) {
	db := openTestDB(t)
	svc := NewPaymentService(db, &fakeGateway{ref: "x"}, "secret")
	user := createUser(t, db, models.RoleCustomer, false)

	_, err := svc.CreatePaymentOrder(context.Background(), user.ID, user.ID)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestVerifyPaymentTransitionsOrder(t *testing.T) {
	db := openTestDB(t)
	svc := NewPaymentService(db, &fakeGateway{}, "secret")
	_, order := seedPendingOrder(t, db, "order_rzp_123")

	sig := SignPayment("secret", "order_rzp_123", "pay_456")
	require.NoError(t, svc.VerifyPayment(context.Background(), "order_rzp_123", "pay_456", sig))

	var got models.Order
	require.NoError(t, db.First(&got, "id = ?", order.ID).Error)
	assert.Equal(t, models.OrderStatusPaid, got.Status)
	assert.Equal(t, "pay_456", got.PaymentID)
}

func TestVerifyPaymentInvalidSignature(t *testing.T) {
	db := openTestDB(t)
	svc := NewPaymentService(db, &fakeGateway{}, "secret")
	_, order := seedPendingOrder(t, db, "order_rzp_123")

	err := svc.VerifyPayment(context.Background(), "order_rzp_123", "pay_456", "deadbeef")
	assert.ErrorIs(t, err, ErrInvalidSignature)

	var got models.Order
	require.NoError(t, db.First(&got, "id = ?", order.ID).Error)
	assert.Equal(t, models.OrderStatusPending, got.Status, "order untouched on bad signature")
	assert.Empty(t, got.PaymentID)
}

func TestVerifyPaymentWrongSecret(t *testing.T) {
	db := openTestDB(t)
	svc := NewPaymentService(db, &fakeGateway{}, "secret")
	seedPendingOrder(t, db, "order_rzp_123")

	sig := SignPayment("other-secret", "order_rzp_123", "pay_456")
	err := svc.VerifyPayment(context.Background(), "order_rzp_123", "pay_456", sig)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestVerifyPaymentUnknownOrder(t *testing.T) {
	db := openTestDB(t)
	svc := NewPaymentService(db, &fakeGateway{}, "secret")

	sig := SignPayment("secret", "order_rzp_missing", "pay_456")
	err := svc.VerifyPayment(context.Background(), "order_rzp_missing", "pay_456", sig)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestVerifyPaymentIdempotent(t *testing.T) {
	db := openTestDB(t)
	svc := NewPaymentService(db, &fakeGateway{}, "secret")
	_, order := seedPendingOrder(t, db, "order_rzp_123")

	sig := SignPayment("secret", "order_rzp_123", "pay_456")
	require.NoError(t, svc.VerifyPayment(context.Background(), "order_rzp_123", "pay_456", sig))
	require.NoError(t, svc.VerifyPayment(context.Background(), "order_rzp_123", "pay_456", sig))

	var got models.Order
	require.NoError(t, db.First(&got, "id = ?", order.ID).Error)
	assert.Equal(t, models.OrderStatusPaid, got.Status)
	assert.Equal(t, "pay_456", got.PaymentID)
}
