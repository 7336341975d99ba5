package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/example/julex/internal/models"
)

func TestResolveUnitPrice(t *testing.T) {
	b2b := 80.0
	withB2B := &models.Product{PriceB2C: 100, PriceB2B: &b2b}
	withoutB2B := &models.Product{PriceB2C: 100}

	tests := []struct {
		name     string
		role     string
		verified bool
		product  *models.Product
		want     float64
	}{
		{"verified reseller gets wholesale", models.RoleReseller, true, withB2B, 80},
		{"unverified reseller pays consumer price", models.RoleReseller, false, withB2B, 100},
		{"customer pays consumer price", models.RoleCustomer, false, withB2B, 100},
		{"verified flag alone is not enough", models.RoleCustomer, true, withB2B, 100},
		{"no wholesale price set", models.RoleReseller, true, withoutB2B, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveUnitPrice(tt.role, tt.verified, tt.product))
		})
	}
}
