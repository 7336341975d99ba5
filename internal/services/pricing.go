package services

import "github.com/example/julex/internal/models"

// ResolveUnitPrice maps a buyer onto the price tier for a product. The
// wholesale price applies only to verified resellers of products that
// actually carry one; everyone else pays the consumer price. Pure
// function: order totals must be reproducible from its inputs alone.
func ResolveUnitPrice(role string, resellerVerified bool, product *models.Product) float64 {
	if role == models.RoleReseller && resellerVerified && product.PriceB2B != nil {
		return *product.PriceB2B
	}
	return product.PriceB2C
}
