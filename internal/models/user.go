package models

import "github.com/google/uuid"

const (
	RoleCustomer = "customer"
	RoleReseller = "reseller"
	RoleAdmin    = "admin"
)

// User represents a customer or reseller account.
type User struct {
	BaseModel
	Name         string           `json:"name"`
	Email        string           `gorm:"uniqueIndex" json:"email"`
	Phone        string           `json:"phone"`
	PasswordHash string           `json:"-"`
	Role         string           `gorm:"default:customer" json:"role"`
	Reseller     *ResellerProfile `json:"reseller,omitempty"`
	Orders       []Order          `json:"orders,omitempty"`
}

// ResellerProfile marks an account as eligible for B2B pricing once verified.
type ResellerProfile struct {
	BaseModel
	UserID       uuid.UUID `gorm:"type:uuid;uniqueIndex" json:"user_id"`
	BusinessName string    `json:"business_name"`
	BusinessType string    `json:"business_type"`
	IsVerified   bool      `gorm:"default:false" json:"is_verified"`
}
