package models

import "time"

const (
	ChannelEmail = "email"
	ChannelPhone = "phone"
)

// VerificationChallenge tracks a pending one-time code for a single
// (target, channel) pair. Only the bcrypt hash of the code is stored,
// never the plaintext. At most one live challenge exists per pair; a new
// request replaces the old one.
type VerificationChallenge struct {
	BaseModel
	Target    string    `gorm:"uniqueIndex:idx_challenge_target_channel" json:"target"`
	Channel   string    `gorm:"uniqueIndex:idx_challenge_target_channel" json:"channel"`
	CodeHash  string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
	Attempts  int       `gorm:"default:0" json:"attempts"`
}
