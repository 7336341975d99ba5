package services

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/example/julex/internal/models"
	"github.com/example/julex/internal/utils"
)

const (
	codeTTL        = 5 * time.Minute
	maxAttempts    = 5
	resendCooldown = 60 * time.Second
)

// VerificationService issues and checks one-time codes. The contract is
// channel-agnostic: email and phone differ only in the sender used to
// dispatch the code. At most one live challenge exists per (target,
// channel) pair and only the code's hash is ever stored.
type VerificationService struct {
	db      *gorm.DB
	senders map[string]CodeSender
}

// NewVerificationService constructs a VerificationService with per-channel
// code senders.
func NewVerificationService(db *gorm.DB, email, phone CodeSender) *VerificationService {
	return &VerificationService{
		db: db,
		senders: map[string]CodeSender{
			models.ChannelEmail: email,
			models.ChannelPhone: phone,
		},
	}
}

// RequestCode generates a fresh 6-digit code for the pair, replacing any
// pending challenge and resetting its attempt count. Challenge storage and
// dispatch share one transaction: if the sender fails, no challenge is
// left behind.
func (s *VerificationService) RequestCode(ctx context.Context, target, channel string) error {
	sender, ok := s.senders[channel]
	if !ok {
		return fmt.Errorf("unknown verification channel %q", channel)
	}

	code, err := generateCode()
	if err != nil {
		return err
	}

	codeHash, err := utils.HashCode(code)
	if err != nil {
		return err
	}

	now := time.Now()
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.VerificationChallenge
		err := tx.Where("target = ? AND channel = ?", target, channel).First(&existing).Error
		if err == nil {
			if now.Sub(existing.CreatedAt) < resendCooldown && now.Before(existing.ExpiresAt) {
				return ErrRateLimited
			}
		} else if err != gorm.ErrRecordNotFound {
			return err
		}

		challenge := models.VerificationChallenge{
			Target:    target,
			Channel:   channel,
			CodeHash:  codeHash,
			ExpiresAt: now.Add(codeTTL),
		}

		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "target"}, {Name: "channel"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"code_hash":  codeHash,
				"expires_at": now.Add(codeTTL),
				"attempts":   0,
				"created_at": now,
				"updated_at": now,
			}),
		}).Create(&challenge).Error; err != nil {
			return err
		}

		return sender.Send(target, code)
	})
}

// CheckCode validates a submitted code against the pending challenge for
// the pair. Expiry is checked lazily here; expired or exhausted challenges
// are deleted so the pair collapses back to its unrequested state. A
// matching code consumes the challenge: replays fail with
// ErrChallengeNotFound.
func (s *VerificationService) CheckCode(ctx context.Context, target, channel, code string) error {
	db := s.db.WithContext(ctx)

	var challenge models.VerificationChallenge
	err := db.Where("target = ? AND channel = ?", target, channel).First(&challenge).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return ErrChallengeNotFound
		}
		return err
	}

	if time.Now().After(challenge.ExpiresAt) {
		if err := db.Delete(&models.VerificationChallenge{}, "id = ?", challenge.ID).Error; err != nil {
			return err
		}
		return ErrChallengeExpired
	}

	if challenge.Attempts >= maxAttempts {
		if err := db.Delete(&models.VerificationChallenge{}, "id = ?", challenge.ID).Error; err != nil {
			return err
		}
		return ErrTooManyAttempts
	}

	if !utils.CheckCodeHash(challenge.CodeHash, code) {
		// Atomic increment so concurrent checks cannot lose attempts.
		if err := db.Model(&models.VerificationChallenge{}).
			Where("id = ?", challenge.ID).
			UpdateColumn("attempts", gorm.Expr("attempts + 1")).Error; err != nil {
			return err
		}
		return &InvalidCodeError{AttemptsRemaining: maxAttempts - (challenge.Attempts + 1)}
	}

	// Single use: the delete is conditional so an in-flight concurrent
	// check or overwrite cannot double-spend the same challenge.
	res := db.Where("id = ? AND code_hash = ?", challenge.ID, challenge.CodeHash).
		Delete(&models.VerificationChallenge{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrChallengeNotFound
	}

	return nil
}

func generateCode() (string, error) {
	max := big.NewInt(1000000)
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
