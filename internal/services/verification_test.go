package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/example/julex/internal/models"
	"github.com/example/julex/internal/utils"
)

type captureSender struct {
	codes []string
	fail  bool
}

func (s *captureSender) Send(target, code string) error {
	if s.fail {
		return fmt.Errorf("provider unreachable")
	}
	s.codes = append(s.codes, code)
	return nil
}

func (s *captureSender) last() string {
	return s.codes[len(s.codes)-1]
}

func newTestGate(t *testing.T) (*VerificationService, *captureSender, *gorm.DB) {
	db := openTestDB(t)
	sender := &captureSender{}
	return NewVerificationService(db, sender, sender), sender, db
}

// backdateChallenge shifts a challenge's timestamps so cooldown and expiry
// paths can be exercised without sleeping.
func backdateChallenge(t *testing.T, db *gorm.DB, target, channel string, by time.Duration) {
	t.Helper()
	res := db.Model(&models.VerificationChallenge{}).
		Where("target = ? AND channel = ?", target, channel).
		Updates(map[string]interface{}{
			"created_at": time.Now().Add(-by),
			"expires_at": time.Now().Add(codeTTL - by),
		})
	require.NoError(t, res.Error)
	require.EqualValues(t, 1, res.RowsAffected)
}

func TestRequestCodeStoresHashOnly(t *testing.T) {
	gate, sender, db := newTestGate(t)
	ctx := context.Background()

	require.NoError(t, gate.RequestCode(ctx, "a@example.com", models.ChannelEmail))
	require.Len(t, sender.codes, 1)
	require.Len(t, sender.last(), 6)

	var challenge models.VerificationChallenge
	require.NoError(t, db.First(&challenge, "target = ?", "a@example.com").Error)

	assert.NotEqual(t, sender.last(), challenge.CodeHash)
	assert.True(t, utils.CheckCodeHash(challenge.CodeHash, sender.last()))
	assert.Equal(t, 0, challenge.Attempts)
	assert.WithinDuration(t, time.Now().Add(codeTTL), challenge.ExpiresAt, 5*time.Second)
}

func TestRequestCodeCooldown(t *testing.T) {
	gate, _, _ := newTestGate(t)
	ctx := context.Background()

	require.NoError(t, gate.RequestCode(ctx, "a@example.com", models.ChannelEmail))
	err := gate.RequestCode(ctx, "a@example.com", models.ChannelEmail)
	assert.ErrorIs(t, err, ErrRateLimited)
}

func TestRequestCodeReplacesPendingChallenge(t *testing.T) {
	gate, sender, db := newTestGate(t)
	ctx := context.Background()

	require.NoError(t, gate.RequestCode(ctx, "a@example.com", models.ChannelEmail))
	first := sender.last()

	backdateChallenge(t, db, "a@example.com", models.ChannelEmail, 2*time.Minute)
	require.NoError(t, gate.RequestCode(ctx, "a@example.com", models.ChannelEmail))
	second := sender.last()

	// Still exactly one live challenge for the pair.
	var count int64
	require.NoError(t, db.Model(&models.VerificationChallenge{}).
		Where("target = ?", "a@example.com").Count(&count).Error)
	assert.EqualValues(t, 1, count)

	if first != second {
		var invalid *InvalidCodeError
		err := gate.CheckCode(ctx, "a@example.com", models.ChannelEmail, first)
		require.ErrorAs(t, err, &invalid)
	}
	assert.NoError(t, gate.CheckCode(ctx, "a@example.com", models.ChannelEmail, second))
}

func TestRequestCodeSenderFailureLeavesNoChallenge(t *testing.T) {
	db := openTestDB(t)
	sender := &captureSender{fail: true}
	gate := NewVerificationService(db, sender, sender)

	err := gate.RequestCode(context.Background(), "a@example.com", models.ChannelEmail)
	require.Error(t, err)

	var count int64
	require.NoError(t, db.Model(&models.VerificationChallenge{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestRequestCodeUnknownChannel(t *testing.T) {
	gate, _, _ := newTestGate(t)
	require.Error(t, gate.RequestCode(context.Background(), "a@example.com", "carrier-pigeon"))
}

func TestCheckCodeMissingChallenge(t *testing.T) {
	gate, _, _ := newTestGate(t)
	err := gate.CheckCode(context.Background(), "a@example.com", models.ChannelEmail, "123456")
	assert.ErrorIs(t, err, ErrChallengeNotFound)
}

func TestCheckCodeExpired(t *testing.T) {
	gate, sender, db := newTestGate(t)
	ctx := context.Background()

	require.NoError(t, gate.RequestCode(ctx, "a@example.com", models.ChannelEmail))
	backdateChallenge(t, db, "a@example.com", models.ChannelEmail, codeTTL+time.Second)

	// Even the correct code fails once the TTL has passed.
	err := gate.CheckCode(ctx, "a@example.com", models.ChannelEmail, sender.last())
	assert.ErrorIs(t, err, ErrChallengeExpired)

	var count int64
	require.NoError(t, db.Model(&models.VerificationChallenge{}).Count(&count).Error)
	assert.EqualValues(t, 0, count, "expired challenge should be deleted")
}

func TestCheckCodeAttemptCap(t *testing.T) {
	gate, sender, db := newTestGate(t)
	ctx := context.Background()

	require.NoError(t, gate.RequestCode(ctx, "a@example.com", models.ChannelEmail))

	wrong := "000000"
	if wrong == sender.last() {
		wrong = "000001"
	}

	for i := 1; i <= maxAttempts; i++ {
		err := gate.CheckCode(ctx, "a@example.com", models.ChannelEmail, wrong)
		var invalid *InvalidCodeError
		require.ErrorAs(t, err, &invalid)
		assert.Equal(t, maxAttempts-i, invalid.AttemptsRemaining)
	}

	// The exhausted challenge is discarded on the next check.
	err := gate.CheckCode(ctx, "a@example.com", models.ChannelEmail, sender.last())
	assert.ErrorIs(t, err, ErrTooManyAttempts)

	var count int64
	require.NoError(t, db.Model(&models.VerificationChallenge{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)

	err = gate.CheckCode(ctx, "a@example.com", models.ChannelEmail, sender.last())
	assert.ErrorIs(t, err, ErrChallengeNotFound)
}

func TestCheckCodeSingleUse(t *testing.T) {
	gate, sender, _ := newTestGate(t)
	ctx := context.Background()

	require.NoError(t, gate.RequestCode(ctx, "a@example.com", models.ChannelEmail))
	require.NoError(t, gate.CheckCode(ctx, "a@example.com", models.ChannelEmail, sender.last()))

	err := gate.CheckCode(ctx, "a@example.com", models.ChannelEmail, sender.last())
	assert.ErrorIs(t, err, ErrChallengeNotFound)
}

func TestChannelsAreIndependent(t *testing.T) {
	gate, sender, _ := newTestGate(t)
	ctx := context.Background()

	require.NoError(t, gate.RequestCode(ctx, "+919999999999", models.ChannelPhone))
	phoneCode := sender.last()
	require.NoError(t, gate.RequestCode(ctx, "a@example.com", models.ChannelEmail))
	emailCode := sender.last()

	require.NoError(t, gate.CheckCode(ctx, "+919999999999", models.ChannelPhone, phoneCode))

	// Consuming the phone challenge must not touch the email one.
	require.NoError(t, gate.CheckCode(ctx, "a@example.com", models.ChannelEmail, emailCode))
}

func TestCheckCodeWrongThenRight(t *testing.T) {
	gate, sender, _ := newTestGate(t)
	ctx := context.Background()

	require.NoError(t, gate.RequestCode(ctx, "a@example.com", models.ChannelEmail))

	wrong := "000000"
	if wrong == sender.last() {
		wrong = "000001"
	}

	err := gate.CheckCode(ctx, "a@example.com", models.ChannelEmail, wrong)
	var invalid *InvalidCodeError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, maxAttempts-1, invalid.AttemptsRemaining)

	assert.NoError(t, gate.CheckCode(ctx, "a@example.com", models.ChannelEmail, sender.last()))
}
