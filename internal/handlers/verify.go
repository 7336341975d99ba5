package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/example/julex/internal/models"
	"github.com/example/julex/internal/services"
)

// VerifyHandler exposes the one-time-code endpoints for both channels.
type VerifyHandler struct {
	verification *services.VerificationService
}

// NewVerifyHandler constructs a VerifyHandler.
func NewVerifyHandler(verification *services.VerificationService) *VerifyHandler {
	return &VerifyHandler{verification: verification}
}

type sendOTPRequest struct {
	Target string `json:"target"`
}

// SendOTP generates and dispatches a fresh code for the channel in the path.
func (h *VerifyHandler) SendOTP(c *fiber.Ctx) error {
	channel := c.Params("channel")
	if channel != models.ChannelEmail && channel != models.ChannelPhone {
		return fiber.NewError(fiber.StatusBadRequest, "unknown verification channel")
	}

	var req sendOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.Target == "" {
		return fiber.NewError(fiber.StatusBadRequest, "target is required")
	}

	if err := h.verification.RequestCode(c.Context(), req.Target, channel); err != nil {
		if errors.Is(err, services.ErrRateLimited) {
			return fiber.NewError(fiber.StatusTooManyRequests, err.Error())
		}
		log.Printf("[Verify] send code failed for channel %s: %v", channel, err)
		return fiber.NewError(fiber.StatusInternalServerError, "failed to send verification code")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "verification code sent",
	})
}

type checkOTPRequest struct {
	Target string `json:"target"`
	Code   string `json:"code"`
}

// CheckOTP validates a submitted code for the channel in the path.
func (h *VerifyHandler) CheckOTP(c *fiber.Ctx) error {
	channel := c.Params("channel")
	if channel != models.ChannelEmail && channel != models.ChannelPhone {
		return fiber.NewError(fiber.StatusBadRequest, "unknown verification channel")
	}

	var req checkOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.Target == "" || req.Code == "" {
		return fiber.NewError(fiber.StatusBadRequest, "target and code are required")
	}

	err := h.verification.CheckCode(c.Context(), req.Target, channel, req.Code)
	if err != nil {
		var invalidCode *services.InvalidCodeError
		if errors.As(err, &invalidCode) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error":             invalidCode.Error(),
				"attemptsRemaining": invalidCode.AttemptsRemaining,
			})
		}

		switch {
		case errors.Is(err, services.ErrChallengeNotFound),
			errors.Is(err, services.ErrChallengeExpired),
			errors.Is(err, services.ErrTooManyAttempts):
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		log.Printf("[Verify] check code failed for channel %s: %v", channel, err)
		return fiber.NewError(fiber.StatusInternalServerError, "verification failed")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "verified successfully",
	})
}
