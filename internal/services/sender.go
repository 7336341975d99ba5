package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"
)

// CodeSender dispatches a one-time code to its target out-of-band.
type CodeSender interface {
	Send(target, code string) error
}

// EmailCodeSender delivers verification codes through the Resend HTTP API.
type EmailCodeSender struct {
	apiKey string
	from   string
	client *http.Client
}

// NewEmailCodeSender creates an EmailCodeSender.
func NewEmailCodeSender(apiKey, from string) *EmailCodeSender {
	return &EmailCodeSender{
		apiKey: apiKey,
		from:   from,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

type resendEmail struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// Send emails the code to the target address.
func (s *EmailCodeSender) Send(target, code string) error {
	if s.apiKey == "" {
		log.Println("[Email] API key not configured")
		return fmt.Errorf("email service not configured")
	}

	msg := resendEmail{
		From:    s.from,
		To:      []string{target},
		Subject: "Your Verification Code",
		HTML: fmt.Sprintf(`<div style="font-family: sans-serif; padding: 20px; color: #333;">
<h2>Verify your email</h2>
<p>Your 6-digit verification code for Julex is:</p>
<div style="font-size: 32px; font-weight: bold; letter-spacing: 5px;">%s</div>
<p>This code will expire in 5 minutes.</p>
<p>If you didn't request this code, please ignore this email.</p>
</div>`, code),
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, "https://api.resend.com/emails", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		log.Printf("[Email] Failed to send message: %v", err)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("[Email] Unexpected status: %d", resp.StatusCode)
		return fmt.Errorf("email provider returned status %d", resp.StatusCode)
	}

	return nil
}

// PhoneCodeSender is the server-backed fallback for phone verification.
// SMS delivery normally happens through the external provider the client
// talks to directly; this sender only logs the code so operators can relay
// it when that provider is unreachable.
type PhoneCodeSender struct{}

// Send logs the code for the backup channel.
func (PhoneCodeSender) Send(target, code string) error {
	log.Printf("[SMS backup] target=%s code=%s", target, code)
	return nil
}
