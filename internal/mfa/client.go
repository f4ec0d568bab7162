// Package mfa calls the external MFA verification service.
package mfa

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	id "docmint/pkg/domain"
	"docmint/pkg/platform/circuit"
	"docmint/pkg/platform/sentinel"
)

// Result is the verifier's answer for one code check. LockedUntil is set when
// the account is locked out after repeated failures.
type Result struct {
	Valid       bool
	Reason      string
	Message     string
	LockedUntil *time.Time
}

// Client is an HTTP client for the MFA service. A transport-level failure is
// reported as sentinel.ErrUnavailable so callers can distinguish "known
// invalid code" from "verifier unreachable". A circuit breaker guards the
// verifier: after repeated transport failures the client fails fast instead
// of waiting out the timeout on every request.
type Client struct {
	baseURL    string
	httpClient *http.Client
	breaker    *circuit.Breaker
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		breaker:    circuit.New("mfa", circuit.WithFailureThreshold(5), circuit.WithSuccessThreshold(2)),
	}
}

type verifyRequest struct {
	UserID            string `json:"user_id"`
	AuthenticatorCode string `json:"authenticator_code"`
}

type verifyResponse struct {
	IsValid     bool   `json:"is_valid"`
	Reason      string `json:"reason"`
	Message     string `json:"message"`
	LockedUntil *int64 `json:"locked_until,omitempty"` // unix seconds
}

// Verify checks a one-time code for a user.
func (c *Client) Verify(ctx context.Context, userID id.UserID, code string) (Result, error) {
	if c.breaker.IsOpen() && !c.breaker.AllowProbe() {
		return Result{}, fmt.Errorf("mfa verify: %w: circuit open", sentinel.ErrUnavailable)
	}

	result, err := c.verify(ctx, userID, code)
	if err != nil {
		c.breaker.RecordFailure()
		return Result{}, err
	}
	c.breaker.RecordSuccess()
	return result, nil
}

func (c *Client) verify(ctx context.Context, userID id.UserID, code string) (Result, error) {
	body, err := json.Marshal(verifyRequest{UserID: userID.String(), AuthenticatorCode: code})
	if err != nil {
		return Result{}, fmt.Errorf("encode mfa request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/mfa/verify", bytes.NewReader(body))
	if err != nil {
		return Result{}, fmt.Errorf("build mfa request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("mfa verify: %w: %w", sentinel.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Result{}, fmt.Errorf("mfa verify: %w: unexpected status %d", sentinel.ErrUnavailable, resp.StatusCode)
	}

	var vr verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&vr); err != nil {
		return Result{}, fmt.Errorf("mfa verify: %w: decode response: %w", sentinel.ErrUnavailable, err)
	}

	result := Result{Valid: vr.IsValid, Reason: vr.Reason, Message: vr.Message}
	if vr.LockedUntil != nil {
		t := time.Unix(*vr.LockedUntil, 0).UTC()
		result.LockedUntil = &t
	}
	return result, nil
}
