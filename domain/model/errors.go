package model

import (
	"fmt"
	"time"
)

// ValidationError marks bad caller input. Never retried, surfaced immediately.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// UpstreamAuthError means the OAuth code or refresh exchange was rejected by
// the provider.
type UpstreamAuthError struct {
	Description string
	Body        string
}

func (e *UpstreamAuthError) Error() string {
	if e.Description != "" {
		return e.Description
	}
	return "LinkedIn rejected the authorization request"
}

// UpstreamDeliveryError means a publish/upload call to LinkedIn failed. The
// raw body is preserved for the audit log.
type UpstreamDeliveryError struct {
	Message    string
	StatusCode int
	Body       string
}

func (e *UpstreamDeliveryError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("LinkedIn request failed with status %d", e.StatusCode)
}

// TokenExpiredError means the stored access token is past its expiry and the
// user must reconnect (the runner never refreshes mid-batch).
type TokenExpiredError struct {
	ExpiredAt time.Time
}

func (e *TokenExpiredError) Error() string { return "Token expired." }

// NotConnectedError means no LinkedIn account record exists for the user.
type NotConnectedError struct {
	UserID string
}

func (e *NotConnectedError) Error() string { return "LinkedIn not connected." }
