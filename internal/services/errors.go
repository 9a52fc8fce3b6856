package services

import "fmt"

// Validation reasons surfaced on POST /api/message.
const (
	ReasonMissing = "missing"
	ReasonEmpty   = "empty"
	ReasonTooLong = "tooLong"
)

// ValidationError rejects a chat request before any storage or network I/O.
type ValidationError struct {
	Reason string
	Length int // set for tooLong
}

func (e *ValidationError) Error() string { return "validation failed: " + e.Reason }

type NotFoundError struct{ Message string }

func (e *NotFoundError) Error() string { return e.Message }

// GatewayAuthError means the provider rejected our credentials.
type GatewayAuthError struct{ Err error }

func (e *GatewayAuthError) Error() string { return "completion provider rejected credentials" }
func (e *GatewayAuthError) Unwrap() error { return e.Err }

// GatewayRateLimitError means the provider throttled us.
type GatewayRateLimitError struct{ Err error }

func (e *GatewayRateLimitError) Error() string { return "completion provider rate limited" }
func (e *GatewayRateLimitError) Unwrap() error { return e.Err }

// ModelsExhaustedError means every candidate model failed. LastErr carries
// the final observed failure for diagnostics.
type ModelsExhaustedError struct {
	Attempts int
	LastErr  error
}

func (e *ModelsExhaustedError) Error() string {
	return fmt.Sprintf("all %d candidate models failed: %v", e.Attempts, e.LastErr)
}
func (e *ModelsExhaustedError) Unwrap() error { return e.LastErr }

// StorageError wraps a persistence fault.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string { return fmt.Sprintf("storage %s failed: %v", e.Op, e.Err) }
func (e *StorageError) Unwrap() error { return e.Err }
