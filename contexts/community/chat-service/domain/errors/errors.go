package errors

import "errors"

var (
	ErrInvalidRequest         = errors.New("invalid request")
	ErrInvalidScope           = errors.New("exactly one of room or channel scope required")
	ErrInvalidKind            = errors.New("invalid message kind")
	ErrInvalidReaction        = errors.New("invalid reaction kind")
	ErrMessageNotFound        = errors.New("message not found")
	ErrIdempotencyKeyRequired = errors.New("idempotency key required")
	ErrIdempotencyConflict    = errors.New("idempotency key reused with a different request")
)
