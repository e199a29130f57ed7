package errors

import "errors"

var (
	ErrInvalidRequest = errors.New("invalid request")
	ErrRoomNotFound   = errors.New("room not found")
	ErrCodeExhausted  = errors.New("room code space exhausted")
)
