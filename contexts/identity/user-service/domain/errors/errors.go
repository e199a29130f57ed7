package errors

import "errors"

var (
	ErrInvalidRequest = errors.New("invalid request")
	ErrUserNotFound   = errors.New("user not found")
)
