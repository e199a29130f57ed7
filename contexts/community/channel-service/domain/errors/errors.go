package errors

import "errors"

var (
	ErrInvalidRequest  = errors.New("invalid request")
	ErrChannelNotFound = errors.New("channel not found")
	ErrChannelExists   = errors.New("channel already exists")
)
