package errors

import "errors"

var (
	ErrInvalidRequest  = errors.New("invalid request")
	ErrProductNotFound = errors.New("product not found")
	ErrMalformedPrice  = errors.New("malformed display price")
	ErrUnknownHost     = errors.New("unknown product host")
)
