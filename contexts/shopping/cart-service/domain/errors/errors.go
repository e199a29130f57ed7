package errors

import "errors"

var (
	ErrInvalidProduct       = errors.New("product reference is missing required fields")
	ErrNegativeLimit        = errors.New("ranking limit must not be negative")
	ErrInvalidScope         = errors.New("cart scope must name exactly one of room or channel")
	ErrCartNotFound         = errors.New("cart not found")
	ErrInvalidVoteDirection = errors.New("vote direction must be up or down")
	ErrInvalidReactionKind  = errors.New("reaction kind must be like, heart or fire")
	ErrConflict             = errors.New("cart conflict")
)
