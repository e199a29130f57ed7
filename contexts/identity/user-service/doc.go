// Package userservice owns anonymous-first identity. Users are created
// without credentials and are addressed by UUID; the display name is the
// only mutable attribute.
package userservice
