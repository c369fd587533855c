// internal/vp/errors.go
package vp

import "errors"

var (
	ErrUnknownAddress = errors.New("vp: unknown address")
	ErrUnknownName    = errors.New("vp: unknown name")
	ErrTypeMismatch   = errors.New("vp: type mismatch")
	ErrOutOfRange     = errors.New("vp: value out of range")
)
