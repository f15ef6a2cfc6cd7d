package repository

import (
	"errors"
	"fmt"
)

// Sentinel kinds for store errors.
var (
	ErrNotFound          = errors.New("record not found")
	ErrUnknownCollection = errors.New("unknown collection")
	ErrIDCollision       = errors.New("could not generate a unique id")

	// ErrUnauthorized is wrapped by both login failure causes so callers can
	// treat them alike while logs keep the specific reason.
	ErrUnauthorized    = errors.New("unauthorized")
	ErrUserNotFound    = fmt.Errorf("%w: user not found", ErrUnauthorized)
	ErrInvalidPassword = fmt.Errorf("%w: invalid password", ErrUnauthorized)
)
