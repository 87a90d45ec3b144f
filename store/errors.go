package store

import "errors"

var (
	ErrNotFound    = errors.New("store: not found")
	ErrInvalidCID  = errors.New("store: invalid cid")
	ErrCIDMismatch = errors.New("store: cid mismatch")
	ErrImmutable   = errors.New("store: immutable record mismatch")
)

func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }
