package domain

import "errors"

var (
	ErrTokenMissing = errors.New("missing token")
	ErrTokenInvalid = errors.New("invalid token")
)

// ErrBadRequest marks input rejected before it reaches a store.
var ErrBadRequest = errors.New("bad request")
