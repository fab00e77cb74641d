package auth

import "errors"

// ErrInvalidToken is returned when a token fails signature or claim checks.
var ErrInvalidToken = errors.New("auth: invalid token")
