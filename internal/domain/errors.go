package domain

import "errors"

var (
	ErrUnknownTag      = errors.New("unknown tag")
	ErrSessionNotFound = errors.New("session not found")
)
