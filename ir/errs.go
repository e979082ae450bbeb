package ir

import "errors"

var (
	ErrValue = errors.New("value error")
)
