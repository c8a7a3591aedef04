package domain

import "errors"

var (
	// Common domain errors
	ErrCorruptRecord   = errors.New("corrupt durable record")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNoReply         = errors.New("model returned no usable reply")
)
