package chat

import "errors"

var (
	ErrEmptyMessage       = errors.New("message text is empty")
	ErrInvalidChannel     = errors.New("channel key and sender are required")
	ErrChannelUnavailable = errors.New("chat channel unavailable")
)
