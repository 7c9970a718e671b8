package domain

import "errors"

var (
	// ErrInvalidInterval signals an interval outside the allowed set.
	ErrInvalidInterval = errors.New("invalid interval")
	// ErrSpeechNotFound signals a missing speech document.
	ErrSpeechNotFound = errors.New("speech not found")
)
