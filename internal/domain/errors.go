package domain

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrProviderFailure   = errors.New("provider failure")
	ErrGenerationTimeout = errors.New("generation timed out")
	ErrDownloadFailure   = errors.New("download failure")
)
