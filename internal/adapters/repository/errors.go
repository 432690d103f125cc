package repository

import "errors"

// Sentinel kinds for repository errors.
var (
	ErrNotFound          = errors.New("session not found")
	ErrUnsupportedFormat = errors.New("unsupported dataset format")
	ErrDecode            = errors.New("dataset decode failed")
	ErrRead              = errors.New("dataset read failed")
)
