package service

import "errors"

// Sentinel error kinds returned by the service.
var (
	ErrNotStarted         = errors.New("service not started")
	ErrBackpressure       = errors.New("redraw queue full")
	ErrAmbiguousSelection = errors.New("select a skill or a competence, not both")
	ErrNoDatasetPath      = errors.New("no dataset path configured")
)
