// Package config provides configuration types and defaults for the re-encoding pipeline.
package config

import "errors"

// Sentinel errors for configuration validation.
var (
	// ErrInvalidWorkers indicates a non-positive worker count.
	ErrInvalidWorkers = errors.New("workers must be at least 1")

	// ErrInvalidChunkBuffer indicates a negative chunk buffer.
	ErrInvalidChunkBuffer = errors.New("chunk buffer must be non-negative")

	// ErrInvalidCropMode indicates an unrecognized crop mode string.
	ErrInvalidCropMode = errors.New("invalid crop mode")

	// ErrInvalidCropSamples indicates a non-positive crop sample count.
	ErrInvalidCropSamples = errors.New("crop sample count must be at least 1")
)
