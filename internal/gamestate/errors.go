package gamestate

import (
	"errors"

	"github.com/pable/go-cs-gamestate/internal/geometry"
)

var (
	// ErrLoad is matched by every *LoadError.
	ErrLoad = errors.New("load game state")

	// ErrInvalidRegion is matched by every *geometry.InvalidRegionError.
	ErrInvalidRegion = geometry.ErrInvalidRegion

	// ErrNoQualifyingData is returned by queries whose filters match nothing.
	// The accompanying result is empty but valid.
	ErrNoQualifyingData = errors.New("no qualifying data")

	// ErrInvalidThreshold is returned for a non-positive armed-player threshold.
	ErrInvalidThreshold = errors.New("threshold must be at least 1")
)

// LoadError wraps a failure to read or decode the record source.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	if e.Source == "" {
		return "load game state: " + e.Err.Error()
	}
	return "load game state from " + e.Source + ": " + e.Err.Error()
}

func (e *LoadError) Unwrap() error { return e.Err }

func (e *LoadError) Is(target error) bool { return target == ErrLoad }
