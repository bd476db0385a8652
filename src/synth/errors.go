package synth

import (
	"errors"
	"fmt"
)

// Sentinel errors for rejected operations
var (
	ErrInvalidFrequency  = errors.New("invalid frequency")
	ErrInvalidAmplitude  = errors.New("invalid amplitude")
	ErrInvalidFrameCount = errors.New("frame count must be positive")
	ErrInvalidPitchClass = errors.New("pitch class out of range")
	ErrUnknownEvent      = errors.New("unknown event")
	ErrBoundaryReached   = errors.New("boundary reached")
)

// BoundaryError reports an octave or waveform shift past the end of its table.
// The shift is a no-op.
type BoundaryError struct {
	Setting string // "octave", "waveform"
	Index   int
	Max     int
	Up      bool
}

func (e *BoundaryError) Error() string {
	dir := "down"
	if e.Up {
		dir = "up"
	}
	return fmt.Sprintf("cannot shift %s %s from %d (range 0-%d): %v", e.Setting, dir, e.Index, e.Max, ErrBoundaryReached)
}

// Unwrap lets errors.Is match ErrBoundaryReached.
func (e *BoundaryError) Unwrap() error {
	return ErrBoundaryReached
}

// IsBoundary reports whether err is a non-fatal boundary notification.
func IsBoundary(err error) bool {
	return errors.Is(err, ErrBoundaryReached)
}
