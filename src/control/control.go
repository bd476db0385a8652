// Package control holds the event sources that drive the synth from outside
// the process: a unix-socket line protocol, an HTTP API and the terminal.
package control

import (
	"context"

	"github.com/jinjor/additive-synth/src/audio"
	"github.com/jinjor/additive-synth/src/synth"
)

// Engine is the part of audio.Audio the event sources need.
type Engine interface {
	Send(ctx context.Context, e synth.Event) error
	State() synth.VoiceState
	Spectrum() audio.Spectrum
}

var _ Engine = (*audio.Audio)(nil)
