package control

import (
	"context"
	"io"
	"testing"

	"github.com/jinjor/additive-synth/src/synth"
)

func TestKeyEvent(t *testing.T) {
	for i, key := range []byte(pianoKeys) {
		e, ok := keyEvent(key)
		expectEqual(t, ok, true)
		expectEqual(t, e, synth.NoteOn(i))
	}
	for key, kind := range map[byte]synth.EventKind{
		' ': synth.EventNoteOff,
		'z': synth.EventOctaveDown,
		'x': synth.EventOctaveUp,
		'c': synth.EventWaveformDown,
		'v': synth.EventWaveformUp,
	} {
		e, ok := keyEvent(key)
		expectEqual(t, ok, true)
		expectEqual(t, e.Kind, kind)
	}
	_, ok := keyEvent('p')
	expectEqual(t, ok, false)
}

func TestDispatchKeys(t *testing.T) {
	engine := &fakeEngine{}
	keys := make(chan byte, 8)
	errCh := make(chan error, 1)
	for _, b := range []byte("vap a") {
		keys <- b
	}
	close(keys)
	errCh <- io.EOF
	expectNoError(t, dispatchKeys(context.Background(), keys, errCh, engine))
	events := engine.received()
	expectEqual(t, len(events), 4)
	expectEqual(t, events[0].Kind, synth.EventWaveformUp)
	expectEqual(t, events[1], synth.NoteOn(0))
	expectEqual(t, events[2], synth.NoteOff())
	expectEqual(t, events[3], synth.NoteOn(0))
}

func TestDispatchKeysQuit(t *testing.T) {
	keys := make(chan byte, 2)
	keys <- 'q'
	err := dispatchKeys(context.Background(), keys, make(chan error), &fakeEngine{})
	expectEqual(t, err, ErrQuit)
}
