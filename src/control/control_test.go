package control

import (
	"context"
	"sync"
	"testing"

	"github.com/jinjor/additive-synth/src/audio"
	"github.com/jinjor/additive-synth/src/synth"
)

func expectNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Errorf("expected no error, but got: %v", err)
	}
}

func expectEqual(t *testing.T, actual, expected interface{}) {
	t.Helper()
	if actual != expected {
		t.Errorf("expected %v, but got: %v", expected, actual)
	}
}

type fakeEngine struct {
	sync.Mutex
	events []synth.Event
	state  synth.VoiceState
}

func (f *fakeEngine) Send(ctx context.Context, e synth.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.Lock()
	defer f.Unlock()
	f.events = append(f.events, e)
	return nil
}

func (f *fakeEngine) State() synth.VoiceState {
	f.Lock()
	defer f.Unlock()
	return f.state
}

func (f *fakeEngine) Spectrum() audio.Spectrum {
	return audio.Spectrum{BinHz: 10, Magnitudes: []float64{0, 0.5, 0.25}}
}

func (f *fakeEngine) received() []synth.Event {
	f.Lock()
	defer f.Unlock()
	return append([]synth.Event{}, f.events...)
}
