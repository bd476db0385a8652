package audio

import (
	"context"
	"log"
	"sync"

	"github.com/jinjor/additive-synth/src/synth"
)

const (
	channelNum      = 1
	bitDepthInBytes = 2
	fftSize         = 2048
)
const bytesPerSample = bitDepthInBytes * channelNum

// ----- Changes ----- //

// Changes is a set of keys describing what changed since a reader last looked.
type Changes struct {
	sync.Mutex
	dict map[string]struct{}
}

// NewChanges ...
func NewChanges() *Changes {
	return &Changes{dict: make(map[string]struct{})}
}

// Add ...
func (c *Changes) Add(key string) {
	c.Lock()
	c.dict[key] = struct{}{}
	c.Unlock()
}

// Has ...
func (c *Changes) Has(key string) bool {
	c.Lock()
	_, ok := c.dict[key]
	c.Unlock()
	return ok
}

// Delete ...
func (c *Changes) Delete(key string) {
	c.Lock()
	delete(c.dict, key)
	c.Unlock()
}

// ----- Audio ----- //

// Audio owns the voice controller and the event loop feeding it. It is the
// AudioSource registered with a sink; every buffer it produces is also
// captured by the spectrum analyzer.
type Audio struct {
	params     *synth.Params
	controller *synth.Controller
	source     synth.AudioSource
	analyzer   *Analyzer
	midi       *midiDecoder
	eventCh    chan synth.Event
	Changes    *Changes
}

var _ synth.AudioSource = (*Audio)(nil)

// NewAudio builds the engine from validated params.
func NewAudio(p *synth.Params) *Audio {
	controller := synth.NewController(p)
	return &Audio{
		params:     p,
		controller: controller,
		source:     controller.Source(),
		analyzer:   NewAnalyzer(fftSize, p.SampleRate),
		midi:       newMidiDecoder(p.Midi),
		eventCh:    make(chan synth.Event, 256),
		Changes:    NewChanges(),
	}
}

// Params ...
func (a *Audio) Params() *synth.Params {
	return a.params
}

// ProduceBuffer is called from the audio path.
func (a *Audio) ProduceBuffer(frameCount int) ([]float64, error) {
	out, err := a.source.ProduceBuffer(frameCount)
	if err != nil {
		return nil, err
	}
	a.analyzer.Capture(out)
	return out, nil
}

// Send queues an event for the event loop.
func (a *Audio) Send(ctx context.Context, e synth.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case a.eventCh <- e:
		return nil
	}
}

// Run handles queued events until ctx is done.
func (a *Audio) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			log.Println("Run() ended.")
			return nil
		case e := <-a.eventCh:
			a.handle(e)
		}
	}
}

func (a *Audio) handle(e synth.Event) {
	err := a.controller.Handle(e)
	if synth.IsBoundary(err) {
		log.Printf("%v\n", err)
		return
	}
	if err != nil {
		log.Printf("failed to handle %v: %v\n", e, err)
		return
	}
	s := a.controller.State()
	switch e.Kind {
	case synth.EventNoteOn:
		log.Printf("note on: pitch class %d, %.2f Hz (%s)\n", s.PitchClass, s.Fundamental, s.Waveform)
	case synth.EventOctaveUp, synth.EventOctaveDown:
		log.Printf("octave changed to %d\n", s.OctaveIndex)
	case synth.EventWaveformUp, synth.EventWaveformDown:
		log.Printf("waveform changed to %s\n", s.Waveform)
	}
	a.Changes.Add("state")
}

// State ...
func (a *Audio) State() synth.VoiceState {
	return a.controller.State()
}

// Spectrum returns the magnitude spectrum of the most recent output.
func (a *Audio) Spectrum() Spectrum {
	return a.analyzer.Spectrum()
}

// AddMidiEvent decodes a raw MIDI message and queues the resulting event.
func (a *Audio) AddMidiEvent(ctx context.Context, data []byte) error {
	e, ok := a.midi.decode(data)
	if !ok {
		return nil
	}
	return a.Send(ctx, e)
}
