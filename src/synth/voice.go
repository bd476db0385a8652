package synth

import (
	"fmt"
	"sync"
)

// FundamentalFrequency resolves the frequency of pitch class pc in the given
// octave of table.
func FundamentalFrequency(table [NumOctaves]float64, octave int, pc int) float64 {
	return table[octave] * FrequencyRatioForInterval(float64(pc))
}

// ----- Voice State ----- //

// VoiceState is a snapshot of the controller.
type VoiceState struct {
	OctaveIndex   int     `json:"octave"`
	WaveformIndex int     `json:"waveformIndex"`
	Waveform      string  `json:"waveform"`
	Sounding      bool    `json:"sounding"`
	PitchClass    int     `json:"pitchClass"` // -1 when idle
	Fundamental   float64 `json:"fundamental"`
}

// ----- Controller ----- //

// Controller maps note, octave and waveform events onto the oscillator bank
// of the single voice. Its methods may be called from any goroutine; the
// audio path only touches the Mixer returned by Source.
type Controller struct {
	mu          sync.Mutex
	octaveTable [NumOctaves]float64
	amplitude   float64
	bank        *Bank
	mixer       *Mixer
	octave      int
	waveform    Waveform
	sounding    bool
	pitchClass  int
	fundamental float64
}

// NewController builds the bank and mixer from p. p must be valid.
func NewController(p *Params) *Controller {
	bank := NewBank(p.SampleRate, p.PitchGlideRate, p.AmplitudeGlideRate)
	return &Controller{
		octaveTable: p.OctaveTable,
		amplitude:   p.FundamentalAmplitude(),
		bank:        bank,
		mixer:       NewMixer(bank, p.OutputGain, p.BufferFrames),
		octave:      p.StartOctave,
		waveform:    p.StartWaveform,
		pitchClass:  -1,
	}
}

// Source returns the mixer to register with the audio sink.
func (c *Controller) Source() AudioSource {
	return c.mixer
}

// Bank returns the oscillator pool.
func (c *Controller) Bank() *Bank {
	return c.bank
}

// Handle applies one event. Boundary notifications come back as errors
// matching ErrBoundaryReached and leave the state unchanged.
func (c *Controller) Handle(e Event) error {
	switch e.Kind {
	case EventNoteOn:
		return c.NoteOn(e.PitchClass)
	case EventNoteOff:
		c.NoteOff()
		return nil
	case EventOctaveUp:
		return c.OctaveUp()
	case EventOctaveDown:
		return c.OctaveDown()
	case EventWaveformUp:
		return c.WaveformUp()
	case EventWaveformDown:
		return c.WaveformDown()
	}
	return fmt.Errorf("%w: %v", ErrUnknownEvent, e.Kind)
}

// NoteOn starts pitch class pc in the current octave and waveform. A note
// that is already sounding is replaced.
func (c *Controller) NoteOn(pc int) error {
	if pc < 0 || pc >= 12 {
		return fmt.Errorf("%w: %d", ErrInvalidPitchClass, pc)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sounding {
		c.bank.StopAll()
		c.sounding = false
	}
	base := c.octaveTable[c.octave]
	if _, err := c.bank.Build(c.waveform, base, float64(pc), c.amplitude); err != nil {
		c.bank.StopAll()
		return err
	}
	c.sounding = true
	c.pitchClass = pc
	c.fundamental = FundamentalFrequency(c.octaveTable, c.octave, pc)
	return nil
}

// NoteOff stops every oscillator of the voice. It is a no-op when idle.
func (c *Controller) NoteOff() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.sounding {
		return
	}
	c.bank.StopAll()
	c.sounding = false
	c.pitchClass = -1
}

// OctaveUp shifts the octave used by the next NoteOn.
func (c *Controller) OctaveUp() error {
	return c.shiftOctave(1)
}

// OctaveDown ...
func (c *Controller) OctaveDown() error {
	return c.shiftOctave(-1)
}

// WaveformUp selects the next waveform for the next NoteOn.
func (c *Controller) WaveformUp() error {
	return c.shiftWaveform(1)
}

// WaveformDown ...
func (c *Controller) WaveformDown() error {
	return c.shiftWaveform(-1)
}

func (c *Controller) shiftOctave(delta int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	next := c.octave + delta
	if next < 0 || next >= NumOctaves {
		return &BoundaryError{Setting: "octave", Index: c.octave, Max: NumOctaves - 1, Up: delta > 0}
	}
	c.octave = next
	return nil
}

func (c *Controller) shiftWaveform(delta int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	next := int(c.waveform) + delta
	if next < 0 || next >= numWaveforms {
		return &BoundaryError{Setting: "waveform", Index: int(c.waveform), Max: numWaveforms - 1, Up: delta > 0}
	}
	c.waveform = Waveform(next)
	return nil
}

// State returns a snapshot of the controller.
func (c *Controller) State() VoiceState {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := VoiceState{
		OctaveIndex:   c.octave,
		WaveformIndex: int(c.waveform),
		Waveform:      c.waveform.String(),
		Sounding:      c.sounding,
		PitchClass:    c.pitchClass,
	}
	if c.sounding {
		s.Fundamental = c.fundamental
	}
	return s
}
