package synth

import (
	"math"
	"testing"
)

func newTestController(t *testing.T) *Controller {
	t.Helper()
	p := NewParams()
	expectNoError(t, p.Validate())
	return NewController(p)
}

func TestFundamentalFrequency(t *testing.T) {
	expectEqual(t, FundamentalFrequency(DefaultOctaveTable, 5, 0), 523.25)
	expectNearlyEqual(t, FundamentalFrequency(DefaultOctaveTable, 5, 9), 523.25*math.Pow(2, 9.0/12))
	for octave := 0; octave < NumOctaves; octave++ {
		for pc := 0; pc < 12; pc++ {
			expected := DefaultOctaveTable[octave] * math.Pow(2, float64(pc)/12)
			expectNearlyEqual(t, FundamentalFrequency(DefaultOctaveTable, octave, pc), expected)
		}
	}
}

func TestNoteOnSawtoothEndToEnd(t *testing.T) {
	c := newTestController(t)
	expectNoError(t, c.WaveformUp())
	expectEqual(t, c.State().Waveform, "sawtooth")

	oscs := append([]*Oscillator{}, c.Bank().Oscillators()...)
	expectNoError(t, c.NoteOn(0))
	s := c.State()
	expectEqual(t, s.Sounding, true)
	expectEqual(t, s.PitchClass, 0)
	expectEqual(t, s.Fundamental, 523.25)
	expectEqual(t, c.Bank().Fundamental().Snapshot().Frequency, 523.25)

	a := NewParams().FundamentalAmplitude()
	for k, o := range c.Bank().Oscillators() {
		expectEqual(t, o.Active(), true)
		expectNearlyEqual(t, o.Snapshot().Frequency, 523.25*math.Pow(2, float64(k)))
		expectNearlyEqual(t, o.Snapshot().Amplitude, a/math.Pow(2, float64(k)))
	}

	_, err := c.Source().ProduceBuffer(1024)
	expectNoError(t, err)
	phases := make([]float64, len(oscs))
	for k, o := range c.Bank().Oscillators() {
		phases[k] = o.Phase()
	}

	c.NoteOff()
	expectEqual(t, c.State().Sounding, false)
	for k, o := range c.Bank().Oscillators() {
		expectEqual(t, o.Active(), false)
		expectEqual(t, o.Phase(), phases[k])
	}

	expectNoError(t, c.NoteOn(0))
	for k, o := range c.Bank().Oscillators() {
		expectEqual(t, o, oscs[k])
		expectEqual(t, o.Active(), true)
	}
}

func TestNoteOnReplacesSoundingNote(t *testing.T) {
	c := newTestController(t)
	expectNoError(t, c.WaveformUp())
	expectNoError(t, c.NoteOn(0))
	expectNoError(t, c.WaveformDown())
	// the waveform change does not touch the sounding note
	for _, o := range c.Bank().Oscillators() {
		expectEqual(t, o.Active(), true)
	}
	expectNoError(t, c.NoteOn(7))
	expectEqual(t, c.State().PitchClass, 7)
	expectEqual(t, c.Bank().Fundamental().Active(), true)
	for k := 1; k <= MaxHarmonics; k++ {
		expectEqual(t, c.Bank().Harmonic(k).Active(), false)
	}
}

func TestNoteOnRejectsInvalidPitchClass(t *testing.T) {
	c := newTestController(t)
	expectError(t, c.NoteOn(12), ErrInvalidPitchClass)
	expectError(t, c.NoteOn(-1), ErrInvalidPitchClass)
	expectEqual(t, c.State().Sounding, false)
}

func TestNoteOffWhileIdle(t *testing.T) {
	c := newTestController(t)
	before := c.State()
	c.NoteOff()
	expectNoError(t, c.Handle(NoteOff()))
	expectEqual(t, c.State(), before)
}

func TestOctaveBoundary(t *testing.T) {
	c := newTestController(t)
	for c.State().OctaveIndex > 0 {
		expectNoError(t, c.OctaveDown())
	}
	err := c.OctaveDown()
	expectError(t, err, ErrBoundaryReached)
	expectEqual(t, IsBoundary(err), true)
	expectEqual(t, c.State().OctaveIndex, 0)

	for c.State().OctaveIndex < NumOctaves-1 {
		expectNoError(t, c.OctaveUp())
	}
	expectError(t, c.OctaveUp(), ErrBoundaryReached)
	expectEqual(t, c.State().OctaveIndex, 8)
}

func TestWaveformBoundary(t *testing.T) {
	c := newTestController(t)
	expectError(t, c.WaveformDown(), ErrBoundaryReached)
	expectEqual(t, c.State().WaveformIndex, 0)
	expectNoError(t, c.WaveformUp())
	expectNoError(t, c.WaveformUp())
	err := c.WaveformUp()
	expectError(t, err, ErrBoundaryReached)
	be, ok := err.(*BoundaryError)
	expectEqual(t, ok, true)
	expectEqual(t, be.Setting, "waveform")
	expectEqual(t, be.Up, true)
	expectEqual(t, c.State().WaveformIndex, 2)
}

func TestOctaveShiftDoesNotAffectSoundingNote(t *testing.T) {
	c := newTestController(t)
	expectNoError(t, c.NoteOn(0))
	expectNoError(t, c.OctaveUp())
	expectEqual(t, c.Bank().Fundamental().Snapshot().Frequency, 523.25)
	expectNoError(t, c.NoteOn(0))
	expectEqual(t, c.Bank().Fundamental().Snapshot().Frequency, 1046.5)
}

func TestHandle(t *testing.T) {
	c := newTestController(t)
	expectNoError(t, c.Handle(Event{Kind: EventOctaveDown}))
	expectNoError(t, c.Handle(Event{Kind: EventWaveformUp}))
	expectNoError(t, c.Handle(NoteOn(9)))
	s := c.State()
	expectEqual(t, s.OctaveIndex, 4)
	expectEqual(t, s.Waveform, "sawtooth")
	expectNearlyEqual(t, s.Fundamental, 261.63*math.Pow(2, 9.0/12))
	expectNoError(t, c.Handle(NoteOff()))
	expectEqual(t, c.State().Sounding, false)
	expectError(t, c.Handle(Event{Kind: EventKind(99)}), ErrUnknownEvent)
}
