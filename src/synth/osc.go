package synth

import (
	"fmt"
	"math"
	"sync/atomic"
)

// ----- OSC Config ----- //

// oscConfig is published as a whole; it is never modified after Store.
type oscConfig struct {
	frequency     float64
	amplitude     float64
	goalFrequency float64
	goalAmplitude float64
	active        bool
	epoch         uint64 // bumped by Configure, drops glide progress
}

// OscillatorState is a point-in-time view of an oscillator.
type OscillatorState struct {
	Frequency     float64 `json:"frequency"`
	Amplitude     float64 `json:"amplitude"`
	GoalFrequency float64 `json:"goalFrequency"`
	GoalAmplitude float64 `json:"goalAmplitude"`
	Phase         float64 `json:"phase"`
	Active        bool    `json:"active"`
}

// ----- OSC ----- //

// Oscillator is one continuously running sine generator with pitch and
// amplitude glide.
//
// Configure, SetGlideTarget, Start and Stop are called from one goroutine
// (the event path). ProduceBuffer is called from another (the audio path).
// The two sides only share an immutable config record swapped atomically,
// so ProduceBuffer never blocks and never sees a half-applied change.
type Oscillator struct {
	sampleRate         int
	pitchGlideRate     float64 // semitones per second
	amplitudeGlideRate float64 // dB per second

	config atomic.Pointer[oscConfig]
	staged oscConfig

	// owned by the audio path
	epoch     uint64
	frequency float64
	amplitude float64
	phase     float64
	out       []float64

	// published by the audio path after each buffer
	renderedEpoch atomic.Uint64
	frequencyBits atomic.Uint64
	amplitudeBits atomic.Uint64
	phaseBits     atomic.Uint64
}

// NewOscillator returns an idle, silent oscillator.
func NewOscillator(sampleRate int, pitchGlideRate float64, amplitudeGlideRate float64) *Oscillator {
	o := &Oscillator{
		sampleRate:         sampleRate,
		pitchGlideRate:     pitchGlideRate,
		amplitudeGlideRate: amplitudeGlideRate,
	}
	o.publish(oscConfig{})
	return o
}

func (o *Oscillator) publish(c oscConfig) {
	o.staged = c
	o.config.Store(&c)
}

// Configure sets the oscillator to baseFrequency shifted by semitones, with
// no glide. The phase is kept.
func (o *Oscillator) Configure(baseFrequency float64, semitones float64, amplitude float64) error {
	return o.ConfigureFrequency(baseFrequency*FrequencyRatioForInterval(semitones), amplitude)
}

// ConfigureFrequency is Configure with an already resolved frequency.
func (o *Oscillator) ConfigureFrequency(frequency float64, amplitude float64) error {
	if err := validateTarget(frequency, amplitude); err != nil {
		return err
	}
	c := o.staged
	c.frequency = frequency
	c.goalFrequency = frequency
	c.amplitude = amplitude
	c.goalAmplitude = amplitude
	c.epoch++
	o.publish(c)
	return nil
}

// SetGlideTarget makes the oscillator glide from wherever it is toward the
// given frequency and amplitude at its glide rates.
func (o *Oscillator) SetGlideTarget(goalFrequency float64, goalAmplitude float64) error {
	if err := validateTarget(goalFrequency, goalAmplitude); err != nil {
		return err
	}
	c := o.staged
	c.goalFrequency = goalFrequency
	c.goalAmplitude = goalAmplitude
	o.publish(c)
	return nil
}

func validateTarget(frequency float64, amplitude float64) error {
	if !isFinite(frequency) || frequency <= 0 {
		return fmt.Errorf("%w: %v Hz", ErrInvalidFrequency, frequency)
	}
	if !isFinite(amplitude) || amplitude < 0 {
		return fmt.Errorf("%w: %v", ErrInvalidAmplitude, amplitude)
	}
	return nil
}

// Start includes the oscillator in the summed output.
func (o *Oscillator) Start() {
	if o.staged.active {
		return
	}
	c := o.staged
	c.active = true
	o.publish(c)
}

// Stop excludes the oscillator from the summed output. Phase is preserved.
func (o *Oscillator) Stop() {
	if !o.staged.active {
		return
	}
	c := o.staged
	c.active = false
	o.publish(c)
}

// Active reports whether the oscillator is currently sounding.
func (o *Oscillator) Active() bool {
	return o.config.Load().active
}

// Phase returns the fractional cycle position carried into the next buffer.
func (o *Oscillator) Phase() float64 {
	return math.Float64frombits(o.phaseBits.Load())
}

// Snapshot returns the current and goal values as the audio path sees them.
func (o *Oscillator) Snapshot() OscillatorState {
	c := o.config.Load()
	s := OscillatorState{
		Frequency:     c.frequency,
		Amplitude:     c.amplitude,
		GoalFrequency: c.goalFrequency,
		GoalAmplitude: c.goalAmplitude,
		Phase:         o.Phase(),
		Active:        c.active,
	}
	if o.renderedEpoch.Load() == c.epoch && c.epoch != 0 {
		s.Frequency = math.Float64frombits(o.frequencyBits.Load())
		s.Amplitude = math.Float64frombits(o.amplitudeBits.Load())
	}
	return s
}

// ProduceBuffer renders frameCount samples. The returned slice belongs to
// the oscillator and is overwritten by the next call.
//
// Frequency and amplitude are extrapolated from their buffer-start values
// using buffer-local time, so a glide that reaches its goal mid-buffer
// overshoots until the buffer ends. The phase is a running integral of the
// instantaneous frequency and carries over between buffers.
func (o *Oscillator) ProduceBuffer(frameCount int) ([]float64, error) {
	if frameCount <= 0 {
		return nil, ErrInvalidFrameCount
	}
	c := o.config.Load()
	if c.epoch != o.epoch {
		o.epoch = c.epoch
		o.frequency = c.frequency
		o.amplitude = c.amplitude
	}
	if cap(o.out) < frameCount {
		o.out = make([]float64, frameCount)
	}
	out := o.out[:frameCount]

	dt := 1.0 / float64(o.sampleRate)
	glideFreq := o.frequency != c.goalFrequency
	glideAmp := o.amplitude != c.goalAmplitude
	freqStep := Direction(o.frequency, c.goalFrequency) * o.pitchGlideRate
	ampStep := Direction(o.amplitude, c.goalAmplitude) * o.amplitudeGlideRate

	phase := o.phase
	for i := range out {
		t := float64(i) * dt
		freq := o.frequency
		if glideFreq {
			freq *= FrequencyRatioForInterval(freqStep * t)
		}
		amp := o.amplitude
		if glideAmp {
			amp *= AmplitudeRatioForDecibels(ampStep * t)
		}
		phase += freq * dt
		out[i] = amp * math.Sin(2*math.Pi*phase)
	}
	o.phase = math.Mod(phase, 1)

	end := float64(frameCount) * dt
	if glideFreq {
		o.frequency = advance(o.frequency, c.goalFrequency, o.frequency*FrequencyRatioForInterval(freqStep*end))
	}
	if glideAmp {
		o.amplitude = advance(o.amplitude, c.goalAmplitude, o.amplitude*AmplitudeRatioForDecibels(ampStep*end))
	}

	o.frequencyBits.Store(math.Float64bits(o.frequency))
	o.amplitudeBits.Store(math.Float64bits(o.amplitude))
	o.phaseBits.Store(math.Float64bits(o.phase))
	o.renderedEpoch.Store(o.epoch)
	return out, nil
}

// advance returns next, or goal once next has reached or crossed it.
func advance(current float64, goal float64, next float64) float64 {
	if Direction(current, goal) > 0 {
		if next >= goal {
			return goal
		}
	} else if next <= goal {
		return goal
	}
	return next
}
