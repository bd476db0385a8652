package synth

// AudioSource is pulled by an audio sink once per buffer period.
// The returned slice is only valid until the next call.
type AudioSource interface {
	ProduceBuffer(frameCount int) ([]float64, error)
}

var _ AudioSource = (*Oscillator)(nil)
var _ AudioSource = (*Mixer)(nil)

// ----- Mixer ----- //

// Mixer sums the active oscillators of a bank. It takes no locks and does
// not allocate once its buffer has grown to the sink's buffer size.
type Mixer struct {
	bank *Bank
	gain float64
	out  []float64
}

// NewMixer pre-allocates frames samples of output.
func NewMixer(bank *Bank, gain float64, frames int) *Mixer {
	return &Mixer{
		bank: bank,
		gain: gain,
		out:  make([]float64, frames),
	}
}

// ProduceBuffer returns exactly frameCount summed samples. The sum is
// scaled by the output gain and is not clamped.
func (m *Mixer) ProduceBuffer(frameCount int) ([]float64, error) {
	if frameCount <= 0 {
		return nil, ErrInvalidFrameCount
	}
	if cap(m.out) < frameCount {
		m.out = make([]float64, frameCount)
	}
	out := m.out[:frameCount]
	for i := range out {
		out[i] = 0
	}
	for _, o := range m.bank.oscs {
		if !o.Active() {
			continue
		}
		buf, err := o.ProduceBuffer(frameCount)
		if err != nil {
			return nil, err
		}
		for i, v := range buf {
			out[i] += v * m.gain
		}
	}
	return out, nil
}
