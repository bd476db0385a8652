package synth

import "fmt"

// ----- Waveform ----- //

// Waveform is the waveform class a note is stacked as.
type Waveform int

const (
	WaveSine Waveform = iota
	WaveSawtooth
	WaveSquare
)

const numWaveforms = 3

var waveformNames = [numWaveforms]string{"sine", "sawtooth", "square"}

func (w Waveform) String() string {
	if w < 0 || int(w) >= numWaveforms {
		return fmt.Sprintf("waveform(%d)", int(w))
	}
	return waveformNames[w]
}

// WaveformFromString parses "sine", "sawtooth" or "square".
func WaveformFromString(s string) (Waveform, error) {
	for i, name := range waveformNames {
		if name == s {
			return Waveform(i), nil
		}
	}
	return 0, fmt.Errorf("unknown waveform %q", s)
}

// ----- Harmonic Spec ----- //

// HarmonicSpec describes one partial. SemitoneOffset is relative to the
// fundamental; AmplitudeScale is relative to the previous partial.
type HarmonicSpec struct {
	SemitoneOffset int
	AmplitudeScale float64
}

// MaxHarmonics is the number of harmonic slots in a Bank.
const MaxHarmonics = 4

// 0.33 is tuned by ear; the textbook square series would use 0.66.
var harmonicTable = [numWaveforms][]HarmonicSpec{
	WaveSine: nil,
	WaveSawtooth: {
		{SemitoneOffset: 12, AmplitudeScale: 0.5},
		{SemitoneOffset: 24, AmplitudeScale: 0.5},
		{SemitoneOffset: 36, AmplitudeScale: 0.5},
		{SemitoneOffset: 48, AmplitudeScale: 0.5},
	},
	WaveSquare: {
		{SemitoneOffset: 24, AmplitudeScale: 0.33},
		{SemitoneOffset: 48, AmplitudeScale: 0.33},
		{SemitoneOffset: 72, AmplitudeScale: 0.33},
	},
}

// Harmonics returns the partials stacked on the fundamental for w.
func Harmonics(w Waveform) []HarmonicSpec {
	if w < 0 || int(w) >= numWaveforms {
		return nil
	}
	return harmonicTable[w]
}

// ----- Bank ----- //

// Slot roles in a Bank.
const (
	SlotFundamental = 0
	numSlots        = 1 + MaxHarmonics
)

// StackEntry pairs a configured oscillator with the partial it plays.
// The fundamental has the zero HarmonicSpec.
type StackEntry struct {
	Osc       *Oscillator
	Spec      HarmonicSpec
	Frequency float64
	Amplitude float64
}

// Bank is the fixed oscillator pool of the single voice: the fundamental
// followed by the harmonic slots. Oscillators are created once and reused.
type Bank struct {
	oscs    [numSlots]*Oscillator
	entries [numSlots]StackEntry
}

// NewBank creates all oscillators up front.
func NewBank(sampleRate int, pitchGlideRate float64, amplitudeGlideRate float64) *Bank {
	b := &Bank{}
	for i := range b.oscs {
		b.oscs[i] = NewOscillator(sampleRate, pitchGlideRate, amplitudeGlideRate)
	}
	return b
}

// Fundamental returns the fundamental oscillator.
func (b *Bank) Fundamental() *Oscillator {
	return b.oscs[SlotFundamental]
}

// Harmonic returns the oscillator in harmonic slot k (1-based).
func (b *Bank) Harmonic(k int) *Oscillator {
	return b.oscs[k]
}

// Oscillators returns every slot in role order.
func (b *Bank) Oscillators() []*Oscillator {
	return b.oscs[:]
}

// Build configures and starts the fundamental at baseFrequency+semitones,
// then derives, configures and starts one harmonic slot per partial of w.
// Unused harmonic slots are left as they are.
//
// The returned slice is reused by the next call.
func (b *Bank) Build(w Waveform, baseFrequency float64, semitones float64, amplitude float64) ([]StackEntry, error) {
	specs := Harmonics(w)
	if len(specs) > MaxHarmonics {
		return nil, fmt.Errorf("%v needs %d harmonics, bank has %d", w, len(specs), MaxHarmonics)
	}
	fundamental := b.Fundamental()
	if err := fundamental.Configure(baseFrequency, semitones, amplitude); err != nil {
		return nil, err
	}
	fundamental.Start()
	entries := b.entries[:0]
	entries = append(entries, StackEntry{
		Osc:       fundamental,
		Frequency: baseFrequency * FrequencyRatioForInterval(semitones),
		Amplitude: amplitude,
	})
	amp := amplitude
	for i, spec := range specs {
		osc := b.oscs[i+1]
		amp *= spec.AmplitudeScale
		pitch := semitones + float64(spec.SemitoneOffset)
		if err := osc.Configure(baseFrequency, pitch, amp); err != nil {
			return nil, err
		}
		osc.Start()
		entries = append(entries, StackEntry{
			Osc:       osc,
			Spec:      spec,
			Frequency: baseFrequency * FrequencyRatioForInterval(pitch),
			Amplitude: amp,
		})
	}
	return entries, nil
}

// StopAll silences every slot without touching phases.
func (b *Bank) StopAll() {
	for _, o := range b.oscs {
		o.Stop()
	}
}
