package synth

import (
	"math"
	"testing"
)

func TestHarmonicTable(t *testing.T) {
	expectEqual(t, len(Harmonics(WaveSine)), 0)
	expectEqual(t, len(Harmonics(WaveSawtooth)), 4)
	expectEqual(t, len(Harmonics(WaveSquare)), 3)
	for w := WaveSine; w <= WaveSquare; w++ {
		if len(Harmonics(w)) > MaxHarmonics {
			t.Errorf("%v does not fit in the bank", w)
		}
	}
}

func TestBuildSine(t *testing.T) {
	b := NewBank(testSampleRate, 12, 1)
	entries, err := b.Build(WaveSine, 523.25, 0, 2)
	expectNoError(t, err)
	expectEqual(t, len(entries), 1)
	expectEqual(t, entries[0].Osc, b.Fundamental())
	expectEqual(t, b.Fundamental().Active(), true)
	for k := 1; k <= MaxHarmonics; k++ {
		expectEqual(t, b.Harmonic(k).Active(), false)
	}
}

func TestBuildSawtooth(t *testing.T) {
	b := NewBank(testSampleRate, 12, 1)
	a := 2.0
	entries, err := b.Build(WaveSawtooth, 523.25, 0, a)
	expectNoError(t, err)
	expectEqual(t, len(entries), 5)
	expectedAmps := []float64{a, a / 2, a / 4, a / 8, a / 16}
	for k, e := range entries {
		expectEqual(t, e.Osc, b.Oscillators()[k])
		expectEqual(t, e.Osc.Active(), true)
		expectEqual(t, e.Spec.SemitoneOffset, 12*k)
		s := e.Osc.Snapshot()
		expectNearlyEqual(t, s.Frequency, 523.25*math.Pow(2, float64(k)))
		expectNearlyEqual(t, s.Amplitude, expectedAmps[k])
		expectEqual(t, s.Frequency, s.GoalFrequency)
		expectEqual(t, s.Amplitude, s.GoalAmplitude)
	}
}

func TestBuildSquare(t *testing.T) {
	b := NewBank(testSampleRate, 12, 1)
	a := 1.0
	entries, err := b.Build(WaveSquare, 261.63, 4, a)
	expectNoError(t, err)
	expectEqual(t, len(entries), 4)
	expectedAmps := []float64{a, 0.33 * a, 0.1089 * a, 0.035937 * a}
	for k, e := range entries {
		expectEqual(t, e.Spec.SemitoneOffset, 24*k)
		s := e.Osc.Snapshot()
		expectNearlyEqual(t, s.Frequency, 261.63*math.Pow(2, float64(4+24*k)/12))
		expectNearlyEqual(t, s.Amplitude, expectedAmps[k])
	}
	expectEqual(t, b.Harmonic(4).Active(), false)
}

func TestBuildRejectsInvalidFundamental(t *testing.T) {
	b := NewBank(testSampleRate, 12, 1)
	_, err := b.Build(WaveSawtooth, 0, 0, 1)
	expectError(t, err, ErrInvalidFrequency)
	for _, o := range b.Oscillators() {
		expectEqual(t, o.Active(), false)
	}
}

func TestWaveformFromString(t *testing.T) {
	for w := WaveSine; w <= WaveSquare; w++ {
		parsed, err := WaveformFromString(w.String())
		expectNoError(t, err)
		expectEqual(t, parsed, w)
	}
	_, err := WaveformFromString("triangle")
	if err == nil {
		t.Errorf("expected error for unknown waveform")
	}
}
