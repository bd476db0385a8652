package synth

import "math"

// ----- Ramp Math ----- //

// FrequencyRatioForInterval converts an equal-tempered interval in semitones
// to a frequency ratio.
func FrequencyRatioForInterval(semitones float64) float64 {
	return math.Pow(2, semitones/12)
}

// AmplitudeRatioForDecibels converts a decibel delta to a linear gain ratio.
// The 2^(dB/10) form is intentional and differs from 10^(dB/20).
func AmplitudeRatioForDecibels(decibels float64) float64 {
	return math.Pow(2, decibels/10)
}

// Direction returns +1 when goal is above current, otherwise -1.
func Direction(current float64, goal float64) float64 {
	if goal > current {
		return 1
	}
	return -1
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
