package audio

import (
	"log"
	"sync"
)

// Spectrum is a one-sided magnitude spectrum.
type Spectrum struct {
	BinHz      float64   `json:"binHz"`
	Magnitudes []float64 `json:"magnitudes"`
}

// Peak returns the frequency and magnitude of the strongest bin above DC.
func (s Spectrum) Peak() (float64, float64) {
	best := 0
	for i := 1; i < len(s.Magnitudes); i++ {
		if best == 0 || s.Magnitudes[i] > s.Magnitudes[best] {
			best = i
		}
	}
	if best == 0 {
		return 0, 0
	}
	return float64(best) * s.BinHz, s.Magnitudes[best]
}

// ----- Analyzer ----- //

// Analyzer keeps the most recent output in a ring and computes its spectrum
// on demand. Capture runs on the audio path and never waits: if a reader
// holds the ring, that buffer is skipped.
type Analyzer struct {
	mu         sync.Mutex
	ring       []float64
	pos        int
	sampleRate int

	calcMu sync.Mutex
	fft    *FFT
	work   []float64
}

// NewAnalyzer ...
func NewAnalyzer(size int, sampleRate int) *Analyzer {
	return &Analyzer{
		ring:       make([]float64, size),
		sampleRate: sampleRate,
		fft:        NewFFT(size, false),
		work:       make([]float64, size),
	}
}

// Capture appends samples to the ring.
func (an *Analyzer) Capture(samples []float64) {
	if !an.mu.TryLock() {
		return
	}
	defer an.mu.Unlock()
	n := len(an.ring)
	if len(samples) >= n {
		copy(an.ring, samples[len(samples)-n:])
		an.pos = 0
		return
	}
	copied := copy(an.ring[an.pos:], samples)
	copy(an.ring, samples[copied:])
	an.pos = (an.pos + len(samples)) % n
}

// Spectrum ...
func (an *Analyzer) Spectrum() Spectrum {
	an.calcMu.Lock()
	defer an.calcMu.Unlock()

	// ring:   | 4 | 1 | 2 | 3 |
	// pos:        ^
	// work:   | 1 | 2 | 3 | 4 |
	an.mu.Lock()
	n := len(an.ring)
	copy(an.work, an.ring[an.pos:])
	copy(an.work[n-an.pos:], an.ring[:an.pos])
	an.mu.Unlock()

	binHz := float64(an.sampleRate) / float64(n)
	applyWindow(an.work, han)
	if err := an.fft.CalcAbs(an.work); err != nil {
		log.Printf("failed to calculate spectrum: %v\n", err)
		return Spectrum{BinHz: binHz}
	}
	magnitudes := make([]float64, n/2)
	for i := range magnitudes {
		magnitudes[i] = an.work[i] * 2 / float64(n)
	}
	return Spectrum{
		BinHz:      binHz,
		Magnitudes: magnitudes,
	}
}
