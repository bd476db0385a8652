package audio

import (
	"fmt"
	"math"
	"math/cmplx"
)

// FFT is a radix-2 transform of a fixed length. It keeps its own scratch
// buffer, so one FFT must not be used from two goroutines at once.
type FFT struct {
	bitReverseTable []int
	wTable          []complex128
	inverse         bool
	scratch         []complex128
}

// NewFFT ...
func NewFFT(length int, inverse bool) *FFT {
	return &FFT{
		bitReverseTable: makeBitReverseTable(length),
		wTable:          makeWTable(length),
		inverse:         inverse,
		scratch:         make([]complex128, length),
	}
}
func makeBitReverseTable(n int) []int {
	array := make([]int, n)
	for i := 0; i < n; i++ {
		array[i] = bitReverse(i, n)
	}
	return array
}
func bitReverse(k, n int) int {
	m := 0
	for ; n > 1; n = n >> 1 {
		m = m<<1 + k&1
		k = k >> 1
	}
	return m
}
func makeWTable(n int) []complex128 {
	array := make([]complex128, n)
	w := -2.0 * math.Pi / float64(n)
	for i := 0; i < n; i++ {
		array[i] = cmplx.Exp(complex(0, w*float64(i)))
	}
	return array
}

// Len ...
func (fft *FFT) Len() int {
	return len(fft.bitReverseTable)
}

// Calc transforms x in place.
func (fft *FFT) Calc(x []complex128) error {
	n := len(x)
	if n != len(fft.bitReverseTable) {
		return fmt.Errorf("length should be %v, got %v", len(fft.bitReverseTable), n)
	}
	for i := 0; i < n; i++ {
		rev := fft.bitReverseTable[i]
		if i < rev {
			x[i], x[rev] = x[rev], x[i]
		}
	}
	for m := 1; m < n; m = m << 1 {
		step := m << 1
		for k := 0; k < m; k++ {
			idx := n / step * k
			w := fft.wTable[idx]
			if fft.inverse {
				w = cmplx.Conj(w)
			}
			for i := k; i < n; i += step {
				j := i + m
				tmp := x[j] * w
				x[j] = x[i] - tmp
				x[i] = x[i] + tmp
			}
		}
	}
	if fft.inverse {
		for i := 0; i < n; i++ {
			x[i] /= complex(float64(n), 0)
		}
	}
	return nil
}

// CalcReal replaces x with the real part of its transform.
func (fft *FFT) CalcReal(x []float64) error {
	return fft.calcInto(x, func(c complex128) float64 { return real(c) })
}

// CalcAbs replaces x with the magnitude of its transform.
func (fft *FFT) CalcAbs(x []float64) error {
	return fft.calcInto(x, cmplx.Abs)
}

func (fft *FFT) calcInto(x []float64, f func(complex128) float64) error {
	if len(x) != fft.Len() {
		return fmt.Errorf("length should be %v, got %v", fft.Len(), len(x))
	}
	cx := fft.scratch
	for i, v := range x {
		cx[i] = complex(v, 0)
	}
	if err := fft.Calc(cx); err != nil {
		return err
	}
	for i := range x {
		x[i] = f(cx[i])
	}
	return nil
}
