package audio

import (
	"math"
)

type window func(i int, n int) float64

func han(i int, n int) float64 {
	x := float64(i) / float64(n)
	return 0.5 - 0.5*math.Cos(2.0*math.Pi*x)
}

func applyWindow(data []float64, w window) {
	n := len(data)
	for i := 0; i < n; i++ {
		data[i] = data[i] * w(i, n)
	}
}
