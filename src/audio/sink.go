package audio

import (
	"context"
	"io"
	"log"

	"github.com/jinjor/additive-synth/src/synth"
)

// Sink pulls fixed-size buffers from a source and sends them to an output.
type Sink interface {
	// Play blocks until ctx is done or the output fails.
	Play(ctx context.Context, src synth.AudioSource) error
	Close() error
}

// pcmReader adapts an AudioSource to an io.Reader of 16-bit mono PCM.
type pcmReader struct {
	ctx context.Context
	src synth.AudioSource
}

var _ io.Reader = (*pcmReader)(nil)

func (r *pcmReader) Read(buf []byte) (int, error) {
	select {
	case <-r.ctx.Done():
		log.Println("Read() interrupted.")
		return 0, io.EOF
	default:
	}
	frames := len(buf) / bytesPerSample
	if frames == 0 {
		return 0, nil
	}
	out, err := r.src.ProduceBuffer(frames)
	if err != nil {
		return 0, err
	}
	writeBuffer(out, buf)
	return frames * bytesPerSample, nil
}

// writeBuffer encodes samples as little-endian int16. Values outside
// [-1, 1] saturate instead of wrapping.
func writeBuffer(out []float64, buf []byte) {
	for i, value := range out {
		const max = 32767
		if value > 1 {
			value = 1
		} else if value < -1 {
			value = -1
		}
		b := int16(value * max)
		buf[bytesPerSample*i] = byte(b)
		buf[bytesPerSample*i+1] = byte(b >> 8)
	}
}
