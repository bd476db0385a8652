//go:build !portaudio

package audio

import (
	"context"
	"io"
	"log"

	"github.com/hajimehoshi/oto"
	"github.com/jinjor/additive-synth/src/synth"
)

// OtoSink plays through the default device with oto.
type OtoSink struct {
	otoContext *oto.Context
	frames     int
}

// NewDeviceSink opens the default output device.
func NewDeviceSink(p *synth.Params) (Sink, error) {
	return NewOtoSink(p.SampleRate, p.BufferFrames)
}

// NewOtoSink ...
func NewOtoSink(sampleRate int, frames int) (*OtoSink, error) {
	otoContext, err := oto.NewContext(sampleRate, channelNum, bitDepthInBytes, frames*bytesPerSample)
	if err != nil {
		return nil, err
	}
	return &OtoSink{otoContext: otoContext, frames: frames}, nil
}

// Play ...
func (s *OtoSink) Play(ctx context.Context, src synth.AudioSource) error {
	p := s.otoContext.NewPlayer()
	defer func() {
		if err := p.Close(); err != nil {
			log.Printf("error: %v", err)
		}
	}()
	// block until ctx is done
	r := &pcmReader{ctx: ctx, src: src}
	if _, err := io.CopyBuffer(p, r, make([]byte, s.frames*bytesPerSample)); err != nil {
		return err
	}
	log.Println("Play() ended.")
	return nil
}

// Close ...
func (s *OtoSink) Close() error {
	log.Println("Closing oto...")
	return s.otoContext.Close()
}
