//go:build portaudio

package audio

import (
	"context"
	"log"

	"github.com/gordonklaus/portaudio"
	"github.com/jinjor/additive-synth/src/synth"
)

// PortAudioSink plays through the default device with a PortAudio callback
// stream. The callback is the pull contract: one buffer per period.
type PortAudioSink struct {
	sampleRate int
	frames     int
}

// NewDeviceSink opens the default output device.
func NewDeviceSink(p *synth.Params) (Sink, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, err
	}
	return &PortAudioSink{sampleRate: p.SampleRate, frames: p.BufferFrames}, nil
}

// Play ...
func (s *PortAudioSink) Play(ctx context.Context, src synth.AudioSource) error {
	stream, err := portaudio.OpenDefaultStream(0, channelNum, float64(s.sampleRate), s.frames, func(out []float32) {
		buf, err := src.ProduceBuffer(len(out))
		if err != nil {
			for i := range out {
				out[i] = 0
			}
			return
		}
		for i, v := range buf {
			out[i] = float32(v)
		}
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := stream.Close(); err != nil {
			log.Printf("error: %v", err)
		}
	}()
	if err := stream.Start(); err != nil {
		return err
	}
	<-ctx.Done()
	log.Println("Play() ended.")
	return stream.Stop()
}

// Close ...
func (s *PortAudioSink) Close() error {
	log.Println("Closing PortAudio...")
	return portaudio.Terminate()
}
