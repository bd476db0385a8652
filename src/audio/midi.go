package audio

import (
	"context"
	"log"

	"github.com/jinjor/additive-synth/src/synth"
	"gitlab.com/gomidi/midi"
	"gitlab.com/gomidi/rtmididrv"
)

// ListenToMidiIn forwards raw messages from the first MIDI input port until
// ctx is done. The channel is closed when listening stops.
func ListenToMidiIn(ctx context.Context) <-chan []byte {
	ch := make(chan []byte, 1024)
	go func() {
		defer close(ch)
		drv, err := rtmididrv.New()
		if err != nil {
			log.Printf("failed to initialize MIDI driver: %v\n", err)
			return
		}
		defer func() {
			err := drv.Close()
			if err != nil {
				log.Printf("failed to close MIDI driver: %v\n", err)
			}
		}()
		in, err := openFirstIn(drv)
		if err != nil {
			log.Printf("failed to open MIDI IN: %v\n", err)
			return
		}
		if in == nil {
			log.Println("WARN: MIDI IN not found")
			return
		}
		log.Println("opened " + in.String())
		defer func() {
			err := in.Close()
			if err != nil {
				log.Printf("failed to close MIDI IN: %v\n", err)
			}
		}()
		log.Println("start listening MIDI IN...")
		if err := in.SetListener(func(data []byte, deltaMicroseconds int64) {
			msg := make([]byte, len(data))
			copy(msg, data)
			select {
			case ch <- msg:
			default:
				log.Println("[WARN] MIDI IN queue full, dropping message")
			}
		}); err != nil {
			log.Println("failed to set listener: " + err.Error())
			return
		}
		defer func() {
			log.Println("stop listening MIDI IN...")
			err := in.StopListening()
			if err != nil {
				log.Printf("failed to stop listening: %v\n", err)
			}
		}()
		<-ctx.Done()
	}()
	return ch
}

func openFirstIn(drv midi.Driver) (midi.In, error) {
	ins, err := drv.Ins()
	if err != nil {
		return nil, err
	}
	log.Printf("MIDI IN: %v\n", ins)
	if len(ins) == 0 {
		return nil, nil
	}
	in := ins[0]
	if err := in.Open(); err != nil {
		return nil, err
	}
	return in, nil
}

// ForwardMidi feeds messages from ListenToMidiIn into a until the channel
// closes or ctx is done.
func ForwardMidi(ctx context.Context, a *Audio, ch <-chan []byte) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case data, ok := <-ch:
			if !ok {
				log.Println("ForwardMidi() ended.")
				return nil
			}
			if err := a.AddMidiEvent(ctx, data); err != nil {
				return err
			}
		}
	}
}

// ----- MIDI Decoder ----- //

// midiDecoder turns channel voice messages into events. Only the release of
// the key that started the sounding note stops it.
type midiDecoder struct {
	params   synth.MidiParams
	lastNote int
}

func newMidiDecoder(p synth.MidiParams) *midiDecoder {
	return &midiDecoder{params: p, lastNote: -1}
}

func (d *midiDecoder) decode(data []byte) (synth.Event, bool) {
	if len(data) < 3 {
		return synth.Event{}, false
	}
	status := data[0] >> 4
	switch {
	case status == 8 || status == 9 && data[2] == 0:
		note := int(data[1])
		if note != d.lastNote {
			return synth.Event{}, false
		}
		d.lastNote = -1
		return synth.NoteOff(), true
	case status == 9:
		note := int(data[1])
		d.lastNote = note
		return synth.NoteOn(note % 12), true
	case status == 0xb:
		if data[2] == 0 {
			return synth.Event{}, false
		}
		switch int(data[1]) {
		case d.params.OctaveDownCC:
			return synth.Event{Kind: synth.EventOctaveDown}, true
		case d.params.OctaveUpCC:
			return synth.Event{Kind: synth.EventOctaveUp}, true
		case d.params.WaveformDownCC:
			return synth.Event{Kind: synth.EventWaveformDown}, true
		case d.params.WaveformUpCC:
			return synth.Event{Kind: synth.EventWaveformUp}, true
		}
	}
	return synth.Event{}, false
}
