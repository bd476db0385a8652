package audio

import (
	"testing"

	"github.com/jinjor/additive-synth/src/synth"
)

func TestMidiDecoder(t *testing.T) {
	d := newMidiDecoder(synth.NewParams().Midi)

	e, ok := d.decode([]byte{0x90, 69, 100})
	expectEqual(t, ok, true)
	expectEqual(t, e, synth.NoteOn(9))

	// legato: a new key replaces the note, releasing the old key is ignored
	e, ok = d.decode([]byte{0x91, 72, 80})
	expectEqual(t, ok, true)
	expectEqual(t, e, synth.NoteOn(0))
	_, ok = d.decode([]byte{0x80, 69, 0})
	expectEqual(t, ok, false)

	// note-on with zero velocity is a release
	e, ok = d.decode([]byte{0x91, 72, 0})
	expectEqual(t, ok, true)
	expectEqual(t, e, synth.NoteOff())
	_, ok = d.decode([]byte{0x80, 72, 0})
	expectEqual(t, ok, false)
}

func TestMidiDecoderControlChange(t *testing.T) {
	p := synth.NewParams().Midi
	d := newMidiDecoder(p)
	for cc, kind := range map[int]synth.EventKind{
		p.OctaveDownCC:   synth.EventOctaveDown,
		p.OctaveUpCC:     synth.EventOctaveUp,
		p.WaveformDownCC: synth.EventWaveformDown,
		p.WaveformUpCC:   synth.EventWaveformUp,
	} {
		e, ok := d.decode([]byte{0xb0, byte(cc), 127})
		expectEqual(t, ok, true)
		expectEqual(t, e.Kind, kind)
		_, ok = d.decode([]byte{0xb0, byte(cc), 0})
		expectEqual(t, ok, false)
	}
	_, ok := d.decode([]byte{0xb0, 7, 127})
	expectEqual(t, ok, false)
	_, ok = d.decode([]byte{0xf8})
	expectEqual(t, ok, false)
}
