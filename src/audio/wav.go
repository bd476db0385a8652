package audio

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"log"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/jinjor/additive-synth/src/synth"
)

// ----- Script ----- //

// Cue is an event scheduled at a time offset in seconds.
type Cue struct {
	At    float64
	Event synth.Event
}

// ParseScript reads one cue per line: "<seconds> <event> [pitch class]".
// Blank lines and lines starting with '#' are ignored. Cues are returned in
// time order; cues at the same time keep their file order.
func ParseScript(r io.Reader) ([]Cue, error) {
	var cues []Cue
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		at, err := strconv.ParseFloat(fields[0], 64)
		if err != nil || at < 0 || math.IsInf(at, 0) {
			return nil, fmt.Errorf("line %d: invalid time %q", line, fields[0])
		}
		e, err := synth.ParseEvent(fields[1:])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		cues = append(cues, Cue{At: at, Event: e})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	sort.SliceStable(cues, func(i, j int) bool {
		return cues[i].At < cues[j].At
	})
	return cues, nil
}

// ----- Render ----- //

type wavHeader struct {
	ChunkID       [4]byte
	ChunkSize     uint32
	Format        [4]byte
	Subchunk1ID   [4]byte
	Subchunk1Size uint32
	AudioFormat   uint16
	NumChannels   uint16
	SampleRate    uint32
	ByteRate      uint32
	BlockAlign    uint16
	BitsPerSample uint16
	Subchunk2ID   [4]byte
	Subchunk2Size uint32
}

func newWavHeader(sampleRate int, frames int) *wavHeader {
	dataSize := uint32(frames * bytesPerSample)
	return &wavHeader{
		ChunkID:       [4]byte{'R', 'I', 'F', 'F'},
		ChunkSize:     36 + dataSize,
		Format:        [4]byte{'W', 'A', 'V', 'E'},
		Subchunk1ID:   [4]byte{'f', 'm', 't', ' '},
		Subchunk1Size: 16,
		AudioFormat:   1,
		NumChannels:   channelNum,
		SampleRate:    uint32(sampleRate),
		ByteRate:      uint32(sampleRate * bytesPerSample),
		BlockAlign:    bytesPerSample,
		BitsPerSample: bitDepthInBytes * 8,
		Subchunk2ID:   [4]byte{'d', 'a', 't', 'a'},
		Subchunk2Size: dataSize,
	}
}

// Render plays cues through a fresh controller for duration seconds and
// writes the result to w as a 16-bit mono WAV. Buffers are split at cue
// times so each event lands on its exact frame. It returns the number of
// frames written.
func Render(w io.Writer, p *synth.Params, cues []Cue, duration float64) (int, error) {
	if duration <= 0 {
		return 0, fmt.Errorf("duration must be positive, got %v", duration)
	}
	controller := synth.NewController(p)
	src := controller.Source()
	total := int(duration * float64(p.SampleRate))

	bw := bufio.NewWriter(w)
	if err := binary.Write(bw, binary.LittleEndian, newWavHeader(p.SampleRate, total)); err != nil {
		return 0, err
	}
	buf := make([]byte, p.BufferFrames*bytesPerSample)
	next := 0
	for pos := 0; pos < total; {
		for next < len(cues) && cueFrame(cues[next], p.SampleRate) <= pos {
			if err := controller.Handle(cues[next].Event); err != nil {
				if !synth.IsBoundary(err) {
					return pos, fmt.Errorf("cue %d (%v): %w", next, cues[next].Event, err)
				}
				log.Printf("%v\n", err)
			}
			next++
		}
		frames := p.BufferFrames
		if pos+frames > total {
			frames = total - pos
		}
		if next < len(cues) {
			if until := cueFrame(cues[next], p.SampleRate) - pos; until < frames {
				frames = until
			}
		}
		out, err := src.ProduceBuffer(frames)
		if err != nil {
			return pos, err
		}
		writeBuffer(out, buf)
		if _, err := bw.Write(buf[:frames*bytesPerSample]); err != nil {
			return pos, err
		}
		pos += frames
	}
	return total, bw.Flush()
}

func cueFrame(c Cue, sampleRate int) int {
	return int(c.At * float64(sampleRate))
}
