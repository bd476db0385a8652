package synth

import (
	"encoding/json"
	"fmt"
	"os"
)

// NumOctaves is the size of the octave table (C0 .. C8).
const NumOctaves = 9

// DefaultOctaveTable holds the frequency of C in each octave.
var DefaultOctaveTable = [NumOctaves]float64{
	16.35, 32.70, 65.41, 130.81, 261.63, 523.25, 1046.50, 2093.00, 4186.01,
}

// ----- MIDI Params ----- //

// MidiParams maps MIDI control changes to octave and waveform shifts.
type MidiParams struct {
	OctaveDownCC   int `json:"octaveDownCC"`
	OctaveUpCC     int `json:"octaveUpCC"`
	WaveformDownCC int `json:"waveformDownCC"`
	WaveformUpCC   int `json:"waveformUpCC"`
}

// ----- Params ----- //

// Params holds the tunables of the engine.
type Params struct {
	SampleRate          int
	BufferFrames        int
	PitchGlideRate      float64 // semitones per second
	AmplitudeGlideRate  float64 // dB per second
	FundamentalDecibels float64
	OutputGain          float64
	StartOctave         int
	StartWaveform       Waveform
	OctaveTable         [NumOctaves]float64
	Midi                MidiParams
}

// NewParams returns the defaults.
func NewParams() *Params {
	return &Params{
		SampleRate:          44100,
		BufferFrames:        1024,
		PitchGlideRate:      12,
		AmplitudeGlideRate:  1,
		FundamentalDecibels: 10,
		OutputGain:          0.25,
		StartOctave:         5,
		StartWaveform:       WaveSine,
		OctaveTable:         DefaultOctaveTable,
		Midi: MidiParams{
			OctaveDownCC:   20,
			OctaveUpCC:     21,
			WaveformDownCC: 22,
			WaveformUpCC:   23,
		},
	}
}

// FundamentalAmplitude is the linear gain of the fundamental oscillator.
func (p *Params) FundamentalAmplitude() float64 {
	return AmplitudeRatioForDecibels(p.FundamentalDecibels)
}

type paramsJSON struct {
	SampleRate          int                 `json:"sampleRate"`
	BufferFrames        int                 `json:"bufferFrames"`
	PitchGlideRate      float64             `json:"pitchGlideRate"`
	AmplitudeGlideRate  float64             `json:"amplitudeGlideRate"`
	FundamentalDecibels float64             `json:"fundamentalDecibels"`
	OutputGain          float64             `json:"outputGain"`
	StartOctave         int                 `json:"startOctave"`
	StartWaveform       string              `json:"startWaveform"`
	OctaveTable         [NumOctaves]float64 `json:"octaveTable"`
	Midi                MidiParams          `json:"midi"`
}

func (p *Params) toJSONStruct() *paramsJSON {
	return &paramsJSON{
		SampleRate:          p.SampleRate,
		BufferFrames:        p.BufferFrames,
		PitchGlideRate:      p.PitchGlideRate,
		AmplitudeGlideRate:  p.AmplitudeGlideRate,
		FundamentalDecibels: p.FundamentalDecibels,
		OutputGain:          p.OutputGain,
		StartOctave:         p.StartOctave,
		StartWaveform:       p.StartWaveform.String(),
		OctaveTable:         p.OctaveTable,
		Midi:                p.Midi,
	}
}

// ApplyJSON overwrites the fields present in data. Missing fields keep
// their current values.
func (p *Params) ApplyJSON(data []byte) error {
	j := p.toJSONStruct()
	if err := json.Unmarshal(data, j); err != nil {
		return fmt.Errorf("failed to apply JSON to params: %w", err)
	}
	w, err := WaveformFromString(j.StartWaveform)
	if err != nil {
		return err
	}
	p.SampleRate = j.SampleRate
	p.BufferFrames = j.BufferFrames
	p.PitchGlideRate = j.PitchGlideRate
	p.AmplitudeGlideRate = j.AmplitudeGlideRate
	p.FundamentalDecibels = j.FundamentalDecibels
	p.OutputGain = j.OutputGain
	p.StartOctave = j.StartOctave
	p.StartWaveform = w
	p.OctaveTable = j.OctaveTable
	p.Midi = j.Midi
	return nil
}

// ToJSON ...
func (p *Params) ToJSON() []byte {
	bytes, err := json.MarshalIndent(p.toJSONStruct(), "", "  ")
	if err != nil {
		panic(err)
	}
	return bytes
}

// Validate rejects values the engine cannot run with.
func (p *Params) Validate() error {
	if p.SampleRate <= 0 {
		return fmt.Errorf("sampleRate must be positive, got %d", p.SampleRate)
	}
	if p.BufferFrames <= 0 {
		return fmt.Errorf("bufferFrames must be positive, got %d", p.BufferFrames)
	}
	if p.PitchGlideRate < 0 || p.AmplitudeGlideRate < 0 {
		return fmt.Errorf("glide rates must not be negative")
	}
	if !isFinite(p.FundamentalDecibels) {
		return fmt.Errorf("fundamentalDecibels must be finite")
	}
	if !isFinite(p.OutputGain) || p.OutputGain < 0 {
		return fmt.Errorf("outputGain must not be negative, got %v", p.OutputGain)
	}
	if p.StartOctave < 0 || p.StartOctave >= NumOctaves {
		return fmt.Errorf("startOctave must be in 0-%d, got %d", NumOctaves-1, p.StartOctave)
	}
	if p.StartWaveform < 0 || int(p.StartWaveform) >= numWaveforms {
		return fmt.Errorf("startWaveform out of range: %d", p.StartWaveform)
	}
	for i, f := range p.OctaveTable {
		if !isFinite(f) || f <= 0 {
			return fmt.Errorf("octaveTable[%d]: %w: %v Hz", i, ErrInvalidFrequency, f)
		}
	}
	return nil
}

// LoadParams reads a JSON file over the defaults.
func LoadParams(path string) (*Params, error) {
	p := NewParams()
	if path == "" {
		return p, nil
	}
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := p.ApplyJSON(bytes); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}
