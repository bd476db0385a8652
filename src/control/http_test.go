package control

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jinjor/additive-synth/src/audio"
	"github.com/jinjor/additive-synth/src/synth"
)

func TestHTTPEvents(t *testing.T) {
	engine := &fakeEngine{}
	s := NewServer(engine)

	for _, tc := range []struct {
		target string
		status int
	}{
		{"/events/note_on?pitch=9", http.StatusAccepted},
		{"/events/octave_up", http.StatusAccepted},
		{"/events/note_off", http.StatusAccepted},
		{"/events/note_on?pitch=12", http.StatusBadRequest},
		{"/events/note_on", http.StatusBadRequest},
		{"/events/sustain", http.StatusBadRequest},
	} {
		rec := httptest.NewRecorder()
		s.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, tc.target, nil))
		if rec.Code != tc.status {
			t.Errorf("%s: expected %d, got %d (%s)", tc.target, tc.status, rec.Code, rec.Body.String())
		}
	}
	events := engine.received()
	expectEqual(t, len(events), 3)
	expectEqual(t, events[0], synth.NoteOn(9))
	expectEqual(t, events[1].Kind, synth.EventOctaveUp)
	expectEqual(t, events[2], synth.NoteOff())

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/events/note_off", nil))
	expectEqual(t, rec.Code, http.StatusMethodNotAllowed)
}

func TestHTTPState(t *testing.T) {
	engine := &fakeEngine{state: synth.VoiceState{OctaveIndex: 5, Waveform: "square", WaveformIndex: 2, Sounding: true, PitchClass: 3, Fundamental: 622.25}}
	s := NewServer(engine)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/state", nil))
	expectEqual(t, rec.Code, http.StatusOK)
	var state synth.VoiceState
	expectNoError(t, json.Unmarshal(rec.Body.Bytes(), &state))
	expectEqual(t, state, engine.state)
}

func TestHTTPSpectrumAndHealth(t *testing.T) {
	s := NewServer(&fakeEngine{})
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/spectrum", nil))
	expectEqual(t, rec.Code, http.StatusOK)
	var spectrum audio.Spectrum
	expectNoError(t, json.Unmarshal(rec.Body.Bytes(), &spectrum))
	expectEqual(t, spectrum.BinHz, 10.0)
	expectEqual(t, len(spectrum.Magnitudes), 3)

	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	expectEqual(t, rec.Code, http.StatusOK)
	expectEqual(t, rec.Body.String(), "ok")
}
