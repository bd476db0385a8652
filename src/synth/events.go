package synth

import (
	"fmt"
	"strconv"
)

// ----- Event ----- //

// EventKind is the kind of a discrete control event.
type EventKind int

const (
	EventNoteOn EventKind = iota
	EventNoteOff
	EventOctaveUp
	EventOctaveDown
	EventWaveformUp
	EventWaveformDown
)

var eventKindNames = []string{
	EventNoteOn:       "note_on",
	EventNoteOff:      "note_off",
	EventOctaveUp:     "octave_up",
	EventOctaveDown:   "octave_down",
	EventWaveformUp:   "waveform_up",
	EventWaveformDown: "waveform_down",
}

func (k EventKind) String() string {
	if k < 0 || int(k) >= len(eventKindNames) {
		return fmt.Sprintf("event(%d)", int(k))
	}
	return eventKindNames[k]
}

// EventKindFromString parses the wire name of an event kind.
func EventKindFromString(s string) (EventKind, error) {
	for i, name := range eventKindNames {
		if name == s {
			return EventKind(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownEvent, s)
}

// Event is one edge-triggered control event. PitchClass is only meaningful
// for EventNoteOn.
type Event struct {
	Kind       EventKind
	PitchClass int
}

// NoteOn returns a note-on event for pitch class pc (0 = C .. 11 = B).
func NoteOn(pc int) Event {
	return Event{Kind: EventNoteOn, PitchClass: pc}
}

// NoteOff returns a note-off event.
func NoteOff() Event {
	return Event{Kind: EventNoteOff}
}

func (e Event) String() string {
	if e.Kind == EventNoteOn {
		return e.Kind.String() + " " + strconv.Itoa(e.PitchClass)
	}
	return e.Kind.String()
}

// ParseEvent parses the text form of an event: the kind name, followed by
// the pitch class for note_on ("note_on 9", "octave_up").
func ParseEvent(fields []string) (Event, error) {
	if len(fields) == 0 {
		return Event{}, fmt.Errorf("%w: empty command", ErrUnknownEvent)
	}
	kind, err := EventKindFromString(fields[0])
	if err != nil {
		return Event{}, err
	}
	if kind != EventNoteOn {
		if len(fields) != 1 {
			return Event{}, fmt.Errorf("%s takes no arguments, got %v", kind, fields[1:])
		}
		return Event{Kind: kind}, nil
	}
	if len(fields) != 2 {
		return Event{}, fmt.Errorf("%s takes one pitch class, got %v", kind, fields[1:])
	}
	pc, err := strconv.Atoi(fields[1])
	if err != nil {
		return Event{}, fmt.Errorf("invalid pitch class %q: %w", fields[1], err)
	}
	if pc < 0 || pc >= 12 {
		return Event{}, fmt.Errorf("%w: %d", ErrInvalidPitchClass, pc)
	}
	return NoteOn(pc), nil
}
