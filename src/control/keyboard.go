package control

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/jinjor/additive-synth/src/synth"
	"golang.org/x/term"
)

// ErrQuit is returned by Keyboard.Run when the user asks to quit.
var ErrQuit = errors.New("quit requested")

// piano row: a w s e d f t g y h u j = C .. B
const pianoKeys = "awsedftgyhuj"

// KeyHelp describes the key bindings.
const KeyHelp = "keys: a w s e d f t g y h u j = C..B, space = note off, z/x = octave down/up, c/v = waveform down/up, q = quit"

// keyEvent maps one key press to an event.
func keyEvent(b byte) (synth.Event, bool) {
	for i := 0; i < len(pianoKeys); i++ {
		if pianoKeys[i] == b {
			return synth.NoteOn(i), true
		}
	}
	switch b {
	case ' ':
		return synth.NoteOff(), true
	case 'z':
		return synth.Event{Kind: synth.EventOctaveDown}, true
	case 'x':
		return synth.Event{Kind: synth.EventOctaveUp}, true
	case 'c':
		return synth.Event{Kind: synth.EventWaveformDown}, true
	case 'v':
		return synth.Event{Kind: synth.EventWaveformUp}, true
	}
	return synth.Event{}, false
}

func isQuitKey(b byte) bool {
	return b == 'q' || b == 0x03 || b == 0x04 // ctrl-c, ctrl-d in raw mode
}

// Keyboard turns key presses on a terminal into events. Terminals only
// report presses, so a note keeps sounding until space or another note.
type Keyboard struct {
	in     *os.File
	engine Engine
}

// NewKeyboard ...
func NewKeyboard(in *os.File, engine Engine) *Keyboard {
	return &Keyboard{in: in, engine: engine}
}

// Run puts the terminal in raw mode and reads keys until ctx is done or
// ErrQuit.
func (k *Keyboard) Run(ctx context.Context) error {
	fd := int(k.in.Fd())
	if !term.IsTerminal(fd) {
		return fmt.Errorf("keyboard input needs a terminal")
	}
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return err
	}
	defer func() {
		if err := term.Restore(fd, oldState); err != nil {
			log.Printf("failed to restore terminal: %v\n", err)
		}
	}()
	log.Print(KeyHelp + "\r\n")

	keys := make(chan byte, 16)
	errCh := make(chan error, 1)
	go func() {
		errCh <- readKeys(k.in, keys)
	}()
	return dispatchKeys(ctx, keys, errCh, k.engine)
}

func readKeys(r io.Reader, keys chan<- byte) error {
	defer close(keys)
	buf := make([]byte, 16)
	for {
		n, err := r.Read(buf)
		for _, b := range buf[:n] {
			keys <- b
		}
		if err != nil {
			return err
		}
	}
}

func dispatchKeys(ctx context.Context, keys <-chan byte, errCh <-chan error, engine Engine) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case b, ok := <-keys:
			if !ok {
				if err := <-errCh; err != nil && err != io.EOF {
					return err
				}
				return nil
			}
			if isQuitKey(b) {
				return ErrQuit
			}
			e, ok := keyEvent(b)
			if !ok {
				continue
			}
			if err := engine.Send(ctx, e); err != nil {
				return err
			}
		}
	}
}
