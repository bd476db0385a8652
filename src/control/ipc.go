package control

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jinjor/additive-synth/src/audio"
	"github.com/jinjor/additive-synth/src/synth"
	"golang.org/x/sync/errgroup"
)

// IPC serves the line protocol on a unix socket, one client at a time.
// Clients send events ("note_on 9", "octave_up", ...) and receive "fft" and
// "state" report lines.
type IPC struct {
	path    string
	engine  Engine
	changes *audio.Changes
}

// NewIPC ...
func NewIPC(path string, engine Engine, changes *audio.Changes) *IPC {
	return &IPC{path: path, engine: engine, changes: changes}
}

// Serve accepts clients until ctx is done.
func (s *IPC) Serve(ctx context.Context) error {
	os.Remove(s.path)
	listener, err := new(net.ListenConfig).Listen(ctx, "unix", s.path)
	if err != nil {
		return err
	}
	defer func() {
		log.Println("Closing IPC...")
		os.Remove(s.path)
	}()
	go func() {
		<-ctx.Done()
		err := listener.Close()
		if err != nil {
			log.Printf("error while closing listener: %v", err)
		}
	}()
	log.Printf("start listening on %s...\n", s.path)
	for {
		conn, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil {
				log.Println("Serve() ended.")
				return nil
			}
			return err
		}
		if err := s.handle(ctx, conn); err != nil {
			log.Printf("IPC connection failed: %v\n", err)
		}
	}
}

func (s *IPC) handle(ctx context.Context, conn net.Conn) error {
	defer func() {
		err := conn.Close()
		if err != nil {
			log.Printf("error while closing connection: %v", err)
		}
	}()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	w := &lineWriter{w: conn}
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer cancel()
		return receiveCommands(ctx, conn, s.engine, w)
	})
	g.Go(func() error {
		return sendReports(ctx, w, s.engine, s.changes)
	})
	go func() {
		<-ctx.Done()
		conn.SetReadDeadline(time.Now())
	}()
	return g.Wait()
}

type lineWriter struct {
	sync.Mutex
	w io.Writer
}

func (lw *lineWriter) writeLine(s string) error {
	lw.Lock()
	defer lw.Unlock()
	_, err := io.WriteString(lw.w, s+"\n")
	return err
}

func receiveCommands(ctx context.Context, r io.Reader, engine Engine, w *lineWriter) error {
	reader := bufio.NewReader(r)
	var line []byte
	for {
		select {
		case <-ctx.Done():
			log.Println("Connection interrupted")
			return nil
		default:
		}
		next, isPrefix, err := reader.ReadLine()
		if err == io.EOF {
			log.Println("receiveCommands() ended.")
			return nil
		}
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		line = append(line, next...)
		if isPrefix {
			continue
		}
		log.Printf("received: %s\n", string(line))
		command, err := parseCommand(string(line))
		line = line[:0]
		if err == nil {
			var e synth.Event
			e, err = synth.ParseEvent(command)
			if err == nil {
				err = engine.Send(ctx, e)
			}
		}
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if err := w.writeLine("error " + url.QueryEscape(err.Error())); err != nil {
				return err
			}
		}
	}
}

func parseCommand(line string) ([]string, error) {
	lineStr := strings.Fields(line)
	for i, item := range lineStr {
		escaped, err := url.QueryUnescape(item)
		if err != nil {
			return nil, err
		}
		lineStr[i] = escaped
	}
	return lineStr, nil
}

func sendReports(ctx context.Context, w *lineWriter, engine Engine, changes *audio.Changes) error {
	t := time.NewTicker(time.Second / 60)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Println("sendReports() ended.")
			return nil
		case <-t.C:
			if changes != nil && changes.Has("state") {
				changes.Delete("state")
				if err := w.writeLine(formatState(engine.State())); err != nil {
					return err
				}
			}
			spectrum := engine.Spectrum()
			s := "fft " + strconv.FormatFloat(spectrum.BinHz, 'f', 6, 64)
			for _, value := range spectrum.Magnitudes {
				s += " " + strconv.FormatFloat(value, 'f', 6, 64)
			}
			if err := w.writeLine(s); err != nil {
				return err
			}
		}
	}
}

func formatState(s synth.VoiceState) string {
	return fmt.Sprintf("state octave=%d waveform=%s sounding=%t pitch=%d freq=%.2f",
		s.OctaveIndex, s.Waveform, s.Sounding, s.PitchClass, s.Fundamental)
}
