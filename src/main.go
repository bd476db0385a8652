package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/jinjor/additive-synth/src/audio"
	"github.com/jinjor/additive-synth/src/control"
	"github.com/jinjor/additive-synth/src/synth"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const defaultSockFileName = "/tmp/additive-synth.sock"

var version = "0.1.0"

var (
	configPath  string
	sockPath    string
	useMidi     bool
	useKeyboard bool
	httpAddr    string
	sampleRate  int
	bufferSize  int
	outputGain  float64
	startOctave int
	waveform    string
	scriptPath  string
	outPath     string
	duration    float64
)

func main() {
	log.SetFlags(log.Lshortfile)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "additive-synth",
	Short: "Single-voice additive synthesizer",
	Long: `additive-synth plays one note at a time as a stack of sine partials.
Notes, octave and waveform changes come from MIDI, the terminal keyboard,
a unix socket or an HTTP API.`,
	Version:      version,
	SilenceUsage: true,
}

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play to the default audio device",
	Long: `Open the default audio device and play events as they arrive.

Examples:
  additive-synth play --keyboard
  additive-synth play --midi --http :8080
  additive-synth play --config synth.json --ipc /tmp/synth.sock`,
	RunE: runPlay,
}

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a cue script to a WAV file",
	Long: `Render a script of timed events offline to a 16-bit mono WAV file.

Script lines look like "<seconds> <event> [pitch class]", e.g.
  0.0 note_on 9
  0.5 waveform_up
  1.0 note_off

Example:
  additive-synth render --script melody.txt --out melody.wav --duration 2`,
	RunE: runRender,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("additive-synth " + version)
	},
}

var paramsCmd = &cobra.Command{
	Use:   "params",
	Short: "Print the effective params as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := loadParams(cmd)
		if err != nil {
			return err
		}
		fmt.Println(string(p.ToJSON()))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(paramsCmd)

	defaults := synth.NewParams()
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&configPath, "config", "c", "", "JSON params file (missing fields keep defaults)")
	flags.IntVar(&sampleRate, "sample-rate", defaults.SampleRate, "Sample rate in Hz")
	flags.IntVar(&bufferSize, "buffer-frames", defaults.BufferFrames, "Frames per buffer")
	flags.Float64Var(&outputGain, "gain", defaults.OutputGain, "Output gain applied to the summed partials")
	flags.IntVar(&startOctave, "octave", defaults.StartOctave, "Initial octave index (0-8)")
	flags.StringVar(&waveform, "waveform", defaults.StartWaveform.String(), "Initial waveform (sine, sawtooth, square)")

	playCmd.Flags().StringVar(&sockPath, "ipc", defaultSockFileName, "Unix socket for the line protocol (empty to disable)")
	playCmd.Flags().BoolVar(&useMidi, "midi", false, "Listen to the first MIDI input port")
	playCmd.Flags().BoolVarP(&useKeyboard, "keyboard", "k", false, "Play from the terminal keyboard")
	playCmd.Flags().StringVar(&httpAddr, "http", "", "Address for the HTTP control API, e.g. :8080 (empty to disable)")

	renderCmd.Flags().StringVarP(&scriptPath, "script", "s", "", "Cue script (required)")
	renderCmd.Flags().StringVarP(&outPath, "out", "o", "out.wav", "Output WAV file")
	renderCmd.Flags().Float64VarP(&duration, "duration", "d", 0, "Length in seconds (default: last cue + 1s)")
	renderCmd.MarkFlagRequired("script")
}

func runPlay(cmd *cobra.Command, args []string) error {
	log.Printf("NumCPU: %v\n", runtime.NumCPU())
	p, err := loadParams(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, os.Interrupt, syscall.SIGTERM)
	defer func() {
		signal.Stop(signalCh)
		cancel()
	}()
	go func() {
		select {
		case sig := <-signalCh:
			log.Printf("Caught signal %s: shutting down...\n", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	a := audio.NewAudio(p)
	sink, err := audio.NewDeviceSink(p)
	if err != nil {
		return fmt.Errorf("failed to open audio device: %w", err)
	}
	defer func() {
		if err := sink.Close(); err != nil {
			log.Printf("error: %v\n", err)
		}
	}()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return a.Run(ctx)
	})
	g.Go(func() error {
		return sink.Play(ctx, a)
	})
	if sockPath != "" {
		ipc := control.NewIPC(sockPath, a, a.Changes)
		g.Go(func() error {
			return ipc.Serve(ctx)
		})
	}
	if useMidi {
		g.Go(func() error {
			return audio.ForwardMidi(ctx, a, audio.ListenToMidiIn(ctx))
		})
	}
	if httpAddr != "" {
		server := control.NewServer(a)
		g.Go(func() error {
			return server.ListenAndServe(ctx, httpAddr)
		})
	}
	if useKeyboard {
		keyboard := control.NewKeyboard(os.Stdin, a)
		g.Go(func() error {
			return keyboard.Run(ctx)
		})
	}
	err = g.Wait()
	if errors.Is(err, control.ErrQuit) {
		err = nil
	}
	log.Println("play ended.")
	return err
}

// loadParams reads --config over the defaults, then applies the flags that
// were set explicitly.
func loadParams(cmd *cobra.Command) (*synth.Params, error) {
	p, err := synth.LoadParams(configPath)
	if err != nil {
		return nil, err
	}
	flags := cmd.Flags()
	if flags.Changed("sample-rate") {
		p.SampleRate = sampleRate
	}
	if flags.Changed("buffer-frames") {
		p.BufferFrames = bufferSize
	}
	if flags.Changed("gain") {
		p.OutputGain = outputGain
	}
	if flags.Changed("octave") {
		p.StartOctave = startOctave
	}
	if flags.Changed("waveform") {
		w, err := synth.WaveformFromString(waveform)
		if err != nil {
			return nil, err
		}
		p.StartWaveform = w
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}
