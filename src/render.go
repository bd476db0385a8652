package main

import (
	"fmt"
	"log"
	"os"

	"github.com/jinjor/additive-synth/src/audio"
	"github.com/spf13/cobra"
)

func runRender(cmd *cobra.Command, args []string) error {
	p, err := loadParams(cmd)
	if err != nil {
		return err
	}
	script, err := os.Open(scriptPath)
	if err != nil {
		return err
	}
	defer script.Close()
	cues, err := audio.ParseScript(script)
	if err != nil {
		return fmt.Errorf("%s: %w", scriptPath, err)
	}
	length := duration
	if length <= 0 {
		length = 1
		if len(cues) > 0 {
			length += cues[len(cues)-1].At
		}
	}

	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	frames, err := audio.Render(f, p, cues, length)
	if err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	log.Printf("wrote %d frames (%.2fs at %d Hz) to %s\n", frames, length, p.SampleRate, outPath)
	return nil
}
