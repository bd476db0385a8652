package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRenderCommand(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "melody.txt")
	out := filepath.Join(dir, "melody.wav")
	err := os.WriteFile(script, []byte("0 note_on 9\n0.05 waveform_up\n0.1 note_off\n"), 0o644)
	if err != nil {
		t.Fatal(err)
	}
	rootCmd.SetArgs([]string{"render", "--script", script, "--out", out, "--duration", "0.2", "--sample-rate", "8000", "--octave", "4"})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("render failed: %v", err)
	}
	info, err := os.Stat(out)
	if err != nil {
		t.Fatal(err)
	}
	// 44-byte header + 1600 frames of 16-bit mono
	if info.Size() != 44+1600*2 {
		t.Errorf("expected %d bytes, got %d", 44+1600*2, info.Size())
	}
}

func TestRenderCommandRejectsBadFlags(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "empty.txt")
	if err := os.WriteFile(script, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	rootCmd.SetArgs([]string{"render", "--script", script, "--out", filepath.Join(dir, "x.wav"), "--waveform", "triangle"})
	if err := rootCmd.Execute(); err == nil {
		t.Errorf("expected error for unknown waveform")
	}
	waveform = "sine"
}
