// Package config handles application configuration and logger setup
package config

import (
	"github.com/dtello/chip8/internal/chip8"
	"github.com/retroenv/retrogolib/log"
)

// Config holds all runtime settings for the emulator.
type Config struct {
	RomPath string
	Backend string

	ScaleFactor   int
	FgColor       uint32 // RGBA8888
	BgColor       uint32 // RGBA8888
	PixelOutlines bool

	InstPerSec int

	SquareWaveFreq int
	Volume         int16
	SampleRate     int

	Quirks chip8.Quirks
	Strict bool
	Seed   int64

	Debug bool
	Quiet bool
}

// Default returns the stock configuration: a green on black window at
// 20x scale running 700 instructions per second with a 440 Hz tone.
func Default() Config {
	return Config{
		Backend:        "sdl",
		ScaleFactor:    20,
		FgColor:        0x00FF00FF,
		BgColor:        0x000000FF,
		PixelOutlines:  true,
		InstPerSec:     700,
		SquareWaveFreq: 440,
		Volume:         3000,
		SampleRate:     44100,
		Quirks:         chip8.OriginalQuirks(),
	}
}

// CreateLogger creates the process logger from the parsed flags. The
// terminal front-end draws the framebuffer on the same tty the logger
// writes to, so anything below error level would tear the picture;
// that backend runs quiet unless -debug forces the trace anyway.
func CreateLogger(cfg Config) *log.Logger {
	lcfg := log.DefaultConfig()
	switch {
	case cfg.Debug:
		lcfg.Level = log.DebugLevel
	case cfg.Quiet, cfg.Backend == "terminal":
		lcfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(lcfg)
}

// RGBA splits an RGBA8888 color into its components.
func RGBA(c uint32) (r, g, b, a uint8) {
	return uint8(c >> 24), uint8(c >> 16), uint8(c >> 8), uint8(c)
}
