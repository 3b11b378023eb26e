// Package drivers contains the host front-ends. A driver owns the
// window, the audio device and the input source; it feeds the keypad
// (from Pump or from a goroutine of its own) and renders the frame the
// scheduler hands it.
package drivers

import (
	"errors"
	"fmt"

	"github.com/dtello/chip8/internal/config"
	"github.com/dtello/chip8/internal/display"
	"github.com/dtello/chip8/internal/keypad"
	"github.com/dtello/chip8/internal/speaker"
	"github.com/retroenv/retrogolib/log"
)

var ErrHostInit = errors.New("front-end initialization failed")

// Driver is the contract between the frame scheduler and a front-end.
type Driver interface {
	// Pump collects pending host events into the keypad and keeps the
	// audio device fed. Called once per frame from the scheduler.
	Pump()
	// Present renders one frame.
	Present(frame display.Frame)
	Close()
}

// Create builds the front-end selected by cfg.Backend.
func Create(cfg config.Config, sp *speaker.Speaker, kp *keypad.Keypad, logger *log.Logger) (Driver, error) {
	switch cfg.Backend {
	case "sdl":
		return createSDL(cfg, sp, kp, logger)
	case "prototype":
		return createPrototype(cfg, kp, logger)
	case "terminal":
		return createTerminal(cfg, kp, logger)
	default:
		return nil, fmt.Errorf("%w: unknown backend %q", ErrHostInit, cfg.Backend)
	}
}
