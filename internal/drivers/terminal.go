package drivers

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/dtello/chip8/internal/config"
	"github.com/dtello/chip8/internal/display"
	"github.com/dtello/chip8/internal/keypad"
	"github.com/eiannone/keyboard"
	"github.com/retroenv/retrogolib/log"
)

// terminals deliver no key-up events, so a pressed key stays down for
// this many frames and then decays
const keyHoldFrames = 6

// terminalDriver renders with ANSI escapes and reads raw key events
// through eiannone/keyboard. No audio.
type terminalDriver struct {
	keypad *keypad.Keypad
	cfg    config.Config
	logger *log.Logger

	mu   sync.Mutex
	held [16]int

	out *os.File
}

func createTerminal(cfg config.Config, kp *keypad.Keypad, logger *log.Logger) (Driver, error) {
	events, err := keyboard.GetKeys(10)
	if err != nil {
		return nil, fmt.Errorf("%w: opening terminal keyboard: %v", ErrHostInit, err)
	}

	d := &terminalDriver{
		keypad: kp,
		cfg:    cfg,
		logger: logger,
		out:    os.Stdout,
	}
	// clear screen and hide the cursor
	fmt.Fprint(d.out, "\x1b[2J\x1b[?25l")

	go d.readKeys(events)
	return d, nil
}

func (d *terminalDriver) readKeys(events <-chan keyboard.KeyEvent) {
	for ev := range events {
		if ev.Err != nil {
			d.logger.Error("terminal keyboard", log.Err(ev.Err))
			d.keypad.PushControl(keypad.ControlQuit)
			return
		}
		switch ev.Key {
		case keyboard.KeyEsc:
			d.keypad.PushControl(keypad.ControlQuit)
		case keyboard.KeySpace:
			d.keypad.PushControl(keypad.ControlPauseToggle)
		default:
			if ev.Rune == '=' {
				d.keypad.PushControl(keypad.ControlRestart)
				continue
			}
			if kaddr, ok := keypad.RuneMap[ev.Rune]; ok {
				d.mu.Lock()
				d.held[kaddr] = keyHoldFrames
				d.mu.Unlock()
			}
		}
	}
}

// Pump ages the held keys by one frame and publishes their state.
func (d *terminalDriver) Pump() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for kaddr := range d.held {
		d.keypad.Set(uint8(kaddr), d.held[kaddr] > 0)
		if d.held[kaddr] > 0 {
			d.held[kaddr]--
		}
	}
}

func (d *terminalDriver) Present(frame display.Frame) {
	var sb strings.Builder
	sb.Grow(display.ROWS * (display.COLS*2 + 1))
	sb.WriteString("\x1b[H")
	for row := 0; row < display.ROWS; row++ {
		for col := 0; col < display.COLS; col++ {
			if frame[row][col] {
				sb.WriteString("██")
			} else {
				sb.WriteString("  ")
			}
		}
		sb.WriteByte('\n')
	}
	fmt.Fprint(d.out, sb.String())
}

func (d *terminalDriver) Close() {
	// restore the cursor
	fmt.Fprint(d.out, "\x1b[?25h")
	_ = keyboard.Close()
}
