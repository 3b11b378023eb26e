package drivers

import (
	"strings"
	"sync"

	"github.com/dtello/chip8/internal/config"
	"github.com/dtello/chip8/internal/display"
	"github.com/dtello/chip8/internal/keypad"
	"github.com/gonutz/prototype/draw"
	"github.com/retroenv/retrogolib/log"
)

var protoKeyMap = map[draw.Key]uint8{
	draw.Key1: 0x1, draw.Key2: 0x2, draw.Key3: 0x3, draw.Key4: 0xC,
	draw.KeyQ: 0x4, draw.KeyW: 0x5, draw.KeyE: 0x6, draw.KeyR: 0xD,
	draw.KeyA: 0x7, draw.KeyS: 0x8, draw.KeyD: 0x9, draw.KeyF: 0xE,
	draw.KeyZ: 0xA, draw.KeyX: 0x0, draw.KeyC: 0xB, draw.KeyV: 0xF,
}

// protoDriver renders through gonutz/prototype. The window owns its own
// update loop, so the driver shares the latest frame with it under a
// mutex and collects input from inside the update callback. No audio.
type protoDriver struct {
	keypad *keypad.Keypad
	cfg    config.Config
	logger *log.Logger

	mu     sync.Mutex
	frame  display.Frame
	closed bool
}

func createPrototype(cfg config.Config, kp *keypad.Keypad, logger *log.Logger) (Driver, error) {
	d := &protoDriver{
		keypad: kp,
		cfg:    cfg,
		logger: logger,
	}
	go func() {
		err := draw.RunWindow("CHIP-8",
			display.COLS*cfg.ScaleFactor, display.ROWS*cfg.ScaleFactor,
			d.update)
		if err != nil {
			logger.Error("window loop failed", log.Err(err))
		}
		kp.PushControl(keypad.ControlQuit)
	}()
	return d, nil
}

func (d *protoDriver) update(window draw.Window) {
	d.mu.Lock()
	frame := d.frame
	closed := d.closed
	d.mu.Unlock()
	if closed {
		window.Close()
		return
	}

	if window.WasKeyPressed(draw.KeyEscape) {
		d.keypad.PushControl(keypad.ControlQuit)
	}
	if window.WasKeyPressed(draw.KeySpace) {
		d.keypad.PushControl(keypad.ControlPauseToggle)
	}
	if strings.ContainsRune(window.Characters(), '=') {
		d.keypad.PushControl(keypad.ControlRestart)
	}
	for key, kaddr := range protoKeyMap {
		d.keypad.Set(kaddr, window.IsKeyDown(key))
	}

	bg := protoColor(d.cfg.BgColor)
	fg := protoColor(d.cfg.FgColor)
	scale := d.cfg.ScaleFactor
	window.FillRect(0, 0, display.COLS*scale, display.ROWS*scale, bg)
	for row := 0; row < display.ROWS; row++ {
		for col := 0; col < display.COLS; col++ {
			if !frame[row][col] {
				continue
			}
			window.FillRect(col*scale, row*scale, scale, scale, fg)
			if d.cfg.PixelOutlines {
				window.DrawRect(col*scale, row*scale, scale, scale, bg)
			}
		}
	}
}

func protoColor(c uint32) draw.Color {
	r, g, b, a := config.RGBA(c)
	return draw.RGBA(float32(r)/255, float32(g)/255, float32(b)/255, float32(a)/255)
}

func (d *protoDriver) Pump() {
	// input is collected inside the window update callback
}

func (d *protoDriver) Present(frame display.Frame) {
	d.mu.Lock()
	d.frame = frame
	d.mu.Unlock()
}

func (d *protoDriver) Close() {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()
}
