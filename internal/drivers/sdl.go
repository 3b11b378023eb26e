package drivers

import (
	"fmt"

	"github.com/dtello/chip8/internal/config"
	"github.com/dtello/chip8/internal/display"
	"github.com/dtello/chip8/internal/keypad"
	"github.com/dtello/chip8/internal/speaker"
	"github.com/retroenv/retrogolib/log"
	"github.com/veandco/go-sdl2/sdl"
)

var sdlKeyMap = map[sdl.Keycode]uint8{
	sdl.K_1: 0x1, sdl.K_2: 0x2, sdl.K_3: 0x3, sdl.K_4: 0xC,
	sdl.K_q: 0x4, sdl.K_w: 0x5, sdl.K_e: 0x6, sdl.K_r: 0xD,
	sdl.K_a: 0x7, sdl.K_s: 0x8, sdl.K_d: 0x9, sdl.K_f: 0xE,
	sdl.K_z: 0xA, sdl.K_x: 0x0, sdl.K_c: 0xB, sdl.K_v: 0xF,
}

type sdlDriver struct {
	window   *sdl.Window
	renderer *sdl.Renderer
	audio    sdl.AudioDeviceID

	speaker *speaker.Speaker
	keypad  *keypad.Keypad
	cfg     config.Config
	logger  *log.Logger

	// bytes to keep queued, roughly three frames of samples
	queueTarget uint32
	audioPaused bool
}

func createSDL(cfg config.Config, sp *speaker.Speaker, kp *keypad.Keypad, logger *log.Logger) (Driver, error) {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_AUDIO); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrHostInit, err)
	}

	window, err := sdl.CreateWindow("CHIP-8",
		sdl.WINDOWPOS_CENTERED, sdl.WINDOWPOS_CENTERED,
		int32(display.COLS*cfg.ScaleFactor), int32(display.ROWS*cfg.ScaleFactor),
		sdl.WINDOW_SHOWN)
	if err != nil {
		return nil, fmt.Errorf("%w: creating window: %v", ErrHostInit, err)
	}

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED)
	if err != nil {
		return nil, fmt.Errorf("%w: creating renderer: %v", ErrHostInit, err)
	}

	want := sdl.AudioSpec{
		Freq:     int32(cfg.SampleRate),
		Format:   sdl.AUDIO_S16LSB,
		Channels: 1,
		Samples:  512,
	}
	var have sdl.AudioSpec
	audio, err := sdl.OpenAudioDevice("", false, &want, &have, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: opening audio device: %v", ErrHostInit, err)
	}
	sdl.PauseAudioDevice(audio, true)

	return &sdlDriver{
		window:      window,
		renderer:    renderer,
		audio:       audio,
		speaker:     sp,
		keypad:      kp,
		cfg:         cfg,
		logger:      logger,
		queueTarget: uint32(cfg.SampleRate / 60 * 2 * 3),
		audioPaused: true,
	}, nil
}

func (d *sdlDriver) Pump() {
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch et := event.(type) {
		case *sdl.QuitEvent:
			d.keypad.PushControl(keypad.ControlQuit)
		case *sdl.KeyboardEvent:
			d.handleKey(et)
		}
	}
	d.pumpAudio()
}

func (d *sdlDriver) handleKey(et *sdl.KeyboardEvent) {
	down := et.Type == sdl.KEYDOWN
	switch et.Keysym.Sym {
	case sdl.K_ESCAPE:
		if down {
			d.keypad.PushControl(keypad.ControlQuit)
		}
	case sdl.K_SPACE:
		if down && et.Repeat == 0 {
			d.keypad.PushControl(keypad.ControlPauseToggle)
		}
	case sdl.K_EQUALS:
		if down && et.Repeat == 0 {
			d.keypad.PushControl(keypad.ControlRestart)
		}
	default:
		if kaddr, ok := sdlKeyMap[et.Keysym.Sym]; ok {
			d.keypad.Set(kaddr, down)
		}
	}
}

// pumpAudio keeps a few frames of square wave queued while the tone is
// on and silences the device the moment it turns off.
func (d *sdlDriver) pumpAudio() {
	if !d.speaker.IsActive() {
		if !d.audioPaused {
			sdl.PauseAudioDevice(d.audio, true)
			sdl.ClearQueuedAudio(d.audio)
			d.audioPaused = true
		}
		return
	}
	if queued := sdl.GetQueuedAudioSize(d.audio); queued < d.queueTarget {
		samples := int(d.queueTarget-queued) / 2
		if err := sdl.QueueAudio(d.audio, d.speaker.Fill(samples)); err != nil {
			d.logger.Error("queueing audio", log.Err(err))
		}
	}
	if d.audioPaused {
		sdl.PauseAudioDevice(d.audio, false)
		d.audioPaused = false
	}
}

func (d *sdlDriver) Present(frame display.Frame) {
	bgR, bgG, bgB, bgA := config.RGBA(d.cfg.BgColor)
	fgR, fgG, fgB, fgA := config.RGBA(d.cfg.FgColor)

	_ = d.renderer.SetDrawColor(bgR, bgG, bgB, bgA)
	_ = d.renderer.Clear()

	scale := int32(d.cfg.ScaleFactor)
	for row := 0; row < display.ROWS; row++ {
		for col := 0; col < display.COLS; col++ {
			if !frame[row][col] {
				continue
			}
			rect := sdl.Rect{X: int32(col) * scale, Y: int32(row) * scale, W: scale, H: scale}
			_ = d.renderer.SetDrawColor(fgR, fgG, fgB, fgA)
			_ = d.renderer.FillRect(&rect)
			if d.cfg.PixelOutlines {
				_ = d.renderer.SetDrawColor(bgR, bgG, bgB, bgA)
				_ = d.renderer.DrawRect(&rect)
			}
		}
	}
	d.renderer.Present()
}

func (d *sdlDriver) Close() {
	sdl.CloseAudioDevice(d.audio)
	_ = d.renderer.Destroy()
	_ = d.window.Destroy()
	sdl.Quit()
}
