// Package emulator runs the frame loop: 60 frames per second, a batch
// of instructions per frame, one timer tick per frame, then a render.
package emulator

import (
	"time"

	"github.com/dtello/chip8/internal/chip8"
	"github.com/dtello/chip8/internal/drivers"
	"github.com/dtello/chip8/internal/keypad"
	"github.com/dtello/chip8/internal/speaker"
	"github.com/retroenv/retrogolib/log"
)

const frameDuration = time.Second / 60

type Settings struct {
	Machine *chip8.Machine
	Keypad  *keypad.Keypad
	Speaker *speaker.Speaker
	Driver  drivers.Driver
	Logger  *log.Logger

	Rom        []uint8
	InstPerSec int
}

type Emulator struct {
	machine *chip8.Machine
	keypad  *keypad.Keypad
	speaker *speaker.Speaker
	driver  drivers.Driver
	logger  *log.Logger

	rom          []uint8
	instPerFrame int
}

func Create(settings Settings) *Emulator {
	return &Emulator{
		machine: settings.Machine,
		keypad:  settings.Keypad,
		speaker: settings.Speaker,
		driver:  settings.Driver,
		logger:  settings.Logger,
		rom:     settings.Rom,
		// round up so the configured rate is a floor
		instPerFrame: (settings.InstPerSec + 59) / 60,
	}
}

// Run loads the ROM and drives frames until the machine quits. A
// restart reloads the same ROM from scratch.
func (em *Emulator) Run() error {
	for {
		if err := em.machine.Load(em.rom); err != nil {
			return err
		}
		em.logger.Debug("rom loaded", log.Int("bytes", len(em.rom)))

		if err := em.frameLoop(); err != nil {
			return err
		}
		if em.machine.State() != chip8.StateRestart {
			return nil
		}
		em.logger.Info("restarting")
	}
}

func (em *Emulator) frameLoop() error {
	clock := time.NewTicker(frameDuration)
	defer clock.Stop()

	for range clock.C {
		if err := em.frame(); err != nil {
			return err
		}
		switch em.machine.State() {
		case chip8.StateQuit, chip8.StateRestart:
			return nil
		}
	}
	return nil
}

// frame runs one 60 Hz step: drain input, execute the instruction
// batch, tick the timers, present. Timers keep ticking while paused.
func (em *Emulator) frame() error {
	em.driver.Pump()
	em.drainControls()
	em.machine.SetKeys(em.keypad.Snapshot())

	if em.machine.State() == chip8.StateRunning {
		for i := 0; i < em.instPerFrame; i++ {
			if err := em.machine.Step(); err != nil {
				return err
			}
			if em.machine.State() != chip8.StateRunning {
				break
			}
		}
	}

	em.speaker.Set(em.machine.TickTimers())
	em.driver.Present(em.machine.Display().Frame())
	return nil
}

func (em *Emulator) drainControls() {
	for _, c := range em.keypad.DrainControls() {
		switch c {
		case keypad.ControlQuit:
			em.machine.SetState(chip8.StateQuit)
		case keypad.ControlRestart:
			em.machine.SetState(chip8.StateRestart)
		case keypad.ControlPauseToggle:
			switch em.machine.State() {
			case chip8.StateRunning:
				em.machine.SetState(chip8.StatePaused)
				em.logger.Info("paused, press space to resume")
			case chip8.StatePaused:
				em.machine.SetState(chip8.StateRunning)
				em.logger.Info("resumed")
			}
		}
	}
}
