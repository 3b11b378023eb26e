// Package main implements the main entry point for the CHIP-8 emulator
package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/dtello/chip8/internal/chip8"
	"github.com/dtello/chip8/internal/config"
	"github.com/dtello/chip8/internal/drivers"
	"github.com/dtello/chip8/internal/emulator"
	"github.com/dtello/chip8/internal/keypad"
	"github.com/dtello/chip8/internal/speaker"
	"github.com/dtello/chip8/internal/trace"
	"github.com/retroenv/retrogolib/log"
)

func init() {
	// SDL needs the main loop on the startup thread
	runtime.LockOSThread()
}

func main() {
	flags := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	cfg, err := readArguments(flags, os.Args[1:])
	logger := config.CreateLogger(cfg)
	if err != nil {
		fmt.Printf("usage: chip8 [options] <rom file>\n\n")
		flags.PrintDefaults()
		fmt.Println()
		logger.Fatal(err.Error())
	}

	if err := run(logger, cfg); err != nil {
		logger.Fatal(err.Error())
	}
}

func readArguments(flags *flag.FlagSet, args []string) (config.Config, error) {
	cfg := config.Default()

	flags.StringVar(&cfg.Backend, "backend", cfg.Backend, "front-end to use: sdl, prototype or terminal")
	flags.IntVar(&cfg.ScaleFactor, "scale", cfg.ScaleFactor, "window scale factor")
	fg := flags.String("fg", "", "foreground color as RGBA8888 hex, for example 00FF00FF")
	bg := flags.String("bg", "", "background color as RGBA8888 hex")
	noOutlines := flags.Bool("no-outlines", false, "draw solid pixels without outlines")
	flags.IntVar(&cfg.InstPerSec, "ips", cfg.InstPerSec, "instructions per second")
	flags.IntVar(&cfg.SquareWaveFreq, "freq", cfg.SquareWaveFreq, "square wave frequency in Hz")
	volume := flags.Int("volume", int(cfg.Volume), "square wave volume")
	flags.IntVar(&cfg.SampleRate, "rate", cfg.SampleRate, "audio sample rate in Hz")
	schip := flags.Bool("schip", false, "use SUPER-CHIP behavior for the ambiguous opcodes")
	flags.BoolVar(&cfg.Strict, "strict", false, "halt on stack faults and unknown opcodes")
	flags.Int64Var(&cfg.Seed, "seed", 0, "random seed, 0 seeds from the clock")
	flags.BoolVar(&cfg.Debug, "debug", false, "enable debug logging and the instruction trace")
	flags.BoolVar(&cfg.Quiet, "q", false, "perform operations quietly")

	if err := flags.Parse(args); err != nil {
		return cfg, err
	}
	if flags.NArg() != 1 {
		return cfg, fmt.Errorf("expected one rom file argument")
	}
	cfg.RomPath = flags.Arg(0)

	if *fg != "" {
		c, err := parseColor(*fg)
		if err != nil {
			return cfg, fmt.Errorf("invalid foreground color: %w", err)
		}
		cfg.FgColor = c
	}
	if *bg != "" {
		c, err := parseColor(*bg)
		if err != nil {
			return cfg, fmt.Errorf("invalid background color: %w", err)
		}
		cfg.BgColor = c
	}
	cfg.PixelOutlines = !*noOutlines
	cfg.Volume = int16(*volume)
	if *schip {
		cfg.Quirks = chip8.SuperChipQuirks()
	}
	return cfg, nil
}

func parseColor(s string) (uint32, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "#")
	c, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, err
	}
	return uint32(c), nil
}

func run(logger *log.Logger, cfg config.Config) error {
	rom, err := os.ReadFile(cfg.RomPath)
	if err != nil {
		return fmt.Errorf("%w: %v", chip8.ErrRomUnreadable, err)
	}
	logger.Info("starting emulator",
		log.String("rom", cfg.RomPath),
		log.String("backend", cfg.Backend),
		log.Int("ips", cfg.InstPerSec),
	)

	machine := chip8.Create(chip8.Settings{
		Quirks: cfg.Quirks,
		Strict: cfg.Strict,
		Seed:   cfg.Seed,
		Logger: logger,
	})
	if cfg.Debug {
		machine.SetTracer(trace.Create(logger).Trace)
	}

	kp := keypad.Create()
	sp := speaker.Create(cfg.SampleRate, cfg.SquareWaveFreq, cfg.Volume)
	driver, err := drivers.Create(cfg, sp, kp, logger)
	if err != nil {
		return err
	}
	defer driver.Close()

	em := emulator.Create(emulator.Settings{
		Machine:    machine,
		Keypad:     kp,
		Speaker:    sp,
		Driver:     driver,
		Logger:     logger,
		Rom:        rom,
		InstPerSec: cfg.InstPerSec,
	})
	return em.Run()
}
