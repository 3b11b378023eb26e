// Package chip8 implements the CHIP-8 virtual machine: memory, registers,
// the opcode executor and the timers. It is single threaded; the frame
// scheduler feeds it input snapshots and drives Step and TickTimers.
package chip8

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/dtello/chip8/internal/display"
	"github.com/retroenv/retrogolib/log"
)

const (
	REGISTERS  = 16
	MEM_SIZE   = 4096
	STACK_SIZE = 12

	ROWS = display.ROWS
	COLS = display.COLS

	FONT_ADDR    = 0x000
	ROM_ADDR     = 0x200
	MAX_ROM_SIZE = MEM_SIZE - ROM_ADDR

	ADDR_MASK = 0x0FFF
)

var (
	ErrRomTooLarge   = errors.New("rom does not fit in memory")
	ErrRomUnreadable = errors.New("rom could not be read")
)

var fonts = []uint8{
	0xF0, 0x90, 0x90, 0x90, 0xF0, // 0
	0x20, 0x60, 0x20, 0x20, 0x70, // 1
	0xF0, 0x10, 0xF0, 0x80, 0xF0, // 2
	0xF0, 0x10, 0xF0, 0x10, 0xF0, // 3
	0x90, 0x90, 0xF0, 0x10, 0x10, // 4
	0xF0, 0x80, 0xF0, 0x10, 0xF0, // 5
	0xF0, 0x80, 0xF0, 0x90, 0xF0, // 6
	0xF0, 0x10, 0x20, 0x40, 0x40, // 7
	0xF0, 0x90, 0xF0, 0x90, 0xF0, // 8
	0xF0, 0x90, 0xF0, 0x10, 0xF0, // 9
	0xF0, 0x90, 0xF0, 0x90, 0x90, // A
	0xE0, 0x90, 0xE0, 0x90, 0xE0, // B
	0xF0, 0x80, 0x80, 0x80, 0xF0, // C
	0xE0, 0x90, 0x90, 0x90, 0xE0, // D
	0xF0, 0x80, 0xF0, 0x80, 0xF0, // E
	0xF0, 0x80, 0xF0, 0x80, 0x80, // F
}

// State is the machine run state driven by front-end controls.
type State int

const (
	StateRunning State = iota
	StatePaused
	StateQuit
	StateRestart
)

// Quirks selects between original COSMAC VIP behavior and the later
// SUPER-CHIP reinterpretations of the ambiguous opcodes.
type Quirks struct {
	// 8XY1/8XY2/8XY3 reset VF to 0
	ResetVF bool
	// 8XY6/8XYE shift VY into VX instead of shifting VX in place
	ShiftUsesVY bool
	// FX55/FX65 leave I pointing past the last register
	IncrementI bool
	// DRW clips sprites at the screen edge instead of wrapping
	ClipSprites bool
}

func OriginalQuirks() Quirks {
	return Quirks{ResetVF: true, ShiftUsesVY: true, IncrementI: true, ClipSprites: true}
}

func SuperChipQuirks() Quirks {
	return Quirks{}
}

// Settings configures a Machine at creation time.
type Settings struct {
	Quirks Quirks
	// Strict halts the machine on stack faults and unknown opcodes
	// instead of logging and continuing.
	Strict bool
	// Seed for the random source. Zero seeds from the wall clock.
	Seed   int64
	Logger *log.Logger
}

// Machine holds the complete interpreter state.
type Machine struct {
	mem       []uint8
	registers []uint8

	sp    uint8
	stack []uint16

	i  uint16
	pc uint16

	dt, st uint8

	display *display.Display
	keys    [16]bool

	state State
	inst  Inst

	// keypad index armed by FX0A, -1 when not waiting
	waitKey int16

	rng    *rand.Rand
	quirks Quirks
	strict bool
	logger *log.Logger
	trace  func(TraceEvent)
}

func Create(settings Settings) *Machine {
	seed := settings.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	logger := settings.Logger
	if logger == nil {
		logger = log.NewWithConfig(log.DefaultConfig())
	}
	return &Machine{
		mem:       make([]uint8, MEM_SIZE),
		registers: make([]uint8, REGISTERS),
		stack:     make([]uint16, STACK_SIZE),
		display:   display.Create(),
		waitKey:   -1,
		rng:       rand.New(rand.NewSource(seed)),
		quirks:    settings.Quirks,
		strict:    settings.Strict,
		logger:    logger,
	}
}

// Load resets the machine and copies rom into memory at the program
// start address. The font sprites always occupy the first 80 bytes.
func (m *Machine) Load(rom []uint8) error {
	if len(rom) > MAX_ROM_SIZE {
		return fmt.Errorf("%w: %d bytes, limit %d", ErrRomTooLarge, len(rom), MAX_ROM_SIZE)
	}

	for i := range m.mem {
		m.mem[i] = 0
	}
	for i := range m.registers {
		m.registers[i] = 0
	}
	for i := range m.stack {
		m.stack[i] = 0
	}
	copy(m.mem[FONT_ADDR:], fonts)
	copy(m.mem[ROM_ADDR:], rom)

	m.sp = 0
	m.i = 0
	m.pc = ROM_ADDR
	m.dt = 0
	m.st = 0
	m.keys = [16]bool{}
	m.waitKey = -1
	m.display.Clear()
	m.state = StateRunning
	return nil
}

func (m *Machine) State() State {
	return m.state
}

func (m *Machine) SetState(state State) {
	m.state = state
}

// SetKeys installs the key snapshot for the current frame.
func (m *Machine) SetKeys(keys [16]bool) {
	m.keys = keys
}

func (m *Machine) Display() *display.Display {
	return m.display
}

// SetTracer installs a per-instruction observer, called after fetch and
// decode but before execution. A nil tracer disables tracing.
func (m *Machine) SetTracer(trace func(TraceEvent)) {
	m.trace = trace
}

// TickTimers decrements both timers by one frame and reports whether the
// tone should be audible.
func (m *Machine) TickTimers() bool {
	if m.dt > 0 {
		m.dt--
	}
	if m.st > 0 {
		m.st--
		return true
	}
	return false
}
