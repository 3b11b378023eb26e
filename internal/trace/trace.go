// Package trace logs a disassembled line per executed instruction for
// debugging. It observes machine state and never mutates it.
package trace

import (
	"fmt"
	"strings"

	"github.com/dtello/chip8/internal/chip8"
	c8 "github.com/retroenv/retrogolib/arch/cpu/chip8"
	"github.com/retroenv/retrogolib/log"
)

type Tracer struct {
	logger *log.Logger
}

func Create(logger *log.Logger) *Tracer {
	return &Tracer{logger: logger}
}

// Trace logs one instruction. Register operands show the values they
// held before the instruction executed.
func (t *Tracer) Trace(ev chip8.TraceEvent) {
	t.logger.Debug("exec",
		log.Hex("pc", ev.PC),
		log.Hex("opcode", ev.Inst.Opcode),
		log.String("asm", Disassemble(ev)),
		log.Hex("i", ev.I),
		log.Uint8("sp", ev.SP),
		log.Uint8("dt", ev.DT),
		log.Uint8("st", ev.ST),
	)
}

// Disassemble renders an instruction as mnemonic plus operands, with
// current register values in parentheses.
func Disassemble(ev chip8.TraceEvent) string {
	w := ev.Inst.Opcode
	firstNibble := (w & 0xF000) >> 12
	var opcode c8.Opcode
	for _, op := range c8.Opcodes[int(firstNibble)] {
		if op.Info.Mask&w == op.Info.Value {
			opcode = op
			break
		}
	}
	if opcode.Instruction == nil {
		return fmt.Sprintf("DW 0x%04X", w)
	}
	name := strings.ToUpper(opcode.Instruction.Name)
	if ops := operands(ev); ops != "" {
		return name + " " + ops
	}
	return name
}

func operands(ev chip8.TraceEvent) string {
	in := ev.Inst
	vx := func() string { return fmt.Sprintf("V%X (0x%02X)", in.X, ev.V[in.X]) }
	vy := func() string { return fmt.Sprintf("V%X (0x%02X)", in.Y, ev.V[in.Y]) }

	switch in.Opcode & 0xF000 {
	case 0x0000:
		return ""
	case 0x1000, 0x2000:
		return fmt.Sprintf("0x%03X", in.NNN)
	case 0x3000, 0x4000:
		return fmt.Sprintf("%s, 0x%02X", vx(), in.NN)
	case 0x5000, 0x9000:
		return fmt.Sprintf("%s, %s", vx(), vy())
	case 0x6000:
		return fmt.Sprintf("V%X, 0x%02X", in.X, in.NN)
	case 0x7000:
		return fmt.Sprintf("%s, 0x%02X", vx(), in.NN)
	case 0x8000:
		if in.N == 0x0 {
			return fmt.Sprintf("V%X, %s", in.X, vy())
		}
		return fmt.Sprintf("%s, %s", vx(), vy())
	case 0xA000:
		return fmt.Sprintf("I, 0x%03X", in.NNN)
	case 0xB000:
		return fmt.Sprintf("V0 (0x%02X), 0x%03X", ev.V[0], in.NNN)
	case 0xC000:
		return fmt.Sprintf("V%X, 0x%02X", in.X, in.NN)
	case 0xD000:
		return fmt.Sprintf("%s, %s, %d", vx(), vy(), in.N)
	case 0xE000:
		return vx()
	case 0xF000:
		switch in.NN {
		case 0x07:
			return fmt.Sprintf("V%X, DT (0x%02X)", in.X, ev.DT)
		case 0x0A:
			return fmt.Sprintf("V%X, K", in.X)
		case 0x15:
			return fmt.Sprintf("DT, %s", vx())
		case 0x18:
			return fmt.Sprintf("ST, %s", vx())
		case 0x1E:
			return fmt.Sprintf("I (0x%03X), %s", ev.I, vx())
		case 0x29:
			return fmt.Sprintf("F, %s", vx())
		case 0x33:
			return fmt.Sprintf("B, %s", vx())
		case 0x55:
			return fmt.Sprintf("[I], %s", vx())
		case 0x65:
			return fmt.Sprintf("%s, [I]", vx())
		}
	}
	return ""
}
