package trace

import (
	"testing"

	"github.com/dtello/chip8/internal/chip8"
	"github.com/retroenv/retrogolib/log"
	"github.com/stretchr/testify/assert"
)

func event(opcode uint16) chip8.TraceEvent {
	return chip8.TraceEvent{
		PC: 0x200,
		Inst: chip8.Inst{
			Opcode: opcode,
			NNN:    opcode & 0x0FFF,
			NN:     uint8(opcode & 0x00FF),
			N:      uint8(opcode & 0x000F),
			X:      uint8(opcode >> 8 & 0x0F),
			Y:      uint8(opcode >> 4 & 0x0F),
		},
	}
}

func Test_Create(t *testing.T) {
	tracer := Create(log.NewTestLogger(t))
	assert.NotNil(t, tracer)
	tracer.Trace(event(0x00E0))
}

func Test_Disassemble_noOperands(t *testing.T) {
	assert.Equal(t, Disassemble(event(0x00E0)), "CLS")
	assert.Equal(t, Disassemble(event(0x00EE)), "RET")
}

func Test_Disassemble_address(t *testing.T) {
	assert.Contains(t, Disassemble(event(0x1234)), "0x234")
	assert.Contains(t, Disassemble(event(0x2234)), "0x234")
	assert.Contains(t, Disassemble(event(0xA123)), "I, 0x123")
}

func Test_Disassemble_registerValues(t *testing.T) {
	ev := event(0x8124)
	ev.V[1] = 0x0A
	ev.V[2] = 0x0B
	asm := Disassemble(ev)
	assert.Contains(t, asm, "V1 (0x0A)")
	assert.Contains(t, asm, "V2 (0x0B)")
}

func Test_Disassemble_loadImmediateHidesValue(t *testing.T) {
	ev := event(0x6A42)
	asm := Disassemble(ev)
	assert.Contains(t, asm, "VA, 0x42")
	assert.NotContains(t, asm, "(")
}

func Test_Disassemble_draw(t *testing.T) {
	ev := event(0xD125)
	ev.V[1] = 3
	ev.V[2] = 4
	asm := Disassemble(ev)
	assert.Contains(t, asm, "V1 (0x03)")
	assert.Contains(t, asm, "V2 (0x04)")
	assert.Contains(t, asm, ", 5")
}

func Test_Disassemble_timing(t *testing.T) {
	ev := event(0xF107)
	ev.DT = 9
	assert.Contains(t, Disassemble(ev), "DT (0x09)")

	assert.Contains(t, Disassemble(event(0xF10A)), "V1, K")
	assert.Contains(t, Disassemble(event(0xF155)), "[I]")
}

func Test_Disassemble_unknownOpcode(t *testing.T) {
	assert.Equal(t, Disassemble(event(0xF0FF)), "DW 0xF0FF")
}
