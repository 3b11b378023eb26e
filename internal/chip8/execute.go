package chip8

import (
	"fmt"

	"github.com/retroenv/retrogolib/log"
)

const (
	// first niblet mask
	N1_MASK = 0xF000

	// instructions by first niblet
	SYS_OPS       = 0x0000
	JMP           = 0x1000 // jump pc to address
	CALL          = 0x2000 // call subroutine
	SEQ_VX_NN     = 0x3000 // skip if vx eq nn
	SNE_VX_NN     = 0x4000 // skip if vx ne nn
	SEQ_VX_VY     = 0x5000 // skip if vx eq vy
	LD_VX_NN      = 0x6000 // load vx with nn
	ADD_VX_NN     = 0x7000 // add nn to vx
	MOD_VX_VY_OPS = 0x8000 // series of arithmetic and bit operations for vx / vy
	SNE_VX_VY     = 0x9000 // skip if vx ne vy
	LD_I          = 0xA000 // load register i with remaining bits
	JMP_V0        = 0xB000 // jump to nnn + v0
	RND_VX_NN     = 0xC000 // generate random, then bitwise and nn, store to vx
	DRW_VX_VY_N   = 0xD000 // draw n byte sprite at vx / vy
	VX_KEY_OPS    = 0xE000 // series of skip instructions for key presses
	TIMING_OPS    = 0xF000 // series of timing instructions

	// sub instructions under SYS_OPS
	CLS = 0x00E0 // clear screen
	RET = 0x00EE // return from subroutine

	// sub instructions under MOD_VX_VY_OPS
	LD_VX_VY   = 0x0 // store vy in vx
	OR_VX_VY   = 0x1 // bitwise vx or vy
	AND_VX_VY  = 0x2 // bitwise vx and vy
	XOR_VX_VY  = 0x3 // bitwise vx xor vy
	ADD_VX_VY  = 0x4 // vx + vy and set carry in vf
	SUB_VX_VY  = 0x5 // vx - vy and set no-borrow in vf
	SHR_VX_VY  = 0x6 // right shift and store lsb in vf
	SUBN_VX_VY = 0x7 // vy - vx and set no-borrow in vf
	SHL_VX_VY  = 0xE // left shift and store msb in vf

	// sub instructions under VX_KEY_OPS
	SEQ_VX_KEY = 0x9E // skip if the key in vx is down
	SNE_VX_KEY = 0xA1 // skip if the key in vx is up

	// sub instructions under TIMING_OPS
	LD_VX_DT = 0x07 // set vx to delay timer
	LD_VX_K  = 0x0A // wait for key press and release, store in vx
	LD_DT_VX = 0x15 // set delay timer to vx
	LD_ST_VX = 0x18 // set sound timer to vx
	ADD_I_VX = 0x1E // i + vx and store to i
	LD_F_VX  = 0x29 // set i to the font sprite for vx
	LD_B_VX  = 0x33 // i, i+1, and i+2 represent BCD of vx
	LD_I_VX  = 0x55 // store v0-vx to memory starting at i
	LD_VX_I  = 0x65 // load v0-vx from memory starting at i
)

// Step fetches, decodes and executes one instruction. The returned
// error is non-nil only in strict mode; otherwise faults are logged
// and the machine keeps going.
func (m *Machine) Step() error {
	opcode := m.fetch()
	m.inst = decode(opcode)
	if m.trace != nil {
		m.trace(m.traceEvent())
	}

	in := m.inst
	switch opcode & N1_MASK {
	case SYS_OPS:
		switch opcode {
		case CLS:
			m.cls()
		case RET:
			return m.ret()
		default:
			// 0NNN machine code routines are not supported
			return m.unknown()
		}
	case JMP:
		m.pc = in.NNN
	case CALL:
		return m.call(in.NNN)
	case SEQ_VX_NN:
		m.skipIf(m.registers[in.X] == in.NN)
	case SNE_VX_NN:
		m.skipIf(m.registers[in.X] != in.NN)
	case SEQ_VX_VY:
		if in.N != 0 {
			return m.unknown()
		}
		m.skipIf(m.registers[in.X] == m.registers[in.Y])
	case LD_VX_NN:
		m.registers[in.X] = in.NN
	case ADD_VX_NN:
		m.registers[in.X] += in.NN
	case MOD_VX_VY_OPS:
		return m.alu(in)
	case SNE_VX_VY:
		if in.N != 0 {
			return m.unknown()
		}
		m.skipIf(m.registers[in.X] != m.registers[in.Y])
	case LD_I:
		m.i = in.NNN
	case JMP_V0:
		m.pc = (uint16(m.registers[0]) + in.NNN) & ADDR_MASK
	case RND_VX_NN:
		m.rndVxNN(in.X, in.NN)
	case DRW_VX_VY_N:
		m.draw(in.X, in.Y, in.N)
	case VX_KEY_OPS:
		switch in.NN {
		case SEQ_VX_KEY:
			m.skipIf(m.keys[m.registers[in.X]&0xF])
		case SNE_VX_KEY:
			m.skipIf(!m.keys[m.registers[in.X]&0xF])
		default:
			return m.unknown()
		}
	case TIMING_OPS:
		return m.timing(in)
	}
	return nil
}

func (m *Machine) skipIf(cond bool) {
	if cond {
		m.pc += 2
	}
}

// clear screen
func (m *Machine) cls() {
	m.display.Clear()
}

// return from subroutine
func (m *Machine) ret() error {
	if m.sp == 0 {
		return m.fault(fmt.Errorf("stack underflow at 0x%04X", m.pc-2))
	}
	m.sp--
	m.pc = m.stack[m.sp]
	return nil
}

// call subroutine
func (m *Machine) call(addr uint16) error {
	if m.sp == STACK_SIZE {
		return m.fault(fmt.Errorf("stack overflow at 0x%04X", m.pc-2))
	}
	m.stack[m.sp] = m.pc
	m.sp++
	m.pc = addr
	return nil
}

// 0x8XYN arithmetic and bit operations. VF is written after the
// result, so an operation targeting VF keeps the flag, not the result.
func (m *Machine) alu(in Inst) error {
	x, y := in.X, in.Y
	switch in.N {
	case LD_VX_VY:
		m.registers[x] = m.registers[y]
	case OR_VX_VY:
		m.registers[x] |= m.registers[y]
		m.resetFlag()
	case AND_VX_VY:
		m.registers[x] &= m.registers[y]
		m.resetFlag()
	case XOR_VX_VY:
		m.registers[x] ^= m.registers[y]
		m.resetFlag()
	case ADD_VX_VY:
		sum := uint16(m.registers[x]) + uint16(m.registers[y])
		m.registers[x] = uint8(sum)
		m.setFlag(sum > 0xFF)
	case SUB_VX_VY:
		noBorrow := m.registers[x] >= m.registers[y]
		m.registers[x] -= m.registers[y]
		m.setFlag(noBorrow)
	case SHR_VX_VY:
		src := m.shiftSource(in)
		m.registers[x] = src >> 1
		m.setFlag(src&0x01 != 0)
	case SUBN_VX_VY:
		noBorrow := m.registers[y] >= m.registers[x]
		m.registers[x] = m.registers[y] - m.registers[x]
		m.setFlag(noBorrow)
	case SHL_VX_VY:
		src := m.shiftSource(in)
		m.registers[x] = src << 1
		m.setFlag(src&0x80 != 0)
	default:
		return m.unknown()
	}
	return nil
}

func (m *Machine) shiftSource(in Inst) uint8 {
	if m.quirks.ShiftUsesVY {
		return m.registers[in.Y]
	}
	return m.registers[in.X]
}

func (m *Machine) setFlag(on bool) {
	if on {
		m.registers[0xF] = 1
	} else {
		m.registers[0xF] = 0
	}
}

// 8XY1/2/3 clear VF on the original interpreter
func (m *Machine) resetFlag() {
	if m.quirks.ResetVF {
		m.registers[0xF] = 0
	}
}

// 0xCXNN
// set register X to a random byte bitwise and NN
func (m *Machine) rndVxNN(x, nn uint8) {
	r := uint8(m.rng.Intn(0x100))
	m.registers[x] = r & nn
}

// 0xDXYN
// draw an N byte sprite from i at the position in registers X and Y.
// The start position wraps around the screen; the sprite body clips at
// the edges, or wraps when the ClipSprites quirk is off.
func (m *Machine) draw(x, y, n uint8) {
	startc := m.registers[x] % COLS
	startr := m.registers[y] % ROWS
	m.registers[0xF] = 0

	for rowi := uint8(0); rowi < n; rowi++ {
		row := m.mem[(m.i+uint16(rowi))&ADDR_MASK]
		pixelr := startr + rowi
		if pixelr >= ROWS {
			if m.quirks.ClipSprites {
				break
			}
			pixelr %= ROWS
		}
		for coli := uint8(0); coli < 8; coli++ {
			// read sprite bits left to right
			spb := row & (0b1000_0000 >> coli)
			if spb == 0 {
				continue
			}
			pixelc := startc + coli
			if pixelc >= COLS {
				if m.quirks.ClipSprites {
					break
				}
				pixelc %= COLS
			}
			if m.display.Get(pixelr, pixelc) {
				m.display.Set(false, pixelr, pixelc)
				m.registers[0xF] = 1 // collision
			} else {
				m.display.Set(true, pixelr, pixelc)
			}
		}
	}
}

// 0xFXNN timing, memory and key wait operations
func (m *Machine) timing(in Inst) error {
	x := in.X
	switch in.NN {
	case LD_VX_DT:
		m.registers[x] = m.dt
	case LD_VX_K:
		m.waitForKey(x)
	case LD_DT_VX:
		m.dt = m.registers[x]
	case LD_ST_VX:
		m.st = m.registers[x]
	case ADD_I_VX:
		// wraps within 16 bits, never touches VF
		m.i += uint16(m.registers[x])
	case LD_F_VX:
		m.i = FONT_ADDR + uint16(m.registers[x]&0xF)*5
	case LD_B_VX:
		m.storeBCD(x)
	case LD_I_VX:
		for r := uint16(0); r <= uint16(x); r++ {
			m.mem[(m.i+r)&ADDR_MASK] = m.registers[r]
		}
		if m.quirks.IncrementI {
			m.i += uint16(x) + 1
		}
	case LD_VX_I:
		for r := uint16(0); r <= uint16(x); r++ {
			m.registers[r] = m.mem[(m.i+r)&ADDR_MASK]
		}
		if m.quirks.IncrementI {
			m.i += uint16(x) + 1
		}
	default:
		return m.unknown()
	}
	return nil
}

// 0xFX0A
// block until a key is pressed and then released. The instruction
// re-executes every cycle: pc rewinds while no press has been seen and
// while the recorded key is still held. Releases register the key.
func (m *Machine) waitForKey(x uint8) {
	if m.waitKey < 0 {
		for k := uint8(0); k < 16; k++ {
			if m.keys[k] {
				m.waitKey = int16(k)
				break
			}
		}
		m.pc -= 2
		return
	}
	if m.keys[m.waitKey] {
		m.pc -= 2
		return
	}
	m.registers[x] = uint8(m.waitKey)
	m.waitKey = -1
}

// 0xFX33
// store the BCD representation of register X at i, i+1 and i+2
func (m *Machine) storeBCD(x uint8) {
	v := m.registers[x]
	m.mem[m.i&ADDR_MASK] = v / 100
	m.mem[(m.i+1)&ADDR_MASK] = v / 10 % 10
	m.mem[(m.i+2)&ADDR_MASK] = v % 10
}

func (m *Machine) unknown() error {
	return m.fault(fmt.Errorf("unknown opcode 0x%04X at 0x%04X", m.inst.Opcode, m.pc-2))
}

// fault reports a recoverable execution error. In strict mode the
// machine halts; otherwise the fault is logged and execution continues.
func (m *Machine) fault(err error) error {
	if m.strict {
		m.state = StateQuit
		return err
	}
	m.logger.Debug("opcode fault", log.Err(err))
	return nil
}
