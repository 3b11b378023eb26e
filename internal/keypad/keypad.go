package keypad

import "sync"

// Control is an emulator-level event produced by a front-end, as opposed
// to a CHIP-8 key press.
type Control int

const (
	ControlQuit Control = iota
	ControlPauseToggle
	ControlRestart
)

const KEYS = 16

// RuneMap is the canonical host layout. The left block of a QWERTY
// keyboard maps onto the 4x4 COSMAC keypad:
//
//	1 2 3 4        1 2 3 C
//	q w e r   ->   4 5 6 D
//	a s d f        7 8 9 E
//	z x c v        A 0 B F
var RuneMap = map[rune]uint8{
	'1': 0x1, '2': 0x2, '3': 0x3, '4': 0xC,
	'q': 0x4, 'w': 0x5, 'e': 0x6, 'r': 0xD,
	'a': 0x7, 's': 0x8, 'd': 0x9, 'f': 0xE,
	'z': 0xA, 'x': 0x0, 'c': 0xB, 'v': 0xF,
}

// Keypad collects key and control state from a front-end thread. The
// scheduler drains it once per frame so the interpreter itself never
// touches shared state.
type Keypad struct {
	mu       sync.Mutex
	keys     [KEYS]bool
	controls []Control
}

func Create() *Keypad {
	return &Keypad{}
}

// Set records the up or down state of a keypad key.
func (kp *Keypad) Set(kaddr uint8, down bool) {
	kp.mu.Lock()
	defer kp.mu.Unlock()
	kp.keys[kaddr&0xF] = down
}

// Snapshot copies the current key state for one frame.
func (kp *Keypad) Snapshot() [KEYS]bool {
	kp.mu.Lock()
	defer kp.mu.Unlock()
	return kp.keys
}

// PushControl queues a control event for the next frame.
func (kp *Keypad) PushControl(c Control) {
	kp.mu.Lock()
	defer kp.mu.Unlock()
	kp.controls = append(kp.controls, c)
}

// DrainControls returns the queued control events in arrival order and
// empties the queue.
func (kp *Keypad) DrainControls() []Control {
	kp.mu.Lock()
	defer kp.mu.Unlock()
	controls := kp.controls
	kp.controls = nil
	return controls
}
