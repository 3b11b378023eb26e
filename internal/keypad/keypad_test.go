package keypad

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Create(t *testing.T) {
	kp := Create()
	assert.NotNil(t, kp)
	assert.Equal(t, kp.Snapshot(), [KEYS]bool{})
}

func Test_SetAndSnapshot(t *testing.T) {
	kp := Create()
	kp.Set(0x5, true)
	kp.Set(0xF, true)

	keys := kp.Snapshot()
	assert.True(t, keys[0x5])
	assert.True(t, keys[0xF])
	assert.False(t, keys[0x0])

	kp.Set(0x5, false)
	assert.False(t, kp.Snapshot()[0x5])
}

func Test_Set_masksAddress(t *testing.T) {
	kp := Create()
	kp.Set(0x15, true)
	assert.True(t, kp.Snapshot()[0x5])
}

func Test_Controls(t *testing.T) {
	kp := Create()
	kp.PushControl(ControlPauseToggle)
	kp.PushControl(ControlQuit)

	controls := kp.DrainControls()
	assert.Equal(t, controls, []Control{ControlPauseToggle, ControlQuit})

	assert.Empty(t, kp.DrainControls())
}

func Test_RuneMap(t *testing.T) {
	assert.Equal(t, len(RuneMap), KEYS)

	seen := map[uint8]bool{}
	for _, kaddr := range RuneMap {
		assert.False(t, seen[kaddr])
		seen[kaddr] = true
	}
	assert.Equal(t, RuneMap['1'], uint8(0x1))
	assert.Equal(t, RuneMap['4'], uint8(0xC))
	assert.Equal(t, RuneMap['x'], uint8(0x0))
	assert.Equal(t, RuneMap['v'], uint8(0xF))
}
