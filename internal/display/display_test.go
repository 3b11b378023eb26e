package display

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Create(t *testing.T) {
	d := Create()
	assert.NotNil(t, d)
	assert.False(t, d.Get(0, 0))
}

func Test_SetAndGet(t *testing.T) {
	d := Create()
	d.Set(true, 3, 5)
	assert.True(t, d.Get(3, 5))
	d.Set(false, 3, 5)
	assert.False(t, d.Get(3, 5))
}

func Test_Clear(t *testing.T) {
	d := Create()
	d.Set(true, 0, 0)
	d.Set(true, ROWS-1, COLS-1)
	d.Clear()
	assert.False(t, d.Get(0, 0))
	assert.False(t, d.Get(ROWS-1, COLS-1))
}

func Test_Frame_isACopy(t *testing.T) {
	d := Create()
	d.Set(true, 1, 2)
	frame := d.Frame()
	assert.True(t, frame[1][2])

	d.Set(false, 1, 2)
	assert.True(t, frame[1][2])
}
