package mocks

import (
	"github.com/dtello/chip8/internal/display"
)

type TestDriver struct {
	// inputs
	In_PumpCalls    int
	In_PresentCalls int
	In_Frames       []display.Frame
	In_Closed       bool

	// outputs
	Out_OnPump func()
}

func (td *TestDriver) Pump() {
	td.In_PumpCalls++
	if td.Out_OnPump != nil {
		td.Out_OnPump()
	}
}

func (td *TestDriver) Present(frame display.Frame) {
	td.In_PresentCalls++
	td.In_Frames = append(td.In_Frames, frame)
}

func (td *TestDriver) Close() {
	td.In_Closed = true
}
