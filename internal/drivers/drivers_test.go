package drivers

import (
	"testing"

	"github.com/dtello/chip8/internal/config"
	"github.com/dtello/chip8/internal/keypad"
	"github.com/dtello/chip8/internal/speaker"
	"github.com/retroenv/retrogolib/log"
	"github.com/stretchr/testify/assert"
)

func Test_Create_unknownBackend(t *testing.T) {
	cfg := config.Default()
	cfg.Backend = "bogus"
	sp := speaker.Create(cfg.SampleRate, cfg.SquareWaveFreq, cfg.Volume)
	_, err := Create(cfg, sp, keypad.Create(), log.NewTestLogger(t))
	assert.ErrorIs(t, err, ErrHostInit)
}

func assertCompleteKeyMap(t *testing.T, kaddrs []uint8) {
	t.Helper()
	assert.Equal(t, len(kaddrs), 16)
	seen := map[uint8]bool{}
	for _, kaddr := range kaddrs {
		assert.Less(t, kaddr, uint8(16))
		assert.False(t, seen[kaddr])
		seen[kaddr] = true
	}
}

func Test_sdlKeyMap_coversKeypad(t *testing.T) {
	kaddrs := make([]uint8, 0, len(sdlKeyMap))
	for _, kaddr := range sdlKeyMap {
		kaddrs = append(kaddrs, kaddr)
	}
	assertCompleteKeyMap(t, kaddrs)
}

func Test_protoKeyMap_coversKeypad(t *testing.T) {
	kaddrs := make([]uint8, 0, len(protoKeyMap))
	for _, kaddr := range protoKeyMap {
		kaddrs = append(kaddrs, kaddr)
	}
	assertCompleteKeyMap(t, kaddrs)
}

func Test_terminalDriver_keyDecay(t *testing.T) {
	kp := keypad.Create()
	d := &terminalDriver{
		keypad: kp,
		cfg:    config.Default(),
		logger: log.NewTestLogger(t),
	}
	d.held[0x5] = keyHoldFrames

	for i := 0; i < keyHoldFrames; i++ {
		d.Pump()
		assert.True(t, kp.Snapshot()[0x5])
	}
	d.Pump()
	assert.False(t, kp.Snapshot()[0x5])
}
