// Package speaker turns the sound timer into an audible square wave.
package speaker

import "sync"

// Speaker gates the tone and synthesizes its samples. The scheduler
// sets the gate from the sound timer once per frame while the audio
// front-end pulls samples from its own thread, so all state lives
// behind one mutex. Output is mono, signed 16-bit little endian.
type Speaker struct {
	mu     sync.Mutex
	active bool
	idx    uint32

	sampleRate int
	freq       int
	volume     int16
}

func Create(sampleRate, freq int, volume int16) *Speaker {
	return &Speaker{
		sampleRate: sampleRate,
		freq:       freq,
		volume:     volume,
	}
}

func (sp *Speaker) IsActive() bool {
	sp.mu.Lock()
	defer sp.mu.Unlock()
	return sp.active
}

// Set opens or closes the tone gate. Closing it rewinds the wave
// phase so every burst starts on the same falling edge instead of
// wherever the last one left off.
func (sp *Speaker) Set(active bool) {
	sp.mu.Lock()
	defer sp.mu.Unlock()
	if sp.active && !active {
		sp.idx = 0
	}
	sp.active = active
}

// Fill produces the next n samples of the square wave, continuing the
// phase from the previous call so buffer boundaries stay click free.
func (sp *Speaker) Fill(n int) []byte {
	sp.mu.Lock()
	defer sp.mu.Unlock()

	half := uint32(sp.sampleRate / sp.freq / 2)
	if half == 0 {
		half = 1
	}
	buf := make([]byte, n*2)
	for i := 0; i < n; i++ {
		sample := sp.volume
		if (sp.idx/half)%2 == 0 {
			sample = -sp.volume
		}
		buf[i*2] = byte(uint16(sample))
		buf[i*2+1] = byte(uint16(sample) >> 8)
		sp.idx++
	}
	return buf
}
