package booth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/scheerer/photobooth-leds/internal/lights"
)

func TestBlinkerTogglesOncePerPeriod(t *testing.T) {
	b := &Blinker{}
	b.set(lights.White, lights.Black, 500*time.Millisecond, 500*time.Millisecond)

	var toggles []int
	for i := 1; i <= 200; i++ {
		if b.Advance(10 * time.Millisecond) {
			toggles = append(toggles, i)
		}
	}

	assert.Equal(t, []int{50, 100, 150, 200}, toggles)
}

func TestBlinkerStartsDark(t *testing.T) {
	b := &Blinker{}
	b.set(lights.White, lights.Black, 500*time.Millisecond, 500*time.Millisecond)

	assert.Equal(t, lights.Black, b.Color())
	for i := 0; i < 49; i++ {
		b.Advance(10 * time.Millisecond)
	}
	assert.Equal(t, lights.Black, b.Color())
	assert.True(t, b.Advance(10*time.Millisecond))
	assert.Equal(t, lights.White, b.Color())
}

func TestBlinkerAsymmetricPeriods(t *testing.T) {
	b := &Blinker{}
	b.set(lights.White, lights.Black, 200*time.Millisecond, 600*time.Millisecond)

	var toggles []int
	for i := 1; i <= 160; i++ {
		if b.Advance(10 * time.Millisecond) {
			toggles = append(toggles, i)
		}
	}

	// 600ms dark, 200ms lit, repeating
	assert.Equal(t, []int{60, 80, 140, 160}, toggles)
}

func TestBlinkerDisabled(t *testing.T) {
	b := &Blinker{}
	b.set(lights.White, lights.Black, 500*time.Millisecond, 500*time.Millisecond)
	b.disable()

	for i := 0; i < 100; i++ {
		assert.False(t, b.Advance(10*time.Millisecond))
	}
	assert.Equal(t, lights.Black, b.Color())
}

func TestBlinkerReset(t *testing.T) {
	b := &Blinker{}
	b.set(lights.White, lights.Black, 500*time.Millisecond, 500*time.Millisecond)

	for i := 0; i < 50; i++ {
		b.Advance(10 * time.Millisecond)
	}
	assert.Equal(t, lights.White, b.Color())

	b.Reset()
	assert.Equal(t, lights.Black, b.Color())
	assert.False(t, b.Advance(10*time.Millisecond))
}
