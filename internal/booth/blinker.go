package booth

import (
	"time"

	"github.com/scheerer/photobooth-leds/internal/lights"
)

// Blinker is a two-phase timer producing an overlay color for one button
// pixel. It starts dark and toggles between its off and on colors as the
// controller advances it tick by tick.
type Blinker struct {
	On      lights.Color
	Off     lights.Color
	OnFor   time.Duration
	OffFor  time.Duration
	Enabled bool

	lit     bool
	elapsed time.Duration
}

func (b *Blinker) set(on, off lights.Color, onFor, offFor time.Duration) {
	b.On = on
	b.Off = off
	b.OnFor = onFor
	b.OffFor = offFor
	b.Enabled = true
	b.Reset()
}

func (b *Blinker) disable() {
	b.Enabled = false
	b.Off = lights.Black
	b.Reset()
}

// Reset puts the blinker back into its dark starting position.
func (b *Blinker) Reset() {
	b.lit = false
	b.elapsed = 0
}

// Advance moves the timer forward by one tick and reports whether the
// blinker toggled.
func (b *Blinker) Advance(step time.Duration) bool {
	if !b.Enabled {
		return false
	}
	b.elapsed += step
	period := b.OffFor
	if b.lit {
		period = b.OnFor
	}
	if b.elapsed < period {
		return false
	}
	b.elapsed = 0
	b.lit = !b.lit
	return true
}

// Color is what the blinker currently shows.
func (b *Blinker) Color() lights.Color {
	if b.Enabled && b.lit {
		return b.On
	}
	return b.Off
}
