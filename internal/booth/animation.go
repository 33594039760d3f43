package booth

import (
	"math"
	"math/rand"

	"github.com/scheerer/photobooth-leds/internal/lights"
	"github.com/scheerer/photobooth-leds/internal/strip"
)

// frame is the mutable rendering state for one configured device: the pixel
// buffer plus the small counters the animations keep between ticks.
type frame struct {
	dev   strip.Device
	delay int
	hue   float64
}

// renderFunc draws one tick of a phase. changed is true on the first tick
// after the phase became current. The return value reports whether the
// buffer must be flushed.
type renderFunc func(f *frame, p Phase, changed bool) bool

var renderers = map[PhaseKind]renderFunc{
	PhaseWait:        renderWait,
	PhaseWaitOrPrint: renderWait,
	PhaseChoose:      renderChoose,
	PhaseChosen:      renderChosen,
	PhasePreview:     renderPreview,
	PhaseCapture:     renderCapture,
	PhaseProcessing:  renderProcessing,
	PhasePrint:       renderPrint,
	PhaseFinish:      renderFinish,
}

// Every 11th tick, every pixel gets a random color.
func renderWait(f *frame, _ Phase, changed bool) bool {
	if changed {
		f.delay = 0
	}
	f.delay++
	if f.delay <= 10 {
		return false
	}
	f.delay = 0
	for i := 0; i < f.dev.Len(); i++ {
		s := float64(rand.Intn(51)+50) / 100.0
		f.dev.SetPixel(i, lights.HSV(rand.Float64(), s, rand.Float64()))
	}
	return true
}

// A rainbow slides along the strip, one hundredth of the wheel per tick.
func renderChoose(f *frame, _ Phase, _ bool) bool {
	n := f.dev.Len()
	for i := 0; i < n; i++ {
		h := math.Mod(f.hue+float64(i)/float64(n), 1.0)
		f.dev.SetPixel(i, lights.HSV(h, 1, 1))
	}
	f.hue += 0.01
	if f.hue > 1.0 {
		f.hue = 0.0
	}
	return true
}

// Solid color keyed off how many captures were taken.
func renderChosen(f *frame, p Phase, _ bool) bool {
	f.dev.Fill(lights.HSV(float64(p.Captures)/4.0+0.5, 1, 1))
	return true
}

func renderPreview(f *frame, _ Phase, _ bool) bool {
	f.dev.Fill(lights.White)
	return true
}

// Short dark pause, then full white: a flash.
func renderCapture(f *frame, _ Phase, changed bool) bool {
	if changed {
		f.delay = 0
	}
	f.delay++
	if f.delay > 4 {
		f.dev.Fill(lights.White)
	} else {
		f.dev.Fill(lights.Black)
	}
	return true
}

// Red/green/blue triples crawl along the strip.
func renderProcessing(f *frame, _ Phase, changed bool) bool {
	if changed {
		f.delay = 0
		for i := 0; i+2 < f.dev.Len(); i += 3 {
			f.dev.SetPixel(i, lights.Color{Red: 0xFF})
			f.dev.SetPixel(i+1, lights.Color{Green: 0xFF})
			f.dev.SetPixel(i+2, lights.Color{Blue: 0xFF})
		}
	}
	f.delay++
	if f.delay <= 50 {
		return false
	}
	f.delay = 0
	rotateLeft(f.dev)
	return true
}

// Every third pixel lit, crawling faster than processing.
func renderPrint(f *frame, _ Phase, changed bool) bool {
	dirty := false
	if changed {
		f.delay = 0
		f.dev.Fill(lights.Black)
		for i := 0; i < f.dev.Len(); i += 3 {
			f.dev.SetPixel(i, lights.White)
		}
		dirty = true
	}
	f.delay++
	if f.delay > 20 {
		f.delay = 0
		rotateLeft(f.dev)
		dirty = true
	}
	return dirty
}

// Steady gold.
func renderFinish(f *frame, _ Phase, changed bool) bool {
	if !changed {
		return false
	}
	f.dev.Fill(lights.Color{Red: 0xFF, Green: 0xD7, Blue: 0x00})
	return true
}

// rotateLeft shifts the whole buffer one position towards pixel 0, the
// first pixel wrapping around to the end.
func rotateLeft(dev strip.Device) {
	n := dev.Len()
	if n < 2 {
		return
	}
	first := dev.GetPixel(0)
	for i := 0; i < n-1; i++ {
		dev.SetPixel(i, dev.GetPixel(i+1))
	}
	dev.SetPixel(n-1, first)
}
