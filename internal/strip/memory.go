package strip

import "github.com/scheerer/photobooth-leds/internal/lights"

// Memory is a Device with no hardware behind it. Flush records the frame so
// callers can inspect what would have been shown.
type Memory struct {
	pixels  []lights.Color
	last    []lights.Color
	flushes int
	closed  bool
}

var _ Device = (*Memory)(nil)

func NewMemory(count int) *Memory {
	return &Memory{pixels: make([]lights.Color, count)}
}

func (m *Memory) Len() int {
	return len(m.pixels)
}

func (m *Memory) GetPixel(i int) lights.Color {
	if i < 0 || i >= len(m.pixels) {
		return lights.Color{}
	}
	return m.pixels[i]
}

func (m *Memory) SetPixel(i int, c lights.Color) {
	if i < 0 || i >= len(m.pixels) {
		return
	}
	m.pixels[i] = c
}

func (m *Memory) Fill(c lights.Color) {
	for i := range m.pixels {
		m.pixels[i] = c
	}
}

func (m *Memory) Flush() error {
	if m.last == nil {
		m.last = make([]lights.Color, len(m.pixels))
	}
	copy(m.last, m.pixels)
	m.flushes++
	return nil
}

func (m *Memory) Close() error {
	m.closed = true
	return nil
}

// Flushes reports how many times the frame was pushed out.
func (m *Memory) Flushes() int {
	return m.flushes
}

// LastFrame returns the most recently flushed frame, nil before the first
// flush.
func (m *Memory) LastFrame() []lights.Color {
	return m.last
}

func (m *Memory) Closed() bool {
	return m.closed
}
