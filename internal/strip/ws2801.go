package strip

import (
	"fmt"
	"sync"
	"time"

	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"

	"github.com/scheerer/photobooth-leds/internal/lights"
)

// WS2801 latches the shifted-in frame once the clock idles for 500us.
const ws2801Latch = 500 * time.Microsecond

var (
	hostOnce sync.Once
	hostErr  error
)

// WS2801 drives a WS2801 strip over SPI. The chip takes one raw byte per
// channel at up to a few MHz, no start or end frames.
type WS2801 struct {
	port   spi.PortCloser
	conn   spi.Conn
	pixels []lights.Color
	wire   []byte
}

var _ Device = (*WS2801)(nil)

// OpenWS2801 opens the SPI bus for the given channel index and returns a
// strip of count pixels. The error is informational only; callers without
// hardware run without a device.
func OpenWS2801(channel, count int) (*WS2801, error) {
	hostOnce.Do(func() {
		_, hostErr = host.Init()
	})
	if hostErr != nil {
		return nil, fmt.Errorf("host init: %w", hostErr)
	}
	name := fmt.Sprintf("SPI%d.0", channel)
	port, err := spireg.Open(name)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	logger.Infof("Initializing LED strip on %s with %d pixels", name, count)
	return newWS2801(port, count)
}

func newWS2801(port spi.PortCloser, count int) (*WS2801, error) {
	conn, err := port.Connect(1*physic.MegaHertz, spi.Mode0, 8)
	if err != nil {
		port.Close()
		return nil, fmt.Errorf("connect SPI: %w", err)
	}
	return &WS2801{
		port:   port,
		conn:   conn,
		pixels: make([]lights.Color, count),
		wire:   make([]byte, count*3),
	}, nil
}

func (w *WS2801) Len() int {
	return len(w.pixels)
}

func (w *WS2801) GetPixel(i int) lights.Color {
	if i < 0 || i >= len(w.pixels) {
		return lights.Color{}
	}
	return w.pixels[i]
}

func (w *WS2801) SetPixel(i int, c lights.Color) {
	if i < 0 || i >= len(w.pixels) {
		return
	}
	w.pixels[i] = c
}

func (w *WS2801) Fill(c lights.Color) {
	for i := range w.pixels {
		w.pixels[i] = c
	}
}

func (w *WS2801) Flush() error {
	for i, p := range w.pixels {
		w.wire[i*3] = p.Red
		w.wire[i*3+1] = p.Green
		w.wire[i*3+2] = p.Blue
	}
	if err := w.conn.Tx(w.wire, nil); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	time.Sleep(ws2801Latch)
	return nil
}

func (w *WS2801) Close() error {
	return w.port.Close()
}
