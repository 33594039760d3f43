package strip

import (
	"github.com/scheerer/photobooth-leds/internal/lights"
	"github.com/scheerer/photobooth-leds/internal/logging"
)

var logger = logging.New("strip")

// Device is an addressable pixel strip. Set and Fill only touch the
// in-memory buffer; nothing reaches the hardware until Flush.
type Device interface {
	Len() int
	GetPixel(i int) lights.Color
	SetPixel(i int, c lights.Color)
	Fill(c lights.Color)
	Flush() error
	Close() error
}
