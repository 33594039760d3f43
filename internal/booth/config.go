package booth

// None marks an unset channel or pixel index.
const None = -1

// Config is the strip configuration as the host hands it over, already
// parsed. Field-wise equality decides whether a reconfiguration is needed.
type Config struct {
	// SPIChannel selects the SPI bus, None for no hardware.
	SPIChannel int
	// PixelCount is the strip length.
	PixelCount int
	// LeftButtonPixel and RightButtonPixel are the strip positions of the
	// two button indicators, None when a button has no pixel.
	LeftButtonPixel  int
	RightButtonPixel int
}

// HasDevice reports whether the configuration names usable hardware.
func (c Config) HasDevice() bool {
	return c.SPIChannel > None && c.PixelCount > 0
}

// buttonPixel validates a configured button index against the strip length.
// Out-of-range indices behave as if no button pixel was configured.
func (c Config) buttonPixel(i int) int {
	if i < 0 || i >= c.PixelCount {
		return None
	}
	return i
}
