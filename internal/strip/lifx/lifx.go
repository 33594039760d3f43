// Package lifx mirrors the booth strip onto a group of LIFX bulbs. The
// bulbs cannot show individual pixels, so a flush sets the whole group to
// the average color of the buffer. Useful for lighting the room to match
// the strip, or for running the booth without a strip wired at all.
package lifx

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/pdf/golifx"
	"github.com/pdf/golifx/common"
	"github.com/pdf/golifx/protocol"
	"go.uber.org/zap"

	"github.com/scheerer/photobooth-leds/internal/lights"
	"github.com/scheerer/photobooth-leds/internal/logging"
	"github.com/scheerer/photobooth-leds/internal/strip"
)

var logger = logging.New("lifx")

type Config struct {
	GroupName     string
	Pixels        int
	MinBrightness float64
	MaxBrightness float64
	Transition    time.Duration
}

type Device struct {
	*strip.Memory

	config Config
	client *golifx.Client

	groupMu sync.RWMutex
	group   common.Group
}

var _ strip.Device = (*Device)(nil)

func Open(ctx context.Context, config Config) (*Device, error) {
	client, err := golifx.NewClient(&protocol.V2{})
	if err != nil {
		return nil, err
	}
	if config.Transition <= 0 {
		config.Transition = 50 * time.Millisecond
	}

	d := &Device{
		Memory: strip.NewMemory(config.Pixels),
		config: config,
		client: client,
	}
	go d.discoverLoop(ctx)
	return d, nil
}

func (d *Device) discoverLoop(ctx context.Context) {
	discoveryInterval := 15 * time.Second
	ticker := time.NewTicker(discoveryInterval)
	defer ticker.Stop()

	d.client.SetDiscoveryInterval(discoveryInterval)

	timeout := 5 * time.Second
	ctxWithTimeout, cancel := context.WithTimeout(ctx, timeout)
	d.discover(ctxWithTimeout)
	cancel()

	for {
		select {
		case <-ticker.C:
			ctxWithTimeout, cancel := context.WithTimeout(ctx, timeout)
			d.discover(ctxWithTimeout)
			cancel()
		case <-ctx.Done():
			return
		}
	}
}

func (d *Device) discover(ctx context.Context) {
	logger.With(zap.String("group", d.config.GroupName)).Info("LIFX discovery starting...")

	completed := make(chan error)

	var g common.Group
	go func() {
		var err error
		g, err = d.client.GetGroupByLabel(d.config.GroupName)
		if err != nil {
			logger.With(zap.Error(err)).Warn("Failed to get LIFX group by label")
		}
		completed <- err
	}()

	select {
	case <-ctx.Done():
		logger.With(zap.Error(ctx.Err())).Warn("LIFX discovery timed out.")
	case <-completed:
		if g != nil {
			logger.With(zap.String("group", g.GetLabel())).Info("LIFX group found")
			d.groupMu.Lock()
			d.group = g
			d.groupMu.Unlock()
		} else {
			logger.Warn("Couldn't discover group.")
		}
	}

	logger.Info("LIFX discovery complete")
}

// Flush pushes the average buffer color to the group. Errors are absorbed:
// the booth never fails because a bulb went away.
func (d *Device) Flush() error {
	if err := d.Memory.Flush(); err != nil {
		return err
	}

	d.groupMu.RLock()
	g := d.group
	d.groupMu.RUnlock()
	if g == nil {
		return nil
	}

	c := d.average()
	hue, saturation, brightness := lights.RGBToHSB(c.Red, c.Green, c.Blue)
	lifxColor := adjustColor(common.Color{
		Hue:        hue,
		Saturation: saturation,
		Brightness: brightness,
		Kelvin:     3500,
	}, d.config)

	logger.With(zap.Any("color", c),
		zap.Any("lifxColor", lifxColor)).
		Debug("Setting LIFX group color")

	if err := g.SetColor(lifxColor, d.config.Transition); err != nil {
		logger.With(zap.Error(err)).Warn("Failed to set color for LIFX group")
	}
	return nil
}

func (d *Device) Close() error {
	if err := d.Memory.Close(); err != nil {
		return err
	}
	return d.client.Close()
}

func (d *Device) average() lights.Color {
	n := d.Len()
	if n == 0 {
		return lights.Color{}
	}
	var sumR, sumG, sumB uint64
	for i := 0; i < n; i++ {
		p := d.GetPixel(i)
		sumR += uint64(p.Red)
		sumG += uint64(p.Green)
		sumB += uint64(p.Blue)
	}
	return lights.Color{
		Red:   uint8(sumR / uint64(n)),
		Green: uint8(sumG / uint64(n)),
		Blue:  uint8(sumB / uint64(n)),
	}
}

func adjustColor(color common.Color, config Config) common.Color {
	blackThreshold := 0.015 * 0xFFFF
	if color.Brightness <= uint16(blackThreshold) && color.Saturation <= uint16(blackThreshold) {
		// blackish color - turn off the light
		return common.Color{
			Hue:        0,
			Saturation: 0,
			Brightness: 0,
			Kelvin:     3500,
		}
	}

	color.Brightness = uint16(math.Min(config.MaxBrightness*0xFFFF, math.Max(config.MinBrightness*0xFFFF, float64(color.Brightness))))

	return color
}
