package booth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scheerer/photobooth-leds/internal/lights"
	"github.com/scheerer/photobooth-leds/internal/strip"
)

// newTestController builds a configured controller around a memory device
// so tests can drive ticks by hand.
func newTestController(t *testing.T, cfg Config) (*Controller, *strip.Memory) {
	t.Helper()

	var mem *strip.Memory
	c := New(Options{
		TickInterval: 10 * time.Millisecond,
		OpenDevice: func(channel, pixelCount int) (strip.Device, error) {
			mem = strip.NewMemory(pixelCount)
			return mem, nil
		},
	})
	c.ApplyConfig(cfg)

	p, ok := c.queue.tryPop()
	require.True(t, ok)
	require.Equal(t, PhaseReconfigure, p.Kind)
	c.configure()
	return c, mem
}

func TestConfigGateOnlyEnqueuesOnChange(t *testing.T) {
	c := New(Options{})
	cfg := Config{SPIChannel: 0, PixelCount: 12, LeftButtonPixel: None, RightButtonPixel: None}

	c.ApplyConfig(cfg)
	c.ApplyConfig(cfg)
	assert.Equal(t, 1, c.queue.depth())

	cfg.PixelCount = 24
	c.ApplyConfig(cfg)
	assert.Equal(t, 2, c.queue.depth())
}

func TestSamePhaseTwiceDoesNotResetBlinkers(t *testing.T) {
	c, _ := newTestController(t, Config{SPIChannel: 0, PixelCount: 12, LeftButtonPixel: 0, RightButtonPixel: 1})

	c.SwitchPhase(Phase{Kind: PhaseWait})
	require.Equal(t, tickContinue, c.tick())
	require.True(t, c.buttons[0].blinker.Enabled)

	for i := 0; i < 9; i++ {
		c.tick()
	}
	require.Equal(t, 100*time.Millisecond, c.buttons[0].blinker.elapsed)

	c.SwitchPhase(Phase{Kind: PhaseWait})
	c.tick()
	assert.Equal(t, 110*time.Millisecond, c.buttons[0].blinker.elapsed)
}

func TestBlinkerPresetsPerPhase(t *testing.T) {
	c, _ := newTestController(t, Config{SPIChannel: 0, PixelCount: 12, LeftButtonPixel: 0, RightButtonPixel: 1})

	c.SwitchPhase(Phase{Kind: PhaseChoose})
	c.tick()
	assert.True(t, c.buttons[0].blinker.Enabled)
	assert.Equal(t, blinkRed, c.buttons[0].blinker.On)
	assert.Equal(t, blinkGreen, c.buttons[1].blinker.On)
	assert.Equal(t, 200*time.Millisecond, c.buttons[0].blinker.OnFor)

	c.SwitchPhase(Chosen(2))
	c.tick()
	assert.False(t, c.buttons[0].blinker.Enabled)
	assert.False(t, c.buttons[1].blinker.Enabled)

	c.SwitchPhase(Phase{Kind: PhasePrint})
	c.tick()
	assert.Equal(t, 200*time.Millisecond, c.buttons[0].blinker.OnFor)
	assert.Equal(t, 600*time.Millisecond, c.buttons[0].blinker.OffFor)
}

func TestButtonOverlayIsRestoredAfterFlush(t *testing.T) {
	c, mem := newTestController(t, Config{SPIChannel: 0, PixelCount: 12, LeftButtonPixel: 0, RightButtonPixel: None})

	c.SwitchPhase(Phase{Kind: PhaseChoose})
	c.tick()

	// The flushed frame shows the blinker (dark at first), the buffer keeps
	// the animation color.
	require.NotNil(t, mem.LastFrame())
	assert.Equal(t, lights.Black, mem.LastFrame()[0])
	assert.Equal(t, lights.HSV(0, 1, 1), mem.GetPixel(0))
	assert.Equal(t, mem.LastFrame()[1], mem.GetPixel(1))
}

func TestInvalidButtonIndexIsIgnored(t *testing.T) {
	c, mem := newTestController(t, Config{SPIChannel: 0, PixelCount: 12, LeftButtonPixel: 40, RightButtonPixel: -1})

	assert.Equal(t, None, c.buttons[0].pixel)
	assert.Equal(t, None, c.buttons[1].pixel)

	c.SwitchPhase(Phase{Kind: PhasePreview})
	c.tick()
	assert.Equal(t, lights.White, mem.LastFrame()[11])
}

func TestDegradedModeWithoutDevice(t *testing.T) {
	opened := 0
	c := New(Options{
		TickInterval: 10 * time.Millisecond,
		OpenDevice: func(channel, pixelCount int) (strip.Device, error) {
			opened++
			return nil, errors.New("no SPI port")
		},
	})

	c.ApplyConfig(Config{SPIChannel: None, PixelCount: 0, LeftButtonPixel: None, RightButtonPixel: None})
	c.queue.tryPop()
	c.configure()
	assert.Zero(t, opened, "no device configured, open must not be attempted")

	c.SwitchPhase(Phase{Kind: PhaseWait})
	assert.Equal(t, tickIdle, c.tick())
	assert.Equal(t, tickIdle, c.tick())

	// A configured device that fails to open degrades the same way.
	c.ApplyConfig(Config{SPIChannel: 0, PixelCount: 12, LeftButtonPixel: None, RightButtonPixel: None})
	c.queue.tryPop()
	c.configure()
	assert.Equal(t, 1, opened)
	c.SwitchPhase(Phase{Kind: PhaseWait})
	assert.Equal(t, tickIdle, c.tick())
}

func TestReconfigureLeavesTickLoop(t *testing.T) {
	c, _ := newTestController(t, Config{SPIChannel: 0, PixelCount: 12, LeftButtonPixel: None, RightButtonPixel: None})

	c.SwitchPhase(Phase{Kind: PhaseWait})
	require.Equal(t, tickContinue, c.tick())
	c.SwitchPhase(Phase{Kind: PhaseReconfigure})
	assert.Equal(t, tickReconfigure, c.tick())
}

func TestAtMostOneNotificationPerTick(t *testing.T) {
	c, _ := newTestController(t, Config{SPIChannel: 0, PixelCount: 12, LeftButtonPixel: None, RightButtonPixel: None})

	c.SwitchPhase(Phase{Kind: PhaseWait})
	c.SwitchPhase(Phase{Kind: PhaseChoose})
	c.SwitchPhase(Phase{Kind: PhasePreview})

	c.tick()
	assert.Equal(t, PhaseWait, c.phase.Kind)
	assert.Equal(t, 2, c.queue.depth())
	c.tick()
	assert.Equal(t, PhaseChoose, c.phase.Kind)
	c.tick()
	assert.Equal(t, PhasePreview, c.phase.Kind)
	assert.Equal(t, 0, c.queue.depth())
}

func TestInitialPhasesBeforeConfigAreDiscarded(t *testing.T) {
	opened := make(chan *strip.Memory, 1)
	c := New(Options{
		TickInterval: time.Millisecond,
		IdleInterval: 10 * time.Millisecond,
		OpenDevice: func(channel, pixelCount int) (strip.Device, error) {
			m := strip.NewMemory(pixelCount)
			opened <- m
			return m, nil
		},
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	c.Start(ctx)

	c.SwitchPhase(Phase{Kind: PhaseWait})
	select {
	case <-opened:
		t.Fatal("device opened before any configuration arrived")
	case <-time.After(50 * time.Millisecond):
	}

	c.ApplyConfig(Config{SPIChannel: 0, PixelCount: 12, LeftButtonPixel: None, RightButtonPixel: None})
	select {
	case <-opened:
	case <-time.After(time.Second):
		t.Fatal("device was not opened after configuration")
	}

	c.SwitchPhase(Phase{Kind: PhaseTerminate})
	select {
	case <-c.Done():
	case <-time.After(time.Second):
		t.Fatal("controller did not terminate")
	}
}

func TestTerminateSwitchesOffAndStops(t *testing.T) {
	opened := make(chan *strip.Memory, 1)
	c := New(Options{
		TickInterval: time.Millisecond,
		OpenDevice: func(channel, pixelCount int) (strip.Device, error) {
			m := strip.NewMemory(pixelCount)
			opened <- m
			return m, nil
		},
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	c.Start(ctx)

	c.ApplyConfig(Config{SPIChannel: 0, PixelCount: 12, LeftButtonPixel: None, RightButtonPixel: None})
	var mem *strip.Memory
	select {
	case mem = <-opened:
	case <-time.After(time.Second):
		t.Fatal("device was not opened")
	}

	c.SwitchPhase(Phase{Kind: PhaseWait})
	c.SwitchPhase(Phase{Kind: PhaseTerminate})
	select {
	case <-c.Done():
	case <-time.After(time.Second):
		t.Fatal("controller did not terminate")
	}

	require.NotNil(t, mem.LastFrame())
	for i, p := range mem.LastFrame() {
		assert.Equal(t, lights.Black, p, "pixel %d", i)
	}
	assert.True(t, mem.Closed())

	// Notifications after terminate are never observed.
	flushes := mem.Flushes()
	c.SwitchPhase(Phase{Kind: PhaseWait})
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, flushes, mem.Flushes())
}
