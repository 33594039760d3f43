package booth

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/scheerer/photobooth-leds/internal/lights"
	"github.com/scheerer/photobooth-leds/internal/logging"
	"github.com/scheerer/photobooth-leds/internal/strip"
)

var logger = logging.New("booth")

// DeviceOpener opens the strip hardware for a channel and pixel count. An
// error means no hardware; the controller keeps running without it.
type DeviceOpener func(channel, pixelCount int) (strip.Device, error)

type Options struct {
	// OpenDevice defaults to opening a WS2801 strip over SPI.
	OpenDevice DeviceOpener
	// TickInterval is the animation cadence, 10ms by default.
	TickInterval time.Duration
	// IdleInterval is the poll cadence without hardware, 2s by default.
	IdleInterval time.Duration
}

// Controller is the background worker that mirrors the booth session on the
// strip. The host talks to it only through SwitchPhase and ApplyConfig; the
// pixel buffer, phase and blinkers belong to the worker goroutine alone.
type Controller struct {
	openDevice   DeviceOpener
	tickInterval time.Duration
	idleInterval time.Duration

	queue *notifications
	done  chan struct{}

	mu         sync.Mutex
	config     Config
	configured bool

	// worker-owned state below
	dev      strip.Device
	phase    Phase
	hasPhase bool
	frame    frame
	buttons  [2]button
}

type button struct {
	pixel   int
	blinker Blinker
}

func New(opts Options) *Controller {
	if opts.OpenDevice == nil {
		opts.OpenDevice = func(channel, pixelCount int) (strip.Device, error) {
			return strip.OpenWS2801(channel, pixelCount)
		}
	}
	if opts.TickInterval <= 0 {
		opts.TickInterval = 10 * time.Millisecond
	}
	if opts.IdleInterval <= 0 {
		opts.IdleInterval = 2 * time.Second
	}
	return &Controller{
		openDevice:   opts.OpenDevice,
		tickInterval: opts.TickInterval,
		idleInterval: opts.IdleInterval,
		queue:        newNotifications(),
		done:         make(chan struct{}),
		buttons:      [2]button{{pixel: None}, {pixel: None}},
	}
}

// Start launches the worker. It runs until a Terminate phase is delivered
// or ctx is cancelled.
func (c *Controller) Start(ctx context.Context) {
	go c.run(ctx)
}

// SwitchPhase hands a phase notification to the worker. It never blocks.
func (c *Controller) SwitchPhase(p Phase) {
	c.queue.push(p)
}

// ApplyConfig records a configuration snapshot and, if it differs from the
// last one, schedules a reconfiguration.
func (c *Controller) ApplyConfig(cfg Config) {
	c.mu.Lock()
	if c.configured && cfg == c.config {
		c.mu.Unlock()
		return
	}
	c.config = cfg
	c.configured = true
	c.mu.Unlock()

	logger.With(
		zap.Int("spiChannel", cfg.SPIChannel),
		zap.Int("pixelCount", cfg.PixelCount),
		zap.Int("leftButtonPixel", cfg.LeftButtonPixel),
		zap.Int("rightButtonPixel", cfg.RightButtonPixel)).
		Info("Configuration changed, reloading")
	c.SwitchPhase(Phase{Kind: PhaseReconfigure})
}

// Done is closed once the worker has cleaned up and exited.
func (c *Controller) Done() <-chan struct{} {
	return c.done
}

func (c *Controller) run(ctx context.Context) {
	defer close(c.done)

	if !c.awaitInitialConfig(ctx) {
		return
	}
	logger.Info("Reconfiguring")
	for {
		c.configure()
		if c.loop(ctx) {
			c.shutdown()
			return
		}
	}
}

// awaitInitialConfig blocks until the first Reconfigure arrives, discarding
// everything else: nothing is rendered before a configuration exists.
func (c *Controller) awaitInitialConfig(ctx context.Context) bool {
	logger.Info("Waiting for LED strip configuration")
	for {
		for {
			p, ok := c.queue.tryPop()
			if !ok {
				break
			}
			logger.With(zap.Stringer("state", p)).Info("Got state")
			if p.Kind == PhaseReconfigure {
				return true
			}
		}
		select {
		case <-ctx.Done():
			return false
		case <-c.queue.wake:
		}
	}
}

// configure tears down the current device and opens a new one from the
// latest configuration snapshot.
func (c *Controller) configure() {
	if c.dev != nil {
		c.dev.Close()
		c.dev = nil
	}

	c.mu.Lock()
	cfg := c.config
	c.mu.Unlock()

	if cfg.HasDevice() {
		dev, err := c.openDevice(cfg.SPIChannel, cfg.PixelCount)
		if err != nil {
			logger.With(zap.Error(err)).Info("No LED strip available")
		} else {
			c.dev = dev
		}
	} else {
		logger.Info("No SPI channel or pixel count, disabling LED strip")
	}

	c.buttons[0].pixel = cfg.buttonPixel(cfg.LeftButtonPixel)
	c.buttons[1].pixel = cfg.buttonPixel(cfg.RightButtonPixel)
	c.buttons[0].blinker.disable()
	c.buttons[1].blinker.disable()
	c.frame = frame{dev: c.dev}
	c.phase = Phase{}
	c.hasPhase = false
}

// loop runs ticks until the worker must reconfigure (returns false) or
// terminate (returns true).
func (c *Controller) loop(ctx context.Context) bool {
	for {
		select {
		case <-ctx.Done():
			return true
		default:
			start := time.Now()
			interval := c.tickInterval
			switch c.tick() {
			case tickReconfigure:
				return false
			case tickTerminate:
				return true
			case tickIdle:
				interval = c.idleInterval
			}
			if until := interval - time.Since(start); until > 0 {
				time.Sleep(until)
			}
		}
	}
}

type tickResult int

const (
	tickContinue tickResult = iota
	tickIdle
	tickReconfigure
	tickTerminate
)

// tick processes at most one notification, renders the current phase,
// overlays the button blinkers and flushes when anything changed.
func (c *Controller) tick() tickResult {
	changed := false
	if p, ok := c.queue.tryPop(); ok {
		if !c.hasPhase || p != c.phase {
			logger.With(zap.Stringer("state", p)).Info("Switching state")
			changed = true
		}
		c.phase = p
		c.hasPhase = true
	}

	if c.hasPhase {
		switch c.phase.Kind {
		case PhaseReconfigure:
			return tickReconfigure
		case PhaseTerminate:
			return tickTerminate
		}
	}

	if c.dev == nil {
		logger.Info("No LED...")
		return tickIdle
	}
	if !c.hasPhase {
		return tickContinue
	}

	render := renderers[c.phase.Kind]
	if render == nil {
		return tickContinue
	}
	if changed {
		c.applyBlinkerPreset(c.phase.Kind)
	}
	dirty := render(&c.frame, c.phase, changed)

	// Overlay the button blinkers, flush, then put the animation colors
	// back so ring-shifting animations are not corrupted.
	var saved [2]lights.Color
	overlaid := 0
	for i := range c.buttons {
		b := &c.buttons[i]
		if b.pixel == None {
			continue
		}
		saved[i] = c.dev.GetPixel(b.pixel)
		if changed {
			b.blinker.Reset()
		}
		if b.blinker.Advance(c.tickInterval) {
			dirty = true
		}
		c.dev.SetPixel(b.pixel, b.blinker.Color())
		overlaid |= 1 << i
	}

	if dirty {
		if err := c.dev.Flush(); err != nil {
			logger.With(zap.Error(err)).Warn("Failed to flush LED strip")
		}
	}

	for i := range c.buttons {
		if overlaid&(1<<i) != 0 {
			c.dev.SetPixel(c.buttons[i].pixel, saved[i])
		}
	}
	return tickContinue
}

// shutdown switches the strip off. Runs once; the worker exits right after.
func (c *Controller) shutdown() {
	if c.dev == nil {
		return
	}
	c.dev.Fill(lights.Black)
	if err := c.dev.Flush(); err != nil {
		logger.With(zap.Error(err)).Warn("Failed to switch off LED strip")
	}
	c.dev.Close()
	c.dev = nil
}

var (
	blinkRed   = lights.Color{Red: 0xFF}
	blinkGreen = lights.Color{Green: 0xFF}
	blinkTeal  = lights.Color{Green: 0x80, Blue: 0x80}
	blinkCyan  = lights.Color{Green: 0xFF, Blue: 0xFF}
)

// applyBlinkerPreset loads the per-phase button blink patterns. Phases not
// listed keep whatever the blinkers were last doing.
func (c *Controller) applyBlinkerPreset(k PhaseKind) {
	left := &c.buttons[0].blinker
	right := &c.buttons[1].blinker
	switch k {
	case PhaseWait:
		left.set(lights.White, lights.Black, 500*time.Millisecond, 500*time.Millisecond)
		right.disable()
	case PhaseWaitOrPrint:
		left.set(lights.White, lights.Black, 500*time.Millisecond, 500*time.Millisecond)
		right.set(lights.Black, lights.White, 500*time.Millisecond, 500*time.Millisecond)
	case PhaseChoose:
		left.set(blinkRed, lights.Black, 200*time.Millisecond, 200*time.Millisecond)
		right.set(blinkGreen, lights.Black, 200*time.Millisecond, 200*time.Millisecond)
	case PhasePrint:
		left.set(blinkTeal, lights.Black, 200*time.Millisecond, 600*time.Millisecond)
		right.set(blinkCyan, lights.Black, 200*time.Millisecond, 600*time.Millisecond)
	case PhaseChosen, PhaseFinish:
		left.disable()
		right.disable()
	}
}
