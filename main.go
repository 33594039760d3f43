package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/caarlos0/env"
	"github.com/scheerer/photobooth-leds/internal/booth"
	"github.com/scheerer/photobooth-leds/internal/logging"
	"github.com/scheerer/photobooth-leds/internal/strip"
	"github.com/scheerer/photobooth-leds/internal/strip/lifx"
)

var (
	logger = logging.New("main")
	config = BoothLedConfig{}
)

type BoothLedConfig struct {
	DeviceType       string        `env:"DEVICE_TYPE" envDefault:"WS2801"`
	SPIChannel       int           `env:"SPI_CHANNEL" envDefault:"0"`
	PixelCount       int           `env:"PIXEL_COUNT" envDefault:"12"`
	LeftButtonPixel  int           `env:"LEFT_BUTTON_PIXEL" envDefault:"-1"`
	RightButtonPixel int           `env:"RIGHT_BUTTON_PIXEL" envDefault:"-1"`
	LightGroupName   string        `env:"LIGHT_GROUP_NAME" envDefault:"BOOTH"`
	MaxBrightness    float64       `env:"MAX_BRIGHTNESS" envDefault:"0.65"`
	MinBrightness    float64       `env:"MIN_BRIGHTNESS" envDefault:"0"`
	CaptureCount     int           `env:"CAPTURE_COUNT" envDefault:"4"`
	StepInterval     time.Duration `env:"STEP_INTERVAL" envDefault:"5s"`
}

func main() {
	defer logger.Sync()

	err := env.Parse(&config)
	if err != nil {
		logger.With(zap.Error(err)).Fatal("Failed to parse environment variables")
	}

	logger.With(zap.Any("config", config)).Info("Starting photobooth LED strip")

	logger.Info("Adjust DEVICE_TYPE to change the light hardware. Valid values are: [WS2801, LIFX]")
	logger.Info("Adjust SPI_CHANNEL and PIXEL_COUNT for the attached WS2801 strip. SPI_CHANNEL=-1 disables hardware.")
	logger.Info("Adjust LEFT_BUTTON_PIXEL / RIGHT_BUTTON_PIXEL to pick the button indicator pixels. -1 disables them.")
	logger.Info("Adjust LIGHT_GROUP_NAME when DEVICE_TYPE=LIFX to pick the bulb group to mirror onto.")
	logger.Info("Adjust STEP_INTERVAL to change how fast the demo session walks through the booth phases.")
	logger.Info("Press Ctrl+C to stop")

	ctx, cancel := context.WithCancel(context.Background())

	var open booth.DeviceOpener
	switch config.DeviceType {
	case "WS2801":
		open = func(channel, pixelCount int) (strip.Device, error) {
			return strip.OpenWS2801(channel, pixelCount)
		}
	case "LIFX":
		open = func(channel, pixelCount int) (strip.Device, error) {
			return lifx.Open(ctx, lifx.Config{
				GroupName:     config.LightGroupName,
				Pixels:        pixelCount,
				MinBrightness: config.MinBrightness,
				MaxBrightness: config.MaxBrightness,
			})
		}
	default:
		logger.Fatalf("unknown device type: %v", config.DeviceType)
	}

	controller := booth.New(booth.Options{OpenDevice: open})
	controller.Start(ctx)

	go runSession(ctx, controller)

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)
	<-shutdown
	logger.Info("Shutting down")
	cancel()
	controller.SwitchPhase(booth.Phase{Kind: booth.PhaseTerminate})
	<-controller.Done()
}

// runSession plays the hook sequence a booth session would produce, over
// and over, so the strip can be watched end to end without the host app.
func runSession(ctx context.Context, controller *booth.Controller) {
	controller.ApplyConfig(booth.Config{
		SPIChannel:       config.SPIChannel,
		PixelCount:       config.PixelCount,
		LeftButtonPixel:  config.LeftButtonPixel,
		RightButtonPixel: config.RightButtonPixel,
	})

	for {
		phases := []booth.Phase{
			{Kind: booth.PhaseWait},
			{Kind: booth.PhaseChoose},
			booth.Chosen(config.CaptureCount),
		}
		for i := 0; i < config.CaptureCount; i++ {
			phases = append(phases,
				booth.Phase{Kind: booth.PhasePreview},
				booth.Phase{Kind: booth.PhaseCapture})
		}
		phases = append(phases,
			booth.Phase{Kind: booth.PhaseProcessing},
			booth.Phase{Kind: booth.PhasePrint},
			booth.Phase{Kind: booth.PhaseFinish})

		for _, p := range phases {
			controller.SwitchPhase(p)
			select {
			case <-ctx.Done():
				return
			case <-time.After(config.StepInterval):
			}
		}
	}
}
