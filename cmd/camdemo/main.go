// Command camdemo runs the capture session coordinator against the
// simulated capture stack and exercises a full capture flow: start the
// session, take a photo, record a short movie, switch cameras and zoom.
//
// Examples:
//
//	# Run with defaults.
//	camdemo
//
//	# Run with a config file and legacy photo backend.
//	camdemo -config capture.yaml -legacy
//
//	# Serve prometheus metrics while running.
//	camdemo -metrics :9090
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	capture "github.com/Istiakmorsalin/Signal-iOS"
	"github.com/Istiakmorsalin/Signal-iOS/config"
	"github.com/Istiakmorsalin/Signal-iOS/events"
	"github.com/Istiakmorsalin/Signal-iOS/logger"
	"github.com/Istiakmorsalin/Signal-iOS/metrics"
	"github.com/Istiakmorsalin/Signal-iOS/platform/sim"
	"github.com/Istiakmorsalin/Signal-iOS/session"
)

var (
	configPath  string
	envFile     string
	metricsAddr string
	legacy      bool
	denyAudio   bool
	recordFor   time.Duration
)

func init() {
	flag.StringVar(&configPath, "config", "", "path to a yaml config file")
	flag.StringVar(&envFile, "envfile", "", "path to a .env file with CAPTURE_* overrides")
	flag.StringVar(&metricsAddr, "metrics", "", "if set, serve prometheus metrics on this address, eg :9090")
	flag.BoolVar(&legacy, "legacy", false, "use the legacy still-image photo backend")
	flag.BoolVar(&denyAudio, "denyaudio", false, "simulate a denied audio-activity token")
	flag.DurationVar(&recordFor, "recordfor", 300*time.Millisecond, "how long to record the demo movie")
}

func usage() {
	log.Println("usage: camdemo [flags]")
	flag.PrintDefaults()
	os.Exit(2)
}

func main() {
	log.SetFlags(0)
	flag.Usage = usage
	flag.Parse()
	os.Exit(main0())
}

func main0() int {
	if envFile != "" {
		if err := config.LoadEnv(envFile); err != nil {
			log.Printf("loading env file: %v", err)
			return 1
		}
	}
	cfg := config.Default()
	if configPath != "" {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			log.Printf("loading config: %v", err)
			return 1
		}
	}
	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		log.Printf("invalid config: %v", err)
		return 1
	}

	lg := logger.New(cfg.LogLevel, cfg.LogFormat)
	met := metrics.New()
	if metricsAddr == "" {
		metricsAddr = cfg.MetricsAddr
	}
	if metricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", met.Handler())
			if err := http.ListenAndServe(metricsAddr, mux); err != nil {
				lg.Error("metrics server", "error", err)
			}
		}()
	}

	provider := sim.NewProvider(sim.Opts{
		LegacyPhoto: legacy,
		DenyAudio:   denyAudio,
	})
	router := events.NewRouter(nil, lg)
	defer router.UI().Close()

	done := make(chan struct{})
	router.SetConsumer(&events.ConsumerFuncs{
		PhotoCapturedFunc: func(att capture.Attachment) {
			fmt.Printf("photo captured: %d bytes, %s\n", len(att.Data), att.Orientation)
		},
		PhotoFailedFunc: func(err error) {
			fmt.Printf("photo failed: %v\n", err)
		},
		VideoCapturedFunc: func(att capture.Attachment) {
			fmt.Printf("movie captured: %s\n", att.Path)
			_ = os.RemoveAll(filepath.Dir(att.Path))
			close(done)
		},
		VideoFailedFunc: func(err error) {
			fmt.Printf("movie failed: %v\n", err)
			close(done)
		},
		OrientationDidChangeFunc: func(o capture.Orientation) {
			fmt.Printf("orientation: %s\n", o)
		},
	})

	coord := session.New(provider, router, cfg, lg, met)
	defer coord.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := coord.Start(ctx); err != nil {
		log.Printf("starting session: %v", err)
		return 1
	}

	coord.TakePhoto()

	if err := coord.SwitchCamera(ctx); err != nil {
		log.Printf("switching camera: %v", err)
		return 1
	}
	coord.SetZoom(0.5)

	if err := coord.BeginVideo(ctx); err != nil {
		log.Printf("starting recording: %v", err)
		return 1
	}
	time.Sleep(recordFor)
	coord.CompleteVideo()

	select {
	case <-done:
	case <-ctx.Done():
		log.Printf("recording did not finish: %v", ctx.Err())
		return 1
	}

	// Let the photo result land before shutting down.
	time.Sleep(100 * time.Millisecond)
	coord.Stop()
	return 0
}
