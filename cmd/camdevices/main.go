// Command camdevices lists the capture devices a provider exposes.
//
// Examples:
//
//	# List the simulated devices.
//	camdevices
//
//	# Simulate a stack with a legacy photo backend and no microphone.
//	camdevices -legacy -nomic
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/Istiakmorsalin/Signal-iOS/platform/sim"
)

var (
	legacy bool
	noMic  bool
)

func init() {
	flag.BoolVar(&legacy, "legacy", false, "simulate a stack with only the legacy still-image output")
	flag.BoolVar(&noMic, "nomic", false, "simulate a stack with no microphone")
}

func usage() {
	log.Println("usage: camdevices [flags]")
	flag.PrintDefaults()
	os.Exit(2)
}

func main() {
	log.SetFlags(0)
	flag.Usage = usage
	flag.Parse()
	if len(flag.Args()) != 0 {
		usage()
	}
	os.Exit(main0())
}

func main0() int {
	provider := sim.NewProvider(sim.Opts{
		LegacyPhoto:  legacy,
		NoMicrophone: noMic,
	})

	for _, dev := range provider.ListDevices() {
		zoom := ""
		if dev.MaxZoom > 0 {
			zoom = fmt.Sprintf(" (max zoom %.1fx)", dev.MaxZoom)
		}
		fmt.Printf("%s: %s, %s camera%s\n", dev.ID, dev.Name, dev.Position, zoom)
	}

	if mic, err := provider.AudioDevice(); err != nil {
		log.Printf("no audio device: %v", err)
		return 1
	} else {
		fmt.Printf("%s: microphone\n", mic.ID())
	}

	if _, modern := provider.NewPhotoOutput(); modern {
		fmt.Println("photo backend: modern (per-shot settings)")
	} else {
		fmt.Println("photo backend: legacy still-image")
	}
	if _, ok := provider.NewMovieOutput(); !ok {
		fmt.Println("video capture: unavailable")
	}
	return 0
}
