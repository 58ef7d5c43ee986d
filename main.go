package main

import (
	"flag"
	"image"
	"image/png"
	"log"
	"os"
	"runtime"
	"time"

	"gbacore/internal/config"
	"gbacore/internal/dbg"
)

func main() {
	romPath := flag.String("rom", "", "Path to ROM file")
	biosPath := flag.String("bios", "", "Path to a 16KB GBA BIOS image")
	skipBIOS := flag.Bool("skip-bios", false, "Skip the BIOS boot sequence and start at the cartridge entry point")
	flag.Parse()

	if *romPath == "" {
		log.Fatal("ROM file path is required")
	}

	opts := []config.Option{config.WithROM(*romPath)}
	if *biosPath != "" {
		opts = append(opts, config.WithBIOS(*biosPath))
	}
	if *skipBIOS {
		opts = append(opts, config.WithSkipBIOS(0x08000000))
	}

	b, core, err := config.New(opts...).Build()
	if err != nil {
		log.Fatal(err)
	}

	frameCount := 0
	lastTime := time.Now()

	for {
		core.Step()
		b.Tick(1)

		if b.PPU.IsFrameReady() {
			frameCount++
			b.PPU.ResetFrameReady()

			if frameCount == 1 {
				saveFrame(b.PPU.Frame, "first_frame.png")
			}
		}

		if time.Since(lastTime) >= time.Second {
			dbg.Printf("FPS: %d", frameCount)
			frameCount = 0
			lastTime = time.Now()
		}

		runtime.Gosched()
	}
}

func saveFrame(img *image.RGBA, filename string) {
	file, err := os.Create(filename)
	if err != nil {
		log.Fatal(err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		log.Fatal(err)
	}
	log.Printf("Saved first frame to %s", filename)
}
