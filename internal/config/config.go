// Package config builds a wired Bus+CPU pair from a small set of
// functional options, the way the teacher's command-line flags picked apart
// into an equivalent struct once the emulator grew more than one entry
// point (disassembler CLI vs the full run loop).
package config

import (
	"fmt"
	"os"

	"gbacore/internal/bus"
	"gbacore/internal/cartridge"
	"gbacore/internal/cpu"
)

// Config holds everything needed to build a runnable core: where the BIOS
// and ROM images come from, and whether to skip the BIOS boot sequence the
// way most homebrew-testing setups do.
type Config struct {
	biosPath  string
	romPath   string
	skipBIOS  bool
	initialPC uint32
}

// Option configures a Config via the functional-options pattern.
type Option func(*Config)

// WithBIOS sets the path to a 16KB GBA BIOS image.
func WithBIOS(path string) Option {
	return func(c *Config) { c.biosPath = path }
}

// WithROM sets the path to the cartridge ROM image.
func WithROM(path string) Option {
	return func(c *Config) { c.romPath = path }
}

// WithSkipBIOS starts execution at initialPC instead of the reset vector,
// and substitutes a zeroed BIOS image so no real BIOS file is required.
func WithSkipBIOS(initialPC uint32) Option {
	return func(c *Config) {
		c.skipBIOS = true
		c.initialPC = initialPC
	}
}

// New applies opts over the zero-value Config.
func New(opts ...Option) *Config {
	c := &Config{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Build loads the BIOS and ROM images named by the config and wires a Bus
// and CPU ready to Step.
func (c *Config) Build() (*bus.Bus, *cpu.CPU, error) {
	var biosImg []byte
	var err error
	if c.skipBIOS || c.biosPath == "" {
		biosImg = make([]byte, 16*1024)
	} else {
		biosImg, err = os.ReadFile(c.biosPath)
		if err != nil {
			return nil, nil, fmt.Errorf("config: reading BIOS image: %w", err)
		}
	}

	if c.romPath == "" {
		return nil, nil, fmt.Errorf("config: no ROM path configured")
	}
	romData, err := os.ReadFile(c.romPath)
	if err != nil {
		return nil, nil, fmt.Errorf("config: reading ROM image: %w", err)
	}
	cart, err := cartridge.Load(romData)
	if err != nil {
		return nil, nil, fmt.Errorf("config: loading cartridge: %w", err)
	}

	b, err := bus.New(biosImg, cart)
	if err != nil {
		return nil, nil, fmt.Errorf("config: building bus: %w", err)
	}

	core := cpu.New(b)
	core.Reset()
	if c.skipBIOS {
		core.OverridePC(c.initialPC)
	}

	return b, core, nil
}
