// Package cartridge models the Game Pak: up to 32MiB of ROM mirrored across
// three wait-state regions (0x0800_0000, 0x0A00_0000, 0x0C00_0000) and a
// small SRAM save region at 0x0E00_0000. Wait-state timing (the WAITCNT
// register and the access-cycle table) is held and costed by the bus
// router, not here.
package cartridge

import "fmt"

const (
	MaxROMSize = 32 * 1024 * 1024
	SRAMSize   = 64 * 1024
)

// Cartridge holds the loaded ROM image and its SRAM save region.
type Cartridge struct {
	rom  []byte
	sram [SRAMSize]byte
}

// Load validates and wraps a raw ROM image. An oversized image is the
// second host-initiated load failure spec.md §7 calls out.
func Load(rom []byte) (*Cartridge, error) {
	if len(rom) == 0 {
		return nil, fmt.Errorf("cartridge: ROM image is empty")
	}
	if len(rom) > MaxROMSize {
		return nil, fmt.Errorf("cartridge: ROM image is %d bytes, exceeds %d byte maximum", len(rom), MaxROMSize)
	}
	c := &Cartridge{rom: make([]byte, len(rom))}
	copy(c.rom, rom)
	return c, nil
}

// ReadROM8 reads a byte at an offset relative to whichever wait-state
// mirror's base the bus resolved. Offsets beyond the loaded image read as
// open bus (0).
func (c *Cartridge) ReadROM8(offset uint32) uint8 {
	if int(offset) >= len(c.rom) {
		return 0
	}
	return c.rom[offset]
}

// ROMSize reports the loaded image size in bytes, for bus bounds-checking.
func (c *Cartridge) ROMSize() int {
	return len(c.rom)
}

func (c *Cartridge) ReadSRAM8(offset uint32) uint8 {
	return c.sram[offset%SRAMSize]
}

func (c *Cartridge) WriteSRAM8(offset uint32, value uint8) {
	c.sram[offset%SRAMSize] = value
}
