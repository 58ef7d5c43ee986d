// Package video is a minimal PPU: enough palette/VRAM/OAM storage and
// scanline/VBlank timing to exercise the bus's region wiring and the
// interrupt-pending check the CPU core polls. Full rendering (all display
// modes, sprites, windows, blending) is out of scope per spec.md §1; only
// Mode 3 (16-bit bitmap) is rendered, matching the teacher's own
// internal/ppu.go scope.
package video

import (
	"image"
	"image/color"
)

const (
	ScreenWidth  = 240
	ScreenHeight = 160

	PaletteSize = 1024
	VRAMSize    = 96 * 1024
	OAMSize     = 1024

	scanlineCycles = 1232
	totalScanlines = 228

	RegDISPCNT  = 0x000
	RegDISPSTAT = 0x004
	RegVCOUNT   = 0x006
)

type PPU struct {
	palette [PaletteSize]byte
	vram    [VRAMSize]byte
	oam     [OAMSize]byte

	dispcnt  uint16
	dispstat uint16
	vcount   uint16

	dot int

	Frame      *image.RGBA
	frameReady bool
}

func New() *PPU {
	return &PPU{Frame: image.NewRGBA(image.Rect(0, 0, ScreenWidth, ScreenHeight))}
}

func (p *PPU) IsIORegister(addr uint32) bool {
	return addr <= 0x05F
}

func (p *PPU) Read8(addr uint32) uint8 {
	switch addr {
	case RegDISPCNT:
		return uint8(p.dispcnt)
	case RegDISPCNT + 1:
		return uint8(p.dispcnt >> 8)
	case RegDISPSTAT:
		return uint8(p.dispstat)
	case RegDISPSTAT + 1:
		return uint8(p.dispstat >> 8)
	case RegVCOUNT:
		return uint8(p.vcount)
	case RegVCOUNT + 1:
		return uint8(p.vcount >> 8)
	}
	return 0
}

func (p *PPU) Write8(addr uint32, value uint8) {
	switch addr {
	case RegDISPCNT:
		p.dispcnt = (p.dispcnt &^ 0xFF) | uint16(value)
	case RegDISPCNT + 1:
		p.dispcnt = (p.dispcnt &^ 0xFF00) | uint16(value)<<8
	case RegDISPSTAT:
		// bits 0-2 are read-only status; only the enable bits (3-5) and the
		// VCOUNT-match setting (8-15) are writable.
		p.dispstat = (p.dispstat &^ 0xF8) | (uint16(value) & 0xF8)
	case RegDISPSTAT + 1:
		p.dispstat = (p.dispstat &^ 0xFF00) | uint16(value)<<8
	}
}

func (p *PPU) ReadPalette8(offset uint32) uint8 { return p.palette[offset%PaletteSize] }
func (p *PPU) WritePalette8(offset uint32, v uint8) {
	p.palette[offset%PaletteSize] = v
}

func (p *PPU) ReadVRAM8(offset uint32) uint8 { return p.vram[offset%VRAMSize] }
func (p *PPU) WriteVRAM8(offset uint32, v uint8) {
	p.vram[offset%VRAMSize] = v
}

func (p *PPU) ReadOAM8(offset uint32) uint8 { return p.oam[offset%OAMSize] }
func (p *PPU) WriteOAM8(offset uint32, v uint8) {
	p.oam[offset%OAMSize] = v
}

// Tick advances the dot clock by cycles and updates VCOUNT/DISPSTAT,
// rendering a scanline's worth of pixels whenever one completes during the
// visible area.
func (p *PPU) Tick(cycles int) {
	p.dot += cycles
	for p.dot >= scanlineCycles {
		p.dot -= scanlineCycles
		if p.vcount < ScreenHeight {
			p.renderScanline()
		}
		p.vcount = (p.vcount + 1) % totalScanlines

		switch p.vcount {
		case ScreenHeight:
			p.dispstat |= 1 // VBlank flag
			p.frameReady = true
		case 0:
			p.dispstat &^= 1 // VBlank cleared
		}
	}
}

func (p *PPU) renderScanline() {
	if p.dispcnt&0x7 != 3 {
		for x := 0; x < ScreenWidth; x++ {
			p.Frame.SetRGBA(x, int(p.vcount), color.RGBA{A: 255})
		}
		return
	}
	base := uint32(p.vcount) * ScreenWidth * 2
	for x := 0; x < ScreenWidth; x++ {
		off := base + uint32(x)*2
		lo := uint16(p.vram[off%VRAMSize])
		hi := uint16(p.vram[(off+1)%VRAMSize])
		c16 := lo | hi<<8
		r := uint8((c16 & 0x1F) * 8)
		g := uint8(((c16 >> 5) & 0x1F) * 8)
		b := uint8(((c16 >> 10) & 0x1F) * 8)
		p.Frame.SetRGBA(x, int(p.vcount), color.RGBA{R: r, G: g, B: b, A: 255})
	}
}

// HasPendingIRQ reports whether the VBlank IRQ-enable bit (DISPSTAT bit 3)
// is set while the VBlank flag is set. HBlank and VCOUNT-match interrupts
// are not raised.
func (p *PPU) HasPendingIRQ() bool {
	vblankFire := p.dispstat&(1<<3) != 0 && p.dispstat&1 != 0
	return vblankFire
}

func (p *PPU) IsFrameReady() bool { return p.frameReady }
func (p *PPU) ResetFrameReady()   { p.frameReady = false }
