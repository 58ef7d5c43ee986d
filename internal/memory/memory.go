// Package memory implements the GBA's fixed-size RAM regions: the BIOS boot
// ROM, on-board work RAM (EWRAM) and on-chip work RAM (IWRAM). Each type is
// a flat byte slice with byte-granularity read/write; the bus router is
// responsible for address translation, mirroring, and wait-state costing.
package memory

import "fmt"

const (
	BIOSSize  = 16 * 1024
	EWRAMSize = 256 * 1024
	IWRAMSize = 32 * 1024
)

// BIOS is the GBA's internal boot ROM: read-only, 16KB.
type BIOS struct {
	data []byte
}

// NewBIOS loads a BIOS image. The image must be exactly BIOSSize bytes;
// this is one of the two host-initiated load failures spec.md §7 calls
// out, so it is reported once here rather than deferred to a later panic.
func NewBIOS(image []byte) (*BIOS, error) {
	if len(image) != BIOSSize {
		return nil, fmt.Errorf("memory: BIOS image is %d bytes, want %d", len(image), BIOSSize)
	}
	data := make([]byte, BIOSSize)
	copy(data, image)
	return &BIOS{data: data}, nil
}

// Read8 reads a byte at an offset already relative to the BIOS base. Offsets
// outside the 16KB window return 0 (open bus), never panic, per spec.md §7.
func (b *BIOS) Read8(offset uint32) uint8 {
	if offset >= BIOSSize {
		return 0
	}
	return b.data[offset]
}

// EWRAM is the GBA's 256KB external work RAM.
type EWRAM struct {
	data [EWRAMSize]byte
}

func NewEWRAM() *EWRAM {
	return &EWRAM{}
}

func (e *EWRAM) Read8(offset uint32) uint8 {
	return e.data[offset%EWRAMSize]
}

func (e *EWRAM) Write8(offset uint32, value uint8) {
	e.data[offset%EWRAMSize] = value
}

// IWRAM is the GBA's 32KB internal work RAM.
type IWRAM struct {
	data [IWRAMSize]byte
}

func NewIWRAM() *IWRAM {
	return &IWRAM{}
}

func (i *IWRAM) Read8(offset uint32) uint8 {
	return i.data[offset%IWRAMSize]
}

func (i *IWRAM) Write8(offset uint32, value uint8) {
	i.data[offset%IWRAMSize] = value
}
