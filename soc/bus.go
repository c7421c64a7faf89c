// SPDX-License-Identifier: MIT
//
// Copyright © 2023 Kent Gibson <warthog618@gmail.com>.

package soc

import (
	"fmt"
	"log"
	"sort"
	"sync"
)

// Handler services accesses to a mapped region.
// Offsets are relative to the start of the region.
type Handler interface {
	Read(offset uint64, size uint) uint64
	Write(offset uint64, size uint, value uint64)
}

// Region is a range of physical addresses serviced by a Handler.
type Region struct {
	Name    string
	Start   uint64
	Size    uint64
	handler Handler
}

// End returns the first address after the region.
func (r *Region) End() uint64 {
	return r.Start + r.Size
}

func (r *Region) overlaps(start, size uint64) bool {
	return r.Start < start+size && start < r.End()
}

func (r *Region) contains(addr uint64) bool {
	return r.Start <= addr && addr < r.End()
}

// Bus is a physical address space of non-overlapping regions.
type Bus struct {
	mu      sync.RWMutex
	regions []*Region
	logger  *log.Logger
}

// NewBus creates an empty bus.
func NewBus(logger *log.Logger) *Bus {
	return &Bus{logger: logger}
}

// Map adds a region to the bus.
func (b *Bus) Map(name string, start, size uint64, h Handler) error {
	if size == 0 {
		return fmt.Errorf("%s: empty region", name)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, r := range b.regions {
		if r.overlaps(start, size) {
			return fmt.Errorf("%w: %s overlaps %s", ErrConflict, name, r.Name)
		}
	}
	b.regions = append(b.regions, &Region{Name: name, Start: start, Size: size, handler: h})
	sort.Slice(b.regions, func(i, j int) bool {
		return b.regions[i].Start < b.regions[j].Start
	})
	return nil
}

// Regions returns the mapped regions, ordered by address.
func (b *Bus) Regions() []Region {
	b.mu.RLock()
	defer b.mu.RUnlock()
	rr := make([]Region, len(b.regions))
	for i, r := range b.regions {
		rr[i] = *r
	}
	return rr
}

func (b *Bus) find(addr uint64) *Region {
	b.mu.RLock()
	defer b.mu.RUnlock()
	i := sort.Search(len(b.regions), func(i int) bool {
		return b.regions[i].End() > addr
	})
	if i < len(b.regions) && b.regions[i].contains(addr) {
		return b.regions[i]
	}
	return nil
}

// Read performs a read at the physical address.
// Unassigned addresses read as zero.
func (b *Bus) Read(addr uint64, size uint) uint64 {
	r := b.find(addr)
	if r == nil {
		b.logger.Printf("read 0x%08x/%d: unassigned", addr, size)
		return 0
	}
	return r.handler.Read(addr-r.Start, size)
}

// Write performs a write at the physical address.
// Writes to unassigned addresses are dropped.
func (b *Bus) Write(addr uint64, size uint, value uint64) {
	r := b.find(addr)
	if r == nil {
		b.logger.Printf("write 0x%08x/%d: unassigned", addr, size)
		return
	}
	r.handler.Write(addr-r.Start, size, value)
}
