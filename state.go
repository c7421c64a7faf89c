// SPDX-License-Identifier: MIT
//
// Copyright © 2023 Kent Gibson <warthog618@gmail.com>.

package gpio

import (
	"encoding/binary"
	"fmt"
)

// stateBanks returns the number of banks in the checkpoint.
// The layout always holds at least maxSets banks.
func (c *Controller) stateBanks() int {
	if len(c.banks) > maxSets {
		return len(c.banks)
	}
	return maxSets
}

// StateSize returns the size of the checkpoint of the controller, in bytes.
func (c *Controller) StateSize() int {
	return c.stateBanks() * int(NumRegisters) * 4
}

// MarshalBinary returns the checkpoint of the controller: the registers of
// each bank, in bank and register order, as little endian uint32s.
// Banks the chip lacks are zero.
func (c *Controller) MarshalBinary() ([]byte, error) {
	buf := make([]byte, c.StateSize())
	c.mu.Lock()
	defer c.mu.Unlock()
	o := 0
	for i := range c.banks {
		for r := Register(0); r < NumRegisters; r++ {
			binary.LittleEndian.PutUint32(buf[o:], c.banks[i].Reg(r))
			o += 4
		}
	}
	return buf, nil
}

// UnmarshalBinary restores a checkpoint created by MarshalBinary.
// No interrupts are raised and no watchers are notified.
// Banks the chip lacks are ignored.
func (c *Controller) UnmarshalBinary(data []byte) error {
	if len(data) != c.StateSize() {
		return fmt.Errorf("%w: got %d bytes, want %d", ErrStateSize, len(data), c.StateSize())
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	o := 0
	for i := range c.banks {
		for r := Register(0); r < NumRegisters; r++ {
			*c.banks[i].reg(r) = binary.LittleEndian.Uint32(data[o:])
			o += 4
		}
	}
	return nil
}
