// SPDX-License-Identifier: MIT
//
// Copyright © 2023 Kent Gibson <warthog618@gmail.com>.

package gpio

// decode resolves an access to the bank and register it addresses.
func (c *Controller) decode(offset uint64, size uint) (int, regEntry, error) {
	if size != 4 {
		return 0, regEntry{}, ErrAccessSize
	}
	if offset&3 != 0 {
		return 0, regEntry{}, ErrUnaligned
	}
	var idx uint64
	lv := false
	switch {
	case offset < regBlockEnd:
		idx = offset >> 2
	case offset >= lowVoltageBase && offset < lowVoltageEnd:
		idx = (offset - lowVoltageBase) >> 2
		lv = true
	default:
		return 0, regEntry{}, ErrOutOfBounds
	}
	e := regTable[idx]
	if e.access == 0 {
		return 0, e, nil
	}
	bank := e.bank
	if lv {
		if bank >= c.desc.NrSets1V8 {
			return 0, e, ErrNoRegister
		}
		bank += c.desc.NrSets
	} else if bank >= c.desc.NrSets {
		return 0, e, ErrNoRegister
	}
	return bank, e, nil
}

// Read performs a guest read of the register at offset within the
// controller's window.
// Invalid accesses are logged and read as zero.
func (c *Controller) Read(offset uint64, size uint) uint64 {
	bank, e, err := c.decode(offset, size)
	if err == nil && !e.readable() {
		err = ErrNoGetter
	}
	if err != nil {
		c.logger.Printf("read 0x%03x/%d: %s", offset, size, err)
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return uint64(c.banks[bank].Reg(e.reg))
}

// Write performs a guest write of the register at offset within the
// controller's window.
// Invalid accesses are logged and dropped.
func (c *Controller) Write(offset uint64, size uint, value uint64) {
	bank, e, err := c.decode(offset, size)
	if err == nil && !e.writable() {
		err = ErrNoSetter
	}
	if err != nil {
		c.logger.Printf("write 0x%03x/%d: %s", offset, size, err)
		return
	}
	var ev event
	c.mu.Lock()
	b := &c.banks[bank]
	props := &c.desc.Sets[bank]
	v := uint32(value) & (props.Input | props.Output)
	if b.write(e.reg, props, v) {
		fired, changed := b.update()
		ev.collect(c, bank, fired, changed)
	}
	c.mu.Unlock()
	ev.dispatch(c)
}

// ReadReg returns the register of the bank, as a guest read would.
func (c *Controller) ReadReg(bank int, r Register) (uint32, bool) {
	off, ok := c.desc.Offset(bank, r)
	if !ok {
		return 0, false
	}
	return uint32(c.Read(uint64(off), 4)), true
}

// WriteReg writes the register of the bank, as a guest write would.
func (c *Controller) WriteReg(bank int, r Register, v uint32) bool {
	off, ok := c.desc.Offset(bank, r)
	if !ok {
		return false
	}
	c.Write(uint64(off), 4, uint64(v))
	return true
}
