// SPDX-License-Identifier: MIT
//
// Copyright © 2023 Kent Gibson <warthog618@gmail.com>.

package gpio

import (
	"fmt"
	"strconv"
)

// Pin represents a single GPIO pin of a Controller.
type Pin struct {
	// Immutable fields
	c    *Controller
	pin  int
	bank int
	bit  uint
	mask uint32
	name string
	// Mutable fields
	shadow Level
}

// Mode defines the IO mode of a Pin.
type Mode int

// Pin Mode, a pin can be set in Input or Output mode
const (
	Input Mode = iota
	Output
)

func (m Mode) String() string {
	if m == Output {
		return "output"
	}
	return "input"
}

// bankAndBit maps a pin number to its bank and bit.
// Pins beyond NrPins belong to the 1.8V domain.
// The pin is not range checked.
func (d *Descriptor) bankAndBit(pin int) (int, uint) {
	if pin >= d.NrPins {
		lv := pin - d.NrPins
		return d.NrSets + lv>>5, uint(lv & 31)
	}
	if d.Gap != 0 && pin >= d.Gap {
		pin += 4
	}
	return pin >> 5, uint(pin & 31)
}

// BankAndBit returns the bank and bit of the pin.
func (d *Descriptor) BankAndBit(pin int) (bank int, bit uint, ok bool) {
	if pin < 0 || pin >= d.NumPins() {
		return 0, 0, false
	}
	bank, bit = d.bankAndBit(pin)
	return bank, bit, true
}

// PinName returns the name of the pin, e.g. "gpioA3", or "" if the pin
// does not exist.
func (d *Descriptor) PinName(pin int) string {
	bank, bit, ok := d.BankAndBit(pin)
	if !ok {
		return ""
	}
	return "gpio" + d.Sets[bank].Groups[bit/pinsPerGroup] + strconv.Itoa(int(bit%pinsPerGroup))
}

// NewPin creates a new pin object.
// The pin number is the controller's linear numbering, with the 1.8V pins
// following the 3.3V pins.
// Returns nil if the pin does not exist.
func (c *Controller) NewPin(pin int) *Pin {
	bank, bit, ok := c.desc.BankAndBit(pin)
	if !ok {
		return nil
	}
	p := &Pin{
		c:    c,
		pin:  pin,
		bank: bank,
		bit:  bit,
		mask: uint32(1) << bit,
		name: c.props[pin].Name,
	}
	p.shadow = c.level(bank, bit)
	return p
}

// PinByName creates a new pin object for the named pin, e.g. "gpioB2".
func (c *Controller) PinByName(name string) (*Pin, error) {
	pin, err := c.lookup(name)
	if err != nil {
		return nil, err
	}
	return c.NewPin(pin), nil
}

// Input sets pin as Input.
func (pin *Pin) Input() {
	pin.SetMode(Input)
}

// Output sets pin as Output.
func (pin *Pin) Output() {
	pin.SetMode(Output)
}

// High sets pin High.
func (pin *Pin) High() {
	pin.Write(High)
}

// Low sets pin Low.
func (pin *Pin) Low() {
	pin.Write(Low)
}

// Mode returns the mode of the pin in the Direction register.
func (pin *Pin) Mode() Mode {
	b, _ := pin.c.Bank(pin.bank)
	if b.Direction&pin.mask != 0 {
		return Output
	}
	return Input
}

// SetMode sets the pin Mode, as if written by the ARM.
// The change is dropped if the pin's group is owned by another source, or
// the set does not support the mode.
func (pin *Pin) SetMode(mode Mode) {
	pin.c.writeReg(pin.bank, Direction, func(old uint32) uint32 {
		if mode == Output {
			return old | pin.mask
		}
		return old &^ pin.mask
	})
}

// Trigger returns the interrupt sensitivity of the pin.
func (pin *Pin) Trigger() Trigger {
	b, _ := pin.c.Bank(pin.bank)
	return b.Trigger(pin.bit)
}

// SetTrigger sets the interrupt sensitivity of the pin, as if written by
// the ARM.
// The three sensitivity registers are written together.
func (pin *Pin) SetTrigger(t Trigger) {
	regs := []Register{IntSens0, IntSens1, IntSens2}
	pin.c.writeRegs(pin.bank, regs, func(r Register, old uint32) uint32 {
		if t&(1<<uint(r-IntSens0)) != 0 {
			return old | pin.mask
		}
		return old &^ pin.mask
	})
}

// Shadow returns the value of the last write or read of the pin.
func (pin *Pin) Shadow() Level {
	return pin.shadow
}

// Pin returns the pin number that this Pin represents.
func (pin *Pin) Pin() int {
	return pin.pin
}

// Name returns the name of the pin, e.g. "gpioA3".
func (pin *Pin) Name() string {
	return pin.name
}

// Bank returns the bank containing the pin.
func (pin *Pin) Bank() int {
	return pin.bank
}

// Bit returns the bit of the pin within its bank.
func (pin *Pin) Bit() uint {
	return pin.bit
}

func (pin *Pin) String() string {
	return fmt.Sprintf("%s(%d)", pin.name, pin.pin)
}

// Toggle pin state
func (pin *Pin) Toggle() {
	if pin.shadow {
		pin.Write(Low)
	} else {
		pin.Write(High)
	}
}

// Read returns the pin level as seen in the DataValue register.
func (pin *Pin) Read() Level {
	level := pin.c.level(pin.bank, pin.bit)
	pin.shadow = level
	return level
}

// Write drives the external level of the pin.
// The DataValue register only follows if the pin is an unmasked output.
func (pin *Pin) Write(level Level) {
	pin.c.setLevel(pin.bank, pin.bit, level)
	pin.shadow = level
}
