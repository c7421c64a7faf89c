// SPDX-License-Identifier: MIT
//
// Copyright © 2023 Kent Gibson <warthog618@gmail.com>.

// Package gpio models the GPIO controller of the Aspeed AST2400, AST2500 and
// AST2600 BMC SoCs, for use within a system emulator.
//
// The controller presents a 4KB window of 32 bit registers, arranged in banks
// of 32 pins.  Each bank has data, direction, interrupt, debounce and command
// source registers.  Writes to the data value register are merged under the
// control of the command source registers, and each pin that changes level
// is evaluated against its interrupt sensitivity, latching the interrupt
// status and pulsing the bank's interrupt line.
//
// Supports:
//
//   - guest register access (Read/Write) as performed by an emulated CPU
//   - host pin access by number or by name, e.g. "gpioA3" or "gpio18B1"
//   - edge watchers on pins
//   - checkpoint and restore of the register state
//
// The package intentionally does not model:
//
//   - debounce timing
//   - reset tolerance
//   - the LPC and coprocessor command sources, other than as a barrier to
//     ARM writes
//
// Example of use:
//
//	c := gpio.New(gpio.AST2500, gpio.WithInterruptSink(sink))
//	pin, _ := c.PinByName("gpioA3")
//	pin.High()
package gpio

import (
	"fmt"
	"io"
	"log"
	"sync"
)

// Level represents the high (true) or low (false) level of a Pin.
type Level bool

// Level of pin, High / Low
const (
	Low  Level = false
	High Level = true
)

// ParseLevel converts a string to a Level.
// Accepts 0/1, low/high, false/true and off/on.
func ParseLevel(s string) (Level, error) {
	switch s {
	case "0", "low", "false", "off":
		return Low, nil
	case "1", "high", "true", "on":
		return High, nil
	}
	return Low, fmt.Errorf("invalid level '%s'", s)
}

// Controller is an emulated Aspeed GPIO controller.
type Controller struct {
	// mu covers the banks and watches.
	// Interrupt pulses and watch handlers are called without it held.
	mu      sync.Mutex
	chip    Chip
	desc    Descriptor
	banks   []Bank
	props   []Property
	names   map[string]int
	watches map[bankBit]*watch
	sink    InterruptSink
	logger  *log.Logger
}

// Option modifies the construction of a Controller.
type Option func(*Controller)

// WithInterruptSink sets the receiver of the bank interrupt pulses.
// The default discards them.
func WithInterruptSink(s InterruptSink) Option {
	return func(c *Controller) {
		c.sink = s
	}
}

// WithLogger sets the logger that receives guest error reports.
// The default discards them.
func WithLogger(l *log.Logger) Option {
	return func(c *Controller) {
		c.logger = l
	}
}

// New creates a controller for the chip with all registers zeroed.
func New(chip Chip, options ...Option) *Controller {
	c := &Controller{
		chip:    chip,
		desc:    chip.Descriptor(),
		watches: make(map[bankBit]*watch),
	}
	for _, option := range options {
		option(c)
	}
	if c.sink == nil {
		c.sink = InterruptSinkFunc(func(int) {})
	}
	if c.logger == nil {
		c.logger = log.New(io.Discard, "", 0)
	}
	c.banks = make([]Bank, c.desc.NumBanks())
	c.props = c.desc.properties()
	c.names = make(map[string]int, len(c.props))
	for _, p := range c.props {
		c.names[p.Name] = p.Pin
	}
	return c
}

// Chip returns the chip being modelled.
func (c *Controller) Chip() Chip {
	return c.chip
}

// Descriptor returns the static description of the controller.
func (c *Controller) Descriptor() Descriptor {
	return c.chip.Descriptor()
}

// Reset returns all registers to zero.
// Watches are retained, but not notified.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.banks {
		c.banks[i] = Bank{}
	}
}

// Bank returns a copy of the state of the bank.
func (c *Controller) Bank(bank int) (Bank, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if bank < 0 || bank >= len(c.banks) {
		return Bank{}, false
	}
	return c.banks[bank], true
}

// writeReg performs a host side register write, subject to the same
// masking and arbitration as a guest write.
func (c *Controller) writeReg(bank int, r Register, fn func(old uint32) uint32) {
	c.writeRegs(bank, []Register{r}, func(_ Register, old uint32) uint32 {
		return fn(old)
	})
}

// writeRegs performs host side writes of several registers of a bank under
// the one lock, evaluating the bank once all are written.
func (c *Controller) writeRegs(bank int, regs []Register, fn func(r Register, old uint32) uint32) {
	var ev event
	c.mu.Lock()
	b := &c.banks[bank]
	props := &c.desc.Sets[bank]
	eval := false
	for _, r := range regs {
		v := fn(r, b.Reg(r)) & (props.Input | props.Output)
		if b.write(r, props, v) {
			eval = true
		}
	}
	if eval {
		fired, changed := b.update()
		ev.collect(c, bank, fired, changed)
	}
	c.mu.Unlock()
	ev.dispatch(c)
}

// setLevel drives the external level of a pin.
func (c *Controller) setLevel(bank int, bit uint, level Level) {
	var ev event
	m := uint32(1) << bit
	c.mu.Lock()
	b := &c.banks[bank]
	if level {
		b.DataRead |= m
	} else {
		b.DataRead &^= m
	}
	fired, changed := b.update()
	ev.collect(c, bank, fired, changed)
	c.mu.Unlock()
	ev.dispatch(c)
}

func (c *Controller) level(bank int, bit uint) Level {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.banks[bank].DataValue&(1<<bit) != 0
}
