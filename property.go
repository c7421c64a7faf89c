// SPDX-License-Identifier: MIT
//
// Copyright © 2023 Kent Gibson <warthog618@gmail.com>.

package gpio

import (
	"fmt"
	"regexp"
)

// Property is a named pin level, as exposed to the emulator's property
// interface.
type Property struct {
	Name string
	Pin  int
}

var pinNameRE = regexp.MustCompile(`^gpio(18)?[A-Z]{1,2}[0-7]$`)

func (d *Descriptor) properties() []Property {
	props := make([]Property, d.NumPins())
	for pin := range props {
		props[pin] = Property{Name: d.PinName(pin), Pin: pin}
	}
	return props
}

// Properties returns the pin properties in pin order.
func (c *Controller) Properties() []Property {
	return append([]Property(nil), c.props...)
}

func (c *Controller) lookup(name string) (int, error) {
	if !pinNameRE.MatchString(name) {
		return 0, fmt.Errorf("%w: '%s'", ErrBadPinName, name)
	}
	pin, ok := c.names[name]
	if !ok {
		return 0, fmt.Errorf("%w: '%s'", ErrUnknownPin, name)
	}
	return pin, nil
}

// GetProperty returns the DataValue level of the named pin.
func (c *Controller) GetProperty(name string) (Level, error) {
	pin, err := c.lookup(name)
	if err != nil {
		c.logger.Printf("error reading %s: %s", name, err)
		return Low, err
	}
	bank, bit := c.desc.bankAndBit(pin)
	return c.level(bank, bit), nil
}

// SetProperty drives the external level of the named pin.
func (c *Controller) SetProperty(name string, level Level) error {
	pin, err := c.lookup(name)
	if err != nil {
		c.logger.Printf("error writing %s: %s", name, err)
		return err
	}
	bank, bit := c.desc.bankAndBit(pin)
	c.setLevel(bank, bit, level)
	return nil
}
