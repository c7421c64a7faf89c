// SPDX-License-Identifier: MIT
//
// Copyright © 2023 Kent Gibson <warthog618@gmail.com>.

// Package board wires the pins of an emulated Aspeed GPIO controller to the
// outside world.
//
// Pins are presented as periph.io gpio.PinIO, seen from the board side of
// the pin: Out drives the level presented to the BMC and Read returns the
// level in the BMC's data value register.  The direction of each pin
// belongs to the guest.
package board

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	aspeed "github.com/warthog618/aspeedgpio"
)

var (
	// ErrBadStrap indicates a strap that is not of the form name=level.
	ErrBadStrap = errors.New("malformed strap")
)

// Board is the set of pins of a controller.
type Board struct {
	c    *aspeed.Controller
	mu   sync.Mutex
	pins map[string]*Pin
}

// New creates a board around the controller.
func New(c *aspeed.Controller) *Board {
	return &Board{c: c, pins: make(map[string]*Pin)}
}

// Controller returns the controller driven by the board.
func (b *Board) Controller() *aspeed.Controller {
	return b.c
}

// Names returns the names of all pins, in pin order.
func (b *Board) Names() []string {
	props := b.c.Properties()
	names := make([]string, len(props))
	for i, p := range props {
		names[i] = p.Name
	}
	return names
}

// Pin returns the named pin.
// Repeated calls for the same name return the same Pin.
func (b *Board) Pin(name string) (*Pin, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if p, ok := b.pins[name]; ok {
		return p, nil
	}
	ap, err := b.c.PinByName(name)
	if err != nil {
		return nil, err
	}
	p := &Pin{pin: ap}
	b.pins[name] = p
	return p, nil
}

// Halt stops edge detection on all pins.
func (b *Board) Halt() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, p := range b.pins {
		p.Halt()
	}
	return nil
}

// ParseStraps parses a comma separated list of name=level pairs,
// e.g. "gpioA3=1,gpioB0=low".
func ParseStraps(s string) (map[string]aspeed.Level, error) {
	straps := make(map[string]aspeed.Level)
	for _, f := range strings.Split(s, ",") {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		kv := strings.SplitN(f, "=", 2)
		if len(kv) != 2 {
			return nil, fmt.Errorf("%w: '%s'", ErrBadStrap, f)
		}
		level, err := aspeed.ParseLevel(strings.TrimSpace(kv[1]))
		if err != nil {
			return nil, fmt.Errorf("%w: '%s': %s", ErrBadStrap, f, err)
		}
		straps[strings.TrimSpace(kv[0])] = level
	}
	return straps, nil
}

// ApplyStraps drives the external level of each named pin.
// Pins are strapped in name order, and stop at the first unknown pin.
func (b *Board) ApplyStraps(straps map[string]aspeed.Level) error {
	names := make([]string, 0, len(straps))
	for name := range straps {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := b.c.SetProperty(name, straps[name]); err != nil {
			return err
		}
	}
	return nil
}
