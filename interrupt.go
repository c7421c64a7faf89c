// SPDX-License-Identifier: MIT
//
// Copyright © 2023 Kent Gibson <warthog618@gmail.com>.

// Interrupt evaluation and edge watchers for controller pins.

package gpio

import (
	"fmt"
)

// Trigger is the interrupt sensitivity of a pin, decoded from the
// sens_2:sens_1:sens_0 bits.
type Trigger int

// Triggers.  Any value with sens_2 set is dual edge.
const (
	TriggerFalling Trigger = iota
	TriggerRising
	TriggerLevelLow
	TriggerLevelHigh
	TriggerBothEdges
)

func (t Trigger) String() string {
	switch {
	case t == TriggerFalling:
		return "falling"
	case t == TriggerRising:
		return "rising"
	case t == TriggerLevelLow:
		return "low"
	case t == TriggerLevelHigh:
		return "high"
	case t >= TriggerBothEdges:
		return "both"
	}
	return fmt.Sprintf("trigger(%d)", int(t))
}

// ParseTrigger returns the Trigger named by s.
func ParseTrigger(s string) (Trigger, error) {
	switch s {
	case "falling":
		return TriggerFalling, nil
	case "rising":
		return TriggerRising, nil
	case "low":
		return TriggerLevelLow, nil
	case "high":
		return TriggerLevelHigh, nil
	case "both":
		return TriggerBothEdges, nil
	}
	return 0, fmt.Errorf("unknown trigger '%s'", s)
}

// Trigger returns the interrupt sensitivity of the bit.
func (b *Bank) Trigger(bit uint) Trigger {
	return Trigger((b.IntSens0>>bit)&1 |
		((b.IntSens1>>bit)&1)<<1 |
		((b.IntSens2>>bit)&1)<<2)
}

// fires returns true if a pin moving from prev to cur meets the trigger.
func (t Trigger) fires(prev, cur bool) bool {
	rising := cur && !prev
	falling := prev && !cur
	switch {
	case t == TriggerFalling:
		return falling
	case t == TriggerRising:
		return rising
	case t == TriggerLevelLow:
		return !cur
	case t == TriggerLevelHigh:
		return cur
	default:
		return rising || falling
	}
}

// update propagates DataRead into DataValue for unmasked output bits,
// latching IntStatus for those bits that meet their trigger.
// Returns the bits that fired and the bits whose DataValue changed.
func (b *Bank) update() (fired, changed uint32) {
	old := b.DataValue
	new := b.DataRead
	diff := old ^ new
	if diff == 0 || b.Direction == 0 {
		return
	}
	for bit := uint(0); bit < pinsPerBank; bit++ {
		m := uint32(1) << bit
		if diff&m == 0 || b.Direction&m == 0 || b.InputMask&m != 0 {
			continue
		}
		if new&m != 0 {
			b.DataValue |= m
		} else {
			b.DataValue &^= m
		}
		changed |= m
		if b.Trigger(bit).fires(old&m != 0, new&m != 0) {
			b.IntStatus |= m
			fired |= m
		}
	}
	return
}

// InterruptSink receives the pulses of the per bank interrupt lines.
type InterruptSink interface {
	Pulse(bank int)
}

// InterruptSinkFunc adapts a function to an InterruptSink.
type InterruptSinkFunc func(bank int)

// Pulse calls f(bank).
func (f InterruptSinkFunc) Pulse(bank int) {
	f(bank)
}

// Edge represents the change in Pin level that triggers a watch.
type Edge string

const (
	// EdgeNone indicates no level transitions will trigger a watch.
	EdgeNone Edge = "none"
	// EdgeRising indicates a low to high transition will trigger a watch.
	EdgeRising Edge = "rising"
	// EdgeFalling indicates a high to low transition will trigger a watch.
	EdgeFalling Edge = "falling"
	// EdgeBoth indicates any transition will trigger a watch.
	EdgeBoth Edge = "both"
)

func (e Edge) matches(level Level) bool {
	switch e {
	case EdgeRising:
		return level == High
	case EdgeFalling:
		return level == Low
	case EdgeBoth:
		return true
	}
	return false
}

type watch struct {
	pin     *Pin
	edge    Edge
	handler func(*Pin)
}

// event is a deferred notification, delivered once the controller lock
// is released.
type event struct {
	pulses []int
	watch  []*watch
}

func (e *event) collect(c *Controller, bank int, fired, changed uint32) {
	for m := fired; m != 0; m &= m - 1 {
		e.pulses = append(e.pulses, bank)
	}
	if changed == 0 || len(c.watches) == 0 {
		return
	}
	for bit := uint(0); bit < pinsPerBank; bit++ {
		m := uint32(1) << bit
		if changed&m == 0 {
			continue
		}
		w, ok := c.watches[bankBit{bank, bit}]
		if !ok {
			continue
		}
		if w.edge.matches(c.banks[bank].DataValue&m != 0) {
			e.watch = append(e.watch, w)
		}
	}
}

func (e *event) dispatch(c *Controller) {
	for _, bank := range e.pulses {
		c.sink.Pulse(bank)
	}
	for _, w := range e.watch {
		w.handler(w.pin)
	}
}

type bankBit struct {
	bank int
	bit  uint
}

// Watch the pin for changes to level.
// The handler is called immediately, to allow the handler to initialise its state
// with the current level, and then on the specified edges.
// The edge determines which edge to watch.
// There can only be one watcher on the pin at a time.
func (c *Controller) Watch(pin *Pin, edge Edge, handler func(*Pin)) error {
	switch edge {
	case EdgeNone, EdgeRising, EdgeFalling, EdgeBoth:
	default:
		return fmt.Errorf("unknown edge '%s'", edge)
	}
	key := bankBit{pin.bank, pin.bit}
	c.mu.Lock()
	if _, ok := c.watches[key]; ok {
		c.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrWatchExists, pin.name)
	}
	c.watches[key] = &watch{pin: pin, edge: edge, handler: handler}
	c.mu.Unlock()
	handler(pin)
	return nil
}

// Unwatch removes any watch from the pin.
func (c *Controller) Unwatch(pin *Pin) {
	c.mu.Lock()
	delete(c.watches, bankBit{pin.bank, pin.bit})
	c.mu.Unlock()
}

// Watch the pin for changes to level.
// See Controller.Watch.
func (pin *Pin) Watch(edge Edge, handler func(*Pin)) error {
	return pin.c.Watch(pin, edge, handler)
}

// Unwatch removes any watch from the pin.
func (pin *Pin) Unwatch() {
	pin.c.Unwatch(pin)
}
