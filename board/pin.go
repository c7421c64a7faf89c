// SPDX-License-Identifier: MIT
//
// Copyright © 2023 Kent Gibson <warthog618@gmail.com>.

package board

import (
	"errors"
	"fmt"
	"sync"
	"time"

	aspeed "github.com/warthog618/aspeedgpio"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
)

var (
	// ErrPull indicates a request for a pull the controller does not provide.
	ErrPull = errors.New("pull not supported")

	// ErrPWM indicates a request for PWM output.
	ErrPWM = errors.New("pwm not supported")
)

// Pin is a controller pin as a periph.io gpio.PinIO.
type Pin struct {
	pin *aspeed.Pin
	// mu covers the edge detection state.
	mu    sync.Mutex
	edges chan struct{}
	halt  chan struct{}
}

var _ gpio.PinIO = &Pin{}

func (p *Pin) String() string {
	return p.pin.Name()
}

// Name returns the name of the pin, e.g. "gpioA3".
func (p *Pin) Name() string {
	return p.pin.Name()
}

// Number returns the controller's number for the pin.
func (p *Pin) Number() int {
	return p.pin.Pin()
}

// Function returns the direction of the pin as set by the guest.
func (p *Pin) Function() string {
	if p.pin.Mode() == aspeed.Output {
		return "Out"
	}
	return "In"
}

// Halt stops any edge detection.
func (p *Pin) Halt() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stop()
	return nil
}

func (p *Pin) stop() {
	if p.edges == nil {
		return
	}
	p.pin.Unwatch()
	close(p.halt)
	p.edges = nil
	p.halt = nil
}

// In configures edge detection for the pin.
// Only Float and PullNoChange are accepted as the controller has no pulls.
// The direction of the pin is unchanged.
func (p *Pin) In(pull gpio.Pull, edge gpio.Edge) error {
	if pull != gpio.Float && pull != gpio.PullNoChange {
		return fmt.Errorf("%s: %w: %s", p, ErrPull, pull)
	}
	var e aspeed.Edge
	switch edge {
	case gpio.NoEdge:
		e = aspeed.EdgeNone
	case gpio.RisingEdge:
		e = aspeed.EdgeRising
	case gpio.FallingEdge:
		e = aspeed.EdgeFalling
	case gpio.BothEdges:
		e = aspeed.EdgeBoth
	default:
		return fmt.Errorf("%s: unknown edge %s", p, edge)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stop()
	if e == aspeed.EdgeNone {
		return nil
	}
	edges := make(chan struct{}, 1)
	first := true
	err := p.pin.Watch(e, func(*aspeed.Pin) {
		// skip the initial call
		if first {
			first = false
			return
		}
		select {
		case edges <- struct{}{}:
		default:
		}
	})
	if err != nil {
		return err
	}
	p.edges = edges
	p.halt = make(chan struct{})
	return nil
}

// Read returns the level of the pin in the data value register.
func (p *Pin) Read() gpio.Level {
	return gpio.Level(p.pin.Read())
}

// WaitForEdge waits for the next edge selected by In, or for the timeout.
// A negative timeout waits forever.
// Returns false on timeout, on Halt, or if edge detection is not enabled.
func (p *Pin) WaitForEdge(timeout time.Duration) bool {
	p.mu.Lock()
	edges, halt := p.edges, p.halt
	p.mu.Unlock()
	if edges == nil {
		return false
	}
	select {
	case <-edges:
		return true
	default:
	}
	var expired <-chan time.Time
	if timeout >= 0 {
		t := time.NewTimer(timeout)
		defer t.Stop()
		expired = t.C
	}
	select {
	case <-edges:
		return true
	case <-halt:
		return false
	case <-expired:
		return false
	}
}

// Pull always returns Float.
func (p *Pin) Pull() gpio.Pull {
	return gpio.Float
}

// DefaultPull always returns Float.
func (p *Pin) DefaultPull() gpio.Pull {
	return gpio.Float
}

// Out drives the external level of the pin.
func (p *Pin) Out(l gpio.Level) error {
	p.pin.Write(aspeed.Level(l))
	return nil
}

// PWM is not supported.
func (p *Pin) PWM(duty gpio.Duty, f physic.Frequency) error {
	return fmt.Errorf("%s: %w", p, ErrPWM)
}
