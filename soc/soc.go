// SPDX-License-Identifier: MIT
//
// Copyright © 2023 Kent Gibson <warthog618@gmail.com>.

// Package soc composes an Aspeed GPIO controller into a minimal SoC: a
// physical address bus and an interrupt controller.
package soc

import (
	"errors"
	"fmt"
	"io"
	"log"
	"sort"

	gpio "github.com/warthog618/aspeedgpio"
)

// Info describes one SoC variant.
type Info struct {
	Name       string
	Chip       gpio.Chip
	SiliconRev uint32
	GPIOBase   uint64
	GPIOIRQ    int
	NumIRQs    int
}

const (
	gpioBase = 0x1e780000

	vicIRQs = 64
	gicIRQs = 128
)

var socs = []Info{
	{"ast2400-a0", gpio.AST2400, 0x02000303, gpioBase, 20, vicIRQs},
	{"ast2400-a1", gpio.AST2400, 0x02010303, gpioBase, 20, vicIRQs},
	{"ast2400", gpio.AST2400, 0x02000303, gpioBase, 20, vicIRQs},
	{"ast2500-a1", gpio.AST2500, 0x04010303, gpioBase, 20, vicIRQs},
	{"ast2600-a0", gpio.AST2600, 0x05000303, gpioBase, 40, gicIRQs},
}

var (
	// ErrUnknownSoC indicates a SoC name that is not modelled.
	ErrUnknownSoC = errors.New("unknown soc")

	// ErrConflict indicates a region that overlaps one already mapped.
	ErrConflict = errors.New("region conflict")
)

// Lookup returns the description of the named SoC.
func Lookup(name string) (Info, error) {
	for _, i := range socs {
		if i.Name == name {
			return i, nil
		}
	}
	return Info{}, fmt.Errorf("%w: '%s'", ErrUnknownSoC, name)
}

// Names returns the names of the modelled SoCs, sorted.
func Names() []string {
	names := make([]string, len(socs))
	for i, s := range socs {
		names[i] = s.Name
	}
	sort.Strings(names)
	return names
}

// SoC is a GPIO controller mapped onto a bus with its interrupt routed to
// an interrupt controller.
type SoC struct {
	Info Info
	Bus  *Bus
	Intc *Intc
	GPIO *gpio.Controller
}

// Option modifies the construction of a SoC.
type Option func(*options)

type options struct {
	logger *log.Logger
	gopts  []gpio.Option
}

// WithLogger sets the logger for guest errors, for both the bus and the
// GPIO controller.
func WithLogger(l *log.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithGPIOOption passes an option through to the GPIO controller.
func WithGPIOOption(gopt gpio.Option) Option {
	return func(o *options) {
		o.gopts = append(o.gopts, gopt)
	}
}

// New creates the named SoC.
func New(name string, opts ...Option) (*SoC, error) {
	info, err := Lookup(name)
	if err != nil {
		return nil, err
	}
	o := options{logger: log.New(io.Discard, "", 0)}
	for _, opt := range opts {
		opt(&o)
	}
	intc := NewIntc(info.NumIRQs, o.logger)
	gopts := append([]gpio.Option{
		gpio.WithLogger(o.logger),
	}, o.gopts...)
	// every bank shares the one GPIO line
	gopts = append(gopts, gpio.WithInterruptSink(gpio.InterruptSinkFunc(func(int) {
		intc.Raise(info.GPIOIRQ)
	})))
	c := gpio.New(info.Chip, gopts...)
	bus := NewBus(o.logger)
	if err := bus.Map("gpio", info.GPIOBase, gpio.WindowSize, c); err != nil {
		return nil, err
	}
	return &SoC{Info: info, Bus: bus, Intc: intc, GPIO: c}, nil
}
