// SPDX-License-Identifier: MIT
//
// Copyright © 2023 Kent Gibson <warthog618@gmail.com>.

//go:build linux
// +build linux

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	aspeed "github.com/warthog618/aspeedgpio"
)

func init() {
	setCmd.SetHelpTemplate(setCmd.HelpTemplate() + extendedSetHelp)
	rootCmd.AddCommand(setCmd)
}

var setCmd = &cobra.Command{
	Use:     "set <pin1>=<level1>...",
	Short:   "Drive the external level of a pin or pins",
	Example: "  aspeedgpio set gpioA3=1 17=low",
	Args:    cobra.MinimumNArgs(1),
	RunE:    set,
}

var extendedSetHelp = `
Pins:
  Pins may be identified by name (gpioA3, gpio18A0) or number.

Levels:
  0, low, false, off, 1, high, true, on

The level only reaches the guest for pins the guest has as outputs.
Interrupts raised by the change are reported.
`

func set(cmd *cobra.Command, args []string) (err error) {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.release(&err)
	for _, arg := range args {
		if err = s.set(arg); err != nil {
			return err
		}
	}
	return nil
}

// set applies a single pin=level argument and reports any interrupts.
func (s *session) set(arg string) error {
	name, v, err := splitArg(arg)
	if err != nil {
		return err
	}
	pin, err := s.parsePin(name)
	if err != nil {
		return err
	}
	level, err := aspeed.ParseLevel(v)
	if err != nil {
		return err
	}
	irq := s.soc.Info.GPIOIRQ
	before := s.soc.Intc.Pending(irq)
	if err = s.c.SetProperty(pin.Name(), level); err != nil {
		return err
	}
	if n := s.soc.Intc.Pending(irq) - before; n > 0 {
		fmt.Printf("%s: irq %d raised %d\n", pin.Name(), irq, n)
	}
	return nil
}
