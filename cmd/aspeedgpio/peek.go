// SPDX-License-Identifier: MIT
//
// Copyright © 2023 Kent Gibson <warthog618@gmail.com>.

//go:build linux
// +build linux

package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(peekCmd)
	rootCmd.AddCommand(pokeCmd)
}

var (
	peekCmd = &cobra.Command{
		Use:     "peek <offset1>...",
		Short:   "Read controller registers as the guest would",
		Example: "  aspeedgpio peek 0x000 0x018",
		Long: `Read 32 bit controller registers through the SoC bus.

Offsets are relative to the GPIO base address.`,
		Args: cobra.MinimumNArgs(1),
		RunE: peek,
	}
	pokeCmd = &cobra.Command{
		Use:     "poke <offset1>=<value1>...",
		Short:   "Write controller registers as the guest would",
		Example: "  aspeedgpio poke 0x004=0xff 0x000=0x01",
		Long: `Write 32 bit controller registers through the SoC bus.

Offsets are relative to the GPIO base address.
Interrupts raised by the writes are reported.`,
		Args: cobra.MinimumNArgs(1),
		RunE: poke,
	}
)

func peek(cmd *cobra.Command, args []string) (err error) {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.release(&err)
	for _, arg := range args {
		o, err := parseOffset(arg)
		if err != nil {
			return err
		}
		v := s.soc.Bus.Read(s.soc.Info.GPIOBase+o, 4)
		fmt.Printf("0x%03x: 0x%08x\n", o, v)
	}
	return nil
}

func poke(cmd *cobra.Command, args []string) (err error) {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.release(&err)
	for _, arg := range args {
		if err = s.poke(arg); err != nil {
			return err
		}
	}
	return nil
}

// poke applies a single offset=value argument and reports any interrupts.
func (s *session) poke(arg string) error {
	k, v, err := splitArg(arg)
	if err != nil {
		return err
	}
	o, err := parseOffset(k)
	if err != nil {
		return err
	}
	val, err := strconv.ParseUint(v, 0, 32)
	if err != nil {
		return fmt.Errorf("can't parse value '%s'", v)
	}
	irq := s.soc.Info.GPIOIRQ
	before := s.soc.Intc.Pending(irq)
	s.soc.Bus.Write(s.soc.Info.GPIOBase+o, 4, val)
	if n := s.soc.Intc.Pending(irq) - before; n > 0 {
		fmt.Printf("0x%03x: irq %d raised %d\n", o, irq, n)
	}
	return nil
}
