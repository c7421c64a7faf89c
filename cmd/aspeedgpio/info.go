// SPDX-License-Identifier: MIT
//
// Copyright © 2023 Kent Gibson <warthog618@gmail.com>.

//go:build linux
// +build linux

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(namesCmd)
	rootCmd.AddCommand(resetCmd)
}

var (
	infoCmd = &cobra.Command{
		Use:   "info",
		Short: "Describe the emulated SoC and its GPIO banks",
		Args:  cobra.NoArgs,
		RunE:  info,
	}
	namesCmd = &cobra.Command{
		Use:   "names",
		Short: "List the pins of the controller",
		Args:  cobra.NoArgs,
		RunE:  names,
	}
	resetCmd = &cobra.Command{
		Use:   "reset",
		Short: "Return the controller to its power on state",
		Args:  cobra.NoArgs,
		RunE:  reset,
	}
)

func info(cmd *cobra.Command, args []string) (err error) {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.release(&err)
	i := s.soc.Info
	d := s.c.Descriptor()
	fmt.Printf("soc %s (%s) rev 0x%08x\n", i.Name, d.Name, i.SiliconRev)
	fmt.Printf("gpio base 0x%08x irq %d, %d pins in %d banks\n",
		i.GPIOBase, i.GPIOIRQ, d.NumPins(), d.NumBanks())
	for bank, set := range d.Sets {
		v := "3.3V"
		if d.LowVoltage(bank) {
			v = "1.8V"
		}
		fmt.Printf("bank %d %-6s %s input 0x%08x output 0x%08x\n",
			bank, d.SetName(bank), v, set.Input, set.Output)
	}
	return nil
}

func names(cmd *cobra.Command, args []string) (err error) {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.release(&err)
	for _, p := range s.c.Properties() {
		fmt.Printf("%3d %s\n", p.Pin, p.Name)
	}
	return nil
}

func reset(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	s.c.Reset()
	return s.close()
}
