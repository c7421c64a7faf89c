// SPDX-License-Identifier: MIT
//
// Copyright © 2023 Kent Gibson <warthog618@gmail.com>.

//go:build linux
// +build linux

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	aspeed "github.com/warthog618/aspeedgpio"
)

func init() {
	modeCmd.SetHelpTemplate(modeCmd.HelpTemplate() + extendedModeHelp)
	rootCmd.AddCommand(modeCmd)
	rootCmd.AddCommand(sensCmd)
}

var modeCmd = &cobra.Command{
	Use:     "mode <pin1>[=<mode1>]...",
	Short:   "Get or set the direction of a pin or pins",
	Example: "  aspeedgpio mode gpioA3=out 17",
	Args:    cobra.MinimumNArgs(1),
	RunE:    mode,
}

var extendedModeHelp = `
Modes:
  in, input, out, output

The direction is set as an ARM write and so is subject to the pin's
command source and legality.
`

var sensCmd = &cobra.Command{
	Use:     "sens <pin1>[=<trigger1>]...",
	Short:   "Get or set the interrupt sensitivity of a pin or pins",
	Example: "  aspeedgpio sens gpioA3=rising 17",
	Long: `Get or set the interrupt sensitivity of a pin or pins.

Triggers:
  falling, rising, low, high, both`,
	Args: cobra.MinimumNArgs(1),
	RunE: sens,
}

func mode(cmd *cobra.Command, args []string) (err error) {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.release(&err)
	for _, arg := range args {
		name, v := arg, ""
		if strings.Contains(arg, "=") {
			if name, v, err = splitArg(arg); err != nil {
				return err
			}
		}
		pin, err := s.parsePin(name)
		if err != nil {
			return err
		}
		if v != "" {
			m, err := parseMode(v)
			if err != nil {
				return err
			}
			pin.SetMode(m)
		}
		fmt.Printf("%s: %s\n", pin.Name(), pin.Mode())
	}
	return nil
}

func parseMode(s string) (aspeed.Mode, error) {
	switch strings.ToLower(s) {
	case "in", "input":
		return aspeed.Input, nil
	case "out", "output":
		return aspeed.Output, nil
	}
	return aspeed.Input, fmt.Errorf("invalid mode '%s'", s)
}

func sens(cmd *cobra.Command, args []string) (err error) {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.release(&err)
	for _, arg := range args {
		name, v := arg, ""
		if strings.Contains(arg, "=") {
			if name, v, err = splitArg(arg); err != nil {
				return err
			}
		}
		pin, err := s.parsePin(name)
		if err != nil {
			return err
		}
		if v != "" {
			t, err := aspeed.ParseTrigger(strings.ToLower(v))
			if err != nil {
				return err
			}
			pin.SetTrigger(t)
		}
		fmt.Printf("%s: %s\n", pin.Name(), pin.Trigger())
	}
	return nil
}
