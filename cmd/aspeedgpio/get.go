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
	getCmd.Flags().BoolVarP(&getOpts.All, "all", "a", false, "get the levels of all pins")
	getCmd.Flags().BoolVarP(&getOpts.Short, "short", "s", false, "single line output format")
	getCmd.SetHelpTemplate(getCmd.HelpTemplate() + extendedGetHelp)
	rootCmd.AddCommand(getCmd)
}

var (
	getCmd = &cobra.Command{
		Use:     "get <pin1>...",
		Short:   "Read the level of a pin or pins",
		Example: "  aspeedgpio get gpioA3 17",
		PreRunE: preget,
		RunE:    get,
	}
	getOpts = struct {
		Short bool
		All   bool
	}{}
)

var extendedGetHelp = `
Pins:
  Pins may be identified by name (gpioA3, gpio18A0) or number.

The level is that seen by the guest in the data value register.
`

func preget(cmd *cobra.Command, args []string) error {
	if !getOpts.All {
		return cobra.MinimumNArgs(1)(cmd, args)
	}
	return nil
}

func get(cmd *cobra.Command, args []string) (err error) {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.release(&err)
	var pp []*aspeed.Pin
	if getOpts.All {
		for _, p := range s.c.Properties() {
			pp = append(pp, s.c.NewPin(p.Pin))
		}
	} else {
		pp, err = s.parsePins(args)
		if err != nil {
			return err
		}
	}
	vv := make([]aspeed.Level, len(pp))
	for i, pin := range pp {
		vv[i] = pin.Read()
	}
	if getOpts.Short {
		printValuesShort(vv)
	} else {
		printValues(pp, vv)
	}
	return nil
}

func printValues(pp []*aspeed.Pin, vv []aspeed.Level) {
	for i, pin := range pp {
		fmt.Printf("%-9s %3d: %d\n", pin.Name(), pin.Pin(), level2Int(vv[i]))
	}
}

func printValuesShort(vv []aspeed.Level) {
	if len(vv) == 0 {
		fmt.Println()
		return
	}
	fmt.Printf("%d", level2Int(vv[0]))
	for _, v := range vv[1:] {
		fmt.Printf(" %d", level2Int(v))
	}
	fmt.Println()
}
