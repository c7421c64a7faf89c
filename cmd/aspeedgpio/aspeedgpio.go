// SPDX-License-Identifier: MIT
//
// Copyright © 2023 Kent Gibson <warthog618@gmail.com>.

//go:build linux
// +build linux

package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	aspeed "github.com/warthog618/aspeedgpio"
	"github.com/warthog618/aspeedgpio/board"
	"github.com/warthog618/aspeedgpio/snapshot"
	"github.com/warthog618/aspeedgpio/soc"
	"github.com/warthog618/config"
	"github.com/warthog618/config/blob"
	"github.com/warthog618/config/blob/decoder/json"
	"github.com/warthog618/config/dict"
	"github.com/warthog618/config/env"
)

var version = "undefined"

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("chip", "", "the SoC or chip to emulate (default ast2600)")
	pf.String("state", "", "image file holding the controller state between runs")
	pf.String("config", "", "JSON config file")
	pf.String("strap", "", "board straps to apply, e.g. gpioA0=1,gpioB3=0")
}

var rootCmd = &cobra.Command{
	Use:   "aspeedgpio",
	Short: "aspeedgpio is a utility to drive an emulated Aspeed GPIO controller",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
	Version: version,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func logErr(cmd *cobra.Command, err error) {
	fmt.Fprintf(os.Stderr, "aspeedgpio %s: %s\n", cmd.Name(), err)
}

// flag names that differ from their config key.
var flagKeys = map[string]string{
	"config": "config.file",
}

func loadConfig(cmd *cobra.Command) *config.Config {
	defaultConfig := map[string]interface{}{
		"chip":  "ast2600",
		"state": "",
		"strap": "",
	}
	def := dict.New(dict.WithMap(defaultConfig))
	// only flags explicitly set on the command line override env and file
	changed := map[string]interface{}{}
	cmd.Flags().Visit(func(f *pflag.Flag) {
		key := f.Name
		if k, ok := flagKeys[key]; ok {
			key = k
		}
		changed[key] = f.Value.String()
	})
	// highest priority sources first - flags override environment
	cfg := config.New(
		dict.New(dict.WithMap(changed)),
		env.New(env.WithEnvPrefix("ASPEEDGPIO_")),
		config.WithDefault(def))
	cfg.Append(
		blob.NewConfigFile(cfg, "config.file", "aspeedgpio.json", json.NewDecoder()))
	cfg = cfg.GetConfig("", config.WithMust)
	return cfg
}

// resolveSoC maps a SoC or chip name to a SoC name.
// A bare chip selects the first SoC built on it.
func resolveSoC(name string) (string, error) {
	if _, err := soc.Lookup(name); err == nil {
		return name, nil
	}
	chip, err := aspeed.ParseChip(name)
	if err != nil {
		return "", fmt.Errorf("%w: %s", soc.ErrUnknownSoC, name)
	}
	for _, n := range soc.Names() {
		if info, _ := soc.Lookup(n); info.Chip == chip {
			return n, nil
		}
	}
	return "", fmt.Errorf("%w: %s", soc.ErrUnknownSoC, name)
}

type session struct {
	soc   *soc.SoC
	c     *aspeed.Controller
	board *board.Board
	img   *snapshot.Image
}

// openSession builds the SoC described by the config, restores any saved
// state and applies the straps.
func openSession(cmd *cobra.Command) (*session, error) {
	cfg := loadConfig(cmd)
	name, err := resolveSoC(cfg.MustGet("chip").String())
	if err != nil {
		return nil, err
	}
	logger := log.New(os.Stderr, "aspeedgpio: ", 0)
	s, err := soc.New(name, soc.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	sess := &session{soc: s, c: s.GPIO, board: board.New(s.GPIO)}
	if path := cfg.MustGet("state").String(); path != "" {
		img, err := snapshot.Open(path, s.GPIO.StateSize())
		if err != nil {
			return nil, err
		}
		if !img.Fresh {
			if err = img.Load(s.GPIO); err != nil {
				img.Close()
				return nil, err
			}
		}
		sess.img = img
	}
	straps, err := board.ParseStraps(cfg.MustGet("strap").String())
	if err == nil {
		err = sess.board.ApplyStraps(straps)
	}
	if err != nil {
		sess.close()
		return nil, err
	}
	return sess, nil
}

// close saves the controller state to the image, if any.
func (s *session) close() error {
	s.board.Halt()
	if s.img == nil {
		return nil
	}
	err := s.img.Save(s.c)
	if err == nil {
		err = s.img.Sync()
	}
	if cerr := s.img.Close(); err == nil {
		err = cerr
	}
	return err
}

// release closes the session, keeping the first error.
func (s *session) release(err *error) {
	if cerr := s.close(); *err == nil {
		*err = cerr
	}
}

func (s *session) parsePin(arg string) (*aspeed.Pin, error) {
	if strings.HasPrefix(arg, "gpio") {
		return s.c.PinByName(arg)
	}
	n, err := strconv.ParseUint(arg, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("can't parse pin '%s'", arg)
	}
	pin := s.c.NewPin(int(n))
	if pin == nil {
		return nil, fmt.Errorf("unknown pin '%d'", n)
	}
	return pin, nil
}

func (s *session) parsePins(args []string) ([]*aspeed.Pin, error) {
	pp := []*aspeed.Pin(nil)
	for _, arg := range args {
		pin, err := s.parsePin(arg)
		if err != nil {
			return nil, err
		}
		pp = append(pp, pin)
	}
	return pp, nil
}

// splitArg splits a "key=value" argument.
func splitArg(arg string) (string, string, error) {
	kv := strings.Split(arg, "=")
	if len(kv) != 2 || kv[0] == "" || kv[1] == "" {
		return "", "", fmt.Errorf("invalid argument '%s'", arg)
	}
	return kv[0], kv[1], nil
}

func parseOffset(arg string) (uint64, error) {
	o, err := strconv.ParseUint(arg, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("can't parse offset '%s'", arg)
	}
	if o >= aspeed.WindowSize {
		return 0, fmt.Errorf("%w: 0x%x", aspeed.ErrOutOfBounds, o)
	}
	return o, nil
}

func level2Int(l aspeed.Level) int {
	if l == aspeed.Low {
		return 0
	}
	return 1
}
