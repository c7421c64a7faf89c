// SPDX-License-Identifier: MIT
//
// Copyright © 2023 Kent Gibson <warthog618@gmail.com>.

package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	aspeed "github.com/warthog618/aspeedgpio"
	"github.com/warthog618/aspeedgpio/board"
	"github.com/warthog618/aspeedgpio/soc"
	"github.com/warthog618/config"
	"github.com/warthog618/config/dict"
	"github.com/warthog618/config/env"
)

// This example plays the part of guest firmware blinking an LED on gpioA3.
// The pin is toggled at the configured period, using register writes
// through the SoC bus, and the level seen by the board is printed.
// The SoC, pin and period may be altered via the environment, e.g.
// BLINKER_PIN=gpioB0.
func main() {
	cfg := loadConfig()
	s, err := soc.New(cfg.MustGet("soc").String())
	if err != nil {
		panic(err)
	}
	b := board.New(s.GPIO)
	led, err := b.Pin(cfg.MustGet("pin").String())
	if err != nil {
		panic(err)
	}
	d := s.GPIO.Descriptor()
	bank, bit, _ := d.BankAndBit(led.Number())
	dataOff, _ := d.Offset(bank, aspeed.DataValue)
	dirOff, _ := d.Offset(bank, aspeed.Direction)
	base := s.Info.GPIOBase
	mask := uint64(1) << bit
	s.Bus.Write(base+uint64(dirOff), 4, s.Bus.Read(base+uint64(dirOff), 4)|mask)

	// capture exit signals to ensure the board is released on exit.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)
	defer b.Halt()
	period := cfg.MustGet("period").Duration()
	for {
		select {
		case <-time.After(period / 2):
			v := s.Bus.Read(base+uint64(dataOff), 4)
			s.Bus.Write(base+uint64(dataOff), 4, v^mask)
			fmt.Println("Toggled", led, led.Read())
		case <-quit:
			return
		}
	}
}

func loadConfig() *config.Config {
	defaultConfig := map[string]interface{}{
		"soc":    "ast2500-a1",
		"pin":    "gpioA3",
		"period": "1s",
	}
	def := dict.New(dict.WithMap(defaultConfig))
	cfg := config.New(
		env.New(env.WithEnvPrefix("BLINKER_")),
		config.WithDefault(def))
	return cfg.GetConfig("", config.WithMust)
}
