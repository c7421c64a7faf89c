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
	"github.com/warthog618/aspeedgpio/soc"
)

// Watches gpioA3 on an emulated AST2500 and reports when it changes state.
// The board side drives the pin every 100ms while guest firmware has it
// configured as a dual edge interrupt source, so each change is also seen
// as a pulse on the GPIO interrupt line.
func main() {
	s, err := soc.New("ast2500-a1")
	if err != nil {
		panic(err)
	}
	pin, err := s.GPIO.PinByName("gpioA3")
	if err != nil {
		panic(err)
	}
	pin.Output()
	pin.SetTrigger(aspeed.TriggerBothEdges)
	s.Intc.Notify(func(irq int) {
		fmt.Printf("irq %d\n", irq)
		s.Intc.Ack(irq)
	})

	// capture exit signals to ensure resources are released on exit.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	err = pin.Watch(aspeed.EdgeBoth, func(pin *aspeed.Pin) {
		fmt.Printf("%s is %v\n", pin.Name(), pin.Read())
	})
	if err != nil {
		panic(err)
	}
	defer pin.Unwatch()

	// The board toggles the pin for a minute.
	fmt.Println("Watching gpioA3...")
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	timeout := time.After(time.Minute)
	level := aspeed.Low
	for {
		select {
		case <-ticker.C:
			level = !level
			s.GPIO.SetProperty(pin.Name(), level)
		case <-timeout:
			return
		case <-quit:
			return
		}
	}
}
