// SPDX-License-Identifier: MIT
//
// Copyright © 2023 Kent Gibson <warthog618@gmail.com>.

//go:build linux
// +build linux

package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"
	aspeed "github.com/warthog618/aspeedgpio"
	"golang.org/x/sys/unix"
)

func init() {
	monCmd.Flags().BoolVarP(&monOpts.FallingEdge, "falling-edge", "f", false, "detect only falling edge events")
	monCmd.Flags().BoolVarP(&monOpts.RisingEdge, "rising-edge", "r", false, "detect only rising edge events")
	monCmd.Flags().UintVarP(&monOpts.NumEvents, "num-events", "n", 0, "exit after n edges")
	monCmd.Flags().BoolVarP(&monOpts.Quiet, "quiet", "q", false, "don't display event details")
	monCmd.Flags().BoolVarP(&monOpts.Sync, "sync", "y", false, "display and count the initial sync event")
	monCmd.SetHelpTemplate(monCmd.HelpTemplate() + extendedMonHelp)
	rootCmd.AddCommand(monCmd)
}

var extendedMonHelp = `
By default both rising and falling edge events are detected and reported.

Guest and board activity is read from standard input, one command per line:
  set <pin>=<level>
  poke <offset>=<value>

Monitoring ends at end of input, on interrupt, or after num-events edges.
`

var (
	monCmd = &cobra.Command{
		Use:   "mon <pin1>...",
		Short: "Monitor the level of a pin or pins",
		Long:  `Watch GPIO pins and interrupts and print their events to standard output.`,
		Args:  cobra.MinimumNArgs(1),
		RunE:  mon,
	}
	monOpts = struct {
		RisingEdge  bool
		FallingEdge bool
		Quiet       bool
		Sync        bool
		NumEvents   uint
	}{}
)

// monitor reports watch and interrupt events.
// Events are delivered on the goroutine driving the controller.
type monitor struct {
	mu     sync.Mutex
	count  uint
	synced map[int]bool
	done   chan struct{}
	once   sync.Once
}

func (m *monitor) stop() {
	m.once.Do(func() { close(m.done) })
}

func (m *monitor) edge(p *aspeed.Pin) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !monOpts.Sync && !m.synced[p.Pin()] {
		m.synced[p.Pin()] = true
		return
	}
	m.synced[p.Pin()] = true
	edge := "rising"
	if p.Read() == aspeed.Low {
		edge = "falling"
	}
	if !monOpts.Quiet {
		fmt.Printf("event:%-9s %-7s %s\n", p.Name(), edge, time.Now().Format(time.RFC3339Nano))
	}
	m.count++
	if monOpts.NumEvents > 0 && m.count >= monOpts.NumEvents {
		m.stop()
	}
}

func (m *monitor) irq(irq int) {
	if monOpts.Quiet {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	fmt.Printf("irq:%3d %s\n", irq, time.Now().Format(time.RFC3339Nano))
}

func mon(cmd *cobra.Command, args []string) (err error) {
	if monOpts.RisingEdge && monOpts.FallingEdge {
		return errors.New("can't filter both falling-edge and rising-edge events")
	}
	var edge aspeed.Edge
	switch {
	case monOpts.RisingEdge == monOpts.FallingEdge:
		edge = aspeed.EdgeBoth
	case monOpts.RisingEdge:
		edge = aspeed.EdgeRising
	case monOpts.FallingEdge:
		edge = aspeed.EdgeFalling
	}
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.release(&err)
	pp, err := s.parsePins(args)
	if err != nil {
		return err
	}
	m := &monitor{synced: make(map[int]bool), done: make(chan struct{})}
	s.soc.Intc.Notify(m.irq)
	for _, pin := range pp {
		if err = pin.Watch(edge, m.edge); err != nil {
			return err
		}
	}
	defer func() {
		for _, pin := range pp {
			pin.Unwatch()
		}
	}()
	go func() {
		s.monInput(cmd, os.Stdin)
		m.stop()
	}()
	monWait(m.done)
	return nil
}

// monInput applies the commands read from r until end of input.
func (s *session) monInput(cmd *cobra.Command, r io.Reader) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		ff := strings.Fields(scanner.Text())
		if len(ff) == 0 || strings.HasPrefix(ff[0], "#") {
			continue
		}
		var err error
		switch ff[0] {
		case "set":
			for _, arg := range ff[1:] {
				if err = s.set(arg); err != nil {
					break
				}
			}
		case "poke":
			for _, arg := range ff[1:] {
				if err = s.poke(arg); err != nil {
					break
				}
			}
		default:
			err = fmt.Errorf("unknown command '%s'", ff[0])
		}
		if err != nil {
			logErr(cmd, err)
		}
	}
}

func monWait(done <-chan struct{}) {
	sigdone := make(chan os.Signal, 1)
	signal.Notify(sigdone, os.Interrupt, unix.SIGTERM)
	defer signal.Stop(sigdone)
	select {
	case <-done:
	case <-sigdone:
	}
}
