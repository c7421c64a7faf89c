// SPDX-License-Identifier: MIT
//
// Copyright © 2023 Kent Gibson <warthog618@gmail.com>.

package soc

import (
	"log"
	"sort"
	"sync"
)

// Intc is a minimal interrupt controller that counts the pulses raised on
// each line until they are acknowledged.
type Intc struct {
	mu      sync.Mutex
	pending map[int]int
	num     int
	logger  *log.Logger
	notify  []func(irq int)
}

// NewIntc creates a controller with num lines.
func NewIntc(num int, logger *log.Logger) *Intc {
	return &Intc{
		pending: make(map[int]int),
		num:     num,
		logger:  logger,
	}
}

// Notify adds a function called after each pulse is raised.
func (i *Intc) Notify(fn func(irq int)) {
	i.mu.Lock()
	i.notify = append(i.notify, fn)
	i.mu.Unlock()
}

// Raise records a pulse on the line.
func (i *Intc) Raise(irq int) {
	if irq < 0 || irq >= i.num {
		i.logger.Printf("raise irq %d: out of range", irq)
		return
	}
	i.mu.Lock()
	i.pending[irq]++
	notify := i.notify
	i.mu.Unlock()
	for _, fn := range notify {
		fn(irq)
	}
}

// Pending returns the number of unacknowledged pulses on the line.
func (i *Intc) Pending(irq int) int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.pending[irq]
}

// PendingIRQs returns the lines with unacknowledged pulses, in order.
func (i *Intc) PendingIRQs() []int {
	i.mu.Lock()
	defer i.mu.Unlock()
	irqs := make([]int, 0, len(i.pending))
	for irq := range i.pending {
		irqs = append(irqs, irq)
	}
	sort.Ints(irqs)
	return irqs
}

// Ack acknowledges one pulse on the line, returning false if none were
// pending.
func (i *Intc) Ack(irq int) bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	n, ok := i.pending[irq]
	if !ok {
		return false
	}
	if n > 1 {
		i.pending[irq] = n - 1
	} else {
		delete(i.pending, irq)
	}
	return true
}
