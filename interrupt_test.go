// SPDX-License-Identifier: MIT
//
// Copyright © 2023 Kent Gibson <warthog618@gmail.com>.

// Test suite for interrupt module.
//
// Tests drive bank ABCD of an ast2500 with all pins as outputs.
package gpio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pulseCounter struct {
	pulses []int
}

func (p *pulseCounter) Pulse(bank int) {
	p.pulses = append(p.pulses, bank)
}

func setupIntr(t *testing.T) (*Controller, *pulseCounter) {
	pc := &pulseCounter{}
	c := New(AST2500, WithInterruptSink(pc))
	c.Write(0x004, 4, 0xffffffff)
	require.Empty(t, pc.pulses)
	return c, pc
}

func setTriggers(c *Controller, mask uint32, t Trigger) {
	for i, off := range []uint64{0x00c, 0x010, 0x014} {
		v := uint32(c.Read(off, 4))
		if t&(1<<uint(i)) != 0 {
			v |= mask
		} else {
			v &^= mask
		}
		c.Write(off, 4, uint64(v))
	}
}

func TestTrigger(t *testing.T) {
	patterns := []struct {
		name     string
		trigger  Trigger
		from, to uint64
		fires    bool
	}{
		{"falling on fall", TriggerFalling, 1, 0, true},
		{"falling on rise", TriggerFalling, 0, 1, false},
		{"rising on rise", TriggerRising, 0, 1, true},
		{"rising on fall", TriggerRising, 1, 0, false},
		{"low on fall", TriggerLevelLow, 1, 0, true},
		{"low on rise", TriggerLevelLow, 0, 1, false},
		{"high on rise", TriggerLevelHigh, 0, 1, true},
		{"high on fall", TriggerLevelHigh, 1, 0, false},
		{"both on rise", TriggerBothEdges, 0, 1, true},
		{"both on fall", TriggerBothEdges, 1, 0, true},
		{"dual 5 on rise", Trigger(5), 0, 1, true},
		{"dual 7 on fall", Trigger(7), 1, 0, true},
	}
	for _, p := range patterns {
		tf := func(t *testing.T) {
			c, pc := setupIntr(t)
			c.Write(0x000, 4, p.from)
			setTriggers(c, 1, p.trigger)
			c.Write(0x018, 4, 0)
			pc.pulses = nil
			c.Write(0x000, 4, p.to)
			assert.Equal(t, p.to, c.Read(0x000, 4))
			if p.fires {
				assert.Equal(t, uint64(1), c.Read(0x018, 4))
				assert.Equal(t, []int{0}, pc.pulses)
			} else {
				assert.Equal(t, uint64(0), c.Read(0x018, 4))
				assert.Empty(t, pc.pulses)
			}
		}
		t.Run(p.name, tf)
	}
}

func TestTriggerDecode(t *testing.T) {
	b := Bank{IntSens0: 0x0a, IntSens1: 0x0c, IntSens2: 0x30}
	assert.Equal(t, TriggerFalling, b.Trigger(0))
	assert.Equal(t, TriggerRising, b.Trigger(1))
	assert.Equal(t, TriggerLevelLow, b.Trigger(2))
	assert.Equal(t, TriggerLevelHigh, b.Trigger(3))
	assert.Equal(t, TriggerBothEdges, b.Trigger(4))
	assert.Equal(t, "both", b.Trigger(5).String())
	tr, err := ParseTrigger("high")
	assert.Nil(t, err)
	assert.Equal(t, TriggerLevelHigh, tr)
	_, err = ParseTrigger("sideways")
	assert.NotNil(t, err)
}

func TestStatusSticky(t *testing.T) {
	c, pc := setupIntr(t)
	setTriggers(c, 1, TriggerRising)
	c.Write(0x000, 4, 1)
	assert.Equal(t, uint64(1), c.Read(0x018, 4))
	c.Write(0x000, 4, 0)
	assert.Equal(t, uint64(1), c.Read(0x018, 4))
	assert.Equal(t, []int{0}, pc.pulses)
	// status is written directly
	c.Write(0x018, 4, 0)
	assert.Equal(t, uint64(0), c.Read(0x018, 4))
	c.Write(0x018, 4, 0x80)
	assert.Equal(t, uint64(0x80), c.Read(0x018, 4))
}

func TestPulsePerBit(t *testing.T) {
	c, pc := setupIntr(t)
	setTriggers(c, 0x0f, TriggerBothEdges)
	c.Write(0x000, 4, 0x0f)
	assert.Equal(t, uint64(0x0f), c.Read(0x018, 4))
	assert.Equal(t, []int{0, 0, 0, 0}, pc.pulses)
}

func TestPulseBank(t *testing.T) {
	pc := &pulseCounter{}
	c := New(AST2600, WithInterruptSink(pc))
	c.Write(0x824, 4, 0xf)
	c.Write(0x82c, 4, 0xf)
	c.Write(0x820, 4, 0x2)
	assert.Equal(t, []int{8}, pc.pulses)
	assert.Equal(t, uint64(0x2), c.Read(0x838, 4))
}

func TestIntEnableNotGating(t *testing.T) {
	c, pc := setupIntr(t)
	c.Write(0x008, 4, 0)
	setTriggers(c, 1, TriggerRising)
	c.Write(0x000, 4, 1)
	assert.Equal(t, uint64(1), c.Read(0x018, 4))
	assert.Equal(t, []int{0}, pc.pulses)
}

func TestInputDoesNotPropagate(t *testing.T) {
	c, pc := setupIntr(t)
	c.Write(0x004, 4, 0xfffffffe)
	setTriggers(c, 1, TriggerRising)
	c.Write(0x000, 4, 1)
	assert.Equal(t, uint64(0), c.Read(0x000, 4))
	assert.Equal(t, uint64(1), c.Read(0x0c0, 4))
	assert.Empty(t, pc.pulses)
	// becoming an output propagates the pending level
	c.Write(0x004, 4, 0xffffffff)
	assert.Equal(t, uint64(1), c.Read(0x000, 4))
	assert.Equal(t, []int{0}, pc.pulses)
}

func TestNoDirection(t *testing.T) {
	c, pc := setupIntr(t)
	c.Write(0x004, 4, 0)
	c.Write(0x000, 4, 0xffffffff)
	assert.Equal(t, uint64(0), c.Read(0x000, 4))
	assert.Equal(t, uint64(0xffffffff), c.Read(0x0c0, 4))
	assert.Empty(t, pc.pulses)
}

func TestInputMask(t *testing.T) {
	c, pc := setupIntr(t)
	setTriggers(c, 1, TriggerRising)
	c.Write(0x1d0, 4, 1)
	c.Write(0x000, 4, 1)
	assert.Equal(t, uint64(0), c.Read(0x000, 4))
	assert.Equal(t, uint64(0), c.Read(0x018, 4))
	assert.Empty(t, pc.pulses)
	// unmasking propagates the pending level
	c.Write(0x1d0, 4, 0)
	assert.Equal(t, uint64(1), c.Read(0x000, 4))
	assert.Equal(t, uint64(1), c.Read(0x018, 4))
	assert.Equal(t, []int{0}, pc.pulses)
}

func TestEvaluation(t *testing.T) {
	type write struct {
		offset uint64
		value  uint64
		status uint64
		pulses []int
	}
	patterns := []struct {
		name    string
		chip    Chip
		dir     uint64
		trigger Trigger
		mask    uint32
		writes  []write
	}{
		{"status rewrite", AST2500, 0xffffffff, TriggerRising, 1,
			[]write{
				{0x000, 1, 1, []int{0}},
				{0x018, 1, 1, nil},
				{0x018, 1, 1, nil},
			}},
		{"ast2600 abcd bit 3", AST2600, 0x8, TriggerRising, 0x8,
			[]write{
				{0x000, 0, 0, nil},
				{0x000, 0x8, 0x8, []int{0}},
			}},
		{"level high from low", AST2500, 0xffffffff, TriggerLevelHigh, 1,
			[]write{
				{0x000, 1, 1, []int{0}},
			}},
		// only bits that change level are evaluated
		{"level high unchanged", AST2500, 0xffffffff, TriggerLevelHigh, 1,
			[]write{
				{0x000, 1, 1, []int{0}},
				{0x018, 0, 0, nil},
				{0x000, 1, 0, nil},
			}},
	}
	for _, p := range patterns {
		tf := func(t *testing.T) {
			pc := &pulseCounter{}
			c := New(p.chip, WithInterruptSink(pc))
			c.Write(0x004, 4, p.dir)
			setTriggers(c, p.mask, p.trigger)
			require.Empty(t, pc.pulses)
			for i, w := range p.writes {
				pc.pulses = nil
				c.Write(w.offset, 4, w.value)
				assert.Equal(t, w.status, c.Read(0x018, 4), i)
				assert.Equal(t, w.pulses, pc.pulses, i)
			}
		}
		t.Run(p.name, tf)
	}
}

func TestInterruptSinkFunc(t *testing.T) {
	count := 0
	c := New(AST2500, WithInterruptSink(InterruptSinkFunc(func(bank int) {
		assert.Equal(t, 1, bank)
		count++
	})))
	c.Write(0x024, 4, 0xffffffff)
	c.Write(0x02c, 4, 0xffffffff)
	c.Write(0x020, 4, 0x00010001)
	assert.Equal(t, 2, count)
}

func TestSinkReentry(t *testing.T) {
	var c *Controller
	status := uint64(0)
	c = New(AST2500, WithInterruptSink(InterruptSinkFunc(func(bank int) {
		// the sink may access the controller
		status = c.Read(0x018, 4)
		c.Write(0x018, 4, 0)
	})))
	c.Write(0x004, 4, 0xffffffff)
	c.Write(0x00c, 4, 0xffffffff)
	c.Write(0x000, 4, 0x10)
	assert.Equal(t, uint64(0x10), status)
	assert.Equal(t, uint64(0), c.Read(0x018, 4))
}

func TestWatch(t *testing.T) {
	c, _ := setupIntr(t)
	pin := c.NewPin(3)
	require.NotNil(t, pin)
	count := 0
	var levels []Level
	err := c.Watch(pin, EdgeRising, func(p *Pin) {
		count++
		levels = append(levels, p.Read())
	})
	require.Nil(t, err)
	// initial call
	assert.Equal(t, 1, count)
	pin.High()
	assert.Equal(t, 2, count)
	pin.Low()
	assert.Equal(t, 2, count)
	// an unchanged level is not an edge
	pin.Low()
	assert.Equal(t, 2, count)
	// guest writes are watched too
	c.Write(0x000, 4, 0x08)
	assert.Equal(t, 3, count)
	assert.Equal(t, []Level{Low, High, High}, levels)
	// other pins are not
	c.Write(0x000, 4, 0x18)
	assert.Equal(t, 3, count)
}

func TestWatchEdges(t *testing.T) {
	patterns := []struct {
		edge     Edge
		expected int
	}{
		{EdgeNone, 1},
		{EdgeRising, 3},
		{EdgeFalling, 3},
		{EdgeBoth, 5},
	}
	for _, p := range patterns {
		tf := func(t *testing.T) {
			c, _ := setupIntr(t)
			pin := c.NewPin(12)
			count := 0
			err := pin.Watch(p.edge, func(*Pin) { count++ })
			require.Nil(t, err)
			for i := 0; i < 2; i++ {
				pin.High()
				pin.Low()
			}
			assert.Equal(t, p.expected, count)
		}
		t.Run(string(p.edge), tf)
	}
}

func TestReWatch(t *testing.T) {
	c, _ := setupIntr(t)
	pin := c.NewPin(3)
	count := 0
	err := pin.Watch(EdgeBoth, func(*Pin) { count++ })
	require.Nil(t, err)
	// a second pin object for the same pin
	err = c.NewPin(3).Watch(EdgeBoth, func(*Pin) {})
	assert.ErrorIs(t, err, ErrWatchExists)
	pin.Unwatch()
	pin.High()
	assert.Equal(t, 1, count)
	err = pin.Watch(EdgeBoth, func(*Pin) { count++ })
	assert.Nil(t, err)
	assert.Equal(t, 2, count)
	pin.Low()
	assert.Equal(t, 3, count)
	err = pin.Watch(Edge("sideways"), func(*Pin) {})
	assert.NotNil(t, err)
}

func TestUnwatchInHandler(t *testing.T) {
	c, _ := setupIntr(t)
	pin := c.NewPin(5)
	count := 0
	err := pin.Watch(EdgeBoth, func(p *Pin) {
		count++
		if count > 1 {
			p.Unwatch()
		}
	})
	require.Nil(t, err)
	pin.High()
	pin.Low()
	assert.Equal(t, 2, count)
}
