// SPDX-License-Identifier: MIT
//
// Copyright © 2023 Kent Gibson <warthog618@gmail.com>.

package gpio

import "fmt"

// Bank is the register state of one set of up to 32 pins.
// The fields are in checkpoint order.
type Bank struct {
	DataValue     uint32
	DataRead      uint32
	Direction     uint32
	IntEnable     uint32
	IntSens0      uint32
	IntSens1      uint32
	IntSens2      uint32
	IntStatus     uint32
	ResetTolerant uint32
	CmdSource0    uint32
	CmdSource1    uint32
	Debounce1     uint32
	Debounce2     uint32
	InputMask     uint32
}

// Source identifies the agent permitted to write a group of a bank.
type Source int

// Command sources, encoded as cmd_source_1:cmd_source_0.
const (
	SourceARM Source = iota
	SourceLPC
	SourceCoprocessor
	SourceReserved
)

func (s Source) String() string {
	switch s {
	case SourceARM:
		return "arm"
	case SourceLPC:
		return "lpc"
	case SourceCoprocessor:
		return "coprocessor"
	case SourceReserved:
		return "reserved"
	}
	return fmt.Sprintf("source(%d)", int(s))
}

const (
	// only bits 0, 8, 16 and 24 of the command source registers exist
	cmdSourceMask uint32 = 0x01010101

	groupsPerBank = 4
	pinsPerGroup  = 8
	pinsPerBank   = 32
)

// Reg returns the value of the register r.
func (b *Bank) Reg(r Register) uint32 {
	if p := b.reg(r); p != nil {
		return *p
	}
	return 0
}

func (b *Bank) reg(r Register) *uint32 {
	switch r {
	case DataValue:
		return &b.DataValue
	case DataRead:
		return &b.DataRead
	case Direction:
		return &b.Direction
	case IntEnable:
		return &b.IntEnable
	case IntSens0:
		return &b.IntSens0
	case IntSens1:
		return &b.IntSens1
	case IntSens2:
		return &b.IntSens2
	case IntStatus:
		return &b.IntStatus
	case ResetTolerant:
		return &b.ResetTolerant
	case CmdSource0:
		return &b.CmdSource0
	case CmdSource1:
		return &b.CmdSource1
	case Debounce1:
		return &b.Debounce1
	case Debounce2:
		return &b.Debounce2
	case InputMask:
		return &b.InputMask
	}
	return nil
}

// Source returns the command source owning the group (0..3) of the bank.
func (b *Bank) Source(group int) Source {
	shift := uint(group * pinsPerGroup)
	return Source((b.CmdSource0>>shift)&1 | ((b.CmdSource1>>shift)&1)<<1)
}

// applyMasked merges new into old, taking each byte group from new only if
// the group is owned by the ARM.
func applyMasked(old, new, cs0, cs1 uint32) uint32 {
	var v uint32
	for i := uint(0); i < pinsPerBank; i += pinsPerGroup {
		gm := uint32(0xff) << i
		src := Source((cs0>>i)&1 | ((cs1>>i)&1)<<1)
		if src == SourceARM {
			v |= new & gm
		} else {
			v |= old & gm
		}
	}
	return v
}

// write performs a masked register write, returning true if the write
// requires the bank to be re-evaluated.
// The value has already been restricted to the legal bits of the set.
func (b *Bank) write(r Register, props *SetProperties, v uint32) bool {
	switch r {
	case DataValue:
		v &= props.Output | ^props.Input
		b.DataRead = applyMasked(b.DataRead, v, b.CmdSource0, b.CmdSource1)
		return true
	case Direction:
		v &= props.Output | ^props.Input
		b.Direction = applyMasked(b.Direction, v, b.CmdSource0, b.CmdSource1)
		return true
	case IntEnable, IntSens0, IntSens1, IntSens2:
		p := b.reg(r)
		*p = applyMasked(*p, v, b.CmdSource0, b.CmdSource1)
		return true
	case IntStatus:
		b.IntStatus = v
		return true
	case ResetTolerant, Debounce1, Debounce2:
		p := b.reg(r)
		*p = applyMasked(*p, v, b.CmdSource0, b.CmdSource1)
	case CmdSource0, CmdSource1:
		*b.reg(r) = v & cmdSourceMask
	case InputMask:
		b.InputMask = v & props.Input
		return true
	}
	return false
}
