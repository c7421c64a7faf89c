// SPDX-License-Identifier: MIT
//
// Copyright © 2023 Kent Gibson <warthog618@gmail.com>.

package gpio

import "fmt"

// Register identifies one of the fourteen registers in a bank.
// The order is the checkpoint order.
type Register int

// Bank registers.
const (
	DataValue Register = iota
	DataRead
	Direction
	IntEnable
	IntSens0
	IntSens1
	IntSens2
	IntStatus
	ResetTolerant
	CmdSource0
	CmdSource1
	Debounce1
	Debounce2
	InputMask
	NumRegisters
)

var registerNames = [NumRegisters]string{
	"data_value",
	"data_read",
	"direction",
	"int_enable",
	"int_sens_0",
	"int_sens_1",
	"int_sens_2",
	"int_status",
	"reset_tol",
	"cmd_source_0",
	"cmd_source_1",
	"debounce_1",
	"debounce_2",
	"input_mask",
}

func (r Register) String() string {
	if r < 0 || r >= NumRegisters {
		return fmt.Sprintf("register(%d)", int(r))
	}
	return registerNames[r]
}

// Global debounce time registers.  These are decoded but not modelled.
const (
	DebounceTime1 = 0x050
	DebounceTime2 = 0x054
	DebounceTime3 = 0x058
)

const (
	// WindowSize is the size of the controller's MMIO window.
	WindowSize = 0x1000

	// end of the 3.3V register block
	regBlockEnd = 0x1f0

	// the 1.8V block mirrors the 3.3V block at this offset
	lowVoltageBase = 0x800
	lowVoltageEnd  = 0x9d8

	regTableLen = regBlockEnd / 4

	maxSets = 8
)

// bankOffsets holds the byte offset of each register for each 3.3V set,
// ABCD through AC.  The 1.8V sets use the ABCD and EFGH offsets plus 0x800.
var bankOffsets = [maxSets][NumRegisters]uint32{
	// ABCD
	{
		DataValue: 0x000, DataRead: 0x0c0, Direction: 0x004,
		IntEnable: 0x008, IntSens0: 0x00c, IntSens1: 0x010, IntSens2: 0x014,
		IntStatus: 0x018, ResetTolerant: 0x01c,
		CmdSource0: 0x060, CmdSource1: 0x064,
		Debounce1: 0x040, Debounce2: 0x044,
		InputMask: 0x1d0,
	},
	// EFGH
	{
		DataValue: 0x020, DataRead: 0x0c4, Direction: 0x024,
		IntEnable: 0x028, IntSens0: 0x02c, IntSens1: 0x030, IntSens2: 0x034,
		IntStatus: 0x038, ResetTolerant: 0x03c,
		CmdSource0: 0x068, CmdSource1: 0x06c,
		Debounce1: 0x048, Debounce2: 0x04c,
		InputMask: 0x1d4,
	},
	// IJKL
	{
		DataValue: 0x070, DataRead: 0x0c8, Direction: 0x074,
		IntEnable: 0x098, IntSens0: 0x09c, IntSens1: 0x0a0, IntSens2: 0x0a4,
		IntStatus: 0x0a8, ResetTolerant: 0x0ac,
		CmdSource0: 0x090, CmdSource1: 0x094,
		Debounce1: 0x0b0, Debounce2: 0x0b4,
		InputMask: 0x0b8,
	},
	// MNOP
	{
		DataValue: 0x078, DataRead: 0x0cc, Direction: 0x07c,
		IntEnable: 0x0e8, IntSens0: 0x0ec, IntSens1: 0x0f0, IntSens2: 0x0f4,
		IntStatus: 0x0f8, ResetTolerant: 0x0fc,
		CmdSource0: 0x0e0, CmdSource1: 0x0e4,
		Debounce1: 0x100, Debounce2: 0x104,
		InputMask: 0x108,
	},
	// QRST
	{
		DataValue: 0x080, DataRead: 0x0d0, Direction: 0x084,
		IntEnable: 0x118, IntSens0: 0x11c, IntSens1: 0x120, IntSens2: 0x124,
		IntStatus: 0x128, ResetTolerant: 0x12c,
		CmdSource0: 0x110, CmdSource1: 0x114,
		Debounce1: 0x130, Debounce2: 0x134,
		InputMask: 0x138,
	},
	// UVWX
	{
		DataValue: 0x088, DataRead: 0x0d4, Direction: 0x08c,
		IntEnable: 0x148, IntSens0: 0x14c, IntSens1: 0x150, IntSens2: 0x154,
		IntStatus: 0x158, ResetTolerant: 0x15c,
		CmdSource0: 0x140, CmdSource1: 0x144,
		Debounce1: 0x160, Debounce2: 0x164,
		InputMask: 0x168,
	},
	// YZAAAB
	{
		DataValue: 0x1e0, DataRead: 0x0d8, Direction: 0x1e4,
		IntEnable: 0x178, IntSens0: 0x17c, IntSens1: 0x180, IntSens2: 0x184,
		IntStatus: 0x188, ResetTolerant: 0x18c,
		CmdSource0: 0x170, CmdSource1: 0x174,
		Debounce1: 0x190, Debounce2: 0x194,
		InputMask: 0x198,
	},
	// AC
	{
		DataValue: 0x1e8, DataRead: 0x0dc, Direction: 0x1ec,
		IntEnable: 0x1a8, IntSens0: 0x1ac, IntSens1: 0x1b0, IntSens2: 0x1b4,
		IntStatus: 0x1b8, ResetTolerant: 0x1bc,
		CmdSource0: 0x1a0, CmdSource1: 0x1a4,
		Debounce1: 0x1c0, Debounce2: 0x1c4,
		InputMask: 0x1c8,
	},
}

type access uint8

const (
	accessRead access = 1 << iota
	accessWrite
)

// regEntry is one slot of the register table.
type regEntry struct {
	bank   int
	reg    Register
	access access
}

func (e regEntry) readable() bool {
	return e.access&accessRead != 0
}

func (e regEntry) writable() bool {
	return e.access&accessWrite != 0
}

// regTable maps word offsets within the 3.3V block to bank registers.
// Slots with no access are holes or unmodelled registers.
var regTable [regTableLen]regEntry

func init() {
	for i := range regTable {
		regTable[i].bank = -1
	}
	for bank, offsets := range bankOffsets {
		for r, off := range offsets {
			e := regEntry{bank: bank, reg: Register(r), access: accessRead | accessWrite}
			if Register(r) == DataRead {
				e.access = accessRead
			}
			regTable[off>>2] = e
		}
	}
}

// Offset returns the byte offset of the register for the bank of the given
// descriptor, including 1.8V banks.
func (d *Descriptor) Offset(bank int, r Register) (uint32, bool) {
	if r < 0 || r >= NumRegisters || bank < 0 || bank >= d.NumBanks() {
		return 0, false
	}
	if d.LowVoltage(bank) {
		return bankOffsets[bank-d.NrSets][r] + lowVoltageBase, true
	}
	return bankOffsets[bank][r], true
}
