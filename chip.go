// SPDX-License-Identifier: MIT
//
// Copyright © 2023 Kent Gibson <warthog618@gmail.com>.

package gpio

import (
	"fmt"
	"strings"
)

// Chip identifies the Aspeed SoC generation whose GPIO controller is modelled.
type Chip int

const (
	// AST2400 is the 4th generation BMC (ARM926).
	AST2400 Chip = iota
	// AST2500 is the 5th generation BMC (ARM1176).
	AST2500
	// AST2600 is the 6th generation BMC (Cortex-A7), which adds a 1.8V domain.
	AST2600
)

// SetProperties describes the legal bits of one bank and the labels of its
// four 8 pin groups.
type SetProperties struct {
	Input  uint32
	Output uint32
	Groups [4]string
}

// Descriptor is the static description of a controller variant.
type Descriptor struct {
	Name   string
	NrPins int
	NrSets int
	// Gap is the pin index at which a 4 pin hole appears in the bank layout.
	// Zero if the chip has no hole.
	Gap int
	// NrPins1V8 and NrSets1V8 describe the 1.8V domain, if any.
	NrPins1V8 int
	NrSets1V8 int
	// Sets holds the 3.3V sets followed by the 1.8V sets.
	Sets []SetProperties
}

var ast2400Sets = []SetProperties{
	{0xffffffff, 0xffffffff, [4]string{"A", "B", "C", "D"}},
	{0xffffffff, 0xffffffff, [4]string{"E", "F", "G", "H"}},
	{0xffffffff, 0xffffffff, [4]string{"I", "J", "K", "L"}},
	{0xffffffff, 0xffffffff, [4]string{"M", "N", "O", "P"}},
	{0xffffffff, 0xffffffff, [4]string{"Q", "R", "S", "T"}},
	{0xffffffff, 0x0000ffff, [4]string{"U", "V", "W", "X"}},
	{0x0000000f, 0x0fffff0f, [4]string{"Y", "Z", "AA", "AB"}},
}

var ast2500Sets = []SetProperties{
	{0xffffffff, 0xffffffff, [4]string{"A", "B", "C", "D"}},
	{0xffffffff, 0xffffffff, [4]string{"E", "F", "G", "H"}},
	{0xffffffff, 0xffffffff, [4]string{"I", "J", "K", "L"}},
	{0xffffffff, 0xffffffff, [4]string{"M", "N", "O", "P"}},
	{0xffffffff, 0xffffffff, [4]string{"Q", "R", "S", "T"}},
	{0xffffffff, 0x0000ffff, [4]string{"U", "V", "W", "X"}},
	{0xffffff0f, 0x0fffff0f, [4]string{"Y", "Z", "AA", "AB"}},
	{0x000000ff, 0x000000ff, [4]string{"AC"}},
}

var ast2600Sets = []SetProperties{
	{0xffffffff, 0xffffffff, [4]string{"A", "B", "C", "D"}},
	{0xffffffff, 0xffffffff, [4]string{"E", "F", "G", "H"}},
	{0xffffffff, 0xffffffff, [4]string{"I", "J", "K", "L"}},
	{0xffffffff, 0xffffffff, [4]string{"M", "N", "O", "P"}},
	{0xffffffff, 0xffffffff, [4]string{"Q", "R", "S", "T"}},
	{0xffffffff, 0x0000ffff, [4]string{"U", "V", "W", "X"}},
	{0x0000ffff, 0x0000ffff, [4]string{"Y", "Z"}},
	// 1.8V
	{0xffffffff, 0xffffffff, [4]string{"18A", "18B", "18C", "18D"}},
	{0x0000000f, 0x0000000f, [4]string{"18E"}},
}

var descriptors = map[Chip]Descriptor{
	AST2400: {
		Name:   "ast2400",
		NrPins: 216,
		NrSets: 7,
		Gap:    196,
		Sets:   ast2400Sets,
	},
	AST2500: {
		Name:   "ast2500",
		NrPins: 228,
		NrSets: 8,
		Gap:    220,
		Sets:   ast2500Sets,
	},
	AST2600: {
		Name:      "ast2600",
		NrPins:    208,
		NrSets:    7,
		NrPins1V8: 36,
		NrSets1V8: 2,
		Sets:      ast2600Sets,
	},
}

// Descriptor returns the static description of the chip's GPIO controller.
func (c Chip) Descriptor() Descriptor {
	d, ok := descriptors[c]
	if !ok {
		panic(fmt.Sprintf("gpio: unknown chip %d", int(c)))
	}
	d.Sets = append([]SetProperties(nil), d.Sets...)
	return d
}

func (c Chip) String() string {
	if d, ok := descriptors[c]; ok {
		return d.Name
	}
	return fmt.Sprintf("chip(%d)", int(c))
}

// ParseChip returns the Chip named by s, e.g. "ast2500".
// A leading "aspeed.gpio-" type prefix is accepted.
func ParseChip(s string) (Chip, error) {
	n := strings.TrimPrefix(strings.ToLower(s), "aspeed.gpio-")
	for c, d := range descriptors {
		if d.Name == n {
			return c, nil
		}
	}
	return 0, fmt.Errorf("%w: '%s'", ErrUnknownChip, s)
}

// Chips returns all modelled chips, oldest first.
func Chips() []Chip {
	return []Chip{AST2400, AST2500, AST2600}
}

// NumBanks returns the total number of banks, across both voltage domains.
func (d *Descriptor) NumBanks() int {
	return d.NrSets + d.NrSets1V8
}

// NumPins returns the total number of pins, across both voltage domains.
func (d *Descriptor) NumPins() int {
	return d.NrPins + d.NrPins1V8
}

// LowVoltage returns true if the bank belongs to the 1.8V domain.
func (d *Descriptor) LowVoltage(bank int) bool {
	return bank >= d.NrSets
}

// SetName returns the name of a bank, formed from its group labels,
// e.g. "ABCD" or "YZAAAB".
func (d *Descriptor) SetName(bank int) string {
	if bank < 0 || bank >= len(d.Sets) {
		return ""
	}
	return strings.Join(d.Sets[bank].Groups[:], "")
}
