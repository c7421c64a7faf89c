// SPDX-License-Identifier: MIT
//
// Copyright © 2023 Kent Gibson <warthog618@gmail.com>.

package gpio

import (
	"bytes"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLogged(chip Chip) (*Controller, *bytes.Buffer) {
	var buf bytes.Buffer
	c := New(chip, WithLogger(log.New(&buf, "", 0)))
	return c, &buf
}

func TestReadWrite(t *testing.T) {
	c, buf := newLogged(AST2500)
	c.Write(0x004, 4, 0xffffffff)
	assert.Equal(t, uint64(0xffffffff), c.Read(0x004, 4))
	c.Write(0x000, 4, 0x00000005)
	assert.Equal(t, uint64(0x5), c.Read(0x000, 4))
	assert.Equal(t, uint64(0x5), c.Read(0x0c0, 4))
	// upper bits of a 64 bit value are dropped
	c.Write(0x018, 4, 0xabcd000012345678)
	assert.Equal(t, uint64(0x12345678), c.Read(0x018, 4))
	assert.Empty(t, buf.String())
}

func TestGuestErrors(t *testing.T) {
	patterns := []struct {
		name   string
		chip   Chip
		offset uint64
		size   uint
		err    error
	}{
		{"size 1", AST2500, 0x000, 1, ErrAccessSize},
		{"size 2", AST2500, 0x000, 2, ErrAccessSize},
		{"size 8", AST2500, 0x000, 8, ErrAccessSize},
		{"unaligned", AST2500, 0x002, 4, ErrUnaligned},
		{"end of block", AST2500, 0x1f0, 4, ErrOutOfBounds},
		{"gap", AST2600, 0x400, 4, ErrOutOfBounds},
		{"end of 1.8V block", AST2600, 0x9d8, 4, ErrOutOfBounds},
		{"end of window", AST2600, 0xffc, 4, ErrOutOfBounds},
		{"debounce time", AST2500, DebounceTime2, 4, nil},
		{"hole", AST2500, 0x1cc, 4, nil},
		{"ac on ast2400", AST2400, 0x1e8, 4, ErrNoRegister},
		{"1.8V on ast2500", AST2500, 0x800, 4, ErrNoRegister},
		{"1.8V ijkl", AST2600, 0x870, 4, ErrNoRegister},
	}
	for _, p := range patterns {
		tf := func(t *testing.T) {
			c, buf := newLogged(p.chip)
			c.Write(p.offset, p.size, 0xffffffff)
			msg := buf.String()
			require.NotEmpty(t, msg)
			if p.err != nil {
				assert.Contains(t, msg, p.err.Error())
			} else {
				assert.Contains(t, msg, ErrNoSetter.Error())
			}
			buf.Reset()
			assert.Equal(t, uint64(0), c.Read(p.offset, p.size))
			msg = buf.String()
			require.NotEmpty(t, msg)
			if p.err != nil {
				assert.Contains(t, msg, p.err.Error())
			} else {
				assert.Contains(t, msg, ErrNoGetter.Error())
			}
			for bank := 0; bank < c.desc.NumBanks(); bank++ {
				b, ok := c.Bank(bank)
				assert.True(t, ok)
				assert.Equal(t, Bank{}, b)
			}
		}
		t.Run(p.name, tf)
	}
}

func TestDataReadReadOnly(t *testing.T) {
	c, buf := newLogged(AST2500)
	c.Write(0x0c0, 4, 0xffffffff)
	assert.Contains(t, buf.String(), ErrNoSetter.Error())
	assert.Equal(t, uint64(0), c.Read(0x0c0, 4))
}

func TestWriteMasking(t *testing.T) {
	patterns := []struct {
		name     string
		chip     Chip
		offset   uint64
		val      uint64
		expected uint64
	}{
		// UVWX pins above 16 are input only
		{"uvwx direction", AST2600, 0x08c, 0xffffffff, 0x0000ffff},
		{"uvwx data", AST2600, 0x088, 0xffffffff, 0x00000000},
		// Y4-Y7 and AB4-AB7 do not exist on the ast2400
		{"yzaaab int enable", AST2400, 0x178, 0xffffffff, 0x0fffff0f},
		{"yzaaab input mask", AST2400, 0x198, 0xffffffff, 0x0000000f},
		{"yzaaab status", AST2500, 0x188, 0xffffffff, 0xffffff0f},
		{"ac sens", AST2500, 0x1ac, 0xffffffff, 0x000000ff},
		{"cmd source 0", AST2500, 0x060, 0xffffffff, 0x01010101},
		{"cmd source 1", AST2500, 0x1a4, 0xffffffff, 0x00000001},
		{"reset tol", AST2500, 0x01c, 0xffffffff, 0xffffffff},
		{"debounce", AST2500, 0x0b4, 0x12345678, 0x12345678},
		{"18e direction", AST2600, 0x824, 0xffffffff, 0x0000000f},
	}
	for _, p := range patterns {
		tf := func(t *testing.T) {
			c, buf := newLogged(p.chip)
			c.Write(p.offset, 4, p.val)
			assert.Equal(t, p.expected, c.Read(p.offset, 4))
			assert.Empty(t, buf.String())
		}
		t.Run(p.name, tf)
	}
}

func TestCommandSource(t *testing.T) {
	c := New(AST2500)
	// group B owned by LPC, group D by the coprocessor
	c.Write(0x060, 4, 0x00000100)
	c.Write(0x064, 4, 0x01000000)
	c.Write(0x004, 4, 0xffffffff)
	assert.Equal(t, uint64(0x00ff00ff), c.Read(0x004, 4))
	c.Write(0x008, 4, 0xffffffff)
	assert.Equal(t, uint64(0x00ff00ff), c.Read(0x008, 4))
	c.Write(0x040, 4, 0xffffffff)
	assert.Equal(t, uint64(0x00ff00ff), c.Read(0x040, 4))
	c.Write(0x000, 4, 0xffffffff)
	assert.Equal(t, uint64(0x00ff00ff), c.Read(0x0c0, 4))
	assert.Equal(t, uint64(0x00ff00ff), c.Read(0x000, 4))
	// status and input mask are not arbitrated
	c.Write(0x018, 4, 0xffffffff)
	assert.Equal(t, uint64(0xffffffff), c.Read(0x018, 4))
	c.Write(0x1d0, 4, 0xffffffff)
	assert.Equal(t, uint64(0xffffffff), c.Read(0x1d0, 4))
	// other banks are unaffected
	c.Write(0x024, 4, 0xffffffff)
	assert.Equal(t, uint64(0xffffffff), c.Read(0x024, 4))
	// release the groups
	c.Write(0x060, 4, 0)
	c.Write(0x064, 4, 0)
	c.Write(0x004, 4, 0xffffffff)
	assert.Equal(t, uint64(0xffffffff), c.Read(0x004, 4))
}

func TestLowVoltageWindow(t *testing.T) {
	c, buf := newLogged(AST2600)
	c.Write(0x804, 4, 0xffffffff)
	c.Write(0x800, 4, 0x80000001)
	assert.Equal(t, uint64(0), c.Read(0x004, 4))
	assert.Equal(t, uint64(0), c.Read(0x000, 4))
	assert.Equal(t, uint64(0xffffffff), c.Read(0x804, 4))
	assert.Equal(t, uint64(0x80000001), c.Read(0x800, 4))
	assert.Equal(t, uint64(0x80000001), c.Read(0x8c0, 4))
	b, ok := c.Bank(7)
	require.True(t, ok)
	assert.Equal(t, uint32(0x80000001), b.DataValue)
	b, ok = c.Bank(0)
	require.True(t, ok)
	assert.Equal(t, Bank{}, b)
	assert.Empty(t, buf.String())
}

func TestRegAccessors(t *testing.T) {
	c := New(AST2600)
	assert.True(t, c.WriteReg(8, Direction, 0xffffffff))
	v, ok := c.ReadReg(8, Direction)
	assert.True(t, ok)
	assert.Equal(t, uint32(0xf), v)
	assert.False(t, c.WriteReg(9, Direction, 0))
	_, ok = c.ReadReg(9, Direction)
	assert.False(t, ok)
	_, ok = c.Bank(9)
	assert.False(t, ok)
}

func TestReset(t *testing.T) {
	c := New(AST2600)
	c.Write(0x004, 4, 0xffffffff)
	c.Write(0x000, 4, 0xffffffff)
	c.Write(0x804, 4, 0xffffffff)
	c.Reset()
	for bank := 0; bank < c.desc.NumBanks(); bank++ {
		b, _ := c.Bank(bank)
		assert.Equal(t, Bank{}, b)
	}
}
