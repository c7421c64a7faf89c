// SPDX-License-Identifier: MIT
//
// Copyright © 2023 Kent Gibson <warthog618@gmail.com>.

package gpio

import "errors"

var (
	// ErrAccessSize indicates a register access that is not 32 bits wide.
	ErrAccessSize = errors.New("invalid access size")

	// ErrUnaligned indicates a register access that is not word aligned.
	ErrUnaligned = errors.New("unaligned access")

	// ErrOutOfBounds indicates an offset outside the register blocks.
	ErrOutOfBounds = errors.New("offset out of bounds")

	// ErrNoRegister indicates an offset within the register blocks that does
	// not map to a register of the chip.
	ErrNoRegister = errors.New("no register at offset")

	// ErrNoGetter indicates a read of a register that cannot be read.
	ErrNoGetter = errors.New("no getter for offset")

	// ErrNoSetter indicates a write of a register that cannot be written.
	ErrNoSetter = errors.New("no setter for offset")

	// ErrBadPinName indicates a pin name that cannot be parsed.
	ErrBadPinName = errors.New("malformed pin name")

	// ErrUnknownPin indicates a well formed pin name or number that the chip
	// does not provide.
	ErrUnknownPin = errors.New("unknown pin")

	// ErrUnknownChip indicates a chip name that is not modelled.
	ErrUnknownChip = errors.New("unknown chip")

	// ErrStateSize indicates a checkpoint that does not match the chip.
	ErrStateSize = errors.New("checkpoint size mismatch")

	// ErrWatchExists indicates a pin that already has a watcher.
	ErrWatchExists = errors.New("watch already exists")
)
