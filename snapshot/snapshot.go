// SPDX-License-Identifier: MIT
//
// Copyright © 2023 Kent Gibson <warthog618@gmail.com>.

//go:build linux
// +build linux

// Package snapshot persists controller checkpoints in a memory mapped
// image file.
package snapshot

import (
	"encoding"
	"errors"
	"fmt"
	"os"
	"sync"

	"golang.org/x/sys/unix"
)

var (
	// ErrImageSize indicates an existing image that does not match the
	// expected size.
	ErrImageSize = errors.New("image size mismatch")

	// ErrClosed indicates the image has been closed.
	ErrClosed = errors.New("image closed")
)

// Checkpointer is a device whose state can be saved and restored.
type Checkpointer interface {
	encoding.BinaryMarshaler
	encoding.BinaryUnmarshaler
}

// Image is a memory mapped checkpoint file.
type Image struct {
	// mu covers mem.
	mu   sync.Mutex
	path string
	mem  []byte
	// Fresh is true if the image was created by Open.
	Fresh bool
}

// Open memory maps the image at path, creating it if necessary.
// An existing image must be exactly size bytes.
func Open(path string, size int) (*Image, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%s: invalid size %d", path, size)
	}
	fresh := false
	file, err := os.OpenFile(path, os.O_RDWR, 0)
	if errors.Is(err, os.ErrNotExist) {
		file, err = os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0644)
		fresh = true
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()
	// a fresh image is removed if it cannot be fully set up
	discard := func(err error) (*Image, error) {
		if fresh {
			os.Remove(path)
		}
		return nil, err
	}
	if fresh {
		if err = unix.Ftruncate(int(file.Fd()), int64(size)); err != nil {
			return discard(err)
		}
	} else {
		fi, err := file.Stat()
		if err != nil {
			return nil, err
		}
		if fi.Size() != int64(size) {
			return nil, fmt.Errorf("%s: %w: got %d bytes, want %d", path, ErrImageSize, fi.Size(), size)
		}
	}
	mem, err := unix.Mmap(
		int(file.Fd()),
		0,
		size,
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_SHARED)
	if err != nil {
		return discard(err)
	}
	return &Image{path: path, mem: mem, Fresh: fresh}, nil
}

// Path returns the path of the image file.
func (i *Image) Path() string {
	return i.path
}

// Size returns the size of the image in bytes.
func (i *Image) Size() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return len(i.mem)
}

// Bytes returns a copy of the image.
func (i *Image) Bytes() []byte {
	i.mu.Lock()
	defer i.mu.Unlock()
	return append([]byte(nil), i.mem...)
}

// Save writes the checkpoint of c into the image.
func (i *Image) Save(c Checkpointer) error {
	data, err := c.MarshalBinary()
	if err != nil {
		return err
	}
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.mem == nil {
		return ErrClosed
	}
	if len(data) != len(i.mem) {
		return fmt.Errorf("%s: %w: got %d bytes, want %d", i.path, ErrImageSize, len(data), len(i.mem))
	}
	copy(i.mem, data)
	return nil
}

// Load restores c from the checkpoint in the image.
func (i *Image) Load(c Checkpointer) error {
	i.mu.Lock()
	if i.mem == nil {
		i.mu.Unlock()
		return ErrClosed
	}
	data := append([]byte(nil), i.mem...)
	i.mu.Unlock()
	return c.UnmarshalBinary(data)
}

// Sync flushes the image to its file.
func (i *Image) Sync() error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.mem == nil {
		return ErrClosed
	}
	return unix.Msync(i.mem, unix.MS_SYNC)
}

// Close unmaps the image.
func (i *Image) Close() error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.mem == nil {
		return nil
	}
	err := unix.Munmap(i.mem)
	i.mem = nil
	return err
}
