package power

import (
	"tanklog-go/errcode"
	"tanklog-go/types"
)

// Buffer is the bounded, insertion-ordered measurement buffer. It is created
// empty at boot, appended to every wake cycle, and drained atomically on
// flush. Only the single control thread touches it.
type Buffer struct {
	capN  int
	items []types.Reading
}

func NewBuffer(capacity int) *Buffer {
	if capacity < 1 {
		capacity = 1
	}
	return &Buffer{capN: capacity, items: make([]types.Reading, 0, capacity)}
}

// Append stores one reading. It fails only when called at capacity without
// an intervening drain, which correct orchestration makes unreachable; the
// error exists as an invariant tripwire, not a normal path.
func (b *Buffer) Append(r types.Reading) error {
	if len(b.items) >= b.capN {
		return errcode.BufferFull
	}
	b.items = append(b.items, r)
	return nil
}

func (b *Buffer) Len() int   { return len(b.items) }
func (b *Buffer) Cap() int   { return b.capN }
func (b *Buffer) Full() bool { return len(b.items) == b.capN }

// Drain returns all buffered readings oldest-first and empties the buffer.
// Draining an empty buffer returns an empty slice and is a no-op. The
// returned slice aliases the buffer's backing array; the caller must finish
// with it before the next append cycle, which the sequential loop guarantees.
func (b *Buffer) Drain() []types.Reading {
	out := b.items
	b.items = b.items[:0]
	return out
}
