package game

import "github.com/hvj78/3dsnake/geometry"

// InputBuffer holds one player's not-yet-consumed direction commands keyed
// by the tick they are meant for. Commands may arrive out of order and
// several ticks ahead of the simulation; the latest write for a tick wins.
// Entries for ticks the simulation has already advanced past are dropped
// without effect. The buffer is not safe for concurrent use; the owning
// room serializes access.
type InputBuffer struct {
	cmds     map[int64]geometry.Dir
	consumed int64
	window   int64
}

// NewInputBuffer returns an empty buffer accepting commands up to window
// ticks ahead of the last consumed tick.
func NewInputBuffer(window int64) *InputBuffer {
	return &InputBuffer{
		cmds:     make(map[int64]geometry.Dir),
		consumed: -1,
		window:   window,
	}
}

// Put records a command for tick. Stale ticks (already consumed), ticks
// beyond the window, and invalid directions are ignored; Put reports
// whether the command was stored.
func (b *InputBuffer) Put(tick int64, dir geometry.Dir) bool {
	if !dir.Valid() {
		return false
	}
	if tick <= b.consumed || tick > b.consumed+1+b.window {
		return false
	}
	b.cmds[tick] = dir
	return true
}

// Take pops the command for exactly tick, if any, and discards every entry
// at or before it. Late entries that were skipped are never replayed.
func (b *InputBuffer) Take(tick int64) (geometry.Dir, bool) {
	dir, ok := b.cmds[tick]
	for t := range b.cmds {
		if t <= tick {
			delete(b.cmds, t)
		}
	}
	if tick > b.consumed {
		b.consumed = tick
	}
	return dir, ok
}

// LastConsumed returns the highest tick Take has been called for, -1 before
// the first tick. This is what the room acknowledges to the client.
func (b *InputBuffer) LastConsumed() int64 {
	return b.consumed
}

// Reset clears the buffer for a new round.
func (b *InputBuffer) Reset() {
	b.cmds = make(map[int64]geometry.Dir)
	b.consumed = -1
}

// Len returns the number of buffered commands.
func (b *InputBuffer) Len() int {
	return len(b.cmds)
}
