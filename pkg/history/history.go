// Package history maintains the sequencer-local trade-history log: a
// time-ordered record of executed trades built from the settlement
// engine's event stream. It is explicitly not part of kernel-replica
// determinism and is never read back into settlement decisions — it
// exists only to serve the RPC surface's get_history query, so it lives
// in memory rather than behind the store.Store façade that mirrors the
// rollup host's durable, replicated state.
package history

import "sync"

// Entry is one recorded trade. Conceptually keyed
// "tradez/history/<20-digit-zero-padded-ms>/<seq>" for lexicographic
// ordering; in this in-memory implementation that ordering falls out of
// append order directly.
type Entry struct {
	TimestampMs uint64
	Price       uint64
	Qty         uint64
	Side        uint8
}

// Log is a bounded, append-only ring of recent trade entries.
type Log struct {
	mu      sync.Mutex
	entries []Entry
	cap     int
	seq     uint64
}

// NewLog returns a Log that retains at most capacity entries, dropping the
// oldest once full.
func NewLog(capacity int) *Log {
	if capacity <= 0 {
		capacity = 1
	}
	return &Log{cap: capacity}
}

// Append records one trade at timestampMs and returns its sequence number:
// a counter over every Append on this Log, not reset per millisecond.
func (l *Log) Append(timestampMs uint64, price, qty uint64, side uint8) uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.seq++
	l.entries = append(l.entries, Entry{TimestampMs: timestampMs, Price: price, Qty: qty, Side: side})
	if len(l.entries) > l.cap {
		l.entries = l.entries[len(l.entries)-l.cap:]
	}
	return l.seq
}

// Recent returns up to limit of the most recently appended entries, oldest
// first. limit<=0 returns everything retained.
func (l *Log) Recent(limit int) []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	if limit <= 0 || limit > len(l.entries) {
		limit = len(l.entries)
	}
	out := make([]Entry, limit)
	copy(out, l.entries[len(l.entries)-limit:])
	return out
}
