package dashboard

// BufferCapacity is the hard cap on retained log entries. The buffer is the
// only growth-unbounded risk in the model, so overflow evicts from the front.
const BufferCapacity = 100

// Buffer is an append-only, capacity-capped sequence of log entries in
// arrival order. It has value semantics: Append returns a new Buffer and
// never mutates the receiver, so old state snapshots stay valid.
type Buffer struct {
	entries []Entry
}

// Append returns a new Buffer containing the receiver's entries plus e,
// keeping at most the last BufferCapacity entries.
func (b Buffer) Append(e Entry) Buffer {
	// Full slice expression pins capacity so append always copies rather
	// than aliasing the receiver's backing array.
	entries := append(b.entries[:len(b.entries):len(b.entries)], e)
	if len(entries) > BufferCapacity {
		entries = entries[len(entries)-BufferCapacity:]
	}
	return Buffer{entries: entries}
}

// Len reports the number of retained entries.
func (b Buffer) Len() int {
	return len(b.entries)
}

// Entries returns the retained entries in arrival order. Callers must not
// modify the returned slice.
func (b Buffer) Entries() []Entry {
	return b.entries
}

// Tail returns the last n entries in arrival order. If n exceeds the buffer
// length the whole buffer is returned; n <= 0 yields nil.
func (b Buffer) Tail(n int) []Entry {
	if n <= 0 {
		return nil
	}
	if n >= len(b.entries) {
		return b.entries
	}
	return b.entries[len(b.entries)-n:]
}
