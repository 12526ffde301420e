package diag

// Buffer collects diagnostics from parallel tasks without locking.
// Task i writes only to Slot(i); Flush forwards all slots to the parent in
// task order, so the output does not depend on scheduling.
type Buffer struct {
	parent Sink
	slots  []slot
}

type slot struct {
	entries []Entry
}

// Emit implements Sink for one task's slot
func (s *slot) Emit(e Entry) {
	s.entries = append(s.entries, e)
}

// NewBuffer creates a buffer with one slot per task
func NewBuffer(parent Sink, tasks int) *Buffer {
	return &Buffer{parent: parent, slots: make([]slot, tasks)}
}

// Slot returns the sink owned by task i
func (b *Buffer) Slot(i int) Sink {
	return &b.slots[i]
}

// Len returns the total number of buffered entries
func (b *Buffer) Len() int {
	n := 0
	for i := range b.slots {
		n += len(b.slots[i].entries)
	}
	return n
}

// Flush forwards buffered entries to the parent in slot order and empties
// the buffer. It must not run concurrently with writers.
func (b *Buffer) Flush() {
	for i := range b.slots {
		if b.parent != nil {
			for _, e := range b.slots[i].entries {
				b.parent.Emit(e)
			}
		}
		b.slots[i].entries = nil
	}
}
