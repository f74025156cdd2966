package chunk

import (
	"sort"
	"sync"

	"github.com/five82/reav1/internal/source"
)

// Dispatcher enumerates pending chunks in strictly increasing start order
// for the decode driver, skipping any chunk index present in the initial
// skip set (already-resumed chunks). Unlike the teacher's proximity-based
// picker (which reordered chunks to neighbor already-completed ones for CRF
// prediction), this dispatcher never reorders: §5 requires work packets be
// produced in strictly increasing chunk order, since the decoder itself is
// a single serialized producer that benefits from sequential frame reads.
type Dispatcher struct {
	mu        sync.Mutex
	pending   []source.Chunk
	next      int
	completed map[uint32]bool
}

// NewDispatcher creates a dispatcher over chunks, skipping any chunk whose
// Idx is present in skipIndices.
func NewDispatcher(chunks []source.Chunk, skipIndices map[uint32]bool) *Dispatcher {
	pending := make([]source.Chunk, 0, len(chunks))
	for _, c := range chunks {
		if skipIndices != nil && skipIndices[c.Idx] {
			continue
		}
		pending = append(pending, c)
	}
	sort.Slice(pending, func(i, j int) bool { return pending[i].Start < pending[j].Start })

	return &Dispatcher{pending: pending, completed: make(map[uint32]bool)}
}

// Next returns the next chunk in increasing start order, or false if none
// remain.
func (d *Dispatcher) Next() (source.Chunk, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.next >= len(d.pending) {
		return source.Chunk{}, false
	}
	c := d.pending[d.next]
	d.next++
	return c, true
}

// MarkComplete records a chunk as completed.
func (d *Dispatcher) MarkComplete(idx uint32) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.completed[idx] = true
}

// Remaining returns the count of not-yet-dispatched chunks.
func (d *Dispatcher) Remaining() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending) - d.next
}
