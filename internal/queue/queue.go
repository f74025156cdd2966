// Package queue provides the bounded work-packet channel and counting
// semaphore that give the pipeline its backpressure (§4.7), generalizing
// the teacher's hand-rolled internal/worker.Semaphore (a pre-filled
// buffered channel) to golang.org/x/sync/semaphore.Weighted, per this
// module's decision to lean on the ecosystem's concurrency primitives
// rather than reimplement one.
package queue

import (
	"context"

	"golang.org/x/sync/semaphore"

	"github.com/five82/reav1/internal/source"
)

// Queue is a bounded FIFO channel of WorkPacket plus a counting semaphore
// that admits at most worker_count+buffer decoded chunks in flight at a
// time (§4.7).
type Queue struct {
	packets chan source.WorkPacket
	sem     *semaphore.Weighted
}

// New creates a Queue with the given channel capacity and semaphore permit
// count. capacity is typically 0 or worker_count; permits is
// worker_count+buffer (§4.7).
func New(capacity, permits int) *Queue {
	if permits < 1 {
		permits = 1
	}
	return &Queue{
		packets: make(chan source.WorkPacket, capacity),
		sem:     semaphore.NewWeighted(int64(permits)),
	}
}

// Acquire blocks until a semaphore permit is available or ctx is done. The
// decode driver calls this before allocating a chunk's frame buffer.
func (q *Queue) Acquire(ctx context.Context) error {
	return q.sem.Acquire(ctx, 1)
}

// Release returns a permit to the semaphore. A worker calls this after it
// has finished handling a packet, whether the encode succeeded or failed.
func (q *Queue) Release() {
	q.sem.Release(1)
}

// Send enqueues a packet, blocking if the channel is full. Returns false if
// ctx is done before the send completes (§4.6: "if the send fails, stop
// silently").
func (q *Queue) Send(ctx context.Context, p source.WorkPacket) bool {
	select {
	case q.packets <- p:
		return true
	case <-ctx.Done():
		return false
	}
}

// Close closes the packet channel, signaling workers to exit once it is
// drained (§4.8: "decoder closes the channel; workers observe
// channel-closed on empty and exit").
func (q *Queue) Close() {
	close(q.packets)
}

// Receive returns the channel workers range over to pull packets.
func (q *Queue) Receive() <-chan source.WorkPacket {
	return q.packets
}
