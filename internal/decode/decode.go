// Package decode implements the decode driver: the single producer that
// turns chunks into WorkPackets via the selected extraction strategy,
// generalizing the teacher's decodeChunk goroutine in
// internal/encode/encode.go (§4.6).
package decode

import (
	"context"

	"github.com/five82/reav1/internal/errors"
	"github.com/five82/reav1/internal/extract"
	"github.com/five82/reav1/internal/queue"
	"github.com/five82/reav1/internal/source"
	"github.com/five82/reav1/internal/strategy"
)

// Driver produces work packets for a set of chunks using a single decoder
// instance. The producer is single-threaded by design: the underlying
// decoder is serialized, and batched sequential frame reads maximize
// decoder cache reuse (§4.6).
type Driver struct {
	decoder  source.Decoder
	info     source.VideoInfo
	sel      strategy.Selection
	q        *queue.Queue
	onChunk  func(chunkIdx uint32)
}

// New creates a decode driver over an already-opened decoder, the source's
// video info, and the previously-selected strategy. onChunk, if non-nil,
// is invoked just before a chunk's frames begin decoding (for logging).
func New(decoder source.Decoder, info source.VideoInfo, sel strategy.Selection, q *queue.Queue, onChunk func(chunkIdx uint32)) *Driver {
	return &Driver{decoder: decoder, info: info, sel: sel, q: q, onChunk: onChunk}
}

// Run iterates chunks in the order dispatch yields them, decoding and
// packing each chunk's frames into a single frame_count*frame_size buffer,
// then sending a WorkPacket on the queue. It stops silently, returning nil,
// when ctx is cancelled while it waits for a permit or for the send (§4.6).
func (d *Driver) Run(ctx context.Context, dispatch func() (source.Chunk, bool)) error {
	frameSize := extract.FrameSize(d.info, d.sel)
	yW, yH, _, _ := extract.PlaneDims(d.info, d.sel.Crop)

	for {
		ch, ok := dispatch()
		if !ok {
			return nil
		}

		if err := d.q.Acquire(ctx); err != nil {
			return nil
		}

		if d.onChunk != nil {
			d.onChunk(ch.Idx)
		}

		frameCount := ch.Len()
		buf := make([]byte, int(frameCount)*frameSize)

		for i := uint32(0); i < frameCount; i++ {
			frameIdx := int(ch.Start + i)
			frame, err := d.decoder.GetFrame(frameIdx)
			if err != nil {
				return errors.NewFrameFetchError(frameIdx, err)
			}

			dst := buf[int(i)*frameSize : int(i+1)*frameSize]
			if _, err := extract.Extract(dst, frame, d.info, d.sel); err != nil {
				return errors.NewFrameFetchError(frameIdx, err)
			}
		}

		packet := source.WorkPacket{
			Chunk:      ch,
			Frames:     buf,
			FrameCount: frameCount,
			Width:      yW,
			Height:     yH,
		}

		if !d.q.Send(ctx, packet) {
			return nil
		}
	}
}
