package decode

import (
	"context"
	"testing"

	"github.com/five82/reav1/internal/queue"
	"github.com/five82/reav1/internal/source"
	"github.com/five82/reav1/internal/strategy"
)

type fakeDecoder struct {
	width, height int
	is10Bit       bool
}

func (f *fakeDecoder) GetFrame(frameIdx int) (source.Frame, error) {
	ySize := f.width * f.height
	uvW, uvH := f.width/2, f.height/2
	y := make([]byte, ySize)
	u := make([]byte, uvW*uvH)
	v := make([]byte, uvW*uvH)
	for i := range y {
		y[i] = byte(frameIdx + i)
	}
	return source.Frame{Y: y, U: u, V: v, YStride: f.width, UVStride: uvW, Height: f.height}, nil
}

func (f *fakeDecoder) Close() error { return nil }

func sequentialDispatch(chunks []source.Chunk) func() (source.Chunk, bool) {
	i := 0
	return func() (source.Chunk, bool) {
		if i >= len(chunks) {
			return source.Chunk{}, false
		}
		c := chunks[i]
		i++
		return c, true
	}
}

func TestDriverProducesExpectedPacketSizes(t *testing.T) {
	info := source.VideoInfo{Width: 16, Height: 8, FPSNum: 24, FPSDen: 1, TotalFrames: 6}
	dec := &fakeDecoder{width: 16, height: 8}
	sel, err := strategy.Select(info, 16, 0, 0)
	if err != nil {
		t.Fatalf("Select: %v", err)
	}

	q := queue.New(4, 4)
	d := New(dec, info, sel, q, nil)

	chunks := []source.Chunk{{Idx: 0, Start: 0, End: 3}, {Idx: 1, Start: 3, End: 6}}
	ctx := context.Background()

	done := make(chan error, 1)
	go func() {
		done <- d.Run(ctx, sequentialDispatch(chunks))
		q.Close()
	}()

	var packets []source.WorkPacket
	for p := range q.Receive() {
		packets = append(packets, p)
		q.Release()
	}
	if err := <-done; err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(packets) != 2 {
		t.Fatalf("got %d packets, want 2", len(packets))
	}
	frameSize := 16*8 + 2*(8*4)
	for i, p := range packets {
		if p.Chunk.Idx != uint32(i) {
			t.Errorf("packet %d has chunk idx %d", i, p.Chunk.Idx)
		}
		if p.FrameCount != 3 {
			t.Errorf("packet %d frame count = %d, want 3", i, p.FrameCount)
		}
		if len(p.Frames) != frameSize*3 {
			t.Errorf("packet %d buffer len = %d, want %d", i, len(p.Frames), frameSize*3)
		}
	}
}

func TestDriverStopsOnCancelledContext(t *testing.T) {
	info := source.VideoInfo{Width: 16, Height: 8, FPSNum: 24, FPSDen: 1, TotalFrames: 3}
	dec := &fakeDecoder{width: 16, height: 8}
	sel, err := strategy.Select(info, 16, 0, 0)
	if err != nil {
		t.Fatalf("Select: %v", err)
	}

	q := queue.New(0, 1)
	d := New(dec, info, sel, q, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	chunks := []source.Chunk{{Idx: 0, Start: 0, End: 3}}
	if err := d.Run(ctx, sequentialDispatch(chunks)); err != nil {
		t.Fatalf("Run with cancelled context should return nil, got %v", err)
	}
}
