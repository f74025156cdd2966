package extract

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/five82/reav1/internal/pack"
	"github.com/five82/reav1/internal/source"
	"github.com/five82/reav1/internal/strategy"
)

// buildFrame8Bit builds a tightly-packed (no padding) 8-bit 4:2:0 frame with
// sequential byte values, useful for verifying exact extraction output.
func buildFrame8Bit(w, h int) source.Frame {
	yLen := w * h
	uvLen := (w / 2) * (h / 2)
	y := make([]byte, yLen)
	u := make([]byte, uvLen)
	v := make([]byte, uvLen)
	for i := range y {
		y[i] = byte(i)
	}
	for i := range u {
		u[i] = byte(i + 1)
		v[i] = byte(i + 2)
	}
	return source.Frame{Y: y, U: u, V: v, YStride: w, UVStride: w / 2, Height: h}
}

func TestExtract8BitFastScenarioA(t *testing.T) {
	// Scenario A: 320x240 8-bit 4:2:0, no crop, no padding.
	const w, h = 320, 240
	frame := buildFrame8Bit(w, h)
	info := source.VideoInfo{Width: w, Height: h, Is10Bit: false}
	sel, err := strategy.Select(info, w, 0, 0)
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if sel.Strategy != strategy.Plain8 {
		t.Fatalf("expected Plain8, got %v", sel.Strategy)
	}

	size := FrameSize(info, sel)
	wantSize := w * h * 3 / 2
	if size != wantSize {
		t.Fatalf("FrameSize = %d, want %d", size, wantSize)
	}

	dst := make([]byte, size)
	n, err := Extract(dst, frame, info, sel)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if n != size {
		t.Fatalf("Extract wrote %d bytes, want %d", n, size)
	}

	wantY := frame.Y
	if !bytes.Equal(dst[:w*h], wantY) {
		t.Error("Y plane mismatch")
	}
}

func TestExtract8BitStrideMatchesContiguous(t *testing.T) {
	// Property 7: for any source frame with stride s >= w*px, the stride
	// extractor output equals the non-stride extractor applied to a
	// tightly-packed copy of the same plane data.
	const w, h = 16, 8
	tight := buildFrame8Bit(w, h)
	info := source.VideoInfo{Width: w, Height: h, Is10Bit: false}

	padded := paddedCopy(tight, w, h, 24)

	selTight, err := strategy.Select(info, w, 0, 0)
	if err != nil {
		t.Fatalf("Select tight: %v", err)
	}
	selPadded, err := strategy.Select(info, 24, 0, 0)
	if err != nil {
		t.Fatalf("Select padded: %v", err)
	}
	if selPadded.Strategy != strategy.Plain8Stride {
		t.Fatalf("expected Plain8Stride, got %v", selPadded.Strategy)
	}

	dstTight := make([]byte, FrameSize(info, selTight))
	dstPadded := make([]byte, FrameSize(info, selPadded))

	if _, err := Extract(dstTight, tight, info, selTight); err != nil {
		t.Fatalf("Extract tight: %v", err)
	}
	if _, err := Extract(dstPadded, padded, info, selPadded); err != nil {
		t.Fatalf("Extract padded: %v", err)
	}

	if !bytes.Equal(dstTight, dstPadded) {
		t.Error("stride extractor output diverged from tight-copy output")
	}
}

// paddedCopy re-lays-out a tight frame's planes onto stride-padded rows.
func paddedCopy(f source.Frame, w, h, stride int) source.Frame {
	uvStride := stride / 2
	y := make([]byte, stride*h)
	u := make([]byte, uvStride*(h/2))
	v := make([]byte, uvStride*(h/2))

	for r := 0; r < h; r++ {
		copy(y[r*stride:r*stride+w], f.Y[r*w:r*w+w])
	}
	for r := 0; r < h/2; r++ {
		copy(u[r*uvStride:r*uvStride+w/2], f.U[r*(w/2):r*(w/2)+w/2])
		copy(v[r*uvStride:r*uvStride+w/2], f.V[r*(w/2):r*(w/2)+w/2])
	}

	return source.Frame{Y: y, U: u, V: v, YStride: stride, UVStride: uvStride, Height: h}
}

// build10BitFrame builds a tightly-packed 10-bit (16-bit-per-sample) frame
// with deterministic sample values.
func build10BitFrame(w, h int) source.Frame {
	yLen := w * h
	uvLen := (w / 2) * (h / 2)
	y := make([]byte, yLen*2)
	u := make([]byte, uvLen*2)
	v := make([]byte, uvLen*2)
	for i := 0; i < yLen; i++ {
		binary.LittleEndian.PutUint16(y[i*2:], uint16(i%1024))
	}
	for i := 0; i < uvLen; i++ {
		binary.LittleEndian.PutUint16(u[i*2:], uint16((i+1)%1024))
		binary.LittleEndian.PutUint16(v[i*2:], uint16((i+2)%1024))
	}
	return source.Frame{Y: y, U: u, V: v, YStride: w * 2, UVStride: (w / 2) * 2, Height: h}
}

func TestExtract10BitRemainderScenarioC(t *testing.T) {
	// Scenario C: a 1366x768 10-bit luma row's packed length is constant.
	const w, h = 1366, 768
	frame := build10BitFrame(w, h)
	info := source.VideoInfo{Width: w, Height: h, Is10Bit: true}
	sel, err := strategy.Select(info, w*2, 0, 0)
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if sel.Strategy != strategy.Plain10Rem {
		t.Fatalf("expected Plain10Rem, got %v", sel.Strategy)
	}

	size := FrameSize(info, sel)
	dst := make([]byte, size)
	n, err := Extract(dst, frame, info, sel)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if n != size {
		t.Fatalf("Extract wrote %d, want %d", n, size)
	}

	// Invariant 2: packed_row_size(w)*h + 2*packed_row_size(w/2)*(h/2)
	// equals the packed-frame length.
	want := pack.PackedRowSize(w)*h + 2*pack.PackedRowSize(w/2)*(h/2)
	if size != want {
		t.Errorf("packed frame size = %d, want %d", size, want)
	}
}

func TestExtract10BitRoundTripsFirstRow(t *testing.T) {
	const w, h = 8, 4
	frame := build10BitFrame(w, h)
	info := source.VideoInfo{Width: w, Height: h, Is10Bit: true}
	sel, err := strategy.Select(info, w*2, 0, 0)
	if err != nil {
		t.Fatalf("Select: %v", err)
	}

	dst := make([]byte, FrameSize(info, sel))
	if _, err := Extract(dst, frame, info, sel); err != nil {
		t.Fatalf("Extract: %v", err)
	}

	rowSize := pack.PackedRowSize(w)
	unpacked := make([]byte, w*2)
	pack.UnpackRow(unpacked, dst[:rowSize], w)

	if !bytes.Equal(unpacked, frame.Y[:w*2]) {
		t.Errorf("round-tripped first row = %v, want %v", unpacked, frame.Y[:w*2])
	}
}

func TestExtractCropEvenDimensions(t *testing.T) {
	const w, h = 320, 240
	frame := buildFrame8Bit(w, h)
	info := source.VideoInfo{Width: w, Height: h, Is10Bit: false}
	sel, err := strategy.Select(info, w, 4, 8)
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if sel.Strategy != strategy.Crop8 {
		t.Fatalf("expected Crop8, got %v", sel.Strategy)
	}

	size := FrameSize(info, sel)
	wantSize := Size8Bit(sel.Crop.NewW, sel.Crop.NewH)
	if size != wantSize {
		t.Errorf("FrameSize = %d, want %d", size, wantSize)
	}

	dst := make([]byte, size)
	if _, err := Extract(dst, frame, info, sel); err != nil {
		t.Fatalf("Extract: %v", err)
	}
}
