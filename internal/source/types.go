// Package source defines the data model and external-collaborator contracts
// the decode/encode pipeline depends on: the source demuxer/decoder, scene
// detection, the AV1 encoder child process, and audio muxing. These are
// modeled as interfaces only; concrete implementations live outside this
// package. The one in-module implementation is internal/scd's scene
// detector; the others live outside this module (§1, §4.10).
package source

import "github.com/five82/reav1/internal/errors"

// VideoInfo describes the properties of a source video, read once after
// probing and treated as immutable thereafter (§3).
type VideoInfo struct {
	Width, Height   uint32
	FPSNum, FPSDen  uint32
	TotalFrames     uint64
	Is10Bit         bool
	ColorPrimaries  *int32
	Transfer        *int32
	Matrix          *int32
	Range           *int32
	ChromaLocation  *int32
	MasteringDisplay *string
	ContentLight     *string
}

// PixelBytes returns the per-sample byte width the pipeline uses for this
// source: 1 for 8-bit, 2 for 10-bit (stored as little-endian 16-bit samples).
func (v VideoInfo) PixelBytes() int {
	if v.Is10Bit {
		return 2
	}
	return 1
}

// FPSRounded returns fps_num/fps_den rounded to the nearest integer, with a
// floor of 1 to avoid degenerate zero-length scene bounds.
func (v VideoInfo) FPSRounded() uint32 {
	if v.FPSDen == 0 {
		return 1
	}
	r := (v.FPSNum + v.FPSDen/2) / v.FPSDen
	if r == 0 {
		return 1
	}
	return r
}

// FrameLayout classifies whether the decoder's luma-plane row stride exceeds
// width*pixel_size (§3). Determines whether stride-aware copy paths are
// needed.
type FrameLayout struct {
	HasPadding bool
}

// CropRect is a raw per-frame crop detection before even-alignment
// aggregation (§3, §4.3).
type CropRect struct {
	Top, Bottom, Left, Right uint32
}

// ToTuple derives the symmetric, even-aligned (vertical, horizontal) crop
// amounts from the four-sided rectangle: vertical = min(top,bottom) & ~1,
// horizontal = min(left,right) & ~1.
func (r CropRect) ToTuple() (vertical, horizontal uint32) {
	v := r.Top
	if r.Bottom < v {
		v = r.Bottom
	}
	h := r.Left
	if r.Right < h {
		h = r.Right
	}
	return v &^ 1, h &^ 1
}

// CropCalc holds precomputed per-chunk plane offsets and lengths for a given
// crop amount, derived from a VideoInfo (§3).
type CropCalc struct {
	NewW, NewH       uint32
	YStride, UVStride int
	YStart, UVOff     int
	YLen, UVLen       int
	CropV, CropH      uint32
}

// NewCropCalc computes a CropCalc for the given source dimensions, pixel
// width, and even crop amounts. It returns a BadCropDims error if the
// resulting dimensions are not both positive and even, matching the
// invariant in §3 ("new_w + 2*crop_h = width, new_h + 2*crop_v = height,
// both new dimensions even").
func NewCropCalc(width, height uint32, pixelBytes int, cropV, cropH uint32) (CropCalc, error) {
	if 2*uint64(cropH) >= uint64(width) || 2*uint64(cropV) >= uint64(height) {
		return CropCalc{}, errors.NewBadCropDimsError("invalid crop dimensions")
	}
	newW := width - 2*cropH
	newH := height - 2*cropV
	if newW%2 != 0 || newH%2 != 0 {
		return CropCalc{}, errors.NewBadCropDimsError("invalid crop dimensions")
	}

	yStride := int(width) * pixelBytes
	uvStride := yStride / 2

	return CropCalc{
		NewW:     newW,
		NewH:     newH,
		YStride:  yStride,
		UVStride: uvStride,
		YStart:   int(cropV)*yStride + int(cropH)*pixelBytes,
		UVOff:    int(cropV/2)*uvStride + int(cropH/2)*pixelBytes,
		YLen:     int(newW) * pixelBytes,
		UVLen:    int(newW/2) * pixelBytes,
		CropV:    cropV,
		CropH:    cropH,
	}, nil
}

// Scene is a contiguous, half-open frame range (§3). Invariant:
// 0 <= Start < End <= total_frames.
type Scene struct {
	Start, End uint32
}

// Chunk is a Scene with a stable dense index used for output file naming and
// resume lookup (§3).
type Chunk struct {
	Idx        uint32
	Start, End uint32
}

// Len returns the number of frames in the chunk.
func (c Chunk) Len() uint32 {
	return c.End - c.Start
}

// WorkPacket is one chunk's worth of tightly-packed frames, produced once by
// the decode driver and consumed exactly once by a worker (§3).
type WorkPacket struct {
	Chunk       Chunk
	Frames      []byte
	FrameCount  uint32
	Width       uint32
	Height      uint32
}

// FrameSize returns len(Frames)/FrameCount, the per-frame byte stride within
// the packed buffer.
func (p WorkPacket) FrameSize() int {
	if p.FrameCount == 0 {
		return 0
	}
	return len(p.Frames) / int(p.FrameCount)
}

// ChunkComplete is one durable resume record: a chunk whose encoder produced
// output that was flushed to disk (§3, §6).
type ChunkComplete struct {
	ChunkIdx   uint32
	FrameCount uint32
	ByteSize   uint64
}
