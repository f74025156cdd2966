// Package extract copies a decoder-provided frame into a compact caller
// buffer under a chosen strategy, generalizing the teacher's
// internal/ffms.ExtractFrame/copyPlane10bit/copyPlaneCropped family from a
// single always-10-bit fast path to the full 15-strategy table of §4.2.
//
// 8-bit strategies copy bytes verbatim (no bit-depth widening — that is
// deferred to the worker pool's stdin feed per §4.8). 10-bit strategies pack
// each row on the fly via internal/pack.
package extract

import (
	"fmt"

	"github.com/five82/reav1/internal/pack"
	"github.com/five82/reav1/internal/source"
	"github.com/five82/reav1/internal/strategy"
)

// PlaneDims returns the luma and chroma plane dimensions used by the
// extractor for the given source info and optional crop.
func PlaneDims(info source.VideoInfo, crop *source.CropCalc) (yW, yH, uvW, uvH uint32) {
	if crop != nil {
		return crop.NewW, crop.NewH, crop.NewW / 2, crop.NewH / 2
	}
	return info.Width, info.Height, info.Width / 2, info.Height / 2
}

// Size8Bit returns the byte length of an unpacked planar 4:2:0 8-bit frame
// of the given luma dimensions.
func Size8Bit(yW, yH uint32) int {
	return int(yW) * int(yH) * 3 / 2
}

// Size10BitPacked returns the byte length of a packed planar 4:2:0 10-bit
// frame of the given luma dimensions (§4.1: Y-then-U-then-V, each plane
// packed_row_size(plane_w) * plane_h bytes).
func Size10BitPacked(yW, yH uint32) int {
	uvW, uvH := yW/2, yH/2
	return pack.PackedRowSize(int(yW))*int(yH) + 2*pack.PackedRowSize(int(uvW))*int(uvH)
}

// FrameSize returns the destination buffer size for one frame under the
// given strategy selection.
func FrameSize(info source.VideoInfo, sel strategy.Selection) int {
	yW, yH, _, _ := PlaneDims(info, sel.Crop)
	if sel.Strategy.Is10Bit() {
		return Size10BitPacked(yW, yH)
	}
	return Size8Bit(yW, yH)
}

// Extract copies one decoded frame into dst under the given strategy
// selection, returning the number of bytes written. dst must be at least
// FrameSize(info, sel) bytes.
func Extract(dst []byte, frame source.Frame, info source.VideoInfo, sel strategy.Selection) (int, error) {
	if sel.Strategy.HasCrop() && sel.Crop == nil {
		return 0, fmt.Errorf("extract: strategy %s requires a CropCalc", sel.Strategy)
	}

	if sel.Strategy.Is10Bit() {
		return extract10Bit(dst, frame, info, sel)
	}
	return extract8Bit(dst, frame, info, sel)
}

// extract8Bit dispatches among the five 8-bit strategies. None of them
// widen samples; they copy source bytes verbatim, optionally cropped.
func extract8Bit(dst []byte, frame source.Frame, info source.VideoInfo, sel strategy.Selection) (int, error) {
	switch sel.Strategy {
	case strategy.Plain8:
		return extract8BitFast(dst, frame, info)
	case strategy.Plain8Stride:
		return extract8BitStride(dst, frame, info)
	case strategy.Crop8Fast:
		return extract8BitCropFast(dst, frame, *sel.Crop)
	case strategy.Crop8:
		return extract8BitCrop(dst, frame, *sel.Crop)
	case strategy.Crop8Stride:
		return extract8BitCrop(dst, frame, *sel.Crop)
	default:
		return 0, fmt.Errorf("extract: strategy %s is not an 8-bit strategy", sel.Strategy)
	}
}

// extract8BitFast copies three full planes with a single memcpy each,
// requiring no padding and no crop (§4.2 extract_8bit_fast).
func extract8BitFast(dst []byte, frame source.Frame, info source.VideoInfo) (int, error) {
	yW, yH := info.Width, info.Height
	uvW, uvH := yW/2, yH/2

	off := 0
	off += copy(dst[off:], frame.Y[:int(yW)*int(yH)])
	off += copy(dst[off:], frame.U[:int(uvW)*int(uvH)])
	off += copy(dst[off:], frame.V[:int(uvW)*int(uvH)])
	return off, nil
}

// extract8BitStride copies per-row when the source has stride padding
// (§4.2 extract_8bit_stride).
func extract8BitStride(dst []byte, frame source.Frame, info source.VideoInfo) (int, error) {
	yW, yH := int(info.Width), int(info.Height)
	uvW, uvH := yW/2, yH/2

	off := 0
	off += copyRows(dst[off:], frame.Y, 0, yH, yW, frame.YStride)
	off += copyRows(dst[off:], frame.U, 0, uvH, uvW, frame.UVStride)
	off += copyRows(dst[off:], frame.V, 0, uvH, uvW, frame.UVStride)
	return off, nil
}

// extract8BitCropFast copies crop without padding: three contiguous memcpys
// starting at cc.YStart/cc.UVOff (§4.2 extract_8bit_crop_fast). Valid only
// when there is no horizontal crop, so each cropped row abuts the next.
func extract8BitCropFast(dst []byte, frame source.Frame, cc source.CropCalc) (int, error) {
	ySize := cc.YLen * int(cc.NewH)
	uvSize := cc.UVLen * int(cc.NewH/2)

	off := 0
	off += copy(dst[off:], frame.Y[cc.YStart:cc.YStart+ySize])
	off += copy(dst[off:], frame.U[cc.UVOff:cc.UVOff+uvSize])
	off += copy(dst[off:], frame.V[cc.UVOff:cc.UVOff+uvSize])
	return off, nil
}

// extract8BitCrop copies crop with arbitrary horizontal crop (and/or source
// padding) via per-row memcpy of cc.YLen/cc.UVLen bytes (§4.2
// extract_8bit_crop, extract_8bit_crop_stride — the universal crop copier
// serves both since the start offsets and row steps use the frame's real
// plane strides, which already reflect any padding).
func extract8BitCrop(dst []byte, frame source.Frame, cc source.CropCalc) (int, error) {
	yStart := int(cc.CropV)*frame.YStride + int(cc.CropH)
	uvOff := int(cc.CropV/2)*frame.UVStride + int(cc.CropH/2)

	off := 0
	off += copyRows(dst[off:], frame.Y, yStart, int(cc.NewH), cc.YLen, frame.YStride)
	off += copyRows(dst[off:], frame.U, uvOff, int(cc.NewH/2), cc.UVLen, frame.UVStride)
	off += copyRows(dst[off:], frame.V, uvOff, int(cc.NewH/2), cc.UVLen, frame.UVStride)
	return off, nil
}

// copyRows copies `rows` rows of `rowBytes` bytes each from src (starting at
// startOffset, advancing by srcStride per row) into dst, returning the
// number of bytes written.
func copyRows(dst, src []byte, startOffset, rows, rowBytes, srcStride int) int {
	off := 0
	srcOff := startOffset
	for r := 0; r < rows; r++ {
		off += copy(dst[off:off+rowBytes], src[srcOff:srcOff+rowBytes])
		srcOff += srcStride
	}
	return off
}

// extract10Bit dispatches among the ten 10-bit strategies, each packing
// every row on the fly (§4.2 "ten 10-bit variants that compose the cross
// product above and additionally pack on the fly").
func extract10Bit(dst []byte, frame source.Frame, info source.VideoInfo, sel strategy.Selection) (int, error) {
	switch sel.Strategy {
	case strategy.Plain10, strategy.Plain10Rem:
		return packPlanes(dst, frame, int(info.Width), int(info.Height), 0, 0, frame.YStride, frame.UVStride)
	case strategy.Plain10Stride, strategy.Plain10StrideRem:
		return packPlanes(dst, frame, int(info.Width), int(info.Height), 0, 0, frame.YStride, frame.UVStride)
	case strategy.Crop10Fast, strategy.Crop10FastRem:
		cc := *sel.Crop
		return packPlanes(dst, frame, int(cc.NewW), int(cc.NewH), cc.YStart, cc.UVOff, frame.YStride, frame.UVStride)
	case strategy.Crop10, strategy.Crop10Rem, strategy.Crop10Stride, strategy.Crop10StrideRem:
		cc := *sel.Crop
		yStart := int(cc.CropV)*frame.YStride + int(cc.CropH)*2
		uvOff := int(cc.CropV/2)*frame.UVStride + int(cc.CropH/2)*2
		return packPlanes(dst, frame, int(cc.NewW), int(cc.NewH), yStart, uvOff, frame.YStride, frame.UVStride)
	default:
		return 0, fmt.Errorf("extract: strategy %s is not a 10-bit strategy", sel.Strategy)
	}
}

// packPlanes packs the Y, U, V planes of one frame row by row, using
// internal/pack.PackRow for each row (which itself handles the
// non-multiple-of-8 remainder padding per row, so no separate *Rem codepath
// is needed here — the row packer already is the remainder variant when
// the row width demands it).
func packPlanes(dst []byte, frame source.Frame, yW, yH, yStart, uvOff, yStride, uvStride int) (int, error) {
	uvW, uvH := yW/2, yH/2

	off := 0
	off += packRows(dst[off:], frame.Y, yStart, yH, yW, yStride)
	off += packRows(dst[off:], frame.U, uvOff, uvH, uvW, uvStride)
	off += packRows(dst[off:], frame.V, uvOff, uvH, uvW, uvStride)
	return off, nil
}

// packRows packs `rows` rows of `w` 10-bit samples each from src (starting
// at startOffset, advancing by srcStride bytes per row) into dst.
func packRows(dst, src []byte, startOffset, rows, w, srcStride int) int {
	rowSize := pack.PackedRowSize(w)
	off := 0
	srcOff := startOffset
	rawRowBytes := w * 2
	for r := 0; r < rows; r++ {
		pack.PackRow(dst[off:off+rowSize], src[srcOff:srcOff+rawRowBytes], w)
		off += rowSize
		srcOff += srcStride
	}
	return off
}
