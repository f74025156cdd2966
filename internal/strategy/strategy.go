// Package strategy classifies a source's frame layout and picks the decode
// strategy used by internal/extract, generalizing the teacher's
// internal/ffms.GetDecodeStrat from a 4-member to the full 15-member
// cross product of {bit-depth} x {crop/no-crop} x {padding/no-padding} x
// {row-remainder, 10-bit only} (§4.5).
package strategy

import (
	"github.com/five82/reav1/internal/source"
)

// Strategy tags one of the fifteen decode variants (§3, §4.5).
type Strategy int

const (
	Plain8 Strategy = iota
	Plain8Stride
	Crop8Fast
	Crop8
	Crop8Stride
	Plain10
	Plain10Rem
	Plain10Stride
	Plain10StrideRem
	Crop10Fast
	Crop10FastRem
	Crop10
	Crop10Rem
	Crop10Stride
	Crop10StrideRem
)

func (s Strategy) String() string {
	switch s {
	case Plain8:
		return "Plain8"
	case Plain8Stride:
		return "Plain8Stride"
	case Crop8Fast:
		return "Crop8Fast"
	case Crop8:
		return "Crop8"
	case Crop8Stride:
		return "Crop8Stride"
	case Plain10:
		return "Plain10"
	case Plain10Rem:
		return "Plain10Rem"
	case Plain10Stride:
		return "Plain10Stride"
	case Plain10StrideRem:
		return "Plain10StrideRem"
	case Crop10Fast:
		return "Crop10Fast"
	case Crop10FastRem:
		return "Crop10FastRem"
	case Crop10:
		return "Crop10"
	case Crop10Rem:
		return "Crop10Rem"
	case Crop10Stride:
		return "Crop10Stride"
	case Crop10StrideRem:
		return "Crop10StrideRem"
	default:
		return "unknown"
	}
}

// Selection is the result of Select: the chosen strategy tag plus the
// CropCalc it captures by value, if any (§4.5 "the selector returns a
// strategy tag that captures any precomputed CropCalc by value").
type Selection struct {
	Strategy Strategy
	Crop     *source.CropCalc
}

// Select classifies the source layout and picks a decode strategy.
// linesize0 is the decoder-reported luma row stride in bytes for frame 0,
// used to determine has_padding (§4.5: "fetches frame 0 solely to read
// linesize[0]"). cropV/cropH are the even-aligned crop amounts; (0,0) means
// no crop. Returns an error if cropV/cropH describe invalid crop dimensions
// (§7 BadCropDims).
func Select(info source.VideoInfo, linesize0 int, cropV, cropH uint32) (Selection, error) {
	pixelBytes := info.PixelBytes()
	hasPadding := linesize0 != int(info.Width)*pixelBytes
	hasCrop := cropV != 0 || cropH != 0
	hCrop := cropH != 0

	finalW := info.Width
	if hasCrop {
		finalW = info.Width - 2*cropH
	}
	hasRem := info.Is10Bit && finalW%8 != 0

	var crop *source.CropCalc
	if hasCrop {
		cc, err := source.NewCropCalc(info.Width, info.Height, pixelBytes, cropV, cropH)
		if err != nil {
			return Selection{}, err
		}
		crop = &cc
	}

	return Selection{Strategy: selectTag(info.Is10Bit, hasCrop, hasPadding, hCrop, hasRem), Crop: crop}, nil
}

func selectTag(is10Bit, hasCrop, hasPadding, hCrop, hasRem bool) Strategy {
	if !is10Bit {
		switch {
		case !hasCrop && !hasPadding:
			return Plain8
		case !hasCrop && hasPadding:
			return Plain8Stride
		case hasCrop && !hasPadding && !hCrop:
			return Crop8Fast
		case hasCrop && !hasPadding && hCrop:
			return Crop8
		case hasCrop && hasPadding:
			return Crop8Stride
		}
	}

	switch {
	case !hasCrop && !hasPadding:
		if hasRem {
			return Plain10Rem
		}
		return Plain10
	case !hasCrop && hasPadding:
		if hasRem {
			return Plain10StrideRem
		}
		return Plain10Stride
	case hasCrop && !hasPadding && !hCrop:
		if hasRem {
			return Crop10FastRem
		}
		return Crop10Fast
	case hasCrop && !hasPadding && hCrop:
		if hasRem {
			return Crop10Rem
		}
		return Crop10
	case hasCrop && hasPadding:
		if hasRem {
			return Crop10StrideRem
		}
		return Crop10Stride
	}

	// unreachable: the two switches above are exhaustive over is10Bit.
	return Plain8
}

// Is10Bit reports whether a strategy belongs to the 10-bit family.
func (s Strategy) Is10Bit() bool {
	return s >= Plain10
}

// HasCrop reports whether a strategy requires a CropCalc.
func (s Strategy) HasCrop() bool {
	switch s {
	case Crop8Fast, Crop8, Crop8Stride,
		Crop10Fast, Crop10FastRem, Crop10, Crop10Rem, Crop10Stride, Crop10StrideRem:
		return true
	default:
		return false
	}
}

// HasPadding reports whether a strategy uses the stride-aware copy path.
func (s Strategy) HasPadding() bool {
	switch s {
	case Plain8Stride, Crop8Stride, Plain10Stride, Plain10StrideRem, Crop10Stride, Crop10StrideRem:
		return true
	default:
		return false
	}
}

// HasRemainder reports whether a strategy packs a trailing partial group
// (only possible for 10-bit strategies with a non-multiple-of-8 row width).
func (s Strategy) HasRemainder() bool {
	switch s {
	case Plain10Rem, Plain10StrideRem, Crop10FastRem, Crop10Rem, Crop10StrideRem:
		return true
	default:
		return false
	}
}
