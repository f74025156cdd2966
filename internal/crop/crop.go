// Package crop auto-detects a luma crop rectangle by sampling frames across
// a source video (§4.3). It replaces the teacher's ffmpeg-cropdetect
// shell-out (internal/processing/crop.go) with an in-process luma-plane
// analysis, since this specification treats the decoder as an in-process
// collaborator rather than a subprocess — but keeps the teacher's
// bounded-goroutine sampling-concurrency shape.
package crop

import (
	"golang.org/x/sync/errgroup"

	"github.com/five82/reav1/internal/source"
)

// sampleConcurrency bounds how many frame samples are analyzed in parallel,
// matching the teacher's cropDetectionConcurrency pattern.
const sampleConcurrency = 8

// thresholds holds the dark/variance/clamp parameters for one bit depth
// (§4.3).
type thresholds struct {
	dark, variance, clamp uint32
}

var (
	thresholds8Bit  = thresholds{dark: 32, variance: 16, clamp: 16}
	thresholds10Bit = thresholds{dark: 128, variance: 64, clamp: 64}
)

// FrameSource fetches a decoded frame for sampling.
type FrameSource func(frameIdx int) (source.Frame, error)

// SamplePositions returns the N sample frame indices, positioned at
// round(i * total_frames / (N+1)) for i in [1,N] (§4.3).
func SamplePositions(totalFrames uint64, n int) []int {
	positions := make([]int, 0, n)
	for i := 1; i <= n; i++ {
		pos := roundDiv(uint64(i)*totalFrames, uint64(n+1))
		if totalFrames > 0 && pos >= totalFrames {
			pos = totalFrames - 1
		}
		positions = append(positions, int(pos))
	}
	return positions
}

func roundDiv(num, den uint64) uint64 {
	if den == 0 {
		return 0
	}
	return (num + den/2) / den
}

// Detect samples n frames (default 13) across the video via fetch and
// aggregates a crop rectangle, returning (crop_v, crop_h). (0,0) means no
// crop. is10Bit selects the threshold table; width/height describe the
// luma plane.
func Detect(fetch FrameSource, totalFrames uint64, width, height uint32, is10Bit bool, n int) (cropV, cropH uint32, err error) {
	positions := SamplePositions(totalFrames, n)

	type result struct {
		rect source.CropRect
		ok   bool
	}
	results := make([]result, len(positions))

	g := new(errgroup.Group)
	g.SetLimit(sampleConcurrency)

	for i, pos := range positions {
		i, pos := i, pos
		g.Go(func() error {
			frame, err := fetch(pos)
			if err != nil {
				return err
			}
			rect, ok := detectFrame(frame.Y, int(width), int(height), frame.YStride, is10Bit)
			results[i] = result{rect: rect, ok: ok}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, 0, err
	}

	var (
		haveAny                                 bool
		minTop, minBottom, minLeft, minRight uint32
	)
	for _, r := range results {
		if !r.ok {
			continue
		}
		if !haveAny {
			minTop, minBottom, minLeft, minRight = r.rect.Top, r.rect.Bottom, r.rect.Left, r.rect.Right
			haveAny = true
			continue
		}
		minTop = minU32(minTop, r.rect.Top)
		minBottom = minU32(minBottom, r.rect.Bottom)
		minLeft = minU32(minLeft, r.rect.Left)
		minRight = minU32(minRight, r.rect.Right)
	}

	if !haveAny {
		return 0, 0, nil
	}

	agg := source.CropRect{
		Top:    minTop &^ 1,
		Bottom: minBottom &^ 1,
		Left:   minLeft &^ 1,
		Right:  minRight &^ 1,
	}
	cropV, cropH = agg.ToTuple()
	return cropV, cropH, nil
}

// detectFrame performs the four independent edge walks on one frame's luma
// plane, returning the detected insets and whether every edge triggered. If
// any edge never triggers, the whole sample is discarded (§4.3).
func detectFrame(y []byte, w, h, stride int, is10Bit bool) (source.CropRect, bool) {
	th := thresholds8Bit
	if is10Bit {
		th = thresholds10Bit
	}
	sampleBytes := 1
	if is10Bit {
		sampleBytes = 2
	}

	top, okTop := walkRows(y, w, h, stride, sampleBytes, th, false)
	bottom, okBottom := walkRows(y, w, h, stride, sampleBytes, th, true)
	left, okLeft := walkCols(y, w, h, stride, sampleBytes, th, false)
	right, okRight := walkCols(y, w, h, stride, sampleBytes, th, true)

	if !okTop || !okBottom || !okLeft || !okRight {
		return source.CropRect{}, false
	}
	return source.CropRect{Top: top, Bottom: bottom, Left: left, Right: right}, true
}

// sampleAt reads one luma sample at (row,col) given stride/sampleBytes.
func sampleAt(y []byte, stride, sampleBytes, row, col int) uint32 {
	off := row*stride + col*sampleBytes
	if sampleBytes == 1 {
		return uint32(y[off])
	}
	return uint32(y[off]) | uint32(y[off+1])<<8
}

// walkRows walks rows from the top (reverse=false) or bottom (reverse=true)
// inward, returning the inset at which a line triggers dark-or-variance
// termination.
func walkRows(y []byte, w, h, stride, sampleBytes int, th thresholds, reverse bool) (uint32, bool) {
	for i := 0; i < h; i++ {
		row := i
		if reverse {
			row = h - 1 - i
		}

		if triggered := lineTriggers(w, th, func(col int) uint32 {
			return sampleAt(y, stride, sampleBytes, row, col)
		}); triggered {
			return uint32(i), true
		}
	}
	return 0, false
}

// walkCols walks columns from the left (reverse=false) or right
// (reverse=true) inward.
func walkCols(y []byte, w, h, stride, sampleBytes int, th thresholds, reverse bool) (uint32, bool) {
	for i := 0; i < w; i++ {
		col := i
		if reverse {
			col = w - 1 - i
		}

		if triggered := lineTriggers(h, th, func(row int) uint32 {
			return sampleAt(y, stride, sampleBytes, row, col)
		}); triggered {
			return uint32(i), true
		}
	}
	return 0, false
}

// lineTriggers implements the per-line test shared by all four edge walks:
// every sample below th.clamp is floored up to th.clamp (so uniform black
// reads as a flat th.clamp value and never contributes variance), then the
// mean is computed; if mean >= th.dark, the line triggers immediately.
// Otherwise scan again and trigger if any (floor-clamped) sample deviates
// from the mean by more than th.variance (§4.3).
func lineTriggers(n int, th thresholds, at func(i int) uint32) bool {
	var sum uint64
	for i := 0; i < n; i++ {
		v := at(i)
		if v < th.clamp {
			v = th.clamp
		}
		sum += uint64(v)
	}
	mean := uint32(sum / uint64(n))

	if mean >= th.dark {
		return true
	}

	for i := 0; i < n; i++ {
		v := at(i)
		if v < th.clamp {
			v = th.clamp
		}
		var diff uint32
		if v > mean {
			diff = v - mean
		} else {
			diff = mean - v
		}
		if diff > th.variance {
			return true
		}
	}
	return false
}

func minU32(a, b uint32) uint32 {
	if a < b {
		return a
	}
	return b
}
