// Package config provides configuration types and defaults for the re-encoding pipeline.
package config

import (
	"fmt"
	"runtime"

	"github.com/five82/reav1/internal/util"
)

// Default constants.
const (
	// DefaultChunkBuffer is the number of extra decoded chunks kept in flight
	// beyond one-per-worker, per §4.7.
	DefaultChunkBuffer int = 0

	// DefaultCropMode is the crop mode for the main encode ("auto" or "none").
	DefaultCropMode string = "auto"

	// CropModeAuto runs the §4.3 crop detector.
	CropModeAuto string = "auto"

	// CropModeNone disables crop detection; the source frame is used unmodified.
	CropModeNone string = "none"

	// DefaultCropSamples is the default number of frames the crop detector
	// samples across the video (§4.3).
	DefaultCropSamples int = 13

	// SceneMaxFramesCap is the absolute upper bound on scene length, in
	// frames, regardless of frame rate (§4.4, §9).
	SceneMaxFramesCap uint32 = 300

	// SceneMaxSeconds is the per-second multiplier used to derive the
	// fps-relative scene length bound: min(10*round(fps), 300).
	SceneMaxSeconds uint32 = 10

	// MergeBatchLimitUnix is the maximum number of files passed to the
	// external remux concatenation tool in one invocation on non-Windows
	// platforms (§4.9, §9). Windows has no such limit.
	MergeBatchLimitUnix int = 960
)

// AutoParallelConfig returns a worker count derived from available
// parallelism and a zero prefetch buffer, matching §4.6's
// available_parallelism() (fallback 8) selection.
func AutoParallelConfig() (workers, buffer int) {
	workers = util.LogicalCores()
	if workers < 1 {
		workers = 8
	}
	buffer = DefaultChunkBuffer
	return workers, buffer
}

// Config holds all configuration for the decode/encode pipeline.
type Config struct {
	// InputPath is the source video file.
	InputPath string
	// WorkDir is the resume/scratch directory; when empty it is derived
	// from InputPath per §3 ("work directory").
	WorkDir string
	// OutputPath is the final merged container path.
	OutputPath string

	// CropMode selects "auto" (run the crop detector) or "none" (skip it).
	CropMode string
	// CropSamples is the number of frames the crop detector samples.
	CropSamples int

	// Workers is the number of parallel encoder worker goroutines.
	Workers int
	// ChunkBuffer is the number of extra chunks admitted beyond one per worker.
	ChunkBuffer int

	// Verbose enables debug-level logging.
	Verbose bool
}

// NewConfig creates a new Config with default values for the given paths.
func NewConfig(inputPath, workDir, outputPath string) *Config {
	workers, buffer := AutoParallelConfig()

	return &Config{
		InputPath:   inputPath,
		WorkDir:     workDir,
		OutputPath:  outputPath,
		CropMode:    DefaultCropMode,
		CropSamples: DefaultCropSamples,
		Workers:     workers,
		ChunkBuffer: buffer,
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidWorkers, c.Workers)
	}
	if c.ChunkBuffer < 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidChunkBuffer, c.ChunkBuffer)
	}
	if c.CropMode != CropModeAuto && c.CropMode != CropModeNone {
		return fmt.Errorf("%w: got %q", ErrInvalidCropMode, c.CropMode)
	}
	if c.CropMode == CropModeAuto && c.CropSamples < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidCropSamples, c.CropSamples)
	}
	return nil
}

// Permits returns the semaphore permit count for the decode/encode queue:
// one per worker plus the chunk buffer (§4.7).
func (c *Config) Permits() int {
	permits := c.Workers + c.ChunkBuffer
	if permits < 1 {
		permits = 1
	}
	return permits
}

// MergeBatchLimit returns the maximum file count per external-remuxer
// invocation for the current platform (§4.9, §9): unbounded (0) on Windows,
// MergeBatchLimitUnix elsewhere.
func MergeBatchLimit() int {
	if runtime.GOOS == "windows" {
		return 0
	}
	return MergeBatchLimitUnix
}

// SceneMaxFrames returns the validation upper bound for a scene's length in
// frames: min(10*round(fps), 300), per §4.4 and the §9 design note.
func SceneMaxFrames(fpsRounded uint32) uint32 {
	bound := SceneMaxSeconds * fpsRounded
	if bound > SceneMaxFramesCap {
		return SceneMaxFramesCap
	}
	return bound
}
