package source

import (
	"context"
	"io"
)

// SceneDetector finds scene-change frame boundaries in a source video
// (§1 "detect_scenes(path) -> frame_indices"). Concrete implementations
// shell out to an external scene-change detector; this package only names
// the contract.
type SceneDetector interface {
	DetectScenes(ctx context.Context, path string) ([]uint32, error)
}

// Frame is a single decoded video frame exposed as three independent planes,
// each with its own pointer-equivalent byte slice, stride, and row count
// (§9 "raw frame-plane access").
type Frame struct {
	Y, U, V       []byte
	YStride       int
	UVStride      int
	Height        int
}

// Index is an opened, seekable source index built once per input file
// (§1 "open_index").
type Index interface {
	// Info returns the probed video properties.
	Info() (VideoInfo, error)
	// Close releases index resources.
	Close() error
}

// Decoder pulls individual decoded frames from an opened Index
// (§1 "get_frame", §4.6). Implementations are not required to be safe for
// concurrent use; the decode driver is a single producer by design.
type Decoder interface {
	// GetFrame decodes and returns the frame at frameIdx.
	GetFrame(frameIdx int) (Frame, error)
	// Close releases decoder resources.
	Close() error
}

// EncoderParams bundles the encoder invocation parameters the spec treats as
// opaque pass-through values (CRF, preset, and similar knobs belong to the
// caller, not this pipeline).
type EncoderParams struct {
	Params      []string
	GrainTable  string
	OutputPath  string
}

// EncoderCommandBuilder constructs the external encoder child process
// invocation (§1 "the external AV1 encoder process", §4.8
// "make_encoder_command"). The returned command must have Stdin/Stderr
// pipeable by the caller.
type EncoderCommandBuilder interface {
	BuildCommand(info VideoInfo, params EncoderParams, width, height uint32) (Command, error)
}

// Command is the minimal process-control surface the worker pool needs from
// a spawned encoder child: piped stdin, piped stderr, start, and wait.
type Command interface {
	StdinPipe() (io.WriteCloser, error)
	StderrPipe() (io.ReadCloser, error)
	Start() error
	Wait() error
}

// AudioProcessor extracts and muxes the source audio track into the final
// container (§1 "process_audio"). Out of scope for this pipeline's core; the
// interface exists so a caller can wire a concrete implementation alongside
// the merger.
type AudioProcessor interface {
	ProcessAudio(ctx context.Context, sourcePath, outputPath string) error
}
