// Package workerpool implements the encoder-feeding consumer side of the
// pipeline: worker_count goroutines each pull a WorkPacket from the queue,
// spawn an external encoder child, stream frames to its stdin, and on
// success append to the resume log, generalizing the teacher's
// internal/worker.Semaphore/EncodeResult plumbing around a real encoder
// child instead of ffmpeg (§4.8).
package workerpool

import (
	"context"
	"log/slog"
	"os"
	"sync"

	"github.com/five82/reav1/internal/chunk"
	"github.com/five82/reav1/internal/errors"
	"github.com/five82/reav1/internal/extract"
	"github.com/five82/reav1/internal/queue"
	"github.com/five82/reav1/internal/source"
	"github.com/five82/reav1/internal/strategy"
)

// Pool feeds decoded work packets to encoder child processes.
type Pool struct {
	builder     source.EncoderCommandBuilder
	info        source.VideoInfo
	sel         strategy.Selection
	workDir     string
	workerCount int
	resume      *chunk.ResumeState
	log         *slog.Logger

	paramsFor func(chunkIdx uint32) source.EncoderParams
	onProgress ProgressCallback
}

// New creates a worker pool. paramsFor supplies the per-chunk encoder
// invocation parameters (encoder arguments such as CRF, grain table path);
// the caller is responsible for computing those from its own config. The
// pool overwrites OutputPath with the chunk's encode/<idx>.ivf path.
func New(builder source.EncoderCommandBuilder, info source.VideoInfo, sel strategy.Selection, workDir string, workerCount int, resume *chunk.ResumeState, log *slog.Logger, paramsFor func(chunkIdx uint32) source.EncoderParams) *Pool {
	if workerCount < 1 {
		workerCount = 1
	}
	if log == nil {
		log = slog.Default()
	}
	return &Pool{
		builder:     builder,
		info:        info,
		sel:         sel,
		workDir:     workDir,
		workerCount: workerCount,
		resume:      resume,
		log:         log,
		paramsFor:   paramsFor,
	}
}

// OnProgress registers a callback invoked for every parsed stderr progress
// line across all workers.
func (p *Pool) OnProgress(cb ProgressCallback) {
	p.onProgress = cb
}

// Run starts worker_count goroutines draining q and blocks until the queue
// is closed and drained and every worker has exited.
func (p *Pool) Run(ctx context.Context, q *queue.Queue) {
	var wg sync.WaitGroup
	wg.Add(p.workerCount)
	for i := 0; i < p.workerCount; i++ {
		go func() {
			defer wg.Done()
			p.workerLoop(ctx, q)
		}()
	}
	wg.Wait()
}

func (p *Pool) workerLoop(ctx context.Context, q *queue.Queue) {
	for packet := range q.Receive() {
		if err := p.handlePacket(ctx, packet); err != nil {
			p.log.Error("chunk encode failed", "chunk", packet.Chunk.Idx, "error", err)
		}
		q.Release()
	}
}

// handlePacket spawns the encoder child for packet, feeds it frames, and
// records resume state on success. Per-chunk failures are logged and
// swallowed: the run as a whole completes iff every chunk eventually
// appears in resume state (§7).
func (p *Pool) handlePacket(ctx context.Context, packet source.WorkPacket) error {
	outputPath := chunk.EncodeOutputPath(p.workDir, packet.Chunk.Idx)
	params := p.paramsFor(packet.Chunk.Idx)
	params.OutputPath = outputPath

	cmd, err := p.builder.BuildCommand(p.info, params, packet.Width, packet.Height)
	if err != nil {
		return errors.NewEncoderSpawnError(int(packet.Chunk.Idx), err)
	}

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return errors.NewEncoderSpawnError(int(packet.Chunk.Idx), err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return errors.NewEncoderSpawnError(int(packet.Chunk.Idx), err)
	}

	if err := cmd.Start(); err != nil {
		return errors.NewEncoderSpawnError(int(packet.Chunk.Idx), err)
	}

	var stderrWG sync.WaitGroup
	stderrWG.Add(1)
	go func() {
		defer stderrWG.Done()
		parseStderr(stderr, packet.Chunk.Idx, p.onProgress, func(line string) {
			os.Stderr.WriteString(line + "\n")
		})
	}()

	frameSize := extract.FrameSize(p.info, p.sel)
	writeErr := writeFrames(stdin, packet.Frames, int(packet.FrameCount), frameSize, packet.Width, packet.Height, p.sel)
	stdin.Close()

	waitErr := cmd.Wait()
	stderrWG.Wait()

	if ctx.Err() != nil {
		os.Remove(outputPath)
		return errors.NewEncoderExitError(int(packet.Chunk.Idx), ctx.Err())
	}
	if writeErr != nil {
		os.Remove(outputPath)
		return errors.NewEncoderExitError(int(packet.Chunk.Idx), writeErr)
	}
	if waitErr != nil {
		os.Remove(outputPath)
		return errors.NewEncoderExitError(int(packet.Chunk.Idx), waitErr)
	}

	info, statErr := os.Stat(outputPath)
	var size uint64
	if statErr == nil {
		size = uint64(info.Size())
	}

	p.resume.Append(source.ChunkComplete{
		ChunkIdx:   packet.Chunk.Idx,
		FrameCount: packet.FrameCount,
		ByteSize:   size,
	})
	if err := p.resume.Save(p.workDir); err != nil {
		return err
	}

	p.log.Info("chunk encoded", "chunk", packet.Chunk.Idx, "frames", packet.FrameCount, "bytes", size)
	return nil
}
