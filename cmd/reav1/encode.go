package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/five82/reav1/internal/chunk"
	"github.com/five82/reav1/internal/config"
	"github.com/five82/reav1/internal/crop"
	"github.com/five82/reav1/internal/decode"
	"github.com/five82/reav1/internal/errors"
	"github.com/five82/reav1/internal/logging"
	"github.com/five82/reav1/internal/merge"
	"github.com/five82/reav1/internal/queue"
	"github.com/five82/reav1/internal/reporter"
	"github.com/five82/reav1/internal/scd"
	"github.com/five82/reav1/internal/source"
	"github.com/five82/reav1/internal/strategy"
	"github.com/five82/reav1/internal/util"
	"github.com/five82/reav1/internal/workerpool"
)

type encodeOptions struct {
	input       string
	output      string
	workDir     string
	workers     int
	cropMode    string
	cropSamples int
	verbose     bool
}

func newEncodeCommand() *cobra.Command {
	opts := &encodeOptions{}

	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Re-encode a video to AV1 by scene-partitioned chunks",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEncode(cmd.Context(), opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.input, "input", "i", "", "input video file (required)")
	flags.StringVarP(&opts.output, "output", "o", "", "output container path (required)")
	flags.StringVar(&opts.workDir, "work-dir", "", "resume/scratch directory (default: derived from input)")
	flags.IntVar(&opts.workers, "workers", 0, "parallel encoder workers (default: available CPU parallelism)")
	flags.StringVar(&opts.cropMode, "crop-mode", config.DefaultCropMode, "crop detection mode: auto or none")
	flags.IntVar(&opts.cropSamples, "crop-samples", config.DefaultCropSamples, "frames sampled by the crop detector")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")

	cmd.MarkFlagRequired("input")
	cmd.MarkFlagRequired("output")

	return cmd
}

func runEncode(ctx context.Context, opts *encodeOptions) error {
	inputPath, err := filepath.Abs(opts.input)
	if err != nil {
		return errors.NewPathError("resolve input path: " + err.Error())
	}
	if !util.FileExists(inputPath) {
		return errors.NewPathError("input file does not exist: " + inputPath)
	}

	level := logging.LevelInfo
	if opts.verbose {
		level = logging.LevelDebug
	}
	logger := logging.New(logging.Config{Level: level, Enabled: true})
	logging.SetGlobal(logger)

	cfg := config.NewConfig(inputPath, opts.workDir, opts.output)
	if cfg.WorkDir == "" {
		cfg.WorkDir = chunk.DefaultWorkDir(inputPath)
	}
	if opts.workers > 0 {
		cfg.Workers = opts.workers
	}
	cfg.CropMode = opts.cropMode
	cfg.CropSamples = opts.cropSamples
	cfg.Verbose = opts.verbose

	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := chunk.EnsureWorkDir(cfg.WorkDir); err != nil {
		return err
	}
	if err := chunk.SaveCmdSnapshot(cfg.WorkDir, []string{"reav1", "encode", "-i", inputPath, "-o", cfg.OutputPath}); err != nil {
		return err
	}
	util.CheckDiskSpace(cfg.WorkDir, func(format string, args ...any) {
		logger.Warn(fmt.Sprintf(format, args...))
	})

	idx, err := openSource(ctx, inputPath)
	if err != nil {
		return err
	}
	defer idx.Close()

	info, err := idx.Info()
	if err != nil {
		return err
	}

	decoder, err := openDecoder(ctx, idx, inputPath)
	if err != nil {
		return err
	}
	defer decoder.Close()

	detector := scd.Detector{
		WorkDir:     cfg.WorkDir,
		FPSNum:      info.FPSNum,
		FPSDen:      info.FPSDen,
		TotalFrames: int(info.TotalFrames),
	}
	indices, err := detector.DetectScenes(ctx, inputPath)
	if err != nil {
		return err
	}

	scenes := chunk.ScenesFromIndices(indices, info.TotalFrames)
	if err := chunk.ValidateScenes(scenes, info.FPSRounded()); err != nil {
		return err
	}
	chunks := chunk.BuildChunks(scenes)

	resume, err := chunk.ResumeLoad(cfg.WorkDir)
	if err != nil {
		return err
	}
	skip := make(map[uint32]bool)
	for _, c := range resume.Snapshot() {
		skip[c.ChunkIdx] = true
	}

	var cropV, cropH uint32
	if cfg.CropMode == config.CropModeAuto {
		fetch := crop.FrameSource(decoder.GetFrame)
		cropV, cropH, err = crop.Detect(fetch, uint64(info.TotalFrames), info.Width, info.Height, info.Is10Bit, cfg.CropSamples)
		if err != nil {
			return err
		}
	}

	frame0, err := decoder.GetFrame(0)
	if err != nil {
		return err
	}
	sel, err := strategy.Select(info, frame0.YStride, cropV, cropH)
	if err != nil {
		return err
	}

	rep := reporter.NewTerminalReporter()
	q := queue.New(cfg.Workers, cfg.Permits())

	dispatcher := chunk.NewDispatcher(chunks, skip)
	driver := decode.New(decoder, info, sel, q, func(idx uint32) {
		rep.ChunkStarted(idx, len(chunks))
	})

	pool := workerpool.New(unwiredEncoderBuilder{}, info, sel, cfg.WorkDir, cfg.Workers, resume, logger.Logger, func(chunkIdx uint32) source.EncoderParams {
		return source.EncoderParams{}
	})
	pool.OnProgress(func(p workerpool.Progress) {
		rep.ChunkProgress(p.ChunkIdx, p.Frame, 0)
	})

	var driverErr error
	driverDone := make(chan struct{})
	go func() {
		driverErr = driver.Run(ctx, dispatcher.Next)
		q.Close()
		close(driverDone)
	}()

	pool.Run(ctx, q)
	<-driverDone

	if driverErr != nil {
		return driverErr
	}

	return finalizeMerge(cfg, info)
}

func finalizeMerge(cfg *config.Config, info source.VideoInfo) error {
	encodeDir := filepath.Join(cfg.WorkDir, "encode")
	files, err := merge.ListIVFFiles(encodeDir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return errors.NewMergeFailureError("no encoded chunks found in "+encodeDir, nil)
	}

	if err := merge.ConcatIVF(files, cfg.OutputPath, uint32(info.TotalFrames)); err != nil {
		return err
	}

	size, err := util.GetFileSize(cfg.OutputPath)
	if err != nil {
		return fmt.Errorf("stat merged output: %w", err)
	}

	reporter.NewTerminalReporter().MergeComplete(cfg.OutputPath, info.TotalFrames, int64(size))
	return nil
}
