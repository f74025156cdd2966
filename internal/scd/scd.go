// Package scd implements source.SceneDetector by shelling out to the
// reav1-scd helper binary, generalizing the teacher's drapto-scd
// integration to the pipeline's SceneDetector contract (§1
// "detect_scenes(path) -> frame_indices").
package scd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

const binaryName = "reav1-scd"

// Detector runs scene-change detection via the reav1-scd binary, writing
// its output to a scenes.txt file under WorkDir and parsing the result
// back into frame indices.
type Detector struct {
	WorkDir      string
	FPSNum       uint32
	FPSDen       uint32
	TotalFrames  int
	ShowProgress bool
}

// DetectScenes implements source.SceneDetector. It reuses an existing
// scenes.txt if present (resume path) rather than re-running detection.
func (d Detector) DetectScenes(ctx context.Context, path string) ([]uint32, error) {
	sceneFile := filepath.Join(d.WorkDir, "scenes.txt")

	if _, err := os.Stat(sceneFile); err != nil {
		if err := d.run(ctx, path, sceneFile); err != nil {
			return nil, err
		}
	}

	return parseFrameIndices(sceneFile)
}

func (d Detector) run(ctx context.Context, videoPath, sceneFile string) error {
	scdPath, err := exec.LookPath(binaryName)
	if err != nil {
		return fmt.Errorf("%s not found in PATH: %w", binaryName, err)
	}

	args := []string{
		"--input", videoPath,
		"--output", sceneFile,
		"--fps-num", strconv.FormatUint(uint64(d.FPSNum), 10),
		"--fps-den", strconv.FormatUint(uint64(d.FPSDen), 10),
		"--total-frames", strconv.Itoa(d.TotalFrames),
	}
	if d.ShowProgress {
		args = append(args, "--progress")
	}

	cmd := exec.CommandContext(ctx, scdPath, args...)
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("scene detection failed: %w", err)
	}
	return nil
}

// parseFrameIndices reads one frame index per line, skipping blank or
// unparseable lines.
func parseFrameIndices(path string) ([]uint32, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read scene file: %w", err)
	}
	defer f.Close()

	var indices []uint32
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		n, err := strconv.ParseUint(line, 10, 32)
		if err != nil {
			continue
		}
		indices = append(indices, uint32(n))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan scene file: %w", err)
	}
	return indices, nil
}

// IsAvailable checks if the reav1-scd binary is available in PATH.
func IsAvailable() bool {
	_, err := exec.LookPath(binaryName)
	return err == nil
}
