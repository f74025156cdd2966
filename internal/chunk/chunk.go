// Package chunk loads and validates the scene list, builds the dense chunk
// index used for output naming and resume lookup, and tracks per-run resume
// state (§4.4).
package chunk

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/five82/reav1/internal/config"
	"github.com/five82/reav1/internal/errors"
	"github.com/five82/reav1/internal/source"
)

// LoadScenes reads integer frame indices one per line from path, sorts
// them, and emits a Scene per adjacent pair, with the final scene ending at
// totalFrames (§4.4 load_scenes). Unparseable or blank lines are skipped.
func LoadScenes(path string, totalFrames uint64) ([]source.Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewIOError("open scene file", err)
	}
	defer f.Close()

	var indices []uint32
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		v, perr := strconv.ParseUint(line, 10, 32)
		if perr != nil {
			continue
		}
		indices = append(indices, uint32(v))
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.NewIOError("read scene file", err)
	}

	return ScenesFromIndices(indices, totalFrames), nil
}

// ScenesFromIndices sorts frame-index boundaries [a,b,c] and emits a Scene
// per adjacent pair, [(a,b),(b,c),(c,totalFrames)] — the indices themselves
// are scene starts, not offsets from 0 (§4.4 load_scenes, property 3).
// Shared by LoadScenes (file-backed) and callers that already have scene
// boundaries in memory, such as a SceneDetector result.
func ScenesFromIndices(indices []uint32, totalFrames uint64) []source.Scene {
	sorted := append([]uint32{}, indices...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	bounds := append(sorted, uint32(totalFrames))
	scenes := make([]source.Scene, 0, len(bounds))
	for i := 0; i+1 < len(bounds); i++ {
		start, end := bounds[i], bounds[i+1]
		if end <= start {
			continue
		}
		scenes = append(scenes, source.Scene{Start: start, End: end})
	}
	return scenes
}

// ValidateScenes rejects any scene with length 0 or length greater than
// config.SceneMaxFrames(fpsRounded) (§4.4, §9).
func ValidateScenes(scenes []source.Scene, fpsRounded uint32) error {
	maxLen := config.SceneMaxFrames(fpsRounded)
	for _, sc := range scenes {
		length := sc.End - sc.Start
		if length == 0 {
			return errors.NewInvalidSceneError(fmt.Sprintf("scene [%d,%d) has zero length", sc.Start, sc.End))
		}
		if length > maxLen {
			return errors.NewInvalidSceneError(fmt.Sprintf("scene [%d,%d) length %d exceeds max %d", sc.Start, sc.End, length, maxLen))
		}
	}
	return nil
}

// BuildChunks assigns a dense, start-ordered index to each scene (§3:
// "idx equals the position in the chunk list after sorting by start").
func BuildChunks(scenes []source.Scene) []source.Chunk {
	sorted := append([]source.Scene{}, scenes...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })

	chunks := make([]source.Chunk, len(sorted))
	for i, sc := range sorted {
		chunks[i] = source.Chunk{Idx: uint32(i), Start: sc.Start, End: sc.End}
	}
	return chunks
}
