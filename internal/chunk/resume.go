package chunk

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/five82/reav1/internal/errors"
	"github.com/five82/reav1/internal/source"
)

const resumeFileName = "done.txt"

// ResumeState is the mutex-guarded set of completed chunks, persisted to
// done.txt in the work directory (§3, §4.4, §6). A chunk appears at most
// once; entries are only added after the chunk's .ivf file is durably on
// disk.
type ResumeState struct {
	mu      sync.Mutex
	entries map[uint32]source.ChunkComplete
}

// NewResumeState creates an empty resume state.
func NewResumeState() *ResumeState {
	return &ResumeState{entries: make(map[uint32]source.ChunkComplete)}
}

// ResumeLoad reads done.txt from workDir: one record per line, three
// whitespace-separated tokens `chunk_idx frame_count byte_size`; malformed
// lines are skipped (§4.4 resume_load, §6).
func ResumeLoad(workDir string) (*ResumeState, error) {
	state := NewResumeState()

	path := filepath.Join(workDir, resumeFileName)
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return state, nil
	}
	if err != nil {
		return nil, errors.NewIOError("open resume file", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) != 3 {
			continue
		}
		idx, err1 := strconv.ParseUint(fields[0], 10, 32)
		frames, err2 := strconv.ParseUint(fields[1], 10, 32)
		size, err3 := strconv.ParseUint(fields[2], 10, 64)
		if err1 != nil || err2 != nil || err3 != nil {
			continue
		}
		state.entries[uint32(idx)] = source.ChunkComplete{
			ChunkIdx:   uint32(idx),
			FrameCount: uint32(frames),
			ByteSize:   size,
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.NewIOError("read resume file", err)
	}

	return state, nil
}

// Append records a completed chunk in memory. Safe for concurrent use.
func (s *ResumeState) Append(c source.ChunkComplete) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[c.ChunkIdx] = c
}

// Has reports whether chunkIdx is already recorded as complete.
func (s *ResumeState) Has(chunkIdx uint32) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.entries[chunkIdx]
	return ok
}

// Snapshot returns a copy of all completed entries, ordered by ChunkIdx.
func (s *ResumeState) Snapshot() []source.ChunkComplete {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]source.ChunkComplete, 0, len(s.entries))
	for _, c := range s.entries {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ChunkIdx < out[j].ChunkIdx })
	return out
}

// Save overwrites done.txt atomically: writes to a temp file in the same
// directory then renames over the target (§4.4 resume_save).
func (s *ResumeState) Save(workDir string) error {
	s.mu.Lock()
	entries := make([]source.ChunkComplete, 0, len(s.entries))
	for _, c := range s.entries {
		entries = append(entries, c)
	}
	s.mu.Unlock()

	var b strings.Builder
	for _, c := range entries {
		fmt.Fprintf(&b, "%d %d %d\n", c.ChunkIdx, c.FrameCount, c.ByteSize)
	}

	tmpPath := filepath.Join(workDir, resumeFileName+".tmp")
	if err := os.WriteFile(tmpPath, []byte(b.String()), 0o644); err != nil {
		return errors.NewIOError("write resume temp file", err)
	}
	if err := os.Rename(tmpPath, filepath.Join(workDir, resumeFileName)); err != nil {
		return errors.NewIOError("rename resume file", err)
	}
	return nil
}
