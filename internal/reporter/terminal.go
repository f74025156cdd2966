package reporter

import (
	"fmt"
	"os"
	"sync"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"

	"github.com/five82/reav1/internal/util"
)

// TerminalReporter renders progress as one live progress bar per started
// chunk plus colored status lines, matching the teacher's terminal reporter idiom
// (fatih/color for section headers, schollz/progressbar for the live bar).
type TerminalReporter struct {
	mu    sync.Mutex
	bars  map[uint32]*progressbar.ProgressBar
	order []uint32

	cyan   *color.Color
	green  *color.Color
	red    *color.Color
	faint  *color.Color
}

// NewTerminalReporter creates a terminal reporter writing to stderr.
func NewTerminalReporter() *TerminalReporter {
	return &TerminalReporter{
		bars:  make(map[uint32]*progressbar.ProgressBar),
		cyan:  color.New(color.FgCyan, color.Bold),
		green: color.New(color.FgGreen),
		red:   color.New(color.FgRed, color.Bold),
		faint: color.New(color.Faint),
	}
}

func (r *TerminalReporter) ChunkStarted(chunkIdx uint32, totalChunks int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	bar := progressbar.NewOptions64(100,
		progressbar.OptionSetDescription(fmt.Sprintf("chunk %d/%d", chunkIdx+1, totalChunks)),
		progressbar.OptionSetWidth(30),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
	r.bars[chunkIdx] = bar
	r.order = append(r.order, chunkIdx)
}

func (r *TerminalReporter) ChunkProgress(chunkIdx uint32, frame, totalFrames uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	bar, ok := r.bars[chunkIdx]
	if !ok || totalFrames == 0 {
		return
	}
	percent := int64(frame * 100 / totalFrames)
	if percent > 100 {
		percent = 100
	}
	_ = bar.Set64(percent)
}

func (r *TerminalReporter) ChunkComplete(chunkIdx uint32, frameCount uint32, byteSize uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if bar, ok := r.bars[chunkIdx]; ok {
		_ = bar.Finish()
		delete(r.bars, chunkIdx)
	}
	_, _ = r.green.Fprintf(os.Stderr, "chunk %d done: %d frames, %s\n",
		chunkIdx, frameCount, util.FormatBytes(byteSize))
}

func (r *TerminalReporter) ChunkFailed(chunkIdx uint32, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if bar, ok := r.bars[chunkIdx]; ok {
		_ = bar.Clear()
		delete(r.bars, chunkIdx)
	}
	_, _ = r.red.Fprintf(os.Stderr, "chunk %d failed: %v\n", chunkIdx, err)
}

func (r *TerminalReporter) MergeComplete(outputPath string, totalFrames uint64, byteSize int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, _ = r.cyan.Fprintln(os.Stderr, "MERGE COMPLETE")
	fmt.Fprintf(os.Stderr, "  %s %s\n", r.faint.Sprint("output:"), outputPath)
	fmt.Fprintf(os.Stderr, "  %s %d\n", r.faint.Sprint("frames:"), totalFrames)
	fmt.Fprintf(os.Stderr, "  %s %s\n", r.faint.Sprint("size:"), util.FormatBytes(uint64(byteSize)))
}
