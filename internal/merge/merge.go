// Package merge concatenates per-chunk .ivf outputs into a single container,
// generalizing the teacher's ffmpeg-based remux step to the raw-concat IVF
// path plus a platform-batched external-remuxer fallback (§4.9, §6).
package merge

import (
	"encoding/binary"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/five82/reav1/internal/config"
	"github.com/five82/reav1/internal/errors"
)

const ivfHeaderSize = 32

// ListIVFFiles returns encodeDir's *.ivf files sorted by numeric filename
// stem (§4.9: "workers complete out of order... post-order reassembly by
// the merger is deterministic by numeric sort").
func ListIVFFiles(encodeDir string) ([]string, error) {
	entries, err := os.ReadDir(encodeDir)
	if err != nil {
		return nil, errors.NewMergeFailureError("read encode directory", err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".ivf" {
			continue
		}
		files = append(files, filepath.Join(encodeDir, e.Name()))
	}

	sort.Slice(files, func(i, j int) bool {
		return stemNumber(files[i]) < stemNumber(files[j])
	})
	return files, nil
}

func stemNumber(path string) int {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	n, err := strconv.Atoi(stem)
	if err != nil {
		return 0
	}
	return n
}

// ConcatIVF performs the raw-concat merge path (§4.9, §6, Scenario F): it
// byte-concatenates files in order, stripping the 32-byte IVF header from
// every file after the first, then patches bytes 24..28 of the output with
// totalFrames as a little-endian u32. All other header bytes are preserved
// verbatim from the first input.
func ConcatIVF(files []string, output string, totalFrames uint32) error {
	out, err := os.Create(output)
	if err != nil {
		return errors.NewMergeFailureError("create merge output", err)
	}
	defer out.Close()

	for i, path := range files {
		if err := appendIVF(out, path, i != 0); err != nil {
			return errors.NewMergeFailureError("append "+path, err)
		}
	}

	var frameCountBytes [4]byte
	binary.LittleEndian.PutUint32(frameCountBytes[:], totalFrames)
	if _, err := out.WriteAt(frameCountBytes[:], 24); err != nil {
		return errors.NewMergeFailureError("patch frame count", err)
	}

	return nil
}

func appendIVF(out io.Writer, path string, stripHeader bool) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if stripHeader {
		if _, err := io.CopyN(io.Discard, f, ivfHeaderSize); err != nil {
			return err
		}
	}

	_, err = io.Copy(out, f)
	return err
}

// Remuxer delegates the merge to an external concatenation tool when the
// encoder's raw IVF output is not directly concatenable (§4.9). Concrete
// implementations shell out to a remuxer such as ffmpeg's concat demuxer.
type Remuxer interface {
	Remux(files []string, output string) error
}

// RemuxBatched merges files via remuxer, batching at
// config.MergeBatchLimit() when the file count exceeds the platform limit
// (0 means unbounded, e.g. on Windows): each batch is remuxed to an
// intermediate file under a temp directory inside encodeDir, then those
// intermediates are remuxed into output (§4.9).
func RemuxBatched(remuxer Remuxer, encodeDir string, files []string, output string) error {
	return remuxBatched(remuxer, encodeDir, files, output, config.MergeBatchLimit())
}

func remuxBatched(remuxer Remuxer, encodeDir string, files []string, output string, limit int) error {
	if limit <= 0 || len(files) <= limit {
		return remuxer.Remux(files, output)
	}

	tempDir := filepath.Join(encodeDir, "temp_merge")
	if err := os.MkdirAll(tempDir, 0o755); err != nil {
		return errors.NewMergeFailureError("create temp merge dir", err)
	}
	defer os.RemoveAll(tempDir)

	var batchOutputs []string
	for start := 0; start < len(files); start += limit {
		end := start + limit
		if end > len(files) {
			end = len(files)
		}
		batchPath := filepath.Join(tempDir, "batch_"+strconv.Itoa(start/limit)+".ivf")
		if err := remuxer.Remux(files[start:end], batchPath); err != nil {
			return errors.NewMergeFailureError("remux batch", err)
		}
		batchOutputs = append(batchOutputs, batchPath)
	}

	if err := remuxer.Remux(batchOutputs, output); err != nil {
		return errors.NewMergeFailureError("remux final batch pass", err)
	}
	return nil
}
