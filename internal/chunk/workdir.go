package chunk

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/five82/reav1/internal/errors"
)

const cmdFileName = "cmd.txt"

// WorkDirName returns the work directory name for inputPath: a dot followed
// by the first 7 hex characters of the input path's hash, placed next to
// the input (§3, §4.4: ".<7-hex of input-path hash>").
func WorkDirName(inputPath string) string {
	sum := sha1.Sum([]byte(inputPath))
	return "." + hex.EncodeToString(sum[:])[:7]
}

// DefaultWorkDir returns the default work directory path for inputPath,
// placed alongside it.
func DefaultWorkDir(inputPath string) string {
	dir := filepath.Dir(inputPath)
	return filepath.Join(dir, WorkDirName(inputPath))
}

// EnsureWorkDir creates workDir and its encode/ subdirectory if missing.
func EnsureWorkDir(workDir string) error {
	if err := os.MkdirAll(filepath.Join(workDir, "encode"), 0o755); err != nil {
		return errors.NewIOError("create work directory", err)
	}
	return nil
}

// SaveCmdSnapshot writes argv to cmd.txt: space-joined, with any argument
// containing a space wrapped in double quotes (§6 "command snapshot").
func SaveCmdSnapshot(workDir string, argv []string) error {
	quoted := make([]string, len(argv))
	for i, a := range argv {
		if strings.Contains(a, " ") {
			quoted[i] = `"` + a + `"`
		} else {
			quoted[i] = a
		}
	}
	line := strings.Join(quoted, " ")

	path := filepath.Join(workDir, cmdFileName)
	if err := os.WriteFile(path, []byte(line), 0o644); err != nil {
		return errors.NewIOError("write cmd snapshot", err)
	}
	return nil
}

// LoadCmdSnapshot reads cmd.txt and re-parses it into argv by splitting on
// spaces outside double quotes (§6).
func LoadCmdSnapshot(workDir string) ([]string, error) {
	path := filepath.Join(workDir, cmdFileName)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.NewIOError("read cmd snapshot", err)
	}
	return splitArgs(string(data)), nil
}

// splitArgs splits s on spaces outside double-quoted spans, stripping the
// surrounding quotes from each resulting token.
func splitArgs(s string) []string {
	var args []string
	var cur strings.Builder
	inQuotes := false

	flush := func() {
		if cur.Len() > 0 {
			args = append(args, cur.String())
			cur.Reset()
		}
	}

	for _, r := range s {
		switch {
		case r == '"':
			inQuotes = !inQuotes
		case r == ' ' && !inQuotes:
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return args
}

// EncodeOutputPath returns the per-chunk .ivf output path for chunkIdx.
func EncodeOutputPath(workDir string, chunkIdx uint32) string {
	return filepath.Join(workDir, "encode", fmt.Sprintf("%d.ivf", chunkIdx))
}

// GrainTablePath returns the optional grain.tbl path in the work directory.
func GrainTablePath(workDir string) string {
	return filepath.Join(workDir, "grain.tbl")
}
