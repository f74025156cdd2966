package merge

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// FFmpegRemuxer implements Remuxer via ffmpeg's concat demuxer, grounded on
// the original implementation's run_merge: write a concat list file, then
// stream-copy through ffmpeg (§4.9).
type FFmpegRemuxer struct {
	Ctx context.Context
}

// Remux concatenates files into output via ffmpeg -f concat -c copy.
func (r FFmpegRemuxer) Remux(files []string, output string) error {
	listPath := output + ".concat.txt"
	if err := writeConcatList(listPath, files); err != nil {
		return err
	}
	defer os.Remove(listPath)

	ctx := r.Ctx
	if ctx == nil {
		ctx = context.Background()
	}

	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-f", "concat", "-safe", "0", "-i", listPath,
		"-loglevel", "error", "-hide_banner", "-nostdin", "-y",
		"-c", "copy",
		"-fflags", "+genpts+igndts+discardcorrupt+bitexact",
		"-bitexact",
		"-avoid_negative_ts", "make_zero",
		output,
	)
	return cmd.Run()
}

func writeConcatList(listPath string, files []string) error {
	var b []byte
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return err
		}
		b = append(b, []byte(fmt.Sprintf("file '%s'\n", abs))...)
	}
	return os.WriteFile(listPath, b, 0o644)
}
