package merge

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

func makeIVF(t *testing.T, path string, frameCount uint32, payload []byte) {
	t.Helper()
	header := make([]byte, ivfHeaderSize)
	copy(header[0:4], "DKIF")
	binary.LittleEndian.PutUint32(header[24:28], frameCount)
	data := append(header, payload...)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
}

// TestConcatIVFScenarioF covers scenario F: two IVF inputs with frame
// counts 100 and 100 merge to an output whose header frame count is 200,
// with header bytes 0..24 and 28..32 copied verbatim from the first input.
func TestConcatIVFScenarioF(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "0.ivf")
	b := filepath.Join(dir, "1.ivf")
	out := filepath.Join(dir, "out.ivf")

	makeIVF(t, a, 100, []byte("AAAA"))
	makeIVF(t, b, 100, []byte("BBBB"))

	if err := ConcatIVF([]string{a, b}, out, 200); err != nil {
		t.Fatalf("ConcatIVF: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}

	firstHeader, err := os.ReadFile(a)
	if err != nil {
		t.Fatal(err)
	}

	if string(data[0:24]) != string(firstHeader[0:24]) {
		t.Error("header bytes 0..24 should be copied verbatim from first input")
	}
	if string(data[28:32]) != string(firstHeader[28:32]) {
		t.Error("header bytes 28..32 should be copied verbatim from first input")
	}

	got := binary.LittleEndian.Uint32(data[24:28])
	if got != 200 {
		t.Errorf("patched frame count = %d, want 200", got)
	}

	wantBody := "AAAABBBB"
	if string(data[32:]) != wantBody {
		t.Errorf("body = %q, want %q (second file's header stripped)", data[32:], wantBody)
	}
}

func TestListIVFFilesSortsByNumericStem(t *testing.T) {
	dir := t.TempDir()
	for _, n := range []string{"10", "2", "1"} {
		makeIVF(t, filepath.Join(dir, n+".ivf"), 1, nil)
	}
	os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignore me"), 0o644)

	files, err := ListIVFFiles(dir)
	if err != nil {
		t.Fatalf("ListIVFFiles: %v", err)
	}
	want := []string{"1.ivf", "2.ivf", "10.ivf"}
	if len(files) != len(want) {
		t.Fatalf("got %d files, want %d: %v", len(files), len(want), files)
	}
	for i, f := range files {
		if filepath.Base(f) != want[i] {
			t.Errorf("file %d = %q, want %q", i, filepath.Base(f), want[i])
		}
	}
}

type fakeRemuxer struct {
	calls [][]string
}

func (f *fakeRemuxer) Remux(files []string, output string) error {
	f.calls = append(f.calls, append([]string{}, files...))
	return os.WriteFile(output, []byte("merged"), 0o644)
}

func TestRemuxBatchedUnderLimitIsSinglePass(t *testing.T) {
	dir := t.TempDir()
	remuxer := &fakeRemuxer{}
	files := []string{"a.ivf", "b.ivf"}

	if err := RemuxBatched(remuxer, dir, files, filepath.Join(dir, "out.ivf")); err != nil {
		t.Fatalf("RemuxBatched: %v", err)
	}
	if len(remuxer.calls) != 1 {
		t.Fatalf("got %d remux calls, want 1", len(remuxer.calls))
	}
}

func TestRemuxBatchedOverLimitBatches(t *testing.T) {
	dir := t.TempDir()
	remuxer := &fakeRemuxer{}

	files := make([]string, 5)
	for i := range files {
		files[i] = filepath.Join(dir, string(rune('a'+i))+".ivf")
	}

	if err := remuxBatched(remuxer, dir, files, filepath.Join(dir, "out.ivf"), 2); err != nil {
		t.Fatalf("remuxBatched: %v", err)
	}

	// 5 files batched at limit 2: batches of [0:2], [2:4], [4:5], then a
	// final pass over the 3 batch outputs.
	if len(remuxer.calls) != 4 {
		t.Fatalf("got %d remux calls, want 4 (3 batches + final pass): %v", len(remuxer.calls), remuxer.calls)
	}
	for i, call := range remuxer.calls[:3] {
		if len(call) == 0 || len(call) > 2 {
			t.Errorf("batch %d has %d files, want 1 or 2", i, len(call))
		}
	}
	if len(remuxer.calls[3]) != 3 {
		t.Errorf("final pass got %d inputs, want 3 batch outputs", len(remuxer.calls[3]))
	}
}
