package chunk

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/five82/reav1/internal/config"
	"github.com/five82/reav1/internal/source"
)

// TestLoadScenesScenarioProperty3 covers property 3: after load_scenes of
// [a,b,c] with total=T, chunks are [(0,a,b),(1,b,c),(2,c,T)].
func TestLoadScenesScenarioProperty3(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scenes.txt")
	if err := os.WriteFile(path, []byte("10\n30\n20\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	scenes, err := LoadScenes(path, 100)
	if err != nil {
		t.Fatalf("LoadScenes: %v", err)
	}

	want := []source.Scene{{Start: 10, End: 20}, {Start: 20, End: 30}, {Start: 30, End: 100}}
	if len(scenes) != len(want) {
		t.Fatalf("got %d scenes, want %d: %+v", len(scenes), len(want), scenes)
	}
	for i, s := range scenes {
		if s != want[i] {
			t.Errorf("scene %d = %+v, want %+v", i, s, want[i])
		}
	}

	chunks := BuildChunks(scenes)
	for i, c := range chunks {
		if int(c.Idx) != i {
			t.Errorf("chunk %d has Idx %d", i, c.Idx)
		}
		if c.Start != want[i].Start || c.End != want[i].End {
			t.Errorf("chunk %d = %+v, want start/end %+v", i, c, want[i])
		}
	}
}

func TestScenesFromIndicesMatchesLoadScenes(t *testing.T) {
	scenes := ScenesFromIndices([]uint32{30, 10, 20}, 100)
	want := []source.Scene{{Start: 10, End: 20}, {Start: 20, End: 30}, {Start: 30, End: 100}}
	if len(scenes) != len(want) {
		t.Fatalf("got %+v, want %+v", scenes, want)
	}
	for i, s := range scenes {
		if s != want[i] {
			t.Errorf("scene %d = %+v, want %+v", i, s, want[i])
		}
	}
}

func TestLoadScenesSkipsMalformedLines(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scenes.txt")
	if err := os.WriteFile(path, []byte("10\nnotanumber\n\n20\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	scenes, err := LoadScenes(path, 50)
	if err != nil {
		t.Fatalf("LoadScenes: %v", err)
	}
	want := []source.Scene{{Start: 10, End: 20}, {Start: 20, End: 50}}
	if len(scenes) != len(want) {
		t.Fatalf("got %+v, want %+v", scenes, want)
	}
}

// TestValidateScenesProperty4 covers property 4: validate_scenes rejects
// any scene with length 0 or length > min(10*round(fps), 300).
func TestValidateScenesProperty4(t *testing.T) {
	valid := []source.Scene{{Start: 0, End: 100}, {Start: 100, End: 250}}
	if err := ValidateScenes(valid, 30); err != nil {
		t.Errorf("expected valid scenes to pass, got %v", err)
	}

	zeroLen := []source.Scene{{Start: 10, End: 10}}
	if err := ValidateScenes(zeroLen, 30); err == nil {
		t.Error("expected zero-length scene to be rejected")
	}

	tooLong := []source.Scene{{Start: 0, End: config.SceneMaxFrames(30) + 1}}
	if err := ValidateScenes(tooLong, 30); err == nil {
		t.Error("expected over-length scene to be rejected")
	}
}

func TestWorkDirNameIsStableAndShort(t *testing.T) {
	a := WorkDirName("/videos/input.mkv")
	b := WorkDirName("/videos/input.mkv")
	if a != b {
		t.Errorf("WorkDirName not stable: %q vs %q", a, b)
	}
	if len(a) != 8 || a[0] != '.' {
		t.Errorf("WorkDirName = %q, want 8 chars starting with '.'", a)
	}

	c := WorkDirName("/videos/other.mkv")
	if a == c {
		t.Error("different inputs produced the same work dir name")
	}
}

func TestCmdSnapshotRoundTrip(t *testing.T) {
	dir := t.TempDir()
	argv := []string{"reav1", "encode", "--input", "my video.mkv", "--workers", "4"}

	if err := SaveCmdSnapshot(dir, argv); err != nil {
		t.Fatalf("SaveCmdSnapshot: %v", err)
	}
	got, err := LoadCmdSnapshot(dir)
	if err != nil {
		t.Fatalf("LoadCmdSnapshot: %v", err)
	}
	if len(got) != len(argv) {
		t.Fatalf("got %v, want %v", got, argv)
	}
	for i := range argv {
		if got[i] != argv[i] {
			t.Errorf("arg %d = %q, want %q", i, got[i], argv[i])
		}
	}
}

func TestLoadCmdSnapshotMissingFile(t *testing.T) {
	dir := t.TempDir()
	got, err := LoadCmdSnapshot(dir)
	if err != nil {
		t.Fatalf("LoadCmdSnapshot: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for missing cmd.txt, got %v", got)
	}
}
