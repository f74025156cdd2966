package workerpool

import (
	"strings"
	"testing"
)

func TestParseFrameLineSimple(t *testing.T) {
	frame, ok := parseFrameLine("encoding 120 Frames done\r")
	if !ok || frame != 120 {
		t.Fatalf("got (%d, %v), want (120, true)", frame, ok)
	}
}

func TestParseFrameLineNumeratorForm(t *testing.T) {
	frame, ok := parseFrameLine("encoding 42/100 Frames done\r")
	if !ok || frame != 42 {
		t.Fatalf("got (%d, %v), want (42, true)", frame, ok)
	}
}

func TestParseFrameLineNoMatch(t *testing.T) {
	_, ok := parseFrameLine("some unrelated status line")
	if ok {
		t.Fatal("expected no match")
	}
}

func TestParseStderrInvokesCallbackAndErrorHook(t *testing.T) {
	input := "10 Frames encoded\rerror: bad reference frame\r30 Frames encoded\r"
	r := strings.NewReader(input)

	var progresses []Progress
	var errLines []string

	parseStderr(r, 7, func(p Progress) {
		progresses = append(progresses, p)
	}, func(line string) {
		errLines = append(errLines, line)
	})

	if len(progresses) != 2 {
		t.Fatalf("got %d progress updates, want 2: %+v", len(progresses), progresses)
	}
	if progresses[0].Frame != 10 || progresses[1].Frame != 30 {
		t.Errorf("got frames %d, %d, want 10, 30", progresses[0].Frame, progresses[1].Frame)
	}
	for _, p := range progresses {
		if p.ChunkIdx != 7 {
			t.Errorf("chunk idx = %d, want 7", p.ChunkIdx)
		}
	}
	if len(errLines) != 1 || !strings.Contains(errLines[0], "bad reference frame") {
		t.Errorf("got error lines %v, want one containing 'bad reference frame'", errLines)
	}
}
