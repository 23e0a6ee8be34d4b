package compiler

import (
	"strings"
	"testing"

	"github.com/lejimsft/haul/internal/events"
)

func collect(t *testing.T, platform, input string) []events.Event {
	t.Helper()
	var out []events.Event
	for ev := range ParseStream(platform, strings.NewReader(input)) {
		out = append(out, ev)
	}
	return out
}

func TestParseProgressRecords(t *testing.T) {
	input := `{"type":"progress","progress":0.25}
{"type":"progress","progress":0.5}
{"type":"progress","progress":1.0}
`
	got := collect(t, "ios", input)
	if len(got) != 3 {
		t.Fatalf("expected 3 events, got %d", len(got))
	}
	want := []float64{0.25, 0.5, 1.0}
	for i, ev := range got {
		p, ok := ev.(events.CompilationProgress)
		if !ok {
			t.Fatalf("event %d: got %T", i, ev)
		}
		if p.Platform != "ios" || p.Progress != want[i] {
			t.Errorf("event %d: %+v, want progress %v", i, p, want[i])
		}
	}
}

func TestParseDoneWithErrors(t *testing.T) {
	got := collect(t, "android", `{"type":"done","errors":["Unable to resolve module a","Unable to resolve module b"]}`)
	if len(got) != 1 {
		t.Fatalf("expected 1 event, got %d", len(got))
	}
	fin, ok := got[0].(events.CompilationFinished)
	if !ok {
		t.Fatalf("got %T, want CompilationFinished", got[0])
	}
	if fin.Platform != "android" || len(fin.Errors) != 2 {
		t.Errorf("got %+v", fin)
	}
}

func TestParseErrorRecord(t *testing.T) {
	got := collect(t, "ios", `{"type":"error","message":"worker crashed"}`)
	if len(got) != 1 {
		t.Fatalf("expected 1 event, got %d", len(got))
	}
	f, ok := got[0].(events.CompilationFailed)
	if !ok {
		t.Fatalf("got %T, want CompilationFailed", got[0])
	}
	if f.Message != "worker crashed" {
		t.Errorf("Message: got %q", f.Message)
	}
}

func TestParseLogRecord(t *testing.T) {
	got := collect(t, "ios", `{"type":"log","level":"warn","message":"deprecated API"}`)
	if len(got) != 1 {
		t.Fatalf("expected 1 event, got %d", len(got))
	}
	l, ok := got[0].(events.Log)
	if !ok {
		t.Fatalf("got %T, want Log", got[0])
	}
	if l.Level != "warn" || len(l.Args) != 1 || l.Args[0] != "deprecated API" {
		t.Errorf("got %+v", l)
	}
}

func TestParseSkipsGarbageAndBlankLines(t *testing.T) {
	input := `not json

{"type":"unknown"}
{"type":"progress","progress":0.5}
`
	got := collect(t, "ios", input)
	if len(got) != 1 {
		t.Fatalf("expected 1 event (garbage skipped), got %d", len(got))
	}
	if _, ok := got[0].(events.CompilationProgress); !ok {
		t.Errorf("got %T, want CompilationProgress", got[0])
	}
}
