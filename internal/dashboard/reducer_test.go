package dashboard

import (
	"testing"

	"github.com/lejimsft/haul/internal/events"
)

func TestReduceLogAppendsRuntimeEntry(t *testing.T) {
	s := NewState(24)
	s = Reduce(s, events.Log{Level: "warn", Args: []any{"low", "memory"}})

	if s.Logs.Len() != 1 {
		t.Fatalf("Logs.Len: got %d, want 1", s.Logs.Len())
	}
	e := s.Logs.Entries()[0]
	if e.Kind != KindRuntime || e.Level != LevelWarn {
		t.Errorf("entry: got kind=%v level=%v", e.Kind, e.Level)
	}
	if e.Text() != "low memory" {
		t.Errorf("Text: got %q", e.Text())
	}
}

func TestReduceLogBufferCap(t *testing.T) {
	s := NewState(24)
	const n = BufferCapacity + 25
	for i := 0; i < n; i++ {
		s = Reduce(s, events.Log{Level: "info", Args: []any{"line"}})
	}
	if s.Logs.Len() != BufferCapacity {
		t.Errorf("Logs.Len after %d events: got %d, want %d", n, s.Logs.Len(), BufferCapacity)
	}
}

func TestReduceRequestEvents(t *testing.T) {
	req := events.Request{Method: "get", Path: "/ios.bundle", StatusCode: 500}

	tests := []struct {
		name      string
		ev        events.Event
		wantExtra int
	}{
		{"RequestFailed carries diagnostics", events.RequestFailed{Request: req, Diagnostics: []string{"socket", "reset"}}, 2},
		{"ResponseFailed has no extra", events.ResponseFailed{Request: req}, 0},
		{"ResponseComplete has no extra", events.ResponseComplete{Request: req}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Reduce(NewState(24), tt.ev)
			if s.Logs.Len() != 1 {
				t.Fatalf("Logs.Len: got %d, want 1", s.Logs.Len())
			}
			e := s.Logs.Entries()[0]
			if e.Kind != KindRequest {
				t.Fatalf("Kind: got %v, want KindRequest", e.Kind)
			}
			if e.Method != "get" || e.URL != "/ios.bundle" || e.StatusCode != 500 {
				t.Errorf("fields: %+v", e)
			}
			if len(e.Extra) != tt.wantExtra {
				t.Errorf("Extra: got %d tokens, want %d", len(e.Extra), tt.wantExtra)
			}
		})
	}
}

func TestReduceCompilationStart(t *testing.T) {
	s := NewState(24)
	s = Reduce(s, events.CompilationStart{Platform: "ios"})

	c, ok := s.Compilations["ios"]
	if !ok {
		t.Fatal("ios not inserted")
	}
	if !c.Running || c.Progress != 0 {
		t.Errorf("got %+v, want running at 0", c)
	}
}

func TestReduceProgressClamps(t *testing.T) {
	tests := []struct {
		raw  float64
		want float64
	}{
		{-0.5, 0},
		{0.3, 0.3},
		{1.7, 1},
	}
	s := NewState(24)
	for _, tt := range tests {
		s = Reduce(s, events.CompilationProgress{Platform: "ios", Progress: tt.raw})
		c := s.Compilations["ios"]
		if c.Progress != tt.want {
			t.Errorf("progress %v: stored %v, want %v", tt.raw, c.Progress, tt.want)
		}
		if !c.Running {
			t.Errorf("progress %v: not running", tt.raw)
		}
	}
}

func TestReduceProgressWithoutStartInsertsPlatform(t *testing.T) {
	s := NewState(24)
	s = Reduce(s, events.CompilationProgress{Platform: "windows", Progress: 0.4})

	c, ok := s.Compilations["windows"]
	if !ok {
		t.Fatal("platform without Start not inserted")
	}
	if !c.Running || c.Progress != 0.4 {
		t.Errorf("got %+v, want running at 0.4", c)
	}
}

func TestReduceFailed(t *testing.T) {
	s := NewState(24)
	s = Reduce(s, events.CompilationStart{Platform: "android"})
	s = Reduce(s, events.CompilationProgress{Platform: "android", Progress: 0.6})
	s = Reduce(s, events.CompilationFailed{Platform: "android", Message: "out of memory"})

	c := s.Compilations["android"]
	if c.Running || c.Progress != 0 {
		t.Errorf("got %+v, want stopped at 0", c)
	}
	if s.Logs.Len() != 1 {
		t.Fatalf("Logs.Len: got %d, want 1", s.Logs.Len())
	}
	e := s.Logs.Entries()[0]
	if e.Level != LevelError || e.Text() != "out of memory" {
		t.Errorf("entry: level=%v text=%q", e.Level, e.Text())
	}
}

func TestReduceFinishedAppendsOneEntryPerError(t *testing.T) {
	s := NewState(24)
	s = Reduce(s, events.CompilationFinished{Platform: "ios", Errors: []string{"a", "b"}})

	c := s.Compilations["ios"]
	if c.Running || c.Progress != 1 {
		t.Errorf("got %+v, want stopped at 1", c)
	}
	if s.Logs.Len() != 2 {
		t.Fatalf("Logs.Len: got %d, want 2", s.Logs.Len())
	}
	entries := s.Logs.Entries()
	if entries[0].Level != LevelError || entries[0].Text() != "a" {
		t.Errorf("entry 0: level=%v text=%q", entries[0].Level, entries[0].Text())
	}
	if entries[1].Level != LevelError || entries[1].Text() != "b" {
		t.Errorf("entry 1: level=%v text=%q", entries[1].Level, entries[1].Text())
	}
	if entries[0].Key == entries[1].Key {
		t.Error("synthesized entries share a key")
	}
}

func TestReduceFinishedWithoutErrors(t *testing.T) {
	s := NewState(24)
	s = Reduce(s, events.CompilationFinished{Platform: "ios"})
	if s.Logs.Len() != 0 {
		t.Errorf("Logs.Len: got %d, want 0", s.Logs.Len())
	}
}

func TestStartAfterFinishedResetsProgress(t *testing.T) {
	s := NewState(24)
	s = Reduce(s, events.CompilationStart{Platform: "ios"})
	s = Reduce(s, events.CompilationProgress{Platform: "ios", Progress: 0.9})
	s = Reduce(s, events.CompilationFinished{Platform: "ios"})

	if c := s.Compilations["ios"]; c.Progress != 1 || c.Running {
		t.Fatalf("after Finished: %+v", c)
	}

	s = Reduce(s, events.CompilationStart{Platform: "ios"})
	if c := s.Compilations["ios"]; c.Progress != 0 || !c.Running {
		t.Errorf("after restart: %+v, want running at 0", c)
	}
}

func TestReduceDoesNotMutatePriorState(t *testing.T) {
	before := NewState(24)
	before = Reduce(before, events.CompilationStart{Platform: "ios"})

	after := Reduce(before, events.CompilationProgress{Platform: "ios", Progress: 0.5})
	after = Reduce(after, events.Log{Level: "info", Args: []any{"x"}})

	if before.Compilations["ios"].Progress != 0 {
		t.Error("prior state's compilation table was mutated")
	}
	if before.Logs.Len() != 0 {
		t.Error("prior state's log buffer was mutated")
	}
	if after.Compilations["ios"].Progress != 0.5 || after.Logs.Len() != 1 {
		t.Errorf("next state wrong: %+v logs=%d", after.Compilations["ios"], after.Logs.Len())
	}
}

func TestReduceCarriesUnaffectedFields(t *testing.T) {
	s := NewState(42)
	s = Reduce(s, events.CompilationStart{Platform: "ios"})
	if s.TerminalHeight != 42 {
		t.Errorf("TerminalHeight: got %d, want 42", s.TerminalHeight)
	}

	logsBefore := s.Logs
	s = Reduce(s, events.CompilationProgress{Platform: "ios", Progress: 0.2})
	if s.Logs.Len() != logsBefore.Len() {
		t.Error("log buffer changed by a compilation-only event")
	}
}
