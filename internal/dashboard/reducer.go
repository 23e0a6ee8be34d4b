package dashboard

import (
	"github.com/lejimsft/haul/internal/events"
)

// State is the root dashboard state. It is created once at process start,
// advanced exclusively through Reduce, and read by the projector. Untouched
// branches are shared structurally between successive states.
type State struct {
	TerminalHeight int
	Compilations   map[string]Compilation
	Logs           Buffer
}

// NewState returns the initial empty state for a terminal of the given
// height.
func NewState(terminalHeight int) State {
	return State{
		TerminalHeight: terminalHeight,
		Compilations:   map[string]Compilation{},
	}
}

// Reduce folds one bus event into the state and returns the next state.
// It never blocks, performs no I/O, and never fails: malformed payloads are
// defaulted or clamped so one corrupt event cannot stop the dashboard from
// reflecting subsequent valid events.
func Reduce(s State, ev events.Event) State {
	switch ev := ev.(type) {
	case events.Log:
		s.Logs = s.Logs.Append(NewRuntimeEntry(ParseLevel(ev.Level), ev.Args...))

	case events.RequestFailed:
		s.Logs = s.Logs.Append(requestEntry(ev.Request, ev.Diagnostics))

	case events.ResponseFailed:
		s.Logs = s.Logs.Append(requestEntry(ev.Request, nil))

	case events.ResponseComplete:
		s.Logs = s.Logs.Append(requestEntry(ev.Request, nil))

	case events.CompilationStart:
		s.Compilations = startCompilation(s.Compilations, ev.Platform)

	case events.CompilationProgress:
		s.Compilations = progressCompilation(s.Compilations, ev.Platform, ev.Progress)

	case events.CompilationFailed:
		s.Compilations = failCompilation(s.Compilations, ev.Platform)
		s.Logs = s.Logs.Append(NewRuntimeEntry(LevelError, ev.Message))

	case events.CompilationFinished:
		s.Compilations = finishCompilation(s.Compilations, ev.Platform)
		// One entry per bundler error, each with its own key and
		// capacity slot.
		for _, msg := range ev.Errors {
			s.Logs = s.Logs.Append(NewRuntimeEntry(LevelError, msg))
		}
	}
	return s
}

// requestEntry normalizes a bus Request payload into a request/response
// log entry.
func requestEntry(r events.Request, extra []string) Entry {
	return NewRequestEntry(r.Method, r.Path, r.StatusCode, extra)
}
