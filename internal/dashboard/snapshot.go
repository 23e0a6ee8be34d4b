package dashboard

import "sort"

// ChromeRows is the fixed vertical space the dashboard chrome occupies:
// the title bar and the separator between compilation rows and the log.
const ChromeRows = 2

// CompilationRow is one visible row of the compilation table.
type CompilationRow struct {
	Platform string
	Compilation
}

// Snapshot is the renderable projection of a State for a given terminal
// height. The renderer treats it as the sole source of truth.
type Snapshot struct {
	Compilations []CompilationRow // sorted by platform; empty when Placeholder
	Placeholder  bool             // "no compilation yet" row instead of table rows
	LogRows      int              // vertical budget granted to the log
	Logs         []Entry          // trailing slice of the buffer, at most LogRows long
}

// Project computes the visible slice of state for a terminal with the given
// row count. It is pure: the same state and height always yield the same
// snapshot, and nothing in state is modified.
func Project(s State, terminalHeight int) Snapshot {
	snap := Snapshot{}

	compilationRows := 1 // placeholder
	if len(s.Compilations) > 0 {
		platforms := make([]string, 0, len(s.Compilations))
		for p := range s.Compilations {
			platforms = append(platforms, p)
		}
		sort.Strings(platforms)

		snap.Compilations = make([]CompilationRow, len(platforms))
		for i, p := range platforms {
			snap.Compilations[i] = CompilationRow{Platform: p, Compilation: s.Compilations[p]}
		}
		compilationRows = len(platforms)
	} else {
		snap.Placeholder = true
	}

	logRows := terminalHeight - ChromeRows - compilationRows
	if logRows < 0 {
		logRows = 0
	}
	snap.LogRows = logRows
	snap.Logs = s.Logs.Tail(logRows)
	return snap
}
