package dashboard

// Compilation is the tracked build state for one platform.
type Compilation struct {
	Progress float64 // always within [0,1]
	Running  bool
}

// clampProgress confines a raw progress value to [0,1]. Out-of-range values
// are clamped, never rejected, so one corrupt event cannot stop the dashboard.
func clampProgress(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// startCompilation returns the table with platform reset to a fresh running
// build. A new build restarts progress tracking, overwriting any prior entry.
func startCompilation(table map[string]Compilation, platform string) map[string]Compilation {
	next := cloneCompilations(table)
	next[platform] = Compilation{Running: true, Progress: 0}
	return next
}

// progressCompilation returns the table with platform set to the clamped
// progress value. A platform that never saw a Start event is inserted here
// all the same.
func progressCompilation(table map[string]Compilation, platform string, raw float64) map[string]Compilation {
	next := cloneCompilations(table)
	next[platform] = Compilation{Running: true, Progress: clampProgress(raw)}
	return next
}

// failCompilation returns the table with platform stopped at zero progress.
func failCompilation(table map[string]Compilation, platform string) map[string]Compilation {
	next := cloneCompilations(table)
	next[platform] = Compilation{Running: false, Progress: 0}
	return next
}

// finishCompilation returns the table with platform stopped at full progress.
func finishCompilation(table map[string]Compilation, platform string) map[string]Compilation {
	next := cloneCompilations(table)
	next[platform] = Compilation{Running: false, Progress: 1}
	return next
}

// cloneCompilations copies the table so transitions never mutate a prior
// state snapshot. Platform cardinality is bounded by the configured build
// targets, so the copy stays small.
func cloneCompilations(table map[string]Compilation) map[string]Compilation {
	next := make(map[string]Compilation, len(table)+1)
	for k, v := range table {
		next[k] = v
	}
	return next
}
