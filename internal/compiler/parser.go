package compiler

import (
	"bufio"
	"encoding/json"
	"io"

	"github.com/lejimsft/haul/internal/events"
)

// ParseStream reads line-delimited JSON records from a bundler worker's
// stdout and sends the corresponding bus events for the given platform on
// the returned channel. The channel is closed when r reaches EOF or an
// error. Unparseable lines are skipped: a corrupt record must not stop the
// dashboard from reflecting subsequent valid ones.
func ParseStream(platform string, r io.Reader) <-chan events.Event {
	ch := make(chan events.Event, 64)
	go func() {
		defer close(ch)
		scanner := bufio.NewScanner(r)
		// Bundler error records can carry full module stack traces.
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

		for scanner.Scan() {
			line := scanner.Bytes()
			if len(line) == 0 {
				continue
			}
			if ev, ok := parseLine(platform, line); ok {
				ch <- ev
			}
		}
	}()
	return ch
}

// workerRecord is the top-level JSON object in the worker's output stream.
type workerRecord struct {
	Type     string   `json:"type"`
	Progress float64  `json:"progress"`
	Errors   []string `json:"errors"`
	Message  string   `json:"message"`
	Level    string   `json:"level"`
}

// parseLine parses a single worker output line into a bus event.
func parseLine(platform string, line []byte) (events.Event, bool) {
	var rec workerRecord
	if err := json.Unmarshal(line, &rec); err != nil {
		return nil, false
	}

	switch rec.Type {
	case "progress":
		return events.CompilationProgress{Platform: platform, Progress: rec.Progress}, true
	case "done":
		return events.CompilationFinished{Platform: platform, Errors: rec.Errors}, true
	case "error":
		return events.CompilationFailed{Platform: platform, Message: rec.Message}, true
	case "log":
		return events.Log{Level: rec.Level, Args: []any{rec.Message}}, true
	}
	return nil, false
}
