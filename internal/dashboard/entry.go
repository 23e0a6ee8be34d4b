// Package dashboard holds the pure state model behind the live terminal
// dashboard: normalized log entries, the bounded log buffer, the per-platform
// compilation table, the reducer that folds bus events into state, and the
// projector that slices state into a renderable snapshot. Nothing in this
// package performs I/O or touches the terminal.
package dashboard

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"
)

// Level is the severity of a runtime log entry.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelDone
)

// String returns the lower-case level name.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	case LevelDone:
		return "done"
	default:
		return "info"
	}
}

// ParseLevel maps a level name to a Level. Unknown names default to info so
// a malformed event never aborts the pipeline.
func ParseLevel(s string) Level {
	switch strings.ToLower(s) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	case "done":
		return LevelDone
	default:
		return LevelInfo
	}
}

// EntryKind distinguishes the two log entry variants.
type EntryKind int

const (
	KindRuntime EntryKind = iota // runtime log line
	KindRequest                  // HTTP request/response outcome
)

// Entry is a normalized log entry. Key is unique and strictly increasing
// across the process lifetime regardless of variant, so entries keep a
// stable render identity through buffer eviction.
type Entry struct {
	Kind      EntryKind
	Timestamp int64 // unix milliseconds
	Key       uint64

	// Runtime fields
	Level Level
	Args  []any

	// Request fields
	Method     string // case-preserved; rendered upper-cased
	URL        string
	StatusCode int
	Extra      []string
}

// entryKey is the process-global key allocator. Wall-clock time alone
// collides within one millisecond; a counter never does.
var entryKey atomic.Uint64

// nextKey allocates a fresh strictly increasing entry key.
func nextKey() uint64 {
	return entryKey.Add(1)
}

// NewRuntimeEntry builds a runtime log entry stamped with the current time
// and a fresh key. Args are kept as-is; no validation is performed.
func NewRuntimeEntry(level Level, args ...any) Entry {
	return Entry{
		Kind:      KindRuntime,
		Timestamp: time.Now().UnixMilli(),
		Key:       nextKey(),
		Level:     level,
		Args:      args,
	}
}

// NewRequestEntry builds a request/response entry stamped with the current
// time and a fresh key. Malformed values (negative status codes, empty
// methods) pass through unchanged; presentation decides how to show them.
func NewRequestEntry(method, url string, statusCode int, extra []string) Entry {
	return Entry{
		Kind:       KindRequest,
		Timestamp:  time.Now().UnixMilli(),
		Key:        nextKey(),
		Method:     method,
		URL:        url,
		StatusCode: statusCode,
		Extra:      extra,
	}
}

// Text renders the entry's message portion as a single line: runtime args
// joined by single spaces (non-strings in structural debug form), request
// entries as "METHOD url status" plus any extra tokens.
func (e Entry) Text() string {
	switch e.Kind {
	case KindRequest:
		parts := []string{strings.ToUpper(e.Method), e.URL, fmt.Sprintf("%d", e.StatusCode)}
		parts = append(parts, e.Extra...)
		return strings.Join(parts, " ")
	default:
		parts := make([]string, len(e.Args))
		for i, a := range e.Args {
			if s, ok := a.(string); ok {
				parts[i] = s
			} else {
				parts[i] = fmt.Sprintf("%#v", a)
			}
		}
		return strings.Join(parts, " ")
	}
}
