// Package events defines the typed event stream shared by the compiler
// workers, the dev server, and the dashboard, plus the bus that carries it.
package events

// Event is the marker interface implemented by every bus event.
type Event interface {
	eventKind() string
}

// Request describes the HTTP request (and its response status) attached to
// request/response events.
type Request struct {
	Method     string
	Path       string
	StatusCode int
}

// Log is a runtime log line from the monitored process.
type Log struct {
	Level string // "debug", "info", "warn", "error", "done"
	Args  []any
}

// RequestFailed is emitted when a request could not be handled at all.
// Diagnostics carries additional tokens describing the failure.
type RequestFailed struct {
	Request     Request
	Diagnostics []string
}

// ResponseFailed is emitted when a request completed with an error status.
type ResponseFailed struct {
	Request Request
}

// ResponseComplete is emitted when a request completed successfully.
type ResponseComplete struct {
	Request Request
}

// CompilationStart signals a (re)build starting for a platform.
type CompilationStart struct {
	Platform string
}

// CompilationProgress carries a raw progress value for a platform.
// Values outside [0,1] are possible and are clamped by the consumer.
type CompilationProgress struct {
	Platform string
	Progress float64
}

// CompilationFailed signals a build that aborted before producing a bundle.
type CompilationFailed struct {
	Platform string
	Message  string
}

// CompilationFinished signals a completed build. Errors holds per-module
// bundler errors; a successful build has none.
type CompilationFinished struct {
	Platform string
	Errors   []string
}

func (Log) eventKind() string                 { return "log" }
func (RequestFailed) eventKind() string       { return "request_failed" }
func (ResponseFailed) eventKind() string      { return "response_failed" }
func (ResponseComplete) eventKind() string    { return "response_complete" }
func (CompilationStart) eventKind() string    { return "compilation_start" }
func (CompilationProgress) eventKind() string { return "compilation_progress" }
func (CompilationFailed) eventKind() string   { return "compilation_failed" }
func (CompilationFinished) eventKind() string { return "compilation_finished" }
