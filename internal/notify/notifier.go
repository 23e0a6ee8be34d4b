// Package notify sends fire-and-forget HTTP notifications for build events.
// The primary use case is ntfy.sh, but any HTTP webhook works.
package notify

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/lejimsft/haul/internal/events"
)

// Notifier posts plain-text HTTP notifications for selected build events.
type Notifier struct {
	url          string
	title        string
	onFailure    bool
	onBundleErrs bool
	client       *http.Client
}

// New creates a Notifier. projectName is used as the X-Title header; if
// empty, "haul" is used instead.
func New(notifURL, projectName string, onFailure, onBundleErrs bool) *Notifier {
	title := "haul"
	if projectName != "" {
		title = projectName
	}
	return &Notifier{
		url:          notifURL,
		title:        title,
		onFailure:    onFailure,
		onBundleErrs: onBundleErrs,
		client:       &http.Client{Timeout: 10 * time.Second},
	}
}

// Handle is a bus handler. It fires asynchronous POSTs for events that match
// the configured notification flags.
func (n *Notifier) Handle(ev events.Event) {
	switch ev := ev.(type) {
	case events.CompilationFailed:
		if n.onFailure {
			go n.post(fmt.Sprintf("%s build failed: %s", ev.Platform, ev.Message))
		}
	case events.CompilationFinished:
		if n.onBundleErrs && len(ev.Errors) > 0 {
			go n.post(fmt.Sprintf("%s build finished with %d errors", ev.Platform, len(ev.Errors)))
		}
	}
}

// post sends a plain-text POST to the configured URL. Errors are silently
// discarded so notification failures never interrupt the event pipeline.
func (n *Notifier) post(message string) {
	req, err := http.NewRequest(http.MethodPost, n.url, strings.NewReader(message))
	if err != nil {
		return
	}
	req.Header.Set("Content-Type", "text/plain")
	req.Header.Set("X-Title", n.title)
	resp, err := n.client.Do(req)
	if err != nil {
		return
	}
	resp.Body.Close()
}
