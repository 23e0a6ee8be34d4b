// Package server is the dev HTTP server: it serves compiled bundles, exposes
// the HMR websocket, and publishes request/response outcomes on the event
// bus for the dashboard.
package server

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/lejimsft/haul/internal/events"
)

// Server serves bundles from an output directory and reports traffic on the
// bus.
type Server struct {
	bus       *events.Bus
	outputDir string
	hmr       *HMRHub
	router    chi.Router
}

// New creates a Server reading bundles from outputDir.
func New(bus *events.Bus, outputDir string) *Server {
	s := &Server{
		bus:       bus,
		outputDir: outputDir,
		hmr:       NewHMRHub(),
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.reportOutcome)
	r.Get("/status", s.handleStatus)
	r.Get("/hmr", s.hmr.Handle)
	r.Get("/{platform}.bundle", s.handleBundle)
	s.router = r

	return s
}

// Router exposes the configured handler, mainly for httptest.
func (s *Server) Router() http.Handler {
	return s.router
}

// HMR exposes the hot-reload hub so the watcher wiring can push reloads.
func (s *Server) HMR() *HMRHub {
	return s.hmr
}

// ListenAndServe runs the server until the listener fails or the server is
// shut down.
func (s *Server) ListenAndServe(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server: %w", err)
	}
	return nil
}

// reportOutcome wraps every response and publishes the matching bus event:
// ResponseComplete below 400, ResponseFailed at 400 and above. Panics are
// turned into RequestFailed by the deferred recover before Recoverer sees
// them again.
func (s *Server) reportOutcome(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			if rec := recover(); rec != nil {
				s.bus.Publish(events.RequestFailed{
					Request:     events.Request{Method: r.Method, Path: r.URL.Path, StatusCode: http.StatusInternalServerError},
					Diagnostics: []string{fmt.Sprintf("panic: %v", rec)},
				})
				panic(rec) // let Recoverer write the 500
			}

			req := events.Request{Method: r.Method, Path: r.URL.Path, StatusCode: ww.Status()}
			if ww.Status() >= 400 {
				s.bus.Publish(events.ResponseFailed{Request: req})
			} else {
				s.bus.Publish(events.ResponseComplete{Request: req})
			}
		}()

		next.ServeHTTP(ww, r)
	})
}

// handleBundle serves <outputDir>/<platform>.bundle.
func (s *Server) handleBundle(w http.ResponseWriter, r *http.Request) {
	platform := chi.URLParam(r, "platform")
	path := filepath.Join(s.outputDir, platform+".bundle")

	f, err := os.Open(path)
	if err != nil {
		http.Error(w, fmt.Sprintf("bundle for %q not built yet", platform), http.StatusNotFound)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		http.Error(w, "stat bundle", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/javascript")
	http.ServeContent(w, r, platform+".bundle", info.ModTime(), f)
}

// handleStatus reports liveness and the number of connected HMR clients.
func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintf(w, "ok (%d hmr clients)\n", s.hmr.ClientCount())
}
