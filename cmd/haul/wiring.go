package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"

	"github.com/lejimsft/haul/internal/compiler"
	"github.com/lejimsft/haul/internal/config"
	"github.com/lejimsft/haul/internal/dashboard"
	"github.com/lejimsft/haul/internal/events"
	"github.com/lejimsft/haul/internal/notify"
	"github.com/lejimsft/haul/internal/server"
	"github.com/lejimsft/haul/internal/tui"
	"github.com/lejimsft/haul/internal/watcher"
)

// runServe wires the whole stack: bus, dev server, bundler workers, file
// watcher, notifications, and either the dashboard TUI or a plain log sink.
func runServe(portOverride int, noTUI bool) error {
	cfg, err := config.Load("")
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if portOverride > 0 {
		cfg.Server.Port = portOverride
	}

	dir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	ctx := signalContext()
	bus := events.NewBus()

	srv := server.New(bus, cfg.Bundle.OutputDir)
	driver := compiler.NewDriver(bus, dir, cfg.Platforms)
	defer driver.Stop()

	// A clean build pushes a hot reload to connected clients.
	unsubHMR := bus.Subscribe(func(ev events.Event) {
		if fin, ok := ev.(events.CompilationFinished); ok && len(fin.Errors) == 0 {
			srv.HMR().Broadcast()
		}
	})
	defer unsubHMR()

	if cfg.Notifications.URL != "" {
		n := notify.New(cfg.Notifications.URL, cfg.Project.Name, cfg.Notifications.OnFailure, cfg.Notifications.OnBundleErrs)
		unsubNotify := bus.Subscribe(n.Handle)
		defer unsubNotify()
	}

	w, err := watcher.New(cfg.Watch.Roots, time.Duration(cfg.Watch.DebounceMS)*time.Millisecond, func() {
		driver.BuildAll(ctx)
	})
	if err != nil {
		return err
	}
	defer w.Close()

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.ListenAndServe(addr)
	}()

	// Deferred so each mode can subscribe its sink before the first
	// build's events start flowing.
	start := func() {
		bus.Publish(events.Log{Level: "info", Args: []any{"dev server listening on", addr}})
		driver.BuildAll(ctx)
	}

	if noTUI || !isatty.IsTerminal(os.Stdout.Fd()) {
		return runPlain(ctx, bus, serverErr, start)
	}
	return runDashboard(ctx, bus, cfg, serverErr, start)
}

// reportServerFailure surfaces a dev server listen failure as an error log
// event, so the dashboard shows it instead of running over a dead server.
func reportServerFailure(bus *events.Bus, serverErr <-chan error, done <-chan struct{}) {
	select {
	case err := <-serverErr:
		if err != nil {
			bus.Publish(events.Log{Level: "error", Args: []any{"server:", err.Error()}})
		}
	case <-done:
	}
}

// runDashboard runs the bubbletea dashboard until the user quits or the
// process is signalled.
func runDashboard(ctx context.Context, bus *events.Bus, cfg *config.Config, serverErr <-chan error, start func()) error {
	feed := tui.NewFeed(bus, 0)
	defer feed.Close()

	done := make(chan struct{})
	defer close(done)
	go reportServerFailure(bus, serverErr, done)

	p := tea.NewProgram(
		tui.New(feed.Events(), cfg.TUI.AccentColor, cfg.Project.Name),
		tea.WithAltScreen(),
	)

	start()

	go func() {
		<-ctx.Done()
		p.Quit()
	}()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("dashboard: %w", err)
	}
	return nil
}

// runPlain streams rendered log lines to stdout until the context is
// cancelled or the server fails. Used when stdout is not a terminal.
func runPlain(ctx context.Context, bus *events.Bus, serverErr <-chan error, start func()) error {
	unsub := bus.Subscribe(plainSink(os.Stdout))
	defer unsub()

	start()

	select {
	case <-ctx.Done():
		return nil
	case err := <-serverErr:
		return err
	}
}

// plainSink renders bus events as timestamped plain-text lines. State is
// folded through the same reducer the dashboard uses, so synthesized error
// entries (build failures, bundler errors) appear here too. Bus handlers run
// on each publisher's goroutine (workers, HTTP middleware), so the fold is
// serialized by a mutex.
func plainSink(w io.Writer) events.Handler {
	var mu sync.Mutex
	state := dashboard.NewState(0)
	return func(ev events.Event) {
		mu.Lock()
		defer mu.Unlock()

		prevLast := lastKey(state.Logs)
		state = dashboard.Reduce(state, ev)

		// Print every entry this event appended.
		for _, e := range state.Logs.Entries() {
			if e.Key <= prevLast {
				continue
			}
			ts := time.UnixMilli(e.Timestamp).Format("15:04:05")
			if e.Kind == dashboard.KindRuntime {
				fmt.Fprintf(w, "[%s] %-5s %s\n", ts, e.Level, e.Text())
			} else {
				fmt.Fprintf(w, "[%s] %s\n", ts, e.Text())
			}
		}
	}
}

// lastKey returns the newest entry key in the buffer, or 0 when empty.
func lastKey(b dashboard.Buffer) uint64 {
	entries := b.Entries()
	if len(entries) == 0 {
		return 0
	}
	return entries[len(entries)-1].Key
}
