// Package compiler runs one bundler worker subprocess per platform and
// republishes its progress stream on the event bus.
package compiler

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"sync"

	"github.com/lejimsft/haul/internal/config"
	"github.com/lejimsft/haul/internal/events"
)

// Driver owns the bundler workers. Each Rebuild spawns a fresh worker for
// the platform (killing any previous one), publishes CompilationStart, and
// forwards the worker's parsed output to the bus until it exits.
type Driver struct {
	bus       *events.Bus
	dir       string
	platforms []config.PlatformConfig

	mu      sync.Mutex
	cancels map[string]context.CancelFunc
	wg      sync.WaitGroup
}

// NewDriver creates a Driver for the configured platforms. dir is the
// working directory workers run in.
func NewDriver(bus *events.Bus, dir string, platforms []config.PlatformConfig) *Driver {
	return &Driver{
		bus:       bus,
		dir:       dir,
		platforms: platforms,
		cancels:   make(map[string]context.CancelFunc),
	}
}

// BuildAll starts a build for every configured platform.
func (d *Driver) BuildAll(ctx context.Context) {
	for _, p := range d.platforms {
		d.Rebuild(ctx, p.ID)
	}
}

// Rebuild (re)starts the worker for the given platform. An in-flight build
// for the same platform is cancelled first; its events stop once its stdout
// drains.
func (d *Driver) Rebuild(ctx context.Context, platform string) {
	cfg, ok := d.lookup(platform)
	if !ok {
		return
	}

	d.mu.Lock()
	if cancel, running := d.cancels[platform]; running {
		cancel()
	}
	workerCtx, cancel := context.WithCancel(ctx)
	d.cancels[platform] = cancel
	d.mu.Unlock()

	d.bus.Publish(events.CompilationStart{Platform: platform})

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		if err := d.runWorker(workerCtx, cfg); err != nil && workerCtx.Err() == nil {
			d.bus.Publish(events.CompilationFailed{Platform: platform, Message: err.Error()})
		}
	}()
}

// runWorker spawns the platform's worker command and forwards its parsed
// output to the bus until the stream ends.
func (d *Driver) runWorker(ctx context.Context, cfg config.PlatformConfig) error {
	parts := strings.Fields(cfg.Command)
	if len(parts) == 0 {
		return fmt.Errorf("compiler: platform %q has no command", cfg.ID)
	}
	args := append(parts[1:], cfg.ID)

	cmd := exec.CommandContext(ctx, parts[0], args...) //nolint:gosec
	cmd.Dir = d.dir
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("compiler: stdout pipe for %s: %w", cfg.ID, err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("compiler: start worker for %s: %w", cfg.ID, err)
	}

	for ev := range ParseStream(cfg.ID, stdout) {
		d.bus.Publish(ev)
	}

	if err := cmd.Wait(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("compiler: worker for %s: %w", cfg.ID, err)
	}
	return nil
}

// Stop cancels all running workers and waits for their streams to drain.
func (d *Driver) Stop() {
	d.mu.Lock()
	for _, cancel := range d.cancels {
		cancel()
	}
	d.mu.Unlock()
	d.wg.Wait()
}

// Platforms returns the configured platform ids in configuration order.
func (d *Driver) Platforms() []string {
	ids := make([]string, len(d.platforms))
	for i, p := range d.platforms {
		ids[i] = p.ID
	}
	return ids
}

func (d *Driver) lookup(platform string) (config.PlatformConfig, bool) {
	for _, p := range d.platforms {
		if p.ID == platform {
			return p, true
		}
	}
	return config.PlatformConfig{}, false
}
