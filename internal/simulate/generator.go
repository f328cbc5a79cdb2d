// Package simulate appends synthetic log lines to a file so the shipping
// pipeline (agent, store, dashboards) can be exercised without live streams.
package simulate

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"time"
)

// DefaultInterval is the default delay between generated lines.
const DefaultInterval = 1 * time.Second

var levels = []string{"INFO", "WARNING", "ERROR", "DEBUG"}

var messages = []string{
	"stream connected",
	"keyframe received",
	"packet loss detected",
	"jitter above threshold",
	"bitrate renegotiated",
	"stream disconnected",
	"buffer underrun",
	"checksum mismatch",
}

// Generator writes one pseudo-random level/message line per interval.
type Generator struct {
	path     string
	interval time.Duration
	rng      *rand.Rand
	now      func() time.Time
	logger   *slog.Logger
}

// NewGenerator creates a Generator writing to path. A zero interval selects
// DefaultInterval; a nil seed source falls back to the current time.
func NewGenerator(path string, interval time.Duration, logger *slog.Logger) *Generator {
	if interval == 0 {
		interval = DefaultInterval
	}
	return &Generator{
		path:     path,
		interval: interval,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		now:      time.Now,
		logger:   logger.With("component", "simulate", "path", path),
	}
}

// Run appends lines until ctx is cancelled. Write errors are logged and the
// loop keeps going; a transient full disk should not kill a soak test.
func (g *Generator) Run(ctx context.Context) error {
	g.logger.Info("generating log lines", "interval", g.interval)

	ticker := time.NewTicker(g.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			g.logger.Info("stopping", "reason", ctx.Err())
			return ctx.Err()
		case <-ticker.C:
			if err := g.writeLine(); err != nil {
				g.logger.Warn("write failed, will retry", "error", err)
			}
		}
	}
}

// writeLine appends one formatted line to the target file.
func (g *Generator) writeLine() error {
	f, err := os.OpenFile(g.path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("simulate: open %s: %w", g.path, err)
	}
	defer f.Close()

	line := fmt.Sprintf("%s %s %s\n",
		g.now().Format("2006-01-02 15:04:05"),
		levels[g.rng.Intn(len(levels))],
		messages[g.rng.Intn(len(messages))],
	)
	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("simulate: append %s: %w", g.path, err)
	}
	return nil
}
