// Package task holds the unit of work the service performs while running.
package task

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/benbjohnson/clock"

	"testservice/internal/config"
	"testservice/internal/logger"
)

// StepWriter writes "Step <n>" lines to a file, one per interval.
type StepWriter struct {
	path     string
	steps    int
	interval time.Duration
	clock    clock.Clock
}

// NewStepWriter creates a StepWriter. A nil clk uses the wall clock.
func NewStepWriter(cfg config.TaskConfig, clk clock.Clock) *StepWriter {
	if clk == nil {
		clk = clock.New()
	}
	return &StepWriter{
		path:     cfg.OutputPath,
		steps:    cfg.Steps,
		interval: cfg.Interval,
		clock:    clk,
	}
}

// Path returns the output file path.
func (w *StepWriter) Path() string {
	return w.path
}

// Run truncates the output file and writes every step, waiting one interval
// after each line. It runs to completion; there is no way to cut it short.
func (w *StepWriter) Run() error {
	log := logger.WithComponent("task")

	if dir := filepath.Dir(w.path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.Create(w.path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	log.Info().
		Str("path", w.path).
		Int("steps", w.steps).
		Dur("interval", w.interval).
		Msg("Writing steps")

	start := w.clock.Now()
	for i := 0; i < w.steps; i++ {
		if _, err := fmt.Fprintf(f, "Step %d\n", i); err != nil {
			return fmt.Errorf("failed to write step %d: %w", i, err)
		}
		w.clock.Sleep(w.interval)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close output file: %w", err)
	}

	log.Info().
		Str("path", w.path).
		Dur("elapsed", w.clock.Since(start)).
		Msg("Steps written")
	return nil
}
