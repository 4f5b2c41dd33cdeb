package task

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/goleak"

	"testservice/internal/config"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// runWithMock runs w in a goroutine and advances mock until Run returns.
func runWithMock(t *testing.T, w *StepWriter, mock *clock.Mock) error {
	t.Helper()
	done := make(chan error, 1)
	go func() { done <- w.Run() }()

	deadline := time.After(10 * time.Second)
	for {
		select {
		case err := <-done:
			return err
		case <-deadline:
			t.Fatal("step writer did not finish")
		default:
			mock.Add(time.Second)
		}
	}
}

func TestStepWriter_WritesSixtyLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	mock := clock.NewMock()
	w := NewStepWriter(config.TaskConfig{OutputPath: path, Steps: 60, Interval: time.Second}, mock)

	start := mock.Now()
	if err := runWithMock(t, w, mock); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	if len(lines) != 60 {
		t.Fatalf("expected 60 lines, got %d", len(lines))
	}
	for i, line := range lines {
		if want := fmt.Sprintf("Step %d", i); line != want {
			t.Errorf("line %d: expected %q, got %q", i, want, line)
		}
	}

	if elapsed := mock.Since(start); elapsed < 60*time.Second {
		t.Errorf("expected at least 60s of clock time, got %s", elapsed)
	}
}

func TestStepWriter_WritesBeforeWaiting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	mock := clock.NewMock()
	w := NewStepWriter(config.TaskConfig{OutputPath: path, Steps: 3, Interval: time.Second}, mock)

	done := make(chan error, 1)
	go func() { done <- w.Run() }()

	var data []byte
	for i := 0; i < 200; i++ {
		data, _ = os.ReadFile(path)
		if len(data) > 0 {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	if string(data) != "Step 0\n" {
		t.Errorf("expected only the first step before the clock moves, got %q", data)
	}

	for {
		select {
		case err := <-done:
			if err != nil {
				t.Fatalf("Run failed: %v", err)
			}
			return
		default:
			mock.Add(time.Second)
		}
	}
}

func TestStepWriter_TruncatesPreviousOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	if err := os.WriteFile(path, []byte("stale\nstale\nstale\nstale\n"), 0644); err != nil {
		t.Fatal(err)
	}

	mock := clock.NewMock()
	w := NewStepWriter(config.TaskConfig{OutputPath: path, Steps: 2, Interval: time.Second}, mock)
	if err := runWithMock(t, w, mock); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	data, _ := os.ReadFile(path)
	if string(data) != "Step 0\nStep 1\n" {
		t.Errorf("unexpected output %q", data)
	}
}

func TestStepWriter_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "out.txt")
	mock := clock.NewMock()
	w := NewStepWriter(config.TaskConfig{OutputPath: path, Steps: 1, Interval: time.Second}, mock)

	if err := runWithMock(t, w, mock); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("output not created: %v", err)
	}
}

func TestStepWriter_UnwritablePath(t *testing.T) {
	dir := t.TempDir()
	// A regular file where a directory is expected.
	blocker := filepath.Join(dir, "blocker")
	if err := os.WriteFile(blocker, nil, 0644); err != nil {
		t.Fatal(err)
	}

	w := NewStepWriter(config.TaskConfig{OutputPath: filepath.Join(blocker, "out.txt"), Steps: 1, Interval: time.Second}, clock.NewMock())
	if err := w.Run(); err == nil {
		t.Fatal("expected an error for an unwritable path")
	}
}
