// Package logger provides structured logging with file rotation support.
package logger

import (
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// consoleWriter hands console output to a background goroutine so a stalled
// console (Quick Edit selection in cmd.exe) cannot hold up the file log.
// Lines are dropped when the queue is full.
type consoleWriter struct {
	queue  chan []byte
	out    io.Writer
	done   chan struct{}
	mu     sync.RWMutex
	closed bool
	once   sync.Once
}

func newConsoleWriter(out io.Writer, depth int) *consoleWriter {
	cw := &consoleWriter{
		queue: make(chan []byte, depth),
		out:   out,
		done:  make(chan struct{}),
	}
	go cw.loop()
	return cw
}

func (cw *consoleWriter) Write(p []byte) (int, error) {
	cw.mu.RLock()
	defer cw.mu.RUnlock()
	if cw.closed {
		return len(p), nil
	}
	line := append([]byte(nil), p...)
	select {
	case cw.queue <- line:
	default:
	}
	return len(p), nil
}

func (cw *consoleWriter) loop() {
	defer close(cw.done)
	for line := range cw.queue {
		_, _ = cw.out.Write(line)
	}
}

// Close flushes queued lines and stops the writer goroutine.
func (cw *consoleWriter) Close() error {
	cw.once.Do(func() {
		cw.mu.Lock()
		cw.closed = true
		close(cw.queue)
		cw.mu.Unlock()
		<-cw.done
	})
	return nil
}

// Config holds the logger configuration.
type Config struct {
	Level      string `json:"Level"`
	FilePath   string `json:"FilePath"`
	Format     string `json:"Format"` // "json" or "text"
	MaxSizeMB  int    `json:"MaxSizeMB"`
	MaxBackups int    `json:"MaxBackups"`
	MaxAgeDays int    `json:"MaxAgeDays"`
	Compress   bool   `json:"Compress"`
	Console    bool   `json:"Console"`
}

// DefaultConfig returns the logging defaults used when no file overrides them.
func DefaultConfig() Config {
	return Config{
		Level:      "info",
		FilePath:   "log/TestService/service.log",
		Format:     "text",
		MaxSizeMB:  10,
		MaxBackups: 3,
		MaxAgeDays: 30,
		Compress:   true,
		Console:    true,
	}
}

// swapWriter is the single writer behind the global logger. Init replaces
// its target, so loggers derived before a reload follow the new output.
type swapWriter struct {
	mu     sync.RWMutex
	target io.Writer
}

func (w *swapWriter) Write(p []byte) (int, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.target.Write(p)
}

// swap installs target and returns once no Write still uses the old one.
func (w *swapWriter) swap(target io.Writer) {
	w.mu.Lock()
	w.target = target
	w.mu.Unlock()
}

var (
	mu          sync.Mutex
	output      = &swapWriter{target: io.Discard}
	global      = zerolog.New(output).With().Timestamp().Logger()
	serviceMode bool
	closers     []io.Closer
)

// SetServiceMode disables console output. A process started by the service
// control manager has no console attached.
func SetServiceMode(enabled bool) {
	mu.Lock()
	defer mu.Unlock()
	serviceMode = enabled
}

// Init points the global logger at the writers described by cfg. Writers from
// a previous call are closed after the switch.
func Init(cfg Config) error {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	mu.Lock()
	defer mu.Unlock()

	var (
		writers []io.Writer
		opened  []io.Closer
	)

	if cfg.FilePath != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.FilePath), 0755); err != nil {
			return err
		}
		file := &lumberjack.Logger{
			Filename:   cfg.FilePath,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   cfg.Compress,
		}
		opened = append(opened, file)
		if cfg.Format == "text" {
			writers = append(writers, NewTextWriter(file))
		} else {
			writers = append(writers, file)
		}
	}

	if cfg.Console && !serviceMode {
		cw := newConsoleWriter(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: "15:04:05.000",
		}, 1000)
		opened = append(opened, cw)
		writers = append(writers, cw)
	}

	var out io.Writer
	switch len(writers) {
	case 0:
		out = io.Discard
	case 1:
		out = writers[0]
	default:
		out = zerolog.MultiLevelWriter(writers...)
	}

	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339Nano

	output.swap(out)
	closeAll(closers)
	closers = opened
	return nil
}

// Close discards further output and releases the writers opened by Init.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	output.swap(io.Discard)
	closeAll(closers)
	closers = nil
}

func closeAll(cs []io.Closer) {
	for _, c := range cs {
		_ = c.Close()
	}
}

// Logger returns the global logger instance.
func Logger() zerolog.Logger {
	mu.Lock()
	defer mu.Unlock()
	return global
}

// Info logs an info message.
func Info() *zerolog.Event {
	l := Logger()
	return l.Info()
}

// Error logs an error message.
func Error() *zerolog.Event {
	l := Logger()
	return l.Error()
}

// WithComponent returns a logger with component field.
func WithComponent(component string) zerolog.Logger {
	return Logger().With().Str("component", component).Logger()
}
