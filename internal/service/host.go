package service

import (
	"sync"

	"testservice/internal/logger"
)

// startWaitHint is how long the service control manager should wait for the
// next report while the service is starting, in milliseconds.
const startWaitHint = 3000

// Host runs one service instance per process.
type Host struct {
	identity  Identity
	work      func() error
	events    EventNotifier
	newSignal func() (StopSignal, error)

	mu       sync.Mutex
	reporter *statusReporter
	signal   StopSignal
}

// Option configures a Host.
type Option func(*Host)

// WithEventNotifier replaces the system event log.
func WithEventNotifier(n EventNotifier) Option {
	return func(h *Host) { h.events = n }
}

// WithStopSignal replaces the constructor of the stop signal.
func WithStopSignal(newSignal func() (StopSignal, error)) Option {
	return func(h *Host) { h.newSignal = newSignal }
}

// NewHost creates a Host that runs work once the service is running.
func NewHost(identity Identity, work func() error, opts ...Option) *Host {
	h := &Host{
		identity:  identity,
		work:      work,
		newSignal: newStopSignal,
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.events == nil {
		h.events = newEventNotifier(identity.Name)
	}
	return h
}

// Identity returns the service identity.
func (h *Host) Identity() Identity {
	return h.identity
}

// Serve runs the service lifecycle and returns the exit code reported with
// the final Stopped status. It blocks until a stop request arrives; control
// requests must be delivered to HandleControl from another goroutine.
func (h *Host) Serve(sink StatusSink) uint32 {
	h.mu.Lock()
	h.reporter = newStatusReporter(sink)
	h.mu.Unlock()

	h.NotifyEventLog(h.identity.DisplayName + " registered successfully")
	h.ReportStatus(StartPending, 0, startWaitHint)

	return h.initialize()
}

func (h *Host) initialize() uint32 {
	log := logger.WithComponent("service")

	sig, err := h.newSignal()
	if err != nil {
		code := ErrorCode(err)
		log.Error().Err(err).Uint32("code", code).Msg("Failed to create stop signal")
		h.ReportStatus(Stopped, code, 0)
		return code
	}

	h.mu.Lock()
	h.signal = sig
	h.mu.Unlock()

	h.ReportStatus(Running, 0, 0)

	if h.work != nil {
		if err := h.work(); err != nil {
			log.Error().Err(err).Msg("Work failed")
		}
	}

	var code uint32
	if err := sig.Wait(); err != nil {
		code = ErrorCode(err)
		log.Error().Err(err).Uint32("code", code).Msg("Failed waiting for stop signal")
	}

	// Taking the lock orders this report after a concurrent stop sequence.
	h.mu.Lock()
	h.reportLocked(Stopped, code, 0)
	h.signal = nil
	h.mu.Unlock()

	if err := sig.Close(); err != nil {
		log.Warn().Err(err).Msg("Failed to close stop signal")
	}
	return code
}

// HandleControl answers a control request. It never waits for the work.
func (h *Host) HandleControl(c Control) {
	log := logger.WithComponent("service")

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.reporter == nil {
		return
	}

	switch c {
	case ControlStop:
		if h.signal == nil {
			return
		}
		log.Info().Msg("Stop requested")
		h.reportLocked(StopPending, 0, 0)
		if err := h.signal.Set(); err != nil {
			log.Error().Err(err).Msg("Failed to set stop signal")
		}
		h.reportLocked(h.reporter.last.State, 0, 0)

	case ControlInterrogate:
		h.reporter.resend()

	default:
		log.Debug().Uint32("control", uint32(c)).Msg("Ignoring control request")
	}
}

// ReportStatus pushes a status record to the service control manager.
func (h *Host) ReportStatus(state State, exitCode, waitHint uint32) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.reportLocked(state, exitCode, waitHint)
}

func (h *Host) reportLocked(state State, exitCode, waitHint uint32) {
	if h.reporter == nil {
		return
	}
	st := h.reporter.report(state, exitCode, waitHint)
	log := logger.WithComponent("service")
	log.Info().
		Stringer("state", st.State).
		Uint32("exit_code", st.Win32ExitCode).
		Uint32("checkpoint", st.CheckPoint).
		Uint32("wait_hint", st.WaitHint).
		Msg("Status reported")
}

// Status returns the last reported status.
func (h *Host) Status() Status {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.reporter == nil {
		return Status{}
	}
	return h.reporter.last
}

// NotifyEventLog writes message to the event log. Failures are ignored.
func (h *Host) NotifyEventLog(message string) {
	h.events.Info(message)
}
