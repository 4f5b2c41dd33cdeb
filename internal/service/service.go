// Package service runs TestService under the Windows service control manager.
//
// Host owns the lifecycle: it reports status, creates the stop signal, runs
// the work and answers control requests. Platform files adapt it to
// golang.org/x/sys/windows/svc or, elsewhere, to a console signal loop.
package service

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"syscall"
)

// Identity names the service in the service control manager.
type Identity struct {
	Name        string
	DisplayName string
	BinaryPath  string // empty means the running executable
}

// executable returns the absolute binary path registered for the service.
func (id Identity) executable() (string, error) {
	path := id.BinaryPath
	if path == "" {
		exe, err := os.Executable()
		if err != nil {
			return "", fmt.Errorf("failed to locate executable: %w", err)
		}
		path = exe
	}
	return filepath.Abs(path)
}

// State is a service state. Values match the Win32 SERVICE_* constants.
type State uint32

const (
	Stopped      State = 1
	StartPending State = 2
	StopPending  State = 3
	Running      State = 4
)

func (s State) String() string {
	switch s {
	case Stopped:
		return "Stopped"
	case StartPending:
		return "StartPending"
	case StopPending:
		return "StopPending"
	case Running:
		return "Running"
	default:
		return fmt.Sprintf("State(%d)", uint32(s))
	}
}

// Control is a control code sent by the service control manager.
type Control uint32

const (
	ControlStop        Control = 1
	ControlPause       Control = 2
	ControlContinue    Control = 3
	ControlInterrogate Control = 4
	ControlShutdown    Control = 5
)

// Accepted is the mask of controls the service currently accepts.
type Accepted uint32

const AcceptStop Accepted = 1

// Status is the record pushed to the service control manager.
type Status struct {
	State         State
	Accepts       Accepted
	Win32ExitCode uint32
	WaitHint      uint32 // milliseconds
	CheckPoint    uint32
}

// StatusSink receives every status report.
type StatusSink interface {
	SetStatus(Status)
}

// StatusSinkFunc adapts a function to StatusSink.
type StatusSinkFunc func(Status)

func (f StatusSinkFunc) SetStatus(s Status) { f(s) }

// StopSignal is a manual-reset event. Set may be called more than once;
// Wait returns once it has been set.
type StopSignal interface {
	Set() error
	Wait() error
	Close() error
}

// EventNotifier writes informational records to the system event log.
type EventNotifier interface {
	Info(message string)
}

// InstalledConfig is the registry entry of an installed service.
type InstalledConfig struct {
	DisplayName      string
	BinaryPath       string
	ServiceType      uint32
	StartType        uint32
	ErrorControl     uint32
	ServiceStartName string
}

// Operations wrapped by OSError.
const (
	OpOpenManager     = "OpenSCManager"
	OpCreateService   = "CreateService"
	OpOpenService     = "OpenService"
	OpDeleteService   = "DeleteService"
	OpQueryConfig     = "QueryServiceConfig"
	OpStartDispatcher = "StartServiceCtrlDispatcher"
	OpCreateStopEvent = "CreateEvent"
)

// OSError is a failed operating system call.
type OSError struct {
	Op  string
	Err error
}

func (e *OSError) Error() string {
	return fmt.Sprintf("%s failed, error code: %d", e.Op, ErrorCode(e.Err))
}

func (e *OSError) Unwrap() error { return e.Err }

// ERROR_GEN_FAILURE, used when an error carries no system code.
const genericFailure uint32 = 31

// ErrorCode extracts the system error code from err, 0 for nil.
func ErrorCode(err error) uint32 {
	if err == nil {
		return 0
	}
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return uint32(errno)
	}
	return genericFailure
}
