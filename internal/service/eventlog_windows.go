//go:build windows
// +build windows

package service

import (
	"fmt"

	"golang.org/x/sys/windows/svc/eventlog"
)

// Event identifiers used with the EventCreate message file.
const (
	eventInfo  = 1
	eventError = 2
)

type eventLogNotifier struct {
	name string
}

func newEventNotifier(name string) EventNotifier {
	return eventLogNotifier{name: name}
}

func (n eventLogNotifier) Info(message string) {
	elog, err := eventlog.Open(n.name)
	if err != nil {
		return
	}
	defer elog.Close()
	_ = elog.Info(eventInfo, message)
}

// ReportStartupError writes err to the event log, registering the source
// first if needed. Used before the logger is available.
func ReportStartupError(name string, err error) {
	_ = eventlog.InstallAsEventCreate(name, eventlog.Error|eventlog.Warning|eventlog.Info)

	elog, openErr := eventlog.Open(name)
	if openErr != nil {
		return
	}
	defer elog.Close()

	_ = elog.Error(eventError, fmt.Sprintf("Failed to start: %v", err))
}
