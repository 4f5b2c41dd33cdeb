//go:build windows
// +build windows

package service

import (
	"fmt"

	"golang.org/x/sys/windows"
)

// eventSignal is a manual-reset kernel event, initially unset.
type eventSignal struct {
	h windows.Handle
}

func newStopSignal() (StopSignal, error) {
	h, err := windows.CreateEvent(nil, 1, 0, nil)
	if err != nil {
		return nil, &OSError{Op: OpCreateStopEvent, Err: err}
	}
	return &eventSignal{h: h}, nil
}

func (s *eventSignal) Set() error {
	return windows.SetEvent(s.h)
}

func (s *eventSignal) Wait() error {
	ev, err := windows.WaitForSingleObject(s.h, windows.INFINITE)
	if err != nil {
		return err
	}
	if ev != windows.WAIT_OBJECT_0 {
		return fmt.Errorf("unexpected wait result %#x", ev)
	}
	return nil
}

func (s *eventSignal) Close() error {
	return windows.CloseHandle(s.h)
}
