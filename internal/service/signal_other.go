//go:build !windows
// +build !windows

package service

func newStopSignal() (StopSignal, error) {
	return newChanSignal(), nil
}
