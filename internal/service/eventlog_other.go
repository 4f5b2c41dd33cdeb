//go:build !windows
// +build !windows

package service

import "testservice/internal/logger"

// logNotifier stands in for the event log by writing to the service log.
type logNotifier struct {
	name string
}

func newEventNotifier(name string) EventNotifier {
	return logNotifier{name: name}
}

func (n logNotifier) Info(message string) {
	log := logger.WithComponent("eventlog")
	log.Info().Str("source", n.name).Msg(message)
}

// ReportStartupError logs err; there is no event log on this platform.
func ReportStartupError(name string, err error) {
	log := logger.WithComponent("eventlog")
	log.Error().Err(err).Str("source", name).Msg("Failed to start")
}
