//go:build windows
// +build windows

package service

import (
	"golang.org/x/sys/windows"
	"golang.org/x/sys/windows/svc/eventlog"
	"golang.org/x/sys/windows/svc/mgr"

	"testservice/internal/logger"
)

// Install registers the service as an own-process service with manual start,
// normal error control, no dependencies and the LocalSystem account. An
// existing registration is not checked for; the service control manager
// rejects duplicates. Nothing is rolled back on failure.
func Install(id Identity) error {
	log := logger.WithComponent("install")

	path, err := id.executable()
	if err != nil {
		return err
	}

	m, err := mgr.Connect()
	if err != nil {
		return &OSError{Op: OpOpenManager, Err: err}
	}
	defer m.Disconnect()

	s, err := m.CreateService(id.Name, path, mgr.Config{
		ServiceType:  windows.SERVICE_WIN32_OWN_PROCESS,
		StartType:    mgr.StartManual,
		ErrorControl: mgr.ErrorNormal,
		DisplayName:  id.DisplayName,
	})
	if err != nil {
		return &OSError{Op: OpCreateService, Err: err}
	}
	defer s.Close()

	log.Info().
		Str("name", id.Name).
		Str("binary_path", path).
		Msg("Service created")

	if err := eventlog.InstallAsEventCreate(id.Name, eventlog.Error|eventlog.Warning|eventlog.Info); err != nil {
		log.Warn().Err(err).Msg("Failed to register event source")
	}
	newEventNotifier(id.Name).Info(id.DisplayName + " installed")
	return nil
}

// Uninstall deletes the service registration and its event source. A
// running service is not stopped first; the service control manager removes
// it once it stops.
func Uninstall(id Identity) error {
	log := logger.WithComponent("install")

	m, err := mgr.Connect()
	if err != nil {
		return &OSError{Op: OpOpenManager, Err: err}
	}
	defer m.Disconnect()

	s, err := m.OpenService(id.Name)
	if err != nil {
		return &OSError{Op: OpOpenService, Err: err}
	}
	defer s.Close()

	if err := s.Delete(); err != nil {
		return &OSError{Op: OpDeleteService, Err: err}
	}
	log.Info().Str("name", id.Name).Msg("Service deleted")

	if err := eventlog.Remove(id.Name); err != nil {
		log.Warn().Err(err).Msg("Failed to remove event source")
	}
	return nil
}

// QueryConfig reads the registry entry of the named service.
func QueryConfig(name string) (InstalledConfig, error) {
	m, err := mgr.Connect()
	if err != nil {
		return InstalledConfig{}, &OSError{Op: OpOpenManager, Err: err}
	}
	defer m.Disconnect()

	s, err := m.OpenService(name)
	if err != nil {
		return InstalledConfig{}, &OSError{Op: OpOpenService, Err: err}
	}
	defer s.Close()

	c, err := s.Config()
	if err != nil {
		return InstalledConfig{}, &OSError{Op: OpQueryConfig, Err: err}
	}
	return InstalledConfig{
		DisplayName:      c.DisplayName,
		BinaryPath:       c.BinaryPathName,
		ServiceType:      c.ServiceType,
		StartType:        c.StartType,
		ErrorControl:     c.ErrorControl,
		ServiceStartName: c.ServiceStartName,
	}, nil
}
