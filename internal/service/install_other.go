//go:build !windows
// +build !windows

package service

import "errors"

// ErrUnsupported is returned by the service manager operations on platforms
// without a Windows service control manager.
var ErrUnsupported = errors.New("service manager operations require Windows")

// Install is not supported on this platform.
func Install(id Identity) error {
	return ErrUnsupported
}

// Uninstall is not supported on this platform.
func Uninstall(id Identity) error {
	return ErrUnsupported
}

// QueryConfig is not supported on this platform.
func QueryConfig(name string) (InstalledConfig, error) {
	return InstalledConfig{}, ErrUnsupported
}
