//go:build !windows
// +build !windows

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"testservice/internal/service"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "TestService.json")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestRealMain_InstallReportsErrorAndExitsZero(t *testing.T) {
	cfgPath := writeConfig(t, `{"Logging": {"Console": false}}`)

	for _, verb := range []string{"install", "uninstall"} {
		t.Run(verb, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			code := realMain([]string{"-config", cfgPath, verb}, &stdout, &stderr)
			if code != 0 {
				t.Errorf("expected exit code 0, got %d (stderr %q)", code, stderr.String())
			}
			if !strings.Contains(stdout.String(), service.ErrUnsupported.Error()) {
				t.Errorf("expected %q on stdout, got %q", service.ErrUnsupported, stdout.String())
			}
			if strings.Contains(stdout.String(), "successfully") {
				t.Errorf("unexpected success message: %q", stdout.String())
			}
		})
	}
}

func TestRealMain_UnknownCommand(t *testing.T) {
	cfgPath := writeConfig(t, `{"Logging": {"Console": false}}`)

	var stdout, stderr bytes.Buffer
	if code := realMain([]string{"-config", cfgPath, "bogus"}, &stdout, &stderr); code != 2 {
		t.Errorf("expected exit code 2, got %d", code)
	}
	if !strings.Contains(stderr.String(), `Unknown command "bogus"`) {
		t.Errorf("expected unknown command on stderr, got %q", stderr.String())
	}
	if !strings.Contains(stderr.String(), "Usage:") {
		t.Errorf("expected usage on stderr, got %q", stderr.String())
	}
}

func TestRealMain_Version(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := realMain([]string{"-version"}, &stdout, &stderr); code != 0 {
		t.Errorf("expected exit code 0, got %d", code)
	}
	if !strings.HasPrefix(stdout.String(), "TestService dev") {
		t.Errorf("unexpected version output %q", stdout.String())
	}
}

func TestRealMain_BadFlag(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := realMain([]string{"-nope"}, &stdout, &stderr); code != 2 {
		t.Errorf("expected exit code 2, got %d", code)
	}
}

func TestRealMain_InvalidConfigWritesStartupError(t *testing.T) {
	cfgPath := writeConfig(t, `{"Task": {"Interval": "soon"}}`)

	var stdout, stderr bytes.Buffer
	if code := realMain([]string{"-config", cfgPath, "install"}, &stdout, &stderr); code != 1 {
		t.Errorf("expected exit code 1, got %d", code)
	}
	if !strings.Contains(stderr.String(), "failed to load configuration") {
		t.Errorf("expected load failure on stderr, got %q", stderr.String())
	}

	data, err := os.ReadFile(filepath.Join(filepath.Dir(cfgPath), "TestService-startup-error.log"))
	if err != nil {
		t.Fatalf("expected startup error file: %v", err)
	}
	if !strings.Contains(string(data), "failed to load configuration") {
		t.Errorf("unexpected startup error file content %q", data)
	}
}
