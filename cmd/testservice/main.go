// Package main is the entry point for TestService.
//
// Usage:
//
//	testservice [-config path] install    register with the service control manager
//	testservice [-config path] uninstall  remove the registration
//	testservice [-config path]            run (as a service, or in the console)
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"testservice/internal/config"
	"testservice/internal/logger"
	"testservice/internal/service"
	"testservice/internal/task"
)

var (
	version   = "dev"
	buildTime = "unknown"
	// binaryPath fixes the registered executable path at build time:
	// -ldflags "-X main.binaryPath=D:\path\TestService.exe"
	binaryPath = ""
)

func main() {
	os.Exit(realMain(os.Args[1:], os.Stdout, os.Stderr))
}

func realMain(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet(filepath.Base(os.Args[0]), flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		configPath  = fs.String("config", config.DefaultPath(), "Path to configuration file")
		showVersion = fs.Bool("version", false, "Show version information")
	)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: %s [flags] [install|uninstall]\n", fs.Name())
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	if *showVersion {
		fmt.Fprintf(stdout, "TestService %s (built %s)\n", version, buildTime)
		return 0
	}

	if service.IsService() {
		logger.SetServiceMode(true)
	}

	baseDir := filepath.Dir(*configPath)

	cfg, err := config.Load(*configPath)
	if err != nil {
		startupFailure(stderr, baseDir, config.DefaultServiceName, fmt.Errorf("failed to load configuration: %w", err))
		return 1
	}
	cfg.ResolvePaths(baseDir)
	if cfg.Service.BinaryPath == "" {
		cfg.Service.BinaryPath = binaryPath
	}

	if err := logger.Init(cfg.Logging); err != nil {
		startupFailure(stderr, baseDir, cfg.Service.Name, fmt.Errorf("failed to initialize logger: %w", err))
		return 1
	}
	defer logger.Close()

	identity := service.Identity{
		Name:        cfg.Service.Name,
		DisplayName: cfg.Service.DisplayName,
		BinaryPath:  cfg.Service.BinaryPath,
	}

	switch cmd := fs.Arg(0); cmd {
	case "install":
		return install(stdout, identity)
	case "uninstall":
		return uninstall(stdout, identity)
	case "":
		return run(cfg, identity, *configPath)
	default:
		fmt.Fprintf(stderr, "Unknown command %q\n", cmd)
		fs.Usage()
		return 2
	}
}

func startupFailure(stderr io.Writer, dir, name string, err error) {
	service.ReportStartupError(name, err)
	service.WriteStartupErrorFile(dir, name, err)
	fmt.Fprintln(stderr, err)
}

// install registers the service. The process exits 0 whether or not the
// registration succeeded; failures are printed with their error code.
func install(stdout io.Writer, id service.Identity) int {
	log := logger.WithComponent("main")

	if err := service.Install(id); err != nil {
		log.Error().Err(err).Uint32("code", service.ErrorCode(err)).Msg("Install failed")
		fmt.Fprintln(stdout, err)
		return 0
	}
	fmt.Fprintln(stdout, "Service installed successfully")

	if cfg, err := service.QueryConfig(id.Name); err == nil {
		log.Info().
			Str("name", id.Name).
			Str("binary_path", cfg.BinaryPath).
			Uint32("start_type", cfg.StartType).
			Msg("Service registered")
	}
	return 0
}

func uninstall(stdout io.Writer, id service.Identity) int {
	log := logger.WithComponent("main")

	if err := service.Uninstall(id); err != nil {
		log.Error().Err(err).Uint32("code", service.ErrorCode(err)).Msg("Uninstall failed")
		fmt.Fprintln(stdout, err)
		return 0
	}
	fmt.Fprintln(stdout, "Service removed successfully")
	return 0
}

func run(cfg *config.Config, id service.Identity, configPath string) int {
	log := logger.WithComponent("main")
	log.Info().
		Str("version", version).
		Str("config", configPath).
		Str("output", cfg.Task.OutputPath).
		Bool("service", service.IsService()).
		Msg("Starting TestService")

	stopWatcher := watchLogging(configPath)
	defer stopWatcher()

	steps := task.NewStepWriter(cfg.Task, nil)
	host := service.NewHost(id, steps.Run)

	if err := service.Run(host); err != nil {
		log.Error().Err(err).Msg("Service exited with error")
		return 1
	}

	log.Info().Msg("TestService stopped")
	return 0
}

// watchLogging re-applies the Logging section whenever the configuration
// file changes. It returns a function that stops the watcher.
func watchLogging(configPath string) func() {
	log := logger.WithComponent("main")
	baseDir := filepath.Dir(configPath)

	w, err := config.NewLoggingWatcher(configPath, func(lc *logger.Config) {
		lc.FilePath = config.ResolvePath(baseDir, lc.FilePath)
		if err := logger.Init(*lc); err != nil {
			l := logger.WithComponent("main")
			l.Error().Err(err).Msg("Failed to apply logging configuration")
			return
		}
		l := logger.WithComponent("main")
		l.Info().Str("level", lc.Level).Msg("Logging configuration updated")
	})
	if err != nil {
		log.Warn().Err(err).Msg("Failed to create configuration watcher, hot reload disabled")
		return func() {}
	}
	if err := w.Start(); err != nil {
		log.Warn().Err(err).Msg("Failed to start configuration watcher, hot reload disabled")
		_ = w.Stop()
		return func() {}
	}

	return func() {
		if err := w.Stop(); err != nil {
			l := logger.WithComponent("main")
			l.Error().Err(err).Msg("Error stopping configuration watcher")
		}
	}
}
