//go:build !windows
// +build !windows

package service

import (
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"testservice/internal/logger"
)

// IsService always reports false; there is no service control manager.
func IsService() bool {
	return false
}

// Run drives h from the console. SIGINT and SIGTERM are delivered as stop
// requests.
func Run(h *Host) error {
	log := logger.WithComponent("console")

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case sig := <-sigs:
				log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
				h.HandleControl(ControlStop)
			case <-done:
				return
			}
		}
	}()

	code := h.Serve(StatusSinkFunc(func(Status) {}))
	close(done)
	wg.Wait()

	if code != 0 {
		return fmt.Errorf("service stopped with exit code %d", code)
	}
	return nil
}
