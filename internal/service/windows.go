//go:build windows
// +build windows

package service

import (
	"fmt"
	"sync"

	"golang.org/x/sys/windows/svc"
	"golang.org/x/sys/windows/svc/debug"

	"testservice/internal/logger"
)

// IsService reports whether the process was started by the service control
// manager.
func IsService() bool {
	isService, err := svc.IsWindowsService()
	if err != nil {
		return false
	}
	return isService
}

// Run connects h to the service control manager and blocks until the service
// stops. Outside a service session the same handler runs in the console,
// where Ctrl+C acts as a stop request.
func Run(h *Host) error {
	log := logger.WithComponent("service")

	run := debug.Run
	if IsService() {
		run = svc.Run
	}

	hd := &handler{host: h}
	if err := run(h.identity.Name, hd); err != nil && !hd.started {
		log.Error().Err(err).Msg("Service control dispatcher failed")
		h.NotifyEventLog(h.identity.DisplayName + " NOT registered")
		return &OSError{Op: OpStartDispatcher, Err: err}
	}
	if hd.exitCode != 0 {
		return fmt.Errorf("service stopped with exit code %d", hd.exitCode)
	}
	return nil
}

// handler implements svc.Handler on top of Host.
type handler struct {
	host     *Host
	started  bool
	exitCode uint32
}

// Execute is called by svc.Run once the control handler is registered.
// Control requests are forwarded to the host from their own goroutine so the
// service control manager is answered while the work runs. That goroutine
// keeps draining requests until the final report has been delivered.
func (hd *handler) Execute(args []string, r <-chan svc.ChangeRequest, changes chan<- svc.Status) (bool, uint32) {
	hd.started = true

	done := make(chan struct{})
	// changes is only read by the svc loop between control requests, so
	// reports are queued rather than sent while the host holds its lock.
	sink := newStatusForwarder(func(st Status) {
		changes <- toSvcStatus(st)
	})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case c, ok := <-r:
				if !ok {
					return
				}
				hd.host.HandleControl(Control(c.Cmd))
			case <-done:
				return
			}
		}
	}()

	hd.exitCode = hd.host.Serve(sink)
	sink.Close()
	close(done)
	wg.Wait()
	return false, hd.exitCode
}

func toSvcStatus(st Status) svc.Status {
	return svc.Status{
		State:         svc.State(st.State),
		Accepts:       svc.Accepted(st.Accepts),
		Win32ExitCode: st.Win32ExitCode,
		WaitHint:      st.WaitHint,
		CheckPoint:    st.CheckPoint,
	}
}
