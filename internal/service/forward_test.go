package service

import (
	"testing"
	"time"
)

func waitHostState(t *testing.T, h *Host, state State) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if h.Status().State == state {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s, last %+v", state, h.Status())
}

// collect closes f while reading out, so every queued report is received.
func collect(f *statusForwarder, out <-chan Status) []Status {
	closed := make(chan struct{})
	go func() {
		f.Close()
		close(closed)
	}()

	var got []Status
	for {
		select {
		case st := <-out:
			got = append(got, st)
		case <-closed:
			return got
		}
	}
}

func TestStatusForwarder_SetStatusDoesNotBlock(t *testing.T) {
	out := make(chan Status)
	f := newStatusForwarder(func(st Status) { out <- st })

	queued := make(chan struct{})
	go func() {
		for i := uint32(1); i <= 5; i++ {
			f.SetStatus(Status{State: StopPending, CheckPoint: i})
		}
		close(queued)
	}()
	select {
	case <-queued:
	case <-time.After(5 * time.Second):
		t.Fatal("SetStatus blocked while nothing was reading")
	}

	got := collect(f, out)
	if len(got) != 5 {
		t.Fatalf("expected 5 reports, got %d: %v", len(got), got)
	}
	for i, st := range got {
		if st.CheckPoint != uint32(i+1) {
			t.Errorf("report %d: expected checkpoint %d, got %d", i, i+1, st.CheckPoint)
		}
	}
}

func TestStatusForwarder_DropsAfterClose(t *testing.T) {
	out := make(chan Status, 4)
	f := newStatusForwarder(func(st Status) { out <- st })
	f.SetStatus(Status{State: Running})
	f.Close()
	f.SetStatus(Status{State: Stopped})

	if len(out) != 1 {
		t.Fatalf("expected 1 delivered report, got %d", len(out))
	}
	if st := <-out; st.State != Running {
		t.Errorf("expected Running, got %s", st.State)
	}
}

// The service dispatcher reads status changes and control requests from the
// same loop. A stop must complete while that loop is not reading.
func TestHost_StopWithStalledStatusReader(t *testing.T) {
	out := make(chan Status)
	f := newStatusForwarder(func(st Status) { out <- st })
	h := NewHost(testIdentity, nil, WithStopSignal(chanSignalFactory), WithEventNotifier(&recordingNotifier{}))

	done := serveAsync(h, f)
	waitHostState(t, h, Running)

	handled := make(chan struct{})
	go func() {
		h.HandleControl(ControlStop)
		close(handled)
	}()
	select {
	case <-handled:
	case <-time.After(5 * time.Second):
		t.Fatal("HandleControl blocked on an unread status change")
	}

	if code := waitExit(t, done); code != 0 {
		t.Errorf("expected exit code 0, got %d", code)
	}

	want := []Status{
		{State: StartPending, WaitHint: 3000, CheckPoint: 1},
		{State: Running, Accepts: AcceptStop},
		{State: StopPending, Accepts: AcceptStop, CheckPoint: 2},
		{State: StopPending, Accepts: AcceptStop, CheckPoint: 3},
		{State: Stopped, Accepts: AcceptStop},
	}
	got := collect(f, out)
	if len(got) != len(want) {
		t.Fatalf("expected %d reports, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("report %d: expected %+v, got %+v", i, want[i], got[i])
		}
	}
}
