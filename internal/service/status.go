package service

// statusReporter fills in the derived fields of each report and forwards it
// to the sink. Callers serialize access.
type statusReporter struct {
	sink       StatusSink
	checkPoint uint32
	last       Status
}

func newStatusReporter(sink StatusSink) *statusReporter {
	return &statusReporter{sink: sink, checkPoint: 1}
}

// report pushes a new status. Stop is accepted in every state except
// StartPending. Running and Stopped carry a zero checkpoint; every other
// report takes the next value of the counter.
func (r *statusReporter) report(state State, exitCode, waitHint uint32) Status {
	st := Status{
		State:         state,
		Win32ExitCode: exitCode,
		WaitHint:      waitHint,
	}
	if state != StartPending {
		st.Accepts = AcceptStop
	}
	if state == Running || state == Stopped {
		st.CheckPoint = 0
	} else {
		st.CheckPoint = r.checkPoint
		r.checkPoint++
	}

	r.last = st
	r.sink.SetStatus(st)
	return st
}

// resend pushes the last report again, unchanged.
func (r *statusReporter) resend() Status {
	r.sink.SetStatus(r.last)
	return r.last
}
