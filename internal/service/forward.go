package service

import "sync"

// statusForwarder queues reports and delivers them in order from its own
// goroutine. SetStatus never blocks, so HandleControl can report while the
// control dispatcher is still needed to drain requests.
type statusForwarder struct {
	send func(Status)

	mu    sync.Mutex
	queue []Status
	wake  chan struct{}
	flush chan struct{}
	done  chan struct{}
}

func newStatusForwarder(send func(Status)) *statusForwarder {
	f := &statusForwarder{
		send:  send,
		wake:  make(chan struct{}, 1),
		flush: make(chan struct{}),
		done:  make(chan struct{}),
	}
	go f.loop()
	return f
}

func (f *statusForwarder) SetStatus(st Status) {
	f.mu.Lock()
	f.queue = append(f.queue, st)
	f.mu.Unlock()

	select {
	case f.wake <- struct{}{}:
	default:
	}
}

func (f *statusForwarder) take() []Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	q := f.queue
	f.queue = nil
	return q
}

func (f *statusForwarder) loop() {
	defer close(f.done)
	for {
		for _, st := range f.take() {
			f.send(st)
		}
		select {
		case <-f.wake:
		case <-f.flush:
			for _, st := range f.take() {
				f.send(st)
			}
			return
		}
	}
}

// Close delivers everything queued so far and stops the forwarder. Reports
// arriving afterwards are dropped.
func (f *statusForwarder) Close() {
	close(f.flush)
	<-f.done
}
