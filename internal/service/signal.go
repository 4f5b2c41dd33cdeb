package service

import "sync"

// chanSignal is a StopSignal backed by a channel closed on the first Set.
type chanSignal struct {
	once sync.Once
	ch   chan struct{}
}

func newChanSignal() *chanSignal {
	return &chanSignal{ch: make(chan struct{})}
}

func (s *chanSignal) Set() error {
	s.once.Do(func() { close(s.ch) })
	return nil
}

func (s *chanSignal) Wait() error {
	<-s.ch
	return nil
}

func (s *chanSignal) Close() error { return nil }
