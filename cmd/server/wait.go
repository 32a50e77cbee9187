package main

import (
	"sync"
	"time"
)

type refreshWait struct {
	wg *sync.WaitGroup
}

// wait blocks until every poller returned or timeout elapsed.
func (r *refreshWait) wait(timeout time.Duration) bool {
	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return true
	case <-time.After(timeout):
		return false
	}
}
