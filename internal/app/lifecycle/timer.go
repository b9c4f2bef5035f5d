package lifecycle

import (
	"sync"
	"time"
)

// runTimer calls fire on every interval until stop is called. stop never
// waits for the goroutine, so it is safe to call while holding the lock that
// fire acquires; callers wait on the shared WaitGroup instead.
type runTimer struct {
	once sync.Once
	done chan struct{}
}

func startRunTimer(wg *sync.WaitGroup, interval time.Duration, fire func()) *runTimer {
	t := &runTimer{done: make(chan struct{})}
	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-t.done:
				return
			case <-ticker.C:
				select {
				case <-t.done:
					return
				default:
				}
				fire()
			}
		}
	}()
	return t
}

func (t *runTimer) stop() {
	t.once.Do(func() { close(t.done) })
}
