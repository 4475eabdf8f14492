package game

import (
	"sync"
	"time"
)

// countdown is one running round timer. Stop is safe to call more than
// once and from any goroutine.
type countdown struct {
	stop chan struct{}
	once sync.Once
}

func newCountdown() *countdown {
	return &countdown{stop: make(chan struct{})}
}

func (c *countdown) Stop() {
	c.once.Do(func() { close(c.stop) })
}

// run ticks once per second until the timer is stopped or runs out.
// tick is called outside any lock, including once immediately with the
// full duration. When the timer expires naturally, expired is called.
func (c *countdown) run(seconds int, tick func(remaining int), expired func()) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	remaining := seconds
	tick(remaining)
	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			remaining--
			tick(remaining)
			if remaining <= 0 {
				expired()
				return
			}
		}
	}
}
