package game

import (
	"sync"
	"time"
)

// Watchdog tracks one pending timer per player for the disconnect
// lifecycle: a short grace period before the room is told, then a long
// expiry before the seat is given up. Re-arming or cancelling replaces
// the pending timer; a replaced timer never fires its callback.
type Watchdog struct {
	mu     sync.Mutex
	timers map[string]*time.Timer

	grace  time.Duration
	expiry time.Duration
}

func NewWatchdog(cfg Config) *Watchdog {
	return &Watchdog{
		timers: make(map[string]*time.Timer),
		grace:  cfg.DisconnectGrace,
		expiry: cfg.DisconnectExpiry,
	}
}

// ArmGrace schedules fn after the grace period. Any pending timer for
// the player is discarded first.
func (w *Watchdog) ArmGrace(playerID string, fn func()) {
	w.arm(playerID, w.grace, fn)
}

// ArmExpiry schedules fn after the expiry period, typically from inside
// a grace callback.
func (w *Watchdog) ArmExpiry(playerID string, fn func()) {
	w.arm(playerID, w.expiry, fn)
}

func (w *Watchdog) arm(playerID string, d time.Duration, fn func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.timers[playerID]; ok {
		t.Stop()
	}
	var tm *time.Timer
	tm = time.AfterFunc(d, func() {
		w.mu.Lock()
		if w.timers[playerID] != tm {
			// Replaced or cancelled while we were queued.
			w.mu.Unlock()
			return
		}
		delete(w.timers, playerID)
		w.mu.Unlock()
		fn()
	})
	w.timers[playerID] = tm
}

// Cancel drops the pending timer for a player, if any. Called when the
// player reconnects or leaves for good.
func (w *Watchdog) Cancel(playerID string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.timers[playerID]; ok {
		t.Stop()
		delete(w.timers, playerID)
	}
}

// Pending reports whether a timer is armed for the player.
func (w *Watchdog) Pending(playerID string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, ok := w.timers[playerID]
	return ok
}
