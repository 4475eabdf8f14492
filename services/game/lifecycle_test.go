package game

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testWatchdog() *Watchdog {
	cfg := DefaultConfig()
	cfg.DisconnectGrace = 20 * time.Millisecond
	cfg.DisconnectExpiry = 40 * time.Millisecond
	return NewWatchdog(cfg)
}

func TestWatchdogFiresAfterGrace(t *testing.T) {
	w := testWatchdog()
	fired := make(chan struct{})
	w.ArmGrace("p1", func() { close(fired) })
	require.True(t, w.Pending("p1"))

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("grace timer never fired")
	}
	assert.Eventually(t, func() bool { return !w.Pending("p1") }, time.Second, 5*time.Millisecond)
}

func TestWatchdogCancelStopsTimer(t *testing.T) {
	w := testWatchdog()
	var fired atomic.Bool
	w.ArmGrace("p1", func() { fired.Store(true) })
	w.Cancel("p1")

	time.Sleep(80 * time.Millisecond)
	assert.False(t, fired.Load(), "a cancelled timer must not fire")
	assert.False(t, w.Pending("p1"))
}

func TestWatchdogRearmReplacesTimer(t *testing.T) {
	w := testWatchdog()
	var first, second atomic.Bool
	w.ArmGrace("p1", func() { first.Store(true) })
	w.ArmExpiry("p1", func() { second.Store(true) })

	assert.Eventually(t, func() bool { return second.Load() }, time.Second, 5*time.Millisecond)
	assert.False(t, first.Load(), "a replaced timer must not fire")
}

func TestWatchdogTracksPlayersIndependently(t *testing.T) {
	w := testWatchdog()
	var p1 atomic.Bool
	fired := make(chan struct{})
	w.ArmGrace("p1", func() { p1.Store(true) })
	w.ArmGrace("p2", func() { close(fired) })
	w.Cancel("p1")

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("p2 timer never fired")
	}
	assert.False(t, p1.Load())
}
