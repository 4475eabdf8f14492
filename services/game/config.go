package game

import "time"

// Config holds the session-engine tunables. Values mirror the ones the
// game has always shipped with; product can adjust them per deployment.
type Config struct {
	// GhostChance is the probability that a round configured with
	// traitorOptional has no traitor at all (a ghost stands in).
	GhostChance float64
	// ActionCooldown throttles repeated admin start/reset clicks.
	ActionCooldown time.Duration
	// DisconnectGrace is how long a silent reconnect window lasts
	// before a visible "disconnected" notice is shown.
	DisconnectGrace time.Duration
	// DisconnectExpiry is how long after the notice a player may stay
	// offline before being removed from the room.
	DisconnectExpiry time.Duration
	// MinPlayersToStart is the number of connected members required to
	// start a round.
	MinPlayersToStart int
}

func DefaultConfig() Config {
	return Config{
		GhostChance:       0.01,
		ActionCooldown:    2 * time.Second,
		DisconnectGrace:   10 * time.Second,
		DisconnectExpiry:  5 * time.Minute,
		MinPlayersToStart: 3,
	}
}
