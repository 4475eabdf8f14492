package redis

import "time"

// BanRecord is the value stored under "ban:<playerId>". Temporary bans
// carry an expiry and lean on the key TTL; permanent bans have none.
type BanRecord struct {
	PlayerID  string     `json:"player_id"`
	Reason    string     `json:"reason"`
	BannedAt  time.Time  `json:"banned_at"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}
