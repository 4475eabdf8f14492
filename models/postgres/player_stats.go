package postgres

import (
	"time"

	"gorm.io/datatypes"
)

/*
 * 'PlayerStats' accumulates per-player results across rounds. History
 * keeps the most recent rounds as a JSON array, oldest dropped first.
 */
type PlayerStats struct {
	PlayerID      string `gorm:"primaryKey;size:36"`
	RoundsPlayed  int    `gorm:"not null;default:0"`
	RoundsWon     int    `gorm:"not null;default:0"`
	TraitorRounds int    `gorm:"not null;default:0"`
	TraitorWins   int    `gorm:"not null;default:0"`
	GhostRounds   int    `gorm:"not null;default:0"`
	History       datatypes.JSON
	UpdatedAt     time.Time
}
