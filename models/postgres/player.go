package postgres

import (
	"time"
)

/*
 * 'Player' is the persistent identity behind a socket connection. It
 * owns a PlayerStats row.
 */
type Player struct {
	ID        string    `gorm:"primaryKey;size:36"`
	Name      string    `gorm:"size:50;not null;uniqueIndex"`
	Color     string    `gorm:"size:9;not null;default:'#e0e0e0'"`
	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP"`
	LastSeen  time.Time

	// Relationship with the stats row
	Stats PlayerStats `gorm:"foreignKey:PlayerID;constraint:OnDelete:CASCADE"`
}
