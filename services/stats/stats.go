package stats

import (
	"Insider/models/postgres"
	"Insider/services/game"
	"encoding/json"
	"log"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// historyLimit caps the per-player round history; oldest entries are
// dropped first.
const historyLimit = 20

// RoundEntry is one row of a player's stored round history.
type RoundEntry struct {
	Word     string    `json:"word"`
	Role     game.Role `json:"role"`
	WasGhost bool      `json:"was_ghost"`
	Won      bool      `json:"won"`
	PlayedAt time.Time `json:"played_at"`
}

// Recorder persists round outcomes. It sits on the side of the game
// engine: recording failures are logged and never reach the room.
type Recorder struct {
	db *gorm.DB
}

func NewRecorder(db *gorm.DB) *Recorder {
	return &Recorder{db: db}
}

// RecordRoundEnd stores the outcome for every participant of a
// finished round. Runs in the background so the end-of-round broadcast
// never waits on the database.
func (rec *Recorder) RecordRoundEnd(players []game.RoundPlayer, result *game.Vote2Result, word string) {
	if rec == nil || rec.db == nil || result == nil {
		return
	}
	go func() {
		now := time.Now()
		for _, p := range players {
			if err := rec.record(p, result, word, now); err != nil {
				log.Printf("[STATS] failed to record round for %s: %v", p.PlayerID, err)
			}
		}
	}()
}

// StatsFor fetches one player's accumulated stats.
func (rec *Recorder) StatsFor(playerID string) (*postgres.PlayerStats, error) {
	var st postgres.PlayerStats
	if err := rec.db.First(&st, "player_id = ?", playerID).Error; err != nil {
		return nil, err
	}
	return &st, nil
}

// Reset wipes one player's counters and history.
func (rec *Recorder) Reset(playerID string) error {
	return rec.db.Model(&postgres.PlayerStats{}).
		Where("player_id = ?", playerID).
		Updates(map[string]interface{}{
			"rounds_played":  0,
			"rounds_won":     0,
			"traitor_rounds": 0,
			"traitor_wins":   0,
			"ghost_rounds":   0,
			"history":        datatypes.JSON("[]"),
			"updated_at":     time.Now(),
		}).Error
}

func (rec *Recorder) record(p game.RoundPlayer, result *game.Vote2Result, word string, now time.Time) error {
	var st postgres.PlayerStats
	if err := rec.db.Where(postgres.PlayerStats{PlayerID: p.PlayerID}).
		FirstOrCreate(&st).Error; err != nil {
		return err
	}
	if err := applyOutcome(&st, p, result, word, now); err != nil {
		return err
	}
	return rec.db.Save(&st).Error
}

// playerWon maps the table verdict to one player's perspective. The
// traitor and the ghost win exactly when the table loses; everyone
// else, the game master included, shares the table's result.
func playerWon(p game.RoundPlayer, result *game.Vote2Result) bool {
	if p.Role == game.RoleTraitor || p.IsGhost {
		return !result.HasWon
	}
	return result.HasWon
}

// applyOutcome folds one round into the stats row and its history.
func applyOutcome(st *postgres.PlayerStats, p game.RoundPlayer, result *game.Vote2Result, word string, now time.Time) error {
	won := playerWon(p, result)

	st.RoundsPlayed++
	if won {
		st.RoundsWon++
	}
	if p.Role == game.RoleTraitor {
		st.TraitorRounds++
		if won {
			st.TraitorWins++
		}
	}
	if p.IsGhost {
		st.GhostRounds++
	}

	var history []RoundEntry
	if len(st.History) > 0 {
		if err := json.Unmarshal(st.History, &history); err != nil {
			// Corrupt history should not block the round; start over.
			log.Printf("[STATS] resetting unreadable history for %s: %v", p.PlayerID, err)
			history = nil
		}
	}
	history = append(history, RoundEntry{
		Word:     word,
		Role:     p.Role,
		WasGhost: p.IsGhost,
		Won:      won,
		PlayedAt: now,
	})
	if len(history) > historyLimit {
		history = history[len(history)-historyLimit:]
	}

	data, err := json.Marshal(history)
	if err != nil {
		return err
	}
	st.History = datatypes.JSON(data)
	st.UpdatedAt = now
	return nil
}
