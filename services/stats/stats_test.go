package stats

import (
	"Insider/models/postgres"
	"Insider/services/game"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlayerWon(t *testing.T) {
	caught := &game.Vote2Result{HasWon: true, HasTraitor: true}
	escaped := &game.Vote2Result{HasWon: false, HasTraitor: true}

	citizen := game.RoundPlayer{Role: game.RoleCitizen}
	gm := game.RoundPlayer{Role: game.RoleGameMaster}
	traitor := game.RoundPlayer{Role: game.RoleTraitor}
	ghost := game.RoundPlayer{Role: game.RoleCitizen, IsGhost: true}

	assert.True(t, playerWon(citizen, caught))
	assert.True(t, playerWon(gm, caught))
	assert.False(t, playerWon(traitor, caught))

	assert.False(t, playerWon(citizen, escaped))
	assert.True(t, playerWon(traitor, escaped))
	assert.True(t, playerWon(ghost, escaped))
}

func TestApplyOutcome(t *testing.T) {
	st := &postgres.PlayerStats{PlayerID: "p1"}
	p := game.RoundPlayer{PlayerID: "p1", Name: "ana", Role: game.RoleTraitor}
	result := &game.Vote2Result{HasWon: false, HasTraitor: true, FinalTraitorName: "ana"}
	now := time.Now()

	require.NoError(t, applyOutcome(st, p, result, "apple", now))

	assert.Equal(t, 1, st.RoundsPlayed)
	assert.Equal(t, 1, st.RoundsWon)
	assert.Equal(t, 1, st.TraitorRounds)
	assert.Equal(t, 1, st.TraitorWins)
	assert.Equal(t, 0, st.GhostRounds)

	var history []RoundEntry
	require.NoError(t, json.Unmarshal(st.History, &history))
	require.Len(t, history, 1)
	assert.Equal(t, "apple", history[0].Word)
	assert.Equal(t, game.RoleTraitor, history[0].Role)
	assert.True(t, history[0].Won)
}

func TestApplyOutcomeCapsHistory(t *testing.T) {
	st := &postgres.PlayerStats{PlayerID: "p1"}
	p := game.RoundPlayer{PlayerID: "p1", Role: game.RoleCitizen}
	result := &game.Vote2Result{HasWon: true}

	for i := 0; i < historyLimit+5; i++ {
		require.NoError(t, applyOutcome(st, p, result, fmt.Sprintf("word%d", i), time.Now()))
	}

	var history []RoundEntry
	require.NoError(t, json.Unmarshal(st.History, &history))
	require.Len(t, history, historyLimit)
	assert.Equal(t, "word5", history[0].Word, "oldest entries drop first")
	assert.Equal(t, fmt.Sprintf("word%d", historyLimit+4), history[historyLimit-1].Word)
	assert.Equal(t, historyLimit+5, st.RoundsPlayed)
}

func TestApplyOutcomeRecoversFromCorruptHistory(t *testing.T) {
	st := &postgres.PlayerStats{PlayerID: "p1", History: []byte("{not json")}
	p := game.RoundPlayer{PlayerID: "p1", Role: game.RoleCitizen}

	require.NoError(t, applyOutcome(st, p, &game.Vote2Result{HasWon: true}, "apple", time.Now()))

	var history []RoundEntry
	require.NoError(t, json.Unmarshal(st.History, &history))
	assert.Len(t, history, 1)
}
