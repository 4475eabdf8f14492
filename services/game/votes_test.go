package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ballot(v string) *string { return &v }

func TestEveryoneVotedSkipsAbsentees(t *testing.T) {
	players := makeGamePlayers(4)
	players[0].Role = RoleGameMaster
	players[1].SocketID = "" // disconnected
	players[2].IsGhost = true

	// Only players[3] can still stall the stage.
	assert.False(t, everyoneVoted(players, 1))
	players[3].Vote1 = ballot(BallotUp)
	assert.True(t, everyoneVoted(players, 1))
}

func TestResolveVote1CountsMissingBallotAsDown(t *testing.T) {
	players := makeGamePlayers(5)
	players[0].Role = RoleGameMaster
	players[0].Vote1 = ballot(BallotUp) // never counted
	players[1].Vote1 = ballot(BallotUp)
	players[2].Vote1 = ballot(BallotDown)
	players[3].IsGhost = true // nil ballot, excluded from down
	// players[4] nil ballot, counted down

	res := resolveVote1(players)
	assert.Equal(t, 1, res.Up)
	assert.Equal(t, 2, res.Down)
}

func TestResolveVote2TraitorCaught(t *testing.T) {
	players := makeGamePlayers(4)
	players[0].Role = RoleGameMaster
	players[1].Role = RoleTraitor
	players[2].Vote2 = ballot(players[1].Name)
	players[3].Vote2 = ballot(players[1].Name)

	res := resolveVote2(players)
	assert.True(t, res.HasWon)
	assert.True(t, res.HasTraitor)
	assert.Equal(t, players[1].Name, res.FinalTraitorName)
	require.NotEmpty(t, res.Ranking)
	assert.Equal(t, players[1].Name, res.Ranking[0].Name)
	assert.Equal(t, 2, res.Ranking[0].Votes)
}

func TestResolveVote2TraitorEscapesOnTie(t *testing.T) {
	players := makeGamePlayers(4)
	players[0].Role = RoleGameMaster
	players[1].Role = RoleTraitor
	players[2].Vote2 = ballot(players[1].Name)
	players[3].Vote2 = ballot(players[2].Name)

	res := resolveVote2(players)
	assert.False(t, res.HasWon, "a tie never convicts")
	assert.Equal(t, players[1].Name, res.FinalTraitorName)
}

func TestResolveVote2GhostRoundCaught(t *testing.T) {
	players := makeGamePlayers(4)
	players[0].Role = RoleGameMaster
	players[1].IsGhost = true
	players[2].Vote2 = ballot(players[1].Name)
	players[3].Vote2 = ballot(players[1].Name)

	res := resolveVote2(players)
	assert.True(t, res.HasWon)
	assert.False(t, res.HasTraitor)
	assert.Equal(t, players[1].Name, res.FinalTraitorName)
}

func TestResolveVote2GhostRoundNoAccusations(t *testing.T) {
	players := makeGamePlayers(4)
	players[0].Role = RoleGameMaster
	players[1].IsGhost = true

	res := resolveVote2(players)
	assert.True(t, res.HasWon, "trusting the table is correct when nobody is guilty")
	assert.False(t, res.HasTraitor)
	assert.Empty(t, res.FinalTraitorName)
}

func TestResolveVote2GhostRoundWrongAccusation(t *testing.T) {
	players := makeGamePlayers(4)
	players[0].Role = RoleGameMaster
	players[1].IsGhost = true
	players[2].Vote2 = ballot(players[3].Name)

	res := resolveVote2(players)
	assert.False(t, res.HasWon)
}

func TestResetBallots(t *testing.T) {
	players := makeGamePlayers(3)
	players[0].Vote1 = ballot(BallotUp)
	players[1].Vote2 = ballot("someone")
	players[1].NbVote2 = 2

	resetBallots(players, 1)
	assert.Nil(t, players[0].Vote1)
	assert.NotNil(t, players[1].Vote2, "stage 1 reset leaves stage 2 alone")

	resetBallots(players, 2)
	assert.Nil(t, players[1].Vote2)
	assert.Zero(t, players[1].NbVote2)
}
