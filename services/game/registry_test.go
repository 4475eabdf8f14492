package game

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedWords struct{ word string }

func (f fixedWords) Random() string { return f.word }

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.ActionCooldown = 0
	cfg.GhostChance = 0
	return cfg
}

func player(i int) PlayerInfo {
	return PlayerInfo{
		ID:    fmt.Sprintf("p%d", i),
		Name:  fmt.Sprintf("player%d", i),
		Color: "#ffffff",
	}
}

func socket(i int) string { return fmt.Sprintf("s%d", i) }

// fills a room with n players, creator first
func makeRoom(t *testing.T, reg *Registry, n int, opts RoomOptions) string {
	t.Helper()
	view, err := reg.CreateRoom(player(0), socket(0), opts)
	require.NoError(t, err)
	for i := 1; i < n; i++ {
		_, err := reg.Join(view.ID, player(i), socket(i), opts.Password)
		require.NoError(t, err)
	}
	return view.ID
}

func TestCreateRoomDefaults(t *testing.T) {
	reg := NewRegistry(testConfig(), fixedWords{"apple"})
	view, err := reg.CreateRoom(player(0), socket(0), RoomOptions{})
	require.NoError(t, err)

	assert.Equal(t, "player0's room", view.Name)
	assert.Equal(t, 8, view.Settings.MaxPlayers)
	assert.Equal(t, 300, view.Settings.RoundTime)
	assert.True(t, view.Settings.TraitorOptional)
	assert.False(t, view.Settings.Locked)
	assert.Equal(t, PhaseIdle, view.Phase)
	require.Len(t, view.Members, 1)
	assert.Equal(t, "p0", view.Admin)
	assert.Equal(t, PermissionAdmin, view.Members[0].Permission)
	assert.Equal(t, 1, reg.Count())
}

func TestJoinPasswordAndCapacity(t *testing.T) {
	reg := NewRegistry(testConfig(), fixedWords{"apple"})
	view, err := reg.CreateRoom(player(0), socket(0), RoomOptions{
		MaxPlayers: 2,
		Locked:     true,
		Password:   "hunter2",
	})
	require.NoError(t, err)
	require.True(t, view.Settings.Locked)

	_, err = reg.Join(view.ID, player(1), socket(1), "wrong")
	assert.ErrorIs(t, err, ErrInvalidPassword)

	_, err = reg.Join(view.ID, player(1), socket(1), "hunter2")
	require.NoError(t, err)

	_, err = reg.Join(view.ID, player(2), socket(2), "hunter2")
	assert.ErrorIs(t, err, ErrRoomFull)

	_, err = reg.Join("nope", player(2), socket(2), "")
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestRejoinRestoresPresence(t *testing.T) {
	reg := NewRegistry(testConfig(), fixedWords{"apple"})
	roomID := makeRoom(t, reg, 2, RoomOptions{MaxPlayers: 2, Locked: true, Password: "x"})

	view, err := reg.Disconnect(roomID, "p1", socket(1))
	require.NoError(t, err)
	require.Len(t, view.Members, 2)
	assert.False(t, view.Members[1].Online)

	// Full room, no password: a returning member still gets their seat.
	view, err = reg.Join(roomID, player(1), "s1-bis", "")
	require.NoError(t, err)
	assert.True(t, view.Members[1].Online)
	assert.Len(t, view.Members, 2)
	assert.Contains(t, reg.MemberSockets(roomID), "s1-bis")
}

func TestLeavePromotesAdminAndDeletesEmptyRoom(t *testing.T) {
	reg := NewRegistry(testConfig(), fixedWords{"apple"})
	roomID := makeRoom(t, reg, 3, RoomOptions{})

	view, err := reg.Leave(roomID, "p0")
	require.NoError(t, err)
	require.NotNil(t, view)
	assert.Equal(t, "p1", view.Admin)
	assert.Equal(t, PermissionAdmin, view.Members[0].Permission)

	_, err = reg.Leave(roomID, "p1")
	require.NoError(t, err)
	view, err = reg.Leave(roomID, "p2")
	require.NoError(t, err)
	assert.Nil(t, view, "last leave deletes the room")
	assert.Equal(t, 0, reg.Count())

	_, err = reg.Leave(roomID, "p2")
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestKick(t *testing.T) {
	reg := NewRegistry(testConfig(), fixedWords{"apple"})
	roomID := makeRoom(t, reg, 3, RoomOptions{})

	_, _, err := reg.Kick(roomID, "p0", "p0")
	assert.ErrorIs(t, err, ErrCannotKickSelf)

	_, _, err = reg.Kick(roomID, "p1", "p2")
	assert.ErrorIs(t, err, ErrNotAuthorized)

	_, _, err = reg.Kick(roomID, "p0", "ghost")
	assert.ErrorIs(t, err, ErrPlayerNotFound)

	view, targetSocket, err := reg.Kick(roomID, "p0", "p2")
	require.NoError(t, err)
	assert.Equal(t, "s2", targetSocket)
	assert.Len(t, view.Members, 2)
}

func TestTransferAdmin(t *testing.T) {
	reg := NewRegistry(testConfig(), fixedWords{"apple"})
	roomID := makeRoom(t, reg, 2, RoomOptions{})

	_, err := reg.TransferAdmin(roomID, "p1", "p0")
	assert.ErrorIs(t, err, ErrNotAuthorized)

	view, err := reg.TransferAdmin(roomID, "p0", "p1")
	require.NoError(t, err)
	assert.Equal(t, "p1", view.Admin)
	assert.Empty(t, view.Members[0].Permission)
	assert.Equal(t, PermissionAdmin, view.Members[1].Permission)
}

func TestUpdateRoom(t *testing.T) {
	reg := NewRegistry(testConfig(), fixedWords{"apple"})
	roomID := makeRoom(t, reg, 3, RoomOptions{})

	name := "renamed"
	maxPlayers := 2 // below member count, must be ignored
	minutes := 2
	view, err := reg.UpdateRoom(roomID, "p0", RoomUpdate{
		Name:             &name,
		MaxPlayers:       &maxPlayers,
		RoundTimeMinutes: &minutes,
		Password:         "secret",
	})
	require.NoError(t, err)
	assert.Equal(t, "renamed", view.Name)
	assert.Equal(t, 8, view.Settings.MaxPlayers)
	assert.Equal(t, 120, view.Settings.RoundTime)

	locked := true
	view, err = reg.UpdateRoom(roomID, "p0", RoomUpdate{Locked: &locked})
	require.NoError(t, err)
	assert.True(t, view.Settings.Locked)

	_, err = reg.UpdateRoom(roomID, "p1", RoomUpdate{})
	assert.ErrorIs(t, err, ErrNotAuthorized)

	_, err = reg.StartRound(roomID, "p0")
	require.NoError(t, err)
	_, err = reg.UpdateRoom(roomID, "p0", RoomUpdate{})
	assert.ErrorIs(t, err, ErrWrongPhase)
}

func TestStartRoundChecks(t *testing.T) {
	reg := NewRegistry(testConfig(), fixedWords{"apple"})
	roomID := makeRoom(t, reg, 2, RoomOptions{})

	_, err := reg.StartRound(roomID, "p1")
	assert.ErrorIs(t, err, ErrNotAuthorized)

	_, err = reg.StartRound(roomID, "p0")
	assert.ErrorIs(t, err, ErrNotEnoughPlayers)

	_, err = reg.Join(roomID, player(2), socket(2), "")
	require.NoError(t, err)

	start, err := reg.StartRound(roomID, "p0")
	require.NoError(t, err)
	assert.Equal(t, PhaseRoleAssigned, start.View.Phase)
	assert.Len(t, start.Roles, 3)

	_, err = reg.StartRound(roomID, "p0")
	assert.ErrorIs(t, err, ErrWrongPhase, "a running round cannot be restarted")
}

func TestStartRoundThrottled(t *testing.T) {
	cfg := testConfig()
	cfg.ActionCooldown = time.Hour
	reg := NewRegistry(cfg, fixedWords{"apple"})
	roomID := makeRoom(t, reg, 3, RoomOptions{})

	_, err := reg.StartRound(roomID, "p0")
	require.NoError(t, err)
	_, err = reg.ResetRound(roomID, "p0")
	assert.ErrorIs(t, err, ErrThrottled)
}

func rolesByPlayer(t *testing.T, reg *Registry, roomID string, n int) map[string]Role {
	t.Helper()
	roles := make(map[string]Role, n)
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("p%d", i)
		info, err := reg.RoleSync(roomID, id)
		require.NoError(t, err)
		roles[id] = info.Role
	}
	return roles
}

func TestFullRoundFlow(t *testing.T) {
	reg := NewRegistry(testConfig(), fixedWords{"apple"})
	roomID := makeRoom(t, reg, 4, RoomOptions{})

	_, err := reg.StartRound(roomID, "p0")
	require.NoError(t, err)

	roles := rolesByPlayer(t, reg, roomID, 4)
	var gm, traitor string
	for id, role := range roles {
		switch role {
		case RoleGameMaster:
			gm = id
		case RoleTraitor:
			traitor = id
		}
	}
	require.NotEmpty(t, gm)
	require.NotEmpty(t, traitor)

	// Only the game master may manage the word.
	for id := range roles {
		if id != gm {
			assert.ErrorIs(t, reg.SetWord(roomID, id, "pear"), ErrNotGameMaster)
		}
	}
	_, err = reg.RevealWord(roomID, gm)
	assert.ErrorIs(t, err, ErrNoWordSet)

	require.NoError(t, reg.SetWord(roomID, gm, ""))
	reveal, err := reg.RevealWord(roomID, gm)
	require.NoError(t, err)
	assert.Equal(t, "apple", reveal.Word, "blank word falls back to the word source")

	view, err := reg.StopRound(roomID, "p0")
	require.NoError(t, err)
	require.Equal(t, PhaseVote1, view.Phase)

	_, err = reg.CastVote1(roomID, gm, BallotUp)
	assert.ErrorIs(t, err, ErrNotGameMaster)

	var res1 *Vote1Result
	for id := range roles {
		if id == gm {
			continue
		}
		res1, err = reg.CastVote1(roomID, id, BallotUp)
		require.NoError(t, err)
	}
	require.NotNil(t, res1, "the last ballot resolves the stage")
	assert.Equal(t, 3, res1.Up)
	assert.Equal(t, 0, res1.Down)

	// The resolving ballot opens vote2 on its own.
	phase1, err := reg.CurrentPhase(roomID)
	require.NoError(t, err)
	assert.Equal(t, PhaseVote2, phase1)

	// Vote1 is closed from that point on.
	_, err = reg.CastVote1(roomID, traitor, BallotDown)
	assert.ErrorIs(t, err, ErrWrongPhase)

	// A late admin click on the explicit open action is a no-op.
	_, err = reg.OpenVote2(roomID, "p0")
	require.NoError(t, err)

	traitorName := ""
	info, err := reg.RoleSync(roomID, traitor)
	require.NoError(t, err)
	for _, p := range info.Players {
		if p.PlayerID == traitor {
			traitorName = p.Name
		}
	}
	require.NotEmpty(t, traitorName)

	var outcome *Vote2Outcome
	for id := range roles {
		if id == gm {
			continue
		}
		outcome, err = reg.CastVote2(roomID, id, traitorName)
		require.NoError(t, err)
	}
	require.NotNil(t, outcome)
	assert.True(t, outcome.Result.HasWon)
	assert.Equal(t, traitorName, outcome.Result.FinalTraitorName)
	assert.Len(t, outcome.Players, 4)

	phase, err := reg.CurrentPhase(roomID)
	require.NoError(t, err)
	assert.Equal(t, PhaseEnded, phase)

	view, err = reg.ResetSession(roomID)
	require.NoError(t, err)
	assert.Equal(t, PhaseIdle, view.Phase)
}

func TestCastVotePhaseGuards(t *testing.T) {
	reg := NewRegistry(testConfig(), fixedWords{"apple"})
	roomID := makeRoom(t, reg, 3, RoomOptions{})

	_, err := reg.CastVote1(roomID, "p1", BallotUp)
	assert.ErrorIs(t, err, ErrWrongPhase)
	_, err = reg.CastVote2(roomID, "p1", "player2")
	assert.ErrorIs(t, err, ErrWrongPhase)
	_, err = reg.OpenVote2(roomID, "p0")
	assert.ErrorIs(t, err, ErrWrongPhase)
}

func TestDisconnectedPlayerNeverBlocksVote(t *testing.T) {
	reg := NewRegistry(testConfig(), fixedWords{"apple"})
	roomID := makeRoom(t, reg, 4, RoomOptions{})

	_, err := reg.StartRound(roomID, "p0")
	require.NoError(t, err)
	roles := rolesByPlayer(t, reg, roomID, 4)
	var gm string
	for id, role := range roles {
		if role == RoleGameMaster {
			gm = id
		}
	}

	_, err = reg.StopRound(roomID, "p0")
	require.NoError(t, err)

	// One voter drops; the remaining two resolve the stage alone.
	var offline string
	for id := range roles {
		if id != gm {
			offline = id
			break
		}
	}
	_, err = reg.Disconnect(roomID, offline, "s"+offline[1:])
	require.NoError(t, err)

	var res *Vote1Result
	for id := range roles {
		if id == gm || id == offline {
			continue
		}
		res, err = reg.CastVote1(roomID, id, BallotDown)
		require.NoError(t, err)
	}
	require.NotNil(t, res)
	assert.Equal(t, 0, res.Up)
	assert.Equal(t, 3, res.Down, "absent ballots count as down")
}

func TestForceCloseAndClear(t *testing.T) {
	reg := NewRegistry(testConfig(), fixedWords{"apple"})
	roomID := makeRoom(t, reg, 2, RoomOptions{})
	makeRoom(t, reg, 2, RoomOptions{})

	sockets, err := reg.ForceClose(roomID)
	require.NoError(t, err)
	assert.Len(t, sockets, 2)
	assert.Equal(t, 1, reg.Count())

	n, sockets := reg.ClearAll()
	assert.Equal(t, 1, n)
	assert.Len(t, sockets, 2)
	assert.Equal(t, 0, reg.Count())
}

func TestListSummaries(t *testing.T) {
	reg := NewRegistry(testConfig(), fixedWords{"apple"})
	roomID := makeRoom(t, reg, 3, RoomOptions{Name: "tavern"})

	list := reg.List()
	require.Len(t, list, 1)
	assert.Equal(t, roomID, list[0].ID)
	assert.Equal(t, "tavern", list[0].Name)
	assert.Equal(t, 3, list[0].PlayerCount)
	assert.False(t, list[0].InGame)

	_, err := reg.StartRound(roomID, "p0")
	require.NoError(t, err)
	assert.True(t, reg.List()[0].InGame)
}

func TestForceUnlock(t *testing.T) {
	reg := NewRegistry(testConfig(), fixedWords{"apple"})
	roomID := makeRoom(t, reg, 1, RoomOptions{Locked: true, Password: "secret"})

	_, err := reg.Join(roomID, player(1), socket(1), "wrong")
	require.Error(t, err)

	view, err := reg.ForceUnlock(roomID)
	require.NoError(t, err)
	assert.False(t, view.Settings.Locked)

	_, err = reg.Join(roomID, player(1), socket(1), "")
	assert.NoError(t, err)

	_, err = reg.ForceUnlock("missing")
	assert.Equal(t, CodeNotFound, ErrCode(err))
}

func TestVote1ResolutionOpensVote2(t *testing.T) {
	reg := NewRegistry(testConfig(), fixedWords{"apple"})
	roomID := makeRoom(t, reg, 3, RoomOptions{})

	_, err := reg.StartRound(roomID, "p0")
	require.NoError(t, err)
	roles := rolesByPlayer(t, reg, roomID, 3)
	var gm string
	for id, role := range roles {
		if role == RoleGameMaster {
			gm = id
		}
	}
	require.NoError(t, reg.SetWord(roomID, gm, "pear"))
	_, err = reg.RevealWord(roomID, gm)
	require.NoError(t, err)
	_, err = reg.StopRound(roomID, "p0")
	require.NoError(t, err)

	var res *Vote1Result
	var voter string
	for id := range roles {
		if id == gm {
			continue
		}
		voter = id
		res, err = reg.CastVote1(roomID, id, BallotUp)
		require.NoError(t, err)
	}
	require.NotNil(t, res)

	// No explicit admin action in between: stage two is already open.
	phase, err := reg.CurrentPhase(roomID)
	require.NoError(t, err)
	assert.Equal(t, PhaseVote2, phase)

	info, err := reg.RoleSync(roomID, voter)
	require.NoError(t, err)
	_, err = reg.CastVote2(roomID, voter, info.Players[0].Name)
	assert.NoError(t, err)
}

func TestDisconnectIgnoresStaleSocket(t *testing.T) {
	reg := NewRegistry(testConfig(), fixedWords{"apple"})
	roomID := makeRoom(t, reg, 2, RoomOptions{})

	// p1 opens a second tab; the seat now belongs to the new socket.
	_, err := reg.Join(roomID, player(1), "s1-bis", "")
	require.NoError(t, err)

	// The first tab closing afterwards must not touch the live seat.
	_, err = reg.Disconnect(roomID, "p1", socket(1))
	assert.ErrorIs(t, err, ErrStaleSocket)
	assert.False(t, reg.Offline(roomID, "p1"))

	// The current tab closing does.
	_, err = reg.Disconnect(roomID, "p1", "s1-bis")
	require.NoError(t, err)
	assert.True(t, reg.Offline(roomID, "p1"))
}

func TestRoomsOfPlayerListsEverySeat(t *testing.T) {
	reg := NewRegistry(testConfig(), fixedWords{"apple"})
	first := makeRoom(t, reg, 1, RoomOptions{})
	second, err := reg.CreateRoom(player(0), socket(0), RoomOptions{Name: "second"})
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{first, second.ID}, reg.RoomsOfPlayer("p0"))
	assert.Empty(t, reg.RoomsOfPlayer("p9"))
}

func TestResetAfterEndOnlyFiresOnEndScreen(t *testing.T) {
	reg := NewRegistry(testConfig(), fixedWords{"apple"})
	roomID := makeRoom(t, reg, 3, RoomOptions{})

	// Not on the end screen: the timer path must not touch the session.
	_, ok := reg.ResetAfterEnd(roomID)
	assert.False(t, ok)

	r, err := reg.room(roomID)
	require.NoError(t, err)
	r.mu.Lock()
	r.Session.Phase = PhaseEnded
	r.mu.Unlock()

	view, ok := reg.ResetAfterEnd(roomID)
	require.True(t, ok)
	assert.Equal(t, PhaseIdle, view.Phase)

	// A second stale fire finds an idle session and backs off again.
	_, ok = reg.ResetAfterEnd(roomID)
	assert.False(t, ok)

	_, ok = reg.ResetAfterEnd("missing")
	assert.False(t, ok)
}
