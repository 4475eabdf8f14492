package game

import "log"

// RoundStart is everything the transport layer needs to announce a new
// round: the public room view, the full player snapshot and the private
// per-socket role notifications.
type RoundStart struct {
	View    *RoomView
	Players []PlayerView
	Roles   []PrivateRole
}

// Reveal is the payload of a successful word reveal.
type Reveal struct {
	Word      string
	RoundTime int
	Players   []PlayerView
}

// RoundPlayer is the minimal per-player record handed to the stats
// recorder at round end.
type RoundPlayer struct {
	PlayerID string
	Name     string
	Role     Role
	IsGhost  bool
}

// Vote2Outcome bundles the verdict with the player snapshot taken at
// the moment the round ended.
type Vote2Outcome struct {
	Result  *Vote2Result
	Players []RoundPlayer
	Word    string
}

// SyncInfo restores a reconnecting player's in-round state.
type SyncInfo struct {
	Phase   Phase
	Role    Role
	IsGhost bool
	Word    string
	Players []PlayerView
}

// StartRound deals roles and moves the room into the role phase. Admin
// only, rate limited, and requires enough connected players.
func (reg *Registry) StartRound(roomID, actorID string) (*RoundStart, error) {
	r, err := reg.room(roomID)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Admin != actorID {
		return nil, ErrNotAuthorized
	}
	if r.Session.Phase.InGame() {
		return nil, ErrWrongPhase
	}
	if !r.allowAction(reg.cfg.ActionCooldown) {
		return nil, ErrThrottled
	}
	if r.connectedCount() < reg.cfg.MinPlayersToStart {
		return nil, ErrNotEnoughPlayers
	}

	r.resetSession()
	reg.rngMu.Lock()
	r.Session.Players = AssignRoles(r.Session.Players, r.Settings.TraitorOptional, reg.cfg.GhostChance, reg.rng)
	reg.rngMu.Unlock()
	r.Session.Phase = PhaseRoleAssigned

	out := &RoundStart{
		View:    r.view(),
		Players: r.playersView(),
	}
	for _, p := range r.Session.Players {
		if p.SocketID != "" {
			out.Roles = append(out.Roles, PrivateRole{
				PlayerID: p.PlayerID,
				SocketID: p.SocketID,
				Role:     p.Role,
				IsGhost:  p.IsGhost,
			})
		}
	}
	log.Printf("[GAME] round started in room %s (%d players)", roomID, len(r.Session.Players))
	return out, nil
}

// SetWord records the secret word. Game master only; a blank word falls
// back to a random one from the word source.
func (reg *Registry) SetWord(roomID, actorID, word string) error {
	r, err := reg.room(roomID)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	gp := r.Session.playerByID(actorID)
	if gp == nil {
		return ErrNotInRoom
	}
	if gp.Role != RoleGameMaster {
		return ErrNotGameMaster
	}
	if r.Session.Phase != PhaseRoleAssigned {
		return ErrWrongPhase
	}
	if word == "" && reg.words != nil {
		word = reg.words.Random()
	}
	r.Session.Word = word
	return nil
}

// RevealWord shows the word to the room and arms the playing phase.
func (reg *Registry) RevealWord(roomID, actorID string) (*Reveal, error) {
	r, err := reg.room(roomID)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	gp := r.Session.playerByID(actorID)
	if gp == nil {
		return nil, ErrNotInRoom
	}
	if gp.Role != RoleGameMaster {
		return nil, ErrNotGameMaster
	}
	if r.Session.Phase != PhaseRoleAssigned {
		return nil, ErrWrongPhase
	}
	if r.Session.Word == "" {
		return nil, ErrNoWordSet
	}
	r.Session.Phase = PhaseWordRevealed
	return &Reveal{
		Word:      r.Session.Word,
		RoundTime: r.Settings.RoundTime,
		Players:   r.playersView(),
	}, nil
}

// StartCountdown launches the round timer. tick fires once per second
// outside any lock; when the timer runs out the room moves to the first
// voting stage on its own and expired fires with the fresh view.
func (reg *Registry) StartCountdown(roomID, actorID string, tick func(remaining int), expired func(view *RoomView)) (int, error) {
	r, err := reg.room(roomID)
	if err != nil {
		return 0, err
	}
	r.mu.Lock()
	if r.Admin != actorID {
		r.mu.Unlock()
		return 0, ErrNotAuthorized
	}
	if r.Session.Phase != PhaseWordRevealed {
		r.mu.Unlock()
		return 0, ErrWrongPhase
	}
	if !r.allowAction(reg.cfg.ActionCooldown) {
		r.mu.Unlock()
		return 0, ErrThrottled
	}
	r.stopCountdown()
	c := newCountdown()
	r.countdown = c
	r.Session.Phase = PhaseInProgress
	seconds := r.Settings.RoundTime
	r.mu.Unlock()

	go c.run(seconds, tick, func() {
		view, err := reg.expireCountdown(roomID, c)
		if err != nil || view == nil {
			return
		}
		expired(view)
	})
	log.Printf("[GAME] countdown started in room %s (%ds)", roomID, seconds)
	return seconds, nil
}

// expireCountdown is the natural end of the round timer. It re-checks
// that the expiring timer is still the current one so a stale goroutine
// can never flip a newer round.
func (reg *Registry) expireCountdown(roomID string, c *countdown) (*RoomView, error) {
	r, err := reg.room(roomID)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.countdown != c || r.Session.Phase != PhaseInProgress {
		return nil, nil
	}
	r.countdown = nil
	r.Session.Phase = PhaseVote1
	r.Session.ResultVote1 = nil
	resetBallots(r.Session.Players, 1)
	log.Printf("[GAME] countdown expired in room %s, opening vote", roomID)
	return r.view(), nil
}

// StopRound ends the guessing phase early (word found or given up) and
// opens the first voting stage. Admin only, from any in-round phase.
func (reg *Registry) StopRound(roomID, actorID string) (*RoomView, error) {
	r, err := reg.room(roomID)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Admin != actorID {
		return nil, ErrNotAuthorized
	}
	if !r.Session.Phase.InGame() {
		return nil, ErrWrongPhase
	}
	r.stopCountdown()
	r.Session.Phase = PhaseVote1
	r.Session.ResultVote1 = nil
	resetBallots(r.Session.Players, 1)
	log.Printf("[GAME] round stopped in room %s, opening vote", roomID)
	return r.view(), nil
}

// OpenVote2 moves from the up/down stage to the accusation stage.
func (reg *Registry) OpenVote2(roomID, actorID string) (*RoomView, error) {
	r, err := reg.room(roomID)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Admin != actorID {
		return nil, ErrNotAuthorized
	}
	// The resolving stage-1 ballot already moved the room on; treat a
	// late admin click as a no-op rather than an error.
	if r.Session.Phase == PhaseVote2 {
		return r.view(), nil
	}
	if r.Session.Phase != PhaseVote1 {
		return nil, ErrWrongPhase
	}
	r.Session.Phase = PhaseVote2
	r.Session.ResultVote2 = nil
	resetBallots(r.Session.Players, 2)
	return r.view(), nil
}

// CastVote1 records an up/down ballot. A repeated ballot from the same
// player is silently ignored. The result is non-nil only on the ballot
// that completes the stage, which also opens the second stage.
func (reg *Registry) CastVote1(roomID, playerID, ballot string) (*Vote1Result, error) {
	r, err := reg.room(roomID)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Session.Phase != PhaseVote1 {
		return nil, ErrWrongPhase
	}
	gp := r.Session.playerByID(playerID)
	if gp == nil {
		return nil, ErrNotInRoom
	}
	if gp.Role == RoleGameMaster {
		return nil, ErrNotGameMaster
	}
	if gp.Vote1 != nil {
		return nil, nil
	}
	if ballot != BallotUp {
		ballot = BallotDown
	}
	gp.Vote1 = &ballot

	if !everyoneVoted(r.Session.Players, 1) {
		return nil, nil
	}
	r.Session.ResultVote1 = resolveVote1(r.Session.Players)
	r.Session.Phase = PhaseVote2
	r.Session.ResultVote2 = nil
	resetBallots(r.Session.Players, 2)
	log.Printf("[GAME] vote1 resolved in room %s (%d up / %d down), vote2 open", roomID, r.Session.ResultVote1.Up, r.Session.ResultVote1.Down)
	return r.Session.ResultVote1, nil
}

// CastVote2 records an accusation by player name. The outcome is
// non-nil only on the ballot that completes the stage, at which point
// the room is already in the end phase.
func (reg *Registry) CastVote2(roomID, playerID, accused string) (*Vote2Outcome, error) {
	r, err := reg.room(roomID)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Session.Phase != PhaseVote2 {
		return nil, ErrWrongPhase
	}
	gp := r.Session.playerByID(playerID)
	if gp == nil {
		return nil, ErrNotInRoom
	}
	if gp.Role == RoleGameMaster {
		return nil, ErrNotGameMaster
	}
	if gp.Vote2 != nil {
		return nil, nil
	}
	gp.Vote2 = &accused

	if !everyoneVoted(r.Session.Players, 2) {
		return nil, nil
	}
	r.Session.ResultVote2 = resolveVote2(r.Session.Players)
	r.Session.Phase = PhaseEnded

	out := &Vote2Outcome{Result: r.Session.ResultVote2, Word: r.Session.Word}
	for _, p := range r.Session.Players {
		out.Players = append(out.Players, RoundPlayer{
			PlayerID: p.PlayerID,
			Name:     p.Name,
			Role:     p.Role,
			IsGhost:  p.IsGhost,
		})
	}
	log.Printf("[GAME] round ended in room %s (citizens won: %v)", roomID, out.Result.HasWon)
	return out, nil
}

// ResetSession drops the current round and rebuilds an idle session
// from the membership. Used by the end-of-round timer and admin resets.
func (reg *Registry) ResetSession(roomID string) (*RoomView, error) {
	r, err := reg.room(roomID)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resetSession()
	return r.view(), nil
}

// ResetAfterEnd clears the session only while the room still sits on
// the end screen. The end-of-round timer goes through here so a stale
// fire cannot wipe a round the admin already restarted.
func (reg *Registry) ResetAfterEnd(roomID string) (*RoomView, bool) {
	r, err := reg.room(roomID)
	if err != nil {
		return nil, false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Session.Phase != PhaseEnded {
		return nil, false
	}
	r.resetSession()
	return r.view(), true
}

// ResetRound is the admin-triggered variant of ResetSession, with the
// same throttle as the other admin actions.
func (reg *Registry) ResetRound(roomID, actorID string) (*RoomView, error) {
	r, err := reg.room(roomID)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Admin != actorID {
		return nil, ErrNotAuthorized
	}
	if !r.allowAction(reg.cfg.ActionCooldown) {
		return nil, ErrThrottled
	}
	r.resetSession()
	log.Printf("[GAME] session reset in room %s by %s", roomID, actorID)
	return r.view(), nil
}

// RoleSync returns the in-round state a reconnecting player needs. The
// word is only included for the game master.
func (reg *Registry) RoleSync(roomID, playerID string) (*SyncInfo, error) {
	r, err := reg.room(roomID)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	gp := r.Session.playerByID(playerID)
	if gp == nil {
		return nil, ErrNotInRoom
	}
	info := &SyncInfo{
		Phase:   r.Session.Phase,
		Role:    gp.Role,
		IsGhost: gp.IsGhost,
		Players: r.playersView(),
	}
	revealed := r.Session.Phase.InGame() && r.Session.Phase != PhaseRoleAssigned
	if gp.Role == RoleGameMaster || revealed {
		info.Word = r.Session.Word
	}
	return info, nil
}

// CurrentPhase is a cheap phase probe for handlers and timers.
func (reg *Registry) CurrentPhase(roomID string) (Phase, error) {
	r, err := reg.room(roomID)
	if err != nil {
		return "", err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.Session.Phase, nil
}
