package game

// Phase is the state of the per-room game state machine. Every mutating
// operation is guarded by the phase it requires.
type Phase string

const (
	PhaseIdle         Phase = "idle"
	PhaseRoleAssigned Phase = "role"
	PhaseWordRevealed Phase = "word"
	PhaseInProgress   Phase = "in_progress"
	PhaseVote1        Phase = "vote1"
	PhaseVote2        Phase = "vote2"
	PhaseEnded        Phase = "end"
)

// InGame reports whether the phase counts as an active round for the
// room list.
func (p Phase) InGame() bool {
	switch p {
	case PhaseRoleAssigned, PhaseWordRevealed, PhaseInProgress, PhaseVote1, PhaseVote2:
		return true
	}
	return false
}

// Session is the one mutable game-in-progress record of a room. It is
// replaced wholesale at round end and on admin reset.
type Session struct {
	Players     []*GamePlayer
	Word        string
	Phase       Phase
	ResultVote1 *Vote1Result
	ResultVote2 *Vote2Result
}

// newSession projects the current membership into a fresh idle session.
func newSession(members []*Membership) *Session {
	s := &Session{Phase: PhaseIdle}
	for _, m := range members {
		s.Players = append(s.Players, &GamePlayer{
			PlayerID:   m.PlayerID,
			SocketID:   m.SocketID,
			Name:       m.Name,
			Color:      m.Color,
			Role:       RoleCitizen,
			Permission: m.Permission,
		})
	}
	return s
}

func (s *Session) playerByID(playerID string) *GamePlayer {
	for _, p := range s.Players {
		if p.PlayerID == playerID {
			return p
		}
	}
	return nil
}
