package game

// Role is a player's part in the current round.
type Role string

const (
	RoleGameMaster Role = "gamemaster"
	RoleTraitor    Role = "traitor"
	RoleCitizen    Role = "citizen"
)

// PermissionAdmin marks the membership that owns the room.
const PermissionAdmin = "admin"

// PlayerInfo is the identity snapshot the engine needs about a player.
// It is filled from the identity provider at join time.
type PlayerInfo struct {
	ID    string
	Name  string
	Color string
}

// Membership is one player's occupancy of a room. SocketID is the
// current connection handle; empty means "known member, currently
// offline".
type Membership struct {
	PlayerID   string
	Name       string
	Color      string
	SocketID   string
	Permission string
}

// GamePlayer is the per-round projection of a Membership. SocketID is
// kept in sync with the Membership so vote resolution can detect
// absence without a second lookup.
type GamePlayer struct {
	PlayerID   string
	SocketID   string
	Name       string
	Color      string
	Role       Role
	IsGhost    bool
	Vote1      *string
	Vote2      *string
	NbVote2    int
	Permission string
}

// Online reports whether the player currently has a live connection.
func (p *GamePlayer) Online() bool {
	return p.SocketID != ""
}
