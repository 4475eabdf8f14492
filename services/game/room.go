package game

import (
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Settings are the admin-tunable knobs of a room. Passwords are only
// ever stored hashed.
type Settings struct {
	MaxPlayers      int
	RoundTime       int // seconds
	TraitorOptional bool
	Locked          bool
	PasswordHash    string
}

// RoomOptions is the payload of a create-room request.
type RoomOptions struct {
	Name             string
	MaxPlayers       int
	RoundTimeMinutes int
	TraitorOptional  *bool
	Locked           bool
	Password         string
}

// RoomUpdate is a partial settings patch; nil fields stay untouched.
type RoomUpdate struct {
	Name             *string
	MaxPlayers       *int
	RoundTimeMinutes *int
	TraitorOptional  *bool
	Locked           *bool
	Password         string
}

// Room is the aggregate owning one game session. All state behind mu;
// the only mutators are the Registry operations, which serialize every
// event for the same room.
type Room struct {
	mu sync.Mutex

	ID        string
	Name      string
	Admin     string
	Settings  Settings
	Members   []*Membership
	Session   *Session
	CreatedAt time.Time

	countdown  *countdown
	lastAction time.Time
}

// allowAction implements the admin action cooldown. The first call in
// any cooldown window claims it; the window survives session resets.
func (r *Room) allowAction(cooldown time.Duration) bool {
	now := time.Now()
	if r.lastAction.IsZero() || now.Sub(r.lastAction) > cooldown {
		r.lastAction = now
		return true
	}
	return false
}

func hashPassword(password string) (string, error) {
	if password == "" {
		return "", nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (r *Room) checkPassword(password string) bool {
	if !r.Settings.Locked || r.Settings.PasswordHash == "" {
		return true
	}
	return bcrypt.CompareHashAndPassword([]byte(r.Settings.PasswordHash), []byte(password)) == nil
}

func (r *Room) memberByID(playerID string) *Membership {
	for _, m := range r.Members {
		if m.PlayerID == playerID {
			return m
		}
	}
	return nil
}

func (r *Room) connectedCount() int {
	n := 0
	for _, m := range r.Members {
		if m.SocketID != "" {
			n++
		}
	}
	return n
}

// addMember appends a membership and its session projection in
// lock-step. The two lists are never mutated independently.
func (r *Room) addMember(info PlayerInfo, socketID string) {
	permission := ""
	if info.ID == r.Admin {
		permission = PermissionAdmin
	}
	r.Members = append(r.Members, &Membership{
		PlayerID:   info.ID,
		Name:       info.Name,
		Color:      info.Color,
		SocketID:   socketID,
		Permission: permission,
	})
	r.Session.Players = append(r.Session.Players, &GamePlayer{
		PlayerID:   info.ID,
		SocketID:   socketID,
		Name:       info.Name,
		Color:      info.Color,
		Role:       RoleCitizen,
		Permission: permission,
	})
}

// removeMember drops a player from both lists and re-elects the admin
// (first remaining membership in join order) if the departing player
// held it. Returns false if the player was not a member.
func (r *Room) removeMember(playerID string) bool {
	idx := -1
	for i, m := range r.Members {
		if m.PlayerID == playerID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}
	wasAdmin := r.Admin == playerID
	r.Members = append(r.Members[:idx], r.Members[idx+1:]...)

	for i, p := range r.Session.Players {
		if p.PlayerID == playerID {
			r.Session.Players = append(r.Session.Players[:i], r.Session.Players[i+1:]...)
			break
		}
	}

	if wasAdmin && len(r.Members) > 0 {
		r.Admin = r.Members[0].PlayerID
		r.Members[0].Permission = PermissionAdmin
		if gp := r.Session.playerByID(r.Admin); gp != nil {
			gp.Permission = PermissionAdmin
		}
	}
	return true
}

// setSocket updates the connection handle in both lists.
func (r *Room) setSocket(playerID, socketID string) bool {
	m := r.memberByID(playerID)
	if m == nil {
		return false
	}
	m.SocketID = socketID
	if gp := r.Session.playerByID(playerID); gp != nil {
		gp.SocketID = socketID
	}
	return true
}

// stopCountdown cancels a running round timer, if any.
func (r *Room) stopCountdown() {
	if r.countdown != nil {
		r.countdown.Stop()
		r.countdown = nil
	}
}

// resetSession replaces the game session with a fresh idle one built
// from the current membership.
func (r *Room) resetSession() {
	r.stopCountdown()
	r.Session = newSession(r.Members)
}
