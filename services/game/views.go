package game

// Snapshot types returned by Registry operations. They are plain copies
// taken under the room lock so handlers can serialize them after the
// lock is gone.

// MemberView is one row of a room's member list.
type MemberView struct {
	PlayerID   string `json:"playerId"`
	Name       string `json:"name"`
	Color      string `json:"color"`
	Online     bool   `json:"online"`
	Permission string `json:"permission,omitempty"`
}

// SettingsView is the public part of the room settings.
type SettingsView struct {
	MaxPlayers      int  `json:"maxPlayers"`
	RoundTime       int  `json:"roundTime"`
	TraitorOptional bool `json:"traitorOptional"`
	Locked          bool `json:"locked"`
}

// RoomView is the full room snapshot broadcast on every membership
// change.
type RoomView struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	Admin    string       `json:"admin"`
	Settings SettingsView `json:"settings"`
	Members  []MemberView `json:"members"`
	Phase    Phase        `json:"phase"`
}

// RoomSummary is one row of the public room list.
type RoomSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	PlayerCount int    `json:"playerCount"`
	MaxPlayers  int    `json:"maxPlayers"`
	Locked      bool   `json:"locked"`
	InGame      bool   `json:"inGame"`
}

// PlayerView is the in-round player snapshot. Roles are included; the
// client is responsible for masking what the viewer may not see, same
// as the reference clients always did.
type PlayerView struct {
	PlayerID   string `json:"playerId"`
	Name       string `json:"name"`
	Color      string `json:"color"`
	Role       Role   `json:"role"`
	IsGhost    bool   `json:"isGhost"`
	NbVote2    int    `json:"nbVote2"`
	Online     bool   `json:"online"`
	Permission string `json:"permission,omitempty"`
}

// PrivateRole is the per-socket role notification sent when a round
// starts.
type PrivateRole struct {
	PlayerID string
	SocketID string
	Role     Role
	IsGhost  bool
}

// view must be called with r.mu held.
func (r *Room) view() *RoomView {
	v := &RoomView{
		ID:    r.ID,
		Name:  r.Name,
		Admin: r.Admin,
		Settings: SettingsView{
			MaxPlayers:      r.Settings.MaxPlayers,
			RoundTime:       r.Settings.RoundTime,
			TraitorOptional: r.Settings.TraitorOptional,
			Locked:          r.Settings.Locked,
		},
		Members: make([]MemberView, 0, len(r.Members)),
		Phase:   r.Session.Phase,
	}
	for _, m := range r.Members {
		v.Members = append(v.Members, MemberView{
			PlayerID:   m.PlayerID,
			Name:       m.Name,
			Color:      m.Color,
			Online:     m.SocketID != "",
			Permission: m.Permission,
		})
	}
	return v
}

// summary must be called with r.mu held.
func (r *Room) summary() RoomSummary {
	return RoomSummary{
		ID:          r.ID,
		Name:        r.Name,
		PlayerCount: len(r.Members),
		MaxPlayers:  r.Settings.MaxPlayers,
		Locked:      r.Settings.Locked,
		InGame:      r.Session.Phase.InGame(),
	}
}

// playersView must be called with r.mu held.
func (r *Room) playersView() []PlayerView {
	out := make([]PlayerView, 0, len(r.Session.Players))
	for _, p := range r.Session.Players {
		out = append(out, PlayerView{
			PlayerID:   p.PlayerID,
			Name:       p.Name,
			Color:      p.Color,
			Role:       p.Role,
			IsGhost:    p.IsGhost,
			NbVote2:    p.NbVote2,
			Online:     p.Online(),
			Permission: p.Permission,
		})
	}
	return out
}

// memberSockets must be called with r.mu held.
func (r *Room) memberSockets() []string {
	var out []string
	for _, m := range r.Members {
		if m.SocketID != "" {
			out = append(out, m.SocketID)
		}
	}
	return out
}
