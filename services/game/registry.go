package game

import (
	"log"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// WordSource hands out secret words for rounds where the game master
// does not pick one.
type WordSource interface {
	Random() string
}

// Registry owns every live room. The registry lock only guards the
// rooms map; each room carries its own mutex so rooms never block each
// other.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]*Room

	cfg   Config
	words WordSource

	rngMu sync.Mutex
	rng   *rand.Rand
}

func NewRegistry(cfg Config, words WordSource) *Registry {
	return &Registry{
		rooms: make(map[string]*Room),
		cfg:   cfg,
		words: words,
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (reg *Registry) Config() Config {
	return reg.cfg
}

func (reg *Registry) room(roomID string) (*Room, error) {
	reg.mu.RLock()
	r, ok := reg.rooms[roomID]
	reg.mu.RUnlock()
	if !ok {
		return nil, ErrRoomNotFound
	}
	return r, nil
}

// CreateRoom registers a new room with the creator as sole member and
// admin.
func (reg *Registry) CreateRoom(creator PlayerInfo, socketID string, opts RoomOptions) (*RoomView, error) {
	name := strings.TrimSpace(opts.Name)
	if name == "" {
		name = creator.Name + "'s room"
	}
	maxPlayers := opts.MaxPlayers
	if maxPlayers <= 0 {
		maxPlayers = 8
	}
	roundTime := opts.RoundTimeMinutes
	if roundTime <= 0 {
		roundTime = 5
	}
	traitorOptional := true
	if opts.TraitorOptional != nil {
		traitorOptional = *opts.TraitorOptional
	}
	hash, err := hashPassword(opts.Password)
	if err != nil {
		return nil, err
	}

	r := &Room{
		ID:    uuid.NewString()[:8],
		Name:  name,
		Admin: creator.ID,
		Settings: Settings{
			MaxPlayers:      maxPlayers,
			RoundTime:       roundTime * 60,
			TraitorOptional: traitorOptional,
			Locked:          opts.Locked && hash != "",
			PasswordHash:    hash,
		},
		Session:   &Session{Phase: PhaseIdle},
		CreatedAt: time.Now(),
	}
	r.addMember(creator, socketID)
	view := r.view()

	reg.mu.Lock()
	reg.rooms[r.ID] = r
	reg.mu.Unlock()

	log.Printf("[GAME] room %s created by %s (%s)", r.ID, creator.Name, creator.ID)
	return view, nil
}

// Join adds a player to a room, or restores their presence if they are
// already a member. Rejoin skips the capacity and password checks so a
// reconnect can never be locked out of its own seat.
func (reg *Registry) Join(roomID string, p PlayerInfo, socketID, password string) (*RoomView, error) {
	r, err := reg.room(roomID)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if m := r.memberByID(p.ID); m != nil {
		r.setSocket(p.ID, socketID)
		log.Printf("[GAME] player %s rejoined room %s", p.ID, roomID)
		return r.view(), nil
	}
	if len(r.Members) >= r.Settings.MaxPlayers {
		return nil, ErrRoomFull
	}
	if !r.checkPassword(password) {
		return nil, ErrInvalidPassword
	}
	r.addMember(p, socketID)
	log.Printf("[GAME] player %s joined room %s (%d/%d)", p.ID, roomID, len(r.Members), r.Settings.MaxPlayers)
	return r.view(), nil
}

// Leave removes a player for good. The room is deleted once the last
// member is gone, in which case the returned view is nil.
func (reg *Registry) Leave(roomID, playerID string) (*RoomView, error) {
	r, err := reg.room(roomID)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	if !r.removeMember(playerID) {
		r.mu.Unlock()
		return nil, ErrNotInRoom
	}
	empty := len(r.Members) == 0
	var view *RoomView
	if empty {
		r.stopCountdown()
	} else {
		view = r.view()
	}
	r.mu.Unlock()

	if empty {
		reg.delete(roomID)
		log.Printf("[GAME] room %s deleted (empty)", roomID)
		return nil, nil
	}
	log.Printf("[GAME] player %s left room %s", playerID, roomID)
	return view, nil
}

// Disconnect marks a member offline without removing them. The socket
// must still be the member's current handle: a stale tab closing after
// a newer connection took over the seat changes nothing.
func (reg *Registry) Disconnect(roomID, playerID, socketID string) (*RoomView, error) {
	r, err := reg.room(roomID)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	m := r.memberByID(playerID)
	if m == nil {
		return nil, ErrNotInRoom
	}
	if m.SocketID != socketID {
		return nil, ErrStaleSocket
	}
	r.setSocket(playerID, "")
	return r.view(), nil
}

// Offline reports whether the member is still disconnected. Timer
// callbacks use it to bail out when the player came back in the
// meantime.
func (reg *Registry) Offline(roomID, playerID string) bool {
	r, err := reg.room(roomID)
	if err != nil {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	m := r.memberByID(playerID)
	return m != nil && m.SocketID == ""
}

// Kick removes a target on the admin's behalf and returns the target's
// socket so the caller can notify them directly.
func (reg *Registry) Kick(roomID, adminID, targetID string) (*RoomView, string, error) {
	if adminID == targetID {
		return nil, "", ErrCannotKickSelf
	}
	r, err := reg.room(roomID)
	if err != nil {
		return nil, "", err
	}
	r.mu.Lock()
	if r.Admin != adminID {
		r.mu.Unlock()
		return nil, "", ErrNotAuthorized
	}
	target := r.memberByID(targetID)
	if target == nil {
		r.mu.Unlock()
		return nil, "", ErrPlayerNotFound
	}
	targetSocket := target.SocketID
	r.removeMember(targetID)
	empty := len(r.Members) == 0
	var view *RoomView
	if !empty {
		view = r.view()
	} else {
		r.stopCountdown()
	}
	r.mu.Unlock()

	if empty {
		reg.delete(roomID)
	}
	log.Printf("[GAME] player %s kicked from room %s by %s", targetID, roomID, adminID)
	return view, targetSocket, nil
}

// TransferAdmin hands the room over to another member.
func (reg *Registry) TransferAdmin(roomID, adminID, newAdminID string) (*RoomView, error) {
	r, err := reg.room(roomID)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Admin != adminID {
		return nil, ErrNotAuthorized
	}
	target := r.memberByID(newAdminID)
	if target == nil {
		return nil, ErrPlayerNotFound
	}
	if old := r.memberByID(adminID); old != nil {
		old.Permission = ""
	}
	if gp := r.Session.playerByID(adminID); gp != nil {
		gp.Permission = ""
	}
	r.Admin = newAdminID
	target.Permission = PermissionAdmin
	if gp := r.Session.playerByID(newAdminID); gp != nil {
		gp.Permission = PermissionAdmin
	}
	log.Printf("[GAME] room %s admin transferred %s -> %s", roomID, adminID, newAdminID)
	return r.view(), nil
}

// UpdateRoom applies a partial settings patch. Admin only, and only
// between rounds.
func (reg *Registry) UpdateRoom(roomID, adminID string, patch RoomUpdate) (*RoomView, error) {
	r, err := reg.room(roomID)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Admin != adminID {
		return nil, ErrNotAuthorized
	}
	if r.Session.Phase.InGame() {
		return nil, ErrWrongPhase
	}
	if patch.Name != nil && strings.TrimSpace(*patch.Name) != "" {
		r.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.MaxPlayers != nil && *patch.MaxPlayers >= len(r.Members) && *patch.MaxPlayers > 0 {
		r.Settings.MaxPlayers = *patch.MaxPlayers
	}
	if patch.RoundTimeMinutes != nil && *patch.RoundTimeMinutes > 0 {
		r.Settings.RoundTime = *patch.RoundTimeMinutes * 60
	}
	if patch.TraitorOptional != nil {
		r.Settings.TraitorOptional = *patch.TraitorOptional
	}
	if patch.Password != "" {
		hash, err := hashPassword(patch.Password)
		if err != nil {
			return nil, err
		}
		r.Settings.PasswordHash = hash
	}
	if patch.Locked != nil {
		r.Settings.Locked = *patch.Locked && r.Settings.PasswordHash != ""
	}
	return r.view(), nil
}

// UpdateProfile propagates a rename or recolor into the membership so
// the room never shows a stale profile.
func (reg *Registry) UpdateProfile(roomID, playerID, name, color string) (*RoomView, error) {
	r, err := reg.room(roomID)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	m := r.memberByID(playerID)
	if m == nil {
		return nil, ErrNotInRoom
	}
	if name != "" {
		m.Name = name
	}
	if color != "" {
		m.Color = color
	}
	if gp := r.Session.playerByID(playerID); gp != nil {
		if name != "" {
			gp.Name = name
		}
		if color != "" {
			gp.Color = color
		}
	}
	return r.view(), nil
}

// View returns a snapshot of one room.
func (reg *Registry) View(roomID string) (*RoomView, error) {
	r, err := reg.room(roomID)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.view(), nil
}

// List returns the public room list.
func (reg *Registry) List() []RoomSummary {
	reg.mu.RLock()
	rooms := make([]*Room, 0, len(reg.rooms))
	for _, r := range reg.rooms {
		rooms = append(rooms, r)
	}
	reg.mu.RUnlock()

	out := make([]RoomSummary, 0, len(rooms))
	for _, r := range rooms {
		r.mu.Lock()
		out = append(out, r.summary())
		r.mu.Unlock()
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Count returns the number of live rooms.
func (reg *Registry) Count() int {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return len(reg.rooms)
}

// MemberSockets returns the live sockets of a room, for direct emits.
func (reg *Registry) MemberSockets(roomID string) []string {
	r, err := reg.room(roomID)
	if err != nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.memberSockets()
}

// RoomOfPlayer finds the room holding a player, if any. Disconnect
// cleanup uses it when the socket context is gone.
func (reg *Registry) RoomOfPlayer(playerID string) (string, bool) {
	reg.mu.RLock()
	rooms := make([]*Room, 0, len(reg.rooms))
	for _, r := range reg.rooms {
		rooms = append(rooms, r)
	}
	reg.mu.RUnlock()

	for _, r := range rooms {
		r.mu.Lock()
		found := r.memberByID(playerID) != nil
		r.mu.Unlock()
		if found {
			return r.ID, true
		}
	}
	return "", false
}

// RoomsOfPlayer lists every room holding the player. Nothing stops a
// player from sitting in several rooms at once, so ban eviction sweeps
// all of them.
func (reg *Registry) RoomsOfPlayer(playerID string) []string {
	reg.mu.RLock()
	rooms := make([]*Room, 0, len(reg.rooms))
	for _, r := range reg.rooms {
		rooms = append(rooms, r)
	}
	reg.mu.RUnlock()

	var ids []string
	for _, r := range rooms {
		r.mu.Lock()
		found := r.memberByID(playerID) != nil
		r.mu.Unlock()
		if found {
			ids = append(ids, r.ID)
		}
	}
	sort.Strings(ids)
	return ids
}

// ForceClose tears down one room regardless of state and returns the
// sockets that were in it.
func (reg *Registry) ForceClose(roomID string) ([]string, error) {
	r, err := reg.room(roomID)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	sockets := r.memberSockets()
	r.stopCountdown()
	r.Members = nil
	r.Session = &Session{Phase: PhaseIdle}
	r.mu.Unlock()

	reg.delete(roomID)
	log.Printf("[GAME] room %s force closed", roomID)
	return sockets, nil
}

// ForceUnlock removes a room's password without the room admin's say.
func (reg *Registry) ForceUnlock(roomID string) (*RoomView, error) {
	r, err := reg.room(roomID)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	r.Settings.Locked = false
	r.Settings.PasswordHash = ""
	view := r.view()
	r.mu.Unlock()

	log.Printf("[GAME] room %s force unlocked", roomID)
	return view, nil
}

// ClearEmpty drops rooms with no members left and returns how many
// went.
func (reg *Registry) ClearEmpty() int {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	n := 0
	for id, r := range reg.rooms {
		r.mu.Lock()
		empty := len(r.Members) == 0
		if empty {
			r.stopCountdown()
		}
		r.mu.Unlock()
		if empty {
			delete(reg.rooms, id)
			n++
		}
	}
	if n > 0 {
		log.Printf("[GAME] cleared %d empty rooms", n)
	}
	return n
}

// ClearAll drops every room and returns the sockets that were inside.
func (reg *Registry) ClearAll() (int, []string) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	var sockets []string
	n := len(reg.rooms)
	for id, r := range reg.rooms {
		r.mu.Lock()
		sockets = append(sockets, r.memberSockets()...)
		r.stopCountdown()
		r.mu.Unlock()
		delete(reg.rooms, id)
	}
	log.Printf("[GAME] cleared all rooms (%d)", n)
	return n, sockets
}

func (reg *Registry) delete(roomID string) {
	reg.mu.Lock()
	delete(reg.rooms, roomID)
	reg.mu.Unlock()
}
