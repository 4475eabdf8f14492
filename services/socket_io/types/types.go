package socketio_types

import (
	"sync"

	"github.com/zishang520/socket.io/v2/socket"
)

// SocketServer is a struct that contains the socket.io server, a map of
// player connections and the per-socket context. It is used to handle
// socket.io connections.
type SocketServer struct {
	Sio_server *socket.Server
	// Map to track playerId -> socket connection. A reconnect replaces
	// the previous socket, so the latest tab always wins.
	PlayerConnections map[string]*socket.Socket
	// Map to track socketId -> connection context
	Contexts map[socket.SocketId]*ConnContext
	mutex    sync.RWMutex
}

// ConnContext is what the server remembers about one live socket.
type ConnContext struct {
	PlayerID string
	RoomID   string
	IsAdmin  bool
}

func NewSocketServer() *SocketServer {
	return &SocketServer{
		PlayerConnections: make(map[string]*socket.Socket),
		Contexts:          make(map[socket.SocketId]*ConnContext),
	}
}

// Add methods to manage connections
func (s *SocketServer) AddConnection(playerID string, client *socket.Socket, isAdmin bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.PlayerConnections[playerID] = client
	s.Contexts[client.Id()] = &ConnContext{PlayerID: playerID, IsAdmin: isAdmin}
}

// RemoveConnection forgets a socket. The player mapping is only dropped
// when it still points at this exact socket, so a fast reconnect that
// already replaced it is left alone.
func (s *SocketServer) RemoveConnection(playerID string, client *socket.Socket) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if current, ok := s.PlayerConnections[playerID]; ok && current == client {
		delete(s.PlayerConnections, playerID)
	}
	delete(s.Contexts, client.Id())
}

func (s *SocketServer) GetConnection(playerID string) (*socket.Socket, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	client, exists := s.PlayerConnections[playerID]
	return client, exists
}

// GetContext returns the context of a socket, nil if unknown.
func (s *SocketServer) GetContext(client *socket.Socket) *ConnContext {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.Contexts[client.Id()]
}

// SetRoom records which room a socket currently sits in.
func (s *SocketServer) SetRoom(client *socket.Socket, roomID string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if ctx, ok := s.Contexts[client.Id()]; ok {
		ctx.RoomID = roomID
	}
}

// ConnectionCount returns how many players are connected.
func (s *SocketServer) ConnectionCount() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.PlayerConnections)
}
