package handlers

import (
	"Insider/services/game"
	"Insider/services/identity"
	socketio_types "Insider/services/socket_io/types"
	"log"

	"github.com/zishang520/socket.io/v2/socket"
)

// Function to handle a socket dropping. The player keeps their seat:
// first a short grace period (nothing announced, fast reconnects are
// invisible), then the room is told, and only after the long expiry is
// the seat given up for good.
func HandleDisconnecting(reg *game.Registry, ids *identity.Service, watchdog *game.Watchdog,
	client *socket.Socket, playerID string, sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		ctx := sio.GetContext(client)
		roomID := ""
		if ctx != nil {
			roomID = ctx.RoomID
		}
		sio.RemoveConnection(playerID, client)
		ids.Touch(playerID)
		log.Printf("[CONN] player %s disconnecting (socket %s)", playerID, client.Id())

		if roomID == "" {
			return
		}
		// Another tab still holds a live connection: the seat stays as is.
		if _, ok := sio.GetConnection(playerID); ok {
			return
		}

		view, err := reg.Disconnect(roomID, playerID, string(client.Id()))
		if err != nil {
			return
		}
		broadcastRoomUpdate(sio, view)

		playerName := playerID
		if p, err := ids.Get(playerID); err == nil {
			playerName = p.Name
		}

		watchdog.ArmGrace(playerID, func() {
			// Reconnected during the grace window: pretend nothing happened.
			if !reg.Offline(roomID, playerID) {
				return
			}
			systemNotice(sio, roomID, playerName+" lost connection")
			sio.Sio_server.To(socket.Room(roomID)).Emit("playerDisconnected", map[string]interface{}{
				"playerId": playerID,
				"name":     playerName,
			})

			watchdog.ArmExpiry(playerID, func() {
				if !reg.Offline(roomID, playerID) {
					return
				}
				view, err := reg.Leave(roomID, playerID)
				if err != nil {
					return
				}
				log.Printf("[CONN] player %s expired from room %s", playerID, roomID)
				systemNotice(sio, roomID, playerName+" left the room")
				broadcastRoomUpdate(sio, view)
				broadcastRoomList(sio, reg)
			})
		})
	}
}
