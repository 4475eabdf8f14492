package handlers

import (
	"Insider/services/game"
	socketio_types "Insider/services/socket_io/types"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/zishang520/socket.io/v2/socket"
)

// Broadcast helpers shared by every handler. Handlers mutate through
// the registry first and only then emit, so clients never observe a
// state the server does not hold.

func broadcastRoomUpdate(sio *socketio_types.SocketServer, view *game.RoomView) {
	if view == nil {
		return
	}
	sio.Sio_server.To(socket.Room(view.ID)).Emit("roomUpdate", view)
}

func broadcastRoomList(sio *socketio_types.SocketServer, reg *game.Registry) {
	sio.Sio_server.Emit("roomListUpdate", gin.H{"rooms": reg.List()})
}

// systemNotice drops a server-authored line into a room's chat.
func systemNotice(sio *socketio_types.SocketServer, roomID, text string) {
	sio.Sio_server.To(socket.Room(roomID)).Emit("chatMessage", gin.H{
		"system":  true,
		"message": text,
		"sent_at": time.Now(),
	})
}
