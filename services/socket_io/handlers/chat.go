package handlers

import (
	"Insider/services/game"
	"Insider/services/identity"
	socketio_types "Insider/services/socket_io/types"
	socketio_utils "Insider/services/socket_io/utils"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/zishang520/socket.io/v2/socket"
)

const maxChatLength = 500

// Broadcast a chat message to the player's current room
func HandleChatMessage(ids *identity.Service, client *socket.Socket,
	playerID string, sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		args, ack := socketio_utils.ExtractAck(args)
		roomID := currentRoom(sio, client)
		if roomID == "" {
			socketio_utils.ReplyError(client, ack, "not_found", "You are not in a room")
			return
		}

		message := strings.TrimSpace(socketio_utils.StringArg(args, 0))
		if message == "" {
			return
		}
		if len(message) > maxChatLength {
			message = message[:maxChatLength]
		}

		name, color := playerID, ""
		if p, err := ids.Get(playerID); err == nil {
			name, color = p.Name, p.Color
		}

		sio.Sio_server.To(socket.Room(roomID)).Emit("chatMessage", gin.H{
			"playerId": playerID,
			"name":     name,
			"color":    color,
			"message":  message,
			"sent_at":  time.Now(),
		})
		socketio_utils.ReplyOK(ack, gin.H{})
	}
}

// Change the player's display name; the room, if any, sees it at once
func HandleSetName(reg *game.Registry, ids *identity.Service, client *socket.Socket,
	playerID string, sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		args, ack := socketio_utils.ExtractAck(args)
		name := socketio_utils.StringArg(args, 0)

		p, err := ids.UpdateName(playerID, name)
		if err != nil {
			socketio_utils.ReplyError(client, ack, "conflict", err.Error())
			return
		}
		socketio_utils.ReplyOK(ack, gin.H{"name": p.Name})
		client.Emit("profileUpdated", gin.H{"name": p.Name, "color": p.Color})

		if roomID := currentRoom(sio, client); roomID != "" {
			if view, err := reg.UpdateProfile(roomID, playerID, p.Name, ""); err == nil {
				broadcastRoomUpdate(sio, view)
			}
		}
	}
}

// Change the player's display color
func HandleSetColor(reg *game.Registry, ids *identity.Service, client *socket.Socket,
	playerID string, sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		args, ack := socketio_utils.ExtractAck(args)
		color := socketio_utils.StringArg(args, 0)

		p, err := ids.UpdateColor(playerID, color)
		if err != nil {
			socketio_utils.ReplyError(client, ack, "conflict", err.Error())
			return
		}
		socketio_utils.ReplyOK(ack, gin.H{"color": p.Color})
		client.Emit("profileUpdated", gin.H{"name": p.Name, "color": p.Color})

		if roomID := currentRoom(sio, client); roomID != "" {
			if view, err := reg.UpdateProfile(roomID, playerID, "", p.Color); err == nil {
				broadcastRoomUpdate(sio, view)
			}
		}
	}
}
