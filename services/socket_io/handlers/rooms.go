package handlers

import (
	"Insider/services/game"
	"Insider/services/identity"
	socketio_types "Insider/services/socket_io/types"
	socketio_utils "Insider/services/socket_io/utils"
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/zishang520/socket.io/v2/socket"
)

// playerInfo resolves the current profile of the acting player.
func playerInfo(ids *identity.Service, playerID string) (game.PlayerInfo, error) {
	p, err := ids.Get(playerID)
	if err != nil {
		return game.PlayerInfo{}, err
	}
	return game.PlayerInfo{ID: p.ID, Name: p.Name, Color: p.Color}, nil
}

// Function to handle room creation. The creator becomes the room admin
// and is joined to the matching socket.io room straight away.
func HandleCreateRoom(reg *game.Registry, ids *identity.Service, client *socket.Socket,
	playerID string, sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		args, ack := socketio_utils.ExtractAck(args)
		payload := socketio_utils.MapArg(args, 0)

		info, err := playerInfo(ids, playerID)
		if err != nil {
			fmt.Println("Identity lookup failed:", err)
			socketio_utils.ReplyError(client, ack, "not_found", "Unknown player")
			return
		}

		opts := game.RoomOptions{
			Name:             socketio_utils.MapString(payload, "name"),
			MaxPlayers:       socketio_utils.MapInt(payload, "maxPlayers"),
			RoundTimeMinutes: socketio_utils.MapInt(payload, "roundTime"),
			Password:         socketio_utils.MapString(payload, "password"),
		}
		if locked, ok := socketio_utils.MapBool(payload, "locked"); ok {
			opts.Locked = locked
		} else {
			opts.Locked = opts.Password != ""
		}
		if optional, ok := socketio_utils.MapBool(payload, "traitorOptional"); ok {
			opts.TraitorOptional = &optional
		}

		view, err := reg.CreateRoom(info, string(client.Id()), opts)
		if err != nil {
			socketio_utils.ReplyError(client, ack, string(game.ErrCode(err)), err.Error())
			return
		}

		client.Join(socket.Room(view.ID))
		sio.SetRoom(client, view.ID)

		socketio_utils.ReplyOK(ack, gin.H{"room": view})
		client.Emit("roomJoined", view)
		broadcastRoomList(sio, reg)
	}
}

// Function to handle the act of joining a room. A player that is
// already a member gets their seat back (reconnect), everyone else goes
// through the capacity and password checks.
func HandleJoinRoom(reg *game.Registry, ids *identity.Service, watchdog *game.Watchdog,
	client *socket.Socket, playerID string, sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		args, ack := socketio_utils.ExtractAck(args)
		payload := socketio_utils.MapArg(args, 0)
		roomID := socketio_utils.MapString(payload, "roomId")
		if roomID == "" {
			roomID = socketio_utils.StringArg(args, 0)
		}
		if roomID == "" {
			socketio_utils.ReplyError(client, ack, "not_found", "Missing room id")
			return
		}

		info, err := playerInfo(ids, playerID)
		if err != nil {
			socketio_utils.ReplyError(client, ack, "not_found", "Unknown player")
			return
		}

		wasMember := false
		if view, err := reg.View(roomID); err == nil {
			for _, m := range view.Members {
				if m.PlayerID == playerID {
					wasMember = true
				}
			}
		}

		view, err := reg.Join(roomID, info, string(client.Id()), socketio_utils.MapString(payload, "password"))
		if err != nil {
			socketio_utils.ReplyError(client, ack, string(game.ErrCode(err)), err.Error())
			return
		}

		watchdog.Cancel(playerID)
		client.Join(socket.Room(roomID))
		sio.SetRoom(client, roomID)

		socketio_utils.ReplyOK(ack, gin.H{"room": view})
		client.Emit("roomJoined", view)
		broadcastRoomUpdate(sio, view)
		broadcastRoomList(sio, reg)

		if wasMember {
			systemNotice(sio, roomID, info.Name+" reconnected")
			// Restore in-round state for a reconnect mid-game.
			if sync, err := reg.RoleSync(roomID, playerID); err == nil && sync.Phase.InGame() {
				client.Emit("roleSync", gin.H{
					"phase":   sync.Phase,
					"role":    sync.Role,
					"isGhost": sync.IsGhost,
					"word":    sync.Word,
					"players": sync.Players,
				})
			}
		} else {
			systemNotice(sio, roomID, info.Name+" joined the room")
		}
	}
}

// Exit a room voluntarily
func HandleLeaveRoom(reg *game.Registry, watchdog *game.Watchdog, client *socket.Socket,
	playerID string, sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		_, ack := socketio_utils.ExtractAck(args)
		ctx := sio.GetContext(client)
		if ctx == nil || ctx.RoomID == "" {
			socketio_utils.ReplyError(client, ack, "not_found", "You are not in a room")
			return
		}
		roomID := ctx.RoomID

		view, err := reg.Leave(roomID, playerID)
		if err != nil {
			socketio_utils.ReplyError(client, ack, string(game.ErrCode(err)), err.Error())
			return
		}

		watchdog.Cancel(playerID)
		client.Leave(socket.Room(roomID))
		sio.SetRoom(client, "")

		socketio_utils.ReplyOK(ack, gin.H{"room_id": roomID})
		client.Emit("roomLeft", gin.H{"room_id": roomID})
		broadcastRoomUpdate(sio, view)
		broadcastRoomList(sio, reg)
	}
}

// Kick a player from a room (only for the room admin)
func HandleKickPlayer(reg *game.Registry, watchdog *game.Watchdog, client *socket.Socket,
	playerID string, sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		args, ack := socketio_utils.ExtractAck(args)
		targetID := socketio_utils.StringArg(args, 0)
		ctx := sio.GetContext(client)
		if ctx == nil || ctx.RoomID == "" {
			socketio_utils.ReplyError(client, ack, "not_found", "You are not in a room")
			return
		}
		roomID := ctx.RoomID

		view, _, err := reg.Kick(roomID, playerID, targetID)
		if err != nil {
			socketio_utils.ReplyError(client, ack, string(game.ErrCode(err)), err.Error())
			return
		}
		watchdog.Cancel(targetID)

		if target, ok := sio.GetConnection(targetID); ok {
			target.Emit("kicked", gin.H{"room_id": roomID})
			target.Leave(socket.Room(roomID))
			sio.SetRoom(target, "")
		}

		log.Printf("[ROOM] %s kicked %s from %s", playerID, targetID, roomID)
		socketio_utils.ReplyOK(ack, gin.H{"room": view})
		broadcastRoomUpdate(sio, view)
		broadcastRoomList(sio, reg)
	}
}

// Hand the room admin role to another member (only for the room admin)
func HandleTransferAdmin(reg *game.Registry, client *socket.Socket,
	playerID string, sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		args, ack := socketio_utils.ExtractAck(args)
		targetID := socketio_utils.StringArg(args, 0)
		ctx := sio.GetContext(client)
		if ctx == nil || ctx.RoomID == "" {
			socketio_utils.ReplyError(client, ack, "not_found", "You are not in a room")
			return
		}

		view, err := reg.TransferAdmin(ctx.RoomID, playerID, targetID)
		if err != nil {
			socketio_utils.ReplyError(client, ack, string(game.ErrCode(err)), err.Error())
			return
		}
		socketio_utils.ReplyOK(ack, gin.H{"room": view})
		broadcastRoomUpdate(sio, view)
	}
}

// Change the room settings (only for the room admin, between rounds)
func HandleUpdateRoom(reg *game.Registry, client *socket.Socket,
	playerID string, sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		args, ack := socketio_utils.ExtractAck(args)
		payload := socketio_utils.MapArg(args, 0)
		ctx := sio.GetContext(client)
		if ctx == nil || ctx.RoomID == "" {
			socketio_utils.ReplyError(client, ack, "not_found", "You are not in a room")
			return
		}

		patch := game.RoomUpdate{
			Password: socketio_utils.MapString(payload, "password"),
		}
		if name := socketio_utils.MapString(payload, "name"); name != "" {
			patch.Name = &name
		}
		if mp := socketio_utils.MapInt(payload, "maxPlayers"); mp > 0 {
			patch.MaxPlayers = &mp
		}
		if rt := socketio_utils.MapInt(payload, "roundTime"); rt > 0 {
			patch.RoundTimeMinutes = &rt
		}
		if optional, ok := socketio_utils.MapBool(payload, "traitorOptional"); ok {
			patch.TraitorOptional = &optional
		}
		if locked, ok := socketio_utils.MapBool(payload, "locked"); ok {
			patch.Locked = &locked
		}

		view, err := reg.UpdateRoom(ctx.RoomID, playerID, patch)
		if err != nil {
			socketio_utils.ReplyError(client, ack, string(game.ErrCode(err)), err.Error())
			return
		}
		socketio_utils.ReplyOK(ack, gin.H{"room": view})
		broadcastRoomUpdate(sio, view)
		broadcastRoomList(sio, reg)
	}
}

// Get the public room list
func HandleGetRooms(reg *game.Registry, client *socket.Socket) func(args ...interface{}) {
	return func(args ...interface{}) {
		_, ack := socketio_utils.ExtractAck(args)
		payload := gin.H{"rooms": reg.List()}
		if ack != nil {
			socketio_utils.ReplyOK(ack, payload)
			return
		}
		client.Emit("roomListUpdate", payload)
	}
}

// Get the full view of one room
func HandleGetRoomInfo(reg *game.Registry, client *socket.Socket,
	sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		args, ack := socketio_utils.ExtractAck(args)
		roomID := socketio_utils.StringArg(args, 0)
		if roomID == "" {
			if ctx := sio.GetContext(client); ctx != nil {
				roomID = ctx.RoomID
			}
		}
		view, err := reg.View(roomID)
		if err != nil {
			socketio_utils.ReplyError(client, ack, string(game.ErrCode(err)), err.Error())
			return
		}
		if ack != nil {
			socketio_utils.ReplyOK(ack, gin.H{"room": view})
			return
		}
		client.Emit("roomUpdate", view)
	}
}
