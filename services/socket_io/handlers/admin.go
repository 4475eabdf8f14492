package handlers

import (
	redis_models "Insider/models/redis"
	"Insider/services/game"
	"Insider/services/identity"
	"Insider/services/redis"
	socketio_types "Insider/services/socket_io/types"
	socketio_utils "Insider/services/socket_io/utils"
	"Insider/services/stats"
	"Insider/services/words"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/zishang520/socket.io/v2/socket"
)

// requireAdmin gates the admin_* events on the handshake JWT.
func requireAdmin(sio *socketio_types.SocketServer, client *socket.Socket, ack socket.Ack) bool {
	ctx := sio.GetContext(client)
	if ctx == nil || !ctx.IsAdmin {
		socketio_utils.ReplyError(client, ack, "unauthorized", "Admin token required")
		return false
	}
	return true
}

// Server dashboard: every room plus connection counters
func HandleAdminGetRooms(reg *game.Registry, client *socket.Socket,
	sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		_, ack := socketio_utils.ExtractAck(args)
		if !requireAdmin(sio, client, ack) {
			return
		}
		payload := gin.H{
			"rooms":       reg.List(),
			"room_count":  reg.Count(),
			"connections": sio.ConnectionCount(),
		}
		if ack != nil {
			socketio_utils.ReplyOK(ack, payload)
			return
		}
		client.Emit("admin_rooms", payload)
	}
}

// Tear down one room regardless of state
func HandleAdminCloseRoom(reg *game.Registry, client *socket.Socket,
	sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		args, ack := socketio_utils.ExtractAck(args)
		if !requireAdmin(sio, client, ack) {
			return
		}
		roomID := socketio_utils.StringArg(args, 0)

		// Tell the occupants before their room disappears.
		sio.Sio_server.To(socket.Room(roomID)).Emit("roomClosed", gin.H{"room_id": roomID})
		if _, err := reg.ForceClose(roomID); err != nil {
			socketio_utils.ReplyError(client, ack, string(game.ErrCode(err)), err.Error())
			return
		}
		log.Printf("[ADMIN] room %s force closed", roomID)
		socketio_utils.ReplyOK(ack, gin.H{"room_id": roomID})
		broadcastRoomList(sio, reg)
	}
}

// Tear down every room
func HandleAdminClearRooms(reg *game.Registry, client *socket.Socket,
	sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		_, ack := socketio_utils.ExtractAck(args)
		if !requireAdmin(sio, client, ack) {
			return
		}
		sio.Sio_server.Emit("roomClosed", gin.H{"all": true})
		n, _ := reg.ClearAll()
		log.Printf("[ADMIN] cleared %d rooms", n)
		socketio_utils.ReplyOK(ack, gin.H{"cleared": n})
		broadcastRoomList(sio, reg)
	}
}

// Ban a player, optionally for a limited number of hours (0 = forever)
func HandleAdminBanPlayer(reg *game.Registry, redisClient *redis.RedisClient,
	client *socket.Socket, sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		args, ack := socketio_utils.ExtractAck(args)
		if !requireAdmin(sio, client, ack) {
			return
		}
		payload := socketio_utils.MapArg(args, 0)
		targetID := socketio_utils.MapString(payload, "playerId")
		if targetID == "" {
			socketio_utils.ReplyError(client, ack, "not_found", "Missing playerId")
			return
		}
		reason := socketio_utils.MapString(payload, "reason")
		hours := socketio_utils.MapInt(payload, "hours")

		ban := &redis_models.BanRecord{
			PlayerID: targetID,
			Reason:   reason,
			BannedAt: time.Now(),
		}
		var ttl time.Duration
		if hours > 0 {
			ttl = time.Duration(hours) * time.Hour
			expires := ban.BannedAt.Add(ttl)
			ban.ExpiresAt = &expires
		}
		if err := redisClient.SaveBan(ban, ttl); err != nil {
			socketio_utils.ReplyError(client, ack, "invalid_state", "Could not save ban")
			return
		}

		// Evict from every room they sit in and cut the connection.
		rooms := reg.RoomsOfPlayer(targetID)
		for _, roomID := range rooms {
			if view, err := reg.Leave(roomID, targetID); err == nil {
				broadcastRoomUpdate(sio, view)
			}
		}
		if len(rooms) > 0 {
			broadcastRoomList(sio, reg)
		}
		if target, ok := sio.GetConnection(targetID); ok {
			target.Emit("banned", gin.H{"reason": reason})
			target.Disconnect(true)
		}

		log.Printf("[ADMIN] banned player %s (%dh): %s", targetID, hours, reason)
		socketio_utils.ReplyOK(ack, gin.H{"player_id": targetID})
	}
}

// Lift a ban
func HandleAdminUnbanPlayer(redisClient *redis.RedisClient, client *socket.Socket,
	sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		args, ack := socketio_utils.ExtractAck(args)
		if !requireAdmin(sio, client, ack) {
			return
		}
		targetID := socketio_utils.StringArg(args, 0)
		if err := redisClient.DeleteBan(targetID); err != nil {
			socketio_utils.ReplyError(client, ack, "invalid_state", "Could not delete ban")
			return
		}
		log.Printf("[ADMIN] unbanned player %s", targetID)
		socketio_utils.ReplyOK(ack, gin.H{"player_id": targetID})
	}
}

// List the live bans
func HandleAdminListBans(redisClient *redis.RedisClient, client *socket.Socket,
	sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		_, ack := socketio_utils.ExtractAck(args)
		if !requireAdmin(sio, client, ack) {
			return
		}
		bans, err := redisClient.ListBans()
		if err != nil {
			socketio_utils.ReplyError(client, ack, "invalid_state", "Could not list bans")
			return
		}
		payload := gin.H{"bans": bans}
		if ack != nil {
			socketio_utils.ReplyOK(ack, payload)
			return
		}
		client.Emit("admin_bans", payload)
	}
}

// Push an announcement to every connected client
func HandleAdminBroadcast(client *socket.Socket,
	sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		args, ack := socketio_utils.ExtractAck(args)
		if !requireAdmin(sio, client, ack) {
			return
		}
		message := socketio_utils.StringArg(args, 0)
		if message == "" {
			socketio_utils.ReplyError(client, ack, "invalid_state", "Empty announcement")
			return
		}
		sio.Sio_server.Emit("announcement", gin.H{
			"message": message,
			"sent_at": time.Now(),
		})
		socketio_utils.ReplyOK(ack, gin.H{})
	}
}

// Full view of one room for the dashboard
func HandleAdminGetRoomDetails(reg *game.Registry, client *socket.Socket,
	sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		args, ack := socketio_utils.ExtractAck(args)
		if !requireAdmin(sio, client, ack) {
			return
		}
		roomID := socketio_utils.StringArg(args, 0)
		view, err := reg.View(roomID)
		if err != nil {
			socketio_utils.ReplyError(client, ack, string(game.ErrCode(err)), err.Error())
			return
		}
		payload := gin.H{"room": view}
		if ack != nil {
			socketio_utils.ReplyOK(ack, payload)
			return
		}
		client.Emit("admin_roomDetails", payload)
	}
}

// Strip the password off a room the owner abandoned locked
func HandleAdminUnlockRoom(reg *game.Registry, client *socket.Socket,
	sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		args, ack := socketio_utils.ExtractAck(args)
		if !requireAdmin(sio, client, ack) {
			return
		}
		roomID := socketio_utils.StringArg(args, 0)
		view, err := reg.ForceUnlock(roomID)
		if err != nil {
			socketio_utils.ReplyError(client, ack, string(game.ErrCode(err)), err.Error())
			return
		}
		log.Printf("[ADMIN] unlocked room %s", roomID)
		socketio_utils.ReplyOK(ack, gin.H{"room": view})
		broadcastRoomUpdate(sio, view)
		broadcastRoomList(sio, reg)
	}
}

// Drop a room back to the idle phase, members kept
func HandleAdminResetRoom(reg *game.Registry, client *socket.Socket,
	sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		args, ack := socketio_utils.ExtractAck(args)
		if !requireAdmin(sio, client, ack) {
			return
		}
		roomID := socketio_utils.StringArg(args, 0)
		view, err := reg.ResetSession(roomID)
		if err != nil {
			socketio_utils.ReplyError(client, ack, string(game.ErrCode(err)), err.Error())
			return
		}
		log.Printf("[ADMIN] reset room %s", roomID)
		socketio_utils.ReplyOK(ack, gin.H{"room": view})
		sio.Sio_server.To(socket.Room(roomID)).Emit("gameReset", gin.H{"room": view})
		broadcastRoomUpdate(sio, view)
	}
}

// Drop rooms nobody sits in anymore
func HandleAdminClearEmptyRooms(reg *game.Registry, client *socket.Socket,
	sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		_, ack := socketio_utils.ExtractAck(args)
		if !requireAdmin(sio, client, ack) {
			return
		}
		n := reg.ClearEmpty()
		socketio_utils.ReplyOK(ack, gin.H{"cleared": n})
		if n > 0 {
			broadcastRoomList(sio, reg)
		}
	}
}

// Pull a player out of whatever room they sit in
func HandleAdminKickPlayerFromRoom(reg *game.Registry, client *socket.Socket,
	sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		args, ack := socketio_utils.ExtractAck(args)
		if !requireAdmin(sio, client, ack) {
			return
		}
		targetID := socketio_utils.StringArg(args, 0)
		roomID, ok := reg.RoomOfPlayer(targetID)
		if !ok {
			socketio_utils.ReplyError(client, ack, "not_found", "Player is not in a room")
			return
		}
		view, err := reg.Leave(roomID, targetID)
		if err != nil {
			socketio_utils.ReplyError(client, ack, string(game.ErrCode(err)), err.Error())
			return
		}
		if target, ok := sio.GetConnection(targetID); ok {
			target.Emit("kicked", gin.H{"room_id": roomID})
			target.Leave(socket.Room(roomID))
			sio.SetRoom(target, "")
		}
		log.Printf("[ADMIN] kicked player %s from room %s", targetID, roomID)
		socketio_utils.ReplyOK(ack, gin.H{"player_id": targetID, "room_id": roomID})
		broadcastRoomUpdate(sio, view)
		broadcastRoomList(sio, reg)
	}
}

// Delete a player's profile and stats, evicting them first
func HandleAdminDeletePlayer(reg *game.Registry, ids *identity.Service,
	client *socket.Socket, sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		args, ack := socketio_utils.ExtractAck(args)
		if !requireAdmin(sio, client, ack) {
			return
		}
		targetID := socketio_utils.StringArg(args, 0)
		deleted := deletePlayer(reg, ids, sio, targetID)
		if !deleted {
			socketio_utils.ReplyError(client, ack, "not_found", "Player not found")
			return
		}
		socketio_utils.ReplyOK(ack, gin.H{"player_id": targetID})
		broadcastRoomList(sio, reg)
	}
}

// Delete a whole batch of players in one call
func HandleAdminBulkDeletePlayers(reg *game.Registry, ids *identity.Service,
	client *socket.Socket, sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		args, ack := socketio_utils.ExtractAck(args)
		if !requireAdmin(sio, client, ack) {
			return
		}
		payload := socketio_utils.MapArg(args, 0)
		rawIDs, _ := payload["playerIds"].([]interface{})
		deleted := 0
		for _, raw := range rawIDs {
			id, ok := raw.(string)
			if !ok {
				continue
			}
			if deletePlayer(reg, ids, sio, id) {
				deleted++
			}
		}
		log.Printf("[ADMIN] bulk deleted %d players", deleted)
		socketio_utils.ReplyOK(ack, gin.H{"deleted": deleted})
		broadcastRoomList(sio, reg)
	}
}

func deletePlayer(reg *game.Registry, ids *identity.Service,
	sio *socketio_types.SocketServer, targetID string) bool {
	if targetID == "" {
		return false
	}
	if roomID, ok := reg.RoomOfPlayer(targetID); ok {
		if view, err := reg.Leave(roomID, targetID); err == nil {
			broadcastRoomUpdate(sio, view)
		}
	}
	if err := ids.Delete(targetID); err != nil {
		return false
	}
	if target, ok := sio.GetConnection(targetID); ok {
		target.Emit("playerDeleted", gin.H{"player_id": targetID})
		target.Disconnect(true)
	}
	log.Printf("[ADMIN] deleted player %s", targetID)
	return true
}

// Rename a player from the dashboard
func HandleAdminEditPlayerName(reg *game.Registry, ids *identity.Service,
	client *socket.Socket, sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		args, ack := socketio_utils.ExtractAck(args)
		if !requireAdmin(sio, client, ack) {
			return
		}
		payload := socketio_utils.MapArg(args, 0)
		targetID := socketio_utils.MapString(payload, "playerId")
		name := socketio_utils.MapString(payload, "name")
		p, err := ids.UpdateName(targetID, name)
		if err != nil {
			socketio_utils.ReplyError(client, ack, "invalid_state", err.Error())
			return
		}
		if roomID, ok := reg.RoomOfPlayer(targetID); ok {
			if view, err := reg.UpdateProfile(roomID, targetID, p.Name, p.Color); err == nil {
				broadcastRoomUpdate(sio, view)
			}
		}
		if target, ok := sio.GetConnection(targetID); ok {
			target.Emit("profileUpdated", gin.H{"name": p.Name, "color": p.Color})
		}
		log.Printf("[ADMIN] renamed player %s to %s", targetID, p.Name)
		socketio_utils.ReplyOK(ack, gin.H{"player_id": targetID, "name": p.Name})
	}
}

// Zero out a player's stats row
func HandleAdminResetPlayerStats(recorder *stats.Recorder, client *socket.Socket,
	sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		args, ack := socketio_utils.ExtractAck(args)
		if !requireAdmin(sio, client, ack) {
			return
		}
		targetID := socketio_utils.StringArg(args, 0)
		if err := recorder.Reset(targetID); err != nil {
			socketio_utils.ReplyError(client, ack, "invalid_state", "Could not reset stats")
			return
		}
		log.Printf("[ADMIN] reset stats for player %s", targetID)
		socketio_utils.ReplyOK(ack, gin.H{"player_id": targetID})
	}
}

// Extend the word pool from the dashboard
func HandleAdminAddWords(repo *words.Repository, client *socket.Socket,
	sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		args, ack := socketio_utils.ExtractAck(args)
		if !requireAdmin(sio, client, ack) {
			return
		}
		payload := socketio_utils.MapArg(args, 0)
		rawWords, _ := payload["words"].([]interface{})
		added := 0
		for _, raw := range rawWords {
			w, ok := raw.(string)
			if !ok {
				continue
			}
			if err := repo.Add(w); err == nil {
				added++
			}
		}
		log.Printf("[ADMIN] added %d words (pool now %d)", added, repo.Count())
		socketio_utils.ReplyOK(ack, gin.H{"added": added, "count": repo.Count()})
	}
}

// Dump the word pool
func HandleAdminGetWords(repo *words.Repository, client *socket.Socket,
	sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		_, ack := socketio_utils.ExtractAck(args)
		if !requireAdmin(sio, client, ack) {
			return
		}
		payload := gin.H{"words": repo.All(), "count": repo.Count()}
		if ack != nil {
			socketio_utils.ReplyOK(ack, payload)
			return
		}
		client.Emit("admin_words", payload)
	}
}

// Wipe every live ban record
func HandleAdminClearBans(redisClient *redis.RedisClient, client *socket.Socket,
	sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		_, ack := socketio_utils.ExtractAck(args)
		if !requireAdmin(sio, client, ack) {
			return
		}
		n, err := redisClient.ClearBans()
		if err != nil {
			socketio_utils.ReplyError(client, ack, "invalid_state", "Could not clear bans")
			return
		}
		log.Printf("[ADMIN] cleared %d bans", n)
		socketio_utils.ReplyOK(ack, gin.H{"cleared": n})
	}
}
