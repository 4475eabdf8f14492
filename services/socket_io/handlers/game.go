package handlers

import (
	"Insider/services/game"
	socketio_types "Insider/services/socket_io/types"
	socketio_utils "Insider/services/socket_io/utils"
	"Insider/services/stats"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/zishang520/socket.io/v2/socket"
)

// Pause between the final verdict and the automatic session reset, and
// between the reset and the lobby redirect hint.
const (
	endResetDelay    = 3 * time.Second
	endRedirectDelay = 5 * time.Second
)

func currentRoom(sio *socketio_types.SocketServer, client *socket.Socket) string {
	if ctx := sio.GetContext(client); ctx != nil {
		return ctx.RoomID
	}
	return ""
}

// Start a round: deal roles and tell each player theirs in private
// (only for the room admin)
func HandleStartGame(reg *game.Registry, client *socket.Socket,
	playerID string, sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		_, ack := socketio_utils.ExtractAck(args)
		roomID := currentRoom(sio, client)
		if roomID == "" {
			socketio_utils.ReplyError(client, ack, "not_found", "You are not in a room")
			return
		}

		start, err := reg.StartRound(roomID, playerID)
		if err != nil {
			socketio_utils.ReplyError(client, ack, string(game.ErrCode(err)), err.Error())
			return
		}

		// Private role notifications go to each player's own socket;
		// the broadcast only announces that the round began.
		for _, role := range start.Roles {
			if target, ok := sio.GetConnection(role.PlayerID); ok {
				target.Emit("role", gin.H{
					"role":    role.Role,
					"isGhost": role.IsGhost,
				})
			}
		}

		socketio_utils.ReplyOK(ack, gin.H{"room": start.View})
		sio.Sio_server.To(socket.Room(roomID)).Emit("gameStarted", gin.H{
			"phase":   start.View.Phase,
			"players": start.Players,
		})
		broadcastRoomList(sio, reg)
	}
}

// Set the secret word (only for the game master); an empty word draws a
// random one
func HandleSetWord(reg *game.Registry, client *socket.Socket,
	playerID string, sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		args, ack := socketio_utils.ExtractAck(args)
		roomID := currentRoom(sio, client)
		if roomID == "" {
			socketio_utils.ReplyError(client, ack, "not_found", "You are not in a room")
			return
		}

		if err := reg.SetWord(roomID, playerID, socketio_utils.StringArg(args, 0)); err != nil {
			socketio_utils.ReplyError(client, ack, string(game.ErrCode(err)), err.Error())
			return
		}
		socketio_utils.ReplyOK(ack, gin.H{})
		client.Emit("wordSet", gin.H{})
	}
}

// Reveal the word to the whole room (only for the game master)
func HandleRevealWord(reg *game.Registry, client *socket.Socket,
	playerID string, sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		_, ack := socketio_utils.ExtractAck(args)
		roomID := currentRoom(sio, client)
		if roomID == "" {
			socketio_utils.ReplyError(client, ack, "not_found", "You are not in a room")
			return
		}

		reveal, err := reg.RevealWord(roomID, playerID)
		if err != nil {
			socketio_utils.ReplyError(client, ack, string(game.ErrCode(err)), err.Error())
			return
		}
		socketio_utils.ReplyOK(ack, gin.H{})
		sio.Sio_server.To(socket.Room(roomID)).Emit("wordRevealed", gin.H{
			"word":      reveal.Word,
			"roundTime": reveal.RoundTime,
			"players":   reveal.Players,
		})
	}
}

// Start the round countdown (only for the room admin)
func HandleStartTimer(reg *game.Registry, client *socket.Socket,
	playerID string, sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		_, ack := socketio_utils.ExtractAck(args)
		roomID := currentRoom(sio, client)
		if roomID == "" {
			socketio_utils.ReplyError(client, ack, "not_found", "You are not in a room")
			return
		}

		seconds, err := reg.StartCountdown(roomID, playerID,
			func(remaining int) {
				sio.Sio_server.To(socket.Room(roomID)).Emit("timerTick", gin.H{"remaining": remaining})
			},
			func(view *game.RoomView) {
				sio.Sio_server.To(socket.Room(roomID)).Emit("timeUp", gin.H{})
				sio.Sio_server.To(socket.Room(roomID)).Emit("voteOneOpen", view)
			})
		if err != nil {
			socketio_utils.ReplyError(client, ack, string(game.ErrCode(err)), err.Error())
			return
		}
		socketio_utils.ReplyOK(ack, gin.H{"seconds": seconds})
		sio.Sio_server.To(socket.Room(roomID)).Emit("timerStarted", gin.H{"seconds": seconds})
	}
}

// End the guessing phase early and open the first vote (only for the
// room admin). Fired both for "word found" and "give up".
func HandleStopGame(reg *game.Registry, client *socket.Socket,
	playerID string, sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		_, ack := socketio_utils.ExtractAck(args)
		roomID := currentRoom(sio, client)
		if roomID == "" {
			socketio_utils.ReplyError(client, ack, "not_found", "You are not in a room")
			return
		}

		view, err := reg.StopRound(roomID, playerID)
		if err != nil {
			socketio_utils.ReplyError(client, ack, string(game.ErrCode(err)), err.Error())
			return
		}
		socketio_utils.ReplyOK(ack, gin.H{})
		sio.Sio_server.To(socket.Room(roomID)).Emit("voteOneOpen", view)
	}
}

// Open the accusation stage (only for the room admin)
func HandleOpenVote2(reg *game.Registry, client *socket.Socket,
	playerID string, sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		_, ack := socketio_utils.ExtractAck(args)
		roomID := currentRoom(sio, client)
		if roomID == "" {
			socketio_utils.ReplyError(client, ack, "not_found", "You are not in a room")
			return
		}

		view, err := reg.OpenVote2(roomID, playerID)
		if err != nil {
			socketio_utils.ReplyError(client, ack, string(game.ErrCode(err)), err.Error())
			return
		}
		socketio_utils.ReplyOK(ack, gin.H{})
		sio.Sio_server.To(socket.Room(roomID)).Emit("voteTwoOpen", view)
	}
}

// Cast an up/down ballot in the first voting stage
func HandleVote1(reg *game.Registry, client *socket.Socket,
	playerID string, sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		args, ack := socketio_utils.ExtractAck(args)
		roomID := currentRoom(sio, client)
		if roomID == "" {
			socketio_utils.ReplyError(client, ack, "not_found", "You are not in a room")
			return
		}

		res, err := reg.CastVote1(roomID, playerID, socketio_utils.StringArg(args, 0))
		if err != nil {
			socketio_utils.ReplyError(client, ack, string(game.ErrCode(err)), err.Error())
			return
		}
		socketio_utils.ReplyOK(ack, gin.H{})
		sio.Sio_server.To(socket.Room(roomID)).Emit("voteReceived", gin.H{"stage": 1})
		if res != nil {
			sio.Sio_server.To(socket.Room(roomID)).Emit("voteOneResult", res)
			// The resolving ballot already opened the second stage.
			if view, err := reg.View(roomID); err == nil {
				sio.Sio_server.To(socket.Room(roomID)).Emit("voteTwoOpen", view)
			}
		}
	}
}

// Cast an accusation in the second voting stage. The ballot that
// completes the stage ends the round: verdict broadcast, stats
// recorded, session reset after a short pause.
func HandleVote2(reg *game.Registry, recorder *stats.Recorder, client *socket.Socket,
	playerID string, sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		args, ack := socketio_utils.ExtractAck(args)
		roomID := currentRoom(sio, client)
		if roomID == "" {
			socketio_utils.ReplyError(client, ack, "not_found", "You are not in a room")
			return
		}

		outcome, err := reg.CastVote2(roomID, playerID, socketio_utils.StringArg(args, 0))
		if err != nil {
			socketio_utils.ReplyError(client, ack, string(game.ErrCode(err)), err.Error())
			return
		}
		socketio_utils.ReplyOK(ack, gin.H{})
		sio.Sio_server.To(socket.Room(roomID)).Emit("voteReceived", gin.H{"stage": 2})
		if outcome == nil {
			return
		}

		sio.Sio_server.To(socket.Room(roomID)).Emit("gameResult", outcome.Result)
		recorder.RecordRoundEnd(outcome.Players, outcome.Result, outcome.Word)

		time.AfterFunc(endResetDelay, func() {
			view, ok := reg.ResetAfterEnd(roomID)
			if !ok {
				return // room vanished or the admin already moved on
			}
			broadcastRoomUpdate(sio, view)
			broadcastRoomList(sio, reg)
			time.AfterFunc(endRedirectDelay-endResetDelay, func() {
				sio.Sio_server.To(socket.Room(roomID)).Emit("redirectLobby", gin.H{"room_id": roomID})
			})
		})
	}
}

// Drop the current round and go back to idle (only for the room admin)
func HandleResetGame(reg *game.Registry, client *socket.Socket,
	playerID string, sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		_, ack := socketio_utils.ExtractAck(args)
		roomID := currentRoom(sio, client)
		if roomID == "" {
			socketio_utils.ReplyError(client, ack, "not_found", "You are not in a room")
			return
		}

		view, err := reg.ResetRound(roomID, playerID)
		if err != nil {
			socketio_utils.ReplyError(client, ack, string(game.ErrCode(err)), err.Error())
			return
		}
		log.Printf("[GAME] admin %s reset room %s", playerID, roomID)
		socketio_utils.ReplyOK(ack, gin.H{"room": view})
		broadcastRoomUpdate(sio, view)
		broadcastRoomList(sio, reg)
	}
}

// Re-send a player their in-round state after a page reload
func HandleSyncRole(reg *game.Registry, client *socket.Socket,
	playerID string, sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		_, ack := socketio_utils.ExtractAck(args)
		roomID := currentRoom(sio, client)
		if roomID == "" {
			socketio_utils.ReplyError(client, ack, "not_found", "You are not in a room")
			return
		}

		sync, err := reg.RoleSync(roomID, playerID)
		if err != nil {
			socketio_utils.ReplyError(client, ack, string(game.ErrCode(err)), err.Error())
			return
		}
		payload := gin.H{
			"phase":   sync.Phase,
			"role":    sync.Role,
			"isGhost": sync.IsGhost,
			"word":    sync.Word,
			"players": sync.Players,
		}
		if ack != nil {
			socketio_utils.ReplyOK(ack, payload)
			return
		}
		client.Emit("roleSync", payload)
	}
}
