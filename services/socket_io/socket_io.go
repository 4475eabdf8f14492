package socket_io

import (
	"Insider/services/game"
	"Insider/services/identity"
	"Insider/services/redis"
	"Insider/services/socket_io/handlers"
	"Insider/services/stats"
	"Insider/services/words"

	socketio_types "Insider/services/socket_io/types"
	socketio_utils "Insider/services/socket_io/utils"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io/v2/socket"
)

type MySocketServer socketio_types.SocketServer

// Deps bundles everything the event handlers reach for.
type Deps struct {
	Redis    *redis.RedisClient
	Registry *game.Registry
	Watchdog *game.Watchdog
	Identity *identity.Service
	Stats    *stats.Recorder
	Words    *words.Repository
}

func (sio *MySocketServer) Start(router *gin.Engine, deps Deps) {
	c := socket.DefaultServerOptions()
	c.SetServeClient(true)
	// NOTE: higher ping interval and timeout to 1) reduce network load and 2) support slower networks
	c.SetPingInterval(5 * time.Second)
	c.SetPingTimeout(3 * time.Second)
	c.SetMaxHttpBufferSize(1000000)
	c.SetConnectTimeout(10 * time.Second)
	c.SetTransports(types.NewSet("polling", "websocket"))
	c.SetCors(&types.Cors{
		Origin:      "*",
		Credentials: true,
	})

	sio.PlayerConnections = make(map[string]*socket.Socket)
	sio.Contexts = make(map[socket.SocketId]*socketio_types.ConnContext)

	reg := deps.Registry

	sio.Sio_server = socket.NewServer(nil, nil)
	sio.Sio_server.On("connection", func(clients ...interface{}) {
		client := clients[0].(*socket.Socket)

		// Check the handshake: identity resolution plus ban screening
		success, player, isAdmin := socketio_utils.VerifyPlayerConnection(client, deps.Identity, deps.Redis)
		if !success {
			return
		}
		playerID := player.ID

		self := (*socketio_types.SocketServer)(sio)
		self.AddConnection(playerID, client, isAdmin)

		fmt.Println("An individual just connected!: ", player.Name)

		// Tell the client who the server thinks it is
		client.Emit("welcome", gin.H{
			"playerId": playerID,
			"name":     player.Name,
			"color":    player.Color,
		})

		// If the player still holds a seat somewhere, restore it
		if roomID, ok := reg.RoomOfPlayer(playerID); ok {
			deps.Watchdog.Cancel(playerID)
			if view, err := reg.Join(roomID, game.PlayerInfo{ID: playerID, Name: player.Name, Color: player.Color},
				string(client.Id()), ""); err == nil {
				client.Join(socket.Room(roomID))
				self.SetRoom(client, roomID)
				client.Emit("roomJoined", view)
				sio.Sio_server.To(socket.Room(roomID)).Emit("roomUpdate", view)
			}
		}

		// Room lifecycle
		client.On("createRoom", handlers.HandleCreateRoom(reg, deps.Identity, client, playerID, self))
		client.On("joinRoom", handlers.HandleJoinRoom(reg, deps.Identity, deps.Watchdog, client, playerID, self))
		client.On("leaveRoom", handlers.HandleLeaveRoom(reg, deps.Watchdog, client, playerID, self))
		client.On("kickPlayer", handlers.HandleKickPlayer(reg, deps.Watchdog, client, playerID, self))
		client.On("transferAdmin", handlers.HandleTransferAdmin(reg, client, playerID, self))
		client.On("updateRoom", handlers.HandleUpdateRoom(reg, client, playerID, self))
		client.On("getRooms", handlers.HandleGetRooms(reg, client))
		client.On("getRoomInfo", handlers.HandleGetRoomInfo(reg, client, self))

		// Profile and chat
		client.On("setName", handlers.HandleSetName(reg, deps.Identity, client, playerID, self))
		client.On("setColor", handlers.HandleSetColor(reg, deps.Identity, client, playerID, self))
		client.On("chatMessage", handlers.HandleChatMessage(deps.Identity, client, playerID, self))

		// Round flow
		client.On("startGame", handlers.HandleStartGame(reg, client, playerID, self))
		client.On("setWord", handlers.HandleSetWord(reg, client, playerID, self))
		client.On("revealWord", handlers.HandleRevealWord(reg, client, playerID, self))
		client.On("startTimer", handlers.HandleStartTimer(reg, client, playerID, self))
		client.On("wordFound", handlers.HandleStopGame(reg, client, playerID, self))
		client.On("stopGame", handlers.HandleStopGame(reg, client, playerID, self))
		client.On("openVote2", handlers.HandleOpenVote2(reg, client, playerID, self))
		client.On("vote1", handlers.HandleVote1(reg, client, playerID, self))
		client.On("vote2", handlers.HandleVote2(reg, deps.Stats, client, playerID, self))
		client.On("resetGame", handlers.HandleResetGame(reg, client, playerID, self))
		client.On("syncRole", handlers.HandleSyncRole(reg, client, playerID, self))

		// Admin channel (handshake JWT gated)
		client.On("admin_getRooms", handlers.HandleAdminGetRooms(reg, client, self))
		client.On("admin_getRoomDetails", handlers.HandleAdminGetRoomDetails(reg, client, self))
		client.On("admin_closeRoom", handlers.HandleAdminCloseRoom(reg, client, self))
		client.On("admin_unlockRoom", handlers.HandleAdminUnlockRoom(reg, client, self))
		client.On("admin_resetRoom", handlers.HandleAdminResetRoom(reg, client, self))
		client.On("admin_clearEmptyRooms", handlers.HandleAdminClearEmptyRooms(reg, client, self))
		client.On("admin_clearRooms", handlers.HandleAdminClearRooms(reg, client, self))
		client.On("admin_kickPlayerFromRoom", handlers.HandleAdminKickPlayerFromRoom(reg, client, self))
		client.On("admin_banPlayer", handlers.HandleAdminBanPlayer(reg, deps.Redis, client, self))
		client.On("admin_unbanPlayer", handlers.HandleAdminUnbanPlayer(deps.Redis, client, self))
		client.On("admin_listBans", handlers.HandleAdminListBans(deps.Redis, client, self))
		client.On("admin_clearBans", handlers.HandleAdminClearBans(deps.Redis, client, self))
		client.On("admin_deletePlayer", handlers.HandleAdminDeletePlayer(reg, deps.Identity, client, self))
		client.On("admin_bulkDeletePlayers", handlers.HandleAdminBulkDeletePlayers(reg, deps.Identity, client, self))
		client.On("admin_editPlayerName", handlers.HandleAdminEditPlayerName(reg, deps.Identity, client, self))
		client.On("admin_resetPlayerStats", handlers.HandleAdminResetPlayerStats(deps.Stats, client, self))
		client.On("admin_addWords", handlers.HandleAdminAddWords(deps.Words, client, self))
		client.On("admin_getWords", handlers.HandleAdminGetWords(deps.Words, client, self))
		client.On("admin_broadcast", handlers.HandleAdminBroadcast(client, self))

		// NOTE: will start the disconnect grace/expiry lifecycle
		client.On("disconnecting", handlers.HandleDisconnecting(reg, deps.Identity, deps.Watchdog, client, playerID, self))
	})

	router.POST("/socket.io/*f", gin.WrapH(sio.Sio_server.ServeHandler(c)))
	router.GET("/socket.io/*f", gin.WrapH(sio.Sio_server.ServeHandler(c)))

	SignalC := make(chan os.Signal, 1)

	signal.Notify(SignalC, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	go func() {
		for s := range SignalC {
			switch s {
			case syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT:
				sio.Sio_server.Close(nil)
				os.Exit(0)
			}
		}
	}()

	fmt.Println("Socket server started")
}
