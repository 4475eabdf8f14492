package socketio_utils

import (
	"Insider/middleware"
	models "Insider/models/postgres"
	"Insider/services/identity"
	"Insider/services/redis"
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/zishang520/socket.io/v2/socket"
)

// Function that verifies a socket.io client connection. The handshake
// auth payload carries the player's persistent id plus display fields;
// first-time connections get a freshly minted id. Banned players are
// rejected before any event handler is registered.
func VerifyPlayerConnection(client *socket.Socket, ids *identity.Service,
	redisClient *redis.RedisClient) (success bool, player *models.Player, isAdmin bool) {

	authData, ok := client.Handshake().Auth.(map[string]interface{})
	if !ok {
		authData = map[string]interface{}{}
	}

	playerID, _ := authData["playerId"].(string)
	if playerID == "" {
		playerID = uuid.NewString()
		log.Printf("[CONN] no playerId in handshake, minted %s", playerID)
	}

	if redisClient != nil {
		banned, err := redisClient.IsBanned(playerID)
		if err != nil {
			log.Printf("[CONN] ban lookup failed for %s: %v", playerID, err)
		}
		if banned {
			ban, _ := redisClient.GetBan(playerID)
			payload := gin.H{"error": "You are banned from this server"}
			if ban != nil && ban.ExpiresAt != nil {
				payload["expires_at"] = ban.ExpiresAt
			}
			client.Emit("banned", payload)
			client.Disconnect(true)
			return false, nil, false
		}
	}

	name, _ := authData["name"].(string)
	color, _ := authData["color"].(string)
	player, err := ids.CreateOrGet(playerID, name, color)
	if err != nil {
		fmt.Println("Identity lookup failed:", err)
		client.Emit("error", gin.H{"error": "Could not resolve player identity"})
		client.Disconnect(true)
		return false, nil, false
	}
	ids.Touch(player.ID)

	isAdmin = middleware.SocketAdminJWT(authData)
	if isAdmin {
		log.Printf("[CONN] admin channel unlocked for %s", player.ID)
	}
	return true, player, isAdmin
}
