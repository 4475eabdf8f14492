package controllers

import (
	"Insider/models/postgres"
	"Insider/services/identity"
	"Insider/services/stats"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
)

// @Summary Get a player's public profile and stats
// @Description Returns the display profile plus accumulated round stats and recent history
// @Tags players
// @Produce json
// @Param id path string true "Player id"
// @Success 200 {object} object{playerId=string,name=string,color=string,stats=object}
// @Failure 404 {object} object{error=string}
// @Router /players/{id} [get]
func GetPlayerPublicInfo(ids *identity.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := ids.Get(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Player not found"})
			return
		}

		var history []stats.RoundEntry
		if len(p.Stats.History) > 0 {
			json.Unmarshal(p.Stats.History, &history)
		}

		c.JSON(http.StatusOK, gin.H{
			"playerId": p.ID,
			"name":     p.Name,
			"color":    p.Color,
			"stats": gin.H{
				"roundsPlayed":  p.Stats.RoundsPlayed,
				"roundsWon":     p.Stats.RoundsWon,
				"traitorRounds": p.Stats.TraitorRounds,
				"traitorWins":   p.Stats.TraitorWins,
				"ghostRounds":   p.Stats.GhostRounds,
				"history":       history,
			},
		})
	}
}

// @Summary Update a player's display profile
// @Description Changes the display name and/or color
// @Tags players
// @Produce json
// @Param id path string true "Player id"
// @Param name formData string false "New display name"
// @Param color formData string false "New #rrggbb color"
// @Success 200 {object} object{playerId=string,name=string,color=string}
// @Failure 400 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Router /players/{id} [patch]
func UpdatePlayerProfile(ids *identity.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		name := c.PostForm("name")
		color := c.PostForm("color")
		if name == "" && color == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Nothing to update"})
			return
		}

		var p *postgres.Player
		var err error
		if name != "" {
			if p, err = ids.UpdateName(id, name); err != nil {
				status := http.StatusBadRequest
				if err == identity.ErrUnknownPlayer {
					status = http.StatusNotFound
				}
				c.JSON(status, gin.H{"error": err.Error()})
				return
			}
		}
		if color != "" {
			if p, err = ids.UpdateColor(id, color); err != nil {
				status := http.StatusBadRequest
				if err == identity.ErrUnknownPlayer {
					status = http.StatusNotFound
				}
				c.JSON(status, gin.H{"error": err.Error()})
				return
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"playerId": p.ID,
			"name":     p.Name,
			"color":    p.Color,
		})
	}
}

// @Summary List every registered player
// @Description Returns the registered players, newest first (operator only)
// @Tags players
// @Produce json
// @Success 200 {array} object{playerId=string,name=string,color=string}
// @Failure 500 {object} object{error=string}
// @Router /auth/players [get]
func GetAllPlayers(ids *identity.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		players, err := ids.All()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
		out := make([]gin.H, 0, len(players))
		for _, p := range players {
			out = append(out, gin.H{
				"playerId":  p.ID,
				"name":      p.Name,
				"color":     p.Color,
				"last_seen": p.LastSeen,
			})
		}
		c.JSON(http.StatusOK, out)
	}
}

// @Summary Delete a player
// @Description Removes a registered player and their stats (operator only)
// @Tags players
// @Produce json
// @Param id path string true "Player id"
// @Success 200 {object} object{message=string}
// @Failure 404 {object} object{error=string}
// @Router /auth/players/{id} [delete]
func DeletePlayer(ids *identity.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := ids.Delete(c.Param("id")); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Player not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Player deleted"})
	}
}
