package controllers

import (
	"Insider/services/game"
	"net/http"

	"github.com/gin-gonic/gin"
)

// @Summary List the public rooms
// @Description Returns every live room with occupancy and state
// @Tags rooms
// @Produce json
// @Success 200 {object} object{rooms=array}
// @Router /rooms [get]
func GetRooms(reg *game.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"rooms": reg.List()})
	}
}

// @Summary Get the full view of one room
// @Description Returns the member list and settings of a room
// @Tags rooms
// @Produce json
// @Param id path string true "Room id"
// @Success 200 {object} object{id=string,name=string,members=array}
// @Failure 404 {object} object{error=string}
// @Router /rooms/{id} [get]
func GetRoomInfo(reg *game.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		view, err := reg.View(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Room not found"})
			return
		}
		c.JSON(http.StatusOK, view)
	}
}
