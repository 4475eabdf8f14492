package routes

import (
	"Insider/controllers"
	"Insider/middleware"
	"Insider/services/game"
	"Insider/services/identity"
	"Insider/services/words"
	utils "Insider/utils"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, reg *game.Registry, ids *identity.Service, wordsRepo *words.Repository) {
	// utils global
	router.Use(utils.Logger())
	router.Use(utils.ErrorHandler())

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API routes group
	api := router.Group("/")

	api.GET("/ping", controllers.Ping)

	api.GET("/rooms", controllers.GetRooms(reg))

	api.GET("/rooms/:id", controllers.GetRoomInfo(reg))

	api.GET("/players/:id", controllers.GetPlayerPublicInfo(ids))

	api.PATCH("/players/:id", controllers.UpdatePlayerProfile(ids))

	api.GET("/words/count", controllers.GetWordCount(wordsRepo))

	api.POST("/login", controllers.Login)

	// Routes that require the operator session
	authentication := api.Group("/auth")
	authentication.Use(middleware.AuthRequired)
	{
		authentication.DELETE("/logout", controllers.Logout)

		authentication.GET("/status", controllers.Status)

		authentication.GET("/players", controllers.GetAllPlayers(ids))

		authentication.DELETE("/players/:id", controllers.DeletePlayer(ids))

		authentication.POST("/words", controllers.AddWord(wordsRepo))
	}
}
