package controllers

import (
	"Insider/middleware"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const adminTokenTTL = 12 * time.Hour

// @Summary Operator login
// @Description Checks the operator password, opens a session and returns the JWT for the socket admin channel
// @Tags admin
// @Produce json
// @Param password formData string true "Operator password"
// @Success 200 {object} object{token=string}
// @Failure 400 {object} object{error=string}
// @Failure 401 {object} object{error=string}
// @Router /login [post]
func Login(c *gin.Context) {
	session := sessions.Default(c)
	password := c.PostForm("password")

	// Minimum input sanitizing
	if strings.Trim(password, " ") == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Parameters can't be empty"})
		return
	}

	expected := os.Getenv("ADMIN_PASSWORD")
	if expected == "" || password != expected {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid password!"})
		return
	}

	token, err := middleware.GenerateAdminToken(adminTokenTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not issue token"})
		return
	}

	session.Set(middleware.AdminSessionKey, true)
	if err := session.Save(); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "No session!"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

// Logout from server, deletes the operator session
// @Summary Operator logout
// @Description Deletes the operator session
// @Tags admin
// @Produce json
// @Success 200 {object} object{message=string}
// @Failure 400 {object} object{error=string}
// @Router /auth/logout [delete]
func Logout(c *gin.Context) {
	session := sessions.Default(c)
	admin := session.Get(middleware.AdminSessionKey)
	// There is no session, won't delete nothing
	if admin == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid session token"})
		return
	}

	session.Delete(middleware.AdminSessionKey)
	if err := session.Save(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save session"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Successfully logged out"})
}

// @Summary Operator session status
// @Tags admin
// @Produce json
// @Success 200 {object} object{status=string}
// @Router /auth/status [get]
func Status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "You are logged in"})
}
