package controllers

import (
	"Insider/services/game"
	"Insider/services/words"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestPing(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/ping", Ping)

	req, _ := http.NewRequest("GET", "/ping", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, "pong", response["message"])
}

func TestGetRooms(t *testing.T) {
	gin.SetMode(gin.TestMode)
	reg := game.NewRegistry(game.DefaultConfig(), words.NewFromList([]string{"apple"}))
	_, err := reg.CreateRoom(game.PlayerInfo{ID: "p1", Name: "ana"}, "sock-1", game.RoomOptions{Name: "test room"})
	assert.NoError(t, err)

	router := gin.New()
	router.GET("/rooms", GetRooms(reg))

	req, _ := http.NewRequest("GET", "/rooms", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Rooms []map[string]interface{} `json:"rooms"`
	}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Len(t, response.Rooms, 1)
	assert.Equal(t, "test room", response.Rooms[0]["name"])
}

func TestGetRoomInfo(t *testing.T) {
	gin.SetMode(gin.TestMode)
	reg := game.NewRegistry(game.DefaultConfig(), words.NewFromList([]string{"apple"}))
	view, err := reg.CreateRoom(game.PlayerInfo{ID: "p1", Name: "ana"}, "sock-1", game.RoomOptions{})
	assert.NoError(t, err)

	router := gin.New()
	router.GET("/rooms/:id", GetRoomInfo(reg))

	req, _ := http.NewRequest("GET", "/rooms/"+view.ID, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, view.ID, response["id"])
	assert.Equal(t, "ana's room", response["name"])
}

func TestGetRoomInfoNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	reg := game.NewRegistry(game.DefaultConfig(), words.NewFromList([]string{"apple"}))

	router := gin.New()
	router.GET("/rooms/:id", GetRoomInfo(reg))

	req, _ := http.NewRequest("GET", "/rooms/nope", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestWordEndpoints(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := words.NewFromList([]string{"apple", "pear"})

	router := gin.New()
	router.GET("/words/count", GetWordCount(repo))
	router.POST("/words", AddWord(repo))

	req, _ := http.NewRequest("GET", "/words/count", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"count":2}`, w.Body.String())

	req, _ = http.NewRequest("POST", "/words", strings.NewReader("word=plum"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"count":3}`, w.Body.String())

	// Blank words are rejected
	req, _ = http.NewRequest("POST", "/words", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// So are duplicates
	req, _ = http.NewRequest("POST", "/words", strings.NewReader("word=plum"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusConflict, w.Code)
}
