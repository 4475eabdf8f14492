package controllers

import (
	"Insider/services/identity"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	gormpg "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func mockIdentity(t *testing.T) (*identity.Service, sqlmock.Sqlmock, *sql.DB) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)

	gormDB, err := gorm.Open(gormpg.New(gormpg.Config{
		Conn:                 db,
		PreferSimpleProtocol: true,
	}), &gorm.Config{})
	assert.NoError(t, err)

	return identity.New(gormDB), mock, db
}

func TestGetPlayerPublicInfo(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ids, mock, db := mockIdentity(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT \* FROM "players" WHERE id = \$1`).
		WithArgs("abc-123", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "color"}).
			AddRow("abc-123", "ana", "#ff0000"))

	mock.ExpectQuery(`SELECT \* FROM "player_stats" WHERE "player_stats"\."player_id" = \$1`).
		WithArgs("abc-123").
		WillReturnRows(sqlmock.NewRows([]string{"player_id", "rounds_played", "rounds_won"}).
			AddRow("abc-123", 7, 4))

	router := gin.New()
	router.GET("/players/:id", GetPlayerPublicInfo(ids))

	req, _ := http.NewRequest("GET", "/players/abc-123", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, "abc-123", response["playerId"])
	assert.Equal(t, "ana", response["name"])

	stats := response["stats"].(map[string]interface{})
	assert.Equal(t, float64(7), stats["roundsPlayed"])
	assert.Equal(t, float64(4), stats["roundsWon"])

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetPlayerPublicInfoNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ids, mock, db := mockIdentity(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT \* FROM "players" WHERE id = \$1`).
		WithArgs("missing", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "color"}))

	router := gin.New()
	router.GET("/players/:id", GetPlayerPublicInfo(ids))

	req, _ := http.NewRequest("GET", "/players/missing", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeletePlayer(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ids, mock, db := mockIdentity(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "players" WHERE id = \$1`).
		WithArgs("abc-123").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	router := gin.New()
	router.DELETE("/players/:id", DeletePlayer(ids))

	req, _ := http.NewRequest("DELETE", "/players/abc-123", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
