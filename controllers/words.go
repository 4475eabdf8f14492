package controllers

import (
	"Insider/services/words"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// @Summary Get the word pool size
// @Tags words
// @Produce json
// @Success 200 {object} object{count=integer}
// @Router /words/count [get]
func GetWordCount(repo *words.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"count": repo.Count()})
	}
}

// @Summary Add a word to the pool
// @Description Appends a word to the secret-word pool (operator only)
// @Tags words
// @Produce json
// @Param word formData string true "Word to add"
// @Success 200 {object} object{count=integer}
// @Failure 400 {object} object{error=string}
// @Router /auth/words [post]
func AddWord(repo *words.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		word := strings.TrimSpace(c.PostForm("word"))
		if err := repo.Add(word); err != nil {
			if err == words.ErrDuplicateWord {
				c.JSON(http.StatusConflict, gin.H{"error": "Word already in the pool"})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": "Word can't be empty"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"count": repo.Count()})
	}
}
