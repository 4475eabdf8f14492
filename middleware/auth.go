package middleware

import (
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// AdminSessionKey is the session entry set by a successful dashboard
// login.
const AdminSessionKey = "admin"

var ErrInvalidToken = errors.New("invalid admin token")

type adminClaims struct {
	Admin bool `json:"admin"`
	jwt.RegisteredClaims
}

func jwtSecret() []byte {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "insider-dev-secret"
	}
	return []byte(secret)
}

// GenerateAdminToken issues the JWT an operator attaches to the socket
// handshake to unlock the admin_* events.
func GenerateAdminToken(ttl time.Duration) (string, error) {
	claims := adminClaims{
		Admin: true,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret())
}

// VerifyAdminToken checks a token issued by GenerateAdminToken.
func VerifyAdminToken(tokenString string) error {
	token, err := jwt.ParseWithClaims(tokenString, &adminClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return jwtSecret(), nil
	})
	if err != nil {
		return ErrInvalidToken
	}
	claims, ok := token.Claims.(*adminClaims)
	if !ok || !token.Valid || !claims.Admin {
		return ErrInvalidToken
	}
	return nil
}

// SocketAdminJWT reports whether a socket handshake carries a valid
// admin token under the "adminToken" auth field.
func SocketAdminJWT(authData map[string]interface{}) bool {
	token, ok := authData["adminToken"].(string)
	if !ok || token == "" {
		return false
	}
	return VerifyAdminToken(token) == nil
}

// AuthRequired is a simple middleware to check the session.
func AuthRequired(c *gin.Context) {
	session := sessions.Default(c)
	admin := session.Get(AdminSessionKey)
	if admin == nil {
		// Abort the request with the appropriate error code
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	// Continue down the chain to handler etc
	c.Next()
}
