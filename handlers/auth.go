package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// PasswordGate is a shared-password gate for the whole API. The bcrypt hash
// of the password comes from configuration; when no hash is set the gate is
// open, which is the local development default.
func PasswordGate(passwordHash string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if passwordHash == "" {
			c.Next()
			return
		}

		password := c.GetHeader("X-App-Password")
		if password == "" {
			respondError(c, http.StatusUnauthorized, "PASSWORD_REQUIRED", "Provide the app password in the X-App-Password header")
			c.Abort()
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password)); err != nil {
			respondError(c, http.StatusUnauthorized, "INVALID_PASSWORD", "Invalid app password")
			c.Abort()
			return
		}

		c.Next()
	}
}
