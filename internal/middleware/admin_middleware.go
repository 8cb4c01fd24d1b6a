package middleware

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/yourusername/challenge-api/internal/pkg/errors"
)

// AdminHeader — заголовок с административным токеном
const AdminHeader = "X-Admin-Token"

// RequireAdminToken защищает административные эндпоинты (сброс тестовых данных).
// В конфиге хранится только bcrypt-хеш токена, сам токен нигде не лежит.
func RequireAdminToken(tokenHash string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenHash == "" {
			log.Println("[AdminAuth] ADMIN_TOKEN_HASH не настроен, административный доступ закрыт")
			c.JSON(http.StatusInternalServerError, gin.H{"error": apperrors.ErrNotConfigured.Error()})
			c.Abort()
			return
		}

		provided := c.GetHeader(AdminHeader)
		if provided == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "admin token is required"})
			c.Abort()
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(tokenHash), []byte(provided)); err != nil {
			c.JSON(http.StatusForbidden, gin.H{"error": "invalid admin token"})
			c.Abort()
			return
		}

		c.Next()
	}
}
