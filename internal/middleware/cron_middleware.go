package middleware

import (
	"crypto/subtle"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/yourusername/challenge-api/internal/pkg/errors"
)

// CronHeader — заголовок, в котором внешний планировщик передает общий секрет
const CronHeader = "X-Cron-Secret"

// RequireCronSecret защищает фазовые эндпоинты от вызова кем-либо, кроме планировщика.
// Отсутствие настроенного секрета — NotConfigured (500): переход не должен
// выполняться вообще, и никакие записи к этому моменту еще не сделаны.
func RequireCronSecret(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			log.Println("[CronAuth] CRON_SECRET не настроен, фазовый переход отклонен")
			c.JSON(http.StatusInternalServerError, gin.H{"error": apperrors.ErrNotConfigured.Error()})
			c.Abort()
			return
		}

		provided := c.GetHeader(CronHeader)
		if subtle.ConstantTimeCompare([]byte(provided), []byte(secret)) != 1 {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid cron secret"})
			c.Abort()
			return
		}

		c.Next()
	}
}
