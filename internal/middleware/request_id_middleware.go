package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDHeader — заголовок с идентификатором запроса
const RequestIDHeader = "X-Request-ID"

// ContextRequestID — ключ контекста Gin для request ID
const ContextRequestID = "requestID"

// RequestID присваивает каждому запросу уникальный идентификатор.
// Если клиент передал свой X-Request-ID — используем его (полезно для
// сквозной трассировки из PWA), иначе генерируем новый UUID.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(ContextRequestID, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}
