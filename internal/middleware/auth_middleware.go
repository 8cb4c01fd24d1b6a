package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
)

// Ключи контекста Gin для данных аутентифицированного пользователя
const (
	ContextUserID   = "userID"
	ContextInitials = "userInitials"
)

// AuthMiddleware проверяет токены внешнего identity-провайдера.
// Сервис сам токены не выпускает: identity внешняя, мы только проверяем
// подпись HS256 общим секретом и достаем стабильный идентификатор из sub.
type AuthMiddleware struct {
	jwtSecret []byte
}

// NewAuthMiddleware создает middleware аутентификации
func NewAuthMiddleware(jwtSecret string) *AuthMiddleware {
	return &AuthMiddleware{jwtSecret: []byte(jwtSecret)}
}

// RequireAuth требует валидный Bearer-токен и кладет userID/инициалы в контекст
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			c.Abort()
			return
		}

		if !m.setIdentity(c, strings.TrimPrefix(header, "Bearer ")) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		c.Next()
	}
}

// OptionalAuth пропускает запрос всегда, но при валидном токене кладет userID
// в контекст. Используется на читающих endpoints: аноним видит челлендж,
// аутентифицированный — еще и свой черновик и свои голоса.
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if strings.HasPrefix(header, "Bearer ") {
			// Невалидный токен на читающем endpoint игнорируем молча
			m.setIdentity(c, strings.TrimPrefix(header, "Bearer "))
		}
		c.Next()
	}
}

// setIdentity валидирует токен и сохраняет identity в контексте Gin
func (m *AuthMiddleware) setIdentity(c *gin.Context, tokenString string) bool {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return false
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return false
	}
	c.Set(ContextUserID, sub)

	// Инициалы опциональны: используются только для отображения авторства
	if initials, ok := claims["initials"].(string); ok {
		c.Set(ContextInitials, initials)
	}

	return true
}
