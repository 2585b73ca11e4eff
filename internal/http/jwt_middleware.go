package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"auth-api/internal/domain"
	"auth-api/internal/service"
)

const (
	authUserKey = "auth_user"

	msgUnauthorized = "Unauthorized"
	msgTokenExpired = "Token expired"
)

// JWTAuthMiddleware valida el bearer token, resuelve el usuario y lo guarda en el contexto.
func JWTAuthMiddleware(logger *zap.Logger, userSvc *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if userSvc == nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": msgServerError})
			return
		}

		user, err := userSvc.ResolveToken(c.Request.Context(), bearerToken(c.GetHeader("Authorization")))
		if err != nil {
			var expired *service.TokenExpiredError
			switch {
			case errors.As(err, &expired):
				body := gin.H{"message": msgTokenExpired}
				if !expired.ExpiredAt.IsZero() {
					body["expiredAt"] = expired.ExpiredAt.UTC().Format(time.RFC3339)
				}
				c.AbortWithStatusJSON(http.StatusUnauthorized, body)
			case errors.Is(err, service.ErrUnauthorized):
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": msgUnauthorized})
			default:
				logger.Error("resolve token failed", zap.Error(err))
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": msgServerError})
			}
			return
		}

		c.Set(authUserKey, user)
		c.Next()
	}
}

// GetAuthUser obtiene el usuario autenticado desde el contexto.
func GetAuthUser(c *gin.Context) (domain.User, bool) {
	val, ok := c.Get(authUserKey)
	if !ok {
		return domain.User{}, false
	}
	user, ok := val.(domain.User)
	return user, ok
}

func bearerToken(header string) string {
	header = strings.TrimSpace(header)
	const prefix = "bearer "
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
