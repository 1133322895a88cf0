package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/closetloop/marketplace-backend/internal/platform/logger"
	"github.com/closetloop/marketplace-backend/internal/requestdata"
)

// AuthMiddleware verifies bearer tokens minted by the external auth service
// and resolves the user identity into the request context. Requests without
// a resolvable identity fail closed: ranking never substitutes another
// user's data.
type AuthMiddleware struct {
	log       *logger.Logger
	jwtSecret []byte
}

func NewAuthMiddleware(log *logger.Logger, jwtSecret string) *AuthMiddleware {
	return &AuthMiddleware{
		log:       log.With("middleware", "AuthMiddleware"),
		jwtSecret: []byte(jwtSecret),
	}
}

func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c)
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid token"})
			return
		}
		userID, err := am.parseUserID(tokenString)
		if err != nil {
			am.log.Debug("token rejected", "error", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid token"})
			return
		}
		ctx := requestdata.WithRequestData(c.Request.Context(), &requestdata.RequestData{
			TokenString: tokenString,
			UserID:      userID,
		})
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func (am *AuthMiddleware) parseUserID(tokenString string) (uuid.UUID, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return am.jwtSecret, nil
	})
	if err != nil {
		return uuid.Nil, err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return uuid.Nil, fmt.Errorf("invalid claims")
	}
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return uuid.Nil, fmt.Errorf("missing subject")
	}
	userID, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, fmt.Errorf("subject is not a user id: %w", err)
	}
	if userID == uuid.Nil {
		return uuid.Nil, fmt.Errorf("nil user id")
	}
	return userID, nil
}

func extractToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	if cookie, err := c.Cookie("access_token"); err == nil && cookie != "" {
		return cookie
	}
	return ""
}
