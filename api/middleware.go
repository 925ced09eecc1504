package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/Domenick1991/roomstay/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const actorContextKey = "actor"

type actorClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// ActorAuth verifies the bearer token issued by the identity service and
// attaches the resulting Actor to the request context. Token issuance is
// not this service's job.
func ActorAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{Code: "UNAUTHENTICATED", Message: "missing bearer token"})
			return
		}

		claims := &actorClaims{}
		token, err := jwt.ParseWithClaims(strings.TrimPrefix(header, "Bearer "), claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{Code: "UNAUTHENTICATED", Message: "invalid token"})
			return
		}

		userID, err := strconv.ParseInt(claims.Subject, 10, 64)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{Code: "UNAUTHENTICATED", Message: "invalid subject"})
			return
		}

		role := domain.Role(claims.Role)
		if role != domain.RoleGuest && role != domain.RoleTenant {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{Code: "UNAUTHENTICATED", Message: "unknown role"})
			return
		}

		c.Set(actorContextKey, domain.Actor{ID: userID, Role: role})
		c.Next()
	}
}

// RequireRole guards a route group for a single role.
func RequireRole(role domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := actorFrom(c)
		if !ok || actor.Role != role {
			c.AbortWithStatusJSON(http.StatusForbidden, errorResponse{Code: "WRONG_ROLE", Message: "route requires role " + string(role)})
			return
		}
		c.Next()
	}
}

func actorFrom(c *gin.Context) (domain.Actor, bool) {
	v, ok := c.Get(actorContextKey)
	if !ok {
		return domain.Actor{}, false
	}
	actor, ok := v.(domain.Actor)
	return actor, ok
}
