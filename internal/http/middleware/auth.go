package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ecasanas/contratos-service/internal/auth"
	"github.com/ecasanas/contratos-service/internal/model"
)

const actorKey = "actor"

// ActorSource resolves the token subject to a full actor record.
type ActorSource interface {
	GetByUUID(ctx context.Context, id uuid.UUID) (*model.Actor, error)
}

// Auth validates the bearer token and loads the acting user into the
// request context. Inactive actors are rejected here so handlers never
// see them.
func Auth(parser *auth.Parser, actors ActorSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		claims, err := parser.Parse(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		actorUUID, err := claims.ActorUUID()
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		actor, err := actors.GetByUUID(c.Request.Context(), actorUUID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unknown actor"})
			return
		}
		if !actor.Active {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "actor is inactive"})
			return
		}

		c.Set(actorKey, actor)
		c.Next()
	}
}

func MustActor(c *gin.Context) (model.Actor, bool) {
	value, ok := c.Get(actorKey)
	if !ok {
		return model.Actor{}, false
	}
	actor, ok := value.(*model.Actor)
	if !ok || actor == nil {
		return model.Actor{}, false
	}
	return *actor, true
}

func bearerToken(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	return parts[1], true
}
