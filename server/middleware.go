package server

import (
	"net/http"
	"strings"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-gonic/gin"
	errs "github.com/starfanhq/starfan/errors"
	"github.com/starfanhq/starfan/models"
	"github.com/starfanhq/starfan/server/response"
	"github.com/starfanhq/starfan/services/jwt"
)

const (
	contextActor       = "actor"
	contextAccessToken = "access_token"
)

// Authorize resolves the bearer token into an Actor and stores it on the
// context. With no roles given any authenticated actor passes; otherwise the
// token's role must match one of them.
func (s *Server) Authorize(roles ...models.ActorRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		accessToken := getTokenFromHeader(c)
		if accessToken == "" {
			respondAndAbort(c, "", http.StatusUnauthorized, nil, errs.New("Unauthorized", http.StatusUnauthorized))
			return
		}

		if s.AuthRepository.IsTokenInBlacklist(accessToken) {
			respondAndAbort(c, "access token is revoked", http.StatusUnauthorized, nil, errs.New("Unauthorized", http.StatusUnauthorized))
			return
		}

		accessClaims, err := jwt.ValidateAndGetClaims(accessToken, s.Config.JWTSecret)
		if err != nil {
			respondAndAbort(c, "", http.StatusUnauthorized, nil, errs.New("Unauthorized", http.StatusUnauthorized))
			return
		}

		idValue, ok := accessClaims["id"].(float64)
		if !ok {
			respondAndAbort(c, "", http.StatusBadRequest, nil, errs.New("invalid token claims", http.StatusBadRequest))
			return
		}
		role := models.ActorRole(toString(accessClaims["role"]))
		if !role.Valid() {
			respondAndAbort(c, "", http.StatusUnauthorized, nil, errs.New("Unauthorized", http.StatusUnauthorized))
			return
		}

		if len(roles) > 0 && !roleAllowed(role, roles) {
			respondAndAbort(c, "", http.StatusForbidden, nil, errs.New("Forbidden", http.StatusForbidden))
			return
		}

		actor := models.Actor{Role: role, ID: uint(idValue)}
		if !s.actorExists(actor) {
			respondAndAbort(c, "account not found", http.StatusUnauthorized, nil, errs.New("Unauthorized", http.StatusUnauthorized))
			return
		}

		c.Set(contextActor, actor)
		c.Set(contextAccessToken, accessToken)
		c.Next()
	}
}

// actorExists confirms the account behind the token is still present and not
// blocked or deactivated.
func (s *Server) actorExists(actor models.Actor) bool {
	switch actor.Role {
	case models.RoleUser:
		user, err := s.AuthRepository.FindUserByID(actor.ID)
		return err == nil && !user.IsBlocked
	case models.RoleSuperstar:
		superstar, err := s.AuthRepository.FindSuperstarByID(actor.ID)
		return err == nil && superstar.IsActive
	}
	return false
}

func roleAllowed(role models.ActorRole, roles []models.ActorRole) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

func getTokenFromHeader(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

func toString(v interface{}) string {
	s, _ := v.(string)
	return s
}

func respondAndAbort(c *gin.Context, message string, status int, data interface{}, err error) {
	response.AbortWithJSON(c, message, status, data, err)
}

// limitLoginRate caps login attempts per client IP.
func limitLoginRate(store ratelimit.Store) gin.HandlerFunc {
	return ratelimit.RateLimiter(store, &ratelimit.Options{
		ErrorHandler: func(c *gin.Context, info ratelimit.Info) {
			response.AbortWithJSON(c, "too many requests", http.StatusTooManyRequests, nil, nil)
		},
		KeyFunc: func(c *gin.Context) string {
			return c.ClientIP()
		},
	})
}
