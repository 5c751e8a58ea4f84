package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/jwalitptl/hms-api/internal/handler"
	"github.com/jwalitptl/hms-api/internal/model"
	"github.com/jwalitptl/hms-api/internal/repository"
	"github.com/jwalitptl/hms-api/internal/service/auth"
)

// principalCacheTTL bounds how long a trashed account can keep using an
// otherwise valid token.
const principalCacheTTL = 5 * time.Minute

type AuthMiddleware struct {
	authSvc    *auth.Service
	principals repository.PrincipalRepository
	cache      *gocache.Cache
}

func NewAuthMiddleware(authSvc *auth.Service, principals repository.PrincipalRepository) *AuthMiddleware {
	return &AuthMiddleware{
		authSvc:    authSvc,
		principals: principals,
		cache:      gocache.New(principalCacheTTL, 10*time.Minute),
	}
}

// Authenticate verifies the bearer token and sets principal info in
// context. The principal record is fetched to enforce the active flag and
// cached briefly to keep the hot path off the database.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("missing authorization header"))
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid authorization format"))
			c.Abort()
			return
		}

		claims, err := m.authSvc.ValidateToken(c.Request.Context(), parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid token"))
			c.Abort()
			return
		}

		principal, err := m.lookupPrincipal(c, claims.PrincipalID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("unknown principal"))
			c.Abort()
			return
		}
		if !principal.Active {
			c.JSON(http.StatusForbidden, handler.NewErrorResponse("account is deactivated"))
			c.Abort()
			return
		}

		c.Set(handler.CtxPrincipalID, principal.ID.String())
		c.Set(handler.CtxPrincipalRole, string(principal.Role))
		c.Set(handler.CtxPrincipalEmail, principal.Email)
		c.Next()
	}
}

// RequireRole allows the request through only for the listed roles.
// Must run after Authenticate.
func (m *AuthMiddleware) RequireRole(roles ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := model.Role(c.GetString(handler.CtxPrincipalRole))
		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}
		c.JSON(http.StatusForbidden, handler.NewErrorResponse("insufficient role"))
		c.Abort()
	}
}

func (m *AuthMiddleware) lookupPrincipal(c *gin.Context, id uuid.UUID) (*model.Principal, error) {
	key := id.String()
	if cached, ok := m.cache.Get(key); ok {
		return cached.(*model.Principal), nil
	}

	principal, err := m.principals.Get(c.Request.Context(), id)
	if err != nil {
		return nil, err
	}

	m.cache.Set(key, principal, gocache.DefaultExpiration)
	return principal, nil
}
