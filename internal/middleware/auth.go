package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/kmorozova/answerboard/internal/dto"
	"github.com/kmorozova/answerboard/internal/model"
	"github.com/kmorozova/answerboard/internal/util"
	"github.com/rs/zerolog/log"
)

const sessionKey = "session"

// Session is the identity attached to the request after authentication.
type Session struct {
	Email string
	Role  model.UserRole
}

// Auth extracts the bearer token and attaches a Session to the context.
// Tokens issued by /login are signed JWTs; for compatibility with older
// clients a bare email is also accepted, in which case the role defaults to
// student. Missing or malformed headers abort with 401.
func Auth(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "Missing or malformed Authorization header"})
			return
		}
		token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "Missing or malformed Authorization header"})
			return
		}

		if claims, err := util.ParseJWT(token, jwtSecret); err == nil {
			c.Set(sessionKey, Session{Email: claims.Email, Role: claims.Role})
			c.Next()
			return
		}

		// Legacy token: the raw student email. Not a credential, kept only
		// so pre-login clients keep working.
		if !strings.Contains(token, "@") {
			log.Warn().Str("path", c.Request.URL.Path).Msg("Rejected unparseable bearer token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "Invalid token"})
			return
		}
		c.Set(sessionKey, Session{Email: token, Role: model.RoleStudent})
		c.Next()
	}
}

// RequireRole gates a route on the authenticated session's role. It is the
// server-side form of the client's route guard.
func RequireRole(role model.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := GetSession(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "Not authenticated"})
			return
		}
		if d := Decide(&session, role); !d.Allow {
			c.AbortWithStatusJSON(http.StatusForbidden, dto.ErrorResponse{Error: "Insufficient role"})
			return
		}
		c.Next()
	}
}

// GetSession returns the Session set by Auth, if any.
func GetSession(c *gin.Context) (Session, bool) {
	v, exists := c.Get(sessionKey)
	if !exists {
		return Session{}, false
	}
	session, ok := v.(Session)
	return session, ok
}
