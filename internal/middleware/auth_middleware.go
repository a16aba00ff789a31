package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/yesbharath/spinwheel-backend/internal/services"
	"github.com/yesbharath/spinwheel-backend/pkg/session"
)

// Context keys set by the auth middlewares
const (
	CtxParticipantID = "participantID"
	CtxAdminUser     = "adminUser"
	CtxAdminRole     = "adminRole"
)

// SessionAuthMiddleware authenticates a participant from the session
// cookie. The participant ID lands in the context as a primitive.ObjectID.
func SessionAuthMiddleware(tokens *session.TokenService, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := c.Cookie(cookieName)
		if err != nil || tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
			c.Abort()
			return
		}

		payload, err := tokens.Verify(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid session"})
			c.Abort()
			return
		}

		id, err := primitive.ObjectIDFromHex(payload.ParticipantID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid session"})
			c.Abort()
			return
		}

		c.Set(CtxParticipantID, id)
		c.Next()
	}
}

// AdminAuthMiddleware authenticates an admin from the Bearer token. The
// JWT signature alone is not enough; the embedded session token must still
// be live, so a login pushed out by the session cap stops working here.
func AdminAuthMiddleware(auth *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header format must be Bearer {token}"})
			c.Abort()
			return
		}

		admin, claims, err := auth.Verify(c.Request.Context(), parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		c.Set(CtxAdminUser, admin)
		c.Set(CtxAdminRole, claims.Role)
		c.Next()
	}
}

// RequireRole restricts a route group to admins with the given role
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(CtxAdminRole) != role {
			c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// ParticipantID pulls the authenticated participant's ID from the context
func ParticipantID(c *gin.Context) (primitive.ObjectID, bool) {
	v, ok := c.Get(CtxParticipantID)
	if !ok {
		return primitive.NilObjectID, false
	}
	id, ok := v.(primitive.ObjectID)
	return id, ok
}
