package middleware

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"drtc/licensing/internal/access"
	"drtc/licensing/internal/models"
)

var secret = []byte(getJWTSecret())

func getJWTSecret() string {
	if val := os.Getenv("JWT_SECRET"); val != "" {
		return val
	}
	return "supersecret" // fallback
}

// GenerateToken issues an HS256 token carrying the resolved identity:
// user id, role and (for company managers) the company affiliation.
func GenerateToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"role":    string(user.Role),
		"exp":     time.Now().Add(72 * time.Hour).Unix(),
	}
	if user.CompanyID != nil {
		claims["company_id"] = *user.CompanyID
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// resolveActor validates the bearer token and stores the resolved Actor
// in the context. It aborts the request on failure.
func resolveActor(c *gin.Context) bool {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
		return false
	}

	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	})
	if err != nil || !token.Valid {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
		return false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
		return false
	}
	userID, okID := claims["user_id"].(float64)
	role, okRole := claims["role"].(string)
	if !okID || !okRole {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
		return false
	}
	actor := access.Actor{UserID: uint(userID), Role: models.Role(role)}
	if companyID, ok := claims["company_id"].(float64); ok {
		id := uint(companyID)
		actor.CompanyID = &id
	}
	c.Set("actor", actor)
	return true
}

// RequireAuth ensures a valid JWT is present and stores the resolved
// Actor in the context for downstream handlers.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !resolveActor(c) {
			return
		}
		c.Next()
	}
}

// RequireRoles ensures the JWT is valid and the user has one of the given
// roles. Fine-grained action checks still happen in the services; this
// only trims route groups.
func RequireRoles(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !resolveActor(c) {
			return
		}
		actor := MustActor(c)
		for _, role := range roles {
			if actor.Role == role {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
	}
}

// MustActor returns the Actor stored by RequireAuth.
func MustActor(c *gin.Context) access.Actor {
	return c.MustGet("actor").(access.Actor)
}
