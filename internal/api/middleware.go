package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"gymovoo/workout-engine/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
)

// Constants for context keys
const (
	ContextUserIDKey       = "userID"
	ContextSubscriptionKey = "subscription"
)

// jwtClaims is the payload issued by the account service. Plan is the
// subscription entitlement; a missing claim means free.
type jwtClaims struct {
	UserID string              `json:"uid"`
	Plan   domain.Subscription `json:"plan,omitempty"`
	jwt.RegisteredClaims
}

// AuthMiddleware creates a Gin middleware for JWT authentication.
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortWithError(c, http.StatusUnauthorized, "Authorization header is missing")
			return
		}

		// Expecting "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			abortWithError(c, http.StatusUnauthorized, "Authorization header format must be Bearer {token}")
			return
		}

		claims := &jwtClaims{}
		token, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(jwtSecret), nil
		})
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				abortWithError(c, http.StatusUnauthorized, "Token has expired")
			} else {
				abortWithError(c, http.StatusUnauthorized, fmt.Sprintf("Invalid token: %v", err))
			}
			return
		}
		if !token.Valid || claims.UserID == "" || claims.ExpiresAt == nil {
			abortWithError(c, http.StatusUnauthorized, "Invalid token or missing claims")
			return
		}

		sub := claims.Plan
		if sub != domain.SubscriptionPremium {
			sub = domain.SubscriptionFree
		}
		c.Set(ContextUserIDKey, claims.UserID)
		c.Set(ContextSubscriptionKey, sub)
		c.Next()
	}
}

// Helper to return JSON error response and abort request
func abortWithError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gin.H{"error": message})
}

// RequireSubscription rejects users whose token does not carry a plan that
// unlocks smart plans. Must run AFTER AuthMiddleware.
func RequireSubscription() gin.HandlerFunc {
	return func(c *gin.Context) {
		sub, err := getSubscriptionFromContext(c)
		if err != nil {
			abortWithError(c, http.StatusInternalServerError, "Subscription not found in context")
			return
		}
		if !sub.CanUseSmartPlans() {
			abortWithError(c, http.StatusForbidden, "Smart plans require a premium subscription")
			return
		}
		c.Next()
	}
}

// Helper function to get User ID from context (used by handlers)
func getUserIDFromContext(c *gin.Context) (string, error) {
	idRaw, exists := c.Get(ContextUserIDKey)
	if !exists {
		return "", errors.New("user ID not found in context")
	}
	idStr, ok := idRaw.(string)
	if !ok {
		return "", errors.New("invalid user ID type in context")
	}
	return idStr, nil
}

func getSubscriptionFromContext(c *gin.Context) (domain.Subscription, error) {
	raw, exists := c.Get(ContextSubscriptionKey)
	if !exists {
		return "", errors.New("subscription not found in context")
	}
	sub, ok := raw.(domain.Subscription)
	if !ok {
		return "", errors.New("invalid subscription type in context")
	}
	return sub, nil
}
