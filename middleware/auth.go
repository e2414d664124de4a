package middleware

import (
	"context"
	"net/http"
	"strings"

	expertRepo "equipass/database/repository/expert"
	userRepo "equipass/database/repository/user"
	"equipass/utils"

	"github.com/gin-gonic/gin"
)

// AuthRequired validates the bearer JWT and resolves the acting identity.
// A token carrying an expertId claim marks the caller as an expert actor.
// Token hashes are checked against the stored hash and cached in Redis so
// repeat calls skip the database.
func AuthRequired(users userRepo.UserRepository, experts expertRepo.ExpertRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Insufficient authorization"})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		subjectID, expertID, err := utils.ExtractActorFromToken(tokenString)
		if err != nil || subjectID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Insufficient authorization"})
			return
		}

		computedHash := utils.HashToken(tokenString)
		cacheKey := utils.AuthCachePrefix + subjectID
		cacheClient := utils.GetAuthCacheClient()
		ctx := context.Background()

		cachedHash, cacheErr := cacheClient.Get(ctx, cacheKey).Result()
		if cacheErr != nil || cachedHash != computedHash {
			// Cache miss: verify against the stored token hash.
			var storedHash string
			if expertID != "" {
				exp, err := experts.GetByID(expertID)
				if err != nil {
					c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Insufficient authorization"})
					return
				}
				storedHash = exp.TokenHash
			} else {
				u, err := users.GetByID(subjectID)
				if err != nil {
					c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Insufficient authorization"})
					return
				}
				storedHash = u.TokenHash
			}
			if storedHash == "" || storedHash != computedHash {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Insufficient authorization"})
				return
			}
			_ = cacheClient.Set(ctx, cacheKey, computedHash, utils.AuthCacheTTL).Err()
		}

		c.Set("subjectID", subjectID)
		c.Set("expertID", expertID)
		c.Set("isExpertActor", expertID != "")
		c.Next()
	}
}

// ExpertOnly rejects callers whose token carries no expert identity.
func ExpertOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if expertID := c.GetString("expertID"); expertID == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Expert credentials required"})
			return
		}
		c.Next()
	}
}
