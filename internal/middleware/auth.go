package middleware

import (
	"english_edu_backend/internal/config"
	"english_edu_backend/internal/model"
	"english_edu_backend/internal/repository"
	"english_edu_backend/internal/util"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

func tokenFromRequest(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return c.Query("token")
}

// AuthMiddleware requires a valid JWT and puts its claims on the context.
func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := tokenFromRequest(c)
		if tokenString == "" {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		claims, err := util.ParseJWT(tokenString, cfg.JWT.Secret)
		if err != nil {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		c.Set("user", claims)
		c.Next()
	}
}

// TryAuthMiddleware attaches claims when a valid token is present but lets the
// request through either way. Endpoints behind it serve guests with reduced
// behavior instead of rejecting them.
func TryAuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := tokenFromRequest(c)
		if tokenString != "" {
			if claims, err := util.ParseJWT(tokenString, cfg.JWT.Secret); err == nil {
				c.Set("user", claims)
			}
		}
		c.Next()
	}
}

// RoleMiddleware restricts a route to the given roles. Admin always passes.
func RoleMiddleware(roles ...model.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := util.GetUserFromContext(c)
		if user == nil {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		hasRole := user.Role == model.Admin
		for _, role := range roles {
			if user.Role == role {
				hasRole = true
				break
			}
		}

		if !hasRole {
			util.Forbidden(c)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequirePro gates paid content. Plan state lives on the user row, not in the
// token, so a grant takes effect without re-login. Responds 402, not 401: the
// caller is authenticated, just not entitled.
func RequirePro(userRepo *repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := util.GetUserFromContext(c)
		if claims == nil {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		user, err := userRepo.FindByID(claims.UserID)
		if err != nil {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		if !user.IsPro(time.Now()) {
			util.PaymentRequired(c)
			c.Abort()
			return
		}
		c.Next()
	}
}
