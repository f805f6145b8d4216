package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/luxiaoxia12138-alt/blog3.0/internal/dto"
	"github.com/luxiaoxia12138-alt/blog3.0/internal/pkg"
	"github.com/luxiaoxia12138-alt/blog3.0/pkg/response"
)

// parseToken 从 Authorization header 或 cookie 中解析 token
func parseToken(c *gin.Context) (*pkg.Claims, error) {
	var tokenString string

	// 优先从 Authorization header 获取
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
		tokenString = authHeader[7:]
	}

	// header 里没有，再尝试 cookie
	if tokenString == "" {
		tokenString, _ = c.Cookie("token")
	}

	if tokenString == "" {
		return nil, fmt.Errorf("未提供认证令牌")
	}

	claims, err := pkg.ParseAccessToken(tokenString)
	if err != nil {
		return nil, fmt.Errorf("无效的认证令牌")
	}

	return claims, nil
}

// JWTAuth JWT 认证中间件（必需认证）
func JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := parseToken(c)
		if err != nil {
			dto.ErrorResponse(c, response.NewBusinessError(
				response.WithErrorCode(response.Unauthorized),
				response.WithErrorMessage(err.Error()),
			))
			c.Abort()
			return
		}

		// 将用户信息存入上下文
		c.Set("user_id", claims.UserID)
		c.Set("username", claims.Username)
		c.Set("user_role", claims.Role)
		c.Next()
	}
}

// OptionalJWTAuth 可选的 JWT 认证中间件（不强制要求认证，但如果有token则解析）
func OptionalJWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := parseToken(c)
		if err == nil && claims != nil {
			c.Set("user_id", claims.UserID)
			c.Set("username", claims.Username)
			c.Set("user_role", claims.Role)
		}
		// 无论是否有 token，都继续执行
		c.Next()
	}
}

// RequireRole 角色校验中间件，必须在 JWTAuth/OptionalJWTAuth 之后使用
// 未认证返回 401，角色不符返回 403
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole, exists := c.Get("user_role")
		if !exists {
			dto.ErrorResponse(c, response.NewBusinessError(
				response.WithErrorCode(response.Unauthorized),
				response.WithErrorMessage("未登录"),
			))
			c.Abort()
			return
		}

		if userRole.(string) != role {
			dto.ErrorResponse(c, response.NewBusinessError(
				response.WithErrorCode(response.Forbidden),
				response.WithErrorMessage("无权限执行此操作"),
			))
			c.Abort()
			return
		}

		c.Next()
	}
}
