package auth

import (
	"github.com/gin-gonic/gin"

	"github.com/luxiaoxia12138-alt/blog3.0/config"
	"github.com/luxiaoxia12138-alt/blog3.0/internal/dto"
	"github.com/luxiaoxia12138-alt/blog3.0/pkg/response"
)

type AuthHandler struct {
	service *AuthService
}

// Register 用户注册
// @Summary 用户注册
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "注册请求"
// @Success 200 {object} response.Response
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.ValidationErrorResponse(c, err)
		return
	}

	if err := h.service.Register(req); err != nil {
		dto.ErrorResponse(c, err)
		return
	}

	dto.SuccessResponse(c, gin.H{"message": "注册成功"})
}

// Login 用户登录
// @Summary 用户登录
// @Description 登录成功返回 token，并写入 httpOnly cookie
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body LoginRequest true "登录请求"
// @Success 200 {object} LoginResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.ValidationErrorResponse(c, err)
		return
	}

	result, err := h.service.Login(req)
	if err != nil {
		dto.ErrorResponse(c, err)
		return
	}

	// 写入 httpOnly cookie，有效期与 token 一致
	c.SetCookie("token", result.Token, 3600*config.Conf.JWT.ExpireTime, "/", "", false, true)

	dto.SuccessResponse(c, result)
}

// Logout 退出登录
// @Summary 退出登录
// @Description 清除 token cookie。无服务端撤销，token 到期前仍然有效
// @Tags 认证
// @Produce json
// @Success 200 {object} response.Response
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	// 清除 token cookie
	c.SetCookie("token", "", -1, "/", "", false, true)

	dto.SuccessResponse(c, gin.H{"message": "退出成功"})
}

// Me 获取当前登录用户信息
// @Summary 获取当前用户信息
// @Tags 认证
// @Produce json
// @Success 200 {object} UserInfo
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	// 从上下文获取用户信息（由中间件设置）
	userID, exists := c.Get("user_id")
	if !exists {
		dto.ErrorResponse(c, response.NewBusinessError(
			response.WithErrorCode(response.Unauthorized),
			response.WithErrorMessage("未登录"),
		))
		return
	}

	username, _ := c.Get("username")
	role, _ := c.Get("user_role")

	dto.SuccessResponse(c, gin.H{
		"user": gin.H{
			"id":       userID,
			"username": username,
			"role":     role,
		},
	})
}
