package auth

// RegisterRequest 注册请求
type RegisterRequest struct {
	Username string `json:"username" binding:"required,max=50"` // 用户名
	Password string `json:"password" binding:"required,max=100"` // 密码
	Nickname string `json:"nickname"`                            // 昵称，默认同用户名
	Role     string `json:"role" binding:"omitempty,oneof=user admin"` // 角色
}

// LoginRequest 登录请求
type LoginRequest struct {
	Username string `json:"username" binding:"required"` // 用户名
	Password string `json:"password" binding:"required"` // 密码
}

// UserInfo 返回给前端的用户信息（不含密码哈希）
type UserInfo struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Nickname string `json:"nickname"`
	Role     string `json:"role"`
}

// LoginResponse 登录响应
type LoginResponse struct {
	Token string   `json:"token"`
	User  UserInfo `json:"user"`
}
