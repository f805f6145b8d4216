package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/luxiaoxia12138-alt/blog3.0/internal/model/user"
	"github.com/luxiaoxia12138-alt/blog3.0/internal/pkg"
	"github.com/luxiaoxia12138-alt/blog3.0/pkg/response"
)

type AuthService struct {
	db *gorm.DB
}

func NewAuthService(db *gorm.DB) *AuthService {
	return &AuthService{db: db}
}

// Register 账号密码注册
func (s *AuthService) Register(req RegisterRequest) *response.BusinessError {
	// 1. 检查用户名是否已存在
	var existingUser user.User
	err := s.db.Where("username = ?", req.Username).First(&existingUser).Error
	if err == nil {
		return response.NewBusinessError(
			response.WithErrorCode(response.Conflict),
			response.WithErrorMessage("用户名已存在"),
		)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return response.NewBusinessError(
			response.WithErrorCode(response.Fail),
			response.WithErrorMessage("注册失败"),
			response.WithError(err),
		)
	}

	// 2. 密码加密
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return response.NewBusinessError(
			response.WithErrorCode(response.Fail),
			response.WithErrorMessage("密码加密失败"),
		)
	}

	// 3. 创建用户
	nickname := req.Nickname
	if nickname == "" {
		nickname = req.Username
	}
	role := req.Role
	if role == "" {
		role = "user"
	}

	newUser := user.User{
		Username: req.Username,
		Password: string(hashedPassword),
		Nickname: nickname,
		Role:     role,
	}

	if err := s.db.Create(&newUser).Error; err != nil {
		// 并发注册时唯一索引兜底，其余入库错误不能伪装成用户名冲突
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return response.NewBusinessError(
				response.WithErrorCode(response.Conflict),
				response.WithErrorMessage("用户名已存在"),
			)
		}
		return response.NewBusinessError(
			response.WithErrorCode(response.Fail),
			response.WithErrorMessage("注册失败"),
			response.WithError(err),
		)
	}

	return nil
}

// Login 账号密码登录
// 用户不存在和密码错误返回同一条消息，避免用户名枚举
func (s *AuthService) Login(req LoginRequest) (*LoginResponse, *response.BusinessError) {
	invalidCredentials := response.NewBusinessError(
		response.WithErrorCode(response.Unauthorized),
		response.WithErrorMessage("用户名或密码错误"),
	)

	// 1. 查询用户
	var foundUser user.User
	result := s.db.Where("username = ?", req.Username).First(&foundUser)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, invalidCredentials
		}
		return nil, response.NewBusinessError(
			response.WithErrorCode(response.Fail),
			response.WithErrorMessage("登录失败"),
		)
	}

	// 2. 校验密码
	if err := bcrypt.CompareHashAndPassword([]byte(foundUser.Password), []byte(req.Password)); err != nil {
		return nil, invalidCredentials
	}

	// 3. 生成 access token (JWT)
	token, err := pkg.GenerateAccessToken(foundUser.ID, foundUser.Username, foundUser.Role)
	if err != nil {
		return nil, response.NewBusinessError(
			response.WithErrorCode(response.Fail),
			response.WithErrorMessage("生成访问令牌失败"),
		)
	}

	return &LoginResponse{
		Token: token,
		User: UserInfo{
			ID:       foundUser.ID,
			Username: foundUser.Username,
			Nickname: foundUser.Nickname,
			Role:     foundUser.Role,
		},
	}, nil
}
