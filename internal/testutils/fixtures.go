package testutils

import (
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/luxiaoxia12138-alt/blog3.0/internal/model/post"
	"github.com/luxiaoxia12138-alt/blog3.0/internal/model/user"
)

// CreateTestUser creates a test user with a unique username
func CreateTestUser(db *gorm.DB, opts ...UserOption) *user.User {
	uniqueID := uuid.New().String()
	username := fmt.Sprintf("test_user_%s", uniqueID)

	// Default password hash
	passwordHash, _ := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)

	testUser := &user.User{
		Username: username,
		Nickname: username,
		Password: string(passwordHash),
		Role:     "user",
	}

	for _, opt := range opts {
		opt(testUser)
	}

	if err := db.Create(testUser).Error; err != nil {
		panic(fmt.Sprintf("Failed to create test user: %v", err))
	}

	return testUser
}

// UserOption configures test user
type UserOption func(*user.User)

// WithUsername sets the username
func WithUsername(username string) UserOption {
	return func(u *user.User) {
		u.Username = username
	}
}

// WithNickname sets the nickname
func WithNickname(nickname string) UserOption {
	return func(u *user.User) {
		u.Nickname = nickname
	}
}

// WithRole sets the role
func WithRole(role string) UserOption {
	return func(u *user.User) {
		u.Role = role
	}
}

// WithPassword sets the password (will be hashed)
func WithPassword(password string) UserOption {
	return func(u *user.User) {
		hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		u.Password = string(hash)
	}
}

// CreateTestPost creates a published test post
func CreateTestPost(db *gorm.DB, authorID uint, opts ...PostOption) *post.Post {
	testPost := &post.Post{
		Title:    fmt.Sprintf("test_post_%s", uuid.New().String()),
		AuthorID: authorID,
		Summary:  "test summary",
		Content:  "test content",
		Status:   "published",
	}

	for _, opt := range opts {
		opt(testPost)
	}

	if err := db.Create(testPost).Error; err != nil {
		panic(fmt.Sprintf("Failed to create test post: %v", err))
	}

	return testPost
}

// PostOption configures test post
type PostOption func(*post.Post)

// WithTitle sets the title
func WithTitle(title string) PostOption {
	return func(p *post.Post) {
		p.Title = title
	}
}

// WithStatus sets the status
func WithStatus(status string) PostOption {
	return func(p *post.Post) {
		p.Status = status
	}
}

// WithTags sets the denormalized tags string
func WithTags(tags string) PostOption {
	return func(p *post.Post) {
		p.Tags = tags
	}
}

// WithDeleted marks the post as soft-deleted
func WithDeleted() PostOption {
	return func(p *post.Post) {
		p.IsDeleted = true
	}
}
