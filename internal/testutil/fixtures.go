package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"gorm.io/gorm"

	"github.com/qs3c/blog_server/internal/model"
)

var seq int64

func next() int64 {
	return atomic.AddInt64(&seq, 1)
}

// TestUser 创建测试用户
func TestUser(t *testing.T, db *gorm.DB, opts ...func(*model.User)) *model.User {
	t.Helper()

	user := &model.User{
		Email:  fmt.Sprintf("test_%d@example.com", next()),
		Active: true,
	}

	for _, opt := range opts {
		opt(user)
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	return user
}

// WithEmail 设置邮箱
func WithEmail(email string) func(*model.User) {
	return func(u *model.User) {
		u.Email = email
	}
}

// WithMobile 设置手机号
func WithMobile(mobile string) func(*model.User) {
	return func(u *model.User) {
		u.MobileNumber = &mobile
	}
}

// WithProfile 同时创建资料
func WithProfile(first, last string) func(*model.User) {
	return func(u *model.User) {
		u.Profile = &model.UserProfile{FirstName: first, LastName: last}
	}
}

// TestRole 创建测试角色
func TestRole(t *testing.T, db *gorm.DB, name string) *model.Role {
	t.Helper()

	if name == "" {
		name = fmt.Sprintf("role_%d", next())
	}
	role := &model.Role{Name: name}
	if err := db.Create(role).Error; err != nil {
		t.Fatalf("Failed to create test role: %v", err)
	}
	return role
}

// AssignRole 关联用户与角色
func AssignRole(t *testing.T, db *gorm.DB, userID, roleID int64) {
	t.Helper()

	if err := db.Create(&model.UserRole{UserID: userID, RoleID: roleID}).Error; err != nil {
		t.Fatalf("Failed to assign role: %v", err)
	}
}

// TestPost 创建测试文章
func TestPost(t *testing.T, db *gorm.DB, authorID *int64, opts ...func(*model.Post)) *model.Post {
	t.Helper()

	n := next()
	post := &model.Post{
		Slug:     fmt.Sprintf("post-%d", n),
		Title:    fmt.Sprintf("Test Post %d", n),
		Body:     "Test post body",
		AuthorID: authorID,
	}

	for _, opt := range opts {
		opt(post)
	}

	if err := db.Create(post).Error; err != nil {
		t.Fatalf("Failed to create test post: %v", err)
	}

	return post
}

// WithSlug 设置 slug
func WithSlug(slug string) func(*model.Post) {
	return func(p *model.Post) {
		p.Slug = slug
	}
}

// TestComment 创建测试评论
func TestComment(t *testing.T, db *gorm.DB, postID, userID int64) *model.Comment {
	t.Helper()

	comment := &model.Comment{
		Body:        fmt.Sprintf("Test comment %d", next()),
		PostID:      &postID,
		CommentedBy: &userID,
	}

	if err := db.Create(comment).Error; err != nil {
		t.Fatalf("Failed to create test comment: %v", err)
	}

	return comment
}

// TestReply 创建测试回复
func TestReply(t *testing.T, db *gorm.DB, parent *model.Comment, userID int64) *model.Comment {
	t.Helper()

	reply := &model.Comment{
		Body:            fmt.Sprintf("Test reply %d", next()),
		PostID:          parent.PostID,
		CommentedBy:     &userID,
		ParentCommentID: &parent.ID,
	}

	if err := db.Create(reply).Error; err != nil {
		t.Fatalf("Failed to create test reply: %v", err)
	}

	return reply
}

// TestRating 创建测试评分
func TestRating(t *testing.T, db *gorm.DB, postID, userID int64, rating int) *model.UserRating {
	t.Helper()

	r := &model.UserRating{
		Rating:  rating,
		PostID:  &postID,
		RatedBy: &userID,
	}

	if err := db.Create(r).Error; err != nil {
		t.Fatalf("Failed to create test rating: %v", err)
	}

	return r
}
