// Package seed 生成开发与演示用的假数据
package seed

import (
	"fmt"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"

	"github.com/qs3c/blog_server/internal/model"
)

// DefaultPassword 种子用户的统一密码
const DefaultPassword = "password123"

// Factory 构造模型，不写库
type Factory struct {
	faker    *gofakeit.Faker
	password string
}

// NewFactory seed 为 0 时使用随机种子
func NewFactory(seed int64) (*Factory, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.MinCost)
	if err != nil {
		return nil, err
	}
	return &Factory{
		faker:    gofakeit.New(seed),
		password: string(hash),
	}, nil
}

func (f *Factory) Role(name string) *model.Role {
	desc := f.faker.Sentence(6)
	return &model.Role{
		Name:        name,
		Description: &desc,
	}
}

// User 带资料的用户，n 用于保证邮箱和手机号唯一
func (f *Factory) User(n int) *model.User {
	first, last := f.faker.FirstName(), f.faker.LastName()
	mobile := fmt.Sprintf("%010d", 5550000000+int64(n))
	lastLogin := f.faker.DateRange(time.Now().AddDate(0, -3, 0), time.Now())
	dob := f.faker.DateRange(time.Now().AddDate(-70, 0, 0), time.Now().AddDate(-18, 0, 0)).Truncate(24 * time.Hour)

	return &model.User{
		Email:        fmt.Sprintf("%s.%s.%d@example.com", strings.ToLower(first), strings.ToLower(last), n),
		Password:     f.password,
		Active:       f.faker.Bool(),
		LastLoginAt:  &lastLogin,
		MobileNumber: &mobile,
		Profile: &model.UserProfile{
			FirstName:      first,
			LastName:       last,
			ProfilePicture: fmt.Sprintf("https://i.pravatar.cc/150?u=%s", f.faker.UUID()),
			Bio:            f.faker.Sentence(12),
			DateOfBirth:    &dob,
			Gender:         f.faker.RandomString(model.Genders),
			MaritalStatus:  f.faker.RandomString(model.MaritalStatuses),
			Education:      f.faker.RandomString(model.EducationLevels),
		},
	}
}

// Post slug 由标题生成并追加序号
func (f *Factory) Post(n int, authorID *int64) *model.Post {
	title := strings.TrimSuffix(f.faker.Sentence(5), ".")
	slug := fmt.Sprintf("%s-%d", slugify(title), n)
	if len(slug) > 55 {
		slug = slug[len(slug)-55:]
		slug = strings.TrimLeft(slug, "-")
	}
	return &model.Post{
		Slug:     slug,
		Title:    title,
		Body:     f.faker.Paragraph(2, 4, 12, "\n\n"),
		AuthorID: authorID,
	}
}

func (f *Factory) Comment(postID, userID int64, parentID *int64) *model.Comment {
	return &model.Comment{
		Body:            f.faker.Sentence(10),
		IsModerated:     f.faker.Bool(),
		PostID:          &postID,
		CommentedBy:     &userID,
		ParentCommentID: parentID,
	}
}

func (f *Factory) Rating(postID, userID int64) *model.UserRating {
	return &model.UserRating{
		Rating:  f.faker.Number(1, 5),
		RatedBy: &userID,
		PostID:  &postID,
	}
}

// Intn [0, n)
func (f *Factory) Intn(n int) int {
	return f.faker.IntRange(0, n-1)
}

func slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
