package seed

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/qs3c/blog_server/internal/model"
	"github.com/qs3c/blog_server/internal/repository"
)

// Options 各类数据的数量
type Options struct {
	Users          int
	Posts          int
	Comments       int
	RatingsPerPost int
	Clean          bool
	Seed           int64
}

// DefaultOptions 默认数量
func DefaultOptions() Options {
	return Options{
		Users:          20,
		Posts:          40,
		Comments:       120,
		RatingsPerPost: 5,
		Clean:          true,
	}
}

// Summary 实际写入的数量
type Summary struct {
	Roles    int
	Users    int
	Posts    int
	Comments int
	Ratings  int
}

// DefaultRoles 预置角色
var DefaultRoles = []string{"admin", "editor", "author", "reader"}

type Seeder struct {
	db       *gorm.DB
	users    *repository.UserRepository
	roles    *repository.RoleRepository
	posts    *repository.PostRepository
	comments *repository.CommentRepository
	ratings  *repository.RatingRepository
	log      logrus.FieldLogger
}

func NewSeeder(db *gorm.DB, log logrus.FieldLogger) *Seeder {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Seeder{
		db:       db,
		users:    repository.NewUserRepository(db),
		roles:    repository.NewRoleRepository(db),
		posts:    repository.NewPostRepository(db),
		comments: repository.NewCommentRepository(db),
		ratings:  repository.NewRatingRepository(db),
		log:      log,
	}
}

// ClearAll 按依赖顺序清空全部表
func (s *Seeder) ClearAll(ctx context.Context) error {
	tables := []interface{}{
		&model.UserRating{},
		&model.Comment{},
		&model.Post{},
		&model.UserRole{},
		&model.UserProfile{},
		&model.Role{},
		&model.User{},
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, table := range tables {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(table).Error; err != nil {
				return fmt.Errorf("clear %T: %w", table, err)
			}
		}
		return nil
	})
}

// Run 写入角色、用户、文章、评论树和评分
func (s *Seeder) Run(ctx context.Context, opts Options) (*Summary, error) {
	f, err := NewFactory(opts.Seed)
	if err != nil {
		return nil, err
	}

	if opts.Clean {
		if err := s.ClearAll(ctx); err != nil {
			return nil, err
		}
		s.log.Info("database cleared")
	}

	summary := &Summary{}

	roles := make([]*model.Role, 0, len(DefaultRoles))
	for _, name := range DefaultRoles {
		roles = append(roles, f.Role(name))
	}
	if err := s.roles.CreateBatch(ctx, roles); err != nil {
		return nil, fmt.Errorf("seed roles: %w", err)
	}
	summary.Roles = len(roles)

	if opts.Users == 0 {
		return summary, nil
	}

	users := make([]*model.User, 0, opts.Users)
	for i := 0; i < opts.Users; i++ {
		user := f.User(i)
		role := roles[f.Intn(len(roles))]
		user.UserRoles = []*model.UserRole{{RoleID: role.ID}}
		users = append(users, user)
	}
	if err := s.users.CreateBatch(ctx, users); err != nil {
		return nil, fmt.Errorf("seed users: %w", err)
	}
	summary.Users = len(users)

	posts := make([]*model.Post, 0, opts.Posts)
	for i := 0; i < opts.Posts; i++ {
		author := users[f.Intn(len(users))].ID
		posts = append(posts, f.Post(i, &author))
	}
	if len(posts) > 0 {
		if err := s.posts.CreateBatch(ctx, posts); err != nil {
			return nil, fmt.Errorf("seed posts: %w", err)
		}
	}
	summary.Posts = len(posts)

	if len(posts) == 0 {
		return summary, nil
	}

	n, err := s.seedComments(ctx, f, users, posts, opts.Comments)
	if err != nil {
		return nil, err
	}
	summary.Comments = n

	n, err = s.seedRatings(ctx, f, users, posts, opts.RatingsPerPost)
	if err != nil {
		return nil, err
	}
	summary.Ratings = n

	s.log.WithFields(logrus.Fields{
		"roles":    summary.Roles,
		"users":    summary.Users,
		"posts":    summary.Posts,
		"comments": summary.Comments,
		"ratings":  summary.Ratings,
	}).Info("seed complete")
	return summary, nil
}

// seedComments 先写顶级评论，再挂一层回复，回复与父评论同属一篇文章
func (s *Seeder) seedComments(ctx context.Context, f *Factory, users []*model.User, posts []*model.Post, total int) (int, error) {
	if total == 0 {
		return 0, nil
	}
	roots := make([]*model.Comment, 0, (total+1)/2)
	for i := 0; i < (total+1)/2; i++ {
		post := posts[f.Intn(len(posts))]
		roots = append(roots, f.Comment(post.ID, users[f.Intn(len(users))].ID, nil))
	}
	if err := s.comments.CreateBatch(ctx, roots); err != nil {
		return 0, fmt.Errorf("seed comments: %w", err)
	}

	replies := make([]*model.Comment, 0, total/2)
	for i := 0; i < total/2; i++ {
		parent := roots[f.Intn(len(roots))]
		parentID := parent.ID
		replies = append(replies, f.Comment(*parent.PostID, users[f.Intn(len(users))].ID, &parentID))
	}
	if len(replies) > 0 {
		if err := s.comments.CreateBatch(ctx, replies); err != nil {
			return 0, fmt.Errorf("seed replies: %w", err)
		}
	}
	return len(roots) + len(replies), nil
}

// seedRatings 每篇文章取不重复的评分人
func (s *Seeder) seedRatings(ctx context.Context, f *Factory, users []*model.User, posts []*model.Post, perPost int) (int, error) {
	if perPost > len(users) {
		perPost = len(users)
	}
	if perPost == 0 {
		return 0, nil
	}

	ratings := make([]*model.UserRating, 0, perPost*len(posts))
	for _, post := range posts {
		start := f.Intn(len(users))
		for i := 0; i < perPost; i++ {
			rater := users[(start+i)%len(users)]
			ratings = append(ratings, f.Rating(post.ID, rater.ID))
		}
	}
	if err := s.ratings.CreateBatch(ctx, ratings); err != nil {
		return 0, fmt.Errorf("seed ratings: %w", err)
	}
	return len(ratings), nil
}
