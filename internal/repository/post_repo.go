package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/qs3c/blog_server/internal/model"
)

// 评分均值与评论数在读取时计算
const postAggregates = "posts.*, " +
	"(SELECT AVG(user_ratings.rating) FROM user_ratings WHERE user_ratings.post_id = posts.id) AS avg_rating, " +
	"(SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id) AS total_comments"

type PostRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) *PostRepository {
	return &PostRepository{db: db}
}

// detailed 文章查询：聚合字段 + 作者、评分、评论树
func (r *PostRepository) detailed(ctx context.Context) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&model.Post{}).Select(postAggregates)
	q = preloadUser(q, "Author")
	q = q.Preload("Ratings", orderByID).Preload("Ratings.Rater.Profile")
	q = q.Preload("Comments", orderByID)
	q = preloadUser(q, "Comments.Commenter")
	q = q.Preload("Comments.Children", orderByID)
	return preloadUser(q, "Comments.Children.Commenter")
}

func (r *PostRepository) List(ctx context.Context, limit int) ([]*model.Post, error) {
	var posts []*model.Post
	err := r.detailed(ctx).Order("posts.id ASC").Limit(clampLimit(limit)).Find(&posts).Error
	return posts, err
}

func (r *PostRepository) GetByID(ctx context.Context, id int64) (*model.Post, error) {
	var post model.Post
	err := r.detailed(ctx).Where("posts.id = ?", id).First(&post).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *PostRepository) GetBySlug(ctx context.Context, slug string) (*model.Post, error) {
	var post model.Post
	err := r.detailed(ctx).Where("posts.slug = ?", slug).First(&post).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *PostRepository) GetByIDs(ctx context.Context, ids []int64) ([]*model.Post, error) {
	var posts []*model.Post
	err := r.detailed(ctx).Where("posts.id IN ?", ids).Order("posts.id ASC").Find(&posts).Error
	return posts, err
}

// Exists 文章是否存在
func (r *PostRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Post{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *PostRepository) CreateBatch(ctx context.Context, posts []*model.Post) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&posts).Error
	})
}

func (r *PostRepository) Update(ctx context.Context, id int64, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&model.Post{ID: id}).Updates(fields).Error
}

// Delete 删除文章，评论与评分保留并解除关联
func (r *PostRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Comment{}).Where("post_id = ?", id).Update("post_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.UserRating{}).Where("post_id = ?", id).Update("post_id", nil).Error; err != nil {
			return err
		}
		return checkAffected(tx.Delete(&model.Post{}, id))
	})
}
