package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/qs3c/blog_server/internal/model"
)

type RatingRepository struct {
	db *gorm.DB
}

func NewRatingRepository(db *gorm.DB) *RatingRepository {
	return &RatingRepository{db: db}
}

func (r *RatingRepository) detailed(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Post").Preload("Rater.Profile")
}

func (r *RatingRepository) List(ctx context.Context, limit int) ([]*model.UserRating, error) {
	var ratings []*model.UserRating
	err := r.detailed(ctx).Order("id ASC").Limit(clampLimit(limit)).Find(&ratings).Error
	return ratings, err
}

func (r *RatingRepository) GetByID(ctx context.Context, id int64) (*model.UserRating, error) {
	var rating model.UserRating
	err := r.detailed(ctx).Where("id = ?", id).First(&rating).Error
	if err != nil {
		return nil, err
	}
	return &rating, nil
}

func (r *RatingRepository) GetByIDs(ctx context.Context, ids []int64) ([]*model.UserRating, error) {
	var ratings []*model.UserRating
	err := r.detailed(ctx).Where("id IN ?", ids).Order("id ASC").Find(&ratings).Error
	return ratings, err
}

// CreateBatch 批量创建评分，(rated_by, post_id) 重复时整体回滚
func (r *RatingRepository) CreateBatch(ctx context.Context, ratings []*model.UserRating) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&ratings).Error
	})
}

func (r *RatingRepository) Update(ctx context.Context, id int64, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&model.UserRating{ID: id}).Updates(fields).Error
}

func (r *RatingRepository) Delete(ctx context.Context, id int64) error {
	return checkAffected(r.db.WithContext(ctx).Delete(&model.UserRating{}, id))
}
