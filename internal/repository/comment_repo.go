package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/qs3c/blog_server/internal/model"
)

// ErrCommentCycle 评论父链中出现环
var ErrCommentCycle = errors.New("comment parent chain contains a cycle")

type CommentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

// detailed 评论查询：评论者 + 子评论及其评论者
func (r *CommentRepository) detailed(ctx context.Context) *gorm.DB {
	q := preloadUser(r.db.WithContext(ctx), "Commenter")
	q = q.Preload("Children", orderByID)
	return preloadUser(q, "Children.Commenter")
}

func (r *CommentRepository) List(ctx context.Context, limit int) ([]*model.Comment, error) {
	var comments []*model.Comment
	err := r.detailed(ctx).Order("id ASC").Limit(clampLimit(limit)).Find(&comments).Error
	return comments, err
}

// GetByID 根据 ID 获取评论
func (r *CommentRepository) GetByID(ctx context.Context, id int64) (*model.Comment, error) {
	var comment model.Comment
	err := r.detailed(ctx).Where("id = ?", id).First(&comment).Error
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *CommentRepository) GetByIDs(ctx context.Context, ids []int64) ([]*model.Comment, error) {
	var comments []*model.Comment
	err := r.detailed(ctx).Where("id IN ?", ids).Order("id ASC").Find(&comments).Error
	return comments, err
}

// GetPlain 不带关联的评论，用于父评论校验
func (r *CommentRepository) GetPlain(ctx context.Context, id int64) (*model.Comment, error) {
	var comment model.Comment
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&comment).Error
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// AncestorIDs 沿 parent_comment_id 向上返回 id 的全部祖先（不含自身），从近到远
func (r *CommentRepository) AncestorIDs(ctx context.Context, id int64) ([]int64, error) {
	var ancestors []int64
	seen := map[int64]struct{}{id: {}}

	current := id
	for {
		var comment model.Comment
		err := r.db.WithContext(ctx).Select("id", "parent_comment_id").
			Where("id = ?", current).Take(&comment).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ancestors, nil
		}
		if err != nil {
			return nil, err
		}
		if comment.ParentCommentID == nil {
			return ancestors, nil
		}
		parentID := *comment.ParentCommentID
		if _, ok := seen[parentID]; ok {
			return ancestors, ErrCommentCycle
		}
		seen[parentID] = struct{}{}
		ancestors = append(ancestors, parentID)
		current = parentID
	}
}

// CreateBatch 批量创建评论
func (r *CommentRepository) CreateBatch(ctx context.Context, comments []*model.Comment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&comments).Error
	})
}

// Update 部分更新评论；修改 post_id 时整棵回复子树随之迁移
func (r *CommentRepository) Update(ctx context.Context, id int64, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Comment{ID: id}).Updates(fields).Error; err != nil {
			return err
		}

		postID, ok := fields["post_id"]
		if !ok {
			return nil
		}
		descendants, err := descendantIDs(tx, id)
		if err != nil || len(descendants) == 0 {
			return err
		}
		return tx.Model(&model.Comment{}).Where("id IN ?", descendants).
			Update("post_id", postID).Error
	})
}

// descendantIDs 按层收集 id 的全部后代
func descendantIDs(tx *gorm.DB, id int64) ([]int64, error) {
	var all []int64
	seen := map[int64]struct{}{id: {}}
	level := []int64{id}

	for len(level) > 0 {
		var children []int64
		err := tx.Model(&model.Comment{}).Where("parent_comment_id IN ?", level).
			Pluck("id", &children).Error
		if err != nil {
			return nil, err
		}

		level = level[:0]
		for _, c := range children {
			if _, ok := seen[c]; ok {
				continue
			}
			seen[c] = struct{}{}
			all = append(all, c)
			level = append(level, c)
		}
	}
	return all, nil
}

// Delete 删除评论，子评论保留为顶级评论
func (r *CommentRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&model.Comment{}).Where("parent_comment_id = ?", id).
			Update("parent_comment_id", nil).Error
		if err != nil {
			return err
		}
		return checkAffected(tx.Delete(&model.Comment{}, id))
	})
}
