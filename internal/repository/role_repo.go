package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/qs3c/blog_server/internal/model"
)

type RoleRepository struct {
	db *gorm.DB
}

func NewRoleRepository(db *gorm.DB) *RoleRepository {
	return &RoleRepository{db: db}
}

func (r *RoleRepository) List(ctx context.Context, limit int) ([]*model.Role, error) {
	var roles []*model.Role
	err := r.db.WithContext(ctx).Order("id ASC").Limit(clampLimit(limit)).Find(&roles).Error
	return roles, err
}

func (r *RoleRepository) GetByID(ctx context.Context, id int64) (*model.Role, error) {
	var role model.Role
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&role).Error
	if err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *RoleRepository) GetByIDs(ctx context.Context, ids []int64) ([]*model.Role, error) {
	var roles []*model.Role
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("id ASC").Find(&roles).Error
	return roles, err
}

// MissingIDs 返回 ids 中不存在的角色 ID
func (r *RoleRepository) MissingIDs(ctx context.Context, ids []int64) ([]int64, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var found []int64
	if err := r.db.WithContext(ctx).Model(&model.Role{}).Where("id IN ?", ids).Pluck("id", &found).Error; err != nil {
		return nil, err
	}

	exists := make(map[int64]struct{}, len(found))
	for _, id := range found {
		exists[id] = struct{}{}
	}
	var missing []int64
	for _, id := range ids {
		if _, ok := exists[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

func (r *RoleRepository) CreateBatch(ctx context.Context, roles []*model.Role) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&roles).Error
	})
}

func (r *RoleRepository) Update(ctx context.Context, id int64, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&model.Role{ID: id}).Updates(fields).Error
}

// Delete 删除角色及其用户关联
func (r *RoleRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("role_id = ?", id).Delete(&model.UserRole{}).Error; err != nil {
			return err
		}
		return checkAffected(tx.Delete(&model.Role{}, id))
	})
}
