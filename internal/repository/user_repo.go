package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/qs3c/blog_server/internal/model"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// UserChanges 一次用户更新涉及的全部改动
type UserChanges struct {
	Fields        map[string]interface{}
	NewProfile    *model.UserProfile     // 用户尚无资料时新建
	ProfileFields map[string]interface{} // 更新已有资料
	RoleIDs       []int64
	ReplaceRoles  bool
}

func (r *UserRepository) List(ctx context.Context, limit int) ([]*model.User, error) {
	var users []*model.User
	err := preloadUser(r.db.WithContext(ctx), "").
		Order("id ASC").Limit(clampLimit(limit)).
		Find(&users).Error
	return users, err
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	var user model.User
	err := preloadUser(r.db.WithContext(ctx), "").Where("id = ?", id).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByIDs 按 ID 顺序返回
func (r *UserRepository) GetByIDs(ctx context.Context, ids []int64) ([]*model.User, error) {
	var users []*model.User
	err := preloadUser(r.db.WithContext(ctx), "").
		Where("id IN ?", ids).Order("id ASC").
		Find(&users).Error
	return users, err
}

// CreateBatch 在一个事务中创建用户及其资料、角色关联
func (r *UserRepository) CreateBatch(ctx context.Context, users []*model.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, user := range users {
			if err := tx.Create(user).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *UserRepository) Update(ctx context.Context, id int64, changes *UserChanges) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(changes.Fields) > 0 {
			if err := tx.Model(&model.User{ID: id}).Updates(changes.Fields).Error; err != nil {
				return err
			}
		}

		if changes.NewProfile != nil {
			changes.NewProfile.UserID = id
			if err := tx.Create(changes.NewProfile).Error; err != nil {
				return err
			}
		} else if len(changes.ProfileFields) > 0 {
			err := tx.Model(&model.UserProfile{}).Where("user_id = ?", id).
				Updates(changes.ProfileFields).Error
			if err != nil {
				return err
			}
		}

		if changes.ReplaceRoles {
			if err := tx.Where("user_id = ?", id).Delete(&model.UserRole{}).Error; err != nil {
				return err
			}
			for _, roleID := range changes.RoleIDs {
				if err := tx.Create(&model.UserRole{UserID: id, RoleID: roleID}).Error; err != nil {
					return err
				}
			}
		}

		// 仅关联变化时也刷新 updated_on
		if len(changes.Fields) == 0 {
			return tx.Model(&model.User{ID: id}).Update("updated_on", time.Now()).Error
		}
		return nil
	})
}

// Delete 删除用户：资料和角色关联随之删除，其余引用置空
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		nullify := []struct {
			model  interface{}
			column string
		}{
			{&model.Post{}, "author_id"},
			{&model.Comment{}, "commented_by"},
			{&model.UserRating{}, "rated_by"},
		}
		for _, n := range nullify {
			err := tx.Model(n.model).Where(n.column+" = ?", id).Update(n.column, nil).Error
			if err != nil {
				return err
			}
		}

		if err := tx.Where("user_id = ?", id).Delete(&model.UserRole{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&model.UserProfile{}).Error; err != nil {
			return err
		}
		return checkAffected(tx.Delete(&model.User{}, id))
	})
}
