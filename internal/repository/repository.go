package repository

import (
	"gorm.io/gorm"
)

// ListLimit 列表接口固定返回的最大行数
const ListLimit = 20

func orderByID(db *gorm.DB) *gorm.DB {
	return db.Order("id ASC")
}

// preloadUser 预加载用户的资料与角色，prefix 为关联路径（如 "Author"），空串表示当前模型
func preloadUser(db *gorm.DB, prefix string) *gorm.DB {
	if prefix != "" {
		prefix += "."
	}
	return db.Preload(prefix + "Profile").Preload(prefix + "UserRoles.Role")
}

// clampLimit 非法或超限时回退到 ListLimit
func clampLimit(limit int) int {
	if limit <= 0 || limit > ListLimit {
		return ListLimit
	}
	return limit
}

func checkAffected(result *gorm.DB) error {
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
