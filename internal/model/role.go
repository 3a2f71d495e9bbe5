package model

import (
	"time"
)

type Role struct {
	ID          int64     `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:80;uniqueIndex;not null" json:"name"`
	Description *string   `gorm:"size:255;uniqueIndex" json:"description,omitempty"`
	CreatedOn   time.Time `gorm:"autoCreateTime" json:"created_on"`
	UpdatedOn   time.Time `gorm:"autoUpdateTime" json:"updated_on"`

	UserRoles []*UserRole `gorm:"foreignKey:RoleID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Role) TableName() string {
	return "roles"
}

// UserRole 用户-角色关联表，(user_id, role_id) 唯一
type UserRole struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	UserID    int64     `gorm:"not null;uniqueIndex:role_user_un,priority:2" json:"user_id"`
	RoleID    int64     `gorm:"not null;uniqueIndex:role_user_un,priority:1" json:"role_id"`
	CreatedOn time.Time `gorm:"autoCreateTime" json:"created_on"`
	UpdatedOn time.Time `gorm:"autoUpdateTime" json:"updated_on"`

	Role *Role `gorm:"foreignKey:RoleID" json:"role,omitempty"`
}

func (UserRole) TableName() string {
	return "user_roles"
}
