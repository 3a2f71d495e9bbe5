package model

import (
	"time"
)

type User struct {
	ID           int64      `gorm:"primaryKey" json:"id"`
	Email        string     `gorm:"size:120;uniqueIndex;not null" json:"email"`
	Password     string     `gorm:"size:255" json:"-"`
	Active       bool       `gorm:"default:false" json:"active"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	MobileNumber *string    `gorm:"size:10;uniqueIndex" json:"mobile_number,omitempty"`
	CreatedOn    time.Time  `gorm:"autoCreateTime" json:"created_on"`
	UpdatedOn    time.Time  `gorm:"autoUpdateTime" json:"updated_on"`

	// 关联
	Profile   *UserProfile `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user_profile,omitempty"`
	UserRoles []*UserRole  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// Name 展示名：名 + 空格 + 姓（姓为空时只有名）
func (u *User) Name() string {
	if u.Profile == nil {
		return ""
	}
	if u.Profile.LastName == "" {
		return u.Profile.FirstName
	}
	return u.Profile.FirstName + " " + u.Profile.LastName
}

// Roles 通过关联表加载的角色
func (u *User) Roles() []*Role {
	roles := make([]*Role, 0, len(u.UserRoles))
	for _, ur := range u.UserRoles {
		if ur.Role != nil {
			roles = append(roles, ur.Role)
		}
	}
	return roles
}

// 资料枚举值
var (
	Genders         = []string{"male", "female", "other"}
	MaritalStatuses = []string{"single", "married", "divorced", "widowed"}
	EducationLevels = []string{"undergraduate", "graduate", "post_graduate"}
)

type UserProfile struct {
	ID             int64      `gorm:"primaryKey" json:"id"`
	FirstName      string     `gorm:"size:40;not null" json:"first_name"`
	LastName       string     `gorm:"size:40" json:"last_name"`
	ProfilePicture string     `gorm:"type:text" json:"profile_picture"`
	Bio            string     `gorm:"type:text" json:"bio"`
	DateOfBirth    *time.Time `gorm:"type:date" json:"date_of_birth,omitempty"`
	Gender         string     `gorm:"size:10" json:"gender"`
	MaritalStatus  string     `gorm:"size:10" json:"marital_status"`
	Education      string     `gorm:"size:20" json:"education"`
	UserID         int64      `gorm:"uniqueIndex;not null" json:"-"`
	CreatedOn      time.Time  `gorm:"autoCreateTime" json:"created_on"`
	UpdatedOn      time.Time  `gorm:"autoUpdateTime" json:"updated_on"`
}

func (UserProfile) TableName() string {
	return "user_profiles"
}
