package dto

import "time"

// ProfileCreate 创建用户时嵌套的资料
type ProfileCreate struct {
	FirstName      string  `json:"first_name" binding:"required,max=40"`
	LastName       string  `json:"last_name" binding:"omitempty,max=40"`
	ProfilePicture string  `json:"profile_picture"`
	Bio            string  `json:"bio"`
	DateOfBirth    *string `json:"date_of_birth,omitempty" binding:"omitempty,datetime=2006-01-02"`
	Gender         string  `json:"gender" binding:"omitempty,oneof=male female other"`
	MaritalStatus  string  `json:"marital_status" binding:"omitempty,oneof=single married divorced widowed"`
	Education      string  `json:"education" binding:"omitempty,oneof=undergraduate graduate post_graduate"`
}

// ProfileUpdate 部分更新资料，nil 字段不修改
type ProfileUpdate struct {
	FirstName      *string `json:"first_name,omitempty" binding:"omitempty,min=1,max=40"`
	LastName       *string `json:"last_name,omitempty" binding:"omitempty,max=40"`
	ProfilePicture *string `json:"profile_picture,omitempty"`
	Bio            *string `json:"bio,omitempty"`
	DateOfBirth    *string `json:"date_of_birth,omitempty" binding:"omitempty,datetime=2006-01-02"`
	Gender         *string `json:"gender,omitempty" binding:"omitempty,oneof=male female other"`
	MaritalStatus  *string `json:"marital_status,omitempty" binding:"omitempty,oneof=single married divorced widowed"`
	Education      *string `json:"education,omitempty" binding:"omitempty,oneof=undergraduate graduate post_graduate"`
}

// UserCreate 创建用户请求（POST /user 的数组元素）
type UserCreate struct {
	Email        string         `json:"email" binding:"required,email,max=120"`
	Password     string         `json:"password,omitempty" binding:"omitempty,min=8,max=72"`
	Active       *bool          `json:"active,omitempty"`
	LastLoginAt  *time.Time     `json:"last_login_at,omitempty"`
	MobileNumber *string        `json:"mobile_number,omitempty" binding:"omitempty,len=10,numeric"`
	UserProfile  *ProfileCreate `json:"user_profile,omitempty"`
	RoleIDs      []int64        `json:"role_ids,omitempty" binding:"omitempty,dive,gt=0"`
}

// UserUpdate 更新用户请求，RoleIDs 非 nil 时整体替换角色
type UserUpdate struct {
	Email        *string        `json:"email,omitempty" binding:"omitempty,email,max=120"`
	Password     *string        `json:"password,omitempty" binding:"omitempty,min=8,max=72"`
	Active       *bool          `json:"active,omitempty"`
	LastLoginAt  *time.Time     `json:"last_login_at,omitempty"`
	MobileNumber *string        `json:"mobile_number,omitempty" binding:"omitempty,len=10,numeric"`
	UserProfile  *ProfileUpdate `json:"user_profile,omitempty"`
	RoleIDs      []int64        `json:"role_ids,omitempty" binding:"omitempty,dive,gt=0"`
}

// ProfileItem 用户资料
type ProfileItem struct {
	ID             int64   `json:"id"`
	FirstName      string  `json:"first_name"`
	LastName       string  `json:"last_name"`
	ProfilePicture string  `json:"profile_picture"`
	Bio            string  `json:"bio"`
	DateOfBirth    *string `json:"date_of_birth"`
	Gender         string  `json:"gender"`
	MaritalStatus  string  `json:"marital_status"`
	Education      string  `json:"education"`
	CreatedOn      string  `json:"created_on"`
	UpdatedOn      string  `json:"updated_on"`
}

// UserItem 用户信息（返回给前端）
type UserItem struct {
	ID           int64        `json:"id"`
	Email        string       `json:"email"`
	Active       bool         `json:"active"`
	LastLoginAt  *string      `json:"last_login_at"`
	MobileNumber *string      `json:"mobile_number"`
	Name         string       `json:"name"`
	UserProfile  *ProfileItem `json:"user_profile"`
	Roles        []*RoleItem  `json:"roles"`
	CreatedOn    string       `json:"created_on"`
	UpdatedOn    string       `json:"updated_on"`
}

// UserBrief 嵌套在评分中的用户
type UserBrief struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
