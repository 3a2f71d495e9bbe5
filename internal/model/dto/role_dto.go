package dto

// RoleCreate 创建角色请求
type RoleCreate struct {
	Name        string  `json:"name" binding:"required,max=80"`
	Description *string `json:"description,omitempty" binding:"omitempty,max=255"`
}

// RoleUpdate 更新角色请求
type RoleUpdate struct {
	Name        *string `json:"name,omitempty" binding:"omitempty,min=1,max=80"`
	Description *string `json:"description,omitempty" binding:"omitempty,max=255"`
}

// RoleItem 角色
type RoleItem struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	CreatedOn   string  `json:"created_on,omitempty"`
	UpdatedOn   string  `json:"updated_on,omitempty"`
}
