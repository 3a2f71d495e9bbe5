package model

import (
	"time"
)

// Comment 评论，parent_comment_id 构成评论树
type Comment struct {
	ID              int64     `gorm:"primaryKey" json:"id"`
	Body            string    `gorm:"type:text;not null" json:"body"`
	IsModerated     bool      `gorm:"default:false" json:"is_moderated"`
	PostID          *int64    `gorm:"index" json:"post_id"`
	CommentedBy     *int64    `gorm:"index" json:"commented_by"`
	ParentCommentID *int64    `gorm:"index" json:"parent_comment_id"`
	CreatedOn       time.Time `gorm:"autoCreateTime" json:"created_on"`
	UpdatedOn       time.Time `gorm:"autoUpdateTime" json:"updated_on"`

	// 关联
	Commenter *User      `gorm:"foreignKey:CommentedBy;constraint:OnDelete:SET NULL" json:"commenter,omitempty"`
	Children  []*Comment `gorm:"foreignKey:ParentCommentID;constraint:OnDelete:SET NULL" json:"children_comment,omitempty"`
}

func (Comment) TableName() string {
	return "comments"
}
