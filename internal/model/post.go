package model

import (
	"time"
)

type Post struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	Slug      string    `gorm:"size:55;uniqueIndex;not null" json:"slug"`
	Title     string    `gorm:"size:255;not null;index" json:"title"`
	Body      string    `gorm:"type:text;not null" json:"body"`
	AuthorID  *int64    `gorm:"index" json:"author_id,omitempty"`
	CreatedOn time.Time `gorm:"autoCreateTime" json:"created_on"`
	UpdatedOn time.Time `gorm:"autoUpdateTime" json:"updated_on"`

	// 读取时由子查询计算，不落库
	AvgRating     *float64 `gorm:"->;-:migration" json:"avg_rating"`
	TotalComments int64    `gorm:"->;-:migration" json:"total_comments"`

	// 关联
	Author   *User         `gorm:"foreignKey:AuthorID;constraint:OnDelete:SET NULL" json:"author,omitempty"`
	Ratings  []*UserRating `gorm:"foreignKey:PostID;constraint:OnDelete:SET NULL" json:"ratings,omitempty"`
	Comments []*Comment    `gorm:"foreignKey:PostID;constraint:OnDelete:SET NULL" json:"comments,omitempty"`
}

func (Post) TableName() string {
	return "posts"
}
