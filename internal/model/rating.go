package model

import (
	"time"
)

// UserRating 用户对文章的评分，(rated_by, post_id) 唯一
type UserRating struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	Rating    int       `gorm:"type:smallint;not null" json:"rating"`
	RatedBy   *int64    `gorm:"index;uniqueIndex:user_post_un" json:"rated_by"`
	PostID    *int64    `gorm:"index;uniqueIndex:user_post_un" json:"post_id"`
	CreatedOn time.Time `gorm:"autoCreateTime" json:"created_on"`
	UpdatedOn time.Time `gorm:"autoUpdateTime" json:"updated_on"`

	// 关联
	Rater *User `gorm:"foreignKey:RatedBy;constraint:OnDelete:SET NULL" json:"rater,omitempty"`
	Post  *Post `gorm:"foreignKey:PostID" json:"post,omitempty"`
}

func (UserRating) TableName() string {
	return "user_ratings"
}
