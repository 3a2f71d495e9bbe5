package dto

// UserRatingCreate 创建评分请求
type UserRatingCreate struct {
	Rating  int   `json:"rating" binding:"required,min=1,max=5"`
	RatedBy int64 `json:"rated_by" binding:"required,gt=0"`
	PostID  int64 `json:"post_id" binding:"required,gt=0"`
}

// UserRatingUpdate 更新评分请求
type UserRatingUpdate struct {
	Rating  *int   `json:"rating,omitempty" binding:"omitempty,min=1,max=5"`
	RatedBy *int64 `json:"rated_by,omitempty" binding:"omitempty,gt=0"`
	PostID  *int64 `json:"post_id,omitempty" binding:"omitempty,gt=0"`
}

// UserRatingItem 评分
type UserRatingItem struct {
	ID        int64      `json:"id"`
	Rating    int        `json:"rating"`
	RatedBy   *int64     `json:"rated_by"`
	PostID    *int64     `json:"post_id"`
	Post      *PostBrief `json:"post"`
	Rater     *UserBrief `json:"rater"`
	CreatedOn string     `json:"created_on"`
	UpdatedOn string     `json:"updated_on"`
}
