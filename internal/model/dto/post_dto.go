package dto

// PostCreate 创建文章请求
type PostCreate struct {
	Slug     string `json:"slug" binding:"required,max=55"`
	Title    string `json:"title" binding:"required,max=255"`
	Body     string `json:"body" binding:"required"`
	AuthorID *int64 `json:"author_id,omitempty" binding:"omitempty,gt=0"`
}

// PostUpdate 更新文章请求
type PostUpdate struct {
	Slug     *string `json:"slug,omitempty" binding:"omitempty,min=1,max=55"`
	Title    *string `json:"title,omitempty" binding:"omitempty,min=1,max=255"`
	Body     *string `json:"body,omitempty" binding:"omitempty,min=1"`
	AuthorID *int64  `json:"author_id,omitempty" binding:"omitempty,gt=0"`
}

// PostRating 文章下的评分
type PostRating struct {
	ID     int64      `json:"id"`
	Rating int        `json:"rating"`
	Rater  *UserBrief `json:"rater"`
}

// PostComment 文章下的评论
type PostComment struct {
	ID              int64           `json:"id"`
	Body            string          `json:"body"`
	Commenter       *UserItem       `json:"commenter"`
	ChildrenComment []*CommentReply `json:"children_comment"`
}

// PostItem 文章详情
type PostItem struct {
	ID            int64          `json:"id"`
	Slug          string         `json:"slug"`
	Title         string         `json:"title"`
	Body          string         `json:"body"`
	Author        *UserItem      `json:"author"`
	AvgRating     *float64       `json:"avg_rating"`
	TotalComments int64          `json:"total_comments"`
	Ratings       []*PostRating  `json:"ratings"`
	Comments      []*PostComment `json:"comments"`
	CreatedOn     string         `json:"created_on"`
	UpdatedOn     string         `json:"updated_on"`
}

// PostBrief 嵌套在评分中的文章
type PostBrief struct {
	ID int64 `json:"id"`
}
