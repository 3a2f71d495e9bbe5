package dto

// CommentCreate 创建评论请求
type CommentCreate struct {
	Body            string `json:"body" binding:"required"`
	IsModerated     *bool  `json:"is_moderated,omitempty"`
	PostID          int64  `json:"post_id" binding:"required,gt=0"`
	CommentedBy     int64  `json:"commented_by" binding:"required,gt=0"`
	ParentCommentID *int64 `json:"parent_comment_id,omitempty" binding:"omitempty,gt=0"`
}

// CommentUpdate 更新评论请求
type CommentUpdate struct {
	Body            *string `json:"body,omitempty" binding:"omitempty,min=1"`
	IsModerated     *bool   `json:"is_moderated,omitempty"`
	PostID          *int64  `json:"post_id,omitempty" binding:"omitempty,gt=0"`
	CommentedBy     *int64  `json:"commented_by,omitempty" binding:"omitempty,gt=0"`
	ParentCommentID *int64  `json:"parent_comment_id,omitempty" binding:"omitempty,gt=0"`
}

// CommentReply 子评论
type CommentReply struct {
	ID        int64     `json:"id"`
	Body      string    `json:"body"`
	Commenter *UserItem `json:"commenter"`
}

// CommentItem 评论项
type CommentItem struct {
	ID              int64           `json:"id"`
	Body            string          `json:"body"`
	IsModerated     bool            `json:"is_moderated"`
	PostID          *int64          `json:"post_id"`
	CommentedBy     *int64          `json:"commented_by"`
	ParentCommentID *int64          `json:"parent_comment_id"`
	Commenter       *UserItem       `json:"commenter"`
	ChildrenComment []*CommentReply `json:"children_comment"`
	CreatedOn       string          `json:"created_on"`
	UpdatedOn       string          `json:"updated_on"`
}
