package service

import (
	"time"

	"github.com/qs3c/blog_server/internal/model"
	"github.com/qs3c/blog_server/internal/model/dto"
)

const dateLayout = "2006-01-02"

func formatTime(t time.Time) string {
	return t.Format(time.RFC3339)
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatTime(*t)
	return &s
}

func buildProfileItem(p *model.UserProfile) *dto.ProfileItem {
	if p == nil {
		return nil
	}
	item := &dto.ProfileItem{
		ID:             p.ID,
		FirstName:      p.FirstName,
		LastName:       p.LastName,
		ProfilePicture: p.ProfilePicture,
		Bio:            p.Bio,
		Gender:         p.Gender,
		MaritalStatus:  p.MaritalStatus,
		Education:      p.Education,
		CreatedOn:      formatTime(p.CreatedOn),
		UpdatedOn:      formatTime(p.UpdatedOn),
	}
	if p.DateOfBirth != nil {
		dob := p.DateOfBirth.Format(dateLayout)
		item.DateOfBirth = &dob
	}
	return item
}

func buildRoleItem(r *model.Role) *dto.RoleItem {
	return &dto.RoleItem{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		CreatedOn:   formatTime(r.CreatedOn),
		UpdatedOn:   formatTime(r.UpdatedOn),
	}
}

// buildUserItem 用户完整信息，未加载的用户返回 nil
func buildUserItem(u *model.User) *dto.UserItem {
	if u == nil {
		return nil
	}
	roles := make([]*dto.RoleItem, 0, len(u.UserRoles))
	for _, r := range u.Roles() {
		roles = append(roles, &dto.RoleItem{ID: r.ID, Name: r.Name, Description: r.Description})
	}
	return &dto.UserItem{
		ID:           u.ID,
		Email:        u.Email,
		Active:       u.Active,
		LastLoginAt:  formatTimePtr(u.LastLoginAt),
		MobileNumber: u.MobileNumber,
		Name:         u.Name(),
		UserProfile:  buildProfileItem(u.Profile),
		Roles:        roles,
		CreatedOn:    formatTime(u.CreatedOn),
		UpdatedOn:    formatTime(u.UpdatedOn),
	}
}

func buildUserBrief(u *model.User) *dto.UserBrief {
	if u == nil {
		return nil
	}
	return &dto.UserBrief{ID: u.ID, Name: u.Name()}
}

func buildReplies(children []*model.Comment) []*dto.CommentReply {
	replies := make([]*dto.CommentReply, 0, len(children))
	for _, c := range children {
		replies = append(replies, &dto.CommentReply{
			ID:        c.ID,
			Body:      c.Body,
			Commenter: buildUserItem(c.Commenter),
		})
	}
	return replies
}

func buildCommentItem(c *model.Comment) *dto.CommentItem {
	return &dto.CommentItem{
		ID:              c.ID,
		Body:            c.Body,
		IsModerated:     c.IsModerated,
		PostID:          c.PostID,
		CommentedBy:     c.CommentedBy,
		ParentCommentID: c.ParentCommentID,
		Commenter:       buildUserItem(c.Commenter),
		ChildrenComment: buildReplies(c.Children),
		CreatedOn:       formatTime(c.CreatedOn),
		UpdatedOn:       formatTime(c.UpdatedOn),
	}
}

func buildPostItem(p *model.Post) *dto.PostItem {
	ratings := make([]*dto.PostRating, 0, len(p.Ratings))
	for _, r := range p.Ratings {
		ratings = append(ratings, &dto.PostRating{
			ID:     r.ID,
			Rating: r.Rating,
			Rater:  buildUserBrief(r.Rater),
		})
	}

	comments := make([]*dto.PostComment, 0, len(p.Comments))
	for _, c := range p.Comments {
		comments = append(comments, &dto.PostComment{
			ID:              c.ID,
			Body:            c.Body,
			Commenter:       buildUserItem(c.Commenter),
			ChildrenComment: buildReplies(c.Children),
		})
	}

	return &dto.PostItem{
		ID:            p.ID,
		Slug:          p.Slug,
		Title:         p.Title,
		Body:          p.Body,
		Author:        buildUserItem(p.Author),
		AvgRating:     p.AvgRating,
		TotalComments: p.TotalComments,
		Ratings:       ratings,
		Comments:      comments,
		CreatedOn:     formatTime(p.CreatedOn),
		UpdatedOn:     formatTime(p.UpdatedOn),
	}
}

func buildRatingItem(r *model.UserRating) *dto.UserRatingItem {
	item := &dto.UserRatingItem{
		ID:        r.ID,
		Rating:    r.Rating,
		RatedBy:   r.RatedBy,
		PostID:    r.PostID,
		Rater:     buildUserBrief(r.Rater),
		CreatedOn: formatTime(r.CreatedOn),
		UpdatedOn: formatTime(r.UpdatedOn),
	}
	if r.Post != nil {
		item.Post = &dto.PostBrief{ID: r.Post.ID}
	}
	return item
}

func idsOf[T any](items []T, id func(T) int64) []int64 {
	ids := make([]int64, 0, len(items))
	for _, it := range items {
		ids = append(ids, id(it))
	}
	return ids
}
