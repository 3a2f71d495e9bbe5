package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/qs3c/blog_server/internal/model"
	"github.com/qs3c/blog_server/internal/model/dto"
	"github.com/qs3c/blog_server/internal/pkg/pubsub"
	"github.com/qs3c/blog_server/internal/pkg/schema"
	"github.com/qs3c/blog_server/internal/repository"
)

// 父评论校验失败时 parent_comment_id 字段上的提示
const (
	MsgParentSelf         = "A comment cannot be its own parent."
	MsgParentNotFound     = "Parent comment does not exist."
	MsgParentOtherPost    = "Parent comment belongs to a different post."
	MsgParentIsDescendant = "A comment cannot be moved under one of its replies."
	fieldParentCommentID  = "parent_comment_id"
)

type CommentService struct {
	commentRepo *repository.CommentRepository
	events      *Notifier
}

func NewCommentService(commentRepo *repository.CommentRepository, events *Notifier) *CommentService {
	return &CommentService{commentRepo: commentRepo, events: events}
}

func (s *CommentService) List(ctx context.Context) ([]*dto.CommentItem, error) {
	comments, err := s.commentRepo.List(ctx, repository.ListLimit)
	if err != nil {
		return nil, err
	}
	if len(comments) == 0 {
		return nil, ErrCommentNotFound
	}
	return buildCommentItems(comments), nil
}

func (s *CommentService) Get(ctx context.Context, id int64) (*dto.CommentItem, error) {
	comment, err := s.commentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrCommentNotFound)
	}
	return buildCommentItem(comment), nil
}

// Create 批量创建评论，父评论必须已存在且属于同一文章
func (s *CommentService) Create(ctx context.Context, reqs []dto.CommentCreate) ([]*dto.CommentItem, error) {
	var verrs []*schema.ValidationError
	for i, req := range reqs {
		if req.ParentCommentID == nil {
			continue
		}
		msg, err := s.checkParent(ctx, 0, req.PostID, *req.ParentCommentID)
		if err != nil {
			return nil, err
		}
		if msg != "" {
			verrs = append(verrs, schema.IndexedError(i, schema.NewFieldError(fieldParentCommentID, msg)))
		}
	}
	if merged := schema.Merge(verrs...); merged != nil {
		return nil, merged
	}

	comments := make([]*model.Comment, 0, len(reqs))
	for _, req := range reqs {
		postID, commentedBy := req.PostID, req.CommentedBy
		comment := &model.Comment{
			Body:            req.Body,
			PostID:          &postID,
			CommentedBy:     &commentedBy,
			ParentCommentID: req.ParentCommentID,
		}
		if req.IsModerated != nil {
			comment.IsModerated = *req.IsModerated
		}
		comments = append(comments, comment)
	}

	if err := s.commentRepo.CreateBatch(ctx, comments); err != nil {
		return nil, fmt.Errorf("create comments: %w", err)
	}

	ids := idsOf(comments, func(c *model.Comment) int64 { return c.ID })
	created, err := s.commentRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	s.events.notify(ctx, ResourceComment, pubsub.ActionCreated, ids...)
	return buildCommentItems(created), nil
}

// Update 部分更新评论；修改父评论或所属文章时重新校验评论树
func (s *CommentService) Update(ctx context.Context, id int64, req *dto.CommentUpdate) (*dto.CommentItem, error) {
	current, err := s.commentRepo.GetPlain(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrCommentNotFound)
	}

	postID := current.PostID
	if req.PostID != nil {
		postID = req.PostID
	}
	parentID := current.ParentCommentID
	if req.ParentCommentID != nil {
		parentID = req.ParentCommentID
	}

	if parentID != nil && (req.ParentCommentID != nil || req.PostID != nil) {
		var post int64
		if postID != nil {
			post = *postID
		}
		msg, err := s.checkParent(ctx, id, post, *parentID)
		if err != nil {
			return nil, err
		}
		if msg != "" {
			return nil, schema.NewFieldError(fieldParentCommentID, msg)
		}
	}

	fields := map[string]interface{}{}
	if req.Body != nil {
		fields["body"] = *req.Body
	}
	if req.IsModerated != nil {
		fields["is_moderated"] = *req.IsModerated
	}
	if req.PostID != nil {
		fields["post_id"] = *req.PostID
	}
	if req.CommentedBy != nil {
		fields["commented_by"] = *req.CommentedBy
	}
	if req.ParentCommentID != nil {
		fields["parent_comment_id"] = *req.ParentCommentID
	}

	if len(fields) > 0 {
		if err := s.commentRepo.Update(ctx, id, fields); err != nil {
			return nil, fmt.Errorf("update comment %d: %w", id, err)
		}
		s.events.notify(ctx, ResourceComment, pubsub.ActionUpdated, id)
	}
	return s.Get(ctx, id)
}

// Delete 删除评论，子评论保留为顶级评论
func (s *CommentService) Delete(ctx context.Context, id int64) error {
	if err := s.commentRepo.Delete(ctx, id); err != nil {
		return notFound(err, ErrCommentNotFound)
	}
	s.events.notify(ctx, ResourceComment, pubsub.ActionDeleted, id)
	return nil
}

// checkParent 校验 parentID 能否作为评论 id（新建时为 0）的父评论，返回空串表示通过
func (s *CommentService) checkParent(ctx context.Context, id, postID, parentID int64) (string, error) {
	if id != 0 && parentID == id {
		return MsgParentSelf, nil
	}

	parent, err := s.commentRepo.GetPlain(ctx, parentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return MsgParentNotFound, nil
		}
		return "", err
	}

	if parent.PostID == nil || *parent.PostID != postID {
		return MsgParentOtherPost, nil
	}

	if id != 0 {
		ancestors, err := s.commentRepo.AncestorIDs(ctx, parentID)
		if err != nil && !errors.Is(err, repository.ErrCommentCycle) {
			return "", err
		}
		for _, a := range ancestors {
			if a == id {
				return MsgParentIsDescendant, nil
			}
		}
	}

	return "", nil
}

func buildCommentItems(comments []*model.Comment) []*dto.CommentItem {
	items := make([]*dto.CommentItem, 0, len(comments))
	for _, c := range comments {
		items = append(items, buildCommentItem(c))
	}
	return items
}
