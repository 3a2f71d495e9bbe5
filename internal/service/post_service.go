package service

import (
	"context"
	"fmt"

	"github.com/qs3c/blog_server/internal/model"
	"github.com/qs3c/blog_server/internal/model/dto"
	"github.com/qs3c/blog_server/internal/pkg/pubsub"
	"github.com/qs3c/blog_server/internal/repository"
)

type PostService struct {
	postRepo *repository.PostRepository
	events   *Notifier
}

func NewPostService(postRepo *repository.PostRepository, events *Notifier) *PostService {
	return &PostService{postRepo: postRepo, events: events}
}

// List 文章列表，带作者、评分与评论
func (s *PostService) List(ctx context.Context) ([]*dto.PostItem, error) {
	posts, err := s.postRepo.List(ctx, repository.ListLimit)
	if err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return nil, ErrPostNotFound
	}
	return buildPostItems(posts), nil
}

func (s *PostService) Get(ctx context.Context, id int64) (*dto.PostItem, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrPostNotFound)
	}
	return buildPostItem(post), nil
}

// GetBySlug 按 slug 获取文章
func (s *PostService) GetBySlug(ctx context.Context, slug string) (*dto.PostItem, error) {
	post, err := s.postRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, notFound(err, ErrPostNotFound)
	}
	return buildPostItem(post), nil
}

func (s *PostService) Create(ctx context.Context, reqs []dto.PostCreate) ([]*dto.PostItem, error) {
	posts := make([]*model.Post, 0, len(reqs))
	for _, req := range reqs {
		posts = append(posts, &model.Post{
			Slug:     req.Slug,
			Title:    req.Title,
			Body:     req.Body,
			AuthorID: req.AuthorID,
		})
	}

	if err := s.postRepo.CreateBatch(ctx, posts); err != nil {
		return nil, fmt.Errorf("create posts: %w", err)
	}

	ids := idsOf(posts, func(p *model.Post) int64 { return p.ID })
	created, err := s.postRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	s.events.notify(ctx, ResourcePost, pubsub.ActionCreated, ids...)
	return buildPostItems(created), nil
}

func (s *PostService) Update(ctx context.Context, id int64, req *dto.PostUpdate) (*dto.PostItem, error) {
	exists, err := s.postRepo.Exists(ctx, id)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrPostNotFound
	}

	fields := map[string]interface{}{}
	if req.Slug != nil {
		fields["slug"] = *req.Slug
	}
	if req.Title != nil {
		fields["title"] = *req.Title
	}
	if req.Body != nil {
		fields["body"] = *req.Body
	}
	if req.AuthorID != nil {
		fields["author_id"] = *req.AuthorID
	}

	if len(fields) > 0 {
		if err := s.postRepo.Update(ctx, id, fields); err != nil {
			return nil, fmt.Errorf("update post %d: %w", id, err)
		}
		s.events.notify(ctx, ResourcePost, pubsub.ActionUpdated, id)
	}
	return s.Get(ctx, id)
}

// Delete 删除文章，评论和评分保留
func (s *PostService) Delete(ctx context.Context, id int64) error {
	if err := s.postRepo.Delete(ctx, id); err != nil {
		return notFound(err, ErrPostNotFound)
	}
	s.events.notify(ctx, ResourcePost, pubsub.ActionDeleted, id)
	return nil
}

func buildPostItems(posts []*model.Post) []*dto.PostItem {
	items := make([]*dto.PostItem, 0, len(posts))
	for _, p := range posts {
		items = append(items, buildPostItem(p))
	}
	return items
}
