package service

import (
	"context"
	"fmt"

	"github.com/qs3c/blog_server/internal/model"
	"github.com/qs3c/blog_server/internal/model/dto"
	"github.com/qs3c/blog_server/internal/pkg/pubsub"
	"github.com/qs3c/blog_server/internal/repository"
)

type RatingService struct {
	ratingRepo *repository.RatingRepository
	events     *Notifier
}

func NewRatingService(ratingRepo *repository.RatingRepository, events *Notifier) *RatingService {
	return &RatingService{ratingRepo: ratingRepo, events: events}
}

func (s *RatingService) List(ctx context.Context) ([]*dto.UserRatingItem, error) {
	ratings, err := s.ratingRepo.List(ctx, repository.ListLimit)
	if err != nil {
		return nil, err
	}
	if len(ratings) == 0 {
		return nil, ErrRatingNotFound
	}
	return buildRatingItems(ratings), nil
}

func (s *RatingService) Get(ctx context.Context, id int64) (*dto.UserRatingItem, error) {
	rating, err := s.ratingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrRatingNotFound)
	}
	return buildRatingItem(rating), nil
}

// Create 批量创建评分，同一用户对同一文章重复评分时整体失败
func (s *RatingService) Create(ctx context.Context, reqs []dto.UserRatingCreate) ([]*dto.UserRatingItem, error) {
	ratings := make([]*model.UserRating, 0, len(reqs))
	for _, req := range reqs {
		ratedBy, postID := req.RatedBy, req.PostID
		ratings = append(ratings, &model.UserRating{
			Rating:  req.Rating,
			RatedBy: &ratedBy,
			PostID:  &postID,
		})
	}

	if err := s.ratingRepo.CreateBatch(ctx, ratings); err != nil {
		return nil, fmt.Errorf("create user ratings: %w", err)
	}

	ids := idsOf(ratings, func(r *model.UserRating) int64 { return r.ID })
	created, err := s.ratingRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	s.events.notify(ctx, ResourceUserRating, pubsub.ActionCreated, ids...)
	return buildRatingItems(created), nil
}

func (s *RatingService) Update(ctx context.Context, id int64, req *dto.UserRatingUpdate) (*dto.UserRatingItem, error) {
	if _, err := s.ratingRepo.GetByID(ctx, id); err != nil {
		return nil, notFound(err, ErrRatingNotFound)
	}

	fields := map[string]interface{}{}
	if req.Rating != nil {
		fields["rating"] = *req.Rating
	}
	if req.RatedBy != nil {
		fields["rated_by"] = *req.RatedBy
	}
	if req.PostID != nil {
		fields["post_id"] = *req.PostID
	}

	if len(fields) > 0 {
		if err := s.ratingRepo.Update(ctx, id, fields); err != nil {
			return nil, fmt.Errorf("update user rating %d: %w", id, err)
		}
		s.events.notify(ctx, ResourceUserRating, pubsub.ActionUpdated, id)
	}
	return s.Get(ctx, id)
}

func (s *RatingService) Delete(ctx context.Context, id int64) error {
	if err := s.ratingRepo.Delete(ctx, id); err != nil {
		return notFound(err, ErrRatingNotFound)
	}
	s.events.notify(ctx, ResourceUserRating, pubsub.ActionDeleted, id)
	return nil
}

func buildRatingItems(ratings []*model.UserRating) []*dto.UserRatingItem {
	items := make([]*dto.UserRatingItem, 0, len(ratings))
	for _, r := range ratings {
		items = append(items, buildRatingItem(r))
	}
	return items
}
