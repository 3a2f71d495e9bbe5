package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/qs3c/blog_server/internal/model"
	"github.com/qs3c/blog_server/internal/testutil"
)

func TestRatingRepository_CreateBatch(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewRatingRepository(db)
	ctx := context.Background()
	user := testutil.TestUser(t, db, testutil.WithProfile("Ada", "Lovelace"))
	post := testutil.TestPost(t, db, nil)

	ratings := []*model.UserRating{{Rating: 4, RatedBy: &user.ID, PostID: &post.ID}}
	require.NoError(t, repo.CreateBatch(ctx, ratings))

	found, err := repo.GetByID(ctx, ratings[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 4, found.Rating)
	require.NotNil(t, found.Post)
	assert.Equal(t, post.ID, found.Post.ID)
	require.NotNil(t, found.Rater)
	assert.Equal(t, "Ada Lovelace", found.Rater.Name())
}

func TestRatingRepository_UniqueRaterPost(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewRatingRepository(db)
	ctx := context.Background()
	user := testutil.TestUser(t, db)
	post := testutil.TestPost(t, db, nil)
	first := testutil.TestRating(t, db, post.ID, user.ID, 5)

	err := repo.CreateBatch(ctx, []*model.UserRating{{Rating: 1, RatedBy: &user.ID, PostID: &post.ID}})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	all, err := repo.List(ctx, ListLimit)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, first.ID, all[0].ID)
	assert.Equal(t, 5, all[0].Rating)
}

func TestRatingRepository_UpdateAndAverage(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewRatingRepository(db)
	ctx := context.Background()
	posts := NewPostRepository(db)
	post := testutil.TestPost(t, db, nil)

	got, err := posts.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Nil(t, got.AvgRating)

	r := testutil.TestRating(t, db, post.ID, testutil.TestUser(t, db).ID, 2)
	testutil.TestRating(t, db, post.ID, testutil.TestUser(t, db).ID, 4)

	require.NoError(t, repo.Update(ctx, r.ID, map[string]interface{}{"rating": 5}))

	got, err = posts.GetByID(ctx, post.ID)
	require.NoError(t, err)
	require.NotNil(t, got.AvgRating)
	assert.InDelta(t, 4.5, *got.AvgRating, 0.0001)
}

func TestRatingRepository_Delete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewRatingRepository(db)
	ctx := context.Background()
	post := testutil.TestPost(t, db, nil)
	r := testutil.TestRating(t, db, post.ID, testutil.TestUser(t, db).ID, 3)

	require.NoError(t, repo.Delete(ctx, r.ID))
	_, err := repo.GetByID(ctx, r.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, r.ID), gorm.ErrRecordNotFound)
}
