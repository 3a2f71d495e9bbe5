package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/qs3c/blog_server/internal/model"
	"github.com/qs3c/blog_server/internal/model/dto"
	"github.com/qs3c/blog_server/internal/pkg/pubsub"
	"github.com/qs3c/blog_server/internal/pkg/schema"
	"github.com/qs3c/blog_server/internal/testutil"
)

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func TestUserService_Create_WithProfile(t *testing.T) {
	s, cleanup := setupServices(t)
	defer cleanup()
	ctx := context.Background()
	role := testutil.TestRole(t, s.db, "author")

	items, err := s.users.Create(ctx, []dto.UserCreate{{
		Email:        "ada@example.com",
		Password:     "correct horse",
		Active:       boolPtr(true),
		MobileNumber: strPtr("0123456789"),
		UserProfile: &dto.ProfileCreate{
			FirstName:   "Ada",
			LastName:    "Lovelace",
			DateOfBirth: strPtr("1815-12-10"),
			Gender:      "female",
		},
		RoleIDs: []int64{role.ID, role.ID},
	}})
	require.NoError(t, err)
	require.Len(t, items, 1)

	item := items[0]
	assert.Equal(t, "ada@example.com", item.Email)
	assert.True(t, item.Active)
	assert.Equal(t, "Ada Lovelace", item.Name)
	require.NotNil(t, item.UserProfile)
	assert.Equal(t, "Ada", item.UserProfile.FirstName)
	require.NotNil(t, item.UserProfile.DateOfBirth)
	assert.Equal(t, "1815-12-10", *item.UserProfile.DateOfBirth)
	require.Len(t, item.Roles, 1)
	assert.Equal(t, "author", item.Roles[0].Name)

	got, err := s.users.Get(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, item.UserProfile.ID, got.UserProfile.ID)
	assert.Equal(t, "Ada Lovelace", got.Name)

	var stored model.User
	require.NoError(t, s.db.First(&stored, item.ID).Error)
	assert.NotEqual(t, "correct horse", stored.Password)
	assert.True(t, CheckPassword(stored.Password, "correct horse"))

	assert.Equal(t, []string{pubsub.ActionCreated}, s.events.actions(ResourceUser))
}

func TestUserService_Create_UnknownRole(t *testing.T) {
	s, cleanup := setupServices(t)
	defer cleanup()

	_, err := s.users.Create(context.Background(), []dto.UserCreate{
		{Email: "a@example.com"},
		{Email: "b@example.com", RoleIDs: []int64{404}},
	})

	var verr *schema.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, map[string]interface{}{
		"1": map[string]interface{}{"role_ids": []string{"Role 404 does not exist."}},
	}, verr.Fields)
	assert.Equal(t, int64(0), testutil.Count(t, s.db, &model.User{}))
}

func TestUserService_Create_DuplicateEmail(t *testing.T) {
	s, cleanup := setupServices(t)
	defer cleanup()
	testutil.TestUser(t, s.db, testutil.WithEmail("taken@example.com"))

	_, err := s.users.Create(context.Background(), []dto.UserCreate{
		{Email: "fresh@example.com"},
		{Email: "taken@example.com"},
	})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
	assert.Equal(t, int64(1), testutil.Count(t, s.db, &model.User{}))
	assert.Empty(t, s.events.actions(ResourceUser))
}

func TestUserService_List(t *testing.T) {
	s, cleanup := setupServices(t)
	defer cleanup()
	ctx := context.Background()

	_, err := s.users.List(ctx)
	assert.ErrorIs(t, err, ErrUserNotFound)

	testutil.TestUser(t, s.db)
	testutil.TestUser(t, s.db)

	items, err := s.users.List(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestUserService_Get_NotFound(t *testing.T) {
	s, cleanup := setupServices(t)
	defer cleanup()

	_, err := s.users.Get(context.Background(), 12345)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserService_Update(t *testing.T) {
	s, cleanup := setupServices(t)
	defer cleanup()
	ctx := context.Background()
	user := testutil.TestUser(t, s.db, testutil.WithProfile("Grace", ""))
	role := testutil.TestRole(t, s.db, "admin")
	login := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	item, err := s.users.Update(ctx, user.ID, &dto.UserUpdate{
		Active:      boolPtr(false),
		LastLoginAt: &login,
		UserProfile: &dto.ProfileUpdate{LastName: strPtr("Hopper"), Education: strPtr("graduate")},
		RoleIDs:     []int64{role.ID},
	})
	require.NoError(t, err)
	assert.False(t, item.Active)
	require.NotNil(t, item.LastLoginAt)
	assert.Equal(t, "Grace Hopper", item.Name)
	assert.Equal(t, "graduate", item.UserProfile.Education)
	require.Len(t, item.Roles, 1)

	// 空 role_ids 清空角色
	item, err = s.users.Update(ctx, user.ID, &dto.UserUpdate{RoleIDs: []int64{}})
	require.NoError(t, err)
	assert.Empty(t, item.Roles)
	assert.Equal(t, "Grace Hopper", item.Name)

	assert.Equal(t, []string{pubsub.ActionUpdated, pubsub.ActionUpdated}, s.events.actions(ResourceUser))
}

func TestUserService_Update_Password(t *testing.T) {
	s, cleanup := setupServices(t)
	defer cleanup()
	user := testutil.TestUser(t, s.db)

	_, err := s.users.Update(context.Background(), user.ID, &dto.UserUpdate{Password: strPtr("new password")})
	require.NoError(t, err)

	var stored model.User
	require.NoError(t, s.db.First(&stored, user.ID).Error)
	assert.True(t, CheckPassword(stored.Password, "new password"))
	assert.False(t, CheckPassword(stored.Password, "wrong password"))
}

func TestUserService_Update_NewProfileRequiresFirstName(t *testing.T) {
	s, cleanup := setupServices(t)
	defer cleanup()
	ctx := context.Background()
	user := testutil.TestUser(t, s.db)

	_, err := s.users.Update(ctx, user.ID, &dto.UserUpdate{
		UserProfile: &dto.ProfileUpdate{Bio: strPtr("hi")},
	})
	var verr *schema.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, map[string]interface{}{
		"user_profile": map[string]interface{}{"first_name": []string{"Missing data for required field."}},
	}, verr.Fields)

	item, err := s.users.Update(ctx, user.ID, &dto.UserUpdate{
		UserProfile: &dto.ProfileUpdate{FirstName: strPtr("Alan"), Bio: strPtr("hi")},
	})
	require.NoError(t, err)
	assert.Equal(t, "Alan", item.Name)
	assert.Equal(t, "hi", item.UserProfile.Bio)
}

func TestUserService_Update_NotFound(t *testing.T) {
	s, cleanup := setupServices(t)
	defer cleanup()

	_, err := s.users.Update(context.Background(), 999, &dto.UserUpdate{Active: boolPtr(true)})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserService_Delete_KeepsPosts(t *testing.T) {
	s, cleanup := setupServices(t)
	defer cleanup()
	ctx := context.Background()
	user := testutil.TestUser(t, s.db, testutil.WithProfile("Ken", "Thompson"))
	post := testutil.TestPost(t, s.db, &user.ID)

	require.NoError(t, s.users.Delete(ctx, user.ID))

	assert.Equal(t, int64(0), testutil.Count(t, s.db, &model.UserProfile{}))
	got, err := s.posts.Get(ctx, post.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Author)

	assert.ErrorIs(t, s.users.Delete(ctx, user.ID), ErrUserNotFound)
	assert.Equal(t, []string{pubsub.ActionDeleted}, s.events.actions(ResourceUser))
}
