package service

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/qs3c/blog_server/internal/model"
	"github.com/qs3c/blog_server/internal/model/dto"
	"github.com/qs3c/blog_server/internal/pkg/pubsub"
	"github.com/qs3c/blog_server/internal/pkg/schema"
	"github.com/qs3c/blog_server/internal/repository"
)

type UserService struct {
	userRepo *repository.UserRepository
	roleRepo *repository.RoleRepository
	events   *Notifier
}

func NewUserService(userRepo *repository.UserRepository, roleRepo *repository.RoleRepository, events *Notifier) *UserService {
	return &UserService{
		userRepo: userRepo,
		roleRepo: roleRepo,
		events:   events,
	}
}

// List 最多返回 ListLimit 个用户，为空时返回 ErrUserNotFound
func (s *UserService) List(ctx context.Context) ([]*dto.UserItem, error) {
	users, err := s.userRepo.List(ctx, repository.ListLimit)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, ErrUserNotFound
	}
	return buildUserItems(users), nil
}

// Get 获取用户详情
func (s *UserService) Get(ctx context.Context, id int64) (*dto.UserItem, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}
	return buildUserItem(user), nil
}

// Create 批量创建用户，任一元素校验失败则整体拒绝
func (s *UserService) Create(ctx context.Context, reqs []dto.UserCreate) ([]*dto.UserItem, error) {
	var verrs []*schema.ValidationError
	for i := range reqs {
		if verr, err := s.checkRoles(ctx, reqs[i].RoleIDs); err != nil {
			return nil, err
		} else if verr != nil {
			verrs = append(verrs, schema.IndexedError(i, verr))
		}
	}
	if merged := schema.Merge(verrs...); merged != nil {
		return nil, merged
	}

	users := make([]*model.User, 0, len(reqs))
	for i := range reqs {
		user, err := newUser(&reqs[i])
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	if err := s.userRepo.CreateBatch(ctx, users); err != nil {
		return nil, fmt.Errorf("create users: %w", err)
	}

	ids := idsOf(users, func(u *model.User) int64 { return u.ID })
	created, err := s.userRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	s.events.notify(ctx, ResourceUser, pubsub.ActionCreated, ids...)
	return buildUserItems(created), nil
}

// Update 部分更新用户，user_profile 按字段合并，role_ids 整体替换
func (s *UserService) Update(ctx context.Context, id int64, req *dto.UserUpdate) (*dto.UserItem, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}

	changes := &repository.UserChanges{Fields: map[string]interface{}{}}

	if req.Email != nil {
		changes.Fields["email"] = *req.Email
	}
	if req.Password != nil {
		hash, err := hashPassword(*req.Password)
		if err != nil {
			return nil, err
		}
		changes.Fields["password"] = hash
	}
	if req.Active != nil {
		changes.Fields["active"] = *req.Active
	}
	if req.LastLoginAt != nil {
		changes.Fields["last_login_at"] = *req.LastLoginAt
	}
	if req.MobileNumber != nil {
		changes.Fields["mobile_number"] = *req.MobileNumber
	}

	if req.UserProfile != nil {
		if user.Profile == nil {
			profile, verr := newProfileFromUpdate(req.UserProfile)
			if verr != nil {
				return nil, verr
			}
			changes.NewProfile = profile
		} else {
			changes.ProfileFields = profileFields(req.UserProfile)
		}
	}

	if req.RoleIDs != nil {
		verr, err := s.checkRoles(ctx, req.RoleIDs)
		if err != nil {
			return nil, err
		}
		if verr != nil {
			return nil, verr
		}
		changes.RoleIDs = dedupe(req.RoleIDs)
		changes.ReplaceRoles = true
	}

	if err := s.userRepo.Update(ctx, id, changes); err != nil {
		return nil, fmt.Errorf("update user %d: %w", id, err)
	}

	s.events.notify(ctx, ResourceUser, pubsub.ActionUpdated, id)
	return s.Get(ctx, id)
}

// Delete 删除用户
func (s *UserService) Delete(ctx context.Context, id int64) error {
	if err := s.userRepo.Delete(ctx, id); err != nil {
		return notFound(err, ErrUserNotFound)
	}
	s.events.notify(ctx, ResourceUser, pubsub.ActionDeleted, id)
	return nil
}

// checkRoles 引用了不存在的角色时返回字段错误
func (s *UserService) checkRoles(ctx context.Context, roleIDs []int64) (*schema.ValidationError, error) {
	missing, err := s.roleRepo.MissingIDs(ctx, roleIDs)
	if err != nil {
		return nil, err
	}
	if len(missing) == 0 {
		return nil, nil
	}
	msgs := make([]string, 0, len(missing))
	for _, id := range missing {
		msgs = append(msgs, fmt.Sprintf("Role %d does not exist.", id))
	}
	return schema.NewFieldError("role_ids", msgs...), nil
}

func newUser(req *dto.UserCreate) (*model.User, error) {
	user := &model.User{
		Email:        req.Email,
		LastLoginAt:  req.LastLoginAt,
		MobileNumber: req.MobileNumber,
	}
	if req.Active != nil {
		user.Active = *req.Active
	}
	if req.Password != "" {
		hash, err := hashPassword(req.Password)
		if err != nil {
			return nil, err
		}
		user.Password = hash
	}
	if req.UserProfile != nil {
		user.Profile = newProfile(req.UserProfile)
	}
	for _, roleID := range dedupe(req.RoleIDs) {
		user.UserRoles = append(user.UserRoles, &model.UserRole{RoleID: roleID})
	}
	return user, nil
}

func newProfile(req *dto.ProfileCreate) *model.UserProfile {
	return &model.UserProfile{
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		ProfilePicture: req.ProfilePicture,
		Bio:            req.Bio,
		DateOfBirth:    parseDate(req.DateOfBirth),
		Gender:         req.Gender,
		MaritalStatus:  req.MaritalStatus,
		Education:      req.Education,
	}
}

// newProfileFromUpdate 用户还没有资料时，更新请求按创建规则处理
func newProfileFromUpdate(req *dto.ProfileUpdate) (*model.UserProfile, *schema.ValidationError) {
	create := dto.ProfileCreate{DateOfBirth: req.DateOfBirth}
	if req.FirstName != nil {
		create.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		create.LastName = *req.LastName
	}
	if req.ProfilePicture != nil {
		create.ProfilePicture = *req.ProfilePicture
	}
	if req.Bio != nil {
		create.Bio = *req.Bio
	}
	if req.Gender != nil {
		create.Gender = *req.Gender
	}
	if req.MaritalStatus != nil {
		create.MaritalStatus = *req.MaritalStatus
	}
	if req.Education != nil {
		create.Education = *req.Education
	}

	if verr := schema.Validate(&create); verr != nil {
		return nil, &schema.ValidationError{Fields: map[string]interface{}{"user_profile": verr.Fields}}
	}
	return newProfile(&create), nil
}

func profileFields(req *dto.ProfileUpdate) map[string]interface{} {
	fields := map[string]interface{}{}
	if req.FirstName != nil {
		fields["first_name"] = *req.FirstName
	}
	if req.LastName != nil {
		fields["last_name"] = *req.LastName
	}
	if req.ProfilePicture != nil {
		fields["profile_picture"] = *req.ProfilePicture
	}
	if req.Bio != nil {
		fields["bio"] = *req.Bio
	}
	if req.DateOfBirth != nil {
		fields["date_of_birth"] = parseDate(req.DateOfBirth)
	}
	if req.Gender != nil {
		fields["gender"] = *req.Gender
	}
	if req.MaritalStatus != nil {
		fields["marital_status"] = *req.MaritalStatus
	}
	if req.Education != nil {
		fields["education"] = *req.Education
	}
	return fields
}

// parseDate 输入已由 schema 校验为 YYYY-MM-DD
func parseDate(s *string) *time.Time {
	if s == nil {
		return nil
	}
	t, err := time.Parse(dateLayout, *s)
	if err != nil {
		return nil
	}
	return &t
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword 校验明文密码与哈希是否匹配
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func dedupe(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func buildUserItems(users []*model.User) []*dto.UserItem {
	items := make([]*dto.UserItem, 0, len(users))
	for _, u := range users {
		items = append(items, buildUserItem(u))
	}
	return items
}
