package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/marketplace/domain"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/platform/logger"
	"go.uber.org/zap"
)

// UserUsecase manages profiles.
type UserUsecase struct {
	users   domain.UserRepository
	follows *FollowUsecase
	storage Storage
	logger  *logger.Logger
}

// NewUserUsecase creates a new UserUsecase.
func NewUserUsecase(users domain.UserRepository, follows *FollowUsecase, storage Storage, log *logger.Logger) *UserUsecase {
	return &UserUsecase{
		users:   users,
		follows: follows,
		storage: storage,
		logger:  log.Named("UserUsecase"),
	}
}

// GetUsers lists users for administrators.
func (uc *UserUsecase) GetUsers(ctx context.Context, caller *domain.User, filter domain.UserFilter) (domain.Page[*domain.User], error) {
	if caller == nil || !caller.Type.IsAdmin() {
		return domain.Page[*domain.User]{}, domain.ErrAdminOnly
	}
	if filter.Type != "" && !filter.Type.IsValid() {
		return domain.Page[*domain.User]{}, domain.Invalidf("please provide a valid user account type")
	}
	filter.PageRequest = filter.PageRequest.Normalize()
	users, total, err := uc.users.List(ctx, filter)
	if err != nil {
		return domain.Page[*domain.User]{}, fmt.Errorf("list users: %w", err)
	}
	return domain.NewPage(users, total, filter.PageRequest), nil
}

// GetUser returns caller's own profile, or the profile of username.
func (uc *UserUsecase) GetUser(ctx context.Context, caller *domain.User, username string) (*domain.UserProfile, error) {
	profile := caller
	if username != "" && username != caller.Username {
		var err error
		profile, err = uc.users.GetByUsername(ctx, username)
		if err != nil {
			return nil, err
		}
	}
	return uc.follows.Profile(ctx, profile, caller)
}

// UpdateUser edits caller's profile. Passwords are changed elsewhere.
func (uc *UserUsecase) UpdateUser(ctx context.Context, caller *domain.User, in domain.UpdateUserInput) (*domain.User, error) {
	user := *caller
	if err := in.Apply(&user); err != nil {
		return nil, err
	}

	if in.ShouldRemoveAvatar && user.Avatar != "" {
		if err := uc.storage.Delete(ctx, domain.AvatarKey(user.ID)); err != nil {
			uc.logger.Error("Failed to delete avatar", zap.Error(err), zap.String("user_id", user.ID.Hex()))
			return nil, fmt.Errorf("delete avatar: %w", err)
		}
		user.Avatar = ""
	}
	if in.AvatarInput != nil {
		data, err := decodeFile(in.AvatarInput.URI)
		if err != nil {
			return nil, domain.Invalidf("avatar must be base64 encoded")
		}
		url, err := uc.storage.Upload(ctx, domain.AvatarKey(user.ID), data)
		if err != nil {
			uc.logger.Error("Failed to upload avatar", zap.Error(err), zap.String("user_id", user.ID.Hex()))
			return nil, fmt.Errorf("upload avatar: %w", err)
		}
		user.Avatar = url
	}

	user.UpdatedAt = time.Now().UTC()
	if err := uc.users.Update(ctx, &user); err != nil {
		return nil, err
	}
	uc.logger.Info("User updated", zap.String("user_id", user.ID.Hex()))
	return &user, nil
}

// DeleteUser soft-deletes caller and removes their stored files.
func (uc *UserUsecase) DeleteUser(ctx context.Context, caller *domain.User) (*domain.User, error) {
	user := *caller
	user.IsDeleted = true
	user.UpdatedAt = time.Now().UTC()
	if err := uc.users.Update(ctx, &user); err != nil {
		return nil, err
	}
	if err := uc.storage.DeleteFolder(ctx, domain.UserFolder(user.ID)); err != nil {
		uc.logger.Warn("Failed to delete user folder", zap.Error(err), zap.String("user_id", user.ID.Hex()))
	}
	uc.logger.Info("User deleted", zap.String("user_id", user.ID.Hex()))
	return &user, nil
}
