package usecase

import (
	"context"
	"fmt"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/marketplace/domain"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/platform/logger"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// FollowUsecase manages the social graph.
type FollowUsecase struct {
	follows       domain.FollowRepository
	users         domain.UserRepository
	notifications *NotificationUsecase
	tx            domain.TxManager
	metrics       Metrics
	logger        *logger.Logger
}

// NewFollowUsecase creates a new FollowUsecase.
func NewFollowUsecase(
	follows domain.FollowRepository,
	users domain.UserRepository,
	notifications *NotificationUsecase,
	tx domain.TxManager,
	metrics Metrics,
	log *logger.Logger,
) *FollowUsecase {
	return &FollowUsecase{
		follows:       follows,
		users:         users,
		notifications: notifications,
		tx:            tx,
		metrics:       metricsOrNoop(metrics),
		logger:        log.Named("FollowUsecase"),
	}
}

// ToggleFollow follows followeeID if follower does not follow them yet,
// and unfollows otherwise. The first follow of a pair notifies the followee.
func (uc *FollowUsecase) ToggleFollow(ctx context.Context, follower *domain.User, followeeID string) (*domain.UserProfile, error) {
	followee, err := primitive.ObjectIDFromHex(followeeID)
	if err != nil {
		return nil, domain.ErrInvalidID
	}
	if follower.ID == followee {
		return nil, domain.ErrSelfFollow
	}

	target, err := uc.users.GetByID(ctx, followee)
	if err != nil {
		return nil, err
	}

	var (
		existed bool
		created *domain.Notification
	)
	err = uc.tx.WithTransaction(ctx, func(ctx context.Context) error {
		created = nil
		removed, err := uc.follows.Delete(ctx, follower.ID, followee)
		if err != nil {
			return err
		}
		existed = removed
		if existed {
			return nil
		}

		follow, err := domain.NewFollow(follower.ID, followee)
		if err != nil {
			return err
		}
		if err := uc.follows.Create(ctx, follow); err != nil {
			return err
		}

		created, err = uc.notifications.CreateOnce(ctx, domain.NotificationQuery{
			ReceiverID: followee,
			SenderID:   follower.ID,
			Type:       domain.NotificationTypeFollow,
		}, domain.FollowNotification(follower, followee))
		return err
	})
	if err != nil {
		uc.logger.Error("Follow toggle failed", zap.Error(err),
			zap.String("follower_id", follower.ID.Hex()), zap.String("followee_id", followeeID))
		return nil, err
	}

	uc.notifications.Dispatch(ctx, created)
	uc.metrics.FollowToggled(!existed)

	profile, err := uc.Profile(ctx, target, nil)
	if err != nil {
		return nil, err
	}
	profile.IsFollowing = !existed

	uc.logger.Info("Follow toggled",
		zap.String("follower_id", follower.ID.Hex()),
		zap.String("followee_id", followeeID),
		zap.Bool("following", !existed))
	return profile, nil
}

// Profile decorates user with follower and following counts. When viewer is
// set and is someone else, IsFollowing tells whether viewer follows user.
func (uc *FollowUsecase) Profile(ctx context.Context, user *domain.User, viewer *domain.User) (*domain.UserProfile, error) {
	followers, err := uc.follows.CountFollowers(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("count followers: %w", err)
	}
	following, err := uc.follows.CountFollowing(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("count following: %w", err)
	}
	profile := &domain.UserProfile{
		User:           user,
		FollowerCount:  followers,
		FollowingCount: following,
	}
	if viewer != nil && viewer.ID != user.ID {
		profile.IsFollowing, err = uc.follows.Exists(ctx, viewer.ID, user.ID)
		if err != nil {
			return nil, fmt.Errorf("check following: %w", err)
		}
	}
	return profile, nil
}

// ListFollowers returns the public profiles of userID's followers.
func (uc *FollowUsecase) ListFollowers(ctx context.Context, userID string, req domain.PageRequest) (domain.Page[domain.PublicProfile], error) {
	id, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return domain.Page[domain.PublicProfile]{}, domain.ErrInvalidID
	}
	req = req.Normalize()
	list, total, err := uc.follows.ListFollowers(ctx, id, req)
	if err != nil {
		return domain.Page[domain.PublicProfile]{}, fmt.Errorf("list followers: %w", err)
	}
	return domain.NewPage(list, total, req), nil
}

// ListFollowing returns the public profiles of the users userID follows.
func (uc *FollowUsecase) ListFollowing(ctx context.Context, userID string, req domain.PageRequest) (domain.Page[domain.PublicProfile], error) {
	id, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return domain.Page[domain.PublicProfile]{}, domain.ErrInvalidID
	}
	req = req.Normalize()
	list, total, err := uc.follows.ListFollowing(ctx, id, req)
	if err != nil {
		return domain.Page[domain.PublicProfile]{}, fmt.Errorf("list following: %w", err)
	}
	return domain.NewPage(list, total, req), nil
}
