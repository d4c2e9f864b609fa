package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/marketplace/domain"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/platform/logger"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// LikeUsecase manages likes on products.
type LikeUsecase struct {
	likes         domain.LikeRepository
	products      domain.ProductRepository
	users         domain.UserRepository
	notifications *NotificationUsecase
	tx            domain.TxManager
	metrics       Metrics
	logger        *logger.Logger
}

// NewLikeUsecase creates a new LikeUsecase.
func NewLikeUsecase(
	likes domain.LikeRepository,
	products domain.ProductRepository,
	users domain.UserRepository,
	notifications *NotificationUsecase,
	tx domain.TxManager,
	metrics Metrics,
	log *logger.Logger,
) *LikeUsecase {
	return &LikeUsecase{
		likes:         likes,
		products:      products,
		users:         users,
		notifications: notifications,
		tx:            tx,
		metrics:       metricsOrNoop(metrics),
		logger:        log.Named("LikeUsecase"),
	}
}

// ToggleLike likes the product if user has not liked it yet, and unlikes it
// otherwise. Vendors liking their own products are never notified.
func (uc *LikeUsecase) ToggleLike(ctx context.Context, user *domain.User, productID string) (*domain.ProductView, error) {
	id, err := primitive.ObjectIDFromHex(productID)
	if err != nil {
		return nil, domain.ErrInvalidID
	}
	product, err := uc.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	vendor, err := uc.users.GetByID(ctx, product.VendorID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrProductNotFound
		}
		return nil, err
	}

	var (
		existed bool
		created *domain.Notification
	)
	err = uc.tx.WithTransaction(ctx, func(ctx context.Context) error {
		created = nil
		removed, err := uc.likes.Delete(ctx, user.ID, product.ID)
		if err != nil {
			return err
		}
		existed = removed
		if existed {
			return nil
		}

		like, err := domain.NewLike(user.ID, product.ID)
		if err != nil {
			return err
		}
		if err := uc.likes.Create(ctx, like); err != nil {
			return err
		}
		if user.ID == product.VendorID {
			return nil
		}

		created, err = uc.notifications.CreateOnce(ctx, domain.NotificationQuery{
			ReceiverID: product.VendorID,
			SenderID:   user.ID,
			Type:       domain.NotificationTypeLike,
			ProductID:  &product.ID,
		}, domain.LikeNotification(user, product))
		return err
	})
	if err != nil {
		uc.logger.Error("Like toggle failed", zap.Error(err),
			zap.String("user_id", user.ID.Hex()), zap.String("product_id", productID))
		return nil, err
	}

	uc.notifications.Dispatch(ctx, created)
	uc.metrics.LikeToggled(!existed)

	count, err := uc.likes.CountByProduct(ctx, product.ID)
	if err != nil {
		return nil, fmt.Errorf("count likes: %w", err)
	}
	isLiked := !existed
	vendorProfile := vendor.Public()
	return &domain.ProductView{
		Product:   product,
		Vendor:    &vendorProfile,
		LikeCount: count,
		IsLiked:   &isLiked,
	}, nil
}

// GetLikes lists the users who liked a product.
func (uc *LikeUsecase) GetLikes(ctx context.Context, target domain.LikeTarget, entityID string, req domain.PageRequest) (domain.Page[domain.PublicProfile], error) {
	if target != domain.LikeTargetProduct {
		return domain.Page[domain.PublicProfile]{}, domain.Invalidf("unsupported like target %q", target)
	}
	id, err := primitive.ObjectIDFromHex(entityID)
	if err != nil {
		return domain.Page[domain.PublicProfile]{}, domain.ErrInvalidID
	}
	req = req.Normalize()
	list, total, err := uc.likes.ListLikers(ctx, id, req)
	if err != nil {
		return domain.Page[domain.PublicProfile]{}, fmt.Errorf("list likes: %w", err)
	}
	return domain.NewPage(list, total, req), nil
}

// GetLikeCount counts the likes of a product.
func (uc *LikeUsecase) GetLikeCount(ctx context.Context, productID primitive.ObjectID) (int64, error) {
	return uc.likes.CountByProduct(ctx, productID)
}

// IsLiked reports whether user liked the product.
func (uc *LikeUsecase) IsLiked(ctx context.Context, productID, userID primitive.ObjectID) (bool, error) {
	return uc.likes.Exists(ctx, userID, productID)
}
