package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/marketplace/domain"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/platform/logger"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const pushDispatchTimeout = 15 * time.Second

// NotificationUsecase persists notifications and fans them out as push messages.
type NotificationUsecase struct {
	repo    domain.NotificationRepository
	users   domain.UserRepository
	push    PushDispatcher
	tx      domain.TxManager
	metrics Metrics
	logger  *logger.Logger
}

// NewNotificationUsecase creates a new NotificationUsecase.
func NewNotificationUsecase(
	repo domain.NotificationRepository,
	users domain.UserRepository,
	push PushDispatcher,
	tx domain.TxManager,
	metrics Metrics,
	log *logger.Logger,
) *NotificationUsecase {
	return &NotificationUsecase{
		repo:    repo,
		users:   users,
		push:    push,
		tx:      tx,
		metrics: metricsOrNoop(metrics),
		logger:  log.Named("NotificationUsecase"),
	}
}

// Create persists a notification using ctx, which is normally the caller's
// transaction. Nothing is pushed until Dispatch is called after commit.
func (uc *NotificationUsecase) Create(ctx context.Context, input domain.Notification) (*domain.Notification, error) {
	n, err := domain.NewNotification(input)
	if err != nil {
		return nil, err
	}
	if err := uc.repo.Create(ctx, n); err != nil {
		uc.logger.Error("Failed to persist notification", zap.Error(err), zap.String("receiver_id", n.ReceiverID.Hex()))
		return nil, fmt.Errorf("create notification: %w", err)
	}
	uc.metrics.NotificationCreated(n.Type)
	return n, nil
}

// CreateOnce persists input unless a notification matching q already exists.
// It returns nil when nothing was created.
func (uc *NotificationUsecase) CreateOnce(ctx context.Context, q domain.NotificationQuery, input domain.Notification) (*domain.Notification, error) {
	exists, err := uc.repo.Exists(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("check existing notification: %w", err)
	}
	if exists {
		uc.logger.Debug("Notification already sent, skipping",
			zap.String("type", string(q.Type)),
			zap.String("receiver_id", q.ReceiverID.Hex()),
			zap.String("sender_id", q.SenderID.Hex()))
		return nil, nil
	}
	return uc.Create(ctx, input)
}

// Dispatch pushes committed notifications to their receivers. Failures are
// logged and counted, never returned.
func (uc *NotificationUsecase) Dispatch(ctx context.Context, notifications ...*domain.Notification) {
	if len(notifications) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), pushDispatchTimeout)
	defer cancel()

	for _, n := range notifications {
		if n == nil {
			continue
		}
		receiver, err := uc.users.GetByID(ctx, n.ReceiverID)
		if err != nil {
			uc.metrics.PushFailed()
			uc.logger.Warn("Push skipped: receiver lookup failed", zap.Error(err), zap.String("notification_id", n.ID.Hex()))
			continue
		}
		msg := domain.PushMessage{
			NotificationID: n.ID.Hex(),
			Recipients:     []string{receiver.Username},
			Heading:        n.PushHeading(),
			Content:        n.PushContent(),
		}
		if err := uc.push.Send(ctx, msg); err != nil {
			uc.metrics.PushFailed()
			uc.logger.Error("Failed to dispatch push notification", zap.Error(err), zap.String("notification_id", n.ID.Hex()))
		}
	}
}

// GetUserNotifications lists the receiver's notifications, newest first.
func (uc *NotificationUsecase) GetUserNotifications(ctx context.Context, receiver *domain.User, req domain.PageRequest) (*domain.NotificationPage, error) {
	req = req.Normalize()
	list, total, err := uc.repo.ListByReceiver(ctx, receiver.ID, req)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	unread, err := uc.repo.CountUnread(ctx, receiver.ID)
	if err != nil {
		return nil, fmt.Errorf("count unread notifications: %w", err)
	}
	return &domain.NotificationPage{
		Page:        domain.NewPage(list, total, req),
		UnreadCount: unread,
	}, nil
}

// MarkNotificationAsRead never returns an error. A notification that does
// not exist or belongs to someone else yields a failed result.
func (uc *NotificationUsecase) MarkNotificationAsRead(ctx context.Context, id string, receiver *domain.User) domain.OperationResult {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		uc.logger.Warn("Marking notification as read: malformed id", zap.String("notification_id", id))
		return domain.OperationResult{Success: false}
	}
	if err := uc.repo.MarkRead(ctx, oid, receiver.ID); err != nil {
		uc.logger.Error("Marking notification as read failed", zap.Error(err),
			zap.String("notification_id", id), zap.String("receiver_id", receiver.ID.Hex()))
		return domain.OperationResult{Success: false}
	}
	return domain.OperationResult{Success: true}
}

// MarkAllAsRead marks one page of unread notifications as read, atomically.
func (uc *NotificationUsecase) MarkAllAsRead(ctx context.Context, req domain.PageRequest, receiver *domain.User) (domain.OperationResult, error) {
	req = req.Normalize()
	var updated int64
	err := uc.tx.WithTransaction(ctx, func(ctx context.Context) error {
		n, err := uc.repo.MarkPageRead(ctx, receiver.ID, req)
		if err != nil {
			return err
		}
		updated = n
		return nil
	})
	if err != nil {
		uc.logger.Error("Failed to mark notifications as read", zap.Error(err), zap.String("receiver_id", receiver.ID.Hex()))
		return domain.OperationResult{}, err
	}
	uc.logger.Debug("Notifications marked as read", zap.Int64("count", updated), zap.String("receiver_id", receiver.ID.Hex()))
	return domain.OperationResult{Success: true, Message: "Successfully marked as read"}, nil
}
