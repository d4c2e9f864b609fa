package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/marketplace/domain"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/platform/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// NotificationRepository implements domain.NotificationRepository using MongoDB.
type NotificationRepository struct {
	collection *mongo.Collection
	logger     *logger.Logger
}

func NewNotificationRepository(db *mongo.Database, log *logger.Logger) (*NotificationRepository, error) {
	r := &NotificationRepository{
		collection: db.Collection(notificationsCollection),
		logger:     log.Named("NotificationRepository"),
	}
	err := ensureIndexes(r.collection, []mongo.IndexModel{
		{Keys: bson.D{{Key: "receiver_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "receiver_id", Value: 1}, {Key: "sender_id", Value: 1}, {Key: "type", Value: 1}, {Key: "product_id", Value: 1}}},
	}, r.logger)
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (r *NotificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	if _, err := r.collection.InsertOne(ctx, toNotificationDocument(n)); err != nil {
		r.logger.Error("Failed to insert notification", zap.Error(err), zap.String("receiver_id", n.ReceiverID.Hex()))
		return fmt.Errorf("db insert failed: %w", err)
	}
	return nil
}

func (r *NotificationRepository) Exists(ctx context.Context, q domain.NotificationQuery) (bool, error) {
	filter := bson.M{
		"receiver_id": q.ReceiverID,
		"sender_id":   q.SenderID,
		"type":        q.Type,
	}
	if q.ProductID != nil {
		filter["product_id"] = *q.ProductID
	}
	return exists(ctx, r.collection, filter)
}

func (r *NotificationRepository) ListByReceiver(ctx context.Context, receiver primitive.ObjectID, req domain.PageRequest) ([]*domain.Notification, int64, error) {
	filter := bson.M{"receiver_id": receiver}

	cursor, err := r.collection.Find(ctx, filter, pageOptions(req))
	if err != nil {
		r.logger.Error("Failed to list notifications", zap.Error(err), zap.String("receiver_id", receiver.Hex()))
		return nil, 0, fmt.Errorf("db find failed: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []*notificationDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("db cursor all failed: %w", err)
	}
	list := make([]*domain.Notification, len(docs))
	for i, d := range docs {
		list[i] = d.toDomain()
	}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("db count failed: %w", err)
	}
	return list, total, nil
}

func (r *NotificationRepository) CountUnread(ctx context.Context, receiver primitive.ObjectID) (int64, error) {
	n, err := r.collection.CountDocuments(ctx, bson.M{"receiver_id": receiver, "is_read": false})
	if err != nil {
		return 0, fmt.Errorf("db count failed: %w", err)
	}
	return n, nil
}

func (r *NotificationRepository) MarkRead(ctx context.Context, id, receiver primitive.ObjectID) error {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "receiver_id": receiver},
		bson.M{"$set": bson.M{"is_read": true, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		r.logger.Error("Failed to mark notification read", zap.Error(err), zap.String("notification_id", id.Hex()))
		return fmt.Errorf("db update failed: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotificationNotFound
	}
	return nil
}

// MarkPageRead selects one page of unread notifications and flips them in a
// single unordered bulk write.
func (r *NotificationRepository) MarkPageRead(ctx context.Context, receiver primitive.ObjectID, req domain.PageRequest) (int64, error) {
	opts := pageOptions(req).SetProjection(bson.M{"_id": 1})
	cursor, err := r.collection.Find(ctx, bson.M{"receiver_id": receiver, "is_read": false}, opts)
	if err != nil {
		return 0, fmt.Errorf("db find failed: %w", err)
	}
	defer cursor.Close(ctx)

	var ids []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err := cursor.All(ctx, &ids); err != nil {
		return 0, fmt.Errorf("db cursor all failed: %w", err)
	}
	if len(ids) == 0 {
		return 0, nil
	}

	now := time.Now().UTC()
	models := make([]mongo.WriteModel, len(ids))
	for i, doc := range ids {
		models[i] = mongo.NewUpdateOneModel().
			SetFilter(bson.M{"_id": doc.ID, "receiver_id": receiver}).
			SetUpdate(bson.M{"$set": bson.M{"is_read": true, "updated_at": now}})
	}

	res, err := r.collection.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false))
	if err != nil {
		var bulkErr mongo.BulkWriteException
		if errors.As(err, &bulkErr) {
			r.logger.Warn("Bulk mark read partially failed",
				zap.String("receiver_id", receiver.Hex()),
				zap.Int("write_errors", len(bulkErr.WriteErrors)),
			)
			return 0, domain.ErrBulkWriteFailed
		}
		return 0, fmt.Errorf("db bulk write failed: %w", err)
	}
	return res.ModifiedCount, nil
}
