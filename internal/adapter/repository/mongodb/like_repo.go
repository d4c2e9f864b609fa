package mongodb

import (
	"context"
	"fmt"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/marketplace/domain"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/platform/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// LikeRepository implements domain.LikeRepository using MongoDB.
type LikeRepository struct {
	collection *mongo.Collection
	logger     *logger.Logger
}

func NewLikeRepository(db *mongo.Database, log *logger.Logger) (*LikeRepository, error) {
	r := &LikeRepository{
		collection: db.Collection(likesCollection),
		logger:     log.Named("LikeRepository"),
	}
	err := ensureIndexes(r.collection, []mongo.IndexModel{
		uniqueIndex(idxLikePair, bson.D{{Key: "user_id", Value: 1}, {Key: "product_id", Value: 1}}),
		{Keys: bson.D{{Key: "product_id", Value: 1}, {Key: "created_at", Value: -1}}},
	}, r.logger)
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (r *LikeRepository) Create(ctx context.Context, like *domain.Like) error {
	if like.ProductID.IsZero() {
		return domain.Invalidf("a like must reference a product")
	}
	doc := likeDocument{
		ID:        like.ID,
		UserID:    like.UserID,
		ProductID: like.ProductID,
		CreatedAt: like.CreatedAt,
	}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		if duplicateOn(err, idxLikePair) {
			return domain.ErrDuplicateLike
		}
		r.logger.Error("Failed to insert like", zap.Error(err))
		return fmt.Errorf("db insert failed: %w", err)
	}
	return nil
}

func (r *LikeRepository) Delete(ctx context.Context, user, product primitive.ObjectID) (bool, error) {
	res, err := r.collection.DeleteOne(ctx, bson.M{"user_id": user, "product_id": product})
	if err != nil {
		r.logger.Error("Failed to delete like", zap.Error(err))
		return false, fmt.Errorf("db delete failed: %w", err)
	}
	return res.DeletedCount > 0, nil
}

func (r *LikeRepository) Exists(ctx context.Context, user, product primitive.ObjectID) (bool, error) {
	return exists(ctx, r.collection, bson.M{"user_id": user, "product_id": product})
}

func (r *LikeRepository) CountByProduct(ctx context.Context, product primitive.ObjectID) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"product_id": product})
}

func (r *LikeRepository) ListLikers(ctx context.Context, product primitive.ObjectID, req domain.PageRequest) ([]domain.PublicProfile, int64, error) {
	return listEdgeProfiles(ctx, r.collection, bson.M{"product_id": product}, "user_id", req)
}
