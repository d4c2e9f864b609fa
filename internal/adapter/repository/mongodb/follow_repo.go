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

// FollowRepository implements domain.FollowRepository using MongoDB.
type FollowRepository struct {
	collection *mongo.Collection
	logger     *logger.Logger
}

func NewFollowRepository(db *mongo.Database, log *logger.Logger) (*FollowRepository, error) {
	r := &FollowRepository{
		collection: db.Collection(followsCollection),
		logger:     log.Named("FollowRepository"),
	}
	err := ensureIndexes(r.collection, []mongo.IndexModel{
		uniqueIndex(idxFollowPair, bson.D{{Key: "follower_id", Value: 1}, {Key: "followee_id", Value: 1}}),
		{Keys: bson.D{{Key: "followee_id", Value: 1}, {Key: "created_at", Value: -1}}},
	}, r.logger)
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (r *FollowRepository) Create(ctx context.Context, follow *domain.Follow) error {
	doc := followDocument{
		ID:         follow.ID,
		FollowerID: follow.FollowerID,
		FolloweeID: follow.FolloweeID,
		CreatedAt:  follow.CreatedAt,
	}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		if duplicateOn(err, idxFollowPair) {
			return domain.ErrDuplicateFollow
		}
		r.logger.Error("Failed to insert follow", zap.Error(err))
		return fmt.Errorf("db insert failed: %w", err)
	}
	return nil
}

func (r *FollowRepository) Delete(ctx context.Context, follower, followee primitive.ObjectID) (bool, error) {
	res, err := r.collection.DeleteOne(ctx, bson.M{"follower_id": follower, "followee_id": followee})
	if err != nil {
		r.logger.Error("Failed to delete follow", zap.Error(err))
		return false, fmt.Errorf("db delete failed: %w", err)
	}
	return res.DeletedCount > 0, nil
}

func (r *FollowRepository) Exists(ctx context.Context, follower, followee primitive.ObjectID) (bool, error) {
	return exists(ctx, r.collection, bson.M{"follower_id": follower, "followee_id": followee})
}

func (r *FollowRepository) CountFollowers(ctx context.Context, followee primitive.ObjectID) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"followee_id": followee})
}

func (r *FollowRepository) CountFollowing(ctx context.Context, follower primitive.ObjectID) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"follower_id": follower})
}

func (r *FollowRepository) ListFollowers(ctx context.Context, followee primitive.ObjectID, req domain.PageRequest) ([]domain.PublicProfile, int64, error) {
	return listEdgeProfiles(ctx, r.collection, bson.M{"followee_id": followee}, "follower_id", req)
}

func (r *FollowRepository) ListFollowing(ctx context.Context, follower primitive.ObjectID, req domain.PageRequest) ([]domain.PublicProfile, int64, error) {
	return listEdgeProfiles(ctx, r.collection, bson.M{"follower_id": follower}, "followee_id", req)
}
