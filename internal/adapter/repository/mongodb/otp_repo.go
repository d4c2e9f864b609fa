package mongodb

import (
	"context"
	"errors"
	"fmt"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/marketplace/domain"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/platform/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// OTPRepository implements domain.OTPRepository using MongoDB. Expired codes
// are reaped by a TTL index on expire_at.
type OTPRepository struct {
	collection *mongo.Collection
	logger     *logger.Logger
}

func NewOTPRepository(db *mongo.Database, log *logger.Logger) (*OTPRepository, error) {
	r := &OTPRepository{
		collection: db.Collection(otpsCollection),
		logger:     log.Named("OTPRepository"),
	}
	err := ensureIndexes(r.collection, []mongo.IndexModel{
		uniqueIndex(idxOTPIdentifier, bson.D{{Key: "identifier", Value: 1}}),
		uniqueIndex(idxOTPHash, bson.D{{Key: "hash", Value: 1}}),
		{Keys: bson.D{{Key: "expire_at", Value: 1}}, Options: options.Index().SetExpireAfterSeconds(0)},
	}, r.logger)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// Upsert replaces any live code for the identifier. A code whose hash is
// already held by another identifier is ErrDuplicateOTP.
func (r *OTPRepository) Upsert(ctx context.Context, otp *domain.OTP) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"identifier": otp.Identifier},
		bson.M{"$set": bson.M{
			"hash":       otp.Hash,
			"expire_at":  otp.ExpireAt,
			"created_at": otp.CreatedAt,
		}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		if duplicateOn(err, idxOTPHash) {
			return domain.ErrDuplicateOTP
		}
		r.logger.Error("Failed to upsert otp", zap.Error(err))
		return fmt.Errorf("db upsert failed: %w", err)
	}
	return nil
}

func (r *OTPRepository) Consume(ctx context.Context, hash string) (*domain.OTP, error) {
	var doc otpDocument
	if err := r.collection.FindOneAndDelete(ctx, bson.M{"hash": hash}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrInvalidOTP
		}
		r.logger.Error("Failed to consume otp", zap.Error(err))
		return nil, fmt.Errorf("db findoneanddelete failed: %w", err)
	}
	return doc.toDomain(), nil
}
