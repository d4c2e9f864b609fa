package mongodb

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/marketplace/domain"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/platform/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

const (
	usersCollection         = "users"
	walletsCollection       = "wallets"
	followsCollection       = "follows"
	likesCollection         = "likes"
	notificationsCollection = "notifications"
	productsCollection      = "products"
	otpsCollection          = "otps"
)

// Unique index names. Duplicate key errors are told apart by these.
const (
	idxUserEmail     = "uniq_user_email"
	idxUserUsername  = "uniq_user_username"
	idxWalletUser    = "uniq_wallet_user"
	idxFollowPair    = "uniq_follow_pair"
	idxLikePair      = "uniq_like_pair"
	idxProductCode   = "uniq_product_code"
	idxOTPIdentifier = "uniq_otp_identifier"
	idxOTPHash       = "uniq_otp_hash"
)

const indexTimeout = 10 * time.Second

// NewMongoDBConnection connects and pings the primary.
func NewMongoDBConnection(ctx context.Context, uri string, connectTimeout time.Duration) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer pingCancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}
	return client, nil
}

// Ping reports whether the primary answers.
func Ping(ctx context.Context, client *mongo.Client) error {
	return client.Ping(ctx, readpref.Primary())
}

func ensureIndexes(coll *mongo.Collection, indexes []mongo.IndexModel, log *logger.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), indexTimeout)
	defer cancel()

	if _, err := coll.Indexes().CreateMany(ctx, indexes); err != nil {
		log.Error("Failed to create indexes", zap.String("collection", coll.Name()), zap.Error(err))
		return fmt.Errorf("create indexes for %s: %w", coll.Name(), err)
	}
	log.Info("Successfully ensured indexes", zap.String("collection", coll.Name()))
	return nil
}

func uniqueIndex(name string, keys bson.D) mongo.IndexModel {
	return mongo.IndexModel{Keys: keys, Options: options.Index().SetName(name).SetUnique(true)}
}

// duplicateOn reports whether err is a duplicate key error on the named index.
func duplicateOn(err error, index string) bool {
	return mongo.IsDuplicateKeyError(err) && strings.Contains(err.Error(), index)
}

// keywordFilter ORs a case-insensitive match of keyword's terms over fields.
func keywordFilter(keyword, prefix string, fields ...string) bson.A {
	pattern := domain.KeywordPattern(keyword)
	if pattern == "" {
		return nil
	}
	or := make(bson.A, 0, len(fields))
	for _, f := range fields {
		or = append(or, bson.M{prefix + f: primitive.Regex{Pattern: pattern, Options: "i"}})
	}
	return or
}

func pageOptions(req domain.PageRequest) *options.FindOptions {
	return options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(req.Skip()).
		SetLimit(req.Normalize().Take)
}
