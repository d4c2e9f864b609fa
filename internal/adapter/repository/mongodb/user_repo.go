package mongodb

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/marketplace/domain"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/platform/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// UserRepository implements domain.UserRepository using MongoDB.
// Email and username stay unique across soft-deleted users too.
type UserRepository struct {
	collection *mongo.Collection
	logger     *logger.Logger
}

// NewUserRepository creates the repository and ensures its indexes.
func NewUserRepository(db *mongo.Database, log *logger.Logger) (*UserRepository, error) {
	r := &UserRepository{
		collection: db.Collection(usersCollection),
		logger:     log.Named("UserRepository"),
	}
	err := ensureIndexes(r.collection, []mongo.IndexModel{
		uniqueIndex(idxUserEmail, bson.D{{Key: "email", Value: 1}}),
		uniqueIndex(idxUserUsername, bson.D{{Key: "username", Value: 1}}),
		{Keys: bson.D{{Key: "phone_number", Value: 1}}},
		{Keys: bson.D{{Key: "type", Value: 1}, {Key: "created_at", Value: -1}}},
	}, r.logger)
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	if _, err := r.collection.InsertOne(ctx, toUserDocument(user)); err != nil {
		if mapped := r.mapDuplicate(err); mapped != nil {
			return mapped
		}
		r.logger.Error("Failed to insert user", zap.Error(err))
		return fmt.Errorf("db insert failed: %w", err)
	}
	return nil
}

func (r *UserRepository) mapDuplicate(err error) error {
	switch {
	case duplicateOn(err, idxUserUsername):
		return domain.ErrDuplicateUsername
	case duplicateOn(err, idxUserEmail):
		return domain.ErrDuplicateEmail
	}
	return nil
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	filter["is_deleted"] = false
	var doc userDocument
	if err := r.collection.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		r.logger.Error("Failed to find user", zap.Error(err))
		return nil, fmt.Errorf("db findone failed: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *UserRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *UserRepository) GetByIdentity(ctx context.Context, identity string) (*domain.User, error) {
	identity = strings.TrimSpace(identity)
	if identity == "" {
		return nil, domain.ErrUserNotFound
	}
	return r.findOne(ctx, bson.M{"$or": bson.A{
		bson.M{"email": domain.NormalizeEmail(identity)},
		bson.M{"username": identity},
		bson.M{"phone_number": identity},
	}})
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": domain.NormalizeEmail(email)})
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *UserRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	n, err := r.collection.CountDocuments(ctx, bson.M{"username": username}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("db count failed: %w", err)
	}
	return n > 0, nil
}

func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	doc := toUserDocument(user)
	update := bson.M{"$set": bson.M{
		"first_name":   doc.FirstName,
		"last_name":    doc.LastName,
		"email":        doc.Email,
		"username":     doc.Username,
		"phone_code":   doc.PhoneCode,
		"phone_number": doc.PhoneNumber,
		"bio":          doc.Bio,
		"password":     doc.PasswordHash,
		"avatar":       doc.Avatar,
		"type":         doc.Type,
		"is_deleted":   doc.IsDeleted,
		"updated_at":   doc.UpdatedAt,
	}}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": user.ID}, update)
	if err != nil {
		if mapped := r.mapDuplicate(err); mapped != nil {
			return mapped
		}
		r.logger.Error("Failed to update user", zap.Error(err), zap.String("user_id", user.ID.Hex()))
		return fmt.Errorf("db update failed: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// List returns non-deleted users, newest first.
func (r *UserRepository) List(ctx context.Context, filter domain.UserFilter) ([]*domain.User, int64, error) {
	query := bson.M{"is_deleted": false}
	if filter.Type != "" {
		query["type"] = filter.Type
	}
	if or := keywordFilter(filter.Keyword, "", "first_name", "last_name", "username", "email", "phone_number"); or != nil {
		query["$or"] = or
	}

	cursor, err := r.collection.Find(ctx, query, pageOptions(filter.PageRequest))
	if err != nil {
		r.logger.Error("Failed to list users", zap.Error(err))
		return nil, 0, fmt.Errorf("db find failed: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []*userDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("db cursor all failed: %w", err)
	}
	users := make([]*domain.User, len(docs))
	for i, d := range docs {
		users[i] = d.toDomain()
	}

	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("db count failed: %w", err)
	}
	return users, total, nil
}
