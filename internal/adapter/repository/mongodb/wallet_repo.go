package mongodb

import (
	"context"
	"errors"
	"fmt"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/marketplace/domain"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/platform/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// WalletRepository implements domain.WalletRepository using MongoDB.
type WalletRepository struct {
	collection *mongo.Collection
	logger     *logger.Logger
}

func NewWalletRepository(db *mongo.Database, log *logger.Logger) (*WalletRepository, error) {
	r := &WalletRepository{
		collection: db.Collection(walletsCollection),
		logger:     log.Named("WalletRepository"),
	}
	err := ensureIndexes(r.collection, []mongo.IndexModel{
		uniqueIndex(idxWalletUser, bson.D{{Key: "user_id", Value: 1}}),
	}, r.logger)
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (r *WalletRepository) Create(ctx context.Context, wallet *domain.Wallet) error {
	if _, err := r.collection.InsertOne(ctx, toWalletDocument(wallet)); err != nil {
		if duplicateOn(err, idxWalletUser) {
			return domain.ErrDuplicateWallet
		}
		r.logger.Error("Failed to insert wallet", zap.Error(err), zap.String("user_id", wallet.UserID.Hex()))
		return fmt.Errorf("db insert failed: %w", err)
	}
	return nil
}

func (r *WalletRepository) findOne(ctx context.Context, filter bson.M) (*domain.Wallet, error) {
	var doc walletDocument
	if err := r.collection.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrWalletNotFound
		}
		r.logger.Error("Failed to find wallet", zap.Error(err))
		return nil, fmt.Errorf("db findone failed: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *WalletRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Wallet, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *WalletRepository) GetByUserID(ctx context.Context, userID primitive.ObjectID) (*domain.Wallet, error) {
	return r.findOne(ctx, bson.M{"user_id": userID})
}

func (r *WalletRepository) Update(ctx context.Context, wallet *domain.Wallet) error {
	doc := toWalletDocument(wallet)
	update := bson.M{"$set": bson.M{
		"bank_name":           doc.BankName,
		"bank_code":           doc.BankCode,
		"account_name":        doc.AccountName,
		"account_number":      doc.AccountNumber,
		"mobile_money_code":   doc.MobileMoneyCode,
		"mobile_money_number": doc.MobileMoneyNumber,
		"received":            doc.Received,
		"spent":               doc.Spent,
		"updated_at":          doc.UpdatedAt,
	}}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": wallet.ID}, update)
	if err != nil {
		r.logger.Error("Failed to update wallet", zap.Error(err), zap.String("wallet_id", wallet.ID.Hex()))
		return fmt.Errorf("db update failed: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrWalletNotFound
	}
	return nil
}
