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

// ProductRepository implements domain.ProductRepository using MongoDB.
type ProductRepository struct {
	collection *mongo.Collection
	logger     *logger.Logger
}

func NewProductRepository(db *mongo.Database, log *logger.Logger) (*ProductRepository, error) {
	r := &ProductRepository{
		collection: db.Collection(productsCollection),
		logger:     log.Named("ProductRepository"),
	}
	err := ensureIndexes(r.collection, []mongo.IndexModel{
		uniqueIndex(idxProductCode, bson.D{{Key: "code", Value: 1}}),
		{Keys: bson.D{{Key: "vendor_id", Value: 1}}},
		{Keys: bson.D{{Key: "category", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	}, r.logger)
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (r *ProductRepository) Create(ctx context.Context, product *domain.Product) error {
	if _, err := r.collection.InsertOne(ctx, toProductDocument(product)); err != nil {
		if duplicateOn(err, idxProductCode) {
			return domain.ErrDuplicateCode
		}
		r.logger.Error("Failed to insert product", zap.Error(err), zap.String("code", product.Code))
		return fmt.Errorf("db insert failed: %w", err)
	}
	return nil
}

func (r *ProductRepository) findOne(ctx context.Context, filter bson.M) (*domain.Product, error) {
	var doc productDocument
	if err := r.collection.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProductNotFound
		}
		r.logger.Error("Failed to find product", zap.Error(err))
		return nil, fmt.Errorf("db findone failed: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *ProductRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Product, error) {
	return r.findOne(ctx, bson.M{"_id": id, "is_deleted": false})
}

func (r *ProductRepository) GetByCode(ctx context.Context, code string) (*domain.Product, error) {
	return r.findOne(ctx, bson.M{"code": code, "is_deleted": false})
}

func (r *ProductRepository) GetByIDIncludingDeleted(ctx context.Context, id primitive.ObjectID) (*domain.Product, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *ProductRepository) Update(ctx context.Context, product *domain.Product) error {
	doc := toProductDocument(product)
	set := bson.M{
		"name":        doc.Name,
		"description": doc.Description,
		"category":    doc.Category,
		"images":      doc.Images,
		"price":       doc.Price,
		"currency":    doc.Currency,
		"is_deleted":  doc.IsDeleted,
		"updated_at":  doc.UpdatedAt,
	}
	update := bson.M{"$set": set}
	if doc.PriceMax != nil {
		set["price_max"] = *doc.PriceMax
	} else {
		update["$unset"] = bson.M{"price_max": ""}
	}

	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": product.ID}, update)
	if err != nil {
		r.logger.Error("Failed to update product", zap.Error(err), zap.String("product_id", product.ID.Hex()))
		return fmt.Errorf("db update failed: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

// List returns visible products, newest first.
func (r *ProductRepository) List(ctx context.Context, filter domain.ProductFilter) ([]*domain.Product, int64, error) {
	query := bson.M{"is_deleted": false}
	if len(filter.Categories) > 0 {
		query["category"] = bson.M{"$in": filter.Categories}
	}
	if or := keywordFilter(filter.Keyword, "", "name", "description", "code"); or != nil {
		query["$or"] = or
	}

	cursor, err := r.collection.Find(ctx, query, pageOptions(filter.PageRequest))
	if err != nil {
		r.logger.Error("Failed to list products", zap.Error(err))
		return nil, 0, fmt.Errorf("db find failed: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []*productDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("db cursor all failed: %w", err)
	}
	products := make([]*domain.Product, len(docs))
	for i, d := range docs {
		products[i] = d.toDomain()
	}

	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("db count failed: %w", err)
	}
	return products, total, nil
}
