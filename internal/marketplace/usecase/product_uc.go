package usecase

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/marketplace/domain"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/platform/logger"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const maxCodeAttempts = 10

// ProductUsecase implements the catalog.
type ProductUsecase struct {
	products domain.ProductRepository
	users    domain.UserRepository
	likes    *LikeUsecase
	storage  Storage
	cache    ProductCache
	currency CurrencyResolver
	metrics  Metrics
	logger   *logger.Logger

	generateCode func() (string, error)
}

// NewProductUsecase creates a new ProductUsecase. cache may be nil.
func NewProductUsecase(
	products domain.ProductRepository,
	users domain.UserRepository,
	likes *LikeUsecase,
	storage Storage,
	cache ProductCache,
	currency CurrencyResolver,
	metrics Metrics,
	log *logger.Logger,
) *ProductUsecase {
	return &ProductUsecase{
		products: products,
		users:    users,
		likes:    likes,
		storage:  storage,
		cache:    cache,
		currency: currency,
		metrics:  metricsOrNoop(metrics),
		logger:   log.Named("ProductUsecase"),
		generateCode: func() (string, error) {
			return randomString(domain.ProductCodeAlphabet, domain.ProductCodeLength)
		},
	}
}

// CreateProduct creates a product owned by vendor. The code is generated
// here and retried on collision. If image handling fails after the record
// exists, the product's folder is removed and the record is soft-deleted before returning.
func (uc *ProductUsecase) CreateProduct(ctx context.Context, vendor *domain.User, in domain.CreateProductInput, meta RequestMeta) (*domain.ProductView, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if in.Currency == "" {
		in.Currency = uc.currency.Resolve(ctx, meta)
	}

	now := time.Now().UTC()
	product := &domain.Product{
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Category:    in.Category,
		Images:      []string{},
		Price:       in.Price,
		PriceMax:    in.PriceMax,
		Currency:    in.Currency,
		VendorID:    vendor.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	var err error
	for attempt := 1; attempt <= maxCodeAttempts; attempt++ {
		product.ID = primitive.NewObjectID()
		product.Code, err = uc.generateCode()
		if err != nil {
			return nil, fmt.Errorf("generate product code: %w", err)
		}
		err = uc.products.Create(ctx, product)
		if !errors.Is(err, domain.ErrDuplicateCode) {
			break
		}
		uc.logger.Warn("Product code collision, retrying", zap.String("code", product.Code), zap.Int("attempt", attempt))
	}
	if err != nil {
		uc.logger.Error("Failed to create product", zap.Error(err), zap.String("vendor_id", vendor.ID.Hex()))
		return nil, err
	}

	images, err := uc.HandleImages(ctx, product, nil, in.Images)
	if err == nil {
		product.Images = images
		err = uc.products.Update(ctx, product)
	}
	if err != nil {
		uc.discardProduct(ctx, product)
		return nil, err
	}

	uc.metrics.ProductCreated()
	uc.logger.Info("Product created",
		zap.String("product_id", product.ID.Hex()),
		zap.String("code", product.Code),
		zap.Int("images", len(product.Images)))

	isLiked := false
	profile := vendor.Public()
	return &domain.ProductView{Product: product, Vendor: &profile, IsLiked: &isLiked}, nil
}

func (uc *ProductUsecase) discardProduct(ctx context.Context, product *domain.Product) {
	ctx = context.WithoutCancel(ctx)
	if err := uc.storage.DeleteFolder(ctx, domain.ProductFolder(product.ID)); err != nil {
		uc.logger.Error("Product failure image deletion", zap.Error(err), zap.String("product_id", product.ID.Hex()))
	}
	product.IsDeleted = true
	product.UpdatedAt = time.Now().UTC()
	if err := uc.products.Update(ctx, product); err != nil {
		uc.logger.Error("Failed to hide orphaned product", zap.Error(err), zap.String("product_id", product.ID.Hex()))
	}
}

// HandleImages reconciles stored image URLs against the images a client
// wants. Stored URLs whose file name is no longer requested are deleted.
// Requested entries that are not URLs are uploaded. The others are kept.
// Each image is handled on its own goroutine; a failed delete keeps its URL
// and failed uploads are returned joined, next to the images that worked.
func (uc *ProductUsecase) HandleImages(ctx context.Context, product *domain.Product, stored []string, requested []domain.FileInput) ([]string, error) {
	wanted := make(map[string]bool, len(requested))
	for _, img := range requested {
		if img.FileName != "" {
			wanted[img.FileName] = true
		}
	}

	storedSet := make(map[string]bool, len(stored))
	keptNames := make(map[string]bool, len(stored))
	keep := make([]bool, len(stored))

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		failures []error
	)

	for i, url := range stored {
		storedSet[url] = true
		name := path.Base(url)
		if wanted[name] {
			keep[i] = true
			keptNames[name] = true
			continue
		}
		key, ok := uc.storage.KeyFromURL(url)
		if !ok {
			keep[i] = true
			uc.logger.Warn("Stored product image is outside our storage, keeping it",
				zap.String("product_id", product.ID.Hex()), zap.Int("index", i), zap.String("url", url))
			continue
		}
		wg.Add(1)
		go func(i int, key string) {
			defer wg.Done()
			if err := uc.storage.Delete(ctx, key); err != nil {
				keep[i] = true
				uc.logger.Error("Product images clean up failed",
					zap.Error(err), zap.String("product_id", product.ID.Hex()), zap.Int("index", i))
			}
		}(i, key)
	}

	var uploads []domain.FileInput
	for _, img := range requested {
		switch {
		case storedSet[img.URI] || keptNames[img.FileName]:
			// already stored
		case img.IsReference():
			uc.logger.Warn("Product images investigation: unknown image URL submitted",
				zap.String("product_id", product.ID.Hex()), zap.String("uri", img.URI))
		default:
			uploads = append(uploads, img)
		}
	}

	uploaded := make([]string, len(uploads))
	for i, img := range uploads {
		wg.Add(1)
		go func(i int, img domain.FileInput) {
			defer wg.Done()
			url, err := uc.uploadImage(ctx, product.ID, img)
			if err != nil {
				mu.Lock()
				failures = append(failures, fmt.Errorf("image %q: %w", img.FileName, err))
				mu.Unlock()
				return
			}
			uploaded[i] = url
		}(i, img)
	}
	wg.Wait()

	result := make([]string, 0, len(stored)+len(uploads))
	for i, url := range stored {
		if keep[i] {
			result = append(result, url)
		}
	}
	for _, url := range uploaded {
		if url != "" {
			result = append(result, url)
		}
	}

	if len(failures) > 0 {
		uc.logger.Error("Some product images failed to upload",
			zap.String("product_id", product.ID.Hex()), zap.Int("failed", len(failures)))
		return result, errors.Join(failures...)
	}
	return result, nil
}

func (uc *ProductUsecase) uploadImage(ctx context.Context, productID primitive.ObjectID, img domain.FileInput) (string, error) {
	data, err := decodeFile(img.URI)
	if err != nil {
		return "", domain.Invalidf("image %q is neither a URL nor valid base64", img.FileName)
	}
	ext := strings.ToLower(path.Ext(img.FileName))
	if ext == "" {
		ext = ".jpg"
	}
	key := fmt.Sprintf("%s/images/%s%s", domain.ProductFolder(productID), uuid.NewString(), ext)
	return uc.storage.Upload(ctx, key, data)
}

// decodeFile accepts raw base64 or a data URI.
func decodeFile(uri string) ([]byte, error) {
	if strings.HasPrefix(uri, "data:") {
		if i := strings.IndexByte(uri, ','); i >= 0 {
			uri = uri[i+1:]
		}
	}
	return base64.StdEncoding.DecodeString(strings.TrimSpace(uri))
}

// UpdateProduct edits a product. Only its vendor may do so.
func (uc *ProductUsecase) UpdateProduct(ctx context.Context, vendor *domain.User, in domain.UpdateProductInput) (*domain.ProductView, error) {
	product, err := uc.products.GetByID(ctx, in.ID)
	if err != nil {
		return nil, err
	}
	if product.VendorID != vendor.ID {
		uc.logger.Warn("User forbidden to update product",
			zap.String("product_id", in.ID.Hex()), zap.String("vendor_id", product.VendorID.Hex()), zap.String("requesting_user", vendor.ID.Hex()))
		return nil, domain.ErrNotProductOwner
	}
	if err := in.Apply(product); err != nil {
		return nil, err
	}

	var imageErr error
	if len(in.Images) > 0 {
		product.Images, imageErr = uc.HandleImages(ctx, product, product.Images, in.Images)
	}
	product.UpdatedAt = time.Now().UTC()
	if err := uc.products.Update(ctx, product); err != nil {
		return nil, err
	}
	uc.invalidate(ctx, product)
	if imageErr != nil {
		return nil, imageErr
	}

	uc.logger.Info("Product updated", zap.String("product_id", product.ID.Hex()))
	return uc.view(ctx, product, vendor)
}

// DeleteProduct soft-deletes a product. Deleting twice is a no-op.
func (uc *ProductUsecase) DeleteProduct(ctx context.Context, vendor *domain.User, productID string) (*domain.Product, error) {
	id, err := primitive.ObjectIDFromHex(productID)
	if err != nil {
		return nil, domain.ErrInvalidID
	}
	product, err := uc.products.GetByIDIncludingDeleted(ctx, id)
	if err != nil {
		return nil, err
	}
	if product.VendorID != vendor.ID {
		return nil, domain.ErrNotProductOwner
	}
	if product.IsDeleted {
		return product, nil
	}

	product.IsDeleted = true
	product.UpdatedAt = time.Now().UTC()
	if err := uc.products.Update(ctx, product); err != nil {
		return nil, err
	}
	uc.invalidate(ctx, product)
	uc.logger.Info("Product deleted", zap.String("product_id", productID))
	return product, nil
}

// GetProduct looks a product up by id, or by code when idOrCode is not an id.
func (uc *ProductUsecase) GetProduct(ctx context.Context, idOrCode string, viewer *domain.User) (*domain.ProductView, error) {
	idOrCode = strings.TrimSpace(idOrCode)
	if idOrCode == "" {
		return nil, domain.Invalidf("product id or code is required")
	}

	product := uc.cached(ctx, idOrCode)
	if product == nil {
		var err error
		if id, parseErr := primitive.ObjectIDFromHex(idOrCode); parseErr == nil {
			product, err = uc.products.GetByID(ctx, id)
		} else {
			product, err = uc.products.GetByCode(ctx, idOrCode)
		}
		if err != nil {
			return nil, err
		}
		if uc.cache != nil {
			if err := uc.cache.Set(ctx, product); err != nil {
				uc.logger.Warn("Failed to cache product", zap.Error(err), zap.String("product_id", product.ID.Hex()))
			}
		}
	}
	return uc.view(ctx, product, viewer)
}

// ListProducts searches non-deleted products, newest first.
func (uc *ProductUsecase) ListProducts(ctx context.Context, filter domain.ProductFilter, viewer *domain.User) (domain.Page[*domain.ProductView], error) {
	if err := filter.Validate(); err != nil {
		return domain.Page[*domain.ProductView]{}, err
	}
	filter.PageRequest = filter.PageRequest.Normalize()

	products, total, err := uc.products.List(ctx, filter)
	if err != nil {
		return domain.Page[*domain.ProductView]{}, fmt.Errorf("list products: %w", err)
	}

	vendors := make(map[primitive.ObjectID]*domain.User)
	views := make([]*domain.ProductView, 0, len(products))
	for _, p := range products {
		v, err := uc.viewWithVendors(ctx, p, viewer, vendors)
		if err != nil {
			return domain.Page[*domain.ProductView]{}, err
		}
		views = append(views, v)
	}
	return domain.NewPage(views, total, filter.PageRequest), nil
}

func (uc *ProductUsecase) view(ctx context.Context, product *domain.Product, viewer *domain.User) (*domain.ProductView, error) {
	return uc.viewWithVendors(ctx, product, viewer, map[primitive.ObjectID]*domain.User{})
}

func (uc *ProductUsecase) viewWithVendors(ctx context.Context, product *domain.Product, viewer *domain.User, vendors map[primitive.ObjectID]*domain.User) (*domain.ProductView, error) {
	v := &domain.ProductView{Product: product}

	vendor, ok := vendors[product.VendorID]
	if !ok {
		var err error
		vendor, err = uc.users.GetByID(ctx, product.VendorID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		vendors[product.VendorID] = vendor
	}
	if vendor != nil {
		profile := vendor.Public()
		v.Vendor = &profile
	}

	count, err := uc.likes.GetLikeCount(ctx, product.ID)
	if err != nil {
		return nil, fmt.Errorf("count likes: %w", err)
	}
	v.LikeCount = count

	if viewer != nil {
		liked, err := uc.likes.IsLiked(ctx, product.ID, viewer.ID)
		if err != nil {
			return nil, fmt.Errorf("check like: %w", err)
		}
		v.IsLiked = &liked
	}
	return v, nil
}

func (uc *ProductUsecase) cached(ctx context.Context, key string) *domain.Product {
	if uc.cache == nil {
		return nil
	}
	product, err := uc.cache.Get(ctx, key)
	if err != nil {
		uc.logger.Warn("Product cache read failed", zap.Error(err), zap.String("key", key))
		return nil
	}
	return product
}

func (uc *ProductUsecase) invalidate(ctx context.Context, product *domain.Product) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.Invalidate(ctx, product); err != nil {
		uc.logger.Warn("Product cache invalidation failed", zap.Error(err), zap.String("product_id", product.ID.Hex()))
	}
}
