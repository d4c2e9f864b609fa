package usecase

import (
	"context"
	"time"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/marketplace/domain"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakeTx runs fn in place. A failing fn leaves whatever the mocks recorded,
// which lets tests assert on the calls made before the abort.
type fakeTx struct{ calls int }

func (f *fakeTx) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	return fn(ctx)
}

type MockUserRepository struct{ mock.Mock }

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *MockUserRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepository) GetByIdentity(ctx context.Context, identity string) (*domain.User, error) {
	args := m.Called(ctx, identity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}
func (m *MockUserRepository) Update(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *MockUserRepository) List(ctx context.Context, filter domain.UserFilter) ([]*domain.User, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*domain.User), args.Get(1).(int64), args.Error(2)
}

type MockWalletRepository struct{ mock.Mock }

func (m *MockWalletRepository) Create(ctx context.Context, wallet *domain.Wallet) error {
	args := m.Called(ctx, wallet)
	return args.Error(0)
}
func (m *MockWalletRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Wallet, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Wallet), args.Error(1)
}
func (m *MockWalletRepository) GetByUserID(ctx context.Context, userID primitive.ObjectID) (*domain.Wallet, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Wallet), args.Error(1)
}
func (m *MockWalletRepository) Update(ctx context.Context, wallet *domain.Wallet) error {
	args := m.Called(ctx, wallet)
	return args.Error(0)
}

type MockFollowRepository struct{ mock.Mock }

func (m *MockFollowRepository) Create(ctx context.Context, follow *domain.Follow) error {
	args := m.Called(ctx, follow)
	return args.Error(0)
}
func (m *MockFollowRepository) Delete(ctx context.Context, follower, followee primitive.ObjectID) (bool, error) {
	args := m.Called(ctx, follower, followee)
	return args.Bool(0), args.Error(1)
}
func (m *MockFollowRepository) Exists(ctx context.Context, follower, followee primitive.ObjectID) (bool, error) {
	args := m.Called(ctx, follower, followee)
	return args.Bool(0), args.Error(1)
}
func (m *MockFollowRepository) CountFollowers(ctx context.Context, followee primitive.ObjectID) (int64, error) {
	args := m.Called(ctx, followee)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockFollowRepository) CountFollowing(ctx context.Context, follower primitive.ObjectID) (int64, error) {
	args := m.Called(ctx, follower)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockFollowRepository) ListFollowers(ctx context.Context, followee primitive.ObjectID, req domain.PageRequest) ([]domain.PublicProfile, int64, error) {
	args := m.Called(ctx, followee, req)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]domain.PublicProfile), args.Get(1).(int64), args.Error(2)
}
func (m *MockFollowRepository) ListFollowing(ctx context.Context, follower primitive.ObjectID, req domain.PageRequest) ([]domain.PublicProfile, int64, error) {
	args := m.Called(ctx, follower, req)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]domain.PublicProfile), args.Get(1).(int64), args.Error(2)
}

type MockLikeRepository struct{ mock.Mock }

func (m *MockLikeRepository) Create(ctx context.Context, like *domain.Like) error {
	args := m.Called(ctx, like)
	return args.Error(0)
}
func (m *MockLikeRepository) Delete(ctx context.Context, user, product primitive.ObjectID) (bool, error) {
	args := m.Called(ctx, user, product)
	return args.Bool(0), args.Error(1)
}
func (m *MockLikeRepository) Exists(ctx context.Context, user, product primitive.ObjectID) (bool, error) {
	args := m.Called(ctx, user, product)
	return args.Bool(0), args.Error(1)
}
func (m *MockLikeRepository) CountByProduct(ctx context.Context, product primitive.ObjectID) (int64, error) {
	args := m.Called(ctx, product)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockLikeRepository) ListLikers(ctx context.Context, product primitive.ObjectID, req domain.PageRequest) ([]domain.PublicProfile, int64, error) {
	args := m.Called(ctx, product, req)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]domain.PublicProfile), args.Get(1).(int64), args.Error(2)
}

type MockNotificationRepository struct{ mock.Mock }

func (m *MockNotificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}
func (m *MockNotificationRepository) Exists(ctx context.Context, q domain.NotificationQuery) (bool, error) {
	args := m.Called(ctx, q)
	return args.Bool(0), args.Error(1)
}
func (m *MockNotificationRepository) ListByReceiver(ctx context.Context, receiver primitive.ObjectID, req domain.PageRequest) ([]*domain.Notification, int64, error) {
	args := m.Called(ctx, receiver, req)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*domain.Notification), args.Get(1).(int64), args.Error(2)
}
func (m *MockNotificationRepository) CountUnread(ctx context.Context, receiver primitive.ObjectID) (int64, error) {
	args := m.Called(ctx, receiver)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockNotificationRepository) MarkRead(ctx context.Context, id, receiver primitive.ObjectID) error {
	args := m.Called(ctx, id, receiver)
	return args.Error(0)
}
func (m *MockNotificationRepository) MarkPageRead(ctx context.Context, receiver primitive.ObjectID, req domain.PageRequest) (int64, error) {
	args := m.Called(ctx, receiver, req)
	return args.Get(0).(int64), args.Error(1)
}

type MockProductRepository struct{ mock.Mock }

func (m *MockProductRepository) Create(ctx context.Context, product *domain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}
func (m *MockProductRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}
func (m *MockProductRepository) GetByCode(ctx context.Context, code string) (*domain.Product, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}
func (m *MockProductRepository) GetByIDIncludingDeleted(ctx context.Context, id primitive.ObjectID) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}
func (m *MockProductRepository) Update(ctx context.Context, product *domain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}
func (m *MockProductRepository) List(ctx context.Context, filter domain.ProductFilter) ([]*domain.Product, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*domain.Product), args.Get(1).(int64), args.Error(2)
}

type MockOTPRepository struct{ mock.Mock }

func (m *MockOTPRepository) Upsert(ctx context.Context, otp *domain.OTP) error {
	args := m.Called(ctx, otp)
	return args.Error(0)
}
func (m *MockOTPRepository) Consume(ctx context.Context, hash string) (*domain.OTP, error) {
	args := m.Called(ctx, hash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OTP), args.Error(1)
}

type MockStorage struct{ mock.Mock }

func (m *MockStorage) Upload(ctx context.Context, key string, data []byte) (string, error) {
	args := m.Called(ctx, key, data)
	return args.String(0), args.Error(1)
}
func (m *MockStorage) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}
func (m *MockStorage) DeleteFolder(ctx context.Context, prefix string) error {
	args := m.Called(ctx, prefix)
	return args.Error(0)
}
func (m *MockStorage) KeyFromURL(url string) (string, bool) {
	args := m.Called(url)
	return args.String(0), args.Bool(1)
}

type MockPushDispatcher struct{ mock.Mock }

func (m *MockPushDispatcher) Send(ctx context.Context, msg domain.PushMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

type MockMailer struct{ mock.Mock }

func (m *MockMailer) Send(ctx context.Context, to, subject, body string) error {
	args := m.Called(ctx, to, subject, body)
	return args.Error(0)
}

type MockTokenService struct{ mock.Mock }

func (m *MockTokenService) Sign(payload TokenPayload, ttl time.Duration) (string, error) {
	args := m.Called(payload, ttl)
	return args.String(0), args.Error(1)
}
func (m *MockTokenService) Verify(token string) (*TokenPayload, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*TokenPayload), args.Error(1)
}

// plainHasher stores passwords with a prefix so tests can compare them.
type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }
func (plainHasher) Compare(hash, password string) bool  { return hash == "hashed:"+password }

type MockIdentityProvider struct{ mock.Mock }

func (m *MockIdentityProvider) Name() string { return "google" }
func (m *MockIdentityProvider) Exchange(ctx context.Context, token string) (*SocialProfile, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*SocialProfile), args.Error(1)
}

type staticCurrency domain.Currency

func (c staticCurrency) Resolve(context.Context, RequestMeta) domain.Currency {
	return domain.Currency(c)
}

type MockProductCache struct{ mock.Mock }

func (m *MockProductCache) Get(ctx context.Context, key string) (*domain.Product, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}
func (m *MockProductCache) Set(ctx context.Context, product *domain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}
func (m *MockProductCache) Invalidate(ctx context.Context, product *domain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func newTestUser(first, last string) *domain.User {
	return &domain.User{
		ID:        primitive.NewObjectID(),
		FirstName: first,
		LastName:  last,
		Email:     first + "@example.com",
		Username:  first + "_" + last,
		Type:      domain.AccountTypeUser,
	}
}
