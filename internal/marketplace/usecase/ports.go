package usecase

import (
	"context"
	"time"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/marketplace/domain"
)

// Storage is the object store holding product images and avatars.
type Storage interface {
	Upload(ctx context.Context, key string, data []byte) (string, error)
	Delete(ctx context.Context, key string) error
	DeleteFolder(ctx context.Context, prefix string) error
	// KeyFromURL recovers the object key of a URL returned by Upload.
	KeyFromURL(url string) (string, bool)
}

// PushDispatcher hands push notifications to the delivery queue.
type PushDispatcher interface {
	Send(ctx context.Context, msg domain.PushMessage) error
}

// Mailer sends transactional email.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// TokenPayload is the claim set carried by access and refresh tokens.
type TokenPayload struct {
	UserID string
	Type   domain.AccountType
}

// TokenService signs and verifies bearer tokens.
type TokenService interface {
	Sign(payload TokenPayload, ttl time.Duration) (string, error)
	Verify(token string) (*TokenPayload, error)
}

// PasswordHasher hashes and compares secrets.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) bool
}

// SocialProfile is what an identity provider tells us about an account.
type SocialProfile struct {
	Email     string
	FirstName string
	LastName  string
	Picture   string
}

// IdentityProvider exchanges a provider access token for a profile.
type IdentityProvider interface {
	Name() string
	Exchange(ctx context.Context, token string) (*SocialProfile, error)
}

// RequestMeta is the transport metadata some operations need.
type RequestMeta struct {
	UserAgent string
	Country   string
	ClientIP  string
}

// CurrencyResolver infers a currency from the caller's location.
// It never fails; unknown locations resolve to a fallback.
type CurrencyResolver interface {
	Resolve(ctx context.Context, meta RequestMeta) domain.Currency
}

// ProductCache is a read-through cache for single products.
// Get returns (nil, nil) on a miss.
type ProductCache interface {
	Get(ctx context.Context, key string) (*domain.Product, error)
	Set(ctx context.Context, product *domain.Product) error
	Invalidate(ctx context.Context, product *domain.Product) error
}

// Metrics records business counters. A nil Metrics is allowed.
type Metrics interface {
	UserRegistered()
	ProductCreated()
	FollowToggled(on bool)
	LikeToggled(on bool)
	NotificationCreated(t domain.NotificationType)
	PushFailed()
}

type noopMetrics struct{}

func (noopMetrics) UserRegistered()                             {}
func (noopMetrics) ProductCreated()                             {}
func (noopMetrics) FollowToggled(bool)                          {}
func (noopMetrics) LikeToggled(bool)                            {}
func (noopMetrics) NotificationCreated(domain.NotificationType) {}
func (noopMetrics) PushFailed()                                 {}

func metricsOrNoop(m Metrics) Metrics {
	if m == nil {
		return noopMetrics{}
	}
	return m
}
