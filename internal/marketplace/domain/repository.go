package domain

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TxManager runs fn inside a store transaction. The ctx handed to fn carries
// the session, so every repository call made with it joins the transaction.
// A non-nil error from fn aborts the transaction.
type TxManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// UserRepository persists users. Lookups exclude soft-deleted users unless noted.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*User, error)
	// GetByIdentity matches email (case-insensitive), username or phone number.
	GetByIdentity(ctx context.Context, identity string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	// UsernameExists also counts soft-deleted users, which keep their username reserved.
	UsernameExists(ctx context.Context, username string) (bool, error)
	Update(ctx context.Context, user *User) error
	List(ctx context.Context, filter UserFilter) ([]*User, int64, error)
}

// WalletRepository persists wallets.
type WalletRepository interface {
	Create(ctx context.Context, wallet *Wallet) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*Wallet, error)
	GetByUserID(ctx context.Context, userID primitive.ObjectID) (*Wallet, error)
	Update(ctx context.Context, wallet *Wallet) error
}

// FollowRepository persists follow edges.
type FollowRepository interface {
	Create(ctx context.Context, follow *Follow) error
	// Delete removes the edge and reports whether it existed.
	Delete(ctx context.Context, follower, followee primitive.ObjectID) (bool, error)
	Exists(ctx context.Context, follower, followee primitive.ObjectID) (bool, error)
	CountFollowers(ctx context.Context, followee primitive.ObjectID) (int64, error)
	CountFollowing(ctx context.Context, follower primitive.ObjectID) (int64, error)
	ListFollowers(ctx context.Context, followee primitive.ObjectID, req PageRequest) ([]PublicProfile, int64, error)
	ListFollowing(ctx context.Context, follower primitive.ObjectID, req PageRequest) ([]PublicProfile, int64, error)
}

// LikeRepository persists like edges.
type LikeRepository interface {
	Create(ctx context.Context, like *Like) error
	// Delete removes the edge and reports whether it existed.
	Delete(ctx context.Context, user, product primitive.ObjectID) (bool, error)
	Exists(ctx context.Context, user, product primitive.ObjectID) (bool, error)
	CountByProduct(ctx context.Context, product primitive.ObjectID) (int64, error)
	ListLikers(ctx context.Context, product primitive.ObjectID, req PageRequest) ([]PublicProfile, int64, error)
}

// NotificationRepository persists notifications.
type NotificationRepository interface {
	Create(ctx context.Context, n *Notification) error
	Exists(ctx context.Context, q NotificationQuery) (bool, error)
	ListByReceiver(ctx context.Context, receiver primitive.ObjectID, req PageRequest) ([]*Notification, int64, error)
	CountUnread(ctx context.Context, receiver primitive.ObjectID) (int64, error)
	// MarkRead fails with ErrNotificationNotFound unless id belongs to receiver.
	MarkRead(ctx context.Context, id, receiver primitive.ObjectID) error
	// MarkPageRead marks one page of the receiver's unread notifications as read.
	MarkPageRead(ctx context.Context, receiver primitive.ObjectID, req PageRequest) (int64, error)
}

// ProductRepository persists products.
type ProductRepository interface {
	Create(ctx context.Context, product *Product) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*Product, error)
	GetByCode(ctx context.Context, code string) (*Product, error)
	// GetByIDIncludingDeleted is used by idempotent soft delete.
	GetByIDIncludingDeleted(ctx context.Context, id primitive.ObjectID) (*Product, error)
	Update(ctx context.Context, product *Product) error
	List(ctx context.Context, filter ProductFilter) ([]*Product, int64, error)
}

// OTPRepository persists one-time codes. One live code per identifier.
type OTPRepository interface {
	Upsert(ctx context.Context, otp *OTP) error
	// Consume deletes and returns the code with this hash, or ErrInvalidOTP.
	Consume(ctx context.Context, hash string) (*OTP, error)
}
