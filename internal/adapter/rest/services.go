package rest

import (
	"context"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/marketplace/domain"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/marketplace/usecase"
)

// The handlers depend on these narrow views of the usecases.

type AccountService interface {
	Register(ctx context.Context, in domain.NewUserInput) (*usecase.TokenPair, error)
	Login(ctx context.Context, identifier, password string) (*usecase.TokenPair, error)
	RegisterBySocialMedia(ctx context.Context, provider, token string) (*usecase.TokenPair, error)
	LoginBySocialMedia(ctx context.Context, provider, token string) (*usecase.TokenPair, error)
	ForgotPassword(ctx context.Context, identifier string, meta usecase.RequestMeta) domain.OperationResult
	ResetPassword(ctx context.Context, code, newPassword string) (domain.OperationResult, error)
	ChangePassword(ctx context.Context, caller *domain.User, oldPassword, newPassword string) (domain.OperationResult, error)
	CheckUsername(ctx context.Context, candidate string, caller *domain.User) (domain.OperationResult, error)
	Authenticator
}

// Authenticator resolves a bearer token to a live user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*domain.User, error)
}

type OTPService interface {
	GenerateOtp(ctx context.Context, identifier string, meta usecase.RequestMeta) (domain.OperationResult, error)
	Verify(ctx context.Context, code string) (string, error)
}

type ProductService interface {
	CreateProduct(ctx context.Context, vendor *domain.User, in domain.CreateProductInput, meta usecase.RequestMeta) (*domain.ProductView, error)
	UpdateProduct(ctx context.Context, vendor *domain.User, in domain.UpdateProductInput) (*domain.ProductView, error)
	DeleteProduct(ctx context.Context, vendor *domain.User, productID string) (*domain.Product, error)
	GetProduct(ctx context.Context, idOrCode string, viewer *domain.User) (*domain.ProductView, error)
	ListProducts(ctx context.Context, filter domain.ProductFilter, viewer *domain.User) (domain.Page[*domain.ProductView], error)
}

type LikeService interface {
	ToggleLike(ctx context.Context, user *domain.User, productID string) (*domain.ProductView, error)
	GetLikes(ctx context.Context, target domain.LikeTarget, entityID string, req domain.PageRequest) (domain.Page[domain.PublicProfile], error)
}

type FollowService interface {
	ToggleFollow(ctx context.Context, follower *domain.User, followeeID string) (*domain.UserProfile, error)
	ListFollowers(ctx context.Context, userID string, req domain.PageRequest) (domain.Page[domain.PublicProfile], error)
	ListFollowing(ctx context.Context, userID string, req domain.PageRequest) (domain.Page[domain.PublicProfile], error)
}

type UserService interface {
	GetUsers(ctx context.Context, caller *domain.User, filter domain.UserFilter) (domain.Page[*domain.User], error)
	GetUser(ctx context.Context, caller *domain.User, username string) (*domain.UserProfile, error)
	UpdateUser(ctx context.Context, caller *domain.User, in domain.UpdateUserInput) (*domain.User, error)
	DeleteUser(ctx context.Context, caller *domain.User) (*domain.User, error)
}

type NotificationService interface {
	GetUserNotifications(ctx context.Context, receiver *domain.User, req domain.PageRequest) (*domain.NotificationPage, error)
	MarkNotificationAsRead(ctx context.Context, id string, receiver *domain.User) domain.OperationResult
	MarkAllAsRead(ctx context.Context, req domain.PageRequest, receiver *domain.User) (domain.OperationResult, error)
}

type WalletService interface {
	GetWallet(ctx context.Context, user *domain.User, walletID string) (*domain.WalletView, error)
	AddBankInformation(ctx context.Context, user *domain.User, info domain.BankInformation) (*domain.WalletView, error)
}

// RequestObserver records per-route request metrics.
type RequestObserver interface {
	ObserveRequest(route, method string, status int, seconds float64)
}
