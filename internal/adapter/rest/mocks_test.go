package rest

import (
	"context"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/marketplace/domain"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/marketplace/usecase"
	"github.com/stretchr/testify/mock"
)

type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) tokens(args mock.Arguments) (*usecase.TokenPair, error) {
	if t := args.Get(0); t != nil {
		return t.(*usecase.TokenPair), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAccountService) Register(ctx context.Context, in domain.NewUserInput) (*usecase.TokenPair, error) {
	return m.tokens(m.Called(ctx, in))
}

func (m *MockAccountService) Login(ctx context.Context, identifier, password string) (*usecase.TokenPair, error) {
	return m.tokens(m.Called(ctx, identifier, password))
}

func (m *MockAccountService) RegisterBySocialMedia(ctx context.Context, provider, token string) (*usecase.TokenPair, error) {
	return m.tokens(m.Called(ctx, provider, token))
}

func (m *MockAccountService) LoginBySocialMedia(ctx context.Context, provider, token string) (*usecase.TokenPair, error) {
	return m.tokens(m.Called(ctx, provider, token))
}

func (m *MockAccountService) ForgotPassword(ctx context.Context, identifier string, meta usecase.RequestMeta) domain.OperationResult {
	return m.Called(ctx, identifier, meta).Get(0).(domain.OperationResult)
}

func (m *MockAccountService) ResetPassword(ctx context.Context, code, newPassword string) (domain.OperationResult, error) {
	args := m.Called(ctx, code, newPassword)
	return args.Get(0).(domain.OperationResult), args.Error(1)
}

func (m *MockAccountService) ChangePassword(ctx context.Context, caller *domain.User, oldPassword, newPassword string) (domain.OperationResult, error) {
	args := m.Called(ctx, caller, oldPassword, newPassword)
	return args.Get(0).(domain.OperationResult), args.Error(1)
}

func (m *MockAccountService) CheckUsername(ctx context.Context, candidate string, caller *domain.User) (domain.OperationResult, error) {
	args := m.Called(ctx, candidate, caller)
	return args.Get(0).(domain.OperationResult), args.Error(1)
}

func (m *MockAccountService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	args := m.Called(ctx, token)
	if u := args.Get(0); u != nil {
		return u.(*domain.User), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockProductService struct {
	mock.Mock
}

func (m *MockProductService) view(args mock.Arguments) (*domain.ProductView, error) {
	if v := args.Get(0); v != nil {
		return v.(*domain.ProductView), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProductService) CreateProduct(ctx context.Context, vendor *domain.User, in domain.CreateProductInput, meta usecase.RequestMeta) (*domain.ProductView, error) {
	return m.view(m.Called(ctx, vendor, in, meta))
}

func (m *MockProductService) UpdateProduct(ctx context.Context, vendor *domain.User, in domain.UpdateProductInput) (*domain.ProductView, error) {
	return m.view(m.Called(ctx, vendor, in))
}

func (m *MockProductService) DeleteProduct(ctx context.Context, vendor *domain.User, productID string) (*domain.Product, error) {
	args := m.Called(ctx, vendor, productID)
	if p := args.Get(0); p != nil {
		return p.(*domain.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProductService) GetProduct(ctx context.Context, idOrCode string, viewer *domain.User) (*domain.ProductView, error) {
	return m.view(m.Called(ctx, idOrCode, viewer))
}

func (m *MockProductService) ListProducts(ctx context.Context, filter domain.ProductFilter, viewer *domain.User) (domain.Page[*domain.ProductView], error) {
	args := m.Called(ctx, filter, viewer)
	return args.Get(0).(domain.Page[*domain.ProductView]), args.Error(1)
}

type MockFollowService struct {
	mock.Mock
}

func (m *MockFollowService) ToggleFollow(ctx context.Context, follower *domain.User, followeeID string) (*domain.UserProfile, error) {
	args := m.Called(ctx, follower, followeeID)
	if p := args.Get(0); p != nil {
		return p.(*domain.UserProfile), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockFollowService) ListFollowers(ctx context.Context, userID string, req domain.PageRequest) (domain.Page[domain.PublicProfile], error) {
	args := m.Called(ctx, userID, req)
	return args.Get(0).(domain.Page[domain.PublicProfile]), args.Error(1)
}

func (m *MockFollowService) ListFollowing(ctx context.Context, userID string, req domain.PageRequest) (domain.Page[domain.PublicProfile], error) {
	args := m.Called(ctx, userID, req)
	return args.Get(0).(domain.Page[domain.PublicProfile]), args.Error(1)
}

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) GetUsers(ctx context.Context, caller *domain.User, filter domain.UserFilter) (domain.Page[*domain.User], error) {
	args := m.Called(ctx, caller, filter)
	return args.Get(0).(domain.Page[*domain.User]), args.Error(1)
}

func (m *MockUserService) GetUser(ctx context.Context, caller *domain.User, username string) (*domain.UserProfile, error) {
	args := m.Called(ctx, caller, username)
	if p := args.Get(0); p != nil {
		return p.(*domain.UserProfile), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserService) UpdateUser(ctx context.Context, caller *domain.User, in domain.UpdateUserInput) (*domain.User, error) {
	args := m.Called(ctx, caller, in)
	if u := args.Get(0); u != nil {
		return u.(*domain.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserService) DeleteUser(ctx context.Context, caller *domain.User) (*domain.User, error) {
	args := m.Called(ctx, caller)
	if u := args.Get(0); u != nil {
		return u.(*domain.User), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockNotificationService struct {
	mock.Mock
}

func (m *MockNotificationService) GetUserNotifications(ctx context.Context, receiver *domain.User, req domain.PageRequest) (*domain.NotificationPage, error) {
	args := m.Called(ctx, receiver, req)
	if p := args.Get(0); p != nil {
		return p.(*domain.NotificationPage), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockNotificationService) MarkNotificationAsRead(ctx context.Context, id string, receiver *domain.User) domain.OperationResult {
	return m.Called(ctx, id, receiver).Get(0).(domain.OperationResult)
}

func (m *MockNotificationService) MarkAllAsRead(ctx context.Context, req domain.PageRequest, receiver *domain.User) (domain.OperationResult, error) {
	args := m.Called(ctx, req, receiver)
	return args.Get(0).(domain.OperationResult), args.Error(1)
}

type recordingObserver struct {
	routes []string
}

func (o *recordingObserver) ObserveRequest(route, method string, status int, _ float64) {
	o.routes = append(o.routes, method+" "+route)
}
