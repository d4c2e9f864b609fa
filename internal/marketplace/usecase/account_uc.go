package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/marketplace/domain"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/platform/logger"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const maxUsernameAttempts = 10

// TokenPair is what every successful sign-in returns.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// AccountConfig holds token lifetimes.
type AccountConfig struct {
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

// AccountUsecase orchestrates registration, sign-in and password flows.
type AccountUsecase struct {
	users     domain.UserRepository
	wallets   domain.WalletRepository
	tx        domain.TxManager
	hasher    PasswordHasher
	tokens    TokenService
	otp       *OTPUsecase
	mailer    Mailer
	providers map[string]IdentityProvider
	metrics   Metrics
	cfg       AccountConfig
	logger    *logger.Logger

	usernameSuffix func() (int, error)
}

// NewAccountUsecase creates a new AccountUsecase.
func NewAccountUsecase(
	users domain.UserRepository,
	wallets domain.WalletRepository,
	tx domain.TxManager,
	hasher PasswordHasher,
	tokens TokenService,
	otp *OTPUsecase,
	mailer Mailer,
	providers []IdentityProvider,
	metrics Metrics,
	cfg AccountConfig,
	log *logger.Logger,
) *AccountUsecase {
	registry := make(map[string]IdentityProvider, len(providers))
	for _, p := range providers {
		registry[strings.ToLower(p.Name())] = p
	}
	return &AccountUsecase{
		users:          users,
		wallets:        wallets,
		tx:             tx,
		hasher:         hasher,
		tokens:         tokens,
		otp:            otp,
		mailer:         mailer,
		providers:      registry,
		metrics:        metricsOrNoop(metrics),
		cfg:            cfg,
		logger:         log.Named("AccountUsecase"),
		usernameSuffix: func() (int, error) { return randomIntn(100) },
	}
}

// Register creates a user and its wallet atomically and signs them in.
// Without a username one is generated and retried until the store accepts it.
func (uc *AccountUsecase) Register(ctx context.Context, in domain.NewUserInput) (*TokenPair, error) {
	if in.Type.IsAdmin() {
		uc.logger.Warn("Rejected administrative self-registration", zap.String("email", in.Email))
		return nil, domain.ErrAdminRegistration
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if in.Type == "" {
		in.Type = domain.AccountTypeUser
	}
	if in.PhoneCode == "" {
		in.PhoneCode = domain.DefaultPhoneCode
	}

	var referrer *primitive.ObjectID
	if ref := strings.TrimSpace(in.ReferredBy); ref != "" {
		r, err := uc.users.GetByIdentity(ctx, ref)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, domain.ErrReferrerNotFound
			}
			return nil, fmt.Errorf("resolve referrer: %w", err)
		}
		referrer = &r.ID
	}

	hash, err := uc.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Email:        domain.NormalizeEmail(in.Email),
		Username:     in.Username,
		PhoneCode:    in.PhoneCode,
		PhoneNumber:  strings.TrimSpace(in.PhoneNumber),
		PasswordHash: hash,
		ReferredBy:   referrer,
		Type:         in.Type,
	}
	if err := uc.createWithWallet(ctx, user, in.Username == ""); err != nil {
		return nil, err
	}

	uc.metrics.UserRegistered()
	uc.logger.Info("User registered", zap.String("user_id", user.ID.Hex()), zap.String("username", user.Username))
	return uc.issueTokens(user)
}

// createWithWallet inserts user and its wallet in one transaction. When
// generateUsername is set, a duplicate username retries the whole transaction
// with a fresh candidate.
func (uc *AccountUsecase) createWithWallet(ctx context.Context, user *domain.User, generateUsername bool) error {
	var err error
	for attempt := 1; attempt <= maxUsernameAttempts; attempt++ {
		if generateUsername {
			suffix, serr := uc.usernameSuffix()
			if serr != nil {
				return fmt.Errorf("generate username: %w", serr)
			}
			user.Username = domain.GenerateUsername(user.FirstName, user.LastName, suffix)
		}
		now := time.Now().UTC()
		user.ID = primitive.NewObjectID()
		user.CreatedAt, user.UpdatedAt = now, now

		err = uc.tx.WithTransaction(ctx, func(ctx context.Context) error {
			if err := uc.users.Create(ctx, user); err != nil {
				return err
			}
			return uc.wallets.Create(ctx, domain.NewWallet(user.ID))
		})
		if err == nil {
			return nil
		}
		if !generateUsername || !errors.Is(err, domain.ErrDuplicateUsername) {
			break
		}
		uc.logger.Debug("Generated username taken, retrying", zap.String("username", user.Username), zap.Int("attempt", attempt))
	}
	uc.logger.Error("Failed to create account", zap.Error(err), zap.String("email", user.Email))
	if domain.Kind(err) != nil {
		return err
	}
	return fmt.Errorf("create account: %w", err)
}

// Login signs a user in by email, username or phone number. Unknown
// identities and wrong passwords fail identically.
func (uc *AccountUsecase) Login(ctx context.Context, identifier, password string) (*TokenPair, error) {
	user, err := uc.users.GetByIdentity(ctx, strings.TrimSpace(identifier))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup identity: %w", err)
	}
	if !uc.hasher.Compare(user.PasswordHash, password) {
		uc.logger.Info("Login with incorrect password", zap.String("user_id", user.ID.Hex()))
		return nil, domain.ErrInvalidCredentials
	}
	return uc.issueTokens(user)
}

// RegisterBySocialMedia signs in with an identity provider, creating the
// account on first use.
func (uc *AccountUsecase) RegisterBySocialMedia(ctx context.Context, provider, token string) (*TokenPair, error) {
	p, profile, err := uc.exchange(ctx, provider, token)
	if err != nil {
		return nil, err
	}
	return uc.socialSignIn(ctx, p, profile)
}

// LoginBySocialMedia signs in an existing social account and falls back to
// registration when none matches.
func (uc *AccountUsecase) LoginBySocialMedia(ctx context.Context, provider, token string) (*TokenPair, error) {
	p, profile, err := uc.exchange(ctx, provider, token)
	if err != nil {
		return nil, err
	}
	return uc.socialSignIn(ctx, p, profile)
}

func (uc *AccountUsecase) exchange(ctx context.Context, provider, token string) (IdentityProvider, *SocialProfile, error) {
	p, ok := uc.providers[strings.ToLower(strings.TrimSpace(provider))]
	if !ok {
		return nil, nil, domain.ErrUnknownProvider
	}
	if strings.TrimSpace(token) == "" {
		return nil, nil, domain.Invalidf("provider token is required")
	}
	profile, err := p.Exchange(ctx, token)
	if err != nil {
		uc.logger.Warn("Identity provider exchange failed", zap.Error(err), zap.String("provider", p.Name()))
		return nil, nil, err
	}
	if !domain.IsEmail(profile.Email) {
		return nil, nil, domain.Invalidf("the %s account has no usable email", p.Name())
	}
	return p, profile, nil
}

func (uc *AccountUsecase) socialSignIn(ctx context.Context, p IdentityProvider, profile *SocialProfile) (*TokenPair, error) {
	email := domain.NormalizeEmail(profile.Email)
	existing, err := uc.users.GetByEmail(ctx, email)
	if err == nil {
		return uc.issueTokens(existing)
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("lookup social account: %w", err)
	}

	hash, err := uc.hasher.Hash(p.Name())
	if err != nil {
		return nil, fmt.Errorf("hash provider password: %w", err)
	}
	firstName, lastName := strings.TrimSpace(profile.FirstName), strings.TrimSpace(profile.LastName)
	if firstName == "" {
		firstName = strings.SplitN(email, "@", 2)[0]
	}
	user := &domain.User{
		FirstName:    firstName,
		LastName:     lastName,
		Email:        email,
		Avatar:       profile.Picture,
		PhoneCode:    domain.DefaultPhoneCode,
		PasswordHash: hash,
		Type:         domain.AccountTypeUser,
	}
	if err := uc.createWithWallet(ctx, user, true); err != nil {
		return nil, err
	}

	uc.metrics.UserRegistered()
	uc.logger.Info("User registered by social media", zap.String("user_id", user.ID.Hex()), zap.String("provider", p.Name()))
	return uc.issueTokens(user)
}

// ForgotPassword always reports success so callers cannot probe for accounts.
func (uc *AccountUsecase) ForgotPassword(ctx context.Context, identifier string, meta RequestMeta) domain.OperationResult {
	result := domain.OperationResult{Success: true, Message: "We have sent a mail to this user"}

	identifier = strings.TrimSpace(identifier)
	user, err := uc.users.GetByIdentity(ctx, identifier)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			uc.logger.Error("Forgot password lookup failed", zap.Error(err))
		}
		return result
	}

	code, err := uc.otp.Generate(ctx, identifier)
	if err != nil {
		uc.logger.Error("Forgot password otp generation failed", zap.Error(err), zap.String("user_id", user.ID.Hex()))
		return result
	}

	subject := fmt.Sprintf("Hello %s, you requested for a Password Reset", user.FirstName)
	body := otpMailBody(user.FirstName, code, describeAgent(meta.UserAgent))
	if err := uc.mailer.Send(ctx, user.Email, subject, body); err != nil {
		uc.logger.Error("Forgot password mail failed", zap.Error(err), zap.String("user_id", user.ID.Hex()))
	}
	return result
}

// ResetPassword consumes an OTP and sets a new password for its identity.
func (uc *AccountUsecase) ResetPassword(ctx context.Context, code, newPassword string) (domain.OperationResult, error) {
	if err := domain.ValidatePassword(newPassword); err != nil {
		return domain.OperationResult{}, err
	}
	identifier, err := uc.otp.Verify(ctx, code)
	if err != nil {
		return domain.OperationResult{}, err
	}
	user, err := uc.users.GetByIdentity(ctx, identifier)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.OperationResult{}, domain.ErrUserNotFound
		}
		return domain.OperationResult{}, err
	}
	if err := uc.setPassword(ctx, user, newPassword); err != nil {
		return domain.OperationResult{}, err
	}
	uc.logger.Info("Password reset", zap.String("user_id", user.ID.Hex()))
	return domain.OperationResult{Success: true}, nil
}

// ChangePassword requires the current password before setting a new one.
func (uc *AccountUsecase) ChangePassword(ctx context.Context, caller *domain.User, oldPassword, newPassword string) (domain.OperationResult, error) {
	user, err := uc.users.GetByID(ctx, caller.ID)
	if err != nil {
		return domain.OperationResult{}, err
	}
	if !uc.hasher.Compare(user.PasswordHash, oldPassword) {
		return domain.OperationResult{}, domain.ErrIncorrectPassword
	}
	if err := domain.ValidatePassword(newPassword); err != nil {
		return domain.OperationResult{}, err
	}
	if err := uc.setPassword(ctx, user, newPassword); err != nil {
		return domain.OperationResult{}, err
	}
	uc.logger.Info("Password changed", zap.String("user_id", user.ID.Hex()))
	return domain.OperationResult{Success: true}, nil
}

func (uc *AccountUsecase) setPassword(ctx context.Context, user *domain.User, password string) error {
	hash, err := uc.hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	user.PasswordHash = hash
	user.UpdatedAt = time.Now().UTC()
	return uc.users.Update(ctx, user)
}

// CheckUsername reports whether candidate is free for caller to use.
func (uc *AccountUsecase) CheckUsername(ctx context.Context, candidate string, caller *domain.User) (domain.OperationResult, error) {
	candidate = strings.TrimSpace(candidate)
	if candidate == "" {
		return domain.OperationResult{Success: false}, nil
	}
	if caller != nil && candidate == caller.Username {
		return domain.OperationResult{Success: true}, nil
	}
	taken, err := uc.users.UsernameExists(ctx, candidate)
	if err != nil {
		return domain.OperationResult{}, fmt.Errorf("check username: %w", err)
	}
	return domain.OperationResult{Success: !taken}, nil
}

// Authenticate resolves a bearer token to its non-deleted user.
func (uc *AccountUsecase) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	payload, err := uc.tokens.Verify(token)
	if err != nil {
		return nil, domain.ErrInvalidToken
	}
	id, err := primitive.ObjectIDFromHex(payload.UserID)
	if err != nil {
		return nil, domain.ErrInvalidToken
	}
	user, err := uc.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidToken
		}
		return nil, err
	}
	return user, nil
}

func (uc *AccountUsecase) issueTokens(user *domain.User) (*TokenPair, error) {
	payload := TokenPayload{UserID: user.ID.Hex(), Type: user.Type}
	access, err := uc.tokens.Sign(payload, uc.cfg.AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}
	refresh, err := uc.tokens.Sign(payload, uc.cfg.RefreshTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("sign refresh token: %w", err)
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
