package usecase

import (
	"context"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/marketplace/domain"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/platform/logger"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// WalletUsecase exposes a user's wallet.
type WalletUsecase struct {
	wallets domain.WalletRepository
	users   domain.UserRepository
	logger  *logger.Logger
}

// NewWalletUsecase creates a new WalletUsecase.
func NewWalletUsecase(wallets domain.WalletRepository, users domain.UserRepository, log *logger.Logger) *WalletUsecase {
	return &WalletUsecase{
		wallets: wallets,
		users:   users,
		logger:  log.Named("WalletUsecase"),
	}
}

// AddBankInformation attaches payout details to the user's wallet.
func (uc *WalletUsecase) AddBankInformation(ctx context.Context, user *domain.User, info domain.BankInformation) (*domain.WalletView, error) {
	wallet, err := uc.wallets.GetByUserID(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if err := wallet.SetBankInformation(info); err != nil {
		return nil, err
	}
	if err := uc.wallets.Update(ctx, wallet); err != nil {
		uc.logger.Error("Failed to save bank information", zap.Error(err), zap.String("wallet_id", wallet.ID.Hex()))
		return nil, err
	}
	uc.logger.Info("Bank information updated", zap.String("wallet_id", wallet.ID.Hex()))
	return &domain.WalletView{Wallet: wallet, Owner: user.Public()}, nil
}

// GetWallet returns a wallet by id, or the wallet of user when walletID is
// empty. Only the owner or an administrator may read a wallet by id.
func (uc *WalletUsecase) GetWallet(ctx context.Context, user *domain.User, walletID string) (*domain.WalletView, error) {
	var (
		wallet *domain.Wallet
		err    error
	)
	switch {
	case walletID != "":
		id, parseErr := primitive.ObjectIDFromHex(walletID)
		if parseErr != nil {
			return nil, domain.ErrInvalidID
		}
		wallet, err = uc.wallets.GetByID(ctx, id)
	case user != nil:
		wallet, err = uc.wallets.GetByUserID(ctx, user.ID)
	default:
		return nil, domain.ErrMissingWalletRef
	}
	if err != nil {
		return nil, err
	}

	if user != nil && wallet.UserID != user.ID && !user.Type.IsAdmin() {
		uc.logger.Warn("User forbidden to read wallet", zap.String("wallet_id", wallet.ID.Hex()), zap.String("requesting_user", user.ID.Hex()))
		return nil, domain.ErrWalletNotFound
	}

	owner, err := uc.users.GetByID(ctx, wallet.UserID)
	if err != nil {
		return nil, err
	}
	return &domain.WalletView{Wallet: wallet, Owner: owner.Public()}, nil
}
