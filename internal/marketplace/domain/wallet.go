package domain

import (
	"math"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Wallet is the per-user ledger. It is created together with its owner.
type Wallet struct {
	ID                primitive.ObjectID
	UserID            primitive.ObjectID
	BankName          string
	BankCode          string
	AccountName       string
	AccountNumber     string
	MobileMoneyCode   string
	MobileMoneyNumber string
	Received          float64
	Spent             float64
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// WalletView is a wallet together with its owner's public profile.
type WalletView struct {
	Wallet *Wallet
	Owner  PublicProfile
}

// NewWallet creates an empty wallet owned by userID.
func NewWallet(userID primitive.ObjectID) *Wallet {
	now := time.Now().UTC()
	return &Wallet{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Balance is received minus spent, rounded to two decimals. It is never stored.
func (w *Wallet) Balance() float64 {
	if w == nil {
		return 0
	}
	return math.Round((w.Received-w.Spent)*100) / 100
}

// Receive credits amount to the wallet.
func (w *Wallet) Receive(amount float64) error {
	if !validAmount(amount) {
		return ErrInvalidAmount
	}
	w.Received += amount
	w.UpdatedAt = time.Now().UTC()
	return nil
}

// Spend debits amount from the wallet.
func (w *Wallet) Spend(amount float64) error {
	if !validAmount(amount) {
		return ErrInvalidAmount
	}
	w.Spent += amount
	w.UpdatedAt = time.Now().UTC()
	return nil
}

func validAmount(amount float64) bool {
	return amount >= 0 && !math.IsNaN(amount) && !math.IsInf(amount, 0)
}

// BankInformation is the payout metadata a user attaches to their wallet.
type BankInformation struct {
	BankName          string
	BankCode          string
	AccountName       string
	AccountNumber     string
	MobileMoneyCode   string
	MobileMoneyNumber string
}

// Validate checks bank and mobile-money fields.
func (b BankInformation) Validate() error {
	if strings.TrimSpace(b.BankName) == "" || strings.TrimSpace(b.AccountName) == "" {
		return Invalidf("bank name and account name are required")
	}
	if !isDigits(b.BankCode) {
		return Invalidf("please provide a valid bank code")
	}
	if len(b.AccountNumber) != 10 || !isDigits(b.AccountNumber) {
		return Invalidf("please provide a valid account number")
	}
	if b.MobileMoneyCode != "" && b.MobileMoneyNumber == "" {
		return Invalidf("please provide a mobile money number")
	}
	if b.MobileMoneyNumber != "" && b.MobileMoneyCode == "" {
		return Invalidf("please provide a country code for this mobile money number")
	}
	return nil
}

// SetBankInformation validates b and copies it onto the wallet.
func (w *Wallet) SetBankInformation(b BankInformation) error {
	if err := b.Validate(); err != nil {
		return err
	}
	w.BankName = strings.TrimSpace(b.BankName)
	w.BankCode = b.BankCode
	w.AccountName = strings.TrimSpace(b.AccountName)
	w.AccountNumber = b.AccountNumber
	if b.MobileMoneyCode != "" {
		w.MobileMoneyCode = b.MobileMoneyCode
		w.MobileMoneyNumber = b.MobileMoneyNumber
	}
	w.UpdatedAt = time.Now().UTC()
	return nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
