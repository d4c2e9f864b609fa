package domain

import (
	"errors"
	"fmt"
)

// --- Error kinds ---
// Every error returned by the domain wraps exactly one of these so callers
// can branch with errors.Is regardless of the concrete failure.

var (
	// ErrInvalidInput indicates malformed or out-of-range input.
	ErrInvalidInput = errors.New("invalid input")
	// ErrConflict indicates a uniqueness violation or a deliberately generic credential mismatch.
	ErrConflict = errors.New("conflict")
	// ErrNotFound indicates that a referenced entity is missing or soft-deleted.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized indicates a failed identity or ownership check.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden indicates that the caller's role does not allow the action.
	ErrForbidden = errors.New("forbidden")
)

// --- Specific errors ---

var (
	ErrInvalidCredentials = fmt.Errorf("%w: the credentials provided are incorrect", ErrConflict)
	ErrDuplicateUsername  = fmt.Errorf("%w: this username is already taken", ErrConflict)
	ErrDuplicateEmail     = fmt.Errorf("%w: an account with this email already exists", ErrConflict)
	ErrDuplicateCode      = fmt.Errorf("%w: product code already in use", ErrConflict)
	ErrDuplicateFollow    = fmt.Errorf("%w: already following this user", ErrConflict)
	ErrDuplicateLike      = fmt.Errorf("%w: product already liked", ErrConflict)
	ErrDuplicateWallet    = fmt.Errorf("%w: user already has a wallet", ErrConflict)
	ErrDuplicateOTP       = fmt.Errorf("%w: one-time code already issued", ErrConflict)
	ErrBulkWriteFailed    = fmt.Errorf("%w: some notifications could not be updated", ErrConflict)

	ErrUserNotFound         = fmt.Errorf("%w: user either does not exist or has been deleted", ErrNotFound)
	ErrReferrerNotFound     = fmt.Errorf("%w: this referrer doesn't exist", ErrNotFound)
	ErrProductNotFound      = fmt.Errorf("%w: this product might have been deleted or does not exist", ErrNotFound)
	ErrWalletNotFound       = fmt.Errorf("%w: this wallet does not exist", ErrNotFound)
	ErrNotificationNotFound = fmt.Errorf("%w: this notification does not exist", ErrNotFound)
	ErrFollowNotFound       = fmt.Errorf("%w: follow not found", ErrNotFound)
	ErrLikeNotFound         = fmt.Errorf("%w: like not found", ErrNotFound)

	ErrAdminRegistration = fmt.Errorf("%w: administrative accounts cannot be self-registered", ErrUnauthorized)
	ErrIncorrectPassword = fmt.Errorf("%w: the password provided is incorrect", ErrUnauthorized)
	ErrNotProductOwner   = fmt.Errorf("%w: only the vendor can modify this product", ErrUnauthorized)
	ErrInvalidToken      = fmt.Errorf("%w: invalid or expired token", ErrUnauthorized)

	ErrAdminOnly = fmt.Errorf("%w: administrator access required", ErrForbidden)

	ErrInvalidOTP       = fmt.Errorf("%w: the code provided is invalid or has expired", ErrInvalidInput)
	ErrSelfFollow       = fmt.Errorf("%w: you cannot follow yourself", ErrInvalidInput)
	ErrWeakPassword     = fmt.Errorf("%w: password must be at least %d characters long", ErrInvalidInput, MinPasswordLength)
	ErrLongPassword     = fmt.Errorf("%w: password must be at most %d bytes long", ErrInvalidInput, MaxPasswordBytes)
	ErrUnknownProvider  = fmt.Errorf("%w: please provide a supported social login type", ErrInvalidInput)
	ErrInvalidAmount    = fmt.Errorf("%w: amount must be a finite, non-negative number", ErrInvalidInput)
	ErrInvalidID        = fmt.Errorf("%w: malformed identifier", ErrInvalidInput)
	ErrMissingWalletRef = fmt.Errorf("%w: please provide user or wallet ID", ErrInvalidInput)
)

// Kind returns the root kind of err, or nil for errors that carry none.
func Kind(err error) error {
	for _, kind := range []error{ErrInvalidInput, ErrConflict, ErrNotFound, ErrUnauthorized, ErrForbidden} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}

// Invalidf builds a validation error with a custom message.
func Invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
