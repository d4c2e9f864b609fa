package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// OTPTTL is how long a one-time code stays valid.
const OTPTTL = 600 * time.Second

// OTP is a one-time code bound to an identifier. Only the hash is stored.
type OTP struct {
	Identifier string
	Hash       string
	ExpireAt   time.Time
	CreatedAt  time.Time
}

// HashOTP returns the hex SHA-256 of a code.
func HashOTP(code string) string {
	sum := sha256.Sum256([]byte(code))
	return hex.EncodeToString(sum[:])
}

// NewOTP binds the hash of code to identifier with a fresh expiry.
func NewOTP(identifier, code string, now time.Time) *OTP {
	return &OTP{
		Identifier: identifier,
		Hash:       HashOTP(code),
		ExpireAt:   now.Add(OTPTTL),
		CreatedAt:  now,
	}
}

// Expired reports whether the code is past its expiry at now.
func (o *OTP) Expired(now time.Time) bool {
	return !now.Before(o.ExpireAt)
}

// OperationResult is the uniform success/failure response of operations
// that must not leak existence information.
type OperationResult struct {
	Success bool
	Message string
}
