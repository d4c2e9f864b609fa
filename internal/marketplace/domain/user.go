package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MinPasswordLength is the shortest password accepted on change or reset.
const MinPasswordLength = 8

// MaxPasswordBytes is the longest password bcrypt can hash.
const MaxPasswordBytes = 72

// DefaultPhoneCode is the country code assigned when none is supplied.
const DefaultPhoneCode = "RW"

// AccountType is the role of an account.
type AccountType string

const (
	AccountTypeUser       AccountType = "User"
	AccountTypeSeller     AccountType = "Seller"
	AccountTypeAdmin      AccountType = "Admin"
	AccountTypeSuperAdmin AccountType = "SuperAdmin"
)

// IsValid checks if the AccountType is one of the defined constants.
func (t AccountType) IsValid() bool {
	switch t {
	case AccountTypeUser, AccountTypeSeller, AccountTypeAdmin, AccountTypeSuperAdmin:
		return true
	}
	return false
}

// IsAdmin reports whether the type carries administrative privileges.
func (t AccountType) IsAdmin() bool {
	return t == AccountTypeAdmin || t == AccountTypeSuperAdmin
}

// User is an account. PasswordHash is never exposed outside the service.
type User struct {
	ID           primitive.ObjectID
	FirstName    string
	LastName     string
	Email        string
	Username     string
	PhoneCode    string
	PhoneNumber  string
	Bio          string
	PasswordHash string
	Avatar       string
	ReferredBy   *primitive.ObjectID
	Type         AccountType
	IsDeleted    bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PublicProfile is the fixed projection of a user shown to other users.
type PublicProfile struct {
	ID        primitive.ObjectID
	FirstName string
	LastName  string
	Username  string
	Avatar    string
}

// Public returns the public projection of u.
func (u *User) Public() PublicProfile {
	return PublicProfile{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Username:  u.Username,
		Avatar:    u.Avatar,
	}
}

// UserProfile is a user with the per-query social graph fields.
type UserProfile struct {
	User           *User
	FollowerCount  int64
	FollowingCount int64
	IsFollowing    bool
}

// NewUserInput carries the fields of a self-service registration.
type NewUserInput struct {
	FirstName   string
	LastName    string
	Username    string
	Email       string
	Password    string
	PhoneNumber string
	PhoneCode   string
	ReferredBy  string
	Type        AccountType
}

// Validate checks the registration input, without touching the store.
func (in NewUserInput) Validate() error {
	if strings.TrimSpace(in.FirstName) == "" || strings.TrimSpace(in.LastName) == "" {
		return Invalidf("first and last name are required")
	}
	if !IsEmail(in.Email) {
		return Invalidf("please provide a valid email")
	}
	if in.Password == "" {
		return Invalidf("password is required")
	}
	if len(in.Password) > MaxPasswordBytes {
		return ErrLongPassword
	}
	if in.Username != "" && !isValidUsername(in.Username) {
		return Invalidf("username may only contain letters, digits and underscores")
	}
	if in.Type != "" && !in.Type.IsValid() {
		return Invalidf("please provide a valid user account type")
	}
	return nil
}

// UpdateUserInput carries optional profile edits. A nil field is left untouched.
type UpdateUserInput struct {
	FirstName          *string
	LastName           *string
	Username           *string
	Email              *string
	PhoneNumber        *string
	PhoneCode          *string
	Bio                *string
	ShouldRemoveAvatar bool
	AvatarInput        *FileInput
}

// Apply copies the present fields of in onto u.
func (in UpdateUserInput) Apply(u *User) error {
	if in.FirstName != nil {
		if strings.TrimSpace(*in.FirstName) == "" {
			return Invalidf("first name cannot be empty")
		}
		u.FirstName = strings.TrimSpace(*in.FirstName)
	}
	if in.LastName != nil {
		if strings.TrimSpace(*in.LastName) == "" {
			return Invalidf("last name cannot be empty")
		}
		u.LastName = strings.TrimSpace(*in.LastName)
	}
	if in.Username != nil {
		if !isValidUsername(*in.Username) {
			return Invalidf("username may only contain letters, digits and underscores")
		}
		u.Username = *in.Username
	}
	if in.Email != nil {
		if !IsEmail(*in.Email) {
			return Invalidf("please provide a valid email")
		}
		u.Email = NormalizeEmail(*in.Email)
	}
	if in.PhoneNumber != nil {
		u.PhoneNumber = *in.PhoneNumber
	}
	if in.PhoneCode != nil {
		u.PhoneCode = *in.PhoneCode
	}
	if in.Bio != nil {
		u.Bio = *in.Bio
	}
	return nil
}

// UserFilter narrows an admin listing of users.
type UserFilter struct {
	PageRequest
	Type AccountType
}

// GenerateUsername builds the candidate lower(first)_lower(last)NN.
func GenerateUsername(firstName, lastName string, suffix int) string {
	clean := func(s string) string {
		return strings.ToLower(strings.Join(strings.Fields(s), ""))
	}
	return fmt.Sprintf("%s_%s%d", clean(firstName), clean(lastName), suffix)
}

// NormalizeEmail trims and lower-cases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// IsEmail is a shape check only. Deliverability is never verified.
func IsEmail(s string) bool {
	s = strings.TrimSpace(s)
	at := strings.LastIndex(s, "@")
	if at < 1 || at == len(s)-1 {
		return false
	}
	return strings.Contains(s[at+1:], ".") && !strings.ContainsAny(s, " \t\n")
}

// ValidatePassword enforces the password length bounds.
func ValidatePassword(password string) error {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return ErrWeakPassword
	}
	if len(password) > MaxPasswordBytes {
		return ErrLongPassword
	}
	return nil
}

func isValidUsername(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '_') {
			return false
		}
	}
	return true
}
