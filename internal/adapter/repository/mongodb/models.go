package mongodb

import (
	"time"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/marketplace/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type userDocument struct {
	ID           primitive.ObjectID  `bson:"_id"`
	FirstName    string              `bson:"first_name"`
	LastName     string              `bson:"last_name"`
	Email        string              `bson:"email"`
	Username     string              `bson:"username"`
	PhoneCode    string              `bson:"phone_code"`
	PhoneNumber  string              `bson:"phone_number,omitempty"`
	Bio          string              `bson:"bio,omitempty"`
	PasswordHash string              `bson:"password"`
	Avatar       string              `bson:"avatar,omitempty"`
	ReferredBy   *primitive.ObjectID `bson:"referred_by,omitempty"`
	Type         domain.AccountType  `bson:"type"`
	IsDeleted    bool                `bson:"is_deleted"`
	CreatedAt    time.Time           `bson:"created_at"`
	UpdatedAt    time.Time           `bson:"updated_at"`
}

func toUserDocument(u *domain.User) *userDocument {
	return &userDocument{
		ID:           u.ID,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Email:        u.Email,
		Username:     u.Username,
		PhoneCode:    u.PhoneCode,
		PhoneNumber:  u.PhoneNumber,
		Bio:          u.Bio,
		PasswordHash: u.PasswordHash,
		Avatar:       u.Avatar,
		ReferredBy:   u.ReferredBy,
		Type:         u.Type,
		IsDeleted:    u.IsDeleted,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func (d *userDocument) toDomain() *domain.User {
	return &domain.User{
		ID:           d.ID,
		FirstName:    d.FirstName,
		LastName:     d.LastName,
		Email:        d.Email,
		Username:     d.Username,
		PhoneCode:    d.PhoneCode,
		PhoneNumber:  d.PhoneNumber,
		Bio:          d.Bio,
		PasswordHash: d.PasswordHash,
		Avatar:       d.Avatar,
		ReferredBy:   d.ReferredBy,
		Type:         d.Type,
		IsDeleted:    d.IsDeleted,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

// publicProfileDocument is the fixed projection used when listing other users.
type publicProfileDocument struct {
	ID        primitive.ObjectID `bson:"_id"`
	FirstName string             `bson:"first_name"`
	LastName  string             `bson:"last_name"`
	Username  string             `bson:"username"`
	Avatar    string             `bson:"avatar,omitempty"`
}

var publicProjection = map[string]int{
	"_id":        1,
	"first_name": 1,
	"last_name":  1,
	"username":   1,
	"avatar":     1,
}

func (d publicProfileDocument) toDomain() domain.PublicProfile {
	return domain.PublicProfile{
		ID:        d.ID,
		FirstName: d.FirstName,
		LastName:  d.LastName,
		Username:  d.Username,
		Avatar:    d.Avatar,
	}
}

type walletDocument struct {
	ID                primitive.ObjectID `bson:"_id"`
	UserID            primitive.ObjectID `bson:"user_id"`
	BankName          string             `bson:"bank_name,omitempty"`
	BankCode          string             `bson:"bank_code,omitempty"`
	AccountName       string             `bson:"account_name,omitempty"`
	AccountNumber     string             `bson:"account_number,omitempty"`
	MobileMoneyCode   string             `bson:"mobile_money_code,omitempty"`
	MobileMoneyNumber string             `bson:"mobile_money_number,omitempty"`
	Received          float64            `bson:"received"`
	Spent             float64            `bson:"spent"`
	CreatedAt         time.Time          `bson:"created_at"`
	UpdatedAt         time.Time          `bson:"updated_at"`
}

func toWalletDocument(w *domain.Wallet) *walletDocument {
	return &walletDocument{
		ID:                w.ID,
		UserID:            w.UserID,
		BankName:          w.BankName,
		BankCode:          w.BankCode,
		AccountName:       w.AccountName,
		AccountNumber:     w.AccountNumber,
		MobileMoneyCode:   w.MobileMoneyCode,
		MobileMoneyNumber: w.MobileMoneyNumber,
		Received:          w.Received,
		Spent:             w.Spent,
		CreatedAt:         w.CreatedAt,
		UpdatedAt:         w.UpdatedAt,
	}
}

func (d *walletDocument) toDomain() *domain.Wallet {
	return &domain.Wallet{
		ID:                d.ID,
		UserID:            d.UserID,
		BankName:          d.BankName,
		BankCode:          d.BankCode,
		AccountName:       d.AccountName,
		AccountNumber:     d.AccountNumber,
		MobileMoneyCode:   d.MobileMoneyCode,
		MobileMoneyNumber: d.MobileMoneyNumber,
		Received:          d.Received,
		Spent:             d.Spent,
		CreatedAt:         d.CreatedAt,
		UpdatedAt:         d.UpdatedAt,
	}
}

type followDocument struct {
	ID         primitive.ObjectID `bson:"_id"`
	FollowerID primitive.ObjectID `bson:"follower_id"`
	FolloweeID primitive.ObjectID `bson:"followee_id"`
	CreatedAt  time.Time          `bson:"created_at"`
}

type likeDocument struct {
	ID        primitive.ObjectID `bson:"_id"`
	UserID    primitive.ObjectID `bson:"user_id"`
	ProductID primitive.ObjectID `bson:"product_id"`
	CreatedAt time.Time          `bson:"created_at"`
}

type notificationDocument struct {
	ID         primitive.ObjectID        `bson:"_id"`
	ReceiverID primitive.ObjectID        `bson:"receiver_id"`
	SenderID   *primitive.ObjectID       `bson:"sender_id,omitempty"`
	Type       domain.NotificationType   `bson:"type"`
	Status     domain.NotificationStatus `bson:"status"`
	ProductID  *primitive.ObjectID       `bson:"product_id,omitempty"`
	IsRead     bool                      `bson:"is_read"`
	Title      string                    `bson:"title,omitempty"`
	Content    string                    `bson:"content,omitempty"`
	Link       string                    `bson:"link,omitempty"`
	Icon       string                    `bson:"icon,omitempty"`
	CreatedAt  time.Time                 `bson:"created_at"`
	UpdatedAt  time.Time                 `bson:"updated_at"`
}

func toNotificationDocument(n *domain.Notification) *notificationDocument {
	return &notificationDocument{
		ID:         n.ID,
		ReceiverID: n.ReceiverID,
		SenderID:   n.SenderID,
		Type:       n.Type,
		Status:     n.Status,
		ProductID:  n.ProductID,
		IsRead:     n.IsRead,
		Title:      n.Title,
		Content:    n.Content,
		Link:       n.Link,
		Icon:       n.Icon,
		CreatedAt:  n.CreatedAt,
		UpdatedAt:  n.UpdatedAt,
	}
}

func (d *notificationDocument) toDomain() *domain.Notification {
	return &domain.Notification{
		ID:         d.ID,
		ReceiverID: d.ReceiverID,
		SenderID:   d.SenderID,
		Type:       d.Type,
		Status:     d.Status,
		ProductID:  d.ProductID,
		IsRead:     d.IsRead,
		Title:      d.Title,
		Content:    d.Content,
		Link:       d.Link,
		Icon:       d.Icon,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
}

type productDocument struct {
	ID          primitive.ObjectID     `bson:"_id"`
	Name        string                 `bson:"name"`
	Description string                 `bson:"description"`
	Code        string                 `bson:"code"`
	Category    domain.ProductCategory `bson:"category"`
	Images      []string               `bson:"images"`
	Price       float64                `bson:"price"`
	PriceMax    *float64               `bson:"price_max,omitempty"`
	Currency    domain.Currency        `bson:"currency"`
	IsDeleted   bool                   `bson:"is_deleted"`
	VendorID    primitive.ObjectID     `bson:"vendor_id"`
	CreatedAt   time.Time              `bson:"created_at"`
	UpdatedAt   time.Time              `bson:"updated_at"`
}

func toProductDocument(p *domain.Product) *productDocument {
	images := p.Images
	if images == nil {
		images = []string{}
	}
	return &productDocument{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Code:        p.Code,
		Category:    p.Category,
		Images:      images,
		Price:       p.Price,
		PriceMax:    p.PriceMax,
		Currency:    p.Currency,
		IsDeleted:   p.IsDeleted,
		VendorID:    p.VendorID,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func (d *productDocument) toDomain() *domain.Product {
	return &domain.Product{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		Code:        d.Code,
		Category:    d.Category,
		Images:      d.Images,
		Price:       d.Price,
		PriceMax:    d.PriceMax,
		Currency:    d.Currency,
		IsDeleted:   d.IsDeleted,
		VendorID:    d.VendorID,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

type otpDocument struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	Identifier string             `bson:"identifier"`
	Hash       string             `bson:"hash"`
	ExpireAt   time.Time          `bson:"expire_at"`
	CreatedAt  time.Time          `bson:"created_at"`
}

func (d *otpDocument) toDomain() *domain.OTP {
	return &domain.OTP{
		Identifier: d.Identifier,
		Hash:       d.Hash,
		ExpireAt:   d.ExpireAt,
		CreatedAt:  d.CreatedAt,
	}
}
