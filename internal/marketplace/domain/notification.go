package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NotificationType classifies what a notification is about.
type NotificationType string

const (
	NotificationTypeUser           NotificationType = "User"
	NotificationTypeLike           NotificationType = "Like"
	NotificationTypeReview         NotificationType = "Review"
	NotificationTypeSystem         NotificationType = "System"
	NotificationTypeFollow         NotificationType = "Follow"
	NotificationTypeProduct        NotificationType = "Product"
	NotificationTypeAuthentication NotificationType = "Authentication"
)

// IsValid checks if the NotificationType is one of the defined constants.
func (t NotificationType) IsValid() bool {
	switch t {
	case NotificationTypeUser, NotificationTypeLike, NotificationTypeReview, NotificationTypeSystem,
		NotificationTypeFollow, NotificationTypeProduct, NotificationTypeAuthentication:
		return true
	}
	return false
}

// NotificationStatus is the severity shown with a notification.
type NotificationStatus string

const (
	NotificationStatusInfo    NotificationStatus = "Info"
	NotificationStatusError   NotificationStatus = "Error"
	NotificationStatusWarning NotificationStatus = "Warning"
	NotificationStatusSuccess NotificationStatus = "Success"
)

// IsValid checks if the NotificationStatus is one of the defined constants.
func (s NotificationStatus) IsValid() bool {
	switch s {
	case NotificationStatusInfo, NotificationStatusError, NotificationStatusWarning, NotificationStatusSuccess:
		return true
	}
	return false
}

const (
	DefaultPushHeading = "New Notification occurred"
	DefaultPushContent = "You have a new notification"
)

// Notification is addressed to one receiver and marked read in place.
type Notification struct {
	ID         primitive.ObjectID
	ReceiverID primitive.ObjectID
	SenderID   *primitive.ObjectID
	Type       NotificationType
	Status     NotificationStatus
	ProductID  *primitive.ObjectID
	IsRead     bool
	Title      string
	Content    string
	Link       string
	Icon       string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewNotification validates the required fields and stamps a fresh notification.
func NewNotification(n Notification) (*Notification, error) {
	if n.ReceiverID.IsZero() {
		return nil, Invalidf("a notification needs a receiver")
	}
	if !n.Type.IsValid() {
		return nil, Invalidf("invalid notification type %q", n.Type)
	}
	if n.Status == "" {
		n.Status = NotificationStatusInfo
	}
	if !n.Status.IsValid() {
		return nil, Invalidf("invalid notification status %q", n.Status)
	}
	now := time.Now().UTC()
	n.ID = primitive.NewObjectID()
	n.IsRead = false
	n.CreatedAt = now
	n.UpdatedAt = now
	return &n, nil
}

// PushHeading is the title, else the content, else a generic heading.
func (n *Notification) PushHeading() string {
	switch {
	case n.Title != "":
		return n.Title
	case n.Content != "":
		return n.Content
	}
	return DefaultPushHeading
}

// PushContent is the content, else a generic body.
func (n *Notification) PushContent() string {
	if n.Content != "" {
		return n.Content
	}
	return DefaultPushContent
}

// NotificationQuery identifies an existing notification for dedup.
type NotificationQuery struct {
	ReceiverID primitive.ObjectID
	SenderID   primitive.ObjectID
	Type       NotificationType
	ProductID  *primitive.ObjectID
}

// NotificationPage is a page of notifications plus the receiver's unread count.
type NotificationPage struct {
	Page[*Notification]
	UnreadCount int64
}

// PushMessage is what the push dispatcher delivers to devices.
type PushMessage struct {
	NotificationID string   `json:"notification_id"`
	Recipients     []string `json:"recipients"`
	Heading        string   `json:"heading"`
	Content        string   `json:"content"`
}

// FollowNotification builds the "X followed you" notification.
func FollowNotification(follower *User, followee primitive.ObjectID) Notification {
	sender := follower.ID
	return Notification{
		ReceiverID: followee,
		SenderID:   &sender,
		Type:       NotificationTypeFollow,
		Status:     NotificationStatusInfo,
		Title:      follower.FirstName + " followed you",
		Content:    follower.FirstName + " is now following you, you can follow back",
	}
}

// LikeNotification builds the "liked your product" notification.
func LikeNotification(liker *User, product *Product) Notification {
	sender := liker.ID
	productID := product.ID
	return Notification{
		ReceiverID: product.VendorID,
		SenderID:   &sender,
		Type:       NotificationTypeLike,
		Status:     NotificationStatusInfo,
		ProductID:  &productID,
		Content:    liker.FirstName + " just liked your product!",
	}
}
