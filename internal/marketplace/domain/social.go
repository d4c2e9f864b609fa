package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Follow is an edge in the social graph. (Follower, Followee) is unique.
type Follow struct {
	ID         primitive.ObjectID
	FollowerID primitive.ObjectID
	FolloweeID primitive.ObjectID
	CreatedAt  time.Time
}

// NewFollow creates a follow edge, rejecting self-follows.
func NewFollow(follower, followee primitive.ObjectID) (*Follow, error) {
	if follower == followee {
		return nil, ErrSelfFollow
	}
	return &Follow{
		ID:         primitive.NewObjectID(),
		FollowerID: follower,
		FolloweeID: followee,
		CreatedAt:  time.Now().UTC(),
	}, nil
}

// LikeTarget names the entity kind a like points at.
type LikeTarget string

const LikeTargetProduct LikeTarget = "product"

// Like is a (user, product) edge. Its presence means "liked".
type Like struct {
	ID        primitive.ObjectID
	UserID    primitive.ObjectID
	ProductID primitive.ObjectID
	CreatedAt time.Time
}

// NewLike creates a like edge. The product reference is mandatory.
func NewLike(user, product primitive.ObjectID) (*Like, error) {
	if product.IsZero() {
		return nil, Invalidf("a like must reference a product")
	}
	if user.IsZero() {
		return nil, Invalidf("a like must reference a user")
	}
	return &Like{
		ID:        primitive.NewObjectID(),
		UserID:    user,
		ProductID: product,
		CreatedAt: time.Now().UTC(),
	}, nil
}
