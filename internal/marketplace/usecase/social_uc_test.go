package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/marketplace/domain"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// metricsSpy counts the business events a usecase reports.
type metricsSpy struct {
	noopMetrics
	pushFailures  int
	notifications map[domain.NotificationType]int
	toggles       []bool
}

func (m *metricsSpy) PushFailed() { m.pushFailures++ }
func (m *metricsSpy) NotificationCreated(t domain.NotificationType) {
	if m.notifications == nil {
		m.notifications = map[domain.NotificationType]int{}
	}
	m.notifications[t]++
}
func (m *metricsSpy) FollowToggled(on bool) { m.toggles = append(m.toggles, on) }
func (m *metricsSpy) LikeToggled(on bool)   { m.toggles = append(m.toggles, on) }

type socialDeps struct {
	users    *MockUserRepository
	follows  *MockFollowRepository
	likes    *MockLikeRepository
	products *MockProductRepository
	notes    *MockNotificationRepository
	push     *MockPushDispatcher
	tx       *fakeTx
	metrics  *metricsSpy
}

func newSocialDeps() *socialDeps {
	return &socialDeps{
		users:    new(MockUserRepository),
		follows:  new(MockFollowRepository),
		likes:    new(MockLikeRepository),
		products: new(MockProductRepository),
		notes:    new(MockNotificationRepository),
		push:     new(MockPushDispatcher),
		tx:       &fakeTx{},
		metrics:  &metricsSpy{},
	}
}

func (d *socialDeps) notificationUsecase() *NotificationUsecase {
	return NewNotificationUsecase(d.notes, d.users, d.push, d.tx, d.metrics, logger.NewNop())
}

func (d *socialDeps) followUsecase() *FollowUsecase {
	return NewFollowUsecase(d.follows, d.users, d.notificationUsecase(), d.tx, d.metrics, logger.NewNop())
}

func (d *socialDeps) likeUsecase() *LikeUsecase {
	return NewLikeUsecase(d.likes, d.products, d.users, d.notificationUsecase(), d.tx, d.metrics, logger.NewNop())
}

func TestToggleFollow_SelfFollowFails(t *testing.T) {
	d := newSocialDeps()
	uc := d.followUsecase()
	user := newTestUser("jane", "doe")

	_, err := uc.ToggleFollow(context.Background(), user, user.ID.Hex())

	assert.ErrorIs(t, err, domain.ErrSelfFollow)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	d.users.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	assert.Zero(t, d.tx.calls)
}

func TestToggleFollow_MalformedID(t *testing.T) {
	d := newSocialDeps()

	_, err := d.followUsecase().ToggleFollow(context.Background(), newTestUser("jane", "doe"), "nope")

	assert.ErrorIs(t, err, domain.ErrInvalidID)
}

func TestToggleFollow_UnknownFollowee(t *testing.T) {
	d := newSocialDeps()
	missing := primitive.NewObjectID()
	d.users.On("GetByID", mock.Anything, missing).Return(nil, domain.ErrUserNotFound)

	_, err := d.followUsecase().ToggleFollow(context.Background(), newTestUser("jane", "doe"), missing.Hex())

	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Zero(t, d.tx.calls)
}

func TestToggleFollow_TwiceCreatesOneNotification(t *testing.T) {
	d := newSocialDeps()
	uc := d.followUsecase()
	a := newTestUser("alice", "a")
	b := newTestUser("bob", "b")

	d.users.On("GetByID", mock.Anything, b.ID).Return(b, nil)
	d.follows.On("Delete", mock.Anything, a.ID, b.ID).Return(false, nil).Once()
	d.follows.On("Delete", mock.Anything, a.ID, b.ID).Return(true, nil).Once()
	d.follows.On("Create", mock.Anything, mock.MatchedBy(func(f *domain.Follow) bool {
		return f.FollowerID == a.ID && f.FolloweeID == b.ID
	})).Return(nil).Once()
	d.notes.On("Exists", mock.Anything, domain.NotificationQuery{
		ReceiverID: b.ID, SenderID: a.ID, Type: domain.NotificationTypeFollow,
	}).Return(false, nil).Once()
	d.notes.On("Create", mock.Anything, mock.AnythingOfType("*domain.Notification")).Return(nil).Once()
	d.push.On("Send", mock.Anything, mock.MatchedBy(func(msg domain.PushMessage) bool {
		return len(msg.Recipients) == 1 && msg.Recipients[0] == b.Username && msg.Heading == "alice followed you"
	})).Return(nil).Once()
	d.follows.On("CountFollowers", mock.Anything, b.ID).Return(int64(1), nil).Once()
	d.follows.On("CountFollowers", mock.Anything, b.ID).Return(int64(0), nil).Once()
	d.follows.On("CountFollowing", mock.Anything, b.ID).Return(int64(3), nil)

	first, err := uc.ToggleFollow(context.Background(), a, b.ID.Hex())
	require.NoError(t, err)
	assert.True(t, first.IsFollowing)
	assert.Equal(t, int64(1), first.FollowerCount)
	assert.Equal(t, int64(3), first.FollowingCount)

	second, err := uc.ToggleFollow(context.Background(), a, b.ID.Hex())
	require.NoError(t, err)
	assert.False(t, second.IsFollowing)
	assert.Equal(t, int64(0), second.FollowerCount)

	d.follows.AssertNumberOfCalls(t, "Create", 1)
	d.notes.AssertNumberOfCalls(t, "Create", 1)
	d.push.AssertNumberOfCalls(t, "Send", 1)
	assert.Equal(t, []bool{true, false}, d.metrics.toggles)
	assert.Equal(t, 1, d.metrics.notifications[domain.NotificationTypeFollow])

	note := d.notes.Calls[1].Arguments.Get(1).(*domain.Notification)
	assert.Equal(t, b.ID, note.ReceiverID)
	assert.Equal(t, a.ID, *note.SenderID)
	assert.Equal(t, "alice is now following you, you can follow back", note.Content)
	assert.False(t, note.IsRead)
}

func TestToggleFollow_RefollowDoesNotNotifyAgain(t *testing.T) {
	d := newSocialDeps()
	a := newTestUser("alice", "a")
	b := newTestUser("bob", "b")

	d.users.On("GetByID", mock.Anything, b.ID).Return(b, nil)
	d.follows.On("Delete", mock.Anything, a.ID, b.ID).Return(false, nil)
	d.follows.On("Create", mock.Anything, mock.Anything).Return(nil)
	d.notes.On("Exists", mock.Anything, mock.Anything).Return(true, nil)
	d.follows.On("CountFollowers", mock.Anything, b.ID).Return(int64(1), nil)
	d.follows.On("CountFollowing", mock.Anything, b.ID).Return(int64(0), nil)

	profile, err := d.followUsecase().ToggleFollow(context.Background(), a, b.ID.Hex())

	require.NoError(t, err)
	assert.True(t, profile.IsFollowing)
	d.notes.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	d.push.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestToggleFollow_PushFailureDoesNotFailToggle(t *testing.T) {
	d := newSocialDeps()
	a := newTestUser("alice", "a")
	b := newTestUser("bob", "b")

	d.users.On("GetByID", mock.Anything, b.ID).Return(b, nil)
	d.follows.On("Delete", mock.Anything, a.ID, b.ID).Return(false, nil)
	d.follows.On("Create", mock.Anything, mock.Anything).Return(nil)
	d.notes.On("Exists", mock.Anything, mock.Anything).Return(false, nil)
	d.notes.On("Create", mock.Anything, mock.Anything).Return(nil)
	d.push.On("Send", mock.Anything, mock.Anything).Return(errors.New("nats: no responders"))
	d.follows.On("CountFollowers", mock.Anything, b.ID).Return(int64(1), nil)
	d.follows.On("CountFollowing", mock.Anything, b.ID).Return(int64(0), nil)

	profile, err := d.followUsecase().ToggleFollow(context.Background(), a, b.ID.Hex())

	require.NoError(t, err)
	assert.True(t, profile.IsFollowing)
	assert.Equal(t, 1, d.metrics.pushFailures)
}

func TestToggleFollow_NotificationFailureAbortsToggle(t *testing.T) {
	d := newSocialDeps()
	a := newTestUser("alice", "a")
	b := newTestUser("bob", "b")

	d.users.On("GetByID", mock.Anything, b.ID).Return(b, nil)
	d.follows.On("Delete", mock.Anything, a.ID, b.ID).Return(false, nil)
	d.follows.On("Create", mock.Anything, mock.Anything).Return(nil)
	d.notes.On("Exists", mock.Anything, mock.Anything).Return(false, nil)
	d.notes.On("Create", mock.Anything, mock.Anything).Return(errors.New("write failed"))

	_, err := d.followUsecase().ToggleFollow(context.Background(), a, b.ID.Hex())

	require.Error(t, err)
	d.push.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
	assert.Empty(t, d.metrics.toggles)
}

func TestFollowUsecase_Profile(t *testing.T) {
	d := newSocialDeps()
	viewer := newTestUser("alice", "a")
	target := newTestUser("bob", "b")
	d.follows.On("CountFollowers", mock.Anything, target.ID).Return(int64(10), nil)
	d.follows.On("CountFollowing", mock.Anything, target.ID).Return(int64(2), nil)
	d.follows.On("Exists", mock.Anything, viewer.ID, target.ID).Return(true, nil)

	profile, err := d.followUsecase().Profile(context.Background(), target, viewer)

	require.NoError(t, err)
	assert.Equal(t, int64(10), profile.FollowerCount)
	assert.Equal(t, int64(2), profile.FollowingCount)
	assert.True(t, profile.IsFollowing)
}

func TestListFollowers_Paginates(t *testing.T) {
	d := newSocialDeps()
	user := newTestUser("bob", "b")
	req := domain.PageRequest{Page: 3, Take: 20}
	tail := make([]domain.PublicProfile, 5)
	d.follows.On("ListFollowers", mock.Anything, user.ID, req).Return(tail, int64(45), nil)

	page, err := d.followUsecase().ListFollowers(context.Background(), user.ID.Hex(), req)

	require.NoError(t, err)
	assert.Len(t, page.List, 5)
	assert.Equal(t, int64(45), page.TotalCount)
	assert.Equal(t, int64(3), page.TotalPages)
}

func likeFixture(d *socialDeps) (vendor *domain.User, product *domain.Product) {
	vendor = newTestUser("vera", "vendor")
	product = &domain.Product{ID: primitive.NewObjectID(), Name: "Lamp", VendorID: vendor.ID}
	d.products.On("GetByID", mock.Anything, product.ID).Return(product, nil)
	d.users.On("GetByID", mock.Anything, vendor.ID).Return(vendor, nil)
	return vendor, product
}

func TestToggleLike_VendorNeverNotified(t *testing.T) {
	d := newSocialDeps()
	vendor, product := likeFixture(d)
	d.likes.On("Delete", mock.Anything, vendor.ID, product.ID).Return(false, nil)
	d.likes.On("Create", mock.Anything, mock.Anything).Return(nil)
	d.likes.On("CountByProduct", mock.Anything, product.ID).Return(int64(1), nil)

	view, err := d.likeUsecase().ToggleLike(context.Background(), vendor, product.ID.Hex())

	require.NoError(t, err)
	require.NotNil(t, view.IsLiked)
	assert.True(t, *view.IsLiked)
	assert.Equal(t, int64(1), view.LikeCount)
	d.notes.AssertNotCalled(t, "Exists", mock.Anything, mock.Anything)
	d.notes.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	d.push.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestToggleLike_NotifiesVendorOnce(t *testing.T) {
	d := newSocialDeps()
	vendor, product := likeFixture(d)
	liker := newTestUser("larry", "liker")

	d.likes.On("Delete", mock.Anything, liker.ID, product.ID).Return(false, nil).Once()
	d.likes.On("Delete", mock.Anything, liker.ID, product.ID).Return(true, nil).Once()
	d.likes.On("Create", mock.Anything, mock.Anything).Return(nil).Once()
	d.notes.On("Exists", mock.Anything, mock.MatchedBy(func(q domain.NotificationQuery) bool {
		return q.Type == domain.NotificationTypeLike && q.ReceiverID == vendor.ID &&
			q.SenderID == liker.ID && q.ProductID != nil && *q.ProductID == product.ID
	})).Return(false, nil).Once()
	d.notes.On("Create", mock.Anything, mock.Anything).Return(nil).Once()
	d.push.On("Send", mock.Anything, mock.Anything).Return(nil).Once()
	d.likes.On("CountByProduct", mock.Anything, product.ID).Return(int64(1), nil).Once()
	d.likes.On("CountByProduct", mock.Anything, product.ID).Return(int64(0), nil).Once()

	uc := d.likeUsecase()
	liked, err := uc.ToggleLike(context.Background(), liker, product.ID.Hex())
	require.NoError(t, err)
	assert.True(t, *liked.IsLiked)

	unliked, err := uc.ToggleLike(context.Background(), liker, product.ID.Hex())
	require.NoError(t, err)
	assert.False(t, *unliked.IsLiked)
	assert.Equal(t, int64(0), unliked.LikeCount)

	d.notes.AssertNumberOfCalls(t, "Create", 1)
	note := d.notes.Calls[1].Arguments.Get(1).(*domain.Notification)
	assert.Equal(t, "larry just liked your product!", note.Content)
}

func TestToggleLike_ProductWithoutVendorIsNotFound(t *testing.T) {
	d := newSocialDeps()
	product := &domain.Product{ID: primitive.NewObjectID(), VendorID: primitive.NewObjectID()}
	d.products.On("GetByID", mock.Anything, product.ID).Return(product, nil)
	d.users.On("GetByID", mock.Anything, product.VendorID).Return(nil, domain.ErrUserNotFound)

	_, err := d.likeUsecase().ToggleLike(context.Background(), newTestUser("larry", "liker"), product.ID.Hex())

	assert.ErrorIs(t, err, domain.ErrProductNotFound)
	assert.Zero(t, d.tx.calls)
}

func TestGetLikes(t *testing.T) {
	d := newSocialDeps()
	productID := primitive.NewObjectID()
	req := domain.PageRequest{Page: 1, Take: 20}
	d.likes.On("ListLikers", mock.Anything, productID, req).Return([]domain.PublicProfile{{Username: "larry"}}, int64(1), nil)

	page, err := d.likeUsecase().GetLikes(context.Background(), domain.LikeTargetProduct, productID.Hex(), domain.PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.TotalPages)

	_, err = d.likeUsecase().GetLikes(context.Background(), domain.LikeTarget("review"), productID.Hex(), req)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestMarkNotificationAsRead_FailsQuietly(t *testing.T) {
	d := newSocialDeps()
	uc := d.notificationUsecase()
	receiver := newTestUser("bob", "b")
	foreign := primitive.NewObjectID()
	own := primitive.NewObjectID()

	d.notes.On("MarkRead", mock.Anything, foreign, receiver.ID).Return(domain.ErrNotificationNotFound)
	d.notes.On("MarkRead", mock.Anything, own, receiver.ID).Return(nil)

	assert.False(t, uc.MarkNotificationAsRead(context.Background(), "garbage", receiver).Success)
	assert.False(t, uc.MarkNotificationAsRead(context.Background(), foreign.Hex(), receiver).Success)
	assert.True(t, uc.MarkNotificationAsRead(context.Background(), own.Hex(), receiver).Success)
}

func TestMarkAllAsRead(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		d := newSocialDeps()
		receiver := newTestUser("bob", "b")
		d.notes.On("MarkPageRead", mock.Anything, receiver.ID, domain.PageRequest{Page: 1, Take: 20}).Return(int64(20), nil)

		res, err := d.notificationUsecase().MarkAllAsRead(context.Background(), domain.PageRequest{}, receiver)

		require.NoError(t, err)
		assert.True(t, res.Success)
		assert.Equal(t, "Successfully marked as read", res.Message)
		assert.Equal(t, 1, d.tx.calls)
	})

	t.Run("partial bulk write aborts", func(t *testing.T) {
		d := newSocialDeps()
		receiver := newTestUser("bob", "b")
		d.notes.On("MarkPageRead", mock.Anything, receiver.ID, mock.Anything).Return(int64(0), domain.ErrBulkWriteFailed)

		_, err := d.notificationUsecase().MarkAllAsRead(context.Background(), domain.PageRequest{}, receiver)

		assert.ErrorIs(t, err, domain.ErrConflict)
	})
}

func TestGetUserNotifications(t *testing.T) {
	d := newSocialDeps()
	receiver := newTestUser("bob", "b")
	req := domain.PageRequest{Page: 3, Take: 20}
	d.notes.On("ListByReceiver", mock.Anything, receiver.ID, req).Return(make([]*domain.Notification, 5), int64(45), nil)
	d.notes.On("CountUnread", mock.Anything, receiver.ID).Return(int64(7), nil)

	page, err := d.notificationUsecase().GetUserNotifications(context.Background(), receiver, req)

	require.NoError(t, err)
	assert.Len(t, page.List, 5)
	assert.Equal(t, int64(3), page.TotalPages)
	assert.Equal(t, int64(7), page.UnreadCount)
}

func TestDispatch_ReceiverLookupFailureIsCounted(t *testing.T) {
	d := newSocialDeps()
	n := &domain.Notification{ID: primitive.NewObjectID(), ReceiverID: primitive.NewObjectID()}
	d.users.On("GetByID", mock.Anything, n.ReceiverID).Return(nil, domain.ErrUserNotFound)

	d.notificationUsecase().Dispatch(context.Background(), n, nil)

	assert.Equal(t, 1, d.metrics.pushFailures)
	d.push.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}
