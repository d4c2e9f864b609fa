//go:build integration

package mongodb

import (
	"context"
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/marketplace/domain"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/platform/logger"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	testClient *mongo.Client
	testDB     *mongo.Database
	testLogger = logger.NewNop()
)

// TestMain starts a single-node replica set so transactions are available.
func TestMain(m *testing.M) {
	pool, err := dockertest.NewPool("")
	if err != nil {
		log.Fatalf("Could not construct pool: %s", err)
	}
	if err := pool.Client.Ping(); err != nil {
		log.Fatalf("Could not connect to Docker: %s", err)
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "mongo",
		Tag:        "6.0",
		Cmd:        []string{"--replSet", "rs0", "--bind_ip_all"},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		log.Fatalf("Could not start MongoDB resource: %s", err)
	}
	uri := fmt.Sprintf("mongodb://%s/?directConnection=true", resource.GetHostPort("27017/tcp"))

	if err := pool.Retry(func() error {
		var errRetry error
		testClient, errRetry = mongo.Connect(context.Background(), options.Client().ApplyURI(uri))
		if errRetry != nil {
			return errRetry
		}
		return testClient.Ping(context.Background(), nil)
	}); err != nil {
		log.Fatalf("Could not connect to MongoDB: %s", err)
	}

	initiate := bson.D{{Key: "replSetInitiate", Value: bson.M{
		"_id":     "rs0",
		"members": bson.A{bson.M{"_id": 0, "host": "localhost:27017"}},
	}}}
	if err := testClient.Database("admin").RunCommand(context.Background(), initiate).Err(); err != nil {
		log.Fatalf("Could not initiate replica set: %s", err)
	}
	if err := pool.Retry(func() error {
		var status bson.M
		if err := testClient.Database("admin").RunCommand(context.Background(), bson.D{{Key: "hello", Value: 1}}).Decode(&status); err != nil {
			return err
		}
		if primary, _ := status["isWritablePrimary"].(bool); !primary {
			return fmt.Errorf("replica set has no primary yet")
		}
		return nil
	}); err != nil {
		log.Fatalf("Replica set never elected a primary: %s", err)
	}

	testDB = testClient.Database("test_marketplace_db")

	code := m.Run()

	_ = testClient.Disconnect(context.Background())
	if err := pool.Purge(resource); err != nil {
		log.Printf("Could not purge MongoDB resource: %s", err)
	}
	os.Exit(code)
}

func newUser(first, username string) *domain.User {
	now := time.Now().UTC().Truncate(time.Millisecond)
	return &domain.User{
		ID:           primitive.NewObjectID(),
		FirstName:    first,
		LastName:     "Tester",
		Email:        username + "@example.com",
		Username:     username,
		PhoneCode:    "RW",
		PasswordHash: "hash",
		Type:         domain.AccountTypeUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestUserRepository_UniqueIndexes(t *testing.T) {
	repo, err := NewUserRepository(testDB, testLogger)
	require.NoError(t, err)
	ctx := context.Background()

	jane := newUser("Jane", "jane_uniq")
	require.NoError(t, repo.Create(ctx, jane))

	dupUsername := newUser("Other", "jane_uniq")
	dupUsername.Email = "other_uniq@example.com"
	assert.ErrorIs(t, repo.Create(ctx, dupUsername), domain.ErrDuplicateUsername)

	dupEmail := newUser("Other", "other_uniq")
	dupEmail.Email = jane.Email
	assert.ErrorIs(t, repo.Create(ctx, dupEmail), domain.ErrDuplicateEmail)

	found, err := repo.GetByIdentity(ctx, "JANE_UNIQ@example.com")
	require.NoError(t, err)
	assert.Equal(t, jane.ID, found.ID)

	jane.IsDeleted = true
	require.NoError(t, repo.Update(ctx, jane))
	_, err = repo.GetByID(ctx, jane.ID)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	taken, err := repo.UsernameExists(ctx, "jane_uniq")
	require.NoError(t, err)
	assert.True(t, taken)
}

func TestTxManager_RollsBackOnError(t *testing.T) {
	users, err := NewUserRepository(testDB, testLogger)
	require.NoError(t, err)
	wallets, err := NewWalletRepository(testDB, testLogger)
	require.NoError(t, err)
	tx := NewTxManager(testClient, testLogger)
	ctx := context.Background()

	user := newUser("Rolled", "rolled_back")
	err = tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := users.Create(ctx, user); err != nil {
			return err
		}
		wallet := domain.NewWallet(user.ID)
		if err := wallets.Create(ctx, wallet); err != nil {
			return err
		}
		return wallets.Create(ctx, domain.NewWallet(user.ID))
	})
	assert.ErrorIs(t, err, domain.ErrDuplicateWallet)

	_, err = users.GetByID(ctx, user.ID)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
	_, err = wallets.GetByUserID(ctx, user.ID)
	assert.ErrorIs(t, err, domain.ErrWalletNotFound)
}

func TestFollowRepository_ListFollowers(t *testing.T) {
	users, err := NewUserRepository(testDB, testLogger)
	require.NoError(t, err)
	follows, err := NewFollowRepository(testDB, testLogger)
	require.NoError(t, err)
	ctx := context.Background()

	star := newUser("Star", "star_user")
	require.NoError(t, users.Create(ctx, star))

	var fans []*domain.User
	for i := 0; i < 3; i++ {
		fan := newUser(fmt.Sprintf("Fan%d", i), fmt.Sprintf("fan_%d", i))
		require.NoError(t, users.Create(ctx, fan))
		follow, err := domain.NewFollow(fan.ID, star.ID)
		require.NoError(t, err)
		require.NoError(t, follows.Create(ctx, follow))
		fans = append(fans, fan)
	}

	again, err := domain.NewFollow(fans[0].ID, star.ID)
	require.NoError(t, err)
	assert.ErrorIs(t, follows.Create(ctx, again), domain.ErrDuplicateFollow)

	fans[1].IsDeleted = true
	require.NoError(t, users.Update(ctx, fans[1]))

	list, total, err := follows.ListFollowers(ctx, star.ID, domain.PageRequest{Page: 1, Take: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, list, 1)
	assert.Equal(t, fans[2].ID, list[0].ID)

	list, total, err = follows.ListFollowers(ctx, star.ID, domain.PageRequest{Keyword: "fan0"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, list, 1)
	assert.Equal(t, "fan_0", list[0].Username)

	removed, err := follows.Delete(ctx, fans[0].ID, star.ID)
	require.NoError(t, err)
	assert.True(t, removed)
	removed, err = follows.Delete(ctx, fans[0].ID, star.ID)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestNotificationRepository_MarkPageRead(t *testing.T) {
	repo, err := NewNotificationRepository(testDB, testLogger)
	require.NoError(t, err)
	ctx := context.Background()
	receiver := primitive.NewObjectID()

	for i := 0; i < 5; i++ {
		n, err := domain.NewNotification(domain.Notification{
			ReceiverID: receiver,
			Type:       domain.NotificationTypeSystem,
			Title:      fmt.Sprintf("notice %d", i),
		})
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, n))
	}

	marked, err := repo.MarkPageRead(ctx, receiver, domain.PageRequest{Page: 1, Take: 3})
	require.NoError(t, err)
	assert.Equal(t, int64(3), marked)

	unread, err := repo.CountUnread(ctx, receiver)
	require.NoError(t, err)
	assert.Equal(t, int64(2), unread)

	assert.ErrorIs(t, repo.MarkRead(ctx, primitive.NewObjectID(), receiver), domain.ErrNotificationNotFound)
}

func TestOTPRepository_ConsumeIsSingleUse(t *testing.T) {
	repo, err := NewOTPRepository(testDB, testLogger)
	require.NoError(t, err)
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, repo.Upsert(ctx, domain.NewOTP("otp@example.com", "11111", now)))
	require.NoError(t, repo.Upsert(ctx, domain.NewOTP("otp@example.com", "22222", now)))

	_, err = repo.Consume(ctx, domain.HashOTP("11111"))
	assert.ErrorIs(t, err, domain.ErrInvalidOTP)

	otp, err := repo.Consume(ctx, domain.HashOTP("22222"))
	require.NoError(t, err)
	assert.Equal(t, "otp@example.com", otp.Identifier)

	_, err = repo.Consume(ctx, domain.HashOTP("22222"))
	assert.ErrorIs(t, err, domain.ErrInvalidOTP)
}

func TestOTPRepository_LiveCodesAreUniqueAcrossIdentifiers(t *testing.T) {
	repo, err := NewOTPRepository(testDB, testLogger)
	require.NoError(t, err)
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, repo.Upsert(ctx, domain.NewOTP("first@example.com", "33333", now)))
	err = repo.Upsert(ctx, domain.NewOTP("second@example.com", "33333", now))
	assert.ErrorIs(t, err, domain.ErrDuplicateOTP)

	otp, err := repo.Consume(ctx, domain.HashOTP("33333"))
	require.NoError(t, err)
	assert.Equal(t, "first@example.com", otp.Identifier)
}
