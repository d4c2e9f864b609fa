package mongodb

import (
	"context"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/platform/logger"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// TxManager runs functions inside multi-document transactions. The server
// must be a replica set member.
type TxManager struct {
	client *mongo.Client
	logger *logger.Logger
}

func NewTxManager(client *mongo.Client, log *logger.Logger) *TxManager {
	return &TxManager{client: client, logger: log.Named("TxManager")}
}

// WithTransaction commits when fn returns nil and aborts otherwise. The
// driver may call fn more than once on transient errors.
func (m *TxManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	session, err := m.client.StartSession()
	if err != nil {
		m.logger.Error("Failed to start session", zap.Error(err))
		return err
	}
	defer session.EndSession(context.WithoutCancel(ctx))

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	if err != nil {
		m.logger.Debug("Transaction aborted", zap.Error(err))
	}
	return err
}
