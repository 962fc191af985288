// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"

	auditstore "github.com/alumhub/alumhub/internal/app/store/audit"
	"github.com/alumhub/alumhub/internal/app/store/oauthstate"
	"github.com/alumhub/alumhub/internal/app/store/passwordreset"
	paymentstore "github.com/alumhub/alumhub/internal/app/store/payments"
	userstore "github.com/alumhub/alumhub/internal/app/store/users"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// EnsureSchema creates the indexes every store relies on: the unique user
// email, the payment lookup indexes, and the TTL indexes that expire
// password reset tokens and OAuth state entries.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	db := deps.AlumHubMongoDatabase

	if err := userstore.New(db).EnsureIndexes(ctx); err != nil {
		return err
	}
	if err := paymentstore.New(db).EnsureIndexes(ctx); err != nil {
		return err
	}
	if err := auditstore.New(db).EnsureIndexes(ctx); err != nil {
		return err
	}
	if err := passwordreset.New(db, appCfg.ResetExpiry).EnsureIndexes(ctx); err != nil {
		return err
	}
	if err := oauthstate.New(db).EnsureIndexes(ctx); err != nil {
		return err
	}

	logger.Info("database indexes ensured")
	return nil
}
