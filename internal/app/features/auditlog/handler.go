// internal/app/features/auditlog/handler.go
package auditlog

import (
	uierrors "github.com/alumhub/alumhub/internal/app/features/errors"
	auditstore "github.com/alumhub/alumhub/internal/app/store/audit"
	userstore "github.com/alumhub/alumhub/internal/app/store/users"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	DB     *mongo.Database
	Log    *zap.Logger
	ErrLog *uierrors.ErrorLogger
	Events *auditstore.Store
	Users  *userstore.Store
}

// NewHandler constructs the audit log viewer bound to the given Mongo
// database and logger.
func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:     db,
		Log:    logger,
		ErrLog: errLog,
		Events: auditstore.New(db),
		Users:  userstore.New(db),
	}
}
