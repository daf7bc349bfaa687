// internal/app/features/museums/handler.go
package museums

import (
	"context"

	uierrors "github.com/dalemusser/exhibithub/internal/app/features/errors"
	exhibitionstore "github.com/dalemusser/exhibithub/internal/app/store/exhibitions"
	museumstore "github.com/dalemusser/exhibithub/internal/app/store/museums"
	"github.com/dalemusser/exhibithub/internal/app/system/auditlog"
	"github.com/dalemusser/exhibithub/internal/app/system/flash"
	"github.com/dalemusser/exhibithub/internal/app/system/metrics"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// exhibitionCounter reports how many exhibitions reference a museum.
type exhibitionCounter interface {
	CountByMuseum(ctx context.Context, museumID string) (int64, error)
}

// Handler is the feature-level entry point for Museums.
type Handler struct {
	DB      *mongo.Database
	Log     *zap.Logger
	ErrLog  *uierrors.ErrorLogger
	Flash   *flash.Store
	Audit   *auditlog.Logger
	Metrics *metrics.Metrics

	store       *museumstore.Store
	exhibitions exhibitionCounter
	render      uierrors.RenderFunc
}

// NewHandler constructs a Museums handler bound to a DB. flash, audit and
// metrics may be nil.
func NewHandler(db *mongo.Database, fl *flash.Store, audit *auditlog.Logger, met *metrics.Metrics, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:          db,
		Log:         logger,
		ErrLog:      errLog,
		Flash:       fl,
		Audit:       audit,
		Metrics:     met,
		store:       museumstore.New(db, logger),
		exhibitions: exhibitionstore.New(db, logger),
		render:      uierrors.DefaultRender,
	}
}
