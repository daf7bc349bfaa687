// internal/app/features/exhibitions/handler.go
package exhibitions

import (
	"context"
	"time"

	uierrors "github.com/dalemusser/exhibithub/internal/app/features/errors"
	exhibitionstore "github.com/dalemusser/exhibithub/internal/app/store/exhibitions"
	museumstore "github.com/dalemusser/exhibithub/internal/app/store/museums"
	"github.com/dalemusser/exhibithub/internal/app/system/auditlog"
	"github.com/dalemusser/exhibithub/internal/app/system/flash"
	"github.com/dalemusser/exhibithub/internal/app/system/listcache"
	"github.com/dalemusser/exhibithub/internal/app/system/metrics"
	"github.com/dalemusser/exhibithub/internal/app/system/paging"
	"github.com/dalemusser/exhibithub/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// exhibitionStore is the part of the exhibition store the handlers use.
type exhibitionStore interface {
	CreateIfAbsent(ctx context.Context, museumID, title string, attrs exhibitionstore.Attributes) (models.Exhibition, error)
	GetByID(ctx context.Context, id string) (models.Exhibition, error)
	Update(ctx context.Context, id string, u exhibitionstore.Update) error
	UpdateStatus(ctx context.Context, id, status string) error
	UpdateOfficialURL(ctx context.Context, id, officialURL string) error
	SetExcluded(ctx context.Context, id string, excluded bool) error
	Delete(ctx context.Context, id string) (int64, error)
	List(f exhibitionstore.ListFilter) paging.Query[models.Exhibition]
}

// museumLister supplies the museum select options.
type museumLister interface {
	ListAll(ctx context.Context) ([]models.Museum, error)
}

// Handler is the feature-level entry point for Exhibitions.
type Handler struct {
	Log     *zap.Logger
	ErrLog  *uierrors.ErrorLogger
	Flash   *flash.Store
	Audit   *auditlog.Logger
	Metrics *metrics.Metrics
	Cache   *listcache.Cache

	store   exhibitionStore
	museums museumLister
	render  uierrors.RenderFunc
	now     func() time.Time
}

// NewHandler constructs an Exhibitions handler bound to a DB. flash, audit,
// metrics and cache may each be nil.
func NewHandler(db *mongo.Database, fl *flash.Store, audit *auditlog.Logger, met *metrics.Metrics, cache *listcache.Cache, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Log:     logger,
		ErrLog:  errLog,
		Flash:   fl,
		Audit:   audit,
		Metrics: met,
		Cache:   cache,
		store:   exhibitionstore.New(db, logger),
		museums: museumstore.New(db, logger),
		render:  uierrors.DefaultRender,
		now:     time.Now,
	}
}
