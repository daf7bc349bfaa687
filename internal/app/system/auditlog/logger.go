// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"net/http"
	"strconv"

	"github.com/dalemusser/exhibithub/internal/app/store/audit"
	"github.com/dalemusser/exhibithub/internal/domain/models"
	"go.uber.org/zap"
)

// Destinations accepted by Config fields.
const (
	DestAll = "all" // MongoDB + zap
	DestDB  = "db"  // MongoDB only
	DestLog = "log" // zap only
	DestOff = "off" // disabled
)

// ValidDestination reports whether v is one of the destination values.
func ValidDestination(v string) bool {
	switch v {
	case DestAll, DestDB, DestLog, DestOff:
		return true
	}
	return false
}

// Config holds audit logging configuration.
type Config struct {
	// Admin controls logging for operator actions in the panel.
	Admin string
	// Ingest controls logging for exhibitctl import runs.
	Ingest string
}

// Logger provides convenience methods for logging audit events.
// It logs to MongoDB (via audit.Store) and structured logs (via zap).
type Logger struct {
	store  *audit.Store
	zapLog *zap.Logger
	config Config
}

// New creates a new audit Logger. store may be nil when no destination is "db" or "all".
func New(store *audit.Store, zapLog *zap.Logger, config Config) *Logger {
	return &Logger{
		store:  store,
		zapLog: zapLog,
		config: config,
	}
}

// getClientIP extracts the client IP from the request.
func getClientIP(r *http.Request) string {
	if r == nil {
		return ""
	}
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return xff
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}

func userAgent(r *http.Request) string {
	if r == nil {
		return ""
	}
	return r.UserAgent()
}

// logToZap logs the event to zap with consistent structure.
func (l *Logger) logToZap(event audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
		zap.Bool("success", event.Success),
	}
	if event.TargetID != "" {
		fields = append(fields,
			zap.String("target_type", event.TargetType),
			zap.String("target_id", event.TargetID))
	}
	if event.BatchID != "" {
		fields = append(fields, zap.String("batch_id", event.BatchID))
	}
	if event.IP != "" {
		fields = append(fields, zap.String("ip", event.IP))
	}
	if event.FailureReason != "" {
		fields = append(fields, zap.String("failure_reason", event.FailureReason))
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}

	if event.Success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Warn("audit event", fields...)
	}
}

// Log records an audit event based on configuration.
// If the logger is nil, this is a no-op (allows tests to use nil audit logger).
func (l *Logger) Log(ctx context.Context, event audit.Event) {
	if l == nil {
		return
	}

	var setting string
	switch event.Category {
	case audit.CategoryAdmin:
		setting = l.config.Admin
	case audit.CategoryIngest:
		setting = l.config.Ingest
	default:
		setting = DestAll
	}
	if setting == "" {
		setting = DestLog
	}
	if setting == DestOff {
		return
	}

	if setting == DestAll || setting == DestLog {
		l.logToZap(event)
	}

	if (setting == DestAll || setting == DestDB) && l.store != nil {
		if err := l.store.Log(ctx, event); err != nil {
			l.zapLog.Error("failed to store audit event",
				zap.Error(err),
				zap.String("event_type", event.EventType),
			)
		}
	}
}

func (l *Logger) admin(ctx context.Context, r *http.Request, eventType, targetType, targetID string, details map[string]string) {
	l.Log(ctx, audit.Event{
		Category:   audit.CategoryAdmin,
		EventType:  eventType,
		TargetType: targetType,
		TargetID:   targetID,
		IP:         getClientIP(r),
		UserAgent:  userAgent(r),
		Success:    true,
		Details:    details,
	})
}

// --- Exhibition Events ---

// ExhibitionCreated logs a manual exhibition creation.
func (l *Logger) ExhibitionCreated(ctx context.Context, r *http.Request, e models.Exhibition) {
	l.admin(ctx, r, audit.EventExhibitionCreated, audit.TargetExhibition, e.ID, map[string]string{
		"title":     e.Title,
		"museum_id": e.MuseumID,
	})
}

// ExhibitionUpdated logs an edit; fieldsChanged is a comma-separated list.
func (l *Logger) ExhibitionUpdated(ctx context.Context, r *http.Request, id, fieldsChanged string) {
	l.admin(ctx, r, audit.EventExhibitionUpdated, audit.TargetExhibition, id, map[string]string{
		"fields_changed": fieldsChanged,
	})
}

// ExhibitionStatusChanged logs a status toggle.
func (l *Logger) ExhibitionStatusChanged(ctx context.Context, r *http.Request, id, status string) {
	l.admin(ctx, r, audit.EventExhibitionStatusChanged, audit.TargetExhibition, id, map[string]string{
		"status": status,
	})
}

// ExhibitionOfficialURLChanged logs an inline official URL edit.
func (l *Logger) ExhibitionOfficialURLChanged(ctx context.Context, r *http.Request, id, officialURL string) {
	l.admin(ctx, r, audit.EventExhibitionURLChanged, audit.TargetExhibition, id, map[string]string{
		"official_url": officialURL,
	})
}

// ExhibitionExcluded logs hiding an exhibition from the default listing.
func (l *Logger) ExhibitionExcluded(ctx context.Context, r *http.Request, id string) {
	l.admin(ctx, r, audit.EventExhibitionExcluded, audit.TargetExhibition, id, nil)
}

// ExhibitionRestored logs returning an excluded exhibition to the default listing.
func (l *Logger) ExhibitionRestored(ctx context.Context, r *http.Request, id string) {
	l.admin(ctx, r, audit.EventExhibitionRestored, audit.TargetExhibition, id, nil)
}

// ExhibitionDeleted logs a delete.
func (l *Logger) ExhibitionDeleted(ctx context.Context, r *http.Request, id string) {
	l.admin(ctx, r, audit.EventExhibitionDeleted, audit.TargetExhibition, id, nil)
}

// --- Museum Events ---

// MuseumCreated logs a museum creation.
func (l *Logger) MuseumCreated(ctx context.Context, r *http.Request, m models.Museum) {
	l.admin(ctx, r, audit.EventMuseumCreated, audit.TargetMuseum, m.ID.Hex(), map[string]string{
		"name": m.Name,
	})
}

// MuseumUpdated logs a museum edit.
func (l *Logger) MuseumUpdated(ctx context.Context, r *http.Request, id, name string) {
	l.admin(ctx, r, audit.EventMuseumUpdated, audit.TargetMuseum, id, map[string]string{
		"name": name,
	})
}

// MuseumDeleted logs a museum delete.
func (l *Logger) MuseumDeleted(ctx context.Context, r *http.Request, id, name string) {
	l.admin(ctx, r, audit.EventMuseumDeleted, audit.TargetMuseum, id, map[string]string{
		"name": name,
	})
}

// --- Ingest Events ---

// ImportCreated logs an exhibition created by an import run.
func (l *Logger) ImportCreated(ctx context.Context, batchID string, e models.Exhibition) {
	l.Log(ctx, audit.Event{
		Category:   audit.CategoryIngest,
		EventType:  audit.EventImportCreated,
		TargetType: audit.TargetExhibition,
		TargetID:   e.ID,
		BatchID:    batchID,
		Success:    true,
		Details:    map[string]string{"title": e.Title, "museum_id": e.MuseumID},
	})
}

// ImportRejected logs an import entry that was not written.
func (l *Logger) ImportRejected(ctx context.Context, batchID, targetID, title, reason string) {
	l.Log(ctx, audit.Event{
		Category:      audit.CategoryIngest,
		EventType:     audit.EventImportRejected,
		TargetType:    audit.TargetExhibition,
		TargetID:      targetID,
		BatchID:       batchID,
		Success:       false,
		FailureReason: reason,
		Details:       map[string]string{"title": title},
	})
}

// ImportFinished logs the tallies of one import run.
func (l *Logger) ImportFinished(ctx context.Context, batchID, file string, created, exists, missingMuseum, invalid int) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryIngest,
		EventType: audit.EventImportFinished,
		BatchID:   batchID,
		Success:   true,
		Details: map[string]string{
			"file":             file,
			"created":          strconv.Itoa(created),
			"already_exists":   strconv.Itoa(exists),
			"museum_not_found": strconv.Itoa(missingMuseum),
			"invalid":          strconv.Itoa(invalid),
		},
	})
}
