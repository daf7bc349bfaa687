// internal/app/features/errors/logger.go
package errors

import (
	"net/http"

	"go.uber.org/zap"
)

// ErrorLogger logs a failure with request context and renders the matching
// error page. Handlers hold one and call it instead of writing errors themselves.
type ErrorLogger struct {
	log    *zap.Logger
	render RenderFunc
}

// NewErrorLogger returns an ErrorLogger that renders through the template engine.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	return NewErrorLoggerWithRender(logger, DefaultRender)
}

// NewErrorLoggerWithRender is NewErrorLogger with a custom renderer.
func NewErrorLoggerWithRender(logger *zap.Logger, render RenderFunc) *ErrorLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ErrorLogger{log: logger, render: render}
}

func requestFields(r *http.Request, err error) []zap.Field {
	return []zap.Field{
		zap.Error(err),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
	}
}

func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// LogServerError logs msg at error level and renders a 500 page showing userMsg.
func (l *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg, backURL string) {
	l.log.Error(msg, requestFields(r, err)...)
	renderStatus(l.render, w, r, http.StatusInternalServerError, tmplError, "Something went wrong", userMsg, backURL)
}

// LogBadRequest logs msg at warn level and renders a 400 page showing userMsg.
func (l *ErrorLogger) LogBadRequest(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg, backURL string) {
	l.log.Warn(msg, requestFields(r, err)...)
	renderStatus(l.render, w, r, http.StatusBadRequest, tmplError, "Bad request", userMsg, backURL)
}

// HTMXLogServerError is LogServerError for endpoints that may be called by
// HTMX, where a full page would be swapped into a fragment. HTMX requests get
// a plain-text 500 instead.
func (l *ErrorLogger) HTMXLogServerError(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg, backURL string) {
	if !isHTMX(r) {
		l.LogServerError(w, r, msg, err, userMsg, backURL)
		return
	}
	l.log.Error(msg, requestFields(r, err)...)
	http.Error(w, userMsg, http.StatusInternalServerError)
}

// NotFound renders the not-found page without logging.
func (l *ErrorLogger) NotFound(w http.ResponseWriter, r *http.Request, userMsg, backURL string) {
	renderNotFound(l.render, w, r, userMsg, backURL)
}
