// Package flash carries one-shot notices across the redirect that follows a
// successful form post ("Exhibition created.", "Museum deleted.").
package flash

import (
	"fmt"
	"net/http"

	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

// DefaultSessionName is the cookie name used when none is configured.
const DefaultSessionName = "exhibithub-session"

const flashKey = "notice"

// Store reads and writes flash messages in a signed cookie session.
// A nil *Store is valid and drops every message.
type Store struct {
	cookies *sessions.CookieStore
	name    string
	log     *zap.Logger
}

// New builds a Store. sessionKey signs the cookie and must not be empty.
// In production (secure=true) the cookie is marked Secure.
func New(sessionKey, sessionName string, secure bool, logger *zap.Logger) (*Store, error) {
	if sessionKey == "" {
		return nil, fmt.Errorf("session key is empty; provide ≥32 random chars")
	}
	if len(sessionKey) < 32 {
		logger.Warn("session key is short; 32+ chars recommended",
			zap.Int("length", len(sessionKey)))
	}
	if sessionName == "" {
		sessionName = DefaultSessionName
	}

	cs := sessions.NewCookieStore([]byte(sessionKey))
	cs.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   3600,
		Secure:   secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}

	return &Store{cookies: cs, name: sessionName, log: logger}, nil
}

// Add queues msg for the next page render.
func (s *Store) Add(w http.ResponseWriter, r *http.Request, msg string) {
	if s == nil || msg == "" {
		return
	}
	sess, err := s.cookies.Get(r, s.name)
	if err != nil {
		// a cookie signed with an old key decodes to a fresh session
		s.log.Debug("flash: discarding unreadable session", zap.Error(err))
	}
	sess.AddFlash(msg, flashKey)
	if err := sess.Save(r, w); err != nil {
		s.log.Warn("flash: save session", zap.Error(err))
	}
}

// Pop returns and clears the queued messages joined by a space.
func (s *Store) Pop(w http.ResponseWriter, r *http.Request) string {
	if s == nil {
		return ""
	}
	sess, err := s.cookies.Get(r, s.name)
	if err != nil {
		return ""
	}
	flashes := sess.Flashes(flashKey)
	if len(flashes) == 0 {
		return ""
	}
	if err := sess.Save(r, w); err != nil {
		s.log.Warn("flash: save session", zap.Error(err))
	}

	out := ""
	for _, f := range flashes {
		msg, ok := f.(string)
		if !ok || msg == "" {
			continue
		}
		if out != "" {
			out += " "
		}
		out += msg
	}
	return out
}
