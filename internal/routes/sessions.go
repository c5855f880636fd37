package routes

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
)

// sessionCookie : Name of the cookie carrying the session token.
const sessionCookie = "minute_empire_session"

// sessionLifetime : How long a session stays valid without re-login.
const sessionLifetime = 24 * time.Hour

// session :
// A logged-in user along with the instant after which
// the session is no longer honored.
type session struct {
	userID  string
	expires time.Time
}

// sessionStore :
// Keeps the active sessions in memory. Tokens are opaque
// identifiers handed to clients through a cookie. The
// sessions do not survive a restart of the server, which
// only forces the players to log in again.
//
// The `lock` protects concurrent accesses to the map.
//
// The `sessions` maps a token to its session.
type sessionStore struct {
	lock     sync.Mutex
	sessions map[string]session
}

// newSessionStore :
// Creates an empty store.
func newSessionStore() *sessionStore {
	return &sessionStore{
		sessions: make(map[string]session),
	}
}

// Open :
// Creates a session for the input user.
//
// Returns the token identifying the session.
func (s *sessionStore) Open(userID string) string {
	token := uuid.New().String()

	s.lock.Lock()
	defer s.lock.Unlock()

	s.sessions[token] = session{
		userID:  userID,
		expires: time.Now().Add(sessionLifetime),
	}

	return token
}

// Resolve :
// Fetches the user attached to the input token. Expired
// sessions are dropped on the way.
//
// Returns the user identifier and whether the token is
// attached to a live session.
func (s *sessionStore) Resolve(token string) (string, bool) {
	s.lock.Lock()
	defer s.lock.Unlock()

	sess, ok := s.sessions[token]
	if !ok {
		return "", false
	}

	if time.Now().After(sess.expires) {
		delete(s.sessions, token)
		return "", false
	}

	return sess.userID, true
}

// Close :
// Drops the session attached to the input token. Unknown
// tokens are silently ignored.
func (s *sessionStore) Close(token string) {
	s.lock.Lock()
	defer s.lock.Unlock()

	delete(s.sessions, token)
}

// writeSessionCookie :
// Attaches the input token to the response.
func writeSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(sessionLifetime),
	})
}

// clearSessionCookie :
// Instructs the client to forget the session cookie.
func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}
