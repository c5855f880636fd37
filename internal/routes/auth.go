package routes

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"minute_empire_server/pkg/db"
	"minute_empire_server/pkg/handlers"
	"minute_empire_server/pkg/logger"
)

// credentialsData :
// The payload of the registration and login requests.
//
// The `Username` identifies the account.
//
// The `Password` is the clear text secret. Only a hash
// of it is ever persisted.
//
// The `FamilyName` labels the player's entities on the
// map. Only used at registration time, defaults to the
// username when left empty.
//
// The `Color` tints the player's entities on the map,
// as a `#RRGGBB` value. A random color is drawn when
// none is provided.
type credentialsData struct {
	Username   string `json:"username"`
	Password   string `json:"password"`
	FamilyName string `json:"family_name"`
	Color      string `json:"color"`
}

// userData :
// The public description of a logged-in user.
type userData struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	FamilyName string `json:"family_name"`
	Color      string `json:"color"`
}

// validColor :
// Tells whether the input string is a `#RRGGBB` color.
func validColor(color string) bool {
	if len(color) != 7 || color[0] != '#' {
		return false
	}

	for _, c := range color[1:] {
		hex := (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
		if !hex {
			return false
		}
	}

	return true
}

// randomColor :
// Draws a color for players registering without one.
func randomColor() string {
	return fmt.Sprintf("#%06X", rand.Intn(0x1000000))
}

// authenticatedFunc :
// A handler that requires a valid session. The resolved
// user identifier is provided along with the request.
type authenticatedFunc func(w http.ResponseWriter, r *http.Request, userID string)

// withAuth :
// Wraps the input handler so that it only executes for
// requests carrying a valid session cookie. Requests
// without one are answered with a `401`.
//
// Returns the wrapping handler.
func (s *Server) withAuth(next authenticatedFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(sessionCookie)
		if err != nil {
			handlers.WriteError(w, http.StatusUnauthorized, "Not logged in")
			return
		}

		userID, ok := s.sessions.Resolve(cookie.Value)
		if !ok {
			handlers.WriteError(w, http.StatusUnauthorized, "Session expired")
			return
		}

		next(w, r, userID)
	}
}

// register :
// Creates a new account along with its starting village
// and opens a session for it right away.
func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var creds credentialsData
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		handlers.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if len(creds.Username) == 0 || len(creds.Password) == 0 {
		handlers.WriteError(w, http.StatusBadRequest, "Username and password are mandatory")
		return
	}
	if len(creds.FamilyName) == 0 {
		creds.FamilyName = creds.Username
	}
	if len(creds.Color) == 0 {
		creds.Color = randomColor()
	}
	if !validColor(creds.Color) {
		handlers.WriteError(w, http.StatusBadRequest, "Color must use the #RRGGBB format")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(creds.Password), bcrypt.DefaultCost)
	if err != nil {
		s.trace(logger.Error, fmt.Sprintf("Failed to hash password for \"%s\" (err: %v)", creds.Username, err))
		handlers.WriteError(w, http.StatusInternalServerError, handlers.InternalServerErrorString())
		return
	}

	user, err := s.engine.RegisterUser(r.Context(), creds.Username, creds.FamilyName, creds.Color, string(hash))
	if err != nil {
		s.trace(logger.Warning, fmt.Sprintf("Failed to register \"%s\" (err: %v)", creds.Username, err))
		handlers.WriteError(w, http.StatusConflict, "Unable to register this username")
		return
	}

	writeSessionCookie(w, s.sessions.Open(user.ID))

	handlers.WriteJSON(w, http.StatusCreated, userData{
		ID:         user.ID,
		Username:   user.Username,
		FamilyName: user.FamilyName,
		Color:      user.Color,
	})
}

// login :
// Verifies the input credentials and opens a session.
func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var creds credentialsData
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		handlers.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := s.users.UserByUsername(r.Context(), creds.Username)
	if err != nil && err != db.ErrNoDocument {
		s.trace(logger.Error, fmt.Sprintf("Failed to fetch user \"%s\" (err: %v)", creds.Username, err))
		handlers.WriteError(w, http.StatusInternalServerError, handlers.InternalServerErrorString())
		return
	}

	// Answer unknown usernames and wrong passwords the
	// same way so that account names cannot be
	// enumerated.
	if err == db.ErrNoDocument ||
		bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(creds.Password)) != nil {
		handlers.WriteError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	writeSessionCookie(w, s.sessions.Open(user.ID))

	handlers.WriteJSON(w, http.StatusOK, userData{
		ID:         user.ID,
		Username:   user.Username,
		FamilyName: user.FamilyName,
		Color:      user.Color,
	})
}

// logout :
// Closes the session attached to the request.
func (s *Server) logout(w http.ResponseWriter, r *http.Request, userID string) {
	if cookie, err := r.Cookie(sessionCookie); err == nil {
		s.sessions.Close(cookie.Value)
	}
	clearSessionCookie(w)

	handlers.WriteJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

// whoAmI :
// Describes the user attached to the request.
func (s *Server) whoAmI(w http.ResponseWriter, r *http.Request, userID string) {
	user, err := s.users.User(r.Context(), userID)
	if err != nil {
		s.trace(logger.Error, fmt.Sprintf("Failed to fetch user \"%s\" (err: %v)", userID, err))
		handlers.WriteError(w, http.StatusInternalServerError, handlers.InternalServerErrorString())
		return
	}

	handlers.WriteJSON(w, http.StatusOK, userData{
		ID:         user.ID,
		Username:   user.Username,
		FamilyName: user.FamilyName,
		Color:      user.Color,
	})
}
