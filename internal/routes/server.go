package routes

import (
	"fmt"
	"net/http"
	"os"

	ghandlers "github.com/gorilla/handlers"
	"github.com/spf13/viper"

	"minute_empire_server/internal/comm"
	"minute_empire_server/internal/data"
	"minute_empire_server/internal/engine"
	"minute_empire_server/pkg/dispatcher"
	"minute_empire_server/pkg/logger"
)

// Server :
// The HTTP surface of the game. It authenticates the
// players, forwards their commands to the engine and
// exposes the map view, both on request and through
// the WebSocket channel.
//
// The `port` defines where the endpoints are exposed.
//
// The `engine` performs every game operation.
//
// The `registry` keeps the active WebSocket conns.
//
// The `users` resolves credentials at login time.
//
// The `sessions` maps session cookies to users.
type Server struct {
	port     int
	engine   *engine.Engine
	registry *comm.Registry
	users    data.UserProxy
	sessions *sessionStore
	log      logger.Logger
}

// NewServer :
// Creates a server exposing the input engine.
//
// The `port` defines the listening port.
//
// The `eng` defines the game engine.
//
// The `registry` defines the connection registry that
// the WebSocket endpoint feeds.
//
// The `users` defines the access to the registered
// users.
//
// The `log` allows to notify errors and information.
//
// Returns the created server.
func NewServer(port int, eng *engine.Engine, registry *comm.Registry, users data.UserProxy, log logger.Logger) Server {
	return Server{
		port:     port,
		engine:   eng,
		registry: registry,
		users:    users,
		sessions: newSessionStore(),
		log:      log,
	}
}

// Serve :
// Builds the routes of the server and starts listening.
// This call only returns when the listener fails.
//
// Returns any error.
func (s *Server) Serve() error {
	router := s.routes()

	allowed := []string{"http://localhost:8080"}
	if viper.IsSet("Server.AllowedOrigins") {
		allowed = viper.GetStringSlice("Server.AllowedOrigins")
	}

	cors := ghandlers.CORS(
		ghandlers.AllowedOrigins(allowed),
		ghandlers.AllowedMethods([]string{"GET", "POST", "OPTIONS"}),
		ghandlers.AllowedHeaders([]string{"Content-Type"}),
		ghandlers.AllowCredentials(),
	)

	handler := ghandlers.CombinedLoggingHandler(os.Stdout, cors(router))

	s.log.Trace(logger.Notice, "server", fmt.Sprintf("Listening on port %d", s.port))

	return http.ListenAndServe(fmt.Sprintf(":%d", s.port), handler)
}

// routes :
// Registers the endpoints of the server.
func (s *Server) routes() *dispatcher.Router {
	router := dispatcher.NewRouter(s.log)

	router.HandleFunc("/users", dispatcher.WithSafetyNet(s.log, s.register)).Methods("POST")
	router.HandleFunc("/login", dispatcher.WithSafetyNet(s.log, s.login)).Methods("POST")
	router.HandleFunc("/logout", dispatcher.WithSafetyNet(s.log, s.withAuth(s.logout))).Methods("POST")
	router.HandleFunc("/me", dispatcher.WithSafetyNet(s.log, s.withAuth(s.whoAmI))).Methods("GET")

	router.HandleFunc("/villages", dispatcher.WithSafetyNet(s.log, s.withAuth(s.villages))).Methods("GET", "POST")
	router.HandleFunc("/map", dispatcher.WithSafetyNet(s.log, s.withAuth(s.mapInfo))).Methods("GET")
	router.HandleFunc("/ws", s.withAuth(s.openSocket)).Methods("GET")

	return router
}

// trace :
// Convenience wrapper around the logger.
func (s *Server) trace(level logger.Severity, msg string) {
	s.log.Trace(level, "server", msg)
}
