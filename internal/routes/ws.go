package routes

import (
	"fmt"
	"net/http"

	"github.com/gorilla/websocket"

	"minute_empire_server/pkg/logger"
)

// upgrader :
// Promotes HTTP requests to WebSocket connections. The
// origin is already validated by the CORS layer so the
// check is relaxed here.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// openSocket :
// Promotes the request to a WebSocket connection and
// registers it for the caller. The server never expects
// anything on the socket: the read loop only serves to
// detect the disconnection.
func (s *Server) openSocket(w http.ResponseWriter, r *http.Request, userID string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.trace(logger.Warning, fmt.Sprintf("Failed to upgrade connection for \"%s\" (err: %v)", userID, err))
		return
	}

	s.registry.Connect(userID, conn)

	go s.drainSocket(userID, conn)
}

// drainSocket :
// Consumes and discards incoming frames until the peer
// goes away, then unregisters the connection.
func (s *Server) drainSocket(userID string, conn *websocket.Conn) {
	defer s.registry.Disconnect(userID, conn)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			s.trace(logger.Verbose, fmt.Sprintf("Connection closed for \"%s\" (err: %v)", userID, err))
			return
		}
	}
}
