package comm

import (
	"fmt"
	"sync"

	"github.com/gorilla/websocket"

	"minute_empire_server/pkg/logger"
)

// socket :
// One registered connection. The websocket package
// forbids concurrent writers on a connection, and the
// completion callbacks pushing frames run on their own
// goroutines, so every write goes through the `write`
// mutex of its socket.
type socket struct {
	conn  *websocket.Conn
	write sync.Mutex
}

// Registry :
// Keeps track of the WebSocket connections of the
// logged-in players. A player has at most one socket:
// opening a new one silently replaces the previous
// connection.
//
// The registry knows nothing about the game, it only
// moves frames. Sends that fail trigger the lazy
// removal of the offending socket, the client is
// expected to reconnect.
//
// The `lock` guards the map. Writes only happen on
// connect and disconnect, reads on every broadcast.
type Registry struct {
	lock    sync.Mutex
	sockets map[string]*socket
	log     logger.Logger
}

// Frame :
// The envelope of every outbound message.
type Frame struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// MapUpdateFrame : Type tag of the frames carrying a refreshed map view.
const MapUpdateFrame = "map_update"

// ErrNotConnected : The user has no registered socket.
var ErrNotConnected = fmt.Errorf("User has no active connection")

// NewRegistry :
// Creates an empty connection registry.
//
// The `log` allows to notify errors and information.
//
// Returns the created registry.
func NewRegistry(log logger.Logger) *Registry {
	return &Registry{
		sockets: make(map[string]*socket),
		log:     log,
	}
}

// Connect :
// Registers the input socket as the connection of the
// specified user. A previous socket of the same user
// is closed and replaced.
func (r *Registry) Connect(userID string, conn *websocket.Conn) {
	r.lock.Lock()
	defer r.lock.Unlock()

	if old, ok := r.sockets[userID]; ok {
		old.conn.Close()
	}

	r.sockets[userID] = &socket{conn: conn}
	r.log.Trace(logger.Verbose, "comm", fmt.Sprintf("User \"%s\" connected", userID))
}

// Disconnect :
// Removes the socket of the specified user, if the
// input connection is still the registered one. The
// check prevents a stale goroutine from tearing down
// a fresh reconnection.
func (r *Registry) Disconnect(userID string, conn *websocket.Conn) {
	r.lock.Lock()
	defer r.lock.Unlock()

	if current, ok := r.sockets[userID]; ok && current.conn == conn {
		delete(r.sockets, userID)
		r.log.Trace(logger.Verbose, "comm", fmt.Sprintf("User \"%s\" disconnected", userID))
	}

	conn.Close()
}

// Connected :
// Tells whether the specified user currently has a
// registered socket.
func (r *Registry) Connected(userID string) bool {
	r.lock.Lock()
	defer r.lock.Unlock()

	_, ok := r.sockets[userID]
	return ok
}

// Push :
// Sends a frame of the input type to the specified
// user. A user without a socket is not an error worth
// propagating: offline players just miss the hint and
// fetch a fresh map on their next request.
//
// Concurrent pushes to the same user are serialized on
// the write mutex of the socket, so two completions
// affecting the same player never write to the
// connection at the same time.
//
// A failing send tears the socket down.
func (r *Registry) Push(userID string, frameType string, data interface{}) error {
	r.lock.Lock()
	sock, ok := r.sockets[userID]
	r.lock.Unlock()

	if !ok {
		return ErrNotConnected
	}

	sock.write.Lock()
	err := sock.conn.WriteJSON(Frame{Type: frameType, Data: data})
	sock.write.Unlock()

	if err != nil {
		r.log.Trace(logger.Warning, "comm", fmt.Sprintf("Dropping connection of \"%s\" (%v)", userID, err))
		r.Disconnect(userID, sock.conn)
	}

	return err
}
