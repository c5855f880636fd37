package comm

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"minute_empire_server/pkg/logger"
)

// silentLogger :
// Logger swallowing every trace during the tests.
type silentLogger struct{}

func (silentLogger) Trace(level logger.Severity, module string, message string) {}

// connectedPair :
// Builds a real connection pair: the server side is the
// one handed to the registry, the client side drains the
// frames the way a browser would.
func connectedPair(t *testing.T) (*websocket.Conn, *websocket.Conn, func()) {
	upgrader := websocket.Upgrader{}
	accepted := make(chan *websocket.Conn, 1)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("Unable to upgrade test connection (err: %v)", err)
			return
		}
		accepted <- conn
	}))

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	client, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		srv.Close()
		t.Fatalf("Unable to dial test server (err: %v)", err)
	}

	server := <-accepted

	return server, client, func() {
		client.Close()
		server.Close()
		srv.Close()
	}
}

func TestPushToUnknownUser(t *testing.T) {
	r := NewRegistry(silentLogger{})

	if err := r.Push("ghost", MapUpdateFrame, nil); err != ErrNotConnected {
		t.Fatalf("Expected ErrNotConnected for an unregistered user, got %v", err)
	}
}

func TestPushSerializesConcurrentWriters(t *testing.T) {
	r := NewRegistry(silentLogger{})

	server, client, release := connectedPair(t)
	defer release()

	r.Connect("user", server)

	const writers = 16
	const framesPerWriter = 200

	received := make(chan struct{})
	go func() {
		defer close(received)
		for i := 0; i < writers*framesPerWriter; i++ {
			var frame Frame
			if err := client.ReadJSON(&frame); err != nil {
				t.Errorf("Unable to read frame %d (err: %v)", i, err)
				return
			}
			if frame.Type != MapUpdateFrame {
				t.Errorf("Expected frame type %q, got %q", MapUpdateFrame, frame.Type)
				return
			}
		}
	}()

	var group sync.WaitGroup
	for w := 0; w < writers; w++ {
		group.Add(1)
		go func() {
			defer group.Done()
			for i := 0; i < framesPerWriter; i++ {
				if err := r.Push("user", MapUpdateFrame, map[string]int{"seq": i}); err != nil {
					t.Errorf("Unexpected push failure (err: %v)", err)
					return
				}
			}
		}()
	}
	group.Wait()

	select {
	case <-received:
	case <-time.After(10 * time.Second):
		t.Fatalf("Timed out waiting for the pushed frames")
	}

	if !r.Connected("user") {
		t.Fatalf("Expected the connection to survive the concurrent pushes")
	}
}

func TestConnectReplacesPreviousSocket(t *testing.T) {
	r := NewRegistry(silentLogger{})

	first, _, releaseFirst := connectedPair(t)
	defer releaseFirst()
	second, _, releaseSecond := connectedPair(t)
	defer releaseSecond()

	r.Connect("user", first)
	r.Connect("user", second)

	// Tearing down the first socket must not unregister
	// the fresh one.
	r.Disconnect("user", first)

	if !r.Connected("user") {
		t.Fatalf("Expected the replacement socket to stay registered")
	}

	r.Disconnect("user", second)

	if r.Connected("user") {
		t.Fatalf("Expected the user to be unregistered after the last disconnect")
	}
}
