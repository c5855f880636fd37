package dispatcher

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"minute_empire_server/pkg/logger"
)

// silentLogger :
// Logger swallowing every trace during the tests.
type silentLogger struct{}

func (silentLogger) Trace(level logger.Severity, module string, message string) {}

func testRouter() (*Router, logger.Logger) {
	log := silentLogger{}
	return NewRouter(log), log
}

func TestRouterMatchesExactPath(t *testing.T) {
	router, _ := testRouter()

	served := false
	router.HandleFunc("/map", func(w http.ResponseWriter, r *http.Request) {
		served = true
	}).Methods("GET")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/map", nil))

	if !served {
		t.Fatalf("Expected \"/map\" to be served by its handler")
	}
}

func TestRouterServesSubtree(t *testing.T) {
	router, _ := testRouter()

	var path string
	router.HandleFunc("/villages", func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
	}).Methods("POST")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("POST", "/villages/abc/command", nil))

	if path != "/villages/abc/command" {
		t.Fatalf("Expected subtree request to reach the \"/villages\" handler, got path %q", path)
	}
}

func TestRouterDoesNotMatchLongerElement(t *testing.T) {
	router, _ := testRouter()

	router.HandleFunc("/map", func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("\"/mapinfo\" should not reach the \"/map\" handler")
	}).Methods("GET")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/mapinfo", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("Expected 404 for unmatched path, got %d", rec.Code)
	}
}

func TestRouterRejectsUnsupportedVerb(t *testing.T) {
	router, _ := testRouter()

	router.HandleFunc("/map", func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("Handler should not run for an unsupported verb")
	}).Methods("GET")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("POST", "/map", nil))

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("Expected 405 for unsupported verb, got %d", rec.Code)
	}
}

func TestWithSafetyNetRecovers(t *testing.T) {
	_, log := testRouter()

	handler := WithSafetyNet(log, func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest("GET", "/map", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("Expected 500 after a recovered panic, got %d", rec.Code)
	}
}
