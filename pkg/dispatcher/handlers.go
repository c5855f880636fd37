package dispatcher

import (
	"fmt"
	"net/http"
	"strings"

	"minute_empire_server/pkg/logger"
)

// NotFound :
// Provides a handler logging the unmatched request and
// answering with a `404` code.
func NotFound(log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Trace(logger.Warning, module, fmt.Sprintf("No route to serve \"%v\"", r.URL))

		http.NotFound(w, r)
	}
}

// NotAllowed :
// Provides a handler logging the request and answering
// with a `405` code: the path exists but the verb is
// not supported on it.
func NotAllowed(log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Trace(logger.Warning, module, fmt.Sprintf("Unsupported method %s on \"%v\"", r.Method, r.URL))

		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// NoOp :
// Provides a handler doing nothing besides logging the
// request and answering with a success code. Used as
// the default handler of a freshly created route.
func NoOp(log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Trace(logger.Warning, module, fmt.Sprintf("Serving \"%v\" with no op handler", r.URL))
	}
}

// WithSafetyNet :
// Wraps a handler with a recovery mechanism: a panic
// escaping the handler is logged and turned into an
// internal server error instead of killing the server.
//
// The `log` receives the description of the failure.
//
// The `next` defines the handler to protect.
//
// Returns the wrapped handler.
func WithSafetyNet(log logger.Logger, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				log.Trace(logger.Error, module, fmt.Sprintf("Recovering from unexpected panic (err: %v)", err))

				http.Error(w, "Unexpected error while processing request", http.StatusInternalServerError)
			}
		}()

		next.ServeHTTP(w, r)
	}
}

// supportedMethods : The HTTP verbs a route may register.
var supportedMethods = map[string]bool{
	"GET":     true,
	"HEAD":    true,
	"POST":    true,
	"PUT":     true,
	"DELETE":  true,
	"CONNECT": true,
	"OPTIONS": true,
	"TRACE":   true,
	"PATCH":   true,
}

// filterMethods :
// Upper-cases the input verbs and drops the ones that
// are not valid HTTP methods, logging each rejection.
func filterMethods(methods []string, log logger.Logger) map[string]bool {
	filtered := make(map[string]bool)

	for _, method := range methods {
		consolidated := strings.ToUpper(method)

		if !supportedMethods[consolidated] {
			log.Trace(logger.Error, module, fmt.Sprintf("Filtering invalid HTTP method \"%s\"", method))
			continue
		}

		filtered[consolidated] = true
	}

	return filtered
}
