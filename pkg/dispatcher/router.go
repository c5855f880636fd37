package dispatcher

import (
	"net/http"
	"strings"

	"minute_empire_server/pkg/logger"
)

// module : Tag used by this package when logging.
const module = "dispatcher"

// matching :
// Outcome of confronting a request with a route: the
// path may not correspond at all, correspond with an
// unsupported verb, or fully match.
type matching int

const (
	notFound matching = iota
	methodNotAllowed
	matched
)

// Route :
// Associates a path and a set of HTTP verbs with a
// handler. A request is directed to the route when its
// path starts with the route's path, its next path
// element (if any) continues past it, and its method
// belongs to the registered verbs. This prefix match
// allows routes such as `/villages` to also serve
// `/villages/<id>` without registering every child.
//
// The `methods` defines the accepted HTTP verbs.
//
// The `name` defines the absolute path of the route.
//
// The `handler` defines the processing to trigger.
type Route struct {
	methods map[string]bool
	name    string
	handler http.Handler
	log     logger.Logger
}

// NewRoute :
// Creates a route on the input path with no method
// and a handler answering `200` with no effect.
//
// Returns the created route.
func NewRoute(path string, log logger.Logger) *Route {
	return &Route{
		methods: make(map[string]bool),
		name:    path,
		handler: NoOp(log),
		log:     log,
	}
}

// Methods :
// Registers the input HTTP verbs as accepted by this
// route. Verbs are upper-cased, unknown ones are
// filtered out with a log entry.
//
// Returns this route to allow chaining.
func (r *Route) Methods(methods ...string) *Route {
	for method := range filterMethods(methods, r.log) {
		r.methods[method] = true
	}

	return r
}

// HandlerFunc :
// Assigns the processing function of this route.
//
// Returns this route to allow chaining.
func (r *Route) HandlerFunc(f func(http.ResponseWriter, *http.Request)) *Route {
	r.handler = http.HandlerFunc(f)

	return r
}

// match :
// Confronts the input request with this route.
func (r *Route) match(req *http.Request) matching {
	if !r.matchName(req.URL.Path) {
		return notFound
	}

	if _, ok := r.methods[req.Method]; !ok {
		return methodNotAllowed
	}

	return matched
}

// matchName :
// Tells whether the input path targets this route. The
// path must start with the route's name and the last
// element of the route's name must be a whole element
// of the path, so that `/map` does not capture a call
// to `/mapinfo`.
func (r *Route) matchName(path string) bool {
	if !strings.HasPrefix(path, r.name) {
		return false
	}

	routeElems := strings.Split(r.name, "/")
	pathElems := strings.Split(path, "/")

	if len(routeElems) > len(pathElems) {
		return false
	}

	return routeElems[len(routeElems)-1] == pathElems[len(routeElems)-1]
}

// Router :
// Dispatches incoming requests to the first registered
// route matching their path and verb. Unmatched paths
// get a `404`, matched paths with an unsupported verb
// a `405`.
type Router struct {
	notFoundHandler         http.Handler
	methodNotAllowedHandler http.Handler
	routes                  []*Route
	log                     logger.Logger
}

// NewRouter :
// Creates an empty router with the default not found
// and not allowed handlers.
//
// Returns the created router.
func NewRouter(log logger.Logger) *Router {
	return &Router{
		notFoundHandler:         NotFound(log),
		methodNotAllowedHandler: NotAllowed(log),
		routes:                  make([]*Route, 0),
		log:                     log,
	}
}

// HandleFunc :
// Registers a route on the input path served by the
// input function. An empty path is normalized to the
// root.
//
// Returns the created route so that verbs can be
// attached to it.
func (r *Router) HandleFunc(path string, f func(http.ResponseWriter, *http.Request)) *Route {
	if len(path) == 0 {
		path = "/"
	}

	route := NewRoute(path, r.log).HandlerFunc(f)
	r.routes = append(r.routes, route)

	return route
}

// ServeHTTP :
// Implementation of the `http.Handler` interface.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	verdict := notFound

	for _, route := range r.routes {
		switch route.match(req) {
		case matched:
			route.handler.ServeHTTP(w, req)
			return
		case methodNotAllowed:
			verdict = methodNotAllowed
		}
	}

	if verdict == methodNotAllowed {
		r.methodNotAllowedHandler.ServeHTTP(w, req)
		return
	}

	r.notFoundHandler.ServeHTTP(w, req)
}
