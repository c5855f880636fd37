package handlers

import (
	"strings"
)

// SanitizeRoute :
// Strips the leading and trailing `/` characters from
// the input route.
//
// Returns the sanitized string.
func SanitizeRoute(route string) string {
	return strings.Trim(route, "/")
}

// RouteElements :
// Splits the input path into its composing elements.
// A value of `/villages/abc/command` produces the
// elements `villages`, `abc` and `command`. Empty
// elements produced by doubled separators are
// filtered out.
//
// Returns the list of elements.
func RouteElements(route string) []string {
	elems := make([]string, 0)

	for _, elem := range strings.Split(SanitizeRoute(route), "/") {
		if len(elem) > 0 {
			elems = append(elems, elem)
		}
	}

	return elems
}

// RouteVar :
// Fetches the path element found right after the input
// prefix element. Used to extract identifiers from
// routes such as `/villages/<id>/command`.
//
// The `route` defines the path to inspect.
//
// The `after` defines the element preceding the value
// to extract.
//
// Returns the extracted value and a flag telling
// whether one was found.
func RouteVar(route string, after string) (string, bool) {
	elems := RouteElements(route)

	for id := 0; id+1 < len(elems); id++ {
		if elems[id] == after {
			return elems[id+1], true
		}
	}

	return "", false
}
