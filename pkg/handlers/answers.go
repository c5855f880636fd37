package handlers

import (
	"encoding/json"
	"net/http"
)

// InternalServerErrorString :
// The unique string answered to clients when a failure
// that is not their fault occurs while serving their
// request. The details stay in the logs.
//
// Returns the common error string.
func InternalServerErrorString() string {
	return "Unexpected server error"
}

// WriteJSON :
// Marshals the input payload and answers the request
// with it, along with the input status code.
//
// The `w` defines the response writer.
//
// The `status` defines the HTTP status code.
//
// The `payload` defines the object to marshal.
//
// Returns any marshalling error. The status line is
// already sent at that point, so the caller can only
// log it.
func WriteJSON(w http.ResponseWriter, status int, payload interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	return json.NewEncoder(w).Encode(payload)
}

// WriteError :
// Answers the request with a JSON object carrying the
// input error message.
func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, map[string]string{"error": message})
}
