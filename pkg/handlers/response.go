package handlers

import (
	"encoding/json"
	"net/http"
)

// apiError is the JSON shape every error path in the engine returns: a
// stable machine-readable code plus a human-readable message. Consumers
// branch on the code, never on the message text.
type apiError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// ErrorResponse writes an error payload with the given status code.
func ErrorResponse(w http.ResponseWriter, statusCode int, errorCode, message string) error {
	return WriteJSON(w, statusCode, apiError{Error: errorCode, Message: message})
}

// WriteJSON writes data as a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(data)
}
