package handlers

import (
	"encoding/json"
	"net/http"
)

// NotFoundResponse is the envelope for unknown routes
// swagger:model NotFoundResponse
type NotFoundResponse struct {
	Status  int    `json:"status"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

// NewIndexHandler returns the landing page handler.
func NewIndexHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Welcome to the Connect Api"))
	}
}

// NewNotFoundHandler returns a handler producing the JSON 404 envelope.
func NewNotFoundHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(NotFoundResponse{
			Status: http.StatusNotFound,
			Error:  "Not found",
			Message: "The requested URL was not found on the server. " +
				"If you entered the URL manually please check your spelling and try again",
		})
	}
}
