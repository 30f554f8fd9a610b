// Package handlers provides JSON response helpers shared by HTTP handlers.
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// RespondJSON writes data as a JSON response with the given status code.
func RespondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// RespondError logs the error and writes a JSON error envelope with the
// given status code.
func RespondError(w http.ResponseWriter, logger *slog.Logger, status int, err error) {
	logger.Error("request failed", "status", status, "error", err)
	RespondJSON(w, status, map[string]string{"error": err.Error()})
}

// RespondErrorDetails writes a JSON error envelope carrying a stable error
// code plus a human-readable details message from the underlying failure.
func RespondErrorDetails(w http.ResponseWriter, logger *slog.Logger, status int, err error, details string) {
	logger.Error("request failed", "status", status, "error", err, "details", details)
	RespondJSON(w, status, map[string]string{
		"error":   err.Error(),
		"details": details,
	})
}
