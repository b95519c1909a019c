package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/shineum/mailsend-lite/internal/provider"
	"github.com/shineum/mailsend-lite/internal/send"
)

// errorResponse is the body of every non-2xx response.
type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type sendResponse struct {
	MessageID string `json:"messageId"`
}

func (s *Server) registerRoutes() {
	r := s.router

	r.Post("/send", s.handleSend)

	// Liveness
	r.Get("/__heartbeat__", handleHeartbeat)
	r.Get("/__lbheartbeat__", handleHeartbeat)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed)
	})
}

func (s *Server) handleSend(w http.ResponseWriter, r *http.Request) {
	req, err := send.DecodeRequest(r.Body)
	if err != nil {
		slog.Warn("rejected send request", "error", err)
		writeError(w, http.StatusBadRequest)
		return
	}

	id, err := s.dispatcher.Dispatch(r.Context(), req)
	if err != nil {
		writeError(w, statusFor(err))
		return
	}

	writeJSON(w, http.StatusOK, sendResponse{MessageID: id})
}

func handleHeartbeat(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, struct{}{})
}

// statusFor maps dispatcher errors to HTTP status codes. Anything that is
// not a client error is reported as 500.
func statusFor(err error) int {
	var perr *provider.Error
	switch {
	case errors.Is(err, send.ErrMalformedRequest),
		errors.Is(err, send.ErrInvalidRequest),
		errors.Is(err, send.ErrUnknownProvider):
		return http.StatusBadRequest
	case errors.As(err, &perr):
		return http.StatusInternalServerError
	default:
		slog.Error("unexpected dispatch error", "error", err)
		return http.StatusInternalServerError
	}
}

// writeError writes the {code, message} body for status. The message is the
// standard status text and never includes internal detail.
func writeError(w http.ResponseWriter, status int) {
	writeJSON(w, status, errorResponse{Code: status, Message: http.StatusText(status)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to write response", "error", err)
	}
}
