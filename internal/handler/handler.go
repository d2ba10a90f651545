// Package handler holds the JSON HTTP handlers. Handlers decode requests,
// call the service layer and map its errors onto status codes.
package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dukerupert/platewise/internal/service"
	"github.com/dukerupert/platewise/internal/websocket"
)

const maxBodyBytes = 1 << 20

const serverError = "Server Error"

// resource names a record type in user-facing messages.
type resource struct {
	title string // "Recipe"
	noun  string // "recipe"
}

func (res resource) notFound() string { return res.title + " not found" }

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

// writeServiceError maps service errors onto a status and message. verb
// completes "Not authorized to <verb> this <noun>".
func writeServiceError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error, res resource, verb string) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		writeMessage(w, http.StatusNotFound, res.notFound())
	case errors.Is(err, service.ErrForbidden):
		writeMessage(w, http.StatusForbidden, fmt.Sprintf("Not authorized to %s this %s", verb, res.noun))
	case errors.Is(err, service.ErrInvalid):
		writeMessage(w, http.StatusBadRequest, strings.TrimPrefix(err.Error(), service.ErrInvalid.Error()+": "))
	default:
		logger.ErrorContext(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeMessage(w, http.StatusInternalServerError, serverError)
	}
}

func parseIDParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(v)
}

// notifier pushes change events to the owner's WebSocket connections.
type notifier struct {
	hub *websocket.Hub
}

func (n notifier) send(userID int64, entity, action string, id int64, extra map[string]any) {
	if n.hub != nil {
		n.hub.SendTo(userID, websocket.NewMessage(entity, action, id, extra))
	}
}

// flexTime accepts RFC 3339 timestamps and bare "2006-01-02" dates.
type flexTime time.Time

func (t *flexTime) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("date must be a string")
	}
	if s == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02"} {
		if parsed, err := time.Parse(layout, s); err == nil {
			*t = flexTime(parsed.UTC())
			return nil
		}
	}
	return fmt.Errorf("invalid date %q", s)
}
