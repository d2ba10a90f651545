package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/dukerupert/platewise/internal/spoonacular"
)

// ExternalHandler relays recipe lookups to Spoonacular without transforming
// the response.
type ExternalHandler struct {
	client *spoonacular.Client
	logger *slog.Logger
}

func NewExternalHandler(client *spoonacular.Client, logger *slog.Logger) *ExternalHandler {
	return &ExternalHandler{client: client, logger: logger}
}

func (h *ExternalHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	params := spoonacular.SearchParams{
		Query:        q.Get("query"),
		Diet:         q.Get("diet"),
		Intolerances: q.Get("intolerances"),
	}
	if v := q.Get("number"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeMessage(w, http.StatusBadRequest, "number must be a positive integer")
			return
		}
		params.Number = n
	}

	h.relay(w, r, "Error searching recipes", func(ctx context.Context) (json.RawMessage, error) {
		return h.client.Search(ctx, params)
	})
}

func (h *ExternalHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	h.relay(w, r, "Error getting recipe information", func(ctx context.Context) (json.RawMessage, error) {
		return h.client.Information(ctx, id)
	})
}

func (h *ExternalHandler) Extract(w http.ResponseWriter, r *http.Request) {
	var req struct {
		URL string `json:"url"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	req.URL = strings.TrimSpace(req.URL)
	if req.URL == "" {
		writeMessage(w, http.StatusBadRequest, "url is required")
		return
	}

	h.relay(w, r, "Error extracting recipe", func(ctx context.Context) (json.RawMessage, error) {
		return h.client.Extract(ctx, req.URL)
	})
}

func (h *ExternalHandler) relay(w http.ResponseWriter, r *http.Request, failure string, call func(context.Context) (json.RawMessage, error)) {
	body, err := call(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), failure, "error", err)
		writeMessage(w, http.StatusInternalServerError, failure)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}
