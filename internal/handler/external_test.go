package handler

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dukerupert/platewise/internal/spoonacular"
)

func setupExternal(t *testing.T, upstream http.HandlerFunc) *http.ServeMux {
	t.Helper()
	srv := httptest.NewServer(upstream)
	t.Cleanup(srv.Close)

	h := NewExternalHandler(
		spoonacular.NewClient(spoonacular.Config{APIKey: "k", BaseURL: srv.URL}),
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/external/recipes/search", h.Search)
	mux.HandleFunc("GET /api/external/recipes/{id}", h.Get)
	mux.HandleFunc("POST /api/external/recipes/extract", h.Extract)
	return mux
}

func TestExternalRelaysVerbatim(t *testing.T) {
	const payload = `{"results":[{"id":7,"title":"Tacos"}],"offset":0}`
	mux := setupExternal(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(payload))
	})

	for _, tc := range []struct {
		method, path, body string
	}{
		{"GET", "/api/external/recipes/search?query=tacos&number=5", ""},
		{"GET", "/api/external/recipes/7", ""},
		{"POST", "/api/external/recipes/extract", `{"url":"https://example.com/tacos"}`},
	} {
		req := httptest.NewRequest(tc.method, tc.path, bytes.NewBufferString(tc.body))
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("%s %s status = %d", tc.method, tc.path, rec.Code)
			continue
		}
		if rec.Body.String() != payload {
			t.Errorf("%s %s body = %s", tc.method, tc.path, rec.Body.String())
		}
	}
}

func TestExternalUpstreamFailure(t *testing.T) {
	mux := setupExternal(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	for _, tc := range []struct {
		method, path, body, want string
	}{
		{"GET", "/api/external/recipes/search?query=x", "", "Error searching recipes"},
		{"GET", "/api/external/recipes/1", "", "Error getting recipe information"},
		{"POST", "/api/external/recipes/extract", `{"url":"https://example.com"}`, "Error extracting recipe"},
	} {
		req := httptest.NewRequest(tc.method, tc.path, bytes.NewBufferString(tc.body))
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusInternalServerError {
			t.Errorf("%s status = %d, want 500", tc.path, rec.Code)
		}
		if msg := message(t, rec); msg != tc.want {
			t.Errorf("%s message = %q, want %q", tc.path, msg, tc.want)
		}
	}
}

func TestExternalBadInput(t *testing.T) {
	mux := setupExternal(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("upstream should not be called")
	})

	for _, tc := range []struct {
		method, path, body string
	}{
		{"GET", "/api/external/recipes/search?number=lots", ""},
		{"POST", "/api/external/recipes/extract", `{}`},
	} {
		req := httptest.NewRequest(tc.method, tc.path, bytes.NewBufferString(tc.body))
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s status = %d, want 400", tc.path, rec.Code)
		}
	}
}
