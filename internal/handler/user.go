package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/dukerupert/platewise/internal/auth"
	"github.com/dukerupert/platewise/internal/service"
)

var userResource = resource{title: "User", noun: "user"}

type UserHandler struct {
	users  *service.UserService
	logger *slog.Logger
}

func NewUserHandler(users *service.UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{users: users, logger: logger}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	sess, err := h.users.Register(r.Context(), req.Name, req.Email, req.Password)
	if errors.Is(err, service.ErrEmailTaken) {
		writeMessage(w, http.StatusConflict, "User already exists")
		return
	}
	if err != nil {
		writeServiceError(w, r, h.logger, err, userResource, "access")
		return
	}

	writeJSON(w, http.StatusCreated, sess)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	sess, err := h.users.Login(r.Context(), req.Email, req.Password)
	if errors.Is(err, service.ErrInvalidCredentials) {
		writeMessage(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	if err != nil {
		writeServiceError(w, r, h.logger, err, userResource, "access")
		return
	}

	writeJSON(w, http.StatusOK, sess)
}

func (h *UserHandler) Profile(w http.ResponseWriter, r *http.Request) {
	u, err := h.users.Profile(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		writeServiceError(w, r, h.logger, err, userResource, "access")
		return
	}
	writeJSON(w, http.StatusOK, u)
}
