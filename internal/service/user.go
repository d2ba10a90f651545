package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/dukerupert/platewise/internal/auth"
	"github.com/dukerupert/platewise/internal/model"
	"github.com/dukerupert/platewise/internal/store"
)

type UserService struct {
	users  *store.UserStore
	tokens *auth.Tokens
}

func NewUserService(users *store.UserStore, tokens *auth.Tokens) *UserService {
	return &UserService{users: users, tokens: tokens}
}

// Session is returned by Register and Login.
type Session struct {
	User  *model.User `json:"user"`
	Token string      `json:"token"`
}

func (s *UserService) Register(ctx context.Context, name, email, password string) (*Session, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)
	if name == "" {
		return nil, invalidf("name is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, invalidf("a valid email is required")
	}
	if len(password) < auth.MinPasswordLength {
		return nil, invalidf("password must be at least %d characters", auth.MinPasswordLength)
	}
	if len(password) > auth.MaxPasswordLength {
		return nil, invalidf("password must be at most %d bytes", auth.MaxPasswordLength)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}
	u, err := s.users.Create(ctx, name, email, hash)
	if errors.Is(err, store.ErrDuplicate) {
		return nil, ErrEmailTaken
	}
	if err != nil {
		return nil, err
	}
	return s.session(u)
}

func (s *UserService) Login(ctx context.Context, email, password string) (*Session, error) {
	u, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrInvalidCredentials
	}
	ok, err := auth.CheckPassword(u.PasswordHash, password)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}
	return s.session(u)
}

func (s *UserService) Profile(ctx context.Context, userID int64) (*model.User, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrNotFound
	}
	return u, nil
}

func (s *UserService) session(u *model.User) (*Session, error) {
	token, err := s.tokens.Issue(u.ID)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &Session{User: u, Token: token}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
