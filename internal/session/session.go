package session

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/zefast/zefast_web/internal/mobcash"
)

var (
	ErrNotFound = errors.New("session not found")
	// ErrUnavailable means the store could not answer; the session may still exist.
	ErrUnavailable = errors.New("session store unavailable")
)

// Session is the server-side state behind the browser cookie. The backend
// tokens never leave the server.
type Session struct {
	ID        string         `json:"id"`
	Tokens    mobcash.Tokens `json:"tokens"`
	User      mobcash.User   `json:"user"`
	CreatedAt time.Time      `json:"created_at"`

	dirty bool
}

// SetUser replaces the user snapshot and marks the session for saving.
func (s *Session) SetUser(u mobcash.User) {
	s.User = u
	s.dirty = true
}

// Dirty reports whether the session changed since it was loaded.
func (s *Session) Dirty() bool { return s.dirty }

// DisplayName is the greeting name: first name, else username, else email.
func (s *Session) DisplayName() string {
	for _, v := range []string{s.User.FirstName, s.User.Username, s.User.Email} {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return "Utilisateur"
}

// Store persists sessions.
type Store interface {
	Create(ctx context.Context, tokens mobcash.Tokens, user mobcash.User) (*Session, error)
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
}

const localsKey = "session"

// FromCtx returns the session attached by the session guard, or nil.
func FromCtx(c *fiber.Ctx) *Session {
	s, _ := c.Locals(localsKey).(*Session)
	return s
}

// Attach stores s in the request locals.
func Attach(c *fiber.Ctx, s *Session) {
	c.Locals(localsKey, s)
}
