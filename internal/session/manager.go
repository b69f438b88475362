package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/zefast/zefast_web/internal/mobcash"
)

// CookieName is the browser cookie holding the signed session id.
const CookieName = "zefast_session"

// Manager ties the store to the session cookie.
type Manager struct {
	store  Store
	signer *Signer
	ttl    time.Duration
	secure bool
}

func NewManager(store Store, signer *Signer, ttl time.Duration, secure bool) *Manager {
	return &Manager{store: store, signer: signer, ttl: ttl, secure: secure}
}

// Start creates a session for a freshly authenticated user and sets the cookie.
func (m *Manager) Start(c *fiber.Ctx, tokens mobcash.Tokens, user mobcash.User) (*Session, error) {
	sess, err := m.store.Create(c.UserContext(), tokens, user)
	if err != nil {
		return nil, err
	}
	token, err := m.signer.Sign(sess.ID, m.ttl)
	if err != nil {
		return nil, err
	}
	c.Cookie(&fiber.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(m.ttl),
		HTTPOnly: true,
		Secure:   m.secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return sess, nil
}

// Load resolves the cookie into a session. A missing or badly signed cookie
// and a store miss are ErrNotFound; store failures are ErrUnavailable.
func (m *Manager) Load(c *fiber.Ctx) (*Session, error) {
	raw := c.Cookies(CookieName)
	if raw == "" {
		return nil, ErrNotFound
	}
	sid, err := m.signer.Verify(raw)
	if err != nil {
		return nil, ErrNotFound
	}
	sess, err := m.store.Get(c.UserContext(), sid)
	switch {
	case err == nil:
		return sess, nil
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrUnavailable):
		return nil, err
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
}

// Persist saves the session when its tokens rotated or its user snapshot changed.
func (m *Manager) Persist(ctx context.Context, sess *Session, before mobcash.Tokens) error {
	if sess.Tokens == before && !sess.Dirty() {
		return nil
	}
	return m.store.Save(ctx, sess)
}

// Destroy deletes the session, if any, detaches it from the request and
// expires the cookie.
func (m *Manager) Destroy(c *fiber.Ctx, sess *Session) error {
	c.Locals(localsKey, nil)
	c.Cookie(&fiber.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HTTPOnly: true,
		Secure:   m.secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	if sess == nil {
		return nil
	}
	if err := m.store.Delete(c.UserContext(), sess.ID); err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	return nil
}
