package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"github.com/zefast/zefast_web/internal/httperr"
	"github.com/zefast/zefast_web/internal/logging"
	"github.com/zefast/zefast_web/internal/mobcash"
	"github.com/zefast/zefast_web/internal/session"
)

func errorHandler(c *fiber.Ctx, err error) error {
	status, body := httperr.Resolve(err)
	return c.Status(status).JSON(body)
}

func TestRequestIDEchoesOrGenerates(t *testing.T) {
	app := fiber.New()
	app.Use(RequestID())
	app.Get("/", func(c *fiber.Ctx) error { return c.SendString(RequestIDFrom(c)) })

	req := httptest.NewRequest(fiber.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "req-1")
	resp, _ := app.Test(req)
	if resp.Header.Get(RequestIDHeader) != "req-1" {
		t.Fatalf("expected incoming id echoed, got %q", resp.Header.Get(RequestIDHeader))
	}

	resp, _ = app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
	if len(resp.Header.Get(RequestIDHeader)) != 36 {
		t.Fatalf("expected generated uuid, got %q", resp.Header.Get(RequestIDHeader))
	}
}

func TestRateLimitPerIdentifier(t *testing.T) {
	mr := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	app := fiber.New(fiber.Config{ErrorHandler: errorHandler})
	app.Post("/login", RateLimit(cache, "login", 2, logging.Discard(), "email_or_phone"), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})

	login := func(id string) int {
		req := httptest.NewRequest(fiber.MethodPost, "/login", strings.NewReader(`{"email_or_phone":"`+id+`"}`))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("app.Test: %v", err)
		}
		return resp.StatusCode
	}

	if login("+226 70 00 00 00") != fiber.StatusNoContent || login("22670000000") != fiber.StatusNoContent {
		t.Fatal("first two attempts must pass")
	}
	if status := login("226-70-00-00-00"); status != fiber.StatusTooManyRequests {
		t.Fatalf("normalized identifier must share the limit, got %d", status)
	}
	if login("Awa@Example.com") != fiber.StatusNoContent {
		t.Fatal("other identifiers are not limited")
	}
	if !mr.Exists("rl:login:awa@example.com") {
		t.Fatal("expected lowercased email key")
	}

	mr.FastForward(time.Minute + time.Second)
	if login("22670000000") != fiber.StatusNoContent {
		t.Fatal("limit must reset after a minute")
	}
}

func TestRequireSession(t *testing.T) {
	store := session.NewMemoryStore(time.Hour)
	mgr := session.NewManager(store, session.NewSigner("0123456789abcdef0123456789abcdef"), time.Hour, false)

	app := fiber.New(fiber.Config{ErrorHandler: errorHandler})
	app.Post("/login", func(c *fiber.Ctx) error {
		_, err := mgr.Start(c, mobcash.Tokens{Access: "a1", Refresh: "r1"}, mobcash.User{ID: "u1"})
		return err
	})
	protected := app.Group("", RequireSession(mgr, logging.Discard()))
	protected.Post("/rotate", func(c *fiber.Ctx) error {
		session.FromCtx(c).Tokens.Access = "a2"
		return c.SendStatus(fiber.StatusNoContent)
	})
	protected.Post("/expire", func(c *fiber.Ctx) error {
		return mobcash.ErrSessionExpired
	})

	resp, _ := app.Test(httptest.NewRequest(fiber.MethodPost, "/rotate", nil))
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401 without cookie, got %d", resp.StatusCode)
	}

	resp, _ = app.Test(httptest.NewRequest(fiber.MethodPost, "/login", nil))
	var cookie string
	for _, ck := range resp.Cookies() {
		if ck.Name == session.CookieName {
			cookie = ck.Name + "=" + ck.Value
		}
	}
	if cookie == "" {
		t.Fatal("expected session cookie")
	}

	call := func(path string) int {
		req := httptest.NewRequest(fiber.MethodPost, path, nil)
		req.Header.Set("Cookie", cookie)
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("app.Test: %v", err)
		}
		return resp.StatusCode
	}

	if status := call("/rotate"); status != fiber.StatusNoContent {
		t.Fatalf("expected 204, got %d", status)
	}
	sid := sessionIDFromCookie(t, mgr, cookie)
	sess, err := store.Get(context.Background(), sid)
	if err != nil || sess.Tokens.Access != "a2" {
		t.Fatalf("rotated token must be persisted, got %+v %v", sess, err)
	}

	if status := call("/expire"); status != fiber.StatusUnauthorized {
		t.Fatalf("expected 401 on expiry, got %d", status)
	}
	if _, err := store.Get(context.Background(), sid); err != session.ErrNotFound {
		t.Fatalf("expired session must be deleted, got %v", err)
	}
}

func TestRequireSessionKeepsCookieWhenStoreDown(t *testing.T) {
	mr := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { cache.Close() })
	store := session.NewRedisStore(cache, time.Hour)
	mgr := session.NewManager(store, session.NewSigner("0123456789abcdef0123456789abcdef"), time.Hour, false)

	app := fiber.New(fiber.Config{ErrorHandler: errorHandler})
	app.Post("/login", func(c *fiber.Ctx) error {
		_, err := mgr.Start(c, mobcash.Tokens{Access: "a1", Refresh: "r1"}, mobcash.User{ID: "u1"})
		return err
	})
	app.Get("/me", RequireSession(mgr, logging.Discard()), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})

	resp, _ := app.Test(httptest.NewRequest(fiber.MethodPost, "/login", nil))
	var cookie string
	for _, ck := range resp.Cookies() {
		if ck.Name == session.CookieName {
			cookie = ck.Name + "=" + ck.Value
		}
	}
	get := func() *http.Response {
		req := httptest.NewRequest(fiber.MethodGet, "/me", nil)
		req.Header.Set("Cookie", cookie)
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("app.Test: %v", err)
		}
		return resp
	}

	mr.SetError("LOADING Redis is loading the dataset in memory")
	resp = get()
	if resp.StatusCode != fiber.StatusServiceUnavailable {
		t.Fatalf("expected 503 while redis is down, got %d", resp.StatusCode)
	}
	if sc := resp.Header.Get(fiber.HeaderSetCookie); sc != "" {
		t.Fatalf("cookie must be kept on a store failure, got %q", sc)
	}

	mr.SetError("")
	if resp = get(); resp.StatusCode != fiber.StatusNoContent {
		t.Fatalf("session must survive the outage, got %d", resp.StatusCode)
	}

	mr.FlushAll()
	resp = get()
	if resp.StatusCode != fiber.StatusUnauthorized || !strings.Contains(resp.Header.Get(fiber.HeaderSetCookie), session.CookieName+"=;") {
		t.Fatalf("a missing session must clear the cookie, got %d %q", resp.StatusCode, resp.Header.Get(fiber.HeaderSetCookie))
	}
}

func sessionIDFromCookie(t *testing.T, mgr *session.Manager, cookie string) string {
	t.Helper()
	app := fiber.New()
	var sid string
	app.Get("/", func(c *fiber.Ctx) error {
		sess, err := mgr.Load(c)
		if err != nil {
			return err
		}
		sid = sess.ID
		return nil
	})
	req := httptest.NewRequest(fiber.MethodGet, "/", nil)
	req.Header.Set("Cookie", cookie)
	if _, err := app.Test(req); err != nil || sid == "" {
		t.Fatalf("load session: %v", err)
	}
	return sid
}
