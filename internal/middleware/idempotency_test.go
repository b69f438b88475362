package middleware

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"github.com/zefast/zefast_web/internal/logging"
	"github.com/zefast/zefast_web/internal/session"
)

func setupIdempotencyApp(t *testing.T, sid string, calls *int, fail *bool) *fiber.App {
	t.Helper()
	mr := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { cache.Close() })

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if sid != "" {
			session.Attach(c, &session.Session{ID: c.Get("X-Test-Session", sid)})
		}
		return c.Next()
	})
	app.Use(Idempotency(cache, time.Minute, logging.Discard()))
	app.Post("/confirm", func(c *fiber.Ctx) error {
		*calls++
		if *fail {
			return fiber.NewError(fiber.StatusBadGateway, "upstream")
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"call": *calls})
	})
	return app
}

func postConfirm(t *testing.T, app *fiber.App, key, sid string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodPost, "/confirm", strings.NewReader("{}"))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	if key != "" {
		req.Header.Set(IdempotencyKeyHeader, key)
	}
	if sid != "" {
		req.Header.Set("X-Test-Session", sid)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	return resp.StatusCode, string(body)
}

func TestIdempotencyRequiresHeader(t *testing.T) {
	calls, fail := 0, false
	app := setupIdempotencyApp(t, "s1", &calls, &fail)

	if status, _ := postConfirm(t, app, "", ""); status != fiber.StatusBadRequest {
		t.Fatalf("expected %d got %d", fiber.StatusBadRequest, status)
	}
	if calls != 0 {
		t.Fatal("handler must not run without a key")
	}
}

func TestIdempotencyReplaysStoredResponse(t *testing.T) {
	calls, fail := 0, false
	app := setupIdempotencyApp(t, "s1", &calls, &fail)

	status, first := postConfirm(t, app, "abc123", "")
	if status != fiber.StatusCreated {
		t.Fatalf("expected %d got %d", fiber.StatusCreated, status)
	}
	status, second := postConfirm(t, app, "abc123", "")
	if status != fiber.StatusCreated || second != first {
		t.Fatalf("expected replay of %s, got %d %s", first, status, second)
	}
	if calls != 1 {
		t.Fatalf("handler ran %d times", calls)
	}

	// same key from another session is a different request
	if _, other := postConfirm(t, app, "abc123", "s2"); other == first || calls != 2 {
		t.Fatalf("keys must be scoped per session, got %s after %d calls", other, calls)
	}
}

func TestIdempotencyReleasesKeyOnFailure(t *testing.T) {
	calls, fail := 0, true
	app := setupIdempotencyApp(t, "s1", &calls, &fail)

	if status, _ := postConfirm(t, app, "k1", ""); status != fiber.StatusBadGateway {
		t.Fatalf("expected upstream failure, got %d", status)
	}
	fail = false
	if status, _ := postConfirm(t, app, "k1", ""); status != fiber.StatusCreated || calls != 2 {
		t.Fatalf("expected retry to run the handler, got %d after %d calls", status, calls)
	}
}
