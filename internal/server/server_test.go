package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"github.com/zefast/zefast_web/internal/config"
	"github.com/zefast/zefast_web/internal/httperr"
	"github.com/zefast/zefast_web/internal/logging"
	"github.com/zefast/zefast_web/internal/session"
)

func fakeBackend(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"access":"a1","refresh":"r1","data":{"id":"u1","first_name":"Awa","email":"awa@example.com"}}`)
	})
	mux.HandleFunc("/auth/me", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer a1" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":"u1","first_name":"Awa","balance":"2500"}`)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestServer(t *testing.T, redisAddr string) *Server {
	t.Helper()
	backend := fakeBackend(t)
	env := map[string]string{
		"APP_ENV":          "test",
		"MOBCASH_BASE_URL": backend.URL,
	}
	cfg, err := config.FromLookup(func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	})
	if err != nil {
		t.Fatalf("config: %v", err)
	}

	var cache *redis.Client
	if redisAddr != "" {
		cache = redis.NewClient(&redis.Options{Addr: redisAddr})
		t.Cleanup(func() { cache.Close() })
	}
	srv, err := New(cfg, nil, cache, logging.Discard())
	if err != nil {
		t.Fatalf("server.New: %v", err)
	}
	return srv
}

func do(t *testing.T, app *fiber.App, method, path, body, cookie string) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if cookie != "" {
		req.Header.Set("Cookie", cookie)
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

func TestHealthAndPing(t *testing.T) {
	app := newTestServer(t, "").App()

	resp := do(t, app, fiber.MethodGet, "/healthz", "", "")
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected healthy without stores, got %d", resp.StatusCode)
	}

	resp = do(t, app, fiber.MethodGet, "/api/v1/ping", "", "")
	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["request_id"] == "" || body["request_id"] != resp.Header.Get("X-Request-ID") {
		t.Fatalf("expected request id echoed in body, got %v", body)
	}

	resp = do(t, app, fiber.MethodGet, "/metrics", "", "")
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected metrics endpoint, got %d", resp.StatusCode)
	}
}

func TestProtectedRouteRequiresSession(t *testing.T) {
	app := newTestServer(t, "").App()

	resp := do(t, app, fiber.MethodGet, "/api/v1/dashboard", "", "")
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
	var body httperr.Body
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Redirect != httperr.LoginPath {
		t.Fatalf("expected login redirect, got %+v", body)
	}
}

func TestLoginMeLogout(t *testing.T) {
	mr := miniredis.RunT(t)
	app := newTestServer(t, mr.Addr()).App()

	resp := do(t, app, fiber.MethodPost, "/api/v1/auth/login", `{"email_or_phone":"awa@example.com","password":"secret1"}`, "")
	if resp.StatusCode != fiber.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		t.Fatalf("login: %d %s", resp.StatusCode, b)
	}
	var cookie string
	for _, ck := range resp.Cookies() {
		if ck.Name == session.CookieName {
			cookie = ck.Name + "=" + ck.Value
		}
	}
	if cookie == "" {
		t.Fatal("expected session cookie")
	}

	resp = do(t, app, fiber.MethodGet, "/api/v1/me", "", cookie)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("me: %d", resp.StatusCode)
	}

	resp = do(t, app, fiber.MethodPost, "/api/v1/wizard/deposit/confirm", "{}", cookie)
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("confirm without idempotency key: expected 400, got %d", resp.StatusCode)
	}

	resp = do(t, app, fiber.MethodPost, "/api/v1/auth/logout", "{}", cookie)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("logout: %d", resp.StatusCode)
	}
	resp = do(t, app, fiber.MethodGet, "/api/v1/me", "", cookie)
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401 after logout, got %d", resp.StatusCode)
	}
}
