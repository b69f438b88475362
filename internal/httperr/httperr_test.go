package httperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/zefast/zefast_web/internal/forms"
	"github.com/zefast/zefast_web/internal/mobcash"
	"github.com/zefast/zefast_web/internal/session"
)

func TestResolve(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		msg    string
	}{
		{"expired", fmt.Errorf("wrap: %w", mobcash.ErrSessionExpired), http.StatusUnauthorized, MsgSessionExpired},
		{"validation", forms.FieldError("amount", "Le montant doit être supérieur à 0"), http.StatusUnprocessableEntity, "Le montant doit être supérieur à 0"},
		{"backend", &mobcash.APIError{Status: 429, Message: "Veuillez patienter", RetryIn: "2 minutes"}, http.StatusTooManyRequests, "Veuillez patienter"},
		{"backend without status", &mobcash.APIError{Message: "x"}, http.StatusBadGateway, "x"},
		{"unavailable", fmt.Errorf("%w: dial tcp", mobcash.ErrUnavailable), http.StatusServiceUnavailable, MsgUnavailable},
		{"session store down", fmt.Errorf("%w: get session: LOADING", session.ErrUnavailable), http.StatusServiceUnavailable, MsgUnavailable},
		{"fiber", fiber.NewError(http.StatusNotFound, "Réseau non trouvé"), http.StatusNotFound, "Réseau non trouvé"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, mobcash.FallbackMessage},
	}
	for _, tc := range cases {
		status, body := Resolve(tc.err)
		if status != tc.status || body.Error != tc.msg {
			t.Fatalf("%s: got %d %q", tc.name, status, body.Error)
		}
	}

	_, body := Resolve(mobcash.ErrSessionExpired)
	if body.Redirect != LoginPath {
		t.Fatalf("expected redirect, got %+v", body)
	}
	_, body = Resolve(&mobcash.APIError{Status: 400, Message: "m", Fields: map[string]string{}})
	if body.Fields != nil {
		t.Fatal("empty fields must be omitted")
	}
}
