// Package httperr maps domain errors to HTTP statuses and JSON bodies.
package httperr

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/zefast/zefast_web/internal/forms"
	"github.com/zefast/zefast_web/internal/mobcash"
	"github.com/zefast/zefast_web/internal/session"
)

const (
	MsgSessionExpired = "Votre session a expiré. Veuillez vous reconnecter."
	MsgUnavailable    = "Service momentanément indisponible. Veuillez réessayer."
	LoginPath         = "/login"
)

// Body is the JSON error envelope.
type Body struct {
	Error    string            `json:"error"`
	Fields   map[string]string `json:"fields,omitempty"`
	RetryIn  string            `json:"retry_in,omitempty"`
	Redirect string            `json:"redirect,omitempty"`
}

// Resolve returns the status and body for err. Unknown errors become a 500
// with the generic message.
func Resolve(err error) (int, Body) {
	if errors.Is(err, mobcash.ErrSessionExpired) || errors.Is(err, session.ErrNotFound) {
		return http.StatusUnauthorized, Body{Error: MsgSessionExpired, Redirect: LoginPath}
	}
	if ve, ok := forms.AsValidationError(err); ok {
		return http.StatusUnprocessableEntity, Body{Error: ve.Message(), Fields: ve.Fields}
	}
	if apiErr, ok := mobcash.AsAPIError(err); ok {
		status := apiErr.Status
		if status < 400 || status > 599 {
			status = http.StatusBadGateway
		}
		return status, Body{Error: apiErr.Message, Fields: nonEmpty(apiErr.Fields), RetryIn: apiErr.RetryIn}
	}
	if errors.Is(err, mobcash.ErrUnavailable) || errors.Is(err, session.ErrUnavailable) {
		return http.StatusServiceUnavailable, Body{Error: MsgUnavailable}
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code, Body{Error: fe.Message}
	}
	return http.StatusInternalServerError, Body{Error: mobcash.FallbackMessage}
}

// Status is the status Resolve would pick.
func Status(err error) int {
	status, _ := Resolve(err)
	return status
}

func nonEmpty(m map[string]string) map[string]string {
	if len(m) == 0 {
		return nil
	}
	return m
}
