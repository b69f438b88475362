package mobcash

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// FallbackMessage is shown when the backend gives no usable message.
const FallbackMessage = "Une erreur est survenue. Veuillez réessayer."

var (
	// ErrSessionExpired means the refresh token was rejected; the user must log in again.
	ErrSessionExpired = errors.New("session expired")

	// ErrUnavailable wraps transport failures reaching the backend.
	ErrUnavailable = errors.New("mobcash backend unavailable")
)

// messageKeys are checked in order for a human readable error.
var messageKeys = []string{"details", "detail", "error", "message", "non_field_errors"}

// APIError is a non-2xx answer from the backend.
type APIError struct {
	Status  int
	Message string
	// RetryIn is the wait reported by the backend's transaction rate limiter.
	RetryIn string
	// Fields holds the first message of each field-level validation error.
	Fields map[string]string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("mobcash: %s (status: %d)", e.Message, e.Status)
}

// IsRateLimited reports whether the backend asked the user to wait.
func (e *APIError) IsRateLimited() bool {
	return e.RetryIn != ""
}

// MessageFor returns the first field message among names, falling back to the
// general message. A rate-limit message always wins.
func (e *APIError) MessageFor(names ...string) string {
	if e.IsRateLimited() {
		return e.Message
	}
	for _, name := range names {
		if msg := e.Fields[name]; msg != "" {
			return msg
		}
	}
	return e.Message
}

// AsAPIError unwraps err into an *APIError.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// WithFallback swaps the generic backend message for a flow-specific one,
// preferring the given field messages when the backend sent any.
func WithFallback(err error, fallback string, fields ...string) error {
	apiErr, ok := AsAPIError(err)
	if !ok || apiErr.IsRateLimited() || apiErr.Message != FallbackMessage {
		return err
	}
	msg := apiErr.MessageFor(fields...)
	if msg == FallbackMessage {
		msg = fallback
	}
	return &APIError{Status: apiErr.Status, Message: msg, Fields: apiErr.Fields}
}

// RateLimitMessage formats the wait reported by error_time_message.
func RateLimitMessage(wait string) string {
	return fmt.Sprintf("Veuillez patienter %s avant de créer une nouvelle transaction", wait)
}

func parseAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{Status: status, Message: FallbackMessage, Fields: map[string]string{}}

	var doc map[string]any
	if err := json.Unmarshal(body, &doc); err != nil {
		return apiErr
	}

	if wait := firstString(doc["error_time_message"]); wait != "" {
		apiErr.RetryIn = wait
		apiErr.Message = RateLimitMessage(wait)
	} else {
		for _, key := range messageKeys {
			if msg := firstString(doc[key]); msg != "" {
				apiErr.Message = msg
				break
			}
		}
	}

	keys := make([]string, 0, len(doc))
	for k := range doc {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if k == "error_time_message" || contains(messageKeys, k) {
			continue
		}
		if msg := firstString(doc[k]); msg != "" {
			apiErr.Fields[k] = msg
		}
	}
	return apiErr
}

// firstString reads a string or the first string of a list, as Django REST
// framework reports errors either way.
func firstString(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case []any:
		for _, item := range t {
			if s := firstString(item); s != "" {
				return s
			}
		}
	}
	return ""
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
