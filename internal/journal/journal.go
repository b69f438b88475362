package journal

import (
	"context"
	"time"

	"github.com/zefast/zefast_web/internal/mobcash"
)

// Outcomes of a submitted wizard.
const (
	OutcomeLink = "link"
	OutcomeUSSD = "ussd"
	OutcomeDone = "done"
)

// Entry records one transaction submitted through the web wizard. It mirrors
// what the user was shown; the backend remains the source of truth.
type Entry struct {
	ID         string       `json:"id"`
	UserID     string       `json:"user_id"`
	Kind       mobcash.Kind `json:"kind"`
	Reference  string       `json:"reference"`
	Amount     int64        `json:"amount"`
	PlatformID string       `json:"platform_id"`
	NetworkID  int          `json:"network_id"`
	Phone      string       `json:"phone"`
	Outcome    string       `json:"outcome"`
	USSDCode   string       `json:"ussd_code,omitempty"`
	Link       string       `json:"link,omitempty"`
	CreatedAt  time.Time    `json:"created_at"`
}

// Repository stores journal entries.
type Repository interface {
	Record(ctx context.Context, e Entry) error
	ListByUser(ctx context.Context, userID string, limit int) ([]Entry, error)
}

// DefaultLimit caps ListByUser when no limit is given.
const DefaultLimit = 20

func clampLimit(limit int) int {
	if limit <= 0 || limit > 100 {
		return DefaultLimit
	}
	return limit
}
