package journal

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS web_submissions (
    id          UUID PRIMARY KEY,
    user_id     TEXT        NOT NULL,
    kind        TEXT        NOT NULL,
    reference   TEXT        NOT NULL DEFAULT '',
    amount      BIGINT      NOT NULL,
    platform_id TEXT        NOT NULL,
    network_id  INTEGER     NOT NULL,
    phone       TEXT        NOT NULL,
    outcome     TEXT        NOT NULL,
    ussd_code   TEXT        NOT NULL DEFAULT '',
    link        TEXT        NOT NULL DEFAULT '',
    created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS web_submissions_user_created_idx
    ON web_submissions (user_id, created_at DESC);`

// PostgresRepository persists journal entries in PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// EnsureSchema creates the table and index when missing.
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("journal schema: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Record(ctx context.Context, e Entry) error {
	id, err := uuid.Parse(e.ID)
	if err != nil {
		id = uuid.New()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	_, err = r.db.Exec(ctx, `INSERT INTO web_submissions
        (id, user_id, kind, reference, amount, platform_id, network_id, phone, outcome, ussd_code, link, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		id, e.UserID, string(e.Kind), e.Reference, e.Amount, e.PlatformID, e.NetworkID, e.Phone, e.Outcome, e.USSDCode, e.Link, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("record submission: %w", err)
	}
	return nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string, limit int) ([]Entry, error) {
	rows, err := r.db.Query(ctx, `SELECT id, user_id, kind, reference, amount, platform_id, network_id, phone, outcome, ussd_code, link, created_at
        FROM web_submissions
        WHERE user_id = $1
        ORDER BY created_at DESC
        LIMIT $2`, userID, clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	entries, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Entry, error) {
		var (
			e    Entry
			id   uuid.UUID
			kind string
		)
		err := row.Scan(&id, &e.UserID, &kind, &e.Reference, &e.Amount, &e.PlatformID, &e.NetworkID, &e.Phone, &e.Outcome, &e.USSDCode, &e.Link, &e.CreatedAt)
		e.ID = id.String()
		e.Kind = mobcashKind(kind)
		return e, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan submissions: %w", err)
	}
	return entries, nil
}
