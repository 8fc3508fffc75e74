package outbox

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	txcontext "datahub/pkg/platform/tx"
	"datahub/pkg/requestcontext"

	"datahub/internal/meteringpoint/domain/meteringpoint"
)

// Postgres implements the transactional outbox on the outbox table. Append
// writes through the transaction in the context when there is one.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (p *Postgres) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return p.db
}

// Append implements ports.Outbox.
func (p *Postgres) Append(ctx context.Context, events []meteringpoint.Event) error {
	envs, err := envelopesOf(events, requestcontext.Now(ctx))
	if err != nil {
		return err
	}
	exec := p.execer(ctx)
	for _, env := range envs {
		aggregateID, err := uuid.Parse(env.AggregateID)
		if err != nil {
			return fmt.Errorf("outbox aggregate id: %w", err)
		}
		_, err = exec.ExecContext(ctx, `
			INSERT INTO outbox (id, aggregate_type, aggregate_id, event_type, payload, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, env.ID, AggregateType, aggregateID, env.EventType, envelopeJSON(env), env.OccurredAt)
		if err != nil {
			return fmt.Errorf("insert outbox entry: %w", err)
		}
	}
	return nil
}

// Pending returns up to limit unpublished envelopes, oldest first.
func (p *Postgres) Pending(ctx context.Context, limit int) ([]Envelope, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT payload FROM outbox
		WHERE published_at IS NULL
		ORDER BY seq
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query outbox: %w", err)
	}
	defer rows.Close()

	var out []Envelope
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan outbox: %w", err)
		}
		env, err := decodeEnvelope(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, env)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate outbox: %w", err)
	}
	return out, nil
}

// MarkPublished stamps the given entries as delivered.
func (p *Postgres) MarkPublished(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	raw := make([]string, len(ids))
	for i, id := range ids {
		raw[i] = id.String()
	}
	_, err := p.db.ExecContext(ctx,
		`UPDATE outbox SET published_at = $1 WHERE id = ANY($2::uuid[])`,
		time.Now().UTC(), pq.Array(raw),
	)
	if err != nil {
		return fmt.Errorf("mark outbox published: %w", err)
	}
	return nil
}
