package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"joke_notification_bot/internal/domain/history"

	"github.com/google/uuid"
)

const createDeliveriesTable = `CREATE TABLE IF NOT EXISTS deliveries (
	id          TEXT PRIMARY KEY,
	kind        TEXT NOT NULL,
	channel     TEXT NOT NULL,
	destination TEXT NOT NULL,
	text        TEXT NOT NULL,
	joke_id     INTEGER NOT NULL DEFAULT 0,
	sent_at_ms  BIGINT NOT NULL
)`

const createDeliveriesIndex = `CREATE INDEX IF NOT EXISTS deliveries_sent_at_idx ON deliveries (sent_at_ms)`

// HistoryRepository stores deliveries in PostgreSQL or SQLite.
type HistoryRepository struct {
	db      *sql.DB
	dialect Dialect
}

func NewHistoryRepository(db *sql.DB, dialect Dialect) *HistoryRepository {
	return &HistoryRepository{db: db, dialect: dialect}
}

// Migrate creates the deliveries table if needed.
func (r *HistoryRepository) Migrate(ctx context.Context) error {
	for _, stmt := range []string{createDeliveriesTable, createDeliveriesIndex} {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("error migrating deliveries table: %w", err)
		}
	}
	return nil
}

// rebind rewrites $N placeholders to ? for SQLite.
func (r *HistoryRepository) rebind(query string) string {
	if r.dialect != DialectSQLite {
		return query
	}
	var b strings.Builder
	for i := 0; i < len(query); i++ {
		if query[i] == '$' {
			j := i + 1
			for j < len(query) && query[j] >= '0' && query[j] <= '9' {
				j++
			}
			if j > i+1 {
				b.WriteByte('?')
				i = j - 1
				continue
			}
		}
		b.WriteByte(query[i])
	}
	return b.String()
}

func (r *HistoryRepository) Save(ctx context.Context, rec *history.Record) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.SentAt.IsZero() {
		rec.SentAt = time.Now()
	}
	query := r.rebind(`INSERT INTO deliveries (id, kind, channel, destination, text, joke_id, sent_at_ms)
               VALUES ($1, $2, $3, $4, $5, $6, $7)`)

	_, err := r.db.ExecContext(ctx, query, rec.ID, string(rec.Kind), rec.Channel, rec.Destination, rec.Text, rec.JokeID, rec.SentAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("error saving delivery: %w", err)
	}
	return nil
}

func (r *HistoryRepository) ListRecent(ctx context.Context, limit int) ([]*history.Record, error) {
	if limit <= 0 {
		limit = 20
	}
	query := r.rebind(`SELECT id, kind, channel, destination, text, joke_id, sent_at_ms
               FROM deliveries ORDER BY sent_at_ms DESC, id LIMIT $1`)

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("error listing deliveries: %w", err)
	}
	defer rows.Close()

	records := make([]*history.Record, 0)
	for rows.Next() {
		rec := &history.Record{}
		var kind string
		var sentAtMs int64
		if err := rows.Scan(&rec.ID, &kind, &rec.Channel, &rec.Destination, &rec.Text, &rec.JokeID, &sentAtMs); err != nil {
			return nil, fmt.Errorf("error scanning delivery: %w", err)
		}
		rec.Kind = history.Kind(kind)
		rec.SentAt = time.UnixMilli(sentAtMs)
		records = append(records, rec)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating deliveries: %w", err)
	}
	return records, nil
}
