package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/bharatscore/pdu_intake/internal/pdu_intake_service/domain"
)

// Schema creates the inbox table; every statement is idempotent.
var Schema = []string{
	`CREATE TABLE IF NOT EXISTS inbox_messages (
		id            UUID PRIMARY KEY,
		device_id     TEXT NOT NULL DEFAULT '',
		sender        TEXT NOT NULL,
		body          TEXT NOT NULL,
		received_at   BIGINT NOT NULL,
		position      INT NOT NULL,
		ingested_at   TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS inbox_messages_received_at_idx ON inbox_messages (received_at DESC)`,
	`CREATE INDEX IF NOT EXISTS inbox_messages_sender_idx ON inbox_messages (sender)`,
}

const insertInboxMessage = `INSERT INTO inbox_messages (id, device_id, sender, body, received_at, position, ingested_at) VALUES ($1, $2, $3, $4, $5, $6, $7)`

const selectInboxColumns = `SELECT id, device_id, sender, body, received_at, position, ingested_at FROM inbox_messages`

// DBTX is satisfied by *pgxpool.Pool and by pgxmock pools.
type DBTX interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PgInboxRepository struct {
	db     DBTX
	logger *slog.Logger
}

// NewPgInboxRepository creates a new PostgreSQL implementation of InboxRepository.
func NewPgInboxRepository(db DBTX, logger *slog.Logger) *PgInboxRepository {
	return &PgInboxRepository{db: db, logger: logger}
}

// CreateBatch inserts all messages in one transaction; either all rows land or none do.
func (r *PgInboxRepository) CreateBatch(ctx context.Context, msgs []*domain.InboxMessage) (err error) {
	if len(msgs) == 0 {
		return nil
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin inbox insert: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				r.logger.ErrorContext(ctx, "Rollback of inbox insert failed", "error", rbErr)
			}
		}
	}()

	for _, msg := range msgs {
		if _, err = tx.Exec(ctx, insertInboxMessage,
			msg.ID,
			msg.DeviceID,
			msg.Sender,
			msg.Body,
			msg.ReceivedAt,
			msg.Position,
			msg.IngestedAt,
		); err != nil {
			r.logger.ErrorContext(ctx, "Error inserting inbox message", "error", err, "id", msg.ID)
			return fmt.Errorf("insert inbox message %s: %w", msg.ID, err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit inbox insert: %w", err)
	}
	r.logger.DebugContext(ctx, "Inserted inbox messages", "count", len(msgs))
	return nil
}

// whereClause renders the filter conditions; placeholders start at $1.
func whereClause(f domain.InboxFilter) (string, []any) {
	var conds []string
	var args []any
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, strings.ReplaceAll(cond, "?", "$"+strconv.Itoa(len(args))))
	}

	if f.DeviceID != "" {
		add("device_id = ?", f.DeviceID)
	}
	if f.Address != "" {
		add("sender = ?", f.Address)
	}
	if f.Keyword != "" {
		add("body ILIKE '%' || ? || '%'", f.Keyword)
	}
	if f.Since > 0 {
		add("received_at >= ?", f.Since)
	}
	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// List returns matching rows, most recently received first.
func (r *PgInboxRepository) List(ctx context.Context, f domain.InboxFilter) ([]*domain.InboxMessage, error) {
	where, args := whereClause(f)
	args = append(args, f.MaxCount)
	query := selectInboxColumns + where + " ORDER BY received_at DESC, position ASC LIMIT $" + strconv.Itoa(len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.logger.ErrorContext(ctx, "Error listing inbox messages", "error", err)
		return nil, fmt.Errorf("query inbox: %w", err)
	}
	defer rows.Close()

	msgs := make([]*domain.InboxMessage, 0)
	for rows.Next() {
		var m domain.InboxMessage
		if err := rows.Scan(&m.ID, &m.DeviceID, &m.Sender, &m.Body, &m.ReceivedAt, &m.Position, &m.IngestedAt); err != nil {
			return nil, fmt.Errorf("scan inbox row: %w", err)
		}
		msgs = append(msgs, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate inbox rows: %w", err)
	}
	return msgs, nil
}

func (r *PgInboxRepository) Count(ctx context.Context, f domain.InboxFilter) (int64, error) {
	where, args := whereClause(f)
	var n int64
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM inbox_messages"+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count inbox: %w", err)
	}
	return n, nil
}

func (r *PgInboxRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM inbox_messages WHERE ingested_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete expired inbox rows: %w", err)
	}
	return tag.RowsAffected(), nil
}
