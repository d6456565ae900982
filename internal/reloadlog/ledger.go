// internal/reloadlog/ledger.go
package reloadlog

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	apperrors "pe-insights/internal/common/errors"
	"pe-insights/internal/common/logger"
	"pe-insights/internal/store"
)

const schema = `
CREATE TABLE IF NOT EXISTS store_reloads (
	event_id    UUID        NOT NULL,
	trigger     TEXT        NOT NULL,
	version     BIGINT      NOT NULL,
	collection  TEXT        NOT NULL,
	path        TEXT        NOT NULL DEFAULT '',
	status      TEXT        NOT NULL,
	records     INTEGER     NOT NULL DEFAULT 0,
	dropped     INTEGER     NOT NULL DEFAULT 0,
	error       TEXT        NOT NULL DEFAULT '',
	created_at  TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (event_id, collection)
)`

const insertEntry = `
	INSERT INTO store_reloads
		(event_id, trigger, version, collection, path, status, records, dropped, error, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

const listEntries = `
	SELECT event_id, trigger, version, collection, path, status, records, dropped, error, created_at
	FROM store_reloads
	ORDER BY created_at DESC, collection
	LIMIT $1`

// Entry is one collection outcome of a recorded snapshot swap.
type Entry struct {
	EventID    string    `json:"event_id"`
	Trigger    string    `json:"trigger"`
	Version    uint64    `json:"version"`
	Collection string    `json:"collection"`
	Path       string    `json:"path"`
	Status     string    `json:"status"`
	Records    int       `json:"records"`
	Dropped    int       `json:"dropped"`
	Error      string    `json:"error,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Ledger records every snapshot swap in PostgreSQL. A nil database disables
// it.
type Ledger struct {
	db     *sql.DB
	logger logger.Logger
}

func New(db *sql.DB, log logger.Logger) *Ledger {
	return &Ledger{
		db:     db,
		logger: log.WithFields(map[string]interface{}{"component": "reloadlog"}),
	}
}

func (l *Ledger) Enabled() bool {
	return l != nil && l.db != nil
}

// EnsureSchema creates the ledger table if it does not exist.
func (l *Ledger) EnsureSchema(ctx context.Context) error {
	if !l.Enabled() {
		return nil
	}
	if _, err := l.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create store_reloads: %w", err)
	}
	return nil
}

// Observe writes one row per outcome of event in a single transaction. It
// implements store.Observer.
func (l *Ledger) Observe(ctx context.Context, snap *store.Snapshot, event *store.ReloadEvent) error {
	if !l.Enabled() || len(event.Outcomes) == 0 {
		return nil
	}

	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, insertEntry)
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	for _, o := range event.Outcomes {
		errText := ""
		if o.Err != nil {
			errText = apperrors.Normalize(o.Err).Message
		}
		if _, err := stmt.ExecContext(ctx,
			event.ID, event.Trigger, int64(event.Version), string(o.Collection), o.Path,
			o.Status, o.Records, o.Dropped, errText, event.At,
		); err != nil {
			return fmt.Errorf("insert %s: %w", o.Collection, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	l.logger.Debug("reload recorded", map[string]interface{}{
		"event_id": event.ID,
		"version":  event.Version,
		"outcomes": len(event.Outcomes),
	})
	return nil
}

// List returns the most recent entries, newest first.
func (l *Ledger) List(ctx context.Context, limit int) ([]Entry, error) {
	if !l.Enabled() {
		return nil, apperrors.NewLedgerUnavailableError(nil)
	}
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	rows, err := l.db.QueryContext(ctx, listEntries, limit)
	if err != nil {
		return nil, apperrors.NewLedgerUnavailableError(err)
	}
	defer rows.Close()

	entries := make([]Entry, 0)
	for rows.Next() {
		var e Entry
		var version int64
		if err := rows.Scan(
			&e.EventID, &e.Trigger, &version, &e.Collection, &e.Path,
			&e.Status, &e.Records, &e.Dropped, &e.Error, &e.CreatedAt,
		); err != nil {
			return nil, apperrors.NewLedgerUnavailableError(err)
		}
		e.Version = uint64(version)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewLedgerUnavailableError(err)
	}
	return entries, nil
}
