package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/owlview/reviewtree/internal/note/model"
)

// Repo stores fetched threads in a notes table, one JSONB payload per
// note keyed by id:
//
//	CREATE TABLE IF NOT EXISTS notes (
//	    id      TEXT PRIMARY KEY,
//	    forum   TEXT NOT NULL,
//	    cdate   BIGINT NOT NULL DEFAULT 0,
//	    payload JSONB NOT NULL
//	);
//	CREATE INDEX IF NOT EXISTS notes_forum_idx ON notes(forum);
type Repo struct {
	db *sql.DB
}

func New(db *sql.DB) *Repo {
	return &Repo{db: db}
}

func (r *Repo) SaveThread(ctx context.Context, forum string, notes []model.Note) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM notes WHERE forum=$1`, forum); err != nil {
		return fmt.Errorf("clear forum %s: %w", forum, err)
	}

	for _, n := range notes {
		if n.ID == "" {
			continue
		}
		payload, err := json.Marshal(n)
		if err != nil {
			return fmt.Errorf("marshal note %s: %w", n.ID, err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO notes(id, forum, cdate, payload)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (id) DO UPDATE
			SET forum=EXCLUDED.forum, cdate=EXCLUDED.cdate, payload=EXCLUDED.payload`,
			n.ID, forum, n.CDate, payload,
		)
		if err != nil {
			return fmt.Errorf("insert note %s: %w", n.ID, err)
		}
	}

	return tx.Commit()
}

func (r *Repo) GetThread(ctx context.Context, forum string) ([]model.Note, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT payload FROM notes
		WHERE forum=$1
		ORDER BY cdate ASC, id ASC`, forum)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notes []model.Note
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		var n model.Note
		if err := json.Unmarshal(payload, &n); err != nil {
			return nil, fmt.Errorf("unmarshal note: %w", err)
		}
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(notes) == 0 {
		return nil, sql.ErrNoRows
	}
	return notes, nil
}

func (r *Repo) GetNote(ctx context.Context, id string) (model.Note, error) {
	var payload []byte
	err := r.db.QueryRowContext(ctx, `SELECT payload FROM notes WHERE id=$1`, id).Scan(&payload)
	if err != nil {
		return model.Note{}, err
	}
	var n model.Note
	if err := json.Unmarshal(payload, &n); err != nil {
		return model.Note{}, fmt.Errorf("unmarshal note %s: %w", id, err)
	}
	return n, nil
}

func (r *Repo) ForumExists(ctx context.Context, forum string) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM notes WHERE forum=$1 LIMIT 1`, forum).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	return err == nil, err
}
