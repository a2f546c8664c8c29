// Package bank provides the local question bank: an append-only store of
// generated question records with faceted filtering, backed by SQLite.
package bank

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/eduforge/assetgen/internal/model"
)

const dirPermission = 0o750

// Filter selects question records. All supplied predicates apply
// conjunctively; zero values mean "any". SearchText matches case-insensitively
// against the prompt and subject fields.
type Filter struct {
	Subject    string
	Grade      string
	Type       model.QuestionType
	SearchText string
}

// Store is the SQLite-backed question bank. It is single-process local
// storage; no concurrent-writer conflict resolution is attempted.
type Store struct {
	db *sql.DB
}

// Open opens or creates the bank database at the given path.
func Open(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)

	err := os.MkdirAll(dir, dirPermission)
	if err != nil {
		return nil, fmt.Errorf("create bank directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)")
	if err != nil {
		return nil, fmt.Errorf("open bank database: %w", err)
	}

	store := &Store{db: db}

	err = store.migrate()
	if err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("migrate bank schema: %w", err)
	}

	return store, nil
}

// migrate applies the schema idempotently; future format changes extend it
// with additive statements.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS questions (
		id         TEXT PRIMARY KEY,
		subject    TEXT NOT NULL,
		grade      TEXT NOT NULL,
		type       TEXT NOT NULL,
		prompt     TEXT NOT NULL,
		answer_key TEXT NOT NULL,
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_questions_subject ON questions(subject);
	CREATE INDEX IF NOT EXISTS idx_questions_grade ON questions(grade);
	CREATE INDEX IF NOT EXISTS idx_questions_type ON questions(type);
	`

	_, err := s.db.Exec(schema)

	return err
}

// Append stores the records, assigning each a freshly generated unique
// identifier and creation timestamp. Records are independent entities;
// insertion stops at the first failure and the records stored so far remain.
// The stored records, ids populated, are returned in input order.
func (s *Store) Append(
	ctx context.Context,
	records []model.QuestionRecord,
) ([]model.QuestionRecord, error) {
	stored := make([]model.QuestionRecord, 0, len(records))

	for _, record := range records {
		record.ID = uuid.NewString()
		record.CreatedAt = time.Now().UTC()

		_, err := s.db.ExecContext(ctx,
			`INSERT INTO questions (id, subject, grade, type, prompt, answer_key, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			record.ID,
			record.Subject,
			record.Grade,
			string(record.Type),
			record.Prompt,
			record.AnswerKey,
			record.CreatedAt.Format(time.RFC3339),
		)
		if err != nil {
			return stored, fmt.Errorf("insert question: %w", err)
		}

		stored = append(stored, record)
	}

	return stored, nil
}

// List returns the records matching the filter, ordered by insertion.
func (s *Store) List(ctx context.Context, filter Filter) ([]model.QuestionRecord, error) {
	where := []string{"1=1"}

	var args []any

	if filter.Subject != "" {
		where = append(where, "subject = ?")
		args = append(args, filter.Subject)
	}

	if filter.Grade != "" {
		where = append(where, "grade = ?")
		args = append(args, filter.Grade)
	}

	if filter.Type != "" {
		where = append(where, "type = ?")
		args = append(args, string(filter.Type))
	}

	if filter.SearchText != "" {
		where = append(where, "(LOWER(prompt) LIKE ? OR LOWER(subject) LIKE ?)")
		needle := "%" + strings.ToLower(filter.SearchText) + "%"
		args = append(args, needle, needle)
	}

	query := fmt.Sprintf(
		`SELECT id, subject, grade, type, prompt, answer_key, created_at
		 FROM questions WHERE %s ORDER BY rowid ASC`,
		strings.Join(where, " AND "),
	)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query questions: %w", err)
	}

	defer func() {
		_ = rows.Close()
	}()

	var records []model.QuestionRecord

	for rows.Next() {
		var (
			record    model.QuestionRecord
			typeText  string
			createdAt string
		)

		err = rows.Scan(
			&record.ID,
			&record.Subject,
			&record.Grade,
			&typeText,
			&record.Prompt,
			&record.AnswerKey,
			&createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}

		record.Type = model.QuestionType(typeText)
		record.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)

		records = append(records, record)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("iterate questions: %w", err)
	}

	return records, nil
}

// Remove deletes the record with the given id. Removing a non-existent id is
// a no-op, not an error.
func (s *Store) Remove(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM questions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete question: %w", err)
	}

	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
