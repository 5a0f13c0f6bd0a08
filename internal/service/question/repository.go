package question

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/kapu/cultureg-bot-go/internal/domain"
	"go.uber.org/zap"
)

const schema = `
	CREATE TABLE IF NOT EXISTS quiz_questions (
		id         SERIAL PRIMARY KEY,
		prompt     TEXT NOT NULL UNIQUE,
		answer     TEXT NOT NULL,
		enabled    BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)
`

// Repository reads and writes the quiz_questions table.
type Repository struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewRepository(db *sql.DB, logger *zap.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create quiz_questions: %w", err)
	}
	return nil
}

// LoadEnabled returns the enabled questions in insertion order.
func (r *Repository) LoadEnabled(ctx context.Context) ([]domain.Question, error) {
	query := `
		SELECT prompt, answer
		FROM quiz_questions
		WHERE enabled
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query questions: %w", err)
	}
	defer rows.Close()

	questions := make([]domain.Question, 0)
	for rows.Next() {
		var q domain.Question
		if err := rows.Scan(&q.Prompt, &q.Answer); err != nil {
			return nil, fmt.Errorf("failed to scan question: %w", err)
		}
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate questions: %w", err)
	}

	r.logger.Info("Questions loaded from PostgreSQL", zap.Int("count", len(questions)))
	return questions, nil
}

// Upsert inserts questions in one transaction, updating the answer of prompts
// that already exist and re-enabling them.
func (r *Repository) Upsert(ctx context.Context, questions []domain.Question) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO quiz_questions (prompt, answer)
		VALUES ($1, $2)
		ON CONFLICT (prompt) DO UPDATE
		SET answer = EXCLUDED.answer, enabled = TRUE
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, q := range questions {
		if _, err := stmt.ExecContext(ctx, q.Prompt, q.Answer); err != nil {
			return 0, fmt.Errorf("failed to upsert question %q: %w", q.Prompt, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit questions: %w", err)
	}
	return len(questions), nil
}
