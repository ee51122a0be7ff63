// Package store persists normalized questions to Postgres for the
// authoring backend to pick up. It is an optional sink; the engine
// itself never reads banks back from the database.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"learncheck/internal/bank"
)

type Config struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

func DefaultConfig() Config {
	return Config{
		MaxOpenConns:    10,
		MaxIdleConns:    10,
		ConnMaxLifetime: 30 * time.Minute,
	}
}

type Store struct {
	db *sql.DB
}

// Open connects, applies pool limits and pings with a bounded timeout.
func Open(ctx context.Context, dsn string, cfg Config) (*Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if cfg.MaxOpenConns <= 0 {
		cfg.MaxOpenConns = 10
	}
	if cfg.MaxIdleConns <= 0 {
		cfg.MaxIdleConns = cfg.MaxOpenConns
	}
	if cfg.ConnMaxLifetime <= 0 {
		cfg.ConnMaxLifetime = 30 * time.Minute
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// InsertQuestion writes one question plus its choice rows and returns
// the generated question id.
func (s *Store) InsertQuestion(ctx context.Context, mapel string, q bank.Question) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var qid int64
	err = tx.QueryRowContext(ctx, `
		INSERT INTO questions (source_id, question_text, mapel, topic, difficulty, weight)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		q.ID, q.Text, strings.ToLower(mapel), q.Topic, q.Difficulty, q.Weight,
	).Scan(&qid)
	if err != nil {
		return 0, fmt.Errorf("insert question: %w", err)
	}

	for _, label := range bank.ChoiceLetters {
		text := q.Options[label]
		if strings.TrimSpace(text) == "" {
			continue
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO question_choices (question_id, label, text, is_correct)
			VALUES ($1, $2, $3, $4)`,
			qid, label, text, label == q.Key,
		); err != nil {
			return 0, fmt.Errorf("insert choice %s: %w", label, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return qid, nil
}

// InsertBank writes a whole bank and reports how many questions landed.
func (s *Store) InsertBank(ctx context.Context, b *bank.Bank) (int, error) {
	inserted := 0
	for _, q := range b.Soal {
		if _, err := s.InsertQuestion(ctx, b.Mapel, q); err != nil {
			return inserted, fmt.Errorf("question %s: %w", q.ID, err)
		}
		inserted++
	}
	return inserted, nil
}

// StoredQuestion is one persisted question row.
type StoredQuestion struct {
	ID         int64
	SourceID   string
	Text       string
	Mapel      string
	Topic      string
	Difficulty string
}

// ListLatest returns the most recently inserted questions.
func (s *Store) ListLatest(ctx context.Context, limit int) ([]StoredQuestion, error) {
	if limit <= 0 {
		limit = 5
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, source_id, question_text, mapel, topic, difficulty
		FROM questions
		ORDER BY id DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	defer rows.Close()

	var out []StoredQuestion
	for rows.Next() {
		var q StoredQuestion
		if err := rows.Scan(&q.ID, &q.SourceID, &q.Text, &q.Mapel, &q.Topic, &q.Difficulty); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		out = append(out, q)
	}
	return out, rows.Err()
}
