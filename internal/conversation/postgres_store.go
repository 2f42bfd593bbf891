package conversation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// PgxPool is the subset of pgxpool.Pool the archive uses. Tests substitute a
// pgxmock pool.
type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore archives conversations in the relational database.
type PostgresStore struct {
	pool PgxPool
}

// NewPostgresStore initializes an archive backed by pgxpool.
func NewPostgresStore(pool PgxPool) *PostgresStore {
	if pool == nil {
		panic("conversation: pgx pool required")
	}
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Upsert(ctx context.Context, conv *Conversation) (*Conversation, error) {
	if conv == nil || strings.TrimSpace(conv.ID) == "" {
		return nil, errors.New("conversation: id required")
	}

	messages, err := json.Marshal(conv.Messages)
	if err != nil {
		return nil, fmt.Errorf("conversation: failed to marshal transcript: %w", err)
	}

	title := conv.Title
	if title == "" || title == DefaultTitle {
		title = deriveTitle(conv.Messages)
	}

	query := `
		INSERT INTO conversations (id, title, messages, escalated, created_at, updated_at)
		VALUES ($1, $2, $3, $4, now(), now())
		ON CONFLICT (id) DO UPDATE SET
			title = CASE WHEN conversations.title = $5 THEN EXCLUDED.title ELSE conversations.title END,
			messages = EXCLUDED.messages,
			escalated = EXCLUDED.escalated,
			updated_at = now()
		RETURNING title, created_at, updated_at
	`
	stored := &Conversation{
		ID:        conv.ID,
		Messages:  conv.Messages,
		Escalated: conv.Escalated,
	}
	if err := s.pool.QueryRow(ctx, query,
		conv.ID,
		title,
		messages,
		conv.Escalated,
		DefaultTitle,
	).Scan(&stored.Title, &stored.CreatedAt, &stored.UpdatedAt); err != nil {
		return nil, fmt.Errorf("conversation: upsert failed: %w", err)
	}
	return stored, nil
}

func (s *PostgresStore) Get(ctx context.Context, id string) (*Conversation, error) {
	query := `
		SELECT id, title, messages, escalated, created_at, updated_at
		FROM conversations
		WHERE id = $1
	`
	var (
		conv Conversation
		raw  []byte
	)
	if err := s.pool.QueryRow(ctx, query, id).Scan(
		&conv.ID,
		&conv.Title,
		&raw,
		&conv.Escalated,
		&conv.CreatedAt,
		&conv.UpdatedAt,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrConversationNotFound
		}
		return nil, fmt.Errorf("conversation: select failed: %w", err)
	}
	if err := json.Unmarshal(raw, &conv.Messages); err != nil {
		return nil, fmt.Errorf("conversation: failed to decode transcript: %w", err)
	}
	return &conv, nil
}

func (s *PostgresStore) List(ctx context.Context) ([]Summary, error) {
	query := `
		SELECT id, title, escalated, created_at, updated_at,
			(SELECT count(*) FROM jsonb_array_elements(messages) AS m WHERE m->>'role' <> 'system')
		FROM conversations
		ORDER BY updated_at DESC
	`
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("conversation: list failed: %w", err)
	}
	defer rows.Close()

	var summaries []Summary
	for rows.Next() {
		var sum Summary
		if err := rows.Scan(
			&sum.ID,
			&sum.Title,
			&sum.Escalated,
			&sum.CreatedAt,
			&sum.UpdatedAt,
			&sum.MessageCount,
		); err != nil {
			return nil, fmt.Errorf("conversation: scan failed: %w", err)
		}
		summaries = append(summaries, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("conversation: list failed: %w", err)
	}
	return summaries, nil
}

func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM conversations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("conversation: delete failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrConversationNotFound
	}
	return nil
}

func (s *PostgresStore) DeleteStale(ctx context.Context, cutoff time.Time) (int, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM conversations WHERE updated_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("conversation: stale cleanup failed: %w", err)
	}
	return int(tag.RowsAffected()), nil
}
