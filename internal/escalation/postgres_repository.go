package escalation

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// PgxPool is the subset of pgxpool.Pool the repository uses. Tests substitute
// a pgxmock pool.
type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository stores escalations in the relational database.
type PostgresRepository struct {
	pool PgxPool
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool PgxPool) *PostgresRepository {
	if pool == nil {
		panic("escalation: pgx pool required")
	}
	return &PostgresRepository{pool: pool}
}

// Create inserts a new row. The unique index on conversation_id enforces
// one escalation per conversation.
func (r *PostgresRepository) Create(ctx context.Context, req *CreateRequest) (*Escalation, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	id := uuid.New()
	query := `
		INSERT INTO escalations (id, conversation_id, reason, priority, status, name, mobile, email, goal, plan)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (conversation_id) DO NOTHING
		RETURNING created_at
	`
	var createdAt time.Time
	if err := r.pool.QueryRow(ctx, query,
		id,
		req.ConversationID,
		req.Reason,
		req.Priority,
		StatusPending,
		req.Contact.Name,
		req.Contact.Mobile,
		req.Contact.Email,
		req.Contact.Goal,
		req.Contact.Plan,
	).Scan(&createdAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrAlreadyEscalated
		}
		return nil, fmt.Errorf("escalation: insert failed: %w", err)
	}

	return &Escalation{
		ID:             id.String(),
		ConversationID: req.ConversationID,
		Reason:         req.Reason,
		Priority:       req.Priority,
		Status:         StatusPending,
		Contact:        req.Contact,
		CreatedAt:      createdAt,
	}, nil
}

// GetByConversation fetches the escalation for a conversation.
func (r *PostgresRepository) GetByConversation(ctx context.Context, conversationID string) (*Escalation, error) {
	query := `
		SELECT id, conversation_id, reason, priority, status, name, mobile, email, goal, plan, created_at
		FROM escalations
		WHERE conversation_id = $1
	`
	row := r.pool.QueryRow(ctx, query, conversationID)
	esc, err := scanEscalation(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrEscalationNotFound
		}
		return nil, fmt.Errorf("escalation: select failed: %w", err)
	}
	return esc, nil
}

// List returns all escalations, most recent first.
func (r *PostgresRepository) List(ctx context.Context) ([]*Escalation, error) {
	query := `
		SELECT id, conversation_id, reason, priority, status, name, mobile, email, goal, plan, created_at
		FROM escalations
		ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("escalation: list failed: %w", err)
	}
	defer rows.Close()

	var escalations []*Escalation
	for rows.Next() {
		esc, err := scanEscalation(rows)
		if err != nil {
			return nil, fmt.Errorf("escalation: scan failed: %w", err)
		}
		escalations = append(escalations, esc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("escalation: list failed: %w", err)
	}
	return escalations, nil
}

// UpdateStatus transitions an escalation to a new status.
func (r *PostgresRepository) UpdateStatus(ctx context.Context, id string, status string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE escalations SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("escalation: update failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrEscalationNotFound
	}
	return nil
}

func scanEscalation(row pgx.Row) (*Escalation, error) {
	var esc Escalation
	if err := row.Scan(
		&esc.ID,
		&esc.ConversationID,
		&esc.Reason,
		&esc.Priority,
		&esc.Status,
		&esc.Contact.Name,
		&esc.Contact.Mobile,
		&esc.Contact.Email,
		&esc.Contact.Goal,
		&esc.Contact.Plan,
		&esc.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &esc, nil
}
