package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"supportchat-backend/internal/models"
)

type ConversationRepo struct {
	pool *pgxpool.Pool
}

func NewConversationRepo(pool *pgxpool.Pool) *ConversationRepo {
	return &ConversationRepo{pool: pool}
}

func (r *ConversationRepo) Create(ctx context.Context) (*models.Conversation, error) {
	c := &models.Conversation{ID: uuid.New()}

	query := `INSERT INTO conversations (id) VALUES ($1) RETURNING created_at`
	if err := r.pool.QueryRow(ctx, query, c.ID).Scan(&c.CreatedAt); err != nil {
		return nil, err
	}
	return c, nil
}

func (r *ConversationRepo) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM conversations WHERE id = $1)", id).Scan(&exists)
	return exists, err
}

// GetByID returns pgx.ErrNoRows when the conversation does not exist.
func (r *ConversationRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Conversation, error) {
	c := &models.Conversation{}
	err := r.pool.QueryRow(ctx, "SELECT id, created_at FROM conversations WHERE id = $1", id).
		Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Delete removes the conversation; its messages go with it via the FK
// cascade. Returns false when the id is unknown.
func (r *ConversationRepo) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, "DELETE FROM conversations WHERE id = $1", id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// List returns all conversations newest-first with their message counts,
// computed in one aggregate instead of a count query per row.
func (r *ConversationRepo) List(ctx context.Context) ([]models.ConversationSummary, error) {
	query := `SELECT c.id, c.created_at, COUNT(m.id)
		FROM conversations c
		LEFT JOIN messages m ON m.conversation_id = c.id
		GROUP BY c.id, c.created_at
		ORDER BY c.created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summaries := []models.ConversationSummary{}
	for rows.Next() {
		var s models.ConversationSummary
		if err := rows.Scan(&s.ID, &s.CreatedAt, &s.MessageCount); err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}

	return summaries, rows.Err()
}
