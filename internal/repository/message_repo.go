package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"supportchat-backend/internal/models"
)

type MessageRepo struct {
	pool *pgxpool.Pool
}

func NewMessageRepo(pool *pgxpool.Pool) *MessageRepo {
	return &MessageRepo{pool: pool}
}

// Append inserts a message. The caller has already verified the conversation
// exists; the FK constraint backs that up.
func (r *MessageRepo) Append(ctx context.Context, conversationID uuid.UUID, sender, text string) (*models.Message, error) {
	m := &models.Message{
		ID:             uuid.New(),
		ConversationID: conversationID,
		Sender:         sender,
		Text:           text,
	}

	query := `INSERT INTO messages (id, conversation_id, sender, text)
		VALUES ($1, $2, $3, $4) RETURNING seq, created_at`
	if err := r.pool.QueryRow(ctx, query, m.ID, conversationID, sender, text).Scan(&m.Seq, &m.CreatedAt); err != nil {
		return nil, err
	}
	return m, nil
}

// RecentHistory returns the most recent limit messages in chronological
// (oldest-first) order. The query fetches newest-first, so the slice is
// reversed before returning: the consumer needs message order, not recency.
func (r *MessageRepo) RecentHistory(ctx context.Context, conversationID uuid.UUID, limit int) ([]models.ChatTurn, error) {
	query := `SELECT sender, text FROM messages
		WHERE conversation_id = $1
		ORDER BY created_at DESC, seq DESC
		LIMIT $2`

	rows, err := r.pool.Query(ctx, query, conversationID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var turns []models.ChatTurn
	for rows.Next() {
		var sender, text string
		if err := rows.Scan(&sender, &text); err != nil {
			return nil, err
		}
		role := models.RoleUser
		if sender == models.SenderAI {
			role = models.RoleAssistant
		}
		turns = append(turns, models.ChatTurn{Role: role, Content: text})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i, j := 0, len(turns)-1; i < j; i, j = i+1, j-1 {
		turns[i], turns[j] = turns[j], turns[i]
	}
	return turns, nil
}

// AllOrdered returns the full chronological history of a conversation.
func (r *MessageRepo) AllOrdered(ctx context.Context, conversationID uuid.UUID) ([]models.Message, error) {
	query := `SELECT id, seq, conversation_id, sender, text, created_at
		FROM messages
		WHERE conversation_id = $1
		ORDER BY created_at ASC, seq ASC`

	rows, err := r.pool.Query(ctx, query, conversationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := []models.Message{}
	for rows.Next() {
		var m models.Message
		if err := rows.Scan(&m.ID, &m.Seq, &m.ConversationID, &m.Sender, &m.Text, &m.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}

	return messages, rows.Err()
}
