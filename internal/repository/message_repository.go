package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/Bhavikk35/SERVICES-MARKETPLACES/internal/models"
)

// MessageRepository persists direct messages between users.
type MessageRepository struct {
	db *sqlx.DB
}

// NewMessageRepository creates a new instance of MessageRepository.
func NewMessageRepository(db *sqlx.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// Create inserts a message and returns the generated id.
func (r *MessageRepository) Create(ctx context.Context, msg *models.Message) error {
	const query = `INSERT INTO messages (sender_id, receiver_id, message)
		VALUES ($1, $2, $3) RETURNING id, created_at`
	if err := r.db.QueryRowContext(ctx, query, msg.SenderID, msg.ReceiverID, msg.Body).
		Scan(&msg.ID, &msg.CreatedAt); err != nil {
		return fmt.Errorf("create message: %w", err)
	}
	return nil
}

// ListConversation returns the full exchange between two users, oldest first.
func (r *MessageRepository) ListConversation(ctx context.Context, userID, otherUserID int64) ([]models.Message, error) {
	const query = `SELECT id, sender_id, receiver_id, message, created_at FROM messages
		WHERE (sender_id = $1 AND receiver_id = $2) OR (sender_id = $2 AND receiver_id = $1)
		ORDER BY created_at ASC`
	var messages []models.Message
	if err := r.db.SelectContext(ctx, &messages, query, userID, otherUserID); err != nil {
		return nil, fmt.Errorf("list conversation: %w", err)
	}
	return messages, nil
}
