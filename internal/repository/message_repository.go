package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// MessageRepository records inbound and outbound WhatsApp messages.
type MessageRepository interface {
	RecordInbound(ctx context.Context, conversationID int64, content, whatsappMessageID string) error
	RecordOutbound(ctx context.Context, conversationID int64, content string) error
	// CountForCustomer returns how many messages exist across all of
	// the customer's conversations.
	CountForCustomer(ctx context.Context, customerID int64) (int, error)
}

type messageRepository struct {
	db  *sql.DB
	log *slog.Logger
}

// NewMessageRepository creates a new SQL-backed message repository.
func NewMessageRepository(db *sql.DB, log *slog.Logger) MessageRepository {
	return &messageRepository{
		db:  db,
		log: log,
	}
}

func (r *messageRepository) RecordInbound(ctx context.Context, conversationID int64, content, whatsappMessageID string) error {
	const query = `
		INSERT INTO messages (conversation_id, content, direction, whatsapp_message_id)
		VALUES ($1, $2, 'inbound', NULLIF($3, ''))
	`

	if _, err := r.db.ExecContext(ctx, query, conversationID, content, whatsappMessageID); err != nil {
		if r.log != nil {
			r.log.Error("failed to record inbound message", slog.Int64("conversation_id", conversationID), slog.Any("error", err))
		}
		return fmt.Errorf("insert inbound message: %w", err)
	}

	return nil
}

func (r *messageRepository) RecordOutbound(ctx context.Context, conversationID int64, content string) error {
	const query = `
		INSERT INTO messages (conversation_id, content, direction)
		VALUES ($1, $2, 'outbound')
	`

	if _, err := r.db.ExecContext(ctx, query, conversationID, content); err != nil {
		if r.log != nil {
			r.log.Error("failed to record outbound message", slog.Int64("conversation_id", conversationID), slog.Any("error", err))
		}
		return fmt.Errorf("insert outbound message: %w", err)
	}

	return nil
}

func (r *messageRepository) CountForCustomer(ctx context.Context, customerID int64) (int, error) {
	const query = `
		SELECT count(*)
		FROM messages m
		JOIN conversations c ON c.id = m.conversation_id
		WHERE c.customer_id = $1
	`

	var count int
	if err := r.db.QueryRowContext(ctx, query, customerID).Scan(&count); err != nil {
		if r.log != nil {
			r.log.Error("failed to count customer messages", slog.Int64("customer_id", customerID), slog.Any("error", err))
		}
		return 0, fmt.Errorf("count customer messages: %w", err)
	}

	return count, nil
}
