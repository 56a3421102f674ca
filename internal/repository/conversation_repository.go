package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/breaders/whatsapp-bot/internal/domain"
)

// ConversationRepository defines persistence operations for
// conversations.
type ConversationRepository interface {
	// FindOrOpen returns the customer's active conversation, opening a
	// new one when none exists. The second result reports whether the
	// conversation was just created.
	FindOrOpen(ctx context.Context, customerID int64) (*domain.Conversation, bool, error)
	// Touch refreshes the conversation's last-interaction timestamp.
	Touch(ctx context.Context, conversationID int64) error
	// Close marks the conversation inactive.
	Close(ctx context.Context, conversationID int64) error
}

type conversationRepository struct {
	db  *sql.DB
	log *slog.Logger
}

// NewConversationRepository creates a new SQL-backed conversation repository.
func NewConversationRepository(db *sql.DB, log *slog.Logger) ConversationRepository {
	return &conversationRepository{
		db:  db,
		log: log,
	}
}

func (r *conversationRepository) FindOrOpen(ctx context.Context, customerID int64) (*domain.Conversation, bool, error) {
	const selectQuery = `
		SELECT id, customer_id, current_state, active, created_at, last_interaction
		FROM conversations
		WHERE customer_id = $1 AND active = true
		ORDER BY created_at DESC
		LIMIT 1
	`

	var conv domain.Conversation
	err := r.db.QueryRowContext(ctx, selectQuery, customerID).Scan(
		&conv.ID,
		&conv.CustomerID,
		&conv.CurrentState,
		&conv.Active,
		&conv.CreatedAt,
		&conv.LastInteraction,
	)
	if err == nil {
		return &conv, false, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		if r.log != nil {
			r.log.Error("failed to fetch active conversation", slog.Int64("customer_id", customerID), slog.Any("error", err))
		}
		return nil, false, fmt.Errorf("select active conversation: %w", err)
	}

	const insertQuery = `
		INSERT INTO conversations (customer_id, current_state, active)
		VALUES ($1, $2, true)
		RETURNING id, customer_id, current_state, active, created_at, last_interaction
	`

	if err := r.db.QueryRowContext(ctx, insertQuery, customerID, "menu_principal").Scan(
		&conv.ID,
		&conv.CustomerID,
		&conv.CurrentState,
		&conv.Active,
		&conv.CreatedAt,
		&conv.LastInteraction,
	); err != nil {
		if r.log != nil {
			r.log.Error("failed to open conversation", slog.Int64("customer_id", customerID), slog.Any("error", err))
		}
		return nil, false, fmt.Errorf("insert conversation: %w", err)
	}

	return &conv, true, nil
}

func (r *conversationRepository) Touch(ctx context.Context, conversationID int64) error {
	const query = `UPDATE conversations SET last_interaction = now() WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, conversationID); err != nil {
		if r.log != nil {
			r.log.Error("failed to touch conversation", slog.Int64("conversation_id", conversationID), slog.Any("error", err))
		}
		return fmt.Errorf("touch conversation: %w", err)
	}

	return nil
}

func (r *conversationRepository) Close(ctx context.Context, conversationID int64) error {
	const query = `UPDATE conversations SET active = false WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, conversationID); err != nil {
		if r.log != nil {
			r.log.Error("failed to close conversation", slog.Int64("conversation_id", conversationID), slog.Any("error", err))
		}
		return fmt.Errorf("close conversation: %w", err)
	}

	return nil
}
