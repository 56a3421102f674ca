package repository

import (
	"context"
	"log/slog"

	apperrors "github.com/breaders/whatsapp-bot/internal/errors"
)

// TurnRecord identifies the conversation a webhook turn belongs to.
type TurnRecord struct {
	CustomerID       int64
	ConversationID   int64
	FirstInteraction bool
}

// MessageLog is the webhook's view over the customer, conversation, and
// message repositories: record what came in, record what went out, and
// report first interactions. A nil MessageLog disables persistence (the
// bot runs stateless except for Redis).
type MessageLog struct {
	customers     CustomerRepository
	conversations ConversationRepository
	messages      MessageRepository
	log           *slog.Logger
}

func NewMessageLog(
	customers CustomerRepository,
	conversations ConversationRepository,
	messages MessageRepository,
	log *slog.Logger,
) *MessageLog {
	if log == nil {
		log = slog.Default()
	}

	return &MessageLog{
		customers:     customers,
		conversations: conversations,
		messages:      messages,
		log:           log,
	}
}

// RecordInbound files the message under the customer's active
// conversation, opening customer and conversation records as needed.
func (l *MessageLog) RecordInbound(ctx context.Context, phoneNumber, content, whatsappMessageID string) (*TurnRecord, error) {
	customer, err := l.customers.GetOrCreate(ctx, phoneNumber)
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}

	conv, created, err := l.conversations.FindOrOpen(ctx, customer.ID)
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}

	if err := l.messages.RecordInbound(ctx, conv.ID, content, whatsappMessageID); err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}

	if !created {
		if err := l.conversations.Touch(ctx, conv.ID); err != nil {
			l.log.Warn("conversation touch failed", slog.Int64("conversation_id", conv.ID), slog.String("error", err.Error()))
		}
	}

	return &TurnRecord{
		CustomerID:       customer.ID,
		ConversationID:   conv.ID,
		FirstInteraction: created,
	}, nil
}

// RecordOutbound files the bot's reply.
func (l *MessageLog) RecordOutbound(ctx context.Context, conversationID int64, content string) error {
	return l.messages.RecordOutbound(ctx, conversationID, content)
}

// IsFirstInteraction reports whether the customer has at most the one
// message recorded for the turn in flight. The webhook records the
// inbound message before the orchestrator runs, so "first" means a
// single stored message.
func (l *MessageLog) IsFirstInteraction(ctx context.Context, phoneNumber string) (bool, error) {
	customer, err := l.customers.FindByPhone(ctx, phoneNumber)
	if err != nil {
		return false, err
	}

	count, err := l.messages.CountForCustomer(ctx, customer.ID)
	if err != nil {
		return false, err
	}

	return count <= 1, nil
}
