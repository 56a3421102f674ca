// Package repository holds the SQL persistence layer for customers,
// conversations, and messages.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/breaders/whatsapp-bot/internal/domain"
)

// CustomerRepository defines persistence operations for customers.
type CustomerRepository interface {
	GetOrCreate(ctx context.Context, phoneNumber string) (*domain.Customer, error)
	FindByPhone(ctx context.Context, phoneNumber string) (*domain.Customer, error)
}

type customerRepository struct {
	db  *sql.DB
	log *slog.Logger
}

// NewCustomerRepository creates a new SQL-backed customer repository.
func NewCustomerRepository(db *sql.DB, log *slog.Logger) CustomerRepository {
	return &customerRepository{
		db:  db,
		log: log,
	}
}

// FindByPhone retrieves a customer by their WhatsApp phone number.
func (r *customerRepository) FindByPhone(ctx context.Context, phoneNumber string) (*domain.Customer, error) {
	const query = `
		SELECT id, name, phone_number, email, created_at, updated_at
		FROM customers
		WHERE phone_number = $1
	`

	row := r.db.QueryRowContext(ctx, query, phoneNumber)

	var customer domain.Customer
	if err := row.Scan(
		&customer.ID,
		&customer.Name,
		&customer.PhoneNumber,
		&customer.Email,
		&customer.CreatedAt,
		&customer.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}

		if r.log != nil {
			r.log.Error("failed to fetch customer by phone", slog.String("phone", phoneNumber), slog.Any("error", err))
		}
		return nil, fmt.Errorf("select customer by phone: %w", err)
	}

	return &customer, nil
}

// GetOrCreate returns the customer for the phone number, inserting a
// placeholder-named record on first contact. The upsert keeps two
// near-simultaneous first messages from racing on the unique phone
// column.
func (r *customerRepository) GetOrCreate(ctx context.Context, phoneNumber string) (*domain.Customer, error) {
	const query = `
		INSERT INTO customers (name, phone_number)
		VALUES ($1, $2)
		ON CONFLICT (phone_number) DO UPDATE SET updated_at = now()
		RETURNING id, name, phone_number, email, created_at, updated_at
	`

	row := r.db.QueryRowContext(ctx, query, defaultCustomerName(phoneNumber), phoneNumber)

	var customer domain.Customer
	if err := row.Scan(
		&customer.ID,
		&customer.Name,
		&customer.PhoneNumber,
		&customer.Email,
		&customer.CreatedAt,
		&customer.UpdatedAt,
	); err != nil {
		if r.log != nil {
			r.log.Error("failed to get or create customer", slog.String("phone", phoneNumber), slog.Any("error", err))
		}
		return nil, fmt.Errorf("upsert customer: %w", err)
	}

	return &customer, nil
}

// defaultCustomerName labels unknown contacts by the last digits of
// their phone until they identify themselves.
func defaultCustomerName(phoneNumber string) string {
	suffix := phoneNumber
	if len(suffix) > 4 {
		suffix = suffix[len(suffix)-4:]
	}

	return "Cliente " + suffix
}
