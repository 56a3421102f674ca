// Package domain defines the persistent entities of the Breaders
// WhatsApp bot.
package domain

import (
	"database/sql"
	"time"
)

// Customer is a WhatsApp contact identified by phone number.
type Customer struct {
	ID          int64
	Name        string
	PhoneNumber string
	Email       sql.NullString
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Conversation is one active exchange with a customer. A customer has
// at most one active conversation at a time.
type Conversation struct {
	ID              int64
	CustomerID      int64
	CurrentState    string
	Active          bool
	CreatedAt       time.Time
	LastInteraction time.Time
}

// Message direction values.
const (
	DirectionInbound  = "inbound"
	DirectionOutbound = "outbound"
)

// Message is a single inbound or outbound WhatsApp message tied to a
// conversation.
type Message struct {
	ID                int64
	ConversationID    int64
	Content           string
	MediaURL          sql.NullString
	Direction         string
	WhatsAppMessageID sql.NullString
	Timestamp         time.Time
}

// Category groups products in the catalog.
type Category struct {
	ID          int64
	Name        string
	Description sql.NullString
	Active      bool
}

// Product is a catalog item offered for sale.
type Product struct {
	ID          int64
	CategoryID  int64
	Name        string
	Description string
	Price       float64
	Stock       int
	Active      bool
	Featured    bool
}

// Available reports whether the product can currently be ordered.
func (p Product) Available() bool {
	return p.Active && p.Stock > 0
}

// SpecialOffer is a time-bound promotion.
type SpecialOffer struct {
	ID                 int64
	Title              string
	Description        string
	DiscountPercentage float64
	Code               string
	StartDate          time.Time
	EndDate            time.Time
	Active             bool
}

// Current reports whether the offer is active and inside its window.
func (o SpecialOffer) Current() bool {
	now := time.Now()
	return o.Active && !now.Before(o.StartDate) && !now.After(o.EndDate)
}
