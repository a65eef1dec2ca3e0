package storage

import "github.com/eshaffer321/churnpilot-backend/internal/domain/card"

// Repository defines the interface for card persistence.
// This allows mocking in tests and swapping implementations.
type Repository interface {
	// SaveCard inserts or replaces a card record
	SaveCard(rec *card.Record) error

	// GetCard retrieves a card by ID, returning ErrNotFound if absent
	GetCard(id string) (*card.Record, error)

	// ListCards returns all stored cards ordered by creation time
	ListCards() ([]card.Record, error)

	// DeleteCard removes a card by ID, returning ErrNotFound if absent
	DeleteCard(id string) error

	// Close closes the underlying database connection
	Close() error
}
