package storage

import (
	"sort"
	"sync"

	"github.com/eshaffer321/churnpilot-backend/internal/domain/card"
)

// MockRepository is an in-memory implementation of Repository for testing
type MockRepository struct {
	mu    sync.Mutex
	cards map[string]card.Record

	// SaveErr, if set, is returned from SaveCard to simulate failures
	SaveErr error
}

// Compile-time check that MockRepository implements Repository
var _ Repository = (*MockRepository)(nil)

// NewMockRepository creates a new in-memory repository
func NewMockRepository() *MockRepository {
	return &MockRepository{cards: make(map[string]card.Record)}
}

// SaveCard inserts or replaces a card record
func (m *MockRepository) SaveCard(rec *card.Record) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	if err := rec.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cards[rec.ID] = *rec
	return nil
}

// GetCard retrieves a card by ID
func (m *MockRepository) GetCard(id string) (*card.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.cards[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &rec, nil
}

// ListCards returns all stored cards ordered by creation time
func (m *MockRepository) ListCards() ([]card.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]card.Record, 0, len(m.cards))
	for _, rec := range m.cards {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// DeleteCard removes a card by ID
func (m *MockRepository) DeleteCard(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.cards[id]; !ok {
		return ErrNotFound
	}
	delete(m.cards, id)
	return nil
}

// Close is a no-op for the mock
func (m *MockRepository) Close() error {
	return nil
}
