package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/eshaffer321/churnpilot-backend/internal/domain/card"
)

// ErrNotFound is returned when a card ID has no stored record.
var ErrNotFound = errors.New("card not found")

// Storage provides SQLite database access for card records.
// It implements the Repository interface.
type Storage struct {
	db *sql.DB
}

// Compile-time check that Storage implements Repository
var _ Repository = (*Storage)(nil)

// NewStorage creates a new storage instance with SQLite database
func NewStorage(dbPath string) (*Storage, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	// Enable foreign key constraints (SQLite-specific)
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	s := &Storage{db: db}

	if err := s.runMigrations(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return s, nil
}

// Close closes the database connection
func (s *Storage) Close() error {
	return s.db.Close()
}

// SaveCard inserts or replaces a card record
func (s *Storage) SaveCard(rec *card.Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}

	benefitsJSON, err := json.Marshal(rec.Benefits)
	if err != nil {
		return fmt.Errorf("failed to encode benefits: %w", err)
	}
	usageJSON, err := json.Marshal(rec.Usage)
	if err != nil {
		return fmt.Errorf("failed to encode usage: %w", err)
	}

	var bonusJSON sql.NullString
	if rec.SignupBonus != nil {
		b, err := json.Marshal(rec.SignupBonus)
		if err != nil {
			return fmt.Errorf("failed to encode signup bonus: %w", err)
		}
		bonusJSON = sql.NullString{String: string(b), Valid: true}
	}

	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	query := `
	INSERT OR REPLACE INTO cards
	(id, name, nickname, issuer, annual_fee, template_id, business, closed,
	 opened_date, signup_bonus_json, benefits_json, usage_json, notes,
	 raw_text, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = s.db.Exec(query,
		rec.ID,
		rec.Name,
		rec.Nickname,
		rec.Issuer,
		rec.AnnualFee,
		rec.TemplateID,
		rec.Business,
		rec.Closed,
		nullableDate(rec.OpenedDate),
		bonusJSON,
		string(benefitsJSON),
		string(usageJSON),
		rec.Notes,
		rec.RawText,
		createdAt.Format(time.RFC3339),
	)
	return err
}

// GetCard retrieves a card by ID
func (s *Storage) GetCard(id string) (*card.Record, error) {
	row := s.db.QueryRow(selectColumns+` FROM cards WHERE id = ?`, id)

	rec, err := scanCard(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return rec, err
}

// ListCards returns all stored cards ordered by creation time
func (s *Storage) ListCards() ([]card.Record, error) {
	rows, err := s.db.Query(selectColumns + ` FROM cards ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []card.Record
	for rows.Next() {
		rec, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

// DeleteCard removes a card by ID
func (s *Storage) DeleteCard(id string) error {
	result, err := s.db.Exec(`DELETE FROM cards WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

const selectColumns = `
	SELECT id, name, nickname, issuer, annual_fee, template_id, business,
	       closed, opened_date, signup_bonus_json, benefits_json, usage_json,
	       notes, raw_text, created_at`

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanCard(sc scanner) (*card.Record, error) {
	rec := &card.Record{}
	var (
		opened    sql.NullString
		bonusJSON sql.NullString
		benefits  string
		usage     string
		createdAt string
	)

	err := sc.Scan(
		&rec.ID,
		&rec.Name,
		&rec.Nickname,
		&rec.Issuer,
		&rec.AnnualFee,
		&rec.TemplateID,
		&rec.Business,
		&rec.Closed,
		&opened,
		&bonusJSON,
		&benefits,
		&usage,
		&rec.Notes,
		&rec.RawText,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	if opened.Valid {
		t, err := time.Parse(time.RFC3339, opened.String)
		if err != nil {
			return nil, fmt.Errorf("invalid opened_date for card %s: %w", rec.ID, err)
		}
		rec.OpenedDate = &t
	}
	if bonusJSON.Valid {
		var sb card.SignupBonus
		if err := json.Unmarshal([]byte(bonusJSON.String), &sb); err != nil {
			return nil, fmt.Errorf("invalid signup bonus for card %s: %w", rec.ID, err)
		}
		rec.SignupBonus = &sb
	}
	if benefits != "" {
		if err := json.Unmarshal([]byte(benefits), &rec.Benefits); err != nil {
			return nil, fmt.Errorf("invalid benefits for card %s: %w", rec.ID, err)
		}
	}
	if usage != "" {
		if err := json.Unmarshal([]byte(usage), &rec.Usage); err != nil {
			return nil, fmt.Errorf("invalid usage for card %s: %w", rec.ID, err)
		}
	}
	if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
		rec.CreatedAt = t
	}

	return rec, nil
}

func nullableDate(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: t.Format(time.RFC3339), Valid: true}
}
