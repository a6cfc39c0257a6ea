package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/dsb-tools/billet2ics/pkg/logger"
)

// ConversionStorage handles storage of conversion history records
type ConversionStorage struct {
	db     *sql.DB
	logger *logger.Logger
}

// NewConversionStorage creates a new SQLite conversion storage
func NewConversionStorage(db *sql.DB, log *logger.Logger) (*ConversionStorage, error) {
	storage := &ConversionStorage{
		db:     db,
		logger: log.Named("sqlite-conversions"),
	}

	if err := storage.initDB(); err != nil {
		return nil, fmt.Errorf("failed to initialize conversion storage: %w", err)
	}
	return storage, nil
}

// initDB initializes the database tables
func (s *ConversionStorage) initDB() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS conversions (
			id TEXT PRIMARY KEY,
			source_file TEXT NOT NULL,
			from_station TEXT NOT NULL,
			to_station TEXT NOT NULL,
			departure TIMESTAMP NOT NULL,
			status TEXT NOT NULL DEFAULT 'converted',
			created_at TIMESTAMP NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create conversions table: %w", err)
	}

	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_conversions_created_at ON conversions(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_conversions_departure ON conversions(departure)`,
	}
	for _, indexSQL := range indexes {
		if _, err := s.db.Exec(indexSQL); err != nil {
			return fmt.Errorf("failed to create conversion index: %w", err)
		}
	}

	return nil
}

// StoreConversion stores a conversion record
func (s *ConversionStorage) StoreConversion(record *ConversionRecord) error {
	_, err := s.db.Exec(
		`INSERT INTO conversions
		(id, source_file, from_station, to_station, departure, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		record.ID,
		record.SourceFile,
		record.FromStation,
		record.ToStation,
		record.Departure.Format(time.RFC3339),
		record.Status,
		record.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to insert conversion: %w", err)
	}
	return nil
}

// GetRecentConversions returns the most recent conversions
func (s *ConversionStorage) GetRecentConversions(limit int) ([]*ConversionRecord, error) {
	rows, err := s.db.Query(
		`SELECT id, source_file, from_station, to_station, departure, status, created_at
		FROM conversions
		ORDER BY created_at DESC
		LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent conversions: %w", err)
	}
	defer rows.Close()

	return s.scanConversionRows(rows)
}

// scanConversionRows scans database rows into ConversionRecord structs
func (s *ConversionStorage) scanConversionRows(rows *sql.Rows) ([]*ConversionRecord, error) {
	var records []*ConversionRecord
	for rows.Next() {
		var record ConversionRecord
		var departure, createdAt string

		if err := rows.Scan(
			&record.ID,
			&record.SourceFile,
			&record.FromStation,
			&record.ToStation,
			&departure,
			&record.Status,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan conversion: %w", err)
		}

		var err error
		record.Departure, err = time.Parse(time.RFC3339, departure)
		if err != nil {
			return nil, fmt.Errorf("failed to parse departure: %w", err)
		}
		record.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse created_at: %w", err)
		}

		records = append(records, &record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate conversions: %w", err)
	}
	return records, nil
}
