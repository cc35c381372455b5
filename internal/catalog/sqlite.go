package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/hyperestate/aqari/internal/models"
)

// SQLiteStore persists property catalogs in SQLite, one row per listing
// keyed by locale. Features and images are stored as JSON columns.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens or creates a catalog database at dbPath and initializes
// the schema. Parent directories are created if they do not exist.
func OpenSQLite(dbPath string) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS properties (
		id TEXT NOT NULL,
		locale TEXT NOT NULL,
		position INTEGER NOT NULL,
		title TEXT NOT NULL,
		description TEXT,
		type TEXT NOT NULL,
		city TEXT NOT NULL,
		district TEXT,
		price INTEGER NOT NULL,
		features TEXT,
		images TEXT,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (id, locale)
	);

	CREATE INDEX IF NOT EXISTS idx_properties_locale_position ON properties(locale, position);
	CREATE INDEX IF NOT EXISTS idx_properties_city ON properties(city);
	`
	_, err := db.Exec(schema)
	return err
}

// ReplaceAll swaps a locale's rows for the given properties in one
// transaction. The slice order is persisted in the position column so
// LoadAll reproduces catalog order exactly.
func (s *SQLiteStore) ReplaceAll(ctx context.Context, locale string, properties []models.Property) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM properties WHERE locale = ?`, locale); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO properties (id, locale, position, title, description, type, city, district, price, features, images, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return err
	}
	defer stmt.Close()

	now := time.Now()
	for i, p := range properties {
		featuresJSON, err := json.Marshal(p.Features)
		if err != nil {
			return fmt.Errorf("failed to marshal features for %s: %w", p.ID, err)
		}
		imagesJSON, err := json.Marshal(p.Images)
		if err != nil {
			return fmt.Errorf("failed to marshal images for %s: %w", p.ID, err)
		}
		if _, err := stmt.ExecContext(ctx,
			p.ID, locale, i, p.Title, p.Description, p.Type, p.City, p.District,
			p.Price, string(featuresJSON), string(imagesJSON), now,
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// LoadAll returns a locale's properties in stored catalog order.
func (s *SQLiteStore) LoadAll(ctx context.Context, locale string) ([]models.Property, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, description, type, city, district, price, features, images
		 FROM properties WHERE locale = ? ORDER BY position`,
		locale,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var properties []models.Property
	for rows.Next() {
		var p models.Property
		var featuresJSON, imagesJSON string
		if err := rows.Scan(&p.ID, &p.Title, &p.Description, &p.Type, &p.City, &p.District, &p.Price, &featuresJSON, &imagesJSON); err != nil {
			return nil, err
		}
		if featuresJSON != "" {
			if err := json.Unmarshal([]byte(featuresJSON), &p.Features); err != nil {
				return nil, fmt.Errorf("failed to unmarshal features for %s: %w", p.ID, err)
			}
		}
		if imagesJSON != "" {
			_ = json.Unmarshal([]byte(imagesJSON), &p.Images)
		}
		properties = append(properties, p)
	}
	return properties, rows.Err()
}

// Count returns the number of properties stored for a locale.
func (s *SQLiteStore) Count(ctx context.Context, locale string) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM properties WHERE locale = ?`, locale).Scan(&count)
	return count, err
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
