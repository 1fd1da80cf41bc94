package database

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jgoulah/energycalc/pkg/models"
	_ "modernc.org/sqlite"
)

// timeLayout is fixed-width so created_at sorts lexically
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// DB wraps the database connection
type DB struct {
	conn *sql.DB
}

// New creates a new database connection and initializes the schema
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.initSchema(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}

	return db, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// initSchema creates the necessary tables
func (db *DB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS estimates (
		id TEXT PRIMARY KEY,
		created_at TEXT NOT NULL,
		name TEXT NOT NULL,
		city TEXT NOT NULL,
		area TEXT NOT NULL,
		dwelling TEXT NOT NULL,
		housing TEXT NOT NULL,
		appliances TEXT NOT NULL DEFAULT '',
		policy TEXT NOT NULL,
		base_kwh REAL NOT NULL,
		daily_kwh REAL NOT NULL,
		monthly_kwh REAL NOT NULL,
		published INTEGER DEFAULT 0
	);
	CREATE INDEX IF NOT EXISTS idx_estimates_created_at ON estimates(created_at);
	CREATE INDEX IF NOT EXISTS idx_estimates_published ON estimates(published);
	`

	_, err := db.conn.Exec(schema)
	return err
}

const selectColumns = `id, created_at, name, city, area, dwelling, housing, appliances, policy, base_kwh, daily_kwh, monthly_kwh, published`

// InsertEstimate stores an estimate, ignoring duplicate IDs
func (db *DB) InsertEstimate(rec *models.EstimateRecord) error {
	query := `
	INSERT OR IGNORE INTO estimates (id, created_at, name, city, area, dwelling, housing, appliances, policy, base_kwh, daily_kwh, monthly_kwh)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err := db.conn.Exec(query,
		rec.ID,
		createdAt.UTC().Format(timeLayout),
		rec.Name,
		rec.City,
		rec.Area,
		rec.Dwelling,
		rec.Housing,
		strings.Join(rec.Appliances, ","),
		rec.Policy,
		rec.BaseKWh,
		rec.DailyKWh,
		rec.MonthlyKWh,
	)
	if err != nil {
		return fmt.Errorf("inserting estimate: %w", err)
	}

	return nil
}

// GetEstimate retrieves a single estimate by ID, nil if it does not exist
func (db *DB) GetEstimate(id string) (*models.EstimateRecord, error) {
	query := `SELECT ` + selectColumns + ` FROM estimates WHERE id = ?`

	rec, err := scanEstimate(db.conn.QueryRow(query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying estimate: %w", err)
	}

	return rec, nil
}

// ListEstimates retrieves stored estimates, newest first. A limit of 0 means no limit.
func (db *DB) ListEstimates(limit int) ([]models.EstimateRecord, error) {
	query := `SELECT ` + selectColumns + ` FROM estimates ORDER BY created_at DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	return db.query(query, args...)
}

// ListUnpublishedEstimates retrieves estimates not yet published, oldest first
func (db *DB) ListUnpublishedEstimates() ([]models.EstimateRecord, error) {
	query := `SELECT ` + selectColumns + ` FROM estimates WHERE published = 0 ORDER BY created_at ASC`
	return db.query(query)
}

// MarkPublished marks an estimate as published
func (db *DB) MarkPublished(id string) error {
	query := `UPDATE estimates SET published = 1 WHERE id = ?`
	_, err := db.conn.Exec(query, id)
	if err != nil {
		return fmt.Errorf("marking estimate as published: %w", err)
	}
	return nil
}

func (db *DB) query(query string, args ...any) ([]models.EstimateRecord, error) {
	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying estimates: %w", err)
	}
	defer rows.Close()

	var results []models.EstimateRecord
	for rows.Next() {
		rec, err := scanEstimate(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		results = append(results, *rec)
	}

	return results, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEstimate(row scanner) (*models.EstimateRecord, error) {
	var rec models.EstimateRecord
	var createdAt, appliances string
	var published int

	if err := row.Scan(
		&rec.ID,
		&createdAt,
		&rec.Name,
		&rec.City,
		&rec.Area,
		&rec.Dwelling,
		&rec.Housing,
		&appliances,
		&rec.Policy,
		&rec.BaseKWh,
		&rec.DailyKWh,
		&rec.MonthlyKWh,
		&published,
	); err != nil {
		return nil, err
	}

	t, err := time.Parse(timeLayout, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	rec.CreatedAt = t
	rec.Published = published != 0

	if appliances != "" {
		rec.Appliances = strings.Split(appliances, ",")
	}

	return &rec, nil
}
