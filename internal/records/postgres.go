// file: internal/records/postgres.go
// version: 1.0.0
// guid: d7a3c0e9-5f14-4b82-a6d1-0e9b7c4f2a58

package records

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"regexp"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/elsayedebiad/qsr-final-sub001/internal/models"
)

// DefaultTable holds one JSON document per candidate in a "data" column.
const DefaultTable = "cvs"

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// PostgresSource reads records from a table whose rows carry the record
// JSON in a "data" column.
type PostgresSource struct {
	db    *sql.DB
	table string
}

// OpenPostgresSource connects to dsn and verifies the connection.
func OpenPostgresSource(dsn, table string) (*PostgresSource, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	src, err := NewPostgresSource(db, table)
	if err != nil {
		db.Close()
		return nil, err
	}
	return src, nil
}

// NewPostgresSource wraps an existing connection pool.
func NewPostgresSource(db *sql.DB, table string) (*PostgresSource, error) {
	if table == "" {
		table = DefaultTable
	}
	if !identPattern.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	return &PostgresSource{db: db, table: table}, nil
}

// Describe implements Source.
func (s *PostgresSource) Describe() string { return "postgres:" + s.table }

// Load implements Source. Rows come back in id order.
func (s *PostgresSource) Load(ctx context.Context) ([]models.CandidateRecord, error) {
	query := fmt.Sprintf(`SELECT id, data FROM %s ORDER BY id`, s.table)
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	var out []models.CandidateRecord
	for rows.Next() {
		var (
			id   string
			data []byte
		)
		if err := rows.Scan(&id, &data); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		var rec models.CandidateRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			return nil, fmt.Errorf("decode record %s: %w", id, err)
		}
		if rec.Key() == "" {
			rec.ID = models.FlexString(id)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}
	return out, nil
}

// Close releases the connection pool.
func (s *PostgresSource) Close() error {
	return s.db.Close()
}
