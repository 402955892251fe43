package runs

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/harrison/xraycheck/internal/models"
)

// Store manages the SQLite database holding the run history.
type Store struct {
	db     *sql.DB
	dbPath string
}

// NewStore creates a new Store instance and initializes the database
func NewStore(dbPath string) (*Store, error) {
	if dbPath != ":memory:" {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}
	return openAndInitStore(dbPath)
}

// openAndInitStore opens the database connection and initializes schema
func openAndInitStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Configure SQLite for concurrent access with retry logic.
	// Set busy_timeout FIRST so subsequent operations wait on locks.
	pragmas := []string{
		"PRAGMA busy_timeout=5000", // Must be first
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
	}

	for _, pragma := range pragmas {
		if err := execWithRetry(db, pragma, 5, 10*time.Millisecond); err != nil {
			db.Close()
			return nil, fmt.Errorf("set %s: %w", pragma, err)
		}
	}

	store := &Store{db: db, dbPath: dbPath}
	if err := store.applyMigrations(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply migrations: %w", err)
	}

	return store, nil
}

// execWithRetry executes a SQL statement with exponential backoff retry on lock errors.
func execWithRetry(db *sql.DB, sql string, maxRetries int, baseDelay time.Duration) error {
	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		_, err := db.Exec(sql)
		if err == nil {
			return nil
		}

		// Only retry on "database is locked" errors
		if !strings.Contains(err.Error(), "database is locked") {
			return err
		}

		lastErr = err
		time.Sleep(baseDelay * time.Duration(1<<attempt))
	}
	return lastErr
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// RecordRun inserts one run record. A missing UUID is generated; CreatedAt
// is filled by the database.
func (s *Store) RecordRun(ctx context.Context, rec *models.RunRecord) error {
	if rec.UUID == "" {
		rec.UUID = uuid.New().String()
	}

	query := `INSERT INTO runs
		(uuid, number, folder, deal_file, strain, leader, tricks_per_hand,
		 verdict, difference_count, trace_verdict, first_divergence,
		 reference_iterations, candidate_iterations)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	result, err := s.db.ExecContext(ctx, query,
		rec.UUID,
		rec.Number,
		rec.Folder,
		rec.DealFile,
		rec.Strain,
		rec.Leader,
		rec.TricksPerHand,
		rec.Verdict,
		rec.DifferenceCount,
		rec.TraceVerdict,
		rec.FirstDivergence,
		rec.ReferenceIterations,
		rec.CandidateIterations,
	)
	if err != nil {
		return fmt.Errorf("insert run record: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}
	rec.ID = id

	return nil
}

const runColumns = `id, uuid, number, folder, deal_file, strain, leader,
	tricks_per_hand, verdict, difference_count, trace_verdict,
	first_divergence, reference_iterations, candidate_iterations, created_at`

// ListRuns retrieves run records, most recent first. limit <= 0 means all.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]*models.RunRecord, error) {
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY id DESC`
	args := []interface{}{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var records []*models.RunRecord
	for rows.Next() {
		rec, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate run rows: %w", err)
	}

	return records, nil
}

// GetRun retrieves the most recent record with the given run number.
func (s *Store) GetRun(ctx context.Context, number int) (*models.RunRecord, error) {
	query := `SELECT ` + runColumns + ` FROM runs WHERE number = ? ORDER BY id DESC LIMIT 1`

	rows, err := s.db.QueryContext(ctx, query, number)
	if err != nil {
		return nil, fmt.Errorf("query run: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("iterate run rows: %w", err)
		}
		return nil, fmt.Errorf("run %d not found in history", number)
	}
	return scanRun(rows)
}

// scanRun reads one run row.
func scanRun(rows *sql.Rows) (*models.RunRecord, error) {
	rec := &models.RunRecord{}
	var strain, leader, traceVerdict sql.NullString
	var createdAt sql.NullTime

	err := rows.Scan(
		&rec.ID,
		&rec.UUID,
		&rec.Number,
		&rec.Folder,
		&rec.DealFile,
		&strain,
		&leader,
		&rec.TricksPerHand,
		&rec.Verdict,
		&rec.DifferenceCount,
		&traceVerdict,
		&rec.FirstDivergence,
		&rec.ReferenceIterations,
		&rec.CandidateIterations,
		&createdAt,
	)
	if err != nil {
		return nil, fmt.Errorf("scan run row: %w", err)
	}

	if strain.Valid {
		rec.Strain = strain.String
	}
	if leader.Valid {
		rec.Leader = leader.String
	}
	if traceVerdict.Valid {
		rec.TraceVerdict = traceVerdict.String
	}
	if createdAt.Valid {
		rec.CreatedAt = createdAt.Time
	}

	return rec, nil
}
