package history

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/zstd"
	_ "modernc.org/sqlite"

	"revq/internal/errors"
	"revq/internal/logging"
	"revq/internal/report"
)

// sealedAtLayout pads fractional seconds to a fixed width so the TEXT
// column sorts lexicographically in chronological order. RFC3339Nano
// drops trailing zeros, which would sort whole-second timestamps after
// fractional ones within the same second.
const sealedAtLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store persists sealed reports in a local SQLite database. Sealed
// reports are immutable, so the store only inserts and reads; there is
// no update path. The full report is kept as a zstd-compressed JSON
// payload next to a few queryable columns.
type Store struct {
	conn    *sql.DB
	logger  *logging.Logger
	dbPath  string
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

// Open opens or creates the history database at <dir>/history.db.
func Open(dir string, logger *logging.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.New(errors.StoreUnavailable, "cannot create history directory", err)
	}

	dbPath := filepath.Join(dir, "history.db")
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, errors.New(errors.StoreUnavailable, "cannot open history database", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := conn.Exec(pragma); err != nil {
			_ = conn.Close()
			return nil, errors.New(errors.StoreUnavailable, "cannot set pragma", err)
		}
	}

	schema := `
		CREATE TABLE IF NOT EXISTS reports (
			id TEXT PRIMARY KEY,
			changeset TEXT NOT NULL,
			sealed_at TEXT NOT NULL,
			score INTEGER NOT NULL,
			risk_level TEXT NOT NULL,
			total_issues INTEGER NOT NULL,
			payload BLOB NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_reports_changeset ON reports(changeset);
		CREATE INDEX IF NOT EXISTS idx_reports_sealed_at ON reports(sealed_at);
	`
	if _, err := conn.Exec(schema); err != nil {
		_ = conn.Close()
		return nil, errors.New(errors.StoreUnavailable, "cannot initialize history schema", err)
	}

	encoder, err := zstd.NewWriter(nil)
	if err != nil {
		_ = conn.Close()
		return nil, errors.New(errors.StoreUnavailable, "cannot create compressor", err)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		_ = conn.Close()
		return nil, errors.New(errors.StoreUnavailable, "cannot create decompressor", err)
	}

	if logger == nil {
		logger = logging.NewDiscardLogger()
	}

	return &Store{
		conn:    conn,
		logger:  logger,
		dbPath:  dbPath,
		encoder: encoder,
		decoder: decoder,
	}, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	s.encoder.Close()
	s.decoder.Close()
	return s.conn.Close()
}

// Save persists one sealed report. Saving the same report id twice is an
// error: sealed reports are never rewritten.
func (s *Store) Save(rep *report.AggregateReport) error {
	payload, err := json.Marshal(rep)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	compressed := s.encoder.EncodeAll(payload, nil)

	_, err = s.conn.Exec(
		`INSERT INTO reports (id, changeset, sealed_at, score, risk_level, total_issues, payload)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rep.ID,
		rep.Changeset,
		rep.SealedAt.UTC().Format(sealedAtLayout),
		rep.Score,
		string(rep.RiskLevel),
		rep.TotalIssues,
		compressed,
	)
	if err != nil {
		return fmt.Errorf("insert report: %w", err)
	}

	s.logger.Debug("report stored", logging.Fields{
		"id":        rep.ID,
		"changeset": rep.Changeset,
		"bytes":     len(compressed),
	})
	return nil
}

// Get loads one sealed report by id. Returns nil when not found.
func (s *Store) Get(id string) (*report.AggregateReport, error) {
	var compressed []byte
	err := s.conn.QueryRow(`SELECT payload FROM reports WHERE id = ?`, id).Scan(&compressed)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query report: %w", err)
	}

	payload, err := s.decoder.DecodeAll(compressed, nil)
	if err != nil {
		return nil, fmt.Errorf("decompress report: %w", err)
	}

	var rep report.AggregateReport
	if err := json.Unmarshal(payload, &rep); err != nil {
		return nil, fmt.Errorf("unmarshal report: %w", err)
	}
	return &rep, nil
}

// Entry is one row of the history listing.
type Entry struct {
	ID          string    `json:"id"`
	Changeset   string    `json:"changeset"`
	SealedAt    time.Time `json:"sealedAt"`
	Score       int       `json:"score"`
	RiskLevel   string    `json:"riskLevel"`
	TotalIssues int       `json:"totalIssues"`
}

// List returns the most recent entries, newest first.
func (s *Store) List(limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.conn.Query(
		`SELECT id, changeset, sealed_at, score, risk_level, total_issues
		 FROM reports ORDER BY sealed_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var sealedAt string
		if err := rows.Scan(&e.ID, &e.Changeset, &sealedAt, &e.Score, &e.RiskLevel, &e.TotalIssues); err != nil {
			return nil, fmt.Errorf("scan report row: %w", err)
		}
		t, err := time.Parse(sealedAtLayout, sealedAt)
		if err != nil {
			return nil, fmt.Errorf("parse sealed_at: %w", err)
		}
		e.SealedAt = t
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
