package benchmark

import (
	"database/sql"
	"time"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

const historySchema = `
CREATE TABLE IF NOT EXISTS runs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	started_at TEXT NOT NULL,
	family TEXT NOT NULL,
	iterations INTEGER NOT NULL,
	images INTEGER NOT NULL,
	detections INTEGER NOT NULL,
	elapsed_ms REAL NOT NULL,
	ms_per_frame REAL NOT NULL
);`

// RunRecord is one completed run as stored in the history database.
type RunRecord struct {
	StartedAt  time.Time
	Family     string
	Iterations int
	Summary    Summary
}

// History appends run summaries to a SQLite database so results can
// be compared across benchmark sessions.
type History struct {
	db *sql.DB
}

// OpenHistory opens (and if needed initializes) the history database
// at path.
func OpenHistory(path string) (*History, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, "open history store")
	}
	// SQLite supports a single writer; keep the pool at one.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(historySchema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "initialize history schema")
	}
	return &History{db: db}, nil
}

// Append stores one run summary.
func (h *History) Append(rec RunRecord) error {
	_, err := h.db.Exec(
		`INSERT INTO runs (started_at, family, iterations, images, detections, elapsed_ms, ms_per_frame)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.StartedAt.UTC().Format(time.RFC3339),
		rec.Family,
		rec.Iterations,
		rec.Summary.TotalImages,
		rec.Summary.TotalDetections,
		rec.Summary.TotalMillis(),
		rec.Summary.AvgMillisPerFrame(),
	)
	return errors.Wrap(err, "append run record")
}

// Recent returns up to limit of the most recently stored runs, newest
// first.
func (h *History) Recent(limit int) ([]RunRecord, error) {
	rows, err := h.db.Query(
		`SELECT started_at, family, iterations, images, detections, elapsed_ms
		 FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, errors.Wrap(err, "query run records")
	}
	defer rows.Close()

	var out []RunRecord
	for rows.Next() {
		var (
			rec       RunRecord
			startedAt string
			elapsedMs float64
		)
		if err := rows.Scan(&startedAt, &rec.Family, &rec.Iterations,
			&rec.Summary.TotalImages, &rec.Summary.TotalDetections, &elapsedMs); err != nil {
			return nil, errors.Wrap(err, "scan run record")
		}
		if ts, err := time.Parse(time.RFC3339, startedAt); err == nil {
			rec.StartedAt = ts
		}
		rec.Summary.TotalElapsed = time.Duration(elapsedMs * float64(time.Millisecond))
		if rec.Summary.TotalImages > 0 {
			rec.Summary.AvgPerFrame = rec.Summary.TotalElapsed / time.Duration(rec.Summary.TotalImages)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Close releases the database handle.
func (h *History) Close() error {
	return h.db.Close()
}
