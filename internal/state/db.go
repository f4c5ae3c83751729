package state

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	hiveerrors "github.com/HexSleeves/hive/internal/errors"
)

const (
	maxRetries     = 3
	retryBaseDelay = 25 * time.Millisecond
	retryMaxDelay  = 250 * time.Millisecond
)

// DB is the SQLite journal of hive runs. The simulation never reads it back;
// every run starts from a fresh hive.
type DB struct {
	mu   sync.Mutex
	db   *sql.DB
	path string
}

// OpenDB opens (or creates) the hive SQLite database
func OpenDB(hiveDir string) (*DB, error) {
	if err := os.MkdirAll(hiveDir, 0755); err != nil {
		return nil, fmt.Errorf("create hive dir: %w", err)
	}

	dbPath := filepath.Join(hiveDir, "hive.db")
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)", dbPath)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	// Single connection for writes, WAL allows concurrent reads
	db.SetMaxOpenConns(2)

	s := &DB{db: db, path: dbPath}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

// NewSessionID returns a short random session identifier.
func NewSessionID() string {
	return "hive-" + strings.SplitN(uuid.NewString(), "-", 2)[0]
}

func (s *DB) migrate() error {
	ddl := `
	CREATE TABLE IF NOT EXISTS sessions (
		id             TEXT PRIMARY KEY,
		label          TEXT NOT NULL,
		status         TEXT NOT NULL DEFAULT 'running',
		initial_honey  REAL NOT NULL DEFAULT 0,
		initial_nectar REAL NOT NULL DEFAULT 0,
		shifts         INTEGER NOT NULL DEFAULT 0,
		created_at     TEXT NOT NULL,
		updated_at     TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS shifts (
		session_id     TEXT NOT NULL,
		shift          INTEGER NOT NULL,
		worked         INTEGER NOT NULL,
		honey          REAL NOT NULL,
		nectar         REAL NOT NULL,
		eggs           REAL NOT NULL,
		unassigned     REAL NOT NULL,
		total_workers  INTEGER NOT NULL,
		workers_worked INTEGER NOT NULL,
		report         TEXT,
		created_at     TEXT NOT NULL,
		PRIMARY KEY (session_id, shift),
		FOREIGN KEY (session_id) REFERENCES sessions(id)
	);

	CREATE TABLE IF NOT EXISTS assignments (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id  TEXT NOT NULL,
		shift       INTEGER NOT NULL,
		job         TEXT NOT NULL,
		accepted    INTEGER NOT NULL,
		created_at  TEXT NOT NULL,
		FOREIGN KEY (session_id) REFERENCES sessions(id)
	);
	CREATE INDEX IF NOT EXISTS idx_assignments_session ON assignments(session_id);

	CREATE TABLE IF NOT EXISTS events (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id  TEXT NOT NULL,
		type        TEXT NOT NULL,
		shift       INTEGER NOT NULL DEFAULT 0,
		data        TEXT,
		created_at  TEXT NOT NULL,
		FOREIGN KEY (session_id) REFERENCES sessions(id)
	);
	CREATE INDEX IF NOT EXISTS idx_events_session ON events(session_id);
	CREATE INDEX IF NOT EXISTS idx_events_type ON events(type);
	`
	_, err := s.db.Exec(ddl)
	return err
}

// exec runs a write, retrying while SQLite reports lock contention.
func (s *DB) exec(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			delay := hiveerrors.CalculateBackoff(retryBaseDelay, attempt-1, retryMaxDelay)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}
		res, err := s.db.ExecContext(ctx, query, args...)
		if err == nil {
			return res, nil
		}
		lastErr = classify(err)
		if hiveerrors.IsPermanent(lastErr) {
			return nil, lastErr
		}
	}
	return nil, lastErr
}

// classify tags engine errors by result code: busy and locked are retryable,
// every other SQLite error is permanent. Errors from outside the engine are
// left to message classification.
func classify(err error) error {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return err
	}
	switch se.Code() & 0xff {
	case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED:
		return hiveerrors.NewRetryableError(err, "sqlite")
	default:
		return hiveerrors.NewPermanentError(err, "sqlite")
	}
}

// timeLayout is fixed width so timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

func now() string {
	return time.Now().UTC().Format(timeLayout)
}

// --- Session operations ---

type SessionInfo struct {
	ID            string  `json:"id"`
	Label         string  `json:"label"`
	Status        string  `json:"status"`
	InitialHoney  float64 `json:"initial_honey"`
	InitialNectar float64 `json:"initial_nectar"`
	Shifts        int     `json:"shifts"`
	CreatedAt     string  `json:"created_at"`
	UpdatedAt     string  `json:"updated_at"`
}

const sessionColumns = `id, label, status, initial_honey, initial_nectar, shifts, created_at, updated_at`

func (s *DB) CreateSession(ctx context.Context, id, label string, honey, nectar float64) error {
	ts := now()
	_, err := s.exec(ctx,
		`INSERT INTO sessions (id, label, status, initial_honey, initial_nectar, created_at, updated_at) VALUES (?, ?, 'running', ?, ?, ?, ?)`,
		id, label, honey, nectar, ts, ts,
	)
	return err
}

func (s *DB) UpdateSessionStatus(ctx context.Context, id, status string) error {
	_, err := s.exec(ctx,
		`UPDATE sessions SET status = ?, updated_at = ? WHERE id = ?`,
		status, now(), id,
	)
	return err
}

func (s *DB) GetSession(ctx context.Context, id string) (*SessionInfo, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+sessionColumns+` FROM sessions WHERE id = ?`, id)
	return scanSession(row)
}

func (s *DB) LatestSession(ctx context.Context) (*SessionInfo, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+sessionColumns+` FROM sessions ORDER BY created_at DESC, rowid DESC LIMIT 1`)
	return scanSession(row)
}

// ListSessions returns the most recent sessions first. limit <= 0 means no
// limit.
func (s *DB) ListSessions(ctx context.Context, limit int) ([]SessionInfo, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+sessionColumns+` FROM sessions ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []SessionInfo
	for rows.Next() {
		si, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, *si)
	}
	return sessions, rows.Err()
}

// --- Shift journal ---

type ShiftRow struct {
	SessionID     string  `json:"session_id"`
	Shift         int     `json:"shift"`
	Worked        bool    `json:"worked"`
	Honey         float64 `json:"honey"`
	Nectar        float64 `json:"nectar"`
	Eggs          float64 `json:"eggs"`
	Unassigned    float64 `json:"unassigned"`
	TotalWorkers  int     `json:"total_workers"`
	WorkersWorked int     `json:"workers_worked"`
	Report        string  `json:"report"`
	CreatedAt     string  `json:"created_at"`
}

// RecordShift stores a shift and advances the session's shift counter.
func (s *DB) RecordShift(ctx context.Context, row ShiftRow) error {
	ts := now()
	if _, err := s.exec(ctx,
		`INSERT OR REPLACE INTO shifts (session_id, shift, worked, honey, nectar, eggs, unassigned, total_workers, workers_worked, report, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		row.SessionID, row.Shift, row.Worked, row.Honey, row.Nectar, row.Eggs, row.Unassigned,
		row.TotalWorkers, row.WorkersWorked, row.Report, ts,
	); err != nil {
		return err
	}
	_, err := s.exec(ctx,
		`UPDATE sessions SET shifts = MAX(shifts, ?), updated_at = ? WHERE id = ?`,
		row.Shift, ts, row.SessionID,
	)
	return err
}

func (s *DB) GetShifts(ctx context.Context, sessionID string) ([]ShiftRow, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT session_id, shift, worked, honey, nectar, eggs, unassigned, total_workers, workers_worked, COALESCE(report, ''), created_at
		 FROM shifts WHERE session_id = ? ORDER BY shift`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var shifts []ShiftRow
	for rows.Next() {
		var r ShiftRow
		if err := rows.Scan(&r.SessionID, &r.Shift, &r.Worked, &r.Honey, &r.Nectar, &r.Eggs,
			&r.Unassigned, &r.TotalWorkers, &r.WorkersWorked, &r.Report, &r.CreatedAt); err != nil {
			return nil, err
		}
		shifts = append(shifts, r)
	}
	return shifts, rows.Err()
}

// --- Assignments ---

type AssignmentRow struct {
	ID        int64  `json:"id"`
	SessionID string `json:"session_id"`
	Shift     int    `json:"shift"`
	Job       string `json:"job"`
	Accepted  bool   `json:"accepted"`
	CreatedAt string `json:"created_at"`
}

func (s *DB) RecordAssignment(ctx context.Context, row AssignmentRow) (int64, error) {
	res, err := s.exec(ctx,
		`INSERT INTO assignments (session_id, shift, job, accepted, created_at) VALUES (?, ?, ?, ?, ?)`,
		row.SessionID, row.Shift, row.Job, row.Accepted, now(),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// CountAssignments returns accepted assignments per job for a session.
func (s *DB) CountAssignments(ctx context.Context, sessionID string) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT job, COUNT(*) FROM assignments WHERE session_id = ? AND accepted = 1 GROUP BY job`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var job string
		var c int
		if err := rows.Scan(&job, &c); err != nil {
			return nil, err
		}
		counts[job] = c
	}
	return counts, rows.Err()
}

// --- Event log (append-only) ---

func (s *DB) AppendEvent(ctx context.Context, sessionID, eventType string, shift int, data interface{}) (int64, error) {
	var dataStr string
	if data != nil {
		b, err := json.Marshal(data)
		if err != nil {
			return 0, err
		}
		dataStr = string(b)
	}
	result, err := s.exec(ctx,
		`INSERT INTO events (session_id, type, shift, data, created_at) VALUES (?, ?, ?, ?, ?)`,
		sessionID, eventType, shift, dataStr, now(),
	)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

func (s *DB) EventCount(ctx context.Context, sessionID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM events WHERE session_id = ?`, sessionID).Scan(&count)
	return count, err
}

// --- Lifecycle ---

func (s *DB) Close() error {
	return s.db.Close()
}

func (s *DB) Path() string {
	return s.path
}

// --- scan helpers ---

type scannable interface {
	Scan(dest ...interface{}) error
}

func scanSession(row scannable) (*SessionInfo, error) {
	var si SessionInfo
	err := row.Scan(&si.ID, &si.Label, &si.Status, &si.InitialHoney, &si.InitialNectar,
		&si.Shifts, &si.CreatedAt, &si.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, hiveerrors.ErrNoSession
	}
	if err != nil {
		return nil, err
	}
	return &si, nil
}
