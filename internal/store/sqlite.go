package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"github.com/rcliao/flight-plan/internal/model"
)

// dbtx is the query surface shared by *sql.DB and *sql.Tx.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db   dbtx
	conn *sql.DB // nil when the store is bound to a transaction
	ids  *idSource
}

type idSource struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

// NewSQLiteStore opens or creates a SQLite database at the given path.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=foreign_keys(on)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &SQLiteStore{
		db:   db,
		conn: db,
		ids:  &idSource{entropy: ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0)},
	}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) newID() string {
	s.ids.mu.Lock()
	defer s.ids.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), s.ids.entropy).String()
}

// inTx runs fn against a store bound to a single transaction, committing when
// fn succeeds. A store that is already inside a transaction runs fn directly.
func (s *SQLiteStore) inTx(ctx context.Context, fn func(tx *SQLiteStore) error) error {
	if s.conn == nil {
		return fn(s)
	}
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(&SQLiteStore{db: tx, ids: s.ids}); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS items (
		id              TEXT PRIMARY KEY,
		flight_plan_id  TEXT NOT NULL,
		item_type       TEXT NOT NULL,
		status          TEXT NOT NULL,
		name            TEXT NOT NULL,
		sequence_number INTEGER,
		catalog_id      TEXT,
		optional        INTEGER NOT NULL DEFAULT 0,
		points          INTEGER NOT NULL DEFAULT 0,
		submission_type TEXT,
		created_at      TEXT NOT NULL,
		deleted_at      TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_items_plan ON items(flight_plan_id);
	CREATE INDEX IF NOT EXISTS idx_items_deleted ON items(deleted_at);

	CREATE TABLE IF NOT EXISTS events (
		id          TEXT PRIMARY KEY,
		name        TEXT NOT NULL,
		date        TEXT,
		status      TEXT NOT NULL DEFAULT 'Active',
		description TEXT,
		location    TEXT,
		start_time  TEXT,
		end_time    TEXT,
		created_at  TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_events_date ON events(date, name);

	CREATE TABLE IF NOT EXISTS strengths (
		id   TEXT PRIMARY KEY,
		name TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS event_strengths (
		event_id    TEXT NOT NULL REFERENCES events(id) ON DELETE CASCADE,
		strength_id TEXT NOT NULL REFERENCES strengths(id),
		PRIMARY KEY (event_id, strength_id)
	);

	CREATE TABLE IF NOT EXISTS student_strengths (
		student_id  TEXT NOT NULL,
		strength_id TEXT NOT NULL REFERENCES strengths(id),
		PRIMARY KEY (student_id, strength_id)
	);

	CREATE TABLE IF NOT EXISTS event_relations (
		event_id   TEXT NOT NULL REFERENCES events(id) ON DELETE CASCADE,
		student_id TEXT NOT NULL,
		rel        TEXT NOT NULL,
		created_at TEXT NOT NULL,
		PRIMARY KEY (event_id, student_id, rel)
	);
	CREATE INDEX IF NOT EXISTS idx_relations_student ON event_relations(student_id);
	`
	_, err := s.conn.Exec(schema)
	return err
}

func (s *SQLiteStore) PutItem(ctx context.Context, p PutItemParams) (*model.FlightPlanItem, error) {
	status := p.Status
	if status == "" {
		status = model.StatusIncomplete
	}
	err := model.FlightPlanItem{
		FlightPlanID: p.FlightPlanID,
		Type:         p.Type,
		Status:       status,
		Name:         p.Name,
		Points:       p.Points,
	}.Validate()
	if err != nil {
		return nil, err
	}

	id := p.ID
	if id == "" {
		id = s.newID()
	}
	now := time.Now().UTC()

	var seq sql.NullInt64
	if p.Sequence != nil {
		seq = sql.NullInt64{Int64: int64(*p.Sequence), Valid: true}
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO items (id, flight_plan_id, item_type, status, name, sequence_number, catalog_id, optional, points, submission_type, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   flight_plan_id = excluded.flight_plan_id,
		   item_type = excluded.item_type,
		   status = excluded.status,
		   name = excluded.name,
		   sequence_number = excluded.sequence_number,
		   catalog_id = excluded.catalog_id,
		   optional = excluded.optional,
		   points = excluded.points,
		   submission_type = excluded.submission_type,
		   deleted_at = NULL`,
		id, p.FlightPlanID, string(p.Type), string(status), p.Name, seq, nullString(p.CatalogID),
		p.Optional, p.Points, nullString(string(p.SubmissionType)), now.Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("insert item: %w", err)
	}

	return s.GetItem(ctx, id)
}

const itemColumns = `id, flight_plan_id, item_type, status, name, sequence_number, catalog_id, optional, points, submission_type, created_at, deleted_at`

func (s *SQLiteStore) GetItem(ctx context.Context, id string) (*model.FlightPlanItem, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM items WHERE id = ? AND deleted_at IS NULL`, id)
	it, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("item %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &it, nil
}

func (s *SQLiteStore) ListItems(ctx context.Context, p ListItemsParams) ([]model.FlightPlanItem, error) {
	where := []string{"deleted_at IS NULL"}
	args := []interface{}{}

	if p.FlightPlanID != "" {
		where = append(where, "flight_plan_id = ?")
		args = append(args, p.FlightPlanID)
	}
	if p.Type != "" {
		where = append(where, "item_type = ?")
		args = append(args, string(p.Type))
	}
	if p.Status != "" {
		where = append(where, "status = ?")
		args = append(args, string(p.Status))
	}

	query := `SELECT ` + itemColumns + ` FROM items WHERE ` + strings.Join(where, " AND ") + ` ORDER BY created_at, id`
	if p.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, p.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []model.FlightPlanItem
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (s *SQLiteStore) SetItemStatus(ctx context.Context, id string, status model.ItemStatus) (*model.FlightPlanItem, error) {
	if !model.ValidStatuses[status] {
		return nil, fmt.Errorf("invalid item status %q", status)
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE items SET status = ? WHERE id = ? AND deleted_at IS NULL`, string(status), id)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("item %s: %w", id, ErrNotFound)
	}
	return s.GetItem(ctx, id)
}

func (s *SQLiteStore) RmItem(ctx context.Context, p RmParams) error {
	var res sql.Result
	var err error
	if p.Hard {
		res, err = s.db.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, p.ID)
	} else {
		now := time.Now().UTC().Format(time.RFC3339)
		res, err = s.db.ExecContext(ctx,
			`UPDATE items SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL`, now, p.ID)
	}
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("item %s: %w", p.ID, ErrNotFound)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanItem(row scanner) (model.FlightPlanItem, error) {
	var it model.FlightPlanItem
	var typ, status, createdAt string
	var seq sql.NullInt64
	var catalogID, submission, deletedAt sql.NullString

	err := row.Scan(
		&it.ID, &it.FlightPlanID, &typ, &status, &it.Name, &seq, &catalogID,
		&it.Optional, &it.Points, &submission, &createdAt, &deletedAt,
	)
	if err != nil {
		return it, err
	}

	it.Type = model.ItemType(typ)
	it.Status = model.ItemStatus(status)
	it.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	if seq.Valid {
		n := int(seq.Int64)
		it.Sequence = &n
	}
	if catalogID.Valid {
		it.CatalogID = catalogID.String
	}
	it.SubmissionType = model.SubmissionType(submission.String)
	if deletedAt.Valid {
		t, _ := time.Parse(time.RFC3339, deletedAt.String)
		it.DeletedAt = &t
	}
	return it, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
