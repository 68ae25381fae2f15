package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rcliao/flight-plan/internal/ingest"
	"github.com/rcliao/flight-plan/internal/model"
)

// PutEvent stores or updates an event. The status and clock times are
// validated the same way imported events are.
func (s *SQLiteStore) PutEvent(ctx context.Context, p PutEventParams) (*model.Event, error) {
	lifecycle := p.Lifecycle
	if lifecycle == "" {
		lifecycle = model.EventActive
	}
	if err := (model.Event{Name: p.Name, Lifecycle: lifecycle}).Validate(); err != nil {
		return nil, err
	}
	if err := ingest.ValidateTimes(p.StartTime, p.EndTime); err != nil {
		return nil, err
	}

	id := p.ID
	if id == "" {
		id = s.newID()
	}
	now := time.Now().UTC().Format(time.RFC3339)

	err := s.inTx(ctx, func(tx *SQLiteStore) error {
		_, err := tx.db.ExecContext(ctx,
			`INSERT INTO events (id, name, date, status, description, location, start_time, end_time, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			 ON CONFLICT(id) DO UPDATE SET
			   name = excluded.name,
			   date = excluded.date,
			   status = excluded.status,
			   description = excluded.description,
			   location = excluded.location,
			   start_time = excluded.start_time,
			   end_time = excluded.end_time`,
			id, p.Name, nullString(p.Date), string(lifecycle), nullString(p.Description),
			nullString(p.Location), nullString(p.StartTime), nullString(p.EndTime), now)
		if err != nil {
			return fmt.Errorf("insert event: %w", err)
		}

		if p.StrengthIDs == nil {
			return nil
		}
		if _, err := tx.db.ExecContext(ctx, `DELETE FROM event_strengths WHERE event_id = ?`, id); err != nil {
			return err
		}
		for _, sid := range p.StrengthIDs {
			_, err := tx.db.ExecContext(ctx,
				`INSERT OR IGNORE INTO event_strengths (event_id, strength_id) VALUES (?, ?)`, id, sid)
			if err != nil {
				return fmt.Errorf("tag strength %s: %w", sid, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetEvent(ctx, id)
}

const eventColumns = `id, name, date, status, description, location, start_time, end_time, created_at`

func (s *SQLiteStore) GetEvent(ctx context.Context, id string) (*model.Event, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+eventColumns+` FROM events WHERE id = ?`, id)
	ev, err := scanEvent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("event %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	ev.Strengths, err = s.EventStrengths(ctx, id)
	if err != nil {
		return nil, err
	}
	return &ev, nil
}

func (s *SQLiteStore) ListEvents(ctx context.Context, p ListEventsParams) ([]model.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events`
	args := []interface{}{}
	if p.Lifecycle != "" {
		query += ` WHERE status = ?`
		args = append(args, string(p.Lifecycle))
	}
	query += ` ORDER BY date, name, id`
	if p.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, p.Limit)
	}
	return s.queryEvents(ctx, query, args...)
}

// SearchParams holds parameters for searching events.
type SearchParams struct {
	Query string
	Limit int
}

// SearchEvents finds events whose name, description, or location contains the query.
func (s *SQLiteStore) SearchEvents(ctx context.Context, p SearchParams) ([]model.Event, error) {
	limit := p.Limit
	if limit <= 0 {
		limit = 20
	}
	q := "%" + p.Query + "%"
	return s.queryEvents(ctx,
		`SELECT `+eventColumns+` FROM events
		 WHERE name LIKE ? OR description LIKE ? OR location LIKE ?
		 ORDER BY date, name, id
		 LIMIT ?`, q, q, q, limit)
}

func (s *SQLiteStore) queryEvents(ctx context.Context, query string, args ...interface{}) ([]model.Event, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	var events []model.Event
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		events = append(events, ev)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	byEvent, err := s.allEventStrengths(ctx)
	if err != nil {
		return nil, err
	}
	for i := range events {
		events[i].Strengths = byEvent[events[i].ID]
	}
	return events, nil
}

func scanEvent(row scanner) (model.Event, error) {
	var ev model.Event
	var status, createdAt string
	var date, description, location, start, end sql.NullString

	err := row.Scan(&ev.ID, &ev.Name, &date, &status, &description, &location, &start, &end, &createdAt)
	if err != nil {
		return ev, err
	}
	ev.Lifecycle = model.EventLifecycle(status)
	ev.Date = date.String
	ev.Description = description.String
	ev.Location = location.String
	ev.StartTime = start.String
	ev.EndTime = end.String
	ev.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return ev, nil
}
