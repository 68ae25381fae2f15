package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rcliao/flight-plan/internal/ingest"
	"github.com/rcliao/flight-plan/internal/model"
)

// RelateParams holds parameters for creating or removing a student/event relation.
type RelateParams struct {
	EventID   string
	StudentID string
	Rel       string // registered | attended | cancelled
	Remove    bool
}

// Relation records that a student registered for, attended, or cancelled an event.
type Relation struct {
	EventID   string `json:"event_id"`
	StudentID string `json:"student_id"`
	Rel       string `json:"rel"`
	CreatedAt string `json:"created_at,omitempty"`
}

// Relate creates or removes a relation between a student and an event.
func (s *SQLiteStore) Relate(ctx context.Context, p RelateParams) (*Relation, error) {
	if !ingest.ValidRels[p.Rel] {
		return nil, fmt.Errorf("invalid relation %q (valid: registered, attended, cancelled)", p.Rel)
	}
	if p.StudentID == "" {
		return nil, errors.New("student id is required")
	}

	if p.Remove {
		_, err := s.db.ExecContext(ctx,
			`DELETE FROM event_relations WHERE event_id = ? AND student_id = ? AND rel = ?`,
			p.EventID, p.StudentID, p.Rel)
		if err != nil {
			return nil, err
		}
		return &Relation{EventID: p.EventID, StudentID: p.StudentID, Rel: p.Rel}, nil
	}

	if _, err := s.GetEvent(ctx, p.EventID); err != nil {
		return nil, err
	}

	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO event_relations (event_id, student_id, rel, created_at) VALUES (?, ?, ?, ?)`,
		p.EventID, p.StudentID, p.Rel, now)
	if err != nil {
		return nil, err
	}

	return &Relation{EventID: p.EventID, StudentID: p.StudentID, Rel: p.Rel, CreatedAt: now}, nil
}

// StudentRelations returns the events a student registered for, attended, and cancelled.
func (s *SQLiteStore) StudentRelations(ctx context.Context, studentID string) (model.Relations, error) {
	var rel model.Relations
	rows, err := s.db.QueryContext(ctx,
		`SELECT event_id, rel FROM event_relations WHERE student_id = ?`, studentID)
	if err != nil {
		return rel, err
	}
	defer rows.Close()

	for rows.Next() {
		var eventID, r string
		if err := rows.Scan(&eventID, &r); err != nil {
			return rel, err
		}
		switch r {
		case ingest.RelAttended:
			rel.CheckedIn.Add(eventID)
		case ingest.RelRegistered:
			rel.Registered.Add(eventID)
		case ingest.RelCancelled:
			rel.Cancelled.Add(eventID)
		}
	}
	return rel, rows.Err()
}

// EventStudents returns the ids of students holding a relation to an event.
func (s *SQLiteStore) EventStudents(ctx context.Context, eventID, rel string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT student_id FROM event_relations WHERE event_id = ? AND rel = ? ORDER BY student_id`,
		eventID, rel)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *SQLiteStore) allRelations(ctx context.Context) ([]Relation, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT event_id, student_id, rel, created_at FROM event_relations ORDER BY event_id, student_id, rel`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Relation
	for rows.Next() {
		var r Relation
		if err := rows.Scan(&r.EventID, &r.StudentID, &r.Rel, &r.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
