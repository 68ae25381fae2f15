package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/rcliao/flight-plan/internal/model"
)

// PutStrength stores a strength. An empty name keeps the existing one.
func (s *SQLiteStore) PutStrength(ctx context.Context, st model.Strength) (*model.Strength, error) {
	if st.ID == "" {
		if st.Name == "" {
			return nil, errors.New("strength name is required")
		}
		st.ID = s.newID()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO strengths (id, name) VALUES (?, ?)
		 ON CONFLICT(id) DO UPDATE SET name = COALESCE(NULLIF(excluded.name, ''), strengths.name)`,
		st.ID, st.Name)
	if err != nil {
		return nil, fmt.Errorf("insert strength: %w", err)
	}
	err = s.db.QueryRowContext(ctx, `SELECT name FROM strengths WHERE id = ?`, st.ID).Scan(&st.Name)
	if err != nil {
		return nil, err
	}
	return &st, nil
}

// ListStrengths returns every strength ordered by name.
func (s *SQLiteStore) ListStrengths(ctx context.Context) ([]model.Strength, error) {
	return s.queryStrengths(ctx, `SELECT id, name FROM strengths ORDER BY name, id`)
}

// TagParams attaches a strength to exactly one of an event or a student.
type TagParams struct {
	StrengthID string
	EventID    string
	StudentID  string
	Remove     bool
}

// TagStrength adds or removes a strength on an event or a student.
func (s *SQLiteStore) TagStrength(ctx context.Context, p TagParams) error {
	if (p.EventID == "") == (p.StudentID == "") {
		return errors.New("exactly one of event or student is required")
	}

	var err error
	switch {
	case p.EventID != "" && p.Remove:
		_, err = s.db.ExecContext(ctx,
			`DELETE FROM event_strengths WHERE event_id = ? AND strength_id = ?`, p.EventID, p.StrengthID)
	case p.EventID != "":
		if _, err = s.GetEvent(ctx, p.EventID); err != nil {
			return err
		}
		_, err = s.db.ExecContext(ctx,
			`INSERT OR IGNORE INTO event_strengths (event_id, strength_id) VALUES (?, ?)`, p.EventID, p.StrengthID)
	case p.Remove:
		_, err = s.db.ExecContext(ctx,
			`DELETE FROM student_strengths WHERE student_id = ? AND strength_id = ?`, p.StudentID, p.StrengthID)
	default:
		_, err = s.db.ExecContext(ctx,
			`INSERT OR IGNORE INTO student_strengths (student_id, strength_id) VALUES (?, ?)`, p.StudentID, p.StrengthID)
	}
	if err != nil {
		return fmt.Errorf("tag strength %s: %w", p.StrengthID, err)
	}
	return nil
}

// EventStrengths returns the strengths attached to an event.
func (s *SQLiteStore) EventStrengths(ctx context.Context, eventID string) ([]model.Strength, error) {
	return s.queryStrengths(ctx,
		`SELECT st.id, st.name FROM event_strengths es
		 JOIN strengths st ON st.id = es.strength_id
		 WHERE es.event_id = ? ORDER BY st.name, st.id`, eventID)
}

// StudentStrengths returns the strengths on a student's profile.
func (s *SQLiteStore) StudentStrengths(ctx context.Context, studentID string) ([]model.Strength, error) {
	return s.queryStrengths(ctx,
		`SELECT st.id, st.name FROM student_strengths ss
		 JOIN strengths st ON st.id = ss.strength_id
		 WHERE ss.student_id = ? ORDER BY st.name, st.id`, studentID)
}

func (s *SQLiteStore) allEventStrengths(ctx context.Context) (map[string][]model.Strength, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT es.event_id, st.id, st.name FROM event_strengths es
		 JOIN strengths st ON st.id = es.strength_id
		 ORDER BY es.event_id, st.name, st.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string][]model.Strength{}
	for rows.Next() {
		var eventID string
		var st model.Strength
		if err := rows.Scan(&eventID, &st.ID, &st.Name); err != nil {
			return nil, err
		}
		out[eventID] = append(out[eventID], st)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) queryStrengths(ctx context.Context, query string, args ...interface{}) ([]model.Strength, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Strength
	for rows.Next() {
		var st model.Strength
		if err := rows.Scan(&st.ID, &st.Name); err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, rows.Err()
}
