package store

import (
	"context"
	"fmt"
	"os"
)

// Stats holds database statistics.
type Stats struct {
	DBPath      string      `json:"db_path"`
	DBSizeBytes int64       `json:"db_size_bytes"`
	TotalItems  int         `json:"total_items"`
	ActiveItems int         `json:"active_items"`
	Events      int         `json:"events"`
	PastEvents  int         `json:"past_events"`
	Strengths   int         `json:"strengths"`
	Relations   []RelCount  `json:"relations"`
	Plans       []PlanStats `json:"flight_plans"`
}

// RelCount counts relations of one kind.
type RelCount struct {
	Rel   string `json:"rel"`
	Count int    `json:"count"`
}

// PlanStats holds per-plan item counts.
type PlanStats struct {
	FlightPlanID string `json:"flight_plan_id"`
	Items        int    `json:"items"`
	Complete     int    `json:"complete"`
}

// Stats returns database statistics.
func (s *SQLiteStore) Stats(ctx context.Context, dbPath string) (*Stats, error) {
	st := &Stats{DBPath: dbPath}

	if info, err := os.Stat(dbPath); err == nil {
		st.DBSizeBytes = info.Size()
	}

	counts := []struct {
		query string
		dest  *int
	}{
		{`SELECT COUNT(*) FROM items`, &st.TotalItems},
		{`SELECT COUNT(*) FROM items WHERE deleted_at IS NULL`, &st.ActiveItems},
		{`SELECT COUNT(*) FROM events`, &st.Events},
		{`SELECT COUNT(*) FROM events WHERE status = 'Past'`, &st.PastEvents},
		{`SELECT COUNT(*) FROM strengths`, &st.Strengths},
	}
	for _, c := range counts {
		if err := s.db.QueryRowContext(ctx, c.query).Scan(c.dest); err != nil {
			return nil, fmt.Errorf("count: %w", err)
		}
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT rel, COUNT(*) FROM event_relations GROUP BY rel ORDER BY rel`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var rc RelCount
		if err := rows.Scan(&rc.Rel, &rc.Count); err != nil {
			return nil, err
		}
		st.Relations = append(st.Relations, rc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	plans, err := s.db.QueryContext(ctx, `
		SELECT flight_plan_id, COUNT(*) AS cnt, SUM(CASE WHEN status = 'Complete' THEN 1 ELSE 0 END)
		FROM items WHERE deleted_at IS NULL
		GROUP BY flight_plan_id ORDER BY cnt DESC, flight_plan_id`)
	if err != nil {
		return nil, err
	}
	defer plans.Close()

	for plans.Next() {
		var ps PlanStats
		if err := plans.Scan(&ps.FlightPlanID, &ps.Items, &ps.Complete); err != nil {
			return nil, err
		}
		st.Plans = append(st.Plans, ps)
	}
	return st, plans.Err()
}
