package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rcliao/flight-plan/internal/ingest"
	"github.com/rcliao/flight-plan/internal/model"
)

// ExportAll returns every live record as a snapshot in the canonical shapes.
func (s *SQLiteStore) ExportAll(ctx context.Context) (*ingest.Snapshot, error) {
	snap := &ingest.Snapshot{
		Items:  []ingest.ItemRecord{},
		Events: []ingest.EventRecord{},
	}

	items, err := s.ListItems(ctx, ListItemsParams{})
	if err != nil {
		return nil, fmt.Errorf("export items: %w", err)
	}
	for _, it := range items {
		snap.Items = append(snap.Items, ingest.ItemRecordFrom(it))
	}

	events, err := s.ListEvents(ctx, ListEventsParams{})
	if err != nil {
		return nil, fmt.Errorf("export events: %w", err)
	}
	for _, ev := range events {
		snap.Events = append(snap.Events, ingest.EventRecordFrom(ev))
	}

	strengths, err := s.ListStrengths(ctx)
	if err != nil {
		return nil, fmt.Errorf("export strengths: %w", err)
	}
	snap.Strengths = ingest.StrengthRecordsFrom(strengths)

	rels, err := s.allRelations(ctx)
	if err != nil {
		return nil, fmt.Errorf("export relations: %w", err)
	}
	for _, r := range rels {
		snap.Relations = append(snap.Relations, ingest.RelationRecord{
			EventID: ingest.FlexID(r.EventID), StudentID: ingest.FlexID(r.StudentID), Rel: r.Rel,
		})
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT student_id, strength_id FROM student_strengths ORDER BY student_id, strength_id`)
	if err != nil {
		return nil, fmt.Errorf("export student strengths: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var studentID, strengthID string
		if err := rows.Scan(&studentID, &strengthID); err != nil {
			return nil, err
		}
		snap.StudentStrengths = append(snap.StudentStrengths, ingest.StudentStrengthRecord{
			StudentID: ingest.FlexID(studentID), StrengthID: ingest.FlexID(strengthID),
		})
	}
	return snap, rows.Err()
}

// ImportResult counts the records written by Import.
type ImportResult struct {
	Strengths int `json:"strengths"`
	Events    int `json:"events"`
	Items     int `json:"items"`
	Relations int `json:"relations"`
}

// Import stores a converted snapshot in one transaction: either every record
// is written or none is. Records with known ids are updated in place.
func (s *SQLiteStore) Import(ctx context.Context, ds ingest.Dataset) (*ImportResult, error) {
	res := &ImportResult{}
	err := s.inTx(ctx, func(tx *SQLiteStore) error {
		return tx.importDataset(ctx, ds, res)
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (s *SQLiteStore) importDataset(ctx context.Context, ds ingest.Dataset, res *ImportResult) error {
	for _, st := range ds.Strengths {
		if _, err := s.importStrength(ctx, st); err != nil {
			return err
		}
		res.Strengths++
	}

	for _, ev := range ds.Events {
		ids := make([]string, 0, len(ev.Strengths))
		for _, st := range ev.Strengths {
			stored, err := s.importStrength(ctx, st)
			if err != nil {
				return fmt.Errorf("import event %s: %w", ev.ID, err)
			}
			ids = append(ids, stored.ID)
		}
		_, err := s.PutEvent(ctx, PutEventParams{
			ID:          ev.ID,
			Name:        ev.Name,
			Date:        ev.Date,
			Lifecycle:   ev.Lifecycle,
			Description: ev.Description,
			Location:    ev.Location,
			StartTime:   ev.StartTime,
			EndTime:     ev.EndTime,
			StrengthIDs: ids,
		})
		if err != nil {
			return fmt.Errorf("import event %s: %w", ev.ID, err)
		}
		res.Events++
	}

	for _, it := range ds.Items {
		if _, err := s.PutItem(ctx, putItemParams(it)); err != nil {
			return fmt.Errorf("import item %s: %w", it.ID, err)
		}
		res.Items++
	}

	for _, r := range ds.Relations {
		_, err := s.Relate(ctx, RelateParams{EventID: string(r.EventID), StudentID: string(r.StudentID), Rel: r.Rel})
		if err != nil {
			return fmt.Errorf("import relation %s/%s: %w", r.EventID, r.StudentID, err)
		}
		res.Relations++
	}

	for _, r := range ds.StudentStrengths {
		if _, err := s.PutStrength(ctx, model.Strength{ID: string(r.StrengthID)}); err != nil {
			return err
		}
		err := s.TagStrength(ctx, TagParams{StrengthID: string(r.StrengthID), StudentID: string(r.StudentID)})
		if err != nil {
			return err
		}
	}
	return nil
}

// importStrength stores st. A strength with only a name resolves to the
// existing strength of that name before a new one is created.
func (s *SQLiteStore) importStrength(ctx context.Context, st model.Strength) (*model.Strength, error) {
	if st.ID == "" {
		err := s.db.QueryRowContext(ctx,
			`SELECT id FROM strengths WHERE name = ? ORDER BY id LIMIT 1`, st.Name).Scan(&st.ID)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
	}
	return s.PutStrength(ctx, st)
}

func putItemParams(it model.FlightPlanItem) PutItemParams {
	return PutItemParams{
		ID:             it.ID,
		FlightPlanID:   it.FlightPlanID,
		Type:           it.Type,
		Status:         it.Status,
		Name:           it.Name,
		Sequence:       it.Sequence,
		CatalogID:      it.CatalogID,
		Optional:       it.Optional,
		Points:         it.Points,
		SubmissionType: it.SubmissionType,
	}
}
