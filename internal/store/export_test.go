package store

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rcliao/flight-plan/internal/ingest"
	"github.com/rcliao/flight-plan/internal/model"
)

func TestImport_BothItemShapes(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	data := []byte(`{
		"strengths": [{"id": 1, "name": "Achiever"}],
		"events": [{"id": 10, "name": "Fair", "status": "Completed", "strengths": [{"id": 1}, {"id": 2, "name": "Learner"}]}],
		"items": [
			{"id": 100, "flightPlanId": 7, "flightPlanItemType": "Task", "status": "Complete", "name": "B", "sequenceNumber": 2},
			{"id": 101, "flightPlanId": 7, "flightPlanItemType": "Task", "status": "Incomplete", "name": "A", "task": {"id": 5, "sequenceNumber": 1}},
			{"id": 102, "flightPlanId": 7, "flightPlanItemType": "Experience", "status": "Incomplete", "name": "C", "experience": {"sequenceNumber": 1}}
		],
		"relations": [{"eventId": 10, "studentId": 3, "rel": "registered"}],
		"studentStrengths": [{"studentId": 3, "strengthId": 2}]
	}`)
	snap, err := ingest.DecodeSnapshot(data)
	if err != nil {
		t.Fatal(err)
	}
	ds, errs := snap.Dataset()
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}

	res, err := s.Import(ctx, ds)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if res.Items != 3 || res.Events != 1 || res.Strengths != 1 || res.Relations != 1 {
		t.Errorf("unexpected result: %+v", res)
	}

	view, _ := s.FlightPlan(ctx, "7")
	var names []string
	for _, it := range view.Items {
		names = append(names, it.Name)
	}
	if len(names) != 3 || names[0] != "A" || names[1] != "C" || names[2] != "B" {
		t.Errorf("expected [A C B], got %v", names)
	}

	// "Completed" was folded into Past, so the registration does not show.
	st, _ := s.EventStatus(ctx, "3", "10")
	if st.State != model.StatePast {
		t.Errorf("expected past, got %s", st.State)
	}
	strengths, _ := s.StudentStrengths(ctx, "3")
	if len(strengths) != 1 || strengths[0].Name != "Learner" {
		t.Errorf("unexpected student strengths: %+v", strengths)
	}
}

func TestExportImport_RoundTrip(t *testing.T) {
	ctx := context.Background()
	src := newTestStore(t)

	st, _ := src.PutStrength(ctx, model.Strength{Name: "Strategic"})
	ev, _ := src.PutEvent(ctx, PutEventParams{Name: "Panel", Date: "2025-05-05", StrengthIDs: []string{st.ID}})
	src.Relate(ctx, RelateParams{EventID: ev.ID, StudentID: "s1", Rel: ingest.RelAttended})
	src.TagStrength(ctx, TagParams{StrengthID: st.ID, StudentID: "s1"})
	src.PutItem(ctx, PutItemParams{FlightPlanID: "p", Type: model.ItemTask, Name: "T", Sequence: model.Seq(4)})
	src.PutItem(ctx, PutItemParams{FlightPlanID: "p", Type: model.ItemExperience, Name: "E", Status: model.StatusComplete})

	snap, err := src.ExportAll(ctx)
	if err != nil {
		t.Fatal(err)
	}
	data, err := json.Marshal(snap)
	if err != nil {
		t.Fatal(err)
	}

	decoded, err := ingest.DecodeSnapshot(data)
	if err != nil {
		t.Fatal(err)
	}
	ds, errs := decoded.Dataset()
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}

	dst := newTestStore(t)
	if _, err := dst.Import(ctx, ds); err != nil {
		t.Fatal(err)
	}

	srcView, _ := src.FlightPlan(ctx, "p")
	dstView, _ := dst.FlightPlan(ctx, "p")
	if len(dstView.Items) != len(srcView.Items) {
		t.Fatalf("expected %d items, got %d", len(srcView.Items), len(dstView.Items))
	}
	for i := range srcView.Items {
		a, b := srcView.Items[i], dstView.Items[i]
		if a.ID != b.ID || a.Status != b.Status || (a.Sequence == nil) != (b.Sequence == nil) {
			t.Errorf("item %d differs: %+v vs %+v", i, a, b)
		}
	}

	status, err := dst.EventStatus(ctx, "s1", ev.ID)
	if err != nil {
		t.Fatal(err)
	}
	if status.State != model.StateCheckedIn || len(status.Event.Strengths) != 1 {
		t.Errorf("unexpected status after import: %+v", status)
	}
}

func importJSON(t *testing.T, s *SQLiteStore, data string) (*ImportResult, []error, error) {
	t.Helper()
	snap, err := ingest.DecodeSnapshot([]byte(data))
	if err != nil {
		t.Fatal(err)
	}
	ds, errs := snap.Dataset()
	res, err := s.Import(context.Background(), ds)
	return res, errs, err
}

func TestImport_SkipsRelationsToRejectedEvents(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	res, errs, err := importJSON(t, s, `{
		"items": [{"id": "i1", "flightPlanId": "p", "flightPlanItemType": "Task", "status": "Incomplete", "name": "A"}],
		"events": [{"id": "e1", "name": "Ev", "status": "Cancelled"}],
		"relations": [{"eventId": "e1", "studentId": "s1", "rel": "registered"}]
	}`)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if len(errs) != 2 {
		t.Fatalf("expected event and relation errors, got %v", errs)
	}
	var rerr *ingest.RecordError
	if !errors.As(errs[1], &rerr) || rerr.Kind != "relation" {
		t.Errorf("expected relation error, got %v", errs[1])
	}
	if res.Items != 1 || res.Events != 0 || res.Relations != 0 {
		t.Errorf("unexpected result: %+v", res)
	}
	if _, err := s.GetItem(ctx, "i1"); err != nil {
		t.Errorf("valid item not imported: %v", err)
	}
}

func TestImport_ReportsItemsTheStoreRejects(t *testing.T) {
	s := newTestStore(t)

	res, errs, err := importJSON(t, s, `{
		"items": [
			{"id": "i1", "flightPlanId": "p", "flightPlanItemType": "Task", "status": "Incomplete", "name": "A"},
			{"id": "i2", "flightPlanItemType": "Task", "status": "Incomplete", "name": "B"},
			{"id": "i3", "flightPlanId": "p", "flightPlanItemType": "Task", "status": "Incomplete"},
			{"id": "i4", "flightPlanId": "p", "flightPlanItemType": "Task", "status": "Incomplete", "name": "D", "points": -1}
		]
	}`)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if len(errs) != 3 {
		t.Fatalf("expected 3 item errors, got %v", errs)
	}
	if res.Items != 1 {
		t.Errorf("expected 1 item, got %+v", res)
	}
}

func TestImport_RollsBackOnFailure(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	ds := ingest.Dataset{
		Items: []model.FlightPlanItem{
			{ID: "i1", FlightPlanID: "p", Type: model.ItemTask, Status: model.StatusIncomplete, Name: "A"},
		},
		Relations: []ingest.RelationRecord{{EventID: "missing", StudentID: "s1", Rel: ingest.RelRegistered}},
	}
	res, err := s.Import(ctx, ds)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if res != nil {
		t.Errorf("expected no result, got %+v", res)
	}
	if _, err := s.GetItem(ctx, "i1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected item to be rolled back, got %v", err)
	}
}

func TestImport_NestedStrengthWithoutID(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	data := `{"events": [{"id": "e1", "name": "Ev", "strengths": [{"name": "Achiever"}]}]}`
	for i := 0; i < 2; i++ {
		if _, errs, err := importJSON(t, s, data); err != nil || len(errs) != 0 {
			t.Fatalf("import %d: %v %v", i, err, errs)
		}
	}

	ev, err := s.GetEvent(ctx, "e1")
	if err != nil {
		t.Fatal(err)
	}
	if len(ev.Strengths) != 1 || ev.Strengths[0].Name != "Achiever" || ev.Strengths[0].ID == "" {
		t.Errorf("unexpected event strengths: %+v", ev.Strengths)
	}
	all, _ := s.ListStrengths(ctx)
	if len(all) != 1 {
		t.Errorf("expected the strength to be reused, got %+v", all)
	}
}

func TestImport_RejectsEmptyStrength(t *testing.T) {
	s := newTestStore(t)

	res, errs, err := importJSON(t, s, `{
		"strengths": [{"name": ""}],
		"events": [{"id": "e1", "name": "Ev", "strengths": [{}]}],
		"relations": [{"eventId": "e1", "studentId": "s1", "rel": "attended"}]
	}`)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if len(errs) != 3 {
		t.Errorf("expected strength, event and relation errors, got %v", errs)
	}
	if res.Strengths != 0 || res.Events != 0 || res.Relations != 0 {
		t.Errorf("unexpected result: %+v", res)
	}
}
