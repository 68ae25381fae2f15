package ingest

import (
	"errors"
	"testing"

	"github.com/rcliao/flight-plan/internal/model"
)

func TestDecodeItems_BothShapes(t *testing.T) {
	data := []byte(`[
		{"id": 1, "flightPlanItemType": "Task", "status": "Incomplete", "name": "Flat", "sequenceNumber": 4, "taskId": 9},
		{"id": "2", "flightPlanItemType": "Task", "status": "Complete", "name": "Nested",
		 "task": {"id": 10, "sequenceNumber": 2, "points": 15}},
		{"id": 3, "flightPlanItemType": "Experience", "status": "Pending Approval", "name": "Exp",
		 "sequenceNumber": 99, "experience": {"id": 11, "sequenceNumber": 1}},
		{"id": 4, "flightPlanItemType": "Experience", "status": "Incomplete", "name": "NoSeq"}
	]`)

	items, err := DecodeItems(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(items) != 4 {
		t.Fatalf("expected 4 items, got %d", len(items))
	}

	if items[0].ID != "1" || items[0].Sequence == nil || *items[0].Sequence != 4 || items[0].CatalogID != "9" {
		t.Errorf("flat item decoded wrong: %+v", items[0])
	}
	if items[1].Sequence == nil || *items[1].Sequence != 2 || items[1].CatalogID != "10" || items[1].Points != 15 {
		t.Errorf("nested task decoded wrong: %+v", items[1])
	}
	// The nested experience sequence wins over the flat one.
	if items[2].Sequence == nil || *items[2].Sequence != 1 {
		t.Errorf("expected nested sequence 1, got %v", items[2].Sequence)
	}
	if items[2].Status != model.StatusPendingApproval {
		t.Errorf("expected Pending Approval, got %q", items[2].Status)
	}
	if items[3].Sequence != nil {
		t.Errorf("expected nil sequence, got %d", *items[3].Sequence)
	}
}

func TestDecodeItems_NestedOfOtherTypeIgnored(t *testing.T) {
	data := []byte(`[{"id": 1, "flightPlanItemType": "Task", "status": "Incomplete", "name": "T",
		"sequenceNumber": 3, "experience": {"sequenceNumber": 1}}]`)
	items, err := DecodeItems(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if *items[0].Sequence != 3 {
		t.Errorf("expected 3, got %d", *items[0].Sequence)
	}
}

func TestDecodeItems_RejectsUnknownValues(t *testing.T) {
	tests := []string{
		`[{"id": 1, "flightPlanItemType": "Badge", "status": "Incomplete", "name": "x"}]`,
		`[{"id": 1, "flightPlanItemType": "Task", "status": "Done", "name": "x"}]`,
		`[{"id": 1, "flightPlanItemType": "", "status": "Incomplete", "name": "x"}]`,
	}
	for _, data := range tests {
		_, err := DecodeItems([]byte(data))
		var re *RecordError
		if !errors.As(err, &re) {
			t.Errorf("expected RecordError for %s, got %v", data, err)
			continue
		}
		if re.Index != 0 || re.Kind != "item" {
			t.Errorf("unexpected record error: %+v", re)
		}
	}
}

func TestItems_CollectsErrors(t *testing.T) {
	recs := []ItemRecord{
		{ID: "1", Type: "Task", Status: "Incomplete"},
		{ID: "2", Type: "Nope", Status: "Incomplete"},
		{ID: "3", Type: "Experience", Status: "Complete"},
	}
	items, errs := Items(recs)
	if len(items) != 2 || len(errs) != 1 {
		t.Fatalf("expected 2 items and 1 error, got %d and %d", len(items), len(errs))
	}
	var re *RecordError
	if !errors.As(errs[0], &re) || re.Index != 1 {
		t.Errorf("expected error at index 1, got %v", errs[0])
	}
}

func TestItemRecordFrom_FlatShape(t *testing.T) {
	it := model.FlightPlanItem{ID: "a", Type: model.ItemExperience, Status: model.StatusComplete, Name: "E", Sequence: model.Seq(2), CatalogID: "x"}
	r := ItemRecordFrom(it)
	if r.Experience != nil || r.Task != nil {
		t.Error("expected no nested objects")
	}
	if r.ExperienceID != "x" || r.TaskID != "" {
		t.Errorf("unexpected catalog ids: %+v", r)
	}
	back, err := r.Item()
	if err != nil {
		t.Fatal(err)
	}
	if back.ID != it.ID || *back.Sequence != 2 || back.CatalogID != "x" {
		t.Errorf("unexpected item: %+v", back)
	}
}

func TestDecodeEvents_StatusVocabulary(t *testing.T) {
	data := []byte(`[
		{"id": 1, "name": "A", "status": "Past"},
		{"id": 2, "name": "B", "status": "Completed"},
		{"id": 3, "name": "C", "status": "Upcoming", "strengths": [{"id": 7, "name": "Learner"}]},
		{"id": 4, "name": "D"}
	]`)
	events, err := DecodeEvents(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := []model.EventLifecycle{model.EventPast, model.EventPast, model.EventActive, model.EventActive}
	for i, ev := range events {
		if ev.Lifecycle != want[i] {
			t.Errorf("event %d: expected %q, got %q", i, want[i], ev.Lifecycle)
		}
	}
	if len(events[2].Strengths) != 1 || events[2].Strengths[0].ID != "7" {
		t.Errorf("unexpected strengths: %+v", events[2].Strengths)
	}
}

func TestDecodeEvents_Invalid(t *testing.T) {
	tests := []string{
		`[{"id": 1, "name": "A", "status": "Archived"}]`,
		`[{"id": 1, "name": "A", "startTime": "9:00 AM"}]`,
		`[{"id": 1, "name": "A", "startTime": "10:00 AM", "endTime": "09:00 AM"}]`,
		`[{"id": 1, "name": "A", "startTime": "10:00 AM", "endTime": "10:00 AM"}]`,
	}
	for _, data := range tests {
		if _, err := DecodeEvents([]byte(data)); err == nil {
			t.Errorf("expected error for %s", data)
		}
	}
}

func TestValidateTimes(t *testing.T) {
	tests := []struct {
		start, end string
		ok         bool
	}{
		{"", "", true},
		{"09:00 AM", "", true},
		{"", "05:00 PM", true},
		{"11:45 AM", "12:15 PM", true},
		{"12:00 AM", "01:00 AM", true},
		{"01:00 PM", "12:30 PM", false},
		{"13:00 PM", "", false},
		{"09:00 am", "", false},
	}
	for _, tt := range tests {
		err := ValidateTimes(tt.start, tt.end)
		if (err == nil) != tt.ok {
			t.Errorf("ValidateTimes(%q, %q) = %v, want ok=%v", tt.start, tt.end, err, tt.ok)
		}
	}
}

func TestDecodeIDSet(t *testing.T) {
	set, err := DecodeIDSet([]byte(`[5, "6", {"id": 7}, {"eventId": "8", "name": "x"}, {"studentId": 9, "extra": {"a": 1}}, null]`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	for _, id := range []string{"5", "6", "7", "8", "9"} {
		if !set.Has(id) {
			t.Errorf("expected %s in set", id)
		}
	}
	if len(set) != 5 {
		t.Errorf("expected 5 ids, got %v", set.Sorted())
	}

	if _, err := DecodeIDSet([]byte(`[{"name": "no id"}]`)); err == nil {
		t.Error("expected error for record without id")
	}

	set, err = DecodeIDSet([]byte(`[{"id": 1, "studentId": 2}]`), "studentId")
	if err != nil {
		t.Fatal(err)
	}
	if !set.Has("2") || set.Has("1") {
		t.Errorf("expected only studentId, got %v", set.Sorted())
	}
}

func TestSnapshot_Dataset(t *testing.T) {
	data := []byte(`{
		"items": [{"id": 1, "flightPlanId": 9, "flightPlanItemType": "Task", "status": "Incomplete", "name": "T"},
		          {"id": 2, "flightPlanItemType": "Reward", "status": "Incomplete", "name": "R"}],
		"events": [{"id": 3, "name": "E", "status": "Completed"}],
		"strengths": [{"id": 4, "name": "Achiever"}],
		"relations": [{"eventId": 3, "studentId": 5, "rel": "attended"},
		              {"eventId": 3, "studentId": 5, "rel": "liked"}],
		"studentStrengths": [{"studentId": 5, "strengthId": 4}]
	}`)
	snap, err := DecodeSnapshot(data)
	if err != nil {
		t.Fatal(err)
	}
	ds, errs := snap.Dataset()
	if len(errs) != 2 {
		t.Fatalf("expected 2 errors, got %v", errs)
	}
	if len(ds.Items) != 1 || len(ds.Events) != 1 || len(ds.Strengths) != 1 || len(ds.Relations) != 1 || len(ds.StudentStrengths) != 1 {
		t.Errorf("unexpected dataset: %+v", ds)
	}
	if ds.Events[0].Lifecycle != model.EventPast {
		t.Errorf("expected Past, got %q", ds.Events[0].Lifecycle)
	}
}

func TestSnapshot_DatasetStoreChecks(t *testing.T) {
	data := []byte(`{
		"items": [{"id": "a", "flightPlanItemType": "Task", "status": "Incomplete", "name": "no plan"},
		          {"id": "b", "flightPlanId": "p", "flightPlanItemType": "Task", "status": "Incomplete"},
		          {"id": "c", "flightPlanId": "p", "flightPlanItemType": "Task", "status": "Incomplete", "name": "C", "points": -2},
		          {"id": "d", "flightPlanId": "p", "flightPlanItemType": "Task", "status": "Incomplete", "task": {"name": "D", "submissionType": "Auto-Complete - Strengths"}}],
		"events": [{"id": "e1", "name": "", "status": "Active"},
		           {"id": "e2", "name": "Fair"}],
		"relations": [{"eventId": "e1", "studentId": "s", "rel": "registered"},
		              {"eventId": "e2", "studentId": "", "rel": "registered"},
		              {"eventId": "e2", "studentId": "s", "rel": "registered"}],
		"studentStrengths": [{"studentId": "s"}]
	}`)
	snap, err := DecodeSnapshot(data)
	if err != nil {
		t.Fatal(err)
	}
	ds, errs := snap.Dataset()

	kinds := map[string]int{}
	for _, e := range errs {
		var rerr *RecordError
		if !errors.As(e, &rerr) {
			t.Fatalf("expected RecordError, got %v", e)
		}
		kinds[rerr.Kind]++
	}
	if kinds["item"] != 3 || kinds["event"] != 1 || kinds["relation"] != 2 || kinds["studentStrength"] != 1 {
		t.Errorf("unexpected errors: %v", errs)
	}
	if len(ds.Items) != 1 || ds.Items[0].Name != "D" || ds.Items[0].SubmissionType != model.SubmitAutoStrengths {
		t.Errorf("unexpected items: %+v", ds.Items)
	}
	if len(ds.Relations) != 1 || ds.Relations[0].EventID != "e2" {
		t.Errorf("unexpected relations: %+v", ds.Relations)
	}
}
