package ingest

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rcliao/flight-plan/internal/model"
)

// Relation names stored for a student and an event.
const (
	RelRegistered = "registered"
	RelAttended   = "attended"
	RelCancelled  = "cancelled"
)

// ValidRels are the allowed student/event relations.
var ValidRels = map[string]bool{
	RelRegistered: true,
	RelAttended:   true,
	RelCancelled:  true,
}

// RelationRecord links a student to an event.
type RelationRecord struct {
	EventID   FlexID `json:"eventId"`
	StudentID FlexID `json:"studentId"`
	Rel       string `json:"rel"`
}

// StudentStrengthRecord assigns a strength to a student.
type StudentStrengthRecord struct {
	StudentID  FlexID `json:"studentId"`
	StrengthID FlexID `json:"strengthId"`
}

// Snapshot is the import/export envelope.
type Snapshot struct {
	Items            []ItemRecord            `json:"items"`
	Events           []EventRecord           `json:"events"`
	Strengths        []StrengthRecord        `json:"strengths,omitempty"`
	Relations        []RelationRecord        `json:"relations,omitempty"`
	StudentStrengths []StudentStrengthRecord `json:"studentStrengths,omitempty"`
}

// Dataset is a snapshot converted to model types.
type Dataset struct {
	Items            []model.FlightPlanItem
	Events           []model.Event
	Strengths        []model.Strength
	Relations        []RelationRecord
	StudentStrengths []StudentStrengthRecord
}

// Dataset converts the snapshot. Invalid records are left out and reported,
// and so are relations to an event that was left out. Every record kept
// passes the checks the store applies on write.
func (s Snapshot) Dataset() (Dataset, []error) {
	var (
		ds   Dataset
		errs []error
	)
	reject := func(kind string, i int, err error) {
		errs = append(errs, &RecordError{Kind: kind, Index: i, Err: err})
	}

	for i, r := range s.Strengths {
		if err := checkStrength(r); err != nil {
			reject("strength", i, err)
			continue
		}
		ds.Strengths = append(ds.Strengths, model.Strength{ID: string(r.ID), Name: r.Name})
	}

	rejected := map[FlexID]bool{}
	for i, r := range s.Events {
		ev, err := r.Event()
		if err == nil {
			err = ev.Validate()
		}
		for j := 0; err == nil && j < len(r.Strengths); j++ {
			err = checkStrength(r.Strengths[j])
		}
		if err != nil {
			if r.ID != "" {
				rejected[r.ID] = true
			}
			reject("event", i, err)
			continue
		}
		ds.Events = append(ds.Events, ev)
	}

	for i, r := range s.Items {
		it, err := r.Item()
		if err == nil {
			err = it.Validate()
		}
		if err != nil {
			reject("item", i, err)
			continue
		}
		ds.Items = append(ds.Items, it)
	}

	for i, r := range s.Relations {
		switch {
		case !ValidRels[r.Rel]:
			reject("relation", i, fmt.Errorf("invalid relation %q (valid: registered, attended, cancelled)", r.Rel))
		case r.EventID == "" || r.StudentID == "":
			reject("relation", i, errors.New("event id and student id are required"))
		case rejected[r.EventID]:
			reject("relation", i, fmt.Errorf("event %s was rejected", r.EventID))
		default:
			ds.Relations = append(ds.Relations, r)
		}
	}

	for i, r := range s.StudentStrengths {
		if r.StudentID == "" || r.StrengthID == "" {
			reject("studentStrength", i, errors.New("student id and strength id are required"))
			continue
		}
		ds.StudentStrengths = append(ds.StudentStrengths, r)
	}
	return ds, errs
}

func checkStrength(r StrengthRecord) error {
	if r.ID == "" && strings.TrimSpace(r.Name) == "" {
		return errors.New("strength needs an id or a name")
	}
	return nil
}

// DecodeSnapshot parses an export document.
func DecodeSnapshot(data []byte) (Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("parse snapshot: %w", err)
	}
	return s, nil
}

var defaultIDKeys = []string{"id", "eventId", "studentId"}

// DecodeIDSet reads a JSON array of ids or of objects carrying an id. Objects are
// searched for the given keys in order, defaulting to id, eventId, studentId.
func DecodeIDSet(data []byte, keys ...string) (model.IDSet, error) {
	if len(keys) == 0 {
		keys = defaultIDKeys
	}
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse id list: %w", err)
	}

	set := make(model.IDSet, len(raw))
	for i, r := range raw {
		var id FlexID
		if err := json.Unmarshal(r, &id); err == nil {
			if id != "" {
				set.Add(string(id))
			}
			continue
		}
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(r, &obj); err != nil {
			return nil, &RecordError{Kind: "id", Index: i, Err: err}
		}
		found := false
		for _, k := range keys {
			v, ok := obj[k]
			if !ok {
				continue
			}
			if err := json.Unmarshal(v, &id); err != nil {
				return nil, &RecordError{Kind: "id", Index: i, Err: err}
			}
			if id != "" {
				set.Add(string(id))
				found = true
				break
			}
		}
		if !found {
			return nil, &RecordError{Kind: "id", Index: i, Err: fmt.Errorf("no id field among %v", keys)}
		}
	}
	return set, nil
}
