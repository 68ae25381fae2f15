// Package ingest converts API-shaped JSON records into model types.
//
// Flight-plan items arrive in two shapes: the sequence number either sits on the
// item itself or on the nested task/experience object. Events arrive with either
// "Past" or "Completed" for finished events. Both are normalized here so the
// sorting and classification code only sees the canonical model.
package ingest

import (
	"encoding/json"
	"fmt"

	"github.com/rcliao/flight-plan/internal/model"
)

// RecordError reports an invalid record and its position in the input.
type RecordError struct {
	Kind  string
	Index int
	Err   error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("%s %d: %v", e.Kind, e.Index, e.Err)
}

func (e *RecordError) Unwrap() error { return e.Err }

// FlexID is an id that may be encoded as a JSON string or number.
type FlexID string

func (f *FlexID) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*f = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*f = FlexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id must be a string or number, got %s", b)
	}
	*f = FlexID(n.String())
	return nil
}

// CatalogRef is the nested task or experience object of an item.
type CatalogRef struct {
	ID             FlexID `json:"id,omitempty"`
	Name           string `json:"name,omitempty"`
	SequenceNumber *int   `json:"sequenceNumber,omitempty"`
	Points         int    `json:"points,omitempty"`
	SubmissionType string `json:"submissionType,omitempty"`
}

// ItemRecord is a flight-plan item as the API returns it.
type ItemRecord struct {
	ID             FlexID      `json:"id"`
	FlightPlanID   FlexID      `json:"flightPlanId,omitempty"`
	Type           string      `json:"flightPlanItemType"`
	Status         string      `json:"status"`
	Name           string      `json:"name"`
	SequenceNumber *int        `json:"sequenceNumber,omitempty"`
	Optional       bool        `json:"optional,omitempty"`
	Points         int         `json:"points,omitempty"`
	TaskID         FlexID      `json:"taskId,omitempty"`
	ExperienceID   FlexID      `json:"experienceId,omitempty"`
	Task           *CatalogRef `json:"task,omitempty"`
	Experience     *CatalogRef `json:"experience,omitempty"`
	SubmissionType string      `json:"submissionType,omitempty"`
}

// Item converts the record, reading the sequence number from the nested
// catalog object matching the item type when it has one.
func (r ItemRecord) Item() (model.FlightPlanItem, error) {
	typ, err := model.ParseItemType(r.Type)
	if err != nil {
		return model.FlightPlanItem{}, err
	}
	status, err := model.ParseItemStatus(r.Status)
	if err != nil {
		return model.FlightPlanItem{}, err
	}

	nested, catalogID := r.Task, r.TaskID
	if typ == model.ItemExperience {
		nested, catalogID = r.Experience, r.ExperienceID
	}

	it := model.FlightPlanItem{
		ID:             string(r.ID),
		FlightPlanID:   string(r.FlightPlanID),
		Type:           typ,
		Status:         status,
		Name:           r.Name,
		Sequence:       r.SequenceNumber,
		CatalogID:      string(catalogID),
		Optional:       r.Optional,
		Points:         r.Points,
		SubmissionType: model.SubmissionType(r.SubmissionType),
	}
	if nested != nil {
		if nested.SequenceNumber != nil {
			it.Sequence = nested.SequenceNumber
		}
		if nested.ID != "" {
			it.CatalogID = string(nested.ID)
		}
		if it.Points == 0 {
			it.Points = nested.Points
		}
		if it.Name == "" {
			it.Name = nested.Name
		}
		if it.SubmissionType == "" {
			it.SubmissionType = model.SubmissionType(nested.SubmissionType)
		}
	}
	return it, nil
}

// ItemRecordFrom renders an item in the flat shape.
func ItemRecordFrom(it model.FlightPlanItem) ItemRecord {
	r := ItemRecord{
		ID:             FlexID(it.ID),
		FlightPlanID:   FlexID(it.FlightPlanID),
		Type:           string(it.Type),
		Status:         string(it.Status),
		Name:           it.Name,
		SequenceNumber: it.Sequence,
		Optional:       it.Optional,
		Points:         it.Points,
		SubmissionType: string(it.SubmissionType),
	}
	if it.Type == model.ItemExperience {
		r.ExperienceID = FlexID(it.CatalogID)
	} else {
		r.TaskID = FlexID(it.CatalogID)
	}
	return r
}

// Items converts records, collecting one RecordError per invalid record.
func Items(recs []ItemRecord) ([]model.FlightPlanItem, []error) {
	var (
		items []model.FlightPlanItem
		errs  []error
	)
	for i, r := range recs {
		it, err := r.Item()
		if err != nil {
			errs = append(errs, &RecordError{Kind: "item", Index: i, Err: err})
			continue
		}
		items = append(items, it)
	}
	return items, errs
}

// DecodeItems decodes a JSON array of item records. Any invalid record fails the whole decode.
func DecodeItems(data []byte) ([]model.FlightPlanItem, error) {
	var recs []ItemRecord
	if err := json.Unmarshal(data, &recs); err != nil {
		return nil, fmt.Errorf("parse items: %w", err)
	}
	items, errs := Items(recs)
	if len(errs) > 0 {
		return nil, errs[0]
	}
	return items, nil
}
