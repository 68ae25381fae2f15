package ingest

import (
	"encoding/json"
	"fmt"
	"regexp"
	"time"

	"github.com/rcliao/flight-plan/internal/model"
)

// StrengthRecord is a strength as the API returns it.
type StrengthRecord struct {
	ID   FlexID `json:"id"`
	Name string `json:"name,omitempty"`
}

// Strengths converts strength records.
func Strengths(recs []StrengthRecord) []model.Strength {
	if len(recs) == 0 {
		return nil
	}
	out := make([]model.Strength, len(recs))
	for i, r := range recs {
		out[i] = model.Strength{ID: string(r.ID), Name: r.Name}
	}
	return out
}

// StrengthRecordsFrom renders strengths as records.
func StrengthRecordsFrom(ss []model.Strength) []StrengthRecord {
	if len(ss) == 0 {
		return nil
	}
	out := make([]StrengthRecord, len(ss))
	for i, s := range ss {
		out[i] = StrengthRecord{ID: FlexID(s.ID), Name: s.Name}
	}
	return out
}

// EventRecord is an event as the API returns it.
type EventRecord struct {
	ID          FlexID           `json:"id"`
	Name        string           `json:"name"`
	Date        string           `json:"date,omitempty"`
	Status      string           `json:"status,omitempty"`
	Description string           `json:"description,omitempty"`
	Location    string           `json:"location,omitempty"`
	StartTime   string           `json:"startTime,omitempty"`
	EndTime     string           `json:"endTime,omitempty"`
	Strengths   []StrengthRecord `json:"strengths,omitempty"`
}

// Event converts the record, folding the status into the canonical lifecycle
// and checking the clock times.
func (r EventRecord) Event() (model.Event, error) {
	lc, err := model.ParseEventLifecycle(r.Status)
	if err != nil {
		return model.Event{}, err
	}
	if err := ValidateTimes(r.StartTime, r.EndTime); err != nil {
		return model.Event{}, err
	}
	return model.Event{
		ID:          string(r.ID),
		Name:        r.Name,
		Date:        r.Date,
		Lifecycle:   lc,
		Description: r.Description,
		Location:    r.Location,
		StartTime:   r.StartTime,
		EndTime:     r.EndTime,
		Strengths:   Strengths(r.Strengths),
	}, nil
}

// EventRecordFrom renders an event with the canonical status vocabulary.
func EventRecordFrom(ev model.Event) EventRecord {
	return EventRecord{
		ID:          FlexID(ev.ID),
		Name:        ev.Name,
		Date:        ev.Date,
		Status:      string(ev.Lifecycle),
		Description: ev.Description,
		Location:    ev.Location,
		StartTime:   ev.StartTime,
		EndTime:     ev.EndTime,
		Strengths:   StrengthRecordsFrom(ev.Strengths),
	}
}

// Events converts records, collecting one RecordError per invalid record.
func Events(recs []EventRecord) ([]model.Event, []error) {
	var (
		events []model.Event
		errs   []error
	)
	for i, r := range recs {
		ev, err := r.Event()
		if err != nil {
			errs = append(errs, &RecordError{Kind: "event", Index: i, Err: err})
			continue
		}
		events = append(events, ev)
	}
	return events, errs
}

// DecodeEvents decodes a JSON array of event records. Any invalid record fails the whole decode.
func DecodeEvents(data []byte) ([]model.Event, error) {
	var recs []EventRecord
	if err := json.Unmarshal(data, &recs); err != nil {
		return nil, fmt.Errorf("parse events: %w", err)
	}
	events, errs := Events(recs)
	if len(errs) > 0 {
		return nil, errs[0]
	}
	return events, nil
}

const clockLayout = "03:04 PM"

var clockRegex = regexp.MustCompile(`^(0[1-9]|1[0-2]):[0-5][0-9] (AM|PM)$`)

// ParseClock parses a time of day like "09:30 AM".
func ParseClock(s string) (time.Time, error) {
	if !clockRegex.MatchString(s) {
		return time.Time{}, fmt.Errorf("invalid time %q (use HH:MM AM/PM)", s)
	}
	return time.Parse(clockLayout, s)
}

// ValidateTimes checks that present times are well formed and that the end is after the start.
func ValidateTimes(start, end string) error {
	var st, et time.Time
	var err error
	if start != "" {
		if st, err = ParseClock(start); err != nil {
			return fmt.Errorf("start time: %w", err)
		}
	}
	if end != "" {
		if et, err = ParseClock(end); err != nil {
			return fmt.Errorf("end time: %w", err)
		}
	}
	if start != "" && end != "" && !et.After(st) {
		return fmt.Errorf("end time %s must be after start time %s", end, start)
	}
	return nil
}
