package model

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

// EventLifecycle is the canonical event status vocabulary.
type EventLifecycle string

const (
	EventActive EventLifecycle = "Active"
	EventPast   EventLifecycle = "Past"
)

// ParseEventLifecycle folds the deployed status strings into the canonical vocabulary.
// Both "Past" and "Completed" mean the event is over.
func ParseEventLifecycle(s string) (EventLifecycle, error) {
	switch s {
	case "", "Active", "Upcoming", "Scheduled":
		return EventActive, nil
	case "Past", "Completed":
		return EventPast, nil
	}
	return "", fmt.Errorf("invalid event status %q (valid: Active, Upcoming, Scheduled, Past, Completed)", s)
}

// Event is a scheduled engagement event.
type Event struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Date        string         `json:"date,omitempty"`
	Lifecycle   EventLifecycle `json:"status"`
	Description string         `json:"description,omitempty"`
	Location    string         `json:"location,omitempty"`
	StartTime   string         `json:"start_time,omitempty"`
	EndTime     string         `json:"end_time,omitempty"`
	Strengths   []Strength     `json:"strengths,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

// Validate checks what a stored event must carry.
func (ev Event) Validate() error {
	if strings.TrimSpace(ev.Name) == "" {
		return errors.New("event name is required")
	}
	switch ev.Lifecycle {
	case "", EventActive, EventPast:
	default:
		return fmt.Errorf("invalid event status %q", ev.Lifecycle)
	}
	return nil
}

// Strength is a Clifton strength attached to students and events.
type Strength struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// EventState is the single display state of an event for one student.
type EventState string

const (
	StateCheckedIn   EventState = "checkedin"
	StateCanceled    EventState = "canceled"
	StatePast        EventState = "past"
	StateRegistered  EventState = "registered"
	StateRecommended EventState = "recommended"
	StateUpcoming    EventState = "upcoming"
)

// IDSet is a set of opaque ids. A nil IDSet is empty.
type IDSet map[string]struct{}

// NewIDSet builds a set from ids.
func NewIDSet(ids ...string) IDSet {
	s := make(IDSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Has reports whether id is in the set.
func (s IDSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Add inserts id into the set, allocating it if needed.
func (s *IDSet) Add(id string) {
	if *s == nil {
		*s = IDSet{}
	}
	(*s)[id] = struct{}{}
}

// Sorted returns the ids in ascending order.
func (s IDSet) Sorted() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Relations are a student's event relations keyed by event id.
type Relations struct {
	CheckedIn  IDSet
	Registered IDSet
	Cancelled  IDSet
}
