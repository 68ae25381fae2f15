package store

import (
	"context"
	"fmt"

	"github.com/rcliao/flight-plan/internal/eventstatus"
	"github.com/rcliao/flight-plan/internal/flightplan"
	"github.com/rcliao/flight-plan/internal/model"
)

// FlightPlanView is a flight plan in display order with its summary.
type FlightPlanView struct {
	FlightPlanID string                 `json:"flight_plan_id"`
	Items        []model.FlightPlanItem `json:"items"`
	Summary      flightplan.Summary     `json:"summary"`
}

// FlightPlan loads a plan's items and orders them for display.
func (s *SQLiteStore) FlightPlan(ctx context.Context, planID string) (*FlightPlanView, error) {
	items, err := s.ListItems(ctx, ListItemsParams{FlightPlanID: planID})
	if err != nil {
		return nil, err
	}
	return &FlightPlanView{
		FlightPlanID: planID,
		Items:        flightplan.Sort(items),
		Summary:      flightplan.Summarize(items),
	}, nil
}

// CreditOptionalExperience adds an optional Experience to a plan for attending
// an event outside it. It returns the existing credit if one was already given.
func (s *SQLiteStore) CreditOptionalExperience(ctx context.Context, planID string, ev model.Event) (*model.FlightPlanItem, error) {
	existing, err := s.ListItems(ctx, ListItemsParams{FlightPlanID: planID, Type: model.ItemExperience})
	if err != nil {
		return nil, err
	}
	for i := range existing {
		if existing[i].Optional && existing[i].CatalogID == ev.ID {
			return &existing[i], nil
		}
	}
	return s.PutItem(ctx, PutItemParams{
		FlightPlanID: planID,
		Type:         model.ItemExperience,
		Status:       model.StatusIncomplete,
		Name:         fmt.Sprintf("Credit for optional event (%s)", ev.Name),
		CatalogID:    ev.ID,
		Optional:     true,
	})
}

// BoardEntry is an event with its state for one student.
type BoardEntry struct {
	Event model.Event      `json:"event"`
	State model.EventState `json:"state"`
	Color string           `json:"color"`
}

// BoardParams holds parameters for building a student's event board.
type BoardParams struct {
	StudentID string
	State     model.EventState // only entries in this state, when set
	Limit     int
}

// Board classifies every event for a student, ordered by date then name.
func (s *SQLiteStore) Board(ctx context.Context, p BoardParams) ([]BoardEntry, error) {
	rel, err := s.StudentRelations(ctx, p.StudentID)
	if err != nil {
		return nil, err
	}
	strengths, err := s.StudentStrengths(ctx, p.StudentID)
	if err != nil {
		return nil, err
	}
	events, err := s.ListEvents(ctx, ListEventsParams{})
	if err != nil {
		return nil, err
	}

	board := []BoardEntry{}
	for _, ev := range events {
		state := eventstatus.Classify(ev, rel, strengths, ev.Strengths)
		if p.State != "" && state != p.State {
			continue
		}
		board = append(board, BoardEntry{Event: ev, State: state, Color: eventstatus.CardColor(state)})
		if p.Limit > 0 && len(board) >= p.Limit {
			break
		}
	}
	return board, nil
}

// EventStatus classifies a single event for a student.
func (s *SQLiteStore) EventStatus(ctx context.Context, studentID, eventID string) (*BoardEntry, error) {
	ev, err := s.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	rel, err := s.StudentRelations(ctx, studentID)
	if err != nil {
		return nil, err
	}
	strengths, err := s.StudentStrengths(ctx, studentID)
	if err != nil {
		return nil, err
	}
	state := eventstatus.Classify(*ev, rel, strengths, ev.Strengths)
	return &BoardEntry{Event: *ev, State: state, Color: eventstatus.CardColor(state)}, nil
}
