package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/rcliao/flight-plan/internal/flightplan"
	"github.com/rcliao/flight-plan/internal/model"
)

// CompleteParams holds parameters for completing an automatic item.
type CompleteParams struct {
	ItemID    string
	StudentID string
}

// CompleteItem marks an automatic item Complete once the student's profile
// satisfies its submission type. Items that go through review are refused
// with flightplan.ErrNotAutomatic.
func (s *SQLiteStore) CompleteItem(ctx context.Context, p CompleteParams) (*model.FlightPlanItem, error) {
	if p.StudentID == "" {
		return nil, errors.New("student id is required")
	}
	it, err := s.GetItem(ctx, p.ItemID)
	if err != nil {
		return nil, err
	}
	if it.Status == model.StatusComplete {
		return it, nil
	}

	strengths, err := s.StudentStrengths(ctx, p.StudentID)
	if err != nil {
		return nil, err
	}
	if err := flightplan.CheckAutoSubmission(it.SubmissionType, flightplan.Profile{Strengths: strengths}); err != nil {
		return nil, fmt.Errorf("complete item %s: %w", it.ID, err)
	}
	return s.SetItemStatus(ctx, it.ID, model.StatusComplete)
}
