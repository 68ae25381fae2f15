package flightplan

import (
	"errors"
	"fmt"

	"github.com/rcliao/flight-plan/internal/model"
)

// MinStrengths is how many strengths a profile needs to complete a strengths item.
const MinStrengths = 5

var (
	// ErrNotAutomatic is returned for items whose completion goes through review.
	ErrNotAutomatic = errors.New("item does not complete automatically")

	// ErrUnsupportedSubmission is returned for automatic kinds whose evidence
	// (majors, profile links) is not kept by this store.
	ErrUnsupportedSubmission = errors.New("automatic completion is not supported")
)

// Profile is what a student has on file for automatic completion checks.
type Profile struct {
	Strengths []model.Strength
}

// CheckAutoSubmission returns nil when an item of the given submission type
// may be completed for the profile, or an error telling the student what is missing.
func CheckAutoSubmission(t model.SubmissionType, p Profile) error {
	switch t {
	case model.SubmitAutoStrengths:
		n := len(model.NewIDSet(strengthIDs(p.Strengths)...))
		if n == 0 {
			return errors.New("please add your Clifton Strengths to your profile")
		}
		if n < MinStrengths {
			return fmt.Errorf("you must have %d Clifton Strengths on your profile", MinStrengths)
		}
		return nil
	case model.SubmitAutoHandshake:
		return errors.New("task completion not implemented")
	case model.SubmitAutoMajor, model.SubmitAutoLinkedIn:
		return fmt.Errorf("%s: %w", t, ErrUnsupportedSubmission)
	}
	return ErrNotAutomatic
}

func strengthIDs(ss []model.Strength) []string {
	ids := make([]string, 0, len(ss))
	for _, s := range ss {
		if s.ID != "" {
			ids = append(ids, s.ID)
		}
	}
	return ids
}
