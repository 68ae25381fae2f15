// Package eventstatus assigns a display state to an event for one student.
package eventstatus

import "github.com/rcliao/flight-plan/internal/model"

// Classify returns the event's state for a student. The first matching rule wins:
// checked in, canceled, past, registered, recommended, then upcoming.
// Nil relation sets and strength slices are treated as empty.
func Classify(ev model.Event, rel model.Relations, studentStrengths, eventStrengths []model.Strength) model.EventState {
	switch {
	case rel.CheckedIn.Has(ev.ID):
		return model.StateCheckedIn
	case rel.Cancelled.Has(ev.ID):
		return model.StateCanceled
	case ev.Lifecycle == model.EventPast:
		return model.StatePast
	case rel.Registered.Has(ev.ID):
		return model.StateRegistered
	case IsRecommended(studentStrengths, eventStrengths):
		return model.StateRecommended
	default:
		return model.StateUpcoming
	}
}

// IsRecommended reports whether the two strength lists share an id.
func IsRecommended(a, b []model.Strength) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	ids := make(model.IDSet, len(a))
	for _, s := range a {
		ids[s.ID] = struct{}{}
	}
	for _, s := range b {
		if ids.Has(s.ID) {
			return true
		}
	}
	return false
}

// CardColor maps a state to the badge color used for event cards.
func CardColor(state model.EventState) string {
	switch state {
	case model.StateCheckedIn:
		return "success"
	case model.StateCanceled, model.StatePast:
		return "grey"
	case model.StateRegistered:
		return "warning"
	default:
		return "primary"
	}
}
