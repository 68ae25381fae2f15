package eventstatus

import (
	"testing"

	"github.com/rcliao/flight-plan/internal/model"
)

func strengths(ids ...string) []model.Strength {
	out := make([]model.Strength, len(ids))
	for i, id := range ids {
		out[i] = model.Strength{ID: id}
	}
	return out
}

func TestClassify_Precedence(t *testing.T) {
	active := model.Event{ID: "5", Lifecycle: model.EventActive}
	past := model.Event{ID: "5", Lifecycle: model.EventPast}
	all := model.NewIDSet("5")

	tests := []struct {
		name     string
		ev       model.Event
		rel      model.Relations
		student  []model.Strength
		event    []model.Strength
		expected model.EventState
	}{
		{"checked in beats canceled", active, model.Relations{CheckedIn: all, Cancelled: all}, nil, nil, model.StateCheckedIn},
		{"checked in beats past", past, model.Relations{CheckedIn: all}, nil, nil, model.StateCheckedIn},
		{"canceled beats past", past, model.Relations{Cancelled: all, Registered: all}, nil, nil, model.StateCanceled},
		{"past beats registered", past, model.Relations{Registered: all}, nil, nil, model.StatePast},
		{"past beats recommended", past, model.Relations{}, strengths("a"), strengths("a"), model.StatePast},
		{"registered beats recommended", active, model.Relations{Registered: all}, strengths("a"), strengths("a"), model.StateRegistered},
		{"recommended", active, model.Relations{}, strengths("a", "b"), strengths("b"), model.StateRecommended},
		{"no overlap", active, model.Relations{}, strengths("a"), strengths("b"), model.StateUpcoming},
		{"no strengths", active, model.Relations{}, nil, nil, model.StateUpcoming},
		{"other event in sets", active, model.Relations{CheckedIn: model.NewIDSet("6"), Registered: model.NewIDSet("7")}, nil, nil, model.StateUpcoming},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.ev, tt.rel, tt.student, tt.event)
			if got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestClassify_ExactlyOneLabel(t *testing.T) {
	valid := map[model.EventState]bool{
		model.StateCheckedIn: true, model.StateCanceled: true, model.StatePast: true,
		model.StateRegistered: true, model.StateRecommended: true, model.StateUpcoming: true,
	}
	set := func(on bool) model.IDSet {
		if on {
			return model.NewIDSet("e")
		}
		return nil
	}
	for mask := 0; mask < 32; mask++ {
		ev := model.Event{ID: "e", Lifecycle: model.EventActive}
		if mask&8 != 0 {
			ev.Lifecycle = model.EventPast
		}
		var stu []model.Strength
		if mask&16 != 0 {
			stu = strengths("s")
		}
		rel := model.Relations{CheckedIn: set(mask&1 != 0), Cancelled: set(mask&2 != 0), Registered: set(mask&4 != 0)}
		got := Classify(ev, rel, stu, strengths("s"))
		if !valid[got] {
			t.Errorf("mask %05b: unexpected state %q", mask, got)
		}
		if again := Classify(ev, rel, stu, strengths("s")); again != got {
			t.Errorf("mask %05b: not deterministic: %q then %q", mask, got, again)
		}
	}
}

func TestIsRecommended(t *testing.T) {
	if !IsRecommended(strengths("1", "2"), strengths("2")) {
		t.Error("expected overlap to be recommended")
	}
	if IsRecommended(strengths(), strengths("1")) {
		t.Error("expected empty student strengths not to be recommended")
	}
	if IsRecommended(strengths("1"), nil) {
		t.Error("expected nil event strengths not to be recommended")
	}
	if IsRecommended(strengths("1", "3"), strengths("2", "4")) {
		t.Error("expected disjoint strengths not to be recommended")
	}
}

func TestCardColor(t *testing.T) {
	tests := map[model.EventState]string{
		model.StateCheckedIn:   "success",
		model.StateCanceled:    "grey",
		model.StatePast:        "grey",
		model.StateRegistered:  "warning",
		model.StateRecommended: "primary",
		model.StateUpcoming:    "primary",
	}
	for state, want := range tests {
		if got := CardColor(state); got != want {
			t.Errorf("CardColor(%q) = %q, want %q", state, got, want)
		}
	}
}
