package flightplan

import (
	"errors"
	"fmt"
	"testing"

	"github.com/rcliao/flight-plan/internal/model"
)

func profileWith(n int) Profile {
	var p Profile
	for i := 0; i < n; i++ {
		p.Strengths = append(p.Strengths, model.Strength{ID: fmt.Sprint(i)})
	}
	return p
}

func TestCheckAutoSubmission_Strengths(t *testing.T) {
	tests := []struct {
		name    string
		profile Profile
		wantErr bool
	}{
		{"none", profileWith(0), true},
		{"four", profileWith(4), true},
		{"five", profileWith(5), false},
		{"six", profileWith(6), false},
		{"duplicates count once", Profile{Strengths: []model.Strength{{ID: "a"}, {ID: "a"}, {ID: "b"}, {ID: "c"}, {ID: "d"}}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckAutoSubmission(model.SubmitAutoStrengths, tt.profile)
			if (err != nil) != tt.wantErr {
				t.Errorf("got %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCheckAutoSubmission_Messages(t *testing.T) {
	if err := CheckAutoSubmission(model.SubmitAutoStrengths, Profile{}); err == nil || err.Error() != "please add your Clifton Strengths to your profile" {
		t.Errorf("unexpected error for empty profile: %v", err)
	}
	if err := CheckAutoSubmission(model.SubmitAutoStrengths, profileWith(2)); err == nil || err.Error() != "you must have 5 Clifton Strengths on your profile" {
		t.Errorf("unexpected error for short profile: %v", err)
	}
}

func TestCheckAutoSubmission_OtherKinds(t *testing.T) {
	full := profileWith(MinStrengths)

	if err := CheckAutoSubmission("", full); !errors.Is(err, ErrNotAutomatic) {
		t.Errorf("expected ErrNotAutomatic for review items, got %v", err)
	}
	if err := CheckAutoSubmission("Upload", full); !errors.Is(err, ErrNotAutomatic) {
		t.Errorf("expected ErrNotAutomatic for uploads, got %v", err)
	}
	for _, typ := range []model.SubmissionType{model.SubmitAutoMajor, model.SubmitAutoLinkedIn} {
		if err := CheckAutoSubmission(typ, full); !errors.Is(err, ErrUnsupportedSubmission) {
			t.Errorf("%s: expected ErrUnsupportedSubmission, got %v", typ, err)
		}
	}
	if err := CheckAutoSubmission(model.SubmitAutoHandshake, full); err == nil {
		t.Error("expected handshake completion to be refused")
	}
}
