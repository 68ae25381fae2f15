// Package model defines the flight-plan data types shared by the core and the store.
package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ItemType is the kind of a flight-plan item.
type ItemType string

const (
	ItemTask       ItemType = "Task"
	ItemExperience ItemType = "Experience"
)

// ParseItemType accepts only the known item types.
func ParseItemType(s string) (ItemType, error) {
	switch t := ItemType(s); t {
	case ItemTask, ItemExperience:
		return t, nil
	}
	return "", fmt.Errorf("invalid flight plan item type %q (valid: Task, Experience)", s)
}

// Valid reports whether t is one of the known item types.
func (t ItemType) Valid() bool {
	return t == ItemTask || t == ItemExperience
}

// ItemStatus is the completion status of a flight-plan item.
type ItemStatus string

const (
	StatusIncomplete      ItemStatus = "Incomplete"
	StatusRegistered      ItemStatus = "Registered"
	StatusPendingApproval ItemStatus = "Pending Approval"
	StatusComplete        ItemStatus = "Complete"
)

// ValidStatuses are the allowed item statuses.
var ValidStatuses = map[ItemStatus]bool{
	StatusIncomplete:      true,
	StatusRegistered:      true,
	StatusPendingApproval: true,
	StatusComplete:        true,
}

// ParseItemStatus accepts only the known item statuses.
func ParseItemStatus(s string) (ItemStatus, error) {
	st := ItemStatus(s)
	if !ValidStatuses[st] {
		return "", fmt.Errorf("invalid flight plan item status %q (valid: Incomplete, Registered, Pending Approval, Complete)", s)
	}
	return st, nil
}

// SubmissionType is how an item's completion is submitted. The automatic
// kinds complete without review once their rule holds for the student.
type SubmissionType string

const (
	SubmitAutoMajor     SubmissionType = "Auto Complete - Major"
	SubmitAutoLinkedIn  SubmissionType = "Auto Complete - LinkedIn"
	SubmitAutoHandshake SubmissionType = "Auto Complete - Handshake"
	SubmitAutoStrengths SubmissionType = "Auto-Complete - Strengths"
)

// Automatic reports whether t completes without review.
func (t SubmissionType) Automatic() bool {
	switch t {
	case SubmitAutoMajor, SubmitAutoLinkedIn, SubmitAutoHandshake, SubmitAutoStrengths:
		return true
	}
	return false
}

// FlightPlanItem is one Task or Experience assigned to a student's flight plan.
// Sequence is nil when the catalog entry carries no sequence number.
type FlightPlanItem struct {
	ID             string         `json:"id"`
	FlightPlanID   string         `json:"flight_plan_id"`
	Type           ItemType       `json:"type"`
	Status         ItemStatus     `json:"status"`
	Name           string         `json:"name"`
	Sequence       *int           `json:"sequence,omitempty"`
	CatalogID      string         `json:"catalog_id,omitempty"`
	Optional       bool           `json:"optional,omitempty"`
	Points         int            `json:"points,omitempty"`
	SubmissionType SubmissionType `json:"submission_type,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	DeletedAt      *time.Time     `json:"deleted_at,omitempty"`
}

// Seq returns a pointer to n, for building items with a sequence number.
func Seq(n int) *int {
	return &n
}

// Validate checks what a stored item must carry.
func (it FlightPlanItem) Validate() error {
	if !it.Type.Valid() {
		return fmt.Errorf("invalid item type %q", it.Type)
	}
	if it.Status != "" && !ValidStatuses[it.Status] {
		return fmt.Errorf("invalid item status %q", it.Status)
	}
	if strings.TrimSpace(it.FlightPlanID) == "" {
		return errors.New("flight plan id is required")
	}
	if strings.TrimSpace(it.Name) == "" {
		return errors.New("item name is required")
	}
	if it.Points < 0 {
		return fmt.Errorf("points must not be negative, got %d", it.Points)
	}
	return nil
}
