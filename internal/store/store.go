// Package store provides the flight-plan storage interface and SQLite implementation.
package store

import (
	"context"
	"errors"

	"github.com/rcliao/flight-plan/internal/model"
)

// ErrNotFound is returned when a record does not exist or was deleted.
var ErrNotFound = errors.New("not found")

// PutItemParams holds parameters for storing a flight-plan item.
// An empty ID creates a new item; a known ID updates it.
type PutItemParams struct {
	ID             string
	FlightPlanID   string
	Type           model.ItemType
	Status         model.ItemStatus
	Name           string
	Sequence       *int
	CatalogID      string
	Optional       bool
	Points         int
	SubmissionType model.SubmissionType
}

// ListItemsParams holds filters for listing items.
type ListItemsParams struct {
	FlightPlanID string
	Type         model.ItemType
	Status       model.ItemStatus
	Limit        int
}

// RmParams holds parameters for deleting an item.
type RmParams struct {
	ID   string
	Hard bool
}

// PutEventParams holds parameters for storing an event.
// StrengthIDs replaces the event's strengths when non-nil.
type PutEventParams struct {
	ID          string
	Name        string
	Date        string
	Lifecycle   model.EventLifecycle
	Description string
	Location    string
	StartTime   string
	EndTime     string
	StrengthIDs []string
}

// ListEventsParams holds filters for listing events.
type ListEventsParams struct {
	Lifecycle model.EventLifecycle
	Limit     int
}

// Store defines the flight-plan storage interface.
type Store interface {
	// PutItem stores or updates a flight-plan item.
	PutItem(ctx context.Context, p PutItemParams) (*model.FlightPlanItem, error)

	// GetItem retrieves an item by id.
	GetItem(ctx context.Context, id string) (*model.FlightPlanItem, error)

	// ListItems lists items in insertion order.
	ListItems(ctx context.Context, p ListItemsParams) ([]model.FlightPlanItem, error)

	// SetItemStatus changes the status of an item.
	SetItemStatus(ctx context.Context, id string, status model.ItemStatus) (*model.FlightPlanItem, error)

	// CompleteItem completes an automatic item for a student.
	CompleteItem(ctx context.Context, p CompleteParams) (*model.FlightPlanItem, error)

	// RmItem soft-deletes (or hard-deletes) an item.
	RmItem(ctx context.Context, p RmParams) error

	// PutEvent stores or updates an event.
	PutEvent(ctx context.Context, p PutEventParams) (*model.Event, error)

	// GetEvent retrieves an event with its strengths.
	GetEvent(ctx context.Context, id string) (*model.Event, error)

	// ListEvents lists events ordered by date, then name.
	ListEvents(ctx context.Context, p ListEventsParams) ([]model.Event, error)

	// Close closes the store.
	Close() error
}
