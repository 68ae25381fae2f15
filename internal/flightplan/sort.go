// Package flightplan orders and summarizes a student's flight-plan items.
package flightplan

import (
	"cmp"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/rcliao/flight-plan/internal/model"
)

// StatusPriority ranks a status for grouping: Incomplete first, Complete last,
// every other status in between.
func StatusPriority(s model.ItemStatus) int {
	switch s {
	case model.StatusIncomplete:
		return 0
	case model.StatusComplete:
		return 2
	default:
		return 1
	}
}

// Sort returns the items in display order. Tasks and Experiences are each ordered
// by ascending sequence number (missing numbers last) with names breaking ties,
// Tasks are placed before Experiences, and the result is then stably grouped by
// StatusPriority. Items without a known type are left out. The input is not modified.
func Sort(items []model.FlightPlanItem) []model.FlightPlanItem {
	// A Collator keeps scratch buffers, so each call gets its own.
	col := collate.New(language.English)

	var tasks, experiences []model.FlightPlanItem
	for _, it := range items {
		switch it.Type {
		case model.ItemTask:
			tasks = append(tasks, it)
		case model.ItemExperience:
			experiences = append(experiences, it)
		}
	}

	bySequence := func(a, b model.FlightPlanItem) int {
		if c := compareSequence(a.Sequence, b.Sequence); c != 0 {
			return c
		}
		if c := col.CompareString(a.Name, b.Name); c != 0 {
			return c
		}
		if c := strings.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	}
	slices.SortStableFunc(tasks, bySequence)
	slices.SortStableFunc(experiences, bySequence)

	out := make([]model.FlightPlanItem, 0, len(tasks)+len(experiences))
	out = append(out, tasks...)
	out = append(out, experiences...)

	slices.SortStableFunc(out, func(a, b model.FlightPlanItem) int {
		return cmp.Compare(StatusPriority(a.Status), StatusPriority(b.Status))
	})
	return out
}

// compareSequence orders nil after every number.
func compareSequence(a, b *int) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}
	return cmp.Compare(*a, *b)
}
