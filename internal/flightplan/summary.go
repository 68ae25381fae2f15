package flightplan

import "github.com/rcliao/flight-plan/internal/model"

// Summary aggregates a flight plan by status group and item type.
type Summary struct {
	Total           int `json:"total"`
	Incomplete      int `json:"incomplete"`
	InReview        int `json:"in_review"`
	Complete        int `json:"complete"`
	Tasks           int `json:"tasks"`
	Experiences     int `json:"experiences"`
	Optional        int `json:"optional"`
	PointsEarned    int `json:"points_earned"`
	PercentComplete int `json:"percent_complete"`
}

// Summarize counts the items Sort would display.
func Summarize(items []model.FlightPlanItem) Summary {
	var s Summary
	for _, it := range items {
		switch it.Type {
		case model.ItemTask:
			s.Tasks++
		case model.ItemExperience:
			s.Experiences++
		default:
			continue
		}
		s.Total++
		if it.Optional {
			s.Optional++
		}
		switch StatusPriority(it.Status) {
		case 0:
			s.Incomplete++
		case 1:
			s.InReview++
		case 2:
			s.Complete++
			s.PointsEarned += it.Points
		}
	}
	if s.Total > 0 {
		s.PercentComplete = s.Complete * 100 / s.Total
	}
	return s
}
