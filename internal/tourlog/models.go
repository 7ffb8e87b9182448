package tourlog

import "time"

type TourLog struct {
	ID              string    `json:"id"`
	TourID          string    `json:"tour_id"`
	Date            time.Time `json:"date"`
	Comment         string    `json:"comment"`
	Difficulty      int       `json:"difficulty"`
	TotalDistanceKm float64   `json:"total_distance_km"`
	TotalTimeSec    int64     `json:"total_time_sec"`
	Rating          int       `json:"rating"`
	Votes           int       `json:"votes"`
}

type Input struct {
	Date            time.Time `json:"date"`
	Comment         string    `json:"comment"`
	Difficulty      int       `json:"difficulty"`
	TotalDistanceKm float64   `json:"total_distance_km"`
	TotalTimeSec    int64     `json:"total_time_sec"`
	Rating          int       `json:"rating"`
}

type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionUpvoted Action = "upvoted"
	ActionDeleted Action = "deleted"
)

type Listener func(action Action, l TourLog)
