package search

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"tourplanner/internal/tour"
	"tourplanner/internal/tourlog"
)

// MatchText reports whether query occurs, ignoring case, in any searchable
// field of the tour or of one of its logs. A blank query matches everything.
func MatchText(t tour.Tour, logs []tourlog.TourLog, st Stats, query string) bool {
	if isBlank(query) {
		return true
	}
	q := strings.ToLower(query)
	contains := func(s string) bool {
		return strings.Contains(strings.ToLower(s), q)
	}

	if contains(t.Name) || contains(t.Description) || contains(t.From) ||
		contains(t.To) || contains(t.TransportType) || contains(strconv.Itoa(st.Popularity)) {
		return true
	}
	if st.ChildFriendliness != nil && contains(FormatChildFriendliness(*st.ChildFriendliness)) {
		return true
	}
	for _, l := range logs {
		if contains(l.Comment) ||
			contains(strconv.Itoa(l.Rating)) ||
			contains(strconv.Itoa(l.Difficulty)) ||
			contains(FormatDistance(l.TotalDistanceKm)) ||
			contains(FormatDuration(l.TotalTimeSec)) {
			return true
		}
	}
	return false
}

// PassesFilters applies the structured filters. Each supplied filter is
// satisfied when at least one log meets it; supplied filters are combined
// with AND. A tour without logs fails every supplied filter.
func PassesFilters(logs []tourlog.TourLog, req Request) bool {
	if req.MinRating != nil && !anyLog(logs, func(l tourlog.TourLog) bool { return l.Rating >= *req.MinRating }) {
		return false
	}
	if req.DateFrom != nil && !anyLog(logs, func(l tourlog.TourLog) bool { return !l.Date.Before(*req.DateFrom) }) {
		return false
	}
	if req.DateTo != nil && !anyLog(logs, func(l tourlog.TourLog) bool { return !l.Date.After(*req.DateTo) }) {
		return false
	}
	return true
}

func anyLog(logs []tourlog.TourLog, fn func(tourlog.TourLog) bool) bool {
	for _, l := range logs {
		if fn(l) {
			return true
		}
	}
	return false
}

// FormatChildFriendliness renders a score with one decimal, rounding half up
// from its hundredths: 3.45 becomes "3.5".
func FormatChildFriendliness(v float64) string {
	h := int64(math.Round(v * 100))
	tenths := (h + 5) / 10
	return fmt.Sprintf("%d.%d", tenths/10, tenths%10)
}

// FormatDistance renders the shortest decimal that round-trips, switching to
// exponent form below 1e-4 and from 1e15 on. PostgreSQL's float8 text output
// follows the same rules.
func FormatDistance(v float64) string {
	abs := math.Abs(v)
	if abs != 0 && (abs < 1e-4 || abs >= 1e15) {
		return strconv.FormatFloat(v, 'e', -1, 64)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatDuration renders whole seconds as [d.]hh:mm:ss.
func FormatDuration(sec int64) string {
	days := sec / 86400
	h := (sec % 86400) / 3600
	m := (sec % 3600) / 60
	s := sec % 60
	if days > 0 {
		return fmt.Sprintf("%d.%02d:%02d:%02d", days, h, m, s)
	}
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
