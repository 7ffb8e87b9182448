package search

import (
	"math"

	"tourplanner/internal/tourlog"
)

// Aggregate derives the statistics of one tour from its logs.
func Aggregate(logs []tourlog.TourLog) Stats {
	n := len(logs)
	if n == 0 {
		return Stats{}
	}

	var (
		sumRating, sumDifficulty int
		sumDistance, sumHours    float64
	)
	for _, l := range logs {
		sumRating += l.Rating
		sumDifficulty += l.Difficulty
		sumDistance += l.TotalDistanceKm
		sumHours += float64(l.TotalTimeSec) / 3600
	}
	count := float64(n)
	avgRating := float64(sumRating) / count
	child := float64(childHundredths(
		float64(sumDifficulty)/count,
		sumDistance/count,
		sumHours/count,
	)) / 100

	return Stats{
		Popularity:        n,
		AverageRating:     &avgRating,
		ChildFriendliness: &child,
	}
}

// childHundredths scores how suitable a tour is for children, in hundredths
// rounded half to even. Lower difficulty, distance and duration each contribute up
// to five points and the three parts are averaged.
func childHundredths(avgDifficulty, avgDistanceKm, avgHours float64) int64 {
	score := ((5 - avgDifficulty) + math.Max(0, 5-avgDistanceKm/10) + math.Max(0, 5-avgHours)) / 3
	return int64(math.RoundToEven(score * 100))
}
