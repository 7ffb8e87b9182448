package search

import (
	"cmp"
	"math"
	"slices"
	"strings"

	"tourplanner/internal/tour"
)

// NormalizePage clamps page to at least 1 and size to [1, MaxPageSize].
func NormalizePage(page, size int) (int, int) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 1
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return page, size
}

// Paginate returns the requested page of items together with the clamped
// page, size and the number of items before paging. The returned slice is
// never nil.
func Paginate[T any](items []T, page, size int) ([]T, int, int, int) {
	page, size = NormalizePage(page, size)
	total := len(items)
	out := make([]T, 0, min(size, total))
	if page-1 <= total/size {
		if start := (page - 1) * size; start < total {
			out = append(out, items[start:min(start+size, total)]...)
		}
	}
	return out, page, size, total
}

func offset(page, size int) int64 {
	if int64(page-1) > math.MaxInt64/int64(size) {
		return math.MaxInt64
	}
	return int64(page-1) * int64(size)
}

// SortTours orders tours in place. Names compare byte-wise; ties keep their
// input order in both directions.
func SortTours(tours []tour.Tour, field SortField, desc bool) {
	var compare func(a, b tour.Tour) int
	switch field {
	case SortByDistance:
		compare = func(a, b tour.Tour) int { return cmp.Compare(a.DistanceKm, b.DistanceKm) }
	default:
		compare = func(a, b tour.Tour) int { return strings.Compare(a.Name, b.Name) }
	}
	if desc {
		asc := compare
		compare = func(a, b tour.Tour) int { return asc(b, a) }
	}
	slices.SortStableFunc(tours, compare)
}

// storeOrder sorts tours by name then id, the order both engines scan in.
func storeOrder(tours []tour.Tour) {
	slices.SortFunc(tours, func(a, b tour.Tour) int {
		if c := strings.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
}
