package geo

import "math"

const earthRadiusKm = 6371.0

// Point is a WGS84 coordinate.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// HaversineKm returns the great-circle distance between two coordinates in kilometres.
func HaversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := toRad(lat2 - lat1)
	dLng := toRad(lng2 - lng1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKm * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// PathLengthKm sums the segment lengths of an ordered path.
func PathLengthKm(path []Point) float64 {
	total := 0.0
	for i := 1; i < len(path); i++ {
		total += HaversineKm(path[i-1].Lat, path[i-1].Lng, path[i].Lat, path[i].Lng)
	}
	return total
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
