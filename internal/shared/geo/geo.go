package geo

import "math"

const earthRadiusM = 6371000.0

// Coordinate is a WGS84 point in degrees.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// HaversineM returns the great-circle distance in meters between two points.
func HaversineM(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := radians(lat2 - lat1)
	dLng := radians(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(radians(lat1))*math.Cos(radians(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusM * c
}

func HaversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	return HaversineM(lat1, lng1, lat2, lng2) / 1000
}

// AccumulateM adds the distance between consecutive points a and b to a
// running total. Totals are only ever extended this way, never recomputed
// from the whole path.
func AccumulateM(current float64, a, b Coordinate) float64 {
	return current + HaversineM(a.Lat, a.Lng, b.Lat, b.Lng)
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
