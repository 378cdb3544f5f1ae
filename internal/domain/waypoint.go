package domain

import "math"

// Immutable geographic coordinates (longitude, latitude).
type Coordinates struct {
	Lon float64
	Lat float64
}

// A single node of the fixed voyage route.
// Waypoints are created once from route configuration and never change
// for the lifetime of a voyage.
type Waypoint struct {
	NodeID       int
	Position     Coordinates
	CumulativeNM float64 // distance from the voyage start, nautical miles
	SegmentIndex int     // coarse segment this node belongs to
	Origin       bool    // true only for node 0
}

// Route is the ordered waypoint sequence the planners operate on.
// Leg i runs from Waypoints[i] to Waypoints[i+1].
type Route struct {
	Waypoints []Waypoint
}

func (r Route) Legs() int { return len(r.Waypoints) - 1 }

func (r Route) TotalNM() float64 {
	if len(r.Waypoints) == 0 {
		return 0
	}
	return r.Waypoints[len(r.Waypoints)-1].CumulativeNM - r.Waypoints[0].CumulativeNM
}

// LegDistanceNM returns the length of leg i in nautical miles.
func (r Route) LegDistanceNM(i int) float64 {
	return r.Waypoints[i+1].CumulativeNM - r.Waypoints[i].CumulativeNM
}

// LegHeadingDeg returns the initial great-circle bearing of leg i in degrees
// clockwise from true north.
func (r Route) LegHeadingDeg(i int) float64 {
	a := r.Waypoints[i].Position
	b := r.Waypoints[i+1].Position

	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	y := math.Sin(dLon) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLon)

	deg := math.Atan2(y, x) * 180 / math.Pi
	return math.Mod(deg+360, 360)
}

// Tail returns the sub-route starting at node index from, preserving
// node IDs, segment indices, and cumulative distances.
func (r Route) Tail(from int) Route {
	return Route{Waypoints: r.Waypoints[from:]}
}

// SegmentCount returns the number of distinct segment indices on the route.
func (r Route) SegmentCount() int {
	max := -1
	for _, w := range r.Waypoints {
		if w.SegmentIndex > max {
			max = w.SegmentIndex
		}
	}
	return max + 1
}
