package dto

type WaypointResponse struct {
	NodeID       int     `json:"node_id"`
	Lon          float64 `json:"lon"`
	Lat          float64 `json:"lat"`
	CumulativeNM float64 `json:"cumulative_nm"`
	SegmentIndex int     `json:"segment_index"`
	Origin       bool    `json:"origin"`
}

type RouteResponse struct {
	Waypoints []WaypointResponse `json:"waypoints"`
	TotalNM   float64            `json:"total_nm"`
}
