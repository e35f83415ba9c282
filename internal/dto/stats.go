package dto

// Stats is the dashboard aggregate.
type Stats struct {
	TotalVehicles  int   `json:"totalVehicles"`
	ActiveAuctions int   `json:"activeAuctions"`
	TotalUsers     int   `json:"totalUsers"`
	TotalRevenue   Money `json:"totalRevenue"`
}
