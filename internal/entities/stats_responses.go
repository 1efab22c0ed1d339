package entities

// DayRevenue is one row of the revenue-by-day series. Day is an English
// weekday name; rows arrive ordered Monday through Sunday.
type DayRevenue struct {
	Day   string  `json:"day"`
	Total float64 `json:"total"`
}

type OccupancyResponse struct {
	OccupancyPercentage float64 `json:"occupancy_percentage"`
}

type MonthlyProjectionResponse struct {
	ProjectedEarnings float64 `json:"projected_earnings"`
	DaysRemaining     int     `json:"days_remaining"`
}

type TopSpotRevenue struct {
	Name         string  `json:"name"`
	TotalRevenue float64 `json:"total_revenue"`
}

type TopSpotCount struct {
	Name             string `json:"name"`
	ReservationCount int    `json:"reservation_count"`
}

// SummaryResponse consolidates the headline numbers for the admin dashboard.
type SummaryResponse struct {
	TotalSpots        int     `json:"total_spots"`
	TotalReservations int     `json:"total_reservations"`
	TotalRevenue      float64 `json:"total_revenue"`
	AvgBooking        float64 `json:"avg_booking"`
	PeakDay           string  `json:"peak_day"`
}
