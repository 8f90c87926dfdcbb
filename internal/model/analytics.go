package model

// BookingCounts partitions the booking store by status. The four status
// counts always sum to Total.
type BookingCounts struct {
	Total       int `json:"total"`
	Pending     int `json:"pending"`
	Confirmed   int `json:"confirmed"`
	Completed   int `json:"completed"`
	Cancelled   int `json:"cancelled"`
	Recent7Days int `json:"recent_7_days"`
}

// RevenueSummary reports completed-booking revenue at current catalog
// prices. DanglingReferences counts completed bookings whose service row
// no longer exists; they contribute 0 to Total.
type RevenueSummary struct {
	Total              float64 `json:"total"`
	DanglingReferences int     `json:"dangling_references"`
}

type Summary struct {
	Bookings BookingCounts  `json:"bookings"`
	Revenue  RevenueSummary `json:"revenue"`
}

// DateBucket is one calendar day in a dense, zero-filled series.
type DateBucket struct {
	Date     string `json:"date"`
	Bookings int    `json:"bookings"`
}

// ServiceRevenue is one row of the sparse per-service revenue series.
type ServiceRevenue struct {
	ServiceName string  `json:"service_name"`
	Revenue     float64 `json:"revenue"`
}

type ChartSeries struct {
	BookingsOverTime []DateBucket     `json:"bookings_over_time"`
	RevenueByService []ServiceRevenue `json:"revenue_by_service"`
}
