package models

// DashboardStats is the staff dashboard aggregate: pure read
// projections over the ledger and payment store.
type DashboardStats struct {
	TotalUsers      int64          `json:"total_users"`
	NumbersSold     int64          `json:"total_numbers_sold"`
	NumbersReserved int64          `json:"total_numbers_reserved"`
	TotalRevenue    float64        `json:"total_revenue"`
	PendingPayments int64          `json:"pending_payments"`
	ActiveRaffles   int64          `json:"active_raffles"`
	RecentPayments  []*PaymentView `json:"recent_payments"`
}
