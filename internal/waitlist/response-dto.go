package waitlist

import "github.com/google/uuid"

// EntryResponse is an entry decorated with catalog display names
type EntryResponse struct {
	Entry
	SalonName   string `json:"salon_name,omitempty"`
	ServiceName string `json:"service_name,omitempty"`
	StaffName   string `json:"staff_name,omitempty"`
}

// StatsResponse summarizes a (service, date) queue group
type StatsResponse struct {
	ServiceID uuid.UUID `json:"service_id"`
	Date      string    `json:"date"`
	Total     int       `json:"total"`
	Waiting   int       `json:"waiting"`
	Offered   int       `json:"offered"`
	Converted int       `json:"converted"`
	Expired   int       `json:"expired"`
	Cancelled int       `json:"cancelled"`
}
