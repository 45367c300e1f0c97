package model

import "time"

// Ticket is a single logged service incident for a trip.  It corresponds to
// a row in the `tickets` table.  Tickets are never updated in place: they
// are created once and removed with a hard delete.
//
// Fields:
//  ID            – primary key, assigned by the database.
//  TripID        – external identifier of the trip the incident refers to.
//  TripDate      – calendar date of the trip (DATE column).
//  DriverID      – numeric identifier of the driver.
//  Reason        – one of Reasons.
//  City          – city the trip took place in.
//  ServiceType   – product line of the trip.
//  CustomerPhone – contact number of the customer.
//  AgentName     – support agent who logged the ticket.
//  CreatedAt     – insert timestamp, set by gorm.
type Ticket struct {
	ID            uint64    `gorm:"primaryKey;autoIncrement"`
	TripID        string    `gorm:"column:trip_id;size:64;not null"`
	TripDate      time.Time `gorm:"column:trip_date;type:date;not null;index"`
	DriverID      int64     `gorm:"column:driver_id;not null"`
	Reason        string    `gorm:"size:64;not null;index"`
	City          string    `gorm:"size:128;not null"`
	ServiceType   string    `gorm:"column:service_type;size:64;not null"`
	CustomerPhone string    `gorm:"column:customer_phone;size:32;not null"`
	AgentName     string    `gorm:"column:agent_name;size:128;not null"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime;not null;index"`
}

// TableName pins the table name independently of the naming strategy.
func (Ticket) TableName() string { return "tickets" }

// Reasons is the closed set of recognised ticket categories, in display order.
var Reasons = []string{
	"Driver Behavior",
	"Vehicle Condition",
	"Route Deviation",
	"Fare Dispute",
	"Late Arrival",
	"No Show",
	"Safety Concern",
	"Lost Item",
	"App Issue",
	"Payment Issue",
	"Other",
}

// IsReason reports whether s is exactly one of Reasons.
func IsReason(s string) bool {
	for _, r := range Reasons {
		if r == s {
			return true
		}
	}
	return false
}

const (
	// DateLayout renders TripDate as a plain calendar date.
	DateLayout = "2006-01-02"
	// TimestampLayout renders CreatedAt as a full timestamp.
	TimestampLayout = time.RFC3339
)

// TicketView is the JSON shape of a ticket in API responses.
type TicketView struct {
	ID            uint64 `json:"id"`
	TripID        string `json:"tripId"`
	TripDate      string `json:"tripDate"`
	DriverID      int64  `json:"driverId"`
	Reason        string `json:"reason"`
	City          string `json:"city"`
	ServiceType   string `json:"serviceType"`
	CustomerPhone string `json:"customerPhone"`
	AgentName     string `json:"agentName"`
	CreatedAt     string `json:"createdAt"`
}

// View converts the persisted record into its response shape.
func (t Ticket) View() TicketView {
	return TicketView{
		ID:            t.ID,
		TripID:        t.TripID,
		TripDate:      t.TripDate.Format(DateLayout),
		DriverID:      t.DriverID,
		Reason:        t.Reason,
		City:          t.City,
		ServiceType:   t.ServiceType,
		CustomerPhone: t.CustomerPhone,
		AgentName:     t.AgentName,
		CreatedAt:     t.CreatedAt.UTC().Format(TimestampLayout),
	}
}
