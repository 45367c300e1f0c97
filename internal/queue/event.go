// Package queue defines ticket lifecycle events and moves them over RabbitMQ.
package queue

import (
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/trip-ticket-log/internal/model"
)

// QueueName is the durable queue carrying every ticket event.
const QueueName = "tickets.events"

const (
	TypeTicketCreated = "ticket.created"
	TypeTicketDeleted = "ticket.deleted"
)

// TicketEvent is published after a ticket is created or deleted.  It
// carries enough for downstream consumers to audit the change without
// querying the primary database.
type TicketEvent struct {
	EventID    string `json:"event_id"`
	Type       string `json:"type"`
	TicketID   uint64 `json:"ticket_id"`
	TripID     string `json:"trip_id,omitempty"`
	TripDate   string `json:"trip_date,omitempty"`
	Reason     string `json:"reason,omitempty"`
	City       string `json:"city,omitempty"`
	AgentName  string `json:"agent_name,omitempty"`
	OccurredAt string `json:"occurred_at"`
}

// NewTicketEvent builds an event of the given type from t.
func NewTicketEvent(typ string, t model.Ticket) TicketEvent {
	return TicketEvent{
		EventID:    uuid.NewString(),
		Type:       typ,
		TicketID:   t.ID,
		TripID:     t.TripID,
		TripDate:   t.TripDate.Format(model.DateLayout),
		Reason:     t.Reason,
		City:       t.City,
		AgentName:  t.AgentName,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	}
}
