package models

import "time"

// Event is anything published to the event stream
type Event interface {
	GetId() string
}

const (
	EventRequestStatusChanged  = "request.status_changed"
	EventQuoteNegotiated       = "quote.negotiated"
	EventQuoteConfirmed        = "quote.confirmed"
	EventQuoteExpired          = "quote.expired"
	EventContractStatusChanged = "contract.status_changed"
)

// StatusEvent records a status change of a request, quote or contract
type StatusEvent struct {
	Type       string    `json:"type"`
	EntityID   string    `json:"entityID"`
	RequestID  string    `json:"requestID,omitempty"`
	From       string    `json:"from,omitempty"`
	To         string    `json:"to"`
	Actor      string    `json:"actor,omitempty"`
	Price      *int64    `json:"price,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

func (e StatusEvent) GetId() string {
	return e.EntityID
}
