package services

import (
	"fmt"
	"movehub-backend/models"
	"time"
)

// openQuote is a quote that can still change. Closed quotes cannot be wrapped,
// so confirmed, rejected and expired quotes have no mutators.
type openQuote struct {
	q *models.Quote
}

func openForMutation(q *models.Quote) (*openQuote, error) {
	if q.Status.IsClosed() {
		return nil, fmt.Errorf("%w: quote %s is %s", ErrQuoteClosed, q.QuoteID, q.Status)
	}
	return &openQuote{q: q}, nil
}

func (o *openQuote) quote() *models.Quote {
	return o.q
}

// propose appends a price to the history and makes it the negotiated price
func (o *openQuote) propose(actor models.Actor, price int64, at time.Time) {
	o.q.Negotiation = append(o.q.Negotiation, models.NegotiationEvent{
		Actor: actor,
		Price: price,
		At:    at,
	})
	o.q.NegotiatedPrice = &price
	o.q.Status = models.QuoteStatusNegotiating
	o.q.UpdatedAt = at
}

// accept confirms at the latest negotiated price, or the base price when nobody negotiated
func (o *openQuote) accept(at time.Time) {
	final := o.q.BasePrice
	if o.q.NegotiatedPrice != nil {
		final = *o.q.NegotiatedPrice
	}
	o.confirm(final, at)
}

func (o *openQuote) confirm(final int64, at time.Time) {
	o.q.FinalPrice = &final
	o.q.Status = models.QuoteStatusConfirmed
	o.q.ConfirmedAt = &at
	o.q.UpdatedAt = at
}

func (o *openQuote) expire(at time.Time) {
	o.q.Status = models.QuoteStatusExpired
	o.q.UpdatedAt = at
}

func validActor(a models.Actor) bool {
	return a == models.ActorCustomer || a == models.ActorStaff
}

func (s *QuoteService) checkPrice(field string, price int64) error {
	if s.negotiation.RequirePositivePrice && price <= 0 {
		return invalid(field, "price must be greater than zero")
	}
	return nil
}
