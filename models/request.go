package models

import "time"

type RequestStatus string

const (
	RequestStatusPendingConfirmation RequestStatus = "PENDING_CONFIRMATION"
	RequestStatusUnderSurvey         RequestStatus = "UNDER_SURVEY"
	RequestStatusWaitingPayment      RequestStatus = "WAITING_PAYMENT"
	RequestStatusInProgress          RequestStatus = "IN_PROGRESS"
	RequestStatusDone                RequestStatus = "DONE"
	RequestStatusCancelled           RequestStatus = "CANCELLED"
	RequestStatusRejected            RequestStatus = "REJECTED"

	// Legacy values still found in stored documents and older clients.
	RequestStatusPendingReview RequestStatus = "PENDING_REVIEW"
	RequestStatusApproved      RequestStatus = "APPROVED"
)

var legacyRequestStatuses = map[RequestStatus]RequestStatus{
	RequestStatusPendingReview: RequestStatusPendingConfirmation,
	RequestStatusApproved:      RequestStatusWaitingPayment,
}

// Canonical maps legacy status values onto the current vocabulary.
func (s RequestStatus) Canonical() RequestStatus {
	if c, ok := legacyRequestStatuses[s]; ok {
		return c
	}
	return s
}

// Aliases returns the status together with the legacy values that map onto it.
func (s RequestStatus) Aliases() []RequestStatus {
	c := s.Canonical()
	out := []RequestStatus{c}
	for legacy, current := range legacyRequestStatuses {
		if current == c {
			out = append(out, legacy)
		}
	}
	return out
}

// IsKnown reports whether s is a current or legacy status value.
func (s RequestStatus) IsKnown() bool {
	switch s.Canonical() {
	case RequestStatusPendingConfirmation, RequestStatusUnderSurvey, RequestStatusWaitingPayment,
		RequestStatusInProgress, RequestStatusDone, RequestStatusCancelled, RequestStatusRejected:
		return true
	}
	return false
}

// IsTerminal reports whether no further status change is possible.
func (s RequestStatus) IsTerminal() bool {
	switch s.Canonical() {
	case RequestStatusDone, RequestStatusCancelled, RequestStatusRejected:
		return true
	}
	return false
}

type ServiceType string

const (
	ServiceTypeStandard ServiceType = "STANDARD"
	ServiceTypeExpress  ServiceType = "EXPRESS"
)

type PaymentOutcome string

const (
	PaymentOutcomePaid    PaymentOutcome = "paid"
	PaymentOutcomePending PaymentOutcome = "pending"
	PaymentOutcomeFailed  PaymentOutcome = "failed"
)

type Dimensions struct {
	LengthCm float64 `json:"lengthCm" dynamodbav:"lengthCm" validate:"gte=0"`
	WidthCm  float64 `json:"widthCm" dynamodbav:"widthCm" validate:"gte=0"`
	HeightCm float64 `json:"heightCm" dynamodbav:"heightCm" validate:"gte=0"`
}

// Item is one thing to move. Floors and quantity feed the stairs surcharge.
type Item struct {
	Name       string      `json:"name" dynamodbav:"name" validate:"required,max=200"`
	WeightKg   float64     `json:"weightKg,omitempty" dynamodbav:"weightKg,omitempty" validate:"gte=0"`
	Dimensions *Dimensions `json:"dimensions,omitempty" dynamodbav:"dimensions,omitempty"`
	HighFloor  bool        `json:"highFloor,omitempty" dynamodbav:"highFloor,omitempty"`
	FloorsFrom int         `json:"floorsFrom,omitempty" dynamodbav:"floorsFrom,omitempty" validate:"gte=0"`
	FloorsTo   int         `json:"floorsTo,omitempty" dynamodbav:"floorsTo,omitempty" validate:"gte=0"`
	Quantity   int         `json:"quantity,omitempty" dynamodbav:"quantity,omitempty" validate:"gte=0"`
	Photos     []string    `json:"photos,omitempty" dynamodbav:"photos,omitempty"`
}

type StatusChange struct {
	From  RequestStatus `json:"from,omitempty" dynamodbav:"from,omitempty"`
	To    RequestStatus `json:"to" dynamodbav:"to"`
	Actor string        `json:"actor" dynamodbav:"actor"`
	Note  string        `json:"note,omitempty" dynamodbav:"note,omitempty"`
	At    time.Time     `json:"at" dynamodbav:"at"`
}

// MoveRequest is a customer's request to move
type MoveRequest struct {
	RequestID     string         `json:"requestID" dynamodbav:"requestID"`
	CustomerName  string         `json:"customerName" dynamodbav:"customerName"`
	CustomerPhone string         `json:"customerPhone" dynamodbav:"customerPhone"`
	Pickup        Address        `json:"pickup" dynamodbav:"pickup"`
	Delivery      Address        `json:"delivery" dynamodbav:"delivery"`
	MovingTime    time.Time      `json:"movingTime" dynamodbav:"movingTime"`
	ServiceType   ServiceType    `json:"serviceType" dynamodbav:"serviceType"`
	Items         []Item         `json:"items" dynamodbav:"items"`
	Images        []string       `json:"images,omitempty" dynamodbav:"images,omitempty"`
	Notes         string         `json:"notes,omitempty" dynamodbav:"notes,omitempty"`
	Status        RequestStatus  `json:"status" dynamodbav:"status"`
	StatusHistory []StatusChange `json:"statusHistory" dynamodbav:"statusHistory"`
	Version       int64          `json:"version" dynamodbav:"version"`
	CreatedAt     time.Time      `json:"createdAt" dynamodbav:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt" dynamodbav:"updatedAt"`
	UpdatedBy     string         `json:"updatedBy,omitempty" dynamodbav:"updatedBy,omitempty"`
}

type CreateMoveRequest struct {
	CustomerName  string      `json:"customerName" validate:"required,min=2,max=120"`
	CustomerPhone string      `json:"customerPhone" validate:"required"`
	Pickup        Address     `json:"pickup" validate:"required"`
	Delivery      Address     `json:"delivery" validate:"required"`
	MovingTime    time.Time   `json:"movingTime" validate:"required"`
	ServiceType   ServiceType `json:"serviceType" validate:"omitempty,oneof=STANDARD EXPRESS"`
	Items         []Item      `json:"items" validate:"omitempty,dive"`
	Images        []string    `json:"images,omitempty"`
	Notes         string      `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

// UpdateMoveRequest is a partial patch. Identity fields and items are listed only so
// that a patch carrying them can be detected and rejected.
type UpdateMoveRequest struct {
	CustomerName  *string      `json:"customerName,omitempty"`
	CustomerPhone *string      `json:"customerPhone,omitempty"`
	Pickup        *Address     `json:"pickup,omitempty"`
	Delivery      *Address     `json:"delivery,omitempty"`
	MovingTime    *time.Time   `json:"movingTime,omitempty"`
	ServiceType   *ServiceType `json:"serviceType,omitempty" validate:"omitempty,oneof=STANDARD EXPRESS"`
	Items         []Item       `json:"items,omitempty"`
	Images        []string     `json:"images,omitempty"`
	Notes         *string      `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

type CancelMoveRequest struct {
	Reason string `json:"reason,omitempty" validate:"omitempty,max=500"`
}

type TransitionMoveRequest struct {
	Status RequestStatus `json:"status" validate:"required"`
	Note   string        `json:"note,omitempty" validate:"omitempty,max=2000"`
}

type PaymentNotification struct {
	Outcome   PaymentOutcome `json:"outcome" validate:"required,oneof=paid pending failed"`
	Reference string         `json:"reference,omitempty"`
}

type RequestFilter struct {
	Phone  string        `json:"phone,omitempty"`
	Status RequestStatus `json:"status,omitempty"`
}
