package models

import "time"

type ContractStatus string

const (
	ContractStatusDraft     ContractStatus = "DRAFT"
	ContractStatusIssued    ContractStatus = "ISSUED"
	ContractStatusAccepted  ContractStatus = "ACCEPTED"
	ContractStatusRejected  ContractStatus = "REJECTED"
	ContractStatusCancelled ContractStatus = "CANCELLED"
)

type Surcharge struct {
	Label  string `json:"label" dynamodbav:"label" validate:"required,max=200"`
	Amount int64  `json:"amount" dynamodbav:"amount" validate:"gte=0"`
}

// ContractPricing total is always base + surcharges - discount
type ContractPricing struct {
	BasePrice  int64       `json:"basePrice" dynamodbav:"basePrice"`
	Surcharges []Surcharge `json:"surcharges" dynamodbav:"surcharges"`
	Discount   int64       `json:"discount" dynamodbav:"discount"`
	Total      int64       `json:"total" dynamodbav:"total"`
}

type Contract struct {
	ContractID    string          `json:"contractID" dynamodbav:"contractID"`
	RequestID     string          `json:"requestID" dynamodbav:"requestID"`
	QuoteID       string          `json:"quoteID,omitempty" dynamodbav:"quoteID,omitempty"`
	CustomerName  string          `json:"customerName" dynamodbav:"customerName"`
	CustomerPhone string          `json:"customerPhone" dynamodbav:"customerPhone"`
	Pickup        Address         `json:"pickup" dynamodbav:"pickup"`
	Delivery      Address         `json:"delivery" dynamodbav:"delivery"`
	MovingTime    time.Time       `json:"movingTime" dynamodbav:"movingTime"`
	ServiceType   ServiceType     `json:"serviceType" dynamodbav:"serviceType"`
	Terms         string          `json:"terms,omitempty" dynamodbav:"terms,omitempty"`
	Pricing       ContractPricing `json:"pricing" dynamodbav:"pricing"`
	Status        ContractStatus  `json:"status" dynamodbav:"status"`
	Version       int64           `json:"version" dynamodbav:"version"`
	CreatedAt     time.Time       `json:"createdAt" dynamodbav:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt" dynamodbav:"updatedAt"`
	IssuedAt      *time.Time      `json:"issuedAt,omitempty" dynamodbav:"issuedAt,omitempty"`
	AcceptedAt    *time.Time      `json:"acceptedAt,omitempty" dynamodbav:"acceptedAt,omitempty"`
	UpdatedBy     string          `json:"updatedBy,omitempty" dynamodbav:"updatedBy,omitempty"`
}

type CreateContractRequest struct {
	RequestID  string      `json:"requestID" validate:"required"`
	QuoteID    string      `json:"quoteID,omitempty"`
	Terms      string      `json:"terms,omitempty" validate:"omitempty,max=10000"`
	BasePrice  int64       `json:"basePrice" validate:"gte=0"`
	Surcharges []Surcharge `json:"surcharges,omitempty" validate:"omitempty,dive"`
	Discount   int64       `json:"discount" validate:"gte=0"`
}

type UpdateContractRequest struct {
	Terms      *string     `json:"terms,omitempty" validate:"omitempty,max=10000"`
	BasePrice  *int64      `json:"basePrice,omitempty" validate:"omitempty,gte=0"`
	Surcharges []Surcharge `json:"surcharges,omitempty" validate:"omitempty,dive"`
	Discount   *int64      `json:"discount,omitempty" validate:"omitempty,gte=0"`
}
