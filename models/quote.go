package models

import "time"

type QuoteStatus string

const (
	QuoteStatusDraft       QuoteStatus = "DRAFT"
	QuoteStatusPending     QuoteStatus = "PENDING"
	QuoteStatusNegotiating QuoteStatus = "NEGOTIATING"
	QuoteStatusConfirmed   QuoteStatus = "CONFIRMED"
	QuoteStatusRejected    QuoteStatus = "REJECTED"
	QuoteStatusExpired     QuoteStatus = "EXPIRED"
)

// IsClosed reports whether the quote can no longer change.
func (s QuoteStatus) IsClosed() bool {
	return s == QuoteStatusConfirmed || s == QuoteStatusRejected || s == QuoteStatusExpired
}

type Actor string

const (
	ActorCustomer Actor = "customer"
	ActorStaff    Actor = "staff"
)

type PricingStrategy string

const (
	StrategyFlat        PricingStrategy = "flat"
	StrategyVehicleTier PricingStrategy = "vehicle_tier"
)

// NegotiationEvent is one price proposal. The negotiation list is append-only.
type NegotiationEvent struct {
	Actor Actor     `json:"actor" dynamodbav:"actor"`
	Price int64     `json:"price" dynamodbav:"price"`
	At    time.Time `json:"at" dynamodbav:"at"`
}

// Breakdown is the output of the quote calculator. Amounts are VND.
type Breakdown struct {
	DistanceFee     int64   `json:"distanceFee" dynamodbav:"distanceFee"`
	LaborFee        int64   `json:"laborFee" dynamodbav:"laborFee"`
	PackingFee      int64   `json:"packingFee" dynamodbav:"packingFee"`
	StairsFee       int64   `json:"stairsFee" dynamodbav:"stairsFee"`
	NightFee        int64   `json:"nightFee" dynamodbav:"nightFee"`
	ExtrasFee       int64   `json:"extrasFee" dynamodbav:"extrasFee"`
	SpeedMultiplier float64 `json:"speedMultiplier" dynamodbav:"speedMultiplier"`
	Total           int64   `json:"total" dynamodbav:"total"`
}

// ExtraService is an optional service priced by the vehicle tier strategy
type ExtraService struct {
	Code   string `json:"code" dynamodbav:"code" validate:"required"`
	Months int    `json:"months,omitempty" dynamodbav:"months,omitempty" validate:"gte=0"`
}

// QuoteInput is what the calculator prices
type QuoteInput struct {
	DistanceKm  float64         `json:"distanceKm"`
	DurationMin float64         `json:"durationMin"`
	Workers     int             `json:"workers"`
	VehicleType string          `json:"vehicleType"`
	PackOption  string          `json:"packOption"`
	Speed       string          `json:"speed"`
	Strategy    PricingStrategy `json:"strategy"`
	Items       []Item          `json:"items"`
	Extras      []ExtraService  `json:"extras"`
}

// Location is either a coordinate pair or an address to geocode
type Location struct {
	Lat     *float64  `json:"lat,omitempty" validate:"omitempty,gte=-90,lte=90"`
	Lng     *float64  `json:"lng,omitempty" validate:"omitempty,gte=-180,lte=180"`
	Address string    `json:"address,omitempty" validate:"omitempty,max=500"`
	Focus   *GeoPoint `json:"focus,omitempty"`
}

// Point returns the coordinates when both are present.
func (l Location) Point() (GeoPoint, bool) {
	if l.Lat == nil || l.Lng == nil {
		return GeoPoint{}, false
	}
	return GeoPoint{Lat: *l.Lat, Lng: *l.Lng}, true
}

type EstimateRequest struct {
	PickupLocation   Location        `json:"pickupLocation"`
	DeliveryLocation Location        `json:"deliveryLocation"`
	ManualDistanceKm *float64        `json:"manualDistanceKm,omitempty" validate:"omitempty,gte=0,lte=5000"`
	Items            []Item          `json:"items" validate:"omitempty,dive"`
	VehicleType      string          `json:"vehicleType,omitempty" validate:"omitempty,max=50"`
	Workers          int             `json:"workers,omitempty" validate:"gte=0,lte=50"`
	PackOption       string          `json:"packOption,omitempty" validate:"omitempty,max=50"`
	Speed            string          `json:"speed,omitempty" validate:"omitempty,oneof=standard express"`
	Strategy         PricingStrategy `json:"strategy,omitempty" validate:"omitempty,oneof=flat vehicle_tier"`
	Extras           []ExtraService  `json:"extras,omitempty" validate:"omitempty,dive"`
}

type EstimateResult struct {
	Breakdown
	DistanceKm  float64         `json:"distanceKm"`
	DurationMin float64         `json:"durationMin"`
	RouteSource string          `json:"routeSource"`
	Geometry    *RouteGeometry  `json:"geometry,omitempty"`
	Strategy    PricingStrategy `json:"strategy"`
}

// Quote is a persisted, negotiable price for a move request
type Quote struct {
	QuoteID         string             `json:"quoteID" dynamodbav:"quoteID"`
	RequestID       string             `json:"requestID" dynamodbav:"requestID"`
	DistanceKm      float64            `json:"distanceKm" dynamodbav:"distanceKm"`
	DurationMin     float64            `json:"durationMin" dynamodbav:"durationMin"`
	VehicleType     string             `json:"vehicleType,omitempty" dynamodbav:"vehicleType,omitempty"`
	Workers         int                `json:"workers" dynamodbav:"workers"`
	PackOption      string             `json:"packOption,omitempty" dynamodbav:"packOption,omitempty"`
	Speed           string             `json:"speed,omitempty" dynamodbav:"speed,omitempty"`
	Strategy        PricingStrategy    `json:"strategy" dynamodbav:"strategy"`
	Items           []Item             `json:"items" dynamodbav:"items"`
	Breakdown       Breakdown          `json:"breakdown" dynamodbav:"breakdown"`
	BasePrice       int64              `json:"basePrice" dynamodbav:"basePrice"`
	NegotiatedPrice *int64             `json:"negotiatedPrice,omitempty" dynamodbav:"negotiatedPrice,omitempty"`
	FinalPrice      *int64             `json:"finalPrice,omitempty" dynamodbav:"finalPrice,omitempty"`
	Negotiation     []NegotiationEvent `json:"negotiation" dynamodbav:"negotiation"`
	Status          QuoteStatus        `json:"status" dynamodbav:"status"`
	Version         int64              `json:"version" dynamodbav:"version"`
	CreatedAt       time.Time          `json:"createdAt" dynamodbav:"createdAt"`
	UpdatedAt       time.Time          `json:"updatedAt" dynamodbav:"updatedAt"`
	ConfirmedAt     *time.Time         `json:"confirmedAt,omitempty" dynamodbav:"confirmedAt,omitempty"`
}

type NegotiateQuoteRequest struct {
	From  Actor `json:"from" validate:"required,oneof=customer staff"`
	Price int64 `json:"price"`
}

type CounterQuoteRequest struct {
	Price int64 `json:"price"`
}

type ConfirmQuoteRequest struct {
	FinalPrice *int64 `json:"finalPrice,omitempty"`
}
