// Package pricing computes quote breakdowns from a tariff. It does no I/O.
package pricing

import (
	"errors"
	"fmt"
	"movehub-backend/models"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrNegativeDistance = errors.New("distance cannot be negative")
	ErrDistanceTooLong  = fmt.Errorf("distance cannot exceed %d km", MaxDistanceKm)
	ErrUnknownVehicle   = errors.New("unknown vehicle type")
	ErrUnknownExtra     = errors.New("unknown extra service")
	ErrUnknownStrategy  = errors.New("unknown pricing strategy")
)

const (
	SpeedExpress = "express"

	// MaxDistanceKm bounds a priced move; fees stay far below int64 range.
	MaxDistanceKm = 5000
)

// Tariff is the complete price table. Amounts are VND.
type Tariff struct {
	PricePerKm         int64
	LaborRatePerWorker int64
	DefaultWorkers     int
	PackingFees        map[string]int64
	PerFloorFee        int64
	ExpressMultiplier  float64

	VehicleRatesPerKm map[string]int64
	ExtraServiceFees  map[string]int64
	MonthlyExtras     map[string]bool
	TierPerFloorFee   int64
}

// DefaultTariff is the published price list
func DefaultTariff() Tariff {
	return Tariff{
		PricePerKm:         10000,
		LaborRatePerWorker: 100000,
		DefaultWorkers:     2,
		PackingFees: map[string]int64{
			"self_pack":     0,
			"standard_pack": 200000,
			"premium_pack":  400000,
		},
		PerFloorFee:       10000,
		ExpressMultiplier: 1.5,
		VehicleRatesPerKm: map[string]int64{
			"van":      8000,
			"truck_1t": 12000,
			"truck_2t": 16000,
			"truck_5t": 25000,
		},
		ExtraServiceFees: map[string]int64{
			"packing":     200000,
			"disassembly": 150000,
			"cleaning":    100000,
			"storage":     500000,
		},
		MonthlyExtras:   map[string]bool{"storage": true},
		TierPerFloorFee: 20000,
	}
}

// TariffFromConfig builds a tariff from configuration, keeping defaults for empty tables
func TariffFromConfig(cfg models.PricingConfig) Tariff {
	t := DefaultTariff()
	t.PricePerKm = cfg.PricePerKm
	t.LaborRatePerWorker = cfg.LaborRatePerWorker
	t.PerFloorFee = cfg.PerFloorFee
	t.TierPerFloorFee = cfg.TierPerFloorFee
	if cfg.DefaultWorkers > 0 {
		t.DefaultWorkers = cfg.DefaultWorkers
	}
	if cfg.ExpressMultiplier >= 1 {
		t.ExpressMultiplier = cfg.ExpressMultiplier
	}
	if len(cfg.PackingFees) > 0 {
		t.PackingFees = cfg.PackingFees
	}
	if len(cfg.VehicleRatesPerKm) > 0 {
		t.VehicleRatesPerKm = cfg.VehicleRatesPerKm
	}
	if len(cfg.ExtraServiceFees) > 0 {
		t.ExtraServiceFees = cfg.ExtraServiceFees
	}
	if len(cfg.MonthlyExtras) > 0 {
		t.MonthlyExtras = make(map[string]bool, len(cfg.MonthlyExtras))
		for _, code := range cfg.MonthlyExtras {
			t.MonthlyExtras[code] = true
		}
	}
	return t
}

// Strategy is one pricing formula
type Strategy interface {
	Name() models.PricingStrategy
	Compute(t Tariff, in models.QuoteInput) (models.Breakdown, error)
}

type Calculator struct {
	tariff     Tariff
	strategies map[models.PricingStrategy]Strategy
	fallback   models.PricingStrategy
}

// NewCalculator registers both formulas. An empty or unknown default falls back to flat.
func NewCalculator(t Tariff, defaultStrategy models.PricingStrategy) *Calculator {
	c := &Calculator{
		tariff:     t,
		strategies: map[models.PricingStrategy]Strategy{},
		fallback:   models.StrategyFlat,
	}
	for _, s := range []Strategy{flatStrategy{}, vehicleTierStrategy{}} {
		c.strategies[s.Name()] = s
	}
	if _, ok := c.strategies[defaultStrategy]; ok {
		c.fallback = defaultStrategy
	}
	return c
}

// Tariff returns the tariff in use
func (c *Calculator) Tariff() Tariff {
	return c.tariff
}

// Strategy resolves the strategy name used for an input
func (c *Calculator) Strategy(name models.PricingStrategy) (models.PricingStrategy, error) {
	if name == "" {
		return c.fallback, nil
	}
	if _, ok := c.strategies[name]; !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownStrategy, name)
	}
	return name, nil
}

// Compute prices the input with its named strategy
func (c *Calculator) Compute(in models.QuoteInput) (models.Breakdown, error) {
	name, err := c.Strategy(in.Strategy)
	if err != nil {
		return models.Breakdown{}, err
	}
	if in.DistanceKm < 0 {
		return models.Breakdown{}, ErrNegativeDistance
	}
	if in.DistanceKm > MaxDistanceKm {
		return models.Breakdown{}, ErrDistanceTooLong
	}
	return c.strategies[name].Compute(c.tariff, in)
}

func workers(t Tariff, n int) int64 {
	if n <= 0 {
		n = t.DefaultWorkers
	}
	return int64(n)
}

func speedMultiplier(t Tariff, speed string) decimal.Decimal {
	if strings.EqualFold(speed, SpeedExpress) {
		return decimal.NewFromFloat(t.ExpressMultiplier)
	}
	return decimal.NewFromInt(1)
}

// stairs sums (floorsFrom + floorsTo) x rate x quantity; a quantity <= 0 counts once
func stairs(items []models.Item, perFloor int64) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		qty := it.Quantity
		if qty <= 0 {
			qty = 1
		}
		floors := int64(it.FloorsFrom + it.FloorsTo)
		total = total.Add(decimal.NewFromInt(floors * perFloor * int64(qty)))
	}
	return total
}

func vnd(d decimal.Decimal) int64 {
	return d.Round(0).IntPart()
}

type fees struct {
	distance, labor, packing, stairs, night, extras decimal.Decimal
}

func (f fees) breakdown(multiplier decimal.Decimal) models.Breakdown {
	sum := f.distance.Add(f.labor).Add(f.packing).Add(f.stairs).Add(f.night).Add(f.extras)
	m, _ := multiplier.Float64()
	return models.Breakdown{
		DistanceFee:     vnd(f.distance),
		LaborFee:        vnd(f.labor),
		PackingFee:      vnd(f.packing),
		StairsFee:       vnd(f.stairs),
		NightFee:        vnd(f.night),
		ExtrasFee:       vnd(f.extras),
		SpeedMultiplier: m,
		Total:           vnd(sum.Mul(multiplier)),
	}
}

// flatStrategy is the canonical per-km formula
type flatStrategy struct{}

func (flatStrategy) Name() models.PricingStrategy { return models.StrategyFlat }

func (flatStrategy) Compute(t Tariff, in models.QuoteInput) (models.Breakdown, error) {
	f := fees{
		distance: decimal.NewFromFloat(in.DistanceKm).Mul(decimal.NewFromInt(t.PricePerKm)),
		labor:    decimal.NewFromInt(workers(t, in.Workers) * t.LaborRatePerWorker),
		packing:  decimal.NewFromInt(t.PackingFees[in.PackOption]),
		stairs:   stairs(in.Items, t.PerFloorFee),
		night:    decimal.Zero,
		extras:   decimal.Zero,
	}
	return f.breakdown(speedMultiplier(t, in.Speed)), nil
}

// vehicleTierStrategy prices distance by vehicle size and adds extra services
type vehicleTierStrategy struct{}

func (vehicleTierStrategy) Name() models.PricingStrategy { return models.StrategyVehicleTier }

func (vehicleTierStrategy) Compute(t Tariff, in models.QuoteInput) (models.Breakdown, error) {
	rate, ok := t.VehicleRatesPerKm[in.VehicleType]
	if !ok {
		return models.Breakdown{}, fmt.Errorf("%w: %q", ErrUnknownVehicle, in.VehicleType)
	}

	extras := decimal.Zero
	for _, e := range in.Extras {
		price, ok := t.ExtraServiceFees[e.Code]
		if !ok {
			return models.Breakdown{}, fmt.Errorf("%w: %q", ErrUnknownExtra, e.Code)
		}
		units := int64(1)
		if t.MonthlyExtras[e.Code] && e.Months > 1 {
			units = int64(e.Months)
		}
		extras = extras.Add(decimal.NewFromInt(price * units))
	}

	f := fees{
		distance: decimal.NewFromFloat(in.DistanceKm).Mul(decimal.NewFromInt(rate)),
		labor:    decimal.NewFromInt(workers(t, in.Workers) * t.LaborRatePerWorker),
		packing:  decimal.Zero,
		stairs:   stairs(in.Items, t.TierPerFloorFee),
		night:    decimal.Zero,
		extras:   extras,
	}
	return f.breakdown(speedMultiplier(t, in.Speed)), nil
}
