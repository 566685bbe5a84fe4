package pricing

import (
	"movehub-backend/models"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCalc() *Calculator {
	return NewCalculator(DefaultTariff(), models.StrategyFlat)
}

func TestFlatStandardMove(t *testing.T) {
	b, err := newCalc().Compute(models.QuoteInput{
		DistanceKm: 10,
		Workers:    2,
		PackOption: "standard_pack",
		Speed:      "standard",
	})

	require.NoError(t, err)
	assert.Equal(t, int64(100000), b.DistanceFee)
	assert.Equal(t, int64(200000), b.LaborFee)
	assert.Equal(t, int64(200000), b.PackingFee)
	assert.Equal(t, int64(0), b.StairsFee)
	assert.Equal(t, int64(0), b.NightFee)
	assert.Equal(t, 1.0, b.SpeedMultiplier)
	assert.Equal(t, int64(500000), b.Total)
}

func TestFlatExpressMove(t *testing.T) {
	b, err := newCalc().Compute(models.QuoteInput{
		DistanceKm: 10,
		Workers:    2,
		PackOption: "standard_pack",
		Speed:      "express",
	})

	require.NoError(t, err)
	assert.Equal(t, 1.5, b.SpeedMultiplier)
	assert.Equal(t, int64(750000), b.Total)
}

func TestFlatDefaultsAndStairs(t *testing.T) {
	b, err := newCalc().Compute(models.QuoteInput{
		DistanceKm: 3.25,
		PackOption: "mystery_pack",
		Items: []models.Item{
			{Name: "fridge", FloorsFrom: 3, FloorsTo: 2, Quantity: 1},
			{Name: "boxes", FloorsFrom: 1, FloorsTo: 0, Quantity: 4},
			{Name: "sofa", FloorsFrom: 2, FloorsTo: 0},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, int64(32500), b.DistanceFee)
	assert.Equal(t, int64(200000), b.LaborFee, "two workers by default")
	assert.Equal(t, int64(0), b.PackingFee, "unknown pack option is free")
	// 5*10000 + 1*10000*4 + 2*10000*1
	assert.Equal(t, int64(110000), b.StairsFee)
	assert.Equal(t, int64(342500), b.Total)
}

func TestTotalRoundsHalfAwayFromZero(t *testing.T) {
	tariff := DefaultTariff()
	tariff.PricePerKm = 1
	tariff.LaborRatePerWorker = 0
	c := NewCalculator(tariff, models.StrategyFlat)

	b, err := c.Compute(models.QuoteInput{DistanceKm: 0.5, Speed: "standard"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), b.Total)

	b, err = c.Compute(models.QuoteInput{DistanceKm: 1, Speed: "express"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), b.Total)
}

func TestComputeIsPure(t *testing.T) {
	in := models.QuoteInput{DistanceKm: 7.4, Workers: 3, PackOption: "premium_pack", Speed: "express"}
	c := newCalc()

	first, err := c.Compute(in)
	require.NoError(t, err)
	second, err := c.Compute(in)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestNegativeDistance(t *testing.T) {
	_, err := newCalc().Compute(models.QuoteInput{DistanceKm: -1})
	assert.ErrorIs(t, err, ErrNegativeDistance)
}

func TestDistanceCap(t *testing.T) {
	_, err := newCalc().Compute(models.QuoteInput{DistanceKm: 1e18})
	assert.ErrorIs(t, err, ErrDistanceTooLong)

	_, err = newCalc().Compute(models.QuoteInput{DistanceKm: MaxDistanceKm, Workers: 2})
	assert.NoError(t, err)
}

func TestUnknownStrategy(t *testing.T) {
	_, err := newCalc().Compute(models.QuoteInput{DistanceKm: 1, Strategy: "auction"})
	assert.ErrorIs(t, err, ErrUnknownStrategy)
}

func TestVehicleTier(t *testing.T) {
	b, err := newCalc().Compute(models.QuoteInput{
		Strategy:    models.StrategyVehicleTier,
		DistanceKm:  10,
		Workers:     3,
		VehicleType: "truck_1t",
		Speed:       "standard",
		PackOption:  "premium_pack",
		Items:       []models.Item{{Name: "piano", FloorsFrom: 2, FloorsTo: 1, Quantity: 1}},
		Extras: []models.ExtraService{
			{Code: "disassembly"},
			{Code: "storage", Months: 3},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, int64(120000), b.DistanceFee)
	assert.Equal(t, int64(300000), b.LaborFee)
	assert.Equal(t, int64(0), b.PackingFee)
	assert.Equal(t, int64(60000), b.StairsFee)
	assert.Equal(t, int64(1650000), b.ExtrasFee)
	assert.Equal(t, int64(2130000), b.Total)
}

func TestVehicleTierErrors(t *testing.T) {
	c := newCalc()

	_, err := c.Compute(models.QuoteInput{Strategy: models.StrategyVehicleTier, DistanceKm: 1, VehicleType: "rocket"})
	assert.ErrorIs(t, err, ErrUnknownVehicle)

	_, err = c.Compute(models.QuoteInput{
		Strategy: models.StrategyVehicleTier, DistanceKm: 1, VehicleType: "van",
		Extras: []models.ExtraService{{Code: "piano_tuning"}},
	})
	assert.ErrorIs(t, err, ErrUnknownExtra)
}

func TestDefaultStrategySelection(t *testing.T) {
	c := NewCalculator(DefaultTariff(), models.StrategyVehicleTier)
	name, err := c.Strategy("")
	require.NoError(t, err)
	assert.Equal(t, models.StrategyVehicleTier, name)

	c = NewCalculator(DefaultTariff(), "bogus")
	name, err = c.Strategy("")
	require.NoError(t, err)
	assert.Equal(t, models.StrategyFlat, name)
}

func TestTariffFromConfig(t *testing.T) {
	tariff := TariffFromConfig(models.PricingConfig{
		PricePerKm:         12000,
		LaborRatePerWorker: 90000,
		PerFloorFee:        15000,
		ExpressMultiplier:  2,
		MonthlyExtras:      []string{"storage", "cleaning"},
	})

	assert.Equal(t, int64(12000), tariff.PricePerKm)
	assert.Equal(t, 2, tariff.DefaultWorkers)
	assert.Equal(t, 2.0, tariff.ExpressMultiplier)
	assert.Equal(t, int64(200000), tariff.PackingFees["standard_pack"])
	assert.True(t, tariff.MonthlyExtras["cleaning"])
}
