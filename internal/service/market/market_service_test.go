package market

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/herdadvisor/internal/domain/models"
	"github.com/mamadbah2/herdadvisor/internal/repository/memory"
)

var testNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func f64p(v float64) *float64    { return &v }
func i64p(v int64) *int64        { return &v }
func born(months int) *time.Time { t := testNow.AddDate(0, -months, 0); return &t }

func series(recent, older float64) []float64 {
	out := make([]float64, 0, 15)
	for i := 0; i < 5; i++ {
		out = append(out, recent)
	}
	for i := 0; i < 10; i++ {
		out = append(out, older)
	}
	return out
}

func TestTrend(t *testing.T) {
	cases := []struct {
		name   string
		prices []float64
		trend  models.Trend
		pct    float64
	}{
		{name: "rising", prices: series(110, 100), trend: models.TrendRising, pct: 10},
		{name: "band edge", prices: series(95, 100), trend: models.TrendStable, pct: -5},
		{name: "falling", prices: series(89, 100), trend: models.TrendFalling, pct: -11},
		{name: "single", prices: []float64{100}, trend: models.TrendStable, pct: 0},
		{name: "few records", prices: []float64{120, 100, 80}, trend: models.TrendStable, pct: 0},
		{name: "zero older", prices: series(10, 0), trend: models.TrendStable, pct: 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			trend, pct := Trend(tc.prices)
			assert.Equal(t, tc.trend, trend)
			assert.InDelta(t, tc.pct, pct, 1e-9)
		})
	}
}

func TestPriority(t *testing.T) {
	assert.Equal(t, 5, Priority(20))
	assert.Equal(t, 5, Priority(35.5))
	assert.Equal(t, 4, Priority(15))
	assert.Equal(t, 3, Priority(10))
	assert.Equal(t, 3, Priority(0.01))
	assert.Equal(t, 2, Priority(0))
	assert.Equal(t, 2, Priority(-9.99))
	assert.Equal(t, 1, Priority(-10))
}

func newStore() *memory.Store {
	store := memory.NewStore()
	store.PutAnimalType(models.AnimalType{ID: 1, Name: "Cattle", Kind: models.KindCattle})
	store.PutAnimalType(models.AnimalType{ID: 4, Name: "Poultry", Kind: models.KindPoultry})
	return store
}

func newService(store *memory.Store) *Service {
	svc := NewService(store, store, nil)
	svc.now = func() time.Time { return testNow }
	return svc
}

func putPrices(store *memory.Store, firstID int64, typeID int64, breed *int64, prices ...float64) {
	for i, p := range prices {
		store.PutPrice(models.PriceRecord{
			ID:           firstID + int64(i),
			AnimalTypeID: typeID,
			BreedID:      breed,
			Location:     "Nairobi Central",
			Date:         testNow.AddDate(0, 0, -(i + 1)),
			PricePerKg:   p,
			QualityGrade: models.QualityAverage,
		})
	}
}

func TestAnalyzeMarket(t *testing.T) {
	store := newStore()
	putPrices(store, 1, 1, nil, series(110, 100)...)

	analysis, err := newService(store).AnalyzeMarket(context.Background(), models.MarketQuery{AnimalTypeID: 1, Location: "nairobi"})
	require.NoError(t, err)

	assert.False(t, analysis.Estimated)
	assert.Equal(t, 110.0, analysis.CurrentPricePerKg)
	assert.Equal(t, models.TrendRising, analysis.Trend)
	assert.InDelta(t, 10, analysis.TrendPercentage, 1e-9)
	assert.Equal(t, models.ConfidenceHigh, analysis.Confidence)
	assert.Equal(t, "Prices rising (+10.0%). Monitor for optimal selling opportunity.", analysis.Recommendation)
	assert.Len(t, analysis.History, 15)
	assert.Equal(t, "2024-05-31", analysis.History[0].Date)
	assert.Equal(t, "2024-06-01", analysis.AnalysisDate)
}

func TestAnalyzeMarketConfidenceLevels(t *testing.T) {
	store := newStore()
	putPrices(store, 1, 1, nil, 10, 10, 10, 10, 10)

	svc := newService(store)
	analysis, err := svc.AnalyzeMarket(context.Background(), models.MarketQuery{AnimalTypeID: 1})
	require.NoError(t, err)
	assert.Equal(t, models.ConfidenceMedium, analysis.Confidence)
	assert.Equal(t, "Stable market conditions. Normal selling/buying activities recommended.", analysis.Recommendation)

	putPrices(store, 100, 4, nil, 4, 4)
	analysis, err = svc.AnalyzeMarket(context.Background(), models.MarketQuery{AnimalTypeID: 4})
	require.NoError(t, err)
	assert.Equal(t, models.ConfidenceLow, analysis.Confidence)
}

func TestAnalyzeMarketIgnoresOldPrices(t *testing.T) {
	store := newStore()
	store.PutPrice(models.PriceRecord{ID: 1, AnimalTypeID: 1, Location: "Nairobi", Date: testNow.AddDate(0, 0, -120), PricePerKg: 50, QualityGrade: models.QualityAverage})

	analysis, err := newService(store).AnalyzeMarket(context.Background(), models.MarketQuery{AnimalTypeID: 1})
	require.NoError(t, err)
	assert.True(t, analysis.Estimated)
}

func TestAnalyzeMarketEstimate(t *testing.T) {
	svc := newService(newStore())

	analysis, err := svc.AnalyzeMarket(context.Background(), models.MarketQuery{AnimalTypeID: 1, Location: "Nowhere"})
	require.NoError(t, err)
	assert.True(t, analysis.Estimated)
	assert.Equal(t, models.ConfidenceLow, analysis.Confidence)
	assert.Equal(t, models.TrendStable, analysis.Trend)
	assert.Equal(t, 0.0, analysis.TrendPercentage)
	assert.Equal(t, 8.5, analysis.CurrentPricePerKg)
	assert.Empty(t, analysis.History)

	premium, err := svc.AnalyzeMarket(context.Background(), models.MarketQuery{AnimalTypeID: 1, QualityGrade: models.QualityPremium})
	require.NoError(t, err)
	assert.InDelta(t, 11.05, premium.CurrentPricePerKg, 1e-9)

	_, err = svc.AnalyzeMarket(context.Background(), models.MarketQuery{AnimalTypeID: 99})
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestMarketRecommendation(t *testing.T) {
	assert.Equal(t, "Strong upward trend (+12.0%). Good time to sell cattle. Consider selling mature animals.",
		marketRecommendation(models.TrendRising, 12, "Cattle"))
	assert.Equal(t, "Prices declining (-11.0%). Consider holding unless urgent. Focus on cost reduction.",
		marketRecommendation(models.TrendFalling, -11, "Cattle"))
	assert.Equal(t, "Slight price decline (-6.0%). Monitor market conditions.",
		marketRecommendation(models.TrendFalling, -6, "Cattle"))
}

func TestAnalyzeProfitability(t *testing.T) {
	store := newStore()
	putPrices(store, 1, 1, nil, 12, 12, 12, 12, 12, 30)
	store.PutLivestock(models.Livestock{ID: 1, FarmerID: 1, AnimalTypeID: 1, TagNumber: "C1", WeightKg: f64p(100), Status: models.StatusHealthy, PurchasePrice: 800})
	store.PutCost(models.CostEntry{ID: 1, LivestockID: 1, Category: models.CostFeed, Amount: 150})
	store.PutCost(models.CostEntry{ID: 2, LivestockID: 1, Category: models.CostVeterinary, Amount: 30})
	store.PutCost(models.CostEntry{ID: 3, LivestockID: 1, Category: models.CostOther, Amount: 20})

	result, err := newService(store).AnalyzeProfitability(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, 1200.0, result.MarketValue)
	assert.Equal(t, 1000.0, result.TotalInvestment)
	assert.Equal(t, 200.0, result.EstimatedProfit)
	assert.Equal(t, 20.0, result.ProfitMarginPct)
	assert.Equal(t, 10.0, result.BreakEvenPrice)
	assert.Equal(t, 5, Priority(result.ProfitMarginPct))
	assert.Equal(t, "Excellent profit potential (20.0%). Consider selling if market conditions are favorable.", result.Recommendation)
	assert.False(t, result.PriceEstimated)
	assert.Equal(t, models.CostBreakdown{PurchasePrice: 800, FeedCosts: 150, VeterinaryCosts: 30, OtherCosts: 20}, result.CostBreakdown)
	assert.InDelta(t, result.MarketValue-result.TotalInvestment, result.EstimatedProfit, 1e-9)
}

func TestAnalyzeProfitabilityEdgeCases(t *testing.T) {
	store := newStore()
	store.PutLivestock(models.Livestock{ID: 1, AnimalTypeID: 1, TagNumber: "free", WeightKg: f64p(10)})
	store.PutLivestock(models.Livestock{ID: 2, AnimalTypeID: 1, TagNumber: "unweighed", PurchasePrice: 300})
	svc := newService(store)

	free, err := svc.AnalyzeProfitability(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 0.0, free.TotalInvestment)
	assert.Equal(t, 0.0, free.ProfitMarginPct)
	assert.True(t, free.PriceEstimated)
	assert.Equal(t, 85.0, free.MarketValue)

	unweighed, err := svc.AnalyzeProfitability(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, 0.0, unweighed.MarketValue)
	assert.Equal(t, 300.0, unweighed.BreakEvenPrice)
	assert.Equal(t, -100.0, unweighed.ProfitMarginPct)
	assert.Contains(t, unweighed.Recommendation, "Currently at loss")

	_, err = svc.AnalyzeProfitability(context.Background(), 404)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestAnalyzeProfitabilityPrefersBreedPrices(t *testing.T) {
	store := newStore()
	putPrices(store, 1, 1, nil, 10, 10, 10)
	putPrices(store, 50, 1, i64p(7), 14)
	store.PutLivestock(models.Livestock{ID: 1, AnimalTypeID: 1, BreedID: i64p(7), TagNumber: "B", WeightKg: f64p(100)})
	store.PutLivestock(models.Livestock{ID: 2, AnimalTypeID: 1, BreedID: i64p(8), TagNumber: "X", WeightKg: f64p(100)})
	svc := newService(store)

	withBreed, err := svc.AnalyzeProfitability(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 1400.0, withBreed.MarketValue)

	// no prices for breed 8: the type-wide mean of 14,10,10,10 applies
	otherBreed, err := svc.AnalyzeProfitability(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, 1100.0, otherBreed.MarketValue)
}

func TestSellingRecommendations(t *testing.T) {
	store := newStore()
	putPrices(store, 1, 1, nil, 10)
	herd := []models.Livestock{
		{ID: 1, FarmerID: 1, AnimalTypeID: 1, TagNumber: "A", WeightKg: f64p(100), PurchasePrice: 500, DateOfBirth: born(30), Status: models.StatusHealthy},
		{ID: 2, FarmerID: 1, AnimalTypeID: 1, TagNumber: "B", WeightKg: f64p(100), PurchasePrice: 950, DateOfBirth: born(10), Status: models.StatusHealthy},
		{ID: 3, FarmerID: 1, AnimalTypeID: 1, TagNumber: "C", WeightKg: f64p(100), PurchasePrice: 400, Status: models.StatusHealthy},
		{ID: 4, FarmerID: 1, AnimalTypeID: 1, TagNumber: "D", WeightKg: f64p(100), PurchasePrice: 100, Status: models.StatusSick},
		{ID: 5, FarmerID: 2, AnimalTypeID: 1, TagNumber: "E", WeightKg: f64p(100), PurchasePrice: 100, Status: models.StatusHealthy},
	}
	for _, l := range herd {
		store.PutLivestock(l)
	}

	recs, err := newService(store).SellingRecommendations(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, recs, 3)

	// A and C both reach priority 5; C is the more profitable.
	assert.Equal(t, int64(3), recs[0].Livestock.ID)
	assert.Equal(t, int64(1), recs[1].Livestock.ID)
	assert.Equal(t, int64(2), recs[2].Livestock.ID)
	for i := 1; i < len(recs); i++ {
		prev, cur := recs[i-1], recs[i]
		assert.GreaterOrEqual(t, prev.Priority, cur.Priority)
		if prev.Priority == cur.Priority {
			assert.GreaterOrEqual(t, prev.Profitability.EstimatedProfit, cur.Profitability.EstimatedProfit)
		}
	}

	assert.Equal(t, "Ready for sale now", recs[1].OptimalSaleTime)
	assert.Equal(t, "Optimal in 14 months", recs[2].OptimalSaleTime)
	assert.Equal(t, "Optimal in 24 months", recs[0].OptimalSaleTime)
	for _, r := range recs {
		assert.Equal(t, models.StatusHealthy, r.Livestock.Status)
	}

	empty, err := newService(store).SellingRecommendations(context.Background(), 77)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
