package feeding

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

func intp(v int) *int         { return &v }
func f64p(v float64) *float64 { return &v }
func i64p(v int64) *int64     { return &v }

func seededService(t *testing.T) *Service {
	t.Helper()
	store := memory.NewStore()
	require.NoError(t, memory.Seed(store, testNow))
	svc := NewService(store, nil)
	svc.now = func() time.Time { return testNow }
	return svc
}

func TestRecommendScalesCatalogueAmount(t *testing.T) {
	store := memory.NewStore()
	store.PutAnimalType(models.AnimalType{ID: 1, Name: "Cattle", Kind: models.KindCattle})
	store.PutFeedType(models.FeedType{ID: 1, Name: "Alfalfa Hay", ProteinPct: f64p(18), CostPerKg: f64p(0.25), SuitableFor: []int64{1}})
	require.NoError(t, store.PutFeedingRule(models.FeedingRule{
		ID: 1, AnimalTypeID: 1, FeedTypeID: 1,
		MinAgeMonths: 0, MaxAgeMonths: intp(6),
		MinWeightKg: 0, MaxWeightKg: f64p(150),
		Purpose: models.PurposeMilk, DailyAmountKg: 5.0, Frequency: 2,
	}))

	recs, err := NewService(store, nil).Recommend(context.Background(), models.AnimalQuery{
		AnimalTypeID: 1,
		AgeMonths:    intp(3),
		WeightKg:     f64p(100),
		Purpose:      models.PurposeMilk,
	})
	require.NoError(t, err)
	require.Len(t, recs, 1)

	rec := recs[0]
	assert.Equal(t, "Alfalfa Hay", rec.Feed.Name)
	assert.InDelta(t, 2.6, rec.DailyAmountKg, 1e-9)
	assert.InDelta(t, 0.65, rec.CostPerDay, 1e-9)
	assert.Equal(t, 2, rec.Frequency)
	assert.Equal(t, models.ProvenanceAdjusted, rec.Provenance)
	assert.Contains(t, rec.Notes, "Amount adjusted by 0.80x for weight.")
	assert.Contains(t, rec.Notes, "Amount adjusted by 0.50x for age.")
	assert.Contains(t, rec.Notes, "Amount adjusted by 1.30x for milk purpose.")
}

func TestRecommendFallsBackWhenNoRuleMatches(t *testing.T) {
	svc := seededService(t)

	recs, err := svc.Recommend(context.Background(), models.AnimalQuery{
		AnimalTypeID: memory.CattleID,
		AgeMonths:    intp(1),
		WeightKg:     f64p(50),
		Purpose:      models.PurposeMeat,
	})
	require.NoError(t, err)
	require.Len(t, recs, 3)

	names := []string{recs[0].Feed.Name, recs[1].Feed.Name, recs[2].Feed.Name}
	assert.Equal(t, []string{"Grass Hay", "Timothy Hay", "Alfalfa Hay"}, names)
	for _, r := range recs {
		assert.Equal(t, 15.0, r.DailyAmountKg)
		assert.Equal(t, 2, r.Frequency)
		assert.Equal(t, models.ProvenanceFallback, r.Provenance)
		assert.Equal(t, "Basic recommendation - please consult with a veterinarian for specific needs.", r.Notes)
	}
	assert.InDelta(t, 2.7, recs[0].CostPerDay, 1e-9)
}

func TestRecommendOrderingAndLimit(t *testing.T) {
	svc := seededService(t)
	queries := []models.AnimalQuery{
		{AnimalTypeID: memory.CattleID, AgeMonths: intp(3), WeightKg: f64p(120)},
		{AnimalTypeID: memory.CattleID},
		{AnimalTypeID: memory.GoatsID, AgeMonths: intp(5), WeightKg: f64p(25), Purpose: models.PurposeMilk},
		{AnimalTypeID: memory.SheepID, AgeMonths: intp(6), WeightKg: f64p(30), Purpose: models.PurposeMeat},
		{AnimalTypeID: memory.PoultryID, AgeMonths: intp(1), WeightKg: f64p(0.5), Purpose: models.PurposeEggs},
	}

	for _, q := range queries {
		recs, err := svc.Recommend(context.Background(), q)
		require.NoError(t, err)
		require.NotEmpty(t, recs)
		assert.LessOrEqual(t, len(recs), 5)
		for i := 1; i < len(recs); i++ {
			prev, cur := recs[i-1], recs[i]
			assert.LessOrEqual(t, prev.CostPerDay, cur.CostPerDay)
			if prev.CostPerDay == cur.CostPerDay {
				assert.GreaterOrEqual(t, prev.Feed.Protein(), cur.Feed.Protein())
			}
		}
		for _, r := range recs {
			assert.GreaterOrEqual(t, r.DailyAmountKg, 0.0)
			assert.InDelta(t, r.DailyAmountKg, float64(int(r.DailyAmountKg*100+0.5))/100, 1e-9)
		}
	}
}

func TestRecommendWithoutAttributesKeepsBaseAmount(t *testing.T) {
	svc := seededService(t)

	recs, err := svc.Recommend(context.Background(), models.AnimalQuery{AnimalTypeID: memory.CattleID})
	require.NoError(t, err)

	for _, r := range recs {
		assert.Equal(t, models.ProvenanceCatalog, r.Provenance)
	}
}

func TestRecommendUsesLivestockAttributes(t *testing.T) {
	svc := seededService(t)

	// Bella: 30 months, 520kg, milk. Only the pasture rule admits her.
	recs, err := svc.Recommend(context.Background(), models.AnimalQuery{
		AnimalTypeID: memory.CattleID,
		AgeMonths:    intp(1),
		LivestockID:  i64p(1),
	})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "Fresh Pasture", recs[0].Feed.Name)
	assert.InDelta(t, 32.5, recs[0].DailyAmountKg, 1e-9)
}

func TestRecommendIgnoresUnknownLivestock(t *testing.T) {
	svc := seededService(t)

	withRef, err := svc.Recommend(context.Background(), models.AnimalQuery{
		AnimalTypeID: memory.CattleID, AgeMonths: intp(3), WeightKg: f64p(120), LivestockID: i64p(999),
	})
	require.NoError(t, err)

	without, err := svc.Recommend(context.Background(), models.AnimalQuery{
		AnimalTypeID: memory.CattleID, AgeMonths: intp(3), WeightKg: f64p(120),
	})
	require.NoError(t, err)
	assert.Equal(t, without, withRef)
}

func TestRecommendErrors(t *testing.T) {
	svc := seededService(t)

	_, err := svc.Recommend(context.Background(), models.AnimalQuery{AnimalTypeID: 99})
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = svc.Recommend(context.Background(), models.AnimalQuery{AnimalTypeID: memory.CattleID, AgeMonths: intp(-2)})
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestRecommendSkipsRulesWithUnknownFeed(t *testing.T) {
	store := memory.NewStore()
	store.PutAnimalType(models.AnimalType{ID: 1, Name: "Goats"})
	store.PutFeedType(models.FeedType{ID: 2, Name: "Goat Pellets", CostPerKg: f64p(0.4), SuitableFor: []int64{1}})
	require.NoError(t, store.PutFeedingRule(models.FeedingRule{ID: 1, AnimalTypeID: 1, FeedTypeID: 77, DailyAmountKg: 1, Frequency: 2}))

	recs, err := NewService(store, nil).Recommend(context.Background(), models.AnimalQuery{AnimalTypeID: 1})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, models.ProvenanceFallback, recs[0].Provenance)
	assert.Equal(t, 2.5, recs[0].DailyAmountKg)
}

func TestSummary(t *testing.T) {
	svc := seededService(t)

	summary, err := svc.Summary(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Cattle", summary.AnimalType)
	require.NotNil(t, summary.AgeMonths)
	assert.Equal(t, 30, *summary.AgeMonths)
	require.Len(t, summary.Recommendations, 1)
	assert.InDelta(t, 1.63, summary.TotalDailyCost, 1e-9)
	assert.InDelta(t, summary.TotalDailyCost*30, summary.MonthlyCostEstimate, 0.31)

	_, err = svc.Summary(context.Background(), 999)
	assert.ErrorIs(t, err, models.ErrNotFound)
}
