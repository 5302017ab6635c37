package market

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/herdadvisor/internal/domain/models"
	"github.com/mamadbah2/herdadvisor/internal/metrics"
	"github.com/mamadbah2/herdadvisor/internal/repository"
	"github.com/mamadbah2/herdadvisor/internal/service/profile"
	"github.com/mamadbah2/herdadvisor/internal/service/scoring"
)

const (
	dateLayout        = "2006-01-02"
	marketWindowDays  = 90
	valueWindowDays   = 30
	currentSampleSize = 5
	olderSampleSize   = 10
	historySize       = 30
	trendBandPct      = 5.0
	strongTrendPct    = 10.0
	highConfidenceMin = 15
	mediumConfMin     = 5
)

// Analyzer is the market surface consumed by the HTTP layer and scheduler.
type Analyzer interface {
	AnalyzeMarket(ctx context.Context, query models.MarketQuery) (models.PriceAnalysis, error)
	AnalyzeProfitability(ctx context.Context, livestockID int64) (models.ProfitabilityResult, error)
	SellingRecommendations(ctx context.Context, farmerID int64) ([]models.SellingRecommendation, error)
}

// Service derives price trends and animal profitability.
type Service struct {
	store  repository.ReferenceStore
	ledger repository.Ledger
	logger *zap.Logger
	now    func() time.Time
}

// NewService wires a market analyzer.
func NewService(store repository.ReferenceStore, ledger repository.Ledger, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, ledger: ledger, logger: logger, now: time.Now}
}

// AnalyzeMarket summarises the last 90 days of prices for the query. Without
// any matching record it falls back to an estimate from regional averages.
func (s *Service) AnalyzeMarket(ctx context.Context, query models.MarketQuery) (analysis models.PriceAnalysis, err error) {
	start := time.Now()
	defer func() { metrics.Observe("market.analyze", start, err) }()

	if query.QualityGrade == "" {
		query.QualityGrade = models.QualityAverage
	}

	animalType, err := s.store.GetAnimalType(ctx, query.AnimalTypeID)
	if err != nil {
		return models.PriceAnalysis{}, err
	}

	now := s.now()
	prices, err := s.store.ListPrices(ctx, repository.PriceFilter{
		AnimalTypeID: query.AnimalTypeID,
		Location:     query.Location,
		BreedID:      query.BreedID,
		Quality:      query.QualityGrade,
		Since:        now.AddDate(0, 0, -marketWindowDays),
	})
	if err != nil {
		return models.PriceAnalysis{}, fmt.Errorf("list prices: %w", err)
	}

	if len(prices) == 0 {
		s.logger.Debug("no market prices, using estimate",
			zap.Int64("animal_type_id", query.AnimalTypeID),
			zap.String("location", query.Location))
		return models.PriceAnalysis{
			CurrentPricePerKg: scoring.Round2(profile.BasePrice(animalType.ResolvedKind()) * query.QualityGrade.Multiplier()),
			Trend:             models.TrendStable,
			TrendPercentage:   0,
			Recommendation:    "Estimated price based on regional averages. Recommend checking local markets for current prices.",
			Confidence:        models.ConfidenceLow,
			History:           []models.PricePoint{},
			Location:          query.Location,
			AnalysisDate:      now.Format(dateLayout),
			Estimated:         true,
		}, nil
	}

	trend, pct := Trend(pricesPerKg(prices))

	return models.PriceAnalysis{
		CurrentPricePerKg: scoring.Round2(scoring.Mean(pricesPerKg(scoring.TopN(prices, currentSampleSize)))),
		Trend:             trend,
		TrendPercentage:   pct,
		Recommendation:    marketRecommendation(trend, pct, animalType.Name),
		Confidence:        confidenceLevel(len(prices)),
		History:           history(prices),
		Location:          query.Location,
		AnalysisDate:      now.Format(dateLayout),
	}, nil
}

// AnalyzeProfitability estimates what the animal would fetch today against
// everything invested in it.
func (s *Service) AnalyzeProfitability(ctx context.Context, livestockID int64) (result models.ProfitabilityResult, err error) {
	start := time.Now()
	defer func() { metrics.Observe("market.profitability", start, err) }()

	animal, err := s.store.GetLivestock(ctx, livestockID)
	if err != nil {
		return models.ProfitabilityResult{}, err
	}

	animalType, err := s.store.GetAnimalType(ctx, animal.AnimalTypeID)
	if err != nil {
		return models.ProfitabilityResult{}, err
	}

	return s.profitability(ctx, animal, animalType.ResolvedKind())
}

// SellingRecommendations ranks the farmer's healthy animals by selling priority
// and then by expected profit.
func (s *Service) SellingRecommendations(ctx context.Context, farmerID int64) (recs []models.SellingRecommendation, err error) {
	start := time.Now()
	defer func() { metrics.Observe("market.selling", start, err) }()

	herd, err := s.store.ListLivestockByFarmer(ctx, farmerID, models.StatusHealthy)
	if err != nil {
		return nil, fmt.Errorf("list livestock: %w", err)
	}

	kinds := make(map[int64]models.AnimalKind)
	recs = make([]models.SellingRecommendation, 0, len(herd))
	for _, animal := range herd {
		kind, ok := kinds[animal.AnimalTypeID]
		if !ok {
			animalType, err := s.store.GetAnimalType(ctx, animal.AnimalTypeID)
			if err != nil {
				if errors.Is(err, models.ErrNotFound) {
					s.logger.Warn("livestock has unknown animal type", zap.Int64("livestock_id", animal.ID))
					continue
				}
				return nil, err
			}
			kind = animalType.ResolvedKind()
			kinds[animal.AnimalTypeID] = kind
		}

		result, err := s.profitability(ctx, animal, kind)
		if err != nil {
			return nil, err
		}

		recs = append(recs, models.SellingRecommendation{
			Livestock:       animal,
			Profitability:   result,
			Priority:        Priority(result.ProfitMarginPct),
			OptimalSaleTime: s.optimalSaleTime(animal, kind),
		})
	}

	sort.SliceStable(recs, func(i, j int) bool {
		if recs[i].Priority != recs[j].Priority {
			return recs[i].Priority > recs[j].Priority
		}
		return recs[i].Profitability.EstimatedProfit > recs[j].Profitability.EstimatedProfit
	})

	s.logger.Debug("selling recommendations computed", zap.Int64("farmer_id", farmerID), zap.Int("count", len(recs)))
	return recs, nil
}

func (s *Service) profitability(ctx context.Context, animal models.Livestock, kind models.AnimalKind) (models.ProfitabilityResult, error) {
	pricePerKg, estimated, err := s.currentPricePerKg(ctx, animal, kind)
	if err != nil {
		return models.ProfitabilityResult{}, err
	}

	weight := animal.Weight()
	value := pricePerKg * weight

	breakdown, err := s.costBreakdown(ctx, animal)
	if err != nil {
		return models.ProfitabilityResult{}, err
	}
	investment := breakdown.Total()

	profit := value - investment
	var margin float64
	if investment > 0 {
		margin = profit / investment * 100
	}
	margin = scoring.Round2(margin)

	divisor := weight
	if divisor < 1 {
		divisor = 1
	}

	return models.ProfitabilityResult{
		LivestockID:     animal.ID,
		MarketValue:     scoring.Round2(value),
		TotalInvestment: scoring.Round2(investment),
		EstimatedProfit: scoring.Round2(profit),
		ProfitMarginPct: margin,
		BreakEvenPrice:  scoring.Round2(investment / divisor),
		Recommendation:  profitabilityRecommendation(margin),
		CostBreakdown:   breakdown,
		PriceEstimated:  estimated,
	}, nil
}

// currentPricePerKg averages the five latest prices of the last 30 days,
// preferring the animal's breed when that breed has prices.
func (s *Service) currentPricePerKg(ctx context.Context, animal models.Livestock, kind models.AnimalKind) (float64, bool, error) {
	filter := repository.PriceFilter{
		AnimalTypeID: animal.AnimalTypeID,
		Since:        s.now().AddDate(0, 0, -valueWindowDays),
	}

	prices, err := s.store.ListPrices(ctx, filter)
	if err != nil {
		return 0, false, fmt.Errorf("list prices: %w", err)
	}

	if animal.BreedID != nil && len(prices) > 0 {
		filter.BreedID = animal.BreedID
		breedPrices, err := s.store.ListPrices(ctx, filter)
		if err != nil {
			return 0, false, fmt.Errorf("list breed prices: %w", err)
		}
		if len(breedPrices) > 0 {
			prices = breedPrices
		}
	}

	if len(prices) == 0 {
		return profile.BasePrice(kind), true, nil
	}
	return scoring.Mean(pricesPerKg(scoring.TopN(prices, currentSampleSize))), false, nil
}

func (s *Service) costBreakdown(ctx context.Context, animal models.Livestock) (models.CostBreakdown, error) {
	breakdown := models.CostBreakdown{PurchasePrice: animal.PurchasePrice}
	if s.ledger == nil {
		return breakdown, nil
	}

	costs, err := s.ledger.ListCosts(ctx, animal.ID, nil)
	if err != nil {
		return models.CostBreakdown{}, fmt.Errorf("list costs: %w", err)
	}

	for _, c := range costs {
		switch c.Category {
		case models.CostFeed:
			breakdown.FeedCosts += c.Amount
		case models.CostVeterinary:
			breakdown.VeterinaryCosts += c.Amount
		case models.CostMedicine:
			breakdown.MedicineCosts += c.Amount
		default:
			breakdown.OtherCosts += c.Amount
		}
	}
	return breakdown, nil
}

func (s *Service) optimalSaleTime(animal models.Livestock, kind models.AnimalKind) string {
	age := 0
	if a := animal.AgeMonths(s.now()); a != nil {
		age = *a
	}
	optimal := profile.OptimalSaleAge(kind)
	if age >= optimal {
		return "Ready for sale now"
	}
	return fmt.Sprintf("Optimal in %d months", optimal-age)
}

// Trend compares the mean of the five newest prices with the mean of the next
// ten. prices must be ordered newest first. The percentage is rounded to two
// decimals and classification uses the rounded value.
func Trend(prices []float64) (models.Trend, float64) {
	if len(prices) < 2 {
		return models.TrendStable, 0
	}

	recent := scoring.Mean(scoring.TopN(prices, currentSampleSize))
	older := recent
	if len(prices) > currentSampleSize {
		older = scoring.Mean(scoring.TopN(prices[currentSampleSize:], olderSampleSize))
	}
	if older == 0 {
		return models.TrendStable, 0
	}

	pct := scoring.Round2((recent - older) / older * 100)
	switch {
	case pct > trendBandPct:
		return models.TrendRising, pct
	case pct < -trendBandPct:
		return models.TrendFalling, pct
	default:
		return models.TrendStable, pct
	}
}

// Priority maps a profit margin onto the 1-5 selling urgency scale.
func Priority(marginPct float64) int {
	switch {
	case marginPct >= 20:
		return 5
	case marginPct > 10:
		return 4
	case marginPct > 0:
		return 3
	case marginPct > -10:
		return 2
	default:
		return 1
	}
}

func profitabilityRecommendation(margin float64) string {
	switch Priority(margin) {
	case 5:
		return fmt.Sprintf("Excellent profit potential (%.1f%%). Consider selling if market conditions are favorable.", margin)
	case 4:
		return fmt.Sprintf("Good profit margin (%.1f%%). Ready for sale when convenient.", margin)
	case 3:
		return fmt.Sprintf("Moderate profit expected (%.1f%%). Monitor growth and market prices.", margin)
	case 2:
		return fmt.Sprintf("Close to break-even (%.1f%%). Hold and reduce costs if possible.", margin)
	default:
		return fmt.Sprintf("Currently at loss (%.1f%%). Review feeding costs and consider veterinary consultation.", margin)
	}
}

func marketRecommendation(trend models.Trend, pct float64, animalName string) string {
	magnitude := pct
	if magnitude < 0 {
		magnitude = -magnitude
	}

	switch {
	case trend == models.TrendRising && magnitude > strongTrendPct:
		return fmt.Sprintf("Strong upward trend (+%.1f%%). Good time to sell %s. Consider selling mature animals.", magnitude, strings.ToLower(animalName))
	case trend == models.TrendRising:
		return fmt.Sprintf("Prices rising (+%.1f%%). Monitor for optimal selling opportunity.", magnitude)
	case trend == models.TrendFalling && magnitude > strongTrendPct:
		return fmt.Sprintf("Prices declining (-%.1f%%). Consider holding unless urgent. Focus on cost reduction.", magnitude)
	case trend == models.TrendFalling:
		return fmt.Sprintf("Slight price decline (-%.1f%%). Monitor market conditions.", magnitude)
	default:
		return "Stable market conditions. Normal selling/buying activities recommended."
	}
}

func confidenceLevel(count int) models.ConfidenceLevel {
	switch {
	case count >= highConfidenceMin:
		return models.ConfidenceHigh
	case count >= mediumConfMin:
		return models.ConfidenceMedium
	default:
		return models.ConfidenceLow
	}
}

func history(prices []models.PriceRecord) []models.PricePoint {
	recent := scoring.TopN(prices, historySize)
	points := make([]models.PricePoint, 0, len(recent))
	for _, p := range recent {
		points = append(points, models.PricePoint{
			Date:     p.Date.Format(dateLayout),
			Price:    p.PricePerKg,
			Location: p.Location,
			Quality:  p.QualityGrade,
		})
	}
	return points
}

func pricesPerKg(prices []models.PriceRecord) []float64 {
	out := make([]float64, len(prices))
	for i, p := range prices {
		out[i] = p.PricePerKg
	}
	return out
}
