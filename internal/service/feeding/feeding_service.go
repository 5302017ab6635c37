package feeding

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
	maxRecommendations = 5
	maxFallbacks       = 3
	fallbackFrequency  = 2
	fallbackNote       = "Basic recommendation - please consult with a veterinarian for specific needs."
	daysPerMonth       = 30
)

// Advisor is the feeding surface consumed by the HTTP layer.
type Advisor interface {
	Recommend(ctx context.Context, query models.AnimalQuery) ([]models.FeedingResult, error)
	Summary(ctx context.Context, livestockID int64) (models.FeedingSummary, error)
}

// Service matches animals against the feeding catalogue.
type Service struct {
	store  repository.ReferenceStore
	logger *zap.Logger
	now    func() time.Time
}

// NewService wires a feeding advisor over the reference store.
func NewService(store repository.ReferenceStore, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, logger: logger, now: time.Now}
}

// Recommend returns at most five feeding plans ordered by daily cost, then by
// protein content. When no catalogue rule admits the animal, generic fallback
// plans are returned instead.
func (s *Service) Recommend(ctx context.Context, query models.AnimalQuery) (results []models.FeedingResult, err error) {
	start := time.Now()
	defer func() { metrics.Observe("feeding.recommend", start, err) }()

	if err := query.Validate(); err != nil {
		return nil, err
	}

	animalType, err := s.store.GetAnimalType(ctx, query.AnimalTypeID)
	if err != nil {
		return nil, err
	}

	query, err = s.resolveAnimal(ctx, query)
	if err != nil {
		return nil, err
	}

	results, err = s.catalogResults(ctx, animalType.ResolvedKind(), query)
	if err != nil {
		return nil, err
	}

	if len(results) == 0 {
		results, err = s.fallbackResults(ctx, animalType)
		if err != nil {
			return nil, err
		}
		metrics.FallbackFeedings.Inc()
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].CostPerDay != results[j].CostPerDay {
			return results[i].CostPerDay < results[j].CostPerDay
		}
		return results[i].Feed.Protein() > results[j].Feed.Protein()
	})
	results = scoring.TopN(results, maxRecommendations)

	s.logger.Debug("feeding recommendations computed",
		zap.Int64("animal_type_id", query.AnimalTypeID),
		zap.Int("count", len(results)))

	return results, nil
}

// Summary computes the recommendations for one recorded animal together with
// their daily and monthly cost.
func (s *Service) Summary(ctx context.Context, livestockID int64) (models.FeedingSummary, error) {
	animal, err := s.store.GetLivestock(ctx, livestockID)
	if err != nil {
		return models.FeedingSummary{}, err
	}

	animalType, err := s.store.GetAnimalType(ctx, animal.AnimalTypeID)
	if err != nil {
		return models.FeedingSummary{}, err
	}

	recs, err := s.Recommend(ctx, models.AnimalQuery{AnimalTypeID: animal.AnimalTypeID, LivestockID: &livestockID})
	if err != nil {
		return models.FeedingSummary{}, err
	}

	var total float64
	for _, r := range recs {
		total += r.CostPerDay
	}

	return models.FeedingSummary{
		Livestock:           animal,
		AnimalType:          animalType.Name,
		AgeMonths:           animal.AgeMonths(s.now()),
		Recommendations:     recs,
		TotalDailyCost:      scoring.Round2(total),
		MonthlyCostEstimate: scoring.Round2(total * daysPerMonth),
	}, nil
}

// resolveAnimal replaces the caller supplied attributes with those of the
// referenced animal. A reference to an unknown animal is ignored.
func (s *Service) resolveAnimal(ctx context.Context, query models.AnimalQuery) (models.AnimalQuery, error) {
	if query.LivestockID == nil {
		return query, nil
	}

	animal, err := s.store.GetLivestock(ctx, *query.LivestockID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.logger.Debug("referenced livestock not found, using query fields", zap.Int64("livestock_id", *query.LivestockID))
			return query, nil
		}
		return query, err
	}

	query.AgeMonths = animal.AgeMonths(s.now())
	query.WeightKg = animal.WeightKg
	query.Purpose = animal.Purpose
	return query, nil
}

func (s *Service) catalogResults(ctx context.Context, kind models.AnimalKind, query models.AnimalQuery) ([]models.FeedingResult, error) {
	rules, err := s.store.ListFeedingRules(ctx, query.AnimalTypeID)
	if err != nil {
		return nil, fmt.Errorf("list feeding rules: %w", err)
	}

	var results []models.FeedingResult
	for _, rule := range rules {
		if err := rule.Validate(); err != nil {
			s.logger.Warn("skipping malformed feeding rule", zap.Error(err))
			continue
		}
		if !rule.Admits(query.AgeMonths, query.WeightKg, query.Purpose) {
			continue
		}

		feed, err := s.store.GetFeedType(ctx, rule.FeedTypeID)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				s.logger.Warn("feeding rule references unknown feed", zap.Int64("rule_id", rule.ID), zap.Int64("feed_type_id", rule.FeedTypeID))
				continue
			}
			return nil, err
		}

		results = append(results, adjust(rule, feed, kind, query))
	}

	return results, nil
}

func (s *Service) fallbackResults(ctx context.Context, animalType models.AnimalType) ([]models.FeedingResult, error) {
	feeds, err := s.store.ListFeedTypesForAnimal(ctx, animalType.ID)
	if err != nil {
		return nil, fmt.Errorf("list suitable feeds: %w", err)
	}

	amount := profile.FallbackAmount(animalType.ResolvedKind())
	results := make([]models.FeedingResult, 0, maxFallbacks)
	for _, feed := range scoring.TopN(feeds, maxFallbacks) {
		results = append(results, models.FeedingResult{
			Feed:          feed,
			DailyAmountKg: amount,
			Frequency:     fallbackFrequency,
			CostPerDay:    amount * feed.UnitCost(),
			Notes:         fallbackNote,
			Provenance:    models.ProvenanceFallback,
		})
	}
	return results, nil
}

// adjust scales the rule's base amount by the weight, age and purpose factors
// that apply to the query.
func adjust(rule models.FeedingRule, feed models.FeedType, kind models.AnimalKind, query models.AnimalQuery) models.FeedingResult {
	amount := rule.DailyAmountKg
	provenance := models.ProvenanceCatalog
	var notes []string
	if rule.Notes != "" {
		notes = append(notes, rule.Notes)
	}

	apply := func(factor float64, reason string) {
		if factor == 1.0 {
			return
		}
		amount *= factor
		provenance = models.ProvenanceAdjusted
		notes = append(notes, fmt.Sprintf("Amount adjusted by %.2fx for %s.", factor, reason))
	}

	if query.WeightKg != nil {
		apply(profile.WeightFactor(kind, *query.WeightKg), "weight")
	}
	if query.AgeMonths != nil {
		apply(profile.AgeFactor(kind, *query.AgeMonths), "age")
	}
	if query.Purpose != models.PurposeAny {
		apply(profile.PurposeFactor(query.Purpose), strings.ToLower(string(query.Purpose))+" purpose")
	}

	amount = scoring.Round2(amount)
	return models.FeedingResult{
		Feed:          feed,
		DailyAmountKg: amount,
		Frequency:     rule.Frequency,
		CostPerDay:    amount * feed.UnitCost(),
		Notes:         strings.Join(notes, " "),
		Provenance:    provenance,
	}
}
