package models

import "fmt"

// FeedType is a catalogued feed.
type FeedType struct {
	ID            int64    `bson:"_id" json:"id"`
	Name          string   `bson:"name" json:"name"`
	Category      string   `bson:"category" json:"category"`
	ProteinPct    *float64 `bson:"protein_percentage,omitempty" json:"protein_percentage,omitempty"`
	EnergyMJPerKg *float64 `bson:"energy_mj_per_kg,omitempty" json:"energy_mj_per_kg,omitempty"`
	CostPerKg     *float64 `bson:"cost_per_kg,omitempty" json:"cost_per_kg,omitempty"`
	SuitableFor   []int64  `bson:"suitable_for" json:"suitable_for"`
}

// Protein returns the protein percentage, with unknown values sorting lowest.
func (f FeedType) Protein() float64 {
	if f.ProteinPct == nil {
		return -1
	}
	return *f.ProteinPct
}

// UnitCost returns the cost per kg or 0 when none is recorded.
func (f FeedType) UnitCost() float64 {
	if f.CostPerKg == nil {
		return 0
	}
	return *f.CostPerKg
}

// FeedingRule is one tier of the feeding catalogue.
type FeedingRule struct {
	ID            int64    `bson:"_id" json:"id"`
	AnimalTypeID  int64    `bson:"animal_type_id" json:"animal_type_id"`
	FeedTypeID    int64    `bson:"feed_type_id" json:"feed_type_id"`
	MinAgeMonths  int      `bson:"min_age_months" json:"min_age_months"`
	MaxAgeMonths  *int     `bson:"max_age_months,omitempty" json:"max_age_months,omitempty"`
	MinWeightKg   float64  `bson:"min_weight_kg" json:"min_weight_kg"`
	MaxWeightKg   *float64 `bson:"max_weight_kg,omitempty" json:"max_weight_kg,omitempty"`
	Purpose       Purpose  `bson:"purpose,omitempty" json:"purpose,omitempty"`
	DailyAmountKg float64  `bson:"daily_amount_kg" json:"daily_amount_kg"`
	Frequency     int      `bson:"feeding_frequency" json:"feeding_frequency"`
	Notes         string   `bson:"notes,omitempty" json:"notes,omitempty"`
}

// Validate rejects rules whose ranges cannot admit anything.
func (r FeedingRule) Validate() error {
	if r.MinAgeMonths < 0 || r.MinWeightKg < 0 {
		return fmt.Errorf("rule %d: negative lower bound: %w", r.ID, ErrInvalidInput)
	}
	if r.MaxAgeMonths != nil && *r.MaxAgeMonths < r.MinAgeMonths {
		return fmt.Errorf("rule %d: age range %d-%d: %w", r.ID, r.MinAgeMonths, *r.MaxAgeMonths, ErrInvalidInput)
	}
	if r.MaxWeightKg != nil && *r.MaxWeightKg < r.MinWeightKg {
		return fmt.Errorf("rule %d: weight range %.2f-%.2f: %w", r.ID, r.MinWeightKg, *r.MaxWeightKg, ErrInvalidInput)
	}
	if r.DailyAmountKg < 0 {
		return fmt.Errorf("rule %d: negative daily amount: %w", r.ID, ErrInvalidInput)
	}
	if r.Frequency <= 0 {
		return fmt.Errorf("rule %d: feeding frequency must be positive: %w", r.ID, ErrInvalidInput)
	}
	return nil
}

// Admits reports whether the rule applies to an animal with the given
// attributes. Absent attributes do not constrain the match.
func (r FeedingRule) Admits(ageMonths *int, weightKg *float64, purpose Purpose) bool {
	if ageMonths != nil {
		if *ageMonths < r.MinAgeMonths {
			return false
		}
		if r.MaxAgeMonths != nil && *ageMonths > *r.MaxAgeMonths {
			return false
		}
	}
	if weightKg != nil {
		if *weightKg < r.MinWeightKg {
			return false
		}
		if r.MaxWeightKg != nil && *weightKg > *r.MaxWeightKg {
			return false
		}
	}
	if purpose != PurposeAny && r.Purpose != PurposeAny && r.Purpose != purpose {
		return false
	}
	return true
}

// AnimalQuery describes the animal a feeding plan is requested for.
type AnimalQuery struct {
	AnimalTypeID int64    `json:"animal_type_id" binding:"required"`
	AgeMonths    *int     `json:"age_months,omitempty"`
	WeightKg     *float64 `json:"weight_kg,omitempty"`
	Purpose      Purpose  `json:"purpose,omitempty"`
	LivestockID  *int64   `json:"livestock_id,omitempty"`
}

// Validate checks the numeric fields.
func (q AnimalQuery) Validate() error {
	if q.AgeMonths != nil && *q.AgeMonths < 0 {
		return fmt.Errorf("age_months must not be negative: %w", ErrInvalidInput)
	}
	if q.WeightKg != nil && *q.WeightKg < 0 {
		return fmt.Errorf("weight_kg must not be negative: %w", ErrInvalidInput)
	}
	return nil
}

// Provenance tells where a feeding amount came from.
type Provenance string

const (
	ProvenanceCatalog  Provenance = "catalog"
	ProvenanceAdjusted Provenance = "adjusted"
	ProvenanceFallback Provenance = "fallback"
)

// FeedingResult is one ranked feeding recommendation.
type FeedingResult struct {
	Feed          FeedType   `json:"feed"`
	DailyAmountKg float64    `json:"daily_amount_kg"`
	Frequency     int        `json:"feeding_frequency"`
	CostPerDay    float64    `json:"cost_per_day"`
	Notes         string     `json:"notes"`
	Provenance    Provenance `json:"provenance"`
}

// FeedingSummary aggregates the recommendations for one animal.
type FeedingSummary struct {
	Livestock           Livestock       `json:"livestock"`
	AnimalType          string          `json:"animal_type"`
	AgeMonths           *int            `json:"age_months,omitempty"`
	Recommendations     []FeedingResult `json:"recommendations"`
	TotalDailyCost      float64         `json:"total_daily_cost"`
	MonthlyCostEstimate float64         `json:"monthly_cost_estimate"`
}
