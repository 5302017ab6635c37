package models

import "time"

// QualityGrade is the market grading of an animal.
type QualityGrade string

const (
	QualityPremium QualityGrade = "PREMIUM"
	QualityGood    QualityGrade = "GOOD"
	QualityAverage QualityGrade = "AVERAGE"
	QualityPoor    QualityGrade = "POOR"
)

var qualityMultipliers = map[QualityGrade]float64{
	QualityPremium: 1.3,
	QualityGood:    1.1,
	QualityAverage: 1.0,
	QualityPoor:    0.8,
}

// Multiplier scales an estimated base price; unknown grades count as AVERAGE.
func (q QualityGrade) Multiplier() float64 {
	if m, ok := qualityMultipliers[q]; ok {
		return m
	}
	return 1.0
}

// PriceRecord is one observed market price.
type PriceRecord struct {
	ID           int64        `bson:"_id" json:"id"`
	AnimalTypeID int64        `bson:"animal_type_id" json:"animal_type_id"`
	BreedID      *int64       `bson:"breed_id,omitempty" json:"breed_id,omitempty"`
	Location     string       `bson:"location" json:"location"`
	Date         time.Time    `bson:"date_recorded" json:"date_recorded"`
	PricePerKg   float64      `bson:"price_per_kg" json:"price_per_kg"`
	QualityGrade QualityGrade `bson:"quality_grade" json:"quality_grade"`
	Source       string       `bson:"source,omitempty" json:"source,omitempty"`
}

// PricePoint is the reduced form of a PriceRecord used in analysis history.
type PricePoint struct {
	Date     string       `json:"date"`
	Price    float64      `json:"price"`
	Location string       `json:"location"`
	Quality  QualityGrade `json:"quality"`
}

// Trend classifies short-term price movement.
type Trend string

const (
	TrendRising  Trend = "RISING"
	TrendFalling Trend = "FALLING"
	TrendStable  Trend = "STABLE"
)

// ConfidenceLevel grades how much data backs an analysis.
type ConfidenceLevel string

const (
	ConfidenceLow    ConfidenceLevel = "LOW"
	ConfidenceMedium ConfidenceLevel = "MEDIUM"
	ConfidenceHigh   ConfidenceLevel = "HIGH"
)

// MarketQuery selects the price series to analyse.
type MarketQuery struct {
	AnimalTypeID int64        `json:"animal_type_id" binding:"required"`
	Location     string       `json:"location"`
	BreedID      *int64       `json:"breed_id,omitempty"`
	QualityGrade QualityGrade `json:"quality_grade,omitempty"`
}

// PriceAnalysis is the result of a market analysis.
type PriceAnalysis struct {
	CurrentPricePerKg float64         `json:"current_price_per_kg"`
	Trend             Trend           `json:"price_trend"`
	TrendPercentage   float64         `json:"trend_percentage"`
	Recommendation    string          `json:"market_recommendation"`
	Confidence        ConfidenceLevel `json:"confidence_level"`
	History           []PricePoint    `json:"historical_data"`
	Location          string          `json:"location"`
	AnalysisDate      string          `json:"date_analyzed"`
	Estimated         bool            `json:"estimated"`
}

// CostCategory buckets ledger entries.
type CostCategory string

const (
	CostFeed       CostCategory = "FEED"
	CostVeterinary CostCategory = "VETERINARY"
	CostMedicine   CostCategory = "MEDICINE"
	CostOther      CostCategory = "OTHER"
)

// CostEntry is one ledger cost charged to an animal.
type CostEntry struct {
	ID          int64        `bson:"_id" json:"id"`
	LivestockID int64        `bson:"livestock_id" json:"livestock_id"`
	Category    CostCategory `bson:"category" json:"category"`
	Amount      float64      `bson:"amount" json:"amount"`
	Date        time.Time    `bson:"date" json:"date"`
	Description string       `bson:"description,omitempty" json:"description,omitempty"`
}

// CostBreakdown splits an animal's total investment by origin.
type CostBreakdown struct {
	PurchasePrice   float64 `json:"purchase_price"`
	FeedCosts       float64 `json:"feed_costs"`
	VeterinaryCosts float64 `json:"veterinary_costs"`
	MedicineCosts   float64 `json:"medicine_costs"`
	OtherCosts      float64 `json:"other_costs"`
}

// Total sums all buckets.
func (b CostBreakdown) Total() float64 {
	return b.PurchasePrice + b.FeedCosts + b.VeterinaryCosts + b.MedicineCosts + b.OtherCosts
}

// ProfitabilityResult summarises the economics of one animal.
type ProfitabilityResult struct {
	LivestockID     int64         `json:"livestock_id"`
	MarketValue     float64       `json:"current_market_value"`
	TotalInvestment float64       `json:"total_investment"`
	EstimatedProfit float64       `json:"estimated_profit"`
	ProfitMarginPct float64       `json:"profit_margin_percentage"`
	BreakEvenPrice  float64       `json:"break_even_price"`
	Recommendation  string        `json:"recommendation"`
	CostBreakdown   CostBreakdown `json:"cost_breakdown"`
	PriceEstimated  bool          `json:"price_estimated"`
}

// SellingRecommendation ranks one animal for sale.
type SellingRecommendation struct {
	Livestock       Livestock           `json:"livestock"`
	Profitability   ProfitabilityResult `json:"profitability"`
	Priority        int                 `json:"action_priority"`
	OptimalSaleTime string              `json:"optimal_selling_time"`
}
