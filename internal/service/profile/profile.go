// Package profile holds the per-animal-kind tables the advisory services
// scale, estimate and schedule with. Adding an animal kind means adding rows
// here, nothing else.
package profile

import "github.com/mamadbah2/herdadvisor/internal/domain/models"

// Step is one threshold of a step function. A step matches a value strictly
// below Below, or strictly above Above; exactly one of the two is set.
type Step struct {
	Below  *float64
	Above  *float64
	Factor float64
}

func below(v, factor float64) Step { return Step{Below: &v, Factor: factor} }
func above(v, factor float64) Step { return Step{Above: &v, Factor: factor} }

// StepFunction evaluates its steps in order; the first match wins and no
// match yields 1.0.
type StepFunction []Step

// Factor returns the multiplier for value.
func (f StepFunction) Factor(value float64) float64 {
	for _, s := range f {
		if s.Below != nil && value < *s.Below {
			return s.Factor
		}
		if s.Above != nil && value > *s.Above {
			return s.Factor
		}
	}
	return 1.0
}

var smallRuminantWeight = StepFunction{below(20, 0.7), above(70, 1.1)}
var smallRuminantAge = StepFunction{below(3, 0.6), below(8, 0.9)}

// WeightFactors scale a daily feed amount by body weight in kg.
var WeightFactors = map[models.AnimalKind]StepFunction{
	models.KindCattle:  {below(100, 0.6), below(300, 0.8), above(600, 1.2)},
	models.KindGoat:    smallRuminantWeight,
	models.KindSheep:   smallRuminantWeight,
	models.KindPoultry: {below(1, 0.8), above(3, 1.1)},
}

// AgeFactors scale a daily feed amount by age in months.
var AgeFactors = map[models.AnimalKind]StepFunction{
	models.KindCattle:  {below(6, 0.5), below(12, 0.8), above(60, 1.1)},
	models.KindGoat:    smallRuminantAge,
	models.KindSheep:   smallRuminantAge,
	models.KindPoultry: {below(2, 0.7), above(12, 1.05)},
}

// PurposeFactors scale a daily feed amount by production goal.
var PurposeFactors = map[models.Purpose]float64{
	models.PurposeMilk:     1.3,
	models.PurposeEggs:     1.2,
	models.PurposeBreeding: 1.25,
	models.PurposeMeat:     1.1,
	models.PurposeMixed:    1.15,
}

var fallbackAmounts = map[models.AnimalKind]float64{
	models.KindCattle:  15.0,
	models.KindGoat:    2.5,
	models.KindSheep:   2.5,
	models.KindPoultry: 0.15,
}

var basePrices = map[models.AnimalKind]float64{
	models.KindCattle:  8.50,
	models.KindGoat:    12.00,
	models.KindSheep:   10.00,
	models.KindPoultry: 4.50,
	models.KindPig:     6.00,
}

var optimalSaleAges = map[models.AnimalKind]int{
	models.KindCattle:  24,
	models.KindGoat:    12,
	models.KindSheep:   12,
	models.KindPoultry: 3,
}

const (
	defaultFallbackAmount = 5.0
	defaultBasePrice      = 7.00
	defaultOptimalAge     = 12
)

// WeightFactor returns the weight multiplier for kind.
func WeightFactor(kind models.AnimalKind, weightKg float64) float64 {
	return WeightFactors[kind].Factor(weightKg)
}

// AgeFactor returns the age multiplier for kind.
func AgeFactor(kind models.AnimalKind, ageMonths int) float64 {
	return AgeFactors[kind].Factor(float64(ageMonths))
}

// PurposeFactor returns the purpose multiplier; unspecified purposes give 1.0.
func PurposeFactor(p models.Purpose) float64 {
	if f, ok := PurposeFactors[p]; ok {
		return f
	}
	return 1.0
}

// FallbackAmount is the flat daily kg used when no feeding rule applies.
func FallbackAmount(kind models.AnimalKind) float64 {
	if v, ok := fallbackAmounts[kind]; ok {
		return v
	}
	return defaultFallbackAmount
}

// BasePrice is the regional average price per kg used without market data.
func BasePrice(kind models.AnimalKind) float64 {
	if v, ok := basePrices[kind]; ok {
		return v
	}
	return defaultBasePrice
}

// OptimalSaleAge is the target age in months for selling.
func OptimalSaleAge(kind models.AnimalKind) int {
	if v, ok := optimalSaleAges[kind]; ok {
		return v
	}
	return defaultOptimalAge
}
