package models

import (
	"strings"
	"time"
)

// AnimalKind classifies an animal type for the per-type advisory tables.
type AnimalKind string

const (
	KindCattle  AnimalKind = "cattle"
	KindGoat    AnimalKind = "goat"
	KindSheep   AnimalKind = "sheep"
	KindPoultry AnimalKind = "poultry"
	KindPig     AnimalKind = "pig"
	KindOther   AnimalKind = "other"
)

// KindFromName maps a catalogue name such as "Cattle" or "Goats" onto a kind.
func KindFromName(name string) AnimalKind {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "cattle", "cow", "cows":
		return KindCattle
	case "goat", "goats":
		return KindGoat
	case "sheep":
		return KindSheep
	case "poultry", "chicken", "chickens":
		return KindPoultry
	case "pig", "pigs", "swine":
		return KindPig
	default:
		return KindOther
	}
}

// AnimalType is a livestock category such as cattle or poultry.
type AnimalType struct {
	ID          int64      `bson:"_id" json:"id"`
	Name        string     `bson:"name" json:"name"`
	Kind        AnimalKind `bson:"kind" json:"kind"`
	Description string     `bson:"description,omitempty" json:"description,omitempty"`
}

// ResolvedKind returns Kind, deriving it from the name when unset.
func (a AnimalType) ResolvedKind() AnimalKind {
	if a.Kind != "" {
		return a.Kind
	}
	return KindFromName(a.Name)
}

// Breed is a specific breed of an animal type.
type Breed struct {
	ID              int64   `bson:"_id" json:"id"`
	AnimalTypeID    int64   `bson:"animal_type_id" json:"animal_type_id"`
	Name            string  `bson:"name" json:"name"`
	AverageWeightKg float64 `bson:"average_weight_kg,omitempty" json:"average_weight_kg,omitempty"`
	MaturityMonths  int     `bson:"maturity_months,omitempty" json:"maturity_months,omitempty"`
}

// Purpose is the production goal of an animal. The empty value means unspecified.
type Purpose string

const (
	PurposeAny      Purpose = ""
	PurposeMeat     Purpose = "MEAT"
	PurposeMilk     Purpose = "MILK"
	PurposeEggs     Purpose = "EGGS"
	PurposeBreeding Purpose = "BREEDING"
	PurposeMixed    Purpose = "MIXED"
)

// LivestockStatus is the recorded condition of an individual animal.
type LivestockStatus string

const (
	StatusHealthy    LivestockStatus = "HEALTHY"
	StatusSick       LivestockStatus = "SICK"
	StatusPregnant   LivestockStatus = "PREGNANT"
	StatusQuarantine LivestockStatus = "QUARANTINE"
	StatusSold       LivestockStatus = "SOLD"
	StatusDeceased   LivestockStatus = "DECEASED"
)

// Livestock is an individual animal owned by a farmer.
type Livestock struct {
	ID            int64           `bson:"_id" json:"id"`
	FarmerID      int64           `bson:"farmer_id" json:"farmer_id"`
	AnimalTypeID  int64           `bson:"animal_type_id" json:"animal_type_id"`
	BreedID       *int64          `bson:"breed_id,omitempty" json:"breed_id,omitempty"`
	TagNumber     string          `bson:"tag_number" json:"tag_number"`
	Name          string          `bson:"name,omitempty" json:"name,omitempty"`
	DateOfBirth   *time.Time      `bson:"date_of_birth,omitempty" json:"date_of_birth,omitempty"`
	WeightKg      *float64        `bson:"current_weight_kg,omitempty" json:"current_weight_kg,omitempty"`
	Purpose       Purpose         `bson:"purpose" json:"purpose"`
	Status        LivestockStatus `bson:"status" json:"status"`
	PurchasePrice float64         `bson:"purchase_price,omitempty" json:"purchase_price,omitempty"`
}

// AgeMonths returns the whole-month age at now, or nil when the birth date is unknown.
func (l Livestock) AgeMonths(now time.Time) *int {
	if l.DateOfBirth == nil {
		return nil
	}
	dob := *l.DateOfBirth
	months := (now.Year()-dob.Year())*12 + int(now.Month()) - int(dob.Month())
	if months < 0 {
		months = 0
	}
	return &months
}

// Weight returns the recorded weight or 0.
func (l Livestock) Weight() float64 {
	if l.WeightKg == nil {
		return 0
	}
	return *l.WeightKg
}

// DisplayName mirrors how the herd book labels an animal.
func (l Livestock) DisplayName() string {
	if l.Name != "" {
		return l.Name
	}
	return "Tag #" + l.TagNumber
}
