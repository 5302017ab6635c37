package repository

import (
	"context"
	"strings"
	"time"

	"github.com/mamadbah2/herdadvisor/internal/domain/models"
)

// ReferenceStore is the read-only catalogue the advisory services evaluate against.
// Lookups by id return an error wrapping models.ErrNotFound when nothing matches.
type ReferenceStore interface {
	GetAnimalType(ctx context.Context, id int64) (models.AnimalType, error)
	GetBreed(ctx context.Context, id int64) (models.Breed, error)
	GetFeedType(ctx context.Context, id int64) (models.FeedType, error)
	ListFeedTypesForAnimal(ctx context.Context, animalTypeID int64) ([]models.FeedType, error)
	ListFeedingRules(ctx context.Context, animalTypeID int64) ([]models.FeedingRule, error)
	GetDisease(ctx context.Context, id int64) (models.Disease, error)
	ListDiseasesForAnimal(ctx context.Context, animalTypeID int64) ([]models.Disease, error)
	// GetSymptoms returns the symptoms among ids that exist, skipping unknown ones.
	GetSymptoms(ctx context.Context, ids []int64) ([]models.Symptom, error)
	// ListPrices returns matching price records ordered newest first.
	ListPrices(ctx context.Context, filter PriceFilter) ([]models.PriceRecord, error)
	GetLivestock(ctx context.Context, id int64) (models.Livestock, error)
	ListLivestockByFarmer(ctx context.Context, farmerID int64, status models.LivestockStatus) ([]models.Livestock, error)
}

// Ledger lists the costs charged to an animal.
type Ledger interface {
	// ListCosts returns every cost of the animal, or only one category when set.
	ListCosts(ctx context.Context, livestockID int64, category *models.CostCategory) ([]models.CostEntry, error)
}

// HealthRecordSink stores diagnoses.
type HealthRecordSink interface {
	CreateHealthRecord(ctx context.Context, record models.HealthRecord) error
}

// PriceWriter accepts imported market prices.
type PriceWriter interface {
	UpsertPrices(ctx context.Context, records []models.PriceRecord) (int, error)
}

// PriceFilter narrows a price listing. Zero-valued fields do not constrain.
type PriceFilter struct {
	AnimalTypeID int64
	// Location is matched as a case-insensitive substring.
	Location string
	BreedID  *int64
	Quality  models.QualityGrade
	Since    time.Time
	Limit    int
}

// Matches reports whether a record passes the filter.
func (f PriceFilter) Matches(r models.PriceRecord) bool {
	if f.AnimalTypeID != 0 && r.AnimalTypeID != f.AnimalTypeID {
		return false
	}
	if f.Location != "" && !strings.Contains(strings.ToLower(r.Location), strings.ToLower(f.Location)) {
		return false
	}
	if f.BreedID != nil && (r.BreedID == nil || *r.BreedID != *f.BreedID) {
		return false
	}
	if f.Quality != "" && r.QualityGrade != f.Quality {
		return false
	}
	if !f.Since.IsZero() && r.Date.Before(f.Since) {
		return false
	}
	return true
}
