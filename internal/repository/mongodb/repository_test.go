package mongodb

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mamadbah2/herdadvisor/internal/domain/models"
	"github.com/mamadbah2/herdadvisor/internal/repository"
)

func TestPriceQuery(t *testing.T) {
	since := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	breed := int64(2)

	query := PriceQuery(repository.PriceFilter{
		AnimalTypeID: 1,
		Location:     "Nairobi (Central)",
		BreedID:      &breed,
		Quality:      models.QualityGood,
		Since:        since,
	})

	assert.Equal(t, int64(1), query["animal_type_id"])
	assert.Equal(t, primitive.Regex{Pattern: `Nairobi \(Central\)`, Options: "i"}, query["location"])
	assert.Equal(t, int64(2), query["breed_id"])
	assert.Equal(t, models.QualityGood, query["quality_grade"])
	assert.Equal(t, bson.M{"$gte": since}, query["date_recorded"])
}

func TestPriceQueryEmptyFilter(t *testing.T) {
	assert.Empty(t, PriceQuery(repository.PriceFilter{}))
}
