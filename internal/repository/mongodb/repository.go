package mongodb

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/mamadbah2/herdadvisor/internal/domain/models"
	"github.com/mamadbah2/herdadvisor/internal/repository"
)

const (
	collAnimalTypes   = "animal_types"
	collBreeds        = "breeds"
	collFeedTypes     = "feed_types"
	collFeedingRules  = "feeding_rules"
	collDiseases      = "diseases"
	collSymptoms      = "symptoms"
	collMarketPrices  = "market_prices"
	collLivestock     = "livestock"
	collCostRecords   = "cost_records"
	collHealthRecords = "health_records"
)

var (
	_ repository.ReferenceStore   = (*MongoDBRepository)(nil)
	_ repository.Ledger           = (*MongoDBRepository)(nil)
	_ repository.HealthRecordSink = (*MongoDBRepository)(nil)
	_ repository.PriceWriter      = (*MongoDBRepository)(nil)
)

// MongoDBRepository serves the reference catalogue, herd and ledger from MongoDB.
type MongoDBRepository struct {
	client *mongo.Client
	db     *mongo.Database
	logger *zap.Logger
}

// NewMongoDBRepository creates a new MongoDB repository.
func NewMongoDBRepository(ctx context.Context, uri string, dbName string, logger *zap.Logger) (*MongoDBRepository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	logger.Info("mongodb connected", zap.String("database", dbName))

	return &MongoDBRepository{
		client: client,
		db:     client.Database(dbName),
		logger: logger,
	}, nil
}

func (r *MongoDBRepository) GetAnimalType(ctx context.Context, id int64) (models.AnimalType, error) {
	return findByID[models.AnimalType](ctx, r.db.Collection(collAnimalTypes), id, "animal type")
}

func (r *MongoDBRepository) GetBreed(ctx context.Context, id int64) (models.Breed, error) {
	return findByID[models.Breed](ctx, r.db.Collection(collBreeds), id, "breed")
}

func (r *MongoDBRepository) GetFeedType(ctx context.Context, id int64) (models.FeedType, error) {
	return findByID[models.FeedType](ctx, r.db.Collection(collFeedTypes), id, "feed type")
}

func (r *MongoDBRepository) ListFeedTypesForAnimal(ctx context.Context, animalTypeID int64) ([]models.FeedType, error) {
	return findAll[models.FeedType](ctx, r.db.Collection(collFeedTypes), bson.M{"suitable_for": animalTypeID}, byID())
}

func (r *MongoDBRepository) ListFeedingRules(ctx context.Context, animalTypeID int64) ([]models.FeedingRule, error) {
	return findAll[models.FeedingRule](ctx, r.db.Collection(collFeedingRules), bson.M{"animal_type_id": animalTypeID}, byID())
}

func (r *MongoDBRepository) GetDisease(ctx context.Context, id int64) (models.Disease, error) {
	return findByID[models.Disease](ctx, r.db.Collection(collDiseases), id, "disease")
}

func (r *MongoDBRepository) ListDiseasesForAnimal(ctx context.Context, animalTypeID int64) ([]models.Disease, error) {
	return findAll[models.Disease](ctx, r.db.Collection(collDiseases), bson.M{"affected_animal_type_ids": animalTypeID}, byID())
}

func (r *MongoDBRepository) GetSymptoms(ctx context.Context, ids []int64) ([]models.Symptom, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return findAll[models.Symptom](ctx, r.db.Collection(collSymptoms), bson.M{"_id": bson.M{"$in": ids}}, byID())
}

func (r *MongoDBRepository) ListPrices(ctx context.Context, filter repository.PriceFilter) ([]models.PriceRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date_recorded", Value: -1}, {Key: "_id", Value: -1}})
	if filter.Limit > 0 {
		opts.SetLimit(int64(filter.Limit))
	}
	return findAll[models.PriceRecord](ctx, r.db.Collection(collMarketPrices), PriceQuery(filter), opts)
}

func (r *MongoDBRepository) GetLivestock(ctx context.Context, id int64) (models.Livestock, error) {
	return findByID[models.Livestock](ctx, r.db.Collection(collLivestock), id, "livestock")
}

func (r *MongoDBRepository) ListLivestockByFarmer(ctx context.Context, farmerID int64, status models.LivestockStatus) ([]models.Livestock, error) {
	query := bson.M{"farmer_id": farmerID}
	if status != "" {
		query["status"] = status
	}
	return findAll[models.Livestock](ctx, r.db.Collection(collLivestock), query, byID())
}

func (r *MongoDBRepository) ListCosts(ctx context.Context, livestockID int64, category *models.CostCategory) ([]models.CostEntry, error) {
	query := bson.M{"livestock_id": livestockID}
	if category != nil {
		query["category"] = *category
	}
	return findAll[models.CostEntry](ctx, r.db.Collection(collCostRecords), query, byID())
}

// CreateHealthRecord saves a diagnosis to the database.
func (r *MongoDBRepository) CreateHealthRecord(ctx context.Context, record models.HealthRecord) error {
	if _, err := r.db.Collection(collHealthRecords).InsertOne(ctx, record); err != nil {
		return fmt.Errorf("failed to insert health record: %w", err)
	}
	return nil
}

// UpsertPrices replaces or inserts each record by id and returns how many were written.
func (r *MongoDBRepository) UpsertPrices(ctx context.Context, records []models.PriceRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	writes := make([]mongo.WriteModel, 0, len(records))
	for _, rec := range records {
		writes = append(writes, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"_id": rec.ID}).
			SetReplacement(rec).
			SetUpsert(true))
	}

	res, err := r.db.Collection(collMarketPrices).BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(false))
	if err != nil {
		return 0, fmt.Errorf("failed to upsert market prices: %w", err)
	}

	written := int(res.UpsertedCount + res.MatchedCount)
	r.logger.Debug("market prices upserted", zap.Int("written", written))
	return written, nil
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

// PriceQuery translates a price filter into a bson query document.
func PriceQuery(filter repository.PriceFilter) bson.M {
	query := bson.M{}
	if filter.AnimalTypeID != 0 {
		query["animal_type_id"] = filter.AnimalTypeID
	}
	if filter.Location != "" {
		query["location"] = primitive.Regex{Pattern: regexp.QuoteMeta(filter.Location), Options: "i"}
	}
	if filter.BreedID != nil {
		query["breed_id"] = *filter.BreedID
	}
	if filter.Quality != "" {
		query["quality_grade"] = filter.Quality
	}
	if !filter.Since.IsZero() {
		query["date_recorded"] = bson.M{"$gte": filter.Since}
	}
	return query
}

func byID() *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
}

func findByID[T any](ctx context.Context, coll *mongo.Collection, id int64, kind string) (T, error) {
	var out T
	err := coll.FindOne(ctx, bson.M{"_id": id}).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return out, fmt.Errorf("%s %d: %w", kind, id, models.ErrNotFound)
	}
	if err != nil {
		return out, fmt.Errorf("find %s %d: %w", kind, id, err)
	}
	return out, nil
}

func findAll[T any](ctx context.Context, coll *mongo.Collection, query bson.M, opts *options.FindOptions) ([]T, error) {
	cursor, err := coll.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", coll.Name(), err)
	}

	var out []T
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", coll.Name(), err)
	}
	return out, nil
}
