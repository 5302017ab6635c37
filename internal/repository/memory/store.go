package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/mamadbah2/herdadvisor/internal/domain/models"
	"github.com/mamadbah2/herdadvisor/internal/repository"
)

// Store is a map-backed implementation of the reference store, ledger and
// health record sink. It is safe for concurrent use.
type Store struct {
	mu sync.RWMutex

	animalTypes   map[int64]models.AnimalType
	breeds        map[int64]models.Breed
	feedTypes     map[int64]models.FeedType
	feedingRules  map[int64]models.FeedingRule
	diseases      map[int64]models.Disease
	symptoms      map[int64]models.Symptom
	prices        map[int64]models.PriceRecord
	livestock     map[int64]models.Livestock
	costs         map[int64]models.CostEntry
	healthRecords []models.HealthRecord
}

var (
	_ repository.ReferenceStore   = (*Store)(nil)
	_ repository.Ledger           = (*Store)(nil)
	_ repository.HealthRecordSink = (*Store)(nil)
	_ repository.PriceWriter      = (*Store)(nil)
)

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		animalTypes:  make(map[int64]models.AnimalType),
		breeds:       make(map[int64]models.Breed),
		feedTypes:    make(map[int64]models.FeedType),
		feedingRules: make(map[int64]models.FeedingRule),
		diseases:     make(map[int64]models.Disease),
		symptoms:     make(map[int64]models.Symptom),
		prices:       make(map[int64]models.PriceRecord),
		livestock:    make(map[int64]models.Livestock),
		costs:        make(map[int64]models.CostEntry),
	}
}

// PutAnimalType inserts or replaces an animal type.
func (s *Store) PutAnimalType(v models.AnimalType) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.animalTypes[v.ID] = v
}

// PutBreed inserts or replaces a breed.
func (s *Store) PutBreed(v models.Breed) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.breeds[v.ID] = v
}

// PutFeedType inserts or replaces a feed type.
func (s *Store) PutFeedType(v models.FeedType) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.feedTypes[v.ID] = v
}

// PutFeedingRule validates and stores a feeding rule.
func (s *Store) PutFeedingRule(v models.FeedingRule) error {
	if err := v.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.feedingRules[v.ID] = v
	return nil
}

// PutDisease inserts or replaces a disease.
func (s *Store) PutDisease(v models.Disease) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.diseases[v.ID] = v
}

// PutSymptom inserts or replaces a symptom.
func (s *Store) PutSymptom(v models.Symptom) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.symptoms[v.ID] = v
}

// PutPrice inserts or replaces a price record.
func (s *Store) PutPrice(v models.PriceRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prices[v.ID] = v
}

// PutLivestock inserts or replaces an animal.
func (s *Store) PutLivestock(v models.Livestock) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.livestock[v.ID] = v
}

// PutCost inserts or replaces a ledger entry.
func (s *Store) PutCost(v models.CostEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.costs[v.ID] = v
}

func (s *Store) GetAnimalType(_ context.Context, id int64) (models.AnimalType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.animalTypes[id]
	if !ok {
		return models.AnimalType{}, fmt.Errorf("animal type %d: %w", id, models.ErrNotFound)
	}
	return v, nil
}

func (s *Store) GetBreed(_ context.Context, id int64) (models.Breed, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.breeds[id]
	if !ok {
		return models.Breed{}, fmt.Errorf("breed %d: %w", id, models.ErrNotFound)
	}
	return v, nil
}

func (s *Store) GetFeedType(_ context.Context, id int64) (models.FeedType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.feedTypes[id]
	if !ok {
		return models.FeedType{}, fmt.Errorf("feed type %d: %w", id, models.ErrNotFound)
	}
	return v, nil
}

func (s *Store) ListFeedTypesForAnimal(_ context.Context, animalTypeID int64) ([]models.FeedType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.FeedType
	for _, f := range s.feedTypes {
		for _, id := range f.SuitableFor {
			if id == animalTypeID {
				out = append(out, f)
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) ListFeedingRules(_ context.Context, animalTypeID int64) ([]models.FeedingRule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.FeedingRule
	for _, r := range s.feedingRules {
		if r.AnimalTypeID == animalTypeID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) GetDisease(_ context.Context, id int64) (models.Disease, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.diseases[id]
	if !ok {
		return models.Disease{}, fmt.Errorf("disease %d: %w", id, models.ErrNotFound)
	}
	return v, nil
}

func (s *Store) ListDiseasesForAnimal(_ context.Context, animalTypeID int64) ([]models.Disease, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Disease
	for _, d := range s.diseases {
		if d.Affects(animalTypeID) {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) GetSymptoms(_ context.Context, ids []int64) ([]models.Symptom, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := make(map[int64]struct{}, len(ids))
	out := make([]models.Symptom, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if v, ok := s.symptoms[id]; ok {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) ListPrices(_ context.Context, filter repository.PriceFilter) ([]models.PriceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.PriceRecord
	for _, p := range s.prices {
		if filter.Matches(p) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date.Equal(out[j].Date) {
			return out[i].ID > out[j].ID
		}
		return out[i].Date.After(out[j].Date)
	})
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (s *Store) GetLivestock(_ context.Context, id int64) (models.Livestock, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.livestock[id]
	if !ok {
		return models.Livestock{}, fmt.Errorf("livestock %d: %w", id, models.ErrNotFound)
	}
	return v, nil
}

func (s *Store) ListLivestockByFarmer(_ context.Context, farmerID int64, status models.LivestockStatus) ([]models.Livestock, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Livestock
	for _, l := range s.livestock {
		if l.FarmerID != farmerID {
			continue
		}
		if status != "" && l.Status != status {
			continue
		}
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) ListCosts(_ context.Context, livestockID int64, category *models.CostCategory) ([]models.CostEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.CostEntry
	for _, c := range s.costs {
		if c.LivestockID != livestockID {
			continue
		}
		if category != nil && c.Category != *category {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) CreateHealthRecord(_ context.Context, record models.HealthRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.healthRecords = append(s.healthRecords, record)
	return nil
}

// HealthRecords returns a copy of every stored health record.
func (s *Store) HealthRecords() []models.HealthRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.HealthRecord, len(s.healthRecords))
	copy(out, s.healthRecords)
	return out
}

// UpsertPrices stores imported prices keyed by their id.
func (s *Store) UpsertPrices(_ context.Context, records []models.PriceRecord) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range records {
		s.prices[r.ID] = r
	}
	return len(records), nil
}
