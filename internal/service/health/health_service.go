package health

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamadbah2/herdadvisor/internal/domain/models"
	"github.com/mamadbah2/herdadvisor/internal/metrics"
	"github.com/mamadbah2/herdadvisor/internal/repository"
	"github.com/mamadbah2/herdadvisor/internal/service/scoring"
)

const (
	maxCandidates      = 10
	alertMinConfidence = 0.30
)

var generalPractices = []string{
	"Maintain clean and dry living conditions",
	"Provide fresh, clean water daily",
	"Follow proper feeding schedules and nutrition",
	"Regular health checks and observations",
	"Quarantine new animals before introducing to herd",
	"Keep vaccination schedules up to date",
	"Maintain proper ventilation in housing",
	"Practice good hygiene when handling animals",
}

// Matcher is the health surface consumed by the HTTP layer.
type Matcher interface {
	Diagnose(ctx context.Context, query models.SymptomQuery) ([]models.DiagnosisCandidate, error)
	CriticalAlerts(ctx context.Context, query models.SymptomQuery) ([]models.DiagnosisCandidate, error)
	PreventionAdvice(ctx context.Context, animalTypeID int64) (models.PreventionAdvice, error)
	SymptomSuggestions(ctx context.Context, animalTypeID int64) ([]models.SymptomSuggestion, error)
	RecordDiagnosis(ctx context.Context, livestockID int64, symptomIDs []int64, diseaseID *int64) (models.DiagnosisReceipt, error)
}

// Service scores catalogued diseases against observed symptoms.
type Service struct {
	store   repository.ReferenceStore
	sink    repository.HealthRecordSink
	weights Weights
	logger  *zap.Logger
	now     func() time.Time
	newID   func() string
}

// NewService wires a health matcher. sink may be nil when recording is not needed.
func NewService(store repository.ReferenceStore, sink repository.HealthRecordSink, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:   store,
		sink:    sink,
		weights: DefaultWeights(),
		logger:  logger,
		now:     time.Now,
		newID:   func() string { return uuid.NewString() },
	}
}

// WithWeights overrides the confidence coefficients.
func (s *Service) WithWeights(w Weights) *Service {
	s.weights = w
	return s
}

// Diagnose ranks the diseases affecting the animal type by how well they
// explain the observed symptoms. Unknown symptom ids are dropped; when none
// remain the result is empty.
func (s *Service) Diagnose(ctx context.Context, query models.SymptomQuery) (candidates []models.DiagnosisCandidate, err error) {
	start := time.Now()
	defer func() { metrics.Observe("health.diagnose", start, err) }()

	query, err = s.resolveAnimal(ctx, query)
	if err != nil {
		return nil, err
	}

	if _, err := s.store.GetAnimalType(ctx, query.AnimalTypeID); err != nil {
		return nil, err
	}

	observed, err := s.store.GetSymptoms(ctx, query.SymptomIDs)
	if err != nil {
		return nil, fmt.Errorf("resolve symptoms: %w", err)
	}
	if len(observed) == 0 {
		return []models.DiagnosisCandidate{}, nil
	}
	observedSet := newSymptomSet(observed)

	diseases, err := s.store.ListDiseasesForAnimal(ctx, query.AnimalTypeID)
	if err != nil {
		return nil, fmt.Errorf("list diseases: %w", err)
	}

	candidates = make([]models.DiagnosisCandidate, 0, len(diseases))
	for _, disease := range diseases {
		candidate, err := s.match(ctx, disease, observedSet)
		if err != nil {
			return nil, err
		}
		if candidate.Confidence > 0 {
			candidates = append(candidates, candidate)
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Confidence > candidates[j].Confidence
	})
	candidates = scoring.TopN(candidates, maxCandidates)

	if len(candidates) > 0 {
		metrics.DiagnosisConfidence.Observe(candidates[0].Confidence)
	}
	s.logger.Debug("diagnosis computed",
		zap.Int64("animal_type_id", query.AnimalTypeID),
		zap.Int("symptoms", len(observed)),
		zap.Int("candidates", len(candidates)))

	return candidates, nil
}

// CriticalAlerts keeps the HIGH and CRITICAL diagnoses with confidence above 0.30.
func (s *Service) CriticalAlerts(ctx context.Context, query models.SymptomQuery) ([]models.DiagnosisCandidate, error) {
	candidates, err := s.Diagnose(ctx, query)
	if err != nil {
		return nil, err
	}

	alerts := make([]models.DiagnosisCandidate, 0, len(candidates))
	for _, c := range candidates {
		if c.Disease.Severity.Serious() && c.Confidence > alertMinConfidence {
			alerts = append(alerts, c)
		}
	}
	return alerts, nil
}

// PreventionAdvice collects the prevention measures of every disease affecting
// the animal type.
func (s *Service) PreventionAdvice(ctx context.Context, animalTypeID int64) (models.PreventionAdvice, error) {
	animalType, err := s.store.GetAnimalType(ctx, animalTypeID)
	if err != nil {
		return models.PreventionAdvice{}, err
	}

	diseases, err := s.store.ListDiseasesForAnimal(ctx, animalTypeID)
	if err != nil {
		return models.PreventionAdvice{}, fmt.Errorf("list diseases: %w", err)
	}
	sort.SliceStable(diseases, func(i, j int) bool {
		return diseases[i].Severity.Rank() > diseases[j].Severity.Rank()
	})

	advice := models.PreventionAdvice{
		AnimalType:              animalType.Name,
		TipsBySeverity:          make(map[models.Severity][]models.PreventionTip),
		Tips:                    []models.PreventionTip{},
		CriticalDiseasesToWatch: []models.WatchedDisease{},
		GeneralRecommendations:  append([]string(nil), generalPractices...),
	}

	for _, d := range diseases {
		if d.Prevention != "" {
			tip := models.PreventionTip{Disease: d.Name, Prevention: d.Prevention, Severity: d.Severity}
			advice.Tips = append(advice.Tips, tip)
			advice.TipsBySeverity[d.Severity] = append(advice.TipsBySeverity[d.Severity], tip)
		}
		if d.Severity.Serious() {
			advice.CriticalDiseasesToWatch = append(advice.CriticalDiseasesToWatch, models.WatchedDisease{
				Name:       d.Name,
				Severity:   d.Severity,
				Contagious: d.Contagious,
			})
		}
	}

	return advice, nil
}

// SymptomSuggestions lists every symptom linked to a disease of the animal
// type, sorted by name.
func (s *Service) SymptomSuggestions(ctx context.Context, animalTypeID int64) ([]models.SymptomSuggestion, error) {
	if _, err := s.store.GetAnimalType(ctx, animalTypeID); err != nil {
		return nil, err
	}

	diseases, err := s.store.ListDiseasesForAnimal(ctx, animalTypeID)
	if err != nil {
		return nil, fmt.Errorf("list diseases: %w", err)
	}

	type tally struct {
		count      int
		severities map[models.Severity]struct{}
	}
	tallies := make(map[int64]*tally)
	var ids []int64
	for _, d := range diseases {
		for _, id := range uniqueIDs(d.SymptomIDs) {
			t, ok := tallies[id]
			if !ok {
				t = &tally{severities: make(map[models.Severity]struct{})}
				tallies[id] = t
				ids = append(ids, id)
			}
			t.count++
			t.severities[d.Severity] = struct{}{}
		}
	}

	symptoms, err := s.store.GetSymptoms(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve symptoms: %w", err)
	}

	suggestions := make([]models.SymptomSuggestion, 0, len(symptoms))
	for _, sym := range symptoms {
		t := tallies[sym.ID]
		severities := make([]models.Severity, 0, len(t.severities))
		for sev := range t.severities {
			severities = append(severities, sev)
		}
		sort.Slice(severities, func(i, j int) bool { return severities[i].Rank() < severities[j].Rank() })
		suggestions = append(suggestions, models.SymptomSuggestion{
			Symptom:              sym,
			RelatedDiseasesCount: t.count,
			SeverityLevels:       severities,
		})
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].Symptom.Name < suggestions[j].Symptom.Name
	})
	return suggestions, nil
}

// RecordDiagnosis stores a health record for the animal. An unknown suspected
// disease is dropped from the record rather than rejected.
func (s *Service) RecordDiagnosis(ctx context.Context, livestockID int64, symptomIDs []int64, diseaseID *int64) (receipt models.DiagnosisReceipt, err error) {
	start := time.Now()
	defer func() { metrics.Observe("health.record", start, err) }()

	if s.sink == nil {
		return models.DiagnosisReceipt{}, errors.New("health record sink is not configured")
	}
	if err := (models.SymptomQuery{SymptomIDs: symptomIDs}).Validate(); err != nil {
		return models.DiagnosisReceipt{}, err
	}

	animal, err := s.store.GetLivestock(ctx, livestockID)
	if err != nil {
		return models.DiagnosisReceipt{}, err
	}

	symptoms, err := s.store.GetSymptoms(ctx, symptomIDs)
	if err != nil {
		return models.DiagnosisReceipt{}, fmt.Errorf("resolve symptoms: %w", err)
	}

	var suspected *models.Disease
	if diseaseID != nil {
		d, err := s.store.GetDisease(ctx, *diseaseID)
		switch {
		case err == nil:
			suspected = &d
		case errors.Is(err, models.ErrNotFound):
			s.logger.Debug("suspected disease not found, recording without it", zap.Int64("disease_id", *diseaseID))
		default:
			return models.DiagnosisReceipt{}, err
		}
	}

	names := make([]string, 0, len(symptoms))
	ids := make([]int64, 0, len(symptoms))
	for _, sym := range symptoms {
		names = append(names, sym.Name)
		ids = append(ids, sym.ID)
	}

	record := models.HealthRecord{
		ID:             s.newID(),
		LivestockID:    animal.ID,
		RecordedAt:     s.now().UTC(),
		SymptomIDs:     ids,
		Diagnosis:      "Symptoms observed: " + strings.Join(names, ", "),
		VetConsulted:   false,
		RecoveryStatus: models.RecoveryOngoing,
	}
	if suspected != nil {
		record.SuspectedDiseaseID = &suspected.ID
	}

	if err := s.sink.CreateHealthRecord(ctx, record); err != nil {
		return models.DiagnosisReceipt{}, fmt.Errorf("store health record: %w", err)
	}
	metrics.HealthRecordsCreated.Inc()

	receipt = models.DiagnosisReceipt{
		Record:       record,
		TagNumber:    animal.TagNumber,
		SymptomCount: len(symptoms),
	}
	if suspected != nil {
		receipt.SuspectedDisease = suspected.Name
		receipt.RequiresVetAttention = suspected.VetRequired
	}

	s.logger.Info("health record created",
		zap.String("record_id", record.ID),
		zap.Int64("livestock_id", animal.ID),
		zap.Int("symptoms", len(symptoms)))

	return receipt, nil
}

// resolveAnimal takes the animal type from the referenced animal when it exists.
func (s *Service) resolveAnimal(ctx context.Context, query models.SymptomQuery) (models.SymptomQuery, error) {
	if query.LivestockID == nil {
		return query, nil
	}

	animal, err := s.store.GetLivestock(ctx, *query.LivestockID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return query, nil
		}
		return query, err
	}

	query.AnimalTypeID = animal.AnimalTypeID
	return query, nil
}

func (s *Service) match(ctx context.Context, disease models.Disease, observed symptomSet) (models.DiagnosisCandidate, error) {
	profileIDs := uniqueIDs(disease.SymptomIDs)
	profileSymptoms, err := s.store.GetSymptoms(ctx, profileIDs)
	if err != nil {
		return models.DiagnosisCandidate{}, fmt.Errorf("resolve symptoms of disease %d: %w", disease.ID, err)
	}

	matching := make([]models.Symptom, 0, len(profileSymptoms))
	missing := make([]models.Symptom, 0, len(profileSymptoms))
	for _, sym := range profileSymptoms {
		if observed.has(sym.ID) {
			matching = append(matching, sym)
		} else {
			missing = append(missing, sym)
		}
	}

	return models.DiagnosisCandidate{
		Disease:    disease,
		Confidence: s.weights.Confidence(disease, len(matching), len(profileSymptoms), observed.len()),
		Matching:   matching,
		Missing:    missing,
	}, nil
}

type symptomSet map[int64]struct{}

func newSymptomSet(symptoms []models.Symptom) symptomSet {
	set := make(symptomSet, len(symptoms))
	for _, s := range symptoms {
		set[s.ID] = struct{}{}
	}
	return set
}

func (s symptomSet) has(id int64) bool {
	_, ok := s[id]
	return ok
}

func (s symptomSet) len() int { return len(s) }

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
