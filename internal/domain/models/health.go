package models

import (
	"fmt"
	"time"
)

// Severity ranks how dangerous a disease is.
type Severity string

const (
	SeverityLow      Severity = "LOW"
	SeverityMedium   Severity = "MEDIUM"
	SeverityHigh     Severity = "HIGH"
	SeverityCritical Severity = "CRITICAL"
)

var severityRank = map[Severity]int{
	SeverityLow:      1,
	SeverityMedium:   2,
	SeverityHigh:     3,
	SeverityCritical: 4,
}

// Rank orders severities from LOW (1) to CRITICAL (4); unknown values rank 0.
func (s Severity) Rank() int {
	return severityRank[s]
}

// Serious reports whether the severity is HIGH or CRITICAL.
func (s Severity) Serious() bool {
	return s == SeverityHigh || s == SeverityCritical
}

// Symptom is an observable sign of disease.
type Symptom struct {
	ID          int64  `bson:"_id" json:"id"`
	Name        string `bson:"name" json:"name"`
	Description string `bson:"description,omitempty" json:"description,omitempty"`
}

// Disease is a catalogued condition with its symptom profile.
type Disease struct {
	ID              int64    `bson:"_id" json:"id"`
	Name            string   `bson:"name" json:"name"`
	Description     string   `bson:"description,omitempty" json:"description,omitempty"`
	Severity        Severity `bson:"severity" json:"severity"`
	Contagious      bool     `bson:"is_contagious" json:"is_contagious"`
	VetRequired     bool     `bson:"vet_required" json:"vet_required"`
	SymptomIDs      []int64  `bson:"symptom_ids" json:"symptom_ids"`
	AffectedTypeIDs []int64  `bson:"affected_animal_type_ids" json:"affected_animal_type_ids"`
	Prevention      string   `bson:"prevention_measures,omitempty" json:"prevention_measures,omitempty"`
	Treatment       string   `bson:"treatment_advice,omitempty" json:"treatment_advice,omitempty"`
}

// Affects reports whether the disease is catalogued for the animal type.
func (d Disease) Affects(animalTypeID int64) bool {
	for _, id := range d.AffectedTypeIDs {
		if id == animalTypeID {
			return true
		}
	}
	return false
}

// SymptomQuery is a set of observed symptoms for an animal type.
type SymptomQuery struct {
	AnimalTypeID int64   `json:"animal_type_id"`
	SymptomIDs   []int64 `json:"symptom_ids"`
	LivestockID  *int64  `json:"livestock_id,omitempty"`
}

// Validate requires at least one symptom.
func (q SymptomQuery) Validate() error {
	if len(q.SymptomIDs) == 0 {
		return fmt.Errorf("symptom_ids must not be empty: %w", ErrInvalidInput)
	}
	return nil
}

// DiagnosisCandidate is one entry of a ranked differential.
type DiagnosisCandidate struct {
	Disease    Disease   `json:"disease"`
	Confidence float64   `json:"confidence_score"`
	Matching   []Symptom `json:"matching_symptoms"`
	Missing    []Symptom `json:"missing_symptoms"`
}

// Treatment returns the treatment advice or a generic fallback.
func (c DiagnosisCandidate) Treatment() string {
	if c.Disease.Treatment != "" {
		return c.Disease.Treatment
	}
	return "Consult with a veterinarian for proper treatment."
}

// PreventionTip pairs a disease with its prevention measures.
type PreventionTip struct {
	Disease    string   `json:"disease"`
	Prevention string   `json:"prevention"`
	Severity   Severity `json:"severity"`
}

// WatchedDisease is a HIGH or CRITICAL disease worth monitoring for.
type WatchedDisease struct {
	Name       string   `json:"name"`
	Severity   Severity `json:"severity"`
	Contagious bool     `json:"is_contagious"`
}

// PreventionAdvice gathers prevention guidance for an animal type.
type PreventionAdvice struct {
	AnimalType              string                       `json:"animal_type"`
	TipsBySeverity          map[Severity][]PreventionTip `json:"tips_by_severity"`
	Tips                    []PreventionTip              `json:"prevention_tips"`
	CriticalDiseasesToWatch []WatchedDisease             `json:"critical_diseases_to_watch"`
	GeneralRecommendations  []string                     `json:"general_recommendations"`
}

// SymptomSuggestion annotates a symptom with the diseases it implicates.
type SymptomSuggestion struct {
	Symptom              Symptom    `json:"symptom"`
	RelatedDiseasesCount int        `json:"related_diseases_count"`
	SeverityLevels       []Severity `json:"severity_levels"`
}

// RecoveryStatus tracks the outcome of a health episode.
type RecoveryStatus string

const (
	RecoveryOngoing   RecoveryStatus = "ongoing"
	RecoveryRecovered RecoveryStatus = "recovered"
	RecoveryChronic   RecoveryStatus = "chronic"
	RecoveryDeceased  RecoveryStatus = "deceased"
)

// HealthRecord is a stored observation of a sick animal.
type HealthRecord struct {
	ID                 string         `bson:"_id" json:"id"`
	LivestockID        int64          `bson:"livestock_id" json:"livestock_id"`
	RecordedAt         time.Time      `bson:"date_recorded" json:"date_recorded"`
	SymptomIDs         []int64        `bson:"symptom_ids" json:"symptom_ids"`
	SuspectedDiseaseID *int64         `bson:"suspected_disease_id,omitempty" json:"suspected_disease_id,omitempty"`
	Diagnosis          string         `bson:"diagnosis" json:"diagnosis"`
	VetConsulted       bool           `bson:"veterinarian_consulted" json:"veterinarian_consulted"`
	RecoveryStatus     RecoveryStatus `bson:"recovery_status" json:"recovery_status"`
}

// DiagnosisReceipt is returned after a health record has been stored.
type DiagnosisReceipt struct {
	Record               HealthRecord `json:"record"`
	TagNumber            string       `json:"livestock"`
	SymptomCount         int          `json:"symptoms_count"`
	SuspectedDisease     string       `json:"suspected_disease,omitempty"`
	RequiresVetAttention bool         `json:"requires_vet_attention"`
}
