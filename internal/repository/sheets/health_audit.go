package sheets

import (
	"context"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/herdadvisor/internal/domain/models"
	"github.com/mamadbah2/herdadvisor/internal/repository"
)

// DefaultHealthRange receives one audit row per recorded diagnosis.
const DefaultHealthRange = "Health!A:F"

// HealthAudit stores health records in the primary sink and mirrors them to a
// sheet so field staff can follow cases without database access.
type HealthAudit struct {
	next   repository.HealthRecordSink
	repo   Repository
	logger *zap.Logger
}

// NewHealthAudit wraps next.
func NewHealthAudit(next repository.HealthRecordSink, repo Repository, logger *zap.Logger) *HealthAudit {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HealthAudit{next: next, repo: repo, logger: logger}
}

// CreateHealthRecord fails only when the primary sink does. Sheet errors are logged.
func (h *HealthAudit) CreateHealthRecord(ctx context.Context, record models.HealthRecord) error {
	if err := h.next.CreateHealthRecord(ctx, record); err != nil {
		return err
	}

	if err := h.repo.WriteRow(ctx, DefaultHealthRange, HealthRow(record)); err != nil {
		h.logger.Warn("failed to mirror health record to sheet", zap.String("record_id", record.ID), zap.Error(err))
	}
	return nil
}

// HealthRow renders a record as id | livestock | date | symptoms | disease | diagnosis.
func HealthRow(record models.HealthRecord) []interface{} {
	ids := make([]string, len(record.SymptomIDs))
	for i, id := range record.SymptomIDs {
		ids[i] = strconv.FormatInt(id, 10)
	}

	disease := ""
	if record.SuspectedDiseaseID != nil {
		disease = strconv.FormatInt(*record.SuspectedDiseaseID, 10)
	}

	return []interface{}{
		record.ID,
		record.LivestockID,
		record.RecordedAt.Format(time.DateTime),
		strings.Join(ids, ","),
		disease,
		record.Diagnosis,
	}
}
