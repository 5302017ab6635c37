package sheets

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/herdadvisor/internal/domain/models"
)

// DefaultPriceRange holds one market observation per row:
// id | animal_type_id | breed_id | location | date | price_per_kg | quality_grade
const DefaultPriceRange = "Prices!A:G"

const priceSource = "sheets"

var dateLayouts = []string{"2006-01-02", "02/01/2006", time.RFC3339}

// PriceSheet reads market prices maintained by hand in a spreadsheet.
type PriceSheet struct {
	repo       Repository
	sheetRange string
	logger     *zap.Logger
}

// NewPriceSheet builds a reader over sheetRange, or DefaultPriceRange when empty.
func NewPriceSheet(repo Repository, sheetRange string, logger *zap.Logger) *PriceSheet {
	if logger == nil {
		logger = zap.NewNop()
	}
	if sheetRange == "" {
		sheetRange = DefaultPriceRange
	}
	return &PriceSheet{repo: repo, sheetRange: sheetRange, logger: logger}
}

// Prices returns every parseable row. The header row and malformed rows are skipped.
func (p *PriceSheet) Prices(ctx context.Context) ([]models.PriceRecord, error) {
	rows, err := p.repo.ReadRange(ctx, p.sheetRange)
	if err != nil {
		return nil, err
	}

	records := make([]models.PriceRecord, 0, len(rows))
	for i, row := range rows {
		rec, err := ParsePriceRow(row)
		if err != nil {
			if i > 0 {
				p.logger.Warn("skipping price row", zap.Int("row", i+1), zap.Error(err))
			}
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// ParsePriceRow converts one sheet row into a price record. An empty breed cell
// leaves the breed unset and an empty grade means AVERAGE.
func ParsePriceRow(row []interface{}) (models.PriceRecord, error) {
	if len(row) < 6 {
		return models.PriceRecord{}, fmt.Errorf("expected at least 6 cells, got %d: %w", len(row), models.ErrInvalidInput)
	}

	id, err := parseInt(cell(row, 0))
	if err != nil {
		return models.PriceRecord{}, fmt.Errorf("id: %w", err)
	}
	animalTypeID, err := parseInt(cell(row, 1))
	if err != nil {
		return models.PriceRecord{}, fmt.Errorf("animal type: %w", err)
	}

	rec := models.PriceRecord{
		ID:           id,
		AnimalTypeID: animalTypeID,
		Location:     cell(row, 3),
		QualityGrade: models.QualityAverage,
		Source:       priceSource,
	}

	if raw := cell(row, 2); raw != "" {
		breed, err := parseInt(raw)
		if err != nil {
			return models.PriceRecord{}, fmt.Errorf("breed: %w", err)
		}
		rec.BreedID = &breed
	}

	rec.Date, err = parseDate(cell(row, 4))
	if err != nil {
		return models.PriceRecord{}, err
	}

	rec.PricePerKg, err = strconv.ParseFloat(strings.ReplaceAll(cell(row, 5), ",", "."), 64)
	if err != nil || rec.PricePerKg <= 0 {
		return models.PriceRecord{}, fmt.Errorf("price %q: %w", cell(row, 5), models.ErrInvalidInput)
	}

	if grade := strings.ToUpper(cell(row, 6)); grade != "" {
		rec.QualityGrade = models.QualityGrade(grade)
	}
	return rec, nil
}

func cell(row []interface{}, i int) string {
	if i >= len(row) || row[i] == nil {
		return ""
	}
	return strings.TrimSpace(fmt.Sprint(row[i]))
}

func parseInt(raw string) (int64, error) {
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%q: %w", raw, models.ErrInvalidInput)
	}
	return v, nil
}

func parseDate(raw string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("date %q: %w", raw, models.ErrInvalidInput)
}
