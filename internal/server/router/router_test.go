package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/herdadvisor/internal/domain/models"
	"github.com/mamadbah2/herdadvisor/internal/repository/memory"
	"github.com/mamadbah2/herdadvisor/internal/server/handlers"
	"github.com/mamadbah2/herdadvisor/internal/service/feeding"
	"github.com/mamadbah2/herdadvisor/internal/service/health"
	"github.com/mamadbah2/herdadvisor/internal/service/market"
)

func newTestEngine(t *testing.T) (*gin.Engine, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	require.NoError(t, memory.Seed(store, time.Now()))

	handler := handlers.NewAdvisoryHandler(
		feeding.NewService(store, nil),
		health.NewService(store, store, nil),
		market.NewService(store, store, nil),
		nil,
	)
	return New(handler, nil), store
}

func do(t *testing.T, engine *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body == "" {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader([]byte(body))
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func TestFeedingRoutes(t *testing.T) {
	engine, _ := newTestEngine(t)

	rec := do(t, engine, http.MethodPost, "/api/v1/feeding/recommendations",
		`{"animal_type_id":1,"age_months":3,"weight_kg":100,"purpose":"MILK"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body struct {
		Recommendations []models.FeedingResult `json:"recommendations"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body.Recommendations)
	assert.LessOrEqual(t, len(body.Recommendations), 5)

	rec = do(t, engine, http.MethodGet, "/api/v1/livestock/1/feeding", "")
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestFeedingErrors(t *testing.T) {
	engine, _ := newTestEngine(t)

	cases := []struct {
		name string
		body string
		want int
	}{
		{name: "missing type", body: `{"age_months":3}`, want: http.StatusBadRequest},
		{name: "malformed json", body: `{"animal_type_id":`, want: http.StatusBadRequest},
		{name: "negative age", body: `{"animal_type_id":1,"age_months":-1}`, want: http.StatusBadRequest},
		{name: "unknown type", body: `{"animal_type_id":99}`, want: http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(t, engine, http.MethodPost, "/api/v1/feeding/recommendations", tc.body)
			assert.Equal(t, tc.want, rec.Code, rec.Body.String())
		})
	}

	rec := do(t, engine, http.MethodGet, "/api/v1/livestock/abc/feeding", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, engine, http.MethodGet, "/api/v1/livestock/999/feeding", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealthRoutes(t *testing.T) {
	engine, store := newTestEngine(t)

	rec := do(t, engine, http.MethodPost, "/api/v1/health/diagnose", `{"animal_type_id":1,"symptom_ids":[1,2,3,4]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var diag struct {
		Candidates []models.DiagnosisCandidate `json:"candidates"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &diag))
	require.NotEmpty(t, diag.Candidates)
	assert.Equal(t, "Foot and Mouth Disease", diag.Candidates[0].Disease.Name)

	rec = do(t, engine, http.MethodPost, "/api/v1/health/alerts", `{"animal_type_id":1,"symptom_ids":[1,2,3,4]}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, engine, http.MethodGet, "/api/v1/animal-types/4/prevention", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, engine, http.MethodGet, "/api/v1/animal-types/4/symptoms", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, engine, http.MethodPost, "/api/v1/health/records", `{"livestock_id":4,"symptom_ids":[2,8],"suspected_disease_id":5}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Len(t, store.HealthRecords(), 1)

	rec = do(t, engine, http.MethodPost, "/api/v1/health/records", `{"livestock_id":999,"symptom_ids":[2]}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, engine, http.MethodPost, "/api/v1/health/records", `{"livestock_id":4,"symptom_ids":[]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMarketRoutes(t *testing.T) {
	engine, _ := newTestEngine(t)

	rec := do(t, engine, http.MethodPost, "/api/v1/market/analyze", `{"animal_type_id":1,"quality_grade":"GOOD"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var analysis models.PriceAnalysis
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &analysis))
	assert.False(t, analysis.Estimated)
	assert.Equal(t, models.ConfidenceHigh, analysis.Confidence)

	rec = do(t, engine, http.MethodGet, "/api/v1/livestock/1/profitability", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, engine, http.MethodGet, "/api/v1/farmers/1/selling-recommendations", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var selling struct {
		Recommendations []models.SellingRecommendation `json:"recommendations"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &selling))
	assert.Len(t, selling.Recommendations, 3)
}

func TestOperationalRoutes(t *testing.T) {
	engine, _ := newTestEngine(t)

	assert.Equal(t, http.StatusOK, do(t, engine, http.MethodGet, "/healthz", "").Code)
	assert.Equal(t, http.StatusOK, do(t, engine, http.MethodGet, "/metrics", "").Code)
}
