package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/herdadvisor/internal/config"
	"github.com/mamadbah2/herdadvisor/internal/domain/models"
	"github.com/mamadbah2/herdadvisor/internal/repository"
	"github.com/mamadbah2/herdadvisor/internal/repository/memory"
	"github.com/mamadbah2/herdadvisor/pkg/clients/whatsapp"
)

type staticPrices []models.PriceRecord

func (p staticPrices) Prices(context.Context) ([]models.PriceRecord, error) { return p, nil }

type staticAdvisor struct {
	recs []models.SellingRecommendation
	err  error
	got  int64
}

func (a *staticAdvisor) SellingRecommendations(_ context.Context, farmerID int64) ([]models.SellingRecommendation, error) {
	a.got = farmerID
	return a.recs, a.err
}

type recordingMessenger struct {
	sent []whatsapp.SendTextMessageRequest
}

func (m *recordingMessenger) SendTextMessage(_ context.Context, req whatsapp.SendTextMessageRequest) (*whatsapp.SendTextMessageResponse, error) {
	m.sent = append(m.sent, req)
	return &whatsapp.SendTextMessageResponse{}, nil
}

func schedulerConfig() config.SchedulerConfig {
	return config.SchedulerConfig{
		PriceSyncCron:   "0 6 * * *",
		DigestCron:      "0 20 * * 5",
		DigestFarmerID:  1,
		DigestRecipient: "254700000000",
		Timezone:        "UTC",
	}
}

func TestSyncPrices(t *testing.T) {
	store := memory.NewStore()
	date := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	source := staticPrices{
		{ID: 100, AnimalTypeID: 1, Location: "Nairobi", Date: date, PricePerKg: 9, QualityGrade: models.QualityGood},
		{ID: 101, AnimalTypeID: 1, Location: "Nakuru", Date: date, PricePerKg: 8, QualityGrade: models.QualityGood},
	}

	s, err := NewScheduler(schedulerConfig(), Jobs{Prices: source, PriceSink: store}, nil)
	require.NoError(t, err)

	written, err := s.SyncPrices(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, written)

	stored, err := store.ListPrices(context.Background(), repository.PriceFilter{AnimalTypeID: 1})
	require.NoError(t, err)
	assert.Len(t, stored, 2)
}

func TestSyncPricesNotConfigured(t *testing.T) {
	s, err := NewScheduler(schedulerConfig(), Jobs{}, nil)
	require.NoError(t, err)

	_, err = s.SyncPrices(context.Background())
	assert.Error(t, err)
}

func TestSendDigest(t *testing.T) {
	advisor := &staticAdvisor{recs: []models.SellingRecommendation{{
		Livestock:       models.Livestock{ID: 1, TagNumber: "C001", Name: "Bella"},
		Profitability:   models.ProfitabilityResult{MarketValue: 1200, TotalInvestment: 1000, EstimatedProfit: 200, ProfitMarginPct: 20},
		Priority:        5,
		OptimalSaleTime: "Ready for sale now",
	}}}
	messenger := &recordingMessenger{}

	s, err := NewScheduler(schedulerConfig(), Jobs{Advisor: advisor, Messenger: messenger}, nil)
	require.NoError(t, err)
	s.now = func() time.Time { return time.Date(2024, 3, 8, 20, 0, 0, 0, time.UTC) }

	require.NoError(t, s.SendDigest(context.Background()))
	assert.Equal(t, int64(1), advisor.got)
	require.Len(t, messenger.sent, 1)
	assert.Equal(t, "254700000000", messenger.sent[0].To)
	assert.Contains(t, messenger.sent[0].Body, "08 Mar 2024")
	assert.Contains(t, messenger.sent[0].Body, "1. Bella (priority 5/5)")
	assert.Contains(t, messenger.sent[0].Body, "Profit 200.00 (20.0%)")
}

func TestSendDigestPropagatesAdvisorError(t *testing.T) {
	advisor := &staticAdvisor{err: errors.New("store offline")}
	s, err := NewScheduler(schedulerConfig(), Jobs{Advisor: advisor, Messenger: &recordingMessenger{}}, nil)
	require.NoError(t, err)

	assert.Error(t, s.SendDigest(context.Background()))
}

func TestFormatDigestEmpty(t *testing.T) {
	body := FormatDigest(nil, time.Date(2024, 3, 8, 0, 0, 0, 0, time.UTC))
	assert.Contains(t, body, "No healthy animals")
}

func TestNewSchedulerRejectsUnknownTimezone(t *testing.T) {
	cfg := schedulerConfig()
	cfg.Timezone = "Mars/Olympus"
	_, err := NewScheduler(cfg, Jobs{}, nil)
	assert.Error(t, err)
}

func TestStartStop(t *testing.T) {
	s, err := NewScheduler(schedulerConfig(), Jobs{Prices: staticPrices{}, PriceSink: memory.NewStore()}, nil)
	require.NoError(t, err)
	require.NoError(t, s.Start())
	s.Stop()
}
