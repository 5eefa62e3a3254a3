package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weather-dashboard/config"
	"weather-dashboard/internal/models"
	"weather-dashboard/pkg/logger"
)

type fakeRefresher struct {
	mu       sync.Mutex
	calls    []string
	failures map[string]error
	deadline bool
}

func (f *fakeRefresher) Refresh(ctx context.Context, city string) (models.CityReport, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, city)
	_, f.deadline = ctx.Deadline()

	if err, ok := f.failures[city]; ok {
		return models.CityReport{}, err
	}
	return models.CityReport{City: city}, nil
}

func (f *fakeRefresher) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func TestRunOnce_RefreshesEveryCity(t *testing.T) {
	svc := &fakeRefresher{}
	s := New(svc, config.RefreshConfig{Schedule: "@every 15m", Cities: []string{"Atlanta", "Paris"}}, logger.Nop())

	require.NoError(t, s.RunOnce(context.Background()))

	assert.Equal(t, []string{"Atlanta", "Paris"}, svc.calls)
	assert.True(t, svc.deadline, "each run is bounded by a timeout")
}

func TestRunOnce_ContinuesAfterFailure(t *testing.T) {
	notFound := &models.LocationNotFoundError{Location: "Atlantis", Message: "city not found"}
	svc := &fakeRefresher{failures: map[string]error{"Atlantis": notFound}}
	s := New(svc, config.RefreshConfig{Cities: []string{"Atlantis", "Paris"}}, logger.Nop())

	err := s.RunOnce(context.Background())

	assert.ErrorIs(t, err, notFound)
	assert.Equal(t, []string{"Atlantis", "Paris"}, svc.calls)
}

func TestStart_InvalidSchedule(t *testing.T) {
	s := New(&fakeRefresher{}, config.RefreshConfig{Schedule: "not a schedule"}, logger.Nop())

	err := s.Start(context.Background())
	assert.ErrorContains(t, err, "schedule refresh")
}

func TestStart_RunsOnSchedule(t *testing.T) {
	svc := &fakeRefresher{}
	s := New(svc, config.RefreshConfig{Schedule: "@every 1s", Timeout: time.Second, Cities: []string{"Atlanta"}}, logger.Nop())

	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()

	assert.Eventually(t, func() bool { return svc.count() > 0 }, 3*time.Second, 50*time.Millisecond)
}

func TestStop_WithoutStart(t *testing.T) {
	s := New(&fakeRefresher{failures: map[string]error{"x": errors.New("boom")}}, config.RefreshConfig{}, logger.Nop())

	assert.NotPanics(t, s.Stop)
}
