package services

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/markdave123-py/joba/internal/core/objectstore"
)

const (
	healthCacheTTL     = 5 * time.Second
	healthCheckTimeout = 5 * time.Second
)

type ComponentHealth struct {
	Status string `json:"status"`
	Detail string `json:"detail,omitempty"`
}

type HealthReport struct {
	Status     string                     `json:"status"`
	Uptime     string                     `json:"uptime"`
	Components map[string]ComponentHealth `json:"components"`
}

func (r HealthReport) Healthy() bool { return r.Status == "ok" }

// Pinger is what a dependency must expose to be health-checked.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthService checks the database and object store concurrently and caches
// the result briefly so frequent liveness checks cannot hammer the dependencies.
type HealthService struct {
	db      Pinger
	store   objectstore.ObjectClient
	started time.Time

	mu        sync.Mutex
	cached    HealthReport
	checkedAt time.Time
}

func NewHealthService(db Pinger, store objectstore.ObjectClient) *HealthService {
	return &HealthService{db: db, store: store, started: time.Now()}
}

func (s *HealthService) Check(ctx context.Context) HealthReport {
	s.mu.Lock()
	defer s.mu.Unlock()

	if time.Since(s.checkedAt) < healthCacheTTL && s.cached.Components != nil {
		s.cached.Uptime = s.uptime()
		return s.cached
	}

	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	var dbErr, storeErr error
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		dbErr = s.db.Ping(gctx)
		return nil
	})
	g.Go(func() error {
		storeErr = s.store.Ping(gctx)
		return nil
	})
	_ = g.Wait()

	report := HealthReport{
		Status: "ok",
		Uptime: s.uptime(),
		Components: map[string]ComponentHealth{
			"database":       componentHealth(dbErr),
			"object_storage": componentHealth(storeErr),
		},
	}
	if dbErr != nil || storeErr != nil {
		report.Status = "degraded"
	}

	s.cached = report
	s.checkedAt = time.Now()
	return report
}

func (s *HealthService) uptime() string {
	return time.Since(s.started).Round(time.Second).String()
}

func componentHealth(err error) ComponentHealth {
	if err != nil {
		return ComponentHealth{Status: "down", Detail: err.Error()}
	}
	return ComponentHealth{Status: "ok"}
}
