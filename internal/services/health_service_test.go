package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakePinger struct {
	err   error
	calls int
}

func (p *fakePinger) Ping(context.Context) error {
	p.calls++
	return p.err
}

func TestHealthCheckOK(t *testing.T) {
	svc := NewHealthService(&fakePinger{}, newFakeObjectStore())

	report := svc.Check(context.Background())
	assert.True(t, report.Healthy())
	assert.Equal(t, "ok", report.Components["database"].Status)
	assert.Equal(t, "ok", report.Components["object_storage"].Status)
	assert.NotEmpty(t, report.Uptime)
}

func TestHealthCheckDegraded(t *testing.T) {
	db := &fakePinger{err: errors.New("connection refused")}
	svc := NewHealthService(db, newFakeObjectStore())

	report := svc.Check(context.Background())
	assert.False(t, report.Healthy())
	assert.Equal(t, "degraded", report.Status)
	assert.Equal(t, "down", report.Components["database"].Status)
	assert.Equal(t, "connection refused", report.Components["database"].Detail)
	assert.Equal(t, "ok", report.Components["object_storage"].Status)
}

func TestHealthCheckDegradedStore(t *testing.T) {
	store := newFakeObjectStore()
	store.pingErr = errors.New("bucket gone")
	svc := NewHealthService(&fakePinger{}, store)

	report := svc.Check(context.Background())
	assert.Equal(t, "degraded", report.Status)
	assert.Equal(t, "down", report.Components["object_storage"].Status)
}

func TestHealthCheckCaches(t *testing.T) {
	db := &fakePinger{}
	svc := NewHealthService(db, newFakeObjectStore())
	ctx := context.Background()

	svc.Check(ctx)
	svc.Check(ctx)
	svc.Check(ctx)

	// Repeated checks inside the cache window hit the dependency once.
	assert.Equal(t, 1, db.calls)
}
