package engine

import (
	"context"
	"sync"
	"time"
)

// TimeProvider supplies wall-clock readings for run timing
type TimeProvider interface {
	Now() time.Time
}

// MonotonicTimeProvider provides the real system time with monotonic clock readings
type MonotonicTimeProvider struct{}

func NewMonotonicTimeProvider() *MonotonicTimeProvider {
	return &MonotonicTimeProvider{}
}

// Now returns the current time with monotonic clock reading
func (p *MonotonicTimeProvider) Now() time.Time {
	return time.Now()
}

// MockTimeProvider provides a controllable time source for testing
type MockTimeProvider struct {
	mu          sync.RWMutex
	currentTime time.Time
}

func NewMockTimeProvider(startTime time.Time) *MockTimeProvider {
	return &MockTimeProvider{currentTime: startTime}
}

func (m *MockTimeProvider) Now() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.currentTime
}

// Advance moves the mocked time forward by d
func (m *MockTimeProvider) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.currentTime = m.currentTime.Add(d)
}

// Pacer blocks until the next frame is due
type Pacer interface {
	Wait(ctx context.Context)
}

// TickerPacer paces frames with a time.Ticker at a fixed rate
type TickerPacer struct {
	ticker *time.Ticker
}

func NewTickerPacer(fps int) *TickerPacer {
	return &TickerPacer{ticker: time.NewTicker(time.Second / time.Duration(fps))}
}

// Wait returns on the next tick or when ctx is done
func (p *TickerPacer) Wait(ctx context.Context) {
	select {
	case <-p.ticker.C:
	case <-ctx.Done():
	}
}

func (p *TickerPacer) Stop() {
	p.ticker.Stop()
}

// NopPacer never waits; headless runs go as fast as the engine steps
type NopPacer struct{}

func (NopPacer) Wait(context.Context) {}

// MockPacer advances a MockTimeProvider by one frame per Wait
type MockPacer struct {
	Clock *MockTimeProvider
	Frame time.Duration
	Waits int
}

func (p *MockPacer) Wait(context.Context) {
	p.Waits++
	if p.Clock != nil {
		p.Clock.Advance(p.Frame)
	}
}
