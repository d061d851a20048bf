package engine

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/danielhan/advisor/internal/cache"
	"github.com/danielhan/advisor/internal/contracts"
	"github.com/danielhan/advisor/internal/provider"
	"github.com/danielhan/advisor/pkg/logger"
)

// memStore is a map-backed cache used only by tests.
type memStore struct {
	mu      sync.Mutex
	entries map[string]contracts.InstrumentMetrics
	putErr  error
	puts    int
}

func newMemStore() *memStore {
	return &memStore{entries: make(map[string]contracts.InstrumentMetrics)}
}

func (s *memStore) Get(_ context.Context, symbol string) (contracts.InstrumentMetrics, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.entries[cache.Key(symbol)]
	return m, ok
}

func (s *memStore) Put(_ context.Context, symbol string, m contracts.InstrumentMetrics) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.puts++
	if s.putErr != nil {
		return s.putErr
	}
	s.entries[cache.Key(symbol)] = m
	return nil
}

// fakeProvider serves canned metrics and counts fetches.
type fakeProvider struct {
	mu      sync.Mutex
	metrics map[string]contracts.InstrumentMetrics
	fetches int
}

func newFakeProvider(instruments ...contracts.InstrumentMetrics) *fakeProvider {
	p := &fakeProvider{metrics: make(map[string]contracts.InstrumentMetrics)}
	for _, m := range instruments {
		p.metrics[m.Symbol] = m
	}
	return p
}

func (p *fakeProvider) FetchMetrics(_ context.Context, symbol string, _ time.Duration) (contracts.InstrumentMetrics, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.fetches++
	m, ok := p.metrics[symbol]
	if !ok {
		return contracts.InstrumentMetrics{}, provider.ErrNoData
	}
	return m, nil
}

func (p *fakeProvider) fetchCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.fetches
}

func TestResolveFetchesAndCachesOnMiss(t *testing.T) {
	store := newMemStore()
	prov := newFakeProvider(techStock("AAPL", 1.0, 6.0))
	r := NewResolver(store, prov, 365*24*time.Hour, 4, logger.NewNop())

	m, ok := r.Resolve(context.Background(), "AAPL")
	assert.True(t, ok)
	assert.Equal(t, "AAPL", m.Symbol)
	assert.Equal(t, 1, prov.fetchCount())

	// Second resolve is served from cache
	_, ok = r.Resolve(context.Background(), "AAPL")
	assert.True(t, ok)
	assert.Equal(t, 1, prov.fetchCount())
}

func TestResolveCanonicalizesSymbol(t *testing.T) {
	store := newMemStore()
	prov := newFakeProvider(techStock("AAPL", 1.0, 6.0))
	r := NewResolver(store, prov, 365*24*time.Hour, 4, logger.NewNop())

	m, ok := r.Resolve(context.Background(), " aapl ")
	assert.True(t, ok)
	assert.Equal(t, "AAPL", m.Symbol)

	// Uppercase lookup hits the entry cached by the lowercase call
	_, ok = r.Resolve(context.Background(), "AAPL")
	assert.True(t, ok)
	assert.Equal(t, 1, prov.fetchCount())
}

func TestResolveDropsSymbolOnProviderFailure(t *testing.T) {
	store := newMemStore()
	prov := newFakeProvider() // knows nothing
	r := NewResolver(store, prov, 365*24*time.Hour, 4, logger.NewNop())

	_, ok := r.Resolve(context.Background(), "GHOST")
	assert.False(t, ok)
	assert.Zero(t, store.puts)
}

func TestResolveSurvivesCacheWriteFailure(t *testing.T) {
	store := newMemStore()
	store.putErr = errors.New("disk full")
	prov := newFakeProvider(techStock("AAPL", 1.0, 6.0))
	r := NewResolver(store, prov, 365*24*time.Hour, 4, logger.NewNop())

	m, ok := r.Resolve(context.Background(), "AAPL")
	assert.True(t, ok)
	assert.Equal(t, "AAPL", m.Symbol)
}

func TestResolveAllOrdersBySymbol(t *testing.T) {
	store := newMemStore()
	prov := newFakeProvider(
		techStock("MSFT", 1.0, 8.0),
		techStock("AAPL", 1.0, 6.0),
		techStock("NVDA", 1.5, 40.0),
	)
	r := NewResolver(store, prov, 365*24*time.Hour, 4, logger.NewNop())

	resolved := r.ResolveAll(context.Background(), []string{"NVDA", "MSFT", "GHOST", "AAPL"})

	got := make([]string, 0, len(resolved))
	for _, m := range resolved {
		got = append(got, m.Symbol)
	}
	assert.Equal(t, []string{"AAPL", "MSFT", "NVDA"}, got)
}

func TestResolveAllEmptyInput(t *testing.T) {
	r := NewResolver(newMemStore(), newFakeProvider(), 365*24*time.Hour, 4, logger.NewNop())
	assert.Empty(t, r.ResolveAll(context.Background(), nil))
}

func TestResolveAllBoundedWorkers(t *testing.T) {
	store := newMemStore()
	instruments := []contracts.InstrumentMetrics{}
	symbols := []string{}
	for _, s := range []string{"A", "B", "C", "D", "E", "F", "G", "H", "I", "J"} {
		instruments = append(instruments, techStock(s, 1.0, 5.0))
		symbols = append(symbols, s)
	}
	prov := newFakeProvider(instruments...)

	r := NewResolver(store, prov, 365*24*time.Hour, 2, logger.NewNop())
	resolved := r.ResolveAll(context.Background(), symbols)

	assert.Len(t, resolved, len(symbols))
	assert.Equal(t, len(symbols), prov.fetchCount())
}
