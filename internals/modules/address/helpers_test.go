package address

import (
	"context"
	"healthwatch/config"
	"healthwatch/pkg/apperror"
	"healthwatch/pkg/cache"
	"healthwatch/pkg/redisstore"
	"healthwatch/pkg/utils"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// fakeStore keeps copies, like a database would, so callers cannot mutate
// stored rows through returned pointers.
type fakeStore struct {
	mu      sync.Mutex
	records map[uuid.UUID]MonitoredAddress

	getByIDCalls    int
	getByOwnerCalls int
	deleteCalls     int
	createCalls     int
}

func newFakeStore() *fakeStore {
	return &fakeStore{records: make(map[uuid.UUID]MonitoredAddress)}
}

func notFound(op string) error {
	return &apperror.Error{Kind: apperror.NotFound, Op: op, Message: "resources not found"}
}

func (f *fakeStore) put(m *MonitoredAddress) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records[m.ID] = *m
}

func (f *fakeStore) get(id uuid.UUID) (MonitoredAddress, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.records[id]
	return m, ok
}

func (f *fakeStore) Create(_ context.Context, m *MonitoredAddress) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++
	f.records[m.ID] = *m
	return nil
}

func (f *fakeStore) Update(_ context.Context, m *MonitoredAddress) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.records[m.ID]; !ok {
		return notFound("fake.update")
	}
	f.records[m.ID] = *m
	return nil
}

func (f *fakeStore) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteCalls++
	if _, ok := f.records[id]; !ok {
		return notFound("fake.delete")
	}
	delete(f.records, id)
	return nil
}

func (f *fakeStore) GetByID(_ context.Context, id uuid.UUID) (*MonitoredAddress, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getByIDCalls++
	m, ok := f.records[id]
	if !ok {
		return nil, notFound("fake.get_by_id")
	}
	return &m, nil
}

func (f *fakeStore) GetByOwner(_ context.Context, ownerID uuid.UUID) ([]*MonitoredAddress, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getByOwnerCalls++
	out := make([]*MonitoredAddress, 0)
	for _, m := range f.records {
		if m.OwnerID == ownerID {
			out = append(out, &m)
		}
	}
	return out, nil
}

func (f *fakeStore) GetByAddressAndOwner(_ context.Context, address string, ownerID uuid.UUID) (*MonitoredAddress, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.records {
		if m.OwnerID == ownerID && m.Address == address {
			return &m, nil
		}
	}
	return nil, notFound("fake.get_by_address_and_owner")
}

type fakeOwners map[uuid.UUID]bool

func (o fakeOwners) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	return o[id], nil
}

type brokenBackend struct{ calls int }

func (b *brokenBackend) Get(context.Context, string) ([]byte, error) {
	b.calls++
	return nil, errCacheDown
}

func (b *brokenBackend) Set(context.Context, string, []byte, time.Duration) error {
	b.calls++
	return errCacheDown
}

func (b *brokenBackend) Del(context.Context, ...string) error {
	b.calls++
	return errCacheDown
}

var errCacheDown = &apperror.Error{Kind: apperror.Dependency, Message: "redis: connection refused"}

type fixture struct {
	svc    *Service
	store  *fakeStore
	redis  *miniredis.Miniredis
	clock  *clock.Mock
	owners fakeOwners
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	s := miniredis.RunT(t)
	client, err := redisstore.New(&config.RedisConfig{Addr: s.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	l := zerolog.Nop()
	return newFixtureWith(t, cache.New(client, &l), s)
}

func newFixtureWith(t *testing.T, c *cache.Cache, s *miniredis.Miniredis) *fixture {
	t.Helper()

	clk := clock.NewMock()
	clk.Set(testNow)
	l := zerolog.Nop()

	f := &fixture{
		store:  newFakeStore(),
		redis:  s,
		clock:  clk,
		owners: fakeOwners{},
	}
	f.svc = NewService(f.store, c, f.owners, utils.NewValidator(), clk, &l)
	return f
}

func (f *fixture) seed(t *testing.T, owner uuid.UUID, addr string, interval int) *MonitoredAddress {
	t.Helper()
	f.owners[owner] = true
	m, err := NewMonitoredAddress(owner, addr, interval, f.clock.Now())
	require.NoError(t, err)
	f.store.put(m)
	return m
}
