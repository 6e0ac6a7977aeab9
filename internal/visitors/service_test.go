package visitors

import (
	"context"
	"io"
	"path"
	"strconv"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/knitinfo/knitinfo-backend/pkg/errors"
	"github.com/knitinfo/knitinfo-backend/pkg/logger"
	"github.com/knitinfo/knitinfo-backend/pkg/metrics"
)

// fakeStore mimics the redis slice the service uses, with a controllable
// clock so TTL expiry can be tested without sleeping.
type fakeStore struct {
	values  map[string]string
	expires map[string]time.Time
	now     time.Time
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		values:  map[string]string{},
		expires: map[string]time.Time{},
		now:     time.Now(),
	}
}

func (f *fakeStore) advance(d time.Duration) { f.now = f.now.Add(d) }

func (f *fakeStore) alive(key string) bool {
	if _, ok := f.values[key]; !ok {
		return false
	}
	if deadline, ok := f.expires[key]; ok && f.now.After(deadline) {
		delete(f.values, key)
		delete(f.expires, key)
		return false
	}
	return true
}

func (f *fakeStore) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	f.values[key] = toString(value)
	if ttl > 0 {
		f.expires[key] = f.now.Add(ttl)
	} else {
		delete(f.expires, key)
	}
	return nil
}

func (f *fakeStore) Get(_ context.Context, key string) (string, error) {
	if !f.alive(key) {
		return "", goredis.Nil
	}
	return f.values[key], nil
}

func (f *fakeStore) SetNX(_ context.Context, key string, value any, ttl time.Duration) (bool, error) {
	if f.alive(key) {
		return false, nil
	}
	return true, f.Set(context.Background(), key, value, ttl)
}

func (f *fakeStore) Incr(_ context.Context, key string) (int64, error) {
	current := int64(0)
	if f.alive(key) {
		parsed, err := strconv.ParseInt(f.values[key], 10, 64)
		if err != nil {
			return 0, err
		}
		current = parsed
	}
	current++
	f.values[key] = strconv.FormatInt(current, 10)
	return current, nil
}

func (f *fakeStore) CountKeys(_ context.Context, pattern string) (int64, error) {
	var total int64
	for key := range f.values {
		if ok, _ := path.Match(pattern, key); ok && f.alive(key) {
			total++
		}
	}
	return total, nil
}

func (f *fakeStore) CounterKey(name string) string          { return "ki:counter:" + name }
func (f *fakeStore) VisitorSeenKey(sessionID string) string { return "ki:visitor:seen:" + sessionID }
func (f *fakeStore) VisitorActiveKey(sessionID string) string {
	return "ki:visitor:active:" + sessionID
}
func (f *fakeStore) VisitorActivePattern() string { return "ki:visitor:active:*" }

func toString(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	}
	return ""
}

func newVisitorsService(t *testing.T) (Service, *fakeStore) {
	t.Helper()

	store := newFakeStore()
	logg := logger.New(logger.Options{ServiceName: "test", Level: zerolog.Disabled, Output: io.Discard})
	svc, err := NewService(store, logg, metrics.New(), 5*time.Minute)
	require.NoError(t, err)
	return svc, store
}

func TestRecordVisitIsIdempotentPerSession(t *testing.T) {
	svc, _ := newVisitorsService(t)
	ctx := context.Background()

	total, err := svc.RecordVisit(ctx, "session-1")
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)

	// The same session never counts twice.
	total, err = svc.RecordVisit(ctx, "session-1")
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)

	total, err = svc.RecordVisit(ctx, "session-2")
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
}

func TestRecordVisitRequiresSessionID(t *testing.T) {
	svc, _ := newVisitorsService(t)

	_, err := svc.RecordVisit(context.Background(), "   ")
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestTotalCountZeroWhenNoVisits(t *testing.T) {
	svc, _ := newVisitorsService(t)

	total, err := svc.TotalCount(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 0, total)
}

func TestActiveCountHonorsTrailingWindow(t *testing.T) {
	svc, store := newVisitorsService(t)
	ctx := context.Background()

	require.NoError(t, svc.PingActive(ctx, "old-session"))
	store.advance(6 * time.Minute)
	require.NoError(t, svc.PingActive(ctx, "fresh-session"))
	store.advance(1 * time.Minute)

	// old-session pinged 7 minutes ago, fresh-session 1 minute ago.
	active, err := svc.ActiveCount(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, active)
}

func TestPingActiveRefreshesWindow(t *testing.T) {
	svc, store := newVisitorsService(t)
	ctx := context.Background()

	require.NoError(t, svc.PingActive(ctx, "session-1"))
	store.advance(4 * time.Minute)
	require.NoError(t, svc.PingActive(ctx, "session-1"))
	store.advance(4 * time.Minute)

	// 8 minutes since the first ping, 4 since the refresh; still active.
	active, err := svc.ActiveCount(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, active)
}

func TestCountsSnapshot(t *testing.T) {
	svc, _ := newVisitorsService(t)
	ctx := context.Background()

	_, err := svc.RecordVisit(ctx, "s1")
	require.NoError(t, err)
	_, err = svc.RecordVisit(ctx, "s2")
	require.NoError(t, err)
	require.NoError(t, svc.PingActive(ctx, "s1"))

	counts, err := svc.Counts(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, counts.TotalVisitors)
	assert.EqualValues(t, 1, counts.ActiveVisitors)
}
