package visitors

import (
	"context"
	"strconv"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	pkgerrors "github.com/knitinfo/knitinfo-backend/pkg/errors"
	"github.com/knitinfo/knitinfo-backend/pkg/logger"
	"github.com/knitinfo/knitinfo-backend/pkg/metrics"
)

// totalCounterName is the counter key suffix for the all-time visitor total.
const totalCounterName = "visitors_total"

// Store is the slice of the redis client the visitor counters need.
type Store interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	Incr(ctx context.Context, key string) (int64, error)
	CountKeys(ctx context.Context, pattern string) (int64, error)
	CounterKey(name string) string
	VisitorSeenKey(sessionID string) string
	VisitorActiveKey(sessionID string) string
	VisitorActivePattern() string
}

// Counts is the public counter snapshot.
type Counts struct {
	TotalVisitors  int64 `json:"totalVisitors"`
	ActiveVisitors int64 `json:"activeVisitors"`
}

// Service tracks total and active visitor counts. Totals are idempotent per
// session id; presence is a trailing-window approximation refreshed by pings.
type Service interface {
	RecordVisit(ctx context.Context, sessionID string) (int64, error)
	PingActive(ctx context.Context, sessionID string) error
	TotalCount(ctx context.Context) (int64, error)
	ActiveCount(ctx context.Context) (int64, error)
	Counts(ctx context.Context) (*Counts, error)
}

type service struct {
	store        Store
	logg         *logger.Logger
	metrics      *metrics.Metrics
	activeWindow time.Duration
}

// NewService wires the visitor counter service.
func NewService(store Store, logg *logger.Logger, m *metrics.Metrics, activeWindow time.Duration) (Service, error) {
	if store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "visitors: store is required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "visitors: logger is required")
	}
	if activeWindow <= 0 {
		activeWindow = 5 * time.Minute
	}
	return &service{
		store:        store,
		logg:         logg,
		metrics:      m,
		activeWindow: activeWindow,
	}, nil
}

// RecordVisit bumps the all-time total once per session id. The seen marker
// carries no TTL; a session counted once is never counted again. Returns the
// current total.
func (s *service) RecordVisit(ctx context.Context, sessionID string) (int64, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "sessionId is required")
	}

	firstSeen, err := s.store.SetNX(ctx, s.store.VisitorSeenKey(sessionID), 1, 0)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "recording visit")
	}

	if firstSeen {
		total, err := s.store.Incr(ctx, s.store.CounterKey(totalCounterName))
		if err != nil {
			return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "incrementing visitor total")
		}
		return total, nil
	}

	return s.TotalCount(ctx)
}

// PingActive refreshes the session's presence marker. Every ping restarts the
// active-window TTL, so presence lapses only after the window passes with no
// pings.
func (s *service) PingActive(ctx context.Context, sessionID string) error {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "sessionId is required")
	}

	if err := s.store.Set(ctx, s.store.VisitorActiveKey(sessionID), 1, s.activeWindow); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "refreshing presence")
	}
	s.metrics.IncVisit()
	return nil
}

// TotalCount reads the all-time total. A missing counter means no visits yet.
func (s *service) TotalCount(ctx context.Context) (int64, error) {
	raw, err := s.store.Get(ctx, s.store.CounterKey(totalCounterName))
	if err != nil {
		if err == goredis.Nil {
			return 0, nil
		}
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reading visitor total")
	}

	total, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "visitor total is not numeric")
	}
	return total, nil
}

// ActiveCount counts the sessions whose presence marker has not yet expired.
func (s *service) ActiveCount(ctx context.Context) (int64, error) {
	count, err := s.store.CountKeys(ctx, s.store.VisitorActivePattern())
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "counting active visitors")
	}
	return count, nil
}

// Counts returns both counters in one call.
func (s *service) Counts(ctx context.Context) (*Counts, error) {
	total, err := s.TotalCount(ctx)
	if err != nil {
		return nil, err
	}
	active, err := s.ActiveCount(ctx)
	if err != nil {
		return nil, err
	}
	return &Counts{TotalVisitors: total, ActiveVisitors: active}, nil
}
