package preview

import (
	"context"
	"errors"
	"net/url"
	"time"

	"github.com/serroba/shorturl-preview/internal/ratelimit"
	"go.uber.org/zap"
)

// StaleAfter is how long a stored preview is served before it is refetched.
const StaleAfter = 24 * time.Hour

// Service returns stored previews and refreshes them once stale.
type Service struct {
	fetcher    Fetcher
	store      Repository
	limiter    ratelimit.Limiter
	staleAfter time.Duration
	now        func() time.Time
	logger     *zap.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithHostLimiter bounds outbound fetches per target host.
func WithHostLimiter(limiter ratelimit.Limiter) Option {
	return func(s *Service) {
		s.limiter = limiter
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithStaleAfter replaces StaleAfter.
func WithStaleAfter(d time.Duration) Option {
	return func(s *Service) {
		s.staleAfter = d
	}
}

// NewService creates a preview service.
func NewService(fetcher Fetcher, store Repository, logger *zap.Logger, opts ...Option) *Service {
	s := &Service{
		fetcher:    fetcher,
		store:      store,
		staleAfter: StaleAfter,
		now:        time.Now,
		logger:     logger,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Get returns the preview of the record recordID pointing at rawURL.
// A failed refresh falls back to the stored copy; ErrNoData is returned only
// when there is nothing to fall back on.
func (s *Service) Get(ctx context.Context, recordID int64, rawURL string) (*Data, error) {
	stored, err := s.store.GetPreview(ctx, recordID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	if stored != nil && s.now().Sub(stored.LastRefreshed) < s.staleAfter {
		return stored, nil
	}

	fresh := s.fetch(ctx, rawURL)
	if fresh == nil {
		if stored != nil {
			return stored, nil
		}

		return nil, ErrNoData
	}

	fresh.LastRefreshed = s.now()

	if err := s.store.SavePreview(ctx, recordID, fresh); err != nil {
		return nil, err
	}

	return fresh, nil
}

// fetch returns nil on every failure.
func (s *Service) fetch(ctx context.Context, rawURL string) *Data {
	if s.limiter != nil {
		allowed, err := s.limiter.Allow(ctx, "preview:"+hostOf(rawURL))
		if err != nil || !allowed {
			s.logger.Info("preview fetch throttled", zap.String("url", rawURL), zap.Error(err))

			return nil
		}
	}

	body, err := s.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		s.logger.Info("preview fetch failed", zap.String("url", rawURL), zap.Error(err))

		return nil
	}

	data, err := Extract(body, rawURL)
	if err != nil {
		s.logger.Info("preview parse failed", zap.String("url", rawURL), zap.Error(err))

		return nil
	}

	return data
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return rawURL
	}

	return u.Hostname()
}
