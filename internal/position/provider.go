package position

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"activity-finder-service/internal/domain"
	"activity-finder-service/internal/ports"
)

const DefaultTimeout = 30 * time.Second

// Per-acquisition options. Zero values fall back to the provider defaults.
type Options struct {
	HighAccuracy bool
	Timeout      time.Duration
	// Serve a cached fix no older than this instead of acquiring a new one.
	// Zero disables cache reuse.
	MaxCacheAge time.Duration
}

// Provider wraps a platform position source, caching the last known fix and
// owning the single active watch.
//
// The cached coordinate is the only shared mutable state of the geolocation
// core. Last resolved acquisition wins the cache; callers that need strict
// ordering must serialize their own calls. Failures never touch the cache.
type Provider struct {
	source         ports.PositionSource
	defaultTimeout time.Duration

	mu     sync.Mutex
	cached *domain.Coordinate
	watch  *Watch

	now func() time.Time
}

func NewProvider(source ports.PositionSource, defaultTimeout time.Duration) *Provider {
	if defaultTimeout <= 0 {
		defaultTimeout = DefaultTimeout
	}
	return &Provider{
		source:         source,
		defaultTimeout: defaultTimeout,
		now:            time.Now,
	}
}

// Supported reports whether the underlying platform exposes geolocation.
func (p *Provider) Supported() bool {
	return p.source != nil && p.source.Available()
}

// RequestPermission asks the platform for location access. A denial is a
// normal result, not an error; it is never retried silently.
func (p *Provider) RequestPermission(ctx context.Context) (bool, error) {
	if !p.Supported() {
		return false, domain.ErrCapabilityUnsupported
	}

	granted, err := p.source.RequestPermission(ctx)
	if err != nil {
		return false, fmt.Errorf("request permission: %w", err)
	}
	return granted, nil
}

// Current performs a one-shot acquisition with a finite deadline.
//
// A fresh-enough cached fix (per opts.MaxCacheAge) short-circuits the
// platform call. On success the new fix replaces the cache; on any failure
// the cache is left exactly as it was.
func (p *Provider) Current(ctx context.Context, opts Options) (domain.Coordinate, error) {
	if !p.Supported() {
		return domain.Coordinate{}, domain.ErrCapabilityUnsupported
	}

	if opts.MaxCacheAge > 0 {
		if c, ok := p.Cached(); ok && c.Age(p.now()) <= opts.MaxCacheAge {
			return c, nil
		}
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = p.defaultTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	fix, err := p.source.CurrentFix(ctx, ports.FixRequest{HighAccuracy: opts.HighAccuracy})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return domain.Coordinate{}, fmt.Errorf("current position after %v: %w", timeout, domain.ErrAcquisitionTimeout)
		}
		return domain.Coordinate{}, fmt.Errorf("current position: %w", err)
	}

	if err := fix.Validate(); err != nil {
		return domain.Coordinate{}, fmt.Errorf("current position: source returned %w", err)
	}

	p.setCached(fix)
	return fix, nil
}

// Cached returns the last known fix without triggering acquisition.
func (p *Provider) Cached() (domain.Coordinate, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cached == nil {
		return domain.Coordinate{}, false
	}
	return *p.cached, true
}

// Seed installs a fix into the cache without acquisition, e.g. a persisted
// last-known position restored at startup. A zero or invalid coordinate is
// ignored.
func (p *Provider) Seed(c domain.Coordinate) {
	if c.Validate() != nil || c.CapturedAt.IsZero() {
		return
	}
	p.setCached(c)
}

func (p *Provider) setCached(c domain.Coordinate) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cached = &c
}
