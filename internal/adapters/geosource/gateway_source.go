// Package geosource adapts a device-location HTTP gateway to the
// PositionSource port. The gateway is whatever exposes the device GPS to
// this process: a companion app, an on-box agent, or a test double.
package geosource

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"activity-finder-service/internal/domain"
	"activity-finder-service/internal/ports"
)

const defaultWatchInterval = 5 * time.Second

// GatewaySource implements ports.PositionSource over HTTP.
//
// Wire mapping onto the domain error taxonomy:
//   - 403            -> domain.ErrPermissionDenied
//   - 404, 503       -> domain.ErrPositionUnavailable
//   - context expiry -> passed through for the provider to classify
//
// Transient failures (network, 429, 5xx other than 503) are retried with
// backoff before giving up. The source is safe for concurrent use.
type GatewaySource struct {
	session       *http.Client
	baseURL       string
	apiKey        string
	watchInterval time.Duration
}

func NewGatewaySource(baseURL, apiKey string, watchInterval time.Duration) (*GatewaySource, error) {
	if baseURL == "" {
		return nil, errors.New("geo gateway url is empty")
	}
	if watchInterval <= 0 {
		watchInterval = defaultWatchInterval
	}

	return &GatewaySource{
		session:       &http.Client{Timeout: 10 * time.Second},
		baseURL:       baseURL,
		apiKey:        apiKey,
		watchInterval: watchInterval,
	}, nil
}

func (g *GatewaySource) Available() bool { return g != nil && g.baseURL != "" }

type permissionResponse struct {
	Granted bool `json:"granted"`
}

// RequestPermission probes the gateway permission endpoint. Gateways without
// one (404/501) are treated as granting optimistically; the real check then
// happens on the first fix request.
func (g *GatewaySource) RequestPermission(ctx context.Context) (bool, error) {
	resp, err := g.doWithRetry(ctx, func() (*http.Request, error) {
		return g.newRequest(ctx, http.MethodPost, g.baseURL+"/v1/permission", nil)
	})
	if err != nil {
		var he *httpStatusError
		if errors.As(err, &he) {
			switch he.Code {
			case http.StatusNotFound, http.StatusNotImplemented:
				return true, nil
			case http.StatusForbidden:
				return false, nil
			}
		}
		return false, fmt.Errorf("request permission: %w", err)
	}
	defer resp.Body.Close()

	var body permissionResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return false, fmt.Errorf("request permission: decode response: %w", err)
	}

	return body.Granted, nil
}

type fixResponse struct {
	Lat            float64 `json:"lat"`
	Lon            float64 `json:"lon"`
	AccuracyMeters float64 `json:"accuracy_meters"`
	CapturedAtMs   int64   `json:"captured_at_ms"`
}

// CurrentFix acquires a single fix from the gateway.
func (g *GatewaySource) CurrentFix(ctx context.Context, req ports.FixRequest) (domain.Coordinate, error) {
	url := g.baseURL + "/v1/fix"
	if req.HighAccuracy {
		url += "?accuracy=high"
	}

	resp, err := g.doWithRetry(ctx, func() (*http.Request, error) {
		return g.newRequest(ctx, http.MethodGet, url, nil)
	})
	if err != nil {
		return domain.Coordinate{}, fmt.Errorf("current fix: %w", classify(err))
	}
	defer resp.Body.Close()

	var body fixResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return domain.Coordinate{}, fmt.Errorf("current fix: decode response: %w", err)
	}

	fix, err := domain.NewCoordinate(body.Lat, body.Lon, body.AccuracyMeters, time.UnixMilli(body.CapturedAtMs))
	if err != nil {
		return domain.Coordinate{}, fmt.Errorf("current fix: gateway returned %w", err)
	}

	return fix, nil
}

// WatchFixes polls the gateway every watchInterval until ctx is cancelled,
// delivering fixes in acquisition order. Poll failures are logged and
// skipped; the stream only ends with ctx. Consecutive identical capture
// timestamps are coalesced away since the device produced no new fix.
func (g *GatewaySource) WatchFixes(ctx context.Context, req ports.FixRequest) (<-chan domain.Coordinate, error) {
	if !g.Available() {
		return nil, domain.ErrCapabilityUnsupported
	}

	out := make(chan domain.Coordinate)

	go func() {
		defer close(out)

		ticker := time.NewTicker(g.watchInterval)
		defer ticker.Stop()

		var lastCaptured time.Time
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}

			fix, err := g.CurrentFix(ctx, req)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				log.Printf("geosource: watch poll failed: %v", err)
				continue
			}

			if !fix.CapturedAt.After(lastCaptured) {
				continue
			}
			lastCaptured = fix.CapturedAt

			select {
			case <-ctx.Done():
				return
			case out <- fix:
			}
		}
	}()

	return out, nil
}

// classify maps terminal gateway statuses onto the domain error taxonomy.
func classify(err error) error {
	var he *httpStatusError
	if errors.As(err, &he) {
		switch he.Code {
		case http.StatusForbidden:
			return fmt.Errorf("%w: %s", domain.ErrPermissionDenied, he.Body)
		case http.StatusNotFound, http.StatusServiceUnavailable:
			return fmt.Errorf("%w: %s", domain.ErrPositionUnavailable, he.Body)
		}
	}
	return err
}
