package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/sethvargo/go-retry"
	"github.com/sony/gobreaker/v2"

	"github.com/captainsdeck/backend/internal/auth"
	"github.com/captainsdeck/backend/internal/costs"
	"github.com/captainsdeck/backend/internal/domain"
	"github.com/captainsdeck/backend/internal/repo"
)

// RateService manages the single global EUR→CZK exchange rate: reading it,
// captain overrides, and best-effort refresh from an external rate API.
//
// The external fetch is wrapped in a circuit breaker and bounded retries; a
// failure never breaks anything — the last stored rate simply stays in
// effect and the caller gets domain.ErrUnavailable.
type RateService struct {
	settings repo.SettingsRepo
	conv     *costs.Converter
	notifier Notifier
	client   *http.Client
	apiURL   string
	breaker  *gobreaker.CircuitBreaker[float64]
}

// NewRateService constructs a RateService fetching from apiURL.
// Pass a client with a timeout; the zero http.Client has none.
func NewRateService(settings repo.SettingsRepo, conv *costs.Converter, n Notifier, client *http.Client, apiURL string) *RateService {
	return &RateService{
		settings: settings,
		conv:     conv,
		notifier: n,
		client:   client,
		apiURL:   apiURL,
		breaker: gobreaker.NewCircuitBreaker[float64](gobreaker.Settings{
			Name:    "exchange-rate-api",
			Timeout: 2 * time.Minute,
		}),
	}
}

// Prime loads the stored rate into the converter. Call once at startup so
// derived CZK figures use the persisted rate, not the compiled-in default.
func (s *RateService) Prime(ctx context.Context) error {
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return fmt.Errorf("service.RateService.Prime: %w", err)
	}
	s.conv.SetRate(settings.EurCzkRate)
	return nil
}

// Get returns the current global settings.
func (s *RateService) Get(ctx context.Context) (domain.Settings, error) {
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return domain.Settings{}, fmt.Errorf("service.RateService.Get: %w", err)
	}
	return settings, nil
}

// SetRate overwrites the global rate with a manual value. Captain only.
// The rate must be a positive finite number.
func (s *RateService) SetRate(ctx context.Context, rate float64) (domain.Settings, error) {
	if !auth.RoleFrom(ctx).CanMutate() {
		return domain.Settings{}, fmt.Errorf("service.RateService.SetRate: %w", domain.ErrForbidden)
	}
	if !s.conv.SetRate(rate) {
		return domain.Settings{}, fmt.Errorf("service.RateService.SetRate: %w: rate must be a positive number", domain.ErrValidation)
	}

	settings, err := s.settings.SetRate(ctx, rate)
	if err != nil {
		return domain.Settings{}, fmt.Errorf("service.RateService.SetRate: %w", err)
	}
	s.notifier.SettingsChanged()
	return settings, nil
}

// Refresh fetches the current EUR→CZK rate from the external API and stores
// it. Captain only. Transient upstream failures return domain.ErrUnavailable
// and leave the stored rate untouched.
func (s *RateService) Refresh(ctx context.Context) (domain.Settings, error) {
	if !auth.RoleFrom(ctx).CanMutate() {
		return domain.Settings{}, fmt.Errorf("service.RateService.Refresh: %w", domain.ErrForbidden)
	}

	rate, err := s.breaker.Execute(func() (float64, error) {
		return s.fetchRate(ctx)
	})
	if err != nil {
		slog.WarnContext(ctx, "exchange rate refresh failed", "error", err)
		return domain.Settings{}, fmt.Errorf("service.RateService.Refresh: %w: %w", domain.ErrUnavailable, err)
	}

	if !s.conv.SetRate(rate) {
		return domain.Settings{}, fmt.Errorf("service.RateService.Refresh: %w: upstream returned unusable rate %v", domain.ErrUnavailable, rate)
	}

	settings, err := s.settings.SetRate(ctx, rate)
	if err != nil {
		return domain.Settings{}, fmt.Errorf("service.RateService.Refresh: %w", err)
	}
	s.notifier.SettingsChanged()
	return settings, nil
}

// rateResponse is the shape of the external API payload; only the CZK entry
// of the rates table is read.
type rateResponse struct {
	Rates map[string]float64 `json:"rates"`
}

// fetchRate calls the rate API with bounded exponential-backoff retries.
func (s *RateService) fetchRate(ctx context.Context) (float64, error) {
	var rate float64

	backoff := retry.WithMaxRetries(2, retry.NewExponential(500*time.Millisecond))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.apiURL, nil)
		if err != nil {
			return err
		}
		resp, err := s.client.Do(req)
		if err != nil {
			return retry.RetryableError(err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return retry.RetryableError(fmt.Errorf("rate api returned %s", resp.Status))
		}

		var body rateResponse
		if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&body); err != nil {
			return retry.RetryableError(err)
		}
		czk, ok := body.Rates["CZK"]
		if !ok {
			return fmt.Errorf("rate api response has no CZK entry")
		}
		rate = czk
		return nil
	})
	if err != nil {
		return 0, err
	}
	return rate, nil
}
