// Package remote talks to the platform's user service, which owns the
// account records. The auth service reads credentials from it and pushes
// new registrations into it over REST.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/ordercraft/auth/internal/auth/domain"
	"github.com/ordercraft/auth/internal/auth/store"
	"github.com/sony/gobreaker"
)

// Identities is an HTTP client for the user service's internal account
// API. All failures to reach or get a sane answer from the service map to
// store.ErrUnavailable; a tripped breaker short-circuits to the same
// error without touching the network.
type Identities struct {
	baseURL string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
}

type Config struct {
	// BaseURL is the user service root, e.g. "http://users:8080/api/v1".
	BaseURL string

	// Timeout bounds each request. Zero means 5s.
	Timeout time.Duration
}

func NewIdentities(cfg Config) *Identities {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "user-service",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		// 404 and 409 are answers from a healthy service; only real
		// failures should move the breaker.
		IsSuccessful: func(err error) bool {
			return err == nil ||
				errors.Is(err, errNotFoundSentinel) ||
				errors.Is(err, errConflictSentinel)
		},
	})

	return &Identities{
		baseURL: cfg.BaseURL,
		client:  &http.Client{Timeout: timeout},
		breaker: breaker,
	}
}

// Ping reports whether the user service is considered reachable. It does
// not touch the network; an open breaker means recent calls kept failing.
func (r *Identities) Ping(_ context.Context) error {
	if r.breaker.State() == gobreaker.StateOpen {
		return fmt.Errorf("%w: circuit breaker open", store.ErrUnavailable)
	}
	return nil
}

// identityDTO is the wire shape the user service speaks. The password
// field carries the bcrypt hash, never a plaintext password.
type identityDTO struct {
	ID             string `json:"id"`
	Email          string `json:"email"`
	Password       string `json:"password"`
	Role           string `json:"role"`
	EmailConfirmed bool   `json:"emailConfirmed"`
}

func (d identityDTO) toDomain() domain.Identity {
	return domain.Identity{
		ID:             d.ID,
		Email:          d.Email,
		PasswordHash:   d.Password,
		Role:           domain.Role(d.Role),
		EmailConfirmed: d.EmailConfirmed,
	}
}

func (r *Identities) GetByEmail(ctx context.Context, email string) (domain.Identity, error) {
	endpoint := r.baseURL + "/users/email/" + url.PathEscape(email)

	res, err := r.breaker.Execute(func() (any, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}

		resp, err := r.client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusOK:
			var dto identityDTO
			if err := json.NewDecoder(resp.Body).Decode(&dto); err != nil {
				return nil, fmt.Errorf("remote: decode identity: %w", err)
			}
			return dto, nil
		case resp.StatusCode == http.StatusNotFound:
			// Absence is an answer, not a failure; don't feed the breaker.
			return nil, errNotFoundSentinel
		case resp.StatusCode >= 500:
			return nil, fmt.Errorf("remote: user service returned %d", resp.StatusCode)
		default:
			return nil, fmt.Errorf("remote: unexpected status %d", resp.StatusCode)
		}
	})
	if err != nil {
		return domain.Identity{}, mapRemoteErr(err)
	}

	return res.(identityDTO).toDomain(), nil
}

func (r *Identities) Create(ctx context.Context, id domain.Identity) error {
	endpoint := r.baseURL + "/users"

	body, err := json.Marshal(identityDTO{
		ID:             id.ID,
		Email:          id.Email,
		Password:       id.PasswordHash,
		Role:           string(id.Role),
		EmailConfirmed: id.EmailConfirmed,
	})
	if err != nil {
		return fmt.Errorf("remote: encode identity: %w", err)
	}

	_, err = r.breaker.Execute(func() (any, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := r.client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusCreated:
			return nil, nil
		case resp.StatusCode == http.StatusConflict:
			return nil, errConflictSentinel
		case resp.StatusCode >= 500:
			return nil, fmt.Errorf("remote: user service returned %d", resp.StatusCode)
		default:
			return nil, fmt.Errorf("remote: unexpected status %d", resp.StatusCode)
		}
	})
	if err != nil {
		return mapRemoteErr(err)
	}
	return nil
}

// Local sentinels so expected 4xx outcomes pass through the breaker's
// Execute without being mistaken for service failures by callers.
var (
	errNotFoundSentinel = errors.New("remote: not found")
	errConflictSentinel = errors.New("remote: conflict")
)

func mapRemoteErr(err error) error {
	switch {
	case errors.Is(err, errNotFoundSentinel):
		return store.ErrNotFound
	case errors.Is(err, errConflictSentinel):
		return store.ErrAlreadyExists
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return fmt.Errorf("%w: circuit breaker open: %w", store.ErrUnavailable, err)
	default:
		return fmt.Errorf("%w: %w", store.ErrUnavailable, err)
	}
}
