// Package clients contains HTTP clients for external services.
package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/universiq/uvq/internal/domain"
	"github.com/universiq/uvq/pkg/retry"
)

const (
	defaultTimeout        = 15 * time.Second
	marketFetchRetries    = 2
	marketFetchRetryDelay = 500 * time.Millisecond
)

// BackendClient talks to the analysis backend over its JSON API. The base
// URL is fixed at startup.
type BackendClient struct {
	baseURL    string
	httpClient *http.Client
	retry      *retry.Policy
}

// NewBackendClient creates a client for the given base URL, e.g.
// "http://localhost:8000".
func NewBackendClient(baseURL string) *BackendClient {
	return &BackendClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		retry: retry.New(
			retry.WithMaxRetries(marketFetchRetries),
			retry.WithInitialInterval(marketFetchRetryDelay),
		),
	}
}

// StatusError non-2xx response from the backend.
type StatusError struct {
	Endpoint string
	Code     int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("backend returned %d for %s", e.Code, e.Endpoint)
}

// CurrentMarket fetches the live market snapshot. Transient failures are
// retried with backoff inside the poll tick; client errors (4xx) and the
// scenario endpoints below never retry.
func (c *BackendClient) CurrentMarket(ctx context.Context) (domain.MarketSnapshot, error) {
	return retry.DoWithData(c.retry, ctx, func(ctx context.Context) (domain.MarketSnapshot, error) {
		var snap domain.MarketSnapshot
		if err := c.doJSON(ctx, http.MethodGet, "/api/bitcoin/current", nil, &snap); err != nil {
			var statusErr *StatusError
			if errors.As(err, &statusErr) && statusErr.Code < http.StatusInternalServerError {
				return domain.MarketSnapshot{}, retry.Permanent(err)
			}
			return domain.MarketSnapshot{}, err
		}
		return snap, nil
	})
}

// createScenarioResponse only the identifier matters to the client; the
// backend echoes the submitted fields alongside it.
type createScenarioResponse struct {
	ID string `json:"id"`
}

// CreateScenario registers a payment scenario and returns its identifier.
func (c *BackendClient) CreateScenario(ctx context.Context, req domain.ScenarioRequest) (string, error) {
	var resp createScenarioResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/scenarios", req, &resp); err != nil {
		return "", err
	}
	if resp.ID == "" {
		return "", errors.New("backend returned a scenario without an id")
	}
	return resp.ID, nil
}

// AnalyzeScenario requests the payment-timing recommendation for a
// previously created scenario.
func (c *BackendClient) AnalyzeScenario(ctx context.Context, scenarioID string) (domain.Recommendation, error) {
	var rec domain.Recommendation
	endpoint := "/api/analyze/" + url.PathEscape(scenarioID)
	if err := c.doJSON(ctx, http.MethodPost, endpoint, nil, &rec); err != nil {
		return domain.Recommendation{}, err
	}
	return rec, nil
}

func (c *BackendClient) doJSON(ctx context.Context, method, endpoint string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "failed to marshal request body")
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return errors.Wrapf(err, "failed to create request for %s", endpoint)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrapf(err, "request to %s failed", endpoint)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return &StatusError{Endpoint: endpoint, Code: resp.StatusCode}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrapf(err, "failed to decode response from %s", endpoint)
	}
	return nil
}
