package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/andrescamacho/gw2-planner/internal/domain/market"
	"github.com/andrescamacho/gw2-planner/internal/domain/shared"
)

const (
	defaultBaseURL          = "https://api.guildwars2.com"
	defaultTimeout          = 30 * time.Second
	defaultMaxRetries       = 3
	defaultBackoffBase      = time.Second
	defaultCircuitThreshold = 5
	defaultCircuitTimeout   = 60 * time.Second
	defaultRateLimit        = 5 // requests per second; the API allows far more, this is polite
	defaultRateBurst        = 5
)

// TradingPostClient talks to the Guild Wars 2 commerce API. It implements
// market.ListingClient.
type TradingPostClient struct {
	httpClient     *http.Client
	rateLimiter    *rate.Limiter
	baseURL        string
	maxRetries     int
	backoffBase    time.Duration
	circuitBreaker *CircuitBreaker
	clock          shared.Clock
}

// ClientOptions holds the tunable settings of a TradingPostClient. Zero
// values fall back to the defaults above.
type ClientOptions struct {
	BaseURL          string
	Timeout          time.Duration
	RateLimit        int
	RateBurst        int
	MaxRetries       int
	BackoffBase      time.Duration
	CircuitThreshold int
	CircuitTimeout   time.Duration
	Clock            shared.Clock
}

// NewTradingPostClient creates a client with default settings.
func NewTradingPostClient() *TradingPostClient {
	return NewTradingPostClientWithOptions(ClientOptions{})
}

// NewTradingPostClientWithOptions creates a client with custom settings.
func NewTradingPostClientWithOptions(opts ClientOptions) *TradingPostClient {
	if opts.BaseURL == "" {
		opts.BaseURL = defaultBaseURL
	}
	if opts.Timeout == 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.RateLimit == 0 {
		opts.RateLimit = defaultRateLimit
	}
	if opts.RateBurst == 0 {
		opts.RateBurst = defaultRateBurst
	}
	if opts.MaxRetries == 0 {
		opts.MaxRetries = defaultMaxRetries
	}
	if opts.BackoffBase == 0 {
		opts.BackoffBase = defaultBackoffBase
	}
	if opts.CircuitThreshold == 0 {
		opts.CircuitThreshold = defaultCircuitThreshold
	}
	if opts.CircuitTimeout == 0 {
		opts.CircuitTimeout = defaultCircuitTimeout
	}
	if opts.Clock == nil {
		opts.Clock = shared.NewRealClock()
	}

	return &TradingPostClient{
		httpClient:     &http.Client{Timeout: opts.Timeout},
		rateLimiter:    rate.NewLimiter(rate.Limit(opts.RateLimit), opts.RateBurst),
		baseURL:        strings.TrimSuffix(opts.BaseURL, "/"),
		maxRetries:     opts.MaxRetries,
		backoffBase:    opts.BackoffBase,
		circuitBreaker: NewCircuitBreaker(opts.CircuitThreshold, opts.CircuitTimeout, opts.Clock),
		clock:          opts.Clock,
	}
}

// FetchListings retrieves current listings for the given commerce ids in a
// single request. The API caps a request at 200 ids, far above what a
// catalog traversal produces.
func (c *TradingPostClient) FetchListings(ctx context.Context, ids []uint32) ([]market.Item, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	path := "/v2/commerce/listings?ids=" + joinIDs(ids)

	var response []struct {
		ID   uint32 `json:"id"`
		Buys []struct {
			Listings  uint32 `json:"listings"`
			UnitPrice uint32 `json:"unit_price"`
			Quantity  uint32 `json:"quantity"`
		} `json:"buys"`
		Sells []struct {
			Listings  uint32 `json:"listings"`
			UnitPrice uint32 `json:"unit_price"`
			Quantity  uint32 `json:"quantity"`
		} `json:"sells"`
	}

	if err := c.get(ctx, path, &response); err != nil {
		return nil, fmt.Errorf("failed to fetch listings: %w", err)
	}

	items := make([]market.Item, 0, len(response))
	for _, entry := range response {
		item := market.Item{
			ID:    entry.ID,
			Buys:  make([]market.PriceTier, 0, len(entry.Buys)),
			Sells: make([]market.PriceTier, 0, len(entry.Sells)),
		}
		for _, tier := range entry.Buys {
			item.Buys = append(item.Buys, market.PriceTier{
				Listings:  tier.Listings,
				UnitPrice: tier.UnitPrice,
				Quantity:  tier.Quantity,
			})
		}
		for _, tier := range entry.Sells {
			item.Sells = append(item.Sells, market.PriceTier{
				Listings:  tier.Listings,
				UnitPrice: tier.UnitPrice,
				Quantity:  tier.Quantity,
			})
		}
		items = append(items, item)
	}
	return items, nil
}

func joinIDs(ids []uint32) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatUint(uint64(id), 10)
	}
	return strings.Join(parts, ",")
}

// get performs a GET with rate limiting, retries with exponential backoff,
// and circuit breaker protection. The circuit breaker wraps the whole
// retry loop, so a call counts as at most one failure however many
// attempts it made; retryable errors count only after every attempt is
// spent.
func (c *TradingPostClient) get(ctx context.Context, path string, result interface{}) error {
	url := c.baseURL + path

	var lastErr error
	err := c.circuitBreaker.Call(func() error {
	attempts:
		for attempt := 0; attempt <= c.maxRetries; attempt++ {
			if err := c.rateLimiter.Wait(ctx); err != nil {
				return fmt.Errorf("rate limiter error: %w", err)
			}

			req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
			if err != nil {
				return fmt.Errorf("failed to create request: %w", err)
			}
			req.Header.Set("Accept", "application/json")

			resp, err := c.httpClient.Do(req)
			if err != nil {
				lastErr = fmt.Errorf("network error: %w", err)
				if attempt >= c.maxRetries {
					break
				}
				if ctx.Err() != nil {
					return fmt.Errorf("context cancelled: %w", ctx.Err())
				}
				c.clock.Sleep(c.backoffBase * time.Duration(1<<attempt))
				continue
			}

			body, readErr := io.ReadAll(resp.Body)
			resp.Body.Close()
			if readErr != nil {
				return fmt.Errorf("failed to read response: %w", readErr)
			}

			switch {
			case resp.StatusCode == http.StatusTooManyRequests:
				lastErr = fmt.Errorf("rate limited by server (HTTP 429)")
				if attempt >= c.maxRetries {
					break attempts
				}
				delay := c.backoffBase * time.Duration(1<<attempt)
				if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" {
					if seconds, err := strconv.Atoi(retryAfter); err == nil {
						delay = time.Duration(seconds) * time.Second
					}
				}
				c.clock.Sleep(delay)
				continue

			case resp.StatusCode >= 500:
				lastErr = fmt.Errorf("server error (HTTP %d): %s", resp.StatusCode, strings.TrimSpace(string(body)))
				if attempt >= c.maxRetries {
					break attempts
				}
				c.clock.Sleep(c.backoffBase * time.Duration(1<<attempt))
				continue

			case resp.StatusCode != http.StatusOK:
				// Client errors are not retryable
				return fmt.Errorf("request failed (HTTP %d): %s", resp.StatusCode, strings.TrimSpace(string(body)))
			}

			if err := json.Unmarshal(body, result); err != nil {
				return fmt.Errorf("failed to decode response: %w", err)
			}
			return nil
		}
		return lastErr
	})
	if err != nil {
		return err
	}
	return nil
}
