package api_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/gw2-planner/internal/adapters/api"
	"github.com/andrescamacho/gw2-planner/internal/domain/shared"
)

const listingsBody = `[
  {
    "id": 19697,
    "buys": [{"listings": 2, "unit_price": 3, "quantity": 500}],
    "sells": [
      {"listings": 10, "unit_price": 5, "quantity": 250},
      {"listings": 4, "unit_price": 6, "quantity": 900}
    ]
  },
  {
    "id": 19702,
    "buys": [],
    "sells": [{"listings": 1, "unit_price": 120, "quantity": 30}]
  }
]`

func newTestClient(baseURL string) *api.TradingPostClient {
	return api.NewTradingPostClientWithOptions(api.ClientOptions{
		BaseURL:     baseURL,
		RateLimit:   1000,
		RateBurst:   1000,
		BackoffBase: time.Millisecond,
		Clock:       shared.NewMockClock(time.Time{}),
	})
}

func TestFetchListings(t *testing.T) {
	// Arrange
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.RequestURI()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(listingsBody))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	// Act
	items, err := client.FetchListings(context.Background(), []uint32{19697, 19702})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "/v2/commerce/listings?ids=19697,19702", gotPath)

	require.Len(t, items, 2)
	assert.Equal(t, uint32(19697), items[0].ID)
	require.Len(t, items[0].Sells, 2)
	assert.Equal(t, uint32(5), items[0].Sells[0].UnitPrice)
	assert.Equal(t, uint32(250), items[0].Sells[0].Quantity)
	assert.Equal(t, uint32(10), items[0].Sells[0].Listings)
	require.Len(t, items[0].Buys, 1)
	assert.Equal(t, uint32(19702), items[1].ID)
}

func TestFetchListings_NoIDs(t *testing.T) {
	client := newTestClient("http://unused.invalid")

	items, err := client.FetchListings(context.Background(), nil)

	require.NoError(t, err)
	assert.Nil(t, items)
}

func TestFetchListings_RetriesServerErrors(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts <= 2 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(`[{"id": 1, "buys": [], "sells": []}]`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	items, err := client.FetchListings(context.Background(), []uint32{1})

	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
	require.Len(t, items, 1)
}

func TestFetchListings_ClientErrorIsNotRetried(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"text": "all ids provided are invalid"}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	_, err := client.FetchListings(context.Background(), []uint32{999})

	require.Error(t, err)
	assert.Equal(t, 1, attempts)
	assert.Contains(t, err.Error(), "HTTP 404")
}

func TestCircuitBreaker_OpensAfterConsecutiveFailures(t *testing.T) {
	clock := shared.NewMockClock(time.Unix(0, 0))
	cb := api.NewCircuitBreaker(3, time.Minute, clock)

	failing := func() error { return assert.AnError }
	for i := 0; i < 3; i++ {
		require.Error(t, cb.Call(failing))
	}
	assert.Equal(t, api.CircuitOpen, cb.GetState())

	// Blocked while open
	err := cb.Call(func() error { return nil })
	assert.ErrorIs(t, err, api.ErrCircuitOpen)

	// After the timeout a successful probe closes it again
	clock.Advance(time.Minute)
	require.NoError(t, cb.Call(func() error { return nil }))
	assert.Equal(t, api.CircuitClosed, cb.GetState())
}
