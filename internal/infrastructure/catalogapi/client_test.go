package catalogapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recipecost/backend/internal/domain"
)

func newTestClient(baseURL string) *Client {
	return NewClient(ClientConfig{
		BaseURL:           baseURL,
		APIKey:            "test-api-key",
		RequestsPerSecond: 1000,
		Burst:             100,
		RetryBackoff:      time.Millisecond,
	}, nil)
}

func flourResponse() productsResponse {
	return productsResponse{
		Ingredient: "flour",
		Products: []productDTO{
			{
				Name: "Flour",
				Nutrients: []nutrientDTO{
					{Name: "Protein", Amount: 10, Unit: "g", Per: 100, PerUnit: "g"},
				},
				Offers: []offerDTO{
					{Supplier: "Bulk Mill", ProductName: "Flour, 1kg", Price: 2, Size: 1, Unit: "kg"},
				},
			},
		},
	}
}

func TestNewClient(t *testing.T) {
	client := NewClient(ClientConfig{BaseURL: "https://catalog.example.com", APIKey: "key"}, nil)

	assert.NotNil(t, client)
	assert.Equal(t, "key", client.apiKey)
	assert.Equal(t, "https://catalog.example.com", client.baseURL)
	assert.NotNil(t, client.http)
	assert.NotNil(t, client.rateLimiter)
	assert.Equal(t, 3, client.maxAttempts)
	assert.Equal(t, 500*time.Millisecond, client.retryBackoff)
}

func TestBackoff(t *testing.T) {
	client := NewClient(ClientConfig{}, nil)

	tests := []struct {
		attempt  int
		expected time.Duration
	}{
		{1, 500 * time.Millisecond},
		{2, 1000 * time.Millisecond},
		{3, 2000 * time.Millisecond},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, client.backoff(tt.attempt))
	}
}

func TestProductsForIngredient_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/ingredients/brown sugar/products", r.URL.Path)
		assert.Equal(t, "test-api-key", r.URL.Query().Get("api_key"))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(flourResponse())
	}))
	defer server.Close()

	products, err := newTestClient(server.URL).ProductsForIngredient(context.Background(), "brown sugar")

	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Flour", products[0].ProductName)
	assert.Equal(t, domain.UnitOfMeasure{Amount: 1, Name: domain.UoMKilograms, Type: domain.UoMTypeMass},
		products[0].SupplierProducts[0].SupplierProductUoM)
	assert.Equal(t, domain.UoMGrams, products[0].NutrientFacts[0].QuantityPer.Name)
}

func TestProductsForIngredient_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	products, err := newTestClient(server.URL).ProductsForIngredient(context.Background(), "unobtainium")

	assert.Nil(t, products)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestProductsForIngredient_EmptyResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(productsResponse{Ingredient: "flour"})
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).ProductsForIngredient(context.Background(), "flour")

	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestProductsForIngredient_ServerError_Retries(t *testing.T) {
	attempts := 0

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(flourResponse())
	}))
	defer server.Close()

	products, err := newTestClient(server.URL).ProductsForIngredient(context.Background(), "flour")

	require.NoError(t, err)
	assert.Len(t, products, 1)
	assert.Equal(t, 3, attempts)
}

func TestProductsForIngredient_RetriesExhausted(t *testing.T) {
	attempts := 0

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).ProductsForIngredient(context.Background(), "flour")

	assert.ErrorIs(t, err, domain.ErrCatalogAPIFailure)
	assert.Equal(t, 3, attempts)
}

func TestProductsForIngredient_ClientError_NoRetry(t *testing.T) {
	attempts := 0

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).ProductsForIngredient(context.Background(), "flour")

	assert.ErrorIs(t, err, domain.ErrCatalogAPIFailure)
	assert.Equal(t, 1, attempts) // Should not retry 4xx errors
}

func TestProductsForIngredient_TooManyRequests_Retries(t *testing.T) {
	attempts := 0

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 2 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(flourResponse())
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).ProductsForIngredient(context.Background(), "flour")

	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
}

func TestProductsForIngredient_InvalidJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte("invalid json"))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).ProductsForIngredient(context.Background(), "flour")

	assert.ErrorIs(t, err, domain.ErrCatalogAPIFailure)
	assert.Contains(t, err.Error(), "failed to decode response")
}

func TestProductsForIngredient_UnknownUnit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := flourResponse()
		resp.Products[0].Offers[0].Unit = "bushel"
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).ProductsForIngredient(context.Background(), "flour")

	assert.ErrorIs(t, err, domain.ErrCatalogAPIFailure)
	assert.Contains(t, err.Error(), "bushel")
}

func TestProductsForIngredient_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(2 * time.Second)
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	products, err := newTestClient(server.URL).ProductsForIngredient(ctx, "flour")

	assert.Nil(t, products)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestProductsForIngredient_RateLimiterWait(t *testing.T) {
	var hits int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(flourResponse())
	}))
	defer server.Close()

	// One token that refills only after ~17 minutes
	newDrainedClient := func() *Client {
		client := NewClient(ClientConfig{BaseURL: server.URL, APIKey: "test-api-key", RequestsPerSecond: 0.001, Burst: 1}, nil)
		require.True(t, client.rateLimiter.Allow())
		return client
	}

	t.Run("cancelled context is not reported as rate limiting", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := newDrainedClient().ProductsForIngredient(ctx, "flour")

		assert.ErrorIs(t, err, context.Canceled)
		assert.NotErrorIs(t, err, domain.ErrRateLimited)
	})

	t.Run("expired deadline is not reported as rate limiting", func(t *testing.T) {
		ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
		defer cancel()

		_, err := newDrainedClient().ProductsForIngredient(ctx, "flour")

		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.NotErrorIs(t, err, domain.ErrRateLimited)
	})

	t.Run("wait beyond the deadline is rate limiting", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		_, err := newDrainedClient().ProductsForIngredient(ctx, "flour")

		assert.ErrorIs(t, err, domain.ErrRateLimited)
	})

	assert.Zero(t, hits)
}
