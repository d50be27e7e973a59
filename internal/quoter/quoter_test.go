package quoter

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchStockPrice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/stable/stock/AAPL/quote", r.URL.Path)
		assert.Equal(t, "testtoken", r.URL.Query().Get("token"))
		fmt.Fprint(w, `{"symbol":"AAPL","latestPrice":190.54}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "testtoken", false)
	price, err := c.FetchStockPrice(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.True(t, price.Equal(decimal.RequireFromString("190.54")), "got %s", price)
}

func TestFetchCryptoPrice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/stable/crypto/BTCUSD/price", r.URL.Path)
		fmt.Fprint(w, `{"symbol":"BTCUSD","price":"64231.12"}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "testtoken", false)
	price, err := c.FetchCryptoPrice(context.Background(), "BTCUSD")
	require.NoError(t, err)
	assert.True(t, price.Equal(decimal.RequireFromString("64231.12")), "got %s", price)
}

func TestFetchStockPriceProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusPaymentRequired)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "testtoken", false)
	_, err := c.FetchStockPrice(context.Background(), "AAPL")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AAPL")
}

func TestNewClientBaseURLSelection(t *testing.T) {
	assert.Equal(t, SandboxBaseURL, NewClient("", "tok", false).baseURL)
	assert.Equal(t, ProductionBaseURL, NewClient("", "tok", true).baseURL)
	assert.Equal(t, "http://example", NewClient("http://example", "tok", true).baseURL)
}

func TestFetchPriceRoutesByAssetType(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		fmt.Fprint(w, `{"latestPrice":1,"price":"1"}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok", false)
	_, err := FetchPrice(context.Background(), c, "AAPL", "stock")
	require.NoError(t, err)
	_, err = FetchPrice(context.Background(), c, "ETHUSD", "crypto")
	require.NoError(t, err)
	require.Len(t, paths, 2)
	assert.Equal(t, "/stable/stock/AAPL/quote", paths[0])
	assert.Equal(t, "/stable/crypto/ETHUSD/price", paths[1])
}
