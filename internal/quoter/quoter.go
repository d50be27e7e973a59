package quoter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"exchange_system/internal/domain"

	"github.com/shopspring/decimal"
)

// Default market-data endpoints; the sandbox returns obfuscated prices
const (
	ProductionBaseURL = "https://cloud.iexapis.com"
	SandboxBaseURL    = "https://sandbox.iexapis.com"
)

// Quoter returns the current market price for a ticker
type Quoter interface {
	FetchStockPrice(ctx context.Context, ticker string) (decimal.Decimal, error)
	FetchCryptoPrice(ctx context.Context, ticker string) (decimal.Decimal, error)
}

// Client is an HTTP market-data client
type Client struct {
	baseURL string       // API base URL
	token   string       // API token
	http    *http.Client // HTTP client with a request timeout
}

// NewClient creates a market-data client. An empty baseURL selects the
// production or sandbox endpoint depending on prod.
func NewClient(baseURL, token string, prod bool) *Client {
	if baseURL == "" {
		if prod {
			baseURL = ProductionBaseURL
		} else {
			baseURL = SandboxBaseURL
		}
	}
	return &Client{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// FetchStockPrice returns the latest quoted price for a stock ticker.
//
// GET {base}/stable/stock/{ticker}/quote?token=...
//
//	{"symbol": "AAPL", "latestPrice": 190.54, ...}
func (c *Client) FetchStockPrice(ctx context.Context, ticker string) (decimal.Decimal, error) {
	addr := fmt.Sprintf("%s/stable/stock/%s/quote?token=%s", c.baseURL, url.PathEscape(ticker), url.QueryEscape(c.token))
	var payload struct {
		LatestPrice decimal.Decimal `json:"latestPrice"`
	}
	if err := c.getJSON(ctx, addr, &payload); err != nil {
		return decimal.Zero, fmt.Errorf("stock quote for %s: %w", ticker, err)
	}
	return payload.LatestPrice, nil
}

// FetchCryptoPrice returns the latest quoted price for a crypto ticker.
//
// GET {base}/stable/crypto/{ticker}/price?token=...
//
//	{"symbol": "BTCUSD", "price": "64231.12"}
func (c *Client) FetchCryptoPrice(ctx context.Context, ticker string) (decimal.Decimal, error) {
	addr := fmt.Sprintf("%s/stable/crypto/%s/price?token=%s", c.baseURL, url.PathEscape(ticker), url.QueryEscape(c.token))
	var payload struct {
		Price decimal.Decimal `json:"price"`
	}
	if err := c.getJSON(ctx, addr, &payload); err != nil {
		return decimal.Zero, fmt.Errorf("crypto price for %s: %w", ticker, err)
	}
	return payload.Price, nil
}

// FetchPrice routes to the stock or crypto endpoint by asset type
func FetchPrice(ctx context.Context, q Quoter, ticker, assetType string) (decimal.Decimal, error) {
	if assetType == domain.AssetTypeCrypto {
		return q.FetchCryptoPrice(ctx, ticker)
	}
	return q.FetchStockPrice(ctx, ticker)
}

// getJSON performs a GET request and decodes the JSON response into dest
func (c *Client) getJSON(ctx context.Context, addr string, dest any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("market data provider returned %s", resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(dest)
}
