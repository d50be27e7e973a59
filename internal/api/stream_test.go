package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// lockedQuoter counts calls under a mutex, the stream quotes from its own goroutine
type lockedQuoter struct {
	mu    sync.Mutex
	calls int
	price decimal.Decimal
}

func (q *lockedQuoter) FetchStockPrice(ctx context.Context, ticker string) (decimal.Decimal, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.calls++
	return q.price, nil
}

func (q *lockedQuoter) FetchCryptoPrice(ctx context.Context, ticker string) (decimal.Decimal, error) {
	return q.FetchStockPrice(ctx, ticker)
}

func (q *lockedQuoter) callCount() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.calls
}

func streamServer(q *lockedQuoter, interval time.Duration) *httptest.Server {
	r := gin.New()
	r.GET("/ws/prices", PriceStreamHandler(q, interval))
	return httptest.NewServer(r)
}

func wsURL(srv *httptest.Server, path string) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + path
}

func TestPriceStreamPushesUpdates(t *testing.T) {
	q := &lockedQuoter{price: decimal.RequireFromString("191.20")}
	srv := streamServer(q, 10*time.Millisecond)
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, "/ws/prices?tickers=aapl"), nil)
	require.NoError(t, err)
	defer conn.Close()

	var update PriceUpdate
	require.NoError(t, conn.ReadJSON(&update))
	assert.Equal(t, "AAPL", update.Ticker)
	assert.Equal(t, "stock", update.AssetType)
	assert.True(t, update.Price.Equal(decimal.RequireFromString("191.20")))
}

func TestPriceStreamStopsWhenClientCloses(t *testing.T) {
	q := &lockedQuoter{price: decimal.NewFromInt(10)}
	srv := streamServer(q, 10*time.Millisecond)
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, "/ws/prices?tickers=AAPL"), nil)
	require.NoError(t, err)

	var update PriceUpdate
	require.NoError(t, conn.ReadJSON(&update))
	require.NoError(t, conn.Close())

	// Give the read pump time to notice the close and stop the quote loop
	time.Sleep(200 * time.Millisecond)
	settled := q.callCount()
	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, settled, q.callCount(), "quoting must stop once the client disconnects")
}

func TestPriceStreamRejectsBadRequests(t *testing.T) {
	q := &lockedQuoter{price: decimal.NewFromInt(1)}
	srv := streamServer(q, time.Second)
	defer srv.Close()

	for _, path := range []string{
		"/ws/prices",                           // Missing tickers
		"/ws/prices?tickers=AAPL&type=bond",    // Unknown asset type
	} {
		resp, err := http.Get(srv.URL + path)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "path %s", path)
	}
}
