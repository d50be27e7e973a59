package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"exchange_system/internal/domain"
	"exchange_system/internal/middleware"
	"exchange_system/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

// buyCall records the arguments of a Buy invocation
type buyCall struct {
	username, ticker, assetType string
	price, shares               decimal.Decimal
}

// sellCall records the arguments of a Sell invocation
type sellCall struct {
	username, ticker string
	price, shares    decimal.Decimal
}

// stubStore is an in-memory Store for handler tests
type stubStore struct {
	users    map[string]bool
	balances map[string]decimal.Decimal
	assets   map[string][]domain.OwnedAsset
	trades   map[string][]domain.Trade

	added   []string
	buys    []buyCall
	sells   []sellCall
	deleted []string

	buyErr    error
	sellErr   error
	deleteErr error
}

func newStubStore() *stubStore {
	return &stubStore{
		users:    make(map[string]bool),
		balances: make(map[string]decimal.Decimal),
		assets:   make(map[string][]domain.OwnedAsset),
		trades:   make(map[string][]domain.Trade),
	}
}

func (s *stubStore) UserExists(username string) (bool, error) { return s.users[username], nil }

func (s *stubStore) AddUser(username string) error {
	s.users[username] = true
	s.balances[username] = decimal.Zero
	s.added = append(s.added, username)
	return nil
}

func (s *stubStore) AccountBalance(username string) (decimal.Decimal, error) {
	return s.balances[username], nil
}

func (s *stubStore) Buy(username, ticker string, price, shares decimal.Decimal, assetType string) error {
	s.buys = append(s.buys, buyCall{username: username, ticker: ticker, price: price, shares: shares, assetType: assetType})
	return s.buyErr
}

func (s *stubStore) Sell(username, ticker string, price, shares decimal.Decimal) error {
	s.sells = append(s.sells, sellCall{username: username, ticker: ticker, price: price, shares: shares})
	return s.sellErr
}

func (s *stubStore) GetAssets(username string) ([]domain.OwnedAsset, error) {
	return s.assets[username], nil
}

func (s *stubStore) GetTradeHistory(username string) ([]domain.Trade, error) {
	return s.trades[username], nil
}

func (s *stubStore) GetAllUsers() ([]domain.User, error) {
	users := make([]domain.User, 0, len(s.users))
	for name := range s.users {
		users = append(users, domain.User{Name: name})
	}
	return users, nil
}

func (s *stubStore) DeleteUser(username string) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.deleted = append(s.deleted, username)
	return nil
}

// stubQuoter serves fixed prices keyed "<asset type>:<ticker>" and counts calls
type stubQuoter struct {
	prices      map[string]decimal.Decimal
	stockCalls  int
	cryptoCalls int
	err         error
}

func (q *stubQuoter) FetchStockPrice(ctx context.Context, ticker string) (decimal.Decimal, error) {
	q.stockCalls++
	if q.err != nil {
		return decimal.Zero, q.err
	}
	return q.prices["stock:"+ticker], nil
}

func (q *stubQuoter) FetchCryptoPrice(ctx context.Context, ticker string) (decimal.Decimal, error) {
	q.cryptoCalls++
	if q.err != nil {
		return decimal.Zero, q.err
	}
	return q.prices["crypto:"+ticker], nil
}

// sessionCookie builds a valid session cookie for a username
func sessionCookie(t *testing.T, username string) *http.Cookie {
	t.Helper()
	token, err := utils.GenerateSessionToken(username, testSecret)
	require.NoError(t, err)
	return &http.Cookie{Name: middleware.SessionCookie, Value: token}
}

// serve runs a request through a router and returns the recorder
func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
