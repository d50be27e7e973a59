package api

import (
	"context"

	"exchange_system/internal/quoter"

	"github.com/shopspring/decimal"
)

// AssetView is a holding decorated with its current market price
type AssetView struct {
	Ticker       string          `json:"ticker"`        // Asset ticker symbol
	Shares       decimal.Decimal `json:"shares"`        // Held share quantity
	AssetType    string          `json:"asset_type"`    // stock or crypto
	CurrentPrice decimal.Decimal `json:"current_price"` // Current market price
}

// priceMemo quotes each distinct (asset type, ticker) at most once per
// request, so a leaderboard render does one provider call per ticker rather
// than one per user per ticker
type priceMemo struct {
	q     quoter.Quoter              // Underlying quoter
	known map[string]decimal.Decimal // Prices already quoted this request
}

func newPriceMemo(q quoter.Quoter) *priceMemo {
	return &priceMemo{q: q, known: make(map[string]decimal.Decimal)}
}

func (m *priceMemo) price(ctx context.Context, ticker, assetType string) (decimal.Decimal, error) {
	key := assetType + ":" + ticker
	if p, ok := m.known[key]; ok {
		return p, nil
	}
	p, err := quoter.FetchPrice(ctx, m.q, ticker, assetType)
	if err != nil {
		return decimal.Zero, err
	}
	m.known[key] = p
	return p, nil
}

// netWorth computes cash balance plus the market value of every holding,
// rounded to 2 decimals, and returns the balance and priced holdings alongside
func netWorth(ctx context.Context, store Store, memo *priceMemo, username string) (worth, balance decimal.Decimal, views []AssetView, err error) {
	balance, err = store.AccountBalance(username)
	if err != nil {
		return decimal.Zero, decimal.Zero, nil, err
	}
	assets, err := store.GetAssets(username)
	if err != nil {
		return decimal.Zero, decimal.Zero, nil, err
	}
	total := balance // Start with cash
	views = make([]AssetView, 0, len(assets))
	for _, asset := range assets {
		price, err := memo.price(ctx, asset.Ticker, asset.AssetType)
		if err != nil {
			return decimal.Zero, decimal.Zero, nil, err
		}
		views = append(views, AssetView{
			Ticker:       asset.Ticker,
			Shares:       asset.Shares,
			AssetType:    asset.AssetType,
			CurrentPrice: price,
		})
		total = total.Add(price.Mul(asset.Shares)) // Market value of the holding
	}
	return total.Round(2), balance, views, nil
}
