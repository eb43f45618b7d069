package cbadv

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// GoodsAndServicesTaxType says whether the tax is included in quoted fees.
type GoodsAndServicesTaxType string

const (
	GoodsAndServicesTaxInclusive GoodsAndServicesTaxType = "INCLUSIVE"
	GoodsAndServicesTaxExclusive GoodsAndServicesTaxType = "EXCLUSIVE"
)

// FeeTier is the user's pricing tier, determined by notional USD volume.
// UsdFrom and UsdTo stay strings: the service separates thousands with
// commas, which no decimal parser accepts.
type FeeTier struct {
	PricingTier  string          `json:"pricing_tier"`
	UsdFrom      string          `json:"usd_from"`
	UsdTo        string          `json:"usd_to"`
	TakerFeeRate decimal.Decimal `json:"taker_fee_rate"`
	MakerFeeRate decimal.Decimal `json:"maker_fee_rate"`
}

// MarginRate is a rate kept as a string for unlimited precision.
type MarginRate struct {
	Value string `json:"value"`
}

// GoodsAndServicesTax is the tax terms applied to fees.
type GoodsAndServicesTax struct {
	Rate string                  `json:"rate"`
	Type GoodsAndServicesTaxType `json:"type"`
}

// TransactionsSummary is the user's volume and fees, denoted in USD.
type TransactionsSummary struct {
	TotalVolume             float64              `json:"total_volume"`
	TotalFees               float64              `json:"total_fees"`
	FeeTier                 FeeTier              `json:"fee_tier"`
	MarginRate              *MarginRate          `json:"margin_rate"`
	GoodsAndServicesTax     *GoodsAndServicesTax `json:"goods_and_services_tax"`
	AdvancedTradeOnlyVolume float64              `json:"advanced_trade_only_volume"`
	AdvancedTradeOnlyFees   float64              `json:"advanced_trade_only_fees"`
	CoinbaseProVolume       float64              `json:"coinbase_pro_volume"`
	CoinbaseProFees         float64              `json:"coinbase_pro_fees"`
}

// TransactionsSummaryOptions are the optional filters of
// GetTransactionsSummary.
type TransactionsSummaryOptions struct {
	StartDate          *time.Time
	EndDate            *time.Time
	UserNativeCurrency string
	ProductType        ProductType
	ContractExpiryType ContractExpiryType
}

// GetTransactionsSummary returns the user's fee tier and aggregate volume
// and fees for the given window.
func (c *Client) GetTransactionsSummary(ctx context.Context, opts *TransactionsSummaryOptions) (TransactionsSummary, error) {
	query := newQueryArgs()
	if opts != nil {
		query.
			addTime("start_date", opts.StartDate).
			addTime("end_date", opts.EndDate).
			addString("user_native_currency", opts.UserNativeCurrency).
			addString("product_type", string(opts.ProductType)).
			addString("contract_expiry_type", string(opts.ContractExpiryType))
	}

	return get[TransactionsSummary](ctx, c, query.appendTo(c.url("/brokerage/transaction_summary")))
}
