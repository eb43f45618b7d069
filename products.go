package cbadv

import (
	"context"
	"net/url"
	"time"

	"github.com/shopspring/decimal"
)

// ProductType distinguishes spot and futures products.
type ProductType string

const (
	ProductTypeSpot   ProductType = "SPOT"
	ProductTypeFuture ProductType = "FUTURE"
)

// ContractExpiryType filters futures products by expiry style.
type ContractExpiryType string

const (
	ContractExpiryTypeUnknown  ContractExpiryType = "UNKNOWN_CONTRACT_EXPIRY_TYPE"
	ContractExpiryTypeExpiring ContractExpiryType = "EXPIRING"
)

// Granularity is the candle bucket width.
type Granularity string

const (
	GranularityUnknown       Granularity = "UNKNOWN_GRANULARITY"
	GranularityOneMinute     Granularity = "ONE_MINUTE"
	GranularityFiveMinute    Granularity = "FIVE_MINUTE"
	GranularityFifteenMinute Granularity = "FIFTEEN_MINUTE"
	GranularityThirtyMinute  Granularity = "THIRTY_MINUTE"
	GranularityOneHour       Granularity = "ONE_HOUR"
	GranularityTwoHour       Granularity = "TWO_HOUR"
	GranularitySixHour       Granularity = "SIX_HOUR"
	GranularityOneDay        Granularity = "ONE_DAY"
)

// Side is the direction of an order or trade.
type Side string

const (
	SideUnknown Side = "UNKNOWN_ORDER_SIDE"
	SideBuy     Side = "BUY"
	SideSell    Side = "SELL"
)

// TradeType classifies how a fill came about.
type TradeType string

const (
	TradeTypeFill       TradeType = "FILL"
	TradeTypeReversal   TradeType = "REVERSAL"
	TradeTypeCorrection TradeType = "CORRECTION"
	TradeTypeSynthetic  TradeType = "SYNTHETIC"
)

// PriceLevel is one entry of an order book side.
type PriceLevel struct {
	Price decimal.Decimal `json:"price"`
	Size  decimal.Decimal `json:"size"`
}

// Pricebook is a snapshot of the order book for one product.
type Pricebook struct {
	ProductID string       `json:"product_id"`
	Bids      []PriceLevel `json:"bids"`
	Asks      []PriceLevel `json:"asks"`
	Time      time.Time    `json:"time"`
}

// FCMTradingSessionDetails describes the trading session of an FCM-managed
// futures product.
type FCMTradingSessionDetails struct {
	IsSessionOpen bool       `json:"is_session_open"`
	OpenTime      time.Time  `json:"open_time"`
	CloseTime     *time.Time `json:"close_time"`
}

// PerpetualDetails describes the funding terms of a perpetual future.
type PerpetualDetails struct {
	OpenInterest string     `json:"open_interest"`
	FundingRate  string     `json:"funding_rate"`
	FundingTime  *time.Time `json:"funding_time"`
}

// FutureProductDetails describes the contract terms of a futures product.
type FutureProductDetails struct {
	Venue                  string           `json:"venue"`
	ContractCode           string           `json:"contract_code"`
	ContractExpiry         time.Time        `json:"contract_expiry"`
	ContractSize           string           `json:"contract_size"`
	ContractRootUnit       string           `json:"contract_root_unit"`
	GroupDescription       string           `json:"group_description"`
	ContractExpiryTimezone string           `json:"contract_expiry_timezone"`
	GroupShortDescription  string           `json:"group_short_description"`
	RiskManagedBy          string           `json:"risk_managed_by"`
	ContractExpiryType     string           `json:"contract_expiry_type"`
	PerpetualDetails       PerpetualDetails `json:"perpetual_details"`
	ContractDisplayName    string           `json:"contract_display_name"`
}

// Product is one trading pair. Price and the 24h statistics use NullDecimal:
// when no data is available the service sends sometimes null, sometimes "".
type Product struct {
	ProductID                 string                    `json:"product_id"`
	Price                     NullDecimal               `json:"price"`
	PricePercentageChange24h  NullDecimal               `json:"price_percentage_change_24h"`
	Volume24h                 NullDecimal               `json:"volume_24h"`
	VolumePercentageChange24h NullDecimal               `json:"volume_percentage_change_24h"`
	BaseIncrement             decimal.Decimal           `json:"base_increment"`
	QuoteIncrement            decimal.Decimal           `json:"quote_increment"`
	QuoteMinSize              decimal.Decimal           `json:"quote_min_size"`
	QuoteMaxSize              decimal.Decimal           `json:"quote_max_size"`
	BaseMinSize               decimal.Decimal           `json:"base_min_size"`
	BaseMaxSize               decimal.Decimal           `json:"base_max_size"`
	BaseName                  string                    `json:"base_name"`
	QuoteName                 string                    `json:"quote_name"`
	Watched                   bool                      `json:"watched"`
	IsDisabled                bool                      `json:"is_disabled"`
	New                       bool                      `json:"new"`
	Status                    string                    `json:"status"`
	CancelOnly                bool                      `json:"cancel_only"`
	LimitOnly                 bool                      `json:"limit_only"`
	PostOnly                  bool                      `json:"post_only"`
	TradingDisabled           bool                      `json:"trading_disabled"`
	AuctionMode               bool                      `json:"auction_mode"`
	ProductType               ProductType               `json:"product_type"`
	QuoteCurrencyID           string                    `json:"quote_currency_id"`
	BaseCurrencyID            string                    `json:"base_currency_id"`
	FCMTradingSessionDetails  *FCMTradingSessionDetails `json:"fcm_trading_session_details"`
	MidMarketPrice            string                    `json:"mid_market_price"`
	Alias                     string                    `json:"alias"`
	AliasTo                   []string                  `json:"alias_to"`
	BaseDisplaySymbol         string                    `json:"base_display_symbol"`
	QuoteDisplaySymbol        string                    `json:"quote_display_symbol"`
	ViewOnly                  bool                      `json:"view_only"`
	PriceIncrement            decimal.Decimal           `json:"price_increment"`
	FutureProductDetails      *FutureProductDetails     `json:"future_product_details"`
}

// Candle is one OHLCV bucket. Start is the bucket start in UNIX seconds, as
// the service sends it.
type Candle struct {
	Start  string          `json:"start"`
	Low    decimal.Decimal `json:"low"`
	High   decimal.Decimal `json:"high"`
	Open   decimal.Decimal `json:"open"`
	Close  decimal.Decimal `json:"close"`
	Volume decimal.Decimal `json:"volume"`
}

// Trade is one public market trade. Bid and Ask are plain strings: the
// service returns "" for them more often than not.
type Trade struct {
	TradeID   string          `json:"trade_id"`
	ProductID string          `json:"product_id"`
	Price     decimal.Decimal `json:"price"`
	Size      decimal.Decimal `json:"size"`
	Time      time.Time       `json:"time"`
	Side      Side            `json:"side"`
	Bid       *string         `json:"bid"`
	Ask       *string         `json:"ask"`
}

// MarketTrades is a page of public trades plus the touch prices.
type MarketTrades struct {
	Trades  []Trade         `json:"trades"`
	BestBid decimal.Decimal `json:"best_bid"`
	BestAsk decimal.Decimal `json:"best_ask"`
}

type productsResponse struct {
	Products    []Product `json:"products"`
	NumProducts int32     `json:"num_products"`
}

type pricebooksResponse struct {
	Pricebooks []Pricebook `json:"pricebooks"`
}

type pricebookResponse struct {
	Pricebook Pricebook `json:"pricebook"`
}

type candlesResponse struct {
	Candles []Candle `json:"candles"`
}

// ListProductsOptions are the optional filters of ListProducts.
type ListProductsOptions struct {
	Limit              *int32
	Offset             *int32
	ProductType        ProductType
	ProductIDs         []string
	ContractExpiryType ContractExpiryType
}

// ListProducts lists the products available for trading. The endpoint is not
// cursor paginated; Limit and Offset slice the full list.
func (c *Client) ListProducts(ctx context.Context, opts *ListProductsOptions) ([]Product, error) {
	query := newQueryArgs()
	if opts != nil {
		query.
			addInt32("limit", opts.Limit).
			addInt32("offset", opts.Offset).
			addString("product_type", string(opts.ProductType)).
			addList("product_ids", opts.ProductIDs).
			addString("contract_expiry_type", string(opts.ContractExpiryType))
	}

	resp, err := get[productsResponse](ctx, c, query.appendTo(c.url("/brokerage/products")))
	if err != nil {
		return nil, err
	}
	return resp.Products, nil
}

// GetProduct fetches a single product by trading pair, e.g. "BTC-USD".
func (c *Client) GetProduct(ctx context.Context, productID string) (Product, error) {
	return get[Product](ctx, c, c.url("/brokerage/products/"+url.PathEscape(productID)))
}

// GetBestBidAsk returns the best bid and ask across the given products, or
// across all products when productIDs is empty.
func (c *Client) GetBestBidAsk(ctx context.Context, productIDs []string) ([]Pricebook, error) {
	query := newQueryArgs().addList("product_ids", productIDs)

	resp, err := get[pricebooksResponse](ctx, c, query.appendTo(c.url("/brokerage/best_bid_ask")))
	if err != nil {
		return nil, err
	}
	return resp.Pricebooks, nil
}

// GetProductBook returns an order book snapshot for one product, at most
// limit levels per side when limit is non-nil.
func (c *Client) GetProductBook(ctx context.Context, productID string, limit *int32) (Pricebook, error) {
	query := newQueryArgs().
		addString("product_id", productID).
		addInt32("limit", limit)

	resp, err := get[pricebookResponse](ctx, c, query.appendTo(c.url("/brokerage/product_book")))
	if err != nil {
		return Pricebook{}, err
	}
	return resp.Pricebook, nil
}

// GetProductCandles returns OHLCV candles for one product between start and
// end. The endpoint expects the bounds in UNIX seconds.
func (c *Client) GetProductCandles(ctx context.Context, productID string, start, end time.Time, granularity Granularity) ([]Candle, error) {
	query := newQueryArgs().
		addUnix("start", start).
		addUnix("end", end).
		addString("granularity", string(granularity))

	resp, err := get[candlesResponse](ctx, c, query.appendTo(c.url("/brokerage/products/"+url.PathEscape(productID)+"/candles")))
	if err != nil {
		return nil, err
	}
	return resp.Candles, nil
}

// GetMarketTrades returns the most recent public trades for one product,
// newest first, capped at limit.
func (c *Client) GetMarketTrades(ctx context.Context, productID string, limit int32) (MarketTrades, error) {
	query := newQueryArgs().addInt32("limit", &limit)

	return get[MarketTrades](ctx, c, query.appendTo(c.url("/brokerage/products/"+url.PathEscape(productID)+"/ticker")))
}
