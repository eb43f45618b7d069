package cbadv

import (
	"context"
	"fmt"
	"iter"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusOpen      OrderStatus = "OPEN"
	OrderStatusFilled    OrderStatus = "FILLED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
	OrderStatusExpired   OrderStatus = "EXPIRED"
	OrderStatusFailed    OrderStatus = "FAILED"
	OrderStatusUnknown   OrderStatus = "UNKNOWN_ORDER_STATUS"
)

// TimeInForce is how long an order stays working.
type TimeInForce string

const (
	TimeInForceUnknown            TimeInForce = "UNKNOWN_TIME_IN_FORCE"
	TimeInForceGoodUntilDateTime  TimeInForce = "GOOD_UNTIL_DATE_TIME"
	TimeInForceGoodUntilCancelled TimeInForce = "GOOD_UNTIL_CANCELLED"
	TimeInForceImmediateOrCancel  TimeInForce = "IMMEDIATE_OR_CANCEL"
	TimeInForceFillOrKill         TimeInForce = "FILL_OR_KILL"
)

// TriggerStatus is the stop trigger state of an order.
type TriggerStatus string

const (
	TriggerStatusUnknown          TriggerStatus = "UNKNOWN_TRIGGER_STATUS"
	TriggerStatusInvalidOrderType TriggerStatus = "INVALID_ORDER_TYPE"
	TriggerStatusStopPending      TriggerStatus = "STOP_PENDING"
	TriggerStatusStopTriggered    TriggerStatus = "STOP_TRIGGERED"
)

// OrderType is the execution style of an order.
type OrderType string

const (
	OrderTypeUnknown   OrderType = "UNKNOWN_ORDER_TYPE"
	OrderTypeMarket    OrderType = "MARKET"
	OrderTypeLimit     OrderType = "LIMIT"
	OrderTypeStop      OrderType = "STOP"
	OrderTypeStopLimit OrderType = "STOP_LIMIT"
)

// StopDirection is which way the last trade price must move to trigger a
// stop order.
type StopDirection string

const (
	StopDirectionUnknown StopDirection = "UNKNOWN_STOP_DIRECTION"
	StopDirectionUp      StopDirection = "STOP_DIRECTION_STOP_UP"
	StopDirectionDown    StopDirection = "STOP_DIRECTION_STOP_DOWN"
)

// RejectReason is why an order was rejected.
type RejectReason string

const RejectReasonUnspecified RejectReason = "REJECT_REASON_UNSPECIFIED"

// OrderPlacementSource is which product surface placed the order.
type OrderPlacementSource string

const (
	OrderPlacementSourceRetailSimple   OrderPlacementSource = "RETAIL_SIMPLE"
	OrderPlacementSourceRetailAdvanced OrderPlacementSource = "RETAIL_ADVANCED"
)

// LiquidityIndicator says whether a fill made or took liquidity.
type LiquidityIndicator string

const (
	LiquidityIndicatorUnknown LiquidityIndicator = "UNKNOWN_LIQUIDITY_INDICATOR"
	LiquidityIndicatorMaker   LiquidityIndicator = "MAKER"
	LiquidityIndicatorTaker   LiquidityIndicator = "TAKER"
)

// MarketOrderConfig is a market order sized in quote currency for buys and
// base currency for sells.
type MarketOrderConfig struct {
	QuoteSize *decimal.Decimal `json:"quote_size,omitempty"`
	BaseSize  *decimal.Decimal `json:"base_size,omitempty"`
}

// LimitOrderConfig is a limit order. EndTime applies to good-til-date orders
// only.
type LimitOrderConfig struct {
	BaseSize   decimal.Decimal `json:"base_size"`
	LimitPrice decimal.Decimal `json:"limit_price"`
	EndTime    *time.Time      `json:"end_time,omitempty"`
	PostOnly   *bool           `json:"post_only,omitempty"`
}

// StopLimitOrderConfig is a stop-limit order. The stop triggers when the
// last trade price crosses StopPrice in StopDirection; EndTime applies to
// good-til-date orders only.
type StopLimitOrderConfig struct {
	BaseSize      decimal.Decimal `json:"base_size"`
	LimitPrice    decimal.Decimal `json:"limit_price"`
	StopPrice     decimal.Decimal `json:"stop_price"`
	StopDirection StopDirection   `json:"stop_direction"`
	EndTime       *time.Time      `json:"end_time,omitempty"`
}

// OrderConfiguration holds the one execution variant an order uses. A struct
// of pointers rather than a sum type so responses decode directly; exactly
// one field is non-nil in practice.
type OrderConfiguration struct {
	MarketIOC    *MarketOrderConfig    `json:"market_market_ioc,omitempty"`
	LimitGTC     *LimitOrderConfig     `json:"limit_limit_gtc,omitempty"`
	LimitGTD     *LimitOrderConfig     `json:"limit_limit_gtd,omitempty"`
	StopLimitGTC *StopLimitOrderConfig `json:"stop_limit_stop_limit_gtc,omitempty"`
	StopLimitGTD *StopLimitOrderConfig `json:"stop_limit_stop_limit_gtd,omitempty"`
}

// Order is a historical order as the service reports it. The filled-amount
// fields stay strings: their precision is arbitrary and some responses leave
// them empty.
type Order struct {
	OrderID              string               `json:"order_id"`
	ProductID            string               `json:"product_id"`
	UserID               string               `json:"user_id"`
	OrderConfiguration   OrderConfiguration   `json:"order_configuration"`
	Side                 Side                 `json:"side"`
	ClientOrderID        string               `json:"client_order_id"`
	Status               OrderStatus          `json:"status"`
	TimeInForce          TimeInForce          `json:"time_in_force"`
	CreatedTime          time.Time            `json:"created_time"`
	CompletionPercentage string               `json:"completion_percentage"`
	FilledSize           string               `json:"filled_size"`
	AverageFilledPrice   string               `json:"average_filled_price"`
	Fee                  string               `json:"fee"`
	NumberOfFills        string               `json:"number_of_fills"`
	FilledValue          string               `json:"filled_value"`
	PendingCancel        bool                 `json:"pending_cancel"`
	SizeInQuote          bool                 `json:"size_in_quote"`
	TotalFees            string               `json:"total_fees"`
	SizeInclusiveOfFees  bool                 `json:"size_inclusive_of_fees"`
	TotalValueAfterFees  string               `json:"total_value_after_fees"`
	TriggerStatus        TriggerStatus        `json:"trigger_status"`
	OrderType            OrderType            `json:"order_type"`
	RejectReason         RejectReason         `json:"reject_reason"`
	Settled              bool                 `json:"settled"`
	ProductType          ProductType          `json:"product_type"`
	RejectMessage        *string              `json:"reject_message"`
	CancelMessage        *string              `json:"cancel_message"`
	OrderPlacementSource OrderPlacementSource `json:"order_placement_source"`
	OutstandingHold      string               `json:"outstanding_hold_amount"`
	IsLiquidation        bool                 `json:"is_liquidation"`
}

// Fill is one execution of an order.
type Fill struct {
	EntryID            string             `json:"entry_id"`
	TradeID            string             `json:"trade_id"`
	OrderID            string             `json:"order_id"`
	TradeTime          time.Time          `json:"trade_time"`
	TradeType          TradeType          `json:"trade_type"`
	Price              string             `json:"price"`
	Size               string             `json:"size"`
	Commission         string             `json:"commission"`
	ProductID          string             `json:"product_id"`
	SequenceTimestamp  time.Time          `json:"sequence_timestamp"`
	LiquidityIndicator LiquidityIndicator `json:"liquidity_indicator"`
	SizeInQuote        bool               `json:"size_in_quote"`
	UserID             string             `json:"user_id"`
	Side               Side               `json:"side"`
}

type ordersResponse struct {
	Orders   []Order `json:"orders"`
	Sequence string  `json:"sequence"`
	HasNext  bool    `json:"has_next"`
	Cursor   string  `json:"cursor"`
}

type orderResponse struct {
	Order Order `json:"order"`
}

// The fills endpoint has no has_next flag; an empty cursor marks the last
// page.
type fillsResponse struct {
	Fills  []Fill `json:"fills"`
	Cursor string `json:"cursor"`
}

// NewOrder is the payload of CreateOrder. Build one with the constructors
// below; they fill in a fresh client order ID and the right configuration
// variant.
type NewOrder struct {
	ClientOrderID      string             `json:"client_order_id"`
	ProductID          string             `json:"product_id"`
	Side               Side               `json:"side"`
	OrderConfiguration OrderConfiguration `json:"order_configuration"`
}

func newOrderSkeleton(productID string, side Side) (*NewOrder, error) {
	if side != SideBuy && side != SideSell {
		return nil, fmt.Errorf("order side must be %s or %s, got %q", SideBuy, SideSell, side)
	}
	return &NewOrder{
		ClientOrderID: uuid.NewString(),
		ProductID:     productID,
		Side:          side,
	}, nil
}

// NewMarketOrder builds an immediate-or-cancel market order. The size is in
// quote currency for buys and base currency for sells.
func NewMarketOrder(productID string, side Side, size decimal.Decimal) (*NewOrder, error) {
	order, err := newOrderSkeleton(productID, side)
	if err != nil {
		return nil, err
	}

	config := &MarketOrderConfig{}
	if side == SideBuy {
		config.QuoteSize = &size
	} else {
		config.BaseSize = &size
	}
	order.OrderConfiguration.MarketIOC = config
	return order, nil
}

// NewLimitOrderGTC builds a good-til-cancelled limit order.
func NewLimitOrderGTC(productID string, side Side, baseSize, limitPrice decimal.Decimal, postOnly bool) (*NewOrder, error) {
	order, err := newOrderSkeleton(productID, side)
	if err != nil {
		return nil, err
	}

	order.OrderConfiguration.LimitGTC = &LimitOrderConfig{
		BaseSize:   baseSize,
		LimitPrice: limitPrice,
		PostOnly:   &postOnly,
	}
	return order, nil
}

// NewLimitOrderGTD builds a limit order that is cancelled at endTime if not
// filled.
func NewLimitOrderGTD(productID string, side Side, baseSize, limitPrice decimal.Decimal, endTime time.Time, postOnly bool) (*NewOrder, error) {
	order, err := newOrderSkeleton(productID, side)
	if err != nil {
		return nil, err
	}

	order.OrderConfiguration.LimitGTD = &LimitOrderConfig{
		BaseSize:   baseSize,
		LimitPrice: limitPrice,
		EndTime:    &endTime,
		PostOnly:   &postOnly,
	}
	return order, nil
}

// NewStopLimitOrderGTC builds a good-til-cancelled stop-limit order.
func NewStopLimitOrderGTC(productID string, side Side, baseSize, limitPrice, stopPrice decimal.Decimal, direction StopDirection) (*NewOrder, error) {
	order, err := newOrderSkeleton(productID, side)
	if err != nil {
		return nil, err
	}

	order.OrderConfiguration.StopLimitGTC = &StopLimitOrderConfig{
		BaseSize:      baseSize,
		LimitPrice:    limitPrice,
		StopPrice:     stopPrice,
		StopDirection: direction,
	}
	return order, nil
}

// NewStopLimitOrderGTD builds a stop-limit order that is cancelled at
// endTime if not filled.
func NewStopLimitOrderGTD(productID string, side Side, baseSize, limitPrice, stopPrice decimal.Decimal, direction StopDirection, endTime time.Time) (*NewOrder, error) {
	order, err := newOrderSkeleton(productID, side)
	if err != nil {
		return nil, err
	}

	order.OrderConfiguration.StopLimitGTD = &StopLimitOrderConfig{
		BaseSize:      baseSize,
		LimitPrice:    limitPrice,
		StopPrice:     stopPrice,
		StopDirection: direction,
		EndTime:       &endTime,
	}
	return order, nil
}

// CreateOrderFailureReason is why order creation was refused.
type CreateOrderFailureReason string

const (
	CreateOrderFailureUnknown                       CreateOrderFailureReason = "UNKNOWN_FAILURE_REASON"
	CreateOrderFailureUnsupportedOrderConfiguration CreateOrderFailureReason = "UNSUPPORTED_ORDER_CONFIGURATION"
	CreateOrderFailureInvalidSide                   CreateOrderFailureReason = "INVALID_SIDE"
	CreateOrderFailureInvalidProductID              CreateOrderFailureReason = "INVALID_PRODUCT_ID"
	CreateOrderFailureInvalidSizePrecision          CreateOrderFailureReason = "INVALID_SIZE_PRECISION"
	CreateOrderFailureInvalidPricePrecision         CreateOrderFailureReason = "INVALID_PRICE_PRECISION"
	CreateOrderFailureInsufficientFund              CreateOrderFailureReason = "INSUFFICIENT_FUND"
	CreateOrderFailureInvalidLedgerBalance          CreateOrderFailureReason = "INVALID_LEDGER_BALANCE"
	CreateOrderFailureOrderEntryDisabled            CreateOrderFailureReason = "ORDER_ENTRY_DISABLED"
	CreateOrderFailureIneligiblePair                CreateOrderFailureReason = "INELIGIBLE_PAIR"
	CreateOrderFailureInvalidLimitPricePostOnly     CreateOrderFailureReason = "INVALID_LIMIT_PRICE_POST_ONLY"
	CreateOrderFailureInvalidLimitPrice             CreateOrderFailureReason = "INVALID_LIMIT_PRICE"
	CreateOrderFailureInvalidNoLiquidity            CreateOrderFailureReason = "INVALID_NO_LIQUIDITY"
	CreateOrderFailureInvalidRequest                CreateOrderFailureReason = "INVALID_REQUEST"
	CreateOrderFailureCommanderRejectedNewOrder     CreateOrderFailureReason = "COMMANDER_REJECTED_NEW_ORDER"
	CreateOrderFailureInsufficientFunds             CreateOrderFailureReason = "INSUFFICIENT_FUNDS"
)

// PreviewFailureReason is why an order preview was refused. The value space
// is large and grows upstream, so it stays an open string type.
type PreviewFailureReason string

// CancelOrderFailureReason is why an order cancellation was refused.
type CancelOrderFailureReason string

const (
	CancelOrderFailureUnknown                 CancelOrderFailureReason = "UNKNOWN_CANCEL_FAILURE_REASON"
	CancelOrderFailureInvalidCancelRequest    CancelOrderFailureReason = "INVALID_CANCEL_REQUEST"
	CancelOrderFailureUnknownCancelOrder      CancelOrderFailureReason = "UNKNOWN_CANCEL_ORDER"
	CancelOrderFailureCommanderRejectedCancel CancelOrderFailureReason = "COMMANDER_REJECTED_CANCEL_ORDER"
	CancelOrderFailureDuplicateCancelRequest  CancelOrderFailureReason = "DUPLICATE_CANCEL_REQUEST"
)

// OrderSuccessDetail is the success branch of a CreateOrder response.
type OrderSuccessDetail struct {
	OrderID       string `json:"order_id"`
	ProductID     string `json:"product_id"`
	Side          Side   `json:"side"`
	ClientOrderID string `json:"client_order_id"`
}

// OrderErrorDetail is the failure branch of a CreateOrder response.
type OrderErrorDetail struct {
	Error                 CreateOrderFailureReason `json:"error"`
	Message               string                   `json:"message"`
	ErrorDetails          string                   `json:"error_details"`
	PreviewFailureReason  PreviewFailureReason     `json:"preview_failure_reason"`
	NewOrderFailureReason CreateOrderFailureReason `json:"new_order_failure_reason"`
}

// CreateOrderResponse reports whether the order was accepted. The service
// answers 200 either way; check Success.
type CreateOrderResponse struct {
	Success            bool                     `json:"success"`
	FailureReason      CreateOrderFailureReason `json:"failure_reason"`
	OrderID            string                   `json:"order_id"`
	SuccessResponse    *OrderSuccessDetail      `json:"success_response"`
	ErrorResponse      *OrderErrorDetail        `json:"error_response"`
	OrderConfiguration OrderConfiguration       `json:"order_configuration"`
}

// CancelOrderResult is the per-order outcome of a CancelOrders call.
type CancelOrderResult struct {
	Success       bool                      `json:"success"`
	FailureReason *CancelOrderFailureReason `json:"failure_reason"`
	OrderID       string                    `json:"order_id"`
}

type cancelOrdersResponse struct {
	Results []CancelOrderResult `json:"results"`
}

type cancelOrdersRequest struct {
	OrderIDs []string `json:"order_ids"`
}

// ListOrdersOptions are the optional filters of ListOrders.
type ListOrdersOptions struct {
	ProductID   string
	OrderStatus []OrderStatus
	Limit       *int32
	StartDate   *time.Time
	EndDate     *time.Time
	// UserNativeCurrency is deprecated upstream but still accepted.
	UserNativeCurrency   string
	OrderType            OrderType
	OrderSide            Side
	Cursor               string
	ProductType          ProductType
	OrderPlacementSource OrderPlacementSource
	ContractExpiryType   ContractExpiryType
}

// ListOrders lists historical orders as a lazy sequence of pages, filtered
// by opts. Like ListAccounts, the service reports remaining pages through a
// has_next flag.
func (c *Client) ListOrders(ctx context.Context, opts *ListOrdersOptions) iter.Seq2[[]Order, error] {
	if opts == nil {
		opts = &ListOrdersOptions{}
	}

	statuses := make([]string, 0, len(opts.OrderStatus))
	for _, status := range opts.OrderStatus {
		statuses = append(statuses, string(status))
	}

	fetch := func(ctx context.Context, cursor string) (ordersResponse, error) {
		query := newQueryArgs().
			addString("product_id", opts.ProductID).
			addList("order_status", statuses).
			addInt32("limit", opts.Limit).
			addTime("start_date", opts.StartDate).
			addTime("end_date", opts.EndDate).
			addString("user_native_currency", opts.UserNativeCurrency).
			addString("order_type", string(opts.OrderType)).
			addString("order_side", string(opts.OrderSide)).
			addString("cursor", cursor).
			addString("product_type", string(opts.ProductType)).
			addString("order_placement_source", string(opts.OrderPlacementSource)).
			addString("contract_expiry_type", string(opts.ContractExpiryType))
		return get[ordersResponse](ctx, c, query.appendTo(c.url("/brokerage/orders/historical/batch")))
	}

	return pages(ctx, opts.Cursor, fetch, func(resp ordersResponse) ([]Order, string, bool) {
		return resp.Orders, resp.Cursor, resp.HasNext
	})
}

// ListFillsOptions are the optional filters of ListFills.
type ListFillsOptions struct {
	OrderID                string
	ProductID              string
	StartSequenceTimestamp *time.Time
	EndSequenceTimestamp   *time.Time
	// Limit is 64-bit here and 32-bit everywhere else, mirroring the API
	// reference.
	Limit  *int64
	Cursor string
}

// ListFills lists order executions as a lazy sequence of pages. This
// endpoint has no has_next flag; an empty cursor in the response marks the
// last page.
func (c *Client) ListFills(ctx context.Context, opts *ListFillsOptions) iter.Seq2[[]Fill, error] {
	if opts == nil {
		opts = &ListFillsOptions{}
	}

	fetch := func(ctx context.Context, cursor string) (fillsResponse, error) {
		query := newQueryArgs().
			addString("order_id", opts.OrderID).
			addString("product_id", opts.ProductID).
			addTime("start_sequence_timestamp", opts.StartSequenceTimestamp).
			addTime("end_sequence_timestamp", opts.EndSequenceTimestamp).
			addInt64("limit", opts.Limit).
			addString("cursor", cursor)
		return get[fillsResponse](ctx, c, query.appendTo(c.url("/brokerage/orders/historical/fills")))
	}

	return pages(ctx, opts.Cursor, fetch, func(resp fillsResponse) ([]Fill, string, bool) {
		return resp.Fills, resp.Cursor, resp.Cursor != ""
	})
}

// GetOrder fetches a single order by its ID.
func (c *Client) GetOrder(ctx context.Context, orderID string) (Order, error) {
	resp, err := get[orderResponse](ctx, c, c.url("/brokerage/orders/historical/"+url.PathEscape(orderID)))
	if err != nil {
		return Order{}, err
	}
	return resp.Order, nil
}

// CreateOrder submits a new order.
//
// Warning: a successful call moves real funds.
func (c *Client) CreateOrder(ctx context.Context, order *NewOrder) (CreateOrderResponse, error) {
	return post[CreateOrderResponse](ctx, c, c.url("/brokerage/orders"), order)
}

// CancelOrders requests cancellation of the given orders and returns one
// result per order.
//
// Warning: cancelling the wrong order can move real funds.
func (c *Client) CancelOrders(ctx context.Context, orderIDs []string) ([]CancelOrderResult, error) {
	resp, err := post[cancelOrdersResponse](ctx, c, c.url("/brokerage/orders/batch_cancel"), cancelOrdersRequest{OrderIDs: orderIDs})
	if err != nil {
		return nil, err
	}
	return resp.Results, nil
}
