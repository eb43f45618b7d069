package cbadv

import (
	"context"
	"iter"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountType classifies an account.
type AccountType string

const (
	AccountTypeUnspecified AccountType = "ACCOUNT_TYPE_UNSPECIFIED"
	AccountTypeCrypto      AccountType = "ACCOUNT_TYPE_CRYPTO"
	AccountTypeFiat        AccountType = "ACCOUNT_TYPE_FIAT"
	AccountTypeVault       AccountType = "ACCOUNT_TYPE_VAULT"
)

// Balance is an amount in a single currency. The value stays decimal: the
// number of significant digits is currency dependent and arbitrary.
type Balance struct {
	Value    decimal.Decimal `json:"value"`
	Currency string          `json:"currency"`
}

// Account is one of the user's trading accounts.
type Account struct {
	UUID             uuid.UUID   `json:"uuid"`
	Name             string      `json:"name"`
	Currency         string      `json:"currency"`
	AvailableBalance Balance     `json:"available_balance"`
	Default          bool        `json:"default"`
	Active           bool        `json:"active"`
	CreatedAt        *time.Time  `json:"created_at"`
	UpdatedAt        *time.Time  `json:"updated_at"`
	DeletedAt        *time.Time  `json:"deleted_at"`
	Type             AccountType `json:"type"`
	Ready            bool        `json:"ready"`
	Hold             Balance     `json:"hold"`
}

type accountsResponse struct {
	Accounts []Account `json:"accounts"`
	HasNext  bool      `json:"has_next"`
	Cursor   string    `json:"cursor"`
	Size     int32     `json:"size"`
}

type accountResponse struct {
	Account Account `json:"account"`
}

// ListAccountsOptions are the optional parameters of ListAccounts.
type ListAccountsOptions struct {
	// Limit caps the number of accounts per page.
	Limit *int32
	// Cursor resumes listing from a previous response's cursor.
	Cursor string
}

// ListAccounts lists the user's accounts as a lazy sequence of pages. The
// service reports remaining pages through a has_next flag; iteration stops
// after the last page or when the caller breaks out.
func (c *Client) ListAccounts(ctx context.Context, opts *ListAccountsOptions) iter.Seq2[[]Account, error] {
	var limit *int32
	start := ""
	if opts != nil {
		limit = opts.Limit
		start = opts.Cursor
	}

	fetch := func(ctx context.Context, cursor string) (accountsResponse, error) {
		query := newQueryArgs().
			addInt32("limit", limit).
			addString("cursor", cursor)
		return get[accountsResponse](ctx, c, query.appendTo(c.url("/brokerage/accounts")))
	}

	return pages(ctx, start, fetch, func(resp accountsResponse) ([]Account, string, bool) {
		return resp.Accounts, resp.Cursor, resp.HasNext
	})
}

// GetAccount fetches a single account by its UUID.
func (c *Client) GetAccount(ctx context.Context, accountUUID uuid.UUID) (Account, error) {
	resp, err := get[accountResponse](ctx, c, c.url("/brokerage/accounts/"+accountUUID.String()))
	if err != nil {
		return Account{}, err
	}
	return resp.Account, nil
}
