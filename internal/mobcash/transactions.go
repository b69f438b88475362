package mobcash

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

func (c *Client) History(ctx context.Context, tokens *Tokens, q HistoryQuery) (Page[Transaction], error) {
	query := url.Values{}
	if q.Page > 0 {
		query.Set("page", strconv.Itoa(q.Page))
	}
	if q.PageSize > 0 {
		query.Set("page_size", strconv.Itoa(q.PageSize))
	}
	if q.User != "" {
		query.Set("user", q.User)
	}
	if q.TypeTrans != "" {
		query.Set("type_trans", string(q.TypeTrans))
	}
	if q.Status != "" {
		query.Set("status", q.Status)
	}
	if q.Source != "" {
		query.Set("source", q.Source)
	}
	if q.Network > 0 {
		query.Set("network", strconv.Itoa(q.Network))
	}
	if q.Search != "" {
		query.Set("search", q.Search)
	}

	var out Page[Transaction]
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/mobcash/transaction-history",
		query:  query,
		tokens: tokens,
		out:    &out,
	})
	return out, err
}

func (c *Client) CreateDeposit(ctx context.Context, tokens *Tokens, in DepositRequest) (Transaction, error) {
	var out Transaction
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/mobcash/transaction-deposit",
		body:   in,
		tokens: tokens,
		out:    &out,
	})
	return out, err
}

func (c *Client) CreateWithdrawal(ctx context.Context, tokens *Tokens, in WithdrawalRequest) (Transaction, error) {
	var out Transaction
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/mobcash/transaction-withdrawal",
		body:   in,
		tokens: tokens,
		out:    &out,
	})
	return out, err
}

func (c *Client) LastTransaction(ctx context.Context, tokens *Tokens) (Transaction, error) {
	var out Transaction
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/mobcash/last-transaction",
		tokens: tokens,
		out:    &out,
	})
	return out, err
}

func (c *Client) CancelTransaction(ctx context.Context, tokens *Tokens, reference string) error {
	return c.do(ctx, request{
		method: http.MethodPost,
		path:   "/mobcash/cancel-transaction",
		body:   map[string]string{"reference": reference},
		tokens: tokens,
	})
}

// FinalizeTransaction asks the backend to settle a transaction the user has paid.
func (c *Client) FinalizeTransaction(ctx context.Context, tokens *Tokens, reference string) (Transaction, error) {
	var out Transaction
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/mobcash/finalize-transaction-user",
		body:   map[string]string{"reference": reference},
		tokens: tokens,
		out:    &out,
	})
	return out, err
}
