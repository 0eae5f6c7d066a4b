// Package helius implements the transaction provider against the Helius
// parsed-transaction HTTP API.
package helius

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"sandwatch/config"
	"sandwatch/types"
	"sandwatch/utils"
)

const DefaultDetailCacheSize = 4096

// Client fetches per-token transaction listings and parsed transaction
// details. Each call is a single HTTP attempt; the analyzer owns the retry
// policy around FetchDetail.
type Client struct {
	apiKey       string
	parseTxURL   string // POST, parses signatures into transaction details
	addressTxURL string // GET base, /{address}/transactions/ appended
	cache        *DetailCache
	logger       *slog.Logger
}

func NewClient(cfg *config.Config, logger *slog.Logger) *Client {
	return &Client{
		apiKey:       cfg.HeliusAPIKey,
		parseTxURL:   cfg.ParseTxURL,
		addressTxURL: strings.TrimSuffix(cfg.AddressTxURL, "/"),
		cache:        NewDetailCache(DefaultDetailCacheSize),
		logger:       logger,
	}
}

// ListTransactions returns up to limit recent transaction summaries for the
// token address, newest first, as the API orders them.
func (c *Client) ListTransactions(ctx context.Context, tokenAddress string, limit int) ([]types.TransactionSummary, error) {
	reqURL := fmt.Sprintf("%s/%s/transactions/", c.addressTxURL, tokenAddress)
	params := map[string]string{
		"api-key": c.apiKey,
		"limit":   strconv.Itoa(limit),
	}

	var summaries []types.TransactionSummary
	if err := utils.GetJSON(ctx, reqURL, params, &summaries, c.logger); err != nil {
		return nil, fmt.Errorf("ListTransactions %s failed: %w", tokenAddress, err)
	}
	return summaries, nil
}

// FetchDetail parses a single signature. A (nil, nil) return means the API
// had nothing usable for this signature; transport failures return an error.
func (c *Client) FetchDetail(ctx context.Context, signature string) (*types.TransactionDetail, error) {
	if d := c.cache.Get(signature); d != nil {
		return d, nil
	}

	body := map[string]any{
		"transactions": []string{signature},
		"encoding":     "jsonParsed",
	}

	var parsed []json.RawMessage
	reqURL := c.parseTxURL + "?api-key=" + c.apiKey
	if err := utils.PostJSON(ctx, reqURL, body, &parsed, c.logger); err != nil {
		return nil, fmt.Errorf("FetchDetail %s failed: %w", signature, err)
	}
	if len(parsed) == 0 {
		return nil, nil
	}

	var detail types.TransactionDetail
	if err := json.Unmarshal(parsed[0], &detail); err != nil {
		c.logger.Warn("Transaction detail has unexpected shape", "signature", signature, "err", err)
		return nil, nil
	}
	if detail.Signature == "" {
		detail.Signature = signature
	}

	c.cache.Put(signature, &detail)
	return &detail, nil
}
