package detect

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/gagliardetto/solana-go"

	"sandwatch/config"
	"sandwatch/types"
)

// Provider supplies raw transaction data. Implemented by the helius package;
// mocked in tests. Transport errors from FetchDetail are retried by the
// analyzer; a listing error degrades to "no activity".
type Provider interface {
	ListTransactions(ctx context.Context, tokenAddress string, limit int) ([]types.TransactionSummary, error)
	FetchDetail(ctx context.Context, signature string) (*types.TransactionDetail, error)
}

// Detector composes listing, analysis and pattern matching into one
// synchronous "detect sandwiches for token X" call.
type Detector struct {
	cfg      *config.Config
	provider Provider
	analyzer *Analyzer
	matcher  *Matcher
	logger   *slog.Logger
}

func NewDetector(provider Provider, cfg *config.Config, logger *slog.Logger) *Detector {
	classifier := NewClassifier(cfg.DexPrograms)
	return &Detector{
		cfg:      cfg,
		provider: provider,
		analyzer: NewAnalyzer(provider, classifier, cfg, logger),
		matcher:  NewMatcher(cfg.SandwichWindowSecs),
		logger:   logger,
	}
}

// ParseLookback parses a string-typed lookback limit from the outer layers.
func ParseLookback(raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 {
		return 0, Errorf(KindInvalidInput, "invalid lookback limit: %q", raw)
	}
	return n, nil
}

// Detect runs one detection for tokenAddress over up to lookbackLimit recent
// transactions. It returns either a complete DetectionResult (possibly with
// zero findings) or a structured input error; per-transaction provider
// failures never abort the call.
func (d *Detector) Detect(ctx context.Context, tokenAddress string, lookbackLimit int) (*types.DetectionResult, error) {
	if tokenAddress == "" {
		return nil, Errorf(KindInvalidInput, "token address is required")
	}
	if _, err := solana.PublicKeyFromBase58(tokenAddress); err != nil {
		return nil, Errorf(KindInvalidInput, "invalid token address %q: %v", tokenAddress, err)
	}
	if lookbackLimit <= 0 {
		return nil, Errorf(KindInvalidInput, "lookback limit must be a positive integer")
	}
	if lookbackLimit > d.cfg.MaxLookbackLimit {
		d.logger.Info("Clamping lookback limit", "requested", lookbackLimit, "max", d.cfg.MaxLookbackLimit)
		lookbackLimit = d.cfg.MaxLookbackLimit
	}

	res := &types.DetectionResult{
		TokenAddress: tokenAddress,
		Transactions: []types.ClassifiedTransaction{},
		Findings:     []types.SandwichFinding{},
	}

	d.logger.Info("Fetching recent transactions", "token", tokenAddress, "limit", lookbackLimit)
	summaries, err := d.provider.ListTransactions(ctx, tokenAddress, lookbackLimit)
	if err != nil {
		// No activity is a valid outcome; a failed listing is reported the
		// same way instead of surfacing partial data.
		d.logger.Warn("Listing transactions failed, treating as no activity", "token", tokenAddress, "err", err)
		return res, nil
	}
	if len(summaries) == 0 {
		d.logger.Info("No transactions found", "token", tokenAddress)
		return res, nil
	}

	res.Transactions = d.analyzer.Analyze(ctx, tokenAddress, summaries)
	if ctx.Err() != nil {
		return nil, Errorf(KindInternal, "detection aborted: %v", ctx.Err())
	}
	res.Findings = d.matcher.FindSandwiches(res.Transactions)

	dexCount := 0
	for _, tx := range res.Transactions {
		if tx.IsDex {
			dexCount++
		}
	}
	res.Stats = types.Stats{
		TotalTransactions: len(summaries),
		DexTransactions:   dexCount,
		PotentialAttacks:  len(res.Findings),
	}

	d.logger.Info("Detection complete", "token", tokenAddress,
		"total", res.Stats.TotalTransactions, "dex", res.Stats.DexTransactions, "findings", res.Stats.PotentialAttacks)
	return res, nil
}
