package detect

import (
	"context"
	"log/slog"
	"sync"

	"sandwatch/config"
	"sandwatch/types"
	"sandwatch/utils"
)

// Analyzer turns a listing of transaction summaries into classified
// transactions by fetching details through the provider on a bounded worker
// pool. Fetches complete in any order; the emitted sequence preserves the
// submission order because the matcher treats input order as a timestamp
// ordering proxy.
type Analyzer struct {
	provider   Provider
	classifier *Classifier
	cfg        *config.Config
	logger     *slog.Logger
}

func NewAnalyzer(provider Provider, classifier *Classifier, cfg *config.Config, logger *slog.Logger) *Analyzer {
	return &Analyzer{
		provider:   provider,
		classifier: classifier,
		cfg:        cfg,
		logger:     logger,
	}
}

type fetchTask struct {
	pos     int
	summary types.TransactionSummary
}

// Analyze fetches and classifies every distinct summary. Transactions whose
// detail cannot be fetched or decoded are dropped, never surfaced as errors.
func (a *Analyzer) Analyze(ctx context.Context, tokenAddress string, summaries []types.TransactionSummary) []types.ClassifiedTransaction {
	tasks := make([]fetchTask, 0, len(summaries))
	seen := make(map[string]struct{}, len(summaries))
	for _, s := range summaries {
		if s.Signature == "" {
			continue
		}
		if _, dup := seen[s.Signature]; dup {
			continue
		}
		seen[s.Signature] = struct{}{}
		if s.Timestamp <= 0 {
			a.logger.Warn("Dropping transaction with missing timestamp", "signature", s.Signature)
			continue
		}
		tasks = append(tasks, fetchTask{pos: len(tasks), summary: s})
	}
	if len(tasks) == 0 {
		return []types.ClassifiedTransaction{}
	}

	workers := a.cfg.FetchWorkers
	if workers <= 0 {
		workers = config.DefaultFetchWorkers
	}
	if workers > len(tasks) {
		workers = len(tasks)
	}

	queue := make(chan fetchTask, len(tasks))
	go func() {
		for _, t := range tasks {
			queue <- t
		}
		close(queue)
	}()

	// Workers write to distinct slots, so the slice needs no lock; the
	// WaitGroup is the join barrier.
	results := make([]*types.ClassifiedTransaction, len(tasks))
	var wg sync.WaitGroup
	wg.Add(workers)
	for range workers {
		go func() {
			defer wg.Done()
			for t := range queue {
				results[t.pos] = a.fetchAndClassify(ctx, tokenAddress, t.summary)
			}
		}()
	}
	wg.Wait()

	out := make([]types.ClassifiedTransaction, 0, len(tasks))
	for _, r := range results {
		if r != nil {
			out = append(out, *r)
		}
	}
	return out
}

func (a *Analyzer) fetchAndClassify(ctx context.Context, tokenAddress string, summary types.TransactionSummary) *types.ClassifiedTransaction {
	detail := a.fetchDetail(ctx, summary.Signature)
	if detail == nil {
		return nil
	}
	return &types.ClassifiedTransaction{
		Signature: summary.Signature,
		Timestamp: summary.Timestamp,
		IsDex:     a.classifier.IsDexInteraction(detail),
		Direction: a.classifier.ClassifyDirection(detail, tokenAddress),
	}
}

// fetchDetail runs the per-transaction retry state machine:
// pending -> retrying(n) -> succeeded | dropped.
func (a *Analyzer) fetchDetail(ctx context.Context, signature string) *types.TransactionDetail {
	retries := a.cfg.FetchRetries
	if retries <= 0 {
		retries = config.DefaultFetchRetries
	}

	var lastErr error
	for attempt := 1; attempt <= retries; attempt++ {
		if ctx.Err() != nil {
			a.logger.Warn("Detail fetch aborted", "signature", signature, "err", ctx.Err())
			return nil
		}

		detail, err := a.provider.FetchDetail(ctx, signature)
		if err == nil {
			if detail == nil {
				a.logger.Warn("No usable transaction detail returned", "signature", signature)
			}
			return detail
		}
		lastErr = err

		if attempt < retries {
			a.logger.Warn("Detail fetch failed, retrying...", "signature", signature, "attempt", attempt, "err", err)
			if err := utils.SleepCtx(ctx, a.cfg.FetchRetryDelay); err != nil {
				a.logger.Warn("Detail fetch aborted during backoff", "signature", signature, "err", err)
				return nil
			}
		}
	}

	a.logger.Warn("Dropping transaction after exhausted retries", "signature", signature, "attempts", retries, "err", lastErr)
	return nil
}
