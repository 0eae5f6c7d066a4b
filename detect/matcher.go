package detect

import (
	"sandwatch/config"
	"sandwatch/types"
)

// Matcher scans a time-ordered classified sequence for the three-transaction
// sandwich shape: two same-direction attacker trades flanking a victim trade,
// all within the configured window.
type Matcher struct {
	windowSecs int64
}

func NewMatcher(windowSecs int64) *Matcher {
	if windowSecs <= 0 {
		windowSecs = config.DefaultSandwichWindowSecs
	}
	return &Matcher{windowSecs: windowSecs}
}

// FindSandwiches slides a three-entry window over the DEX-classified
// subsequence. Overlapping windows are independent: a transaction may appear
// as trailer of one finding and leader of the next.
func (m *Matcher) FindSandwiches(classified []types.ClassifiedTransaction) []types.SandwichFinding {
	dexSeq := make([]types.ClassifiedTransaction, 0, len(classified))
	for _, tx := range classified {
		if tx.IsDex && tx.Direction != types.DirectionNone {
			dexSeq = append(dexSeq, tx)
		}
	}

	findings := make([]types.SandwichFinding, 0)
	for i := 1; i+1 < len(dexSeq); i++ {
		prev, curr, next := dexSeq[i-1], dexSeq[i], dexSeq[i+1]

		gapBefore := absInt64(curr.Timestamp - prev.Timestamp)
		gapAfter := absInt64(next.Timestamp - curr.Timestamp)
		if gapBefore > m.windowSecs || gapAfter > m.windowSecs {
			continue
		}

		var pattern types.PatternType
		switch {
		case prev.Direction == types.DirectionBuy && curr.Direction == types.DirectionBuy && next.Direction == types.DirectionSell:
			pattern = types.PatternBuyVictimSell
		case prev.Direction == types.DirectionSell && curr.Direction == types.DirectionSell && next.Direction == types.DirectionBuy:
			pattern = types.PatternSellVictimBuy
		default:
			continue
		}

		findings = append(findings, types.SandwichFinding{
			Pattern:   pattern,
			LeaderTx:  prev.Signature,
			VictimTx:  curr.Signature,
			TrailerTx: next.Signature,
			Timestamp: curr.Timestamp,
			GapBefore: gapBefore,
			GapAfter:  gapAfter,
		})
	}
	return findings
}

func absInt64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
