package types

import (
	"fmt"
	"time"
)

// PatternType names the direction shape of a detected sandwich.
type PatternType string

const (
	PatternBuyVictimSell PatternType = "buy-victim-sell"
	PatternSellVictimBuy PatternType = "sell-victim-buy"
)

// SandwichFinding reports one three-transaction sandwich pattern. It only
// back-references transactions by signature; timestamps and gaps are in
// seconds. Timestamp is the victim's.
type SandwichFinding struct {
	Pattern   PatternType `json:"type"`
	LeaderTx  string      `json:"leaderTx"`
	VictimTx  string      `json:"victimTx"`
	TrailerTx string      `json:"trailerTx"`
	Timestamp int64       `json:"timestamp"`
	GapBefore int64       `json:"gapBefore"`
	GapAfter  int64       `json:"gapAfter"`
}

type Stats struct {
	TotalTransactions int `json:"totalTransactions"`
	DexTransactions   int `json:"dexTransactions"`
	PotentialAttacks  int `json:"potentialAttacks"`
}

// DetectionResult is the aggregate returned for one detection call.
type DetectionResult struct {
	TokenAddress string                  `json:"tokenAddress"`
	Transactions []ClassifiedTransaction `json:"transactions"`
	Findings     []SandwichFinding       `json:"potentialSandwiches"`
	Stats        Stats                   `json:"stats"`
}

// PPFinding pretty-prints a finding with explorer links.
func PPFinding(i int, f *SandwichFinding) {
	fmt.Printf("[%d] %s at %s (gaps: %ds before, %ds after)\n",
		i, f.Pattern, time.Unix(f.Timestamp, 0).UTC().Format(time.RFC3339), f.GapBefore, f.GapAfter)
	fmt.Printf("    leader:  https://solscan.io/tx/%s\n", f.LeaderTx)
	fmt.Printf("    victim:  https://solscan.io/tx/%s\n", f.VictimTx)
	fmt.Printf("    trailer: https://solscan.io/tx/%s\n", f.TrailerTx)
}
