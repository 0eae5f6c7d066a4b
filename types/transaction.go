package types

import (
	"encoding/json"
	"math/big"
)

// Direction of a swap relative to the target token.
type Direction string

const (
	DirectionBuy  Direction = "buy"
	DirectionSell Direction = "sell"
	DirectionNone Direction = "none"
)

// Transfer types Helius reports for SPL token movements.
const (
	TransferTypeTransfer = "transfer"
	TransferTypeMintTo   = "mintTo"
	TransferTypeBurn     = "burn"
)

// TransactionSummary is one entry of the per-address history listing.
// The identifier is the first signature of the transaction, a 64 byte
// Ed25519 signature encoded as a base-58 string.
type TransactionSummary struct {
	Signature string `json:"signature"`
	Timestamp int64  `json:"timestamp"` // unix seconds; 0 when the API omits it
}

// Instruction is the slice of a parsed instruction the classifier reads.
type Instruction struct {
	ProgramID string `json:"programId"`
}

// TokenAmount tolerates the shapes Helius puts in the tokenAmount field: an
// object carrying a string-encoded raw amount, or occasionally a bare number.
// Anything that is not an object decodes as zero.
type TokenAmount struct {
	Amount string `json:"amount"`
}

func (a *TokenAmount) UnmarshalJSON(data []byte) error {
	type plain TokenAmount
	var obj plain
	if err := json.Unmarshal(data, &obj); err != nil {
		a.Amount = "0"
		return nil
	}
	if obj.Amount == "" {
		obj.Amount = "0"
	}
	*a = TokenAmount(obj)
	return nil
}

// IsZero reports whether the amount is zero or not a decimal integer.
func (a TokenAmount) IsZero() bool {
	if a.Amount == "" || a.Amount == "0" {
		return true
	}
	n, ok := new(big.Int).SetString(a.Amount, 10)
	if !ok {
		return true
	}
	return n.Sign() == 0
}

// TokenTransfer is one SPL token movement inside a parsed transaction.
// A token is labeled by its mint address, e.g.
// USDC: EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v,
// WSOL: So11111111111111111111111111111111111111112
type TokenTransfer struct {
	Mint         string      `json:"mint"`
	TransferType string      `json:"transferType"`
	TokenAmount  TokenAmount `json:"tokenAmount"`
}

// TransactionDetail is the narrow slice of a Helius-parsed transaction the
// classifier reads. TokenTransfers stays raw on purpose: a malformed transfer
// list makes this one transaction unusable instead of failing the whole batch
// decode.
type TransactionDetail struct {
	Signature      string          `json:"signature"`
	Successful     *bool           `json:"successful"`
	Instructions   []Instruction   `json:"instructions"`
	TokenTransfers json.RawMessage `json:"tokenTransfers"`
}

// IsSuccessful treats a missing successful field as true, matching the API.
func (d *TransactionDetail) IsSuccessful() bool {
	return d.Successful == nil || *d.Successful
}

// Transfers decodes the raw transfer list. ok is false when the field is
// present but not a list of transfer objects; a missing field is an empty
// list.
func (d *TransactionDetail) Transfers() ([]TokenTransfer, bool) {
	if len(d.TokenTransfers) == 0 {
		return nil, true
	}
	var ts []TokenTransfer
	if err := json.Unmarshal(d.TokenTransfers, &ts); err != nil {
		return nil, false
	}
	return ts, true
}

// ClassifiedTransaction is the per-signature record the analyzer derives from
// a (summary, detail) pair. It lives only for the duration of one detection
// call.
type ClassifiedTransaction struct {
	Signature string    `json:"signature"`
	Timestamp int64     `json:"timestamp"`
	IsDex     bool      `json:"isDex"`
	Direction Direction `json:"direction"`
}
