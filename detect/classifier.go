package detect

import (
	MapSet "github.com/deckarep/golang-set/v2"

	"sandwatch/types"
	"sandwatch/utils"
)

// Transfer types that move the target token to the swapper, i.e. the target
// token shows up on the output side of the swap.
var swapOutputTransferTypes = []string{
	types.TransferTypeTransfer,
	types.TransferTypeMintTo,
	types.TransferTypeBurn,
}

// Classifier decides whether a parsed transaction touches a known DEX program
// and, if so, the trade direction relative to a target token. Pure
// computation, no network and no mutable state.
type Classifier struct {
	dexPrograms MapSet.Set[string]
}

func NewClassifier(dexPrograms MapSet.Set[string]) *Classifier {
	return &Classifier{dexPrograms: dexPrograms}
}

// IsDexInteraction reports whether any instruction targets a program in the
// configured DEX allow-list.
func (c *Classifier) IsDexInteraction(detail *types.TransactionDetail) bool {
	if detail == nil {
		return false
	}
	for _, ins := range detail.Instructions {
		if c.dexPrograms.Contains(ins.ProgramID) {
			return true
		}
	}
	return false
}

// ClassifyDirection scans the token transfers to determine the swap direction
// for targetToken. Failed transactions and malformed transfer lists classify
// as DirectionNone.
func (c *Classifier) ClassifyDirection(detail *types.TransactionDetail, targetToken string) types.Direction {
	if detail == nil || !detail.IsSuccessful() {
		return types.DirectionNone
	}
	transfers, ok := detail.Transfers()
	if !ok {
		return types.DirectionNone
	}

	var inputMint, outputMint string
	for _, tr := range transfers {
		if tr.Mint == targetToken {
			if tr.TokenAmount.IsZero() {
				continue
			}
			if utils.HasString(swapOutputTransferTypes, tr.TransferType) {
				outputMint = targetToken
			}
		} else {
			// Last non-target transfer wins. Multi-hop routes overwrite
			// earlier input legs; only the final leg is considered.
			inputMint = tr.Mint
		}
	}

	switch {
	case inputMint != "" && outputMint == targetToken:
		return types.DirectionBuy
	case inputMint == targetToken && outputMint != "" && outputMint != targetToken:
		return types.DirectionSell
	}
	return types.DirectionNone
}
