package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenAmount_DecodesObject(t *testing.T) {
	var tr TokenTransfer
	require.NoError(t, json.Unmarshal([]byte(`{"mint":"m","tokenAmount":{"amount":"1234"}}`), &tr))
	assert.Equal(t, "1234", tr.TokenAmount.Amount)
	assert.False(t, tr.TokenAmount.IsZero())
}

func TestTokenAmount_NonObjectDecodesAsZero(t *testing.T) {
	for _, raw := range []string{
		`{"tokenAmount": 12.5}`,
		`{"tokenAmount": "12"}`,
		`{"tokenAmount": [1]}`,
	} {
		var tr TokenTransfer
		require.NoError(t, json.Unmarshal([]byte(raw), &tr), "input %s", raw)
		assert.True(t, tr.TokenAmount.IsZero(), "input %s", raw)
	}
}

func TestTokenAmount_IsZero(t *testing.T) {
	assert.True(t, TokenAmount{}.IsZero())
	assert.True(t, TokenAmount{Amount: "0"}.IsZero())
	assert.True(t, TokenAmount{Amount: "000"}.IsZero())
	assert.True(t, TokenAmount{Amount: "not-a-number"}.IsZero())
	assert.False(t, TokenAmount{Amount: "1"}.IsZero())
	// Amounts can exceed uint64.
	assert.False(t, TokenAmount{Amount: "340282366920938463463374607431768211456"}.IsZero())
}

func TestTransactionDetail_IsSuccessful(t *testing.T) {
	assert.True(t, (&TransactionDetail{}).IsSuccessful())

	ok := true
	assert.True(t, (&TransactionDetail{Successful: &ok}).IsSuccessful())

	failed := false
	assert.False(t, (&TransactionDetail{Successful: &failed}).IsSuccessful())
}

func TestTransactionDetail_Transfers(t *testing.T) {
	d := &TransactionDetail{TokenTransfers: json.RawMessage(`[{"mint":"m","transferType":"transfer","tokenAmount":{"amount":"5"}}]`)}
	ts, ok := d.Transfers()
	require.True(t, ok)
	require.Len(t, ts, 1)
	assert.Equal(t, "m", ts[0].Mint)
	assert.Equal(t, TransferTypeTransfer, ts[0].TransferType)

	missing := &TransactionDetail{}
	ts, ok = missing.Transfers()
	assert.True(t, ok)
	assert.Empty(t, ts)

	malformed := &TransactionDetail{TokenTransfers: json.RawMessage(`{"not":"a list"}`)}
	_, ok = malformed.Transfers()
	assert.False(t, ok)
}

func TestTransactionDetail_DecodeIgnoresUnknownFields(t *testing.T) {
	raw := `{
		"signature": "sig1",
		"successful": true,
		"fee": 5000,
		"instructions": [{"programId": "prog1", "accounts": ["a", "b"]}],
		"tokenTransfers": [],
		"nativeTransfers": [{"amount": 1}]
	}`
	var d TransactionDetail
	require.NoError(t, json.Unmarshal([]byte(raw), &d))
	assert.Equal(t, "sig1", d.Signature)
	require.Len(t, d.Instructions, 1)
	assert.Equal(t, "prog1", d.Instructions[0].ProgramID)
}
