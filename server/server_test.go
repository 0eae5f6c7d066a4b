package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	MapSet "github.com/deckarep/golang-set/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sandwatch/config"
	"sandwatch/detect"
	"sandwatch/types"
)

const (
	testDexProgram = "675kPX9MHTjS2zt1qfr1NYHuzeLXfQM9H24wFSUt1Mp8"
	testToken      = "So11111111111111111111111111111111111111112"
)

type stubProvider struct {
	summaries []types.TransactionSummary
	details   map[string]*types.TransactionDetail
	lastLimit int
}

func (p *stubProvider) ListTransactions(ctx context.Context, tokenAddress string, limit int) ([]types.TransactionSummary, error) {
	p.lastLimit = limit
	return p.summaries, nil
}

func (p *stubProvider) FetchDetail(ctx context.Context, signature string) (*types.TransactionDetail, error) {
	return p.details[signature], nil
}

func newTestServer(provider detect.Provider) (*Server, *config.Config) {
	cfg := &config.Config{
		DexPrograms:          MapSet.NewSet(testDexProgram),
		DefaultLookbackLimit: 100,
		MaxLookbackLimit:     1000,
		SandwichWindowSecs:   30,
		FetchWorkers:         2,
		FetchRetries:         1,
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(detect.NewDetector(provider, cfg, logger), cfg, logger), cfg
}

func postAnalyze(t *testing.T, handler http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/analyze", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

func TestHealthz(t *testing.T) {
	s, _ := newTestServer(&stubProvider{})
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestAnalyze_MissingTokenAddress(t *testing.T) {
	s, _ := newTestServer(&stubProvider{})
	rr := postAnalyze(t, s.Handler(), `{"lookbackLimit": 50}`)

	assert.Equal(t, http.StatusBadRequest, rr.Code)

	var resp struct {
		Status string           `json:"status"`
		Kind   detect.ErrorKind `json:"kind"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, detect.KindInvalidInput, resp.Kind)
}

func TestAnalyze_InvalidBody(t *testing.T) {
	s, _ := newTestServer(&stubProvider{})
	rr := postAnalyze(t, s.Handler(), `{not json`)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestAnalyze_InvalidLookbackString(t *testing.T) {
	s, _ := newTestServer(&stubProvider{})
	rr := postAnalyze(t, s.Handler(), `{"tokenAddress": "`+testToken+`", "lookbackLimit": "abc"}`)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestAnalyze_StringLookbackClamped(t *testing.T) {
	provider := &stubProvider{}
	s, cfg := newTestServer(provider)
	rr := postAnalyze(t, s.Handler(), `{"tokenAddress": "`+testToken+`", "lookbackLimit": "2000"}`)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, cfg.MaxLookbackLimit, provider.lastLimit)
}

func TestAnalyze_DefaultLookback(t *testing.T) {
	provider := &stubProvider{}
	s, cfg := newTestServer(provider)
	rr := postAnalyze(t, s.Handler(), `{"tokenAddress": "`+testToken+`"}`)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, cfg.DefaultLookbackLimit, provider.lastLimit)
}

func TestAnalyze_Success(t *testing.T) {
	provider := &stubProvider{
		summaries: []types.TransactionSummary{
			{Signature: "tx1", Timestamp: 1000},
		},
		details: map[string]*types.TransactionDetail{
			"tx1": {
				Signature:    "tx1",
				Instructions: []types.Instruction{{ProgramID: testDexProgram}},
			},
		},
	}
	s, _ := newTestServer(provider)
	rr := postAnalyze(t, s.Handler(), `{"tokenAddress": "`+testToken+`", "lookbackLimit": 50}`)

	require.Equal(t, http.StatusOK, rr.Code)

	var full struct {
		Status       string                        `json:"status"`
		TokenAddress string                        `json:"tokenAddress"`
		Transactions []types.ClassifiedTransaction `json:"transactions"`
		Stats        types.Stats                   `json:"stats"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &full))
	assert.Equal(t, "success", full.Status)
	assert.Equal(t, testToken, full.TokenAddress)
	require.Len(t, full.Transactions, 1)
	assert.True(t, full.Transactions[0].IsDex)
	assert.Equal(t, types.Stats{TotalTransactions: 1, DexTransactions: 1}, full.Stats)
}

func TestAnalyze_MethodNotAllowed(t *testing.T) {
	s, _ := newTestServer(&stubProvider{})
	req := httptest.NewRequest(http.MethodGet, "/analyze", nil)
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}
