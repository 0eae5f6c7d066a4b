package utils

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

const (
	DefaultRetryTimes    = 3
	DefaultRetryInterval = 1 * time.Second
	DefaultTimeout       = 20 * time.Second
)

func GetJSON(ctx context.Context, rawURL string, params map[string]string, result any, logger *slog.Logger) error {
	return GetJSONWithRetry(ctx, rawURL, params, result, 1, logger)
}

func GetJSONWithRetry(ctx context.Context, rawURL string, params map[string]string, result any, retry int, logger *slog.Logger) error {
	reqURL := rawURL
	if len(params) > 0 {
		q := url.Values{}
		for k, v := range params {
			q.Set(k, v)
		}
		reqURL += "?" + q.Encode()
	}

	var lastErr error
	for i := 0; i < retry; i++ {
		lastErr = doGet(ctx, reqURL, result)
		if lastErr == nil {
			return nil
		}
		if ctx.Err() != nil {
			return fmt.Errorf("GET request aborted: %w", ctx.Err())
		}
		if i < retry-1 {
			logger.Warn("GET request failed, retrying...", "url", rawURL, "attempt", i+1, "err", lastErr)
			if err := SleepCtx(ctx, DefaultRetryInterval); err != nil {
				return fmt.Errorf("GET request aborted: %w", err)
			}
		}
	}
	return fmt.Errorf("GET request failed after %d attempts: %w", retry, lastErr)
}

func PostJSON(ctx context.Context, rawURL string, body any, result any, logger *slog.Logger) error {
	return PostJSONWithRetry(ctx, rawURL, body, result, 1, logger)
}

func PostJSONWithRetry(ctx context.Context, rawURL string, body any, result any, retry int, logger *slog.Logger) error {
	var lastErr error
	for i := 0; i < retry; i++ {
		lastErr = doPost(ctx, rawURL, body, result)
		if lastErr == nil {
			return nil
		}
		if ctx.Err() != nil {
			return fmt.Errorf("POST request aborted: %w", ctx.Err())
		}
		if i < retry-1 {
			logger.Warn("POST request failed, retrying...", "url", rawURL, "attempt", i+1, "err", lastErr)
			if err := SleepCtx(ctx, DefaultRetryInterval); err != nil {
				return fmt.Errorf("POST request aborted: %w", err)
			}
		}
	}
	return fmt.Errorf("POST request failed after %d attempts: %w", retry, lastErr)
}

// SleepCtx sleeps for d unless the context is canceled first.
func SleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func doGet(ctx context.Context, reqURL string, result any) error {
	ctx, cancel := context.WithTimeout(ctx, DefaultTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create GET request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("GET request error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("GET request returned status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	dec := json.NewDecoder(resp.Body)
	if err := dec.Decode(result); err != nil {
		return fmt.Errorf("failed to stream and unmarshal GET response: %w", err)
	}

	return nil
}

func doPost(ctx context.Context, reqURL string, body any, result any) error {
	ctx, cancel := context.WithTimeout(ctx, DefaultTimeout)
	defer cancel()

	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal POST body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(bodyBytes))
	if err != nil {
		return fmt.Errorf("failed to create POST request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("POST request error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyResp, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("POST request returned status %d: %s", resp.StatusCode, string(bodyResp))
	}

	dec := json.NewDecoder(resp.Body)
	if err := dec.Decode(result); err != nil {
		return fmt.Errorf("failed to stream and unmarshal POST response: %w", err)
	}

	return nil
}
