// Package postgrest reaches the hosted data store through its auto-generated REST/RPC API:
// remote procedures under /rest/v1/rpc/<fn> and tables under /rest/v1/<table>.
package postgrest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"ops-portal/internal/repository"
	apperrors "ops-portal/pkg/app_errors"
	"ops-portal/pkg/logger"
	"strings"
	"time"

	"go.uber.org/zap"
)

type Client struct {
	baseURL string
	anonKey string
	http    *http.Client
}

// NewClient builds a client for baseURL (the project URL, without /rest/v1). A zero timeout
// leaves remote calls unbounded.
func NewClient(baseURL, anonKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		anonKey: anonKey,
		http:    &http.Client{Timeout: timeout},
	}
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body interface{}) (*http.Request, error) {
	u := c.baseURL + "/rest/v1/" + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal %s: %w", path, err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, rdr)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("apikey", c.anonKey)
	token := repository.AccessToken(ctx)
	if token == "" {
		token = c.anonKey
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return req, nil
}

// do sends req and decodes a JSON response into out (when non-nil). op names the procedure or
// table for error reporting.
func (c *Client) do(req *http.Request, op string, out interface{}) error {
	log := logger.WithComponent("postgrest").With(zap.String("operation", op))

	resp, err := c.http.Do(req)
	if err != nil {
		log.Warn("request failed", zap.Error(err))
		return &apperrors.RemoteError{Op: op, Message: err.Error()}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &apperrors.RemoteError{Op: op, Status: resp.StatusCode, Message: err.Error()}
	}

	if resp.StatusCode >= 300 {
		var ae apiError
		if jerr := json.Unmarshal(raw, &ae); jerr != nil || ae.Message == "" {
			ae.Message = strings.TrimSpace(string(raw))
			if ae.Message == "" {
				ae.Message = http.StatusText(resp.StatusCode)
			}
		}
		log.Warn("remote error", zap.Int("status", resp.StatusCode), zap.String("code", ae.Code), zap.String("message", ae.Message))
		return &apperrors.RemoteError{
			Op:      op,
			Status:  resp.StatusCode,
			Code:    ae.Code,
			Message: ae.Message,
			Hint:    ae.Hint,
		}
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &apperrors.RemoteError{Op: op, Status: resp.StatusCode, Message: fmt.Sprintf("decode response: %v", err)}
	}
	return nil
}

// RPC calls a remote procedure with named arguments.
func (c *Client) RPC(ctx context.Context, fn string, args map[string]interface{}, out interface{}) error {
	req, err := c.newRequest(ctx, http.MethodPost, "rpc/"+fn, nil, args)
	if err != nil {
		return err
	}
	return c.do(req, fn, out)
}

// Select reads rows of table; query carries select/order/limit and filter parameters.
func (c *Client) Select(ctx context.Context, table string, query url.Values, out interface{}) error {
	req, err := c.newRequest(ctx, http.MethodGet, table, query, nil)
	if err != nil {
		return err
	}
	return c.do(req, table, out)
}

// Delete removes the rows of table matched by query and returns how many were removed.
func (c *Client) Delete(ctx context.Context, table string, query url.Values) (int, error) {
	req, err := c.newRequest(ctx, http.MethodDelete, table, query, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Prefer", "return=representation")

	var deleted []json.RawMessage
	if err := c.do(req, table, &deleted); err != nil {
		return 0, err
	}
	return len(deleted), nil
}

func eq(v string) string {
	return "eq." + v
}
