// Package bitrix provides read-only connectivity to the Bitrix24 REST
// webhook endpoint. All CRM records are fetched through here; nothing in
// this application writes back to the CRM.
package bitrix

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Ashwani-vortex/springfield-management-dashboard/internal/config"
	"go.uber.org/zap"
)

const (
	// PageSize is the fixed single-page record limit of the REST API
	PageSize = 50
	// BatchLimit is the maximum number of sub-commands per batch call
	BatchLimit = 50
)

// Record is one raw CRM record as decoded from JSON. Field values are
// heterogeneous (strings, numbers, arrays); the normalize package and the
// mapper are responsible for coercing them.
type Record map[string]any

// Client issues single and batched HTTP calls against the CRM webhook.
// A nil *Client is a valid disabled client: every fetch returns empty
// data, so a deployment without CRM credentials still starts.
type Client struct {
	baseURL string
	http    *http.Client
	cfg     *config.BitrixConfig
	logger  *zap.Logger
}

// NewClient creates a CRM client from configuration. Returns nil when the
// webhook URL is not configured; callers treat nil as "CRM disabled".
func NewClient(cfg *config.BitrixConfig, logger *zap.Logger) *Client {
	if cfg == nil || !cfg.Enabled() {
		logger.Warn("Bitrix webhook URL not configured, CRM client disabled")
		return nil
	}

	timeout := cfg.RequestTimeoutDuration()
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	logger.Info("Initializing Bitrix client",
		zap.Duration("request_timeout", timeout),
		zap.Int("won_stage_ids", len(cfg.WonStageIDs)),
	)

	return &Client{
		baseURL: strings.TrimRight(cfg.WebhookURL, "/"),
		http:    &http.Client{Timeout: timeout},
		cfg:     cfg,
		logger:  logger,
	}
}

// IsEnabled reports whether the client can reach a configured endpoint
func (c *Client) IsEnabled() bool {
	return c != nil
}

// listEnvelope is the top-level shape of a list-method response
type listEnvelope struct {
	Result           json.RawMessage `json:"result"`
	Total            int             `json:"total"`
	Error            string          `json:"error"`
	ErrorDescription string          `json:"error_description"`
}

// batchEnvelope is the top-level shape of a batch response; sub-results
// are keyed by the command labels the caller supplied
type batchEnvelope struct {
	Result struct {
		Result      map[string]json.RawMessage `json:"result"`
		ResultError map[string]struct {
			Error            string `json:"error"`
			ErrorDescription string `json:"error_description"`
		} `json:"result_error"`
	} `json:"result"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// get issues GET {base}/{methodWithQuery} and decodes the envelope.
// Transport and decode failures are errors; API-level errors are left in
// the envelope for the caller's per-call policy.
func (c *Client) get(ctx context.Context, methodWithQuery string) (*listEnvelope, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+methodWithQuery, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer res.Body.Close()

	var env listEnvelope
	if err := json.NewDecoder(res.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("failed to decode response (status %d): %w", res.StatusCode, err)
	}
	return &env, nil
}

// batch issues POST {base}/batch with the given labeled sub-commands and
// returns the per-label raw results. The commands map is serialized as
// {halt: 0, cmd: {...}}; ≤ BatchLimit commands per call is the caller's
// responsibility.
func (c *Client) batch(ctx context.Context, cmds map[string]string) (map[string]json.RawMessage, error) {
	body, err := json.Marshal(map[string]any{
		"halt": 0,
		"cmd":  cmds,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode batch body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/batch", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build batch request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("batch request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("batch request returned status %d", res.StatusCode)
	}

	var env batchEnvelope
	if err := json.NewDecoder(res.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("failed to decode batch response: %w", err)
	}
	if env.Error != "" {
		return nil, fmt.Errorf("batch API error %s: %s", env.Error, env.ErrorDescription)
	}

	for label, sub := range env.Result.ResultError {
		c.logger.Warn("batch sub-command failed",
			zap.String("label", label),
			zap.String("error", sub.Error),
			zap.String("error_description", sub.ErrorDescription),
		)
	}

	return env.Result.Result, nil
}

// decodeRecords unmarshals a raw list result; a non-list result (some
// methods return objects) decodes to nil rather than failing the call
func decodeRecords(raw json.RawMessage) []Record {
	if len(raw) == 0 {
		return nil
	}
	var records []Record
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil
	}
	return records
}

// FetchAll retrieves a complete result set for one list method,
// auto-paginating past the 50-record page limit through the batch
// endpoint. Additional pages are requested in ascending offset order and
// concatenated in that order after the first page.
//
// Error policy (soft failure): an API-level error on the first page is
// logged and yields an empty result; a failed batch call is logged and
// yields the first page only. Callers proceed with whatever was fetched.
func (c *Client) FetchAll(ctx context.Context, method string, params url.Values) []Record {
	if c == nil {
		return nil
	}

	methodWithQuery := method
	if len(params) > 0 {
		methodWithQuery = method + "?" + params.Encode()
	}

	env, err := c.get(ctx, methodWithQuery)
	if err != nil {
		c.logger.Error("CRM fetch failed",
			zap.String("method", method),
			zap.Error(err),
		)
		return nil
	}
	if env.Error != "" {
		c.logger.Error("CRM API error",
			zap.String("method", method),
			zap.String("error", env.Error),
			zap.String("error_description", env.ErrorDescription),
		)
		return nil
	}

	firstPage := decodeRecords(env.Result)
	if env.Total <= PageSize {
		return firstPage
	}

	// Sub-commands for the remaining offsets, in ascending order
	sep := "?"
	if strings.Contains(methodWithQuery, "?") {
		sep = "&"
	}
	var labels []string
	cmds := make(map[string]string)
	for offset := PageSize; offset < env.Total; offset += PageSize {
		label := fmt.Sprintf("page_%d", offset)
		labels = append(labels, label)
		cmds[label] = fmt.Sprintf("%s%sstart=%d", methodWithQuery, sep, offset)
	}

	all := firstPage
	for start := 0; start < len(labels); start += BatchLimit {
		end := min(start+BatchLimit, len(labels))
		chunk := make(map[string]string, end-start)
		for _, label := range labels[start:end] {
			chunk[label] = cmds[label]
		}

		results, err := c.batch(ctx, chunk)
		if err != nil {
			c.logger.Error("CRM batch pagination failed, returning partial result",
				zap.String("method", method),
				zap.Int("fetched", len(all)),
				zap.Int("total", env.Total),
				zap.Error(err),
			)
			return all
		}

		// Concatenate by label order, not map order
		for _, label := range labels[start:end] {
			all = append(all, decodeRecords(results[label])...)
		}
	}

	c.logger.Debug("CRM fetch completed",
		zap.String("method", method),
		zap.Int("records", len(all)),
		zap.Int("total", env.Total),
	)
	return all
}

// FetchPage retrieves a single page starting at the given offset and
// reports the total result-set size. Unlike FetchAll this surfaces both
// transport and API-level errors to the caller, for views that need to
// show an error state instead of silently rendering nothing.
func (c *Client) FetchPage(ctx context.Context, method string, params url.Values, start int) ([]Record, int, error) {
	if c == nil {
		return nil, 0, ErrDisabled
	}

	q := url.Values{}
	for key, vals := range params {
		q[key] = vals
	}
	q.Set("start", fmt.Sprintf("%d", start))

	env, err := c.get(ctx, method+"?"+q.Encode())
	if err != nil {
		return nil, 0, err
	}
	if env.Error != "" {
		return nil, 0, fmt.Errorf("CRM API error %s: %s", env.Error, env.ErrorDescription)
	}
	return decodeRecords(env.Result), env.Total, nil
}

// fetchWindowed is the legacy batch-window pagination used for users and
// leads: each iteration issues one batch of BatchLimit sub-requests
// covering consecutive page offsets, advancing by BatchLimit×PageSize
// until a window comes back short of a full window's worth of records.
// It assumes the API never returns a spuriously short non-final page.
// Unlike FetchAll, failures surface to the caller along with whatever
// was accumulated before the failure.
func (c *Client) fetchWindowed(ctx context.Context, method string, params url.Values) ([]Record, error) {
	if c == nil {
		return nil, ErrDisabled
	}

	query := params.Encode()
	var all []Record

	for batchStart := 0; ; batchStart += BatchLimit * PageSize {
		labels := make([]string, 0, BatchLimit)
		cmds := make(map[string]string, BatchLimit)
		for i := 0; i < BatchLimit; i++ {
			label := fmt.Sprintf("cmd_%d", i)
			offset := batchStart + i*PageSize
			command := method + "?"
			if query != "" {
				command += query + "&"
			}
			command += fmt.Sprintf("start=%d", offset)
			labels = append(labels, label)
			cmds[label] = command
		}

		results, err := c.batch(ctx, cmds)
		if err != nil {
			return all, fmt.Errorf("windowed fetch of %s failed at offset %d: %w", method, batchStart, err)
		}

		windowCount := 0
		for _, label := range labels {
			records := decodeRecords(results[label])
			all = append(all, records...)
			windowCount += len(records)
		}

		if windowCount < BatchLimit*PageSize {
			break
		}
	}

	c.logger.Debug("CRM windowed fetch completed",
		zap.String("method", method),
		zap.Int("records", len(all)),
	)
	return all, nil
}

// Ping verifies the endpoint answers at all, for the readiness probe
func (c *Client) Ping(ctx context.Context) error {
	if c == nil {
		return ErrDisabled
	}
	_, err := c.get(ctx, "app.info")
	return err
}
