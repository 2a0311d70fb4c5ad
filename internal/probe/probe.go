// Package probe implements the two network calls made per credential and the
// interpretation of their responses: capability discovery against the model
// listing endpoint, and the minimal completion probe that proves whether a
// key is live.
package probe

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/keysift/keysift/internal/core"
	"github.com/keysift/keysift/internal/parsers"
	"github.com/keysift/keysift/internal/tiers"
)

const (
	// DefaultBaseURL is the production completion-service API root.
	DefaultBaseURL = "https://api.openai.com/v1"

	headerLimitRequests = "x-ratelimit-limit-requests"
	headerOrganization  = "openai-organization"
)

// Error body types that mean the key authenticated but cannot spend.
var quotaErrorTypes = map[string]bool{
	"insufficient_quota": true,
	"billing_not_active": true,
	"access_terminated":  true,
}

// Options configures a Prober.
type Options struct {
	BaseURL string
	Timeout time.Duration
	// CaptureRaw stores redacted probe response headers on each result.
	CaptureRaw bool
	Logger     *zap.Logger
	// HTTPClient overrides the default client, mainly for tests.
	HTTPClient *http.Client
}

// Prober runs the per-credential pipeline: discovery, tier selection, quota
// probe. It holds no per-credential state and is safe for concurrent use.
type Prober struct {
	baseURL    string
	client     *http.Client
	reg        *tiers.Registry
	log        *zap.Logger
	captureRaw bool
}

func New(reg *tiers.Registry, opts Options) *Prober {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	client := opts.HTTPClient
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Prober{
		baseURL:    baseURL,
		client:     client,
		reg:        reg,
		log:        log,
		captureRaw: opts.CaptureRaw,
	}
}

// Check runs the full pipeline for one credential and returns its finished,
// immutable result. All transport failures are absorbed here; Check never
// returns an error because a failed probe is itself a verdict.
func (p *Prober) Check(ctx context.Context, key string) core.ProbeResult {
	discovered := p.ListModels(ctx, key)
	if len(discovered) == 0 {
		// Key is unusable: refused by the listing endpoint, or authorized
		// for nothing we track. The pipeline stops without a completion call.
		return core.ProbeResult{Key: key, Verdict: core.VerdictUnreachable}
	}

	best := p.reg.Best(discovered)
	res := p.TryCompletion(ctx, key, best)
	res.Tiers = discovered
	return res
}

// ListModels queries the model listing endpoint and returns the tracked
// capability tiers the key is authorized for, preserving the service's
// ordering. Any non-success response or transport failure yields an empty
// set: this endpoint is a filter, not a source of hard errors.
func (p *Prober) ListModels(ctx context.Context, key string) []core.Tier {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/models", nil)
	if err != nil {
		return nil
	}
	req.Header.Set("Authorization", "Bearer "+key)

	resp, err := p.client.Do(req)
	if err != nil {
		p.log.Debug("model listing failed", zap.Error(err))
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		p.log.Debug("model listing refused", zap.Int("status", resp.StatusCode))
		return nil
	}

	var body struct {
		Data []struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		p.log.Debug("model listing parse failed", zap.Error(err))
		return nil
	}

	ids := make([]string, 0, len(body.Data))
	for _, m := range body.Data {
		ids = append(ids, m.ID)
	}
	return p.reg.Filter(ids)
}

type completionRequest struct {
	Model    string    `json:"model"`
	Messages []message `json:"messages"`
	// MaxTokens is deliberately invalid so the service rejects the request at
	// validation instead of running a completion. The rejection itself, plus
	// the rate-limit headers riding on it, is all the probe needs.
	MaxTokens int `json:"max_tokens"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type errorBody struct {
	Error struct {
		Type string `json:"type"`
	} `json:"error"`
}

// TryCompletion issues the minimal completion request for the chosen tier and
// interprets the rejection:
//
//	401                              → invalid key
//	error.type in quotaErrorTypes    → authenticated but quota-exhausted
//	400 + invalid_request_error, 429 → working; read rate-limit and org headers
//	anything else                    → unreachable this run
//
// A validation rejection and a rate-limit rejection are equal proof of a
// working key: the service only gets that far for keys it accepts.
func (p *Prober) TryCompletion(ctx context.Context, key string, tier core.Tier) core.ProbeResult {
	res := core.ProbeResult{
		Key:          key,
		Verdict:      core.VerdictUnreachable,
		ProbedTier:   tier,
		Organization: core.AnonymousOrg,
	}

	payload, err := json.Marshal(completionRequest{
		Model:     string(tier),
		Messages:  []message{{Role: "user", Content: ""}},
		MaxTokens: -1,
	})
	if err != nil {
		return res
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return res
	}
	req.Header.Set("Authorization", "Bearer "+key)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		p.log.Debug("completion probe failed", zap.String("tier", string(tier)), zap.Error(err))
		return res
	}
	defer resp.Body.Close()

	if p.captureRaw {
		res.Raw = parsers.RedactHeaders(resp.Header)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		res.Verdict = core.VerdictInvalid
		return res
	}

	var body errorBody
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return res
	}
	// A malformed body only matters if the status alone is not conclusive.
	_ = json.Unmarshal(raw, &body)

	if quotaErrorTypes[body.Error.Type] {
		res.Verdict = core.VerdictQuotaExhausted
		return res
	}

	validationReject := resp.StatusCode == http.StatusBadRequest && body.Error.Type == "invalid_request_error"
	rateLimited := resp.StatusCode == http.StatusTooManyRequests
	if !validationReject && !rateLimited {
		p.log.Debug("completion probe inconclusive",
			zap.Int("status", resp.StatusCode),
			zap.String("error_type", body.Error.Type))
		return res
	}

	res.Verdict = core.VerdictWorking
	res.RateLimit = map[core.Tier]*int{tier: parsers.HeaderCount(resp.Header, headerLimitRequests)}
	if org := resp.Header.Get(headerOrganization); org != "" {
		res.Organization = org
	}
	return res
}
