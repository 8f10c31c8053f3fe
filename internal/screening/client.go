package screening

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"ats-backend/internal/logger"
)

const scorePath = "/screen_candidates_2"

// ClientConfig carries the scoring-service connection and retry settings.
type ClientConfig struct {
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int
	BaseDelay  time.Duration
	MaxBackoff time.Duration
}

// Client calls the external AI scoring service. Transient failures (network,
// timeout, 5xx) are retried with capped exponential backoff; validation
// rejections and non-success responses are surfaced immediately.
type Client struct {
	cfg    ClientConfig
	http   *http.Client
	tokens TokenSource
	log    *logrus.Entry
	sleep  func(time.Duration)
}

func NewClient(cfg ClientConfig, tokens TokenSource) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = time.Second
	}
	if cfg.MaxBackoff <= 0 {
		cfg.MaxBackoff = 60 * time.Second
	}
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		tokens: tokens,
		log:    logger.Component("scoring-client"),
		sleep:  time.Sleep,
	}
}

// Score sends the assembled payload for scoring. Preconditions are checked
// before any network call: a missing requirements-document key or missing job
// details fail locally as non-retryable validation errors.
func (c *Client) Score(ctx context.Context, detail *CandidateDetail) (*ScoreResponse, error) {
	if detail.RcdFileKey == "" {
		return nil, ErrMissingRcdKey
	}
	if detail.JD.Title == "" || detail.JobID == uuid.Nil {
		return nil, ErrMissingJobDetails
	}

	reqBody := ScoreRequest{
		JD:         detail.JD,
		RcdFileKey: detail.RcdFileKey,
		Candidate:  detail.Candidate,
	}

	var lastErr error
	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := Backoff(c.cfg.BaseDelay, c.cfg.MaxBackoff, attempt-1)
			c.log.WithFields(logrus.Fields{
				"attempt": attempt,
				"delay":   delay.String(),
			}).Warn("retrying scoring call")
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
			}
			c.sleep(delay)
		}

		resp, retryable, err := c.doScore(ctx, reqBody)
		if err == nil {
			return resp, nil
		}
		if !retryable {
			return nil, err
		}
		lastErr = err
	}

	return nil, &RetriesExhaustedError{Attempts: c.cfg.MaxRetries + 1, Last: lastErr}
}

// doScore performs a single scoring request. The bool result reports whether
// the failure is transient and worth retrying.
func (c *Client) doScore(ctx context.Context, body ScoreRequest) (*ScoreResponse, bool, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, false, fmt.Errorf("marshal score request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.cfg.BaseURL+scorePath, bytes.NewReader(payload))
	if err != nil {
		return nil, false, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	// Short-lived service credential, minted fresh per call.
	token, err := c.tokens.ServiceToken()
	if err != nil {
		return nil, false, fmt.Errorf("mint service token: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		// Network errors and client timeouts are transient.
		return nil, true, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, fmt.Errorf("read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnprocessableEntity:
		return nil, false, &ValidationError{StatusCode: resp.StatusCode, Body: string(raw)}
	case resp.StatusCode >= 500:
		return nil, true, fmt.Errorf("scoring service error: %s", resp.Status)
	case resp.StatusCode != http.StatusOK:
		return nil, false, fmt.Errorf("unexpected status %s", resp.Status)
	}

	var decoded ScoreResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, false, fmt.Errorf("decode score response: %w", err)
	}
	if decoded.Status != "success" {
		return nil, false, &StatusError{Status: decoded.Status}
	}

	if !isExpectedRecommendation(decoded.Feedback.Recommendation) {
		c.log.WithField("recommendation", decoded.Feedback.Recommendation).
			Warn("unexpected recommendation value, treating as NO")
	}
	decoded.Recommended = DecodeRecommendation(decoded.Feedback.Recommendation)
	decoded.Raw = json.RawMessage(raw)

	return &decoded, false, nil
}
