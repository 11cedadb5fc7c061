package twikey

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/billspring/mandate-service/internal/domain/provider"
	pkgerrors "github.com/billspring/mandate-service/pkg/errors"
)

const defaultTimeout = 30 * time.Second

// Client talks to the Twikey creditor API. Requests are form-encoded and
// authenticated with the token obtained from Authenticate in a plain
// Authorization header.
type Client struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

// NewClient creates a Twikey API client for the given base URL.
func NewClient(baseURL string, logger *zap.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: defaultTimeout},
		logger:  logger,
	}
}

var _ provider.TwikeyClient = (*Client)(nil)

// accessError logs the real transport failure and returns the uniform
// access error. The cause stays wrapped for logs only.
func (c *Client) accessError(op string, err error) error {
	c.logger.Error("twikey request failed",
		zap.String("operation", op),
		zap.Error(err))
	return pkgerrors.NewAccessError(err)
}

// postForm issues a form-encoded POST and returns the raw response. The
// caller owns closing the body.
func (c *Client) postForm(ctx context.Context, path, token string, form url.Values) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	return c.client.Do(req)
}

// Authenticate exchanges the API key for an authorization token.
// POST /creditor
func (c *Client) Authenticate(ctx context.Context, apiKey string) (string, error) {
	form := url.Values{"apiToken": {apiKey}}

	resp, err := c.postForm(ctx, "/creditor", "", form)
	if err != nil {
		return "", c.accessError("authenticate", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", c.accessError("authenticate", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", c.accessError("authenticate",
			pkgerrors.New("unexpected status "+resp.Status))
	}

	var result struct {
		Authorization string `json:"Authorization"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", c.accessError("authenticate", err)
	}

	c.logger.Info("twikey authentication succeeded")
	return result.Authorization, nil
}

// readServerMessage extracts the "message" field Twikey puts in error
// bodies. The second return is false when the body is not that shape.
func readServerMessage(body []byte) (string, bool) {
	var result struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &result); err != nil || result.Message == "" {
		return "", false
	}
	return result.Message, true
}
