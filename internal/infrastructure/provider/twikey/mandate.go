package twikey

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/billspring/mandate-service/internal/domain/provider"
	pkgerrors "github.com/billspring/mandate-service/pkg/errors"
)

// FetchMandateFeed pulls pending mandate change events.
// GET /creditor/mandate
func (c *Client) FetchMandateFeed(ctx context.Context, token string) ([]provider.FeedEvent, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/creditor/mandate", nil)
	if err != nil {
		return nil, c.accessError("fetch feed", err)
	}
	req.Header.Set("Authorization", token)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, c.accessError("fetch feed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.accessError("fetch feed", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, c.accessError("fetch feed",
			pkgerrors.New("unexpected status "+resp.Status))
	}

	var feed provider.FeedResponse
	if err := json.Unmarshal(body, &feed); err != nil {
		return nil, c.accessError("fetch feed", err)
	}

	c.logger.Info("fetched mandate feed", zap.Int("events", len(feed.Messages)))
	return feed.Messages, nil
}

// PushMandateUpdate posts mandate fields to the update endpoint. Success is
// a bare 204; any other status carries a caller-visible message.
// POST /creditor/mandate/update
func (c *Client) PushMandateUpdate(ctx context.Context, token string, update url.Values) error {
	resp, err := c.postForm(ctx, "/creditor/mandate/update", token, update)
	if err != nil {
		return c.accessError("push mandate update", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return c.accessError("push mandate update", err)
	}

	if message, ok := readServerMessage(body); ok {
		c.logger.Warn("mandate update rejected",
			zap.String("mndt_id", update.Get("mndtId")),
			zap.Int("status_code", resp.StatusCode),
			zap.String("message", message))
		return pkgerrors.NewValidationError(message)
	}

	return c.accessError("push mandate update",
		pkgerrors.New("unexpected status "+resp.Status))
}

// CancelMandate asks the remote service to cancel a mandate.
// DELETE /creditor/mandate?mndtId=..&rsn=..
func (c *Client) CancelMandate(ctx context.Context, token, mandateRef, reason string) error {
	query := url.Values{
		"mndtId": {mandateRef},
		"rsn":    {reason},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete,
		c.baseURL+"/creditor/mandate?"+query.Encode(), nil)
	if err != nil {
		return c.accessError("cancel mandate", err)
	}
	req.Header.Set("Authorization", token)

	resp, err := c.client.Do(req)
	if err != nil {
		return c.accessError("cancel mandate", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		body, _ := io.ReadAll(resp.Body)
		if message, ok := readServerMessage(body); ok {
			return pkgerrors.NewValidationError(message)
		}
		return c.accessError("cancel mandate",
			pkgerrors.New("unexpected status "+resp.Status))
	}

	c.logger.Info("mandate cancelled remotely", zap.String("mndt_id", mandateRef))
	return nil
}
