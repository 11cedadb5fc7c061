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

// SignDocument invites a customer to sign a new mandate and returns the
// mandate reference plus the hosted signing URL.
// POST /creditor/invite
func (c *Client) SignDocument(ctx context.Context, token string, payload url.Values) (*provider.SignResult, error) {
	resp, err := c.postForm(ctx, "/creditor/invite", token, payload)
	if err != nil {
		return nil, c.accessError("sign document", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.accessError("sign document", err)
	}

	if resp.StatusCode != http.StatusOK {
		if message, ok := readServerMessage(body); ok {
			return nil, pkgerrors.NewValidationError(message)
		}
		return nil, c.accessError("sign document",
			pkgerrors.New("unexpected status "+resp.Status))
	}

	var result provider.SignResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, c.accessError("sign document", err)
	}

	c.logger.Info("sign request created",
		zap.String("mndt_id", result.MndtID))
	return &result, nil
}

// CreatePaylink creates a one-off hosted payment page.
// POST /creditor/payment/link
func (c *Client) CreatePaylink(ctx context.Context, token string, payload url.Values) (*provider.Paylink, error) {
	resp, err := c.postForm(ctx, "/creditor/payment/link", token, payload)
	if err != nil {
		return nil, c.accessError("create paylink", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.accessError("create paylink", err)
	}

	if resp.StatusCode != http.StatusOK {
		if message, ok := readServerMessage(body); ok {
			return nil, pkgerrors.NewValidationError(message)
		}
		return nil, c.accessError("create paylink",
			pkgerrors.New("unexpected status "+resp.Status))
	}

	var result provider.Paylink
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, c.accessError("create paylink", err)
	}

	c.logger.Info("paylink created",
		zap.Int64("paylink_id", result.ID))
	return &result, nil
}
