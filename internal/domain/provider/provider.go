package provider

import (
	"context"
	"net/url"
)

// TwikeyClient is the outbound surface towards the mandate service. Every
// implementation must collapse transport-level failures (connection refused,
// timeout, malformed URL, unparseable body) into a single access error; the
// caller never sees the underlying cause.
type TwikeyClient interface {
	// Authenticate exchanges the API key for an authorization token.
	Authenticate(ctx context.Context, apiKey string) (string, error)

	// FetchMandateFeed returns the pending mandate change events. Events are
	// consumed by the fetch, so each call returns only what happened since
	// the previous one.
	FetchMandateFeed(ctx context.Context, token string) ([]FeedEvent, error)

	// PushMandateUpdate posts mandate fields to the update endpoint. A 204
	// is success; any other status surfaces the server's message as a
	// validation error.
	PushMandateUpdate(ctx context.Context, token string, update url.Values) error

	// CancelMandate asks the remote service to cancel the mandate.
	CancelMandate(ctx context.Context, token, mandateRef, reason string) error

	// SignDocument creates a sign/invite request for a new mandate and
	// returns its reference and signing URL.
	SignDocument(ctx context.Context, token string, payload url.Values) (*SignResult, error)

	// CreatePaylink creates a one-off hosted payment page.
	CreatePaylink(ctx context.Context, token string, payload url.Values) (*Paylink, error)
}

// SignResult is the response to a sign/invite request.
type SignResult struct {
	MndtID string `json:"MndtId"`
	URL    string `json:"url"`
	Key    string `json:"key,omitempty"`
}

// Paylink is the response to a paylink creation request.
type Paylink struct {
	ID     int64  `json:"id"`
	URL    string `json:"url"`
	Amount string `json:"amount,omitempty"`
	Msg    string `json:"msg,omitempty"`
}
