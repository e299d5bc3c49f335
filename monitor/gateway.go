package monitor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/tutormesh/tutormesh/core"
)

// HTTPGateway escalates authorization requests to an external approval
// service over HTTP. It is used when a deployment routes approvals through
// an LMS or command post instead of (or in addition to) attached monitors.
type HTTPGateway struct {
	url    string
	client *http.Client
}

// NewHTTPGateway creates a gateway posting to the given URL.
func NewHTTPGateway(url string, optFns ...func(o *HTTPGatewayOptions)) *HTTPGateway {
	opts := HTTPGatewayOptions{Client: http.DefaultClient}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &HTTPGateway{url: url, client: opts.Client}
}

// HTTPGatewayOptions configures an HTTPGateway.
type HTTPGatewayOptions struct {
	Client *http.Client
}

// RequestAuthorization posts the pending strategies to the gateway. A non-2xx
// response is an error; the approval itself arrives asynchronously through
// the deployment's own channel.
func (g *HTTPGateway) RequestAuthorization(ctx context.Context, req core.AuthorizeStrategiesRequest) error {
	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("marshaling authorization request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building authorization request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("posting authorization request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("authorization gateway returned status %d", resp.StatusCode)
	}
	return nil
}
