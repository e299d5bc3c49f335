package content

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/tutormesh/tutormesh/core"
	"github.com/tutormesh/tutormesh/logging"
)

// HTTPProvider is the core.ContentProvider implementation speaking the
// provider's HTTP contract. The call is synchronous; no in-core timeout is
// applied beyond the supplied http.Client's, per the transport-boundary
// policy.
type HTTPProvider struct {
	endpoint string
	client   *http.Client
	logger   logging.Logger
}

// HTTPProviderOptions configures an HTTPProvider.
type HTTPProviderOptions struct {
	// Client is the HTTP client used for provider calls. Defaults to
	// http.DefaultClient; supply one with a timeout in production.
	Client *http.Client
	// Logger records fetch outcomes. Defaults to NoOpLogger.
	Logger logging.Logger
}

// NewHTTPProvider constructs a provider client for the given endpoint URL.
func NewHTTPProvider(endpoint string, optFns ...func(o *HTTPProviderOptions)) *HTTPProvider {
	opts := HTTPProviderOptions{Client: http.DefaultClient, Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &HTTPProvider{endpoint: endpoint, client: opts.Client, logger: core.LoggerOrNoOp(opts.Logger)}
}

// Fetch implements core.ContentProvider. A non-200 status or connectivity
// failure is returned as an error for the requesting activity only.
func (p *HTTPProvider) Fetch(ctx context.Context, req core.ContentRequest) (string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("encode content request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build content request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("content provider unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("content provider returned status %d", resp.StatusCode)
	}

	replacement, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read content response: %w", err)
	}

	p.logger.Debug("content fetched session_id=%s content_type=%s bytes=%d", req.SessionID, req.ContentType, len(replacement))

	return string(replacement), nil
}
