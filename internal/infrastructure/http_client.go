package infrastructure

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/yourusername/fetchbar/internal/domain"
)

// NewHTTPClient builds the client used by both downloaders. No timeout is set:
// the caller's context is the only way to bound a transfer.
func NewHTTPClient(config *domain.TransferConfig) (*http.Client, error) {
	transport := http.DefaultTransport.(*http.Transport).Clone()

	if config.HTTPProxy != "" {
		proxyURL, err := url.Parse(config.HTTPProxy)
		if err != nil {
			return nil, fmt.Errorf("invalid http proxy %q: %w", config.HTTPProxy, err)
		}
		transport.Proxy = http.ProxyURL(proxyURL)
	}

	return &http.Client{Transport: transport}, nil
}

// newGetRequest prepares the GET request for the Transfer Target
func newGetRequest(ctx context.Context, config *domain.TransferConfig) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, config.TargetURL(), nil)
	if err != nil {
		return nil, fmt.Errorf("setting up GET request: %w", err)
	}
	if config.UserAgent != "" {
		req.Header.Set("User-Agent", config.UserAgent)
	}
	// CORS-rewriting proxies reject requests without this header.
	if config.ProxyPrefix != "" {
		req.Header.Set("X-Requested-With", "XMLHttpRequest")
	}
	return req, nil
}

func chunkSize(config *domain.TransferConfig) int {
	if config.ChunkSize > 0 {
		return config.ChunkSize
	}
	return 32 * 1024
}
