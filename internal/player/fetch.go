package player

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/dustin/go-humanize"
)

// MaxClipSize bounds how much of a response body is kept in memory.
const MaxClipSize = 32 << 20

// Fetcher downloads a clip body.
type Fetcher func(ctx context.Context, url string) ([]byte, error)

// HTTPFetcher fetches clips with client, classifying failures.
func HTTPFetcher(client *http.Client) Fetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return func(ctx context.Context, rawURL string) ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return nil, newError(KindUnsupportedSource, err)
		}
		req.Header.Set("Accept", "audio/mpeg")

		resp, err := client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return nil, statusError(resp.StatusCode)
		}

		data, err := io.ReadAll(io.LimitReader(resp.Body, MaxClipSize+1))
		if err != nil {
			return nil, err
		}
		if len(data) > MaxClipSize {
			return nil, newError(KindUnsupportedSource,
				fmt.Errorf("clip larger than %s", humanize.IBytes(MaxClipSize)))
		}
		return data, nil
	}
}

func statusError(code int) *PlayError {
	err := fmt.Errorf("unexpected status %d", code)
	switch code {
	case http.StatusNotFound, http.StatusGone, http.StatusForbidden, http.StatusUnsupportedMediaType:
		return newError(KindUnsupportedSource, err)
	default:
		return newError(KindNetwork, err)
	}
}

// validateSource rejects anything that is not an absolute http(s) URL.
func validateSource(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return newError(KindUnsupportedSource, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return newError(KindUnsupportedSource, fmt.Errorf("unsupported source %q", rawURL))
	}
	return nil
}

// classifyLoad wraps a fetch or context error into a PlayError.
func classifyLoad(err error) *PlayError {
	var pe *PlayError
	if errors.As(err, &pe) {
		return pe
	}
	switch {
	case errors.Is(err, context.Canceled):
		return newError(KindAborted, err)
	case errors.Is(err, context.DeadlineExceeded):
		return newError(KindNetwork, fmt.Errorf("load timed out: %w", err))
	default:
		return newError(KindNetwork, err)
	}
}
