// Package quran provides a client for the quran.com v4 content API.
package quran

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrInvalidPage is returned for page numbers outside the mushaf.
	ErrInvalidPage = errors.New("invalid page number")
	// ErrNotFound is returned when the API has no verses for a page.
	ErrNotFound = errors.New("page not found")
)

const (
	DefaultBaseURL      = "https://api.quran.com/api/v4"
	DefaultAudioBaseURL = "https://verses.quran.com"

	requestTimeout = 15 * time.Second

	userAgent  = "tilawa/1.0 (https://github.com/llehouerou/tilawa)"
	pageFields = "text_uthmani,chapter_id,verse_number,verse_key,juz_number,page_number"
)

// Options configures a Client. Zero values select the defaults.
type Options struct {
	BaseURL      string
	AudioBaseURL string
	Timeout      time.Duration
	HTTPClient   *http.Client
}

// Client is a quran.com API client.
type Client struct {
	httpClient   *http.Client
	baseURL      string
	audioBaseURL string
}

// New creates a new quran.com client.
func New(opts Options) *Client {
	c := &Client{
		httpClient:   opts.HTTPClient,
		baseURL:      strings.TrimSuffix(opts.BaseURL, "/"),
		audioBaseURL: strings.TrimSuffix(opts.AudioBaseURL, "/"),
	}
	if c.httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = requestTimeout
		}
		c.httpClient = &http.Client{Timeout: timeout}
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.audioBaseURL == "" {
		c.audioBaseURL = DefaultAudioBaseURL
	}
	return c
}

// Page fetches the verses of a page with audio for the given reciter.
// Audio URLs in the result are absolute.
func (c *Client) Page(ctx context.Context, page, reciter int) (*Page, error) {
	if page < FirstPage || page > LastPage {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPage, page)
	}

	params := url.Values{}
	params.Set("audio", strconv.Itoa(reciter))
	params.Set("words", "false")
	params.Set("per_page", "50")
	params.Set("fields", pageFields)

	reqURL := fmt.Sprintf("%s/verses/by_page/%d?%s", c.baseURL, page, params.Encode())

	var result pageResponse
	if err := c.get(ctx, reqURL, &result); err != nil {
		return nil, err
	}
	if len(result.Verses) == 0 {
		return nil, fmt.Errorf("%w: %d", ErrNotFound, page)
	}

	for i := range result.Verses {
		v := &result.Verses[i]
		if v.VerseKey == "" && v.ChapterID > 0 {
			v.VerseKey = fmt.Sprintf("%d:%d", v.ChapterID, v.VerseNumber)
		}
		if v.PageNumber == 0 {
			v.PageNumber = page
		}
		if v.Audio != nil {
			v.Audio.URL = c.resolveAudioURL(v.Audio.URL)
		}
	}

	return &Page{Number: page, Verses: result.Verses}, nil
}

// Reciters lists the available recitations.
func (c *Client) Reciters(ctx context.Context) ([]Reciter, error) {
	params := url.Values{}
	params.Set("language", "en")
	reqURL := fmt.Sprintf("%s/resources/recitations?%s", c.baseURL, params.Encode())

	var result recitersResponse
	if err := c.get(ctx, reqURL, &result); err != nil {
		return nil, err
	}
	return result.Recitations, nil
}

func (c *Client) get(ctx context.Context, reqURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status: %s", resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// resolveAudioURL turns the API's relative audio paths into absolute URLs.
func (c *Client) resolveAudioURL(raw string) string {
	raw = strings.TrimSpace(raw)
	switch {
	case raw == "":
		return ""
	case strings.HasPrefix(raw, "//"):
		return "https:" + raw
	case strings.HasPrefix(raw, "http://"), strings.HasPrefix(raw, "https://"):
		return raw
	default:
		return c.audioBaseURL + "/" + strings.TrimPrefix(raw, "/")
	}
}
