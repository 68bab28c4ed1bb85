package summary

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode"

	"food-recognizer/domain"

	"github.com/go-shiori/go-readability"
	"github.com/gofiber/fiber/v2/log"
)

const (
	DefaultBaseURL   = "https://en.wikipedia.org"
	defaultSentences = 2
	userAgent        = "food-recognizer/1.0 (+https://github.com/food-recognizer)"
)

var (
	ErrSummaryNotFound  = fmt.Errorf("%w: page not found", domain.ErrSummaryUnavailable)
	ErrSummaryAmbiguous = fmt.Errorf("%w: ambiguous title", domain.ErrSummaryUnavailable)
)

type (
	pageSummary struct {
		Type        string `json:"type"`
		Title       string `json:"title"`
		Extract     string `json:"extract"`
		ContentURLs struct {
			Desktop struct {
				Page string `json:"page"`
			} `json:"desktop"`
		} `json:"content_urls"`
	}

	// Client fetches short encyclopedia summaries for food labels.
	Client struct {
		baseURL    string
		sentences  int
		httpClient *http.Client
	}

	Option func(*Client)
)

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

func WithSentences(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.sentences = n
		}
	}
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

func NewClient(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		sentences:  defaultSentences,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Summarize never fails: lookup problems turn into a readable placeholder.
func (c *Client) Summarize(ctx context.Context, label string) string {
	text, err := c.Fetch(ctx, label)
	switch {
	case err == nil:
		return text
	case errors.Is(err, ErrSummaryAmbiguous):
		return fmt.Sprintf("Multiple results found for '%s', please be more specific.", label)
	case errors.Is(err, ErrSummaryNotFound):
		return fmt.Sprintf("No summary found for '%s'.", label)
	default:
		log.Warnf("summary for %s: %v", label, err)
		return "An error occurred while fetching Wikipedia data."
	}
}

func (c *Client) Fetch(ctx context.Context, label string) (string, error) {
	title := strings.TrimSpace(label)
	if title == "" {
		return "", ErrSummaryNotFound
	}

	endpoint := fmt.Sprintf("%s/api/rest_v1/page/summary/%s", c.baseURL, url.PathEscape(title))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrSummaryUnavailable, err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrSummaryUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return "", ErrSummaryNotFound
	case resp.StatusCode != http.StatusOK:
		return "", fmt.Errorf("%w: unexpected status %d", domain.ErrSummaryUnavailable, resp.StatusCode)
	}

	var page pageSummary
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return "", fmt.Errorf("%w: decode summary: %v", domain.ErrSummaryUnavailable, err)
	}
	if page.Type == "disambiguation" {
		return "", ErrSummaryAmbiguous
	}

	text := strings.TrimSpace(page.Extract)
	if text == "" {
		pageURL := page.ContentURLs.Desktop.Page
		if pageURL == "" {
			pageURL = fmt.Sprintf("%s/wiki/%s", c.baseURL, url.PathEscape(title))
		}
		text, err = c.articleText(ctx, pageURL)
		if err != nil {
			return "", err
		}
	}

	text = FirstSentences(text, c.sentences)
	if text == "" {
		return "", ErrSummaryNotFound
	}
	return text, nil
}

func (c *Client) articleText(ctx context.Context, pageURL string) (string, error) {
	parsedURL, err := url.Parse(pageURL)
	if err != nil {
		return "", fmt.Errorf("%w: invalid page url %s", domain.ErrSummaryUnavailable, pageURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrSummaryUnavailable, err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrSummaryUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", ErrSummaryNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: unexpected status %d", domain.ErrSummaryUnavailable, resp.StatusCode)
	}

	article, err := readability.FromReader(resp.Body, parsedURL)
	if err != nil {
		return "", fmt.Errorf("%w: parse article: %v", domain.ErrSummaryUnavailable, err)
	}
	return strings.TrimSpace(article.TextContent), nil
}

// FirstSentences returns the first n sentences of text with whitespace
// collapsed. A sentence ends at '.', '!' or '?' followed by a space or the end
// of the text.
func FirstSentences(text string, n int) string {
	text = strings.Join(strings.Fields(text), " ")
	if n <= 0 || text == "" {
		return text
	}

	runes := []rune(text)
	count := 0
	for i, r := range runes {
		if r != '.' && r != '!' && r != '?' {
			continue
		}
		if i+1 < len(runes) && !unicode.IsSpace(runes[i+1]) {
			continue
		}
		count++
		if count == n {
			return string(runes[:i+1])
		}
	}
	return text
}
