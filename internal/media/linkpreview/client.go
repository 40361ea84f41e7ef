// Package linkpreview looks up a human-readable title for a resource URL so
// the item editor can prefill it.
package linkpreview

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"syscall"
	"time"

	"golang.org/x/net/html"

	"github.com/raygaledev/kiasu/internal/ratelimit"
)

const (
	// One request per second per host, burst of 3.
	defaultRPS   = 1.0
	defaultBurst = 3

	defaultTimeout = 5 * time.Second
	maxBodyBytes   = 1 << 20
	userAgent      = "Kiasu/1.0 (+link title lookup)"

	// DefaultOEmbedEndpoint is YouTube's public oEmbed endpoint.
	DefaultOEmbedEndpoint = "https://www.youtube.com/oembed"
)

var (
	// ErrNotFound means the upstream answered but had no usable title.
	ErrNotFound = errors.New("no title found")
	// ErrUnsupportedURL is returned for anything but absolute http(s) URLs.
	ErrUnsupportedURL = errors.New("url must be http or https")
	// ErrBlockedAddress is returned when a URL resolves to a private address.
	ErrBlockedAddress = errors.New("address not allowed")
)

// Source says where a title came from.
type Source string

const (
	SourceOEmbed Source = "oembed"
	SourceHTML   Source = "html"
)

// Result is a looked-up title.
type Result struct {
	Title  string `json:"title"`
	Source Source `json:"source"`
}

// Config configures a Client.
type Config struct {
	OEmbedEndpoint string
	Timeout        time.Duration
	// AllowPrivate permits loopback and private network targets. Tests
	// against httptest servers need it; production leaves it off.
	AllowPrivate bool
}

// Client is a rate-limited title lookup client.
type Client struct {
	http    *http.Client
	oembed  string
	limiter *ratelimit.KeyedRateLimiter
	logger  *slog.Logger
}

// New creates a new lookup client.
func New(cfg Config, logger *slog.Logger) *Client {
	if cfg.OEmbedEndpoint == "" {
		cfg.OEmbedEndpoint = DefaultOEmbedEndpoint
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	dialer := &net.Dialer{Timeout: cfg.Timeout}
	if !cfg.AllowPrivate {
		dialer.Control = refusePrivate
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DialContext = dialer.DialContext

	return &Client{
		http: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: transport,
		},
		oembed:  cfg.OEmbedEndpoint,
		limiter: ratelimit.New(defaultRPS, defaultBurst),
		logger:  logger,
	}
}

// Close releases resources held by the client.
func (c *Client) Close() {
	c.limiter.Stop()
}

// Title resolves the title for rawURL. YouTube links go through oEmbed;
// other pages are fetched and their og:title or <title> is used.
func (c *Client) Title(ctx context.Context, rawURL string) (*Result, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, ErrUnsupportedURL
	}

	if IsYouTube(u) {
		title, err := c.oembedTitle(ctx, u)
		if err != nil {
			return nil, err
		}
		return &Result{Title: title, Source: SourceOEmbed}, nil
	}

	title, err := c.pageTitle(ctx, u)
	if err != nil {
		return nil, err
	}
	return &Result{Title: title, Source: SourceHTML}, nil
}

// IsYouTube reports whether u points at a YouTube video host.
func IsYouTube(u *url.URL) bool {
	switch strings.ToLower(u.Hostname()) {
	case "youtube.com", "www.youtube.com", "m.youtube.com", "music.youtube.com", "youtu.be":
		return true
	default:
		return false
	}
}

func (c *Client) oembedTitle(ctx context.Context, target *url.URL) (string, error) {
	endpoint, err := url.Parse(c.oembed)
	if err != nil {
		return "", fmt.Errorf("parse oembed endpoint: %w", err)
	}
	q := endpoint.Query()
	q.Set("url", target.String())
	q.Set("format", "json")
	endpoint.RawQuery = q.Encode()

	body, err := c.get(ctx, endpoint, "application/json")
	if err != nil {
		return "", err
	}

	var payload struct {
		Title string `json:"title"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", fmt.Errorf("decode oembed response: %w", err)
	}
	title := strings.TrimSpace(payload.Title)
	if title == "" {
		return "", ErrNotFound
	}
	return title, nil
}

func (c *Client) pageTitle(ctx context.Context, target *url.URL) (string, error) {
	body, err := c.get(ctx, target, "text/html")
	if err != nil {
		return "", err
	}

	doc, err := html.Parse(strings.NewReader(string(body)))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	og, title := findTitles(doc)
	for _, candidate := range []string{og, title} {
		if t := strings.Join(strings.Fields(candidate), " "); t != "" {
			return t, nil
		}
	}
	return "", ErrNotFound
}

// findTitles returns the og:title meta content and the first <title> text.
func findTitles(n *html.Node) (og, title string) {
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "meta":
				if og == "" && (attr(n, "property") == "og:title" || attr(n, "name") == "og:title") {
					og = attr(n, "content")
				}
			case "title":
				if title == "" && n.FirstChild != nil {
					title = n.FirstChild.Data
				}
			case "body":
				// Titles live in <head>.
				return
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(n)
	return og, title
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return a.Val
		}
	}
	return ""
}

// get performs a rate-limited GET keyed by host and returns at most
// maxBodyBytes of the body.
func (c *Client) get(ctx context.Context, u *url.URL, accept string) ([]byte, error) {
	if err := c.limiter.Wait(ctx, strings.ToLower(u.Hostname())); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", accept)
	req.Header.Set("User-Agent", userAgent)

	c.logger.Debug("link title request", "host", u.Host)

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, ErrBlockedAddress) {
			return nil, ErrBlockedAddress
		}
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		if resp.StatusCode >= 500 {
			return nil, fmt.Errorf("upstream status %d", resp.StatusCode)
		}
		return nil, ErrNotFound
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return body, nil
}

// refusePrivate is a net.Dialer Control hook that blocks loopback,
// link-local and private targets after DNS resolution.
func refusePrivate(_, address string, _ syscall.RawConn) error {
	host, _, err := net.SplitHostPort(address)
	if err != nil {
		return err
	}
	ip := net.ParseIP(host)
	if ip == nil || ip.IsLoopback() || ip.IsPrivate() || ip.IsLinkLocalUnicast() ||
		ip.IsLinkLocalMulticast() || ip.IsUnspecified() {
		return ErrBlockedAddress
	}
	return nil
}
