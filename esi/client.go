// Package esi is a small client for the EVE Swagger Interface.
//
// It only covers the endpoints needed to value a corporation inventory:
// corporation assets, region orders and structure orders.
package esi

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

const (
	DefaultBaseURL = "https://esi.evetech.net/latest"
	AuthURL        = "https://login.eveonline.com/v2/oauth/authorize"
	TokenURL       = "https://login.eveonline.com/v2/oauth/token"
)

// Scopes required by the client.
var Scopes = []string{
	"esi-assets.read_corporation_assets.v1",
	"esi-markets.structure_markets.v1",
}

// Config holds the SSO application credentials.
type Config struct {
	ClientID     string
	SecretKey    string
	CallbackURL  string
	UserAgent    string
	RefreshToken string

	// BaseURL and TokenURL default to the public ESI and SSO endpoints.
	BaseURL  string
	TokenURL string
}

// Client calls ESI on behalf of a character, authenticated by a refresh token.
type Client struct {
	http      *http.Client
	base      string
	userAgent string
	logger    *zap.Logger

	// MaxAttempts is the number of tries for a single page.
	MaxAttempts int
	// Backoff is multiplied by the attempt number between retries.
	Backoff time.Duration
	// Concurrency is the number of pages fetched in parallel.
	Concurrency int
}

// New returns a Client. The access token is obtained lazily from the refresh
// token on the first request and renewed when it expires.
func New(ctx context.Context, cfg Config, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	tokenURL := cmp.Or(cfg.TokenURL, TokenURL)
	oc := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.SecretKey,
		RedirectURL:  cfg.CallbackURL,
		Scopes:       Scopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:   AuthURL,
			TokenURL:  tokenURL,
			AuthStyle: oauth2.AuthStyleInHeader,
		},
	}
	ts := oc.TokenSource(ctx, &oauth2.Token{RefreshToken: cfg.RefreshToken})
	return &Client{
		http:        oauth2.NewClient(ctx, ts),
		base:        strings.TrimSuffix(cmp.Or(cfg.BaseURL, DefaultBaseURL), "/"),
		userAgent:   cfg.UserAgent,
		logger:      logger,
		MaxAttempts: 3,
		Backoff:     time.Second,
		Concurrency: 8,
	}
}

// Error is an ESI error response.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("esi: %d %s: %s", e.StatusCode, http.StatusText(e.StatusCode), e.Message)
}

// newError builds an Error from a response body like {"error": "..."}.
func newError(status int, body []byte) *Error {
	e := &Error{StatusCode: status, Message: strings.TrimSpace(string(body))}
	var v any
	if err := json.Unmarshal(body, &v); err != nil {
		return e
	}
	msg, err := jsonpath.Get("$.error", v)
	if err != nil {
		return e
	}
	if s, ok := msg.(string); ok {
		e.Message = s
	}
	return e
}

// get fetches one page of path, retrying on server and transport errors.
// It returns the body and the page count announced in X-Pages.
func (c *Client) get(ctx context.Context, path string, query url.Values, page int) ([]byte, int, error) {
	q := url.Values{}
	for k, v := range query {
		q[k] = v
	}
	q.Set("datasource", "tranquility")
	q.Set("page", strconv.Itoa(page))
	addr := c.base + path + "?" + q.Encode()

	var lastErr error
	for attempt := 1; attempt <= c.MaxAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return nil, 0, ctx.Err()
			case <-time.After(c.Backoff * time.Duration(attempt-1)):
			}
		}
		body, pages, err := c.do(ctx, addr)
		if err == nil {
			return body, pages, nil
		}
		if !retryable(err) || ctx.Err() != nil {
			return nil, 0, err
		}
		c.logger.Warn("esi request failed", zap.String("path", path), zap.Int("page", page), zap.Int("attempt", attempt), zap.Error(err))
		lastErr = err
	}
	return nil, 0, fmt.Errorf("cannot GET %s page %d after %d attempts: %w", path, page, c.MaxAttempts, lastErr)
}

func (c *Client) do(ctx context.Context, addr string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, err
	}
	c.logger.Debug("esi", zap.String("method", req.Method), zap.String("path", req.URL.Path), zap.String("status", resp.Status))
	if resp.StatusCode != http.StatusOK {
		return nil, 0, newError(resp.StatusCode, body)
	}
	pages := 1
	if h := resp.Header.Get("X-Pages"); h != "" {
		pages, err = strconv.Atoi(h)
		if err != nil {
			return nil, 0, fmt.Errorf("invalid X-Pages header %q: %w", h, err)
		}
	}
	return body, pages, nil
}

func retryable(err error) bool {
	var rerr *oauth2.RetrieveError
	if errors.As(err, &rerr) {
		return false
	}
	var eerr *Error
	if errors.As(err, &eerr) {
		return eerr.StatusCode >= 500
	}
	return true
}
