package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/twitch"
)

// Client talks to the identity provider on behalf of one session owner.
//
// It doubles as that owner's authenticated HTTP client: after Arm, every
// request made through HTTPClient carries the bearer token; after Disarm it
// carries none. Only the session owner should call Arm and Disarm.
type Client struct {
	cfg  Config
	base *http.Client
	http *http.Client

	mu    sync.RWMutex
	token string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the underlying HTTP client used for all calls.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.base = hc
		}
	}
}

// NewClient creates a provider client. Empty endpoint fields fall back to Twitch.
func NewClient(cfg Config, opts ...Option) *Client {
	cfg = cfg.withDefaults()
	c := &Client{
		cfg:  cfg,
		base: &http.Client{Timeout: cfg.HTTPTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}

	baseTransport := c.base.Transport
	if baseTransport == nil {
		baseTransport = http.DefaultTransport
	}
	c.http = &http.Client{
		Transport:     &transport{client: c, base: baseTransport},
		Timeout:       c.base.Timeout,
		CheckRedirect: c.base.CheckRedirect,
		Jar:           c.base.Jar,
	}
	return c
}

// ClientID returns the application's client id.
func (c *Client) ClientID() string {
	return c.cfg.ClientID
}

// Endpoint returns the provider's OAuth2 endpoint.
func (c *Client) Endpoint() oauth2.Endpoint {
	return oauth2.Endpoint{
		AuthURL:  c.cfg.AuthURL,
		TokenURL: twitch.Endpoint.TokenURL,
	}
}

// Arm makes HTTPClient send token as a bearer credential.
func (c *Client) Arm(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

// Disarm removes the bearer credential.
func (c *Client) Disarm() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = ""
}

// Authorization returns the Authorization header value HTTPClient currently
// sends, or "" when disarmed.
func (c *Client) Authorization() string {
	tok, err := c.Token()
	if err != nil {
		return ""
	}
	return tok.Type() + " " + tok.AccessToken
}

// Token implements oauth2.TokenSource over the armed token.
func (c *Client) Token() (*oauth2.Token, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.token == "" {
		return nil, ErrNotArmed
	}
	return bearer(c.token), nil
}

// HTTPClient returns the client other components use to call the provider's API.
func (c *Client) HTTPClient() *http.Client {
	return c.http
}

// FetchProfile loads the profile of the user owning accessToken. The token is
// passed explicitly so a candidate token can be checked before it is armed.
// Only the first record of the response collection is returned.
func (c *Client) FetchProfile(ctx context.Context, accessToken string) (Profile, error) {
	if accessToken == "" {
		return Profile{}, ErrEmptyToken
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL(c.cfg.ProfilePath), nil)
	if err != nil {
		return Profile{}, fmt.Errorf("build profile request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	bearer(accessToken).SetAuthHeader(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return Profile{}, fmt.Errorf("fetch profile: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if err := checkStatus(resp); err != nil {
		return Profile{}, err
	}

	var body profileResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Profile{}, fmt.Errorf("decode profile: %w", err)
	}
	if len(body.Data) == 0 {
		return Profile{}, ErrEmptyProfile
	}
	return body.Data[0], nil
}

// Revoke asks the provider to invalidate accessToken.
func (c *Client) Revoke(ctx context.Context, accessToken string) error {
	if accessToken == "" {
		return ErrEmptyToken
	}

	form := url.Values{
		"client_id": {c.cfg.ClientID},
		"token":     {accessToken},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.RevokeURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build revoke request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.base.Do(req)
	if err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	return checkStatus(resp)
}

func (c *Client) apiURL(path string) string {
	return strings.TrimRight(c.cfg.APIURL, "/") + "/" + strings.TrimLeft(path, "/")
}

func bearer(token string) *oauth2.Token {
	return &oauth2.Token{AccessToken: token, TokenType: "Bearer"}
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return fmt.Errorf("%w: %d %s", ErrUnexpectedStatus, resp.StatusCode, strings.TrimSpace(string(msg)))
}

// transport adds the Client-Id header and, unless the request already has
// credentials, the armed bearer token.
type transport struct {
	client *Client
	base   http.RoundTripper
}

func (t *transport) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())
	r.Header.Set("Client-Id", t.client.cfg.ClientID)
	if r.Header.Get("Authorization") == "" {
		if tok, err := t.client.Token(); err == nil {
			tok.SetAuthHeader(r)
		}
	}
	return t.base.RoundTrip(r)
}
