package client

import (
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/skillshare/cli/pkg/config"
	"github.com/skillshare/cli/pkg/logger"
)

// UserAgent is sent with every request
const UserAgent = "Skillshare-CLI/0.1.0"

// Options configures a Client
type Options struct {
	BaseURL string
	Timeout time.Duration
	// OnUnauthenticated runs after any response with status 401.
	OnUnauthenticated func()
}

// Client is the HTTP transport shared by all API calls. The session cookie
// lives in its cookie jar and is sent with every request.
type Client struct {
	http    *resty.Client
	jar     http.CookieJar
	baseURL *url.URL
}

// New creates a client for the given options
func New(opts Options) (*Client, error) {
	base, err := url.Parse(opts.BaseURL)
	if err != nil {
		return nil, err
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}

	httpClient := resty.New()
	httpClient.SetBaseURL(opts.BaseURL)
	if opts.Timeout > 0 {
		httpClient.SetTimeout(opts.Timeout)
	}
	httpClient.SetCookieJar(jar)
	httpClient.SetHeader("User-Agent", UserAgent)
	httpClient.SetHeader("Accept", "application/json")

	httpClient.OnBeforeRequest(func(c *resty.Client, req *resty.Request) error {
		logger.Debug("HTTP Request", "method", req.Method, "url", req.URL)
		return nil
	})

	onUnauth := opts.OnUnauthenticated
	httpClient.OnAfterResponse(func(c *resty.Client, resp *resty.Response) error {
		logger.Debug("HTTP Response", "method", resp.Request.Method, "url", resp.Request.URL, "status", resp.StatusCode())
		if resp.StatusCode() == http.StatusUnauthorized && onUnauth != nil {
			onUnauth()
		}
		return nil
	})

	return &Client{http: httpClient, jar: jar, baseURL: base}, nil
}

// FromConfig creates a client from api.base_url and api.timeout
func FromConfig(onUnauthenticated func()) (*Client, error) {
	return New(Options{
		BaseURL:           config.GetString("api.base_url"),
		Timeout:           time.Duration(config.GetInt("api.timeout")) * time.Second,
		OnUnauthenticated: onUnauthenticated,
	})
}

// R starts a new request
func (c *Client) R() *resty.Request {
	return c.http.R()
}

// BaseURL returns the API root every path is resolved against
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// Cookies returns the cookies the jar would send to the API
func (c *Client) Cookies() []*http.Cookie {
	return c.jar.Cookies(c.baseURL)
}

// SetCookies seeds the jar, e.g. with a session cookie restored from disk
func (c *Client) SetCookies(cookies []*http.Cookie) {
	c.jar.SetCookies(c.baseURL, cookies)
}

// ClearCookies drops the session cookie by replacing the jar
func (c *Client) ClearCookies() {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return
	}
	c.jar = jar
	c.http.SetCookieJar(jar)
}
