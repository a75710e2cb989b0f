// Package api wraps the skill-sharing REST endpoints. Every call goes through
// the shared transport in pkg/client, so the session cookie and 401 handling
// apply uniformly.
package api

import (
	"bytes"
	"context"
	"strconv"

	"github.com/go-resty/resty/v2"
	json "github.com/json-iterator/go"
	"github.com/skillshare/cli/pkg/client"
	"github.com/skillshare/cli/pkg/logger"
)

// Client exposes typed API operations
type Client struct {
	http *client.Client
}

// New wraps a transport
func New(c *client.Client) *Client {
	return &Client{http: c}
}

// Transport returns the underlying HTTP client
func (c *Client) Transport() *client.Client {
	return c.http
}

func (c *Client) r(ctx context.Context) *resty.Request {
	if ctx == nil {
		ctx = context.Background()
	}
	return c.http.R().SetContext(ctx)
}

// decode checks the response and, when out is non-nil, unmarshals the body
func decode(resp *resty.Response, err error, out interface{}) error {
	if err := CheckResponse(resp, err); err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(resp.Body())) == 0 {
		return nil
	}
	return json.Unmarshal(resp.Body(), out)
}

// decodeList decodes a JSON array body. Anything that isn't an array yields
// an empty list, matching how the server reports "nothing here".
func decodeList[T any](resp *resty.Response, err error, what string) ([]T, error) {
	if err := CheckResponse(resp, err); err != nil {
		return nil, err
	}
	body := bytes.TrimSpace(resp.Body())
	if len(body) == 0 || body[0] != '[' {
		logger.Debug("Non-array list response", "what", what, "bytes", len(body))
		return []T{}, nil
	}
	var items []T
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func id(v int64) string {
	return strconv.FormatInt(v, 10)
}
