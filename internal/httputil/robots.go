// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/temoto/robotstxt"
)

// Allowed reports whether the host's robots.txt permits this client's
// User-Agent to fetch pageURL. A robots.txt that is missing, answers with
// a non-200 status, or does not parse allows everything. Transport errors
// are returned.
func (c *Client) Allowed(ctx context.Context, pageURL string) (bool, error) {
	u, err := url.Parse(pageURL)
	if err != nil {
		return false, fmt.Errorf("parsing %s: %w", pageURL, err)
	}
	robotsURL := (&url.URL{Scheme: u.Scheme, Host: u.Host, Path: "/robots.txt"}).String()

	body, err := c.Get(ctx, robotsURL)
	var se *StatusError
	if errors.As(err, &se) {
		return true, nil
	}
	if err != nil {
		return false, err
	}

	robots, err := robotstxt.FromBytes(body)
	if err != nil {
		return true, nil
	}
	return robots.TestAgent(u.RequestURI(), c.userAgent), nil
}
