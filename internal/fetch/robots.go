package fetch

import (
	"context"
	"fmt"
	"net/http"

	"github.com/temoto/robotstxt"
)

// RobotsGroup fetches and parses the site's robots.txt rules for the
// given user agent. Any failure is treated as "no restrictions" and
// returns nil, matching how polite crawlers degrade.
func (c *Client) RobotsGroup(ctx context.Context, scheme, host, agent string) *robotstxt.Group {
	robotsURL := fmt.Sprintf("%s://%s/robots.txt", scheme, host)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return nil
	}
	req.Header.Set("User-Agent", agent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil
	}
	defer resp.Body.Close()

	data, err := robotstxt.FromResponse(resp)
	if err != nil {
		return nil
	}
	return data.FindGroup(agent)
}
