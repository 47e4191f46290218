package website

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

type robotsRule struct {
	UserAgent  string
	Disallow   []string
	CrawlDelay int
}

var robotsRules = []robotsRule{
	{
		UserAgent: "*",
		Disallow: []string{
			"/api/", "/admin/", "/private/", "/temp/", "/draft/",
			"/*.json$", "/search?*", "/thank-you", "/404", "/500",
		},
	},
	{UserAgent: "Googlebot", Disallow: []string{"/api/", "/admin/", "/private/", "/temp/", "/draft/"}, CrawlDelay: 1},
	{UserAgent: "Bingbot", Disallow: []string{"/api/", "/admin/", "/private/"}, CrawlDelay: 2},
	{UserAgent: "facebookexternalhit"},
	{UserAgent: "Twitterbot"},
	{UserAgent: "LinkedInBot"},
}

func (a *App) handleRobots(c echo.Context) error {
	var b strings.Builder
	for _, r := range robotsRules {
		fmt.Fprintf(&b, "User-Agent: %s\nAllow: /\n", r.UserAgent)
		for _, d := range r.Disallow {
			fmt.Fprintf(&b, "Disallow: %s\n", d)
		}
		if r.CrawlDelay > 0 {
			fmt.Fprintf(&b, "Crawl-delay: %d\n", r.CrawlDelay)
		}
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "Host: %s\n", a.Config.URL)
	for _, f := range sitemapFiles {
		fmt.Fprintf(&b, "Sitemap: %s/%s\n", a.Config.URL, f)
	}
	return c.String(http.StatusOK, b.String())
}
