package website

import (
	"encoding/xml"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/jtushya/new-company-website/views"
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty"`
}

// sitemapFiles lists every sitemap advertised in robots.txt.
var sitemapFiles = []string{"sitemap.xml", "blog-sitemap.xml", "services-sitemap.xml"}

// handleSitemap lists the static pages.
func (a *App) handleSitemap(c echo.Context) error {
	base := a.Config.URL
	urls := []sitemapURL{
		{Loc: views.BuildURL(base), ChangeFreq: "weekly", Priority: "1.0"},
		{Loc: views.BuildURL(base, "services"), ChangeFreq: "weekly", Priority: "0.9"},
		{Loc: views.BuildURL(base, "blog"), ChangeFreq: "daily", Priority: "0.8"},
	}
	for _, p := range []string{"contact", "get-started", "careers"} {
		urls = append(urls, sitemapURL{Loc: views.BuildURL(base, p), ChangeFreq: "monthly", Priority: "0.8"})
	}
	for _, p := range staticPages {
		urls = append(urls, sitemapURL{Loc: views.BuildURL(base, p.Slug), ChangeFreq: "monthly", Priority: "0.5"})
	}
	return writeSitemap(c, urls)
}

// handleBlogSitemap lists every post with its publish date.
func (a *App) handleBlogSitemap(c echo.Context) error {
	base := a.Config.URL
	posts := a.Collection.All()
	urls := make([]sitemapURL, 0, len(posts))
	for _, p := range posts {
		urls = append(urls, sitemapURL{
			Loc:        views.BuildURL(base, "blog", p.Slug),
			LastMod:    p.PublishedAt.UTC().Format(time.RFC3339),
			ChangeFreq: "monthly",
			Priority:   "0.7",
		})
	}
	c.Response().Header().Set("Cache-Control", "public, max-age=3600, must-revalidate")
	return writeSitemap(c, urls)
}

// handleServicesSitemap lists the services index and each service page.
func (a *App) handleServicesSitemap(c echo.Context) error {
	base := a.Config.URL
	now := time.Now().UTC().Format(time.RFC3339)
	urls := []sitemapURL{
		{Loc: views.BuildURL(base, "services"), LastMod: now, ChangeFreq: "weekly", Priority: "0.9"},
	}
	for _, s := range services {
		urls = append(urls, sitemapURL{
			Loc:        views.BuildURL(base, "services", s.Slug),
			LastMod:    now,
			ChangeFreq: "weekly",
			Priority:   s.Priority,
		})
	}
	c.Response().Header().Set("Cache-Control", "public, max-age=3600")
	return writeSitemap(c, urls)
}

func writeSitemap(c echo.Context, urls []sitemapURL) error {
	sitemap := sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	c.Response().Write([]byte(xml.Header))
	return xml.NewEncoder(c.Response()).Encode(sitemap)
}
