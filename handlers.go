package website

import (
	"errors"
	"io/fs"
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/jtushya/new-company-website/blog"
	"github.com/jtushya/new-company-website/forms"
	"github.com/jtushya/new-company-website/internal/media"
	"github.com/jtushya/new-company-website/views"
)

const homeLatestPosts = 3

func (a *App) setupRoutes() {
	e := a.Echo

	embeddedFS, _ := fs.Sub(EmbeddedAssets, "embedded")
	embeddedHandler := http.FileServer(http.FS(embeddedFS))
	e.GET("/public/search.js", echo.WrapHandler(http.StripPrefix("/public/", embeddedHandler)))

	e.Static("/public", a.Config.StaticDir)
	e.Static("/images", a.Config.StaticDir+"/images")
	e.GET("/favicon.svg", a.handleFavicon)
	e.GET("/robots.txt", a.handleRobots)
	e.GET("/healthz", handleHealth)
	e.GET("/metrics", a.metricsHandler())

	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/blog-sitemap.xml", a.handleBlogSitemap)
	e.GET("/services-sitemap.xml", a.handleServicesSitemap)
	e.GET("/feed.xml", a.handleFeed)

	e.GET("/", a.handleHome)
	e.GET("/blog/", a.handleBlog)
	e.GET("/blog/:slug/", a.handlePost)
	e.GET("/blog/:slug/og.jpg", a.handlePostImage)
	e.GET("/services/", a.handleServices)
	e.GET("/services/:slug/", a.handleService)
	for _, p := range staticPages {
		e.GET("/"+p.Slug+"/", a.handlePage)
	}
	for _, f := range forms.All {
		e.GET(f.Path, a.handleForm)
		e.POST(f.Path, a.handleFormSubmit)
	}

	api := e.Group("/api/blog")
	api.GET("/posts", a.handleAPIPosts)
	api.GET("/posts/:slug", a.handleAPIPost)
	api.GET("/search", a.handleAPISearch)
}

func (a *App) handleHome(c echo.Context) error {
	latest := a.Collection.All()
	if len(latest) > homeLatestPosts {
		latest = latest[:homeLatestPosts]
	}
	site := a.site("/")
	page := views.HomePage{
		Layout: a.layout(c, views.Head{
			Title:       a.Config.Name + " - Lightning-Fast Digital Transformation",
			Description: a.Config.Description,
			JSONLD:      views.WebsiteJSONLD(site),
		}),
		Headline: "Go digital in hours, not months",
		Lead:     a.Config.Description,
		Services: serviceCards(),
		Latest:   views.NewCards(latest),
	}
	return Render(c, a.Views.Home(page))
}

// listQuery reads the blog listing parameters: page, q and repeated tag.
func (a *App) listQuery(c echo.Context) blog.ListQuery {
	return blog.ListQuery{
		Search:   c.QueryParam("q"),
		Tags:     FilterEmpty(c.QueryParams()["tag"]),
		Page:     queryInt(c, "page"),
		PageSize: a.Config.PostsPerPage,
	}
}

func (a *App) handleBlog(c echo.Context) error {
	listing := a.Searcher.List(a.listQuery(c))
	page := views.NewBlogIndexPage(a.layout(c, views.Head{
		Title:       "Blog | " + a.Config.Name,
		Description: "Insights on websites, marketing and digital transformation from the " + a.Config.Name + " team.",
		Canonical:   views.BuildURL(a.Config.URL, "blog"),
	}), listing)
	if isPartial(c, "blog-results") || isPartial(c, "results") {
		return Render(c, a.Views.BlogResults(page))
	}
	return Render(c, a.Views.BlogIndex(page))
}

func (a *App) handlePost(c echo.Context) error {
	slug := c.Param("slug")
	post, err := a.Store.LoadPost(c.Request().Context(), slug)
	if err != nil {
		if errors.Is(err, blog.ErrNotFound) {
			return a.renderNotFound(c)
		}
		return err
	}

	site := a.site(c.Request().URL.Path)
	head := views.Head{
		Title:       post.SEOTitle() + " | " + a.Config.Name,
		Description: post.SEODescription(),
		Canonical:   views.BuildURL(a.Config.URL, "blog", post.Slug),
		OGType:      "article",
		JSONLD:      views.BlogPostingJSONLD(site, post.Metadata),
	}
	if post.Image != "" {
		head.Image = absURL(a.Config.URL, post.Image)
		if size, ok := a.images.Size(post.Image); ok {
			head.ImageWidth, head.ImageHeight = size.Width, size.Height
			if size.Width > media.OGWidth {
				head.Image = views.BuildURL(a.Config.URL, "blog", post.Slug) + "og.jpg"
				head.ImageWidth = media.OGWidth
				head.ImageHeight = size.Height * media.OGWidth / size.Width
			}
		}
	}

	related := a.Collection.Related(post.Slug, blog.DefaultRelatedLimit)
	page := views.PostPage{
		Layout:  a.layout(c, head),
		Post:    views.NewPostCard(post.Metadata),
		HTML:    post.HTML,
		Related: views.NewCards(related),
		Custom:  post.Layout == blog.LayoutCustom,
		BackURL: "/blog/",
	}
	return Render(c, a.Views.Post(page))
}

// handlePostImage serves the post cover scaled down for social previews.
func (a *App) handlePostImage(c echo.Context) error {
	m, ok := a.Collection.Get(c.Param("slug"))
	if !ok || m.Image == "" {
		return echo.ErrNotFound
	}
	f, err := a.images.Open(m.Image)
	if err != nil {
		return echo.ErrNotFound
	}
	defer f.Close()
	b, _, err := media.FitWidth(f, media.OGWidth)
	if err != nil {
		return err
	}
	c.Response().Header().Set("Cache-Control", "public, max-age=86400")
	return c.Blob(http.StatusOK, "image/jpeg", b)
}

func (a *App) handleServices(c echo.Context) error {
	page := views.StaticPage{
		Layout: a.layout(c, views.Head{
			Title:       "Services | " + a.Config.Name,
			Description: "Websites, video, marketing and software delivered at lightning speed.",
		}),
		Title:    "Our Services",
		Lead:     "Everything you need to grow online, delivered fast.",
		Services: serviceCards(),
		CTA:      &views.NavLink{Label: "Start your project", Href: forms.GetStarted.Path},
	}
	return Render(c, a.Views.Services(page))
}

func (a *App) handleService(c echo.Context) error {
	s, ok := lookupService(c.Param("slug"))
	if !ok {
		return a.renderNotFound(c)
	}
	page := views.StaticPage{
		Layout: a.layout(c, views.Head{
			Title:       s.Title + " | " + a.Config.Name,
			Description: s.Summary,
			OGType:      "website",
		}),
		Title: s.Title,
		Lead:  s.Summary,
		Sections: []views.Section{
			{Heading: "What's included", Bullets: s.Highlights},
		},
		CTA: &views.NavLink{Label: "Get started", Href: forms.GetStarted.Path + "?service=" + url.QueryEscape(s.Slug)},
	}
	return Render(c, a.Views.Page(page))
}

func (a *App) handlePage(c echo.Context) error {
	slug := strings.Trim(c.Path(), "/")
	p, ok := lookupPage(slug)
	if !ok {
		return a.renderNotFound(c)
	}
	page := views.StaticPage{
		Layout:   a.layout(c, views.Head{Title: p.Title + " | " + a.Config.Name, Description: p.Description}),
		Title:    p.Title,
		Lead:     p.Lead,
		Sections: p.Sections,
	}
	if p.Slug == "about" || p.Slug == "portfolio" {
		page.CTA = &views.NavLink{Label: "Work with us", Href: forms.Contact.Path}
	}
	return Render(c, a.Views.Page(page))
}

func (a *App) handleFavicon(c echo.Context) error {
	return c.File(a.Config.StaticDir + "/favicon.svg")
}

func handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (a *App) renderNotFound(c echo.Context) error {
	return RenderStatus(c, http.StatusNotFound, a.Views.Error(views.ErrorPage{
		Layout:  a.layout(c, views.Head{Title: "Page not found | " + a.Config.Name, NoIndex: true}),
		Code:    http.StatusNotFound,
		Title:   "Page not found",
		Message: "The page you are looking for does not exist or has been moved.",
	}))
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	var he *echo.HTTPError
	ok := errors.As(err, &he)
	if ok && he.Code == http.StatusNotFound && !strings.HasPrefix(c.Request().URL.Path, "/api/") {
		_ = a.renderNotFound(c)
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		a.Logger.Error().Err(err).Str("uri", c.Request().RequestURI).Msg("server error")
		if strings.HasPrefix(c.Request().URL.Path, "/api/") {
			_ = c.JSON(code, map[string]string{"error": http.StatusText(code)})
			return
		}
		_ = RenderStatus(c, code, a.Views.Error(views.ErrorPage{
			Layout:  a.layout(c, views.Head{Title: "Something went wrong | " + a.Config.Name, NoIndex: true}),
			Code:    code,
			Title:   "Something went wrong",
			Message: "We hit an unexpected error. Please try again in a moment.",
		}))
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
