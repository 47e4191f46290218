package website

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/jtushya/new-company-website/blog"
)

type searchResponse struct {
	Query   string          `json:"query"`
	Total   int             `json:"total"`
	Results []blog.Metadata `json:"results"`
}

// handleAPIPosts returns one page of the listing as JSON. It accepts the same
// page, q and tag parameters as /blog/.
func (a *App) handleAPIPosts(c echo.Context) error {
	return c.JSON(http.StatusOK, a.Searcher.List(a.listQuery(c)))
}

// handleAPIPost returns a single post including its rendered HTML.
func (a *App) handleAPIPost(c echo.Context) error {
	post, err := a.Store.LoadPost(c.Request().Context(), c.Param("slug"))
	if err != nil {
		if errors.Is(err, blog.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "post not found"})
		}
		return err
	}
	return c.JSON(http.StatusOK, post)
}

// handleAPISearch answers the client-side search box. A blank query returns
// every post.
func (a *App) handleAPISearch(c echo.Context) error {
	q := strings.TrimSpace(c.QueryParam("q"))
	results := a.Searcher.Search(q)
	if tags := FilterEmpty(c.QueryParams()["tag"]); len(tags) > 0 {
		results = blog.FilterByTags(results, tags)
	}
	if results == nil {
		results = []blog.Metadata{}
	}
	return c.JSON(http.StatusOK, searchResponse{Query: q, Total: len(results), Results: results})
}
