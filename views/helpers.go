package views

import (
	"encoding/json"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/jtushya/new-company-website/blog"
)

const (
	cardTags     = 2
	featuredTags = 3
)

// BuildURL joins a base URL with path segments, ensuring a trailing slash
// whenever segments are given.
func BuildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(pathSegments...))
	if len(pathSegments) > 0 && !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u.String()
}

// PostURL is the site-relative path of a post.
func PostURL(slug string) string {
	return "/blog/" + url.PathEscape(slug) + "/"
}

// ListingURL builds a blog listing link for the given search, tag filter and page.
func ListingURL(query string, tags []string, page int) string {
	v := url.Values{}
	if q := strings.TrimSpace(query); q != "" {
		v.Set("q", q)
	}
	for _, t := range tags {
		v.Add("tag", t)
	}
	if page > 1 {
		v.Set("page", strconv.Itoa(page))
	}
	if len(v) == 0 {
		return "/blog/"
	}
	return "/blog/?" + v.Encode()
}

// TagClass returns CSS classes for a tag pill, with active variant.
func TagClass(active bool) string {
	base := "inline-flex items-center rounded-full border px-3 py-1 text-xs font-medium transition"
	if active {
		return base + " border-blue-600 bg-blue-600 text-white"
	}
	return base + " border-gray-200 bg-gray-50 text-gray-700 hover:border-blue-300"
}

// FormatDate renders a publish date for display.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("January 2, 2006")
}

// NewCard maps post metadata to a listing card.
func NewCard(m blog.Metadata) Card {
	limit := cardTags
	if m.Featured {
		limit = featuredTags
	}
	c := Card{
		Slug:     m.Slug,
		URL:      PostURL(m.Slug),
		Title:    m.Title,
		Excerpt:  m.Excerpt,
		Author:   m.Author,
		Date:     FormatDate(m.PublishedAt),
		ISODate:  m.PublishedAt.Format("2006-01-02"),
		Image:    m.Image,
		ReadTime: m.ReadTime,
		Featured: m.Featured,
	}
	for i, t := range m.Tags {
		if i == limit {
			c.ExtraTags = len(m.Tags) - limit
			break
		}
		c.Tags = append(c.Tags, TagLink{Name: t, URL: ListingURL("", []string{t}, 1), Class: TagClass(false)})
	}
	return c
}

// NewPostCard is NewCard with every tag shown, for the post header.
func NewPostCard(m blog.Metadata) Card {
	c := NewCard(m)
	c.Tags, c.ExtraTags = nil, 0
	for _, t := range m.Tags {
		c.Tags = append(c.Tags, TagLink{Name: t, URL: ListingURL("", []string{t}, 1), Class: TagClass(false)})
	}
	return c
}

// NewCards maps a slice of metadata to cards.
func NewCards(posts []blog.Metadata) []Card {
	cards := make([]Card, 0, len(posts))
	for _, p := range posts {
		cards = append(cards, NewCard(p))
	}
	return cards
}

// NewBlogIndexPage builds the listing view for l.
func NewBlogIndexPage(layout Layout, l blog.Listing) BlogIndexPage {
	active := make(map[string]bool, len(l.ActiveTags))
	for _, t := range l.ActiveTags {
		active[strings.ToLower(t)] = true
	}

	page := BlogIndexPage{
		Layout:   layout,
		Query:    l.Query,
		Featured: NewCards(l.Featured),
		Posts:    NewCards(l.Posts),
		Stats:    l.Stats,
		Filtered: l.Query != "" || len(l.ActiveTags) > 0,
		Empty:    len(l.Posts) == 0,
		ClearURL: ListingURL("", nil, 1),
	}
	for _, t := range l.Tags {
		on := active[strings.ToLower(t)]
		page.Tags = append(page.Tags, TagLink{
			Name:   t,
			URL:    ListingURL(l.Query, toggle(l.ActiveTags, t), 1),
			Active: on,
			Class:  TagClass(on),
		})
	}
	for _, t := range l.ActiveTags {
		page.ActiveTags = append(page.ActiveTags, TagLink{
			Name:   t,
			URL:    ListingURL(l.Query, toggle(l.ActiveTags, t), 1),
			Active: true,
			Class:  TagClass(true),
		})
	}
	page.Pager = newPager(l.Query, l.ActiveTags, l.Info)
	return page
}

func newPager(query string, tags []string, info blog.PageInfo) Pager {
	p := Pager{Show: info.TotalPages > 1, Info: info}
	if info.HasPrevPage {
		p.PrevURL = ListingURL(query, tags, info.CurrentPage-1)
	}
	if info.HasNextPage {
		p.NextURL = ListingURL(query, tags, info.CurrentPage+1)
	}
	for n := 1; n <= info.TotalPages; n++ {
		p.Pages = append(p.Pages, PageLink{Number: n, URL: ListingURL(query, tags, n), Current: n == info.CurrentPage})
	}
	return p
}

// toggle adds tag to tags, or removes it if already present (ignoring case).
func toggle(tags []string, tag string) []string {
	out := make([]string, 0, len(tags)+1)
	found := false
	for _, t := range tags {
		if strings.EqualFold(t, tag) {
			found = true
			continue
		}
		out = append(out, t)
	}
	if !found {
		out = append(out, tag)
	}
	return out
}

// WebsiteJSONLD returns a JSON-LD string for a WebSite schema.
func WebsiteJSONLD(site Site) string {
	data := map[string]interface{}{
		"@context":    "https://schema.org",
		"@type":       "WebSite",
		"name":        site.Name,
		"url":         BuildURL(site.URL),
		"description": site.Description,
		"publisher": map[string]string{
			"@type": "Organization",
			"name":  site.Name,
		},
	}
	return marshalLD(data)
}

// BlogPostingJSONLD returns a JSON-LD string for a BlogPosting schema.
func BlogPostingJSONLD(site Site, m blog.Metadata) string {
	postURL := BuildURL(site.URL, "blog", m.Slug)
	data := map[string]interface{}{
		"@context":      "https://schema.org",
		"@type":         "BlogPosting",
		"headline":      m.Title,
		"description":   m.SEODescription(),
		"datePublished": m.PublishedAt.Format(time.RFC3339),
		"url":           postURL,
		"mainEntityOfPage": map[string]string{
			"@type": "WebPage",
			"@id":   postURL,
		},
		"publisher": map[string]string{
			"@type": "Organization",
			"name":  site.Name,
		},
	}
	if m.Author != "" {
		data["author"] = map[string]string{
			"@type": "Person",
			"name":  m.Author,
		}
	}
	if m.Image != "" {
		data["image"] = absoluteURL(site.URL, m.Image)
	}
	if len(m.Tags) > 0 {
		data["keywords"] = strings.Join(m.Tags, ", ")
	}
	return marshalLD(data)
}

// absoluteURL resolves a site-relative reference against base.
func absoluteURL(base, ref string) string {
	if ref == "" || strings.Contains(ref, "://") {
		return ref
	}
	b, err := url.Parse(base)
	if err != nil {
		return ref
	}
	r, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return b.ResolveReference(r).String()
}

func marshalLD(data map[string]interface{}) string {
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}
