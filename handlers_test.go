package website

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"testing/fstest"

	"github.com/rs/zerolog"

	"github.com/jtushya/new-company-website/blog"
	"github.com/jtushya/new-company-website/forms"
)

const csrfToken = "test-csrf-token"

func post(title, date, extra string, tags ...string) *fstest.MapFile {
	quoted := make([]string, len(tags))
	for i, t := range tags {
		quoted[i] = fmt.Sprintf("%q", t)
	}
	fm := fmt.Sprintf("title: %q\ndate: %s\nauthor: Planckk Team\ntags: [%s]\nexcerpt: About %s\n%s", title, date, strings.Join(quoted, ", "), title, extra)
	return &fstest.MapFile{Data: []byte("---\n" + strings.TrimSpace(fm) + "\n---\n## Intro\n\nBody of **" + title + "**.\n")}
}

func testContent() fstest.MapFS {
	return fstest.MapFS{
		"hello-world.md": post("Hello World", "2024-03-01", "image: /images/wide.png", "web", "seo"),
		"second.mdx":     post("Second Post", "2024-02-01", "", "seo"),
		"custom.md":      post("Custom Layout", "2024-01-01", "layout: CustomLayout", "web"),
		"broken.md":      &fstest.MapFile{Data: []byte("---\ndate: 2024-01-01\n---\nno title\n")},
	}
}

func pngOf(w, h int) []byte {
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

// fakeSubmitter validates like the real client and records what it forwards.
type fakeSubmitter struct {
	mu    sync.Mutex
	calls []forms.Submission
	err   error
}

func (f *fakeSubmitter) Submit(_ context.Context, form forms.Form, s forms.Submission, _ forms.Tracking) error {
	if err := form.Validate(s); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, s)
	return f.err
}

func (f *fakeSubmitter) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func newTestApp(t *testing.T, cfg SiteConfig, opts ...Option) *App {
	t.Helper()
	if cfg.URL == "" {
		cfg.URL = "https://example.com"
	}
	if cfg.SessionSecret == "" {
		cfg.SessionSecret = "0123456789abcdef0123456789abcdef"
	}
	if cfg.PostsPerPage == 0 {
		cfg.PostsPerPage = 2
	}
	cfg.StaticDir = t.TempDir()
	base := []Option{
		WithContentFS(testContent()),
		WithStaticFS(fstest.MapFS{"images/wide.png": {Data: pngOf(1600, 800)}}),
		WithLogger(zerolog.Nop()),
	}
	a := New(cfg, append(base, opts...)...)
	if err := a.Init(context.Background()); err != nil {
		t.Fatalf("Init: %v", err)
	}
	t.Cleanup(func() { a.Close() })
	return a
}

func do(a *App, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	a.Echo.ServeHTTP(rec, req)
	return rec
}

func get(a *App, target string) *httptest.ResponseRecorder {
	return do(a, httptest.NewRequest(http.MethodGet, target, nil))
}

func postForm(a *App, target string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	form.Set("_csrf", csrfToken)
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: "_csrf", Value: csrfToken})
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return do(a, req)
}

func TestHomeListsLatestPosts(t *testing.T) {
	a := newTestApp(t, SiteConfig{})
	rec := get(a, "/")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET / = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"From the blog", `href="/blog/hello-world/"`, `href="/services/website-creation/"`, `"@type":"WebSite"`} {
		if !strings.Contains(body, want) {
			t.Errorf("home page missing %q", want)
		}
	}
}

func TestBlogIndexPaginates(t *testing.T) {
	a := newTestApp(t, SiteConfig{})
	rec := get(a, "/blog/")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /blog/ = %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `href="/blog/hello-world/"`) || !strings.Contains(body, `href="/blog/second/"`) {
		t.Error("first page should list the two newest posts")
	}
	if !strings.Contains(body, `aria-label="Pagination"`) {
		t.Error("expected pagination for 3 posts at 2 per page")
	}

	rec = get(a, "/blog/?page=9")
	if !strings.Contains(rec.Body.String(), `href="/blog/custom/"`) {
		t.Error("out of range page should clamp to the last page")
	}
}

func TestBlogIndexFiltersByAllTags(t *testing.T) {
	a := newTestApp(t, SiteConfig{})
	rec := get(a, "/api/blog/posts?tag=web&tag=SEO")
	var listing blog.Listing
	if err := json.Unmarshal(rec.Body.Bytes(), &listing); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if listing.Info.TotalPosts != 1 || listing.Posts[0].Slug != "hello-world" {
		t.Errorf("got %+v, want only hello-world", listing.Posts)
	}
	if len(listing.Featured) != 0 {
		t.Error("featured posts must not appear on a filtered listing")
	}
}

func TestBlogResultsPartial(t *testing.T) {
	a := newTestApp(t, SiteConfig{})
	req := httptest.NewRequest(http.MethodGet, "/blog/?q=hello", nil)
	req.Header.Set("HX-Request", "true")
	req.Header.Set("HX-Target", "blog-results")
	rec := do(a, req)
	body := rec.Body.String()
	if rec.Code != http.StatusOK || strings.Contains(body, "<html") {
		t.Fatalf("expected a bare fragment, got %d %q", rec.Code, body)
	}
	if !strings.Contains(body, `href="/blog/hello-world/"`) || strings.Contains(body, `href="/blog/second/"`) {
		t.Errorf("search results wrong: %q", body)
	}
}

func TestBlogResultsPartialRefreshesTagFilters(t *testing.T) {
	a := newTestApp(t, SiteConfig{})
	req := httptest.NewRequest(http.MethodGet, "/blog/?tag=seo", nil)
	req.Header.Set("HX-Request", "true")
	req.Header.Set("HX-Target", "blog-results")
	body := do(a, req).Body.String()

	for _, want := range []string{
		`id="blog-tags" class="mt-6 flex flex-wrap gap-2" hx-swap-oob="true"`,
		`href="/blog/?tag=seo&amp;tag=web"`,
		`href="/blog/" hx-get="/blog/"`,
		`<span id="blog-tag-inputs" hx-swap-oob="true"><input type="hidden" name="tag" value="seo">`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("fragment missing %q", want)
		}
	}
	if strings.Contains(body, "<html") {
		t.Error("expected a fragment")
	}
}

func TestPostPage(t *testing.T) {
	a := newTestApp(t, SiteConfig{})
	rec := get(a, "/blog/hello-world/")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET post = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		"<strong>Hello World</strong>",
		`id="intro"`,
		`"@type":"BlogPosting"`,
		`content="https://example.com/blog/hello-world/og.jpg"`,
		`og:image:width" content="1200"`,
		`og:image:height" content="600"`,
		"Related articles",
		`href="/blog/second/"`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("post page missing %q", want)
		}
	}
	if strings.Contains(body, "custom-layout") {
		t.Error("default layout expected")
	}

	rec = get(a, "/blog/custom/")
	if !strings.Contains(rec.Body.String(), "custom-layout") {
		t.Error("layout: CustomLayout should select the custom template")
	}
}

func TestPostNotFound(t *testing.T) {
	a := newTestApp(t, SiteConfig{})
	for _, path := range []string{"/blog/missing/", "/blog/broken/", "/services/nope/", "/no-such-page/"} {
		rec := get(a, path)
		if rec.Code != http.StatusNotFound {
			t.Errorf("GET %s = %d, want 404", path, rec.Code)
			continue
		}
		if !strings.Contains(rec.Body.String(), "Page not found") {
			t.Errorf("GET %s should render the not-found page", path)
		}
	}
}

func TestTrailingSlashRedirect(t *testing.T) {
	a := newTestApp(t, SiteConfig{})
	rec := get(a, "/blog/hello-world")
	if rec.Code != http.StatusMovedPermanently || rec.Header().Get("Location") != "/blog/hello-world/" {
		t.Errorf("got %d -> %q", rec.Code, rec.Header().Get("Location"))
	}
}

func TestPostSocialImage(t *testing.T) {
	a := newTestApp(t, SiteConfig{})
	rec := get(a, "/blog/hello-world/og.jpg")
	if rec.Code != http.StatusOK || rec.Header().Get("Content-Type") != "image/jpeg" {
		t.Fatalf("got %d %q", rec.Code, rec.Header().Get("Content-Type"))
	}
	cfg, _, err := image.DecodeConfig(rec.Body)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width != 1200 || cfg.Height != 600 {
		t.Errorf("got %dx%d, want 1200x600", cfg.Width, cfg.Height)
	}
	if rec := get(a, "/blog/second/og.jpg"); rec.Code != http.StatusNotFound {
		t.Errorf("post without image: got %d, want 404", rec.Code)
	}
}

func TestAPISearch(t *testing.T) {
	a := newTestApp(t, SiteConfig{})
	rec := get(a, "/api/blog/search?q=second")
	var resp searchResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Total != 1 || resp.Results[0].Slug != "second" {
		t.Errorf("got %+v", resp)
	}

	rec = get(a, "/api/blog/search?q=")
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Total != 3 {
		t.Errorf("empty query should return all 3 posts, got %d", resp.Total)
	}
}

func TestAPIPost(t *testing.T) {
	a := newTestApp(t, SiteConfig{})
	rec := get(a, "/api/blog/posts/second")
	if rec.Code != http.StatusOK {
		t.Fatalf("got %d", rec.Code)
	}
	var p struct {
		Slug    string `json:"slug"`
		Content string `json:"content"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &p); err != nil {
		t.Fatal(err)
	}
	if p.Slug != "second" || !strings.HasPrefix(p.Content, "<h2") {
		t.Errorf("got %+v", p)
	}
	if rec := get(a, "/api/blog/posts/broken"); rec.Code != http.StatusNotFound {
		t.Errorf("broken post: got %d, want 404", rec.Code)
	}
}

func TestSitemapsAndFeed(t *testing.T) {
	a := newTestApp(t, SiteConfig{})

	rec := get(a, "/blog-sitemap.xml")
	body := rec.Body.String()
	for _, want := range []string{
		"<loc>https://example.com/blog/hello-world/</loc>",
		"<lastmod>2024-03-01T00:00:00Z</lastmod>",
		"<changefreq>monthly</changefreq>",
		"<priority>0.7</priority>",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("blog sitemap missing %q", want)
		}
	}
	if strings.Contains(body, "/blog/broken/") {
		t.Error("unparseable posts must not be listed")
	}
	if got := rec.Header().Get("Cache-Control"); got != "public, max-age=3600, must-revalidate" {
		t.Errorf("Cache-Control = %q", got)
	}

	body = get(a, "/services-sitemap.xml").Body.String()
	if !strings.Contains(body, "<loc>https://example.com/services/website-creation/</loc>") || !strings.Contains(body, "<priority>0.9</priority>") {
		t.Errorf("services sitemap: %s", body)
	}

	body = get(a, "/robots.txt").Body.String()
	for _, f := range sitemapFiles {
		if !strings.Contains(body, "Sitemap: https://example.com/"+f) {
			t.Errorf("robots.txt missing sitemap %s", f)
		}
	}

	body = get(a, "/feed.xml").Body.String()
	if !strings.Contains(body, "<title>Hello World</title>") || !strings.Contains(body, "<category>seo</category>") {
		t.Errorf("feed: %s", body)
	}
}

func TestStaticPages(t *testing.T) {
	a := newTestApp(t, SiteConfig{})
	for _, path := range []string{"/about/", "/portfolio/", "/privacy-policy/", "/terms-of-service/", "/services/", "/services/video-editing/", "/contact/", "/get-started/", "/careers/"} {
		if rec := get(a, path); rec.Code != http.StatusOK {
			t.Errorf("GET %s = %d", path, rec.Code)
		}
	}
	body := get(a, "/get-started/?service=video-editing").Body.String()
	if !strings.Contains(body, `value="video-editing" selected`) {
		t.Error("service query parameter should preselect the service")
	}
}

func contactForm() url.Values {
	return url.Values{
		"name":    {"Asha"},
		"email":   {"asha@example.com"},
		"message": {"We need a website."},
	}
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionName {
			return c
		}
	}
	return nil
}

func TestFormSubmitSuccess(t *testing.T) {
	sub := &fakeSubmitter{}
	a := newTestApp(t, SiteConfig{}, WithFormSubmitter(sub))

	rec := postForm(a, "/contact/", contactForm())
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/contact/" {
		t.Fatalf("got %d -> %q", rec.Code, rec.Header().Get("Location"))
	}
	if sub.count() != 1 {
		t.Fatalf("submitter called %d times, want 1", sub.count())
	}

	cookie := sessionCookie(rec)
	if cookie == nil {
		t.Fatal("expected a session cookie carrying the flash")
	}
	req := httptest.NewRequest(http.MethodGet, "/contact/", nil)
	req.AddCookie(cookie)
	body := do(a, req).Body.String()
	if !strings.Contains(body, "Your message has been sent") {
		t.Error("success flash not shown after redirect")
	}
}

func TestFormSubmitBackendFailure(t *testing.T) {
	sub := &fakeSubmitter{err: fmt.Errorf("%w: status 503", forms.ErrSubmission)}
	a := newTestApp(t, SiteConfig{}, WithFormSubmitter(sub))

	rec := postForm(a, "/contact/", contactForm())
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("got %d", rec.Code)
	}
	if sub.count() != 1 {
		t.Errorf("backend must be tried exactly once, got %d", sub.count())
	}
	req := httptest.NewRequest(http.MethodGet, "/contact/", nil)
	req.AddCookie(sessionCookie(rec))
	body := do(a, req).Body.String()
	for _, want := range []string{"couldn&#39;t send your message", `Call us at <a href="tel:+919384107679">+91 93841 07679</a>`, "mailto:info@planckk.com"} {
		if !strings.Contains(body, want) {
			t.Errorf("failure flash missing %q", want)
		}
	}
	if strings.Contains(body, `href="tel:+91 `) {
		t.Error("tel: links must not contain spaces")
	}
}

func TestFormSubmitMissingFields(t *testing.T) {
	sub := &fakeSubmitter{}
	a := newTestApp(t, SiteConfig{}, WithFormSubmitter(sub))

	rec := postForm(a, "/careers/", url.Values{"name": {"Ravi"}, "email": {"ravi@example.com"}})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("got %d, want 422", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `<span class="missing-field">position</span>`) || !strings.Contains(body, `<span class="missing-field">coverLetter</span>`) {
		t.Errorf("missing fields not reported: %q", body)
	}
	if !strings.Contains(body, `value="Ravi"`) {
		t.Error("entered values should be kept")
	}
	if sub.count() != 0 {
		t.Error("invalid submissions must not be forwarded")
	}
}

func TestFormSubmitRequiresCSRF(t *testing.T) {
	sub := &fakeSubmitter{}
	a := newTestApp(t, SiteConfig{}, WithFormSubmitter(sub))

	req := httptest.NewRequest(http.MethodPost, "/contact/", strings.NewReader(contactForm().Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := do(a, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("got %d, want 403", rec.Code)
	}
	if sub.count() != 0 {
		t.Error("submission without CSRF token must not be forwarded")
	}
}

func TestFormSubmitRateLimited(t *testing.T) {
	sub := &fakeSubmitter{}
	a := newTestApp(t, SiteConfig{FormRatePerMinute: 1}, WithFormSubmitter(sub))

	postForm(a, "/contact/", contactForm())
	rec := postForm(a, "/contact/", contactForm())
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("got %d", rec.Code)
	}
	if sub.count() != 1 {
		t.Errorf("second submission should be rate limited, submitter called %d times", sub.count())
	}
}

func TestMetricsEndpoint(t *testing.T) {
	a := newTestApp(t, SiteConfig{})
	get(a, "/blog/")
	rec := get(a, "/metrics")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "website_http_requests_total") {
		t.Errorf("got %d %s", rec.Code, rec.Body.String())
	}
}

func TestCollectionRefreshesAfterInvalidate(t *testing.T) {
	content := testContent()
	a := newTestApp(t, SiteConfig{}, WithContentFS(content))
	if n := len(a.Collection.All()); n != 3 {
		t.Fatalf("got %d posts, want 3", n)
	}
	content["fourth.md"] = post("Fourth", "2024-04-01", "", "go")
	if n := len(a.Collection.All()); n != 3 {
		t.Errorf("collection should be memoized, got %d posts", n)
	}
	a.Collection.Invalidate()
	rec := get(a, "/api/blog/search?q=fourth")
	if !strings.Contains(rec.Body.String(), `"slug":"fourth"`) {
		t.Errorf("search should see the reloaded collection: %s", rec.Body.String())
	}
}
