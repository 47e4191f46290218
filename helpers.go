package website

import (
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/jtushya/new-company-website/forms"
	"github.com/jtushya/new-company-website/views"
)

// Slugify converts a title to a URL-safe slug.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	prev := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prev = false
		default:
			if !prev && b.Len() > 0 {
				b.WriteByte('-')
				prev = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// FilterEmpty removes empty/whitespace-only strings from a slice.
func FilterEmpty(vals []string) []string {
	var out []string
	for _, v := range vals {
		if s := strings.TrimSpace(v); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// absURL resolves a site-relative reference such as /images/a.png.
func absURL(base, ref string) string {
	if ref == "" || strings.Contains(ref, "://") {
		return ref
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(ref, "/")
}

// phoneHref turns a display phone number into a tel: link.
func phoneHref(phone string) string {
	var b strings.Builder
	for i, r := range phone {
		if (r >= '0' && r <= '9') || (r == '+' && i == 0) {
			b.WriteRune(r)
		}
	}
	return "tel:" + b.String()
}

// queryInt parses a positive integer query parameter, returning 1 otherwise.
func queryInt(c echo.Context, name string) int {
	n, err := strconv.Atoi(c.QueryParam(name))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// isPartial reports whether the request is an htmx swap targeting name.
func isPartial(c echo.Context, name string) bool {
	if c.Request().Header.Get("HX-Request") != "true" {
		return false
	}
	return c.QueryParam("partial") == name || c.Request().Header.Get("HX-Target") == name
}

func isFormPath(p string) bool {
	for _, f := range forms.All {
		if p == f.Path || p+"/" == f.Path {
			return true
		}
	}
	return false
}

var navLinks = []views.NavLink{
	{Label: "Home", Href: "/"},
	{Label: "Services", Href: "/services/"},
	{Label: "Portfolio", Href: "/portfolio/"},
	{Label: "About", Href: "/about/"},
	{Label: "Blog", Href: "/blog/"},
	{Label: "Careers", Href: "/careers/"},
	{Label: "Contact", Href: "/contact/"},
}

// site returns the site-wide view settings with the nav entry for current
// marked active.
func (a *App) site(current string) views.Site {
	nav := make([]views.NavLink, len(navLinks))
	copy(nav, navLinks)
	for i := range nav {
		if nav[i].Href == "/" {
			nav[i].Active = current == "/"
			continue
		}
		nav[i].Active = strings.HasPrefix(current, nav[i].Href)
	}
	return views.Site{
		Name:               a.Config.Name,
		URL:                a.Config.URL,
		Description:        a.Config.Description,
		Email:              a.Config.ContactEmail,
		Phone:              a.Config.ContactPhone,
		PhoneHref:          phoneHref(a.Config.ContactPhone),
		GAMeasurementID:    a.Config.GAMeasurementID,
		GoogleVerification: a.Config.GoogleVerification,
		Year:               time.Now().Year(),
		Nav:                nav,
	}
}
