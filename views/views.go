// Package views renders the site's HTML. Pages are mustache templates compiled
// once at startup and exposed to handlers as templ components.
package views

import (
	"context"
	"embed"
	"fmt"
	"io"
	"io/fs"
	"path"
	"strings"

	"github.com/a-h/templ"
	"github.com/cbroglie/mustache"
)

//go:embed templates
var templateFS embed.FS

const layoutName = "layout"

// Renderer holds the compiled page templates.
type Renderer struct {
	layout *mustache.Template
	pages  map[string]*mustache.Template
}

// Load compiles every template under templates/. Files in templates/partials
// are available to pages as {{> name}}.
func Load() (*Renderer, error) {
	partials, err := readDir("templates/partials")
	if err != nil {
		return nil, err
	}
	pages, err := readDir("templates")
	if err != nil {
		return nil, err
	}

	provider := &mustache.StaticProvider{Partials: partials}
	r := &Renderer{pages: make(map[string]*mustache.Template, len(pages))}
	for name, src := range pages {
		tmpl, err := mustache.ParseStringPartials(src, provider)
		if err != nil {
			return nil, fmt.Errorf("views: parse %s: %w", name, err)
		}
		if name == layoutName {
			r.layout = tmpl
			continue
		}
		r.pages[name] = tmpl
	}
	if r.layout == nil {
		return nil, fmt.Errorf("views: missing %s template", layoutName)
	}
	return r, nil
}

// MustLoad is Load that panics on error.
func MustLoad() *Renderer {
	r, err := Load()
	if err != nil {
		panic(err)
	}
	return r
}

func readDir(dir string) (map[string]string, error) {
	entries, err := fs.ReadDir(templateFS, dir)
	if err != nil {
		return nil, fmt.Errorf("views: read %s: %w", dir, err)
	}
	out := make(map[string]string, len(entries))
	for _, e := range entries {
		if e.IsDir() || path.Ext(e.Name()) != ".mustache" {
			continue
		}
		b, err := fs.ReadFile(templateFS, path.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("views: read %s: %w", e.Name(), err)
		}
		out[strings.TrimSuffix(e.Name(), ".mustache")] = string(b)
	}
	return out, nil
}

// page renders name inside the site layout.
func (r *Renderer) page(name string, data any) templ.Component {
	tmpl := r.pages[name]
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		if tmpl == nil {
			return fmt.Errorf("views: unknown template %q", name)
		}
		return tmpl.FRenderInLayout(w, r.layout, data)
	})
}

// fragment renders name on its own, for htmx swaps.
func (r *Renderer) fragment(name string, data any) templ.Component {
	tmpl := r.pages[name]
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		if tmpl == nil {
			return fmt.Errorf("views: unknown template %q", name)
		}
		return tmpl.FRender(w, data)
	})
}

func (r *Renderer) Home(p HomePage) templ.Component { return r.page("home", p) }

func (r *Renderer) BlogIndex(p BlogIndexPage) templ.Component { return r.page("blog_index", p) }

// BlogResults is the listing body without the layout or filter controls.
func (r *Renderer) BlogResults(p BlogIndexPage) templ.Component {
	return r.fragment("blog_results", p)
}

// Post renders a post with the default or the custom layout.
func (r *Renderer) Post(p PostPage) templ.Component {
	if p.Custom {
		return r.page("post_custom", p)
	}
	return r.page("post", p)
}

func (r *Renderer) Page(p StaticPage) templ.Component { return r.page("page", p) }

func (r *Renderer) Services(p StaticPage) templ.Component { return r.page("services", p) }

func (r *Renderer) Form(p FormPage) templ.Component { return r.page("form", p) }

func (r *Renderer) Error(p ErrorPage) templ.Component { return r.page("error", p) }
