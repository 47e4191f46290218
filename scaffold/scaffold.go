// Package scaffold renders the starter files written by the website CLI.
package scaffold

import (
	"embed"
	"fmt"
	"io"
	"strings"
	"text/template"
	"time"
)

// Templates contains all scaffold template files.
// Files use Go text/template syntax and have a .tmpl suffix.
//
//go:embed templates/*.tmpl
var Templates embed.FS

var postTmpl = template.Must(template.ParseFS(Templates, "templates/post.md.tmpl"))

// Post holds the fields of a new blog post's frontmatter.
type Post struct {
	Title  string
	Author string
	Tags   []string
	Date   time.Time
}

// WritePost renders a markdown file for p to w.
func WritePost(w io.Writer, p Post) error {
	if strings.TrimSpace(p.Title) == "" {
		return fmt.Errorf("scaffold: post title is required")
	}
	if p.Date.IsZero() {
		p.Date = time.Now()
	}
	var tags []string
	for _, t := range p.Tags {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	p.Tags = tags
	if err := postTmpl.ExecuteTemplate(w, "post.md.tmpl", p); err != nil {
		return fmt.Errorf("scaffold: render post: %w", err)
	}
	return nil
}
