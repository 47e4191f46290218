package blog

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var (
	yamlFormat = frontmatter.NewFormat("---", "---", yaml.Unmarshal)
	validate   = validator.New()
)

// dateLayouts are tried in order when parsing the frontmatter date.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
}

// frontMatter is the typed shape of a post's YAML header.
type frontMatter struct {
	Title           string  `yaml:"title" validate:"required"`
	Date            rawDate `yaml:"date" validate:"required"`
	Author          string  `yaml:"author"`
	Tags            tagList `yaml:"tags"`
	Excerpt         string  `yaml:"excerpt"`
	Image           string  `yaml:"image"`
	Layout          string  `yaml:"layout"`
	MetaTitle       string  `yaml:"metaTitle"`
	MetaDescription string  `yaml:"metaDescription"`
	ReadTime        int     `yaml:"readTime"`
	Featured        bool    `yaml:"featured"`
}

// rawDate keeps the date exactly as written so listings can echo it back.
type rawDate string

func (d *rawDate) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("date must be a scalar, got %s", nodeKind(node))
	}
	*d = rawDate(strings.TrimSpace(node.Value))
	return nil
}

// tagList accepts either a YAML sequence or a comma separated string.
type tagList []string

func (t *tagList) UnmarshalYAML(node *yaml.Node) error {
	var out []string
	switch node.Kind {
	case yaml.SequenceNode:
		for _, n := range node.Content {
			if n.Kind != yaml.ScalarNode {
				return fmt.Errorf("tags must be strings, got %s", nodeKind(n))
			}
			out = append(out, n.Value)
		}
	case yaml.ScalarNode:
		out = strings.Split(node.Value, ",")
	default:
		return fmt.Errorf("tags must be a list, got %s", nodeKind(node))
	}
	tags := make([]string, 0, len(out))
	for _, tag := range out {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	*t = tags
	return nil
}

func nodeKind(n *yaml.Node) string {
	switch n.Kind {
	case yaml.MappingNode:
		return "mapping"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.AliasNode:
		return "alias"
	default:
		return "scalar"
	}
}

// parseDate parses the supported frontmatter date formats.
func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", s)
}

// parseDocument splits raw into frontmatter and body and validates the header.
func parseDocument(slug string, raw []byte) (Metadata, string, error) {
	var fm frontMatter
	body, err := frontmatter.MustParse(bytes.NewReader(raw), &fm, yamlFormat)
	if err != nil {
		return Metadata{}, "", &ParseError{Slug: slug, Err: err}
	}
	if err := validate.Struct(fm); err != nil {
		return Metadata{}, "", &ParseError{Slug: slug, Err: err}
	}
	published, err := parseDate(string(fm.Date))
	if err != nil {
		return Metadata{}, "", &ParseError{Slug: slug, Err: err}
	}

	text := string(body)
	readTime := ReadTime(text)
	if fm.ReadTime > 0 {
		readTime = fm.ReadTime
	}
	meta := Metadata{
		Slug:            slug,
		Title:           strings.TrimSpace(fm.Title),
		Date:            string(fm.Date),
		PublishedAt:     published,
		Author:          strings.TrimSpace(fm.Author),
		Tags:            []string(fm.Tags),
		Excerpt:         strings.TrimSpace(fm.Excerpt),
		Image:           strings.TrimSpace(fm.Image),
		Layout:          strings.TrimSpace(fm.Layout),
		MetaTitle:       strings.TrimSpace(fm.MetaTitle),
		MetaDescription: strings.TrimSpace(fm.MetaDescription),
		ReadTime:        readTime,
		Featured:        fm.Featured,
	}
	if meta.Tags == nil {
		meta.Tags = []string{}
	}
	return meta, text, nil
}
