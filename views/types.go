package views

import "github.com/jtushya/new-company-website/blog"

// Site holds site-wide settings rendered on every page.
type Site struct {
	Name               string
	URL                string
	Description        string
	Email              string
	Phone              string
	PhoneHref          string
	GAMeasurementID    string
	GoogleVerification string
	Year               int
	Nav                []NavLink
}

// NavLink is one entry of the main navigation.
type NavLink struct {
	Label  string
	Href   string
	Active bool
}

// Head carries per-page OpenGraph and SEO metadata into the <head> template.
type Head struct {
	Title       string
	Description string
	Canonical   string // canonical + og:url
	OGType      string // "website" or "article"
	Image       string
	ImageWidth  int
	ImageHeight int
	JSONLD      string
	NoIndex     bool
}

// Flash is a one-shot message shown after a redirect.
type Flash struct {
	Kind      string // "success" or "error"
	Message   string
	Email     string
	Phone     string
	PhoneHref string
}

// Layout is embedded by every full page.
type Layout struct {
	Site  Site
	Head  Head
	Flash *Flash
	CSRF  string
}

// TagLink is a tag chip that toggles a filter.
type TagLink struct {
	Name   string
	URL    string
	Active bool
	Class  string
}

// Card is a post summary in listings.
type Card struct {
	Slug      string
	URL       string
	Title     string
	Excerpt   string
	Author    string
	Date      string
	ISODate   string
	Image     string
	ReadTime  int
	Featured  bool
	Tags      []TagLink
	ExtraTags int
}

// PageLink is one numbered pagination link.
type PageLink struct {
	Number  int
	URL     string
	Current bool
}

// Pager is the pagination control under a listing.
type Pager struct {
	Show    bool
	PrevURL string
	NextURL string
	Pages   []PageLink
	Info    blog.PageInfo
}

// BlogIndexPage is the blog listing.
type BlogIndexPage struct {
	Layout
	Query      string
	Tags       []TagLink
	ActiveTags []TagLink
	Featured   []Card
	Posts      []Card
	Pager      Pager
	Stats      blog.Stats
	Filtered   bool
	Empty      bool
	ClearURL   string
}

// PostPage is a single post.
type PostPage struct {
	Layout
	Post    Card
	HTML    string
	Related []Card
	Custom  bool
	BackURL string
}

// Section is a heading followed by paragraphs and an optional bullet list.
type Section struct {
	Heading    string
	Paragraphs []string
	Bullets    []string
}

// ServiceCard summarises one service offering.
type ServiceCard struct {
	Slug       string
	URL        string
	Title      string
	Summary    string
	Highlights []string
}

// StaticPage is an informational page such as about or privacy policy.
type StaticPage struct {
	Layout
	Title    string
	Lead     string
	Sections []Section
	Services []ServiceCard
	CTA      *NavLink
}

// HomePage is the landing page.
type HomePage struct {
	Layout
	Headline string
	Lead     string
	Services []ServiceCard
	Latest   []Card
}

// Option is a select option.
type Option struct {
	Value    string
	Label    string
	Selected bool
}

// FormPage hosts one of the lead forms.
type FormPage struct {
	Layout
	Title      string
	Lead       string
	Action     string
	Contact    bool
	GetStarted bool
	Careers    bool
	Values     FormValues
	Missing    []string
	Services   []Option
	Budgets    []Option
	Timelines  []Option
	Positions  []Option
}

// FormValues re-populates a form after a failed submission.
type FormValues struct {
	Name        string
	Email       string
	Phone       string
	Company     string
	Message     string
	CoverLetter string
}

// ErrorPage is the 404 and 5xx page.
type ErrorPage struct {
	Layout
	Code    int
	Title   string
	Message string
}

func (p HomePage) HasServices() bool { return len(p.Services) > 0 }

func (p HomePage) HasLatest() bool { return len(p.Latest) > 0 }

func (p BlogIndexPage) HasFeatured() bool { return len(p.Featured) > 0 }

func (p PostPage) HasRelated() bool { return len(p.Related) > 0 }

func (s Section) HasBullets() bool { return len(s.Bullets) > 0 }

func (p FormPage) HasMissing() bool { return len(p.Missing) > 0 }
