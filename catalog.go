package website

import "github.com/jtushya/new-company-website/views"

// Service is one offering listed under /services/.
type Service struct {
	Slug       string
	Title      string
	Summary    string
	Highlights []string
	Priority   string // sitemap priority
}

var services = []Service{
	{
		Slug:       "website-creation",
		Title:      "Lightning-Fast Website Development",
		Summary:    "Professional websites delivered in 6 hours, without compromising quality.",
		Highlights: []string{"Mobile-first responsive design", "SEO optimised from day one", "Contact form integration", "30 days of support"},
		Priority:   "0.9",
	},
	{
		Slug:       "video-editing",
		Title:      "Professional Video Editing Services",
		Summary:    "Expert video editing and motion graphics for brands and creators.",
		Highlights: []string{"Short-form and long-form edits", "Motion graphics and titles", "Colour grading"},
		Priority:   "0.8",
	},
	{
		Slug:       "digital-marketing",
		Title:      "Digital Marketing & SEO Services",
		Summary:    "Comprehensive digital marketing that turns visitors into customers.",
		Highlights: []string{"Campaign strategy", "Content marketing", "Analytics and reporting"},
		Priority:   "0.8",
	},
	{
		Slug:       "mobile-app-development",
		Title:      "Mobile App Development",
		Summary:    "Native and cross-platform mobile apps for iOS and Android.",
		Highlights: []string{"Cross-platform builds", "App store launch", "Ongoing maintenance"},
		Priority:   "0.8",
	},
	{
		Slug:       "social-media-management",
		Title:      "Social Media Management",
		Summary:    "Professional social media marketing that grows your audience.",
		Highlights: []string{"Content calendars", "Community management", "Paid social"},
		Priority:   "0.7",
	},
	{
		Slug:       "seo-google-ads",
		Title:      "SEO & Google Ads Services",
		Summary:    "Search engine optimisation and paid advertising that pays for itself.",
		Highlights: []string{"Technical SEO audits", "Keyword research", "Google Ads management"},
		Priority:   "0.8",
	},
	{
		Slug:       "digital-transformation",
		Title:      "Digital Transformation Consulting",
		Summary:    "Complete business digitisation, from paper processes to cloud workflows.",
		Highlights: []string{"Process mapping", "Tool selection", "Team onboarding"},
		Priority:   "0.8",
	},
	{
		Slug:       "custom-software-development",
		Title:      "Custom Software Development",
		Summary:    "Tailored software solutions built around how your business works.",
		Highlights: []string{"Web applications", "API development", "Cloud deployment"},
		Priority:   "0.7",
	},
}

func lookupService(slug string) (Service, bool) {
	for _, s := range services {
		if s.Slug == slug {
			return s, true
		}
	}
	return Service{}, false
}

func serviceCards() []views.ServiceCard {
	cards := make([]views.ServiceCard, 0, len(services))
	for _, s := range services {
		cards = append(cards, views.ServiceCard{
			Slug:       s.Slug,
			URL:        "/services/" + s.Slug + "/",
			Title:      s.Title,
			Summary:    s.Summary,
			Highlights: s.Highlights,
		})
	}
	return cards
}

// StaticPage is an informational page served from the catalog.
type StaticPage struct {
	Slug        string
	Title       string
	Description string
	Lead        string
	Sections    []views.Section
}

var staticPages = []StaticPage{
	{
		Slug:        "about",
		Title:       "About Us",
		Description: "Meet the team behind lightning-fast digital transformation.",
		Lead:        "We help businesses go digital in hours, not months.",
		Sections: []views.Section{
			{Heading: "Our mission", Paragraphs: []string{"Every business deserves a fast, professional online presence. We combine modern tooling with an experienced team to deliver results in record time."}},
			{Heading: "What we value", Bullets: []string{
				"Speed and efficiency: exceptional results in record time.",
				"Client focus: your success is our success.",
				"Innovation: modern technology and creative solutions.",
				"Excellence: high standards in everything we ship.",
			}},
		},
	},
	{
		Slug:        "portfolio",
		Title:       "Portfolio",
		Description: "Websites, apps and campaigns we have delivered.",
		Lead:        "A selection of recent work across web, video and marketing.",
		Sections: []views.Section{
			{Heading: "Websites", Paragraphs: []string{"Business sites, landing pages and e-commerce stores launched within a day of kickoff."}},
			{Heading: "Video", Paragraphs: []string{"Brand films, product explainers and social edits for clients across India."}},
			{Heading: "Marketing", Paragraphs: []string{"Search and social campaigns measured against real revenue."}},
		},
	},
	{
		Slug:        "privacy-policy",
		Title:       "Privacy Policy",
		Description: "How we collect, use and protect your information.",
		Sections: []views.Section{
			{Heading: "Information we collect", Paragraphs: []string{"When you submit a form we collect the details you provide, such as your name, email address, phone number and message."}},
			{Heading: "How we use it", Paragraphs: []string{"We use your information only to respond to your enquiry and to provide the services you request."}},
			{Heading: "Analytics", Paragraphs: []string{"We use Google Analytics to understand how visitors use the site. It sets cookies that you can block in your browser."}},
			{Heading: "Contact", Paragraphs: []string{"Questions about this policy can be sent to info@planckk.com."}},
		},
	},
	{
		Slug:        "terms-of-service",
		Title:       "Terms of Service",
		Description: "The terms that govern use of this website and our services.",
		Sections: []views.Section{
			{Heading: "Use of the site", Paragraphs: []string{"By using this website you agree to these terms. Content is provided for general information only."}},
			{Heading: "Services", Paragraphs: []string{"Project scope, timelines and fees are agreed in writing before work begins."}},
			{Heading: "Liability", Paragraphs: []string{"We are not liable for indirect or consequential losses arising from use of this website."}},
		},
	},
}

func lookupPage(slug string) (StaticPage, bool) {
	for _, p := range staticPages {
		if p.Slug == slug {
			return p, true
		}
	}
	return StaticPage{}, false
}

var (
	budgetOptions = []views.Option{
		{Value: "under-5l", Label: "Under ₹5 Lakhs"},
		{Value: "5l-15l", Label: "₹5 Lakhs - ₹15 Lakhs"},
		{Value: "15l-50l", Label: "₹15 Lakhs - ₹50 Lakhs"},
		{Value: "50l-plus", Label: "₹50 Lakhs+"},
	}
	timelineOptions = []views.Option{
		{Value: "asap", Label: "ASAP (6 hours)"},
		{Value: "this-week", Label: "This week"},
		{Value: "this-month", Label: "This month"},
		{Value: "flexible", Label: "I'm flexible"},
	}
	positionOptions = []views.Option{
		{Value: "Senior Frontend Developer", Label: "Senior Frontend Developer"},
		{Value: "Video Editor & Motion Graphics Designer", Label: "Video Editor & Motion Graphics Designer"},
		{Value: "Digital Marketing Specialist", Label: "Digital Marketing Specialist"},
		{Value: "UI/UX Designer", Label: "UI/UX Designer"},
		{Value: "Project Manager", Label: "Project Manager"},
	}
)

// selectOptions copies opts, marking the one equal to selected.
func selectOptions(opts []views.Option, selected string) []views.Option {
	out := make([]views.Option, len(opts))
	for i, o := range opts {
		o.Selected = o.Value == selected
		out[i] = o
	}
	return out
}

func serviceOptions(selected string) []views.Option {
	opts := make([]views.Option, 0, len(services))
	for _, s := range services {
		opts = append(opts, views.Option{Value: s.Slug, Label: s.Title, Selected: s.Slug == selected})
	}
	return opts
}
