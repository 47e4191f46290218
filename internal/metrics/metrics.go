package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	ContentParseErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "website", Name: "content_parse_errors_total", Help: "Number of content files dropped because they failed to parse, by stage."},
		[]string{"stage"},
	)
	SearchFallbacks = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "website", Name: "search_index_fallbacks_total", Help: "Number of searches answered by substring matching because the index could not be built."},
	)
	FormSubmissions = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "website", Name: "form_submissions_total", Help: "Number of lead form submissions by form and outcome."},
		[]string{"form", "outcome"},
	)
	HTMLCacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "website", Name: "html_cache_lookups_total", Help: "Rendered post HTML cache lookups by result."},
		[]string{"result"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(ContentParseErrors)
	reg.MustRegister(SearchFallbacks)
	reg.MustRegister(FormSubmissions)
	reg.MustRegister(HTMLCacheLookups)
}
