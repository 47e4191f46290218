package forms

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jtushya/new-company-website/internal/metrics"
)

// DefaultFormID is the backend form receiving lead submissions.
const DefaultFormID = "1FAIpQLSdSKrKB3J52eO6q2higa8sZ9sVEbMr5xCmUVJDiLtQasxR_Og"

// DefaultEndpoint is the form backend's response URL for DefaultFormID.
const DefaultEndpoint = "https://docs.google.com/forms/d/e/" + DefaultFormID + "/formResponse"

const medium = "website"

// entryIDs maps submission fields to the backend's entry ids.
var entryIDs = map[string]string{
	"name":       "1560897754",
	"email":      "1876128119",
	"phone":      "1142508015",
	"company":    "1672298949",
	"service":    "743687501",
	"budget":     "1903576456",
	"timeline":   "2080662489",
	"message":    "1867886907",
	"originPage": "554108287",
	"referrer":   "851512370",
	"medium":     "534564891",
	"urlParams":  "1356471898",
}

// ErrSubmission is returned when the backend could not be reached or
// rejected the submission.
var ErrSubmission = errors.New("forms: submission failed")

// Tracking carries where a submission came from.
type Tracking struct {
	OriginPage string
	Referrer   string
	URLParams  string
}

// Submitter forwards validated submissions.
type Submitter interface {
	Submit(ctx context.Context, form Form, s Submission, t Tracking) error
}

// Client posts submissions to the form backend. It makes exactly one attempt
// per submission; retrying is left to the user.
type Client struct {
	http     *resty.Client
	endpoint string
	logger   zerolog.Logger
}

// NewClient returns a Client posting to endpoint, or DefaultEndpoint if empty.
func NewClient(endpoint string, logger zerolog.Logger) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Client{
		http: resty.New().
			SetTimeout(15 * time.Second).
			SetRetryCount(0),
		endpoint: endpoint,
		logger:   logger,
	}
}

// Submit validates s against form and posts it once.
func (c *Client) Submit(ctx context.Context, form Form, s Submission, t Tracking) error {
	if err := form.Validate(s); err != nil {
		metrics.FormSubmissions.WithLabelValues(form.Name, "invalid").Inc()
		return err
	}
	id := uuid.NewString()
	values := Encode(form, s, t)

	resp, err := c.http.R().
		SetContext(ctx).
		SetFormDataFromValues(values).
		Post(c.endpoint)
	if err != nil {
		metrics.FormSubmissions.WithLabelValues(form.Name, "error").Inc()
		c.logger.Error().Err(err).Str("form", form.Name).Str("submission_id", id).Msg("form backend unreachable")
		return fmt.Errorf("%w: %v", ErrSubmission, err)
	}
	if resp.IsError() {
		metrics.FormSubmissions.WithLabelValues(form.Name, "error").Inc()
		c.logger.Error().Int("status", resp.StatusCode()).Str("form", form.Name).Str("submission_id", id).Msg("form backend rejected submission")
		return fmt.Errorf("%w: status %d", ErrSubmission, resp.StatusCode())
	}
	metrics.FormSubmissions.WithLabelValues(form.Name, "ok").Inc()
	c.logger.Info().Str("form", form.Name).Str("submission_id", id).Msg("form submitted")
	return nil
}

// Encode maps s onto the backend's entry fields. Blank optional fields are
// omitted; tracking fields are always sent. Career applications reuse the
// service and message entries for the position and cover letter.
func Encode(form Form, s Submission, t Tracking) url.Values {
	s.Trim()
	if form.Name == Careers.Name {
		if s.Service == "" {
			s.Service = s.Position
		}
		if s.Message == "" {
			s.Message = s.CoverLetter
		}
	}
	origin := t.OriginPage
	if origin == "" {
		origin = form.Name
	}

	values := url.Values{}
	optional := []struct{ key, val string }{
		{"name", s.Name},
		{"email", s.Email},
		{"phone", s.Phone},
		{"company", s.Company},
		{"service", s.Service},
		{"budget", s.Budget},
		{"timeline", s.Timeline},
		{"message", s.Message},
	}
	for _, f := range optional {
		if f.val != "" {
			values.Set(entry(f.key), f.val)
		}
	}
	values.Set(entry("originPage"), origin)
	values.Set(entry("referrer"), t.Referrer)
	values.Set(entry("medium"), medium)
	values.Set(entry("urlParams"), t.URLParams)
	return values
}

func entry(field string) string {
	return "entry." + entryIDs[field]
}
