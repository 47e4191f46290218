package website

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/jtushya/new-company-website/forms"
	"github.com/jtushya/new-company-website/views"
)

const (
	msgSubmitted   = "Thank you! Your message has been sent. We'll get back to you within 24 hours."
	msgApplied     = "Thank you for applying! Our team will review your application and reach out soon."
	msgFailed      = "Sorry, we couldn't send your message right now. Please reach us directly."
	msgRateLimited = "You've sent several messages in a short time. Please wait a minute and try again."
)

type formCopy struct {
	Title       string
	Lead        string
	Description string
}

var formPages = map[string]formCopy{
	forms.Contact.Name: {
		Title:       "Contact Us",
		Lead:        "Tell us about your project and we'll reply within 24 hours.",
		Description: "Get in touch with our team by form, phone or email.",
	},
	forms.GetStarted.Name: {
		Title:       "Get Started",
		Lead:        "Share a few details and we'll put together a plan for your project.",
		Description: "Start your project: websites in 6 hours, video, marketing and software.",
	},
	forms.Careers.Name: {
		Title:       "Careers",
		Lead:        "Join a remote-first team that ships fast and learns faster.",
		Description: "Open positions and how to apply.",
	},
}

// formFor returns the form served at the request's route.
func formFor(c echo.Context) (forms.Form, bool) {
	for _, f := range forms.All {
		if f.Path == c.Path() {
			return f, true
		}
	}
	return forms.Form{}, false
}

func (a *App) formPage(c echo.Context, f forms.Form, s forms.Submission, missing []string) views.FormPage {
	fc := formPages[f.Name]
	return views.FormPage{
		Layout:     a.layout(c, views.Head{Title: fc.Title + " | " + a.Config.Name, Description: fc.Description}),
		Title:      fc.Title,
		Lead:       fc.Lead,
		Action:     f.Path,
		Contact:    f.Name == forms.Contact.Name,
		GetStarted: f.Name == forms.GetStarted.Name,
		Careers:    f.Name == forms.Careers.Name,
		Values: views.FormValues{
			Name:        s.Name,
			Email:       s.Email,
			Phone:       s.Phone,
			Company:     s.Company,
			Message:     s.Message,
			CoverLetter: s.CoverLetter,
		},
		Missing:   missing,
		Services:  serviceOptions(s.Service),
		Budgets:   selectOptions(budgetOptions, s.Budget),
		Timelines: selectOptions(timelineOptions, s.Timeline),
		Positions: selectOptions(positionOptions, s.Position),
	}
}

func (a *App) handleForm(c echo.Context) error {
	f, ok := formFor(c)
	if !ok {
		return a.renderNotFound(c)
	}
	s := forms.Submission{Service: c.QueryParam("service"), Position: c.QueryParam("position")}
	return Render(c, a.Views.Form(a.formPage(c, f, s, nil)))
}

// handleFormSubmit forwards a lead form to the backend once and redirects
// back to the form with the outcome as a flash message. Missing required
// fields re-render the form instead.
func (a *App) handleFormSubmit(c echo.Context) error {
	f, ok := formFor(c)
	if !ok {
		return a.renderNotFound(c)
	}

	if !a.formLimiter.Allow(c.RealIP()) {
		if err := setFlash(c, flashError, msgRateLimited); err != nil {
			return err
		}
		return c.Redirect(http.StatusSeeOther, f.Path)
	}

	var s forms.Submission
	if err := c.Bind(&s); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form data")
	}
	s.Trim()

	origin := c.FormValue("originPage")
	if origin == "" {
		origin = f.Path
	}
	t := forms.Tracking{
		OriginPage: origin,
		Referrer:   c.FormValue("referrer"),
		URLParams:  c.FormValue("urlParams"),
	}

	err := a.forms.Submit(c.Request().Context(), f, s, t)
	var verr *forms.ValidationError
	switch {
	case err == nil:
		msg := msgSubmitted
		if f.Name == forms.Careers.Name {
			msg = msgApplied
		}
		if err := setFlash(c, flashSuccess, msg); err != nil {
			return err
		}
	case errors.As(err, &verr):
		return RenderStatus(c, http.StatusUnprocessableEntity, a.Views.Form(a.formPage(c, f, s, verr.Fields)))
	case errors.Is(err, forms.ErrSubmission):
		if err := setFlash(c, flashError, msgFailed); err != nil {
			return err
		}
	default:
		return err
	}
	return c.Redirect(http.StatusSeeOther, f.Path)
}
