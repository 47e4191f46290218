// Package forms validates lead-form submissions and forwards them to the
// external form backend.
package forms

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Form describes one lead form on the site.
type Form struct {
	Name     string   // stable identifier, also sent as the origin page
	Path     string   // page hosting the form
	Required []string // Submission field names that must be non-blank
}

var (
	Contact = Form{
		Name:     "contact",
		Path:     "/contact/",
		Required: []string{"Name", "Email", "Message"},
	}
	GetStarted = Form{
		Name:     "get-started",
		Path:     "/get-started/",
		Required: []string{"Name", "Email", "Message"},
	}
	Careers = Form{
		Name:     "careers",
		Path:     "/careers/",
		Required: []string{"Name", "Email", "Position", "CoverLetter"},
	}
)

// All lists every form the site serves.
var All = []Form{Contact, GetStarted, Careers}

// Lookup returns the form called name.
func Lookup(name string) (Form, bool) {
	for _, f := range All {
		if f.Name == name {
			return f, true
		}
	}
	return Form{}, false
}

// Submission is the union of the fields posted by the lead forms.
type Submission struct {
	Name        string `form:"name" json:"name" validate:"required"`
	Email       string `form:"email" json:"email" validate:"required"`
	Phone       string `form:"phone" json:"phone,omitempty"`
	Company     string `form:"company" json:"company,omitempty"`
	Service     string `form:"service" json:"service,omitempty"`
	Budget      string `form:"budget" json:"budget,omitempty"`
	Timeline    string `form:"timeline" json:"timeline,omitempty"`
	Message     string `form:"message" json:"message,omitempty" validate:"required"`
	Position    string `form:"position" json:"position,omitempty" validate:"required"`
	CoverLetter string `form:"coverLetter" json:"coverLetter,omitempty" validate:"required"`
}

// Trim removes surrounding whitespace from every field.
func (s *Submission) Trim() {
	v := reflect.ValueOf(s).Elem()
	for i := 0; i < v.NumField(); i++ {
		if f := v.Field(i); f.Kind() == reflect.String {
			f.SetString(strings.TrimSpace(f.String()))
		}
	}
}

// ValidationError lists the required fields left blank, by form field name.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "missing required fields: " + strings.Join(e.Fields, ", ")
}

var validate = validator.New()

// Validate checks the required fields of form. It returns a *ValidationError
// when any are blank.
func (f Form) Validate(s Submission) error {
	s.Trim()
	err := validate.StructPartial(s, f.Required...)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate %s form: %w", f.Name, err)
	}
	fields := make([]string, 0, len(verrs))
	typ := reflect.TypeOf(s)
	for _, fe := range verrs {
		name := fe.StructField()
		if sf, ok := typ.FieldByName(name); ok {
			name = sf.Tag.Get("form")
		}
		fields = append(fields, name)
	}
	return &ValidationError{Fields: fields}
}
