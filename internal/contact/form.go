// Package contact validates contact form submissions, turns accepted ones
// into stored inquiries and models the form's submitted/reset lifecycle.
package contact

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/unicode/norm"
)

// MaxMessageLength bounds the message field, in characters.
const MaxMessageLength = 5000

// ProjectType is one of the options offered in the form's select.
type ProjectType struct {
	Value string
	Label string
	JP    string
}

// ProjectTypes lists the options in display order. The validation tag on
// Submission.ProjectType must list the same values.
var ProjectTypes = []ProjectType{
	{Value: "commercial", Label: "Commercial", JP: "コマーシャル"},
	{Value: "music-video", Label: "Music Video", JP: "ミュージックビデオ"},
	{Value: "documentary", Label: "Documentary", JP: "ドキュメンタリー"},
	{Value: "short-film", Label: "Short Film", JP: "ショートフィルム"},
	{Value: "wedding", Label: "Wedding", JP: "結婚式"},
	{Value: "other", Label: "Other", JP: "その他"},
}

// LookupProjectType returns the option with the given value.
func LookupProjectType(value string) (ProjectType, bool) {
	for _, pt := range ProjectTypes {
		if pt.Value == value {
			return pt, true
		}
	}
	return ProjectType{}, false
}

// Submission is the raw form payload.
type Submission struct {
	Name        string `form:"name" json:"name" validate:"required,max=200"`
	Email       string `form:"email" json:"email" validate:"required,email,max=320"`
	ProjectType string `form:"project" json:"project" validate:"required,oneof=commercial music-video documentary short-film wedding other"`
	Message     string `form:"message" json:"message" validate:"required,max=5000"`
}

// ValidationError lists every invalid field, keyed by form field name.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+" "+e.Fields[name])
	}
	return "invalid submission: " + strings.Join(parts, "; ")
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("form"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// Normalize trims every field, folds the text to NFC so that Japanese
// input typed on different keyboards compares equal, and lower-cases the
// email address.
func Normalize(s Submission) Submission {
	clean := func(v string) string {
		return strings.TrimSpace(norm.NFC.String(v))
	}
	return Submission{
		Name:        clean(s.Name),
		Email:       strings.ToLower(clean(s.Email)),
		ProjectType: clean(s.ProjectType),
		Message:     clean(s.Message),
	}
}

// Validate checks a normalized submission. The returned error is a
// *ValidationError when the input itself is at fault.
func Validate(s Submission) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validate submission: %w", err)
	}
	ve := &ValidationError{Fields: make(map[string]string, len(fieldErrs))}
	for _, fe := range fieldErrs {
		ve.Fields[fe.Field()] = fieldMessage(fe)
	}
	return ve
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "oneof":
		return "must be one of the listed project types"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	default:
		return "is invalid"
	}
}
