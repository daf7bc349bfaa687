// Package inputval validates form input structs through struct tags and
// reports failures keyed by form field name.
//
//	type editInput struct {
//		Title string `form:"title" validate:"required,max=300" label:"title"`
//	}
//
//	if res := inputval.Validate(in); res.HasErrors() {
//		data.Errors = res.Fields() // {"title": "title is required"}
//	}
//
// The form tag names the key in Fields (it falls back to the Go field name)
// and the label tag is the human name used in messages.
package inputval

import (
	"fmt"
	"net/url"
	"reflect"
	"strings"

	"github.com/dalemusser/exhibithub/internal/app/system/civildate"
	"github.com/dalemusser/exhibithub/internal/domain/models"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FieldError is one failed rule.
type FieldError struct {
	Field   string // form field name
	Message string
}

// Result collects every failed rule in struct field order.
type Result struct {
	Errors []FieldError
}

// HasErrors reports whether any rule failed.
func (r *Result) HasErrors() bool { return r != nil && len(r.Errors) > 0 }

// First returns the first message, or "".
func (r *Result) First() string {
	if !r.HasErrors() {
		return ""
	}
	return r.Errors[0].Message
}

// All joins every message with "; ".
func (r *Result) All() string {
	if !r.HasErrors() {
		return ""
	}
	msgs := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		msgs[i] = e.Message
	}
	return strings.Join(msgs, "; ")
}

// Fields maps each failing field to its first message.
func (r *Result) Fields() map[string]string {
	out := map[string]string{}
	if r == nil {
		return out
	}
	for _, e := range r.Errors {
		if _, ok := out[e.Field]; !ok {
			out[e.Field] = e.Message
		}
	}
	return out
}

// Add appends a failure that no tag expresses (cross-field or store checks).
func (r *Result) Add(field, msg string) {
	r.Errors = append(r.Errors, FieldError{Field: field, Message: msg})
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})

	must := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(fmt.Sprintf("inputval: register %s: %v", tag, err))
		}
	}
	must("httpurl", func(fl validator.FieldLevel) bool { return IsValidHTTPURL(fl.Field().String()) })
	must("civildate", func(fl validator.FieldLevel) bool { return civildate.Valid(fl.Field().String()) })
	must("objectid", func(fl validator.FieldLevel) bool { return IsValidObjectID(fl.Field().String()) })
	must("venuetype", func(fl validator.FieldLevel) bool { return models.Contains(models.VenueTypes, fl.Field().String()) })
	must("area", func(fl validator.FieldLevel) bool { return models.Contains(models.Areas, fl.Field().String()) })
	must("region", func(fl validator.FieldLevel) bool { return models.Contains(models.Regions, fl.Field().String()) })
	must("exhibitionstatus", func(fl validator.FieldLevel) bool {
		return models.Contains(models.ExhibitionStatuses, fl.Field().String())
	})

	return v
}

// Validate runs the struct tag rules on s, which must be a struct or a
// pointer to one.
func Validate(s any) *Result {
	res := &Result{}
	err := validate.Struct(s)
	if err == nil {
		return res
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		res.Add("", err.Error())
		return res
	}

	labels := labelsOf(s)
	for _, fe := range verrs {
		label := labels[fe.StructField()]
		if label == "" {
			label = fe.Field()
		}
		res.Add(fe.Field(), message(fe, label))
	}
	return res
}

func labelsOf(s any) map[string]string {
	t := reflect.TypeOf(s)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	out := map[string]string{}
	if t.Kind() != reflect.Struct {
		return out
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		out[f.Name] = f.Tag.Get("label")
	}
	return out
}

func message(fe validator.FieldError, label string) string {
	switch fe.Tag() {
	case "required":
		return label + " is required"
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", label, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", label, fe.Param())
	case "httpurl", "url", "http_url":
		return label + " must be a valid http(s) URL"
	case "civildate":
		return label + " must be a valid date"
	case "objectid":
		return label + " is not a valid id"
	case "venuetype", "area", "region", "exhibitionstatus", "oneof":
		return label + " must be one of the listed values"
	}
	return label + " is invalid"
}

// IsValidHTTPURL reports whether s is an absolute http or https URL with a host.
func IsValidHTTPURL(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != "" && !strings.ContainsAny(u.Host, " \t")
}

// IsValidObjectID reports whether s is a 24 character hex ObjectID.
func IsValidObjectID(s string) bool {
	_, err := primitive.ObjectIDFromHex(strings.TrimSpace(s))
	return err == nil
}
